package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/football-sim-service/internal/engine"
	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

// Simulator is the engine surface the service depends on.
type Simulator interface {
	Simulate(r engine.Rand, in engine.Input) (model.SimulationResult, error)
}

// RandSource hands out a fresh generator for one simulation of matchID.
type RandSource func(matchID int64) engine.Rand

// SeededRand makes every match's result a pure function of seed and match id.
// A zero seed draws fresh entropy per call instead.
func SeededRand(seed uint64) RandSource {
	if seed == 0 {
		return func(int64) engine.Rand { return engine.NewEntropyRand() }
	}
	return func(matchID int64) engine.Rand { return engine.NewRand(seed, uint64(matchID)) }
}

type simulationService struct {
	matches repository.MatchRepository
	teams   repository.TeamRepository
	players repository.PlayerRepository
	tx      repository.TxManager
	sim     Simulator
	rand    RandSource
	log     zerolog.Logger
}

type SimulationDeps struct {
	Matches repository.MatchRepository
	Teams   repository.TeamRepository
	Players repository.PlayerRepository
	Tx      repository.TxManager
	Engine  Simulator
	Rand    RandSource
}

func NewSimulationService(d SimulationDeps, logger zerolog.Logger) SimulationService {
	l := logger.With().Str("module", "service").Str("component", "simulation").Logger()
	if d.Rand == nil {
		d.Rand = SeededRand(0)
	}
	return &simulationService{
		matches: d.Matches,
		teams:   d.Teams,
		players: d.Players,
		tx:      d.Tx,
		sim:     d.Engine,
		rand:    d.Rand,
		log:     l,
	}
}

// SimulateMatch resolves the fixture, runs the engine and persists the whole
// bundle in one transaction. Lookup failures surface before the engine runs;
// a concurrent simulation of the same match loses with ErrAlreadyPlayed.
func (s *simulationService) SimulateMatch(ctx context.Context, matchID int64) (model.SimulationResult, error) {
	start := time.Now()
	if err := newInvalidInput(checkID("id", matchID)); err != nil {
		return model.SimulationResult{}, err
	}

	in, err := s.loadInput(ctx, matchID)
	if err != nil {
		return model.SimulationResult{}, err
	}

	res, err := s.sim.Simulate(s.rand(matchID), in)
	if err != nil {
		if errors.Is(err, engine.ErrMatchAlreadyPlayed) {
			return model.SimulationResult{}, ErrAlreadyPlayed
		}
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("simulation failed")
		return model.SimulationResult{}, fmt.Errorf("simulate match %d: %w", matchID, err)
	}

	var saved model.SimulationResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.matches.SaveResult(ctx, res)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.SimulationResult{}, ErrAlreadyPlayed
		}
		s.log.Error().Err(err).Int64("match_id", matchID).Msg("persist simulation failed")
		return model.SimulationResult{}, err
	}

	s.log.Info().
		Dur("took", time.Since(start)).
		Int64("match_id", matchID).
		Int("home_goals", saved.Match.Stats.HomeGoals).
		Int("away_goals", saved.Match.Stats.AwayGoals).
		Int("events", len(saved.Events)).
		Msg("match simulated")
	return saved, nil
}

func (s *simulationService) loadInput(ctx context.Context, matchID int64) (engine.Input, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return engine.Input{}, err
	}
	if m.IsPlayed {
		return engine.Input{}, ErrAlreadyPlayed
	}

	home, err := s.teams.GetByID(ctx, m.HomeTeamID)
	if err != nil {
		return engine.Input{}, fmt.Errorf("load home team %d: %w", m.HomeTeamID, err)
	}
	away, err := s.teams.GetByID(ctx, m.AwayTeamID)
	if err != nil {
		return engine.Input{}, fmt.Errorf("load away team %d: %w", m.AwayTeamID, err)
	}
	homePlayers, err := s.players.Roster(ctx, home.ID)
	if err != nil {
		return engine.Input{}, fmt.Errorf("load home roster: %w", err)
	}
	awayPlayers, err := s.players.Roster(ctx, away.ID)
	if err != nil {
		return engine.Input{}, fmt.Errorf("load away roster: %w", err)
	}

	return engine.Input{
		Match:       m,
		HomeTeam:    home,
		AwayTeam:    away,
		HomePlayers: homePlayers,
		AwayPlayers: awayPlayers,
	}, nil
}

func (s *simulationService) GetMatchResult(ctx context.Context, matchID int64) (model.SimulationResult, error) {
	if err := newInvalidInput(checkID("id", matchID)); err != nil {
		return model.SimulationResult{}, err
	}
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return model.SimulationResult{}, err
	}
	if !m.IsPlayed {
		return model.SimulationResult{}, ErrNotPlayed
	}
	events, err := s.matches.ListEvents(ctx, matchID)
	if err != nil {
		return model.SimulationResult{}, err
	}
	stats, err := s.matches.ListPlayerStats(ctx, matchID)
	if err != nil {
		return model.SimulationResult{}, err
	}
	return model.SimulationResult{Match: m, Events: events, PlayerStats: stats}, nil
}
