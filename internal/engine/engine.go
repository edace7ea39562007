// Package engine simulates a single football match from team and roster snapshots.
// It is a pure computation: no I/O, no shared state. Every random draw comes from
// the Rand passed to Simulate, so a seeded Rand makes the whole result reproducible.
package engine

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/maxviazov/football-sim-service/internal/model"
)

var (
	ErrNilRand            = errors.New("engine: random source is required")
	ErrTeamMismatch       = errors.New("engine: teams do not match fixture")
	ErrMatchAlreadyPlayed = errors.New("engine: match already played")
)

// Input is everything a simulation needs, resolved in advance by the caller.
type Input struct {
	Match       model.Match
	HomeTeam    model.Team
	AwayTeam    model.Team
	HomePlayers []model.Player
	AwayPlayers []model.Player
}

// Engine runs simulations. It holds only a logger and is safe for concurrent use
// as long as each call gets its own Rand.
type Engine struct {
	log zerolog.Logger
}

func New(logger zerolog.Logger) *Engine {
	l := logger.With().Str("module", "engine").Str("component", "simulation").Logger()
	return &Engine{log: l}
}

// Simulate plays the fixture and returns a new Match with IsPlayed set and stats
// populated, the minute-ordered event list and one box score per rostered player.
// A player listed more than once counts once, at the first position in the roster.
// in.Match and the input rosters are never mutated.
func (e *Engine) Simulate(r Rand, in Input) (model.SimulationResult, error) {
	if r == nil {
		return model.SimulationResult{}, ErrNilRand
	}
	if in.Match.IsPlayed {
		return model.SimulationResult{}, ErrMatchAlreadyPlayed
	}
	if in.HomeTeam.ID != in.Match.HomeTeamID || in.AwayTeam.ID != in.Match.AwayTeamID || in.HomeTeam.ID == in.AwayTeam.ID {
		return model.SimulationResult{}, ErrTeamMismatch
	}

	homePlayers := uniquePlayers(in.HomePlayers)
	awayPlayers := uniquePlayers(in.AwayPlayers)

	homeStrength := TeamStrength(in.HomeTeam, homePlayers)
	awayStrength := TeamStrength(in.AwayTeam, awayPlayers)
	stats := GenerateMatchStats(r, homeStrength, awayStrength)

	home := Side{Team: in.HomeTeam, Roster: homePlayers, Goals: stats.HomeGoals, YellowCards: stats.HomeYellowCards, RedCards: stats.HomeRedCards}.playable()
	away := Side{Team: in.AwayTeam, Roster: awayPlayers, Goals: stats.AwayGoals, YellowCards: stats.AwayYellowCards, RedCards: stats.AwayRedCards}.playable()

	// Nobody on the sheet means nothing can be attributed; keep aggregates equal to events.
	stats.HomeGoals, stats.HomeYellowCards, stats.HomeRedCards = home.Goals, home.YellowCards, home.RedCards
	stats.AwayGoals, stats.AwayYellowCards, stats.AwayRedCards = away.Goals, away.YellowCards, away.RedCards

	events := BuildTimeline(r, in.Match.ID, home, away)
	boxScores := BuildBoxScores(r, in.Match.ID, home, away, events, stats.HomePossession)

	played := in.Match
	played.IsPlayed = true
	played.Stats = stats

	e.log.Debug().
		Int64("match_id", played.ID).
		Int("home_strength", homeStrength).
		Int("away_strength", awayStrength).
		Int("home_goals", stats.HomeGoals).
		Int("away_goals", stats.AwayGoals).
		Int("events", len(events)).
		Msg("match simulated")

	return model.SimulationResult{Match: played, Events: events, PlayerStats: boxScores}, nil
}

// uniquePlayers drops repeated player ids, keeping the first occurrence.
func uniquePlayers(roster []model.Player) []model.Player {
	seen := make(map[int64]struct{}, len(roster))
	out := make([]model.Player, 0, len(roster))
	for _, p := range roster {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
