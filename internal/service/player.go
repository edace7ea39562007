package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

type playerService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, teams repository.TeamRepository, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, teams: teams, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, in PlayerInput) (model.Player, error) {
	start := time.Now()

	// Normalize early so validation and persistence see canonical values.
	p := model.Player{
		TeamID:    in.TeamID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Position:  model.ParsePosition(in.Position),
		Skills:    model.UniformSkills(DefaultSkillRating),
	}
	if in.Skills != nil {
		p.Skills = *in.Skills
	}

	ferrs := checkID("team_id", p.TeamID)
	ferrs = append(ferrs, checkName("first_name", p.FirstName, false)...)
	ferrs = append(ferrs, checkName("last_name", p.LastName, true)...)
	if !p.Position.Known() {
		ferrs = append(ferrs, FieldError{Field: "position", Message: "must be one of GK, DEF, MID, FWD"})
	}
	ferrs = append(ferrs, structErrors("skills", p.Skills)...)

	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("pos_raw", in.Position).Msg("player validation failed")
		return model.Player{}, err
	}

	// Existence check gives a clearer message than the FK violation would.
	if _, err := s.teams.GetByID(ctx, p.TeamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Player{}, NewInvalidInputError("team_id", "team does not exist")
		}
		return model.Player{}, err
	}

	out, err := s.players.Create(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", p.TeamID).Str("last_name", p.LastName).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if err := newInvalidInput(checkID("id", id)); err != nil {
		return model.Player{}, err
	}
	return s.players.GetByID(ctx, id)
}

func (s *playerService) ListPlayersByTeam(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error) {
	if err := newInvalidInput(checkID("team_id", teamID)); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	ok, err := s.teams.Exists(ctx, teamID)
	if err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	if !ok {
		return repository.PageResult[model.Player]{}, repository.ErrNotFound
	}

	p := normalizePage(page)
	res, err := s.players.ListByTeam(ctx, teamID, p)
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", teamID).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}

// GetPlayerAggregatedStats totals a player's box scores; the average rating is
// rounded to two decimals.
func (s *playerService) GetPlayerAggregatedStats(ctx context.Context, playerID int64, season *int) (model.PlayerAggregatedStats, error) {
	ferrs := append(checkID("id", playerID), checkSeasonFilter(season)...)
	if err := newInvalidInput(ferrs); err != nil {
		return model.PlayerAggregatedStats{}, err
	}

	ok, err := s.players.Exists(ctx, playerID)
	if err != nil {
		return model.PlayerAggregatedStats{}, err
	}
	if !ok {
		return model.PlayerAggregatedStats{}, repository.ErrNotFound
	}

	stats, err := s.players.GetPlayerAggregatedStats(ctx, playerID, season)
	if err != nil {
		s.log.Error().Err(err).Int64("player_id", playerID).Msg("failed to get player aggregated stats")
		return model.PlayerAggregatedStats{}, err
	}
	stats.AvgRating = math.Round(stats.AvgRating*100) / 100
	return stats, nil
}
