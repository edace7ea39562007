package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

type matchService struct {
	matches repository.MatchRepository
	teams   repository.TeamRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func NewMatchService(matches repository.MatchRepository, teams repository.TeamRepository, tx repository.TxManager, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{matches: matches, teams: teams, tx: tx, log: l}
}

func (s *matchService) CreateMatch(ctx context.Context, in MatchInput) (model.Match, error) {
	start := time.Now()

	ferrs := checkID("home_team_id", in.HomeTeamID)
	ferrs = append(ferrs, checkID("away_team_id", in.AwayTeamID)...)
	if in.HomeTeamID > 0 && in.HomeTeamID == in.AwayTeamID {
		ferrs = append(ferrs, FieldError{Field: "teams", Message: "home and away must differ"})
	}
	if in.LeagueID < 0 {
		ferrs = append(ferrs, FieldError{Field: "league_id", Message: "must be >= 0"})
	}
	if !IsValidSeason(in.Season) {
		ferrs = append(ferrs, FieldError{Field: "season", Message: fmt.Sprintf("must be between %d and %d", minSeason, maxSeason)})
	}
	if in.Week < 1 || in.Week > maxWeek {
		ferrs = append(ferrs, FieldError{Field: "week", Message: fmt.Sprintf("must be between 1 and %d", maxWeek)})
	}
	if in.MatchDate.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "match_date", Message: "must be set"})
	}

	// Early exit if basic structure is invalid; do not touch the database.
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed (structure)")
		return model.Match{}, err
	}

	var out model.Match
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var existenceErrs []FieldError
		for _, side := range []struct {
			field string
			id    int64
		}{{"home_team_id", in.HomeTeamID}, {"away_team_id", in.AwayTeamID}} {
			ok, err := s.teams.Exists(ctx, side.id)
			if err != nil {
				return err
			}
			if !ok {
				existenceErrs = append(existenceErrs, FieldError{Field: side.field, Message: "team does not exist"})
			}
		}
		if err := newInvalidInput(existenceErrs); err != nil {
			return err
		}

		var err error
		out, err = s.matches.Create(ctx, model.Match{
			HomeTeamID: in.HomeTeamID,
			AwayTeamID: in.AwayTeamID,
			LeagueID:   in.LeagueID,
			Season:     in.Season,
			Week:       in.Week,
			MatchDate:  in.MatchDate.UTC(),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("match validation failed (existence)")
		} else {
			s.log.Error().Err(err).Int64("home_team_id", in.HomeTeamID).Int64("away_team_id", in.AwayTeamID).Msg("create match failed")
		}
		return model.Match{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("match_id", out.ID).Msg("match scheduled")
	return out, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	if err := newInvalidInput(checkID("id", id)); err != nil {
		return model.Match{}, err
	}
	return s.matches.GetByID(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, f repository.MatchFilter, page repository.Page) (repository.PageResult[model.Match], error) {
	var ferrs []FieldError
	if f.TeamID < 0 {
		ferrs = append(ferrs, FieldError{Field: "team_id", Message: "must be > 0"})
	}
	ferrs = append(ferrs, checkSeasonFilter(f.Season)...)
	if err := newInvalidInput(ferrs); err != nil {
		return repository.PageResult[model.Match]{}, err
	}

	p := normalizePage(page)
	res, err := s.matches.List(ctx, f, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	return res, nil
}
