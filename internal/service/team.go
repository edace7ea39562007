package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

const shortNameLength = 3

// teamService holds team use-case logic: validation + orchestration, no transport / SQL details.
type teamService struct {
	repo repository.TeamRepository
	log  zerolog.Logger
}

func NewTeamService(repo repository.TeamRepository, logger zerolog.Logger) TeamService {
	l := logger.With().Str("module", "service").Str("component", "team").Logger()
	return &teamService{repo: repo, log: l}
}

func (s *teamService) CreateTeam(ctx context.Context, in TeamInput) (model.Team, error) {
	start := time.Now()
	team := model.Team{
		Name:                    strings.TrimSpace(in.Name),
		ShortName:               strings.ToUpper(strings.TrimSpace(in.ShortName)),
		HomeCity:                strings.TrimSpace(in.HomeCity),
		LeagueID:                in.LeagueID,
		Reputation:              orDefault(in.Reputation, DefaultTeamRating),
		StadiumQuality:          orDefault(in.StadiumQuality, DefaultTeamRating),
		TrainingFacilityQuality: orDefault(in.TrainingFacilityQuality, DefaultTeamRating),
	}
	if team.ShortName == "" {
		team.ShortName = abbreviate(team.Name)
	}

	var ferrs []FieldError
	ferrs = append(ferrs, checkName("name", team.Name, true)...)
	if n := len([]rune(team.Name)); n == 1 {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be >= 2"})
	}
	if n := len([]rune(team.ShortName)); n > 5 {
		ferrs = append(ferrs, FieldError{Field: "short_name", Message: "length must be <= 5"})
	}
	ferrs = append(ferrs, checkName("home_city", team.HomeCity, false)...)
	if team.LeagueID < 0 {
		ferrs = append(ferrs, FieldError{Field: "league_id", Message: "must be >= 0"})
	}
	ferrs = append(ferrs, structErrors("", team)...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("name_raw", in.Name).Interface("field_errors", ferrs).Msg("team validation failed")
		return model.Team{}, err
	}

	out, err := s.repo.Create(ctx, team)
	if err != nil {
		// repository already surfaces domain errors
		s.log.Error().Err(err).Str("name", team.Name).Msg("create team failed")
		return model.Team{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("team_id", out.ID).Msg("team created")
	return out, nil
}

// abbreviate derives a short name from the first letters of the club name.
func abbreviate(name string) string {
	letters := make([]rune, 0, shortNameLength)
	for _, r := range strings.ToUpper(name) {
		if r == ' ' {
			continue
		}
		letters = append(letters, r)
		if len(letters) == shortNameLength {
			break
		}
	}
	return string(letters)
}

func (s *teamService) GetTeam(ctx context.Context, id int64) (model.Team, error) {
	if err := newInvalidInput(checkID("id", id)); err != nil {
		return model.Team{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *teamService) ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error) {
	p := normalizePage(page)
	res, err := s.repo.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list teams failed")
		return repository.PageResult[model.Team]{}, err
	}
	return res, nil
}

// GetTeamAggregatedStats returns the league-table line of a team. Unknown
// teams are reported as ErrNotFound rather than an all-zero line.
func (s *teamService) GetTeamAggregatedStats(ctx context.Context, teamID int64, season *int) (model.TeamAggregatedStats, error) {
	ferrs := append(checkID("id", teamID), checkSeasonFilter(season)...)
	if err := newInvalidInput(ferrs); err != nil {
		return model.TeamAggregatedStats{}, err
	}

	ok, err := s.repo.Exists(ctx, teamID)
	if err != nil {
		return model.TeamAggregatedStats{}, err
	}
	if !ok {
		return model.TeamAggregatedStats{}, repository.ErrNotFound
	}

	stats, err := s.repo.GetTeamAggregatedStats(ctx, teamID, season)
	if err != nil {
		s.log.Error().Err(err).Int64("team_id", teamID).Msg("failed to get team aggregated stats")
		return model.TeamAggregatedStats{}, err
	}
	return stats, nil
}
