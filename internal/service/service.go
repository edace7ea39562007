// Package service holds business logic orchestration across repositories and handlers.
// Kept lean: use-case coordination, validation and domain error shaping only.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

var (
	// ErrAlreadyPlayed is returned when simulating a match that already has a result.
	ErrAlreadyPlayed = errors.New("match already played")
	// ErrNotPlayed is returned when asking for the result of an unplayed match.
	ErrNotPlayed = errors.New("match not played yet")
)

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates FieldErrors and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput returns nil when fe is empty so callers can test it directly.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// NewInvalidInputError builds a validation error for a single field.
// Handlers use it for malformed path and query parameters.
func NewInvalidInputError(field, message string) error {
	return newInvalidInput([]FieldError{{Field: field, Message: message}})
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	var ie *invalidInputError
	if errors.As(err, &ie) {
		return ie.Fields()
	}
	return nil
}

// TeamInput is the client-supplied part of a team. Zero ratings fall back to DefaultTeamRating.
type TeamInput struct {
	Name                    string
	ShortName               string
	HomeCity                string
	LeagueID                int64
	Reputation              int
	StadiumQuality          int
	TrainingFacilityQuality int
}

// PlayerInput is the client-supplied part of a player. A nil Skills means
// every attribute at DefaultSkillRating.
type PlayerInput struct {
	TeamID    int64
	FirstName string
	LastName  string
	Position  string
	Skills    *model.Skills
}

// MatchInput schedules a fixture between two existing teams.
type MatchInput struct {
	HomeTeamID int64
	AwayTeamID int64
	LeagueID   int64
	Season     int
	Week       int
	MatchDate  time.Time
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, in TeamInput) (model.Team, error)
	GetTeam(ctx context.Context, id int64) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
	GetTeamAggregatedStats(ctx context.Context, teamID int64, season *int) (model.TeamAggregatedStats, error)
}

// PlayerService defines player-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, in PlayerInput) (model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID int64, page repository.Page) (repository.PageResult[model.Player], error)
	GetPlayerAggregatedStats(ctx context.Context, playerID int64, season *int) (model.PlayerAggregatedStats, error)
}

// MatchService defines fixture scheduling and lookup.
type MatchService interface {
	CreateMatch(ctx context.Context, in MatchInput) (model.Match, error)
	GetMatch(ctx context.Context, id int64) (model.Match, error)
	ListMatches(ctx context.Context, f repository.MatchFilter, page repository.Page) (repository.PageResult[model.Match], error)
}

// SimulationService plays fixtures and serves their results.
type SimulationService interface {
	SimulateMatch(ctx context.Context, matchID int64) (model.SimulationResult, error)
	GetMatchResult(ctx context.Context, matchID int64) (model.SimulationResult, error)
}
