package repository

import (
	"context"

	"github.com/maxviazov/football-sim-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager runs fn in a transaction carried by ctx. Repositories called with
// that ctx join the transaction; any error from fn rolls everything back.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TeamRepository declares persistence operations for teams.
type TeamRepository interface {
	Create(ctx context.Context, t model.Team) (model.Team, error)
	GetByID(ctx context.Context, id int64) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
	Exists(ctx context.Context, id int64) (bool, error)
	// GetTeamAggregatedStats summarises played matches, optionally for one season.
	// A nil season covers every season.
	GetTeamAggregatedStats(ctx context.Context, teamID int64, season *int) (model.TeamAggregatedStats, error)
}

// PlayerRepository declares persistence operations for players.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	ListByTeam(ctx context.Context, teamID int64, p Page) (PageResult[model.Player], error)
	// Roster returns every player of a team ordered by id, unpaginated.
	Roster(ctx context.Context, teamID int64) ([]model.Player, error)
	Exists(ctx context.Context, id int64) (bool, error)
	GetPlayerAggregatedStats(ctx context.Context, playerID int64, season *int) (model.PlayerAggregatedStats, error)
}

// MatchRepository declares persistence operations for fixtures and their results.
type MatchRepository interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	GetByID(ctx context.Context, id int64) (model.Match, error)
	List(ctx context.Context, f MatchFilter, p Page) (PageResult[model.Match], error)
	// SaveResult writes the played match, its events and box scores and returns
	// the bundle with storage ids filled in. It returns ErrConflict when the
	// match is already marked played and ErrNotFound when it doesn't exist.
	// Callers wrap it in TxManager.WithinTx.
	SaveResult(ctx context.Context, res model.SimulationResult) (model.SimulationResult, error)
	ListEvents(ctx context.Context, matchID int64) ([]model.MatchEvent, error)
	ListPlayerStats(ctx context.Context, matchID int64) ([]model.PlayerMatchStats, error)
}

// MatchFilter narrows match listings; zero values mean "any".
type MatchFilter struct {
	TeamID int64
	Season *int
	Played *bool
}
