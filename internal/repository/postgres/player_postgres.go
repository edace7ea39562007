package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

const playerColumns = `id, team_id, first_name, last_name, position, skills, created_at, updated_at`

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

// scanPlayer decodes skills straight from JSONB.
func scanPlayer(row rowScanner, extra ...any) (model.Player, error) {
	var (
		p        model.Player
		position string
	)
	dest := []any{&p.ID, &p.TeamID, &p.FirstName, &p.LastName, &position, &p.Skills, &p.CreatedAt, &p.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Player{}, err
	}
	p.Position = model.ParsePosition(position)
	return p, nil
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO players (team_id, first_name, last_name, position, skills)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+playerColumns,
		p.TeamID, p.FirstName, p.LastName, p.Position.String(), p.Skills,
	)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID int64, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p = p.Sanitize()
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total
		 FROM players WHERE team_id = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		teamID, p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, p.Limit)}
	for rows.Next() {
		var total int
		it, err := scanPlayer(rows, &total)
		if err != nil {
			return repository.PageResult[model.Player]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (r *playerRepository) Roster(ctx context.Context, teamID int64) ([]model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+playerColumns+` FROM players WHERE team_id = $1 ORDER BY id`, teamID,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.Player, 0, 25)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

// Exists performs a lightweight check to see if a player with the given ID exists.
func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

// GetPlayerAggregatedStats sums box scores over the player's appearances,
// optionally restricted to one season via the owning match.
func (r *playerRepository) GetPlayerAggregatedStats(ctx context.Context, playerID int64, season *int) (model.PlayerAggregatedStats, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.PlayerAggregatedStats{}, err
	}

	query := `
		SELECT
			COUNT(*) AS appearances,
			COALESCE(SUM(s.minutes_played), 0) AS minutes_played,
			COALESCE(SUM(s.goals), 0) AS goals,
			COALESCE(SUM(s.assists), 0) AS assists,
			COALESCE(SUM(s.yellow_cards), 0) AS yellow_cards,
			COALESCE(SUM(CASE WHEN s.red_card THEN 1 ELSE 0 END), 0) AS red_cards,
			COALESCE(AVG(s.rating), 0) AS avg_rating
		FROM player_match_stats s
		JOIN matches m ON m.id = s.match_id
		WHERE s.player_id = $1 AND ($2::INT IS NULL OR m.season = $2)
	`

	var stats model.PlayerAggregatedStats
	err := getQ(ctx, r.pool).QueryRow(ctx, query, playerID, season).Scan(
		&stats.Appearances,
		&stats.MinutesPlayed,
		&stats.Goals,
		&stats.Assists,
		&stats.YellowCards,
		&stats.RedCards,
		&stats.AvgRating,
	)
	if err != nil {
		return model.PlayerAggregatedStats{}, repository.MapPgError(err)
	}
	return stats, nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
