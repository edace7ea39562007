package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

const playerColumns = `id, team_id, first_name, last_name, position, skills, created_at, updated_at`

type playerRepository struct{ db *sql.DB }

func NewPlayerRepository(db *sql.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

// scanPlayer decodes the JSON skills column.
func scanPlayer(row rowScanner, extra ...any) (model.Player, error) {
	var (
		p        model.Player
		position string
		skills   string
	)
	dest := []any{&p.ID, &p.TeamID, &p.FirstName, &p.LastName, &position, &skills, timestamp{&p.CreatedAt}, timestamp{&p.UpdatedAt}}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Player{}, err
	}
	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return model.Player{}, fmt.Errorf("decode skills of player %d: %w", p.ID, err)
	}
	p.Position = model.ParsePosition(position)
	return p, nil
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Player{}, err
	}
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return model.Player{}, fmt.Errorf("encode skills: %w", err)
	}
	ts := now()
	row := getQ(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO players (team_id, first_name, last_name, position, skills, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+playerColumns,
		p.TeamID, p.FirstName, p.LastName, p.Position.String(), string(skills), ts, ts,
	)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Player{}, err
	}
	row := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID int64, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ensureDB(r.db); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p = p.Sanitize()
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total
		 FROM players WHERE team_id = ?
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		teamID, p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapSQLiteError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, p.Limit)}
	for rows.Next() {
		var total int
		it, err := scanPlayer(rows, &total)
		if err != nil {
			return repository.PageResult[model.Player]{}, repository.MapSQLiteError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Player]{}, repository.MapSQLiteError(err)
	}
	return res, nil
}

func (r *playerRepository) Roster(ctx context.Context, teamID int64) ([]model.Player, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE team_id = ? ORDER BY id`, teamID,
	)
	if err != nil {
		return nil, repository.MapSQLiteError(err)
	}
	defer rows.Close()

	out := make([]model.Player, 0, 25)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, repository.MapSQLiteError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensureDB(r.db); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapSQLiteError(err)
	}
	return exists, nil
}

func (r *playerRepository) GetPlayerAggregatedStats(ctx context.Context, playerID int64, season *int) (model.PlayerAggregatedStats, error) {
	if err := ensureDB(r.db); err != nil {
		return model.PlayerAggregatedStats{}, err
	}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(s.minutes_played), 0),
			COALESCE(SUM(s.goals), 0),
			COALESCE(SUM(s.assists), 0),
			COALESCE(SUM(s.yellow_cards), 0),
			COALESCE(SUM(s.red_card), 0),
			COALESCE(AVG(s.rating), 0.0)
		FROM player_match_stats s
		JOIN matches m ON m.id = s.match_id
		WHERE s.player_id = ?1 AND (?2 IS NULL OR m.season = ?2)
	`

	var stats model.PlayerAggregatedStats
	err := getQ(ctx, r.db).QueryRowContext(ctx, query, playerID, season).Scan(
		&stats.Appearances,
		&stats.MinutesPlayed,
		&stats.Goals,
		&stats.Assists,
		&stats.YellowCards,
		&stats.RedCards,
		&stats.AvgRating,
	)
	if err != nil {
		return model.PlayerAggregatedStats{}, repository.MapSQLiteError(err)
	}
	return stats, nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
