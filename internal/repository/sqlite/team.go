package sqlite

import (
	"context"
	"database/sql"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

const teamColumns = `id, name, short_name, home_city, league_id, reputation, stadium_quality,
	training_facility_quality, created_at, updated_at`

type teamRepository struct{ db *sql.DB }

func NewTeamRepository(db *sql.DB) repository.TeamRepository {
	return &teamRepository{db: db}
}

func scanTeam(row rowScanner, extra ...any) (model.Team, error) {
	var t model.Team
	dest := []any{
		&t.ID, &t.Name, &t.ShortName, &t.HomeCity, &t.LeagueID, &t.Reputation,
		&t.StadiumQuality, &t.TrainingFacilityQuality, timestamp{&t.CreatedAt}, timestamp{&t.UpdatedAt},
	}
	err := row.Scan(append(dest, extra...)...)
	return t, err
}

func (r *teamRepository) Create(ctx context.Context, t model.Team) (model.Team, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Team{}, err
	}
	ts := now()
	row := getQ(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO teams (name, short_name, home_city, league_id, reputation, stadium_quality,
			training_facility_quality, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+teamColumns,
		t.Name, t.ShortName, t.HomeCity, t.LeagueID, t.Reputation, t.StadiumQuality, t.TrainingFacilityQuality, ts, ts,
	)
	out, err := scanTeam(row)
	if err != nil {
		return model.Team{}, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (model.Team, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Team{}, err
	}
	row := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	out, err := scanTeam(row)
	if err != nil {
		return model.Team{}, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	if err := ensureDB(r.db); err != nil {
		return repository.PageResult[model.Team]{}, err
	}
	p = p.Sanitize()
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT `+teamColumns+`, COUNT(*) OVER() AS total
		 FROM teams
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Team]{}, repository.MapSQLiteError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Team]{Items: make([]model.Team, 0, p.Limit)}
	for rows.Next() {
		var total int
		t, err := scanTeam(rows, &total)
		if err != nil {
			return repository.PageResult[model.Team]{}, repository.MapSQLiteError(err)
		}
		res.Items = append(res.Items, t)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Team]{}, repository.MapSQLiteError(err)
	}
	return res, nil
}

func (r *teamRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensureDB(r.db); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapSQLiteError(err)
	}
	return exists, nil
}

func (r *teamRepository) GetTeamAggregatedStats(ctx context.Context, teamID int64, season *int) (model.TeamAggregatedStats, error) {
	if err := ensureDB(r.db); err != nil {
		return model.TeamAggregatedStats{}, err
	}

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN gf > ga THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN gf = ga THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN gf < ga THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(gf), 0),
			COALESCE(SUM(ga), 0)
		FROM (
			SELECT
				CASE WHEN home_team_id = ?1 THEN home_goals ELSE away_goals END AS gf,
				CASE WHEN home_team_id = ?1 THEN away_goals ELSE home_goals END AS ga
			FROM matches
			WHERE is_played = 1
			  AND (home_team_id = ?1 OR away_team_id = ?1)
			  AND (?2 IS NULL OR season = ?2)
		)
	`

	var stats model.TeamAggregatedStats
	err := getQ(ctx, r.db).QueryRowContext(ctx, query, teamID, season).Scan(
		&stats.Played,
		&stats.Wins,
		&stats.Draws,
		&stats.Losses,
		&stats.GoalsFor,
		&stats.GoalsAgainst,
	)
	if err != nil {
		return model.TeamAggregatedStats{}, repository.MapSQLiteError(err)
	}
	stats.Points = model.LeaguePoints(stats.Wins, stats.Draws)
	return stats, nil
}

var _ repository.TeamRepository = (*teamRepository)(nil)
