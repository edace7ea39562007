package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

const teamColumns = `id, name, short_name, home_city, league_id, reputation, stadium_quality,
	training_facility_quality, created_at, updated_at`

type teamRepository struct{ pool *pgxpool.Pool }

func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner, extra ...any) (model.Team, error) {
	var t model.Team
	dest := []any{
		&t.ID, &t.Name, &t.ShortName, &t.HomeCity, &t.LeagueID, &t.Reputation,
		&t.StadiumQuality, &t.TrainingFacilityQuality, &t.CreatedAt, &t.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return t, err
}

func (r *teamRepository) Create(ctx context.Context, t model.Team) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO teams (name, short_name, home_city, league_id, reputation, stadium_quality, training_facility_quality)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+teamColumns,
		t.Name, t.ShortName, t.HomeCity, t.LeagueID, t.Reputation, t.StadiumQuality, t.TrainingFacilityQuality,
	)
	out, err := scanTeam(row)
	if err != nil {
		return model.Team{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	out, err := scanTeam(row)
	if err != nil {
		return model.Team{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Team]{}, err
	}
	p = p.Sanitize()
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+teamColumns+`, COUNT(*) OVER() AS total
		 FROM teams
		 ORDER BY id
		 LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Team]{Items: make([]model.Team, 0, p.Limit)}
	for rows.Next() {
		var total int
		t, err := scanTeam(rows, &total)
		if err != nil {
			return repository.PageResult[model.Team]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, t)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	return res, nil
}

// Exists performs a lightweight check to see if a team with the given ID exists.
func (r *teamRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

// GetTeamAggregatedStats folds every played match of the team into a table row.
// The inner query reorients each result to the team's perspective (goals for/against).
func (r *teamRepository) GetTeamAggregatedStats(ctx context.Context, teamID int64, season *int) (model.TeamAggregatedStats, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.TeamAggregatedStats{}, err
	}

	query := `
		SELECT
			COUNT(*) AS played,
			COALESCE(SUM(CASE WHEN gf > ga THEN 1 ELSE 0 END), 0) AS wins,
			COALESCE(SUM(CASE WHEN gf = ga THEN 1 ELSE 0 END), 0) AS draws,
			COALESCE(SUM(CASE WHEN gf < ga THEN 1 ELSE 0 END), 0) AS losses,
			COALESCE(SUM(gf), 0) AS goals_for,
			COALESCE(SUM(ga), 0) AS goals_against
		FROM (
			SELECT
				CASE WHEN home_team_id = $1 THEN home_goals ELSE away_goals END AS gf,
				CASE WHEN home_team_id = $1 THEN away_goals ELSE home_goals END AS ga
			FROM matches
			WHERE is_played
			  AND (home_team_id = $1 OR away_team_id = $1)
			  AND ($2::INT IS NULL OR season = $2)
		) results
	`

	var stats model.TeamAggregatedStats
	err := getQ(ctx, r.pool).QueryRow(ctx, query, teamID, season).Scan(
		&stats.Played,
		&stats.Wins,
		&stats.Draws,
		&stats.Losses,
		&stats.GoalsFor,
		&stats.GoalsAgainst,
	)
	if err != nil {
		return model.TeamAggregatedStats{}, repository.MapPgError(err)
	}
	stats.Points = model.LeaguePoints(stats.Wins, stats.Draws)
	return stats, nil
}

var _ repository.TeamRepository = (*teamRepository)(nil)
