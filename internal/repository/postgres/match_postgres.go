package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

const matchColumns = `id, home_team_id, away_team_id, league_id, season, week, match_date, is_played,
	home_goals, away_goals, home_shots, away_shots, home_shots_on_target, away_shots_on_target,
	home_possession, away_possession, home_fouls, away_fouls, home_yellow_cards, away_yellow_cards,
	home_red_cards, away_red_cards, created_at, updated_at`

type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

func scanMatch(row rowScanner, extra ...any) (model.Match, error) {
	var m model.Match
	s := &m.Stats
	dest := []any{
		&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.LeagueID, &m.Season, &m.Week, &m.MatchDate, &m.IsPlayed,
		&s.HomeGoals, &s.AwayGoals, &s.HomeShots, &s.AwayShots, &s.HomeShotsOnTarget, &s.AwayShotsOnTarget,
		&s.HomePossession, &s.AwayPossession, &s.HomeFouls, &s.AwayFouls, &s.HomeYellowCards, &s.AwayYellowCards,
		&s.HomeRedCards, &s.AwayRedCards, &m.CreatedAt, &m.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO matches (home_team_id, away_team_id, league_id, season, week, match_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+matchColumns,
		m.HomeTeamID, m.AwayTeamID, m.LeagueID, m.Season, m.Week, m.MatchDate,
	)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) List(ctx context.Context, f repository.MatchFilter, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	p = p.Sanitize()
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+matchColumns+`, COUNT(*) OVER() AS total
		 FROM matches
		 WHERE ($1::BIGINT = 0 OR home_team_id = $1 OR away_team_id = $1)
		   AND ($2::INT IS NULL OR season = $2)
		   AND ($3::BOOLEAN IS NULL OR is_played = $3)
		 ORDER BY season, week, match_date, id
		 LIMIT $4 OFFSET $5`,
		f.TeamID, f.Season, f.Played, p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Match]{Items: make([]model.Match, 0, p.Limit)}
	for rows.Next() {
		var total int
		m, err := scanMatch(rows, &total)
		if err != nil {
			return repository.PageResult[model.Match]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, m)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	return res, nil
}

// SaveResult flips the match to played only if it wasn't already, then writes
// events and box scores in one batch.
func (r *matchRepository) SaveResult(ctx context.Context, res model.SimulationResult) (model.SimulationResult, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.SimulationResult{}, err
	}
	exec := getQ(ctx, r.pool)
	m, s := res.Match, res.Match.Stats

	row := exec.QueryRow(ctx,
		`UPDATE matches SET
			is_played = TRUE,
			home_goals = $2, away_goals = $3,
			home_shots = $4, away_shots = $5,
			home_shots_on_target = $6, away_shots_on_target = $7,
			home_possession = $8, away_possession = $9,
			home_fouls = $10, away_fouls = $11,
			home_yellow_cards = $12, away_yellow_cards = $13,
			home_red_cards = $14, away_red_cards = $15,
			updated_at = NOW()
		 WHERE id = $1 AND NOT is_played
		 RETURNING `+matchColumns,
		m.ID,
		s.HomeGoals, s.AwayGoals,
		s.HomeShots, s.AwayShots,
		s.HomeShotsOnTarget, s.AwayShotsOnTarget,
		s.HomePossession, s.AwayPossession,
		s.HomeFouls, s.AwayFouls,
		s.HomeYellowCards, s.AwayYellowCards,
		s.HomeRedCards, s.AwayRedCards,
	)
	saved, err := scanMatch(row)
	if err != nil {
		if mapped := repository.MapPgError(err); mapped != repository.ErrNotFound {
			return model.SimulationResult{}, mapped
		}
		// no row updated: either missing or already played
		var exists bool
		if err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, m.ID).Scan(&exists); err != nil {
			return model.SimulationResult{}, repository.MapPgError(err)
		}
		if exists {
			return model.SimulationResult{}, repository.ErrConflict
		}
		return model.SimulationResult{}, repository.ErrNotFound
	}

	batch := &pgx.Batch{}
	for _, ev := range res.Events {
		batch.Queue(
			`INSERT INTO match_events (match_id, minute, event_type, player_id, assist_player_id, team_id, description)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			saved.ID, ev.Minute, string(ev.Type), ev.PlayerID, ev.AssistPlayerID, ev.TeamID, ev.Description,
		)
	}
	for _, ps := range res.PlayerStats {
		batch.Queue(
			`INSERT INTO player_match_stats (
				player_id, match_id, team_id, minutes_played, goals, assists, shots, shots_on_target,
				passes, pass_accuracy, tackles, interceptions, fouls, yellow_cards, red_card, rating,
				is_starting, position
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
			ps.PlayerID, saved.ID, ps.TeamID, ps.MinutesPlayed, ps.Goals, ps.Assists, ps.Shots, ps.ShotsOnTarget,
			ps.Passes, ps.PassAccuracy, ps.Tackles, ps.Interceptions, ps.Fouls, ps.YellowCards, ps.RedCard, ps.Rating,
			ps.IsStarting, ps.Position.String(),
		)
	}
	if batch.Len() == 0 {
		return model.SimulationResult{Match: saved}, nil
	}

	br := exec.SendBatch(ctx, batch)
	events := make([]model.MatchEvent, len(res.Events))
	for i, ev := range res.Events {
		ev.MatchID = saved.ID
		if err := br.QueryRow().Scan(&ev.ID); err != nil {
			_ = br.Close()
			return model.SimulationResult{}, fmt.Errorf("insert event %d: %w", i, repository.MapPgError(err))
		}
		events[i] = ev
	}
	stats := make([]model.PlayerMatchStats, len(res.PlayerStats))
	for i, ps := range res.PlayerStats {
		ps.MatchID = saved.ID
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return model.SimulationResult{}, fmt.Errorf("insert player stats %d: %w", ps.PlayerID, repository.MapPgError(err))
		}
		stats[i] = ps
	}
	if err := br.Close(); err != nil {
		return model.SimulationResult{}, repository.MapPgError(err)
	}
	return model.SimulationResult{Match: saved, Events: events, PlayerStats: stats}, nil
}

func (r *matchRepository) ListEvents(ctx context.Context, matchID int64) ([]model.MatchEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT id, match_id, minute, event_type, player_id, assist_player_id, team_id, description
		 FROM match_events WHERE match_id = $1
		 ORDER BY minute, id`, matchID,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.MatchEvent, 0, 16)
	for rows.Next() {
		var (
			ev        model.MatchEvent
			eventType string
		)
		if err := rows.Scan(&ev.ID, &ev.MatchID, &ev.Minute, &eventType, &ev.PlayerID, &ev.AssistPlayerID, &ev.TeamID, &ev.Description); err != nil {
			return nil, repository.MapPgError(err)
		}
		if ev.Type, err = repository.StoredEventType(eventType); err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) ListPlayerStats(ctx context.Context, matchID int64) ([]model.PlayerMatchStats, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT s.player_id, s.match_id, s.team_id, s.minutes_played, s.goals, s.assists, s.shots,
			s.shots_on_target, s.passes, s.pass_accuracy, s.tackles, s.interceptions, s.fouls,
			s.yellow_cards, s.red_card, s.rating, s.is_starting, s.position
		 FROM player_match_stats s
		 JOIN matches m ON m.id = s.match_id
		 WHERE s.match_id = $1
		 ORDER BY (s.team_id <> m.home_team_id), s.player_id`, matchID,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.PlayerMatchStats, 0, 22)
	for rows.Next() {
		var (
			ps       model.PlayerMatchStats
			position string
		)
		if err := rows.Scan(
			&ps.PlayerID, &ps.MatchID, &ps.TeamID, &ps.MinutesPlayed, &ps.Goals, &ps.Assists, &ps.Shots,
			&ps.ShotsOnTarget, &ps.Passes, &ps.PassAccuracy, &ps.Tackles, &ps.Interceptions, &ps.Fouls,
			&ps.YellowCards, &ps.RedCard, &ps.Rating, &ps.IsStarting, &position,
		); err != nil {
			return nil, repository.MapPgError(err)
		}
		ps.Position = model.ParsePosition(position)
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
