package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

const matchColumns = `id, home_team_id, away_team_id, league_id, season, week, match_date, is_played,
	home_goals, away_goals, home_shots, away_shots, home_shots_on_target, away_shots_on_target,
	home_possession, away_possession, home_fouls, away_fouls, home_yellow_cards, away_yellow_cards,
	home_red_cards, away_red_cards, created_at, updated_at`

type matchRepository struct{ db *sql.DB }

func NewMatchRepository(db *sql.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func scanMatch(row rowScanner, extra ...any) (model.Match, error) {
	var m model.Match
	s := &m.Stats
	dest := []any{
		&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.LeagueID, &m.Season, &m.Week, timestamp{&m.MatchDate}, &m.IsPlayed,
		&s.HomeGoals, &s.AwayGoals, &s.HomeShots, &s.AwayShots, &s.HomeShotsOnTarget, &s.AwayShotsOnTarget,
		&s.HomePossession, &s.AwayPossession, &s.HomeFouls, &s.AwayFouls, &s.HomeYellowCards, &s.AwayYellowCards,
		&s.HomeRedCards, &s.AwayRedCards, timestamp{&m.CreatedAt}, timestamp{&m.UpdatedAt},
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Match{}, err
	}
	ts := now()
	row := getQ(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO matches (home_team_id, away_team_id, league_id, season, week, match_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+matchColumns,
		m.HomeTeamID, m.AwayTeamID, m.LeagueID, m.Season, m.Week, m.MatchDate.UTC().Format(time.RFC3339Nano), ts, ts,
	)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	if err := ensureDB(r.db); err != nil {
		return model.Match{}, err
	}
	row := getQ(ctx, r.db).QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *matchRepository) List(ctx context.Context, f repository.MatchFilter, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensureDB(r.db); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	p = p.Sanitize()
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT `+matchColumns+`, COUNT(*) OVER() AS total
		 FROM matches
		 WHERE (?1 = 0 OR home_team_id = ?1 OR away_team_id = ?1)
		   AND (?2 IS NULL OR season = ?2)
		   AND (?3 IS NULL OR is_played = ?3)
		 ORDER BY season, week, match_date, id
		 LIMIT ?4 OFFSET ?5`,
		f.TeamID, f.Season, f.Played, p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapSQLiteError(err)
	}
	defer rows.Close()

	res := repository.PageResult[model.Match]{Items: make([]model.Match, 0, p.Limit)}
	for rows.Next() {
		var total int
		m, err := scanMatch(rows, &total)
		if err != nil {
			return repository.PageResult[model.Match]{}, repository.MapSQLiteError(err)
		}
		res.Items = append(res.Items, m)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Match]{}, repository.MapSQLiteError(err)
	}
	return res, nil
}

// SaveResult flips the match to played only if it wasn't already, then
// inserts events and box scores row by row on the same executor.
func (r *matchRepository) SaveResult(ctx context.Context, res model.SimulationResult) (model.SimulationResult, error) {
	if err := ensureDB(r.db); err != nil {
		return model.SimulationResult{}, err
	}
	exec := getQ(ctx, r.db)
	m, s := res.Match, res.Match.Stats

	row := exec.QueryRowContext(ctx,
		`UPDATE matches SET
			is_played = 1,
			home_goals = ?, away_goals = ?,
			home_shots = ?, away_shots = ?,
			home_shots_on_target = ?, away_shots_on_target = ?,
			home_possession = ?, away_possession = ?,
			home_fouls = ?, away_fouls = ?,
			home_yellow_cards = ?, away_yellow_cards = ?,
			home_red_cards = ?, away_red_cards = ?,
			updated_at = ?
		 WHERE id = ? AND is_played = 0
		 RETURNING `+matchColumns,
		s.HomeGoals, s.AwayGoals,
		s.HomeShots, s.AwayShots,
		s.HomeShotsOnTarget, s.AwayShotsOnTarget,
		s.HomePossession, s.AwayPossession,
		s.HomeFouls, s.AwayFouls,
		s.HomeYellowCards, s.AwayYellowCards,
		s.HomeRedCards, s.AwayRedCards,
		now(), m.ID,
	)
	saved, err := scanMatch(row)
	if err != nil {
		if mapped := repository.MapSQLiteError(err); mapped != repository.ErrNotFound {
			return model.SimulationResult{}, mapped
		}
		var exists bool
		if err := exec.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = ?)`, m.ID).Scan(&exists); err != nil {
			return model.SimulationResult{}, repository.MapSQLiteError(err)
		}
		if exists {
			return model.SimulationResult{}, repository.ErrConflict
		}
		return model.SimulationResult{}, repository.ErrNotFound
	}

	out := model.SimulationResult{Match: saved}
	if len(res.Events) > 0 {
		out.Events = make([]model.MatchEvent, len(res.Events))
	}
	for i, ev := range res.Events {
		ev.MatchID = saved.ID
		err := exec.QueryRowContext(ctx,
			`INSERT INTO match_events (match_id, minute, event_type, player_id, assist_player_id, team_id, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			ev.MatchID, ev.Minute, string(ev.Type), ev.PlayerID, ev.AssistPlayerID, ev.TeamID, ev.Description,
		).Scan(&ev.ID)
		if err != nil {
			return model.SimulationResult{}, fmt.Errorf("insert event %d: %w", i, repository.MapSQLiteError(err))
		}
		out.Events[i] = ev
	}

	if len(res.PlayerStats) > 0 {
		out.PlayerStats = make([]model.PlayerMatchStats, len(res.PlayerStats))
	}
	for i, ps := range res.PlayerStats {
		ps.MatchID = saved.ID
		_, err := exec.ExecContext(ctx,
			`INSERT INTO player_match_stats (
				player_id, match_id, team_id, minutes_played, goals, assists, shots, shots_on_target,
				passes, pass_accuracy, tackles, interceptions, fouls, yellow_cards, red_card, rating,
				is_starting, position
			) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			ps.PlayerID, ps.MatchID, ps.TeamID, ps.MinutesPlayed, ps.Goals, ps.Assists, ps.Shots, ps.ShotsOnTarget,
			ps.Passes, ps.PassAccuracy, ps.Tackles, ps.Interceptions, ps.Fouls, ps.YellowCards, ps.RedCard, ps.Rating,
			ps.IsStarting, ps.Position.String(),
		)
		if err != nil {
			return model.SimulationResult{}, fmt.Errorf("insert player stats %d: %w", ps.PlayerID, repository.MapSQLiteError(err))
		}
		out.PlayerStats[i] = ps
	}
	return out, nil
}

func (r *matchRepository) ListEvents(ctx context.Context, matchID int64) ([]model.MatchEvent, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT id, match_id, minute, event_type, player_id, assist_player_id, team_id, description
		 FROM match_events WHERE match_id = ?
		 ORDER BY minute, id`, matchID,
	)
	if err != nil {
		return nil, repository.MapSQLiteError(err)
	}
	defer rows.Close()

	out := make([]model.MatchEvent, 0, 16)
	for rows.Next() {
		var (
			ev        model.MatchEvent
			eventType string
			assist    sql.NullInt64
		)
		if err := rows.Scan(&ev.ID, &ev.MatchID, &ev.Minute, &eventType, &ev.PlayerID, &assist, &ev.TeamID, &ev.Description); err != nil {
			return nil, repository.MapSQLiteError(err)
		}
		if ev.Type, err = repository.StoredEventType(eventType); err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.ID, err)
		}
		if assist.Valid {
			id := assist.Int64
			ev.AssistPlayerID = &id
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapSQLiteError(err)
	}
	return out, nil
}

func (r *matchRepository) ListPlayerStats(ctx context.Context, matchID int64) ([]model.PlayerMatchStats, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.db).QueryContext(ctx,
		`SELECT s.player_id, s.match_id, s.team_id, s.minutes_played, s.goals, s.assists, s.shots,
			s.shots_on_target, s.passes, s.pass_accuracy, s.tackles, s.interceptions, s.fouls,
			s.yellow_cards, s.red_card, s.rating, s.is_starting, s.position
		 FROM player_match_stats s
		 JOIN matches m ON m.id = s.match_id
		 WHERE s.match_id = ?
		 ORDER BY (s.team_id <> m.home_team_id), s.player_id`, matchID,
	)
	if err != nil {
		return nil, repository.MapSQLiteError(err)
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
			return nil, repository.MapSQLiteError(err)
		}
		ps.Position = model.ParsePosition(position)
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapSQLiteError(err)
	}
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
