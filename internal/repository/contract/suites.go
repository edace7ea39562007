// Package contract holds backend-agnostic test suites every repository
// implementation must pass. Backends supply a Factory that returns a fresh,
// migrated store per subtest.
package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
)

// Store groups the repositories of one backend sharing one database.
type Store struct {
	Teams   repository.TeamRepository
	Players repository.PlayerRepository
	Matches repository.MatchRepository
	Tx      repository.TxManager
	Pinger  repository.Pinger
}

type Factory func(t *testing.T) (Store, func())

func open(t *testing.T, makeStore Factory) Store {
	t.Helper()
	s, cleanup := makeStore(t)
	t.Cleanup(cleanup)
	return s
}

func newTeam(name string) model.Team {
	return model.Team{Name: name, ShortName: name[:min(3, len(name))], Reputation: 60, StadiumQuality: 55, TrainingFacilityQuality: 50}
}

func seedTeam(t *testing.T, s Store, name string) model.Team {
	t.Helper()
	team, err := s.Teams.Create(context.Background(), newTeam(name))
	require.NoError(t, err)
	return team
}

func seedPlayer(t *testing.T, s Store, teamID int64, last string, pos model.Position) model.Player {
	t.Helper()
	p, err := s.Players.Create(context.Background(), model.Player{
		TeamID: teamID, FirstName: "Test", LastName: last, Position: pos,
		Skills: model.Skills{Finishing: 14, Speed: 12, Reflexes: 9, Tackling: 11, Passing: 13},
	})
	require.NoError(t, err)
	return p
}

func seedMatch(t *testing.T, s Store, home, away int64, season, week int) model.Match {
	t.Helper()
	m, err := s.Matches.Create(context.Background(), model.Match{
		HomeTeamID: home, AwayTeamID: away, LeagueID: 1, Season: season, Week: week,
		MatchDate: time.Date(2025, 8, 10+week, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return m
}

func RunTeamRepositoryContract(t *testing.T, makeStore Factory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		created := seedTeam(t, s, "Manila FC")
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := s.Teams.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Manila FC", got.Name)
		assert.Equal(t, 60, got.Reputation)
		assert.Equal(t, 55, got.StadiumQuality)
		assert.Equal(t, 50, got.TrainingFacilityQuality)

		ok, err := s.Teams.Exists(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("get_not_found", func(t *testing.T) {
		s := open(t, makeStore)
		_, err := s.Teams.GetByID(context.Background(), 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		ok, err := s.Teams.Exists(context.Background(), 999999)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			seedTeam(t, s, "Club-"+string(rune('A'+i)))
		}
		res, err := s.Teams.List(ctx, repository.Page{Limit: 3, Offset: 0})
		require.NoError(t, err)
		assert.Len(t, res.Items, 3)
		assert.Equal(t, 7, res.Total)

		res, err = s.Teams.List(ctx, repository.Page{Limit: 3, Offset: 6})
		require.NoError(t, err)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, 7, res.Total)
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		s := open(t, makeStore)
		seedTeam(t, s, "Dup")
		_, err := s.Teams.Create(context.Background(), newTeam("Dup"))
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("aggregated_stats", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		home := seedTeam(t, s, "Home")
		away := seedTeam(t, s, "Away")

		win := seedMatch(t, s, home.ID, away.ID, 2025, 1)
		draw := seedMatch(t, s, away.ID, home.ID, 2025, 2)
		loss := seedMatch(t, s, home.ID, away.ID, 2026, 1)
		seedMatch(t, s, away.ID, home.ID, 2026, 2) // unplayed, must be ignored

		saveScore(t, s, win, 3, 1)
		saveScore(t, s, draw, 2, 2)
		saveScore(t, s, loss, 0, 1)

		all, err := s.Teams.GetTeamAggregatedStats(ctx, home.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TeamAggregatedStats{Played: 3, Wins: 1, Draws: 1, Losses: 1, GoalsFor: 5, GoalsAgainst: 4, Points: 4}, all)

		season := 2025
		one, err := s.Teams.GetTeamAggregatedStats(ctx, home.ID, &season)
		require.NoError(t, err)
		assert.Equal(t, model.TeamAggregatedStats{Played: 2, Wins: 1, Draws: 1, GoalsFor: 5, GoalsAgainst: 3, Points: 4}, one)

		none, err := s.Teams.GetTeamAggregatedStats(ctx, 424242, nil)
		require.NoError(t, err)
		assert.Zero(t, none)
	})
}

func saveScore(t *testing.T, s Store, m model.Match, homeGoals, awayGoals int) {
	t.Helper()
	m.IsPlayed = true
	m.Stats = model.MatchStats{HomeGoals: homeGoals, AwayGoals: awayGoals, HomePossession: 50, AwayPossession: 50}
	_, err := s.Matches.SaveResult(context.Background(), model.SimulationResult{Match: m})
	require.NoError(t, err)
}

func RunPlayerRepositoryContract(t *testing.T, makeStore Factory) {
	t.Helper()

	t.Run("create_and_get_with_skills", func(t *testing.T) {
		s := open(t, makeStore)
		team := seedTeam(t, s, "Cebu United")
		created := seedPlayer(t, s, team.ID, "Younghusband", model.PositionFWD)

		got, err := s.Players.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, team.ID, got.TeamID)
		assert.Equal(t, model.PositionFWD, got.Position)
		assert.Equal(t, 14, got.Skills.Finishing)
		assert.Equal(t, 9, got.Skills.Reflexes)
	})

	t.Run("get_not_found", func(t *testing.T) {
		s := open(t, makeStore)
		_, err := s.Players.GetByID(context.Background(), 42424242)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("list_by_team_and_roster", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		team := seedTeam(t, s, "Davao")
		other := seedTeam(t, s, "Iloilo")
		for i := 0; i < 5; i++ {
			seedPlayer(t, s, team.ID, string(rune('A'+i)), model.PositionMID)
		}
		seedPlayer(t, s, other.ID, "Elsewhere", model.PositionGK)

		res, err := s.Players.ListByTeam(ctx, team.ID, repository.Page{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 5, res.Total)

		roster, err := s.Players.Roster(ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, roster, 5)
		for i := 1; i < len(roster); i++ {
			assert.Less(t, roster[i-1].ID, roster[i].ID)
		}

		empty, err := s.Players.Roster(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("create_fk_violation_conflict", func(t *testing.T) {
		s := open(t, makeStore)
		_, err := s.Players.Create(context.Background(), model.Player{TeamID: 9999999, FirstName: "X", LastName: "Y", Position: model.PositionDEF})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})
}

func RunMatchRepositoryContract(t *testing.T, makeStore Factory) {
	t.Helper()

	t.Run("create_get_list", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		home := seedTeam(t, s, "Home")
		away := seedTeam(t, s, "Away")
		third := seedTeam(t, s, "Third")
		m := seedMatch(t, s, home.ID, away.ID, 2025, 3)
		seedMatch(t, s, away.ID, third.ID, 2025, 4)

		got, err := s.Matches.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, home.ID, got.HomeTeamID)
		assert.Equal(t, away.ID, got.AwayTeamID)
		assert.Equal(t, 3, got.Week)
		assert.False(t, got.IsPlayed)
		assert.True(t, m.MatchDate.Equal(got.MatchDate))

		page, err := s.Matches.List(ctx, repository.MatchFilter{}, repository.Page{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)

		page, err = s.Matches.List(ctx, repository.MatchFilter{TeamID: home.ID}, repository.Page{Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, m.ID, page.Items[0].ID)

		played := true
		page, err = s.Matches.List(ctx, repository.MatchFilter{Played: &played}, repository.Page{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("get_not_found", func(t *testing.T) {
		s := open(t, makeStore)
		_, err := s.Matches.GetByID(context.Background(), 7777777)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("same_team_rejected", func(t *testing.T) {
		s := open(t, makeStore)
		team := seedTeam(t, s, "Solo")
		_, err := s.Matches.Create(context.Background(), model.Match{HomeTeamID: team.ID, AwayTeamID: team.ID, Season: 2025, Week: 1, MatchDate: time.Now()})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("save_result_roundtrip", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		home := seedTeam(t, s, "Home")
		away := seedTeam(t, s, "Away")
		scorer := seedPlayer(t, s, home.ID, "Scorer", model.PositionFWD)
		helper := seedPlayer(t, s, home.ID, "Helper", model.PositionMID)
		hacker := seedPlayer(t, s, away.ID, "Hacker", model.PositionDEF)
		m := seedMatch(t, s, home.ID, away.ID, 2025, 1)

		res := resultFor(m, scorer, helper, hacker)
		saved, err := s.Matches.SaveResult(ctx, res)
		require.NoError(t, err)
		assert.True(t, saved.Match.IsPlayed)
		require.Len(t, saved.Events, 2)
		for _, ev := range saved.Events {
			assert.NotZero(t, ev.ID)
			assert.Equal(t, m.ID, ev.MatchID)
		}

		got, err := s.Matches.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPlayed)
		assert.Equal(t, res.Match.Stats, got.Stats)

		events, err := s.Matches.ListEvents(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, 12, events[0].Minute)
		assert.Equal(t, model.EventGoal, events[0].Type)
		require.NotNil(t, events[0].AssistPlayerID)
		assert.Equal(t, helper.ID, *events[0].AssistPlayerID)
		assert.Equal(t, model.EventYellowCard, events[1].Type)
		assert.Nil(t, events[1].AssistPlayerID)

		stats, err := s.Matches.ListPlayerStats(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, stats, 3)
		assert.Equal(t, home.ID, stats[0].TeamID)
		assert.Equal(t, home.ID, stats[1].TeamID)
		assert.Equal(t, away.ID, stats[2].TeamID)
		assert.Equal(t, 1, stats[0].Goals)
		assert.InDelta(t, 7.25, stats[0].Rating, 1e-9)
		assert.Equal(t, model.PositionFWD, stats[0].Position)

		agg, err := s.Players.GetPlayerAggregatedStats(ctx, scorer.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, agg.Appearances)
		assert.Equal(t, 1, agg.Goals)
		assert.Equal(t, 90, agg.MinutesPlayed)
		assert.InDelta(t, 7.25, agg.AvgRating, 1e-9)

		other := 1999
		agg, err = s.Players.GetPlayerAggregatedStats(ctx, scorer.ID, &other)
		require.NoError(t, err)
		assert.Zero(t, agg.Appearances)
	})

	t.Run("save_result_twice_conflicts", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		home := seedTeam(t, s, "Home")
		away := seedTeam(t, s, "Away")
		m := seedMatch(t, s, home.ID, away.ID, 2025, 1)

		saveScore(t, s, m, 1, 0)
		m.IsPlayed = true
		_, err := s.Matches.SaveResult(ctx, model.SimulationResult{Match: m})
		assert.ErrorIs(t, err, repository.ErrConflict)

		m.ID = 123456
		_, err = s.Matches.SaveResult(ctx, model.SimulationResult{Match: m})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("save_result_is_atomic", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		home := seedTeam(t, s, "Home")
		away := seedTeam(t, s, "Away")
		scorer := seedPlayer(t, s, home.ID, "Scorer", model.PositionFWD)
		m := seedMatch(t, s, home.ID, away.ID, 2025, 1)

		res := resultFor(m, scorer, scorer, scorer)
		res.Events[1].PlayerID = 987654 // dangling player breaks the insert midway
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := s.Matches.SaveResult(ctx, res)
			return err
		})
		require.Error(t, err)

		got, err := s.Matches.GetByID(ctx, m.ID)
		require.NoError(t, err)
		assert.False(t, got.IsPlayed, "match flag must roll back with the failed bundle")
		events, err := s.Matches.ListEvents(ctx, m.ID)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

// resultFor builds a small bundle: one assisted goal and one away yellow card.
func resultFor(m model.Match, scorer, helper, hacker model.Player) model.SimulationResult {
	assist := helper.ID
	played := m
	played.IsPlayed = true
	played.Stats = model.MatchStats{
		HomeGoals: 1, HomeShots: 9, AwayShots: 6, HomeShotsOnTarget: 4, AwayShotsOnTarget: 2,
		HomePossession: 55, AwayPossession: 45, HomeFouls: 7, AwayFouls: 10, AwayYellowCards: 1,
	}
	return model.SimulationResult{
		Match: played,
		Events: []model.MatchEvent{
			{Minute: 12, Type: model.EventGoal, PlayerID: scorer.ID, AssistPlayerID: &assist, TeamID: m.HomeTeamID, Description: "Scorer scores for Home (assist: Helper)"},
			{Minute: 40, Type: model.EventYellowCard, PlayerID: hacker.ID, TeamID: m.AwayTeamID, Description: "Hacker (Away) receives a yellow card"},
		},
		PlayerStats: []model.PlayerMatchStats{
			{PlayerID: scorer.ID, TeamID: m.HomeTeamID, MinutesPlayed: 90, Goals: 1, Shots: 3, ShotsOnTarget: 2, Passes: 20, PassAccuracy: 80, Rating: 7.25, IsStarting: true, Position: model.PositionFWD},
			{PlayerID: helper.ID, TeamID: m.HomeTeamID, MinutesPlayed: 90, Assists: 1, Passes: 45, PassAccuracy: 88, Rating: 6.9, IsStarting: true, Position: model.PositionMID},
			{PlayerID: hacker.ID, TeamID: m.AwayTeamID, MinutesPlayed: 90, YellowCards: 1, Fouls: 2, Tackles: 5, Rating: 5.4, IsStarting: true, Position: model.PositionDEF},
		},
	}
}

func RunTxManagerContract(t *testing.T, makeStore Factory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		var createdID int64
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := s.Teams.Create(ctx, newTeam("TxCommit"))
			createdID = out.ID
			return err
		})
		require.NoError(t, err)
		_, err = s.Teams.GetByID(ctx, createdID)
		assert.NoError(t, err)
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		var createdID int64
		errMarker := errors.New("boom")
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := s.Teams.Create(ctx, newTeam("TxRollback"))
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		assert.ErrorIs(t, err, errMarker)
		_, err = s.Teams.GetByID(ctx, createdID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		s := open(t, makeStore)
		ctx := context.Background()
		var innerID int64
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			return errors.Join(s.Tx.WithinTx(ctx, func(ctx context.Context) error {
				out, err := s.Teams.Create(ctx, newTeam("Inner"))
				innerID = out.ID
				return err
			}), errors.New("outer fails"))
		})
		require.Error(t, err)
		_, err = s.Teams.GetByID(ctx, innerID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func RunPingerContract(t *testing.T, makeStore Factory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		s := open(t, makeStore)
		assert.NoError(t, s.Pinger.Ping(context.Background()))
	})
}

// RunAll runs every suite against one backend.
func RunAll(t *testing.T, makeStore Factory) {
	t.Run("teams", func(t *testing.T) { RunTeamRepositoryContract(t, makeStore) })
	t.Run("players", func(t *testing.T) { RunPlayerRepositoryContract(t, makeStore) })
	t.Run("matches", func(t *testing.T) { RunMatchRepositoryContract(t, makeStore) })
	t.Run("tx", func(t *testing.T) { RunTxManagerContract(t, makeStore) })
	t.Run("ping", func(t *testing.T) { RunPingerContract(t, makeStore) })
}
