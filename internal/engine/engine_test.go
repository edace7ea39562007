package engine_test

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-sim-service/internal/engine"
	"github.com/maxviazov/football-sim-service/internal/model"
)

// squad builds an eleven with ids starting at firstID.
func squad(teamID, firstID int64, positions ...model.Position) []model.Player {
	if len(positions) == 0 {
		positions = []model.Position{
			model.PositionGK,
			model.PositionDEF, model.PositionDEF, model.PositionDEF, model.PositionDEF,
			model.PositionMID, model.PositionMID, model.PositionMID, model.PositionMID,
			model.PositionFWD, model.PositionFWD,
		}
	}
	out := make([]model.Player, len(positions))
	for i, pos := range positions {
		out[i] = model.Player{
			ID:        firstID + int64(i),
			TeamID:    teamID,
			FirstName: "First",
			LastName:  string(rune('A'+i)) + "son",
			Position:  pos,
			Skills:    model.UniformSkills(12),
		}
	}
	return out
}

func fixture() engine.Input {
	return engine.Input{
		Match:       model.Match{ID: 77, HomeTeamID: 1, AwayTeamID: 2, LeagueID: 1, Season: 1, Week: 3},
		HomeTeam:    model.Team{ID: 1, Name: "Manila FC", Reputation: 85, StadiumQuality: 75, TrainingFacilityQuality: 70},
		AwayTeam:    model.Team{ID: 2, Name: "Cebu United", Reputation: 78, StadiumQuality: 70, TrainingFacilityQuality: 65},
		HomePlayers: squad(1, 100),
		AwayPlayers: squad(2, 200),
	}
}

func distinctIDs(players []model.Player) int {
	ids := map[int64]bool{}
	for _, p := range players {
		ids[p.ID] = true
	}
	return len(ids)
}

func newEngine() *engine.Engine { return engine.New(zerolog.New(io.Discard)) }

// assertInvariants checks every cross-cutting property a simulation result must hold.
func assertInvariants(t *testing.T, in engine.Input, res model.SimulationResult) {
	t.Helper()
	s := res.Match.Stats

	require.True(t, res.Match.IsPlayed)
	assert.Equal(t, 100, s.HomePossession+s.AwayPossession)
	assert.GreaterOrEqual(t, s.HomePossession, 0)
	assert.LessOrEqual(t, s.HomePossession, 100)
	assert.LessOrEqual(t, s.HomeShotsOnTarget, s.HomeShots)
	assert.LessOrEqual(t, s.AwayShotsOnTarget, s.AwayShots)

	type counts struct{ goals, yellows, reds int }
	byTeam := map[int64]*counts{in.HomeTeam.ID: {}, in.AwayTeam.ID: {}}
	seen := map[model.EventType]map[int]bool{}
	for i, ev := range res.Events {
		if i > 0 {
			assert.LessOrEqual(t, res.Events[i-1].Minute, ev.Minute, "events must be ordered by minute")
		}
		if seen[ev.Type] == nil {
			seen[ev.Type] = map[int]bool{}
		}
		assert.False(t, seen[ev.Type][ev.Minute], "duplicate %s minute %d", ev.Type, ev.Minute)
		seen[ev.Type][ev.Minute] = true

		c := byTeam[ev.TeamID]
		require.NotNil(t, c, "event for unknown team %d", ev.TeamID)
		switch ev.Type {
		case model.EventGoal:
			c.goals++
			assert.True(t, engine.GoalMinutes.Contains(ev.Minute))
			if ev.AssistPlayerID != nil {
				assert.NotEqual(t, ev.PlayerID, *ev.AssistPlayerID)
			}
		case model.EventYellowCard:
			c.yellows++
			assert.True(t, engine.YellowCardMinutes.Contains(ev.Minute))
			assert.Nil(t, ev.AssistPlayerID)
		case model.EventRedCard:
			c.reds++
			assert.True(t, engine.RedCardMinutes.Contains(ev.Minute))
			assert.Nil(t, ev.AssistPlayerID)
		default:
			t.Fatalf("unexpected event type %s", ev.Type)
		}
		assert.NotEmpty(t, ev.Description)
	}
	home, away := byTeam[in.HomeTeam.ID], byTeam[in.AwayTeam.ID]
	assert.Equal(t, s.HomeGoals, home.goals)
	assert.Equal(t, s.AwayGoals, away.goals)
	assert.Equal(t, s.HomeYellowCards, home.yellows)
	assert.Equal(t, s.AwayYellowCards, away.yellows)
	assert.Equal(t, s.HomeRedCards, home.reds)
	assert.Equal(t, s.AwayRedCards, away.reds)

	require.Len(t, res.PlayerStats, distinctIDs(in.HomePlayers)+distinctIDs(in.AwayPlayers))
	lines := map[[2]int64]bool{}
	for _, ps := range res.PlayerStats {
		key := [2]int64{ps.TeamID, ps.PlayerID}
		assert.False(t, lines[key], "player %d has two box scores", ps.PlayerID)
		lines[key] = true
	}
	redMinute := map[int64]int{}
	for _, ev := range res.Events {
		if ev.Type == model.EventRedCard {
			redMinute[ev.PlayerID] = ev.Minute
		}
	}
	sums := map[int64]*counts{in.HomeTeam.ID: {}, in.AwayTeam.ID: {}}
	for _, ps := range res.PlayerStats {
		assert.LessOrEqual(t, ps.ShotsOnTarget, ps.Shots)
		assert.GreaterOrEqual(t, ps.Rating, 1.0)
		assert.LessOrEqual(t, ps.Rating, 10.0)
		assert.GreaterOrEqual(t, ps.PassAccuracy, 50)
		assert.LessOrEqual(t, ps.PassAccuracy, 90)
		if m, ok := redMinute[ps.PlayerID]; ok {
			assert.True(t, ps.RedCard)
			assert.Equal(t, m, ps.MinutesPlayed)
		} else {
			assert.False(t, ps.RedCard)
			assert.Equal(t, 90, ps.MinutesPlayed)
		}
		c := sums[ps.TeamID]
		require.NotNil(t, c)
		c.goals += ps.Goals
		c.yellows += ps.YellowCards
		if ps.RedCard {
			c.reds++
		}
	}
	assert.Equal(t, s.HomeGoals, sums[in.HomeTeam.ID].goals)
	assert.Equal(t, s.AwayGoals, sums[in.AwayTeam.ID].goals)
	assert.Equal(t, s.HomeYellowCards, sums[in.HomeTeam.ID].yellows)
	assert.Equal(t, s.AwayYellowCards, sums[in.AwayTeam.ID].yellows)
	assert.Equal(t, s.HomeRedCards, sums[in.HomeTeam.ID].reds)
	assert.Equal(t, s.AwayRedCards, sums[in.AwayTeam.ID].reds)
}

func TestSimulate_Invariants(t *testing.T) {
	e := newEngine()
	in := fixture()
	for seed := uint64(1); seed <= 500; seed++ {
		res, err := e.Simulate(engine.NewRand(seed, 42), in)
		require.NoError(t, err)
		assertInvariants(t, in, res)
		if t.Failed() {
			t.Fatalf("invariants broken at seed %d", seed)
		}
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	e := newEngine()
	in := fixture()

	a, err := e.Simulate(engine.NewRand(7, 11), in)
	require.NoError(t, err)
	b, err := e.Simulate(engine.NewRand(7, 11), in)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	original := in.Match
	res, err := newEngine().Simulate(engine.NewRand(3, 3), in)
	require.NoError(t, err)

	assert.Equal(t, original, in.Match)
	assert.False(t, in.Match.IsPlayed)
	assert.True(t, res.Match.IsPlayed)
	assert.Equal(t, original.ID, res.Match.ID)
	assert.Equal(t, original.Week, res.Match.Week)
}

func TestSimulate_Errors(t *testing.T) {
	e := newEngine()

	_, err := e.Simulate(nil, fixture())
	assert.ErrorIs(t, err, engine.ErrNilRand)

	played := fixture()
	played.Match.IsPlayed = true
	_, err = e.Simulate(engine.NewRand(1, 1), played)
	assert.ErrorIs(t, err, engine.ErrMatchAlreadyPlayed)

	swapped := fixture()
	swapped.HomeTeam, swapped.AwayTeam = swapped.AwayTeam, swapped.HomeTeam
	_, err = e.Simulate(engine.NewRand(1, 1), swapped)
	assert.ErrorIs(t, err, engine.ErrTeamMismatch)
}

func TestSimulate_NoForwardsStillScores(t *testing.T) {
	e := newEngine()
	in := fixture()
	in.HomePlayers = squad(1, 100,
		model.PositionGK, model.PositionDEF, model.PositionDEF, model.PositionMID, model.PositionMID)

	scored := false
	for seed := uint64(1); seed <= 300 && !scored; seed++ {
		res, err := e.Simulate(engine.NewRand(seed, 5), in)
		require.NoError(t, err)
		assertInvariants(t, in, res)
		if res.Match.Stats.HomeGoals == 0 {
			continue
		}
		scored = true
		for _, ev := range res.Events {
			if ev.Type == model.EventGoal && ev.TeamID == 1 {
				assert.GreaterOrEqual(t, ev.PlayerID, int64(100))
				assert.Less(t, ev.PlayerID, int64(105))
			}
		}
	}
	assert.True(t, scored, "expected at least one seed with home goals")
}

func TestSimulate_GoalkeeperOnlyRoster(t *testing.T) {
	e := newEngine()
	in := fixture()
	in.HomePlayers = squad(1, 100, model.PositionGK)
	for seed := uint64(1); seed <= 200; seed++ {
		res, err := e.Simulate(engine.NewRand(seed, 9), in)
		require.NoError(t, err)
		assertInvariants(t, in, res)
	}
}

func TestSimulate_EmptyRosters(t *testing.T) {
	e := newEngine()
	in := fixture()
	in.AwayPlayers = nil

	for seed := uint64(1); seed <= 100; seed++ {
		res, err := e.Simulate(engine.NewRand(seed, 1), in)
		require.NoError(t, err)
		assertInvariants(t, in, res)
		assert.Zero(t, res.Match.Stats.AwayGoals)
		assert.Zero(t, res.Match.Stats.AwayYellowCards)
		assert.Zero(t, res.Match.Stats.AwayRedCards)
		for _, ev := range res.Events {
			assert.Equal(t, int64(1), ev.TeamID)
		}
	}

	in.HomePlayers = nil
	res, err := e.Simulate(engine.NewRand(1, 1), in)
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.Empty(t, res.PlayerStats)
	assert.Equal(t, 100, res.Match.Stats.HomePossession+res.Match.Stats.AwayPossession)
	assert.GreaterOrEqual(t, res.Match.Stats.HomeShots, 5)
}

func TestSimulate_UnknownPositions(t *testing.T) {
	e := newEngine()
	in := fixture()
	in.AwayPlayers = squad(2, 200, model.PositionOther, model.Position("SWEEPER"), model.PositionOther)
	for seed := uint64(1); seed <= 100; seed++ {
		res, err := e.Simulate(engine.NewRand(seed, 13), in)
		require.NoError(t, err)
		assertInvariants(t, in, res)
	}
}

func TestSimulate_DuplicatedRosterEntry(t *testing.T) {
	e := newEngine()
	in := fixture()
	in.HomePlayers = append(in.HomePlayers, in.HomePlayers[9])
	in.AwayPlayers = append([]model.Player{in.AwayPlayers[10]}, in.AwayPlayers...)

	for seed := uint64(1); seed <= 500; seed++ {
		res, err := e.Simulate(engine.NewRand(seed, 21), in)
		require.NoError(t, err)
		assertInvariants(t, in, res)
		if t.Failed() {
			t.Fatalf("invariants broken at seed %d", seed)
		}
	}
	assert.Len(t, in.HomePlayers, 12, "input roster must not be rewritten")
}
