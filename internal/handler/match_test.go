package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-sim-service/internal/handler"
	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
	"github.com/maxviazov/football-sim-service/internal/service"
)

func TestMatchHandler_Create(t *testing.T) {
	stub := &stubMatchService{match: model.Match{ID: 5}}
	r := newRouter(stubPinger{}, handler.Services{Matches: stub})

	w := do(r, http.MethodPost, "/matches", map[string]any{
		"home_team_id": 1, "away_team_id": 2, "season": 2025, "week": 3,
		"match_date": "2025-08-16T19:00:00+08:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 3, stub.gotIn.Week)
	assert.True(t, stub.gotIn.MatchDate.Equal(time.Date(2025, 8, 16, 11, 0, 0, 0, time.UTC)))

	w = do(r, http.MethodPost, "/matches", map[string]any{"home_team_id": 1, "away_team_id": 2, "match_date": "16/08/2025"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "match_date")
}

func TestMatchHandler_List_Filters(t *testing.T) {
	stub := &stubMatchService{}
	r := newRouter(stubPinger{}, handler.Services{Matches: stub})

	w := do(r, http.MethodGet, "/matches?team_id=4&season=2025&played=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), stub.gotFilter.TeamID)
	require.NotNil(t, stub.gotFilter.Season)
	assert.Equal(t, 2025, *stub.gotFilter.Season)
	require.NotNil(t, stub.gotFilter.Played)
	assert.True(t, *stub.gotFilter.Played)

	w = do(r, http.MethodGet, "/matches", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.MatchFilter{}, stub.gotFilter)

	for _, q := range []string{"?team_id=x", "?season=x", "?played=maybe"} {
		w = do(r, http.MethodGet, "/matches"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestMatchHandler_Simulate(t *testing.T) {
	sim := &stubSimulationService{res: model.SimulationResult{
		Match:  model.Match{ID: 5, IsPlayed: true, Stats: model.MatchStats{HomeGoals: 2, AwayGoals: 1}},
		Events: []model.MatchEvent{{ID: 1, MatchID: 5, Minute: 12, Type: model.EventGoal}},
	}}
	r := newRouter(stubPinger{}, handler.Services{Matches: &stubMatchService{}, Simulation: sim})

	w := do(r, http.MethodPost, "/matches/5/simulate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(5), sim.simulated)
	assert.Contains(t, w.Body.String(), `"home_goals":2`)
	assert.Contains(t, w.Body.String(), `"event_type":"GOAL"`)
}

func TestMatchHandler_SimulateErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"already played", service.ErrAlreadyPlayed, http.StatusConflict},
		{"missing", repository.ErrNotFound, http.StatusNotFound},
		{"invalid", service.NewInvalidInputError("id", "must be > 0"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(stubPinger{}, handler.Services{Matches: &stubMatchService{}, Simulation: &stubSimulationService{err: tc.err}})
			w := do(r, http.MethodPost, "/matches/5/simulate", nil)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestMatchHandler_Result(t *testing.T) {
	r := newRouter(stubPinger{}, handler.Services{Matches: &stubMatchService{}, Simulation: &stubSimulationService{err: service.ErrNotPlayed}})
	w := do(r, http.MethodGet, "/matches/5/result", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "not_played")

	r = newRouter(stubPinger{}, handler.Services{Matches: &stubMatchService{}})
	w = do(r, http.MethodGet, "/matches/5/result", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "result routes need the simulation service")
}
