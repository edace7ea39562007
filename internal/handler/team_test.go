package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-sim-service/internal/handler"
	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
	"github.com/maxviazov/football-sim-service/internal/service"
)

func TestTeamHandler_Create(t *testing.T) {
	stub := &stubTeamService{team: model.Team{ID: 1, Name: "Kaya FC", ShortName: "KAY"}}
	r := newRouter(stubPinger{}, handler.Services{Teams: stub})

	w := do(r, http.MethodPost, "/teams", map[string]any{"name": "Kaya FC", "reputation": 72, "home_city": "Iloilo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got model.Team
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, 72, stub.gotIn.Reputation)
	assert.Equal(t, "Iloilo", stub.gotIn.HomeCity)
}

func TestTeamHandler_Create_Invalid(t *testing.T) {
	stub := &stubTeamService{err: service.NewInvalidInputError("name", "must not be empty")}
	r := newRouter(stubPinger{}, handler.Services{Teams: stub})

	w := do(r, http.MethodPost, "/teams", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
	assert.Contains(t, w.Body.String(), `"field":"name"`)

	w = do(r, http.MethodPost, "/teams", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamHandler_Create_Duplicate(t *testing.T) {
	r := newRouter(stubPinger{}, handler.Services{Teams: &stubTeamService{err: repository.ErrAlreadyExists}})
	w := do(r, http.MethodPost, "/teams", map[string]any{"name": "Kaya FC"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTeamHandler_Get(t *testing.T) {
	r := newRouter(stubPinger{}, handler.Services{Teams: &stubTeamService{team: model.Team{ID: 7, Name: "Stallion Laguna"}}})
	w := do(r, http.MethodGet, "/teams/7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stallion Laguna")

	w = do(r, http.MethodGet, "/teams/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "team_id")

	r = newRouter(stubPinger{}, handler.Services{Teams: &stubTeamService{err: repository.ErrNotFound}})
	w = do(r, http.MethodGet, "/teams/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_List_PassesPage(t *testing.T) {
	stub := &stubTeamService{}
	r := newRouter(stubPinger{}, handler.Services{Teams: stub})
	w := do(r, http.MethodGet, "/teams?limit=5&offset=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.Page{Limit: 5, Offset: 10}, stub.gotPage)
}

func TestTeamHandler_Aggregates(t *testing.T) {
	stub := &stubTeamService{stats: model.TeamAggregatedStats{Played: 3, Points: 7}}
	r := newRouter(stubPinger{}, handler.Services{Teams: stub})

	w := do(r, http.MethodGet, "/teams/3/aggregates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.season)
	assert.Contains(t, w.Body.String(), `"points":7`)

	w = do(r, http.MethodGet, "/teams/3/aggregates?season=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.season)
	assert.Equal(t, 2025, *stub.season)

	w = do(r, http.MethodGet, "/teams/3/aggregates?season=last", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
