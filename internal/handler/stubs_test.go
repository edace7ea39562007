package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/football-sim-service/internal/handler"
	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/repository"
	"github.com/maxviazov/football-sim-service/internal/service"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubTeamService struct {
	team    model.Team
	err     error
	gotIn   service.TeamInput
	gotPage repository.Page
	season  *int
	stats   model.TeamAggregatedStats
}

func (s *stubTeamService) CreateTeam(_ context.Context, in service.TeamInput) (model.Team, error) {
	s.gotIn = in
	return s.team, s.err
}
func (s *stubTeamService) GetTeam(context.Context, int64) (model.Team, error) { return s.team, s.err }
func (s *stubTeamService) ListTeams(_ context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	s.gotPage = p
	return repository.PageResult[model.Team]{Items: []model.Team{s.team}, Total: 1}, s.err
}
func (s *stubTeamService) GetTeamAggregatedStats(_ context.Context, _ int64, season *int) (model.TeamAggregatedStats, error) {
	s.season = season
	return s.stats, s.err
}

type stubPlayerService struct {
	player model.Player
	err    error
	gotIn  service.PlayerInput
	teamID int64
	stats  model.PlayerAggregatedStats
}

func (s *stubPlayerService) CreatePlayer(_ context.Context, in service.PlayerInput) (model.Player, error) {
	s.gotIn = in
	return s.player, s.err
}
func (s *stubPlayerService) GetPlayer(context.Context, int64) (model.Player, error) {
	return s.player, s.err
}
func (s *stubPlayerService) ListPlayersByTeam(_ context.Context, teamID int64, _ repository.Page) (repository.PageResult[model.Player], error) {
	s.teamID = teamID
	return repository.PageResult[model.Player]{}, s.err
}
func (s *stubPlayerService) GetPlayerAggregatedStats(context.Context, int64, *int) (model.PlayerAggregatedStats, error) {
	return s.stats, s.err
}

type stubMatchService struct {
	match     model.Match
	err       error
	gotIn     service.MatchInput
	gotFilter repository.MatchFilter
}

func (s *stubMatchService) CreateMatch(_ context.Context, in service.MatchInput) (model.Match, error) {
	s.gotIn = in
	return s.match, s.err
}
func (s *stubMatchService) GetMatch(context.Context, int64) (model.Match, error) { return s.match, s.err }
func (s *stubMatchService) ListMatches(_ context.Context, f repository.MatchFilter, _ repository.Page) (repository.PageResult[model.Match], error) {
	s.gotFilter = f
	return repository.PageResult[model.Match]{}, s.err
}

type stubSimulationService struct {
	res       model.SimulationResult
	err       error
	simulated int64
}

func (s *stubSimulationService) SimulateMatch(_ context.Context, id int64) (model.SimulationResult, error) {
	s.simulated = id
	return s.res, s.err
}
func (s *stubSimulationService) GetMatchResult(context.Context, int64) (model.SimulationResult, error) {
	return s.res, s.err
}

func newRouter(p handler.Pinger, svc handler.Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.Register(r, p, svc)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = bytes.NewBufferString(s)
		} else {
			b, _ := json.Marshal(body)
			rd = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, handler.APIV1Prefix+path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
