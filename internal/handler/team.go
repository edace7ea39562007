package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/football-sim-service/internal/service"
	"github.com/maxviazov/football-sim-service/pkg/response"
)

type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	{
		g.POST("", h.create)
		// Use a stable wildcard name (team_id) so nested routes (e.g. players) can reuse it without Gin conflicts.
		g.GET("/:team_id", h.getByID)
		g.GET("/:team_id/aggregates", h.getAggregatedStats)
		g.GET("", h.list)
	}
}

type createTeamRequest struct {
	Name                    string `json:"name"`
	ShortName               string `json:"short_name"`
	HomeCity                string `json:"home_city"`
	LeagueID                int64  `json:"league_id"`
	Reputation              int    `json:"reputation"`
	StadiumQuality          int    `json:"stadium_quality"`
	TrainingFacilityQuality int    `json:"training_facility_quality"`
}

func (h *TeamHandler) create(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// parse details stay internal
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	team, err := h.svc.CreateTeam(c.Request.Context(), service.TeamInput{
		Name:                    req.Name,
		ShortName:               req.ShortName,
		HomeCity:                req.HomeCity,
		LeagueID:                req.LeagueID,
		Reputation:              req.Reputation,
		StadiumQuality:          req.StadiumQuality,
		TrainingFacilityQuality: req.TrainingFacilityQuality,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, team)
}

func (h *TeamHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "team_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	team, err := h.svc.GetTeam(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, team)
}

func (h *TeamHandler) list(c *gin.Context) {
	res, err := h.svc.ListTeams(c.Request.Context(), pageQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *TeamHandler) getAggregatedStats(c *gin.Context) {
	id, err := pathID(c, "team_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	season, err := seasonQuery(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	stats, err := h.svc.GetTeamAggregatedStats(c.Request.Context(), id, season)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, stats)
}
