package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/maxviazov/football-sim-service/internal/repository"
	"github.com/maxviazov/football-sim-service/internal/service"
	"github.com/maxviazov/football-sim-service/pkg/response"
)

type MatchHandler struct {
	matches service.MatchService
	sim     service.SimulationService
}

func NewMatchHandler(matches service.MatchService, sim service.SimulationService) *MatchHandler {
	return &MatchHandler{matches: matches, sim: sim}
}

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		if h.sim != nil {
			g.POST("/:id/simulate", h.simulate)
			g.GET("/:id/result", h.result)
		}
	}
}

type createMatchRequest struct {
	HomeTeamID int64  `json:"home_team_id"`
	AwayTeamID int64  `json:"away_team_id"`
	LeagueID   int64  `json:"league_id"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	MatchDate  string `json:"match_date"` // RFC3339
}

func (h *MatchHandler) create(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	in := service.MatchInput{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		LeagueID:   req.LeagueID,
		Season:     req.Season,
		Week:       req.Week,
	}
	if raw := strings.TrimSpace(req.MatchDate); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.WriteError(c, service.NewInvalidInputError("match_date", "must be an RFC3339 timestamp"))
			return
		}
		in.MatchDate = date
	}

	match, err := h.matches.CreateMatch(c.Request.Context(), in)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, match)
}

func (h *MatchHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	match, err := h.matches.GetMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, match)
}

// list supports ?team_id=, ?season= and ?played= filters on top of paging.
func (h *MatchHandler) list(c *gin.Context) {
	var f repository.MatchFilter
	if raw := strings.TrimSpace(c.Query("team_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.WriteError(c, service.NewInvalidInputError("team_id", "must be a valid integer"))
			return
		}
		f.TeamID = id
	}
	var err error
	if f.Season, err = seasonQuery(c); err != nil {
		response.WriteError(c, err)
		return
	}
	if f.Played, err = boolQuery(c, "played"); err != nil {
		response.WriteError(c, err)
		return
	}

	res, err := h.matches.ListMatches(c.Request.Context(), f, pageQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) simulate(c *gin.Context) {
	start := time.Now()
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	res, err := h.sim.SimulateMatch(ctx, id)
	logger := log.With().
		Str("path", c.Request.URL.Path).
		Int64("match_id", id).
		Dur("duration", time.Since(start)).
		Logger()
	if err != nil {
		status, _ := response.MapError(err)
		logger.Error().Err(err).Int("status", status).Msg("failed to simulate match")
		response.WriteError(c, err)
		return
	}
	logger.Info().Int("status", http.StatusOK).Msg("match simulated")
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) result(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.sim.GetMatchResult(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
