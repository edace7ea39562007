package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/maxviazov/football-sim-service/internal/model"
	"github.com/maxviazov/football-sim-service/internal/service"
	"github.com/maxviazov/football-sim-service/pkg/response"
)

const serviceTimeout = 5 * time.Second

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.GET("/:id/aggregates", h.getAggregatedStats)
	}
	// Nested listing: /api/v1/teams/:team_id/players
	r.Group("/teams").GET("/:team_id/players", h.listByTeam)
}

type createPlayerRequest struct {
	TeamID    int64         `json:"team_id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Position  string        `json:"position"`
	Skills    *model.Skills `json:"skills"`
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req createPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), service.PlayerInput{
		TeamID:    req.TeamID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Position:  req.Position,
		Skills:    req.Skills,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	player, err := h.svc.GetPlayer(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) listByTeam(c *gin.Context) {
	teamID, err := pathID(c, "team_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListPlayersByTeam(c.Request.Context(), teamID, pageQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

// getAggregatedStats returns career totals, or one season's with ?season=.
func (h *PlayerHandler) getAggregatedStats(c *gin.Context) {
	start := time.Now()
	id, err := pathID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	season, err := seasonQuery(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	stats, err := h.svc.GetPlayerAggregatedStats(ctx, id, season)

	logger := log.With().
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Int64("player_id", id).
		Dur("duration", time.Since(start)).
		Logger()

	if err != nil {
		status, _ := response.MapError(err)
		logger.Error().Err(err).Int("status", status).Msg("failed to get player aggregates")
		response.WriteError(c, err)
		return
	}

	logger.Info().Int("status", http.StatusOK).Msg("player aggregates retrieved")
	response.WriteData(c, http.StatusOK, stats)
}
