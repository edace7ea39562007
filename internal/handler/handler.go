package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/maxviazov/football-sim-service/internal/service"
)

// APIV1Prefix is where every versioned route is mounted.
const APIV1Prefix = "/api/v1"

// Services groups the use cases exposed over HTTP. A nil service leaves its
// routes unmounted, which keeps probe-only routers cheap to build in tests.
type Services struct {
	Teams      service.TeamService
	Players    service.PlayerService
	Matches    service.MatchService
	Simulation service.SimulationService
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, repo Pinger, svc Services) {
	r.Use(cors.Default())

	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		if svc.Teams != nil {
			NewTeamHandler(svc.Teams).Register(api)
		}
		if svc.Players != nil {
			NewPlayerHandler(svc.Players).Register(api)
		}
		if svc.Matches != nil {
			NewMatchHandler(svc.Matches, svc.Simulation).Register(api)
		}
	}
}
