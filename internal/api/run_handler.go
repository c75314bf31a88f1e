package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ericogr/combo-chronicle/internal/config"
	"github.com/ericogr/combo-chronicle/internal/constants"
	"github.com/ericogr/combo-chronicle/internal/dedupe"
	"github.com/ericogr/combo-chronicle/internal/logging"
	"github.com/ericogr/combo-chronicle/internal/service"
	"github.com/ericogr/combo-chronicle/internal/storage"
	"github.com/ericogr/combo-chronicle/internal/stream"
)

// RunHandler groups the HTTP handlers of the game API.
type RunHandler struct {
	runs     *service.Runs
	repo     storage.Repository
	hub      *stream.Hub
	upgrader websocket.Upgrader
	// queries collapses concurrent identical catalog and leaderboard reads.
	queries dedupe.Group
}

// NewRunHandler wires the handlers. server supplies the origin policy for
// run streams.
func NewRunHandler(runs *service.Runs, repo storage.Repository, hub *stream.Hub, server config.ServerConfig) *RunHandler {
	return &RunHandler{
		runs: runs,
		repo: repo,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				allowed := server.IsOriginAllowed(origin, r.Host)
				if !allowed {
					logging.Warn("stream rejected; origin not allowed", logging.Fields{
						"origin": origin,
						"host":   r.Host,
					})
				}
				return allowed
			},
		},
	}
}

// RegisterRoutes mounts every endpoint under the API prefix.
func RegisterRoutes(router *gin.Engine, h *RunHandler) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteLeaderboard, h.ListLeaderboard)
		apiRoutes.GET(constants.RouteCatalogSkills, h.ListSkills)
		apiRoutes.GET(constants.RouteCatalogEnemies, h.ListEnemies)
		apiRoutes.GET(constants.RouteCatalogPassives, h.ListPassives)

		runRoutes := apiRoutes.Group("", noCache())
		runRoutes.POST(constants.RouteRuns, h.CreateRun)
		runRoutes.GET(constants.RouteRunByID, h.GetRun)
		runRoutes.POST(constants.RouteRunPlay, h.PlayCard)
		runRoutes.POST(constants.RouteRunRest, h.Rest)
		runRoutes.POST(constants.RouteRunAdvance, h.Advance)
		runRoutes.POST(constants.RouteRunRewardCard, h.ChooseCard)
		runRoutes.POST(constants.RouteRunRewardPower, h.ChooseAbility)
		runRoutes.POST(constants.RouteRunRewardSkip, h.SkipReward)
		runRoutes.POST(constants.RouteRunShopCard, h.BuyCard)
		runRoutes.POST(constants.RouteRunShopPassive, h.BuyPassive)
		runRoutes.POST(constants.RouteRunShopRemove, h.RemoveCard)
		runRoutes.POST(constants.RouteRunShopLeave, h.LeaveShop)
		runRoutes.POST(constants.RouteRunRestart, h.Restart)
		runRoutes.GET(constants.RouteRunStream, h.Stream)
	}
}

func noCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
		c.Next()
	}
}
