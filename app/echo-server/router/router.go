package router

import (
	"net/http"

	"campaignAdvisor/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetBanditRoutes(api *echo.Group, handler *rest.BanditHandler, admin *rest.BanditAdminHandler) {
	b := api.Group("/bandit")

	b.POST("/arms", handler.RegisterArm)
	b.GET("/arms", handler.GetArms)
	b.GET("/arms/:id", handler.GetArm)
	b.DELETE("/arms", admin.Clear)

	b.POST("/outcomes", handler.RecordOutcome)
	b.GET("/outcomes", handler.GetRecentOutcomes)
	b.POST("/select", handler.SelectArm)

	b.GET("/summary", admin.GetSummary)
	b.GET("/config", admin.GetConfig)
	b.PUT("/config", admin.UpdateConfig)
}

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")

	reco.POST("/score", handler.Score)
	reco.POST("/generate", handler.Generate)
}

func SetOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
