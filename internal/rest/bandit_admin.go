package rest

import (
	"net/http"

	"campaignAdvisor/business/bandit"
	"campaignAdvisor/domain"
	"campaignAdvisor/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	BanditAdminHandler struct {
		banditService BanditAdminService
	}

	BanditAdminService interface {
		GetPerformanceSummary() domain.BanditPerformanceSummary
		Clear()
		UpdateConfig(patch bandit.ConfigPatch) (bandit.Config, error)
		Config() bandit.Config
	}
)

func NewBanditAdminHandler(svc BanditAdminService) *BanditAdminHandler {
	return &BanditAdminHandler{banditService: svc}
}

// GET /api/v1/bandit/summary
func (h *BanditAdminHandler) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.banditService.GetPerformanceSummary()))
}

// GET /api/v1/bandit/config
func (h *BanditAdminHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.banditService.Config()))
}

// PUT /api/v1/bandit/config
// body: partial config, omitted fields keep their value
func (h *BanditAdminHandler) UpdateConfig(c echo.Context) error {
	var patch bandit.ConfigPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid body: " + err.Error()})
	}

	cfg, err := h.banditService.UpdateConfig(patch)
	if err != nil {
		return c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
	}

	logger.Info("Bandit config updated",
		"strategy", cfg.Strategy,
		"exploration_factor", cfg.ExplorationFactor,
		"min_sample_size", cfg.MinSampleSize,
	)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cfg))
}

// DELETE /api/v1/bandit/arms
func (h *BanditAdminHandler) Clear(c echo.Context) error {
	h.banditService.Clear()
	logger.Info("Bandit registry cleared")

	return c.NoContent(http.StatusNoContent)
}
