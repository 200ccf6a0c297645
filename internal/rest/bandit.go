package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"campaignAdvisor/business/bandit"
	"campaignAdvisor/domain"
	"campaignAdvisor/pkg/logger"
	"campaignAdvisor/pkg/tracing"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// rewardBounds caps client supplied rewards well below float64 overflow.
const rewardBounds = "gte=-1000000,lte=1000000"

type (
	BanditHandler struct {
		validate      *validator.Validate
		banditService BanditService
	}

	BanditService interface {
		RegisterArm(ctx context.Context, id string, meta domain.ArmMeta) error
		RecordOutcome(ctx context.Context, armID string, reward float64, bctx domain.BanditContext) error
		SelectArm(ctx context.Context, bctx domain.BanditContext) (domain.BanditDecision, error)
		GetArms() []domain.BanditArm
		GetArm(id string) (domain.BanditArm, error)
		GetRecentOutcomes(limit int) []domain.BanditOutcome
		Config() bandit.Config
	}

	RegisterArmRequest struct {
		ID          string `json:"id" validate:"required,max=128"`
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Version     string `json:"version"`
	}

	// RecordOutcomeRequest carries either a numeric reward or a funnel event
	// that is converted with the configured reward table.
	RecordOutcomeRequest struct {
		ArmID     string               `json:"arm_id" validate:"required"`
		Reward    *float64             `json:"reward" validate:"required_without=EventType"`
		EventType string               `json:"event_type" validate:"omitempty,oneof=generated dns_valid http_valid keyword_hit lead"`
		Context   domain.BanditContext `json:"context"`
	}

	OutcomesQuery struct {
		Limit int `query:"limit" validate:"gte=0"`
	}
)

func NewBanditHandler(svc BanditService) *BanditHandler {
	return &BanditHandler{
		validate:      validator.New(),
		banditService: svc,
	}
}

// POST /api/v1/bandit/arms
func (h *BanditHandler) RegisterArm(c echo.Context) error {
	var req RegisterArmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	meta := domain.ArmMeta{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Version:     req.Version,
	}
	if err := h.banditService.RegisterArm(c.Request().Context(), req.ID, meta); err != nil {
		logger.Warn("Failed to register arm", "arm_id", req.ID, "error", err)
		return c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
	}

	arm, err := h.banditService.GetArm(req.ID)
	if err != nil {
		// disabled selectors accept registrations without storing them
		return c.JSON(http.StatusAccepted, fres.Response.StatusOK(meta))
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(arm))
}

// GET /api/v1/bandit/arms
func (h *BanditHandler) GetArms(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.banditService.GetArms()))
}

// GET /api/v1/bandit/arms/:id
func (h *BanditHandler) GetArm(c echo.Context) error {
	arm, err := h.banditService.GetArm(c.Param("id"))
	if err != nil {
		return c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(arm))
}

// POST /api/v1/bandit/outcomes
func (h *BanditHandler) RecordOutcome(c echo.Context) error {
	var req RecordOutcomeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if req.Reward != nil && req.EventType != "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "reward and event_type are mutually exclusive"})
	}

	var reward float64
	if req.Reward != nil {
		if err := h.validate.Var(*req.Reward, rewardBounds); err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "reward must be within [-1000000, 1000000]"})
		}
		reward = *req.Reward
	} else {
		r, err := h.banditService.Config().RewardForEvent(req.EventType)
		if err != nil {
			return c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		}
		reward = r
	}

	ctx := c.Request().Context()
	if err := h.banditService.RecordOutcome(ctx, req.ArmID, reward, req.Context); err != nil {
		logger.Warn("Failed to record outcome",
			"trace_id", tracing.TraceIDFromContext(ctx),
			"arm_id", req.ArmID,
			"error", err,
		)
		return c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"arm_id": req.ArmID,
		"reward": reward,
	}))
}

// GET /api/v1/bandit/outcomes?limit=50
func (h *BanditHandler) GetRecentOutcomes(c echo.Context) error {
	var q OutcomesQuery
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
		q.Limit = limit
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.banditService.GetRecentOutcomes(q.Limit)))
}

// POST /api/v1/bandit/select
func (h *BanditHandler) SelectArm(c echo.Context) error {
	var bctx domain.BanditContext
	if err := c.Bind(&bctx); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	decision, err := h.banditService.SelectArm(c.Request().Context(), bctx)
	if err != nil {
		if !errors.Is(err, bandit.ErrNoArms) {
			logger.Error("Failed to select arm", "error", err)
		}
		return c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(decision))
}
