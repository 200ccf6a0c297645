package rest

import (
	"context"
	"net/http"

	"campaignAdvisor/business/recommendation"
	"campaignAdvisor/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate        *validator.Validate
		enhanced        RecommendationScorer
		fallback        RecommendationScorer
		defaultEnhanced bool
	}

	RecommendationScorer interface {
		ScoreAndGroup(ctx context.Context, recs []domain.Recommendation, sc domain.ScoringContext) []domain.RecommendationGroup
	}

	ScoreRequest struct {
		Recommendations []domain.Recommendation `json:"recommendations" validate:"dive"`
		Context         domain.ScoringContext   `json:"context"`
		Enhanced        *bool                   `json:"enhanced"`
	}

	GenerateRequest struct {
		Funnel        domain.CampaignFunnel  `json:"funnel"`
		Metrics       domain.CampaignMetrics `json:"metrics"`
		TargetDomains *int64                 `json:"target_domains" validate:"omitempty,gt=0"`
		Enhanced      *bool                  `json:"enhanced"`
	}

	GenerateResponse struct {
		Recommendations []domain.Recommendation      `json:"recommendations"`
		Groups          []domain.RecommendationGroup `json:"groups"`
	}
)

// NewRecommendationHandler takes both scoring modes so a request can override
// the configured default.
func NewRecommendationHandler(enhanced, fallback RecommendationScorer, defaultEnhanced bool) *RecommendationHandler {
	return &RecommendationHandler{
		validate:        validator.New(),
		enhanced:        enhanced,
		fallback:        fallback,
		defaultEnhanced: defaultEnhanced,
	}
}

func (h *RecommendationHandler) scorer(override *bool) RecommendationScorer {
	enhanced := h.defaultEnhanced
	if override != nil {
		enhanced = *override
	}
	if enhanced {
		return h.enhanced
	}
	return h.fallback
}

// POST /api/v1/recommendations/score
func (h *RecommendationHandler) Score(c echo.Context) error {
	var req ScoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	groups := h.scorer(req.Enhanced).ScoreAndGroup(c.Request().Context(), req.Recommendations, req.Context)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(groups))
}

// POST /api/v1/recommendations/generate
func (h *RecommendationHandler) Generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	recs := recommendation.Generate(req.Funnel, req.Metrics)
	sc := recommendation.ContextFromCampaign(req.Funnel, req.Metrics, req.TargetDomains)
	groups := h.scorer(req.Enhanced).ScoreAndGroup(c.Request().Context(), recs, sc)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(GenerateResponse{
		Recommendations: recs,
		Groups:          groups,
	}))
}
