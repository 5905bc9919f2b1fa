package public

import (
	"errors"
	"time"

	"github.com/coachpanel/internal/cache"
	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig 获取站点公开配置
func (h *Handler) GetConfig(c *gin.Context) {
	defaults := map[string]interface{}{
		"site_name":     "Coach Panel",
		"languages":     []string{"en", "zh"},
		"support_email": "",
		"currency":      "USD",
	}

	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	data, err := h.SettingService.GetConfig(defaults)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	stripeSetting, err := h.SettingService.GetStripeSetting()
	if err == nil {
		data["stripe_enabled"] = stripeSetting.Enabled
		data["stripe_publishable_key"] = stripeSetting.PublishableKey
	}
	influencerSetting, err := h.SettingService.GetInfluencerSetting()
	if err == nil {
		data["influencer_enabled"] = influencerSetting.Enabled
	}

	_ = cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL)

	response.Success(c, data)
}

// GetPlans 获取可购买的订阅套餐列表
func (h *Handler) GetPlans(c *gin.Context) {
	plans, err := h.PlanService.ListActivePlans()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, plans)
}

// GetPlan 获取单个可购买套餐
func (h *Handler) GetPlan(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	plan, err := h.PlanService.GetActivePlan(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
		case errors.Is(err, service.ErrPlanUnavailable):
			respondError(c, response.CodeNotFound, "error.plan_unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, plan)
}

// ValidatePromoCodeRequest 优惠码校验请求
type ValidatePromoCodeRequest struct {
	Code   string       `json:"code" binding:"required"`
	Amount models.Money `json:"amount"`
}

// ValidatePromoCode 校验优惠码并试算折扣
func (h *Handler) ValidatePromoCode(c *gin.Context) {
	var req ValidatePromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	evaluation, err := h.PromoService.Evaluate(req.Code, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoCodeNotFound):
			respondError(c, response.CodeNotFound, "error.promo_not_found", nil)
		case errors.Is(err, service.ErrPromoCodeInactive):
			respondError(c, response.CodeBadRequest, "error.promo_inactive", nil)
		case errors.Is(err, service.ErrPromoCodeExpired):
			respondError(c, response.CodeBadRequest, "error.promo_expired", nil)
		case errors.Is(err, service.ErrPromoCodeUsageLimit):
			respondError(c, response.CodeBadRequest, "error.promo_usage_limit", nil)
		case errors.Is(err, service.ErrPromoCodeMinOrder):
			respondError(c, response.CodeBadRequest, "error.promo_min_order", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, evaluation)
}
