package public

import (
	"errors"
	"strconv"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	PlanID    uint   `json:"plan_id" binding:"required"`
	PromoCode string `json:"promo_code"`
}

// Checkout 创建订单并发起支付
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	result, err := h.PurchaseService.Checkout(service.CheckoutInput{
		UserID:    userID,
		PlanID:    req.PlanID,
		PromoCode: req.PromoCode,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrPlanNotFound):
			respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
		case errors.Is(err, service.ErrPlanUnavailable):
			respondError(c, response.CodeBadRequest, "error.plan_unavailable", nil)
		case errors.Is(err, service.ErrPromoCodeNotFound):
			respondError(c, response.CodeBadRequest, "error.promo_not_found", nil)
		case errors.Is(err, service.ErrPromoCodeInactive):
			respondError(c, response.CodeBadRequest, "error.promo_inactive", nil)
		case errors.Is(err, service.ErrPromoCodeExpired):
			respondError(c, response.CodeBadRequest, "error.promo_expired", nil)
		case errors.Is(err, service.ErrPromoCodeUsageLimit):
			respondError(c, response.CodeBadRequest, "error.promo_usage_limit", nil)
		case errors.Is(err, service.ErrPromoCodeMinOrder):
			respondError(c, response.CodeBadRequest, "error.promo_min_order", nil)
		case errors.Is(err, service.ErrPaymentNotConfigured):
			respondError(c, response.CodeInternal, "error.payment_not_configured", err)
		case errors.Is(err, service.ErrStripeConfigInvalid):
			respondError(c, response.CodeInternal, "error.stripe_config_invalid", err)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	logger.Infow("user_checkout_created",
		"user_id", userID,
		"plan_id", req.PlanID,
		"order_no", result.Purchase.OrderNo,
	)

	response.Success(c, result)
}

// ListMyPurchases 获取当前用户的购买记录
func (h *Handler) ListMyPurchases(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PurchaseListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
	}

	purchases, total, err := h.PurchaseService.ListPurchases(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, purchases, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetMyPurchase 获取当前用户的单条购买记录
func (h *Handler) GetMyPurchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	purchase, err := h.PurchaseService.GetPurchase(id)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			respondError(c, response.CodeNotFound, "error.purchase_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if purchase.UserID != userID {
		respondError(c, response.CodeNotFound, "error.purchase_not_found", nil)
		return
	}

	response.Success(c, purchase)
}
