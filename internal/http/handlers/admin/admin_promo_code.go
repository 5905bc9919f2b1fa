package admin

import (
	"errors"
	"strconv"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminPromoCodes 获取优惠码列表 (Admin)
func (h *Handler) GetAdminPromoCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	influencerID, _ := strconv.ParseUint(c.Query("influencer_id"), 10, 64)

	promoCodes, total, err := h.PromoAdminService.List(repository.PromoCodeListFilter{
		Page:         page,
		PageSize:     pageSize,
		Code:         c.Query("code"),
		Type:         c.Query("type"),
		Status:       c.Query("status"),
		InfluencerID: uint(influencerID),
		Search:       c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, promoCodes, pagination)
}

// GetAdminPromoCode 获取优惠码详情 (Admin)
func (h *Handler) GetAdminPromoCode(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	promo, err := h.PromoAdminService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrPromoCodeNotFound) {
			respondError(c, response.CodeNotFound, "error.promo_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, promo)
}

// CreatePromoCodeRequest 创建优惠码请求
type CreatePromoCodeRequest struct {
	Code           string       `json:"code" binding:"required"`
	Description    string       `json:"description"`
	InfluencerID   *uint        `json:"influencer_id"`
	Type           string       `json:"type" binding:"required"`
	Value          models.Money `json:"value"`
	MaxDiscount    models.Money `json:"max_discount"`
	MinOrderAmount models.Money `json:"min_order_amount"`
	UsageLimit     int          `json:"usage_limit"`
	Status         string       `json:"status"`
	ExpiresAt      *string      `json:"expires_at"`
}

// CreatePromoCode 创建优惠码
func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req CreatePromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	expiresAt, err := parseTimeNullable(stringValue(req.ExpiresAt))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	promo, err := h.PromoAdminService.Create(service.CreatePromoCodeInput{
		Code:           req.Code,
		Description:    req.Description,
		InfluencerID:   req.InfluencerID,
		Type:           req.Type,
		Value:          req.Value,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		Status:         req.Status,
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoCodeExists):
			respondError(c, response.CodeBadRequest, "error.promo_code_exists", nil)
		case errors.Is(err, service.ErrPromoCodeValueInvalid):
			respondError(c, response.CodeBadRequest, "error.promo_value_invalid", nil)
		case errors.Is(err, service.ErrInfluencerNotFound):
			respondError(c, response.CodeBadRequest, "error.influencer_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, promo)
}

// UpdatePromoCodeRequest 更新优惠码请求（nil 字段不更新）
type UpdatePromoCodeRequest struct {
	Description    *string       `json:"description"`
	InfluencerID   *uint         `json:"influencer_id"`
	Type           *string       `json:"type"`
	Value          *models.Money `json:"value"`
	MaxDiscount    *models.Money `json:"max_discount"`
	MinOrderAmount *models.Money `json:"min_order_amount"`
	UsageLimit     *int          `json:"usage_limit"`
	Status         *string       `json:"status"`
	ExpiresAt      *string       `json:"expires_at"`
	ClearExpiresAt bool          `json:"clear_expires_at"`
}

// UpdatePromoCode 更新优惠码
func (h *Handler) UpdatePromoCode(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req UpdatePromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	expiresAt, err := parseTimeNullable(stringValue(req.ExpiresAt))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	promo, err := h.PromoAdminService.Update(id, service.UpdatePromoCodeInput{
		Description:    req.Description,
		InfluencerID:   req.InfluencerID,
		Type:           req.Type,
		Value:          req.Value,
		MaxDiscount:    req.MaxDiscount,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		Status:         req.Status,
		ExpiresAt:      expiresAt,
		ClearExpiresAt: req.ClearExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoCodeNotFound):
			respondError(c, response.CodeNotFound, "error.promo_not_found", nil)
		case errors.Is(err, service.ErrPromoCodeValueInvalid):
			respondError(c, response.CodeBadRequest, "error.promo_value_invalid", nil)
		case errors.Is(err, service.ErrInfluencerNotFound):
			respondError(c, response.CodeBadRequest, "error.influencer_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, promo)
}

// DeletePromoCode 删除优惠码（软删除）
func (h *Handler) DeletePromoCode(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	if err := h.PromoAdminService.Delete(id); err != nil {
		if errors.Is(err, service.ErrPromoCodeNotFound) {
			respondError(c, response.CodeNotFound, "error.promo_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
