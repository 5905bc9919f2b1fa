package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetAdminPlans 获取套餐列表 (Admin)
func (h *Handler) GetAdminPlans(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	plans, total, err := h.PlanService.ListPlans(repository.PlanListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
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
	response.SuccessWithPage(c, plans, pagination)
}

// GetAdminPlan 获取套餐详情 (Admin)
func (h *Handler) GetAdminPlan(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	plan, err := h.PlanService.GetPlan(id)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, plan)
}

// CreatePlanRequest 创建套餐请求
type CreatePlanRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Type          string   `json:"type" binding:"required"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency" binding:"required"`
	Features      []string `json:"features"`
	StripePriceID string   `json:"stripe_price_id"`
	TrialDays     int      `json:"trial_days"`
	SortOrder     int      `json:"sort_order"`
	Status        string   `json:"status"`
}

// CreatePlan 创建套餐
func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	plan, err := h.PlanService.CreatePlan(service.CreatePlanInput{
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Price:         decimal.NewFromFloat(req.Price),
		Currency:      req.Currency,
		Features:      req.Features,
		StripePriceID: req.StripePriceID,
		TrialDays:     req.TrialDays,
		SortOrder:     req.SortOrder,
		Status:        req.Status,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlanInvalid) {
			respondError(c, response.CodeBadRequest, "error.plan_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, plan)
}

// UpdatePlanRequest 更新套餐请求（nil 字段不更新）
type UpdatePlanRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Type          *string  `json:"type"`
	Price         *float64 `json:"price"`
	Currency      *string  `json:"currency"`
	Features      []string `json:"features"`
	StripePriceID *string  `json:"stripe_price_id"`
	TrialDays     *int     `json:"trial_days"`
	SortOrder     *int     `json:"sort_order"`
	Status        *string  `json:"status"`
}

// UpdatePlan 更新套餐
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	var price *decimal.Decimal
	if req.Price != nil {
		value := decimal.NewFromFloat(*req.Price)
		price = &value
	}

	plan, err := h.PlanService.UpdatePlan(id, service.UpdatePlanInput{
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Price:         price,
		Currency:      req.Currency,
		Features:      req.Features,
		StripePriceID: req.StripePriceID,
		TrialDays:     req.TrialDays,
		SortOrder:     req.SortOrder,
		Status:        req.Status,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrPlanInvalid) {
			respondError(c, response.CodeBadRequest, "error.plan_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, plan)
}

// DeletePlan 删除套餐（软删除）
func (h *Handler) DeletePlan(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	if err := h.PlanService.DeletePlan(id); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// GetPlanStats 获取套餐成交统计
func (h *Handler) GetPlanStats(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	from, err := parseTimeNullable(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}
	to, err := parseTimeNullable(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	endAt := time.Now()
	if to != nil {
		endAt = *to
	}
	startAt := endAt.AddDate(0, 0, -30)
	if from != nil {
		startAt = *from
	}

	stats, err := h.PlanService.GetPlanStats(startAt, endAt, 100)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	for _, row := range stats {
		if row.PlanID == id {
			response.Success(c, row)
			return
		}
	}

	plan, err := h.PlanService.GetPlan(id)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			respondError(c, response.CodeNotFound, "error.plan_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, service.PlanStats{PlanID: plan.ID, Name: plan.Name})
}
