package admin

import (
	"errors"
	"strconv"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/queue"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminInfluencers 获取达人列表 (Admin)
func (h *Handler) GetAdminInfluencers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	items, total, err := h.InfluencerService.ListInfluencers(repository.InfluencerListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Keyword:  c.Query("search"),
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
	response.SuccessWithPage(c, items, pagination)
}

// GetAdminInfluencer 获取达人详情 (Admin)
func (h *Handler) GetAdminInfluencer(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	influencer, stats, err := h.InfluencerService.GetInfluencer(id)
	if err != nil {
		if errors.Is(err, service.ErrInfluencerNotFound) {
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"influencer": influencer,
		"stats":      stats,
	})
}

// CreateInfluencerRequest 创建达人请求
type CreateInfluencerRequest struct {
	UserID          uint     `json:"user_id" binding:"required"`
	CommissionRate  *float64 `json:"commission_rate"`
	Status          string   `json:"status"`
	StripeAccountID string   `json:"stripe_account_id"`
	Notes           string   `json:"notes"`
}

// CreateInfluencer 创建达人
func (h *Handler) CreateInfluencer(c *gin.Context) {
	var req CreateInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	influencer, err := h.InfluencerService.CreateInfluencer(service.CreateInfluencerInput{
		UserID:          req.UserID,
		CommissionRate:  req.CommissionRate,
		Status:          req.Status,
		StripeAccountID: req.StripeAccountID,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeBadRequest, "error.user_not_found", nil)
		case errors.Is(err, service.ErrInfluencerExists):
			respondError(c, response.CodeBadRequest, "error.influencer_exists", nil)
		case errors.Is(err, service.ErrCommissionRateInvalid):
			respondError(c, response.CodeBadRequest, "error.commission_rate_invalid", nil)
		case errors.Is(err, service.ErrInfluencerStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.influencer_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, influencer)
}

// UpdateInfluencerRequest 更新达人请求（nil 字段不更新）
type UpdateInfluencerRequest struct {
	CommissionRate  *float64 `json:"commission_rate"`
	Status          *string  `json:"status"`
	StripeAccountID *string  `json:"stripe_account_id"`
	Notes           *string  `json:"notes"`
}

// UpdateInfluencer 更新达人
func (h *Handler) UpdateInfluencer(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req UpdateInfluencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	influencer, err := h.InfluencerService.UpdateInfluencer(id, service.UpdateInfluencerInput{
		CommissionRate:  req.CommissionRate,
		Status:          req.Status,
		StripeAccountID: req.StripeAccountID,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInfluencerNotFound):
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
		case errors.Is(err, service.ErrCommissionRateInvalid):
			respondError(c, response.CodeBadRequest, "error.commission_rate_invalid", nil)
		case errors.Is(err, service.ErrInfluencerStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.influencer_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, influencer)
}

// UpdateInfluencerStatusRequest 更新达人状态请求
type UpdateInfluencerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateInfluencerStatus 更新达人状态
func (h *Handler) UpdateInfluencerStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req UpdateInfluencerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	influencer, err := h.InfluencerService.UpdateInfluencerStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInfluencerNotFound):
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
		case errors.Is(err, service.ErrInfluencerStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.influencer_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, influencer)
}

// SettleInfluencerCommissionsRequest 结算达人佣金请求
type SettleInfluencerCommissionsRequest struct {
	PayoutID *uint  `json:"payout_id"`
	Notes    string `json:"notes"`
}

// SettleInfluencerCommissions 批量结算达人已确认佣金
func (h *Handler) SettleInfluencerCommissions(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req SettleInfluencerCommissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	settled, err := h.InfluencerService.PayApprovedCommissions(id, req.PayoutID, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrInfluencerNotFound) {
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	requestLog(c).Infow("admin_influencer_commissions_settled",
		"operator_admin_id", currentAdminID(c),
		"influencer_id", id,
		"settled", settled,
	)

	response.Success(c, gin.H{"settled": settled})
}

// GetAdminCommissions 获取佣金列表 (Admin)
func (h *Handler) GetAdminCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	influencerID, _ := strconv.ParseUint(c.Query("influencer_id"), 10, 64)
	purchaseID, _ := strconv.ParseUint(c.Query("purchase_id"), 10, 64)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	commissions, total, err := h.InfluencerService.ListCommissions(repository.CommissionListFilter{
		Page:         page,
		PageSize:     pageSize,
		InfluencerID: uint(influencerID),
		PurchaseID:   uint(purchaseID),
		Status:       c.Query("status"),
		Keyword:      c.Query("search"),
		CreatedFrom:  createdFrom,
		CreatedTo:    createdTo,
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
	response.SuccessWithPage(c, commissions, pagination)
}

// UpdateCommissionStatusRequest 更新佣金状态请求
type UpdateCommissionStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateCommissionStatus 更新佣金状态
func (h *Handler) UpdateCommissionStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req UpdateCommissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	commission, err := h.InfluencerService.UpdateCommissionStatus(id, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommissionNotFound):
			respondError(c, response.CodeNotFound, "error.commission_not_found", nil)
		case errors.Is(err, service.ErrInvalidStateTransition):
			respondError(c, response.CodeBadRequest, "error.invalid_state_transition", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	requestLog(c).Infow("admin_commission_status_updated",
		"operator_admin_id", currentAdminID(c),
		"commission_id", id,
		"status", commission.Status,
	)

	response.Success(c, commission)
}

// GetAdminWithdrawals 获取提现申请列表 (Admin)
func (h *Handler) GetAdminWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	influencerID, _ := strconv.ParseUint(c.Query("influencer_id"), 10, 64)

	withdrawals, total, err := h.InfluencerService.ListWithdrawals(repository.WithdrawalListFilter{
		Page:         page,
		PageSize:     pageSize,
		InfluencerID: uint(influencerID),
		Status:       c.Query("status"),
		Keyword:      c.Query("search"),
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
	response.SuccessWithPage(c, withdrawals, pagination)
}

// ReviewWithdrawalRequest 审核提现申请请求
type ReviewWithdrawalRequest struct {
	Outcome   string `json:"outcome" binding:"required"` // paid 或 rejected
	PayoutRef string `json:"payout_ref"`
	Notes     string `json:"notes"`
}

// ReviewWithdrawal 审核提现申请（打款或驳回）
func (h *Handler) ReviewWithdrawal(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req ReviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	withdrawal, err := h.InfluencerService.ReviewWithdrawal(adminID, id, req.Outcome, req.PayoutRef, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawalNotFound):
			respondError(c, response.CodeNotFound, "error.withdrawal_not_found", nil)
		case errors.Is(err, service.ErrWithdrawalProcessed):
			respondError(c, response.CodeBadRequest, "error.withdrawal_processed", nil)
		case errors.Is(err, service.ErrWithdrawalInvalid):
			respondError(c, response.CodeBadRequest, "error.withdrawal_invalid", nil)
		case errors.Is(err, service.ErrInsufficientBalance):
			respondError(c, response.CodeBadRequest, "error.insufficient_balance", nil)
		case errors.Is(err, service.ErrInfluencerNotFound):
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	if h.QueueClient != nil && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueWithdrawalStatusEmail(queue.WithdrawalStatusEmailPayload{
			WithdrawalID: withdrawal.ID,
			Status:       withdrawal.Status,
		}); err != nil {
			requestLog(c).Warnw("admin_withdrawal_email_enqueue_failed",
				"withdrawal_id", withdrawal.ID,
				"error", err,
			)
		}
	}

	requestLog(c).Infow("admin_withdrawal_reviewed",
		"operator_admin_id", adminID,
		"withdrawal_id", withdrawal.ID,
		"status", withdrawal.Status,
	)

	response.Success(c, withdrawal)
}
