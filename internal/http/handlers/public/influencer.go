package public

import (
	"errors"
	"strconv"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// GetMyInfluencerDashboard 获取当前用户的推广数据总览
func (h *Handler) GetMyInfluencerDashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.InfluencerService.GetUserDashboard(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, dashboard)
}

// ListMyCommissions 获取当前用户的佣金明细
func (h *Handler) ListMyCommissions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	commissions, total, err := h.InfluencerService.ListUserCommissions(userID, page, pageSize, c.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrInfluencerNotFound) {
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, commissions, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ListMyWithdrawals 获取当前用户的提现记录
func (h *Handler) ListMyWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	withdrawals, total, err := h.InfluencerService.ListUserWithdrawals(userID, page, pageSize, c.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrInfluencerNotFound) {
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, withdrawals, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ApplyWithdrawalRequest 提现申请请求
type ApplyWithdrawalRequest struct {
	Amount models.Money `json:"amount"`
	Notes  string       `json:"notes"`
}

// ApplyWithdrawal 提交提现申请
func (h *Handler) ApplyWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req ApplyWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	withdrawal, err := h.InfluencerService.ApplyWithdrawal(userID, req.Amount.Decimal, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInfluencerNotFound):
			respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
		case errors.Is(err, service.ErrInfluencerInactive):
			respondError(c, response.CodeBadRequest, "error.influencer_inactive", nil)
		case errors.Is(err, service.ErrWithdrawalBelowMinimum):
			respondError(c, response.CodeBadRequest, "error.withdrawal_below_min", nil)
		case errors.Is(err, service.ErrInsufficientBalance):
			respondError(c, response.CodeBadRequest, "error.insufficient_balance", nil)
		case errors.Is(err, service.ErrWithdrawalPending):
			respondError(c, response.CodeBadRequest, "error.withdrawal_pending", nil)
		case errors.Is(err, service.ErrWithdrawalInvalid):
			respondError(c, response.CodeBadRequest, "error.withdrawal_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	logger.Infow("user_withdrawal_applied",
		"user_id", userID,
		"withdrawal_id", withdrawal.ID,
		"amount", withdrawal.Amount,
	)

	response.Success(c, withdrawal)
}

// GetMyInfluencerProfile 获取当前用户的达人档案
func (h *Handler) GetMyInfluencerProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	influencer, err := h.InfluencerService.GetInfluencerByUserID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if influencer == nil {
		respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
		return
	}

	response.Success(c, influencer)
}

// ListMyPromoCodes 获取绑定到当前达人的推广码
func (h *Handler) ListMyPromoCodes(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	influencer, err := h.InfluencerService.GetInfluencerByUserID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if influencer == nil {
		respondError(c, response.CodeNotFound, "error.influencer_not_found", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	codes, total, err := h.PromoAdminService.List(repository.PromoCodeListFilter{
		Page:         page,
		PageSize:     pageSize,
		InfluencerID: influencer.ID,
		Status:       c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, codes, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
