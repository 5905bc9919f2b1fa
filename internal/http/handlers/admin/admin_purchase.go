package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

func parsePurchaseListFilter(c *gin.Context) (repository.PurchaseListFilter, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	planID, _ := strconv.ParseUint(c.Query("plan_id"), 10, 64)
	promoCodeID, _ := strconv.ParseUint(c.Query("promo_code_id"), 10, 64)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		return repository.PurchaseListFilter{}, err
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		return repository.PurchaseListFilter{}, err
	}

	return repository.PurchaseListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      uint(userID),
		PlanID:      uint(planID),
		PromoCodeID: uint(promoCodeID),
		OrderNo:     c.Query("order_no"),
		Status:      c.Query("status"),
		Keyword:     c.Query("search"),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}, nil
}

// GetAdminPurchases 获取购买记录列表 (Admin)
func (h *Handler) GetAdminPurchases(c *gin.Context) {
	filter, err := parsePurchaseListFilter(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	purchases, total, err := h.PurchaseService.ListPurchases(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	pagination := response.Pagination{
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		Total:     total,
		TotalPage: (total + int64(filter.PageSize) - 1) / int64(filter.PageSize),
	}
	response.SuccessWithPage(c, purchases, pagination)
}

// GetAdminPurchase 获取购买记录详情 (Admin)
func (h *Handler) GetAdminPurchase(c *gin.Context) {
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

	response.Success(c, purchase)
}

// UpdatePurchaseStatusRequest 调整购买记录状态请求
type UpdatePurchaseStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePurchaseStatus 手工调整购买记录状态
func (h *Handler) UpdatePurchaseStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req UpdatePurchaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	purchase, err := h.PurchaseService.UpdatePurchaseStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound):
			respondError(c, response.CodeNotFound, "error.purchase_not_found", nil)
		case errors.Is(err, service.ErrPurchaseStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.purchase_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	requestLog(c).Infow("admin_purchase_status_updated",
		"operator_admin_id", currentAdminID(c),
		"purchase_id", purchase.ID,
		"status", purchase.Status,
	)

	response.Success(c, purchase)
}

// ExportAdminPurchases 导出购买记录 CSV
func (h *Handler) ExportAdminPurchases(c *gin.Context) {
	filter, err := parsePurchaseListFilter(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	data, err := h.PurchaseService.ExportPurchasesCSV(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	filename := fmt.Sprintf("purchases_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
