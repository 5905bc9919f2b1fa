package admin

import (
	"errors"
	"strconv"

	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminEmailTemplates 获取邮件模板列表 (Admin)
func (h *Handler) GetAdminEmailTemplates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	templates, total, err := h.EmailTemplateService.ListTemplates(repository.EmailTemplateListFilter{
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
	response.SuccessWithPage(c, templates, pagination)
}

// GetAdminEmailTemplate 获取邮件模板详情 (Admin)
func (h *Handler) GetAdminEmailTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	template, err := h.EmailTemplateService.GetTemplate(id)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, response.CodeNotFound, "error.template_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, template)
}

// CreateEmailTemplateRequest 创建邮件模板请求
type CreateEmailTemplateRequest struct {
	Type      string   `json:"type" binding:"required"`
	Name      string   `json:"name" binding:"required"`
	Subject   string   `json:"subject" binding:"required"`
	HTMLBody  string   `json:"html_body"`
	TextBody  string   `json:"text_body"`
	Variables []string `json:"variables"`
	Status    string   `json:"status"`
}

// CreateEmailTemplate 创建邮件模板
func (h *Handler) CreateEmailTemplate(c *gin.Context) {
	var req CreateEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	template, err := h.EmailTemplateService.CreateTemplate(service.CreateEmailTemplateInput{
		Type:      req.Type,
		Name:      req.Name,
		Subject:   req.Subject,
		HTMLBody:  req.HTMLBody,
		TextBody:  req.TextBody,
		Variables: req.Variables,
		Status:    req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateInvalid):
			respondError(c, response.CodeBadRequest, "error.template_invalid", nil)
		case errors.Is(err, service.ErrTemplateExists):
			respondError(c, response.CodeBadRequest, "error.template_exists", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, template)
}

// UpdateEmailTemplateRequest 更新邮件模板请求（nil 字段不更新）
type UpdateEmailTemplateRequest struct {
	Name      *string  `json:"name"`
	Subject   *string  `json:"subject"`
	HTMLBody  *string  `json:"html_body"`
	TextBody  *string  `json:"text_body"`
	Variables []string `json:"variables"`
	Status    *string  `json:"status"`
}

// UpdateEmailTemplate 更新邮件模板
func (h *Handler) UpdateEmailTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req UpdateEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	template, err := h.EmailTemplateService.UpdateTemplate(id, service.UpdateEmailTemplateInput{
		Name:      req.Name,
		Subject:   req.Subject,
		HTMLBody:  req.HTMLBody,
		TextBody:  req.TextBody,
		Variables: req.Variables,
		Status:    req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			respondError(c, response.CodeNotFound, "error.template_not_found", nil)
		case errors.Is(err, service.ErrTemplateInvalid):
			respondError(c, response.CodeBadRequest, "error.template_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, template)
}

// DeleteEmailTemplate 删除邮件模板（软删除）
func (h *Handler) DeleteEmailTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	if err := h.EmailTemplateService.DeleteTemplate(id); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, response.CodeNotFound, "error.template_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

// PreviewEmailTemplateRequest 预览邮件模板请求
type PreviewEmailTemplateRequest struct {
	Variables map[string]string `json:"variables"`
}

// PreviewEmailTemplate 用示例变量渲染邮件模板
func (h *Handler) PreviewEmailTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "error.invalid_params")
	if !ok {
		return
	}

	var req PreviewEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	rendered, err := h.EmailTemplateService.RenderTemplate(id, req.Variables)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, response.CodeNotFound, "error.template_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"subject":   rendered.Subject,
		"html_body": rendered.HTMLBody,
		"text_body": rendered.TextBody,
	})
}
