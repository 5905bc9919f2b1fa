package admin

import (
	"errors"
	"strings"

	"github.com/coachpanel/internal/cache"
	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/service"

	"github.com/gin-gonic/gin"
)

// GetSettings 获取站点/应用设置
func (h *Handler) GetSettings(c *gin.Context) {
	key := c.DefaultQuery("key", constants.SettingKeySiteConfig)

	value, err := h.SettingService.GetByKey(key)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if value == nil {
		response.Success(c, gin.H{})
		return
	}

	response.Success(c, value)
}

// UpdateSettingsRequest 更新设置请求
type UpdateSettingsRequest struct {
	Key   string                 `json:"key" binding:"required"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// UpdateSettings 更新站点/应用设置
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	value, err := h.SettingService.Update(req.Key, req.Value)
	if err != nil {
		if errors.Is(err, service.ErrConfigInvalid) {
			respondError(c, response.CodeBadRequest, "error.setting_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	if req.Key == constants.SettingKeySiteConfig {
		_ = cache.Del(c.Request.Context(), "public:config")
	}

	response.Success(c, value)
}

// GetSMTPSettings 获取 SMTP 配置（脱敏）
func (h *Handler) GetSMTPSettings(c *gin.Context) {
	setting, err := h.SettingService.GetSMTPSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, service.MaskSMTPSettingForAdmin(setting))
}

// UpdateSMTPSettings 更新 SMTP 配置
func (h *Handler) UpdateSMTPSettings(c *gin.Context) {
	var req service.SMTPSettingPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	setting, err := h.SettingService.PatchSMTPSetting(req)
	if err != nil {
		if errors.Is(err, service.ErrSMTPConfigInvalid) {
			respondError(c, response.CodeBadRequest, "error.smtp_config_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, service.MaskSMTPSettingForAdmin(setting))
}

// SMTPTestSendRequest SMTP 测试发送请求
type SMTPTestSendRequest struct {
	ToEmail string `json:"to_email" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TestSMTPSettings 测试 SMTP 配置发送
func (h *Handler) TestSMTPSettings(c *gin.Context) {
	var req SMTPTestSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	toEmail := strings.TrimSpace(req.ToEmail)
	if toEmail == "" {
		respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		return
	}

	if err := h.EmailService.SendTestEmail(toEmail, req.Subject, req.Body); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.email_invalid", nil)
		case errors.Is(err, service.ErrEmailNotConfigured):
			respondError(c, response.CodeBadRequest, "error.email_not_configured", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{"sent": true})
}

// GetStripeSettings 获取 Stripe 配置（脱敏）
func (h *Handler) GetStripeSettings(c *gin.Context) {
	setting, err := h.SettingService.GetStripeSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, service.MaskStripeSettingForAdmin(setting))
}

// UpdateStripeSettings 更新 Stripe 配置
func (h *Handler) UpdateStripeSettings(c *gin.Context) {
	var req service.StripeSettingPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	setting, err := h.SettingService.PatchStripeSetting(req)
	if err != nil {
		if errors.Is(err, service.ErrStripeConfigInvalid) {
			respondError(c, response.CodeBadRequest, "error.stripe_config_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, service.MaskStripeSettingForAdmin(setting))
}

// GetInfluencerSettings 获取推广员配置
func (h *Handler) GetInfluencerSettings(c *gin.Context) {
	setting, err := h.SettingService.GetInfluencerSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, setting)
}

// UpdateInfluencerSettings 更新推广员配置
func (h *Handler) UpdateInfluencerSettings(c *gin.Context) {
	var req service.InfluencerSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.invalid_params", err)
		return
	}

	setting, err := h.SettingService.UpdateInfluencerSetting(req)
	if err != nil {
		if errors.Is(err, service.ErrConfigInvalid) {
			respondError(c, response.CodeBadRequest, "error.setting_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, setting)
}
