package service

import (
	"fmt"
	"strings"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
)

// StripeSetting Stripe 支付配置实体
type StripeSetting struct {
	Enabled        bool   `json:"enabled"`
	PublishableKey string `json:"publishable_key"`
	SecretKey      string `json:"secret_key"`
	WebhookSecret  string `json:"webhook_secret"`
	SuccessURL     string `json:"success_url"`
	CancelURL      string `json:"cancel_url"`
}

// StripeSettingPatch Stripe 配置补丁（支持部分更新）
type StripeSettingPatch struct {
	Enabled        *bool   `json:"enabled"`
	PublishableKey *string `json:"publishable_key"`
	SecretKey      *string `json:"secret_key"`
	WebhookSecret  *string `json:"webhook_secret"`
	SuccessURL     *string `json:"success_url"`
	CancelURL      *string `json:"cancel_url"`
}

// StripeDefaultSetting Stripe 默认设置
func StripeDefaultSetting() StripeSetting {
	return StripeSetting{Enabled: false}
}

// NormalizeStripeSetting 归一化 Stripe 配置
func NormalizeStripeSetting(setting StripeSetting) StripeSetting {
	setting.PublishableKey = strings.TrimSpace(setting.PublishableKey)
	setting.SecretKey = strings.TrimSpace(setting.SecretKey)
	setting.WebhookSecret = strings.TrimSpace(setting.WebhookSecret)
	setting.SuccessURL = strings.TrimSpace(setting.SuccessURL)
	setting.CancelURL = strings.TrimSpace(setting.CancelURL)
	return setting
}

// ValidateStripeSetting 校验 Stripe 配置合法性
func ValidateStripeSetting(setting StripeSetting) error {
	if !setting.Enabled {
		return nil
	}
	if setting.SecretKey == "" {
		return fmt.Errorf("%w: secret_key 不能为空", ErrStripeConfigInvalid)
	}
	if setting.WebhookSecret == "" {
		return fmt.Errorf("%w: webhook_secret 不能为空", ErrStripeConfigInvalid)
	}
	return nil
}

// StripeSettingToMap 将 Stripe 设置转换为 settings 表结构
func StripeSettingToMap(setting StripeSetting) map[string]interface{} {
	normalized := NormalizeStripeSetting(setting)
	return map[string]interface{}{
		"enabled":         normalized.Enabled,
		"publishable_key": normalized.PublishableKey,
		"secret_key":      normalized.SecretKey,
		"webhook_secret":  normalized.WebhookSecret,
		"success_url":     normalized.SuccessURL,
		"cancel_url":      normalized.CancelURL,
	}
}

// MaskStripeSettingForAdmin 返回脱敏后的 Stripe 设置
func MaskStripeSettingForAdmin(setting StripeSetting) models.JSON {
	normalized := NormalizeStripeSetting(setting)
	return models.JSON{
		"enabled":            normalized.Enabled,
		"publishable_key":    normalized.PublishableKey,
		"secret_key":         maskStripeSecret(normalized.SecretKey),
		"has_secret_key":     normalized.SecretKey != "",
		"webhook_secret":     maskStripeSecret(normalized.WebhookSecret),
		"has_webhook_secret": normalized.WebhookSecret != "",
		"success_url":        normalized.SuccessURL,
		"cancel_url":         normalized.CancelURL,
	}
}

// GetStripeSetting 获取 Stripe 设置（空时回退默认值）
func (s *SettingService) GetStripeSetting() (StripeSetting, error) {
	fallback := StripeDefaultSetting()
	value, err := s.GetByKey(constants.SettingKeyStripeConfig)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return NormalizeStripeSetting(stripeSettingFromJSON(value, fallback)), nil
}

// PatchStripeSetting 基于补丁更新 Stripe 设置
func (s *SettingService) PatchStripeSetting(patch StripeSettingPatch) (StripeSetting, error) {
	current, err := s.GetStripeSetting()
	if err != nil {
		return StripeSetting{}, err
	}

	next := current
	if patch.Enabled != nil {
		next.Enabled = *patch.Enabled
	}
	if patch.PublishableKey != nil {
		next.PublishableKey = strings.TrimSpace(*patch.PublishableKey)
	}
	if patch.SecretKey != nil {
		secret := strings.TrimSpace(*patch.SecretKey)
		if secret != "" {
			next.SecretKey = secret
		}
	}
	if patch.WebhookSecret != nil {
		secret := strings.TrimSpace(*patch.WebhookSecret)
		if secret != "" {
			next.WebhookSecret = secret
		}
	}
	if patch.SuccessURL != nil {
		next.SuccessURL = strings.TrimSpace(*patch.SuccessURL)
	}
	if patch.CancelURL != nil {
		next.CancelURL = strings.TrimSpace(*patch.CancelURL)
	}

	normalized := NormalizeStripeSetting(next)
	if err := ValidateStripeSetting(normalized); err != nil {
		return StripeSetting{}, err
	}

	if _, err := s.Update(constants.SettingKeyStripeConfig, StripeSettingToMap(normalized)); err != nil {
		return StripeSetting{}, err
	}
	return normalized, nil
}

func stripeSettingFromJSON(raw models.JSON, fallback StripeSetting) StripeSetting {
	next := fallback
	if raw == nil {
		return next
	}

	next.Enabled = readBool(raw, "enabled", next.Enabled)
	next.PublishableKey = readString(raw, "publishable_key", next.PublishableKey)
	next.SecretKey = readString(raw, "secret_key", next.SecretKey)
	next.WebhookSecret = readString(raw, "webhook_secret", next.WebhookSecret)
	next.SuccessURL = readString(raw, "success_url", next.SuccessURL)
	next.CancelURL = readString(raw, "cancel_url", next.CancelURL)
	return next
}

// maskStripeSecret 保留尾部四位便于识别
func maskStripeSecret(secret string) string {
	if secret == "" {
		return ""
	}
	runes := []rune(secret)
	if len(runes) <= 4 {
		return "****"
	}
	return "****" + string(runes[len(runes)-4:])
}
