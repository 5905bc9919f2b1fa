package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
)

// InfluencerSetting 推广员配置
type InfluencerSetting struct {
	Enabled               bool    `json:"enabled"`
	DefaultCommissionRate float64 `json:"default_commission_rate"`
	MinWithdrawAmount     float64 `json:"min_withdraw_amount"`
	AutoApproveDays       int     `json:"auto_approve_days"`
}

// InfluencerDefaultSetting 推广员默认配置
func InfluencerDefaultSetting() InfluencerSetting {
	return InfluencerSetting{
		Enabled:               true,
		DefaultCommissionRate: 10,
		MinWithdrawAmount:     10,
		AutoApproveDays:       7,
	}
}

// NormalizeInfluencerSetting 归一化推广员配置
func NormalizeInfluencerSetting(setting InfluencerSetting) InfluencerSetting {
	normalized := setting
	normalized.DefaultCommissionRate = roundSettingDecimal(normalized.DefaultCommissionRate)
	normalized.MinWithdrawAmount = roundSettingDecimal(normalized.MinWithdrawAmount)
	if normalized.AutoApproveDays < 0 {
		normalized.AutoApproveDays = 0
	}
	return normalized
}

// ValidateInfluencerSetting 校验推广员配置
func ValidateInfluencerSetting(setting InfluencerSetting) error {
	if setting.DefaultCommissionRate < 0 || setting.DefaultCommissionRate > 100 {
		return fmt.Errorf("%w: default_commission_rate must be between 0 and 100", ErrConfigInvalid)
	}
	if setting.MinWithdrawAmount < 0 {
		return fmt.Errorf("%w: min_withdraw_amount cannot be negative", ErrConfigInvalid)
	}
	if setting.AutoApproveDays < 0 || setting.AutoApproveDays > 365 {
		return fmt.Errorf("%w: auto_approve_days must be between 0 and 365", ErrConfigInvalid)
	}
	return nil
}

// InfluencerSettingToMap 推广员配置转 map
func InfluencerSettingToMap(setting InfluencerSetting) map[string]interface{} {
	return map[string]interface{}{
		"enabled":                 setting.Enabled,
		constants.SettingFieldCommissionRate:    setting.DefaultCommissionRate,
		constants.SettingFieldMinWithdrawAmount: setting.MinWithdrawAmount,
		constants.SettingFieldAutoApproveDays:   setting.AutoApproveDays,
	}
}

func influencerSettingFromJSON(value models.JSON) InfluencerSetting {
	setting := InfluencerDefaultSetting()
	if value == nil {
		return setting
	}

	if raw, ok := value["enabled"]; ok {
		setting.Enabled = parseSettingBool(raw)
	}
	if raw, ok := value[constants.SettingFieldCommissionRate]; ok {
		if parsed, err := parseSettingFloat(raw); err == nil {
			setting.DefaultCommissionRate = parsed
		}
	}
	if raw, ok := value[constants.SettingFieldMinWithdrawAmount]; ok {
		if parsed, err := parseSettingFloat(raw); err == nil {
			setting.MinWithdrawAmount = parsed
		}
	}
	if raw, ok := value[constants.SettingFieldAutoApproveDays]; ok {
		if parsed, err := parseSettingInt(raw); err == nil {
			setting.AutoApproveDays = parsed
		}
	}
	return NormalizeInfluencerSetting(setting)
}

// GetInfluencerSetting 获取推广员配置
func (s *SettingService) GetInfluencerSetting() (InfluencerSetting, error) {
	value, err := s.GetByKey(constants.SettingKeyInfluencerConfig)
	if err != nil {
		return InfluencerDefaultSetting(), err
	}
	return influencerSettingFromJSON(value), nil
}

// UpdateInfluencerSetting 更新推广员配置
func (s *SettingService) UpdateInfluencerSetting(setting InfluencerSetting) (InfluencerSetting, error) {
	normalized := NormalizeInfluencerSetting(setting)
	if err := ValidateInfluencerSetting(normalized); err != nil {
		return InfluencerSetting{}, err
	}

	if _, err := s.Update(constants.SettingKeyInfluencerConfig, InfluencerSettingToMap(normalized)); err != nil {
		return InfluencerSetting{}, err
	}
	return normalized, nil
}

func roundSettingDecimal(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}
