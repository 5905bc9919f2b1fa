package service

import (
	"strings"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
)

var settingSupportedLocales = []string{"en", "zh"}

const (
	settingSiteNameMaxRuneSize     = 120
	settingSiteTaglineMaxRuneSize  = 300
	settingAnnouncementMaxRuneSize = 2000
)

// normalizeSettingValueByKey 按设置键执行归一化，避免非法值入库。
func normalizeSettingValueByKey(key string, value map[string]interface{}) models.JSON {
	switch key {
	case constants.SettingKeyInfluencerConfig:
		setting := influencerSettingFromJSON(models.JSON(value))
		return InfluencerSettingToMap(setting)
	case constants.SettingKeySMTPConfig:
		setting := smtpSettingFromJSON(models.JSON(value), SMTPDefaultSetting())
		return SMTPSettingToMap(setting)
	case constants.SettingKeyStripeConfig:
		setting := stripeSettingFromJSON(models.JSON(value), StripeDefaultSetting())
		return StripeSettingToMap(setting)
	case constants.SettingKeySiteConfig:
		return normalizeSiteSetting(value)
	case constants.SettingKeyAppConfig:
		return normalizeAppSetting(value)
	default:
		return models.JSON(value)
	}
}

// normalizeSiteSetting 归一化站点配置结构。
func normalizeSiteSetting(value map[string]interface{}) models.JSON {
	normalized := make(models.JSON, len(value)+4)
	for key, raw := range value {
		normalized[key] = raw
	}

	normalized["site_name"] = normalizeSettingTextWithRuneLimit(value["site_name"], settingSiteNameMaxRuneSize)
	normalized["tagline"] = normalizeSettingTextWithRuneLimit(value["tagline"], settingSiteTaglineMaxRuneSize)
	normalized["support_email"] = normalizeSettingText(value["support_email"])
	normalized["logo_url"] = normalizeSettingText(value["logo_url"])
	normalized["announcement"] = normalizeSettingTextWithRuneLimit(value["announcement"], settingAnnouncementMaxRuneSize)

	if raw, ok := value["locales"]; ok {
		normalized["locales"] = normalizeSettingLocales(raw)
	}

	return normalized
}

// normalizeAppSetting 归一化应用配置结构。
func normalizeAppSetting(value map[string]interface{}) models.JSON {
	normalized := make(models.JSON, len(value)+3)
	for key, raw := range value {
		normalized[key] = raw
	}

	normalized["base_url"] = strings.TrimRight(normalizeSettingText(value["base_url"]), "/")

	currency := strings.ToLower(normalizeSettingText(value["default_currency"]))
	if len(currency) != 3 {
		currency = "usd"
	}
	normalized["default_currency"] = currency

	locale := strings.ToLower(normalizeSettingText(value["default_locale"]))
	if !isSupportedSettingLocale(locale) {
		locale = "en"
	}
	normalized["default_locale"] = locale

	if raw, ok := value["registration_enabled"]; ok {
		normalized["registration_enabled"] = parseSettingBool(raw)
	} else {
		normalized["registration_enabled"] = true
	}

	return normalized
}

func normalizeSettingLocales(raw interface{}) []string {
	list := make([]string, 0)
	switch value := raw.(type) {
	case []string:
		list = append(list, value...)
	case []interface{}:
		for _, item := range value {
			list = append(list, normalizeSettingText(item))
		}
	default:
		return append([]string(nil), settingSupportedLocales...)
	}

	result := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		locale := strings.ToLower(strings.TrimSpace(item))
		if !isSupportedSettingLocale(locale) {
			continue
		}
		if _, exists := seen[locale]; exists {
			continue
		}
		seen[locale] = struct{}{}
		result = append(result, locale)
	}
	if len(result) == 0 {
		return append([]string(nil), settingSupportedLocales...)
	}
	return result
}

func isSupportedSettingLocale(locale string) bool {
	for _, supported := range settingSupportedLocales {
		if locale == supported {
			return true
		}
	}
	return false
}

func normalizeSettingText(raw interface{}) string {
	text, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func normalizeSettingTextWithRuneLimit(raw interface{}, maxRuneCount int) string {
	text := normalizeSettingText(raw)
	if text == "" || maxRuneCount <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= maxRuneCount {
		return text
	}
	return string(runes[:maxRuneCount])
}

func parseSettingBool(raw interface{}) bool {
	switch value := raw.(type) {
	case bool:
		return value
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	case string:
		normalized := strings.ToLower(strings.TrimSpace(value))
		return normalized == "1" || normalized == "true" || normalized == "yes" || normalized == "on"
	default:
		return false
	}
}
