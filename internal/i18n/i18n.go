package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// LocaleEN 英文
	LocaleEN = "en"
	// LocaleZH 中文
	LocaleZH = "zh"

	defaultLocale = LocaleEN
)

// ResolveLocale 解析请求的语言：query 参数优先，其次 Accept-Language 头
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return defaultLocale
	}
	if locale := normalizeLocale(c.Query("locale")); locale != "" {
		return locale
	}
	if locale := normalizeLocale(c.GetHeader("Accept-Language")); locale != "" {
		return locale
	}
	return defaultLocale
}

// T 按语言翻译文案键，未命中时回退英文，再回退键名本身
func T(locale, key string) string {
	if messages, ok := catalog[normalizeLocale(locale)]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[defaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的文案键
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func normalizeLocale(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	// Accept-Language 可能是 "zh-CN,zh;q=0.9" 这类形式，只取首段
	if idx := strings.IndexAny(trimmed, ",;"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	switch {
	case strings.HasPrefix(trimmed, "zh"):
		return LocaleZH
	case strings.HasPrefix(trimmed, "en"):
		return LocaleEN
	}
	return ""
}
