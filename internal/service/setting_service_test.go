package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSettingServiceTest(t *testing.T) *SettingService {
	t.Helper()

	dsn := fmt.Sprintf("file:setting_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	return NewSettingService(repository.NewSettingRepository(db))
}

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestPatchSMTPSettingPartialUpdate(t *testing.T) {
	svc := setupSettingServiceTest(t)

	saved, err := svc.PatchSMTPSetting(SMTPSettingPatch{
		Enabled:  boolPtr(true),
		Host:     strPtr(" smtp.example.com "),
		Port:     intPtr(465),
		Username: strPtr("mailer"),
		Password: strPtr("secret-pass"),
		From:     strPtr("noreply@example.com"),
		UseTLS:   boolPtr(false),
		UseSSL:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("patch smtp setting failed: %v", err)
	}
	if saved.Host != "smtp.example.com" || saved.Port != 465 || !saved.UseSSL {
		t.Fatalf("unexpected saved setting: %+v", saved)
	}

	// 空密码补丁不会清掉已保存的密码
	next, err := svc.PatchSMTPSetting(SMTPSettingPatch{Password: strPtr("  "), FromName: strPtr("Coach Panel")})
	if err != nil {
		t.Fatalf("patch smtp setting failed: %v", err)
	}
	if next.Password != "secret-pass" {
		t.Fatalf("expected password preserved, got %q", next.Password)
	}
	if next.FromName != "Coach Panel" {
		t.Fatalf("expected from_name updated, got %q", next.FromName)
	}
}

func TestPatchSMTPSettingRejectsInvalid(t *testing.T) {
	svc := setupSettingServiceTest(t)

	if _, err := svc.PatchSMTPSetting(SMTPSettingPatch{
		Enabled: boolPtr(true),
		Host:    strPtr("smtp.example.com"),
		From:    strPtr("not-an-email"),
	}); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for bad from address, got %v", err)
	}

	if _, err := svc.PatchSMTPSetting(SMTPSettingPatch{
		UseTLS: boolPtr(true),
		UseSSL: boolPtr(true),
	}); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for TLS+SSL, got %v", err)
	}

	if _, err := svc.PatchSMTPSetting(SMTPSettingPatch{Enabled: boolPtr(true)}); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for enabled without host, got %v", err)
	}
}

func TestPatchStripeSettingRequiresKeysWhenEnabled(t *testing.T) {
	svc := setupSettingServiceTest(t)

	if _, err := svc.PatchStripeSetting(StripeSettingPatch{
		Enabled:        boolPtr(true),
		PublishableKey: strPtr("pk_test_123"),
	}); !errors.Is(err, ErrStripeConfigInvalid) {
		t.Fatalf("expected ErrStripeConfigInvalid without secret key, got %v", err)
	}

	saved, err := svc.PatchStripeSetting(StripeSettingPatch{
		Enabled:        boolPtr(true),
		PublishableKey: strPtr("pk_test_123"),
		SecretKey:      strPtr("sk_test_456"),
		WebhookSecret:  strPtr("whsec_789"),
	})
	if err != nil {
		t.Fatalf("patch stripe setting failed: %v", err)
	}
	if !saved.Enabled || saved.SecretKey != "sk_test_456" {
		t.Fatalf("unexpected saved setting: %+v", saved)
	}

	// 关闭后不再要求密钥齐全
	disabled, err := svc.PatchStripeSetting(StripeSettingPatch{Enabled: boolPtr(false)})
	if err != nil {
		t.Fatalf("disable stripe failed: %v", err)
	}
	if disabled.Enabled {
		t.Fatalf("expected stripe disabled")
	}
}

func TestGetConfigMergesDefaults(t *testing.T) {
	svc := setupSettingServiceTest(t)

	defaults := map[string]interface{}{
		"site_name": "Coach Panel",
		"currency":  "USD",
	}

	config, err := svc.GetConfig(defaults)
	if err != nil {
		t.Fatalf("get config failed: %v", err)
	}
	if config["site_name"] != "Coach Panel" {
		t.Fatalf("expected default site_name, got %v", config["site_name"])
	}

	if _, err := svc.Update("site_config", map[string]interface{}{"site_name": "My Coaching"}); err != nil {
		t.Fatalf("update site config failed: %v", err)
	}

	config, err = svc.GetConfig(defaults)
	if err != nil {
		t.Fatalf("get config failed: %v", err)
	}
	if config["site_name"] != "My Coaching" {
		t.Fatalf("expected overridden site_name, got %v", config["site_name"])
	}
	if config["currency"] != "USD" {
		t.Fatalf("expected default currency preserved, got %v", config["currency"])
	}
}
