package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupEmailTemplateServiceTest(t *testing.T) (*EmailTemplateService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:email_template_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.EmailTemplate{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	return NewEmailTemplateService(repository.NewEmailTemplateRepository(db)), db
}

func TestCreateTemplateValidatesInput(t *testing.T) {
	svc, _ := setupEmailTemplateServiceTest(t)

	created, err := svc.CreateTemplate(CreateEmailTemplateInput{
		Type:      constants.EmailTemplateTypeWelcome,
		Name:      "欢迎邮件",
		Subject:   "欢迎加入 {{site_name}}",
		HTMLBody:  "<p>Hi {{first_name}}</p>",
		Variables: []string{"site_name", "first_name", " first_name ", ""},
	})
	if err != nil {
		t.Fatalf("create template failed: %v", err)
	}
	if created.Status != constants.EmailTemplateStatusActive {
		t.Fatalf("expected default status active, got %s", created.Status)
	}
	if len(created.Variables) != 2 {
		t.Fatalf("expected deduplicated variables, got %v", created.Variables)
	}

	if _, err := svc.CreateTemplate(CreateEmailTemplateInput{
		Type:     constants.EmailTemplateTypeWelcome,
		Name:     "重复类型",
		Subject:  "subject",
		TextBody: "body",
	}); !errors.Is(err, ErrTemplateExists) {
		t.Fatalf("expected ErrTemplateExists, got %v", err)
	}

	cases := []CreateEmailTemplateInput{
		{Type: "not_a_type", Name: "n", Subject: "s", TextBody: "b"},
		{Type: constants.EmailTemplateTypeCustom, Name: " ", Subject: "s", TextBody: "b"},
		{Type: constants.EmailTemplateTypeCustom, Name: "n", Subject: "s"},
		{Type: constants.EmailTemplateTypeCustom, Name: "n", Subject: "s", TextBody: "b", Status: "archived"},
	}
	for i, input := range cases {
		if _, err := svc.CreateTemplate(input); !errors.Is(err, ErrTemplateInvalid) {
			t.Fatalf("case %d: expected ErrTemplateInvalid, got %v", i, err)
		}
	}
}

func TestUpdateTemplateKeepsBodyNonEmpty(t *testing.T) {
	svc, _ := setupEmailTemplateServiceTest(t)

	created, err := svc.CreateTemplate(CreateEmailTemplateInput{
		Type:     constants.EmailTemplateTypePaymentSuccess,
		Name:     "支付成功",
		Subject:  "支付成功通知",
		TextBody: "订单 {{order_no}} 支付成功",
	})
	if err != nil {
		t.Fatalf("create template failed: %v", err)
	}

	emptyBody := "  "
	if _, err := svc.UpdateTemplate(created.ID, UpdateEmailTemplateInput{TextBody: &emptyBody}); !errors.Is(err, ErrTemplateInvalid) {
		t.Fatalf("expected ErrTemplateInvalid when both bodies empty, got %v", err)
	}

	status := constants.EmailTemplateStatusInactive
	name := "支付成功（新版）"
	updated, err := svc.UpdateTemplate(created.ID, UpdateEmailTemplateInput{Name: &name, Status: &status})
	if err != nil {
		t.Fatalf("update template failed: %v", err)
	}
	if updated.Name != name || updated.Status != constants.EmailTemplateStatusInactive {
		t.Fatalf("unexpected updated template: %+v", updated)
	}

	if _, err := svc.UpdateTemplate(9999, UpdateEmailTemplateInput{Name: &name}); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestRenderByTypeReplacesVariables(t *testing.T) {
	svc, _ := setupEmailTemplateServiceTest(t)

	created, err := svc.CreateTemplate(CreateEmailTemplateInput{
		Type:     constants.EmailTemplateTypeCommissionEarned,
		Name:     "佣金到账",
		Subject:  "你获得了 {{amount}} 佣金",
		HTMLBody: "<p>{{first_name}}，订单 {{order_no}} 产生佣金 {{amount}}</p>",
		TextBody: "{{first_name}}，订单 {{order_no}} 产生佣金 {{amount}}",
	})
	if err != nil {
		t.Fatalf("create template failed: %v", err)
	}

	rendered, err := svc.RenderByType(constants.EmailTemplateTypeCommissionEarned, map[string]string{
		"first_name": "Alice",
		"order_no":   "CP20260829",
		"amount":     "12.00",
	})
	if err != nil {
		t.Fatalf("render by type failed: %v", err)
	}
	if rendered.Subject != "你获得了 12.00 佣金" {
		t.Fatalf("unexpected subject: %s", rendered.Subject)
	}
	if rendered.TextBody != "Alice，订单 CP20260829 产生佣金 12.00" {
		t.Fatalf("unexpected text body: %s", rendered.TextBody)
	}

	// 未提供的变量保持原样
	partial, err := svc.RenderTemplate(created.ID, map[string]string{"first_name": "Bob"})
	if err != nil {
		t.Fatalf("render template failed: %v", err)
	}
	if partial.TextBody != "Bob，订单 {{order_no}} 产生佣金 {{amount}}" {
		t.Fatalf("unexpected partial render: %s", partial.TextBody)
	}

	// 停用后的模板不再参与发信渲染，但后台预览仍可用
	status := constants.EmailTemplateStatusInactive
	if _, err := svc.UpdateTemplate(created.ID, UpdateEmailTemplateInput{Status: &status}); err != nil {
		t.Fatalf("update template status failed: %v", err)
	}
	if _, err := svc.RenderByType(constants.EmailTemplateTypeCommissionEarned, nil); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound for inactive template, got %v", err)
	}
	if _, err := svc.RenderTemplate(created.ID, nil); err != nil {
		t.Fatalf("preview of inactive template failed: %v", err)
	}
}
