package stripe

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewClientNormalizesConfig(t *testing.T) {
	client, err := NewClient(Config{
		SecretKey:     " sk_test_123 ",
		WebhookSecret: " whsec_123 ",
		SuccessURL:    "https://example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "https://example.com/checkout/cancel",
	})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.cfg.SecretKey != "sk_test_123" {
		t.Fatalf("unexpected secret key: %s", client.cfg.SecretKey)
	}
	if client.cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected default api base url: %s", client.cfg.APIBaseURL)
	}
	if client.cfg.WebhookToleranceSeconds != defaultWebhookToleranceS {
		t.Fatalf("unexpected tolerance: %d", client.cfg.WebhookToleranceSeconds)
	}
}

func TestNewClientRejectsMissingSecretKey(t *testing.T) {
	_, err := NewClient(Config{
		SuccessURL: "https://example.com/success",
		CancelURL:  "https://example.com/cancel",
	})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got %v", err)
	}
}

func TestVerifyAndParseWebhookCheckoutCompleted(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	payload := map[string]interface{}{
		"id":   "evt_test_1",
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"object":         "checkout.session",
				"id":             "cs_test_123",
				"payment_intent": "pi_test_123",
				"subscription":   "sub_test_123",
				"payment_status": "paid",
				"currency":       "usd",
				"amount_total":   1288,
				"created":        now.Unix(),
				"metadata": map[string]interface{}{
					"purchase_id": "1001",
					"order_no":    "CP202608290001",
				},
			},
		},
	}
	body, _ := json.Marshal(payload)
	sig := computeSignature(cfg.WebhookSecret, now.Unix(), body)

	event, err := VerifyAndParseWebhook(cfg, "t=1760000000,v1="+sig, body, now)
	if err != nil {
		t.Fatalf("verify and parse webhook failed: %v", err)
	}
	if event.EventType != "checkout.session.completed" {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.PurchaseID != 1001 {
		t.Fatalf("unexpected purchase id: %d", event.PurchaseID)
	}
	if event.OrderNo != "CP202608290001" {
		t.Fatalf("unexpected order no: %s", event.OrderNo)
	}
	if event.SessionID != "cs_test_123" {
		t.Fatalf("unexpected session id: %s", event.SessionID)
	}
	if event.SubscriptionID != "sub_test_123" {
		t.Fatalf("unexpected subscription id: %s", event.SubscriptionID)
	}
	if event.Status != "success" {
		t.Fatalf("unexpected status: %s", event.Status)
	}
	if event.Amount != "12.88" {
		t.Fatalf("unexpected amount: %s", event.Amount)
	}
}

func TestVerifyAndParseWebhookInvalidSignature(t *testing.T) {
	now := time.Unix(1760000000, 0)
	cfg := Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	payload := map[string]interface{}{
		"id":   "evt_test_1",
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"object": "checkout.session",
				"id":     "cs_test_123",
			},
		},
	}
	body, _ := json.Marshal(payload)

	_, err := VerifyAndParseWebhook(cfg, "t=1760000000,v1=invalid-signature", body, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got %v", err)
	}
}

func TestVerifyAndParseWebhookOutsideTolerance(t *testing.T) {
	eventAt := time.Unix(1760000000, 0)
	cfg := Config{
		WebhookSecret:           "whsec_test_abc",
		WebhookToleranceSeconds: 300,
	}
	payload := map[string]interface{}{
		"id":   "evt_test_1",
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"object": "checkout.session",
				"id":     "cs_test_123",
			},
		},
	}
	body, _ := json.Marshal(payload)
	sig := computeSignature(cfg.WebhookSecret, eventAt.Unix(), body)

	_, err := VerifyAndParseWebhook(cfg, "t=1760000000,v1="+sig, body, eventAt.Add(10*time.Minute))
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got %v", err)
	}
}

func TestToMinorAmount(t *testing.T) {
	minor, err := toMinorAmount("12.88", "USD")
	if err != nil {
		t.Fatalf("to minor amount failed: %v", err)
	}
	if minor != 1288 {
		t.Fatalf("unexpected minor amount: %d", minor)
	}

	minor, err = toMinorAmount("1288", "JPY")
	if err != nil {
		t.Fatalf("to minor amount failed: %v", err)
	}
	if minor != 1288 {
		t.Fatalf("unexpected zero-decimal minor amount: %d", minor)
	}

	if _, err := toMinorAmount("0", "USD"); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid for zero amount, got %v", err)
	}
}

func TestFromMinorAmount(t *testing.T) {
	if got := fromMinorAmount(1288, "usd"); got != "12.88" {
		t.Fatalf("unexpected amount: %s", got)
	}
	if got := fromMinorAmount(1288, "JPY"); got != "1288" {
		t.Fatalf("unexpected zero-decimal amount: %s", got)
	}
}

func TestMapPaymentIntentStatus(t *testing.T) {
	if got := mapPaymentIntentStatus("succeeded"); got != "success" {
		t.Fatalf("expected success, got %s", got)
	}
	if got := mapPaymentIntentStatus("processing"); got != "pending" {
		t.Fatalf("expected pending, got %s", got)
	}
	if got := mapPaymentIntentStatus("canceled"); got != "failed" {
		t.Fatalf("expected failed, got %s", got)
	}
}
