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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPromoServiceTest(t *testing.T) (*PromoService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:promo_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.PromoCode{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	return NewPromoService(repository.NewPromoCodeRepository(db)), db
}

func createTestPromoCode(t *testing.T, db *gorm.DB, promo models.PromoCode) models.PromoCode {
	t.Helper()

	if err := db.Create(&promo).Error; err != nil {
		t.Fatalf("create promo code failed: %v", err)
	}
	return promo
}

func moneyFromFloat(v float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(v))
}

func TestEvaluatePercentageDiscountWithCap(t *testing.T) {
	svc, db := setupPromoServiceTest(t)

	createTestPromoCode(t, db, models.PromoCode{
		Code:        "SAVE20",
		Type:        constants.PromoCodeTypePercentage,
		Value:       moneyFromFloat(20),
		MaxDiscount: moneyFromFloat(15),
		Status:      constants.PromoCodeStatusActive,
	})

	// 20% of 50 = 10，未触发封顶
	evaluation, err := svc.Evaluate("SAVE20", moneyFromFloat(50))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got := evaluation.DiscountAmount.Decimal.StringFixed(2); got != "10.00" {
		t.Fatalf("expected discount 10.00, got %s", got)
	}
	if got := evaluation.FinalAmount.Decimal.StringFixed(2); got != "40.00" {
		t.Fatalf("expected final 40.00, got %s", got)
	}

	// 20% of 100 = 20，封顶为 15
	evaluation, err = svc.Evaluate("SAVE20", moneyFromFloat(100))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got := evaluation.DiscountAmount.Decimal.StringFixed(2); got != "15.00" {
		t.Fatalf("expected capped discount 15.00, got %s", got)
	}
}

func TestEvaluateFixedAmountNeverExceedsOrder(t *testing.T) {
	svc, db := setupPromoServiceTest(t)

	createTestPromoCode(t, db, models.PromoCode{
		Code:   "MINUS30",
		Type:   constants.PromoCodeTypeFixedAmount,
		Value:  moneyFromFloat(30),
		Status: constants.PromoCodeStatusActive,
	})

	evaluation, err := svc.Evaluate("MINUS30", moneyFromFloat(19.99))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if got := evaluation.DiscountAmount.Decimal.StringFixed(2); got != "19.99" {
		t.Fatalf("expected discount clamped to 19.99, got %s", got)
	}
	if !evaluation.FinalAmount.Decimal.IsZero() {
		t.Fatalf("expected final amount zero, got %s", evaluation.FinalAmount.Decimal.String())
	}
}

func TestEvaluateRejectsUnusableCodes(t *testing.T) {
	svc, db := setupPromoServiceTest(t)

	expired := time.Now().Add(-time.Hour)
	createTestPromoCode(t, db, models.PromoCode{
		Code:      "EXPIRED",
		Type:      constants.PromoCodeTypeFixedAmount,
		Value:     moneyFromFloat(5),
		Status:    constants.PromoCodeStatusActive,
		ExpiresAt: &expired,
	})
	createTestPromoCode(t, db, models.PromoCode{
		Code:   "PAUSED",
		Type:   constants.PromoCodeTypeFixedAmount,
		Value:  moneyFromFloat(5),
		Status: constants.PromoCodeStatusInactive,
	})
	createTestPromoCode(t, db, models.PromoCode{
		Code:       "USEDUP",
		Type:       constants.PromoCodeTypeFixedAmount,
		Value:      moneyFromFloat(5),
		UsageLimit: 1,
		UsedCount:  1,
		Status:     constants.PromoCodeStatusActive,
	})
	createTestPromoCode(t, db, models.PromoCode{
		Code:           "BIGONLY",
		Type:           constants.PromoCodeTypeFixedAmount,
		Value:          moneyFromFloat(5),
		MinOrderAmount: moneyFromFloat(100),
		Status:         constants.PromoCodeStatusActive,
	})

	cases := []struct {
		code string
		want error
	}{
		{"MISSING", ErrPromoCodeNotFound},
		{"EXPIRED", ErrPromoCodeExpired},
		{"PAUSED", ErrPromoCodeInactive},
		{"USEDUP", ErrPromoCodeUsageLimit},
		{"BIGONLY", ErrPromoCodeMinOrder},
	}
	for _, tc := range cases {
		if _, err := svc.Evaluate(tc.code, moneyFromFloat(50)); !errors.Is(err, tc.want) {
			t.Fatalf("code %s: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestRedeemConsumesUsageAndReleaseRefunds(t *testing.T) {
	svc, db := setupPromoServiceTest(t)

	promo := createTestPromoCode(t, db, models.PromoCode{
		Code:       "ONCE",
		Type:       constants.PromoCodeTypeFixedAmount,
		Value:      moneyFromFloat(5),
		UsageLimit: 1,
		Status:     constants.PromoCodeStatusActive,
	})

	if _, err := svc.Redeem("ONCE", moneyFromFloat(50)); err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}
	if _, err := svc.Redeem("ONCE", moneyFromFloat(50)); !errors.Is(err, ErrPromoCodeUsageLimit) {
		t.Fatalf("expected usage limit error on second redeem, got %v", err)
	}

	if err := svc.Release(promo.ID); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, err := svc.Redeem("ONCE", moneyFromFloat(50)); err != nil {
		t.Fatalf("redeem after release failed: %v", err)
	}
}
