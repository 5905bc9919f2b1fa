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

func setupInfluencerServiceTest(t *testing.T) (*InfluencerService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:influencer_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Influencer{},
		&models.Commission{},
		&models.PurchaseRecord{},
		&models.WithdrawalRequest{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	settingSvc := NewSettingService(repository.NewSettingRepository(db))
	if _, err := settingSvc.UpdateInfluencerSetting(InfluencerSetting{
		Enabled:               true,
		DefaultCommissionRate: 10,
		MinWithdrawAmount:     20,
		AutoApproveDays:       7,
	}); err != nil {
		t.Fatalf("init influencer setting failed: %v", err)
	}

	svc := NewInfluencerService(
		repository.NewInfluencerRepository(db),
		repository.NewUserRepository(db),
		repository.NewPurchaseRepository(db),
		settingSvc,
	)
	return svc, db
}

func createInfluencerTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestInfluencer(t *testing.T, db *gorm.DB, userID uint, rate float64, status string) models.Influencer {
	t.Helper()

	influencer := models.Influencer{
		UserID:         userID,
		CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromFloat(rate)),
		Status:         status,
	}
	if err := db.Create(&influencer).Error; err != nil {
		t.Fatalf("create influencer failed: %v", err)
	}
	return influencer
}

func createCompletedPurchase(t *testing.T, db *gorm.DB, orderNo string, userID uint, influencerID *uint, finalPrice float64) models.PurchaseRecord {
	t.Helper()

	purchase := models.PurchaseRecord{
		OrderNo:       orderNo,
		UserID:        userID,
		PlanID:        1,
		InfluencerID:  influencerID,
		OriginalPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(finalPrice)),
		FinalPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(finalPrice)),
		Status:        constants.PurchaseStatusCompleted,
	}
	if err := db.Create(&purchase).Error; err != nil {
		t.Fatalf("create purchase failed: %v", err)
	}
	return purchase
}

func TestAccrueCommissionCreatesPendingAndAddsEarnings(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "promoter@example.com")
	buyer := createInfluencerTestUser(t, db, "buyer@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 15, constants.InfluencerStatusActive)
	purchase := createCompletedPurchase(t, db, "CP-ACCRUE-1", buyer.ID, &influencer.ID, 79.99)

	commission, err := svc.AccrueCommission(purchase.ID)
	if err != nil {
		t.Fatalf("accrue commission failed: %v", err)
	}
	if commission == nil {
		t.Fatal("expected commission, got nil")
	}
	if commission.Status != constants.CommissionStatusPending {
		t.Fatalf("expected pending status, got %s", commission.Status)
	}
	// 79.99 * 15% = 12.00 (round 2)
	if got := commission.CommissionAmount.Decimal.StringFixed(2); got != "12.00" {
		t.Fatalf("expected commission 12.00, got %s", got)
	}

	var reloaded models.Influencer
	if err := db.First(&reloaded, influencer.ID).Error; err != nil {
		t.Fatalf("reload influencer failed: %v", err)
	}
	if got := reloaded.TotalEarnings.Decimal.StringFixed(2); got != "12.00" {
		t.Fatalf("expected total earnings 12.00, got %s", got)
	}

	// 同一订单重复计提返回既有记录
	again, err := svc.AccrueCommission(purchase.ID)
	if err != nil {
		t.Fatalf("second accrue failed: %v", err)
	}
	if again == nil || again.ID != commission.ID {
		t.Fatalf("expected existing commission %d, got %+v", commission.ID, again)
	}
	var count int64
	db.Model(&models.Commission{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 commission row, got %d", count)
	}
}

func TestAccrueCommissionSkipsSelfPurchase(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "self@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)
	purchase := createCompletedPurchase(t, db, "CP-SELF-1", promoter.ID, &influencer.ID, 50)

	commission, err := svc.AccrueCommission(purchase.ID)
	if err != nil {
		t.Fatalf("accrue failed: %v", err)
	}
	if commission != nil {
		t.Fatalf("expected no commission for self purchase, got %+v", commission)
	}
}

func TestAccrueCommissionSkipsInactiveInfluencer(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "inactive@example.com")
	buyer := createInfluencerTestUser(t, db, "buyer2@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusSuspended)
	purchase := createCompletedPurchase(t, db, "CP-INACT-1", buyer.ID, &influencer.ID, 50)

	commission, err := svc.AccrueCommission(purchase.ID)
	if err != nil {
		t.Fatalf("accrue failed: %v", err)
	}
	if commission != nil {
		t.Fatalf("expected no commission for suspended influencer, got %+v", commission)
	}
}

func TestUpdateCommissionStatusTransitions(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "flow@example.com")
	buyer := createInfluencerTestUser(t, db, "buyer3@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)
	purchase := createCompletedPurchase(t, db, "CP-FLOW-1", buyer.ID, &influencer.ID, 100)

	commission, err := svc.AccrueCommission(purchase.ID)
	if err != nil || commission == nil {
		t.Fatalf("accrue failed: %v", err)
	}

	// pending -> approved
	approved, err := svc.UpdateCommissionStatus(commission.ID, constants.CommissionStatusApproved, "looks good")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != constants.CommissionStatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	// approved -> paid 入余额
	paid, err := svc.UpdateCommissionStatus(commission.ID, constants.CommissionStatusPaid, "")
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if paid.PaidAt == nil {
		t.Fatal("expected paid_at set")
	}

	var reloaded models.Influencer
	if err := db.First(&reloaded, influencer.ID).Error; err != nil {
		t.Fatalf("reload influencer failed: %v", err)
	}
	if got := reloaded.AvailableBalance.Decimal.StringFixed(2); got != "10.00" {
		t.Fatalf("expected available balance 10.00, got %s", got)
	}

	// paid 为终态
	if _, err := svc.UpdateCommissionStatus(commission.ID, constants.CommissionStatusCancelled, ""); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition from paid, got %v", err)
	}
}

func TestApplyWithdrawalValidations(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "withdraw@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)
	db.Model(&models.Influencer{}).Where("id = ?", influencer.ID).
		Update("available_balance", decimal.NewFromFloat(100))

	// 低于最低限额（配置为 20）
	if _, err := svc.ApplyWithdrawal(promoter.ID, decimal.NewFromFloat(10), ""); !errors.Is(err, ErrWithdrawalBelowMinimum) {
		t.Fatalf("expected below minimum, got %v", err)
	}

	// 超出可用余额
	if _, err := svc.ApplyWithdrawal(promoter.ID, decimal.NewFromFloat(500), ""); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	// 正常申请
	req, err := svc.ApplyWithdrawal(promoter.ID, decimal.NewFromFloat(50), "first payout")
	if err != nil {
		t.Fatalf("apply withdrawal failed: %v", err)
	}
	if req.Status != constants.WithdrawalStatusPending {
		t.Fatalf("expected pending, got %s", req.Status)
	}

	// 已有待处理申请时不允许再次提交
	if _, err := svc.ApplyWithdrawal(promoter.ID, decimal.NewFromFloat(30), ""); !errors.Is(err, ErrWithdrawalPending) {
		t.Fatalf("expected pending conflict, got %v", err)
	}
}

func TestApplyWithdrawalRejectsNonInfluencer(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	user := createInfluencerTestUser(t, db, "plain@example.com")
	if _, err := svc.ApplyWithdrawal(user.ID, decimal.NewFromFloat(50), ""); !errors.Is(err, ErrInfluencerNotFound) {
		t.Fatalf("expected influencer not found, got %v", err)
	}
}

func TestReviewWithdrawalPaidDeductsBalance(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "review@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)
	db.Model(&models.Influencer{}).Where("id = ?", influencer.ID).
		Update("available_balance", decimal.NewFromFloat(100))

	req, err := svc.ApplyWithdrawal(promoter.ID, decimal.NewFromFloat(60), "")
	if err != nil {
		t.Fatalf("apply withdrawal failed: %v", err)
	}

	reviewed, err := svc.ReviewWithdrawal(1, req.ID, constants.WithdrawalStatusPaid, "po-2026-001", "settled")
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != constants.WithdrawalStatusPaid {
		t.Fatalf("expected paid, got %s", reviewed.Status)
	}
	if reviewed.PayoutRef != "po-2026-001" {
		t.Fatalf("expected payout ref recorded, got %q", reviewed.PayoutRef)
	}
	if reviewed.ProcessedBy == nil || *reviewed.ProcessedBy != 1 {
		t.Fatalf("expected processed_by 1, got %+v", reviewed.ProcessedBy)
	}

	var reloaded models.Influencer
	if err := db.First(&reloaded, influencer.ID).Error; err != nil {
		t.Fatalf("reload influencer failed: %v", err)
	}
	if got := reloaded.AvailableBalance.Decimal.StringFixed(2); got != "40.00" {
		t.Fatalf("expected balance 40.00, got %s", got)
	}
	if got := reloaded.TotalWithdrawn.Decimal.StringFixed(2); got != "60.00" {
		t.Fatalf("expected withdrawn 60.00, got %s", got)
	}

	// 已处理的申请不可重复处理
	if _, err := svc.ReviewWithdrawal(1, req.ID, constants.WithdrawalStatusRejected, "", ""); !errors.Is(err, ErrWithdrawalProcessed) {
		t.Fatalf("expected processed error, got %v", err)
	}
}

func TestReviewWithdrawalRejectedKeepsBalance(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "rejected@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)
	db.Model(&models.Influencer{}).Where("id = ?", influencer.ID).
		Update("available_balance", decimal.NewFromFloat(100))

	req, err := svc.ApplyWithdrawal(promoter.ID, decimal.NewFromFloat(40), "")
	if err != nil {
		t.Fatalf("apply withdrawal failed: %v", err)
	}

	reviewed, err := svc.ReviewWithdrawal(2, req.ID, constants.WithdrawalStatusRejected, "", "insufficient docs")
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != constants.WithdrawalStatusRejected {
		t.Fatalf("expected rejected, got %s", reviewed.Status)
	}

	var reloaded models.Influencer
	if err := db.First(&reloaded, influencer.ID).Error; err != nil {
		t.Fatalf("reload influencer failed: %v", err)
	}
	if got := reloaded.AvailableBalance.Decimal.StringFixed(2); got != "100.00" {
		t.Fatalf("expected balance unchanged 100.00, got %s", got)
	}
}

func TestPayApprovedCommissions(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "settle@example.com")
	buyer := createInfluencerTestUser(t, db, "buyer4@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)

	for i := 0; i < 3; i++ {
		purchase := createCompletedPurchase(t, db, fmt.Sprintf("CP-SETTLE-%d", i), buyer.ID, &influencer.ID, 100)
		commission, err := svc.AccrueCommission(purchase.ID)
		if err != nil || commission == nil {
			t.Fatalf("accrue failed: %v", err)
		}
		if i < 2 {
			if _, err := svc.UpdateCommissionStatus(commission.ID, constants.CommissionStatusApproved, ""); err != nil {
				t.Fatalf("approve failed: %v", err)
			}
		}
	}

	settled, err := svc.PayApprovedCommissions(influencer.ID, nil, "monthly settle")
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if settled != 2 {
		t.Fatalf("expected 2 settled, got %d", settled)
	}

	var reloaded models.Influencer
	if err := db.First(&reloaded, influencer.ID).Error; err != nil {
		t.Fatalf("reload influencer failed: %v", err)
	}
	if got := reloaded.AvailableBalance.Decimal.StringFixed(2); got != "20.00" {
		t.Fatalf("expected balance 20.00, got %s", got)
	}

	var pendingCount int64
	db.Model(&models.Commission{}).Where("status = ?", constants.CommissionStatusPending).Count(&pendingCount)
	if pendingCount != 1 {
		t.Fatalf("expected 1 pending commission untouched, got %d", pendingCount)
	}
}

func TestAutoApproveCommissions(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "auto@example.com")
	buyer := createInfluencerTestUser(t, db, "buyer5@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)

	oldPurchase := createCompletedPurchase(t, db, "CP-AUTO-OLD", buyer.ID, &influencer.ID, 100)
	oldCommission, err := svc.AccrueCommission(oldPurchase.ID)
	if err != nil || oldCommission == nil {
		t.Fatalf("accrue failed: %v", err)
	}
	// 回拨创建时间，超过 7 天确认期
	stale := time.Now().Add(-10 * 24 * time.Hour)
	db.Model(&models.Commission{}).Where("id = ?", oldCommission.ID).Update("created_at", stale)

	freshPurchase := createCompletedPurchase(t, db, "CP-AUTO-NEW", buyer.ID, &influencer.ID, 100)
	if _, err := svc.AccrueCommission(freshPurchase.ID); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	approved, err := svc.AutoApproveCommissions(time.Now())
	if err != nil {
		t.Fatalf("auto approve failed: %v", err)
	}
	if approved != 1 {
		t.Fatalf("expected 1 auto approved, got %d", approved)
	}

	var reloaded models.Commission
	if err := db.First(&reloaded, oldCommission.ID).Error; err != nil {
		t.Fatalf("reload commission failed: %v", err)
	}
	if reloaded.Status != constants.CommissionStatusApproved {
		t.Fatalf("expected approved, got %s", reloaded.Status)
	}
}

func TestGetUserDashboard(t *testing.T) {
	svc, db := setupInfluencerServiceTest(t)

	promoter := createInfluencerTestUser(t, db, "dashboard@example.com")
	buyer := createInfluencerTestUser(t, db, "buyer6@example.com")
	influencer := createTestInfluencer(t, db, promoter.ID, 10, constants.InfluencerStatusActive)
	purchase := createCompletedPurchase(t, db, "CP-DASH-1", buyer.ID, &influencer.ID, 100)
	if _, err := svc.AccrueCommission(purchase.ID); err != nil {
		t.Fatalf("accrue failed: %v", err)
	}

	dashboard, err := svc.GetUserDashboard(promoter.ID)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if !dashboard.Opened {
		t.Fatal("expected opened dashboard")
	}
	if got := dashboard.PendingCommission.Decimal.StringFixed(2); got != "10.00" {
		t.Fatalf("expected pending commission 10.00, got %s", got)
	}
	if dashboard.MinWithdrawAmount != 20 {
		t.Fatalf("expected min withdraw 20, got %v", dashboard.MinWithdrawAmount)
	}

	// 非达人用户返回未开通状态
	outsider, err := svc.GetUserDashboard(buyer.ID)
	if err != nil {
		t.Fatalf("dashboard for outsider failed: %v", err)
	}
	if outsider.Opened {
		t.Fatal("expected outsider dashboard not opened")
	}
}
