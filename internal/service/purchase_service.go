package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/payment/stripe"
	"github.com/coachpanel/internal/queue"
	"github.com/coachpanel/internal/repository"

	"gorm.io/gorm"
)

// PurchaseService 购买下单与支付回调服务
type PurchaseService struct {
	purchaseRepo   repository.PurchaseRepository
	userRepo       repository.UserRepository
	planService    *PlanService
	promoService   *PromoService
	settingService *SettingService
	queueClient    *queue.Client
}

// NewPurchaseService 创建购买服务
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	userRepo repository.UserRepository,
	planService *PlanService,
	promoService *PromoService,
	settingService *SettingService,
	queueClient *queue.Client,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:   purchaseRepo,
		userRepo:       userRepo,
		planService:    planService,
		promoService:   promoService,
		settingService: settingService,
		queueClient:    queueClient,
	}
}

// CheckoutInput 下单输入
type CheckoutInput struct {
	UserID    uint
	PlanID    uint
	PromoCode string
	ClientIP  string
	UserAgent string
}

// CheckoutResult 下单返回。零元订单直接完成，CheckoutURL 为空。
type CheckoutResult struct {
	Purchase       *models.PurchaseRecord `json:"purchase"`
	CheckoutURL    string                 `json:"checkout_url"`
	SessionID      string                 `json:"session_id"`
	PublishableKey string                 `json:"publishable_key"`
}

// Checkout 创建订单并发起 Stripe Checkout。
// 优惠码在下单时即核销一次使用次数，后续失败路径负责回退。
func (s *PurchaseService) Checkout(input CheckoutInput) (*CheckoutResult, error) {
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}

	plan, err := s.planService.GetActivePlan(input.PlanID)
	if err != nil {
		return nil, err
	}

	record := &models.PurchaseRecord{
		OrderNo:       generateOrderNo(),
		UserID:        user.ID,
		PlanID:        plan.ID,
		OriginalPrice: plan.Price,
		FinalPrice:    plan.Price,
		Currency:      strings.ToLower(plan.Currency),
		Status:        constants.PurchaseStatusPending,
		ClientIP:      strings.TrimSpace(input.ClientIP),
		UserAgent:     strings.TrimSpace(input.UserAgent),
	}

	promoRedeemed := false
	if code := strings.TrimSpace(input.PromoCode); code != "" {
		evaluation, err := s.promoService.Redeem(code, plan.Price)
		if err != nil {
			return nil, err
		}
		promoRedeemed = true
		promoID := evaluation.PromoCode.ID
		record.PromoCodeID = &promoID
		record.DiscountAmount = evaluation.DiscountAmount
		record.FinalPrice = evaluation.FinalAmount
		// 达人归因在下单时快照，后续改码不影响已有订单
		if evaluation.PromoCode.InfluencerID != nil {
			influencerID := *evaluation.PromoCode.InfluencerID
			record.InfluencerID = &influencerID
		}
	}

	releasePromo := func() {
		if !promoRedeemed || record.PromoCodeID == nil {
			return
		}
		if err := s.promoService.Release(*record.PromoCodeID); err != nil {
			logger.Warnw("回退优惠码使用次数失败", "promo_code_id", *record.PromoCodeID, "error", err)
		}
	}

	// 零元订单无需走 Stripe，直接完成
	if record.FinalPrice.Decimal.IsZero() {
		now := time.Now()
		record.Status = constants.PurchaseStatusCompleted
		record.PaidAt = &now
		if err := s.purchaseRepo.Create(record); err != nil {
			releasePromo()
			return nil, err
		}
		s.enqueueCompletionTasks(record)
		return &CheckoutResult{Purchase: record}, nil
	}

	stripeSetting, err := s.settingService.GetStripeSetting()
	if err != nil {
		releasePromo()
		return nil, err
	}
	if !stripeSetting.Enabled {
		releasePromo()
		return nil, ErrPaymentNotConfigured
	}
	client, err := stripe.NewClient(StripeClientConfig(stripeSetting))
	if err != nil {
		releasePromo()
		return nil, ErrPaymentNotConfigured
	}

	if err := s.purchaseRepo.Create(record); err != nil {
		releasePromo()
		return nil, err
	}

	session, err := client.CreateCheckoutSession(context.Background(), stripe.CheckoutInput{
		OrderNo:       record.OrderNo,
		PurchaseID:    record.ID,
		Amount:        record.FinalPrice.Decimal.StringFixed(2),
		Currency:      record.Currency,
		Description:   plan.Name,
		PriceID:       plan.StripePriceID,
		TrialDays:     plan.TrialDays,
		CustomerEmail: user.Email,
	})
	if err != nil {
		logger.Errorw("创建 Stripe Checkout 会话失败", "order_no", record.OrderNo, "error", err)
		record.Status = constants.PurchaseStatusFailed
		if updateErr := s.purchaseRepo.Update(record); updateErr != nil {
			logger.Errorw("标记订单失败状态失败", "order_no", record.OrderNo, "error", updateErr)
		}
		releasePromo()
		return nil, err
	}

	record.StripeSessionID = session.SessionID
	record.StripePaymentIntentID = session.PaymentIntentID
	if err := s.purchaseRepo.Update(record); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		Purchase:       record,
		CheckoutURL:    session.URL,
		SessionID:      session.SessionID,
		PublishableKey: stripeSetting.PublishableKey,
	}, nil
}

// HandleStripeWebhook 校验并处理 Stripe Webhook 回调
func (s *PurchaseService) HandleStripeWebhook(signatureHeader string, body []byte) error {
	stripeSetting, err := s.settingService.GetStripeSetting()
	if err != nil {
		return err
	}
	if !stripeSetting.Enabled || strings.TrimSpace(stripeSetting.WebhookSecret) == "" {
		return ErrPaymentNotConfigured
	}

	event, err := stripe.VerifyAndParseWebhook(StripeClientConfig(stripeSetting), signatureHeader, body, time.Now())
	if err != nil {
		logger.Warnw("Stripe Webhook 校验失败", "error", err)
		return ErrSignatureInvalid
	}

	record, err := s.locatePurchaseByEvent(event)
	if err != nil {
		return err
	}
	if record == nil {
		// 未知订单的事件直接忽略，返回 200 避免 Stripe 重试
		logger.Warnw("Stripe Webhook 未匹配到订单",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"session_id", event.SessionID,
		)
		return nil
	}

	switch event.Status {
	case "success":
		return s.completePurchase(record.ID, event)
	case "failed", "expired":
		return s.failPurchase(record.ID, event)
	default:
		return nil
	}
}

func (s *PurchaseService) locatePurchaseByEvent(event *stripe.WebhookEvent) (*models.PurchaseRecord, error) {
	if event.PurchaseID != 0 {
		record, err := s.purchaseRepo.GetByID(event.PurchaseID)
		if err != nil || record != nil {
			return record, err
		}
	}
	if event.SessionID != "" {
		record, err := s.purchaseRepo.GetByStripeSessionID(event.SessionID)
		if err != nil || record != nil {
			return record, err
		}
	}
	if event.OrderNo != "" {
		return s.purchaseRepo.GetByOrderNo(event.OrderNo)
	}
	return nil, nil
}

// completePurchase 幂等地把订单置为已完成，并触发佣金计提与邮件通知
func (s *PurchaseService) completePurchase(purchaseID uint, event *stripe.WebhookEvent) error {
	var completed *models.PurchaseRecord
	err := s.purchaseRepo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.purchaseRepo.WithTx(tx)
		record, err := repoTx.GetByIDForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPurchaseNotFound
		}
		// 重复投递的事件直接吞掉
		if record.Status == constants.PurchaseStatusCompleted {
			return nil
		}
		if record.Status != constants.PurchaseStatusPending {
			logger.Warnw("忽略非待支付订单的成功回调",
				"purchase_id", record.ID,
				"status", record.Status,
				"event_id", event.EventID,
			)
			return nil
		}

		now := time.Now()
		record.Status = constants.PurchaseStatusCompleted
		record.PaidAt = &now
		if event.PaidAt != nil {
			record.PaidAt = event.PaidAt
		}
		if event.SessionID != "" {
			record.StripeSessionID = event.SessionID
		}
		if event.PaymentIntentID != "" {
			record.StripePaymentIntentID = event.PaymentIntentID
		}
		if event.SubscriptionID != "" {
			record.StripeSubscriptionID = event.SubscriptionID
		}
		if event.CustomerID != "" {
			record.StripeCustomerID = event.CustomerID
		}
		if err := repoTx.Update(record); err != nil {
			return err
		}
		completed = record
		return nil
	})
	if err != nil {
		return err
	}
	if completed != nil {
		logger.Infow("订单支付完成",
			"purchase_id", completed.ID,
			"order_no", completed.OrderNo,
			"amount", completed.FinalPrice.String(),
		)
		s.enqueueCompletionTasks(completed)
	}
	return nil
}

// failPurchase 把待支付订单置为失败并回退优惠码
func (s *PurchaseService) failPurchase(purchaseID uint, event *stripe.WebhookEvent) error {
	var failed *models.PurchaseRecord
	err := s.purchaseRepo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.purchaseRepo.WithTx(tx)
		record, err := repoTx.GetByIDForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPurchaseNotFound
		}
		if record.Status != constants.PurchaseStatusPending {
			return nil
		}
		record.Status = constants.PurchaseStatusFailed
		if err := repoTx.Update(record); err != nil {
			return err
		}
		failed = record
		return nil
	})
	if err != nil {
		return err
	}
	if failed != nil {
		logger.Infow("订单支付失败",
			"purchase_id", failed.ID,
			"order_no", failed.OrderNo,
			"event_type", event.EventType,
		)
		if failed.PromoCodeID != nil {
			if err := s.promoService.Release(*failed.PromoCodeID); err != nil {
				logger.Warnw("回退优惠码使用次数失败", "promo_code_id", *failed.PromoCodeID, "error", err)
			}
		}
		s.enqueueStatusEmail(failed.ID, failed.Status)
	}
	return nil
}

func (s *PurchaseService) enqueueCompletionTasks(record *models.PurchaseRecord) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueCommissionAccrue(queue.CommissionAccruePayload{PurchaseID: record.ID}); err != nil {
		logger.Errorw("投递佣金计提任务失败", "purchase_id", record.ID, "error", err)
	}
	s.enqueueStatusEmail(record.ID, record.Status)
}

func (s *PurchaseService) enqueueStatusEmail(purchaseID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	payload := queue.PurchaseStatusEmailPayload{PurchaseID: purchaseID, Status: status}
	if err := s.queueClient.EnqueuePurchaseStatusEmail(payload); err != nil {
		logger.Warnw("投递订单状态邮件任务失败", "purchase_id", purchaseID, "error", err)
	}
}

// GetPurchase 按ID查询购买记录
func (s *PurchaseService) GetPurchase(id uint) (*models.PurchaseRecord, error) {
	record, err := s.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrPurchaseNotFound
	}
	return record, nil
}

// GetPurchaseByOrderNo 按订单号查询购买记录
func (s *PurchaseService) GetPurchaseByOrderNo(orderNo string) (*models.PurchaseRecord, error) {
	record, err := s.purchaseRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrPurchaseNotFound
	}
	return record, nil
}

// ListPurchases 购买记录列表
func (s *PurchaseService) ListPurchases(filter repository.PurchaseListFilter) ([]models.PurchaseRecord, int64, error) {
	return s.purchaseRepo.List(filter)
}

// UpdatePurchaseStatus 管理员手工调整订单状态。
// 允许的流转：pending → completed/failed/cancelled，completed → refunded。
func (s *PurchaseService) UpdatePurchaseStatus(id uint, rawStatus string) (*models.PurchaseRecord, error) {
	target := strings.ToLower(strings.TrimSpace(rawStatus))
	switch target {
	case constants.PurchaseStatusCompleted,
		constants.PurchaseStatusFailed,
		constants.PurchaseStatusCanceled,
		constants.PurchaseStatusRefunded:
	default:
		return nil, ErrPurchaseStatusInvalid
	}

	var updated *models.PurchaseRecord
	var becameCompleted bool
	var releasedPromoID *uint
	err := s.purchaseRepo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.purchaseRepo.WithTx(tx)
		record, err := repoTx.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPurchaseNotFound
		}
		if !canTransitionPurchase(record.Status, target) {
			return ErrPurchaseStatusInvalid
		}

		record.Status = target
		switch target {
		case constants.PurchaseStatusCompleted:
			now := time.Now()
			record.PaidAt = &now
			becameCompleted = true
		case constants.PurchaseStatusFailed, constants.PurchaseStatusCanceled:
			releasedPromoID = record.PromoCodeID
		}
		if err := repoTx.Update(record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	if releasedPromoID != nil {
		if err := s.promoService.Release(*releasedPromoID); err != nil {
			logger.Warnw("回退优惠码使用次数失败", "promo_code_id", *releasedPromoID, "error", err)
		}
	}
	if becameCompleted {
		s.enqueueCompletionTasks(updated)
	} else {
		s.enqueueStatusEmail(updated.ID, updated.Status)
	}
	return updated, nil
}

// canTransitionPurchase 订单状态流转约束。
// 退款只回退订单本身，对应佣金由管理员按需单独作废。
func canTransitionPurchase(from, to string) bool {
	switch from {
	case constants.PurchaseStatusPending:
		return to == constants.PurchaseStatusCompleted ||
			to == constants.PurchaseStatusFailed ||
			to == constants.PurchaseStatusCanceled
	case constants.PurchaseStatusCompleted:
		return to == constants.PurchaseStatusRefunded
	default:
		return false
	}
}

// ExportPurchasesCSV 按过滤条件导出购买记录
func (s *PurchaseService) ExportPurchasesCSV(filter repository.PurchaseListFilter) ([]byte, error) {
	rows, err := s.purchaseRepo.ListForExport(filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{
		"order_no", "user_email", "plan_name", "promo_code",
		"original_price", "discount_amount", "final_price", "currency",
		"status", "paid_at", "created_at",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for i := range rows {
		row := &rows[i]
		userEmail := ""
		if row.User != nil {
			userEmail = row.User.Email
		}
		planName := ""
		if row.Plan != nil {
			planName = row.Plan.Name
		}
		promoCode := ""
		if row.PromoCode != nil {
			promoCode = row.PromoCode.Code
		}
		paidAt := ""
		if row.PaidAt != nil {
			paidAt = row.PaidAt.Format(time.RFC3339)
		}
		line := []string{
			row.OrderNo,
			userEmail,
			planName,
			promoCode,
			row.OriginalPrice.String(),
			row.DiscountAmount.String(),
			row.FinalPrice.String(),
			strings.ToUpper(row.Currency),
			row.Status,
			paidAt,
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(line); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StripeClientConfig 把渠道配置转换为 Stripe 客户端配置
func StripeClientConfig(setting StripeSetting) stripe.Config {
	return stripe.Config{
		SecretKey:      setting.SecretKey,
		PublishableKey: setting.PublishableKey,
		WebhookSecret:  setting.WebhookSecret,
		SuccessURL:     setting.SuccessURL,
		CancelURL:      setting.CancelURL,
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("CP%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(strconv.FormatInt(n.Int64(), 10))
	}
	return b.String()
}
