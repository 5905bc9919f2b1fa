package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/provider"
	"github.com/coachpanel/internal/queue"
	"github.com/coachpanel/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPurchaseStatusEmail, c.handlePurchaseStatusEmail)
	mux.HandleFunc(queue.TaskCommissionAccrue, c.handleCommissionAccrue)
	mux.HandleFunc(queue.TaskCommissionAutoApprove, c.handleCommissionAutoApprove)
	mux.HandleFunc(queue.TaskWithdrawalStatusEmail, c.handleWithdrawalStatusEmail)
}

func (c *Consumer) handlePurchaseStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.PurchaseStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_purchase_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.PurchaseID == 0 {
		return nil
	}

	record, err := c.PurchaseRepo.GetByID(payload.PurchaseID)
	if err != nil {
		logger.Warnw("worker_purchase_status_email_fetch_failed", "purchase_id", payload.PurchaseID, "error", err)
		return err
	}
	if record == nil {
		logger.Debugw("worker_purchase_status_email_skip_not_found", "purchase_id", payload.PurchaseID)
		return nil
	}
	user, err := c.UserRepo.GetByID(record.UserID)
	if err != nil {
		logger.Warnw("worker_purchase_status_email_fetch_user_failed", "purchase_id", record.ID, "user_id", record.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_purchase_status_email_skip_empty_receiver", "purchase_id", record.ID)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = record.Status
	}
	templateType := purchaseStatusTemplateType(status)
	if templateType == "" {
		logger.Debugw("worker_purchase_status_email_skip_status", "purchase_id", record.ID, "status", status)
		return nil
	}

	planName := ""
	if record.Plan != nil {
		planName = record.Plan.Name
	}
	variables := map[string]string{
		"user_name": user.DisplayName(),
		"order_no":  record.OrderNo,
		"plan_name": planName,
		"amount":    record.FinalPrice.String(),
		"currency":  strings.ToUpper(record.Currency),
		"status":    status,
	}

	if err := c.EmailService.SendTemplateEmail(user.Email, templateType, variables); err != nil {
		if errors.Is(err, service.ErrEmailNotConfigured) || errors.Is(err, service.ErrTemplateNotFound) {
			logger.Debugw("worker_purchase_status_email_skip_unconfigured", "purchase_id", record.ID, "error", err)
			return nil
		}
		logger.Warnw("worker_purchase_status_email_send_failed",
			"purchase_id", record.ID,
			"order_no", record.OrderNo,
			"receiver_email", user.Email,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleCommissionAccrue(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.CommissionAccruePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_commission_accrue_unmarshal_failed", "error", err)
		return err
	}
	if payload.PurchaseID == 0 {
		return nil
	}

	commission, err := c.InfluencerService.AccrueCommission(payload.PurchaseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommissionExists):
			logger.Debugw("worker_commission_accrue_skip_exists", "purchase_id", payload.PurchaseID)
			return nil
		case errors.Is(err, service.ErrPurchaseNotFound):
			logger.Debugw("worker_commission_accrue_skip_purchase_not_found", "purchase_id", payload.PurchaseID)
			return nil
		default:
			logger.Warnw("worker_commission_accrue_failed", "purchase_id", payload.PurchaseID, "error", err)
			return err
		}
	}
	if commission != nil {
		logger.Infow("worker_commission_accrued",
			"purchase_id", payload.PurchaseID,
			"commission_id", commission.ID,
			"influencer_id", commission.InfluencerID,
			"amount", commission.CommissionAmount.String(),
		)
	}
	return nil
}

func (c *Consumer) handleCommissionAutoApprove(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	approved, err := c.InfluencerService.AutoApproveCommissions(time.Now())
	if err != nil {
		logger.Warnw("worker_commission_auto_approve_failed", "error", err)
		return err
	}
	if approved > 0 {
		logger.Infow("worker_commission_auto_approved", "count", approved)
	}
	return nil
}

func (c *Consumer) handleWithdrawalStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.WithdrawalStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_withdrawal_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.WithdrawalID == 0 {
		return nil
	}

	withdrawal, err := c.InfluencerRepo.GetWithdrawalByID(payload.WithdrawalID)
	if err != nil {
		logger.Warnw("worker_withdrawal_status_email_fetch_failed", "withdrawal_id", payload.WithdrawalID, "error", err)
		return err
	}
	if withdrawal == nil {
		logger.Debugw("worker_withdrawal_status_email_skip_not_found", "withdrawal_id", payload.WithdrawalID)
		return nil
	}
	influencer, err := c.InfluencerRepo.GetByID(withdrawal.InfluencerID)
	if err != nil {
		logger.Warnw("worker_withdrawal_status_email_fetch_influencer_failed", "withdrawal_id", withdrawal.ID, "error", err)
		return err
	}
	if influencer == nil {
		return nil
	}
	user, err := c.UserRepo.GetByID(influencer.UserID)
	if err != nil {
		logger.Warnw("worker_withdrawal_status_email_fetch_user_failed", "withdrawal_id", withdrawal.ID, "user_id", influencer.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = withdrawal.Status
	}
	variables := map[string]string{
		"user_name":  user.DisplayName(),
		"amount":     withdrawal.Amount.String(),
		"status":     status,
		"payout_ref": withdrawal.PayoutRef,
	}

	if err := c.EmailService.SendTemplateEmail(user.Email, constants.EmailTemplateTypeWithdrawalProcessed, variables); err != nil {
		if errors.Is(err, service.ErrEmailNotConfigured) || errors.Is(err, service.ErrTemplateNotFound) {
			logger.Debugw("worker_withdrawal_status_email_skip_unconfigured", "withdrawal_id", withdrawal.ID, "error", err)
			return nil
		}
		logger.Warnw("worker_withdrawal_status_email_send_failed",
			"withdrawal_id", withdrawal.ID,
			"receiver_email", user.Email,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func purchaseStatusTemplateType(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.PurchaseStatusCompleted:
		return constants.EmailTemplateTypePaymentSuccess
	case constants.PurchaseStatusFailed:
		return constants.EmailTemplateTypePaymentFailed
	case constants.PurchaseStatusRefunded, constants.PurchaseStatusCanceled:
		return constants.EmailTemplateTypeSubscriptionCanceled
	default:
		return ""
	}
}
