package queue

import (
	"encoding/json"

	"github.com/coachpanel/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPurchaseStatusEmail 购买状态邮件通知任务
	TaskPurchaseStatusEmail = constants.TaskPurchaseStatusEmail
	// TaskCommissionAccrue 佣金计提任务
	TaskCommissionAccrue = constants.TaskCommissionAccrue
	// TaskCommissionAutoApprove 佣金到期自动确认任务
	TaskCommissionAutoApprove = constants.TaskCommissionAutoApprove
	// TaskWithdrawalStatusEmail 提现结果邮件通知任务
	TaskWithdrawalStatusEmail = constants.TaskWithdrawalStatusEmail
)

// PurchaseStatusEmailPayload 购买状态邮件任务载荷
type PurchaseStatusEmailPayload struct {
	PurchaseID uint   `json:"purchase_id"`
	Status     string `json:"status"`
}

// CommissionAccruePayload 佣金计提任务载荷
type CommissionAccruePayload struct {
	PurchaseID uint `json:"purchase_id"`
}

// CommissionAutoApprovePayload 佣金自动确认任务载荷（周期任务，无参数）
type CommissionAutoApprovePayload struct{}

// WithdrawalStatusEmailPayload 提现结果邮件任务载荷
type WithdrawalStatusEmailPayload struct {
	WithdrawalID uint   `json:"withdrawal_id"`
	Status       string `json:"status"`
}

// NewPurchaseStatusEmailTask 创建购买状态邮件任务
func NewPurchaseStatusEmailTask(payload PurchaseStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPurchaseStatusEmail, body), nil
}

// NewCommissionAccrueTask 创建佣金计提任务
func NewCommissionAccrueTask(payload CommissionAccruePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionAccrue, body), nil
}

// NewCommissionAutoApproveTask 创建佣金自动确认任务
func NewCommissionAutoApproveTask() (*asynq.Task, error) {
	body, err := json.Marshal(CommissionAutoApprovePayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionAutoApprove, body), nil
}

// NewWithdrawalStatusEmailTask 创建提现结果邮件任务
func NewWithdrawalStatusEmailTask(payload WithdrawalStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWithdrawalStatusEmail, body), nil
}
