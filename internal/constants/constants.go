package constants

// 订阅计划状态常量
const (
	PlanStatusActive   = "active"
	PlanStatusInactive = "inactive"
	PlanStatusArchived = "archived"
)

// 订阅计划类型常量
const (
	PlanTypeMonthly   = "monthly"
	PlanTypeQuarterly = "quarterly"
	PlanTypeYearly    = "yearly"
	PlanTypeLifetime  = "lifetime"
)

// 购买记录状态常量
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
	PurchaseStatusCanceled  = "cancelled"
	PurchaseStatusRefunded  = "refunded"
)

// 优惠码类型常量
const (
	PromoCodeTypePercentage  = "percentage"
	PromoCodeTypeFixedAmount = "fixed_amount"
)

// 优惠码状态常量
const (
	PromoCodeStatusActive   = "active"
	PromoCodeStatusInactive = "inactive"
	PromoCodeStatusExpired  = "expired"
)

// 推广人状态常量
const (
	InfluencerStatusPending   = "pending"
	InfluencerStatusActive    = "active"
	InfluencerStatusInactive  = "inactive"
	InfluencerStatusSuspended = "suspended"
)

// 佣金状态常量
const (
	CommissionStatusPending   = "pending"
	CommissionStatusApproved  = "approved"
	CommissionStatusPaid      = "paid"
	CommissionStatusCancelled = "cancelled"
)

// 提现申请状态常量
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusPaid     = "paid"
	WithdrawalStatusRejected = "rejected"
)

// 提现处理动作常量
const (
	WithdrawalOutcomePaid     = "paid"
	WithdrawalOutcomeRejected = "rejected"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 邮件模板类型常量
const (
	EmailTemplateTypeWelcome              = "welcome"
	EmailTemplateTypePasswordReset        = "password_reset"
	EmailTemplateTypePaymentSuccess       = "payment_success"
	EmailTemplateTypePaymentFailed        = "payment_failed"
	EmailTemplateTypeSubscriptionConfirm  = "subscription_confirmation"
	EmailTemplateTypeSubscriptionCanceled = "subscription_cancelled"
	EmailTemplateTypeInfluencerInvitation = "influencer_invitation"
	EmailTemplateTypeCommissionEarned     = "commission_earned"
	EmailTemplateTypeWithdrawalProcessed  = "withdrawal_processed"
	EmailTemplateTypeCustom               = "custom"
)

// 邮件模板状态常量
const (
	EmailTemplateStatusActive   = "active"
	EmailTemplateStatusInactive = "inactive"
	EmailTemplateStatusDraft    = "draft"
)

// 队列名称常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型常量
const (
	TaskPurchaseStatusEmail    = "purchase:status_email"
	TaskCommissionAccrue       = "commission:accrue"
	TaskCommissionAutoApprove  = "commission:auto_approve"
	TaskWithdrawalStatusEmail  = "withdrawal:status_email"
)

// 设置键常量
const (
	SettingKeySiteConfig       = "site_config"
	SettingKeySMTPConfig       = "smtp_config"
	SettingKeyStripeConfig     = "stripe_config"
	SettingKeyInfluencerConfig = "influencer_config"
	SettingKeyAppConfig        = "app_config"
)

// 设置字段常量
const (
	SettingFieldMinWithdrawAmount = "min_withdraw_amount"
	SettingFieldCommissionRate    = "default_commission_rate"
	SettingFieldAutoApproveDays   = "auto_approve_days"
)
