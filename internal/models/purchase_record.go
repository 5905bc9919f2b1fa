package models

import (
	"time"

	"gorm.io/gorm"
)

// PurchaseRecord 购买记录表
type PurchaseRecord struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                               // 主键
	OrderNo               string         `gorm:"uniqueIndex;not null" json:"order_no"`               // 订单号
	UserID                uint           `gorm:"index;not null" json:"user_id"`                      // 用户 ID
	PlanID                uint           `gorm:"index;not null" json:"plan_id"`                      // 套餐 ID
	PromoCodeID           *uint          `gorm:"index" json:"promo_code_id"`                         // 优惠码 ID（可空）
	InfluencerID          *uint          `gorm:"index" json:"influencer_id"`                         // 归因达人 ID（下单时快照）
	OriginalPrice         Money          `gorm:"type:decimal(10,2);not null" json:"original_price"`  // 原价
	DiscountAmount        Money          `gorm:"type:decimal(10,2);default:0" json:"discount_amount"` // 优惠金额
	FinalPrice            Money          `gorm:"type:decimal(10,2);not null" json:"final_price"`     // 实付金额
	Currency              string         `gorm:"default:'usd'" json:"currency"`                      // 币种
	Status                string         `gorm:"default:'pending';index" json:"status"`              // 状态：pending/completed/failed/cancelled/refunded
	StripeSessionID       string         `gorm:"index;default:''" json:"stripe_session_id"`          // Stripe Checkout Session ID
	StripePaymentIntentID string         `gorm:"default:''" json:"stripe_payment_intent_id"`         // Stripe PaymentIntent ID
	StripeCustomerID      string         `gorm:"default:''" json:"stripe_customer_id"`               // Stripe 客户 ID
	StripeSubscriptionID  string         `gorm:"default:''" json:"stripe_subscription_id"`           // Stripe 订阅 ID
	ClientIP              string         `gorm:"default:''" json:"client_ip"`                        // 下单 IP
	UserAgent             string         `gorm:"default:''" json:"-"`                                // 下单 UA
	PaidAt                *time.Time     `json:"paid_at"`                                            // 支付完成时间
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt             time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	User      *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`            // 用户
	Plan      *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`            // 套餐
	PromoCode *PromoCode        `gorm:"foreignKey:PromoCodeID" json:"promo_code,omitempty"` // 优惠码
}

// TableName 指定表名
func (PurchaseRecord) TableName() string {
	return "purchase_records"
}
