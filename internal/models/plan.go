package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan 订阅套餐表
type SubscriptionPlan struct {
	ID            uint           `gorm:"primarykey" json:"id"`                      // 主键
	Name          string         `gorm:"not null" json:"name"`                      // 套餐名称
	Description   string         `gorm:"type:text" json:"description"`              // 套餐描述
	Type          string         `gorm:"not null;index" json:"type"`                // 周期类型：monthly/quarterly/yearly/lifetime
	Price         Money          `gorm:"type:decimal(10,2);not null" json:"price"`  // 价格
	Currency      string         `gorm:"default:'usd'" json:"currency"`             // 币种
	Features      StringArray    `gorm:"type:text" json:"features"`                 // 卖点列表
	StripePriceID string         `gorm:"default:''" json:"stripe_price_id"`         // Stripe 价格 ID
	TrialDays     int            `gorm:"default:0" json:"trial_days"`               // 试用天数
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`         // 排序权重
	Status        string         `gorm:"default:'active';index" json:"status"`      // 状态：active/inactive/archived
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}
