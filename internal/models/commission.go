package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission 佣金记录表
type Commission struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                    // 主键
	InfluencerID       uint           `gorm:"index;not null" json:"influencer_id"`                     // 达人 ID
	PurchaseID         uint           `gorm:"uniqueIndex;not null" json:"purchase_id"`                 // 购买记录 ID（一单一佣）
	SubscriptionAmount Money          `gorm:"type:decimal(10,2);not null" json:"subscription_amount"`  // 订单实付金额
	CommissionRate     Money          `gorm:"type:decimal(5,2);not null" json:"commission_rate"`       // 计提时的比例快照
	CommissionAmount   Money          `gorm:"type:decimal(10,2);not null" json:"commission_amount"`    // 佣金金额
	Status             string         `gorm:"default:'pending';index" json:"status"`                   // 状态：pending/approved/paid/cancelled
	PaidAt             *time.Time     `json:"paid_at"`                                                 // 结算时间
	PayoutID           *uint          `gorm:"index" json:"payout_id"`                                  // 关联提现单 ID
	Notes              string         `gorm:"type:text" json:"notes"`                                  // 备注
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Influencer *Influencer     `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"` // 达人
	Purchase   *PurchaseRecord `gorm:"foreignKey:PurchaseID" json:"purchase,omitempty"`     // 购买记录
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}
