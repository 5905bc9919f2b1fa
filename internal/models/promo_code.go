package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode 优惠码表
type PromoCode struct {
	ID             uint           `gorm:"primarykey" json:"id"`                              // 主键
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`                  // 优惠码（大写存储）
	Description    string         `gorm:"type:text" json:"description"`                      // 描述
	InfluencerID   *uint          `gorm:"index" json:"influencer_id"`                        // 归属达人 ID（可空，空为平台码）
	Type           string         `gorm:"not null" json:"type"`                              // 类型：percentage/fixed_amount
	Value          Money          `gorm:"type:decimal(10,2);not null" json:"value"`          // 折扣值（百分比或固定金额）
	MaxDiscount    Money          `gorm:"type:decimal(10,2);default:0" json:"max_discount"`  // 最大优惠金额（仅百分比类型，0 为不限）
	MinOrderAmount Money          `gorm:"type:decimal(10,2);default:0" json:"min_order_amount"` // 最低订单金额
	UsageLimit     int            `gorm:"default:0" json:"usage_limit"`                      // 使用次数上限（0 为不限）
	UsedCount      int            `gorm:"default:0" json:"used_count"`                       // 已使用次数
	Status         string         `gorm:"default:'active';index" json:"status"`              // 状态：active/inactive/expired
	ExpiresAt      *time.Time     `json:"expires_at"`                                        // 过期时间（空为永久有效）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                           // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	Influencer *Influencer `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"` // 归属达人
}

// TableName 指定表名
func (PromoCode) TableName() string {
	return "promo_codes"
}
