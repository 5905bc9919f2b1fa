package models

import (
	"time"

	"gorm.io/gorm"
)

// Influencer 达人（推广者）表
type Influencer struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                  // 主键
	UserID           uint           `gorm:"uniqueIndex;not null" json:"user_id"`                   // 关联用户 ID
	CommissionRate   Money          `gorm:"type:decimal(5,2);not null" json:"commission_rate"`     // 佣金比例（百分比）
	TotalEarnings    Money          `gorm:"type:decimal(10,2);default:0" json:"total_earnings"`    // 累计佣金（计提即累加）
	AvailableBalance Money          `gorm:"type:decimal(10,2);default:0" json:"available_balance"` // 可提现余额
	TotalWithdrawn   Money          `gorm:"type:decimal(10,2);default:0" json:"total_withdrawn"`   // 累计已提现
	Status           string         `gorm:"default:'pending';index" json:"status"`                 // 状态：pending/active/inactive/suspended
	StripeAccountID  string         `gorm:"default:''" json:"stripe_account_id"`                   // Stripe 收款账号
	Notes            string         `gorm:"type:text" json:"notes"`                                // 备注
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                               // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 关联用户
}

// TableName 指定表名
func (Influencer) TableName() string {
	return "influencers"
}
