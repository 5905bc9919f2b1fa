package models

import (
	"time"

	"gorm.io/gorm"
)

// WithdrawalRequest 提现申请表
type WithdrawalRequest struct {
	ID           uint           `gorm:"primarykey" json:"id"`                      // 主键
	InfluencerID uint           `gorm:"index;not null" json:"influencer_id"`       // 达人 ID
	Amount       Money          `gorm:"type:decimal(10,2);not null" json:"amount"` // 申请金额
	Status       string         `gorm:"default:'pending';index" json:"status"`     // 状态：pending/paid/rejected
	Notes        string         `gorm:"type:text" json:"notes"`                    // 审核备注
	PayoutRef    string         `gorm:"default:''" json:"payout_ref"`              // 外部打款凭证号
	RequestedAt  time.Time      `gorm:"index" json:"requested_at"`                 // 申请时间
	ProcessedAt  *time.Time     `json:"processed_at"`                              // 处理时间
	ProcessedBy  *uint          `json:"processed_by"`                              // 处理管理员 ID
	CreatedAt    time.Time      `json:"created_at"`                                // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间

	Influencer *Influencer `gorm:"foreignKey:InfluencerID" json:"influencer,omitempty"` // 达人
}

// TableName 指定表名
func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
