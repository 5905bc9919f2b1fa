package models

import (
	"time"
)

// Setting 系统配置表（KV，Value 为 JSON）
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`       // 配置键
	ValueJSON JSON      `gorm:"column:value;type:text" json:"value"`   // 配置值（JSON）
	CreatedAt time.Time `json:"created_at"`                      // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                      // 更新时间
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
