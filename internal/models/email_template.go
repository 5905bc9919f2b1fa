package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailTemplate 邮件模板表
type EmailTemplate struct {
	ID        uint           `gorm:"primarykey" json:"id"`                 // 主键
	Type      string         `gorm:"uniqueIndex;not null" json:"type"`     // 模板类型（每种类型唯一）
	Name      string         `gorm:"not null" json:"name"`                 // 模板名称
	Subject   string         `gorm:"not null" json:"subject"`              // 邮件主题（支持 {{变量}}）
	HTMLBody  string         `gorm:"type:text" json:"html_body"`           // HTML 正文
	TextBody  string         `gorm:"type:text" json:"text_body"`           // 纯文本正文
	Variables StringArray    `gorm:"type:text" json:"variables"`           // 可用变量列表
	Status    string         `gorm:"default:'active';index" json:"status"` // 状态：active/inactive
	CreatedAt time.Time      `json:"created_at"`                           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                           // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (EmailTemplate) TableName() string {
	return "email_templates"
}
