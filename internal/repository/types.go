package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PlanListFilter 查询订阅套餐列表的过滤条件
type PlanListFilter struct {
	Page       int
	PageSize   int
	Type       string
	Status     string
	Search     string
	OnlyActive bool
}

// PromoCodeListFilter 查询优惠码列表的过滤条件
type PromoCodeListFilter struct {
	Page         int
	PageSize     int
	Code         string
	Type         string
	Status       string
	InfluencerID uint
	Search       string
}

// InfluencerListFilter 查询达人列表的过滤条件
type InfluencerListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
}

// CommissionListFilter 查询佣金列表的过滤条件
type CommissionListFilter struct {
	Page         int
	PageSize     int
	InfluencerID uint
	PurchaseID   uint
	Status       string
	Keyword      string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// WithdrawalListFilter 查询提现申请列表的过滤条件
type WithdrawalListFilter struct {
	Page         int
	PageSize     int
	InfluencerID uint
	Status       string
	Keyword      string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// PurchaseListFilter 查询购买记录列表的过滤条件
type PurchaseListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	PlanID      uint
	PromoCodeID uint
	OrderNo     string
	Status      string
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// EmailTemplateListFilter 查询邮件模板列表的过滤条件
type EmailTemplateListFilter struct {
	Page     int
	PageSize int
	Type     string
	Status   string
	Search   string
}
