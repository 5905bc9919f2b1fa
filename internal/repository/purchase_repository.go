package repository

import (
	"errors"
	"strings"

	"github.com/coachpanel/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepository 购买记录数据访问接口
type PurchaseRepository interface {
	GetByID(id uint) (*models.PurchaseRecord, error)
	GetByIDForUpdate(id uint) (*models.PurchaseRecord, error)
	GetByOrderNo(orderNo string) (*models.PurchaseRecord, error)
	GetByStripeSessionID(sessionID string) (*models.PurchaseRecord, error)
	Create(record *models.PurchaseRecord) error
	Update(record *models.PurchaseRecord) error
	List(filter PurchaseListFilter) ([]models.PurchaseRecord, int64, error)
	ListForExport(filter PurchaseListFilter) ([]models.PurchaseRecord, error)
	WithTx(tx *gorm.DB) PurchaseRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormPurchaseRepository GORM 实现
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建购买记录仓库
func NewPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) PurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseRepository{db: tx}
}

// Transaction 执行事务
func (r *GormPurchaseRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按ID获取购买记录
func (r *GormPurchaseRepository) GetByID(id uint) (*models.PurchaseRecord, error) {
	if id == 0 {
		return nil, nil
	}
	var record models.PurchaseRecord
	if err := r.db.Preload("User").Preload("Plan").Preload("PromoCode").First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByIDForUpdate 按ID锁定获取购买记录
func (r *GormPurchaseRepository) GetByIDForUpdate(id uint) (*models.PurchaseRecord, error) {
	if id == 0 {
		return nil, nil
	}
	var record models.PurchaseRecord
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByOrderNo 按订单号获取购买记录
func (r *GormPurchaseRepository) GetByOrderNo(orderNo string) (*models.PurchaseRecord, error) {
	normalized := strings.TrimSpace(orderNo)
	if normalized == "" {
		return nil, nil
	}
	var record models.PurchaseRecord
	if err := r.db.Preload("User").Preload("Plan").Preload("PromoCode").
		Where("order_no = ?", normalized).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByStripeSessionID 按 Stripe 会话ID获取购买记录（Webhook 回调入口）
func (r *GormPurchaseRepository) GetByStripeSessionID(sessionID string) (*models.PurchaseRecord, error) {
	normalized := strings.TrimSpace(sessionID)
	if normalized == "" {
		return nil, nil
	}
	var record models.PurchaseRecord
	if err := r.db.Where("stripe_session_id = ?", normalized).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Create 创建购买记录
func (r *GormPurchaseRepository) Create(record *models.PurchaseRecord) error {
	return r.db.Create(record).Error
}

// Update 更新购买记录
func (r *GormPurchaseRepository) Update(record *models.PurchaseRecord) error {
	return r.db.Save(record).Error
}

// List 购买记录列表
func (r *GormPurchaseRepository) List(filter PurchaseListFilter) ([]models.PurchaseRecord, int64, error) {
	query := r.buildListQuery(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.PurchaseRecord
	if err := query.Order("purchase_records.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListForExport 导出用全量查询（忽略分页）
func (r *GormPurchaseRepository) ListForExport(filter PurchaseListFilter) ([]models.PurchaseRecord, error) {
	query := r.buildListQuery(filter)
	var rows []models.PurchaseRecord
	if err := query.Order("purchase_records.id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormPurchaseRepository) buildListQuery(filter PurchaseListFilter) *gorm.DB {
	query := r.db.Model(&models.PurchaseRecord{}).
		Preload("User").
		Preload("Plan").
		Preload("PromoCode")

	if filter.UserID != 0 {
		query = query.Where("purchase_records.user_id = ?", filter.UserID)
	}
	if filter.PlanID != 0 {
		query = query.Where("purchase_records.plan_id = ?", filter.PlanID)
	}
	if filter.PromoCodeID != 0 {
		query = query.Where("purchase_records.promo_code_id = ?", filter.PromoCodeID)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("purchase_records.order_no LIKE ?", "%"+orderNo+"%")
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("purchase_records.status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.
			Joins("LEFT JOIN users ON users.id = purchase_records.user_id").
			Where("(users.email LIKE ? OR purchase_records.order_no LIKE ?)", like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("purchase_records.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("purchase_records.created_at <= ?", *filter.CreatedTo)
	}
	return query
}
