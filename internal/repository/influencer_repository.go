package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InfluencerRepository 达人与佣金数据访问接口
type InfluencerRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InfluencerRepository

	GetByID(id uint) (*models.Influencer, error)
	GetByIDForUpdate(id uint) (*models.Influencer, error)
	GetByUserID(userID uint) (*models.Influencer, error)
	Create(influencer *models.Influencer) error
	Update(influencer *models.Influencer) error
	List(filter InfluencerListFilter) ([]models.Influencer, int64, error)
	GetStatsBatch(influencerIDs []uint) (map[uint]InfluencerStatsAggregate, error)

	GetCommissionByID(id uint) (*models.Commission, error)
	GetCommissionByIDForUpdate(id uint) (*models.Commission, error)
	GetCommissionByPurchaseID(purchaseID uint) (*models.Commission, error)
	CreateCommission(commission *models.Commission) error
	UpdateCommission(commission *models.Commission) error
	ListCommissions(filter CommissionListFilter) ([]models.Commission, int64, error)
	ListApprovedCommissionsForUpdate(influencerID uint) ([]models.Commission, error)
	BatchUpdateCommissions(ids []uint, updates map[string]interface{}) error
	AutoApprovePendingCommissions(before time.Time) (int64, error)

	CreateWithdrawal(req *models.WithdrawalRequest) error
	UpdateWithdrawal(req *models.WithdrawalRequest) error
	GetWithdrawalByID(id uint) (*models.WithdrawalRequest, error)
	GetWithdrawalByIDForUpdate(id uint) (*models.WithdrawalRequest, error)
	HasPendingWithdrawal(influencerID uint) (bool, error)
	ListWithdrawals(filter WithdrawalListFilter) ([]models.WithdrawalRequest, int64, error)
}

// InfluencerStatsAggregate 达人统计汇总
type InfluencerStatsAggregate struct {
	ReferredPurchaseCount int64
	PendingCommission     decimal.Decimal
	ApprovedCommission    decimal.Decimal
	PaidCommission        decimal.Decimal
}

// GormInfluencerRepository GORM 达人仓储
type GormInfluencerRepository struct {
	db *gorm.DB
}

// NewInfluencerRepository 创建达人仓储
func NewInfluencerRepository(db *gorm.DB) *GormInfluencerRepository {
	return &GormInfluencerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInfluencerRepository) WithTx(tx *gorm.DB) InfluencerRepository {
	if tx == nil {
		return r
	}
	return &GormInfluencerRepository{db: tx}
}

// Transaction 执行事务
func (r *GormInfluencerRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByID 按ID获取达人
func (r *GormInfluencerRepository) GetByID(id uint) (*models.Influencer, error) {
	if id == 0 {
		return nil, nil
	}
	var influencer models.Influencer
	if err := r.db.Preload("User").First(&influencer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &influencer, nil
}

// GetByIDForUpdate 按ID锁定获取达人（余额变更前必须持锁）
func (r *GormInfluencerRepository) GetByIDForUpdate(id uint) (*models.Influencer, error) {
	if id == 0 {
		return nil, nil
	}
	var influencer models.Influencer
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&influencer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &influencer, nil
}

// GetByUserID 按用户ID获取达人
func (r *GormInfluencerRepository) GetByUserID(userID uint) (*models.Influencer, error) {
	if userID == 0 {
		return nil, nil
	}
	var influencer models.Influencer
	if err := r.db.Preload("User").Where("user_id = ?", userID).First(&influencer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &influencer, nil
}

// Create 创建达人
func (r *GormInfluencerRepository) Create(influencer *models.Influencer) error {
	return r.db.Create(influencer).Error
}

// Update 更新达人
func (r *GormInfluencerRepository) Update(influencer *models.Influencer) error {
	return r.db.Save(influencer).Error
}

// List 查询达人列表
func (r *GormInfluencerRepository) List(filter InfluencerListFilter) ([]models.Influencer, int64, error) {
	query := r.db.Model(&models.Influencer{}).Preload("User")

	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("influencers.status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.
			Joins("LEFT JOIN users ON users.id = influencers.user_id").
			Where("(users.email LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ?)", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Influencer
	if err := query.Order("influencers.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GetStatsBatch 批量汇总达人统计信息
func (r *GormInfluencerRepository) GetStatsBatch(influencerIDs []uint) (map[uint]InfluencerStatsAggregate, error) {
	result := make(map[uint]InfluencerStatsAggregate, len(influencerIDs))
	if len(influencerIDs) == 0 {
		return result, nil
	}

	for _, id := range influencerIDs {
		if id == 0 {
			continue
		}
		result[id] = InfluencerStatsAggregate{
			PendingCommission:  decimal.Zero,
			ApprovedCommission: decimal.Zero,
			PaidCommission:     decimal.Zero,
		}
	}

	var countRows []struct {
		InfluencerID uint  `gorm:"column:influencer_id"`
		Total        int64 `gorm:"column:total"`
	}
	if err := r.db.Model(&models.Commission{}).
		Select("influencer_id, COUNT(*) AS total").
		Where("influencer_id IN ? AND status <> ?", influencerIDs, constants.CommissionStatusCancelled).
		Group("influencer_id").
		Scan(&countRows).Error; err != nil {
		return nil, err
	}
	for _, row := range countRows {
		item := result[row.InfluencerID]
		item.ReferredPurchaseCount = row.Total
		result[row.InfluencerID] = item
	}

	sumByStatus := func(status string, assign func(*InfluencerStatsAggregate, decimal.Decimal)) error {
		var rows []struct {
			InfluencerID uint            `gorm:"column:influencer_id"`
			Total        decimal.Decimal `gorm:"column:total"`
		}
		if err := r.db.Model(&models.Commission{}).
			Select("influencer_id, COALESCE(SUM(commission_amount), 0) AS total").
			Where("influencer_id IN ? AND status = ?", influencerIDs, status).
			Group("influencer_id").
			Scan(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			item := result[row.InfluencerID]
			assign(&item, row.Total.Round(2))
			result[row.InfluencerID] = item
		}
		return nil
	}

	if err := sumByStatus(constants.CommissionStatusPending, func(item *InfluencerStatsAggregate, total decimal.Decimal) {
		item.PendingCommission = total
	}); err != nil {
		return nil, err
	}
	if err := sumByStatus(constants.CommissionStatusApproved, func(item *InfluencerStatsAggregate, total decimal.Decimal) {
		item.ApprovedCommission = total
	}); err != nil {
		return nil, err
	}
	if err := sumByStatus(constants.CommissionStatusPaid, func(item *InfluencerStatsAggregate, total decimal.Decimal) {
		item.PaidCommission = total
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// GetCommissionByID 按ID查询佣金
func (r *GormInfluencerRepository) GetCommissionByID(id uint) (*models.Commission, error) {
	if id == 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Preload("Influencer").Preload("Influencer.User").Preload("Purchase").First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// GetCommissionByIDForUpdate 按ID锁定查询佣金
func (r *GormInfluencerRepository) GetCommissionByIDForUpdate(id uint) (*models.Commission, error) {
	if id == 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// GetCommissionByPurchaseID 按购买记录查询佣金（一单一佣）
func (r *GormInfluencerRepository) GetCommissionByPurchaseID(purchaseID uint) (*models.Commission, error) {
	if purchaseID == 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Where("purchase_id = ?", purchaseID).First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// CreateCommission 创建佣金记录
func (r *GormInfluencerRepository) CreateCommission(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// UpdateCommission 更新佣金记录
func (r *GormInfluencerRepository) UpdateCommission(commission *models.Commission) error {
	return r.db.Save(commission).Error
}

// ListCommissions 查询佣金记录
func (r *GormInfluencerRepository) ListCommissions(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{}).
		Preload("Influencer").
		Preload("Influencer.User").
		Preload("Purchase")
	if filter.InfluencerID != 0 {
		query = query.Where("commissions.influencer_id = ?", filter.InfluencerID)
	}
	if filter.PurchaseID != 0 {
		query = query.Where("commissions.purchase_id = ?", filter.PurchaseID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("commissions.status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.
			Joins("LEFT JOIN influencers i ON i.id = commissions.influencer_id").
			Joins("LEFT JOIN users u ON u.id = i.user_id").
			Where("(u.email LIKE ? OR u.first_name LIKE ? OR u.last_name LIKE ?)", like, like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("commissions.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("commissions.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Commission
	if err := query.Order("commissions.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListApprovedCommissionsForUpdate 查询并锁定可结算佣金
func (r *GormInfluencerRepository) ListApprovedCommissionsForUpdate(influencerID uint) ([]models.Commission, error) {
	if influencerID == 0 {
		return []models.Commission{}, nil
	}
	var rows []models.Commission
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("influencer_id = ? AND status = ? AND payout_id IS NULL",
			influencerID, constants.CommissionStatusApproved).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// BatchUpdateCommissions 批量更新佣金记录
func (r *GormInfluencerRepository) BatchUpdateCommissions(ids []uint, updates map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Commission{}).Where("id IN ?", ids).Updates(updates).Error
}

// AutoApprovePendingCommissions 批量将超过确认期的待确认佣金置为已确认
func (r *GormInfluencerRepository) AutoApprovePendingCommissions(before time.Time) (int64, error) {
	result := r.db.Model(&models.Commission{}).
		Where("status = ? AND created_at <= ?", constants.CommissionStatusPending, before).
		Update("status", constants.CommissionStatusApproved)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CreateWithdrawal 创建提现申请
func (r *GormInfluencerRepository) CreateWithdrawal(req *models.WithdrawalRequest) error {
	return r.db.Create(req).Error
}

// UpdateWithdrawal 更新提现申请
func (r *GormInfluencerRepository) UpdateWithdrawal(req *models.WithdrawalRequest) error {
	return r.db.Save(req).Error
}

// GetWithdrawalByID 按ID查询提现申请
func (r *GormInfluencerRepository) GetWithdrawalByID(id uint) (*models.WithdrawalRequest, error) {
	if id == 0 {
		return nil, nil
	}
	var row models.WithdrawalRequest
	if err := r.db.Preload("Influencer").Preload("Influencer.User").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetWithdrawalByIDForUpdate 按ID锁定查询提现申请
func (r *GormInfluencerRepository) GetWithdrawalByIDForUpdate(id uint) (*models.WithdrawalRequest, error) {
	if id == 0 {
		return nil, nil
	}
	var row models.WithdrawalRequest
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// HasPendingWithdrawal 查询达人是否有待处理的提现申请
func (r *GormInfluencerRepository) HasPendingWithdrawal(influencerID uint) (bool, error) {
	if influencerID == 0 {
		return false, nil
	}
	var total int64
	if err := r.db.Model(&models.WithdrawalRequest{}).
		Where("influencer_id = ? AND status = ?", influencerID, constants.WithdrawalStatusPending).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// ListWithdrawals 查询提现申请列表
func (r *GormInfluencerRepository) ListWithdrawals(filter WithdrawalListFilter) ([]models.WithdrawalRequest, int64, error) {
	query := r.db.Model(&models.WithdrawalRequest{}).
		Preload("Influencer").
		Preload("Influencer.User")

	if filter.InfluencerID != 0 {
		query = query.Where("withdrawal_requests.influencer_id = ?", filter.InfluencerID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("withdrawal_requests.status = ?", status)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		like := "%" + keyword + "%"
		query = query.
			Joins("LEFT JOIN influencers i ON i.id = withdrawal_requests.influencer_id").
			Joins("LEFT JOIN users u ON u.id = i.user_id").
			Where("(u.email LIKE ? OR u.first_name LIKE ? OR u.last_name LIKE ?)", like, like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("withdrawal_requests.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("withdrawal_requests.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.WithdrawalRequest
	if err := query.Order("withdrawal_requests.id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
