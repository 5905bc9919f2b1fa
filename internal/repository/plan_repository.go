package repository

import (
	"errors"
	"strings"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"

	"gorm.io/gorm"
)

// PlanRepository 订阅套餐数据访问接口
type PlanRepository interface {
	GetByID(id uint) (*models.SubscriptionPlan, error)
	ListByIDs(ids []uint) ([]models.SubscriptionPlan, error)
	Create(plan *models.SubscriptionPlan) error
	Update(plan *models.SubscriptionPlan) error
	Delete(id uint) error
	List(filter PlanListFilter) ([]models.SubscriptionPlan, int64, error)
}

// GormPlanRepository GORM 实现
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建订阅套餐仓库
func NewPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// GetByID 根据 ID 获取套餐
func (r *GormPlanRepository) GetByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ListByIDs 批量获取套餐
func (r *GormPlanRepository) ListByIDs(ids []uint) ([]models.SubscriptionPlan, error) {
	if len(ids) == 0 {
		return []models.SubscriptionPlan{}, nil
	}
	var plans []models.SubscriptionPlan
	if err := r.db.Where("id IN ?", ids).Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Create 创建套餐
func (r *GormPlanRepository) Create(plan *models.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

// Update 更新套餐
func (r *GormPlanRepository) Update(plan *models.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}

// Delete 删除套餐（软删除）
func (r *GormPlanRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.SubscriptionPlan{}, id).Error
}

// List 套餐列表
func (r *GormPlanRepository) List(filter PlanListFilter) ([]models.SubscriptionPlan, int64, error) {
	query := r.db.Model(&models.SubscriptionPlan{})

	if planType := strings.TrimSpace(filter.Type); planType != "" {
		query = query.Where("type = ?", planType)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.PlanStatusActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var plans []models.SubscriptionPlan
	if err := query.Order("sort_order ASC, id ASC").Find(&plans).Error; err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}
