package repository

import (
	"errors"
	"strings"

	"github.com/coachpanel/internal/models"

	"gorm.io/gorm"
)

// EmailTemplateRepository 邮件模板数据访问接口
type EmailTemplateRepository interface {
	GetByID(id uint) (*models.EmailTemplate, error)
	GetByType(templateType string) (*models.EmailTemplate, error)
	Create(template *models.EmailTemplate) error
	Update(template *models.EmailTemplate) error
	Delete(id uint) error
	List(filter EmailTemplateListFilter) ([]models.EmailTemplate, int64, error)
}

// GormEmailTemplateRepository GORM 实现
type GormEmailTemplateRepository struct {
	db *gorm.DB
}

// NewEmailTemplateRepository 创建邮件模板仓库
func NewEmailTemplateRepository(db *gorm.DB) *GormEmailTemplateRepository {
	return &GormEmailTemplateRepository{db: db}
}

// GetByID 按ID获取模板
func (r *GormEmailTemplateRepository) GetByID(id uint) (*models.EmailTemplate, error) {
	if id == 0 {
		return nil, nil
	}
	var template models.EmailTemplate
	if err := r.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// GetByType 按类型获取模板
func (r *GormEmailTemplateRepository) GetByType(templateType string) (*models.EmailTemplate, error) {
	normalized := strings.TrimSpace(templateType)
	if normalized == "" {
		return nil, nil
	}
	var template models.EmailTemplate
	if err := r.db.Where("type = ?", normalized).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// Create 创建模板
func (r *GormEmailTemplateRepository) Create(template *models.EmailTemplate) error {
	return r.db.Create(template).Error
}

// Update 更新模板
func (r *GormEmailTemplateRepository) Update(template *models.EmailTemplate) error {
	return r.db.Save(template).Error
}

// Delete 删除模板（软删除）
func (r *GormEmailTemplateRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.EmailTemplate{}, id).Error
}

// List 模板列表
func (r *GormEmailTemplateRepository) List(filter EmailTemplateListFilter) ([]models.EmailTemplate, int64, error) {
	query := r.db.Model(&models.EmailTemplate{})

	if templateType := strings.TrimSpace(filter.Type); templateType != "" {
		query = query.Where("type = ?", templateType)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR subject LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var templates []models.EmailTemplate
	if err := query.Order("id ASC").Find(&templates).Error; err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}
