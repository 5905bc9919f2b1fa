package service

import (
	"strings"
	"time"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoAdminService 优惠码管理服务
type PromoAdminService struct {
	promoRepo      repository.PromoCodeRepository
	influencerRepo repository.InfluencerRepository
}

// NewPromoAdminService 创建优惠码管理服务
func NewPromoAdminService(promoRepo repository.PromoCodeRepository, influencerRepo repository.InfluencerRepository) *PromoAdminService {
	return &PromoAdminService{
		promoRepo:      promoRepo,
		influencerRepo: influencerRepo,
	}
}

// CreatePromoCodeInput 创建优惠码输入
type CreatePromoCodeInput struct {
	Code           string
	Description    string
	InfluencerID   *uint
	Type           string
	Value          models.Money
	MaxDiscount    models.Money
	MinOrderAmount models.Money
	UsageLimit     int
	Status         string
	ExpiresAt      *time.Time
}

// UpdatePromoCodeInput 更新优惠码输入
type UpdatePromoCodeInput struct {
	Description    *string
	InfluencerID   *uint
	Type           *string
	Value          *models.Money
	MaxDiscount    *models.Money
	MinOrderAmount *models.Money
	UsageLimit     *int
	Status         *string
	ExpiresAt      *time.Time
	ClearExpiresAt bool
}

// Create 创建优惠码
func (s *PromoAdminService) Create(input CreatePromoCodeInput) (*models.PromoCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrPromoCodeValueInvalid
	}
	if err := validatePromoValue(input.Type, input.Value); err != nil {
		return nil, err
	}

	exist, err := s.promoRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrPromoCodeExists
	}

	if input.InfluencerID != nil && *input.InfluencerID != 0 {
		influencer, err := s.influencerRepo.GetByID(*input.InfluencerID)
		if err != nil {
			return nil, err
		}
		if influencer == nil {
			return nil, ErrInfluencerNotFound
		}
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = constants.PromoCodeStatusActive
	}
	if !isPromoStatusSupported(status) {
		return nil, ErrPromoCodeValueInvalid
	}

	promo := &models.PromoCode{
		Code:           code,
		Description:    strings.TrimSpace(input.Description),
		InfluencerID:   input.InfluencerID,
		Type:           strings.ToLower(strings.TrimSpace(input.Type)),
		Value:          input.Value,
		MaxDiscount:    input.MaxDiscount,
		MinOrderAmount: input.MinOrderAmount,
		UsageLimit:     input.UsageLimit,
		UsedCount:      0,
		Status:         status,
		ExpiresAt:      input.ExpiresAt,
	}

	if err := s.promoRepo.Create(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Update 更新优惠码（优惠码本身不可改，保持历史订单可追溯）
func (s *PromoAdminService) Update(id uint, input UpdatePromoCodeInput) (*models.PromoCode, error) {
	if id == 0 {
		return nil, ErrPromoCodeNotFound
	}
	promo, err := s.promoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoCodeNotFound
	}

	if input.Type != nil {
		value := promo.Value
		if input.Value != nil {
			value = *input.Value
		}
		if err := validatePromoValue(*input.Type, value); err != nil {
			return nil, err
		}
		promo.Type = strings.ToLower(strings.TrimSpace(*input.Type))
	}
	if input.Value != nil {
		if err := validatePromoValue(promo.Type, *input.Value); err != nil {
			return nil, err
		}
		promo.Value = *input.Value
	}
	if input.Description != nil {
		promo.Description = strings.TrimSpace(*input.Description)
	}
	if input.InfluencerID != nil {
		if *input.InfluencerID == 0 {
			promo.InfluencerID = nil
		} else {
			influencer, err := s.influencerRepo.GetByID(*input.InfluencerID)
			if err != nil {
				return nil, err
			}
			if influencer == nil {
				return nil, ErrInfluencerNotFound
			}
			promo.InfluencerID = input.InfluencerID
		}
	}
	if input.MaxDiscount != nil {
		promo.MaxDiscount = *input.MaxDiscount
	}
	if input.MinOrderAmount != nil {
		promo.MinOrderAmount = *input.MinOrderAmount
	}
	if input.UsageLimit != nil {
		if *input.UsageLimit < 0 {
			return nil, ErrPromoCodeValueInvalid
		}
		promo.UsageLimit = *input.UsageLimit
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !isPromoStatusSupported(status) {
			return nil, ErrPromoCodeValueInvalid
		}
		promo.Status = status
	}
	if input.ClearExpiresAt {
		promo.ExpiresAt = nil
	} else if input.ExpiresAt != nil {
		promo.ExpiresAt = input.ExpiresAt
	}

	if err := s.promoRepo.Update(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Delete 删除优惠码
func (s *PromoAdminService) Delete(id uint) error {
	if id == 0 {
		return ErrPromoCodeNotFound
	}
	promo, err := s.promoRepo.GetByID(id)
	if err != nil {
		return err
	}
	if promo == nil {
		return ErrPromoCodeNotFound
	}
	return s.promoRepo.Delete(id)
}

// GetByID 获取优惠码详情
func (s *PromoAdminService) GetByID(id uint) (*models.PromoCode, error) {
	promo, err := s.promoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoCodeNotFound
	}
	return promo, nil
}

// List 优惠码列表
func (s *PromoAdminService) List(filter repository.PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	return s.promoRepo.List(filter)
}

func validatePromoValue(promoType string, value models.Money) error {
	normalized := strings.ToLower(strings.TrimSpace(promoType))
	switch normalized {
	case constants.PromoCodeTypePercentage:
		if value.Decimal.LessThanOrEqual(decimal.Zero) || value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrPromoCodeValueInvalid
		}
	case constants.PromoCodeTypeFixedAmount:
		if value.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrPromoCodeValueInvalid
		}
	default:
		return ErrPromoCodeValueInvalid
	}
	return nil
}

func isPromoStatusSupported(status string) bool {
	switch status {
	case constants.PromoCodeStatusActive, constants.PromoCodeStatusInactive, constants.PromoCodeStatusExpired:
		return true
	default:
		return false
	}
}
