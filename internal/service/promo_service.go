package service

import (
	"strings"
	"time"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoService 优惠码计算与核销服务
type PromoService struct {
	promoRepo repository.PromoCodeRepository
}

// NewPromoService 创建优惠码服务
func NewPromoService(promoRepo repository.PromoCodeRepository) *PromoService {
	return &PromoService{promoRepo: promoRepo}
}

// PromoEvaluation 优惠码评估结果
type PromoEvaluation struct {
	PromoCode      *models.PromoCode `json:"promo_code"`
	OriginalAmount models.Money      `json:"original_amount"`
	DiscountAmount models.Money      `json:"discount_amount"`
	FinalAmount    models.Money      `json:"final_amount"`
}

// Evaluate 计算优惠码折扣，不消耗使用次数
func (s *PromoService) Evaluate(code string, orderAmount models.Money) (*PromoEvaluation, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrPromoCodeNotFound
	}

	promo, err := s.promoRepo.GetByCode(trimmed)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoCodeNotFound
	}

	if err := s.checkRedeemable(promo, orderAmount); err != nil {
		return nil, err
	}

	discount := s.calculateDiscount(promo, orderAmount)
	final := orderAmount.Decimal.Sub(discount.Decimal)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return &PromoEvaluation{
		PromoCode:      promo,
		OriginalAmount: models.NewMoneyFromDecimal(orderAmount.Decimal.Round(2)),
		DiscountAmount: discount,
		FinalAmount:    models.NewMoneyFromDecimal(final.Round(2)),
	}, nil
}

// Redeem 评估并消耗一次使用次数。
// 使用次数通过带上限条件的原子 UPDATE 递增，并发下超额的请求会在此失败。
func (s *PromoService) Redeem(code string, orderAmount models.Money) (*PromoEvaluation, error) {
	evaluation, err := s.Evaluate(code, orderAmount)
	if err != nil {
		return nil, err
	}

	ok, err := s.promoRepo.TryIncrementUsedCount(evaluation.PromoCode.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPromoCodeUsageLimit
	}
	evaluation.PromoCode.UsedCount++
	return evaluation, nil
}

// Release 回退一次使用次数（下单失败或退款补偿）
func (s *PromoService) Release(promoCodeID uint) error {
	return s.promoRepo.DecrementUsedCount(promoCodeID)
}

func (s *PromoService) checkRedeemable(promo *models.PromoCode, orderAmount models.Money) error {
	if strings.ToLower(promo.Status) != constants.PromoCodeStatusActive {
		return ErrPromoCodeInactive
	}
	if promo.ExpiresAt != nil && time.Now().After(*promo.ExpiresAt) {
		return ErrPromoCodeExpired
	}
	if promo.UsageLimit > 0 && promo.UsedCount >= promo.UsageLimit {
		return ErrPromoCodeUsageLimit
	}
	if promo.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) &&
		orderAmount.Decimal.LessThan(promo.MinOrderAmount.Decimal) {
		return ErrPromoCodeMinOrder
	}
	return nil
}

func (s *PromoService) calculateDiscount(promo *models.PromoCode, orderAmount models.Money) models.Money {
	var discount decimal.Decimal
	switch strings.ToLower(strings.TrimSpace(promo.Type)) {
	case constants.PromoCodeTypePercentage:
		percent := promo.Value.Decimal.Div(decimal.NewFromInt(100))
		discount = orderAmount.Decimal.Mul(percent)
		if promo.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(promo.MaxDiscount.Decimal) {
			discount = promo.MaxDiscount.Decimal
		}
	case constants.PromoCodeTypeFixedAmount:
		discount = promo.Value.Decimal
	default:
		discount = decimal.Zero
	}
	// 折扣不超过订单金额
	if discount.GreaterThan(orderAmount.Decimal) {
		discount = orderAmount.Decimal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(discount.Round(2))
}
