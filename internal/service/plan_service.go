package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"
)

// PlanService 订阅套餐业务服务
type PlanService struct {
	repo          repository.PlanRepository
	dashboardRepo repository.DashboardRepository
}

// NewPlanService 创建套餐服务
func NewPlanService(repo repository.PlanRepository, dashboardRepo repository.DashboardRepository) *PlanService {
	return &PlanService{repo: repo, dashboardRepo: dashboardRepo}
}

// CreatePlanInput 创建套餐输入
type CreatePlanInput struct {
	Name          string
	Description   string
	Type          string
	Price         decimal.Decimal
	Currency      string
	Features      []string
	StripePriceID string
	TrialDays     int
	SortOrder     int
	Status        string
}

// UpdatePlanInput 更新套餐输入（nil 字段不更新）
type UpdatePlanInput struct {
	Name          *string
	Description   *string
	Type          *string
	Price         *decimal.Decimal
	Currency      *string
	Features      []string
	StripePriceID *string
	TrialDays     *int
	SortOrder     *int
	Status        *string
}

// CreatePlan 创建套餐
func (s *PlanService) CreatePlan(input CreatePlanInput) (*models.SubscriptionPlan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlanInvalid
	}
	planType := strings.TrimSpace(input.Type)
	if !isPlanTypeSupported(planType) {
		return nil, ErrPlanInvalid
	}
	price := input.Price.Round(2)
	if price.IsNegative() {
		return nil, ErrPlanInvalid
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.PlanStatusActive
	}
	if !isPlanStatusSupported(status) {
		return nil, ErrPlanInvalid
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "usd"
	}
	trialDays := input.TrialDays
	if trialDays < 0 {
		trialDays = 0
	}

	plan := &models.SubscriptionPlan{
		Name:          name,
		Description:   strings.TrimSpace(input.Description),
		Type:          planType,
		Price:         models.NewMoneyFromDecimal(price),
		Currency:      currency,
		Features:      normalizePlanFeatures(input.Features),
		StripePriceID: strings.TrimSpace(input.StripePriceID),
		TrialDays:     trialDays,
		SortOrder:     input.SortOrder,
		Status:        status,
	}
	if err := s.repo.Create(plan); err != nil {
		return nil, err
	}
	return s.repo.GetByID(plan.ID)
}

// UpdatePlan 更新套餐
func (s *PlanService) UpdatePlan(id uint, input UpdatePlanInput) (*models.SubscriptionPlan, error) {
	plan, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrPlanInvalid
		}
		plan.Name = name
	}
	if input.Description != nil {
		plan.Description = strings.TrimSpace(*input.Description)
	}
	if input.Type != nil {
		planType := strings.TrimSpace(*input.Type)
		if !isPlanTypeSupported(planType) {
			return nil, ErrPlanInvalid
		}
		plan.Type = planType
	}
	if input.Price != nil {
		price := input.Price.Round(2)
		if price.IsNegative() {
			return nil, ErrPlanInvalid
		}
		plan.Price = models.NewMoneyFromDecimal(price)
	}
	if input.Currency != nil {
		currency := strings.ToLower(strings.TrimSpace(*input.Currency))
		if currency == "" {
			currency = "usd"
		}
		plan.Currency = currency
	}
	if input.Features != nil {
		plan.Features = normalizePlanFeatures(input.Features)
	}
	if input.StripePriceID != nil {
		plan.StripePriceID = strings.TrimSpace(*input.StripePriceID)
	}
	if input.TrialDays != nil {
		trialDays := *input.TrialDays
		if trialDays < 0 {
			trialDays = 0
		}
		plan.TrialDays = trialDays
	}
	if input.SortOrder != nil {
		plan.SortOrder = *input.SortOrder
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !isPlanStatusSupported(status) {
			return nil, ErrPlanInvalid
		}
		plan.Status = status
	}

	if err := s.repo.Update(plan); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// DeletePlan 删除套餐（软删除）
func (s *PlanService) DeletePlan(id uint) error {
	plan, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if plan == nil {
		return ErrPlanNotFound
	}
	return s.repo.Delete(id)
}

// GetPlan 查询套餐详情
func (s *PlanService) GetPlan(id uint) (*models.SubscriptionPlan, error) {
	plan, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// GetActivePlan 查询可售套餐（下单前校验）
func (s *PlanService) GetActivePlan(id uint) (*models.SubscriptionPlan, error) {
	plan, err := s.GetPlan(id)
	if err != nil {
		return nil, err
	}
	if plan.Status != constants.PlanStatusActive {
		return nil, ErrPlanUnavailable
	}
	return plan, nil
}

// ListPlans 查询套餐列表
func (s *PlanService) ListPlans(filter repository.PlanListFilter) ([]models.SubscriptionPlan, int64, error) {
	return s.repo.List(filter)
}

// PlanStats 套餐统计数据
type PlanStats struct {
	PlanID        uint         `json:"plan_id"`
	Name          string       `json:"name"`
	PaidPurchases int64        `json:"paid_purchases"`
	PaidAmount    models.Money `json:"paid_amount"`
}

// GetPlanStats 统计各套餐的成交情况
func (s *PlanService) GetPlanStats(startAt, endAt time.Time, limit int) ([]PlanStats, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.dashboardRepo.GetTopPlans(startAt, endAt, limit)
	if err != nil {
		return nil, err
	}
	result := make([]PlanStats, 0, len(rows))
	for _, row := range rows {
		result = append(result, PlanStats{
			PlanID:        row.PlanID,
			Name:          row.Name,
			PaidPurchases: row.PaidPurchases,
			PaidAmount:    models.NewMoneyFromFloat(row.PaidAmount),
		})
	}
	return result, nil
}

// ListActivePlans 查询全部可售套餐（公开接口）
func (s *PlanService) ListActivePlans() ([]models.SubscriptionPlan, error) {
	rows, _, err := s.repo.List(repository.PlanListFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func isPlanTypeSupported(planType string) bool {
	switch planType {
	case constants.PlanTypeMonthly,
		constants.PlanTypeQuarterly,
		constants.PlanTypeYearly,
		constants.PlanTypeLifetime:
		return true
	default:
		return false
	}
}

func isPlanStatusSupported(status string) bool {
	switch status {
	case constants.PlanStatusActive,
		constants.PlanStatusInactive,
		constants.PlanStatusArchived:
		return true
	default:
		return false
	}
}

func normalizePlanFeatures(features []string) models.StringArray {
	result := make(models.StringArray, 0, len(features))
	for _, feature := range features {
		text := strings.TrimSpace(feature)
		if text == "" {
			continue
		}
		result = append(result, text)
	}
	return result
}
