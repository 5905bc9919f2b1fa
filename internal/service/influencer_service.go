package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/repository"
)

// InfluencerService 达人与佣金业务服务
type InfluencerService struct {
	repo           repository.InfluencerRepository
	userRepo       repository.UserRepository
	purchaseRepo   repository.PurchaseRepository
	settingService *SettingService
}

// NewInfluencerService 创建达人服务
func NewInfluencerService(
	repo repository.InfluencerRepository,
	userRepo repository.UserRepository,
	purchaseRepo repository.PurchaseRepository,
	settingService *SettingService,
) *InfluencerService {
	return &InfluencerService{
		repo:           repo,
		userRepo:       userRepo,
		purchaseRepo:   purchaseRepo,
		settingService: settingService,
	}
}

// CreateInfluencerInput 创建达人输入
type CreateInfluencerInput struct {
	UserID          uint
	CommissionRate  *float64
	Status          string
	StripeAccountID string
	Notes           string
}

// UpdateInfluencerInput 更新达人输入（nil 字段不更新）
type UpdateInfluencerInput struct {
	CommissionRate  *float64
	Status          *string
	StripeAccountID *string
	Notes           *string
}

// InfluencerStats 达人统计数据
type InfluencerStats struct {
	ReferredPurchaseCount int64        `json:"referred_purchase_count"`
	PendingCommission     models.Money `json:"pending_commission"`
	ApprovedCommission    models.Money `json:"approved_commission"`
	PaidCommission        models.Money `json:"paid_commission"`
	AverageCommission     models.Money `json:"average_commission"`
}

// InfluencerAdminItem 后台达人列表项
type InfluencerAdminItem struct {
	Influencer models.Influencer `json:"influencer"`
	Stats      InfluencerStats   `json:"stats"`
}

// InfluencerDashboard 达人个人中心数据
type InfluencerDashboard struct {
	Opened                bool         `json:"opened"`
	Status                string       `json:"status"`
	CommissionRate        models.Money `json:"commission_rate"`
	TotalEarnings         models.Money `json:"total_earnings"`
	AvailableBalance      models.Money `json:"available_balance"`
	TotalWithdrawn        models.Money `json:"total_withdrawn"`
	MinWithdrawAmount     float64      `json:"min_withdraw_amount"`
	ReferredPurchaseCount int64        `json:"referred_purchase_count"`
	PendingCommission     models.Money `json:"pending_commission"`
	ApprovedCommission    models.Money `json:"approved_commission"`
	PaidCommission        models.Money `json:"paid_commission"`
}

// CreateInfluencer 管理端创建达人
func (s *InfluencerService) CreateInfluencer(input CreateInfluencerInput) (*models.Influencer, error) {
	if input.UserID == 0 {
		return nil, ErrUserNotFound
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if strings.TrimSpace(user.Status) == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}

	existing, err := s.repo.GetByUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInfluencerExists
	}

	rate, err := s.resolveCommissionRate(input.CommissionRate)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.InfluencerStatusPending
	}
	if !isInfluencerStatusSupported(status) {
		return nil, ErrInfluencerStatusInvalid
	}

	influencer := &models.Influencer{
		UserID:           input.UserID,
		CommissionRate:   models.NewMoneyFromDecimal(rate),
		TotalEarnings:    models.NewMoneyFromDecimal(decimal.Zero),
		AvailableBalance: models.NewMoneyFromDecimal(decimal.Zero),
		TotalWithdrawn:   models.NewMoneyFromDecimal(decimal.Zero),
		Status:           status,
		StripeAccountID:  strings.TrimSpace(input.StripeAccountID),
		Notes:            strings.TrimSpace(input.Notes),
	}
	if err := s.repo.Create(influencer); err != nil {
		return nil, err
	}
	return s.repo.GetByID(influencer.ID)
}

// UpdateInfluencer 管理端更新达人资料
func (s *InfluencerService) UpdateInfluencer(id uint, input UpdateInfluencerInput) (*models.Influencer, error) {
	influencer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if influencer == nil {
		return nil, ErrInfluencerNotFound
	}

	if input.CommissionRate != nil {
		rate := decimal.NewFromFloat(*input.CommissionRate).Round(2)
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, ErrCommissionRateInvalid
		}
		influencer.CommissionRate = models.NewMoneyFromDecimal(rate)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !isInfluencerStatusSupported(status) {
			return nil, ErrInfluencerStatusInvalid
		}
		influencer.Status = status
	}
	if input.StripeAccountID != nil {
		influencer.StripeAccountID = strings.TrimSpace(*input.StripeAccountID)
	}
	if input.Notes != nil {
		influencer.Notes = strings.TrimSpace(*input.Notes)
	}

	if err := s.repo.Update(influencer); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// UpdateInfluencerStatus 管理端更新达人状态
func (s *InfluencerService) UpdateInfluencerStatus(id uint, rawStatus string) (*models.Influencer, error) {
	nextStatus := strings.TrimSpace(rawStatus)
	if !isInfluencerStatusSupported(nextStatus) {
		return nil, ErrInfluencerStatusInvalid
	}

	influencer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if influencer == nil {
		return nil, ErrInfluencerNotFound
	}
	if strings.TrimSpace(influencer.Status) == nextStatus {
		return influencer, nil
	}

	influencer.Status = nextStatus
	if err := s.repo.Update(influencer); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// GetInfluencer 查询达人详情及统计
func (s *InfluencerService) GetInfluencer(id uint) (*models.Influencer, InfluencerStats, error) {
	influencer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, emptyInfluencerStats(), err
	}
	if influencer == nil {
		return nil, emptyInfluencerStats(), ErrInfluencerNotFound
	}

	statsMap, err := s.repo.GetStatsBatch([]uint{id})
	if err != nil {
		return nil, emptyInfluencerStats(), err
	}
	return influencer, buildInfluencerStats(statsMap[id]), nil
}

// GetInfluencerByUserID 按用户查询达人
func (s *InfluencerService) GetInfluencerByUserID(userID uint) (*models.Influencer, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.repo.GetByUserID(userID)
}

// ListInfluencers 后台查询达人列表
func (s *InfluencerService) ListInfluencers(filter repository.InfluencerListFilter) ([]InfluencerAdminItem, int64, error) {
	rows, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		if row.ID == 0 {
			continue
		}
		ids = append(ids, row.ID)
	}
	statsMap, err := s.repo.GetStatsBatch(ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]InfluencerAdminItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, InfluencerAdminItem{
			Influencer: row,
			Stats:      buildInfluencerStats(statsMap[row.ID]),
		})
	}
	return result, total, nil
}

// AccrueCommission 对已完成的归因订单计提佣金（一单一佣，幂等）
func (s *InfluencerService) AccrueCommission(purchaseID uint) (*models.Commission, error) {
	if purchaseID == 0 {
		return nil, nil
	}

	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil || purchase.Status != constants.PurchaseStatusCompleted {
		return nil, nil
	}
	if purchase.InfluencerID == nil || *purchase.InfluencerID == 0 {
		return nil, nil
	}

	influencer, err := s.repo.GetByID(*purchase.InfluencerID)
	if err != nil {
		return nil, err
	}
	if influencer == nil || strings.TrimSpace(influencer.Status) != constants.InfluencerStatusActive {
		return nil, nil
	}
	if purchase.UserID > 0 && influencer.UserID == purchase.UserID {
		// 自购不计提
		return nil, nil
	}

	existing, err := s.repo.GetCommissionByPurchaseID(purchaseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	baseAmount := purchase.FinalPrice.Decimal.Round(2)
	if baseAmount.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}
	rate := influencer.CommissionRate.Decimal.Round(2)
	commissionAmount := baseAmount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	if commissionAmount.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}

	var createdID uint
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)

		duplicated, err := repoTx.GetCommissionByPurchaseID(purchaseID)
		if err != nil {
			return err
		}
		if duplicated != nil {
			createdID = duplicated.ID
			return nil
		}

		locked, err := repoTx.GetByIDForUpdate(influencer.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrInfluencerNotFound
		}

		commission := &models.Commission{
			InfluencerID:       locked.ID,
			PurchaseID:         purchaseID,
			SubscriptionAmount: models.NewMoneyFromDecimal(baseAmount),
			CommissionRate:     models.NewMoneyFromDecimal(rate),
			CommissionAmount:   models.NewMoneyFromDecimal(commissionAmount),
			Status:             constants.CommissionStatusPending,
		}
		if err := repoTx.CreateCommission(commission); err != nil {
			return err
		}

		locked.TotalEarnings = models.NewMoneyFromDecimal(
			locked.TotalEarnings.Decimal.Add(commissionAmount).Round(2))
		if err := repoTx.Update(locked); err != nil {
			return err
		}
		createdID = commission.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetCommissionByID(createdID)
}

// UpdateCommissionStatus 管理端流转佣金状态
func (s *InfluencerService) UpdateCommissionStatus(id uint, rawStatus, notes string) (*models.Commission, error) {
	nextStatus := strings.TrimSpace(rawStatus)
	if nextStatus != constants.CommissionStatusApproved &&
		nextStatus != constants.CommissionStatusPaid &&
		nextStatus != constants.CommissionStatusCancelled {
		return nil, ErrInvalidStateTransition
	}
	notes = strings.TrimSpace(notes)

	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		commission, err := repoTx.GetCommissionByIDForUpdate(id)
		if err != nil {
			return err
		}
		if commission == nil {
			return ErrCommissionNotFound
		}
		if !canTransitionCommission(commission.Status, nextStatus) {
			return ErrInvalidStateTransition
		}

		now := time.Now()
		if nextStatus == constants.CommissionStatusPaid {
			influencer, err := repoTx.GetByIDForUpdate(commission.InfluencerID)
			if err != nil {
				return err
			}
			if influencer == nil {
				return ErrInfluencerNotFound
			}
			influencer.AvailableBalance = models.NewMoneyFromDecimal(
				influencer.AvailableBalance.Decimal.Add(commission.CommissionAmount.Decimal).Round(2))
			if err := repoTx.Update(influencer); err != nil {
				return err
			}
			commission.PaidAt = &now
		}

		commission.Status = nextStatus
		if notes != "" {
			commission.Notes = notes
		}
		return repoTx.UpdateCommission(commission)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetCommissionByID(id)
}

// PayApprovedCommissions 批量结算达人全部已确认佣金
func (s *InfluencerService) PayApprovedCommissions(influencerID uint, payoutID *uint, notes string) (int64, error) {
	if influencerID == 0 {
		return 0, ErrInfluencerNotFound
	}
	notes = strings.TrimSpace(notes)

	var settled int64
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		influencer, err := repoTx.GetByIDForUpdate(influencerID)
		if err != nil {
			return err
		}
		if influencer == nil {
			return ErrInfluencerNotFound
		}

		commissions, err := repoTx.ListApprovedCommissionsForUpdate(influencerID)
		if err != nil {
			return err
		}
		if len(commissions) == 0 {
			return nil
		}

		total := decimal.Zero
		ids := make([]uint, 0, len(commissions))
		for _, commission := range commissions {
			ids = append(ids, commission.ID)
			total = total.Add(commission.CommissionAmount.Decimal).Round(2)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     constants.CommissionStatusPaid,
			"paid_at":    now,
			"updated_at": now,
		}
		if payoutID != nil && *payoutID > 0 {
			updates["payout_id"] = *payoutID
		}
		if notes != "" {
			updates["notes"] = notes
		}
		if err := repoTx.BatchUpdateCommissions(ids, updates); err != nil {
			return err
		}

		influencer.AvailableBalance = models.NewMoneyFromDecimal(
			influencer.AvailableBalance.Decimal.Add(total).Round(2))
		if err := repoTx.Update(influencer); err != nil {
			return err
		}
		settled = int64(len(ids))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return settled, nil
}

// AutoApproveCommissions 将超过确认期的待确认佣金批量置为已确认
func (s *InfluencerService) AutoApproveCommissions(now time.Time) (int64, error) {
	setting, err := s.settingService.GetInfluencerSetting()
	if err != nil {
		return 0, err
	}
	if setting.AutoApproveDays <= 0 {
		return 0, nil
	}
	before := now.Add(-time.Duration(setting.AutoApproveDays) * 24 * time.Hour)
	return s.repo.AutoApprovePendingCommissions(before)
}

// GetCommission 查询佣金详情
func (s *InfluencerService) GetCommission(id uint) (*models.Commission, error) {
	commission, err := s.repo.GetCommissionByID(id)
	if err != nil {
		return nil, err
	}
	if commission == nil {
		return nil, ErrCommissionNotFound
	}
	return commission, nil
}

// ListCommissions 后台查询佣金记录
func (s *InfluencerService) ListCommissions(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.repo.ListCommissions(filter)
}

// ApplyWithdrawal 达人提交提现申请（申请阶段不动余额）
func (s *InfluencerService) ApplyWithdrawal(userID uint, amount decimal.Decimal, notes string) (*models.WithdrawalRequest, error) {
	if userID == 0 {
		return nil, ErrInfluencerNotFound
	}

	setting, err := s.settingService.GetInfluencerSetting()
	if err != nil {
		return nil, err
	}

	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrWithdrawalInvalid
	}
	minAmount := decimal.NewFromFloat(setting.MinWithdrawAmount).Round(2)
	if amount.LessThan(minAmount) {
		return nil, ErrWithdrawalBelowMinimum
	}

	var createdID uint
	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		profile, err := repoTx.GetByUserID(userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return ErrInfluencerNotFound
		}
		if strings.TrimSpace(profile.Status) != constants.InfluencerStatusActive {
			return ErrInfluencerInactive
		}

		locked, err := repoTx.GetByIDForUpdate(profile.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrInfluencerNotFound
		}

		pending, err := repoTx.HasPendingWithdrawal(locked.ID)
		if err != nil {
			return err
		}
		if pending {
			return ErrWithdrawalPending
		}
		if amount.GreaterThan(locked.AvailableBalance.Decimal.Round(2)) {
			return ErrInsufficientBalance
		}

		req := &models.WithdrawalRequest{
			InfluencerID: locked.ID,
			Amount:       models.NewMoneyFromDecimal(amount),
			Status:       constants.WithdrawalStatusPending,
			Notes:        strings.TrimSpace(notes),
			RequestedAt:  time.Now(),
		}
		if err := repoTx.CreateWithdrawal(req); err != nil {
			return err
		}
		createdID = req.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetWithdrawalByID(createdID)
}

// ReviewWithdrawal 管理端结算提现申请
func (s *InfluencerService) ReviewWithdrawal(adminID, withdrawalID uint, outcome, payoutRef, notes string) (*models.WithdrawalRequest, error) {
	if withdrawalID == 0 {
		return nil, ErrWithdrawalNotFound
	}
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	if outcome != constants.WithdrawalStatusPaid && outcome != constants.WithdrawalStatusRejected {
		return nil, ErrWithdrawalInvalid
	}
	payoutRef = strings.TrimSpace(payoutRef)
	notes = strings.TrimSpace(notes)

	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		req, err := repoTx.GetWithdrawalByIDForUpdate(withdrawalID)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrWithdrawalNotFound
		}
		if req.Status != constants.WithdrawalStatusPending {
			return ErrWithdrawalProcessed
		}

		now := time.Now()
		req.ProcessedBy = &adminID
		req.ProcessedAt = &now
		if notes != "" {
			req.Notes = notes
		}

		if outcome == constants.WithdrawalStatusPaid {
			influencer, err := repoTx.GetByIDForUpdate(req.InfluencerID)
			if err != nil {
				return err
			}
			if influencer == nil {
				return ErrInfluencerNotFound
			}
			amount := req.Amount.Decimal.Round(2)
			balance := influencer.AvailableBalance.Decimal.Round(2)
			if amount.GreaterThan(balance) {
				return ErrInsufficientBalance
			}
			influencer.AvailableBalance = models.NewMoneyFromDecimal(balance.Sub(amount).Round(2))
			influencer.TotalWithdrawn = models.NewMoneyFromDecimal(
				influencer.TotalWithdrawn.Decimal.Add(amount).Round(2))
			if err := repoTx.Update(influencer); err != nil {
				return err
			}
			req.Status = constants.WithdrawalStatusPaid
			req.PayoutRef = payoutRef
		} else {
			req.Status = constants.WithdrawalStatusRejected
		}
		return repoTx.UpdateWithdrawal(req)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetWithdrawalByID(withdrawalID)
}

// GetWithdrawal 查询提现申请详情
func (s *InfluencerService) GetWithdrawal(id uint) (*models.WithdrawalRequest, error) {
	req, err := s.repo.GetWithdrawalByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrWithdrawalNotFound
	}
	return req, nil
}

// ListWithdrawals 后台查询提现申请列表
func (s *InfluencerService) ListWithdrawals(filter repository.WithdrawalListFilter) ([]models.WithdrawalRequest, int64, error) {
	return s.repo.ListWithdrawals(filter)
}

// GetUserDashboard 获取达人个人中心数据
func (s *InfluencerService) GetUserDashboard(userID uint) (InfluencerDashboard, error) {
	dashboard := InfluencerDashboard{
		CommissionRate:     models.NewMoneyFromDecimal(decimal.Zero),
		TotalEarnings:      models.NewMoneyFromDecimal(decimal.Zero),
		AvailableBalance:   models.NewMoneyFromDecimal(decimal.Zero),
		TotalWithdrawn:     models.NewMoneyFromDecimal(decimal.Zero),
		PendingCommission:  models.NewMoneyFromDecimal(decimal.Zero),
		ApprovedCommission: models.NewMoneyFromDecimal(decimal.Zero),
		PaidCommission:     models.NewMoneyFromDecimal(decimal.Zero),
	}
	if userID == 0 {
		return dashboard, nil
	}

	setting, err := s.settingService.GetInfluencerSetting()
	if err != nil {
		return dashboard, err
	}
	dashboard.MinWithdrawAmount = setting.MinWithdrawAmount

	influencer, err := s.repo.GetByUserID(userID)
	if err != nil {
		return dashboard, err
	}
	if influencer == nil {
		return dashboard, nil
	}

	statsMap, err := s.repo.GetStatsBatch([]uint{influencer.ID})
	if err != nil {
		return dashboard, err
	}
	stats := buildInfluencerStats(statsMap[influencer.ID])

	dashboard.Opened = true
	dashboard.Status = influencer.Status
	dashboard.CommissionRate = influencer.CommissionRate
	dashboard.TotalEarnings = influencer.TotalEarnings
	dashboard.AvailableBalance = influencer.AvailableBalance
	dashboard.TotalWithdrawn = influencer.TotalWithdrawn
	dashboard.ReferredPurchaseCount = stats.ReferredPurchaseCount
	dashboard.PendingCommission = stats.PendingCommission
	dashboard.ApprovedCommission = stats.ApprovedCommission
	dashboard.PaidCommission = stats.PaidCommission
	return dashboard, nil
}

// ListUserCommissions 查询达人自己的佣金记录
func (s *InfluencerService) ListUserCommissions(userID uint, page, pageSize int, status string) ([]models.Commission, int64, error) {
	influencer, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if influencer == nil {
		return []models.Commission{}, 0, nil
	}
	return s.repo.ListCommissions(repository.CommissionListFilter{
		Page:         page,
		PageSize:     pageSize,
		InfluencerID: influencer.ID,
		Status:       strings.TrimSpace(status),
	})
}

// ListUserWithdrawals 查询达人自己的提现记录
func (s *InfluencerService) ListUserWithdrawals(userID uint, page, pageSize int, status string) ([]models.WithdrawalRequest, int64, error) {
	influencer, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if influencer == nil {
		return []models.WithdrawalRequest{}, 0, nil
	}
	return s.repo.ListWithdrawals(repository.WithdrawalListFilter{
		Page:         page,
		PageSize:     pageSize,
		InfluencerID: influencer.ID,
		Status:       strings.TrimSpace(status),
	})
}

func (s *InfluencerService) resolveCommissionRate(raw *float64) (decimal.Decimal, error) {
	if raw == nil {
		setting, err := s.settingService.GetInfluencerSetting()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat(setting.DefaultCommissionRate).Round(2), nil
	}
	rate := decimal.NewFromFloat(*raw).Round(2)
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, ErrCommissionRateInvalid
	}
	return rate, nil
}

// canTransitionCommission 佣金状态机：pending→approved→paid，pending/approved→cancelled
func canTransitionCommission(current, next string) bool {
	switch current {
	case constants.CommissionStatusPending:
		return next == constants.CommissionStatusApproved || next == constants.CommissionStatusCancelled
	case constants.CommissionStatusApproved:
		return next == constants.CommissionStatusPaid || next == constants.CommissionStatusCancelled
	default:
		return false
	}
}

func isInfluencerStatusSupported(status string) bool {
	switch status {
	case constants.InfluencerStatusPending,
		constants.InfluencerStatusActive,
		constants.InfluencerStatusInactive,
		constants.InfluencerStatusSuspended:
		return true
	default:
		return false
	}
}

func buildInfluencerStats(agg repository.InfluencerStatsAggregate) InfluencerStats {
	stats := InfluencerStats{
		ReferredPurchaseCount: agg.ReferredPurchaseCount,
		PendingCommission:     models.NewMoneyFromDecimal(agg.PendingCommission.Round(2)),
		ApprovedCommission:    models.NewMoneyFromDecimal(agg.ApprovedCommission.Round(2)),
		PaidCommission:        models.NewMoneyFromDecimal(agg.PaidCommission.Round(2)),
		AverageCommission:     models.NewMoneyFromDecimal(decimal.Zero),
	}
	if agg.ReferredPurchaseCount > 0 {
		total := agg.PendingCommission.Add(agg.ApprovedCommission).Add(agg.PaidCommission)
		stats.AverageCommission = models.NewMoneyFromDecimal(
			total.Div(decimal.NewFromInt(agg.ReferredPurchaseCount)).Round(2))
	}
	return stats
}

func emptyInfluencerStats() InfluencerStats {
	return InfluencerStats{
		PendingCommission:  models.NewMoneyFromDecimal(decimal.Zero),
		ApprovedCommission: models.NewMoneyFromDecimal(decimal.Zero),
		PaidCommission:     models.NewMoneyFromDecimal(decimal.Zero),
		AverageCommission:  models.NewMoneyFromDecimal(decimal.Zero),
	}
}
