package repository

import (
	"fmt"
	"time"

	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetPurchaseTrends(startAt, endAt time.Time) ([]DashboardPurchaseTrendRow, error)
	GetTopPlans(startAt, endAt time.Time, limit int) ([]DashboardPlanRankingRow, error)
	GetTopPromoCodes(startAt, endAt time.Time, limit int) ([]DashboardPromoCodeRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	PurchasesTotal      int64
	CompletedPurchases  int64
	PendingPurchases    int64
	RefundedPurchases   int64
	RevenuePaid         float64
	DiscountTotal       float64
	NewUsers            int64
	ActivePlans         int64
	ActiveInfluencers   int64
	PendingCommissions  int64
	PendingWithdrawals  int64
	CommissionAccrued   float64
	Currency            string
}

// DashboardPurchaseTrendRow 购买趋势统计
type DashboardPurchaseTrendRow struct {
	Day             string
	PurchasesTotal  int64
	PurchasesPaid   int64
	RevenuePaid     float64
}

// DashboardPlanRankingRow 套餐排行原始行
type DashboardPlanRankingRow struct {
	PlanID        uint
	Name          string
	PaidPurchases int64
	PaidAmount    float64
}

// DashboardPromoCodeRankingRow 优惠码排行原始行
type DashboardPromoCodeRankingRow struct {
	PromoCodeID   uint
	Code          string
	PaidPurchases int64
	DiscountTotal float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	purchaseBase := func() *gorm.DB {
		return r.db.Model(&models.PurchaseRecord{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := purchaseBase().Count(&result.PurchasesTotal).Error; err != nil {
		return result, err
	}
	if err := purchaseBase().Where("status = ?", constants.PurchaseStatusCompleted).Count(&result.CompletedPurchases).Error; err != nil {
		return result, err
	}
	if err := purchaseBase().Where("status = ?", constants.PurchaseStatusPending).Count(&result.PendingPurchases).Error; err != nil {
		return result, err
	}
	if err := purchaseBase().Where("status = ?", constants.PurchaseStatusRefunded).Count(&result.RefundedPurchases).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.PurchaseRecord{}).
		Where("paid_at IS NOT NULL AND paid_at >= ? AND paid_at < ? AND status = ?",
			startAt, endAt, constants.PurchaseStatusCompleted).
		Select("COALESCE(SUM(final_price), 0)").
		Scan(&result.RevenuePaid).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.PurchaseRecord{}).
		Where("paid_at IS NOT NULL AND paid_at >= ? AND paid_at < ? AND status = ?",
			startAt, endAt, constants.PurchaseStatusCompleted).
		Select("COALESCE(SUM(discount_amount), 0)").
		Scan(&result.DiscountTotal).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.SubscriptionPlan{}).
		Where("status = ?", constants.PlanStatusActive).
		Count(&result.ActivePlans).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Influencer{}).
		Where("status = ?", constants.InfluencerStatusActive).
		Count(&result.ActiveInfluencers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Commission{}).
		Where("status = ?", constants.CommissionStatusPending).
		Count(&result.PendingCommissions).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.WithdrawalRequest{}).
		Where("status = ?", constants.WithdrawalStatusPending).
		Count(&result.PendingWithdrawals).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Commission{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?",
			startAt, endAt, constants.CommissionStatusCancelled).
		Select("COALESCE(SUM(commission_amount), 0)").
		Scan(&result.CommissionAccrued).Error; err != nil {
		return result, err
	}

	_ = r.db.Model(&models.PurchaseRecord{}).
		Where("created_at >= ? AND created_at < ? AND currency <> ''", startAt, endAt).
		Order("id DESC").
		Limit(1).
		Pluck("currency", &result.Currency).Error

	return result, nil
}

// GetPurchaseTrends 获取购买趋势
func (r *GormDashboardRepository) GetPurchaseTrends(startAt, endAt time.Time) ([]DashboardPurchaseTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}
	type paidRow struct {
		Day    string
		Paid   int64
		Amount float64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var totals []totalRow
	if err := r.db.Model(&models.PurchaseRecord{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var paids []paidRow
	if err := r.db.Model(&models.PurchaseRecord{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as paid, COALESCE(SUM(final_price), 0) as amount", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND status = ?", startAt, endAt, constants.PurchaseStatusCompleted).
		Group(dayExpr).
		Order("day asc").
		Scan(&paids).Error; err != nil {
		return nil, err
	}

	paidMap := make(map[string]paidRow, len(paids))
	for _, item := range paids {
		paidMap[item.Day] = item
	}

	result := make([]DashboardPurchaseTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, DashboardPurchaseTrendRow{
			Day:            item.Day,
			PurchasesTotal: item.Total,
			PurchasesPaid:  paidMap[item.Day].Paid,
			RevenuePaid:    paidMap[item.Day].Amount,
		})
	}
	return result, nil
}

// GetTopPlans 获取套餐销量排行
func (r *GormDashboardRepository) GetTopPlans(startAt, endAt time.Time, limit int) ([]DashboardPlanRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardPlanRankingRow
	if err := r.db.Model(&models.PurchaseRecord{}).
		Select("purchase_records.plan_id as plan_id, subscription_plans.name as name, COUNT(*) as paid_purchases, COALESCE(SUM(purchase_records.final_price), 0) as paid_amount").
		Joins("LEFT JOIN subscription_plans ON subscription_plans.id = purchase_records.plan_id").
		Where("purchase_records.created_at >= ? AND purchase_records.created_at < ? AND purchase_records.status = ?",
			startAt, endAt, constants.PurchaseStatusCompleted).
		Group("purchase_records.plan_id, subscription_plans.name").
		Order("paid_amount desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopPromoCodes 获取优惠码使用排行
func (r *GormDashboardRepository) GetTopPromoCodes(startAt, endAt time.Time, limit int) ([]DashboardPromoCodeRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardPromoCodeRankingRow
	if err := r.db.Model(&models.PurchaseRecord{}).
		Select("purchase_records.promo_code_id as promo_code_id, promo_codes.code as code, COUNT(*) as paid_purchases, COALESCE(SUM(purchase_records.discount_amount), 0) as discount_total").
		Joins("JOIN promo_codes ON promo_codes.id = purchase_records.promo_code_id").
		Where("purchase_records.promo_code_id IS NOT NULL AND purchase_records.created_at >= ? AND purchase_records.created_at < ? AND purchase_records.status = ?",
			startAt, endAt, constants.PurchaseStatusCompleted).
		Group("purchase_records.promo_code_id, promo_codes.code").
		Order("paid_purchases desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
