package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coachpanel/internal/cache"
	"github.com/coachpanel/internal/repository"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCustomMaxDays = 90
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range    string               `json:"range"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Timezone string               `json:"timezone"`
	Currency string               `json:"currency,omitempty"`
	KPI      DashboardKPI         `json:"kpi"`
	Alerts   []DashboardAlertItem `json:"alerts"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	PurchasesTotal     int64  `json:"purchases_total"`
	CompletedPurchases int64  `json:"completed_purchases"`
	PendingPurchases   int64  `json:"pending_purchases"`
	RefundedPurchases  int64  `json:"refunded_purchases"`
	PaymentSuccessRate string `json:"payment_success_rate"`
	RevenuePaid        string `json:"revenue_paid"`
	DiscountTotal      string `json:"discount_total"`
	NewUsers           int64  `json:"new_users"`
	ActivePlans        int64  `json:"active_plans"`
	ActiveInfluencers  int64  `json:"active_influencers"`
	PendingCommissions int64  `json:"pending_commissions"`
	PendingWithdrawals int64  `json:"pending_withdrawals"`
	CommissionAccrued  string `json:"commission_accrued"`
}

// DashboardAlertItem 仪表盘告警项
type DashboardAlertItem struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Value int64  `json:"value"`
}

// DashboardTrendResponse 仪表盘趋势响应
type DashboardTrendResponse struct {
	Range    string                `json:"range"`
	From     string                `json:"from"`
	To       string                `json:"to"`
	Timezone string                `json:"timezone"`
	Points   []DashboardTrendPoint `json:"points"`
}

// DashboardTrendPoint 趋势点
type DashboardTrendPoint struct {
	Date           string `json:"date"`
	PurchasesTotal int64  `json:"purchases_total"`
	PurchasesPaid  int64  `json:"purchases_paid"`
	RevenuePaid    string `json:"revenue_paid"`
}

// DashboardRankingsResponse 仪表盘排行榜响应
type DashboardRankingsResponse struct {
	Range         string                      `json:"range"`
	From          string                      `json:"from"`
	To            string                      `json:"to"`
	Timezone      string                      `json:"timezone"`
	TopPlans      []DashboardPlanRanking      `json:"top_plans"`
	TopPromoCodes []DashboardPromoCodeRanking `json:"top_promo_codes"`
}

// DashboardPlanRanking 套餐排行项
type DashboardPlanRanking struct {
	PlanID        uint   `json:"plan_id"`
	Name          string `json:"name"`
	PaidPurchases int64  `json:"paid_purchases"`
	PaidAmount    string `json:"paid_amount"`
}

// DashboardPromoCodeRanking 优惠码排行项
type DashboardPromoCodeRanking struct {
	PromoCodeID   uint   `json:"promo_code_id"`
	Code          string `json:"code"`
	PaidPurchases int64  `json:"paid_purchases"`
	DiscountTotal string `json:"discount_total"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:overview:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}

	successRate := 0.0
	settled := overview.CompletedPurchases + overview.RefundedPurchases
	if overview.PurchasesTotal > 0 {
		successRate = float64(settled) / float64(overview.PurchasesTotal) * 100
	}

	response := &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Currency: strings.ToUpper(strings.TrimSpace(overview.Currency)),
		KPI: DashboardKPI{
			PurchasesTotal:     overview.PurchasesTotal,
			CompletedPurchases: overview.CompletedPurchases,
			PendingPurchases:   overview.PendingPurchases,
			RefundedPurchases:  overview.RefundedPurchases,
			PaymentSuccessRate: formatPercentValue(successRate),
			RevenuePaid:        formatMoneyValue(overview.RevenuePaid),
			DiscountTotal:      formatMoneyValue(overview.DiscountTotal),
			NewUsers:           overview.NewUsers,
			ActivePlans:        overview.ActivePlans,
			ActiveInfluencers:  overview.ActiveInfluencers,
			PendingCommissions: overview.PendingCommissions,
			PendingWithdrawals: overview.PendingWithdrawals,
			CommissionAccrued:  formatMoneyValue(overview.CommissionAccrued),
		},
		Alerts: buildDashboardAlerts(overview),
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetTrends 获取购买趋势
func (s *DashboardService) GetTrends(ctx context.Context, input DashboardQueryInput) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:trends:%s:%d:%d:%s",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone)
	if !input.ForceRefresh {
		var cached DashboardTrendResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	rows, err := s.repo.GetPurchaseTrends(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]repository.DashboardPurchaseTrendRow, len(rows))
	for _, item := range rows {
		rowMap[item.Day] = item
	}

	// 补齐没有数据的日期，前端折线图不用再填洞
	points := make([]DashboardTrendPoint, 0)
	for cursor := time.Date(window.startAt.Year(), window.startAt.Month(), window.startAt.Day(), 0, 0, 0, 0, window.startAt.Location()); cursor.Before(window.endAt); cursor = cursor.AddDate(0, 0, 1) {
		day := cursor.Format("2006-01-02")
		item := rowMap[day]
		points = append(points, DashboardTrendPoint{
			Date:           day,
			PurchasesTotal: item.PurchasesTotal,
			PurchasesPaid:  item.PurchasesPaid,
			RevenuePaid:    formatMoneyValue(item.RevenuePaid),
		})
	}

	response := &DashboardTrendResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		Points:   points,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

// GetRankings 获取套餐与优惠码排行榜
func (s *DashboardService) GetRankings(ctx context.Context, input DashboardQueryInput, limit int) (*DashboardRankingsResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardRankingsResponse{}, nil
	}

	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("dashboard:rankings:%s:%d:%d:%s:%d",
		window.rangeKey, window.startAt.Unix(), window.endAt.Unix(), window.timezone, limit)
	if !input.ForceRefresh {
		var cached DashboardRankingsResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	planRows, err := s.repo.GetTopPlans(window.startAt, window.endAt, limit)
	if err != nil {
		return nil, err
	}
	promoRows, err := s.repo.GetTopPromoCodes(window.startAt, window.endAt, limit)
	if err != nil {
		return nil, err
	}

	plans := make([]DashboardPlanRanking, 0, len(planRows))
	for _, item := range planRows {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "-"
		}
		plans = append(plans, DashboardPlanRanking{
			PlanID:        item.PlanID,
			Name:          name,
			PaidPurchases: item.PaidPurchases,
			PaidAmount:    formatMoneyValue(item.PaidAmount),
		})
	}

	promos := make([]DashboardPromoCodeRanking, 0, len(promoRows))
	for _, item := range promoRows {
		promos = append(promos, DashboardPromoCodeRanking{
			PromoCodeID:   item.PromoCodeID,
			Code:          strings.TrimSpace(item.Code),
			PaidPurchases: item.PaidPurchases,
			DiscountTotal: formatMoneyValue(item.DiscountTotal),
		})
	}

	response := &DashboardRankingsResponse{
		Range:         window.rangeKey,
		From:          window.startAt.Format(time.RFC3339),
		To:            window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone:      window.timezone,
		TopPlans:      plans,
		TopPromoCodes: promos,
	}

	_ = cache.SetJSON(ctx, cacheKey, response, dashboardCacheTTL)
	return response, nil
}

func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "7d"
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	switch rangeKey {
	case "today":
		window.startAt = todayStart
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "7d":
		window.startAt = todayStart.AddDate(0, 0, -6)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "30d":
		window.startAt = todayStart.AddDate(0, 0, -29)
		window.endAt = todayStart.AddDate(0, 0, 1)
	case "custom":
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		startAt := input.From.In(location)
		endAt := input.To.In(location)
		if endAt.Before(startAt) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if endAt.Sub(startAt) > time.Hour*24*dashboardCustomMaxDays {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.startAt = startAt
		window.endAt = endAt.Add(time.Second)
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	if !window.endAt.After(window.startAt) {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func formatMoneyValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatPercentValue(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func buildDashboardAlerts(overview repository.DashboardOverviewRow) []DashboardAlertItem {
	alerts := make([]DashboardAlertItem, 0, 3)
	if overview.PendingWithdrawals > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "pending_withdrawals", Level: "warning", Value: overview.PendingWithdrawals})
	}
	if overview.PendingCommissions > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "pending_commissions", Level: "info", Value: overview.PendingCommissions})
	}
	if overview.PendingPurchases > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "pending_purchases", Level: "info", Value: overview.PendingPurchases})
	}
	return alerts
}
