package main

import (
	"time"

	"github.com/coachpanel/internal/config"
	"github.com/coachpanel/internal/constants"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 订阅套餐
	plans := []models.SubscriptionPlan{
		{
			Name:        "Starter Coaching",
			Description: "每月一次 1 对 1 辅导，训练计划按月更新",
			Type:        constants.PlanTypeMonthly,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(29.99)),
			Currency:    "usd",
			Features:    models.StringArray([]string{"Monthly 1:1 session", "Training plan", "Email support"}),
			TrialDays:   7,
			SortOrder:   10,
			Status:      constants.PlanStatusActive,
		},
		{
			Name:        "Pro Coaching",
			Description: "每周辅导与饮食方案，含进度复盘",
			Type:        constants.PlanTypeMonthly,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99)),
			Currency:    "usd",
			Features:    models.StringArray([]string{"Weekly 1:1 session", "Nutrition plan", "Progress review", "Priority support"}),
			SortOrder:   20,
			Status:      constants.PlanStatusActive,
		},
		{
			Name:        "Annual Elite",
			Description: "年付方案，全部 Pro 权益外加线下集训名额",
			Type:        constants.PlanTypeYearly,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(799.00)),
			Currency:    "usd",
			Features:    models.StringArray([]string{"All Pro benefits", "Offline bootcamp seat", "Annual assessment"}),
			SortOrder:   30,
			Status:      constants.PlanStatusActive,
		},
	}
	for _, plan := range plans {
		var existing models.SubscriptionPlan
		if err := models.DB.Where("name = ?", plan.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&plan).Error; err != nil {
				stdLog.Printf("Failed to create plan %s: %v", plan.Name, err)
			} else {
				stdLog.Printf("Created plan: %s", plan.Name)
			}
		} else {
			stdLog.Printf("Plan already exists: %s", plan.Name)
		}
	}

	// 示例用户（含一名达人）
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}
	users := []models.User{
		{Email: "alice@example.com", PasswordHash: string(passwordHash), FirstName: "Alice", LastName: "Wang", Locale: "zh", Status: constants.UserStatusActive},
		{Email: "bob@example.com", PasswordHash: string(passwordHash), FirstName: "Bob", LastName: "Li", Locale: "en", Status: constants.UserStatusActive},
	}
	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Email, err)
			} else {
				stdLog.Printf("Created user: %s", user.Email)
			}
		} else {
			stdLog.Printf("User already exists: %s", user.Email)
		}
	}

	var aliceUser models.User
	if err := models.DB.Where("email = ?", "alice@example.com").First(&aliceUser).Error; err == nil {
		var influencer models.Influencer
		if err := models.DB.Where("user_id = ?", aliceUser.ID).First(&influencer).Error; err != nil {
			influencer = models.Influencer{
				UserID:         aliceUser.ID,
				CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromFloat(10)),
				Status:         constants.InfluencerStatusActive,
				Notes:          "seed influencer",
			}
			if err := models.DB.Create(&influencer).Error; err != nil {
				stdLog.Printf("Failed to create influencer: %v", err)
			} else {
				stdLog.Printf("Created influencer for: %s", aliceUser.Email)
			}
		}

		// 达人专属优惠码
		expiresAt := time.Now().AddDate(0, 3, 0)
		promoCodes := []models.PromoCode{
			{
				Code:         "ALICE10",
				Description:  "Alice 专属 9 折码",
				InfluencerID: &influencer.ID,
				Type:         constants.PromoCodeTypePercentage,
				Value:        models.NewMoneyFromDecimal(decimal.NewFromFloat(10)),
				MaxDiscount:  models.NewMoneyFromDecimal(decimal.NewFromFloat(20)),
				Status:       constants.PromoCodeStatusActive,
				ExpiresAt:    &expiresAt,
			},
			{
				Code:           "WELCOME5",
				Description:    "新用户立减 5 美元",
				Type:           constants.PromoCodeTypeFixedAmount,
				Value:          models.NewMoneyFromDecimal(decimal.NewFromFloat(5)),
				MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(20)),
				UsageLimit:     100,
				Status:         constants.PromoCodeStatusActive,
			},
		}
		for _, promo := range promoCodes {
			var existing models.PromoCode
			if err := models.DB.Where("code = ?", promo.Code).First(&existing).Error; err != nil {
				if err := models.DB.Create(&promo).Error; err != nil {
					stdLog.Printf("Failed to create promo code %s: %v", promo.Code, err)
				} else {
					stdLog.Printf("Created promo code: %s", promo.Code)
				}
			} else {
				stdLog.Printf("Promo code already exists: %s", promo.Code)
			}
		}
	}

	// 邮件模板
	templates := []models.EmailTemplate{
		{
			Type:      constants.EmailTemplateTypeWelcome,
			Name:      "欢迎邮件",
			Subject:   "欢迎加入 {{site_name}}",
			HTMLBody:  "<p>你好 {{first_name}}，欢迎加入 {{site_name}}！</p>",
			TextBody:  "你好 {{first_name}}，欢迎加入 {{site_name}}！",
			Variables: models.StringArray([]string{"first_name", "site_name"}),
			Status:    constants.EmailTemplateStatusActive,
		},
		{
			Type:      constants.EmailTemplateTypePaymentSuccess,
			Name:      "支付成功通知",
			Subject:   "订单 {{order_no}} 支付成功",
			HTMLBody:  "<p>你的订单 {{order_no}} 已支付成功，金额 {{amount}}。</p>",
			TextBody:  "你的订单 {{order_no}} 已支付成功，金额 {{amount}}。",
			Variables: models.StringArray([]string{"order_no", "amount"}),
			Status:    constants.EmailTemplateStatusActive,
		},
		{
			Type:      constants.EmailTemplateTypePaymentFailed,
			Name:      "支付失败通知",
			Subject:   "订单 {{order_no}} 支付失败",
			HTMLBody:  "<p>你的订单 {{order_no}} 支付失败，请重新尝试。</p>",
			TextBody:  "你的订单 {{order_no}} 支付失败，请重新尝试。",
			Variables: models.StringArray([]string{"order_no"}),
			Status:    constants.EmailTemplateStatusActive,
		},
		{
			Type:      constants.EmailTemplateTypeCommissionEarned,
			Name:      "佣金入账通知",
			Subject:   "你有一笔新佣金 {{amount}}",
			HTMLBody:  "<p>订单 {{order_no}} 为你带来佣金 {{amount}}。</p>",
			TextBody:  "订单 {{order_no}} 为你带来佣金 {{amount}}。",
			Variables: models.StringArray([]string{"order_no", "amount"}),
			Status:    constants.EmailTemplateStatusActive,
		},
		{
			Type:      constants.EmailTemplateTypeWithdrawalProcessed,
			Name:      "提现结果通知",
			Subject:   "你的提现申请已处理",
			HTMLBody:  "<p>你的提现申请（金额 {{amount}}）状态更新为 {{status}}。</p>",
			TextBody:  "你的提现申请（金额 {{amount}}）状态更新为 {{status}}。",
			Variables: models.StringArray([]string{"amount", "status"}),
			Status:    constants.EmailTemplateStatusActive,
		},
	}
	for _, tpl := range templates {
		var existing models.EmailTemplate
		if err := models.DB.Where("type = ?", tpl.Type).First(&existing).Error; err != nil {
			if err := models.DB.Create(&tpl).Error; err != nil {
				stdLog.Printf("Failed to create email template %s: %v", tpl.Type, err)
			} else {
				stdLog.Printf("Created email template: %s", tpl.Type)
			}
		} else {
			stdLog.Printf("Email template already exists: %s", tpl.Type)
		}
	}

	stdLog.Println("Seed data initialized")
}
