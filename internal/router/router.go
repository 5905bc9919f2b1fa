package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coachpanel/internal/authz"
	"github.com/coachpanel/internal/cache"
	"github.com/coachpanel/internal/config"
	adminhandlers "github.com/coachpanel/internal/http/handlers/admin"
	publichandlers "github.com/coachpanel/internal/http/handlers/public"
	"github.com/coachpanel/internal/http/response"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cp"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/plans", publicHandler.GetPlans)
			public.GET("/plans/:id", publicHandler.GetPlan)
			public.POST("/promo-codes/validate", publicHandler.ValidatePromoCode)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateUserProfile)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)
			user.POST("/checkout", publicHandler.Checkout)
			user.GET("/purchases", publicHandler.ListMyPurchases)
			user.GET("/purchases/:id", publicHandler.GetMyPurchase)
			user.GET("/influencer/profile", publicHandler.GetMyInfluencerProfile)
			user.GET("/influencer/dashboard", publicHandler.GetMyInfluencerDashboard)
			user.GET("/influencer/promo-codes", publicHandler.ListMyPromoCodes)
			user.GET("/influencer/commissions", publicHandler.ListMyCommissions)
			user.GET("/influencer/withdrawals", publicHandler.ListMyWithdrawals)
			user.POST("/influencer/withdrawals", publicHandler.ApplyWithdrawal)
		}

		apiV1.POST("/payments/webhook/stripe", publicHandler.StripeWebhook)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
				authorized.GET("/dashboard/rankings", adminHandler.GetDashboardRankings)

				// 用户管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.GET("/users/:id", adminHandler.GetAdminUser)
				authorized.PUT("/users/:id", adminHandler.UpdateAdminUser)
				authorized.POST("/users/batch-status", adminHandler.BatchUpdateUserStatus)
				authorized.GET("/users/:id/purchases", adminHandler.GetAdminUserPurchases)

				// 订阅计划管理
				authorized.GET("/plans", adminHandler.GetAdminPlans)
				authorized.GET("/plans/:id", adminHandler.GetAdminPlan)
				authorized.POST("/plans", adminHandler.CreatePlan)
				authorized.PUT("/plans/:id", adminHandler.UpdatePlan)
				authorized.DELETE("/plans/:id", adminHandler.DeletePlan)
				authorized.GET("/plans/:id/stats", adminHandler.GetPlanStats)

				// 优惠码管理
				authorized.GET("/promo-codes", adminHandler.GetAdminPromoCodes)
				authorized.GET("/promo-codes/:id", adminHandler.GetAdminPromoCode)
				authorized.POST("/promo-codes", adminHandler.CreatePromoCode)
				authorized.PUT("/promo-codes/:id", adminHandler.UpdatePromoCode)
				authorized.DELETE("/promo-codes/:id", adminHandler.DeletePromoCode)

				// 推广人与佣金管理
				authorized.GET("/influencers", adminHandler.GetAdminInfluencers)
				authorized.GET("/influencers/:id", adminHandler.GetAdminInfluencer)
				authorized.POST("/influencers", adminHandler.CreateInfluencer)
				authorized.PUT("/influencers/:id", adminHandler.UpdateInfluencer)
				authorized.PATCH("/influencers/:id/status", adminHandler.UpdateInfluencerStatus)
				authorized.POST("/influencers/:id/settle", adminHandler.SettleInfluencerCommissions)
				authorized.GET("/commissions", adminHandler.GetAdminCommissions)
				authorized.PATCH("/commissions/:id/status", adminHandler.UpdateCommissionStatus)
				authorized.GET("/withdrawals", adminHandler.GetAdminWithdrawals)
				authorized.PATCH("/withdrawals/:id", adminHandler.ReviewWithdrawal)

				// 购买记录管理
				authorized.GET("/purchases", adminHandler.GetAdminPurchases)
				authorized.GET("/purchases/export", adminHandler.ExportAdminPurchases)
				authorized.GET("/purchases/:id", adminHandler.GetAdminPurchase)
				authorized.PATCH("/purchases/:id", adminHandler.UpdatePurchaseStatus)

				// 邮件模板管理
				authorized.GET("/email-templates", adminHandler.GetAdminEmailTemplates)
				authorized.GET("/email-templates/:id", adminHandler.GetAdminEmailTemplate)
				authorized.POST("/email-templates", adminHandler.CreateEmailTemplate)
				authorized.PUT("/email-templates/:id", adminHandler.UpdateEmailTemplate)
				authorized.DELETE("/email-templates/:id", adminHandler.DeleteEmailTemplate)
				authorized.POST("/email-templates/:id/preview", adminHandler.PreviewEmailTemplate)

				// 设置管理
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings", adminHandler.UpdateSettings)
				authorized.GET("/settings/smtp", adminHandler.GetSMTPSettings)
				authorized.PUT("/settings/smtp", adminHandler.UpdateSMTPSettings)
				authorized.POST("/settings/smtp/test", adminHandler.TestSMTPSettings)
				authorized.GET("/settings/stripe", adminHandler.GetStripeSettings)
				authorized.PUT("/settings/stripe", adminHandler.UpdateStripeSettings)
				authorized.GET("/settings/influencer", adminHandler.GetInfluencerSettings)
				authorized.PUT("/settings/influencer", adminHandler.UpdateInfluencerSettings)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword) // 修改密码

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
