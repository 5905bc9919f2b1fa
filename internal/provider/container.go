package provider

import (
	"github.com/coachpanel/internal/authz"
	"github.com/coachpanel/internal/cache"
	"github.com/coachpanel/internal/config"
	"github.com/coachpanel/internal/logger"
	"github.com/coachpanel/internal/models"
	"github.com/coachpanel/internal/queue"
	"github.com/coachpanel/internal/repository"
	"github.com/coachpanel/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	PlanRepo          repository.PlanRepository
	PromoCodeRepo     repository.PromoCodeRepository
	InfluencerRepo    repository.InfluencerRepository
	PurchaseRepo      repository.PurchaseRepository
	EmailTemplateRepo repository.EmailTemplateRepository
	SettingRepo       repository.SettingRepository
	DashboardRepo     repository.DashboardRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	UserAuthService      *service.UserAuthService
	UserService          *service.UserService
	PlanService          *service.PlanService
	PromoService         *service.PromoService
	PromoAdminService    *service.PromoAdminService
	InfluencerService    *service.InfluencerService
	PurchaseService      *service.PurchaseService
	SettingService       *service.SettingService
	EmailTemplateService *service.EmailTemplateService
	EmailService         *service.EmailService
	DashboardService     *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.PlanRepo = repository.NewPlanRepository(db)
	c.PromoCodeRepo = repository.NewPromoCodeRepository(db)
	c.InfluencerRepo = repository.NewInfluencerRepository(db)
	c.PurchaseRepo = repository.NewPurchaseRepository(db)
	c.EmailTemplateRepo = repository.NewEmailTemplateRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.EmailTemplateService = service.NewEmailTemplateService(c.EmailTemplateRepo)
	c.EmailService = service.NewEmailService(c.SettingService, c.EmailTemplateService)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.PurchaseRepo)
	c.PlanService = service.NewPlanService(c.PlanRepo, c.DashboardRepo)
	c.PromoService = service.NewPromoService(c.PromoCodeRepo)
	c.PromoAdminService = service.NewPromoAdminService(c.PromoCodeRepo, c.InfluencerRepo)
	c.InfluencerService = service.NewInfluencerService(c.InfluencerRepo, c.UserRepo, c.PurchaseRepo, c.SettingService)
	c.PurchaseService = service.NewPurchaseService(c.PurchaseRepo, c.UserRepo, c.PlanService, c.PromoService, c.SettingService, c.QueueClient)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
