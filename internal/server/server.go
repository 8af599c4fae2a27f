package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/smallbiznis/kolekta/internal/audit/domain"
	campaigndomain "github.com/smallbiznis/kolekta/internal/campaign/domain"
	communicationdomain "github.com/smallbiznis/kolekta/internal/communication/domain"
	"github.com/smallbiznis/kolekta/internal/config"
	customerdomain "github.com/smallbiznis/kolekta/internal/customer/domain"
	debtdomain "github.com/smallbiznis/kolekta/internal/debt/domain"
	dispatchdomain "github.com/smallbiznis/kolekta/internal/dispatch/domain"
	templatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	obslogger "github.com/smallbiznis/kolekta/internal/observability/logger"
	"github.com/smallbiznis/kolekta/internal/observability/metrics"
	"github.com/smallbiznis/kolekta/internal/observability/tracing"
	"github.com/smallbiznis/kolekta/internal/scheduler"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	cfg config.Config
	log *zap.Logger
	db  *gorm.DB

	customerSvc customerdomain.Service
	debtSvc     debtdomain.Service
	templateSvc templatedomain.Service
	campaignSvc campaigndomain.Service
	dispatchSvc dispatchdomain.Service
	commRepo    communicationdomain.Repository
	auditSvc    auditdomain.Service
	worker      *scheduler.Worker

	limiter *rateLimiter
}

type ServerParam struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB

	CustomerSvc customerdomain.Service
	DebtSvc     debtdomain.Service
	TemplateSvc templatedomain.Service
	CampaignSvc campaigndomain.Service
	DispatchSvc dispatchdomain.Service
	CommRepo    communicationdomain.Repository
	AuditSvc    auditdomain.Service
	Worker      *scheduler.Worker
}

func NewServer(p ServerParam) *Server {
	limit := p.Config.RateLimitPerMin
	if limit <= 0 {
		limit = 600
	}
	return &Server{
		cfg: p.Config,
		log: p.Log.Named("http.server"),
		db:  p.DB,

		customerSvc: p.CustomerSvc,
		debtSvc:     p.DebtSvc,
		templateSvc: p.TemplateSvc,
		campaignSvc: p.CampaignSvc,
		dispatchSvc: p.DispatchSvc,
		commRepo:    p.CommRepo,
		auditSvc:    p.AuditSvc,
		worker:      p.Worker,

		limiter: newRateLimiter(limit, time.Minute),
	}
}

// NewEngine builds the gin engine with observability middleware attached.
func NewEngine(cfg config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware())
	engine.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	if httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(httpMetrics))
	}
	return engine
}

// RegisterRoutes mounts the API surface, the health probe, and the
// prometheus scrape endpoint.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.Use(s.rateLimitMiddleware())

	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomer)

	api.POST("/debts", s.CreateDebt)
	api.GET("/debts", s.ListDebts)
	api.GET("/debts/:id", s.GetDebt)
	api.POST("/debts/:id/pay", s.PayDebt)
	api.POST("/debts/:id/cancel", s.CancelDebt)

	api.POST("/communications", s.SendCommunication)
	api.GET("/communications", s.ListCommunications)
	api.GET("/communications/:id", s.GetCommunication)

	api.POST("/campaigns", s.CreateCampaign)
	api.GET("/campaigns/:id", s.GetCampaign)
	api.GET("/campaigns/:id/compare", s.CompareCampaigns)

	api.POST("/templates", s.CreateTemplate)
	api.GET("/templates", s.ListTemplates)
	api.POST("/templates/:id/deactivate", s.DeactivateTemplate)

	api.POST("/jobs/reclassify", s.RunReclassifyJob)

	if !s.cfg.IsProduction() {
		api.POST("/test/cleanup", s.TestCleanup)
	}
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP()) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, server *Server, httpMetrics *metrics.HTTPMetrics) {
	engine := NewEngine(cfg, httpMetrics)
	server.RegisterRoutes(engine)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
