package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/audit"
	auditdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/audit/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/catalog"
	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/config"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/observability"
	obsmiddleware "github.com/sistemascrenat/liquidaciones-sub000/internal/observability/logger"
	obsmetrics "github.com/sistemascrenat/liquidaciones-sub000/internal/observability/metrics"
	obstracing "github.com/sistemascrenat/liquidaciones-sub000/internal/observability/tracing"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production"
	productiondomain "github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/profitability"
	profitabilitydomain "github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement"
	settlementdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/statement"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	catalog.Module,
	production.Module,
	settlement.Module,
	profitability.Module,
	fx.Provide(statement.New),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	cfg              config.Config
	catalogSvc       catalogdomain.Service
	productionSvc    productiondomain.Service
	settlementSvc    settlementdomain.Service
	profitabilitySvc profitabilitydomain.Service
	auditSvc         auditdomain.Service
	statements       statement.Provider
	obsMetrics       *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	CatalogSvc       catalogdomain.Service
	ProductionSvc    productiondomain.Service
	SettlementSvc    settlementdomain.Service
	ProfitabilitySvc profitabilitydomain.Service
	AuditSvc         auditdomain.Service
	Statements       statement.Provider
	ObsMetrics       *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		catalogSvc:       p.CatalogSvc,
		productionSvc:    p.ProductionSvc,
		settlementSvc:    p.SettlementSvc,
		profitabilitySvc: p.ProfitabilitySvc,
		auditSvc:         p.AuditSvc,
		statements:       p.Statements,
		obsMetrics:       p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(s.OperatorContext())

	// -------- Catalogs --------
	api.GET("/roles", s.ListRoles)
	api.PUT("/roles/:id", s.SaveRole)
	api.GET("/clinicas", s.ListClinics)
	api.POST("/clinicas", s.SaveClinic)
	api.PUT("/clinicas/:id", s.SaveClinic)
	api.GET("/profesionales", s.ListProfessionals)
	api.POST("/profesionales", s.SaveProfessional)
	api.PUT("/profesionales/:id", s.SaveProfessional)
	api.GET("/procedimientos", s.ListProcedures)
	api.POST("/procedimientos", s.SaveProcedure)
	api.PUT("/procedimientos/:id", s.SaveProcedure)
	api.GET("/procedimientos/:id", s.GetProcedure)
	api.PUT("/procedimientos/:id/tarifas", s.UpdateProcedureTariffs)

	// -------- Production --------
	api.POST("/produccion/importar", s.ImportProduction)
	api.GET("/produccion/:anio/:mes", s.ListProduction)
	api.POST("/produccion/:id/confirmar", s.ConfirmProduction)
	api.POST("/produccion/:id/anular", s.VoidProduction)

	// -------- Settlements --------
	api.POST("/liquidaciones/:anio/:mes/recalcular", s.RecalculateSettlement)
	api.GET("/liquidaciones/:anio/:mes", s.GetSettlement)
	api.GET("/liquidaciones/:anio/:mes/exportar", s.ExportSettlement)
	api.GET("/liquidaciones/:anio/:mes/:clave/boleta", s.RenderStatement)
	api.PUT("/liquidaciones/:anio/:mes/:clave/estado-pago", s.SetPaymentStatus)

	// -------- Profitability --------
	api.GET("/estadisticas/:anio/:mes", s.GetProfitability)
	api.GET("/estadisticas/:anio/:mes/exportar", s.ExportProfitability)

	api.GET("/audit-logs", s.ListAuditLogs)
}
