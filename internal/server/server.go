package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dev-arif67/restro-saas-sub000/internal/clock"
	"github.com/dev-arif67/restro-saas-sub000/internal/config"
	"github.com/dev-arif67/restro-saas-sub000/internal/invoice"
	"github.com/dev-arif67/restro-saas-sub000/internal/menu"
	"github.com/dev-arif67/restro-saas-sub000/internal/observability"
	obslogger "github.com/dev-arif67/restro-saas-sub000/internal/observability/logger"
	obstracing "github.com/dev-arif67/restro-saas-sub000/internal/observability/tracing"
	"github.com/dev-arif67/restro-saas-sub000/internal/order"
	orderdomain "github.com/dev-arif67/restro-saas-sub000/internal/order/domain"
	"github.com/dev-arif67/restro-saas-sub000/internal/table"
	"github.com/dev-arif67/restro-saas-sub000/internal/tax"
	"github.com/dev-arif67/restro-saas-sub000/internal/tenant"
	"github.com/dev-arif67/restro-saas-sub000/internal/voucher"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	clock.Module,
	tax.Module,
	tenant.Module,
	menu.Module,
	table.Module,
	voucher.Module,
	invoice.Module,
	order.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

// NewEngine builds the gin engine with the shared middleware chain and the
// health and metrics endpoints.
func NewEngine(obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
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
	engine   *gin.Engine
	orderSvc orderdomain.Service
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	OrderSvc orderdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:   p.Gin,
		orderSvc: p.OrderSvc,
	}

	svc.registerAPIRoutes()
	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(TenantContext())

	orders := api.Group("/orders")
	{
		orders.POST("", s.CreateOrder)
		orders.GET("/:id", s.GetOrder)
		orders.POST("/:id/payment", s.ConfirmPayment)
		orders.PATCH("/:id/status", s.UpdateOrderStatus)
	}
}

// Engine exposes the router for tests and embedding.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
