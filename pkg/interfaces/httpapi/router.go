package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	appservices "github.com/vsinha/slitter/pkg/application/services"
)

// Services are the application services the HTTP surface exposes
type Services struct {
	Plans    *appservices.PlanService
	Merges   *appservices.MergeService
	Ledger   *appservices.LedgerService
	Dispatch *appservices.DispatchService
}

// RouterConfig tunes the engine; empty AllowOrigins allows all origins
type RouterConfig struct {
	AllowOrigins []string
}

// NewRouter builds the gin engine with every route under /api/v1
func NewRouter(svc Services, cfg RouterConfig, logger *logrus.Logger) *gin.Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	}
	corsConfig.AddAllowMethods("GET", "POST", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	plans := NewPlanHandler(svc.Plans)
	merges := NewMergeHandler(svc.Merges)
	jobs := NewJobHandler(svc.Ledger)
	dispatch := NewDispatchHandler(svc.Dispatch)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/plans", plans.List)
		v1.POST("/plans", plans.Create)
		v1.POST("/plans/derive", plans.Derive)
		v1.GET("/plans/:id", plans.Get)
		v1.PATCH("/plans/:id", plans.Edit)
		v1.POST("/plans/:id/dispatch", dispatch.CreateFromPlan)

		v1.POST("/merges/preview", merges.Preview)
		v1.POST("/merges", merges.Commit)

		v1.GET("/jobs/:id", jobs.Get)
		v1.POST("/jobs/:id/ledger", jobs.RecordRow)
		v1.DELETE("/jobs/:id/ledger/:rowId", jobs.DeleteRow)
		v1.POST("/jobs/:id/complete", jobs.Complete)
		v1.POST("/jobs/:id/resync", jobs.Resync)

		v1.GET("/dispatch", dispatch.List)
		v1.GET("/dispatch/:id", dispatch.Get)
		v1.PATCH("/dispatch/:id/items", dispatch.UpdateCounts)
	}

	return r
}

// requestLogger logs one line per request, at error level for 5xx
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithError(c.Errors.Last())
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request handled")
	}
}
