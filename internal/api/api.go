// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/api/handlers"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/api/middleware"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
	"github.com/andresuchdata/inbound-logbook/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	Inbound   *service.InboundService
	Dashboard *service.DashboardService
	Transfer  *service.TransferService
	VasTasks  *service.VasTaskService
	Status    handlers.StoreStatus

	ExposeMetrics bool
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Archive-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	if services != nil && services.ExposeMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Status != nil {
		systemHandler := handlers.NewSystemHandler(services.Status)
		router.GET("/health", systemHandler.Health)
		systemGroup := apiGroup.Group("/system")
		{
			systemGroup.GET("/status", systemHandler.Status)
			systemGroup.HEAD("/status", systemHandler.Status)
			systemGroup.POST("/probe", systemHandler.Probe)
		}
	}

	var transferHandler *handlers.TransferHandler
	if services.Transfer != nil {
		transferHandler = handlers.NewTransferHandler(services.Transfer)
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("", dashboardHandler.GetSummary)
			dashboardGroup.GET("/pending", dashboardHandler.GetPending)
			dashboardGroup.GET("/vas", dashboardHandler.GetVas)
		}
		apiGroup.GET("/arrivals/reconciled", dashboardHandler.GetReconciled)
	}

	if services.Inbound != nil {
		registerRecordRoutes(apiGroup, services.Inbound.Arrivals, transferHandler)
		registerRecordRoutes(apiGroup, services.Inbound.Transactions, transferHandler)
		registerRecordRoutes(apiGroup, services.Inbound.Vas, transferHandler)
	}

	if services.VasTasks != nil {
		taskHandler := handlers.NewVasTaskHandler(services.VasTasks)
		taskGroup := apiGroup.Group("/vas-tasks")
		{
			taskGroup.GET("", taskHandler.List)
			taskGroup.POST("", taskHandler.Start)
			taskGroup.GET("/:id", taskHandler.Get)
			taskGroup.PATCH("/:id", taskHandler.Update)
			taskGroup.POST("/:id/lines", taskHandler.AddLine)
			taskGroup.PATCH("/:id/lines/:idx", taskHandler.UpdateLine)
			taskGroup.DELETE("/:id/lines/:idx", taskHandler.RemoveLine)
			taskGroup.POST("/:id/finish", taskHandler.Finish)
			taskGroup.POST("/:id/commit", taskHandler.Commit)
			taskGroup.POST("/:id/cancel", taskHandler.Cancel)
			taskGroup.POST("/:id/discard", taskHandler.Discard)
		}
	}

	return router
}

func registerRecordRoutes[T domain.Record, PT domain.Mutable[T], P domain.Patch[T]](
	apiGroup *gin.RouterGroup,
	records *service.RecordService[T, PT, P],
	transfer *handlers.TransferHandler,
) {
	kind := records.Kind()
	h := handlers.NewRecordHandler(records)

	group := apiGroup.Group("/" + string(kind))
	group.GET("", h.List)
	group.POST("", h.Create)
	group.POST("/bulk-delete", h.BulkDelete)
	if transfer != nil {
		group.GET("/export", transfer.Export(kind))
		group.POST("/import", transfer.Import(kind))
	}
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
