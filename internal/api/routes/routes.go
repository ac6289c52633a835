package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/themisvote/themis/backend/internal/api/handlers"
	"github.com/themisvote/themis/backend/internal/api/middleware"
	"github.com/themisvote/themis/backend/internal/config"
	"github.com/themisvote/themis/backend/internal/metrics"
	"github.com/themisvote/themis/backend/internal/services"
)

// Register wires up API routes. Schema migration happens at startup in
// cmd/api, before this runs; nothing here creates tables.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	settingsService := services.NewSettingsService(db)
	notificationService := services.NewNotificationService(db, cfg.NotifyURLs)
	precinctService := services.NewPrecinctService(db)
	voterDirectory := services.NewStudentDirectory(db)
	electionDirectory := services.NewElectionDirectory(db)
	eligibilityService := services.NewEligibilityService(precinctService, voterDirectory)
	receiptService := services.NewReceiptService()
	resultVerifyService := services.NewResultVerifyService(cfg.KeyRefs)

	precinctHandler := handlers.NewPrecinctHandler(db)
	eligibilityHandler := handlers.NewEligibilityHandler(eligibilityService, electionDirectory)
	receiptHandler := handlers.NewReceiptHandler(receiptService, electionDirectory)
	resultsHandler := handlers.NewResultsHandler(resultVerifyService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	api := router.Group("/api/v1")

	// voter-facing surface, called by the portal and the vote-casting flow
	api.POST("/eligibility/check", eligibilityHandler.Check)
	api.GET("/eligibility/assignment", eligibilityHandler.Assignment)
	api.POST("/receipts", receiptHandler.Mint)
	api.GET("/receipts/code/:token", receiptHandler.Code)
	api.POST("/receipts/verify", receiptHandler.Verify)

	// administrative surface, authenticated against the external auth system
	admin := api.Group("")
	admin.Use(middleware.AdminAuth([]byte(cfg.JWTSecret), settingsService, services.SettingKeyOperatorTokenHash))

	admin.POST("/precincts", precinctHandler.Create)
	admin.GET("/precincts", precinctHandler.List)
	admin.GET("/precincts/:id", precinctHandler.Get)
	admin.DELETE("/precincts/:id", precinctHandler.Delete)
	admin.POST("/precincts/:id/rules", precinctHandler.AddRule)
	admin.GET("/precincts/:id/rules", precinctHandler.ListRules)
	admin.PUT("/rules/:id", precinctHandler.UpdateRule)
	admin.POST("/rules/:id/deactivate", precinctHandler.DeactivateRule)
	admin.DELETE("/rules/:id", precinctHandler.DeleteRule)
	admin.PUT("/elections/:id/precincts/:precinctID/courses", precinctHandler.AssignCourses)
	admin.GET("/elections/:id/assignments", precinctHandler.ListAssignments)

	admin.POST("/results/verify", resultsHandler.VerifyBatch)

	admin.GET("/settings", settingsHandler.GetSettings)
	admin.PUT("/settings", settingsHandler.UpdateSetting)

	admin.GET("/notifications", notificationHandler.List)
	admin.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
	admin.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

	return nil
}
