// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/api/handlers"
	"github.com/peace-adamu/inventory-management-system/internal/api/middleware"
	"github.com/peace-adamu/inventory-management-system/internal/command"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/storage"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

type Services struct {
	Store        inventory.Store
	Analysis     *analysis.Service
	Transactions *transaction.Service
	Commands     *command.Dispatcher
	// Archiver is optional; archive routes answer 503 without it.
	Archiver *storage.Archiver
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
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

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Store != nil && services.Analysis != nil && services.Transactions != nil {
		productHandler := handlers.NewProductHandler(services.Store, services.Analysis, services.Transactions)
		apiGroup.GET("/info", productHandler.GetInfo)

		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", productHandler.ListProducts)
			productGroup.POST("", productHandler.AddProduct)
			productGroup.POST("/import", productHandler.ImportProducts)
			productGroup.GET("/:id", productHandler.GetProduct)
			productGroup.PATCH("/:id", productHandler.UpdateProduct)
			productGroup.GET("/:id/economics", productHandler.GetEconomics)
			productGroup.GET("/:id/calculator", productHandler.GetCalculator)
			productGroup.GET("/:id/status", productHandler.GetStatus)
			productGroup.GET("/:id/history", productHandler.GetHistory)
		}

		reportHandler := handlers.NewReportHandler(services.Analysis, services.Transactions)
		if services.Archiver != nil {
			reportHandler.SetArchiver(services.Archiver)
		}
		reportGroup := apiGroup.Group("/reports")
		{
			reportGroup.GET("", reportHandler.ListReports)
			reportGroup.GET("/archive", reportHandler.ListArchived)
			reportGroup.GET("/:kind", reportHandler.GetReport)
			reportGroup.POST("/:kind/archive", reportHandler.ArchiveReport)
		}
	}

	if services.Transactions != nil {
		txHandler := handlers.NewTransactionHandler(services.Transactions)
		txGroup := apiGroup.Group("/transactions")
		{
			txGroup.GET("", txHandler.ListTransactions)
			txGroup.POST("", txHandler.CreateTransaction)
			txGroup.POST("/bulk", txHandler.CreateBulkSale)
			txGroup.GET("/daily", txHandler.GetDailySummary)
		}
	}

	if services.Commands != nil {
		commandHandler := handlers.NewCommandHandler(services.Commands)
		apiGroup.POST("/commands", commandHandler.Ask)
	}

	return router
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
