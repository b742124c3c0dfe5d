package router

import (
	"github.com/gin-gonic/gin"

	"pharmatally/internal/config"
	"pharmatally/internal/handler"
	"pharmatally/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	invoiceH *handler.InvoiceHandler,
	comparisonH *handler.ComparisonHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice scan and retrieval
	invoices := v1.Group("/invoices")
	invoices.POST("/scan", invoiceH.Scan)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.Get)
	invoices.GET("/:id/image", invoiceH.GetImageURL)
	invoices.PUT("/:id/items/:itemId", invoiceH.UpdateItem)
	invoices.DELETE("/:id", invoiceH.Delete)

	// Box counts and reconciliation
	invoices.POST("/:id/counts", comparisonH.RecordCount)
	invoices.GET("/:id/counts", comparisonH.ListCounts)
	invoices.DELETE("/:id/counts/:countId", comparisonH.DeleteCount)
	invoices.GET("/:id/comparison", comparisonH.Compare)
	invoices.GET("/:id/report", comparisonH.Report)
	invoices.GET("/:id/report.xlsx", comparisonH.ExportXLSX)
	invoices.GET("/:id/report.csv", comparisonH.ExportCSV)

	return r
}
