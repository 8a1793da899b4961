// internal/handler/routes.go
package handler

import (
	"card-optimizer/internal/metrics"
	"card-optimizer/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register вешает публичные и защищённые маршруты на router.
func Register(router *gin.Engine, h *OptimizerHandler, authMiddleware *middleware.AuthMiddleware, rec *metrics.Recorder) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if rec != nil {
		router.GET("/metrics", gin.WrapH(rec.Handler()))
	}

	router.POST("/api/v1/login", h.Login)

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		v1.GET("/categories", h.Categories)
		v1.POST("/score", h.Score)

		v1.GET("/cards", h.ListCards)
		v1.PUT("/cards", h.ReplaceCards)
		v1.POST("/cards", h.UpsertCard)
		v1.DELETE("/cards/:name", h.DeleteCard)

		v1.GET("/transactions", h.ListTransactions)
		v1.POST("/transactions", h.AddTransactions)
		v1.POST("/transactions/import", h.ImportTransactions)
		v1.DELETE("/transactions/:id", h.DeleteTransaction)

		v1.GET("/planned", h.ListPlanned)
		v1.POST("/planned", h.AddPlanned)
		v1.DELETE("/planned", h.ClearPlanned)

		v1.GET("/portfolio", h.Portfolio)
		v1.GET("/compare", h.Compare)

		v1.GET("/spend", h.GetSpend)
		v1.PUT("/spend", h.SaveSpend)
		v1.PATCH("/spend", h.SaveSpend)
		v1.GET("/spend/plan", h.SpendPlan)
		v1.GET("/spend/by-category", h.SpendByCategory)
		v1.GET("/spend/averages", h.SpendAverages)
	}
}
