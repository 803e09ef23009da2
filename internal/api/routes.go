package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fundfolio/fund-tracker/internal/api/handlers"
	"github.com/fundfolio/fund-tracker/internal/metrics"
	"github.com/fundfolio/fund-tracker/internal/services"
	"github.com/fundfolio/fund-tracker/internal/store"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Store        *store.GormStore
	Valuation    *services.ValuationService
	Contribution *services.ContributionService
	NavFeed      services.NavFeed
	CORSOrigins  []string
}

func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	if len(deps.CORSOrigins) > 0 {
		config.AllowOrigins = deps.CORSOrigins
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false
	router.Use(cors.New(config))
	router.Use(requestMetrics())

	portfolioHandler := handlers.NewPortfolioHandler(deps.Valuation, deps.Store, deps.Store)
	holdingHandler := handlers.NewHoldingHandler(deps.Store, deps.NavFeed)
	planHandler := handlers.NewPlanHandler(deps.Store, deps.Contribution)

	api := router.Group("/api")
	{
		portfolio := api.Group("/portfolio")
		{
			portfolio.GET("", portfolioHandler.GetPortfolio)
			portfolio.GET("/history", portfolioHandler.GetHistory)
		}

		holdings := api.Group("/holdings")
		{
			holdings.GET("", holdingHandler.GetHoldings)
			holdings.POST("", holdingHandler.AddHolding)
			holdings.POST("/:code/buy", holdingHandler.BuyHolding)
			holdings.DELETE("/:code", holdingHandler.DeleteHolding)
		}

		plans := api.Group("/plans")
		{
			plans.GET("", planHandler.GetPlans)
			plans.POST("", planHandler.AddPlan)
			plans.PUT("/:code", planHandler.UpdatePlan)
			plans.DELETE("/:code", planHandler.DeletePlan)
			plans.POST("/run", planHandler.RunCatchups)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requestMetrics records request counts and latency per route.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" || strings.HasPrefix(path, "/metrics") {
			return
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
