package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/payment-failover/internal/handlers"
	"github.com/akylbek/payment-system/payment-failover/internal/interfaces"
	"github.com/akylbek/payment-system/payment-failover/internal/middleware"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

func NewRouter(charger interfaces.Charger, stats interfaces.StatsRepository) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())
	r.Use(telemetry.MetricsMiddleware())
	r.Use(middleware.RequestID())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", handlers.Health)

	// Payment routes
	paymentHandler := handlers.NewPaymentHandler(charger, stats)
	payments := r.Group("/api/payment")
	{
		payments.POST("/charge", paymentHandler.Charge)
		payments.GET("/stats", paymentHandler.Stats)
	}

	return r
}
