package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-failover/internal/interfaces"
	"github.com/akylbek/payment-system/payment-failover/internal/middleware"
	"github.com/akylbek/payment-system/payment-failover/internal/models"
	"github.com/akylbek/payment-system/payment-failover/internal/orchestrator"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

// statusClientClosedRequest is nginx's code for a client that hung up before the response.
const statusClientClosedRequest = 499

type PaymentHandler struct {
	charger interfaces.Charger
	stats   interfaces.StatsRepository
}

func NewPaymentHandler(charger interfaces.Charger, stats interfaces.StatsRepository) *PaymentHandler {
	return &PaymentHandler{
		charger: charger,
		stats:   stats,
	}
}

func (h *PaymentHandler) Charge(c *gin.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.Logger.Warn("Invalid payment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Currency == "" {
		req.Currency = models.DefaultCurrency
	}
	req.Currency = strings.ToUpper(req.Currency)

	telemetry.Logger.Info("Processing payment",
		zap.Float64("amount", req.Amount),
		zap.String("currency", req.Currency),
		zap.String("customer_id", req.CustomerID),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)

	resp, err := h.charger.Charge(ctx, req)
	if errors.Is(err, orchestrator.ErrAllGatewaysFailed) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "All payment gateways failed"})
		return
	}
	if errors.Is(err, context.Canceled) {
		telemetry.Logger.Info("Client closed request before payment completed",
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		)
		c.AbortWithStatus(statusClientClosedRequest)
		return
	}
	if err != nil {
		telemetry.Logger.Error("Payment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process payment"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Snapshot(c.Request.Context())
	if err != nil {
		telemetry.Logger.Error("Failed to read gateway stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gateway stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"gateways": stats})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
