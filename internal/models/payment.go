package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorType string

const (
	ErrorTypeNetworkTimeout  ErrorType = "network_timeout"
	ErrorTypeGatewayError    ErrorType = "gateway_error"
	ErrorTypeCompleteFailure ErrorType = "complete_failure"
)

const DefaultCurrency = "USD"

type PaymentRequest struct {
	Amount     float64 `json:"amount" binding:"required"`
	Currency   string  `json:"currency" binding:"omitempty,len=3,alpha"`
	CustomerID string  `json:"customerId"`
}

// PaymentResult is what a single gateway returns for a successful charge.
type PaymentResult struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Gateway       string  `json:"gateway"`
}

type PaymentResponse struct {
	Success        bool    `json:"success"`
	Gateway        string  `json:"gateway"`
	TransactionID  string  `json:"transactionId"`
	Amount         float64 `json:"amount"`
	FailedGateway  string  `json:"failedGateway,omitempty"`
	RecoveryTimeMs *int64  `json:"recoveryTimeMs,omitempty"`
}

// FailoverEvent is reported to the sentinel whenever the primary gateway fails.
type FailoverEvent struct {
	EventID          string    `json:"eventId"`
	Timestamp        time.Time `json:"timestamp"`
	PrimaryGateway   string    `json:"primaryGateway"`
	SecondaryGateway string    `json:"secondaryGateway"`
	ErrorType        ErrorType `json:"errorType"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Success          bool      `json:"success"`
	RecoveryTimeMs   int64     `json:"recoveryTimeMs"`
	CustomerID       string    `json:"customerId,omitempty"`
}

type GatewayStats struct {
	Gateway     string          `json:"gateway"`
	Successes   int64           `json:"successes"`
	Failures    int64           `json:"failures"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
