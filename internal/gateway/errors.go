package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
)

type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindProcessing  ErrorKind = "processing"
	KindCircuitOpen ErrorKind = "circuit_open"
)

// GatewayError is the failure of one charge attempt against one gateway.
type GatewayError struct {
	Gateway string
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Gateway, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Gateway, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Classify maps a failed primary attempt to the error type carried by its failover event.
func Classify(err error) models.ErrorType {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) && gwErr.Kind == KindTimeout {
		return models.ErrorTypeNetworkTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ErrorTypeNetworkTimeout
	}
	return models.ErrorTypeGatewayError
}
