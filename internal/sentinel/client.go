package sentinel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-failover/internal/models"
	"github.com/akylbek/payment-system/payment-failover/internal/telemetry"
)

// Client posts failover events to the API Sentinel analytics endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Report(ctx context.Context, event models.FailoverEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal failover event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create sentinel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	telemetry.Logger.Debug("Reporting to API Sentinel",
		zap.String("event_id", event.EventID),
		zap.String("error_type", string(event.ErrorType)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.SentinelReports.WithLabelValues("http", "error").Inc()
		return fmt.Errorf("post failover event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		telemetry.SentinelReports.WithLabelValues("http", "rejected").Inc()
		return fmt.Errorf("sentinel returned status %d", resp.StatusCode)
	}

	telemetry.SentinelReports.WithLabelValues("http", "ok").Inc()
	return nil
}
