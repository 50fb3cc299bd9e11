package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/swipesavvy/location-tracking-go/internal/models"
)

const trackPath = "/merchants/location/track"

// HTTPClient is the production Client. A circuit breaker fails calls fast
// while the platform is unreachable so a burst of fixes degrades into queue
// writes instead of a pile of hanging sockets.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewHTTPClient creates a client for the platform at baseURL. apiKey may be
// empty for unauthenticated dev backends.
func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) *HTTPClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "merchant-platform",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// TrackLocation posts a location update and decodes the geofence flags from
// the response.
func (c *HTTPClient) TrackLocation(ctx context.Context, req *models.TrackLocationRequest) (*models.TrackLocationResponse, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.TrackLocationResponse), nil
}

func (c *HTTPClient) post(ctx context.Context, req *models.TrackLocationRequest) (*models.TrackLocationResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode track request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+trackPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build track request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("merchant platform returned status %d", resp.StatusCode)
	}

	var trackResp models.TrackLocationResponse
	if err := json.NewDecoder(resp.Body).Decode(&trackResp); err != nil {
		return nil, fmt.Errorf("failed to decode track response: %w", err)
	}
	return &trackResp, nil
}
