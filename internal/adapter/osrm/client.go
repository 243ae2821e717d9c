// Package osrm implements road routing against an OSRM HTTP server.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/transfer-center/internal/domain"
	"github.com/couchcryptid/transfer-center/internal/observability"
)

// Client implements domain.RoadRouter using the OSRM route service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an OSRM routing client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// Route requests the fastest driving route between two points. OSRM reports
// distance in meters and duration in seconds; both are converted to the
// kilometers and minutes the rest of the service works in.
func (c *Client) Route(ctx context.Context, origin, destination domain.Location) (domain.RoadRoute, error) {
	// OSRM uses lon,lat order.
	u := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.RoadRoute{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RoutingRequests.WithLabelValues("error").Inc()
		return domain.RoadRoute{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.RoutingDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.RoutingRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.RoadRoute{}, fmt.Errorf("osrm API error: status %d: %s", resp.StatusCode, body)
	}

	var osrmResp response
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		c.metrics.RoutingRequests.WithLabelValues("error").Inc()
		return domain.RoadRoute{}, fmt.Errorf("decode response: %w", err)
	}

	if osrmResp.Code != "Ok" || len(osrmResp.Routes) == 0 {
		c.metrics.RoutingRequests.WithLabelValues("error").Inc()
		return domain.RoadRoute{}, fmt.Errorf("osrm returned no route: code %q", osrmResp.Code)
	}

	c.metrics.RoutingRequests.WithLabelValues("success").Inc()
	r := osrmResp.Routes[0]
	return domain.RoadRoute{
		DistanceKM:      r.Distance / 1000.0,
		DurationMinutes: r.Duration / 60.0,
	}, nil
}

// OSRM API response types.

type response struct {
	Code   string  `json:"code"`
	Routes []route `json:"routes"`
}

type route struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
}
