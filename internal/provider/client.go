package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/config"
	"github.com/wparra-sinapsiscode/frioservice-sub001/internal/logging"
	appsignals "github.com/wparra-sinapsiscode/frioservice-sub001/internal/signals"
)

// APIClient fetches service records and the technician roster from the
// FrioService REST API and keeps the latest snapshot in memory.
//
// Concurrent fetches are not deduplicated, but every fetch carries a
// monotonic sequence number and a response is only applied when no fresher
// fetch has been applied since, so a slow early response can never overwrite
// a newer snapshot.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger

	fetchSeq atomic.Int64 // last started fetch
	inFlight atomic.Int64 // fetches currently running

	mu          sync.RWMutex
	appliedSeq  int64 // last fetch whose response was applied
	services    []ServiceRecord
	technicians []Technician
}

// NewAPIClient creates an API client from the configured connection settings
func NewAPIClient(cfg config.APIConfig) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logging.GetLogger("api-client"),
	}
}

// Services returns the current service record snapshot
func (c *APIClient) Services() []ServiceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services
}

// Technicians returns the current technician roster snapshot
func (c *APIClient) Technicians() []Technician {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.technicians
}

// IsLoading reports whether a fetch is currently in flight
func (c *APIClient) IsLoading() bool {
	return c.inFlight.Load() > 0
}

// FetchServices refreshes both snapshots from the remote API. On any failure
// the previous snapshot is left unchanged. A response arriving after a
// fresher fetch has already been applied is discarded.
func (c *APIClient) FetchServices(ctx context.Context) error {
	seq := c.fetchSeq.Add(1)
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	fetchLogger := c.logger.With().Int64("fetch_seq", seq).Logger()
	fetchLogger.Debug().Msg("Starting service fetch")

	var services []ServiceRecord
	if err := c.getJSON(ctx, "/api/services", &services); err != nil {
		fetchLogger.Error().Err(err).Msg("Failed to fetch services")
		return fmt.Errorf("failed to fetch services: %w", err)
	}

	var technicians []Technician
	if err := c.getJSON(ctx, "/api/technicians", &technicians); err != nil {
		fetchLogger.Error().Err(err).Msg("Failed to fetch technicians")
		return fmt.Errorf("failed to fetch technicians: %w", err)
	}

	c.mu.Lock()
	if seq <= c.appliedSeq {
		c.mu.Unlock()
		fetchLogger.Warn().Int64("applied_seq", c.appliedSeq).Msg("Discarding stale fetch response")
		return nil
	}
	c.appliedSeq = seq
	c.services = services
	c.technicians = technicians
	c.mu.Unlock()

	fetchLogger.Info().
		Int("service_count", len(services)).
		Int("technician_count", len(technicians)).
		Msg("Service snapshot refreshed")

	appsignals.EmitServicesRefreshed(ctx, len(services), len(technicians))
	return nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
