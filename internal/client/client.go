// Package client fetches graph snapshots from the brainmap data
// service.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/spencrmartin/brainmap/internal/models"
)

// LoadState is reported while a snapshot fetch is in flight so
// callers can surface a loading indicator.
type LoadState string

const (
	LoadStarted  LoadState = "started"
	LoadFinished LoadState = "finished"
	LoadFailed   LoadState = "failed"
)

// Client fetches snapshots over HTTP. Fetches happen outside the tick
// loop; the layout engine is only (re)initialized once a fetch
// resolves.
type Client struct {
	baseURL    string
	httpClient *http.Client
	onState    func(LoadState)
}

// New creates a snapshot client. If baseURL is empty, uses the
// BRAINMAP_SERVER_URL env var or defaults to localhost:8000. onState
// may be nil.
func New(baseURL string, timeout time.Duration, onState func(LoadState)) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("BRAINMAP_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		onState:    onState,
	}
}

// Fetch retrieves the full graph snapshot from GET /api/graph.
func (c *Client) Fetch(ctx context.Context) (models.Snapshot, error) {
	c.report(LoadStarted)

	snap, err := c.fetch(ctx)
	if err != nil {
		c.report(LoadFailed)
		return models.Snapshot{}, err
	}
	c.report(LoadFinished)
	return snap, nil
}

func (c *Client) fetch(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/graph", nil)
	if err != nil {
		return snap, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return snap, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return snap, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}

	if err := json.Unmarshal(body, &snap); err != nil {
		return snap, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

func (c *Client) report(s LoadState) {
	if c.onState != nil {
		c.onState(s)
	}
}

// LoadFile reads a snapshot from a local JSON file, the offline
// equivalent of Fetch for CLI use.
func LoadFile(path string) (models.Snapshot, error) {
	var snap models.Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot file: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}
