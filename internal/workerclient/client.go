// Package workerclient is the typed HTTP client C4 uses to reach C3's RPC
// surface, grounded on the same JSON-over-HTTP contract internal/worker
// exposes.
package workerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/momentumlabs/docflow/internal/worker"
)

// Dispatch is the C4→C3 call budget: spec.md fixes StartProcessing at a
// hard 10s timeout.
const Dispatch = 10 * time.Second

// Client calls a single C3 instance's RPC surface over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// StartProcessing calls C3.StartProcessing with a 10s deadline; a shorter
// deadline or cancellation already on ctx still applies.
func (c *Client) StartProcessing(ctx context.Context, req worker.StartProcessingRequest) (worker.Accepted, error) {
	ctx, cancel := context.WithTimeout(ctx, Dispatch)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return worker.Accepted{}, fmt.Errorf("workerclient: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc/start-processing", bytes.NewReader(body))
	if err != nil {
		return worker.Accepted{}, fmt.Errorf("workerclient: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return worker.Accepted{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var rpcErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&rpcErr)
		return worker.Accepted{}, fmt.Errorf("%w: %s (status %d)", ErrRPC, rpcErr.Message, resp.StatusCode)
	}

	var accepted worker.Accepted
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return worker.Accepted{}, fmt.Errorf("workerclient: decode response: %w", err)
	}

	return accepted, nil
}
