// Package settlement provides the HTTP client for the external settlement
// executor. The wire format of the settlement transaction itself is owned
// by that system; this client only ships the payout plan and reads back a
// transaction reference.
package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"snarkel-service/internal/domain"
)

// HTTPExecutor talks to a settlement service over JSON/REST.
//
//	POST {base}/distributions        -> {"txRef": "..."}
//	GET  {base}/distributions/{room} -> {"distributed": true|false}
type HTTPExecutor struct {
	baseURL string
	client  *http.Client
}

func NewHTTPExecutor(baseURL string, timeout time.Duration) *HTTPExecutor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPExecutor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *HTTPExecutor) SubmitPlan(ctx context.Context, plan domain.RewardDistributionPlan) (string, error) {
	body, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/distributions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("settlement rejected plan: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		TxRef string `json:"txRef"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode settlement response: %w", err)
	}
	if out.TxRef == "" {
		return "", fmt.Errorf("settlement response missing txRef")
	}
	return out.TxRef, nil
}

func (e *HTTPExecutor) Status(ctx context.Context, roomID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/distributions/"+roomID, nil)
	if err != nil {
		return false, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("query distribution status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("distribution status: status %d", resp.StatusCode)
	}

	var out struct {
		Distributed bool `json:"distributed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("decode status response: %w", err)
	}
	return out.Distributed, nil
}
