package minimax

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type httpClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
}

func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		apiKey:     cfg.apiKey,
		maxRetries: cfg.maxRetries,
	}
}

// baseResp is the status envelope every MiniMax response carries.
type baseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

// request POSTs body as JSON and decodes the response into result, retrying
// transient failures with exponential backoff.
func (h *httpClient) request(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("minimax: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := h.do(ctx, path, data, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return err
		}
		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return err
		}
	}
	return lastErr
}

func (h *httpClient) do(ctx context.Context, path string, data []byte, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("minimax: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("minimax: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("minimax: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return parseError(body, resp.StatusCode)
	}

	var env struct {
		BaseResp *baseResp `json:"base_resp"`
		TraceID  string    `json:"trace_id"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.BaseResp != nil && env.BaseResp.StatusCode != 0 {
		return &Error{
			StatusCode: env.BaseResp.StatusCode,
			StatusMsg:  env.BaseResp.StatusMsg,
			TraceID:    env.TraceID,
			HTTPStatus: resp.StatusCode,
		}
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("minimax: unmarshal response: %w", err)
	}
	return nil
}

func parseError(body []byte, httpStatus int) error {
	var env struct {
		BaseResp *baseResp `json:"base_resp"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.BaseResp != nil {
		return &Error{
			StatusCode: env.BaseResp.StatusCode,
			StatusMsg:  env.BaseResp.StatusMsg,
			HTTPStatus: httpStatus,
		}
	}
	return &Error{
		StatusCode: httpStatus,
		StatusMsg:  strings.TrimSpace(string(body)),
		HTTPStatus: httpStatus,
	}
}

func decodeHexAudio(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\n", "")
	return hex.DecodeString(s)
}
