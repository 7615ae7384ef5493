package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultPollinationsURL is the public Pollinations image endpoint.
	DefaultPollinationsURL = "https://image.pollinations.ai/prompt/"

	// DefaultFallbackTimeout bounds a single fallback request.
	DefaultFallbackTimeout = 30 * time.Second
)

// Pollinations is the keyless Stage B service.
type Pollinations struct {
	// BaseURL defaults to DefaultPollinationsURL.
	BaseURL string

	// HTTPClient defaults to a client with DefaultFallbackTimeout.
	HTTPClient *http.Client
}

func (p *Pollinations) Open(ctx context.Context, prompt string, width, height, seed int) (io.ReadCloser, error) {
	base := p.BaseURL
	if base == "" {
		base = DefaultPollinationsURL
	}
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultFallbackTimeout}
	}

	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("seed", strconv.Itoa(seed))
	u := base + url.PathEscape(prompt) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("imagegen: pollinations request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagegen: pollinations: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("imagegen: pollinations: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
