package imagegen

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrNoProviders is returned by Pipeline.Validate when neither a stage nor a
// fallback is configured.
var ErrNoProviders = errors.New("imagegen: no providers configured")

// Request is a single-image generation request.
type Request struct {
	Model  string
	Prompt string

	// Size is "WIDTHxHEIGHT" or "auto".
	Size string
}

// Result is a generated image, either as a URL to download or as bytes.
type Result struct {
	URL  string
	Data []byte
}

// Provider generates one image.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (*Result, error)

func (f ProviderFunc) Generate(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// Stage is one entry of the Stage A chain.
type Stage struct {
	// Name identifies the provider in logs, e.g. "a4f".
	Name     string
	Provider Provider
	Model    string
}

// Fallback is the Stage B service. Open returns the image body; the caller
// reads and closes it.
type Fallback interface {
	Open(ctx context.Context, prompt string, width, height, seed int) (io.ReadCloser, error)
}

// Dimensions parses size. "auto", empty and malformed sizes give 1024x1024.
func Dimensions(size string) (width, height int) {
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return 1024, 1024
	}
	width, err1 := strconv.Atoi(w)
	height, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return 1024, 1024
	}
	return width, height
}

// aspectRatio maps size onto the closest of ratios, given as "W:H".
func aspectRatio(size string, ratios []string) string {
	w, h := Dimensions(size)
	target := float64(w) / float64(h)
	best, bestDiff := ratios[0], -1.0
	for _, r := range ratios {
		a, b, _ := strings.Cut(r, ":")
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		if y == 0 {
			continue
		}
		diff := float64(x)/float64(y) - target
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = r, diff
		}
	}
	return best
}
