package imagegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/haivivi/jarvis/pkg/minimax"
)

var minimaxRatios = []string{"1:1", "16:9", "4:3", "3:2", "2:3", "3:4", "9:16", "21:9"}

// MiniMaxProvider calls the MiniMax image generation API.
type MiniMaxProvider struct {
	Client *minimax.Client
}

func (p *MiniMaxProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	model := req.Model
	if model == "" {
		model = "image-01"
	}
	resp, err := p.Client.Image.Generate(ctx, &minimax.ImageGenerateRequest{
		Model:       model,
		Prompt:      req.Prompt,
		AspectRatio: aspectRatio(req.Size, minimaxRatios),
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: minimax %s: %w", model, err)
	}
	if len(resp.Images) == 0 {
		return nil, errors.New("imagegen: minimax returned no images")
	}
	img := resp.Images[0]
	return &Result{URL: img.URL, Data: img.Data}, nil
}
