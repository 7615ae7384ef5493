package imagegen

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var imagenRatios = []string{"1:1", "4:3", "3:4", "16:9", "9:16"}

// GeminiProvider calls Imagen through the Gemini API.
type GeminiProvider struct {
	Client *genai.Client
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	resp, err := p.Client.Models.GenerateImages(ctx, req.Model, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio(req.Size, imagenRatios),
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: gemini %s: %w", req.Model, err)
	}
	for _, gi := range resp.GeneratedImages {
		if gi != nil && gi.Image != nil && len(gi.Image.ImageBytes) > 0 {
			return &Result{Data: gi.Image.ImageBytes}, nil
		}
	}
	return nil, errors.New("imagegen: gemini returned no images")
}
