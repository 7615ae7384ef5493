package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIProvider calls an OpenAI-compatible images endpoint, such as A4F.
type OpenAIProvider struct {
	Client *openai.Client
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	size := req.Size
	if size == "" {
		size = "1024x1024"
	}
	resp, err := p.Client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(req.Model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	if err != nil {
		return nil, fmt.Errorf("imagegen: openai %s: %w", req.Model, err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("imagegen: openai returned no images")
	}
	img := resp.Data[0]
	if img.URL != "" {
		return &Result{URL: img.URL}, nil
	}
	if img.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("imagegen: decode openai image: %w", err)
		}
		return &Result{Data: data}, nil
	}
	return nil, errors.New("imagegen: openai image has neither url nor data")
}
