package minimax

import (
	"context"
	"encoding/base64"
	"fmt"
)

// ImageService provides image generation.
type ImageService struct {
	client *Client
}

// Generate generates images from text. With ResponseFormat "base64" the
// images are returned decoded in ImageData.Data; otherwise as URLs that
// expire after a while.
func (s *ImageService) Generate(ctx context.Context, req *ImageGenerateRequest) (*ImageResponse, error) {
	var resp struct {
		ID   string `json:"id"`
		Data struct {
			ImageURLs   []string `json:"image_urls"`
			ImageBase64 []string `json:"image_base64"`
		} `json:"data"`
	}
	if err := s.client.http.request(ctx, "/v1/image_generation", req, &resp); err != nil {
		return nil, err
	}

	out := &ImageResponse{ID: resp.ID}
	for _, u := range resp.Data.ImageURLs {
		out.Images = append(out.Images, ImageData{URL: u})
	}
	for i, b := range resp.Data.ImageBase64 {
		data, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, fmt.Errorf("minimax: decode image %d: %w", i, err)
		}
		out.Images = append(out.Images, ImageData{Data: data})
	}
	return out, nil
}
