package minimax

import (
	"context"
	"fmt"
	"log/slog"
)

// SpeechService provides speech synthesis.
type SpeechService struct {
	client *Client
}

// Synthesize performs synchronous speech synthesis. Hex audio in the
// response is decoded into SpeechResponse.Audio.
func (s *SpeechService) Synthesize(ctx context.Context, req *SpeechRequest) (*SpeechResponse, error) {
	var apiResp struct {
		Data struct {
			Audio  string `json:"audio"`
			Status int    `json:"status"`
		} `json:"data"`
		ExtraInfo *AudioInfo `json:"extra_info"`
		TraceID   string     `json:"trace_id"`
	}
	if err := s.client.http.request(ctx, "/v1/t2a_v2", req, &apiResp); err != nil {
		return nil, err
	}

	resp := &SpeechResponse{
		ExtraInfo: apiResp.ExtraInfo,
		TraceID:   apiResp.TraceID,
	}
	if apiResp.Data.Audio == "" {
		return nil, fmt.Errorf("minimax: empty audio (trace=%s)", apiResp.TraceID)
	}
	audio, err := decodeHexAudio(apiResp.Data.Audio)
	if err != nil {
		return nil, fmt.Errorf("minimax: decode audio: %w", err)
	}
	resp.Audio = audio
	slog.Debug("minimax: speech synthesized", "model", req.Model, "text_len", len(req.Text), "audio_len", len(audio))
	return resp, nil
}
