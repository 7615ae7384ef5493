// Package minimax is a small client for the two MiniMax endpoints the
// assistant uses: text-to-image (/v1/image_generation) and synchronous
// text-to-audio (/v1/t2a_v2).
//
// # Basic Usage
//
//	client := minimax.NewClient("your-api-key", minimax.WithTimeout(60*time.Second))
//
//	img, err := client.Image.Generate(ctx, &minimax.ImageGenerateRequest{
//	    Model:  "image-01",
//	    Prompt: "a lighthouse at dusk",
//	    N:      1,
//	})
//
//	speech, err := client.Speech.Synthesize(ctx, &minimax.SpeechRequest{
//	    Model:        "speech-02-turbo",
//	    Text:         "Hello Sir!",
//	    VoiceSetting: &minimax.VoiceSetting{VoiceID: "male-qn-qingse"},
//	})
//
// # Error Handling
//
// API failures are returned as *Error; use AsError to inspect them:
//
//	if e, ok := minimax.AsError(err); ok && e.IsRateLimit() {
//	    // back off
//	}
//
// Rate-limit and server errors are retried with exponential backoff
// (see WithRetry).
package minimax
