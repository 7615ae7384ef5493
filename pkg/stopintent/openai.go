package stopintent

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultPrompt is the instruction given to the judge. %q is replaced with
// the utterance.
const DefaultPrompt = `You are an AI assistant analyzer. Your job is to determine if a user's sentence contains a command to stop an AI assistant (like Jarvis) from speaking or performing a task.

Analyze this sentence: %q

Consider these scenarios:
- "stop" or "jarvis stop" or "stop talking" = TRUE (command to stop assistant)
- "stop the music" or "stop playing" = TRUE (command to stop assistant actions)
- "I need to stop at the store" = FALSE (not a command to assistant)
- "The stop sign was red" = FALSE (not a command to assistant)
- "Stop what you're doing" = TRUE (command to stop assistant)
- "Can you stop please" = TRUE (command to stop assistant)

Respond with only "TRUE" if this is a command to stop the assistant, or "FALSE" if it's just normal conversation containing the word "stop" but not meant as a command.`

// OpenAIJudge asks an OpenAI-compatible chat model (Groq, OpenAI, ...) to
// judge an utterance.
type OpenAIJudge struct {
	Client *openai.Client
	Model  string

	// Prompt overrides DefaultPrompt. It must contain one %q verb.
	Prompt string
}

var _ Judge = (*OpenAIJudge)(nil)

// Judge implements Judge.
func (j *OpenAIJudge) Judge(ctx context.Context, text string) (string, error) {
	if j.Client == nil {
		return "", errors.New("stopintent: openai client not configured")
	}
	prompt := j.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	resp, err := j.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       j.Model,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(fmt.Sprintf(prompt, text))},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(10),
	})
	if err != nil {
		return "", fmt.Errorf("stopintent: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("stopintent: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
