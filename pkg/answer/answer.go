// Package answer produces the assistant's spoken replies with an
// OpenAI-compatible chat model.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/haivivi/jarvis/pkg/buffer"
)

// DefaultHistory is the number of messages kept as conversation context.
const DefaultHistory = 20

const chatPreamble = `Hello, I am %s, You are a very accurate and advanced AI chatbot named %s which also has real-time up-to-date information.
*** Do not tell time until I ask, do not talk too much, just answer the question. ***
*** Reply in only English, even if the question is in Hindi, reply in English. ***
*** Do not provide notes in the output, just answer the question and never mention your training data. ***`

const searchPreamble = `Hello, I am %s, You are a very accurate and advanced AI chatbot named %s which has real-time up-to-date information.
*** Provide answers in a professional way, make sure to add full stops, commas, question marks, and use proper grammar. ***
*** Just answer the question from the provided data in a professional way. ***`

type message struct {
	user bool
	text string
}

// OpenAI answers chat and realtime queries and keeps a short conversation
// history shared by both.
type OpenAI struct {
	Client *openai.Client
	Model  string

	Username      string
	Assistantname string

	// Now returns the current time given to the model. Defaults to time.Now.
	Now func() time.Time

	history *buffer.RingBuffer[message]
}

// New returns an OpenAI answerer keeping size messages of history.
func New(client *openai.Client, model string, size int) *OpenAI {
	if size <= 0 {
		size = DefaultHistory
	}
	return &OpenAI{
		Client:        client,
		Model:         model,
		Username:      "User",
		Assistantname: "Jarvis",
		history:       buffer.RingN[message](size),
	}
}

// Chat answers a general query.
func (a *OpenAI) Chat(ctx context.Context, query string) (string, error) {
	return a.complete(ctx, chatPreamble, query)
}

// Search answers a query that needs up-to-date information. The model is
// given the current date and time as context.
func (a *OpenAI) Search(ctx context.Context, query string) (string, error) {
	return a.complete(ctx, searchPreamble, query)
}

// Reset forgets the conversation history.
func (a *OpenAI) Reset() {
	if a.history != nil {
		a.history.Reset()
	}
}

func (a *OpenAI) complete(ctx context.Context, preamble, query string) (string, error) {
	if a.Client == nil {
		return "", errors.New("answer: openai client not configured")
	}
	if a.history == nil {
		a.history = buffer.RingN[message](DefaultHistory)
	}

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(fmt.Sprintf(preamble, a.Username, a.Assistantname)),
		openai.SystemMessage(a.realtimeInfo()),
	}
	for _, m := range a.history.Snapshot() {
		if m.user {
			msgs = append(msgs, openai.UserMessage(m.text))
		} else {
			msgs = append(msgs, openai.AssistantMessage(m.text))
		}
	}
	msgs = append(msgs, openai.UserMessage(query))

	resp, err := a.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       a.Model,
		Messages:    msgs,
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1024),
	})
	if err != nil {
		return "", fmt.Errorf("answer: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("answer: no choices")
	}
	text := Tidy(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("answer: empty reply")
	}
	a.history.Add(message{user: true, text: query})
	a.history.Add(message{text: text})
	return text, nil
}

func (a *OpenAI) realtimeInfo() string {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	return fmt.Sprintf("Please use this real-time information if needed,\nDay: %s\nDate: %02d\nMonth: %s\nYear: %d\nTime: %02d hours :%02d minutes :%02d seconds.",
		now.Weekday(), now.Day(), now.Month(), now.Year(), now.Hour(), now.Minute(), now.Second())
}

// Tidy drops blank lines and end-of-sequence markers from a model reply.
func Tidy(s string) string {
	s = strings.ReplaceAll(s, "</s>", "")
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}
