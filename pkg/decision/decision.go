// Package decision classifies a user query into routing tags with an
// OpenAI-compatible chat model.
//
// A tag is a verb prefix followed by its argument, for example
// "general how are you", "realtime who won the match today",
// "open chrome" or "generate image a red fox at dawn". One query may yield
// several tags.
package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// Verbs are the recognized tag prefixes. Tags starting with anything else
// are discarded.
var Verbs = []string{
	"exit", "general", "realtime", "open", "close", "play",
	"generate", "system", "content", "google search", "youtube search",
	"reminder", "send message", "whatsapp call", "video call",
}

// DefaultPreamble instructs the model how to answer.
const DefaultPreamble = `You are a very accurate Decision-Making Model, which decides what kind of a query is given to you.
You will decide whether a query is a 'general' query, a 'realtime' query, or is asking to perform a task or automation like 'open facebook, instagram', 'can you write an application and open it in notepad'.
*** Do not answer any query, just decide what kind of query is given to you. ***
-> Respond with 'general ( query )' if a query can be answered by a llm model (conversational ai chatbot) and doesn't require any up to date information.
-> Respond with 'realtime ( query )' if a query can not be answered by a llm model (because they don't have realtime data) and requires up to date information, or asks about a specific person, event or news.
-> Respond with 'open (application name or website name)' if a query is asking to open any application like 'open facebook', 'open telegram'. If asked to open multiple applications respond with 'open 1st application name, open 2nd application name'.
-> Respond with 'close (application name)' if a query is asking to close any application.
-> Respond with 'play (song name)' if a query is asking to play any song.
-> Respond with 'generate image (image prompt)' if a query is requesting to generate an image with the given prompt. A size like 512x768 may follow the prompt.
-> Respond with 'system (task name)' if a query is asking to mute, unmute, volume up or volume down.
-> Respond with 'content (topic)' if a query is asking to write any type of content like applications, codes, emails or anything else about a specific topic.
-> Respond with 'google search (topic)' if a query is asking to search a specific topic on google.
-> Respond with 'youtube search (topic)' if a query is asking to search a specific topic on youtube.
-> Respond with 'send message (contact) (message)' if a query is asking to send a message to a contact.
-> Respond with 'whatsapp call (contact)' or 'video call (contact)' if a query is asking to call a contact.
*** If the query is asking to perform multiple tasks, respond with each task separated by a comma. ***
*** If the user is saying goodbye or wants to end the conversation like 'bye jarvis.' respond with 'exit'. ***
*** Respond with 'general (query)' if you can't decide the kind of query or if a query is asking to perform a task which is not mentioned above. ***`

// OpenAI asks a chat model for the tags.
type OpenAI struct {
	Client *openai.Client
	Model  string

	// Preamble overrides DefaultPreamble.
	Preamble string
}

// Decide returns the tags for query. A reply without any recognized tag
// yields "general <query>".
func (d *OpenAI) Decide(ctx context.Context, query string) ([]string, error) {
	if d.Client == nil {
		return nil, errors.New("decision: openai client not configured")
	}
	preamble := d.Preamble
	if preamble == "" {
		preamble = DefaultPreamble
	}
	resp, err := d.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: d.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(preamble),
			openai.UserMessage(query),
		},
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(256),
	})
	if err != nil {
		return nil, fmt.Errorf("decision: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("decision: no choices")
	}
	tags := Parse(resp.Choices[0].Message.Content, query)
	if len(tags) == 0 {
		return []string{"general " + query}, nil
	}
	return tags, nil
}

// Parse splits a model reply into tags, keeping those that start with a
// known verb. Placeholders such as "(query)" are replaced with query and
// parentheses around arguments are dropped.
func Parse(reply, query string) []string {
	reply = strings.ReplaceAll(reply, "\n", ",")
	reply = strings.ReplaceAll(reply, "(query)", query)
	reply = strings.ReplaceAll(reply, "( query )", query)
	var tags []string
	for _, part := range strings.Split(reply, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		tag = strings.NewReplacer("(", "", ")", "").Replace(tag)
		tag = strings.Join(strings.Fields(tag), " ")
		if tag == "" {
			continue
		}
		for _, v := range Verbs {
			if strings.HasPrefix(tag, v) {
				tags = append(tags, tag)
				break
			}
		}
	}
	return tags
}
