package assistant

import (
	"strings"

	"github.com/haivivi/jarvis/pkg/channel"
)

var questionWords = []string{
	"how", "what", "who", "where", "when", "why", "which", "whose", "whom",
	"can you", "what's", "wh",
}

// QueryModifier normalizes an utterance: lower-cased and trimmed, ending in
// "?" when it contains a question word and "." otherwise.
func QueryModifier(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}
	end := "."
	for _, w := range questionWords {
		if strings.Contains(q, w+" ") {
			end = "?"
			break
		}
	}
	if strings.ContainsAny(q[len(q)-1:], ".?!") {
		q = q[:len(q)-1]
	}
	return q + end
}

// AutomationVerbs are the tag prefixes handled by the automation
// collaborator.
var AutomationVerbs = []string{
	"open", "close", "play", "system", "content",
	"google search", "youtube search", "send message", "whatsapp call", "video call",
}

// Plan is the routing decision for one list of decision tags.
type Plan struct {
	// Automation is set when a tag starts with an automation verb.
	Automation bool

	// Image is the image prompt of the last "generate" tag.
	Image     string
	ImageSize string

	// Realtime is set when any tag is a realtime query; Merged then holds
	// the general and realtime queries joined by " and ".
	Realtime bool
	Merged   string

	// General is the first general query.
	General string

	// Exit is set when an exit tag comes before any general tag.
	Exit bool
}

// PlanTags routes a list of decision tags.
func PlanTags(tags []string) Plan {
	var p Plan
	var merged []string
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if !p.Automation && hasAnyPrefix(tag, AutomationVerbs) {
			p.Automation = true
		}
		if strings.Contains(tag, "generate ") {
			p.Image, p.ImageSize = imagePrompt(tag)
		}
		if strings.HasPrefix(tag, "general") || strings.HasPrefix(tag, "realtime") {
			if _, rest, ok := strings.Cut(tag, " "); ok {
				merged = append(merged, strings.TrimSpace(rest))
			}
		}
		if strings.HasPrefix(tag, "realtime") {
			p.Realtime = true
		}
		if p.General == "" && !p.Exit {
			switch {
			case strings.HasPrefix(tag, "general "):
				p.General = strings.TrimSpace(strings.TrimPrefix(tag, "general "))
			case tag == "exit" || strings.HasPrefix(tag, "exit "):
				p.Exit = true
			}
		}
	}
	p.Merged = strings.Join(merged, " and ")
	return p
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// imagePrompt extracts the prompt and an optional trailing size from a
// "generate image <prompt> [WxH]" tag.
func imagePrompt(tag string) (prompt, size string) {
	_, rest, _ := strings.Cut(tag, "generate ")
	rest = strings.TrimSpace(rest)
	for _, p := range []string{"images ", "image "} {
		if strings.HasPrefix(rest, p) {
			rest = strings.TrimSpace(strings.TrimPrefix(rest, p))
			break
		}
	}
	size = channel.DefaultImageSize
	if i := strings.LastIndexByte(rest, ' '); i > 0 && channel.ValidSize(rest[i+1:]) {
		size = rest[i+1:]
		rest = strings.TrimSpace(rest[:i])
	}
	return rest, size
}
