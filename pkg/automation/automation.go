// Package automation performs the desktop actions named by decision tags.
// Web-reachable actions open a URL in the default browser; the rest are
// logged as unsupported.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pkg/browser"
)

// ErrUnsupported is returned by Action for verbs this runtime cannot
// perform.
var ErrUnsupported = errors.New("automation: unsupported action")

// Opener opens a URL.
type Opener interface {
	OpenURL(u string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(u string) error

func (f OpenerFunc) OpenURL(u string) error { return f(u) }

type browserOpener struct{}

func (browserOpener) OpenURL(u string) error { return browser.OpenURL(u) }

// Browser runs automation tags through a URL opener.
type Browser struct {
	// Opener defaults to the system browser.
	Opener Opener
}

// Run performs every tag. Failures are logged and joined; a failed tag
// does not prevent the others.
func (b *Browser) Run(ctx context.Context, tags []string) error {
	var errs []error
	for _, tag := range tags {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u, err := Action(tag)
		if errors.Is(err, ErrUnsupported) {
			slog.Info("automation: unsupported", "tag", tag)
			continue
		}
		if err != nil || u == "" {
			continue
		}
		slog.Info("automation: open", "tag", tag, "url", u)
		if err := b.opener().OpenURL(u); err != nil {
			errs = append(errs, fmt.Errorf("automation: %s: %w", tag, err))
		}
	}
	return errors.Join(errs...)
}

func (b *Browser) opener() Opener {
	if b.Opener == nil {
		return browserOpener{}
	}
	return b.Opener
}

// Action maps a tag to the URL that performs it. Tags for other components
// ("general", "realtime", "generate", "exit") map to "" without error.
func Action(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	switch {
	case strings.HasPrefix(tag, "open "):
		return openTarget(strings.TrimSpace(strings.TrimPrefix(tag, "open "))), nil
	case strings.HasPrefix(tag, "play "):
		return youtube(strings.TrimPrefix(tag, "play ")), nil
	case strings.HasPrefix(tag, "google search "):
		return google(strings.TrimPrefix(tag, "google search ")), nil
	case strings.HasPrefix(tag, "youtube search "):
		return youtube(strings.TrimPrefix(tag, "youtube search ")), nil
	case hasAnyPrefix(tag, "close", "system", "content", "send message", "whatsapp call", "video call", "reminder"):
		return "", ErrUnsupported
	default:
		return "", nil
	}
}

var knownSites = map[string]string{
	"youtube":   "https://www.youtube.com",
	"google":    "https://www.google.com",
	"facebook":  "https://www.facebook.com",
	"instagram": "https://www.instagram.com",
	"whatsapp":  "https://web.whatsapp.com",
	"gmail":     "https://mail.google.com",
	"chatgpt":   "https://chatgpt.com",
	"github":    "https://github.com",
	"spotify":   "https://open.spotify.com",
	"telegram":  "https://web.telegram.org",
}

// openTarget resolves an app or site name. Names with a dot are taken as
// domains; unknown names become a web search.
func openTarget(name string) string {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	if u, ok := knownSites[name]; ok {
		return u
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	if strings.Contains(name, ".") && !strings.Contains(name, " ") {
		return "https://" + name
	}
	return google(name)
}

func google(q string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(strings.TrimSpace(q))
}

func youtube(q string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(strings.TrimSpace(q))
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
