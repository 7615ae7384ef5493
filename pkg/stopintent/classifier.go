package stopintent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Judge answers whether text is a stop command. The returned string is the
// raw model reply; the classifier only accepts the literal tokens TRUE and
// FALSE.
type Judge interface {
	Judge(ctx context.Context, text string) (string, error)
}

// JudgeFunc adapts a function to the Judge interface.
type JudgeFunc func(ctx context.Context, text string) (string, error)

// Judge implements Judge.
func (f JudgeFunc) Judge(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Reply tokens accepted from a judge.
const (
	TokenTrue  = "TRUE"
	TokenFalse = "FALSE"
)

// DefaultJudgeTimeout bounds a single judge call.
const DefaultJudgeTimeout = 10 * time.Second

// ErrUnexpectedReply is returned by ParseReply for anything other than the
// two accepted tokens.
var ErrUnexpectedReply = errors.New("stopintent: unexpected judge reply")

// Heuristic is the local fallback: true iff the lower-cased text contains
// "stop" and either "jarvis" or "assistant".
func Heuristic(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "stop") &&
		(strings.Contains(t, "jarvis") || strings.Contains(t, "assistant"))
}

// ParseReply maps a judge reply onto a verdict. Surrounding whitespace and
// letter case are ignored.
func ParseReply(reply string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(reply)) {
	case TokenTrue:
		return true, nil
	case TokenFalse:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnexpectedReply, reply)
	}
}

// Classifier turns an utterance into a stop verdict. A nil Judge means only
// the heuristic is used.
type Classifier struct {
	Judge   Judge
	Timeout time.Duration
}

// NewClassifier returns a classifier backed by judge. judge may be nil.
func NewClassifier(judge Judge) *Classifier {
	return &Classifier{Judge: judge, Timeout: DefaultJudgeTimeout}
}

// Classify reports whether text is a stop command for the assistant. It
// never fails: judge errors and malformed replies fall back to [Heuristic].
func (c *Classifier) Classify(ctx context.Context, text string) bool {
	if c == nil || c.Judge == nil {
		return Heuristic(text)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultJudgeTimeout
	}
	jctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := c.Judge.Judge(jctx, text)
	if err != nil {
		slog.Warn("stopintent: judge failed, using heuristic", "text", text, "error", err)
		return Heuristic(text)
	}
	ok, err := ParseReply(reply)
	if err != nil {
		slog.Warn("stopintent: judge reply rejected, using heuristic", "text", text, "error", err)
		return Heuristic(text)
	}
	slog.Debug("stopintent: judged", "text", text, "stop", ok)
	return ok
}
