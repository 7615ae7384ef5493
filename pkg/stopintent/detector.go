package stopintent

import (
	"context"
	"strings"
)

// Sentinel is the reserved channel value meaning "stop unconditionally".
const Sentinel = "STOP_COMMAND_FOR_ASSISTANT"

// Verdict is the outcome of Detect for one utterance.
type Verdict struct {
	Text string

	// Stop reports whether the utterance is a stop command.
	Stop bool

	// Sentinel reports whether the utterance was the reserved marker.
	Sentinel bool
}

// Detector applies the sentinel check and the "stop" pre-filter before
// consulting the classifier.
type Detector struct {
	Classifier *Classifier
}

// NewDetector returns a Detector using c. A nil c classifies with the
// heuristic only.
func NewDetector(c *Classifier) *Detector {
	return &Detector{Classifier: c}
}

// Detect classifies text. Only utterances containing "stop" reach the
// classifier.
func (d *Detector) Detect(ctx context.Context, text string) Verdict {
	text = strings.TrimSpace(text)
	v := Verdict{Text: text}
	switch {
	case text == "":
	case text == Sentinel:
		v.Stop, v.Sentinel = true, true
	case strings.Contains(strings.ToLower(text), "stop"):
		v.Stop = d.Classifier.Classify(ctx, text)
	}
	return v
}
