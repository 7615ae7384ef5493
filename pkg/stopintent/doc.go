// Package stopintent decides whether an utterance is a command for the
// assistant to stop.
//
// Plain substring matching on "stop" misfires in conversation ("I need to
// stop at the store"), so ambiguous utterances go to a remote [Judge], a small
// language-model call that must answer exactly TRUE or FALSE. Any judge
// failure falls back to [Heuristic]; classification never returns an error.
//
// [Detector] layers the reserved sentinel marker and the cheap "contains
// stop" pre-filter on top of the [Classifier]:
//
//	d := stopintent.NewDetector(stopintent.NewClassifier(judge))
//	if v := d.Detect(ctx, text); v.Stop {
//	    signal.Set()
//	}
package stopintent
