package tts

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

const (
	// longSegments is the number of "."-separated segments above which a
	// text may be shortened.
	longSegments = 4

	// longRunes is the length above which a text may be shortened.
	longRunes = 250
)

// Deflections are appended to shortened answers. One is picked at random.
var Deflections = [...]string{
	"The rest of the result has been printed to the chat screen, kindly check it out sir.",
	"The rest of the text is now on the chat screen, sir, please check it.",
	"You can see the rest of the text on the chat screen, sir.",
	"The remaining part of the text is now on the chat screen, sir.",
	"Sir, you'll find more text on the chat screen for you to see.",
	"The rest of the answer is now on the chat screen, sir.",
	"Sir, please look at the chat screen, the rest of the answer is there.",
	"You'll find the complete answer on the chat screen, sir.",
	"The next part of the text is on the chat screen, sir.",
	"Sir, please check the chat screen for more information.",
}

// Shorten returns the text to speak for text. A text that splits on "." into
// more than four segments and is longer than 250 characters becomes its
// first two segments followed by a random deflection; anything else is
// returned unchanged.
func Shorten(text string) string {
	return shorten(text, rand.IntN)
}

func shorten(text string, pick func(n int) int) string {
	segs := strings.Split(text, ".")
	if len(segs) <= longSegments || utf8.RuneCountInString(text) <= longRunes {
		return text
	}
	return segs[0] + " " + segs[1] + ". " + Deflections[pick(len(Deflections))]
}
