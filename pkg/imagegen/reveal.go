package imagegen

import (
	"context"

	"github.com/pkg/browser"
)

// Revealer shows a produced artifact to the user.
type Revealer interface {
	Reveal(ctx context.Context, path string) error
}

// RevealerFunc adapts a function to Revealer.
type RevealerFunc func(ctx context.Context, path string) error

func (f RevealerFunc) Reveal(ctx context.Context, path string) error { return f(ctx, path) }

// BrowserRevealer opens files with the desktop's default handler.
type BrowserRevealer struct{}

func (BrowserRevealer) Reveal(_ context.Context, path string) error {
	return browser.OpenFile(path)
}
