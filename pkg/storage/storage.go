// Package storage defines the FileStore interface the assistant keeps its
// artifacts in: synthesized speech files and generated images.
//
// Local disk is the primary backend because audio players and image viewers
// need a real path (see [Locator]). An S3-compatible bucket can mirror the
// local store so artifacts survive the machine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing. The file becomes visible when
	// the returned Writer is closed; Abort discards it instead.
	Write(ctx context.Context, path string) (Writer, error)

	// Delete removes the named file.
	// If the file does not exist, Delete returns nil (idempotent).
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Writer is an artifact being written.
type Writer interface {
	io.WriteCloser

	// Abort discards everything written. Calling Close after Abort, or
	// Abort after Close, is a no-op for the second call.
	Abort() error
}

// Locator is implemented by stores that keep files on the local filesystem.
type Locator interface {
	// LocalPath returns the filesystem path of the named file.
	LocalPath(path string) (string, bool)
}

// ErrNotLocal is returned by LocalPath when the store has no local copy.
var ErrNotLocal = errors.New("storage: not a local store")

// LocalPath resolves path through fs if it is a Locator.
func LocalPath(fs FileStore, path string) (string, error) {
	l, ok := fs.(Locator)
	if !ok {
		return "", ErrNotLocal
	}
	p, ok := l.LocalPath(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotLocal, path)
	}
	return p, nil
}

// Put writes data to path in one call.
func Put(ctx context.Context, fs FileStore, path string, data []byte) error {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", path, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		return fmt.Errorf("storage: put %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: put %s: %w", path, err)
	}
	return nil
}
