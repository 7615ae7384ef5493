package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Mirror is a FileStore that serves everything from Primary and copies each
// completed write to Replica. Replica failures are logged and never fail the
// write: the local artifact is what playback and reveal depend on.
type Mirror struct {
	Primary FileStore
	Replica FileStore
}

// NewMirror returns a Mirror of primary onto replica.
func NewMirror(primary, replica FileStore) *Mirror {
	return &Mirror{Primary: primary, Replica: replica}
}

func (m *Mirror) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	return m.Primary.Read(ctx, path)
}

func (m *Mirror) Write(ctx context.Context, path string) (Writer, error) {
	w, err := m.Primary.Write(ctx, path)
	if err != nil {
		return nil, err
	}
	return &mirrorWriter{Writer: w, ctx: ctx, m: m, path: path}, nil
}

func (m *Mirror) Delete(ctx context.Context, path string) error {
	if err := m.Replica.Delete(ctx, path); err != nil {
		slog.Warn("storage: mirror delete failed", "path", path, "error", err)
	}
	return m.Primary.Delete(ctx, path)
}

func (m *Mirror) Exists(ctx context.Context, path string) (bool, error) {
	return m.Primary.Exists(ctx, path)
}

// LocalPath implements Locator when Primary does.
func (m *Mirror) LocalPath(path string) (string, bool) {
	if l, ok := m.Primary.(Locator); ok {
		return l.LocalPath(path)
	}
	return "", false
}

func (m *Mirror) replicate(ctx context.Context, path string) error {
	r, err := m.Primary.Read(ctx, path)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := m.Replica.Write(ctx, path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

type mirrorWriter struct {
	Writer
	ctx  context.Context
	m    *Mirror
	path string
}

func (w *mirrorWriter) Close() error {
	if err := w.Writer.Close(); err != nil {
		return err
	}
	if err := w.m.replicate(w.ctx, w.path); err != nil {
		slog.Warn("storage: mirror copy failed", "path", w.path, "error", fmt.Errorf("replicate: %w", err))
	}
	return nil
}

var (
	_ FileStore = (*Mirror)(nil)
	_ Locator   = (*Mirror)(nil)
)
