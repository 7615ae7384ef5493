package channel

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/haivivi/jarvis/pkg/kv"
)

// Text is the shared input channel. Implementations must be safe for
// concurrent use within the process.
type Text interface {
	// Read returns the current trimmed content. A missing channel reads as "".
	Read(ctx context.Context) (string, error)

	// Write replaces the content.
	Write(ctx context.Context, text string) error

	// Clear empties the channel.
	Clear(ctx context.Context) error

	// ClearIf empties the channel only if it still holds text, and reports
	// whether it did.
	ClearIf(ctx context.Context, text string) (bool, error)
}

// File is a Text kept in a single file on disk.
type File struct {
	path string

	// mu serializes compare-and-clear against writes from this process.
	// Writers in other processes are not covered.
	mu sync.Mutex
}

var _ Text = (*File)(nil)

// NewFile returns a file-backed channel at path. The parent directory is
// created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

func (f *File) Read(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLocked()
}

func (f *File) readLocked() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *File) Write(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeLocked(text)
}

func (f *File) writeLocked(text string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(text), 0o644)
}

func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeLocked("")
}

func (f *File) ClearIf(_ context.Context, text string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, err := f.readLocked()
	if err != nil {
		return false, err
	}
	if cur != strings.TrimSpace(text) {
		return false, nil
	}
	return true, f.writeLocked("")
}

// DefaultTextKey is the kv key of the input channel.
var DefaultTextKey = kv.Key{"jarvis", "channel", "input"}

// KVText is a Text kept under one key of a kv.Store.
type KVText struct {
	store kv.Store
	key   kv.Key
}

var _ Text = (*KVText)(nil)

// NewKVText returns a kv-backed channel. A nil key uses DefaultTextKey.
func NewKVText(store kv.Store, key kv.Key) *KVText {
	if key == nil {
		key = DefaultTextKey
	}
	return &KVText{store: store, key: key}
}

func (k *KVText) Read(ctx context.Context) (string, error) {
	v, err := k.store.Get(ctx, k.key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(v)), nil
}

func (k *KVText) Write(ctx context.Context, text string) error {
	return k.store.Set(ctx, k.key, []byte(text))
}

func (k *KVText) Clear(ctx context.Context) error {
	return k.store.Delete(ctx, k.key)
}

// ClearIf compares against the stored bytes, so it only matches text written
// without surrounding whitespace.
func (k *KVText) ClearIf(ctx context.Context, text string) (bool, error) {
	return k.store.CompareAndDelete(ctx, k.key, []byte(text))
}
