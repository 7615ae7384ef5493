// Package kv provides the small key-value store behind the assistant's
// shared records (the input channel and the image request record) when they
// are not kept in plain files.
//
// Keys are hierarchical paths (e.g. ["jarvis", "channel", "input"]) encoded
// with a configurable separator (default ':'). A BadgerDB-backed store gives
// a durable, multi-goroutine-safe backend; [Memory] serves tests.
package kv

import (
	"bytes"
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical path represented as a slice of string segments.
// Segments must not contain the configured separator.
type Key []string

// String returns the key joined with ':' for display.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Store is a key-value store with path-based keys.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. No error if the key does not exist.
	Delete(ctx context.Context, key Key) error

	// CompareAndDelete atomically removes key if its current value equals
	// old. It reports whether the key was removed.
	CompareAndDelete(ctx context.Context, key Key, old []byte) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}

// DefaultSeparator joins key segments when encoding to storage.
const DefaultSeparator byte = ':'

// Options configures store behavior.
type Options struct {
	// Separator joins key segments. Default is ':' if zero.
	Separator byte
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

func (o *Options) encode(k Key) []byte {
	var buf bytes.Buffer
	for i, seg := range k {
		if i > 0 {
			buf.WriteByte(o.sep())
		}
		buf.WriteString(seg)
	}
	return buf.Bytes()
}
