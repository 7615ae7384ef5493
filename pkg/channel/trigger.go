package channel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/jarvis/pkg/kv"
)

// ErrMalformed is returned when a stored image request cannot be parsed.
var ErrMalformed = errors.New("channel: malformed image request")

// DefaultImageSize is used when a request does not name a size.
const DefaultImageSize = "1024x1024"

// ImageRequest is the record that triggers the image pipeline.
type ImageRequest struct {
	Prompt  string `msgpack:"prompt"`
	Pending bool   `msgpack:"pending"`
	Size    string `msgpack:"size,omitempty"`
}

// Trigger stores the single image request record.
type Trigger interface {
	// Load returns the current record. A missing record loads as inert.
	Load(ctx context.Context) (ImageRequest, error)

	// Store replaces the record.
	Store(ctx context.Context, req ImageRequest) error

	// Reset makes the record inert so it is not processed again.
	Reset(ctx context.Context) error
}

var sizePattern = regexp.MustCompile(`^(auto|\d+x\d+)$`)

// ValidSize reports whether s is "auto" or WIDTHxHEIGHT.
func ValidSize(s string) bool { return sizePattern.MatchString(s) }

// FileTrigger keeps the record in a text file as "prompt,True[,size]".
// The inert value is "False,False".
type FileTrigger struct {
	path string
}

var _ Trigger = (*FileTrigger)(nil)

// NewFileTrigger returns a file-backed trigger at path.
func NewFileTrigger(path string) *FileTrigger {
	return &FileTrigger{path: path}
}

const inertRecord = "False,False"

func (f *FileTrigger) Load(context.Context) (ImageRequest, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ImageRequest{}, nil
	}
	if err != nil {
		return ImageRequest{}, err
	}
	return ParseRecord(string(data))
}

func (f *FileTrigger) Store(_ context.Context, req ImageRequest) error {
	return f.write(FormatRecord(req))
}

func (f *FileTrigger) Reset(context.Context) error {
	return f.write(inertRecord)
}

func (f *FileTrigger) write(s string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(s), 0o644)
}

// FormatRecord renders req in the file format.
func FormatRecord(req ImageRequest) string {
	if !req.Pending {
		return inertRecord
	}
	size := req.Size
	if size == "" {
		size = DefaultImageSize
	}
	return req.Prompt + ",True," + size
}

// ParseRecord parses the file format. Fields are taken from the right so a
// prompt may itself contain commas.
func ParseRecord(s string) (ImageRequest, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ImageRequest{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return ImageRequest{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	req := ImageRequest{Size: DefaultImageSize}
	n := len(parts)
	status := parts[n-1]
	promptEnd := n - 1
	if n >= 3 && ValidSize(parts[n-1]) && isStatus(parts[n-2]) {
		status = parts[n-2]
		req.Size = parts[n-1]
		promptEnd = n - 2
	}
	if !isStatus(status) {
		return ImageRequest{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	req.Pending = status == "True"
	req.Prompt = strings.Join(parts[:promptEnd], ",")
	if req.Pending && req.Prompt == "" {
		return ImageRequest{}, fmt.Errorf("%w: empty prompt", ErrMalformed)
	}
	return req, nil
}

func isStatus(s string) bool { return s == "True" || s == "False" }

// DefaultTriggerKey is the kv key of the image request record.
var DefaultTriggerKey = kv.Key{"jarvis", "trigger", "image"}

// KVTrigger keeps the record msgpack-encoded in a kv.Store.
type KVTrigger struct {
	store kv.Store
	key   kv.Key
}

var _ Trigger = (*KVTrigger)(nil)

// NewKVTrigger returns a kv-backed trigger. A nil key uses DefaultTriggerKey.
func NewKVTrigger(store kv.Store, key kv.Key) *KVTrigger {
	if key == nil {
		key = DefaultTriggerKey
	}
	return &KVTrigger{store: store, key: key}
}

func (k *KVTrigger) Load(ctx context.Context) (ImageRequest, error) {
	data, err := k.store.Get(ctx, k.key)
	if errors.Is(err, kv.ErrNotFound) {
		return ImageRequest{}, nil
	}
	if err != nil {
		return ImageRequest{}, err
	}
	var req ImageRequest
	if err := msgpack.Unmarshal(data, &req); err != nil {
		return ImageRequest{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if req.Pending && req.Prompt == "" {
		return ImageRequest{}, fmt.Errorf("%w: empty prompt", ErrMalformed)
	}
	if req.Size == "" {
		req.Size = DefaultImageSize
	}
	return req, nil
}

func (k *KVTrigger) Store(ctx context.Context, req ImageRequest) error {
	data, err := msgpack.Marshal(&req)
	if err != nil {
		return fmt.Errorf("channel: encode image request: %w", err)
	}
	return k.store.Set(ctx, k.key, data)
}

func (k *KVTrigger) Reset(ctx context.Context) error {
	return k.Store(ctx, ImageRequest{})
}
