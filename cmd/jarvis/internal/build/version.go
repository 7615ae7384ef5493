// Package build holds build-time version information injected via ldflags.
//
//	go build -ldflags "-X github.com/haivivi/jarvis/cmd/jarvis/internal/build.Version=v0.3.0 \
//	  -X github.com/haivivi/jarvis/cmd/jarvis/internal/build.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/haivivi/jarvis/cmd/jarvis/internal/build.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package build

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the structured form of the build information.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
	Target  string `json:"target" yaml:"target"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
		Go:      runtime.Version(),
		Target:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line version string.
func String() string {
	return fmt.Sprintf("jarvis %s (%s) built %s %s/%s",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
