package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/stopintent"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("JARVIS_CONFIG_DIR", dir)
	globalConfig = nil
	t.Cleanup(func() { globalConfig = nil })
	return dir
}

// setupContext creates and selects a context named "test" and returns its
// directory.
func setupContext(t *testing.T) string {
	t.Helper()
	dir := setupTestEnv(t)
	mustRun(t, "config", "add-context", "test")
	mustRun(t, "config", "use-context", "test")
	return filepath.Join(dir, "contexts", "test")
}

func runCmd(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	var outBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&outBuf)
	rootCmd.SetArgs(args)

	verbose = false
	contextName = ""
	globalConfig = nil

	err := rootCmd.Execute()
	stdout = outBuf.String()
	if err != nil {
		exitCode = 1
		stderr = err.Error()
	}

	resetFlags(rootCmd)
	return
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, code := runCmd(t, args...)
	if code != 0 {
		t.Fatalf("%s: exit %d: %s", strings.Join(args, " "), code, stderr)
	}
	return stdout
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Changed = false
		f.Value.Set(f.DefValue)
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestVersion(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "version")
	if !strings.Contains(stdout, "jarvis") {
		t.Fatalf("expected 'jarvis', got: %s", stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "version", "--format", "json")
	if !strings.Contains(stdout, `"version"`) {
		t.Fatalf("expected JSON, got: %s", stdout)
	}
}

func TestConfigContextLifecycle(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "config", "list-contexts")
	if !strings.Contains(stdout, "No contexts") {
		t.Fatalf("expected 'No contexts', got: %s", stdout)
	}

	stdout = mustRun(t, "config", "add-context", "home")
	if !strings.Contains(stdout, "created") {
		t.Fatalf("expected 'created', got: %s", stdout)
	}
	if _, stderr, code := runCmd(t, "config", "add-context", "home"); code == 0 || !strings.Contains(stderr, "already exists") {
		t.Fatalf("duplicate add: exit %d, stderr %q", code, stderr)
	}

	stdout = mustRun(t, "config", "current-context")
	if !strings.Contains(stdout, "No current context") {
		t.Fatalf("expected no current context, got: %s", stdout)
	}
	mustRun(t, "config", "use-context", "home")
	stdout = mustRun(t, "config", "current-context")
	if strings.TrimSpace(stdout) != "home" {
		t.Fatalf("current-context = %q, want home", stdout)
	}

	stdout = mustRun(t, "config", "ls")
	if !strings.Contains(stdout, "*") || !strings.Contains(stdout, "home") {
		t.Fatalf("list-contexts = %q", stdout)
	}

	mustRun(t, "config", "delete-context", "home")
	stdout = mustRun(t, "config", "current-context")
	if !strings.Contains(stdout, "No current context") {
		t.Fatalf("deleting the current context should unset it, got: %s", stdout)
	}
}

func TestConfigSetGet(t *testing.T) {
	setupContext(t)

	stdout := mustRun(t, "config", "set", "test", "groq", "api_key", "gsk_1234567890abcdef")
	if strings.Contains(stdout, "gsk_1234567890abcdef") {
		t.Fatalf("set printed the secret: %s", stdout)
	}

	stdout = mustRun(t, "config", "get", "test", "groq", "api_key")
	if strings.Contains(stdout, "gsk_1234567890abcdef") {
		t.Fatalf("get printed the secret without --show-secrets: %s", stdout)
	}
	stdout = mustRun(t, "config", "get", "test", "groq", "api_key", "--show-secrets")
	if strings.TrimSpace(stdout) != "gsk_1234567890abcdef" {
		t.Fatalf("get --show-secrets = %q", stdout)
	}

	if _, _, code := runCmd(t, "config", "set", "test", "nope", "k", "v"); code == 0 {
		t.Fatal("expected failure for unknown service")
	}
	if _, _, code := runCmd(t, "config", "get", "test", "groq", "missing"); code == 0 {
		t.Fatal("expected failure for missing key")
	}
}

func TestClassifyOffline(t *testing.T) {
	setupTestEnv(t)

	tests := []struct {
		text string
		want string
	}{
		{"jarvis stop", "stop: true"},
		{"what time is it", "stop: false"},
		{stopintent.Sentinel, "sentinel: true"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			stdout := mustRun(t, "classify", "--offline", tt.text)
			if !strings.Contains(stdout, tt.want) {
				t.Fatalf("classify %q = %q, want %q", tt.text, stdout, tt.want)
			}
		})
	}
}

func TestStopWritesSentinel(t *testing.T) {
	dir := setupContext(t)

	stdout := mustRun(t, "stop")
	if !strings.Contains(stdout, "Stop command sent") {
		t.Fatalf("unexpected output: %s", stdout)
	}
	data, err := os.ReadFile(filepath.Join(dir, "data", "input.data"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != stopintent.Sentinel {
		t.Fatalf("channel = %q, want sentinel", data)
	}
}

func TestStopWithoutContext(t *testing.T) {
	setupTestEnv(t)

	_, stderr, code := runCmd(t, "stop")
	if code == 0 {
		t.Fatal("expected failure without a context")
	}
	if !strings.Contains(stderr, "no current context") {
		t.Fatalf("unexpected error: %s", stderr)
	}
}

func TestImageRequest(t *testing.T) {
	dir := setupContext(t)

	mustRun(t, "image", "--request", "--size", "512x512", "a", "red", "fox")
	data, err := os.ReadFile(filepath.Join(dir, "data", "ImageGeneration.data"))
	if err != nil {
		t.Fatal(err)
	}
	req, err := channel.ParseRecord(string(data))
	if err != nil {
		t.Fatal(err)
	}
	if req.Prompt != "a red fox" || !req.Pending || req.Size != "512x512" {
		t.Fatalf("stored request = %+v", req)
	}
}

func TestImageInvalidSize(t *testing.T) {
	setupContext(t)

	_, stderr, code := runCmd(t, "image", "--size", "huge", "cat")
	if code == 0 {
		t.Fatal("expected failure for invalid size")
	}
	if !strings.Contains(stderr, "invalid size") {
		t.Fatalf("unexpected error: %s", stderr)
	}
}

func TestSayWithoutSpeech(t *testing.T) {
	setupContext(t)

	_, stderr, code := runCmd(t, "say", "hello")
	if code == 0 {
		t.Fatal("expected failure without a speech service")
	}
	if !strings.Contains(stderr, "speech is not configured") {
		t.Fatalf("unexpected error: %s", stderr)
	}
}
