package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != dir || cfg.CurrentContext != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestContextLifecycle(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddContext("home"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddContext("home"); err == nil {
		t.Fatal("duplicate context accepted")
	}
	if err := cfg.AddContext("../evil"); err == nil {
		t.Fatal("path in context name accepted")
	}
	cfg.AddContext("work")

	names, _ := cfg.ListContexts()
	if !slices.Equal(names, []string{"home", "work"}) {
		t.Fatalf("contexts = %v", names)
	}

	if _, err := cfg.ResolveContext(""); err == nil {
		t.Fatal("resolved without a current context")
	}
	if err := cfg.UseContext("home"); err != nil {
		t.Fatal(err)
	}
	reloaded, _ := LoadFrom(cfg.Dir)
	if reloaded.CurrentContext != "home" {
		t.Fatalf("current context = %q", reloaded.CurrentContext)
	}
	if dir, err := reloaded.ResolveContext(""); err != nil || dir != cfg.ContextDir("home") {
		t.Fatalf("ResolveContext = %q, %v", dir, err)
	}

	if err := cfg.DeleteContext("home"); err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentContext != "" {
		t.Fatalf("current context after delete = %q", cfg.CurrentContext)
	}
	if err := cfg.UseContext("home"); err == nil {
		t.Fatal("used deleted context")
	}
}

func TestServiceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := &Groq{APIKey: "gsk_test", Model: "llama"}
	if err := SaveService(dir, ServiceGroq, in); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(ServicePath(dir, ServiceGroq))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("mode = %v", info.Mode().Perm())
	}

	out, err := LoadService[Groq](dir, ServiceGroq)
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	if _, err := LoadService[Groq](dir, ServiceGemini); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("missing service err = %v", err)
	}
	if v, err := LoadOptional[Gemini](dir, ServiceGemini); v != nil || err != nil {
		t.Fatalf("LoadOptional = %v, %v", v, err)
	}
}

func TestSetValue(t *testing.T) {
	dir := t.TempDir()
	if err := SetValue(dir, ServiceAssistant, "username", "Tony"); err != nil {
		t.Fatal(err)
	}
	if err := SetValue(dir, ServiceAssistant, "poll_interval", "250ms"); err != nil {
		t.Fatal(err)
	}
	a, err := LoadService[Assistant](dir, ServiceAssistant)
	if err != nil {
		t.Fatal(err)
	}
	if a.Username != "Tony" {
		t.Fatalf("assistant = %+v", a)
	}
	if d, err := a.Interval(); err != nil || d != 250*time.Millisecond {
		t.Fatalf("Interval = %v, %v", d, err)
	}

	os.WriteFile(filepath.Join(dir, "empty.yaml"), nil, 0600)
	if err := SetValue(dir, "empty", "k", "v"); err != nil {
		t.Fatalf("SetValue on empty file: %v", err)
	}

	services, _ := ListServices(dir)
	if !slices.Equal(services, []string{"assistant", "empty"}) {
		t.Fatalf("services = %v", services)
	}
}

func TestDefaults(t *testing.T) {
	a := Assistant{}.WithDefaults()
	if a.Channel != ChannelFile || a.Speech != ServiceA4F || len(a.ImageStages) != 4 {
		t.Fatalf("assistant = %+v", a)
	}
	if d, _ := a.Interval(); d != 100*time.Millisecond {
		t.Fatalf("default interval = %v", d)
	}
	if _, err := (&Assistant{PollInterval: "-1s"}).Interval(); err == nil {
		t.Fatal("negative interval accepted")
	}

	g := Groq{Model: "m"}.WithDefaults()
	if g.BaseURL != DefaultGroqURL || g.ClassifierModel != "m" || g.DecisionModel != "m" {
		t.Fatalf("groq = %+v", g)
	}
}

func TestValidateServiceName(t *testing.T) {
	for _, bad := range []string{"", "a/b", ".hidden"} {
		if ValidateServiceName(bad) == nil {
			t.Errorf("accepted %q", bad)
		}
	}
	if err := ValidateServiceName("groq"); err != nil {
		t.Fatal(err)
	}
}
