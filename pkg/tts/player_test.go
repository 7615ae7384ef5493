package tts

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

func TestCommandPlayerStop(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	p := CommandPlayer{Command: "sleep"}
	pb, err := p.Start(context.Background(), "10")
	if err != nil {
		t.Fatal(err)
	}
	pb.Stop()
	pb.Stop()
	select {
	case <-pb.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not end playback")
	}
	if err := pb.Err(); err != nil {
		t.Fatalf("stopped playback Err = %v", err)
	}
}

func TestCommandPlayerFinishes(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	pb, err := CommandPlayer{Command: "true"}.Start(context.Background(), "x.mp3")
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-pb.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("playback never finished")
	}
	if err := pb.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}
}

func TestCommandPlayerMissing(t *testing.T) {
	if _, err := (CommandPlayer{}).Start(context.Background(), "x"); err == nil {
		t.Fatal("expected error without command")
	}
	if _, err := (CommandPlayer{Command: "/nonexistent/player"}).Start(context.Background(), "x"); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
