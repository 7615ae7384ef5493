package cancel

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSignalIdempotent(t *testing.T) {
	var s Signal
	if s.IsSet() {
		t.Fatal("zero value should not be set")
	}

	s.Set()
	s.Set()
	if !s.IsSet() {
		t.Fatal("Set twice should leave signal set")
	}

	s.Clear()
	s.Clear()
	if s.IsSet() {
		t.Fatal("Clear twice should leave signal cleared")
	}
}

func TestSignalLevelTriggered(t *testing.T) {
	var s Signal
	s.Set()

	// Every later observer sees the stop until the owner resets it.
	for i := 0; i < 3; i++ {
		if !s.IsSet() {
			t.Fatalf("observer %d missed the stop", i)
		}
	}
}

func TestSignalConcurrent(t *testing.T) {
	var s Signal
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set()
		}()
		go func() {
			defer wg.Done()
			_ = s.IsSet()
		}()
	}
	wg.Wait()
	if !s.IsSet() {
		t.Fatal("signal should be set after concurrent Set calls")
	}
}

func TestWait(t *testing.T) {
	var s Signal
	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Set()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if !Wait(ctx, &s, 5*time.Millisecond) {
		t.Fatal("Wait returned before observing the signal")
	}
}

func TestWaitContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if Wait(ctx, Never, 5*time.Millisecond) {
		t.Fatal("Never should not be observed as set")
	}
}
