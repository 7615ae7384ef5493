package assistant

import "testing"

func TestTransitions(t *testing.T) {
	var m machine
	if m.current() != Idle {
		t.Fatalf("initial state = %s", m.current())
	}
	for _, s := range []State{Dispatched, Automating, ImageGenerating, Answering, Idle} {
		if err := m.transition(s); err != nil {
			t.Fatal(err)
		}
	}

	if err := m.transition(Answering); err == nil {
		t.Fatal("idle -> answering accepted")
	}
	m.transition(Dispatched)
	m.transition(Answering)
	if err := m.transition(Automating); err == nil {
		t.Fatal("answering -> automating accepted")
	}
	if err := m.transition(Answering); err != nil {
		t.Fatalf("same-state transition: %v", err)
	}
}

func TestStateString(t *testing.T) {
	if ImageGenerating.String() != "image-generating" || State(42).String() != "state(42)" {
		t.Fatal("unexpected state names")
	}
}
