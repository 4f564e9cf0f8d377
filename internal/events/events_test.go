package events

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type captureSink struct {
	events []Event
}

func (s *captureSink) Record(ev Event) {
	s.events = append(s.events, ev)
}

func TestEmitterFanOut(t *testing.T) {
	first := &captureSink{}
	second := &captureSink{}
	e := NewEmitter(first, second)

	e.Emit(Event{Action: ActionRouterDecision, Success: true})

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("fan-out = %d/%d events, want 1/1", len(first.events), len(second.events))
	}
	if first.events[0].Timestamp.IsZero() {
		t.Error("emitter should stamp events without a timestamp")
	}
}

func TestRingSinkRecent(t *testing.T) {
	s := NewRingSink(8)
	sessionID := uuid.New()

	for i := 0; i < 5; i++ {
		s.Record(Event{SessionID: sessionID, Detail: fmt.Sprintf("event %d", i)})
	}

	recent := s.Recent(3)
	if len(recent) != 3 {
		t.Fatalf("Recent(3) = %d events", len(recent))
	}
	// Dal più recente al più vecchio
	if recent[0].Detail != "event 4" || recent[2].Detail != "event 2" {
		t.Errorf("Recent(3) order = %q..%q", recent[0].Detail, recent[2].Detail)
	}
}

func TestRingSinkWrapsAround(t *testing.T) {
	s := NewRingSink(4)

	for i := 0; i < 10; i++ {
		s.Record(Event{Detail: fmt.Sprintf("event %d", i)})
	}

	recent := s.Recent(100)
	if len(recent) != 4 {
		t.Fatalf("Recent(100) = %d events, want capacity 4", len(recent))
	}
	if recent[0].Detail != "event 9" || recent[3].Detail != "event 6" {
		t.Errorf("ring contents = %q..%q, want newest four", recent[0].Detail, recent[3].Detail)
	}
}

func TestRingSinkEmpty(t *testing.T) {
	s := NewRingSink(4)
	if got := s.Recent(10); len(got) != 0 {
		t.Errorf("Recent() on empty ring = %d events", len(got))
	}
}
