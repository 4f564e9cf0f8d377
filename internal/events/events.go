// Package events emette lo stream di osservabilità consumato dalla
// dashboard esterna: un evento per ogni decisione di routing, ogni
// tentativo di tier e ogni trasferimento di controllo.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Azioni note degli eventi
const (
	ActionRouterDecision = "router_decision"
	ActionTierAttempt    = "tier_attempt"
	ActionHandoff        = "handoff"
	ActionTurnCompleted  = "turn_completed"
	ActionSessionStarted = "session_started"
	ActionSessionEnded   = "session_ended"
)

// Event è il record osservabile di un passo dell'orchestrazione
type Event struct {
	SessionID uuid.UUID     `json:"session_id"`
	AgentName string        `json:"agent_name"`
	Action    string        `json:"action"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Timestamp time.Time     `json:"timestamp"`

	// Dettaglio libero, es. tier o keyword che ha deciso il routing
	Detail string `json:"detail,omitempty"`
}

// Sink riceve gli eventi emessi
type Sink interface {
	Record(Event)
}

// Emitter distribuisce ogni evento a tutti i sink registrati
type Emitter struct {
	sinks []Sink
}

// NewEmitter crea un emitter con i sink indicati
func NewEmitter(sinks ...Sink) *Emitter {
	return &Emitter{sinks: sinks}
}

// Emit completa l'evento e lo distribuisce
func (e *Emitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	for _, sink := range e.sinks {
		sink.Record(ev)
	}
}
