package models

import (
	"time"

	"github.com/google/uuid"
)

// AgentResponse rappresenta l'esito di un singolo turno conversazionale.
// Immutabile dopo la creazione: esattamente una per chiamata esterna.
type AgentResponse struct {
	SessionID uuid.UUID `json:"session_id"`

	Message      string    `json:"message"`
	AgentName    string    `json:"agent_name"`
	CurrentAgent AgentRole `json:"current_agent"`

	// Da 0 a 4 azioni suggerite, stringhe brevi
	SuggestedActions []string `json:"suggested_actions"`

	// Confidenza in (0,1]: 0.85 per risposte remote, 0.75 per fallback
	Confidence float64 `json:"confidence"`

	Timestamp time.Time `json:"timestamp"`
}
