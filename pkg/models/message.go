package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRole distingue i messaggi dell'utente da quelli dell'agente
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
)

// Message rappresenta una voce del log conversazionale di una sessione.
// Il log è append-only e ordinato per (session_id, seq).
type Message struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:idx_messages_session_seq"`
	Seq       int       `json:"seq" gorm:"not null;uniqueIndex:idx_messages_session_seq"`

	Role    MessageRole `json:"role" gorm:"not null"`
	Content string      `json:"content" gorm:"not null"`

	// Nome della persona che ha prodotto il messaggio (solo role=agent)
	AgentName string `json:"agent_name,omitempty"`

	// I messaggi pinned sopravvivono al taglio della finestra di contesto
	Pinned bool `json:"pinned" gorm:"default:false"`

	CreatedAt time.Time `json:"timestamp"`
}

// BeforeCreate hook
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName specifica il nome della tabella
func (Message) TableName() string {
	return "messages"
}
