package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ragioni standard per i trasferimenti di controllo
const (
	HandoffReasonRouter = "router decision"
)

// HandoffRecord registra un trasferimento di controllo tra agenti.
// Invariante: from_agent deve coincidere con current_agent della sessione
// nell'istante immediatamente precedente all'append.
type HandoffRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SessionID uuid.UUID `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:idx_handoffs_session_seq"`
	Seq       int       `json:"seq" gorm:"not null;uniqueIndex:idx_handoffs_session_seq"`

	FromAgent AgentRole `json:"from_agent" gorm:"not null"`
	ToAgent   AgentRole `json:"to_agent" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"not null"`

	CreatedAt time.Time `json:"timestamp"`
}

// BeforeCreate hook
func (h *HandoffRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName specifica il nome della tabella
func (HandoffRecord) TableName() string {
	return "handoffs"
}
