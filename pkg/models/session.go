package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus rappresenta lo stato del ciclo di vita di una sessione
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionError     SessionStatus = "error"
)

// DataMode indica la sorgente dei dati immobiliari per la sessione
type DataMode string

const (
	DataModeMock DataMode = "mock"
	DataModeReal DataMode = "real"
)

// Session rappresenta una conversazione con un singolo agente attivo.
// Non viene mai cancellata: lo stato passa a completed/error.
type Session struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID string    `json:"user_id,omitempty" gorm:"index"`

	CurrentAgent AgentRole     `json:"current_agent" gorm:"not null;default:'search'"`
	Status       SessionStatus `json:"status" gorm:"not null;default:'active';index"`
	DataMode     DataMode      `json:"data_mode" gorm:"not null;default:'mock'"`

	// Property in focus all'avvio della sessione (opzionale)
	PropertyID *uuid.UUID `json:"property_id,omitempty" gorm:"type:uuid"`

	// Contatore dei turni elaborati
	TurnCount int `json:"turn_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsActive verifica se la sessione accetta ancora messaggi
func (s *Session) IsActive() bool {
	return s.Status == SessionActive
}

// TableName specifica il nome della tabella
func (Session) TableName() string {
	return "sessions"
}
