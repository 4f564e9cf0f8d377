package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LongTermFact rappresenta un fatto durevole associato a un utente.
// Scritto opportunisticamente dagli agenti, letto all'avvio sessione.
type LongTermFact struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID string    `json:"user_id" gorm:"not null;uniqueIndex:idx_facts_user_key"`
	Key    string    `json:"key" gorm:"not null;uniqueIndex:idx_facts_user_key"`
	Value  string    `json:"value" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook
func (f *LongTermFact) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName specifica il nome della tabella
func (LongTermFact) TableName() string {
	return "long_term_facts"
}
