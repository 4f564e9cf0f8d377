// Package handoff registra i trasferimenti di controllo tra agenti.
package handoff

import (
	"context"
	"errors"
	"fmt"

	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAgentMismatch = errors.New("handoff from_agent does not match session current_agent")
	ErrInvalidTarget = errors.New("handoff target is not a known agent role")
)

// Recorder applica i trasferimenti in modo atomico: il record viene
// accodato e current_agent aggiornato nella stessa transazione, senza
// stati intermedi in cui i due divergono.
type Recorder struct {
	db *database.DB
}

// NewRecorder crea un recorder
func NewRecorder(db *database.DB) *Recorder {
	return &Recorder{db: db}
}

// Record trasferisce il controllo della sessione a `to`.
// Invariante verificato al momento dell'append: from_agent coincide
// con current_agent letto dentro la transazione.
func (r *Recorder) Record(ctx context.Context, sessionID uuid.UUID, from, to models.AgentRole, reason string) (*models.HandoffRecord, error) {
	if !to.Valid() {
		return nil, ErrInvalidTarget
	}

	var record *models.HandoffRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			return fmt.Errorf("session load failed: %w", err)
		}

		if session.CurrentAgent != from {
			return fmt.Errorf("%w: current=%s from=%s", ErrAgentMismatch, session.CurrentAgent, from)
		}

		var count int64
		if err := tx.Model(&models.HandoffRecord{}).
			Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
			return fmt.Errorf("handoff count failed: %w", err)
		}

		record = &models.HandoffRecord{
			SessionID: sessionID,
			Seq:       int(count) + 1,
			FromAgent: from,
			ToAgent:   to,
			Reason:    reason,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("handoff append failed: %w", err)
		}

		if err := tx.Model(&models.Session{}).
			Where("id = ?", sessionID).
			Update("current_agent", to).Error; err != nil {
			return fmt.Errorf("current agent update failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// History restituisce i trasferimenti della sessione in ordine di append
func (r *Recorder) History(ctx context.Context, sessionID uuid.UUID) ([]models.HandoffRecord, error) {
	var records []models.HandoffRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("handoff history read failed: %w", err)
	}
	return records, nil
}
