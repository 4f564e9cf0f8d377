// Package memory gestisce la memoria conversazionale: log messaggi
// per sessione con finestra di contesto limitata e fatti durevoli
// per utente. Le scritture di una stessa sessione sono serializzate
// dall'orchestratore, mai da questo package.
package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/google/uuid"
)

// Manager possiede il log messaggi e lo store dei fatti
type Manager struct {
	db *database.DB

	// Dimensione della finestra di contesto in messaggi
	window int

	facts *FactStore
}

// NewManager crea un manager con la finestra configurata
func NewManager(db *database.DB, window int, facts *FactStore) *Manager {
	if window < 1 {
		window = 20
	}
	return &Manager{db: db, window: window, facts: facts}
}

// Facts espone lo store dei fatti durevoli
func (m *Manager) Facts() *FactStore {
	return m.facts
}

// Append accoda un messaggio al log della sessione.
// Il chiamante garantisce l'assenza di scrittori concorrenti
// sulla stessa sessione, quindi seq = count+1 è sicuro.
func (m *Manager) Append(ctx context.Context, sessionID uuid.UUID, role models.MessageRole, content, agentName string) (*models.Message, error) {
	return m.append(ctx, sessionID, role, content, agentName, false)
}

// AppendPinned accoda un messaggio che sopravvive al taglio della finestra
func (m *Manager) AppendPinned(ctx context.Context, sessionID uuid.UUID, role models.MessageRole, content, agentName string) (*models.Message, error) {
	return m.append(ctx, sessionID, role, content, agentName, true)
}

func (m *Manager) append(ctx context.Context, sessionID uuid.UUID, role models.MessageRole, content, agentName string, pinned bool) (*models.Message, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(&models.Message{}).
		Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("message count failed: %w", err)
	}

	msg := &models.Message{
		SessionID: sessionID,
		Seq:       int(count) + 1,
		Role:      role,
		Content:   content,
		AgentName: agentName,
		Pinned:    pinned,
	}
	if err := m.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("message append failed: %w", err)
	}
	return msg, nil
}

// History restituisce l'intero log della sessione in ordine di seq
func (m *Manager) History(ctx context.Context, sessionID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := m.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("history read failed: %w", err)
	}
	return messages, nil
}

// Window ricostruisce la finestra di contesto: i messaggi più recenti
// entro la dimensione configurata, più tutti i messaggi pinned anche
// se più vecchi della finestra. L'ordine per seq è preservato.
func (m *Manager) Window(ctx context.Context, sessionID uuid.UUID) ([]models.Message, error) {
	all, err := m.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ApplyWindow(all, m.window), nil
}

// Count restituisce la lunghezza del log della sessione
func (m *Manager) Count(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var count int64
	err := m.db.WithContext(ctx).Model(&models.Message{}).
		Where("session_id = ?", sessionID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("message count failed: %w", err)
	}
	return int(count), nil
}

// ApplyWindow taglia il log alla finestra indicata: si parte dai
// messaggi più recenti e i pinned più vecchi rientrano al posto dei
// non-pinned più vecchi della finestra. La lunghezza del risultato
// non supera mai window.
func ApplyWindow(all []models.Message, window int) []models.Message {
	if len(all) <= window {
		return all
	}

	kept := make([]models.Message, 0, window)
	kept = append(kept, all[len(all)-window:]...)

	for i := len(all) - window - 1; i >= 0; i-- {
		if !all[i].Pinned {
			continue
		}
		// Sfratta il non-pinned più vecchio per fare posto al pinned
		evicted := false
		for j := 0; j < len(kept); j++ {
			if !kept[j].Pinned {
				kept = append(kept[:j], kept[j+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			break
		}
		kept = append(kept, all[i])
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Seq < kept[j].Seq })
	return kept
}
