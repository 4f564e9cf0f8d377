package handoff

import (
	"context"
	"errors"
	"testing"

	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
)

func newSession(t *testing.T, db *database.DB, current models.AgentRole) *models.Session {
	t.Helper()
	session := &models.Session{
		CurrentAgent: current,
		Status:       models.SessionActive,
		DataMode:     models.DataModeMock,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestRecordUpdatesCurrentAgent(t *testing.T) {
	db := testDB(t)
	defer db.Close()

	r := NewRecorder(db)
	session := newSession(t, db, models.AgentSearch)
	ctx := context.Background()

	record, err := r.Record(ctx, session.ID, models.AgentSearch, models.AgentProperty, models.HandoffReasonRouter)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if record.Seq != 1 {
		t.Errorf("record.Seq = %d, want 1", record.Seq)
	}
	if record.FromAgent != models.AgentSearch || record.ToAgent != models.AgentProperty {
		t.Errorf("record = %s -> %s", record.FromAgent, record.ToAgent)
	}

	var reloaded models.Session
	if err := db.First(&reloaded, "id = ?", session.ID).Error; err != nil {
		t.Fatalf("session reload failed: %v", err)
	}
	if reloaded.CurrentAgent != models.AgentProperty {
		t.Errorf("current_agent = %s, want property", reloaded.CurrentAgent)
	}
}

func TestRecordRejectsMismatchedFrom(t *testing.T) {
	db := testDB(t)
	defer db.Close()

	r := NewRecorder(db)
	session := newSession(t, db, models.AgentSearch)
	ctx := context.Background()

	_, err := r.Record(ctx, session.ID, models.AgentScheduling, models.AgentProperty, "stale handoff")
	if !errors.Is(err, ErrAgentMismatch) {
		t.Fatalf("Record() error = %v, want ErrAgentMismatch", err)
	}

	// Niente stato intermedio: nessun record e current_agent invariato
	records, err := r.History(ctx, session.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("History() = %d records, want 0", len(records))
	}

	var reloaded models.Session
	db.First(&reloaded, "id = ?", session.ID)
	if reloaded.CurrentAgent != models.AgentSearch {
		t.Errorf("current_agent = %s, want search", reloaded.CurrentAgent)
	}
}

func TestRecordRejectsInvalidTarget(t *testing.T) {
	db := testDB(t)
	defer db.Close()

	r := NewRecorder(db)
	session := newSession(t, db, models.AgentSearch)

	_, err := r.Record(context.Background(), session.ID, models.AgentSearch, models.AgentRole("concierge"), "bad target")
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("Record() error = %v, want ErrInvalidTarget", err)
	}
}

func TestRecordChainKeepsOrder(t *testing.T) {
	db := testDB(t)
	defer db.Close()

	r := NewRecorder(db)
	session := newSession(t, db, models.AgentSearch)
	ctx := context.Background()

	steps := []struct{ from, to models.AgentRole }{
		{models.AgentSearch, models.AgentProperty},
		{models.AgentProperty, models.AgentScheduling},
		{models.AgentScheduling, models.AgentSearch},
	}
	for _, step := range steps {
		if _, err := r.Record(ctx, session.ID, step.from, step.to, models.HandoffReasonRouter); err != nil {
			t.Fatalf("Record(%s -> %s) error = %v", step.from, step.to, err)
		}
	}

	records, err := r.History(ctx, session.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != len(steps) {
		t.Fatalf("History() = %d records, want %d", len(records), len(steps))
	}
	for i, record := range records {
		if record.Seq != i+1 {
			t.Errorf("records[%d].Seq = %d, want %d", i, record.Seq, i+1)
		}
		if record.FromAgent != steps[i].from || record.ToAgent != steps[i].to {
			t.Errorf("records[%d] = %s -> %s, want %s -> %s", i, record.FromAgent, record.ToAgent, steps[i].from, steps[i].to)
		}
	}

	// Ogni record parte dall'agente su cui è arrivato il precedente
	for i := 1; i < len(records); i++ {
		if records[i].FromAgent != records[i-1].ToAgent {
			t.Errorf("handoff chain broken at %d", i)
		}
	}
}
