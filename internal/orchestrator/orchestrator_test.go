package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/biodoia/goestate/internal/agents"
	"github.com/biodoia/goestate/internal/chain"
	"github.com/biodoia/goestate/internal/events"
	"github.com/biodoia/goestate/internal/handoff"
	"github.com/biodoia/goestate/internal/listings"
	"github.com/biodoia/goestate/internal/memory"
	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/internal/providers/static"
	"github.com/biodoia/goestate/internal/router"
	"github.com/biodoia/goestate/internal/scheduling"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/google/uuid"
)

// downProvider simula un provider remoto/locale fuori servizio
type downProvider struct {
	kind providers.FailureKind
}

func (p *downProvider) Name() string { return "down" }

func (p *downProvider) Complete(_ context.Context, _ *providers.CompletionRequest) (*providers.Completion, error) {
	return nil, providers.NewFailure(p.kind, "down", nil)
}

type testRig struct {
	orch  *Orchestrator
	store listings.Store
	feed  *events.RingSink
	db    *database.DB
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	calendar := scheduling.New(config.SchedulingConfig{
		WeekdaySlots:  []string{"10:00 AM", "2:00 PM", "4:00 PM"},
		WeekendSlots:  []string{"9:00 AM", "11:00 AM"},
		LookaheadDays: 7,
	})
	calendar.SetClock(func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) })

	ch := chain.New(
		&downProvider{kind: providers.FailureNetwork},
		&downProvider{kind: providers.FailureUnavailable},
		static.New(),
		10,
	)
	executor := agents.NewExecutor(ch, agents.NewPromptBuilder(calendar, 3), calendar, 512, 0.7)

	facts := memory.NewFactStore(db, nil)
	mem := memory.NewManager(db, 20, facts)
	store := listings.NewMockStore(database.MiamiProperties())
	feed := events.NewRingSink(128)
	emitter := events.NewEmitter(feed)

	orch := New(db, mem, router.New(), handoff.NewRecorder(db), executor, emitter, store, 3, models.DataModeMock)
	return &testRig{orch: orch, store: store, feed: feed, db: db}
}

func (r *testRig) anyPropertyID(t *testing.T) uuid.UUID {
	t.Helper()
	all, err := r.store.Search(context.Background(), models.SearchCriteria{Limit: 1})
	if err != nil || len(all) == 0 {
		t.Fatalf("catalog lookup failed: %v", err)
	}
	return all[0].ID
}

func TestStartSessionDefaults(t *testing.T) {
	rig := newTestRig(t)

	session, err := rig.orch.StartSession(context.Background(), StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if session.CurrentAgent != models.AgentSearch {
		t.Errorf("current agent = %s, want search", session.CurrentAgent)
	}
	if !session.IsActive() {
		t.Error("new session should be active")
	}
	if session.DataMode != models.DataModeMock {
		t.Errorf("data mode = %s, want mock", session.DataMode)
	}
}

func TestStartSessionWithProperty(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()
	propertyID := rig.anyPropertyID(t)

	session, err := rig.orch.StartSession(ctx, StartOptions{PropertyID: &propertyID})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if session.CurrentAgent != models.AgentProperty {
		t.Errorf("current agent = %s, want property", session.CurrentAgent)
	}

	// La property di interesse viene memorizzata come fatto pinned
	history, err := rig.orch.GetHistory(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 1 || !history[0].Pinned {
		t.Fatalf("history = %+v, want one pinned fact", history)
	}
}

func TestStartSessionRejectsBadInput(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	if _, err := rig.orch.StartSession(ctx, StartOptions{AgentMode: "concierge"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("StartSession(bad mode) error = %v, want ErrInvalidInput", err)
	}

	unknown := uuid.New()
	if _, err := rig.orch.StartSession(ctx, StartOptions{PropertyID: &unknown}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("StartSession(bad property) error = %v, want ErrInvalidInput", err)
	}
}

func TestSendMessageValidation(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	if _, err := rig.orch.SendMessage(ctx, uuid.New(), "hello", nil); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SendMessage(unknown session) error = %v, want ErrSessionNotFound", err)
	}

	session, err := rig.orch.StartSession(ctx, StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if _, err := rig.orch.SendMessage(ctx, session.ID, "   ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SendMessage(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestSendMessageAlwaysAnswers(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	session, err := rig.orch.StartSession(ctx, StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	// Remoto e locale sono giù: ogni turno deve comunque rispondere
	turns := []string{"hello", "I'm looking for a 2 bedroom", "how about the price?"}
	for _, turn := range turns {
		response, err := rig.orch.SendMessage(ctx, session.ID, turn, nil)
		if err != nil {
			t.Fatalf("SendMessage(%q) error = %v", turn, err)
		}
		if response.Message == "" {
			t.Errorf("SendMessage(%q) returned empty message", turn)
		}
		if response.SessionID != session.ID {
			t.Errorf("response session = %s, want %s", response.SessionID, session.ID)
		}
	}

	// Ogni turno accoda il messaggio utente e quello dell'agente
	history, err := rig.orch.GetHistory(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != len(turns)*2 {
		t.Errorf("history = %d messages, want %d", len(history), len(turns)*2)
	}

	reloaded, err := rig.orch.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if reloaded.TurnCount != len(turns) {
		t.Errorf("turn count = %d, want %d", reloaded.TurnCount, len(turns))
	}
}

func TestImplicitHandoff(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	session, err := rig.orch.StartSession(ctx, StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	response, err := rig.orch.SendMessage(ctx, session.ID, "I'd like to visit tomorrow", nil)
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if response.CurrentAgent != models.AgentScheduling {
		t.Errorf("response agent = %s, want scheduling", response.CurrentAgent)
	}
	if response.AgentName != "Mike" {
		t.Errorf("agent name = %q, want Mike", response.AgentName)
	}

	reloaded, err := rig.orch.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if reloaded.CurrentAgent != models.AgentScheduling {
		t.Errorf("session agent = %s, want scheduling", reloaded.CurrentAgent)
	}
}

func TestEndSession(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	session, err := rig.orch.StartSession(ctx, StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if err := rig.orch.EndSession(ctx, session.ID); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	reloaded, err := rig.orch.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if reloaded.Status != models.SessionCompleted {
		t.Errorf("status = %s, want completed", reloaded.Status)
	}

	// La sessione chiusa resiste: storia leggibile, messaggi rifiutati
	if _, err := rig.orch.GetHistory(ctx, session.ID); err != nil {
		t.Errorf("GetHistory() after close error = %v", err)
	}
	if _, err := rig.orch.SendMessage(ctx, session.ID, "hello?", nil); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("SendMessage() after close error = %v, want ErrSessionClosed", err)
	}

	// Chiudere due volte è innocuo
	if err := rig.orch.EndSession(ctx, session.ID); err != nil {
		t.Errorf("second EndSession() error = %v", err)
	}
}

func TestMemoryWriteFailureDegradesTurn(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	session, err := rig.orch.StartSession(ctx, StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	// Storage dei messaggi indisponibile: append e finestra falliscono
	if err := rig.db.Migrator().DropTable(&models.Message{}); err != nil {
		t.Fatalf("failed to drop messages table: %v", err)
	}

	response, err := rig.orch.SendMessage(ctx, session.ID, "I'm looking for a 2 bedroom", nil)
	if err != nil {
		t.Fatalf("SendMessage() error = %v, want a degraded answer", err)
	}
	if response.Message == "" {
		t.Error("degraded turn returned an empty message")
	}
	if response.Confidence <= 0 || response.Confidence > 1 {
		t.Errorf("confidence = %v, want in (0,1]", response.Confidence)
	}

	// Il turno viene comunque conteggiato sulla sessione
	reloaded, err := rig.orch.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if reloaded.TurnCount != 1 {
		t.Errorf("turn count = %d, want 1", reloaded.TurnCount)
	}
}

func TestEndSessionReleasesTurnLock(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	session, err := rig.orch.StartSession(ctx, StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if _, err := rig.orch.SendMessage(ctx, session.ID, "hello", nil); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	rig.orch.mu.Lock()
	held := len(rig.orch.locks)
	rig.orch.mu.Unlock()
	if held != 1 {
		t.Fatalf("locks held = %d, want 1", held)
	}

	if err := rig.orch.EndSession(ctx, session.ID); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	rig.orch.mu.Lock()
	held = len(rig.orch.locks)
	rig.orch.mu.Unlock()
	if held != 0 {
		t.Errorf("locks held after close = %d, want 0", held)
	}
}

func TestSearchTurnRemembersPreferences(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	session, err := rig.orch.StartSession(ctx, StartOptions{UserID: "client-42"})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if _, err := rig.orch.SendMessage(ctx, session.ID, "looking for a 2 bedroom apartment in miami beach under $6000", nil); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	facts, err := memory.NewFactStore(rig.db, nil).Recall(ctx, "client-42")
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if facts["preferred_city"] != "miami beach" {
		t.Errorf("preferred_city = %q", facts["preferred_city"])
	}
	if facts["min_bedrooms"] != "2" {
		t.Errorf("min_bedrooms = %q", facts["min_bedrooms"])
	}
	if facts["max_price"] != "6000" {
		t.Errorf("max_price = %q", facts["max_price"])
	}
}

func TestTurnEmitsEvents(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	session, err := rig.orch.StartSession(ctx, StartOptions{})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if _, err := rig.orch.SendMessage(ctx, session.ID, "hello", nil); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	seen := make(map[string]bool)
	for _, ev := range rig.feed.Recent(100) {
		seen[ev.Action] = true
	}
	for _, want := range []string{
		events.ActionSessionStarted,
		events.ActionRouterDecision,
		events.ActionTierAttempt,
		events.ActionTurnCompleted,
	} {
		if !seen[want] {
			t.Errorf("missing %s event in feed", want)
		}
	}
}
