// Package orchestrator compone router, memoria, handoff ed executor
// nella pipeline per turno ed espone il ciclo di vita delle sessioni.
// Un'istanza viene costruita all'avvio e passata per riferimento ai
// gestori delle richieste: nessuno stato globale nascosto.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/biodoia/goestate/internal/agents"
	"github.com/biodoia/goestate/internal/chain"
	"github.com/biodoia/goestate/internal/events"
	"github.com/biodoia/goestate/internal/handoff"
	"github.com/biodoia/goestate/internal/listings"
	"github.com/biodoia/goestate/internal/memory"
	"github.com/biodoia/goestate/internal/router"
	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Orchestrator possiede le sessioni e serializza i turni per sessione.
// Sessioni distinte procedono in parallelo senza coordinazione.
type Orchestrator struct {
	db       *database.DB
	memory   *memory.Manager
	router   *router.Router
	handoffs *handoff.Recorder
	executor *agents.Executor
	emitter  *events.Emitter
	store    listings.Store

	// Limite di risultati di ricerca iniettati nel contesto
	maxResults int
	// Data mode di default per le nuove sessioni
	defaultMode models.DataMode

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// New crea l'orchestratore
func New(db *database.DB, mem *memory.Manager, rt *router.Router, rec *handoff.Recorder, exec *agents.Executor, emitter *events.Emitter, store listings.Store, maxResults int, defaultMode models.DataMode) *Orchestrator {
	if maxResults < 1 {
		maxResults = 3
	}
	if defaultMode == "" {
		defaultMode = models.DataModeMock
	}
	return &Orchestrator{
		db:          db,
		memory:      mem,
		router:      rt,
		handoffs:    rec,
		executor:    exec,
		emitter:     emitter,
		store:       store,
		maxResults:  maxResults,
		defaultMode: defaultMode,
		locks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

// StartOptions sono i parametri di avvio sessione
type StartOptions struct {
	AgentMode  string
	PropertyID *uuid.UUID
	UserID     string
}

// StartSession crea una sessione attiva. Con una property iniziale il
// controllo parte dall'agente property, altrimenti dalla ricerca.
func (o *Orchestrator) StartSession(ctx context.Context, opts StartOptions) (*models.Session, error) {
	if opts.AgentMode != "" && !models.AgentRole(opts.AgentMode).Valid() {
		return nil, fmt.Errorf("%w: unknown agent mode %q", ErrInvalidInput, opts.AgentMode)
	}

	var property *models.Property
	if opts.PropertyID != nil {
		p, err := o.store.GetByID(ctx, *opts.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("%w: property %s", ErrInvalidInput, *opts.PropertyID)
		}
		property = p
	}

	current := models.AgentSearch
	switch {
	case opts.AgentMode != "":
		current = models.AgentRole(opts.AgentMode)
	case property != nil:
		current = models.AgentProperty
	}

	session := &models.Session{
		UserID:       opts.UserID,
		CurrentAgent: current,
		Status:       models.SessionActive,
		DataMode:     o.defaultMode,
		PropertyID:   opts.PropertyID,
	}
	if err := o.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("session create failed: %w", err)
	}

	if property != nil {
		// Fatto pinned: la property di interesse resta nel contesto
		// anche quando il log supera la finestra
		if _, err := o.memory.AppendPinned(ctx, session.ID, models.RoleAgent, "Client is interested in "+property.FormattedAddress, current.Persona()); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("Pinned fact write failed")
		}
	}

	o.emitter.Emit(events.Event{
		SessionID: session.ID,
		AgentName: current.Persona(),
		Action:    events.ActionSessionStarted,
		Success:   true,
	})

	return session, nil
}

// SendMessage elabora un turno. Per una sessione valida restituisce
// sempre una AgentResponse: i fallimenti dei provider sono recuperati
// dalla catena, quelli di memoria degradano il turno.
func (o *Orchestrator) SendMessage(ctx context.Context, sessionID uuid.UUID, text string, propertyContext *models.Property) (*models.AgentResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}

	// Ordine stretto di arrivo entro la sessione
	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := o.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, ErrSessionClosed
	}

	turnStart := time.Now()

	convCtx := o.buildContext(ctx, session, propertyContext)

	if _, err := o.memory.Append(ctx, session.ID, models.RoleUser, text, ""); err != nil {
		// Il turno prosegue senza il messaggio appena accodato
		log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("User message append failed, degrading turn")
	}

	// Routing
	routeStart := time.Now()
	decision := o.router.Decide(text, convCtx)
	o.emitter.Emit(events.Event{
		SessionID: session.ID,
		AgentName: decision.Role.Persona(),
		Action:    events.ActionRouterDecision,
		Duration:  time.Since(routeStart),
		Success:   true,
		Detail:    decision.Reason(),
	})

	// Handoff implicito guidato dal router
	current := session.CurrentAgent
	if decision.Role != current {
		if _, err := o.handoffs.Record(ctx, session.ID, current, decision.Role, models.HandoffReasonRouter); err != nil {
			log.Error().Err(err).Str("session_id", session.ID.String()).Msg("Implicit handoff failed")
		} else {
			o.emitHandoff(session.ID, current, decision.Role)
			current = decision.Role
		}
	}

	// Risultati di ricerca per l'agente search
	if current == models.AgentSearch {
		criteria := listings.ParseIntent(text)
		criteria.Limit = o.maxResults
		results, err := o.store.Search(ctx, criteria)
		if err != nil {
			log.Warn().Err(err).Msg("Property search failed, executing without results")
		} else {
			convCtx.SearchResults = results
		}
		o.rememberPreferences(ctx, session.UserID, criteria)
	}

	response := o.executor.Execute(ctx, current, text, convCtx, o.attemptObserver(session.ID, current))
	response.SessionID = session.ID

	// Handoff esplicito richiesto dall'agente nel testo generato
	cleaned, directive := handoff.ExtractDirective(response.Message)
	response.Message = cleaned
	if directive != nil && directive.To != current {
		if _, err := o.handoffs.Record(ctx, session.ID, current, directive.To, directive.Reason); err != nil {
			log.Error().Err(err).Str("session_id", session.ID.String()).Msg("Explicit handoff failed")
		} else {
			o.emitHandoff(session.ID, current, directive.To)
			current = directive.To
			response.CurrentAgent = current
		}
	}

	if _, err := o.memory.Append(ctx, session.ID, models.RoleAgent, response.Message, response.AgentName); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("Agent message append failed, degrading turn")
	}

	if err := o.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", session.ID).
		Update("turn_count", gorm.Expr("turn_count + 1")).Error; err != nil {
		log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("Turn count update failed")
	}

	o.emitter.Emit(events.Event{
		SessionID: session.ID,
		AgentName: response.AgentName,
		Action:    events.ActionTurnCompleted,
		Duration:  time.Since(turnStart),
		Success:   true,
	})

	return response, nil
}

// EndSession chiude la sessione. Mai cancellata: status a completed.
func (o *Orchestrator) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	// Serializzato con i turni in corso; a sessione chiusa il mutex
	// del turno non serve più e viene rimosso dalla mappa
	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	defer o.releaseLock(sessionID)

	session, err := o.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.IsActive() {
		return nil
	}

	if err := o.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("status", models.SessionCompleted).Error; err != nil {
		return fmt.Errorf("session close failed: %w", err)
	}

	o.emitter.Emit(events.Event{
		SessionID: sessionID,
		AgentName: session.CurrentAgent.Persona(),
		Action:    events.ActionSessionEnded,
		Success:   true,
	})
	return nil
}

// GetHistory restituisce il log completo della sessione
func (o *Orchestrator) GetHistory(ctx context.Context, sessionID uuid.UUID) ([]models.Message, error) {
	if _, err := o.loadSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return o.memory.History(ctx, sessionID)
}

// GetSession restituisce la sessione
func (o *Orchestrator) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	return o.loadSession(ctx, sessionID)
}

// buildContext ricostruisce il bundle effimero del turno. Ogni pezzo
// mancante degrada a vuoto senza bloccare il turno.
func (o *Orchestrator) buildContext(ctx context.Context, session *models.Session, propertyContext *models.Property) *models.ConversationContext {
	convCtx := &models.ConversationContext{
		UserID:          session.UserID,
		DataMode:        session.DataMode,
		PropertyContext: propertyContext,
	}

	if convCtx.PropertyContext == nil && session.PropertyID != nil {
		if p, err := o.store.GetByID(ctx, *session.PropertyID); err == nil {
			convCtx.PropertyContext = p
		}
	}

	if history, err := o.memory.Window(ctx, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("Context window read failed")
	} else {
		convCtx.History = history
		convCtx.FirstMessage = len(history) == 0
	}

	if records, err := o.handoffs.History(ctx, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("Handoff history read failed")
	} else {
		convCtx.HandoffHistory = records
	}

	if session.UserID != "" {
		if facts, err := o.memory.Facts().Recall(ctx, session.UserID); err != nil {
			log.Warn().Err(err).Str("user_id", session.UserID).Msg("Fact recall failed")
		} else {
			convCtx.Facts = facts
		}
	}

	return convCtx
}

// rememberPreferences scrive opportunisticamente i criteri espressi
// dall'utente come fatti durevoli
func (o *Orchestrator) rememberPreferences(ctx context.Context, userID string, criteria models.SearchCriteria) {
	if userID == "" || criteria.IsEmpty() {
		return
	}
	facts := o.memory.Facts()
	if criteria.City != "" {
		facts.Remember(ctx, userID, "preferred_city", criteria.City)
	}
	if criteria.MinBedrooms > 0 {
		facts.Remember(ctx, userID, "min_bedrooms", strconv.Itoa(criteria.MinBedrooms))
	}
	if criteria.MaxPrice > 0 {
		facts.Remember(ctx, userID, "max_price", strconv.FormatFloat(criteria.MaxPrice, 'f', 0, 64))
	}
	if criteria.PropertyType != "" {
		facts.Remember(ctx, userID, "property_type", criteria.PropertyType)
	}
}

// attemptObserver traduce i tentativi della catena in eventi
func (o *Orchestrator) attemptObserver(sessionID uuid.UUID, role models.AgentRole) chain.AttemptObserver {
	return func(a chain.Attempt) {
		detail := a.Tier.String()
		if !a.Success {
			detail += " " + a.Failure.String()
		}
		o.emitter.Emit(events.Event{
			SessionID: sessionID,
			AgentName: role.Persona(),
			Action:    events.ActionTierAttempt,
			Duration:  a.Duration,
			Success:   a.Success,
			Detail:    detail,
		})
	}
}

func (o *Orchestrator) emitHandoff(sessionID uuid.UUID, from, to models.AgentRole) {
	o.emitter.Emit(events.Event{
		SessionID: sessionID,
		AgentName: to.Persona(),
		Action:    events.ActionHandoff,
		Success:   true,
		Detail:    string(from) + " -> " + string(to),
	})
}

// loadSession carica la sessione o ErrSessionNotFound
func (o *Orchestrator) loadSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := o.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session load failed: %w", err)
	}
	return &session, nil
}

// sessionLock restituisce il mutex del turno per la sessione
func (o *Orchestrator) sessionLock(sessionID uuid.UUID) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	if lock, ok := o.locks[sessionID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	o.locks[sessionID] = lock
	return lock
}

// releaseLock rimuove il mutex del turno di una sessione chiusa
func (o *Orchestrator) releaseLock(sessionID uuid.UUID) {
	o.mu.Lock()
	delete(o.locks, sessionID)
	o.mu.Unlock()
}
