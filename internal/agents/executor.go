package agents

import (
	"context"
	"time"

	"github.com/biodoia/goestate/internal/chain"
	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/internal/scheduling"
	"github.com/biodoia/goestate/pkg/models"
)

// Executor esegue il turno di un ruolo attraverso la catena di
// provider. Non restituisce mai un errore al chiamante: la catena
// termina sempre su un tier che non può fallire.
type Executor struct {
	chain    *chain.Chain
	builder  *PromptBuilder
	calendar *scheduling.Calendar

	maxTokens   int
	temperature float64
}

// NewExecutor crea un executor
func NewExecutor(ch *chain.Chain, builder *PromptBuilder, calendar *scheduling.Calendar, maxTokens int, temperature float64) *Executor {
	if maxTokens < 1 {
		maxTokens = 512
	}
	return &Executor{
		chain:       ch,
		builder:     builder,
		calendar:    calendar,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Execute produce esattamente una AgentResponse per chiamata.
// L'observer riceve un evento per ogni tentativo di tier.
func (e *Executor) Execute(ctx context.Context, role models.AgentRole, message string, convCtx *models.ConversationContext, obs chain.AttemptObserver) *models.AgentResponse {
	req := &providers.CompletionRequest{
		AgentRole: role,
		Messages:  e.builder.Build(role, message, convCtx, false),
		// Bundle ridotto per il retry del quality gate
		RelaxedMessages: e.builder.Build(role, message, convCtx, true),
		MaxTokens:       e.maxTokens,
		Temperature:     e.temperature,
		DataMode:        dataMode(convCtx),
	}
	if convCtx != nil {
		req.Property = convCtx.PropertyContext
	}

	result := e.chain.Execute(ctx, req, obs)

	return &models.AgentResponse{
		Message:          result.Completion.Text,
		AgentName:        role.Persona(),
		CurrentAgent:     role,
		SuggestedActions: e.suggestedActions(role),
		Confidence:       result.Confidence,
		Timestamp:        time.Now().UTC(),
	}
}

// suggestedActions propone fino a 4 azioni brevi per il ruolo.
// Per lo scheduling sono sempre opzioni orarie concrete.
func (e *Executor) suggestedActions(role models.AgentRole) []string {
	switch role {
	case models.AgentScheduling:
		times := e.calendar.SuggestedTimes(3)
		if len(times) > 3 {
			times = times[:3]
		}
		return append(times, "Ask about a different day")
	case models.AgentProperty:
		return []string{
			"Schedule a viewing",
			"Search for similar properties",
			"Ask about the neighborhood",
		}
	default:
		return []string{
			"Show me 2-bedroom apartments",
			"Properties with a pool",
			"Something in Miami Beach",
		}
	}
}
