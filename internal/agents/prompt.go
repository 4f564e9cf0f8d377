package agents

import (
	"fmt"
	"strings"
	"time"

	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/internal/scheduling"
	"github.com/biodoia/goestate/pkg/models"
)

// PromptBuilder compone il bundle di istruzioni per un turno
type PromptBuilder struct {
	calendar *scheduling.Calendar
	// Limite di risultati di ricerca iniettati nel prompt
	maxResults int
	now        func() time.Time
}

// NewPromptBuilder crea un builder
func NewPromptBuilder(calendar *scheduling.Calendar, maxResults int) *PromptBuilder {
	if maxResults < 1 {
		maxResults = 3
	}
	return &PromptBuilder{calendar: calendar, maxResults: maxResults, now: time.Now}
}

// SetClock sostituisce la sorgente dell'ora, usata nei test
func (b *PromptBuilder) SetClock(now func() time.Time) {
	b.now = now
}

// Build produce i messaggi per il provider: system con ruolo, datetime
// e dati strutturati, poi la finestra di conversazione, poi il turno
// corrente dell'utente. Con relaxed il ruolo usa le istruzioni ridotte
// del retry.
func (b *PromptBuilder) Build(role models.AgentRole, message string, ctx *models.ConversationContext, relaxed bool) []providers.PromptMessage {
	var system strings.Builder

	system.WriteString(DescriptionFor(role, relaxed))
	system.WriteString("\n\n")
	system.WriteString(datetimeFact(b.now()))

	if role == models.AgentScheduling {
		system.WriteString("\n\nVIEWING HOURS: ")
		system.WriteString(b.calendar.HoursDescription())
	}

	if ctx != nil {
		if ctx.PropertyContext != nil {
			system.WriteString("\n\n")
			system.WriteString(propertySection(ctx.PropertyContext))
		}

		if len(ctx.SearchResults) > 0 {
			system.WriteString("\n\n")
			system.WriteString(b.resultsSection(ctx.SearchResults))
		}

		if len(ctx.Facts) > 0 {
			system.WriteString("\n\nKNOWN CLIENT PREFERENCES:\n")
			for k, v := range ctx.Facts {
				system.WriteString(fmt.Sprintf("- %s: %s\n", k, v))
			}
		}

		system.WriteString("\n\nData Mode: ")
		system.WriteString(strings.ToUpper(string(dataMode(ctx))))

		if ctx.FirstMessage {
			system.WriteString("\n\nThis is the first message of the conversation: greet the client and introduce yourself briefly.")
		} else {
			system.WriteString("\n\nThis conversation is already in progress: do not introduce yourself again.")
		}
	}

	messages := []providers.PromptMessage{{Role: "system", Content: system.String()}}

	if ctx != nil {
		for _, msg := range ctx.History {
			role := "user"
			if msg.Role == models.RoleAgent {
				role = "assistant"
			}
			messages = append(messages, providers.PromptMessage{Role: role, Content: msg.Content})
		}
	}

	return append(messages, providers.PromptMessage{Role: "user", Content: message})
}

// propertySection formatta la property in focus
func propertySection(p *models.Property) string {
	return fmt.Sprintf(`PROPERTY CONTEXT:
Address: %s
Price: $%.0f/month
Bedrooms: %d
Bathrooms: %.1f
Size: %d sq ft
Type: %s
Year Built: %d
City: %s, %s`,
		p.FormattedAddress, p.Price, p.Bedrooms, p.Bathrooms,
		p.SquareFootage, p.PropertyType, p.YearBuilt, p.City, p.State)
}

// resultsSection formatta i risultati di ricerca, troncati al limite
func (b *PromptBuilder) resultsSection(results []models.Property) string {
	shown := results
	if len(shown) > b.maxResults {
		shown = shown[:b.maxResults]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("AVAILABLE PROPERTIES (%d of %d shown):\n", len(shown), len(results)))
	for i := range shown {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, shown[i].Summary()))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dataMode(ctx *models.ConversationContext) models.DataMode {
	if ctx == nil || ctx.DataMode == "" {
		return models.DataModeMock
	}
	return ctx.DataMode
}
