package agents

import (
	"strings"
	"testing"
	"time"

	"github.com/biodoia/goestate/internal/scheduling"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/biodoia/goestate/pkg/models"
)

func testCalendar() *scheduling.Calendar {
	c := scheduling.New(config.SchedulingConfig{
		WeekdaySlots:  []string{"10:00 AM", "2:00 PM", "4:00 PM"},
		WeekendSlots:  []string{"9:00 AM", "11:00 AM"},
		LookaheadDays: 7,
	})
	c.SetClock(func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) })
	return c
}

func searchResults(n int) []models.Property {
	results := make([]models.Property, n)
	for i := range results {
		results[i] = models.Property{
			FormattedAddress: "Unit " + string(rune('A'+i)),
			Price:            2000 + float64(i)*500,
			Bedrooms:         2,
			Bathrooms:        1,
			SquareFootage:    900,
			PropertyType:     "apartment",
			YearBuilt:        2010,
		}
	}
	return results
}

func systemPrompt(t *testing.T, b *PromptBuilder, role models.AgentRole, message string, ctx *models.ConversationContext) string {
	t.Helper()
	messages := b.Build(role, message, ctx, false)
	if len(messages) == 0 || messages[0].Role != "system" {
		t.Fatalf("Build() first message = %+v, want system", messages)
	}
	return messages[0].Content
}

func TestBuildTruncatesSearchResults(t *testing.T) {
	b := NewPromptBuilder(testCalendar(), 3)
	ctx := &models.ConversationContext{SearchResults: searchResults(5)}

	system := systemPrompt(t, b, models.AgentSearch, "show me apartments", ctx)
	if !strings.Contains(system, "AVAILABLE PROPERTIES (3 of 5 shown)") {
		t.Errorf("system prompt missing truncated results header:\n%s", system)
	}
	if strings.Contains(system, "Unit D") {
		t.Error("system prompt leaks results past the limit")
	}
}

func TestBuildIncludesDatetimeFact(t *testing.T) {
	b := NewPromptBuilder(testCalendar(), 3)
	b.SetClock(func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) })

	system := systemPrompt(t, b, models.AgentSearch, "hi", &models.ConversationContext{})
	if !strings.Contains(system, "Monday") || !strings.Contains(system, "June") {
		t.Errorf("system prompt missing datetime anchor:\n%s", system)
	}
}

func TestBuildSchedulingIncludesHours(t *testing.T) {
	b := NewPromptBuilder(testCalendar(), 3)

	system := systemPrompt(t, b, models.AgentScheduling, "when can I visit?", &models.ConversationContext{})
	if !strings.Contains(system, "VIEWING HOURS") || !strings.Contains(system, "10:00 AM") {
		t.Errorf("scheduling prompt missing viewing hours:\n%s", system)
	}

	system = systemPrompt(t, b, models.AgentSearch, "hi", &models.ConversationContext{})
	if strings.Contains(system, "VIEWING HOURS") {
		t.Error("search prompt should not carry viewing hours")
	}
}

func TestBuildPropertyAndFacts(t *testing.T) {
	b := NewPromptBuilder(testCalendar(), 3)
	ctx := &models.ConversationContext{
		PropertyContext: &models.Property{
			FormattedAddress: "2000 Ocean Dr, Apt 1201, Miami Beach, FL 33139",
			Price:            8500,
			Bedrooms:         4,
			Bathrooms:        3.5,
			SquareFootage:    2100,
			PropertyType:     "condo",
			YearBuilt:        2015,
			City:             "Miami Beach",
			State:            "FL",
		},
		Facts: map[string]string{"preferred_city": "miami beach"},
	}

	system := systemPrompt(t, b, models.AgentProperty, "tell me more", ctx)
	if !strings.Contains(system, "PROPERTY CONTEXT") || !strings.Contains(system, "2000 Ocean Dr") {
		t.Errorf("prompt missing property section:\n%s", system)
	}
	if !strings.Contains(system, "KNOWN CLIENT PREFERENCES") || !strings.Contains(system, "preferred_city: miami beach") {
		t.Errorf("prompt missing client preferences:\n%s", system)
	}
}

func TestBuildFirstMessageNote(t *testing.T) {
	b := NewPromptBuilder(testCalendar(), 3)

	system := systemPrompt(t, b, models.AgentSearch, "hi", &models.ConversationContext{FirstMessage: true})
	if !strings.Contains(system, "first message") {
		t.Error("first-turn prompt missing the introduction note")
	}

	system = systemPrompt(t, b, models.AgentSearch, "hi", &models.ConversationContext{FirstMessage: false})
	if !strings.Contains(system, "already in progress") {
		t.Error("continuation prompt missing the no-introduction note")
	}
}

func TestBuildRelaxedUsesSimplifiedInstructions(t *testing.T) {
	b := NewPromptBuilder(testCalendar(), 3)
	ctx := &models.ConversationContext{SearchResults: searchResults(2)}

	for _, role := range models.AllAgentRoles() {
		messages := b.Build(role, "hi", ctx, true)
		system := messages[0].Content
		if !strings.HasPrefix(system, simpleRetryDescriptions[role]) {
			t.Errorf("role=%s: relaxed prompt does not start with the simplified instructions:\n%s", role, system)
		}
		// Il resto del bundle resta invariato
		if !strings.Contains(system, "AVAILABLE PROPERTIES") {
			t.Errorf("role=%s: relaxed prompt lost the structured context", role)
		}
	}
}

func TestBuildHistoryRoles(t *testing.T) {
	b := NewPromptBuilder(testCalendar(), 3)
	ctx := &models.ConversationContext{
		History: []models.Message{
			{Seq: 1, Role: models.RoleUser, Content: "I need a place"},
			{Seq: 2, Role: models.RoleAgent, Content: "Happy to help!", AgentName: "Alex"},
		},
	}

	messages := b.Build(models.AgentSearch, "2 bedrooms please", ctx, false)
	if len(messages) != 4 {
		t.Fatalf("Build() = %d messages, want 4", len(messages))
	}
	if messages[1].Role != "user" || messages[2].Role != "assistant" {
		t.Errorf("history roles = %s/%s, want user/assistant", messages[1].Role, messages[2].Role)
	}
	last := messages[len(messages)-1]
	if last.Role != "user" || last.Content != "2 bedrooms please" {
		t.Errorf("last message = %+v, want the current user turn", last)
	}
}
