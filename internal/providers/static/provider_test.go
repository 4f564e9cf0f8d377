package static

import (
	"context"
	"strings"
	"testing"

	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/pkg/models"
)

func TestCompleteNeverFails(t *testing.T) {
	property := &models.Property{
		FormattedAddress: "2000 Ocean Dr, Apt 1201, Miami Beach, FL 33139",
		Price:            8500,
		Bedrooms:         4,
		Bathrooms:        3.5,
	}

	p := New()
	for _, role := range models.AllAgentRoles() {
		for _, prop := range []*models.Property{nil, property} {
			for _, mode := range []models.DataMode{models.DataModeMock, models.DataModeReal, ""} {
				req := &providers.CompletionRequest{
					AgentRole: role,
					Property:  prop,
					DataMode:  mode,
				}
				completion, err := p.Complete(context.Background(), req)
				if err != nil {
					t.Fatalf("role=%s: Complete() error = %v", role, err)
				}
				if len(completion.Text) < 20 {
					t.Errorf("role=%s prop=%v mode=%q: canned text too short: %q", role, prop != nil, mode, completion.Text)
				}
			}
		}
	}
}

func TestCompleteUsesPropertyContext(t *testing.T) {
	property := &models.Property{
		FormattedAddress: "1050 Brickell Ave, Apt 3504, Miami, FL 33131",
		Price:            12000,
	}

	p := New()
	completion, err := p.Complete(context.Background(), &providers.CompletionRequest{
		AgentRole: models.AgentProperty,
		Property:  property,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(completion.Text, property.FormattedAddress) {
		t.Errorf("property response does not mention the address: %q", completion.Text)
	}
}

func TestCompleteMentionsPersona(t *testing.T) {
	p := New()
	personas := map[models.AgentRole]string{
		models.AgentSearch:     "Alex",
		models.AgentProperty:   "Emma",
		models.AgentScheduling: "Mike",
	}

	for role, persona := range personas {
		completion, _ := p.Complete(context.Background(), &providers.CompletionRequest{AgentRole: role})
		if !strings.Contains(completion.Text, persona) {
			t.Errorf("role=%s: canned text does not mention %s", role, persona)
		}
	}
}
