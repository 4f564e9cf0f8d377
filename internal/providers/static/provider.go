// Package static implementa il tier terminale della catena: risposte
// deterministiche per ruolo, calcolate localmente. Per definizione non
// può mai fallire, quindi la catena termina sempre in tempo limitato.
package static

import (
	"context"
	"fmt"

	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/pkg/models"
)

const providerName = "static"

// Provider restituisce la risposta canned del ruolo richiesto
type Provider struct{}

// New crea il provider statico
func New() *Provider {
	return &Provider{}
}

// Name restituisce il nome del provider
func (p *Provider) Name() string {
	return providerName
}

// Complete non fallisce mai
func (p *Provider) Complete(_ context.Context, req *providers.CompletionRequest) (*providers.Completion, error) {
	return &providers.Completion{
		Text:     responseFor(req.AgentRole, req.Property, req.DataMode),
		Model:    "canned",
		Provider: providerName,
	}, nil
}

// responseFor compone il testo statico per ruolo e contesto
func responseFor(role models.AgentRole, property *models.Property, mode models.DataMode) string {
	if mode == "" {
		mode = models.DataModeMock
	}

	switch role {
	case models.AgentSearch:
		return fmt.Sprintf(`Hello! I'm Alex, your search specialist. I'm here to help you find the perfect property.

I can help you search for properties based on:
- Location (city, neighborhood, zip code)
- Price range and budget
- Number of bedrooms and bathrooms
- Property type (apartment, house, condo)
- Amenities and features you want

What type of property are you looking for today? Just tell me your preferences and I'll find the best matches!

*Ready to search %s listings*`, mode)

	case models.AgentProperty:
		if property != nil {
			return fmt.Sprintf(`Hi! I'm Emma, your property expert. Here are the details for this property:

**%s**
**Monthly Rent:** $%.0f
**Bedrooms:** %d
**Bathrooms:** %.1f

This property offers great value in the current market. What specific aspect would you like to know more about?

*Analysis from %s data*`, property.FormattedAddress, property.Price, property.Bedrooms, property.Bathrooms, mode)
		}
		return fmt.Sprintf(`Hello! I'm Emma, your property expert. I provide detailed analysis and insights about any property you're interested in.

I can help you with property details, market analysis, neighborhood information, and more. Do you have a specific property you'd like me to analyze?

*Expert analysis using %s data*`, mode)

	case models.AgentScheduling:
		return fmt.Sprintf(`Hi! I'm Mike, your scheduling specialist. I can help you arrange property visits quickly and easily.

Just let me know which property interests you and your preferred times. I'll handle all the coordination and send you confirmation details.

Ready to schedule a visit? Which property would you like to see?

*Professional scheduling via %s platform*`, mode)

	default:
		return fmt.Sprintf("Hello! I'm here to help you with your real estate needs. How can I assist you today? (Using %s data)", mode)
	}
}
