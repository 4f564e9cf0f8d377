// Package listings espone il catalogo immobiliare agli agenti.
package listings

import (
	"context"
	"errors"
	"strings"

	"github.com/biodoia/goestate/pkg/models"
	"github.com/google/uuid"
)

var ErrPropertyNotFound = errors.New("property not found")

// Store è la sorgente dati immobiliare consumata dagli agenti
type Store interface {
	// Search restituisce le property che soddisfano i criteri
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Property, error)

	// GetByID restituisce una property, ErrPropertyNotFound se assente
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

// matches verifica una property contro i criteri di ricerca
func matches(p *models.Property, c models.SearchCriteria) bool {
	if c.MinBedrooms > 0 && p.Bedrooms < c.MinBedrooms {
		return false
	}
	if c.MinBathrooms > 0 && p.Bathrooms < c.MinBathrooms {
		return false
	}
	if c.MinPrice > 0 && p.Price < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && p.Price > c.MaxPrice {
		return false
	}
	if c.City != "" && !containsFold(p.City, c.City) && !containsFold(p.FormattedAddress, c.City) {
		return false
	}
	if c.State != "" && !containsFold(p.State, c.State) {
		return false
	}
	if c.PropertyType != "" && !containsFold(p.PropertyType, c.PropertyType) {
		return false
	}
	if len(c.Amenities) > 0 {
		// Basta una amenity richiesta presente
		found := false
		for _, want := range c.Amenities {
			if p.HasAmenity(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// containsFold verifica il contenimento case-insensitive
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
