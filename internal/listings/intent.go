package listings

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/biodoia/goestate/pkg/models"
)

var (
	bedroomRe  = regexp.MustCompile(`(\d+)\s*(?:bedroom|br\b)`)
	bathroomRe = regexp.MustCompile(`(\d+)\s*(?:bathroom|bath\b)`)
	maxPriceRe = regexp.MustCompile(`(?:under|below|less than|max)\s*\$?\s*(\d+)`)
)

// Sinonimi per amenity canonica
var amenityKeywords = map[string][]string{
	"pool":       {"pool", "swimming"},
	"gym":        {"gym", "fitness"},
	"parking":    {"parking", "garage"},
	"balcony":    {"balcony"},
	"garden":     {"garden", "yard"},
	"terrace":    {"terrace", "deck"},
	"ocean":      {"ocean", "sea", "beach"},
	"waterfront": {"waterfront", "water view"},
}

// Ordine stabile di valutazione delle amenity
var amenityOrder = []string{"pool", "gym", "parking", "balcony", "garden", "terrace", "ocean", "waterfront"}

var locationKeywords = []string{"miami beach", "miami", "downtown", "beach", "brickell", "coral gables", "aventura"}

// ParseIntent estrae i criteri di ricerca da un messaggio utente.
// Totale: un messaggio senza criteri produce criteri vuoti, mai errore.
func ParseIntent(message string) models.SearchCriteria {
	lower := strings.ToLower(message)
	var criteria models.SearchCriteria

	if m := bedroomRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			criteria.MinBedrooms = n
		}
	}

	if m := bathroomRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			criteria.MinBathrooms = float64(n)
		}
	}

	if m := maxPriceRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			criteria.MaxPrice = float64(n)
		}
	}

	for _, amenity := range amenityOrder {
		for _, kw := range amenityKeywords[amenity] {
			if strings.Contains(lower, kw) {
				criteria.Amenities = append(criteria.Amenities, amenity)
				break
			}
		}
	}

	switch {
	case strings.Contains(lower, "house"):
		criteria.PropertyType = "house"
	case strings.Contains(lower, "apartment") || strings.Contains(lower, "apt"):
		criteria.PropertyType = "apartment"
	case strings.Contains(lower, "condo"):
		criteria.PropertyType = "condo"
	case strings.Contains(lower, "studio"):
		criteria.PropertyType = "studio"
	}

	for _, location := range locationKeywords {
		if strings.Contains(lower, location) {
			criteria.City = location
			break
		}
	}

	return criteria
}
