package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property rappresenta un immobile del catalogo
type Property struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`

	FormattedAddress string `json:"formattedAddress" gorm:"not null"`
	City             string `json:"city" gorm:"index"`
	State            string `json:"state" gorm:"index"`

	Price         float64 `json:"price" gorm:"index"`
	Bedrooms      int     `json:"bedrooms" gorm:"index"`
	Bathrooms     float64 `json:"bathrooms"`
	SquareFootage int     `json:"squareFootage"`
	PropertyType  string  `json:"propertyType" gorm:"index"`
	YearBuilt     int     `json:"yearBuilt"`

	// Amenities (JSON): ["pool", "gym", "parking", ...]
	Amenities datatypes.JSON `json:"amenities" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AmenityList decodifica la colonna JSON delle amenities
func (p *Property) AmenityList() []string {
	if len(p.Amenities) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(p.Amenities, &list); err != nil {
		return nil
	}
	return list
}

// HasAmenity verifica la presenza di una amenity
func (p *Property) HasAmenity(name string) bool {
	for _, a := range p.AmenityList() {
		if a == name {
			return true
		}
	}
	return false
}

// Summary restituisce una descrizione compatta per il prompt
func (p *Property) Summary() string {
	return fmt.Sprintf("%s | $%.0f/month | %d bed / %.1f bath | %d sqft | %s | built %d",
		p.FormattedAddress, p.Price, p.Bedrooms, p.Bathrooms, p.SquareFootage, p.PropertyType, p.YearBuilt)
}

// TableName specifica il nome della tabella
func (Property) TableName() string {
	return "properties"
}

// SearchCriteria rappresenta i filtri di ricerca immobiliare
type SearchCriteria struct {
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	MinBedrooms  int      `json:"min_bedrooms,omitempty"`
	MinBathrooms float64  `json:"min_bathrooms,omitempty"`
	MinPrice     float64  `json:"min_price,omitempty"`
	MaxPrice     float64  `json:"max_price,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// IsEmpty verifica se nessun filtro è stato impostato
func (c SearchCriteria) IsEmpty() bool {
	return c.City == "" && c.State == "" && c.MinBedrooms == 0 &&
		c.MinBathrooms == 0 && c.MinPrice == 0 && c.MaxPrice == 0 &&
		c.PropertyType == "" && len(c.Amenities) == 0
}
