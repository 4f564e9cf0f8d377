package listings

import (
	"context"

	"github.com/biodoia/goestate/pkg/models"
	"github.com/google/uuid"
)

// MockStore serve il catalogo mock in memoria, usato in data mode "mock"
type MockStore struct {
	properties []models.Property
}

// NewMockStore crea uno store sul dataset fornito
func NewMockStore(properties []models.Property) *MockStore {
	// ID stabili per il dataset in memoria
	for i := range properties {
		if properties[i].ID == uuid.Nil {
			properties[i].ID = uuid.New()
		}
	}
	return &MockStore{properties: properties}
}

// Search filtra il dataset in memoria
func (s *MockStore) Search(_ context.Context, criteria models.SearchCriteria) ([]models.Property, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = len(s.properties)
	}

	var results []models.Property
	for i := range s.properties {
		if matches(&s.properties[i], criteria) {
			results = append(results, s.properties[i])
			if len(results) == limit {
				break
			}
		}
	}
	return results, nil
}

// GetByID cerca una property per id
func (s *MockStore) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	for i := range s.properties {
		if s.properties[i].ID == id {
			p := s.properties[i]
			return &p, nil
		}
	}
	return nil, ErrPropertyNotFound
}
