package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBStore serve il catalogo dalla tabella properties, data mode "real"
type DBStore struct {
	db *database.DB
}

// NewDBStore crea uno store sul database
func NewDBStore(db *database.DB) *DBStore {
	return &DBStore{db: db}
}

// Search interroga la tabella con i criteri indicizzabili e applica
// in memoria il filtro amenities sulla colonna JSON
func (s *DBStore) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Property, error) {
	q := s.db.WithContext(ctx).Model(&models.Property{})

	if criteria.MinBedrooms > 0 {
		q = q.Where("bedrooms >= ?", criteria.MinBedrooms)
	}
	if criteria.MinBathrooms > 0 {
		q = q.Where("bathrooms >= ?", criteria.MinBathrooms)
	}
	if criteria.MinPrice > 0 {
		q = q.Where("price >= ?", criteria.MinPrice)
	}
	if criteria.MaxPrice > 0 {
		q = q.Where("price <= ?", criteria.MaxPrice)
	}
	if criteria.City != "" {
		q = q.Where("LOWER(city) LIKE ? OR LOWER(formatted_address) LIKE ?",
			"%"+lower(criteria.City)+"%", "%"+lower(criteria.City)+"%")
	}
	if criteria.State != "" {
		q = q.Where("LOWER(state) = ?", lower(criteria.State))
	}
	if criteria.PropertyType != "" {
		q = q.Where("LOWER(property_type) LIKE ?", "%"+lower(criteria.PropertyType)+"%")
	}

	var rows []models.Property
	if err := q.Order("price ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("property search failed: %w", err)
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = len(rows)
	}

	var results []models.Property
	for i := range rows {
		if len(criteria.Amenities) > 0 && !matches(&rows[i], models.SearchCriteria{Amenities: criteria.Amenities}) {
			continue
		}
		results = append(results, rows[i])
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// GetByID cerca una property per id
func (s *DBStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("property lookup failed: %w", err)
	}
	return &p, nil
}

func lower(s string) string {
	return strings.ToLower(s)
}
