package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/biodoia/goestate/pkg/cache"
	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const factsCacheTTL = 15 * time.Minute

// FactStore persiste i fatti durevoli per utente. Le chiavi sono
// disgiunte per utente, quindi scritture di utenti diversi non
// richiedono coordinazione. Una scrittura fallita resta in coda e
// viene ritentata in silenzio alla prima occasione utile.
type FactStore struct {
	db *database.DB

	// Cache read-through opzionale; nil disabilita
	redis *cache.RedisClient

	mu      sync.Mutex
	pending []models.LongTermFact
}

// NewFactStore crea lo store dei fatti
func NewFactStore(db *database.DB, redis *cache.RedisClient) *FactStore {
	return &FactStore{db: db, redis: redis}
}

// Remember scrive un fatto per l'utente, upsert su (user_id, key).
// Il fallimento non viene propagato: il fatto finisce in coda retry.
func (s *FactStore) Remember(ctx context.Context, userID, key, value string) {
	if userID == "" || key == "" {
		return
	}

	s.flushPending(ctx)

	fact := models.LongTermFact{UserID: userID, Key: key, Value: value}
	if err := s.upsert(ctx, &fact); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", userID).
			Str("key", key).
			Msg("Long-term fact write failed, queued for retry")
		s.mu.Lock()
		s.pending = append(s.pending, fact)
		s.mu.Unlock()
		return
	}

	s.invalidate(ctx, userID)
}

// Recall legge tutti i fatti dell'utente, via cache quando possibile
func (s *FactStore) Recall(ctx context.Context, userID string) (map[string]string, error) {
	if userID == "" {
		return nil, nil
	}

	s.flushPending(ctx)

	if cached := s.fromCache(ctx, userID); cached != nil {
		return cached, nil
	}

	var rows []models.LongTermFact
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fact recall failed: %w", err)
	}

	facts := make(map[string]string, len(rows))
	for _, row := range rows {
		facts[row.Key] = row.Value
	}

	s.toCache(ctx, userID, facts)
	return facts, nil
}

// upsert scrive il fatto con conflitto su (user_id, key)
func (s *FactStore) upsert(ctx context.Context, fact *models.LongTermFact) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      fact.Value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(fact).Error
}

// flushPending ritenta le scritture rimaste in coda
func (s *FactStore) flushPending(ctx context.Context) {
	s.mu.Lock()
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(queued) == 0 {
		return
	}

	var failed []models.LongTermFact
	for _, fact := range queued {
		f := fact
		if err := s.upsert(ctx, &f); err != nil {
			failed = append(failed, fact)
			continue
		}
		s.invalidate(ctx, fact.UserID)
	}

	if len(failed) > 0 {
		s.mu.Lock()
		s.pending = append(failed, s.pending...)
		s.mu.Unlock()
	}
}

func (s *FactStore) cacheKey(userID string) string {
	return "facts:" + userID
}

// fromCache legge l'hash dei fatti da Redis, nil su miss o errore
func (s *FactStore) fromCache(ctx context.Context, userID string) map[string]string {
	if s.redis == nil {
		return nil
	}
	facts, err := s.redis.HGetAll(ctx, s.cacheKey(userID))
	if err != nil || len(facts) == 0 {
		return nil
	}
	return facts
}

// toCache popola l'hash dei fatti, best effort
func (s *FactStore) toCache(ctx context.Context, userID string, facts map[string]string) {
	if s.redis == nil || len(facts) == 0 {
		return
	}
	key := s.cacheKey(userID)
	for k, v := range facts {
		if err := s.redis.HSet(ctx, key, k, v); err != nil {
			return
		}
	}
	_ = s.redis.Expire(ctx, key, factsCacheTTL)
}

// invalidate elimina la entry cache dell'utente
func (s *FactStore) invalidate(ctx context.Context, userID string) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, s.cacheKey(userID))
}
