package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"steam-valuator/internal/models"
)

// GormStore keeps cache entries in a cache_entries table. Expiry is enforced
// on read; PurgeExpired exists for periodic cleanup so the table does not grow
// without bound.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, namespace, key string) (float64, bool, error) {
	var entry models.CacheEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND key = ? AND expires_at > ?", namespace, key, time.Now()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return entry.Value, true, nil
}

func (s *GormStore) Put(ctx context.Context, namespace, key string, value float64, ttl time.Duration) error {
	entry := models.CacheEntry{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&entry).Error
}

// PurgeExpired deletes rows whose expiry has passed. Reads already filter on
// expires_at, so this only reclaims space.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.CacheEntry{})
	return result.RowsAffected, result.Error
}
