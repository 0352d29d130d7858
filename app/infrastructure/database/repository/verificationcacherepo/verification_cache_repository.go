package verificationcacherepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"veriscan.ai/verify-api-gateway/app/domain/query"
	domain "veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database/dbschema"
)

type VerificationCacheGormRepository struct {
	db *gorm.DB
}

func NewVerificationCacheGormRepository(db *gorm.DB) domain.CacheRepository {
	return &VerificationCacheGormRepository{
		db: db,
	}
}

func (r *VerificationCacheGormRepository) FindByKey(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var model dbschema.VerificationCache
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.EtoD()
}

// Upsert is a blind single-row upsert: a re-classified key gets a full new
// row image, including reset hit statistics.
func (r *VerificationCacheGormRepository) Upsert(ctx context.Context, entry *domain.CacheEntry) error {
	model, err := dbschema.NewSchemaVerificationCache(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"result", "cached_at", "expires_at", "hit_count", "last_hit_at", "updated_at"}),
	}).Create(model).Error
}

func (r *VerificationCacheGormRepository) RegisterHit(ctx context.Context, key string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&dbschema.VerificationCache{}).
		Where("key = ?", key).
		UpdateColumns(map[string]interface{}{
			"hit_count":   gorm.Expr("hit_count + 1"),
			"last_hit_at": at,
		}).Error
}

func (r *VerificationCacheGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&dbschema.VerificationCache{}).Error
}

// DeleteExpired removes up to batchSize expired rows with per-row deletes,
// so concurrent sweepers and lookups never contend on the whole table.
func (r *VerificationCacheGormRepository) DeleteExpired(ctx context.Context, before time.Time, batchSize int) (int64, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&dbschema.VerificationCache{}).
		Where("expires_at <= ?", before).
		Limit(batchSize).
		Pluck("key", &keys).Error
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("key IN ?", keys).Delete(&dbschema.VerificationCache{})
	return res.RowsAffected, res.Error
}

func (r *VerificationCacheGormRepository) List(ctx context.Context, pagination *query.Pagination) ([]*domain.CacheEntry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&dbschema.VerificationCache{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := r.db.WithContext(ctx).Model(&dbschema.VerificationCache{})
	order := "id ASC"
	if pagination != nil && pagination.Order == "desc" {
		order = "id DESC"
	}
	if pagination != nil && pagination.After != nil {
		if pagination.Order == "desc" {
			tx = tx.Where("id < ?", *pagination.After)
		} else {
			tx = tx.Where("id > ?", *pagination.After)
		}
	}

	var models []dbschema.VerificationCache
	err := tx.Order(order).Limit(pagination.LimitOrDefault(20)).Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	entries := make([]*domain.CacheEntry, 0, len(models))
	for i := range models {
		entry, err := models[i].EtoD()
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

func (r *VerificationCacheGormRepository) Stats(ctx context.Context) (*domain.CacheStats, error) {
	var stats domain.CacheStats
	err := r.db.WithContext(ctx).
		Model(&dbschema.VerificationCache{}).
		Select("COUNT(*) AS entries, COALESCE(SUM(hit_count), 0) AS total_hits").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
