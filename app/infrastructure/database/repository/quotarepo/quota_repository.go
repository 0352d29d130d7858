package quotarepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domain "veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database/dbschema"
)

type QuotaGormRepository struct {
	db *gorm.DB
}

func NewQuotaGormRepository(db *gorm.DB) domain.Repository {
	return &QuotaGormRepository{
		db: db,
	}
}

// IncrementWithCeiling reserves one unit with a single conditional UPDATE;
// the WHERE clause carries the ceiling so two concurrent reservations can
// never both pass at consumed == limit-1.
func (r *QuotaGormRepository) IncrementWithCeiling(ctx context.Context, identity, day string, limit int) (bool, int, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&dbschema.QuotaCounter{
		Identity: identity,
		Day:      day,
		Consumed: 0,
		DayLimit: limit,
	}).Error
	if err != nil {
		return false, 0, err
	}

	res := r.db.WithContext(ctx).
		Model(&dbschema.QuotaCounter{}).
		Where("identity = ? AND day = ? AND consumed < ?", identity, day, limit).
		UpdateColumn("consumed", gorm.Expr("consumed + 1"))
	if res.Error != nil {
		return false, 0, res.Error
	}

	consumed, err := r.Consumed(ctx, identity, day)
	if err != nil {
		return false, 0, err
	}
	return res.RowsAffected == 1, consumed, nil
}

func (r *QuotaGormRepository) Decrement(ctx context.Context, identity, day string) error {
	return r.db.WithContext(ctx).
		Model(&dbschema.QuotaCounter{}).
		Where("identity = ? AND day = ?", identity, day).
		UpdateColumn("consumed", gorm.Expr("GREATEST(consumed - 1, 0)")).Error
}

func (r *QuotaGormRepository) Consumed(ctx context.Context, identity, day string) (int, error) {
	var model dbschema.QuotaCounter
	err := r.db.WithContext(ctx).Where("identity = ? AND day = ?", identity, day).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return model.Consumed, nil
}

func (r *QuotaGormRepository) DeleteBefore(ctx context.Context, day string) (int64, error) {
	res := r.db.WithContext(ctx).Where("day < ?", day).Delete(&dbschema.QuotaCounter{})
	return res.RowsAffected, res.Error
}
