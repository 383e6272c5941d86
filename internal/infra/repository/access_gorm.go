package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/quiroferreira/clinic-scheduler/internal/accessgate"
	"github.com/quiroferreira/clinic-scheduler/internal/models"
)

type AccessGormRepository struct {
	db *gorm.DB
}

func NewAccessGormRepository(db *gorm.DB) *AccessGormRepository {
	return &AccessGormRepository{db: db}
}

func (r *AccessGormRepository) LatestActiveGrant(
	ctx context.Context,
	professionalID uint,
	now time.Time,
) (*models.SchedulingAccess, error) {

	var grant models.SchedulingAccess
	err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND is_active = ? AND expires_at > ?",
			professionalID, true, now,
		).
		Order("created_at DESC").
		First(&grant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &grant, nil
}

func (r *AccessGormRepository) ExpireSubscriptions(
	ctx context.Context,
	before time.Time,
) (int64, int64, error) {

	var members, dependents int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Member{}).
			Where(
				"subscription_status = ? AND subscription_expiry IS NOT NULL AND subscription_expiry < ?",
				models.SubscriptionActive, before,
			).
			Update("subscription_status", models.SubscriptionExpired)
		if res.Error != nil {
			return res.Error
		}
		members = res.RowsAffected

		res = tx.Model(&models.Dependent{}).
			Where(
				"subscription_status = ? AND subscription_expiry IS NOT NULL AND subscription_expiry < ?",
				models.SubscriptionActive, before,
			).
			Update("subscription_status", models.SubscriptionExpired)
		if res.Error != nil {
			return res.Error
		}
		dependents = res.RowsAffected

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return members, dependents, nil
}

// Compile-time check
var _ accessgate.Repository = (*AccessGormRepository)(nil)
