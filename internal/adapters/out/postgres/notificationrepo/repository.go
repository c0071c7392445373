// Package notificationrepo persists administrator notifications.
package notificationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
)

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add inserts with ON CONFLICT DO NOTHING on the dedup index, so a
// concurrent duplicate neither fails nor aborts the surrounding transaction.
func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) (bool, error) {
	if err := n.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(n.Snapshot())
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipient_id"}, {Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}

	s, err := toSnapshot(dto)
	if err != nil {
		return nil, err
	}
	return notification.RestoreNotification(s)
}

// Update only persists the read marker; everything else is immutable.
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	s := n.Snapshot()
	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", s.ID.Bytes()).
		Update("read_at", s.ReadAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", s.ID.String())
	}
	return nil
}

type GormNotificationReader struct {
	db *gorm.DB
}

func NewGormNotificationReader(db *gorm.DB) *GormNotificationReader {
	return &GormNotificationReader{db: db}
}

func (r *GormNotificationReader) ListNotifications(ctx context.Context, filter ports.NotificationFilter) ([]notification.Snapshot, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", filter.RecipientID.Bytes())
	if filter.UnreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var dtos []NotificationDTO
	if err := q.Order("created_at DESC").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]notification.Snapshot, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toSnapshot(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
