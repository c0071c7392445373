package notificationrepo

import (
	"time"

	"github.com/google/uuid"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
)

// NotificationDTO is the notifications row. The unique (recipient_id,
// dedup_key) index is what makes delivery idempotent.
type NotificationDTO struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_dedup,priority:1;index:idx_notifications_inbox,priority:1"`
	Type        string            `gorm:"size:64;not null"`
	Message     string            `gorm:"type:text;not null"`
	Metadata    map[string]string `gorm:"type:jsonb;serializer:json"`
	OrderID     *uuid.UUID        `gorm:"type:uuid;index"`
	DedupKey    string            `gorm:"size:255;not null;uniqueIndex:idx_notifications_dedup,priority:2"`
	ReadAt      *time.Time        `gorm:"type:timestamptz"`
	CreatedAt   time.Time         `gorm:"index:idx_notifications_inbox,priority:2,sort:desc"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(s notification.Snapshot) NotificationDTO {
	var orderID *uuid.UUID
	if s.OrderID != nil {
		raw := s.OrderID.Bytes()
		orderID = &raw
	}
	return NotificationDTO{
		ID:          s.ID.Bytes(),
		RecipientID: s.RecipientID.Bytes(),
		Type:        string(s.Type),
		Message:     s.Message,
		Metadata:    s.Metadata,
		OrderID:     orderID,
		DedupKey:    s.DedupKey,
		ReadAt:      s.ReadAt,
		CreatedAt:   s.CreatedAt,
	}
}

func toSnapshot(dto NotificationDTO) (notification.Snapshot, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return notification.Snapshot{}, err
	}
	recipient, err := kernel.UUIDFromGoogle(dto.RecipientID)
	if err != nil {
		return notification.Snapshot{}, err
	}

	var orderID *kernel.UUID
	if dto.OrderID != nil {
		o, oErr := kernel.UUIDFromGoogle(*dto.OrderID)
		if oErr != nil {
			return notification.Snapshot{}, oErr
		}
		orderID = &o
	}

	var readAt *time.Time
	if dto.ReadAt != nil {
		t := dto.ReadAt.UTC()
		readAt = &t
	}

	return notification.Snapshot{
		ID:          id,
		RecipientID: recipient,
		Type:        notification.Type(dto.Type),
		Message:     dto.Message,
		Metadata:    dto.Metadata,
		OrderID:     orderID,
		DedupKey:    dto.DedupKey,
		ReadAt:      readAt,
		CreatedAt:   dto.CreatedAt.UTC(),
	}, nil
}
