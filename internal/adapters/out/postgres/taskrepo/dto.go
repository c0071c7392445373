// Package taskrepo persists administrative tasks.
package taskrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/task"
)

type TaskDTO struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey"`
	OrderID        *uuid.UUID       `gorm:"type:uuid;index"`
	Title          string           `gorm:"size:200;not null"`
	Description    string           `gorm:"type:text"`
	Status         string           `gorm:"size:32;index;not null"`
	Priority       string           `gorm:"size:16;not null"`
	DueDate        *time.Time       `gorm:"type:timestamptz;index"`
	AssignedAdmin  *uuid.UUID       `gorm:"type:uuid;index"`
	AssignedBy     *uuid.UUID       `gorm:"type:uuid"`
	EstimatedHours *decimal.Decimal `gorm:"type:numeric(8,2)"`
	ActualHours    *decimal.Decimal `gorm:"type:numeric(8,2)"`
	CompletedAt    *time.Time       `gorm:"type:timestamptz"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TaskDTO) TableName() string {
	return "tasks"
}

func fromDomain(s task.Snapshot) TaskDTO {
	return TaskDTO{
		ID:             s.ID.Bytes(),
		OrderID:        toRaw(s.OrderID),
		Title:          s.Title,
		Description:    s.Description,
		Status:         s.Status.String(),
		Priority:       s.Priority.String(),
		DueDate:        s.DueDate,
		AssignedAdmin:  toRaw(s.AssignedAdmin),
		AssignedBy:     toRaw(s.AssignedBy),
		EstimatedHours: s.EstimatedHours,
		ActualHours:    s.ActualHours,
		CompletedAt:    s.CompletedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toSnapshot(dto TaskDTO) (task.Snapshot, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return task.Snapshot{}, err
	}
	orderID, err := fromRaw(dto.OrderID)
	if err != nil {
		return task.Snapshot{}, err
	}
	assignee, err := fromRaw(dto.AssignedAdmin)
	if err != nil {
		return task.Snapshot{}, err
	}
	assignedBy, err := fromRaw(dto.AssignedBy)
	if err != nil {
		return task.Snapshot{}, err
	}
	status, err := task.ParseStatus(dto.Status)
	if err != nil {
		return task.Snapshot{}, err
	}
	priority, err := kernel.ParsePriority(dto.Priority)
	if err != nil {
		return task.Snapshot{}, err
	}

	return task.Snapshot{
		ID:             id,
		OrderID:        orderID,
		Title:          dto.Title,
		Description:    dto.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        utc(dto.DueDate),
		AssignedAdmin:  assignee,
		AssignedBy:     assignedBy,
		EstimatedHours: dto.EstimatedHours,
		ActualHours:    dto.ActualHours,
		CompletedAt:    utc(dto.CompletedAt),
		CreatedAt:      dto.CreatedAt.UTC(),
		UpdatedAt:      dto.UpdatedAt.UTC(),
	}, nil
}

func toRaw(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func fromRaw(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
