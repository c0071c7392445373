// Package orderrepo maps the order aggregate to the orders table.
package orderrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status, priority and creation time are indexed for the admin list.
type OrderDTO struct {
	ID                      uuid.UUID        `gorm:"type:uuid;primaryKey"`
	CustomerID              uuid.UUID        `gorm:"type:uuid;index;not null"`
	Type                    int              `gorm:"type:smallint;not null"`
	Title                   string           `gorm:"size:200;not null"`
	Description             string           `gorm:"type:text"`
	Budget                  *decimal.Decimal `gorm:"type:numeric(14,4)"`
	Status                  int              `gorm:"type:smallint;index;not null"`
	Priority                string           `gorm:"size:16;not null"`
	PriorityRank            int              `gorm:"type:smallint;index:idx_orders_listing,priority:1,sort:desc"`
	AssignedAdmin           *uuid.UUID       `gorm:"type:uuid;index"`
	CustomPrice             *decimal.Decimal `gorm:"type:numeric(14,4)"`
	EstimatedCompletionDate *time.Time       `gorm:"type:timestamptz"`
	RejectionReason         string           `gorm:"type:text"`
	AdminNotes              string           `gorm:"type:text"`
	PaymentStatus           int              `gorm:"type:smallint;not null"`
	Version                 int              `gorm:"not null"`
	CreatedAt               time.Time        `gorm:"index:idx_orders_listing,priority:2,sort:desc"`
	UpdatedAt               time.Time
	UpdatedBy               *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(s order.Snapshot) OrderDTO {
	return OrderDTO{
		ID:                      s.ID.Bytes(),
		CustomerID:              s.CustomerID.Bytes(),
		Type:                    int(s.Type),
		Title:                   s.Title,
		Description:             s.Description,
		Budget:                  moneyToDecimal(s.Budget),
		Status:                  int(s.Status),
		Priority:                s.Priority.String(),
		PriorityRank:            s.Priority.Rank(),
		AssignedAdmin:           uuidToRaw(s.AssignedAdmin),
		CustomPrice:             moneyToDecimal(s.CustomPrice),
		EstimatedCompletionDate: s.EstimatedCompletionDate,
		RejectionReason:         s.RejectionReason,
		AdminNotes:              s.AdminNotes,
		PaymentStatus:           int(s.PaymentStatus),
		Version:                 s.Version,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
		UpdatedBy:               uuidToRaw(s.UpdatedBy),
	}
}

func toSnapshot(dto OrderDTO) (order.Snapshot, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return order.Snapshot{}, err
	}
	customer, err := kernel.UUIDFromGoogle(dto.CustomerID)
	if err != nil {
		return order.Snapshot{}, err
	}
	budget, err := decimalToMoney(dto.Budget)
	if err != nil {
		return order.Snapshot{}, err
	}
	price, err := decimalToMoney(dto.CustomPrice)
	if err != nil {
		return order.Snapshot{}, err
	}
	assigned, err := rawToUUID(dto.AssignedAdmin)
	if err != nil {
		return order.Snapshot{}, err
	}
	updatedBy, err := rawToUUID(dto.UpdatedBy)
	if err != nil {
		return order.Snapshot{}, err
	}

	return order.Snapshot{
		ID:                      id,
		CustomerID:              customer,
		Type:                    order.Type(dto.Type),
		Title:                   dto.Title,
		Description:             dto.Description,
		Budget:                  budget,
		Status:                  order.Status(dto.Status),
		Priority:                kernel.Priority(dto.Priority),
		AssignedAdmin:           assigned,
		CustomPrice:             price,
		EstimatedCompletionDate: utcPtr(dto.EstimatedCompletionDate),
		RejectionReason:         dto.RejectionReason,
		AdminNotes:              dto.AdminNotes,
		PaymentStatus:           order.PaymentStatus(dto.PaymentStatus),
		Version:                 dto.Version,
		CreatedAt:               dto.CreatedAt.UTC(),
		UpdatedAt:               dto.UpdatedAt.UTC(),
		UpdatedBy:               updatedBy,
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	s, err := toSnapshot(dto)
	if err != nil {
		return nil, err
	}
	return order.RestoreOrder(s)
}

func moneyToDecimal(m *kernel.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Amount()
	return &d
}

func decimalToMoney(d *decimal.Decimal) (*kernel.Money, error) {
	if d == nil {
		return nil, nil
	}
	m, err := kernel.NewMoney(*d)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func uuidToRaw(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func rawToUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
