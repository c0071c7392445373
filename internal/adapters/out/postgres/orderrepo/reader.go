package orderrepo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
)

// GormOrderReader implements ports.OrderReader. It reads committed rows
// only and never locks.
type GormOrderReader struct {
	db *gorm.DB
}

func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

func (r *GormOrderReader) FindOrder(ctx context.Context, id kernel.UUID) (order.Snapshot, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Snapshot{}, errs.NewObjectNotFoundError("order", id.String())
		}
		return order.Snapshot{}, err
	}
	return toSnapshot(dto)
}

// ListOrders sorts by priority rank, most urgent first, then by creation
// time, newest first.
func (r *GormOrderReader) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]order.Snapshot, error) {
	q := r.db.WithContext(ctx).Model(&OrderDTO{})
	if len(filter.Statuses) > 0 {
		statuses := make([]int64, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int64(s))
		}
		q = q.Where("status = ANY(?)", pq.Array(statuses))
	}
	if filter.AssignedAdmin != nil {
		q = q.Where("assigned_admin = ?", filter.AssignedAdmin.Bytes())
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var dtos []OrderDTO
	if err := q.Order("priority_rank DESC").Order("created_at DESC").Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]order.Snapshot, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toSnapshot(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
