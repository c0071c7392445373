package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/pkg/errs"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives every order whose write succeeded. The unit of
// work confirms the new version once its transaction commits.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate.Snapshot())
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the order if the stored row still carries the aggregate's
// version, and bumps the stored version.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s := aggregate.Snapshot()
	dto := fromDomain(s)
	dto.Version = s.Version + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, s.Version).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var stored OrderDTO
		err := r.db.WithContext(ctx).Select("version").First(&stored, "id = ?", dto.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("order", s.ID.String())
		}
		if err != nil {
			return err
		}
		return errs.NewConcurrentModificationError("order", s.ID.String(), s.Version, stored.Version)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order with SELECT ... FOR UPDATE. The lock only
// lasts beyond the statement inside a transaction.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(_ context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
