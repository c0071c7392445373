package taskrepo

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/task"
	"bitversity/internal/core/ports"
	"bitversity/internal/pkg/errs"
)

var openStatuses = []string{task.StatusPending.String(), task.StatusInProgress.String()}

type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Add(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	dto := fromDomain(t.Snapshot())
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormTaskRepository) Update(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	dto := fromDomain(t.Snapshot())
	result := r.db.WithContext(ctx).
		Model(&TaskDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("task", t.ID().String())
	}
	return nil
}

func (r *GormTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", id.String())
		}
		return nil, err
	}

	s, err := toSnapshot(dto)
	if err != nil {
		return nil, err
	}
	return task.RestoreTask(s)
}

func (r *GormTaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]*task.Task, error) {
	var dtos []TaskDTO
	err := r.db.WithContext(ctx).
		Where("status = ANY(?)", pq.Array(openStatuses)).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Order("due_date").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]*task.Task, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toSnapshot(dto)
		if err != nil {
			return nil, err
		}
		t, err := task.RestoreTask(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

type GormTaskReader struct {
	db *gorm.DB
}

func NewGormTaskReader(db *gorm.DB) *GormTaskReader {
	return &GormTaskReader{db: db}
}

func (r *GormTaskReader) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]task.Snapshot, error) {
	q := r.db.WithContext(ctx)
	if filter.AssignedAdmin != nil {
		q = q.Where("assigned_admin = ?", filter.AssignedAdmin.Bytes())
	}
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", filter.OrderID.Bytes())
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, s.String())
		}
		q = q.Where("status = ANY(?)", pq.Array(statuses))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var dtos []TaskDTO
	if err := q.Order("due_date ASC NULLS LAST").Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]task.Snapshot, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toSnapshot(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
