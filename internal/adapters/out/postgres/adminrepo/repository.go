// Package adminrepo stores the administrator directory.
package adminrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bitversity/internal/core/domain/model/admin"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"
)

type AdminDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:200;not null"`
	Email     string    `gorm:"size:320;uniqueIndex;not null"`
	IsActive  bool      `gorm:"index;not null"`
	CreatedAt time.Time
}

func (AdminDTO) TableName() string {
	return "admins"
}

type GormAdminRepository struct {
	db *gorm.DB
}

func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

func (r *GormAdminRepository) Add(ctx context.Context, a *admin.Admin) error {
	dto := AdminDTO{
		ID:       a.ID().Bytes(),
		Name:     a.Name(),
		Email:    a.Email(),
		IsActive: a.IsActive(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get hides inactive administrators: they can neither be assigned nor
// receive notifications.
func (r *GormAdminRepository) Get(ctx context.Context, id kernel.UUID) (*admin.Admin, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AdminDTO
	err := r.db.WithContext(ctx).Where("is_active").First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("admin", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormAdminRepository) ListActive(ctx context.Context) ([]*admin.Admin, error) {
	var dtos []AdminDTO
	if err := r.db.WithContext(ctx).Where("is_active").Order("email").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*admin.Admin, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func toDomain(dto AdminDTO) (*admin.Admin, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return admin.NewAdmin(id, dto.Name, dto.Email, dto.IsActive)
}
