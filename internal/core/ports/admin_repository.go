package ports

import (
	"context"

	"bitversity/internal/core/domain/model/admin"
	"bitversity/internal/core/domain/model/kernel"
)

// AdminRepository exposes the administrator directory.
type AdminRepository interface {
	Add(ctx context.Context, a *admin.Admin) error

	// Get returns errs.ObjectNotFoundError for unknown or inactive admins.
	Get(ctx context.Context, id kernel.UUID) (*admin.Admin, error)

	ListActive(ctx context.Context) ([]*admin.Admin, error)
}
