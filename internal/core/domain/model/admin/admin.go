// Package admin holds the read-only view of administrators used to validate
// assignment targets and address notifications.
package admin

import (
	"errors"
	"net/mail"
	"strings"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"
)

type Admin struct {
	id       kernel.UUID
	name     string
	email    string
	isActive bool
}

func NewAdmin(id kernel.UUID, name, email string, isActive bool) (*Admin, error) {
	var joined []error
	if err := id.Validate(); err != nil {
		joined = append(joined, err)
	}
	if strings.TrimSpace(name) == "" {
		joined = append(joined, errs.NewValueIsRequiredError("admin name"))
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		joined = append(joined, errs.NewValueIsInvalidErrorWithCause("admin email", err))
	}
	if err := errors.Join(joined...); err != nil {
		return nil, err
	}
	return &Admin{
		id:       id,
		name:     strings.TrimSpace(name),
		email:    strings.ToLower(strings.TrimSpace(email)),
		isActive: isActive,
	}, nil
}

func (a *Admin) ID() kernel.UUID { return a.id }
func (a *Admin) Name() string    { return a.name }
func (a *Admin) Email() string   { return a.email }
func (a *Admin) IsActive() bool  { return a.isActive }
