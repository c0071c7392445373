package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"
)

// AdminHeader identifies the acting administrator.
const AdminHeader = "X-Admin-ID"

const actorKey = "actor"

// RequireActor rejects requests without a well-formed AdminHeader and
// stores the parsed identifier for the handlers.
func RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(AdminHeader)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing "+AdminHeader+" header")
		}
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "malformed "+AdminHeader+" header")
		}
		c.Set(actorKey, id)
		return next(c)
	}
}

func actorFrom(c echo.Context) kernel.UUID {
	id, _ := c.Get(actorKey).(kernel.UUID)
	return id
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var raw uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromGoogle(raw)
}

func queryUUID(c echo.Context, name string) (*kernel.UUID, error) {
	var raw *uuid.UUID
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &raw); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v != nil && *v, nil
}

func queryStrings(c echo.Context, name string) ([]string, error) {
	var v []string
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}
