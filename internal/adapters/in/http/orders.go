package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bitversity/internal/core/application/usecases/commands"
	"bitversity/internal/core/application/usecases/queries"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/order"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customerID, err := kernel.UUIDFromGoogle(req.CustomerID)
	if err != nil {
		return err
	}
	var budget *kernel.Money
	if req.Budget != nil {
		m, mErr := kernel.NewMoney(*req.Budget)
		if mErr != nil {
			return mErr
		}
		budget = &m
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), customerID, req.Type, req.Title, req.Description, budget, req.Priority)
	if err != nil {
		return err
	}
	snapshot, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(snapshot))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	statuses, err := queryStrings(c, "status")
	if err != nil {
		return err
	}
	assigned, err := queryUUID(c, "assignedAdmin")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(statuses, assigned, limit, offset)
	if err != nil {
		return err
	}
	list, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(list))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}
	snapshot, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req transitionRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderCommand(id, actorFrom(c), req.Status, req.Reason, req.Notes, req.ExpectedVersion)
	if err != nil {
		return err
	}
	snapshot, err := s.h.TransitionOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// SetOrderPrice handles PUT /api/v1/orders/{orderId}/price.
func (s *Server) SetOrderPrice(c echo.Context) error {
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req priceRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	price, err := kernel.NewMoney(req.Price)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSetOrderPriceCommand(id, actorFrom(c), price, req.EstimatedCompletionDate, req.ExpectedVersion)
	if err != nil {
		return err
	}
	snapshot, err := s.h.SetOrderPrice.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// AssignOrder handles PUT /api/v1/orders/{orderId}/assignee.
func (s *Server) AssignOrder(c echo.Context) error {
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req assignRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	adminID, err := kernel.UUIDFromGoogle(req.AdminID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAssignOrderCommand(id, adminID, actorFrom(c), req.ExpectedVersion)
	if err != nil {
		return err
	}
	snapshot, err := s.h.AssignOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// UpdatePaymentStatus handles PUT /api/v1/orders/{orderId}/payment.
func (s *Server) UpdatePaymentStatus(c echo.Context) error {
	id, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req paymentRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdatePaymentStatusCommand(id, actorFrom(c), req.Status, req.ExpectedVersion)
	if err != nil {
		return err
	}
	snapshot, err := s.h.UpdatePaymentStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// BulkOrders handles POST /api/v1/orders/bulk. Item failures are part of
// the 200 response; only a malformed batch fails as a whole.
func (s *Server) BulkOrders(c echo.Context) error {
	var req bulkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ids := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := kernel.UUIDFromGoogle(raw)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	var action commands.BulkAction
	switch req.Action {
	case "assign":
		adminID, err := fromGoogle(req.AdminID)
		if err != nil {
			return err
		}
		action = commands.BulkAssign{AdminID: *adminID}
	default:
		target, err := order.ParseStatus(req.Status)
		if err != nil {
			return err
		}
		action = commands.BulkTransition{Target: target, Reason: req.Reason, Notes: req.Notes}
	}

	cmd, err := commands.NewBulkOrderCommand(ids, action, req.OnlyEligible, actorFrom(c))
	if err != nil {
		return err
	}
	result, err := s.h.BulkOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	resp := bulkResponse{
		Succeeded: result.Succeeded,
		Skipped:   result.Skipped,
		Failed:    make([]bulkFailureResponse, 0, len(result.Failed)),
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, bulkFailureResponse{OrderID: f.OrderID.String(), Reason: f.Reason})
	}
	return c.JSON(http.StatusOK, resp)
}
