package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bitversity/internal/core/application/usecases/commands"
	"bitversity/internal/core/application/usecases/queries"
)

// ListNotifications handles GET /api/v1/notifications for the calling admin.
func (s *Server) ListNotifications(c echo.Context) error {
	unreadOnly, err := queryBool(c, "unreadOnly")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	query, err := queries.NewListNotificationsQuery(actorFrom(c), unreadOnly, limit)
	if err != nil {
		return err
	}
	list, err := s.h.ListNotifications.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	resp := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, resp)
}

// MarkNotificationRead handles POST /api/v1/notifications/{notificationId}/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	id, err := pathUUID(c, "notificationId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkNotificationReadCommand(id, actorFrom(c))
	if err != nil {
		return err
	}
	n, err := s.h.MarkRead.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNotificationResponse(n))
}

// ListTasks handles GET /api/v1/tasks.
func (s *Server) ListTasks(c echo.Context) error {
	assigned, err := queryUUID(c, "assignedAdmin")
	if err != nil {
		return err
	}
	orderID, err := queryUUID(c, "orderId")
	if err != nil {
		return err
	}
	statuses, err := queryStrings(c, "status")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	query, err := queries.NewListTasksQuery(assigned, orderID, statuses, limit)
	if err != nil {
		return err
	}
	list, err := s.h.ListTasks.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	resp := make([]taskResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, toTaskResponse(t))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateTask handles POST /api/v1/tasks.
func (s *Server) CreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	orderID, err := fromGoogle(req.OrderID)
	if err != nil {
		return err
	}
	assignee, err := fromGoogle(req.AssigneeID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateTaskCommand(orderID, req.Title, req.Description, req.Priority,
		req.DueDate, assignee, req.EstimatedHours, actorFrom(c))
	if err != nil {
		return err
	}
	t, err := s.h.CreateTask.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(t))
}

// UpdateTaskStatus handles PUT /api/v1/tasks/{taskId}/status.
func (s *Server) UpdateTaskStatus(c echo.Context) error {
	id, err := pathUUID(c, "taskId")
	if err != nil {
		return err
	}
	var req taskStatusRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateTaskStatusCommand(id, req.Status, req.ActualHours)
	if err != nil {
		return err
	}
	t, err := s.h.UpdateTaskStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(t))
}
