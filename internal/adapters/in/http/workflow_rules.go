package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bitversity/internal/core/application/usecases/commands"
	"bitversity/internal/core/application/usecases/queries"
	"bitversity/internal/core/domain/model/kernel"
)

// ListWorkflowRules handles GET /api/v1/workflow-rules.
func (s *Server) ListWorkflowRules(c echo.Context) error {
	rules, err := s.h.ListRules.Handle(c.Request().Context(), queries.NewListWorkflowRulesQuery())
	if err != nil {
		return err
	}
	resp := make([]ruleResponse, 0, len(rules))
	for _, r := range rules {
		resp = append(resp, toRuleResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateWorkflowRule handles POST /api/v1/workflow-rules.
func (s *Server) CreateWorkflowRule(c echo.Context) error {
	var req ruleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateWorkflowRuleCommand(kernel.NewUUID(), req.definition(), actorFrom(c))
	if err != nil {
		return err
	}
	rule, err := s.h.CreateRule.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRuleResponse(rule))
}

// UpdateWorkflowRule handles PUT /api/v1/workflow-rules/{ruleId}.
func (s *Server) UpdateWorkflowRule(c echo.Context) error {
	id, err := pathUUID(c, "ruleId")
	if err != nil {
		return err
	}
	var req ruleRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateWorkflowRuleCommand(id, req.definition())
	if err != nil {
		return err
	}
	rule, err := s.h.UpdateRule.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRuleResponse(rule))
}

// DeleteWorkflowRule handles DELETE /api/v1/workflow-rules/{ruleId}.
func (s *Server) DeleteWorkflowRule(c echo.Context) error {
	id, err := pathUUID(c, "ruleId")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteWorkflowRuleCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.DeleteRule.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleWorkflowRule handles POST /api/v1/workflow-rules/{ruleId}/toggle.
func (s *Server) ToggleWorkflowRule(c echo.Context) error {
	id, err := pathUUID(c, "ruleId")
	if err != nil {
		return err
	}
	var req toggleRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewToggleWorkflowRuleCommand(id, *req.IsActive)
	if err != nil {
		return err
	}
	rule, err := s.h.ToggleRule.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRuleResponse(rule))
}

// ListRuleFailures handles GET /api/v1/rule-failures.
func (s *Server) ListRuleFailures(c echo.Context) error {
	ruleID, err := queryUUID(c, "ruleId")
	if err != nil {
		return err
	}
	orderID, err := queryUUID(c, "orderId")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	query, err := queries.NewListRuleFailuresQuery(ruleID, orderID, limit)
	if err != nil {
		return err
	}
	failures, err := s.h.ListRuleFailures.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	resp := make([]ruleFailureResponse, 0, len(failures))
	for _, f := range failures {
		resp = append(resp, toRuleFailureResponse(f))
	}
	return c.JSON(http.StatusOK, resp)
}
