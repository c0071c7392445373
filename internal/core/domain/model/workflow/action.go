package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/errs"
)

// ActionKind tags the closed set of workflow actions.
type ActionKind string

const (
	KindAssign      ActionKind = "assign"
	KindNotify      ActionKind = "notify"
	KindCreateTask  ActionKind = "create_task"
	KindSetPriority ActionKind = "set_priority"
)

const (
	maxTemplateLength = 2000
	maxDueOffsetDays  = 365
)

// Action is one step of a rule. The set of implementations is closed:
// AssignAction, NotifyAction, CreateTaskAction, SetPriorityAction and
// MalformedAction for stored specs that could not be decoded.
type Action interface {
	Kind() ActionKind
	Validate() error
	sealed()
}

// AssignAction hands the order to an administrator.
type AssignAction struct {
	AdminID kernel.UUID
}

func (AssignAction) Kind() ActionKind { return KindAssign }
func (AssignAction) sealed()          {}

func (a AssignAction) Validate() error {
	if err := a.AdminID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("assign admin id", err)
	}
	return nil
}

// NotifyAction sends a notification rendered from Template. Template is a
// text/template over the order facts.
type NotifyAction struct {
	RecipientID kernel.UUID
	Template    string
	Metadata    map[string]string
}

func (NotifyAction) Kind() ActionKind { return KindNotify }
func (NotifyAction) sealed()          {}

func (a NotifyAction) Validate() error {
	var joined []error
	if err := a.RecipientID.Validate(); err != nil {
		joined = append(joined, errs.NewValueIsRequiredErrorWithCause("notify recipient id", err))
	}
	switch t := strings.TrimSpace(a.Template); {
	case t == "":
		joined = append(joined, errs.NewValueIsRequiredError("notify template"))
	case len(t) > maxTemplateLength:
		joined = append(joined, errs.NewValueIsOutOfRangeError("notify template length", len(t), 1, maxTemplateLength))
	}
	return errors.Join(joined...)
}

// CreateTaskAction creates a task linked to the order, due DueOffsetDays
// after the triggering event.
type CreateTaskAction struct {
	Title         string
	AssigneeID    kernel.UUID
	Priority      kernel.Priority
	DueOffsetDays int
}

func (CreateTaskAction) Kind() ActionKind { return KindCreateTask }
func (CreateTaskAction) sealed()          {}

func (a CreateTaskAction) Validate() error {
	var joined []error
	if strings.TrimSpace(a.Title) == "" {
		joined = append(joined, errs.NewValueIsRequiredError("task title"))
	}
	if err := a.AssigneeID.Validate(); err != nil {
		joined = append(joined, errs.NewValueIsRequiredErrorWithCause("task assignee id", err))
	}
	if err := a.Priority.Validate(); err != nil {
		joined = append(joined, err)
	}
	if a.DueOffsetDays < 0 || a.DueOffsetDays > maxDueOffsetDays {
		joined = append(joined, errs.NewValueIsOutOfRangeError("due offset days", a.DueOffsetDays, 0, maxDueOffsetDays))
	}
	return errors.Join(joined...)
}

// SetPriorityAction changes the order priority.
type SetPriorityAction struct {
	Priority kernel.Priority
}

func (SetPriorityAction) Kind() ActionKind { return KindSetPriority }
func (SetPriorityAction) sealed()          {}

func (a SetPriorityAction) Validate() error {
	return a.Priority.Validate()
}

// MalformedAction stands in for a stored action that could not be decoded.
// Executing it is a fatal failure for its rule.
type MalformedAction struct {
	RawKind string
	Err     error
}

func (a MalformedAction) Kind() ActionKind { return ActionKind(a.RawKind) }
func (MalformedAction) sealed()            {}

func (a MalformedAction) Validate() error {
	return errs.NewValueIsInvalidErrorWithCause("action", a.Err)
}

// actionSpec is the stored shape of an action.
type actionSpec struct {
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params"`
}

type assignParams struct {
	AdminID string `json:"adminId"`
}

type notifyParams struct {
	RecipientID string            `json:"recipientId"`
	Template    string            `json:"template"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type createTaskParams struct {
	Title         string `json:"title"`
	AssigneeID    string `json:"assigneeId"`
	Priority      string `json:"priority"`
	DueOffsetDays int    `json:"dueOffsetDays"`
}

type setPriorityParams struct {
	Priority string `json:"priority"`
}

// EncodeActions serializes actions for storage as [{"kind":..,"params":{..}}].
func EncodeActions(actions []Action) ([]byte, error) {
	specs := make([]actionSpec, 0, len(actions))
	for i, a := range actions {
		var params any
		switch v := a.(type) {
		case AssignAction:
			params = assignParams{AdminID: v.AdminID.String()}
		case NotifyAction:
			params = notifyParams{RecipientID: v.RecipientID.String(), Template: v.Template, Metadata: v.Metadata}
		case CreateTaskAction:
			params = createTaskParams{
				Title:         v.Title,
				AssigneeID:    v.AssigneeID.String(),
				Priority:      v.Priority.String(),
				DueOffsetDays: v.DueOffsetDays,
			}
		case SetPriorityAction:
			params = setPriorityParams{Priority: v.Priority.String()}
		default:
			return nil, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("action #%d of kind %q cannot be stored", i, a.Kind()))
		}
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		specs = append(specs, actionSpec{Kind: string(a.Kind()), Params: raw})
	}
	return json.Marshal(specs)
}

// DecodeActions parses stored actions. It never fails: an undecodable item
// becomes a MalformedAction in its position, and an undecodable document
// becomes a single MalformedAction.
func DecodeActions(raw []byte) []Action {
	var specs []actionSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return []Action{MalformedAction{RawKind: "unknown", Err: err}}
	}
	actions := make([]Action, 0, len(specs))
	for _, spec := range specs {
		actions = append(actions, DecodeAction(spec.Kind, spec.Params))
	}
	return actions
}

// DecodeAction builds one action from its kind and JSON params. Unknown
// fields in params are rejected.
func DecodeAction(kind string, params json.RawMessage) Action {
	malformed := func(err error) Action {
		return MalformedAction{RawKind: kind, Err: err}
	}

	var action Action
	switch ActionKind(kind) {
	case KindAssign:
		var p assignParams
		if err := strictUnmarshal(params, &p); err != nil {
			return malformed(err)
		}
		id, err := kernel.UUIDFromString(p.AdminID)
		if err != nil {
			return malformed(err)
		}
		action = AssignAction{AdminID: id}
	case KindNotify:
		var p notifyParams
		if err := strictUnmarshal(params, &p); err != nil {
			return malformed(err)
		}
		id, err := kernel.UUIDFromString(p.RecipientID)
		if err != nil {
			return malformed(err)
		}
		action = NotifyAction{RecipientID: id, Template: p.Template, Metadata: p.Metadata}
	case KindCreateTask:
		var p createTaskParams
		if err := strictUnmarshal(params, &p); err != nil {
			return malformed(err)
		}
		id, err := kernel.UUIDFromString(p.AssigneeID)
		if err != nil {
			return malformed(err)
		}
		if p.Priority == "" {
			p.Priority = kernel.PriorityMedium.String()
		}
		action = CreateTaskAction{
			Title:         p.Title,
			AssigneeID:    id,
			Priority:      kernel.Priority(p.Priority),
			DueOffsetDays: p.DueOffsetDays,
		}
	case KindSetPriority:
		var p setPriorityParams
		if err := strictUnmarshal(params, &p); err != nil {
			return malformed(err)
		}
		action = SetPriorityAction{Priority: kernel.Priority(p.Priority)}
	default:
		return malformed(fmt.Errorf("unknown action kind %q", kind))
	}

	if err := action.Validate(); err != nil {
		return malformed(err)
	}
	return action
}

func strictUnmarshal(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return errors.New("params are missing")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
