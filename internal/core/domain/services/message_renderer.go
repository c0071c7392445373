package services

import (
	"bytes"
	"strings"
	"text/template"

	"bitversity/internal/core/domain/model/order"
	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/pkg/errs"
)

const maxRenderedLength = 2000

// MessageRenderer renders notify-action templates.
//
// Templates use text/template syntax over a flat map of the order facts plus
// a few event attributes:
//
//	Order {{.title}} moved from {{.previous_status}} to {{.status}}
//
// Unknown keys render as empty strings.
type MessageRenderer struct{}

// NewMessageRenderer creates a new MessageRenderer instance.
func NewMessageRenderer() MessageRenderer {
	return MessageRenderer{}
}

// Validate reports whether tmpl parses.
func (r MessageRenderer) Validate(tmpl string) error {
	_, err := r.parse(tmpl)
	return err
}

// Render executes tmpl for the event. The result is trimmed and capped.
func (r MessageRenderer) Render(tmpl string, subject order.Snapshot, event order.Event, facts workflow.Facts) (string, error) {
	t, err := r.parse(tmpl)
	if err != nil {
		return "", err
	}

	data := make(map[string]string, len(facts)+4)
	for field, value := range facts {
		data[string(field)] = value
	}
	data["order_id"] = subject.ID.String()
	data["title"] = subject.Title
	data["event_type"] = event.Type.String()
	if subject.CustomPrice != nil {
		data["price"] = subject.CustomPrice.String()
	}

	var buf bytes.Buffer
	if err = t.Execute(&buf, data); err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("notify template", err)
	}

	msg := strings.TrimSpace(buf.String())
	if msg == "" {
		return "", errs.NewValueIsRequiredError("rendered message")
	}
	if len(msg) > maxRenderedLength {
		msg = msg[:maxRenderedLength]
	}
	return msg, nil
}

func (r MessageRenderer) parse(tmpl string) (*template.Template, error) {
	t, err := template.New("notify").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("notify template", err)
	}
	return t, nil
}
