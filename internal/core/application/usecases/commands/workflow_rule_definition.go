package commands

import (
	"errors"
	"fmt"

	"bitversity/internal/core/domain/model/workflow"
	"bitversity/internal/core/domain/services"
)

// validateTemplates checks that every notify template of def parses.
func validateTemplates(def workflow.Definition) error {
	renderer := services.NewMessageRenderer()
	var joined []error
	for i, a := range def.Actions {
		notify, ok := a.(workflow.NotifyAction)
		if !ok {
			continue
		}
		if err := renderer.Validate(notify.Template); err != nil {
			joined = append(joined, fmt.Errorf("action #%d: %w", i, err))
		}
	}
	return errors.Join(joined...)
}
