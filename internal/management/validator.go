package management

import (
	"fmt"

	"chronicle/internal/constants"
	"chronicle/internal/event"
)

// ValidateEventNames checks every name against the closed vocabulary.
func ValidateEventNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("at least one event name is required")
	}

	for _, n := range names {
		if !event.Known(event.Name(n)) {
			return fmt.Errorf("unknown event name: %s", n)
		}
	}

	return nil
}

// ValidateActionRecord checks a new record before it is stored: the event
// must be in the vocabulary and eligible for actions, the script must parse,
// and the condition (if any) must compile to a boolean.
func ValidateActionRecord(req CreateActionRecordRequest, scripts ScriptChecker, conditions ConditionChecker) error {
	name := event.Name(req.Event)
	if !event.Known(name) {
		return fmt.Errorf("unknown event name: %s", req.Event)
	}
	if !event.HasActions(name) {
		return fmt.Errorf("event %s does not support actions", req.Event)
	}

	if req.Script == "" {
		return fmt.Errorf("script is required")
	}
	if len(req.Script) > constants.MaxScriptLength {
		return fmt.Errorf("script exceeds maximum length of %d", constants.MaxScriptLength)
	}
	if err := scripts.CheckScript(req.Script); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}

	if req.Condition != "" {
		if len(req.Condition) > constants.MaxConditionLength {
			return fmt.Errorf("condition exceeds maximum length of %d", constants.MaxConditionLength)
		}
		if err := conditions.ValidateConditionExpression(req.Condition); err != nil {
			return fmt.Errorf("invalid condition: %w", err)
		}
	}

	return nil
}
