package actions

import (
	"fmt"
	"time"

	"github.com/Shopify/go-lua"

	"chronicle/internal/event"
	"chronicle/internal/logger"
	"chronicle/pkg/errors"
	"chronicle/pkg/metrics"
)

// Effects is the complete capability surface a script can reach. The
// dispatcher builds one per invocation, bound to the resolved tenant and the
// context member, so scripts act only on entities the event handed them.
type Effects interface {
	Send(content string) error
	AssignRole(roleID string) error
	RemoveRole(roleID string) error
}

// Interpreter runs one stored script per invocation in a fresh Lua state.
// No state survives between invocations; a fault in one script is returned
// to the caller and affects nothing else.
type Interpreter struct {
	logger logger.Logger
}

func NewInterpreter(log logger.Logger) *Interpreter {
	return &Interpreter{logger: log}
}

// Execute runs script against the context. Any fault, including a panic in
// the Lua runtime, is captured and returned.
func (i *Interpreter) Execute(script string, actx event.ActionContext, name event.Name, fx Effects) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = errors.RecoverPanic(r)
		}
		status := "success"
		if err != nil {
			status = "fault"
		}
		metrics.ScriptRunsTotal.WithLabelValues(status).Inc()
		metrics.ObserveScriptRunDuration(time.Since(start))
	}()

	state := lua.NewState()

	// Base language only. No io, no os, no external reach beyond the
	// registered effect functions.
	lua.Require(state, "_G", lua.BaseOpen, true)
	state.Pop(1)
	lua.Require(state, "string", lua.StringOpen, true)
	state.Pop(1)
	lua.Require(state, "table", lua.TableOpen, true)
	state.Pop(1)
	lua.Require(state, "math", lua.MathOpen, true)
	state.Pop(1)

	bindContext(state, actx, name)
	bindEffects(state, fx)

	if err := lua.DoString(state, script); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}

	return nil
}

// CheckScript validates that the script parses, without running it. Used by
// the management API before an action record is stored.
func (i *Interpreter) CheckScript(script string) error {
	state := lua.NewState()
	if err := lua.LoadString(state, script); err != nil {
		return fmt.Errorf("script does not parse: %w", err)
	}
	return nil
}
