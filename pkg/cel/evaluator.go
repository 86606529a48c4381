package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Evaluator compiles and runs action precondition expressions. Expressions
// see the normalized event name plus whatever entity slots the event carried;
// absent slots evaluate as empty maps so conditions never hard-fail on a
// missing field lookup against the slot itself.
type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("event", cel.StringType),
		cel.Variable("tenant_id", cel.StringType),
		cel.Variable("user", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("member", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("channel", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("message", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("role", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("reaction", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("emoji", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("change", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("detail", cel.StringType),
		cel.Variable("count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

// ValidateConditionExpression checks that the expression compiles against the
// condition environment and yields a boolean.
func (e *Evaluator) ValidateConditionExpression(expression string) error {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("condition expression must return bool, got %v", ast.OutputType())
	}

	return nil
}

// EvaluateCondition compiles and runs the expression against the given
// variables. An empty expression is treated as an unconditional match.
func (e *Evaluator) EvaluateCondition(ctx context.Context, expression string, vars map[string]interface{}) (bool, error) {
	if expression == "" {
		return true, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return false, fmt.Errorf("condition expression must return bool, got %v", ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("failed to create CEL program: %w", err)
	}

	result, _, err := program.ContextEval(ctx, vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
}

// CompileExpression compiles an expression for repeated evaluation.
func (e *Evaluator) CompileExpression(expression string) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return program, nil
}
