package expr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// Evaluator matches records against CEL predicates. Compiled programs are
// cached by expression text.
type Evaluator struct {
	env   *cel.Env
	cache map[string]cel.Program
	mu    sync.RWMutex
}

// NewEvaluator creates an evaluator exposing two variables to expressions:
// item (the record, dynamically typed) and index (its zero-based position).
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("index", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("expr: create CEL environment: %w", err)
	}

	return &Evaluator{
		env:   env,
		cache: make(map[string]cel.Program),
	}, nil
}

// Match reports whether record satisfies expression. An empty expression
// matches every record. Evaluation errors such as reading a key the record
// does not have count as no match; compile errors and non-boolean results
// are returned.
func (e *Evaluator) Match(expression string, record any, index int) (bool, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return true, nil
	}

	program, err := e.getProgram(trimmed)
	if err != nil {
		return false, err
	}

	out, _, err := program.Eval(map[string]any{
		"item":  record,
		"index": int64(index),
	})
	if err != nil {
		return false, nil
	}

	matched, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("expr: %q returned %s, want bool", trimmed, out.Type().TypeName())
	}
	return bool(matched), nil
}

// Validate compiles expression without evaluating it.
func (e *Evaluator) Validate(expression string) error {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil
	}
	_, err := e.getProgram(trimmed)
	return err
}

func (e *Evaluator) getProgram(expression string) (cel.Program, error) {
	e.mu.RLock()
	if program, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return program, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.cache[expression]; ok {
		return program, nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("expr: compile %q: %w", expression, issues.Err())
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, fmt.Errorf("expr: %q has type %s, want bool", expression, out)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("expr: program %q: %w", expression, err)
	}

	e.cache[expression] = program
	return program, nil
}
