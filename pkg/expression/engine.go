// Package expression compiles and caches expr-lang programs used for rule
// evaluation.
package expression

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine is a wrapper around expr-lang/expr with a program cache
type Engine struct {
	programCache map[string]*vm.Program
	functions    map[string]func(params ...interface{}) (interface{}, error)
	mu           sync.RWMutex
}

// NewEngine creates a new expression engine with LOWER, CONTAINS and LEN
// available to every expression.
func NewEngine() *Engine {
	e := &Engine{
		programCache: make(map[string]*vm.Program),
		functions:    make(map[string]func(params ...interface{}) (interface{}, error)),
	}
	e.RegisterFunction("LOWER", lowerFunc)
	e.RegisterFunction("CONTAINS", containsFunc)
	e.RegisterFunction("LEN", lenFunc)
	return e
}

// Evaluate compiles (if needed) and runs an expression against the given environment
func (e *Engine) Evaluate(expression string, env map[string]interface{}) (interface{}, error) {
	program, err := e.getProgram(expression, env, false)
	if err != nil {
		return nil, err
	}

	return expr.Run(program, env)
}

// EvaluateBool runs a predicate. The expression must produce a bool.
func (e *Engine) EvaluateBool(expression string, env map[string]interface{}) (bool, error) {
	program, err := e.getProgram(expression, env, true)
	if err != nil {
		return false, err
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q returned %T, want bool", expression, out)
	}
	return b, nil
}

// CompileBool type-checks a predicate against a sample environment and caches it.
func (e *Engine) CompileBool(expression string, env map[string]interface{}) error {
	_, err := e.getProgram(expression, env, true)
	return err
}

// RegisterFunction registers a custom function
func (e *Engine) RegisterFunction(name string, fn func(params ...interface{}) (interface{}, error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.functions[name] = fn
	// Clear cache as available functions changed
	e.programCache = make(map[string]*vm.Program)
}

func (e *Engine) getProgram(expression string, env map[string]interface{}, asBool bool) (*vm.Program, error) {
	key := expression
	if asBool {
		key = "bool:" + expression
	}

	e.mu.RLock()
	if prog, ok := e.programCache[key]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double check
	if prog, ok := e.programCache[key]; ok {
		return prog, nil
	}

	options := []expr.Option{expr.Env(env)}
	if asBool {
		options = append(options, expr.AsBool())
	}

	for name, fn := range e.functions {
		options = append(options, expr.Function(name, fn))
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}

	e.programCache[key] = program
	return program, nil
}

func lowerFunc(params ...interface{}) (interface{}, error) {
	s, err := stringArg("LOWER", params)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

// containsFunc is a case-insensitive substring test.
func containsFunc(params ...interface{}) (interface{}, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("CONTAINS requires 2 arguments")
	}
	s, ok1 := params[0].(string)
	sub, ok2 := params[1].(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("CONTAINS arguments must be strings")
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub)), nil
}

func lenFunc(params ...interface{}) (interface{}, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("LEN requires 1 argument")
	}
	switch v := params[0].(type) {
	case string:
		return len(v), nil
	case []string:
		return len(v), nil
	case []interface{}:
		return len(v), nil
	}
	return nil, fmt.Errorf("LEN argument must be string or list")
}

func stringArg(name string, params []interface{}) (string, error) {
	if len(params) != 1 {
		return "", fmt.Errorf("%s requires 1 argument", name)
	}
	s, ok := params[0].(string)
	if !ok {
		return "", fmt.Errorf("%s argument must be string", name)
	}
	return s, nil
}
