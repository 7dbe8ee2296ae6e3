// Package checks provides the registry and implementation of all checks
// supported by the sigsmoke engine. This file specifically defines the
// registry system that allows checks to be registered, discovered, and
// executed during a suite run.
package checks

import (
	"fmt"
	"sync"

	"sigsmoke/pkg/source"
	"sigsmoke/pkg/suite"
)

// CheckHandler is the function signature for check execution handlers.
// The handler receives the tree to read from, the source declaration the
// check references, and the check definition itself. A false result with a
// non-nil error carries the failure detail (e.g. the missing literals).
type CheckHandler func(tree *source.Tree, src *suite.Source, check *suite.Check) (bool, error)

// CheckRegistry manages the registration and lookup of check handlers.
type CheckRegistry struct {
	mu       sync.RWMutex
	handlers map[string]CheckHandler
}

// NewCheckRegistry creates a new empty check registry.
func NewCheckRegistry() *CheckRegistry {
	return &CheckRegistry{
		handlers: make(map[string]CheckHandler),
	}
}

// Register adds a new check handler to the registry.
func (r *CheckRegistry) Register(checkType string, handler CheckHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[checkType]; exists {
		return fmt.Errorf("check handler for type '%s' is already registered", checkType)
	}

	r.handlers[checkType] = handler
	return nil
}

// MustRegister adds a new check handler to the registry, panicking if it fails.
func (r *CheckRegistry) MustRegister(checkType string, handler CheckHandler) {
	if err := r.Register(checkType, handler); err != nil {
		panic(err)
	}
}

// Get retrieves a check handler by type.
func (r *CheckRegistry) Get(checkType string) (CheckHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[checkType]
	if !exists {
		return nil, fmt.Errorf("no handler registered for check type '%s'", checkType)
	}

	return handler, nil
}

// Types returns the registered check type names.
func (r *CheckRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}

// Execute runs a check using the appropriate handler.
func (r *CheckRegistry) Execute(tree *source.Tree, s *suite.Suite, check *suite.Check) (bool, error) {
	if check == nil {
		return false, fmt.Errorf("cannot execute nil check")
	}

	if check.Type == "" {
		return false, fmt.Errorf("check missing required 'type' field")
	}

	handler, err := r.Get(check.Type)
	if err != nil {
		return false, err
	}

	src := s.FindSource(check.Source)
	if src == nil {
		return false, fmt.Errorf("check references undeclared source '%s'", check.Source)
	}

	return handler(tree, src, check)
}

// Global instance for convenience
var DefaultRegistry = NewCheckRegistry()

// RegisterCheck registers a check handler with the default registry.
func RegisterCheck(checkType string, handler CheckHandler) error {
	return DefaultRegistry.Register(checkType, handler)
}

// MustRegisterCheck registers a check handler with the default registry,
// panicking if it fails.
func MustRegisterCheck(checkType string, handler CheckHandler) {
	DefaultRegistry.MustRegister(checkType, handler)
}

// ExecuteCheck executes a check using the default registry.
func ExecuteCheck(tree *source.Tree, s *suite.Suite, check *suite.Check) (bool, error) {
	return DefaultRegistry.Execute(tree, s, check)
}
