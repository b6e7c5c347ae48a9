// Package entities wires the built-in kind plugins into a registry. Each
// category package owns its own registrations; RegisterAll is the explicit
// call sequence the host runs before freezing the registry, so there are no
// import-time side effects.
package entities

import (
	"github.com/driftcheck/driftcheck/pkg/entities/core"
	"github.com/driftcheck/driftcheck/pkg/entities/function"
	"github.com/driftcheck/driftcheck/pkg/entities/run"
	"github.com/driftcheck/driftcheck/pkg/entities/trigger"
	"github.com/driftcheck/driftcheck/pkg/entities/workflow"
	"github.com/driftcheck/driftcheck/pkg/registry"
)

// RegisterAll registers every built-in kind plugin. A duplicate
// registration anywhere in the sequence is a plugin wiring bug and fails
// the whole call before any validation runs.
func RegisterAll(reg *registry.Registry) error {
	registrars := []func(*registry.Registry) error{
		core.Register,
		function.Register,
		workflow.Register,
		run.Register,
		trigger.Register,
	}
	for _, register := range registrars {
		if err := register(reg); err != nil {
			return err
		}
	}
	return nil
}
