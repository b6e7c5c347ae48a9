// Package registry implements the kind-keyed factory registry. Kind plugins
// register their builders during an explicit initialization phase; after the
// host freezes the registry it is read-only for the duration of a run.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/driftcheck/driftcheck/pkg/entity"
)

// Registry maps entity kinds to their builders. Registration is additive:
// a duplicate registration for a kind is a configuration error, never a
// silent overwrite, so plugins cannot shadow one another unintentionally.
type Registry struct {
	// mu protects the registry state.
	mu sync.RWMutex

	// builders maps kind to its registered builder.
	builders map[entity.Kind]entity.Builder

	// frozen marks the end of the registration phase. Freeze is the
	// happens-before barrier between plugin registration and the pipeline.
	frozen bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		builders: make(map[entity.Kind]entity.Builder),
	}
}

// Register registers a builder for a kind. It fails if the kind is already
// registered or the registry has been frozen.
func (r *Registry) Register(kind entity.Kind, builder entity.Builder) error {
	if _, err := entity.ParseKind(kind.String()); err != nil {
		return err
	}
	if builder == nil {
		return fmt.Errorf("builder for kind %s is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("cannot register kind %s: %w", kind, entity.ErrRegistryFrozen)
	}
	if _, exists := r.builders[kind]; exists {
		return fmt.Errorf("cannot register kind %s: %w", kind, entity.ErrDuplicateRegistration)
	}

	r.builders[kind] = builder
	return nil
}

// Freeze ends the registration phase. All plugin registration must complete
// before the first Resolve call; Freeze makes that ordering explicit.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Resolve returns the builder registered for a kind.
func (r *Registry) Resolve(kind entity.Kind) (entity.Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	builder, exists := r.builders[kind]
	if !exists {
		return nil, entity.NewUnknownKindError(kind)
	}
	return builder, nil
}

// Construct resolves the builder for a kind and builds an instance from the
// given spec map.
func (r *Registry) Construct(kind entity.Kind, spec map[string]any) (entity.Instance, error) {
	builder, err := r.Resolve(kind)
	if err != nil {
		return nil, err
	}
	instance, err := builder.Build(spec)
	if err != nil {
		return nil, entity.NewConstructionError(kind, err)
	}
	return instance, nil
}

// Kinds returns every registered kind in lexical order.
func (r *Registry) Kinds() []entity.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]entity.Kind, 0, len(r.builders))
	for kind := range r.builders {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.builders)
}
