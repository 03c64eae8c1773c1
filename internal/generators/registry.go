package generators

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

// Registry errors.
var (
	// ErrGeneratorNotFound is returned when no generator matches an id.
	ErrGeneratorNotFound = errors.New("generator not found")

	// ErrDuplicateKind is returned when two generators share a kind.
	ErrDuplicateKind = errors.New("duplicate generator kind")
)

// Registry is an ordered set of generator specs keyed by kind. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]generation.Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]generation.Spec)}
}

// CanonicalID maps a generator id to its registry key. Underscores and
// hyphens are interchangeable and ids are case-insensitive.
func CanonicalID(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "_", "-")
}

// Register validates spec and adds it. Kinds must be unique.
func (r *Registry) Register(spec generation.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	key := CanonicalID(spec.Kind)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, spec.Kind)
	}
	r.specs[key] = spec
	return nil
}

// Get returns the spec registered under id.
func (r *Registry) Get(id string) (generation.Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[CanonicalID(id)]
	if !ok {
		return generation.Spec{}, fmt.Errorf("%w: %s", ErrGeneratorNotFound, id)
	}
	return spec, nil
}

// Specs returns every spec sorted by order, then kind.
func (r *Registry) Specs() []generation.Spec {
	r.mu.RLock()
	specs := make([]generation.Spec, 0, len(r.specs))
	for _, spec := range r.specs {
		specs = append(specs, spec)
	}
	r.mu.RUnlock()

	slices.SortFunc(specs, func(a, b generation.Spec) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
	return specs
}

// Kinds returns the registered kinds in Specs order.
func (r *Registry) Kinds() []string {
	specs := r.Specs()
	kinds := make([]string, len(specs))
	for i, spec := range specs {
		kinds[i] = spec.Kind
	}
	return kinds
}

// Len returns the number of registered specs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.specs)
}
