package templates

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DefaultID is the template used for unknown or empty ids.
const DefaultID = "ats"

// Registry is a read-only catalog of template definitions.
type Registry struct {
	defs     map[string]Definition
	order    []string
	fallback string
}

// NewRegistry builds a catalog from defs. Later definitions replace earlier
// ones with the same id, keeping the original listing position.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs)), fallback: DefaultID}
	for _, def := range defs {
		id := strings.ToLower(strings.TrimSpace(def.ID))
		if id == "" {
			return nil, errors.New("template id must not be empty")
		}
		if _, exists := r.defs[id]; !exists {
			r.order = append(r.order, id)
		}
		r.defs[id] = def.clone()
	}

	if _, ok := r.defs[r.fallback]; !ok {
		return nil, fmt.Errorf("default template %q is not registered", r.fallback)
	}
	return r, nil
}

// List returns all definitions in listing order.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id].clone())
	}
	return out
}

// IDs returns the registered ids in listing order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Lookup returns the definition registered under id.
func (r *Registry) Lookup(id string) (Definition, bool) {
	def, ok := r.defs[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// Get returns the definition for id or the default template.
func (r *Registry) Get(id string) Definition {
	if def, ok := r.Lookup(id); ok {
		return def
	}
	return r.defs[r.fallback].clone()
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// ErrInitialized is returned when Init is asked to load extra definitions
// after the process-wide registry has already been built.
var ErrInitialized = errors.New("template registry already initialized")

// Init builds the process-wide registry from the bundled templates plus the
// definitions found in extraDir. It runs once; the registry is frozen after.
func Init(extraDir string) error {
	ran := false
	defaultOnce.Do(func() {
		ran = true
		defaultRegistry, defaultErr = build(extraDir)
	})
	if !ran && strings.TrimSpace(extraDir) != "" && defaultErr == nil {
		return ErrInitialized
	}
	return defaultErr
}

// Default returns the process-wide registry, building it from the bundled
// templates on first use.
func Default() *Registry {
	if err := Init(""); err != nil && !errors.Is(err, ErrInitialized) {
		panic(fmt.Sprintf("bundled templates are invalid: %v", err))
	}
	return defaultRegistry
}

func build(extraDir string) (*Registry, error) {
	defs, err := Builtin()
	if err != nil {
		return nil, err
	}

	extra, err := LoadDir(extraDir)
	if err != nil {
		return nil, err
	}

	return NewRegistry(append(defs, extra...)...)
}
