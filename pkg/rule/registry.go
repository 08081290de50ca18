package rule

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/matzehuels/boolnet/pkg/errors"
)

// DefaultName is the rule assigned to randomly generated networks.
const DefaultName = "xor"

// Registry is an immutable mapping from rule name to Evaluator.
// The zero value is not usable - use NewRegistry or Builtin.
type Registry struct {
	rules map[string]Evaluator
	names []string
	def   string
}

// NewRegistry builds a registry from evaluators, keyed by their Name.
// Returns an error if a name is empty or duplicated, or if defaultName is
// not among the evaluators.
func NewRegistry(defaultName string, evaluators ...Evaluator) (*Registry, error) {
	r := &Registry{rules: make(map[string]Evaluator, len(evaluators)), def: defaultName}
	for _, e := range evaluators {
		name := e.Name()
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "evaluator name must not be empty")
		}
		if _, dup := r.rules[name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate evaluator %q", name)
		}
		r.rules[name] = e
		r.names = append(r.names, name)
	}
	if _, ok := r.rules[defaultName]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "default evaluator %q is not registered", defaultName)
	}
	sort.Strings(r.names)
	return r, nil
}

var builtin = sync.OnceValue(func() *Registry {
	evals := make([]Evaluator, len(Kinds))
	for i, k := range Kinds {
		evals[i] = k
	}
	r, err := NewRegistry(DefaultName, evals...)
	if err != nil {
		panic(fmt.Sprintf("rule: builtin registry: %v", err))
	}
	return r
})

// Builtin returns the process-wide registry of the xor, and, or rules.
// It is constructed on first use and shared afterwards.
func Builtin() *Registry { return builtin() }

// Lookup resolves a rule by exact name.
func (r *Registry) Lookup(name string) (Evaluator, error) {
	e, ok := r.rules[name]
	if !ok {
		return nil, &errors.UnknownEvaluatorError{Name: name}
	}
	return e, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.rules[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

// DefaultName returns the name of the default rule.
func (r *Registry) DefaultName() string { return r.def }

// Default returns the default rule.
func (r *Registry) Default() Evaluator { return r.rules[r.def] }
