package modeler

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"supermodeler/internal/common"
	"supermodeler/validators"
)

// Registry owns model types and mappers. Define everything first; Create
// and Map may then be called concurrently.
type Registry struct {
	mu      sync.RWMutex
	models  map[string]*ModelType
	mappers map[string]*Mapper

	logger             *slog.Logger
	observer           Observer
	validators         *validators.Set
	newValidationError ValidationErrorFunc
}

// Observer receives the outcome of every construction. Map is reported per
// item, so MapAll and sequence sources produce one observation each.
type Observer interface {
	ObserveCreate(model string, elapsed time.Duration, err error)
	ObserveMap(source, target string, elapsed time.Duration, err error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for definition and mapping events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver reports every Create and Map outcome to o.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// WithValidators replaces the predicate set used by schema constraints.
func WithValidators(set *validators.Set) Option {
	return func(r *Registry) {
		if set != nil {
			r.validators = set
		}
	}
}

// WithValidationError sets the constructor for validation failures.
func WithValidationError(fn ValidationErrorFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newValidationError = fn
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		models:             make(map[string]*ModelType),
		mappers:            make(map[string]*Mapper),
		logger:             slog.New(slog.DiscardHandler),
		validators:         validators.Default(),
		newValidationError: defaultValidationError,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Validators returns the predicate set used by this registry.
func (r *Registry) Validators() *validators.Set {
	return r.validators
}

// DefineModel compiles schema and stores it under name, replacing any
// previous definition.
func (r *Registry) DefineModel(name string, schema Schema) (*ModelType, error) {
	m, err := compileSchema(name, schema, compileEnv{
		resolver:           r,
		validators:         r.validators,
		newValidationError: r.newValidationError,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	_, replaced := r.models[name]
	r.models[name] = m
	r.mu.Unlock()

	r.logger.Debug("model defined", "model", name, "fields", len(m.fields), "replaced", replaced)

	return m, nil
}

// DefineMap compiles rules for the (source, target) pair, replacing any
// previous rules for that pair. The source need not be a defined model.
func (r *Registry) DefineMap(source, target string, rules Rules) (*Mapper, error) {
	m, err := compileMapper(source, target, rules)
	if err != nil {
		return nil, err
	}

	key := common.PairKey(source, target)

	r.mu.Lock()
	_, replaced := r.mappers[key]
	r.mappers[key] = m
	r.mu.Unlock()

	r.logger.Debug("map defined", "source", source, "target", target, "rules", len(m.rules), "replaced", replaced)

	return m, nil
}

// Get returns the model registered under name.
func (r *Registry) Get(name string) (*ModelType, error) {
	r.mu.RLock()
	m, ok := r.models[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Kind: "model", Name: name}
	}

	return m, nil
}

// Mapper returns the mapper registered for the (source, target) pair.
func (r *Registry) Mapper(source, target string) (*Mapper, error) {
	key := common.PairKey(source, target)

	r.mu.RLock()
	m, ok := r.mappers[key]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Kind: "mapper", Name: key}
	}

	return m, nil
}

// Models returns the registered model names, sorted.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.models))
}

// Mappers returns the registered mappers sorted by pair key.
func (r *Registry) Mappers() []*Mapper {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(r.mappers))
	out := make([]*Mapper, len(keys))

	for i, k := range keys {
		out[i] = r.mappers[k]
	}

	return out
}

// Create constructs an instance of name from raw initial values.
func (r *Registry) Create(name string, initial any) (inst *Instance, err error) {
	if r.observer != nil {
		defer func(start time.Time) {
			r.observer.ObserveCreate(name, time.Since(start), err)
		}(time.Now())
	}

	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	return m.construct(initial, nil)
}

// Map transforms one source value into an instance of target using the
// rules defined for (source, target).
func (r *Registry) Map(source any, from, to string) (inst *Instance, err error) {
	if r.observer != nil {
		defer func(start time.Time) {
			r.observer.ObserveMap(from, to, time.Since(start), err)
		}(time.Now())
	}

	mapper, err := r.Mapper(from, to)
	if err != nil {
		return nil, err
	}

	m, err := r.Get(to)
	if err != nil {
		return nil, err
	}

	return m.construct(source, mapper)
}

// MapAll maps every element of a slice or array, preserving order and length.
func (r *Registry) MapAll(sources any, from, to string) ([]*Instance, error) {
	rv := reflect.ValueOf(sources)
	if !isSequence(rv) {
		return nil, fmt.Errorf("map %s: sources of type %T are not a sequence", common.PairKey(from, to), sources)
	}

	out := make([]*Instance, rv.Len())

	for i := range out {
		inst, err := r.Map(rv.Index(i).Interface(), from, to)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		out[i] = inst
	}

	return out, nil
}

func isSequence(rv reflect.Value) bool {
	return rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array)
}
