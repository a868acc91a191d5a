package declare

import (
	"fmt"
	"maps"
	"slices"

	"supermodeler/fieldpath"
	"supermodeler/modeler"
)

// FuncKind identifies which table a named function lives in.
type FuncKind string

const (
	FuncGetter    FuncKind = "getter"
	FuncCompute   FuncKind = "compute"
	FuncMethod    FuncKind = "method"
	FuncValidator FuncKind = "validator"
)

// Funcs supplies the functions that declarations reference by name.
type Funcs struct {
	getters    map[string]modeler.GetterFunc
	computes   map[string]modeler.ComputeFunc
	methods    map[string]modeler.MethodFunc
	validators map[string]modeler.ValidateFunc
}

// NewFuncs creates an empty function table.
func NewFuncs() *Funcs {
	return &Funcs{
		getters:    make(map[string]modeler.GetterFunc),
		computes:   make(map[string]modeler.ComputeFunc),
		methods:    make(map[string]modeler.MethodFunc),
		validators: make(map[string]modeler.ValidateFunc),
	}
}

// Getter adds a getter and returns f for chaining.
func (f *Funcs) Getter(name string, fn modeler.GetterFunc) *Funcs {
	f.getters[name] = fn
	return f
}

// Compute adds a compute rule function and returns f for chaining.
func (f *Funcs) Compute(name string, fn modeler.ComputeFunc) *Funcs {
	f.computes[name] = fn
	return f
}

// Method adds a method and returns f for chaining.
func (f *Funcs) Method(name string, fn modeler.MethodFunc) *Funcs {
	f.methods[name] = fn
	return f
}

// Validator adds a model validator and returns f for chaining.
func (f *Funcs) Validator(name string, fn modeler.ValidateFunc) *Funcs {
	f.validators[name] = fn
	return f
}

// Has returns true if a function of kind is registered under name.
func (f *Funcs) Has(kind FuncKind, name string) bool {
	return slices.Contains(f.Names(kind), name)
}

// Names returns the registered names of kind, sorted.
func (f *Funcs) Names(kind FuncKind) []string {
	switch kind {
	case FuncGetter:
		return slices.Sorted(maps.Keys(f.getters))
	case FuncCompute:
		return slices.Sorted(maps.Keys(f.computes))
	case FuncMethod:
		return slices.Sorted(maps.Keys(f.methods))
	case FuncValidator:
		return slices.Sorted(maps.Keys(f.validators))
	default:
		return nil
	}
}

func (f *Funcs) getter(name string) (modeler.GetterFunc, error) {
	if f == nil {
		return nil, errNoFuncs
	}

	fn, ok := f.getters[name]
	if !ok {
		return nil, fmt.Errorf("unknown getter %q", name)
	}

	return fn, nil
}

func (f *Funcs) compute(name string) (modeler.ComputeFunc, error) {
	if f == nil {
		return nil, errNoFuncs
	}

	fn, ok := f.computes[name]
	if !ok {
		return nil, fmt.Errorf("unknown compute function %q", name)
	}

	return fn, nil
}

func (f *Funcs) method(name string) (modeler.MethodFunc, error) {
	if f == nil {
		return nil, errNoFuncs
	}

	fn, ok := f.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method %q", name)
	}

	return fn, nil
}

func (f *Funcs) validator(name string) (modeler.ValidateFunc, error) {
	if f == nil {
		return nil, errNoFuncs
	}

	fn, ok := f.validators[name]
	if !ok {
		return nil, fmt.Errorf("unknown validator %q", name)
	}

	return fn, nil
}

// StubFuncs returns a table with a placeholder for every function the file
// references. Getters and compute functions yield nil, methods do nothing
// and validators accept everything. Useful to compile and inspect a file
// without its real implementations.
func StubFuncs(file *File) *Funcs {
	f := NewFuncs()

	for _, m := range file.Models {
		for _, p := range m.Properties {
			if p.Get != "" {
				f.Getter(p.Get, func(*modeler.Instance) any { return nil })
			}
		}

		for _, name := range m.Methods {
			f.Method(name, func(*modeler.Instance, ...any) (any, error) { return nil, nil })
		}

		if m.Validator != "" {
			f.Validator(m.Validator, func(*modeler.Instance) error { return nil })
		}
	}

	for _, mp := range file.Maps {
		for _, r := range mp.Rules {
			if ref, ok := r.Value.(FuncRef); ok {
				f.Compute(ref.Func, func(fieldpath.Record) (any, error) { return nil, nil })
			}
		}
	}

	return f
}
