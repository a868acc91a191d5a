package modeler

import (
	"fmt"
	"slices"
	"strings"

	"supermodeler/fieldpath"
	"supermodeler/internal/common"
)

// resolver looks up sub-model types by name.
type resolver interface {
	Get(name string) (*ModelType, error)
}

// ModelType is a compiled schema. It is immutable and shared by all of its instances.
type ModelType struct {
	name        string
	fields      []field
	index       map[string]int
	readOnly    []int
	subModels   []int
	methods     map[string]MethodFunc
	methodNames []string
	validator   ValidateFunc
	eager       bool
	resolver    resolver
}

// Name returns the registered model name.
func (m *ModelType) Name() string {
	return m.name
}

// FieldNames returns every declared field, private ones included, in declaration order.
func (m *ModelType) FieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.name
	}

	return names
}

// HasField returns true if name is a declared field.
func (m *ModelType) HasField(name string) bool {
	_, ok := m.index[name]
	return ok
}

// ReadOnlyFields returns the fields locked after construction. Computed
// fields are not listed; they are never writable.
func (m *ModelType) ReadOnlyFields() []string {
	names := make([]string, len(m.readOnly))
	for i, idx := range m.readOnly {
		names[i] = m.fields[idx].name
	}

	return names
}

// SubModels maps each sub-model field to its model name.
func (m *ModelType) SubModels() map[string]string {
	subs := make(map[string]string, len(m.subModels))
	for _, idx := range m.subModels {
		subs[m.fields[idx].name] = m.fields[idx].subType
	}

	return subs
}

// Methods returns the attached method names in declaration order.
func (m *ModelType) Methods() []string {
	return slices.Clone(m.methodNames)
}

// New constructs an instance from raw initial values.
func (m *ModelType) New(initial any) (*Instance, error) {
	return m.construct(initial, nil)
}

// construct builds and finishes an instance from data. When mapper is set,
// values are produced by running its rules against data instead of copying
// fields.
func (m *ModelType) construct(data any, mapper *Mapper) (*Instance, error) {
	inst, err := m.build(data, mapper, nil)
	if err != nil {
		return nil, err
	}

	if err := m.finish(inst); err != nil {
		return nil, err
	}

	return inst, nil
}

// build runs the shape, sub-model and population steps. Sub-models are left
// unfinished so that the population step can still write into them. chain
// holds the enclosing model names and stops recursive sub-model types.
func (m *ModelType) build(data any, mapper *Mapper, chain []string) (*Instance, error) {
	inst := &Instance{typ: m, values: make([]any, len(m.fields))}

	for i, f := range m.fields {
		if f.getter == nil {
			inst.values[i] = common.CloneValue(f.def)
		}
	}

	var src fieldpath.Record

	if data != nil {
		rec, ok := fieldpath.AsRecord(data)
		if !ok && mapper == nil {
			return nil, fmt.Errorf("%s: initial values of type %T are not a record", m.name, data)
		}

		src = rec
	}

	if err := m.createSubModels(inst, src, chain); err != nil {
		return nil, err
	}

	if data != nil {
		if mapper != nil {
			if err := mapper.apply(data, inst); err != nil {
				return nil, err
			}
		} else {
			m.copyValues(inst, src)
		}
	}

	return inst, nil
}

// finish locks read-only fields and runs eager validation, sub-models first.
func (m *ModelType) finish(inst *Instance) error {
	for _, idx := range m.subModels {
		sub, ok := inst.values[idx].(*Instance)
		if !ok || sub.locked {
			continue
		}

		if err := sub.typ.finish(sub); err != nil {
			return fmt.Errorf("%s.%s: %w", m.name, m.fields[idx].name, err)
		}
	}

	inst.locked = true

	if m.eager {
		return m.validator(inst)
	}

	return nil
}

func (m *ModelType) createSubModels(inst *Instance, src fieldpath.Record, chain []string) error {
	for _, idx := range m.subModels {
		f := m.fields[idx]

		var raw any
		if src != nil {
			raw, _ = src.Get(f.name)
		}

		sub, err := m.newSubModel(f, raw, chain)
		if err != nil {
			return err
		}

		inst.values[idx] = sub
	}

	return nil
}

// newSubModel builds an unfinished instance of the field's model from raw.
// chain lists the models enclosing m; a field type already on it, or m
// itself, is a cycle and is rejected as a configuration error.
func (m *ModelType) newSubModel(f field, raw any, chain []string) (*Instance, error) {
	chain = append(slices.Clip(chain), m.name)
	if slices.Contains(chain, f.subType) {
		return nil, configErrorf(m.name+"."+f.name, "sub-model cycle %s -> %s", strings.Join(chain, " -> "), f.subType)
	}

	if m.resolver == nil {
		return nil, &NotFoundError{Kind: "model", Name: f.subType}
	}

	sub, err := m.resolver.Get(f.subType)
	if err == nil {
		var inst *Instance

		inst, err = sub.build(raw, nil, chain)
		if err == nil {
			return inst, nil
		}
	}

	return nil, fmt.Errorf("%s.%s: %w", m.name, f.name, err)
}

// copyValues copies declared, stored fields present in src. Sub-model fields
// were already built from the same input.
func (m *ModelType) copyValues(inst *Instance, src fieldpath.Record) {
	for i, f := range m.fields {
		if f.getter != nil || f.subType != "" {
			continue
		}

		if v, ok := src.Get(f.name); ok {
			inst.values[i] = v
		}
	}
}
