package modeler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Instance is one value stamped from a ModelType. Its field set never
// changes. An Instance is not safe for concurrent mutation.
type Instance struct {
	typ    *ModelType
	values []any
	locked bool
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Type returns the model this instance was built from.
func (inst *Instance) Type() *ModelType {
	return inst.typ
}

// Get returns the value of a declared field. Computed fields are evaluated
// on every call. The second result is false for undeclared fields.
func (inst *Instance) Get(name string) (any, bool) {
	idx, ok := inst.typ.index[name]
	if !ok {
		return nil, false
	}

	return inst.valueAt(idx), true
}

// Value is like Get but drops the presence flag.
func (inst *Instance) Value(name string) any {
	v, _ := inst.Get(name)
	return v
}

func (inst *Instance) valueAt(idx int) any {
	if g := inst.typ.fields[idx].getter; g != nil {
		return g(inst)
	}

	return inst.values[idx]
}

// Set assigns a declared field. Computed fields and, once construction has
// finished, read-only fields reject every write. Values assigned to a
// sub-model field are converted into an instance of that model.
func (inst *Instance) Set(name string, value any) error {
	idx, ok := inst.typ.index[name]
	if !ok {
		return &UnknownFieldError{Model: inst.typ.name, Field: name}
	}

	f := inst.typ.fields[idx]
	if f.getter != nil || (f.readOnly && inst.locked) {
		return &ReadOnlyError{Model: inst.typ.name, Field: name}
	}

	if f.subType != "" {
		sub, err := inst.typ.newSubModel(f, value, nil)
		if err != nil {
			return err
		}

		// Outside construction nothing else will finish it.
		if inst.locked {
			if err := sub.typ.finish(sub); err != nil {
				return err
			}
		}

		value = sub
	}

	inst.values[idx] = value

	return nil
}

// Put implements fieldpath.Container.
func (inst *Instance) Put(name string, value any) error {
	return inst.Set(name, value)
}

// Fields returns the enumerable (non-private) fields in declaration order.
func (inst *Instance) Fields() []string {
	names := make([]string, 0, len(inst.typ.fields))
	for _, f := range inst.typ.fields {
		if !f.private {
			names = append(names, f.name)
		}
	}

	return names
}

// Call invokes an attached method.
func (inst *Instance) Call(method string, args ...any) (any, error) {
	fn, ok := inst.typ.methods[method]
	if !ok {
		return nil, &NotFoundError{Kind: "method", Name: inst.typ.name + "." + method}
	}

	return fn(inst, args...)
}

// Validate checks the instance against its model's validation.
func (inst *Instance) Validate() error {
	return inst.typ.validator(inst)
}

// ToMap returns the enumerable fields as a map. Sub-model instances are
// converted recursively.
func (inst *Instance) ToMap() map[string]any {
	out := make(map[string]any, len(inst.typ.fields))

	for i, f := range inst.typ.fields {
		if f.private {
			continue
		}

		v := inst.valueAt(i)
		if sub, ok := v.(*Instance); ok && sub != nil {
			v = sub.ToMap()
		}

		out[f.name] = v
	}

	return out
}

// MarshalJSON encodes the enumerable fields in declaration order.
func (inst *Instance) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true

	for i, f := range inst.typ.fields {
		if f.private {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		key, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(inst.valueAt(i))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", inst.typ.name, f.name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// String renders the enumerable fields in declaration order.
func (inst *Instance) String() string {
	var sb strings.Builder

	sb.WriteString(inst.typ.name)
	sb.WriteByte('{')

	first := true

	for i, f := range inst.typ.fields {
		if f.private {
			continue
		}

		if !first {
			sb.WriteByte(' ')
		}

		first = false

		fmt.Fprintf(&sb, "%s:%v", f.name, inst.valueAt(i))
	}

	sb.WriteByte('}')

	return sb.String()
}

// Dump returns a detailed multi-line rendering for debugging.
func (inst *Instance) Dump() string {
	return inst.typ.name + " " + dumpConfig.Sdump(inst.ToMap())
}
