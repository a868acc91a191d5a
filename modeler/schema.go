package modeler

import (
	"supermodeler/internal/common"
	"supermodeler/validators"
)

// GetterFunc computes a field from the current instance state. It is
// evaluated on every read.
type GetterFunc func(inst *Instance) any

// MethodFunc is attached to every instance of a model and receives the
// instance explicitly.
type MethodFunc func(inst *Instance, args ...any) (any, error)

// ValidateFunc replaces the generated validation of a model.
type ValidateFunc func(inst *Instance) error

// Constraint applies one validator kind to a field.
type Constraint struct {
	Kind    string
	Options validators.Options
}

// Property declares one model field.
type Property struct {
	Name string
	// Default is copied into every new instance when no value is supplied.
	Default any
	// ReadOnly locks the field once construction finishes.
	ReadOnly bool
	// Private hides the field from Fields, ToMap and JSON. It stays readable.
	Private bool
	// Getter makes the field computed. Computed fields hold no value.
	Getter GetterFunc
	// Type names another model; the field then holds an instance of it.
	Type string
	// Validation lists the constraints checked by Instance.Validate, in order.
	Validation []Constraint
}

// Plain declares a writable field with no default.
func Plain(name string) Property {
	return Property{Name: name}
}

// Props declares several plain fields.
func Props(names ...string) []Property {
	props := make([]Property, len(names))
	for i, name := range names {
		props[i] = Plain(name)
	}

	return props
}

// Method attaches a function to every instance of a model.
type Method struct {
	Name string
	Func MethodFunc
}

// Schema is the declaration compiled into a ModelType.
type Schema struct {
	Properties []Property
	Methods    []Method
	// Validate runs validation at the end of every construction.
	Validate bool
	// Validator overrides the validation built from property constraints.
	Validator ValidateFunc
}

// field is the compiled form of a Property.
type field struct {
	name       string
	def        any
	readOnly   bool
	private    bool
	getter     GetterFunc
	subType    string
	validation []Constraint
}

// compileEnv holds what schema compilation needs from its owner.
type compileEnv struct {
	resolver           resolver
	validators         *validators.Set
	newValidationError ValidationErrorFunc
}

// compileSchema turns a schema into a ModelType. It does not register the result.
func compileSchema(name string, schema Schema, env compileEnv) (*ModelType, error) {
	if name == "" {
		return nil, configErrorf("model", "empty model name")
	}

	m := &ModelType{
		name:     name,
		fields:   make([]field, 0, len(schema.Properties)),
		index:    make(map[string]int, len(schema.Properties)),
		methods:  make(map[string]MethodFunc, len(schema.Methods)),
		eager:    schema.Validate,
		resolver: env.resolver,
	}

	for _, prop := range schema.Properties {
		f, err := compileProperty(name, prop, env.validators)
		if err != nil {
			return nil, err
		}

		if _, dup := m.index[f.name]; dup {
			return nil, configErrorf(name, "duplicate property %q", f.name)
		}

		idx := len(m.fields)
		m.index[f.name] = idx
		m.fields = append(m.fields, f)

		if f.readOnly {
			m.readOnly = append(m.readOnly, idx)
		}

		if f.subType != "" {
			m.subModels = append(m.subModels, idx)
		}
	}

	for _, method := range schema.Methods {
		if method.Name == "" {
			return nil, configErrorf(name, "method with empty name")
		}

		if method.Func == nil {
			return nil, configErrorf(name, "method %q has no function", method.Name)
		}

		if _, dup := m.methods[method.Name]; dup {
			return nil, configErrorf(name, "duplicate method %q", method.Name)
		}

		m.methods[method.Name] = method.Func
		m.methodNames = append(m.methodNames, method.Name)
	}

	m.validator = schema.Validator
	if m.validator == nil {
		m.validator = buildValidator(m.fields, env.validators, env.newValidationError)
	}

	return m, nil
}

func compileProperty(model string, prop Property, set *validators.Set) (field, error) {
	switch {
	case prop.Name == "":
		return field{}, configErrorf(model, "property with empty name")
	case common.IsDotted(prop.Name):
		return field{}, configErrorf(model, "property name %q must not contain %q", prop.Name, common.PathSeparator)
	case prop.Getter != nil && prop.Default != nil:
		return field{}, configErrorf(model, "property %q cannot have both a getter and a default", prop.Name)
	case prop.Getter != nil && prop.Type != "":
		return field{}, configErrorf(model, "property %q cannot have both a getter and a sub-model type", prop.Name)
	case prop.Type != "" && prop.Default != nil:
		return field{}, configErrorf(model, "sub-model property %q cannot have a default", prop.Name)
	}

	for _, c := range prop.Validation {
		if !set.Has(c.Kind) {
			return field{}, configErrorf(model, "property %q uses unknown validator %q", prop.Name, c.Kind)
		}
	}

	return field{
		name:       prop.Name,
		def:        prop.Default,
		readOnly:   prop.ReadOnly,
		private:    prop.Private,
		getter:     prop.Getter,
		subType:    prop.Type,
		validation: prop.Validation,
	}, nil
}
