package declare

import (
	"fmt"

	"supermodeler/modeler"
	"supermodeler/validators"
)

// Apply defines every model and then every map of f on reg, in file order.
// All function references are resolved before the first definition, so an
// unresolved one leaves reg unchanged.
func Apply(reg *modeler.Registry, f *File, funcs *Funcs) error {
	schemas := make([]modeler.Schema, len(f.Models))

	for i, md := range f.Models {
		schema, err := buildSchema(md, funcs)
		if err != nil {
			return fmt.Errorf("model %q: %w", md.Name, err)
		}

		schemas[i] = schema
	}

	rules := make([]modeler.Rules, len(f.Maps))

	for i, mp := range f.Maps {
		r, err := buildRules(mp, funcs)
		if err != nil {
			return fmt.Errorf("map %s->%s: %w", mp.Source, mp.Target, err)
		}

		rules[i] = r
	}

	for i, md := range f.Models {
		if _, err := reg.DefineModel(md.Name, schemas[i]); err != nil {
			return fmt.Errorf("model %q: %w", md.Name, err)
		}
	}

	for i, mp := range f.Maps {
		if _, err := reg.DefineMap(mp.Source, mp.Target, rules[i]); err != nil {
			return fmt.Errorf("map %s->%s: %w", mp.Source, mp.Target, err)
		}
	}

	return nil
}

func buildSchema(md ModelDecl, funcs *Funcs) (modeler.Schema, error) {
	schema := modeler.Schema{
		Properties: make([]modeler.Property, 0, len(md.Properties)),
		Validate:   md.Validate,
	}

	for _, pd := range md.Properties {
		prop := modeler.Property{
			Name:     pd.Name,
			Default:  pd.Default,
			ReadOnly: pd.ReadOnly,
			Private:  pd.Private,
			Type:     pd.Type,
		}

		if pd.Get != "" {
			fn, err := funcs.getter(pd.Get)
			if err != nil {
				return modeler.Schema{}, fmt.Errorf("property %q: %w", pd.Name, err)
			}

			prop.Getter = fn
		}

		for _, c := range pd.Validation {
			prop.Validation = append(prop.Validation, modeler.Constraint{
				Kind:    c.Kind,
				Options: validators.Options(c.Options),
			})
		}

		schema.Properties = append(schema.Properties, prop)
	}

	for _, name := range md.Methods {
		fn, err := funcs.method(name)
		if err != nil {
			return modeler.Schema{}, err
		}

		schema.Methods = append(schema.Methods, modeler.Method{Name: name, Func: fn})
	}

	if md.Validator != "" {
		fn, err := funcs.validator(md.Validator)
		if err != nil {
			return modeler.Schema{}, err
		}

		schema.Validator = fn
	}

	return schema, nil
}

func buildRules(mp MapDecl, funcs *Funcs) (modeler.Rules, error) {
	rules := make(modeler.Rules, 0, len(mp.Rules))

	for _, rd := range mp.Rules {
		value := rd.Value

		if ref, ok := rd.Value.(FuncRef); ok {
			fn, err := funcs.compute(ref.Func)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", rd.Dest, err)
			}

			value = fn
		}

		rules = append(rules, modeler.RuleDecl{Dest: rd.Dest, Value: value})
	}

	return rules, nil
}
