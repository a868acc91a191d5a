package modeler

import (
	"fmt"

	"supermodeler/validators"
)

type fieldConstraints struct {
	idx         int
	name        string
	constraints []Constraint
}

// buildValidator collects the per-field constraints of a model into a single
// validate operation. Fields are checked in declaration order and the first
// failing message wins.
func buildValidator(fields []field, set *validators.Set, newErr ValidationErrorFunc) ValidateFunc {
	var rules []fieldConstraints

	for i, f := range fields {
		if len(f.validation) > 0 {
			rules = append(rules, fieldConstraints{idx: i, name: f.name, constraints: f.validation})
		}
	}

	if len(rules) == 0 {
		return func(*Instance) error { return nil }
	}

	return func(inst *Instance) error {
		for _, rule := range rules {
			value := inst.valueAt(rule.idx)

			for _, c := range rule.constraints {
				msg, err := set.Validate(c.Kind, value, c.Options, rule.name, inst)
				if err != nil {
					return fmt.Errorf("%s.%s: %w", inst.typ.name, rule.name, err)
				}

				if msg != "" {
					return markValidation(newErr(rule.name, rule.name+" "+msg))
				}
			}
		}

		return nil
	}
}
