package declare

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the root of a YAML declaration file.
type File struct {
	// Version of the declaration format.
	Version string `yaml:"version,omitempty"`

	Models []ModelDecl `yaml:"models,omitempty"`
	Maps   []MapDecl   `yaml:"maps,omitempty"`
}

// ModelDecl declares one model type.
type ModelDecl struct {
	Name       string         `yaml:"name"`
	Properties []PropertyDecl `yaml:"properties,omitempty"`

	// Methods lists Funcs method names attached to every instance.
	Methods []string `yaml:"methods,omitempty"`

	// Validate requests validation at the end of every construction.
	Validate bool `yaml:"validate,omitempty"`

	// Validator names a Funcs validator replacing the property constraints.
	Validator string `yaml:"validator,omitempty"`
}

// PropertyDecl declares one field. YAML formats supported:
//   - Plain name: "given_name"
//   - Full record: {name: user_id, readOnly: true}
type PropertyDecl struct {
	Name       string          `yaml:"name"`
	Default    any             `yaml:"default,omitempty"`
	ReadOnly   bool            `yaml:"readOnly,omitempty"`
	Private    bool            `yaml:"private,omitempty"`
	Get        string          `yaml:"get,omitempty"`
	Type       string          `yaml:"type,omitempty"`
	Validation ConstraintDecls `yaml:"validation,omitempty"`
}

// IsPlain returns true if only the name is set.
func (p PropertyDecl) IsPlain() bool {
	return p.Default == nil && !p.ReadOnly && !p.Private && p.Get == "" && p.Type == "" && len(p.Validation) == 0
}

// propertyRecord has the same fields without the custom (un)marshalers.
type propertyRecord PropertyDecl

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PropertyDecl) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = PropertyDecl{Name: node.Value}
		return nil
	case yaml.MappingNode:
		var rec propertyRecord
		if err := node.Decode(&rec); err != nil {
			return err
		}

		*p = PropertyDecl(rec)

		return nil
	default:
		return fmt.Errorf("line %d: property must be a name or a mapping", node.Line)
	}
}

// MarshalYAML writes plain properties back as bare names.
func (p PropertyDecl) MarshalYAML() (any, error) {
	if p.IsPlain() {
		return p.Name, nil
	}

	return propertyRecord(p), nil
}

// ConstraintDecl applies one validator kind with options.
type ConstraintDecl struct {
	Kind    string
	Options map[string]any
}

// ConstraintDecls is an ordered constraint list written as a YAML mapping:
//
//	presence: true
//	string: {notEmpty: true}
type ConstraintDecls []ConstraintDecl

// UnmarshalYAML implements yaml.Unmarshaler, keeping document order.
func (c *ConstraintDecls) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: validation must be a mapping of validator kinds", node.Line)
	}

	out := make(ConstraintDecls, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		decl := ConstraintDecl{Kind: key.Value}

		switch val.Kind {
		case yaml.MappingNode:
			if err := val.Decode(&decl.Options); err != nil {
				return err
			}
		case yaml.ScalarNode:
			var enabled bool
			if err := val.Decode(&enabled); err != nil || !enabled {
				return fmt.Errorf("line %d: validator %q must be true or a mapping of options", val.Line, key.Value)
			}
		default:
			return fmt.Errorf("line %d: validator %q must be true or a mapping of options", val.Line, key.Value)
		}

		out = append(out, decl)
	}

	*c = out

	return nil
}

// MarshalYAML implements yaml.Marshaler, keeping list order.
func (c ConstraintDecls) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, decl := range c {
		var val any = true
		if len(decl.Options) > 0 {
			val = decl.Options
		}

		if err := appendPair(node, decl.Kind, val); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// MapDecl declares the rules from one type to another.
type MapDecl struct {
	Source string    `yaml:"source"`
	Target string    `yaml:"target"`
	Rules  RuleDecls `yaml:"rules"`
}

// FuncRef names a Funcs compute function: {func: DisplayName}.
type FuncRef struct {
	Func string `yaml:"func"`
}

// RuleDecl is one rule. Value is true, a source path string, a FuncRef, or
// whatever else the document held (rejected by Check and Apply).
type RuleDecl struct {
	Dest  string
	Value any
}

// RuleDecls is an ordered rule list written as a YAML mapping.
type RuleDecls []RuleDecl

// UnmarshalYAML implements yaml.Unmarshaler, keeping document order.
func (r *RuleDecls) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rules must be a mapping of destination keys", node.Line)
	}

	out := make(RuleDecls, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		decl := RuleDecl{Dest: key.Value}

		if isFuncRef(val) {
			var ref FuncRef
			if err := val.Decode(&ref); err != nil {
				return err
			}

			decl.Value = ref
		} else if err := val.Decode(&decl.Value); err != nil {
			return err
		}

		out = append(out, decl)
	}

	*r = out

	return nil
}

func isFuncRef(node *yaml.Node) bool {
	return node.Kind == yaml.MappingNode &&
		len(node.Content) == 2 &&
		node.Content[0].Value == "func" &&
		node.Content[1].Kind == yaml.ScalarNode
}

// MarshalYAML implements yaml.Marshaler, keeping list order.
func (r RuleDecls) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, decl := range r {
		if err := appendPair(node, decl.Dest, decl.Value); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func appendPair(node *yaml.Node, key string, value any) error {
	var val yaml.Node
	if err := val.Encode(value); err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&val,
	)

	return nil
}

var errNoFuncs = errors.New("declarations reference functions but no function table was given")
