package modeler

import (
	"fmt"

	"supermodeler/fieldpath"
	"supermodeler/internal/common"
)

//go:generate go tool stringer -type=RuleKind -output=rulekind_string.go

// RuleKind classifies a compiled field rule.
type RuleKind int

const (
	RuleUnknown  RuleKind = iota
	RuleCopy              // dest[key] = source[key]
	RuleCompute           // dest[key] = fn(source)
	RulePathCopy          // nested read and/or nested write
)

// ComputeFunc produces a destination value from the whole source.
type ComputeFunc func(src fieldpath.Record) (any, error)

// RuleDecl is one declared map rule. Value is true, a source path string,
// or a compute function (ComputeFunc, func(fieldpath.Record) (any, error)
// or func(fieldpath.Record) any).
type RuleDecl struct {
	Dest  string
	Value any
}

// Rules is an ordered list of map rules.
type Rules []RuleDecl

// Copy declares a rule copying dest from the same source key.
func Copy(dest string) RuleDecl {
	return RuleDecl{Dest: dest, Value: true}
}

// From declares a rule copying dest from a (possibly dotted) source path.
func From(dest, source string) RuleDecl {
	return RuleDecl{Dest: dest, Value: source}
}

// Compute declares a rule computing dest from the source.
func Compute(dest string, fn ComputeFunc) RuleDecl {
	return RuleDecl{Dest: dest, Value: fn}
}

// FieldRule is one compiled step of a mapper.
type FieldRule struct {
	Kind   RuleKind
	Dest   string
	Source string // empty for RuleCompute

	dest    fieldpath.Path
	src     fieldpath.Path
	compute ComputeFunc
}

// String returns a compact description, e.g. "groupId <- group.id".
func (r FieldRule) String() string {
	if r.Kind == RuleCompute {
		return r.Dest + " <- func"
	}

	return r.Dest + " <- " + r.Source
}

// Apply runs the rule, reading from src and writing into dst.
func (r FieldRule) Apply(src any, dst fieldpath.Container) error {
	var (
		value any
		err   error
	)

	if r.compute != nil {
		rec, ok := fieldpath.AsRecord(src)
		if !ok {
			return fmt.Errorf("rule %s: source of type %T is not a record", r.Dest, src)
		}

		value, err = r.compute(rec)
	} else {
		value, err = r.src.Get(src)
	}

	if err != nil {
		return fmt.Errorf("rule %s: %w", r.Dest, err)
	}

	if err := r.dest.Set(dst, value); err != nil {
		return fmt.Errorf("rule %s: %w", r.Dest, err)
	}

	return nil
}

// compileRule turns one declaration into a FieldRule. Unsupported values
// fail here, never at mapping time.
func compileRule(subject string, decl RuleDecl) (FieldRule, error) {
	dest, err := fieldpath.Parse(decl.Dest)
	if err != nil {
		return FieldRule{}, configErrorf(subject, "destination: %v", err)
	}

	rule := FieldRule{Dest: decl.Dest, dest: dest}

	switch v := decl.Value.(type) {
	case ComputeFunc:
		rule.compute = v
	case func(fieldpath.Record) (any, error):
		rule.compute = v
	case func(fieldpath.Record) any:
		if v != nil {
			rule.compute = func(src fieldpath.Record) (any, error) { return v(src), nil }
		}
	case bool:
		if !v {
			return FieldRule{}, configErrorf(subject, "rule %q: unsupported rule value false", decl.Dest)
		}

		rule.Source = decl.Dest
		rule.src = dest
	case string:
		src, err := fieldpath.Parse(v)
		if err != nil {
			return FieldRule{}, configErrorf(subject, "rule %q: source: %v", decl.Dest, err)
		}

		rule.Source = v
		rule.src = src
	default:
		return FieldRule{}, configErrorf(subject, "rule %q: unsupported rule type %T", decl.Dest, decl.Value)
	}

	switch {
	case rule.Source == "":
		if rule.compute == nil {
			return FieldRule{}, configErrorf(subject, "rule %q: nil compute function", decl.Dest)
		}

		rule.Kind = RuleCompute
	case rule.src.IsSimple() && rule.dest.IsSimple():
		rule.Kind = RuleCopy
	default:
		rule.Kind = RulePathCopy
	}

	return rule, nil
}

// Mapper is the compiled, ordered rule pipeline for one (source, target) pair.
type Mapper struct {
	source string
	target string
	rules  []FieldRule
}

func compileMapper(source, target string, decls Rules) (*Mapper, error) {
	subject := common.PairKey(source, target)

	if source == "" || target == "" {
		return nil, configErrorf(subject, "source and target names are required")
	}

	m := &Mapper{source: source, target: target, rules: make([]FieldRule, 0, len(decls))}
	seen := make(map[string]struct{}, len(decls))

	for _, decl := range decls {
		if _, dup := seen[decl.Dest]; dup {
			return nil, configErrorf(subject, "duplicate rule for %q", decl.Dest)
		}

		seen[decl.Dest] = struct{}{}

		rule, err := compileRule(subject, decl)
		if err != nil {
			return nil, err
		}

		m.rules = append(m.rules, rule)
	}

	return m, nil
}

// Source returns the source type name.
func (m *Mapper) Source() string {
	return m.source
}

// Target returns the target type name.
func (m *Mapper) Target() string {
	return m.target
}

// Rules returns the compiled rules in execution order.
func (m *Mapper) Rules() []FieldRule {
	out := make([]FieldRule, len(m.rules))
	copy(out, m.rules)

	return out
}

func (m *Mapper) apply(src any, dst fieldpath.Container) error {
	for _, rule := range m.rules {
		if err := rule.Apply(src, dst); err != nil {
			return fmt.Errorf("map %s: %w", common.PairKey(m.source, m.target), err)
		}
	}

	return nil
}
