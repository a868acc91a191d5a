package declare

import (
	"fmt"
	"slices"
	"strings"

	"supermodeler/diagnostic"
	"supermodeler/fieldpath"
	"supermodeler/internal/common"
	"supermodeler/internal/match"
	"supermodeler/validators"
)

const maxSuggestions = 3

// Check validates declarations without registering anything. With a nil
// funcs table, function references are not resolved. With a nil set, the
// built-in validator kinds are assumed.
func Check(f *File, funcs *Funcs, set *validators.Set) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "declaration file is nil", "", "")
		return res
	}

	if set == nil {
		set = validators.Default()
	}

	if f.Version != CurrentVersion {
		res.AddWarning("unsupported_version", fmt.Sprintf("version %q is not %q", f.Version, CurrentVersion), "", "")
	}

	if funcs == nil {
		res.AddInfo("funcs_unresolved", "no function table given; function references are not resolved", "", "")
	}

	c := &checker{res: res, funcs: funcs, set: set, models: map[string]*ModelDecl{}}

	for i := range f.Models {
		md := &f.Models[i]
		if md.Name == "" {
			continue
		}

		if _, dup := c.models[md.Name]; dup {
			res.AddWarning("duplicate_model", fmt.Sprintf("model %q is declared more than once; the last one wins", md.Name), md.Name, "")
		} else {
			c.modelNames = append(c.modelNames, md.Name)
		}

		c.models[md.Name] = md
	}

	for i := range f.Models {
		c.checkModel(&f.Models[i])
	}

	seenMaps := map[string]struct{}{}

	for i := range f.Maps {
		mp := &f.Maps[i]
		key := common.PairKey(mp.Source, mp.Target)

		if _, dup := seenMaps[key]; dup {
			res.AddWarning("duplicate_map", "map is declared more than once; the last one wins", key, "")
		}

		seenMaps[key] = struct{}{}

		c.checkMap(mp)
	}

	return res
}

type checker struct {
	res        *diagnostic.Diagnostics
	funcs      *Funcs
	set        *validators.Set
	models     map[string]*ModelDecl
	modelNames []string
}

func (c *checker) checkModel(md *ModelDecl) {
	if md.Name == "" {
		c.res.AddError("empty_model_name", "model without a name", "", "")
		return
	}

	seen := map[string]struct{}{}

	for _, p := range md.Properties {
		c.checkProperty(md.Name, p, seen)
	}

	seenMethods := map[string]struct{}{}

	for _, name := range md.Methods {
		if _, dup := seenMethods[name]; dup {
			c.res.AddError("duplicate_method", fmt.Sprintf("method %q is listed twice", name), md.Name, name)
		}

		seenMethods[name] = struct{}{}

		c.checkFunc(FuncMethod, name, md.Name, name)
	}

	if md.Validator != "" {
		c.checkFunc(FuncValidator, md.Validator, md.Name, "")
	}
}

func (c *checker) checkProperty(model string, p PropertyDecl, seen map[string]struct{}) {
	switch {
	case p.Name == "":
		c.res.AddError("empty_property_name", "property without a name", model, "")
		return
	case common.IsDotted(p.Name):
		c.res.AddError("dotted_property_name", fmt.Sprintf("property name %q must not contain %q", p.Name, common.PathSeparator), model, p.Name)
	}

	if _, dup := seen[p.Name]; dup {
		c.res.AddError("duplicate_property", fmt.Sprintf("property %q is declared twice", p.Name), model, p.Name)
	}

	seen[p.Name] = struct{}{}

	if p.Get != "" {
		if p.Default != nil {
			c.res.AddError("getter_with_default", "a computed property cannot have a default", model, p.Name)
		}

		if p.Type != "" {
			c.res.AddError("getter_with_type", "a computed property cannot be a sub-model", model, p.Name)
		}

		c.checkFunc(FuncGetter, p.Get, model, p.Name)
	}

	if p.Type != "" {
		if p.Default != nil {
			c.res.AddError("submodel_with_default", "a sub-model property cannot have a default", model, p.Name)
		}

		if _, ok := c.models[p.Type]; !ok {
			c.res.AddWarning("unknown_model_ref",
				fmt.Sprintf("sub-model type %q is not declared in this file", p.Type),
				model, p.Name, match.Suggest(p.Type, c.modelNames, maxSuggestions)...)
		} else if cycle := c.subModelPath(p.Type, model, nil); cycle != nil {
			c.res.AddError("submodel_cycle",
				fmt.Sprintf("sub-model cycle %s", strings.Join(append([]string{model}, cycle...), " -> ")),
				model, p.Name)
		}
	}

	for _, cd := range p.Validation {
		if !c.set.Has(cd.Kind) {
			c.res.AddError("unknown_validator",
				fmt.Sprintf("unknown validator kind %q", cd.Kind),
				model, p.Name, match.Suggest(cd.Kind, c.set.Kinds(), maxSuggestions)...)
		}
	}
}

// subModelPath returns the sub-model types leading from one declared model
// to another, both ends included, or nil when to is unreachable.
func (c *checker) subModelPath(from, to string, visited []string) []string {
	if from == to {
		return []string{to}
	}

	md, ok := c.models[from]
	if !ok || slices.Contains(visited, from) {
		return nil
	}

	visited = append(visited, from)

	for _, p := range md.Properties {
		if p.Type == "" || p.Get != "" {
			continue
		}

		if rest := c.subModelPath(p.Type, to, visited); rest != nil {
			return append([]string{from}, rest...)
		}
	}

	return nil
}

func (c *checker) checkMap(mp *MapDecl) {
	subject := common.PairKey(mp.Source, mp.Target)

	if mp.Source == "" || mp.Target == "" {
		c.res.AddError("incomplete_map", "map needs both a source and a target", subject, "")
		return
	}

	target, hasTarget := c.models[mp.Target]
	if !hasTarget {
		c.res.AddWarning("unknown_target",
			fmt.Sprintf("target model %q is not declared in this file", mp.Target),
			subject, "", match.Suggest(mp.Target, c.modelNames, maxSuggestions)...)
	}

	source := c.models[mp.Source]
	seen := map[string]struct{}{}

	for _, rd := range mp.Rules {
		if _, dup := seen[rd.Dest]; dup {
			c.res.AddError("duplicate_rule", "destination is mapped twice", subject, rd.Dest)
		}

		seen[rd.Dest] = struct{}{}

		dest, err := fieldpath.Parse(rd.Dest)
		if err != nil {
			c.res.AddError("invalid_destination", err.Error(), subject, rd.Dest)
			continue
		}

		if target != nil {
			c.checkField(target, dest.Root(), "unknown_target_field", subject, rd.Dest)
		}

		c.checkRuleValue(rd, dest, source, subject)
	}
}

func (c *checker) checkRuleValue(rd RuleDecl, dest fieldpath.Path, source *ModelDecl, subject string) {
	var srcPath string

	switch v := rd.Value.(type) {
	case FuncRef:
		c.checkFunc(FuncCompute, v.Func, subject, rd.Dest)
		return
	case bool:
		if !v {
			c.res.AddError("unsupported_rule", "rule value false is not supported", subject, rd.Dest)
			return
		}

		srcPath = dest.String()
	case string:
		srcPath = v
	default:
		c.res.AddError("unsupported_rule", fmt.Sprintf("unsupported rule type %T", rd.Value), subject, rd.Dest)
		return
	}

	src, err := fieldpath.Parse(srcPath)
	if err != nil {
		c.res.AddError("invalid_source", err.Error(), subject, rd.Dest)
		return
	}

	if source != nil {
		c.checkField(source, src.Root(), "unknown_source_field", subject, rd.Dest)
	}
}

func (c *checker) checkField(md *ModelDecl, name, code, subject, key string) {
	names := make([]string, len(md.Properties))
	for i, p := range md.Properties {
		if p.Name == name {
			return
		}

		names[i] = p.Name
	}

	c.res.AddError(code,
		fmt.Sprintf("model %q has no field %q", md.Name, name),
		subject, key, match.Suggest(name, names, maxSuggestions)...)
}

func (c *checker) checkFunc(kind FuncKind, name, subject, field string) {
	if c.funcs == nil || c.funcs.Has(kind, name) {
		return
	}

	c.res.AddError("unknown_function",
		fmt.Sprintf("unknown %s function %q", kind, name),
		subject, field, match.Suggest(name, c.funcs.Names(kind), maxSuggestions)...)
}
