// Package synth turns a schema node tree into records and enumerations.
//
// Every synthesis call returns the types it produced, innermost first, and the
// caller appends them before its own type. The concatenated list therefore
// always declares a type before any type that references it.
package synth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/naming"
	"github.com/koskimas/schemagen/internal/ref"
	"github.com/koskimas/schemagen/internal/typemap"
)

// Warning describes an unsupported construct or an ignored default. The field
// it concerns is still present in the output as a placeholder comment, or
// without a default.
type Warning struct {
	Type    string
	Field   string
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf(`%s.%s (%s): %s`, w.Type, w.Field, w.Path, w.Message)
}

type CollisionError struct {
	Name  string
	Paths []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf(`name "%s" is synthesized more than once (%s)`, e.Name, strings.Join(e.Paths, ", "))
}

type Result struct {
	Types    model.Types
	Warnings []Warning
}

// emission is what one synthesis call produced.
type emission struct {
	types    model.Types
	warnings []Warning
}

func (e *emission) add(other emission) {
	e.types = append(e.types, other.types...)
	e.warnings = append(e.warnings, other.warnings...)
}

func (e *emission) warn(typeName, field, path, format string, args ...any) {
	e.warnings = append(e.warnings, Warning{
		Type:    typeName,
		Field:   field,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

type synthesizer struct {
	mapper   typemap.Mapper
	resolver *ref.Resolver
}

// Synthesize builds the record named after the schema title together with
// every nested record and enumeration, innermost first. References are
// resolved as they are reached.
func Synthesize(schema *model.Schema, mapper typemap.Mapper) (*Result, error) {
	s := &synthesizer{
		mapper:   mapper,
		resolver: ref.New(schema.Document),
	}

	out, err := s.record(naming.Identifier(schema.Title), schema.Root, nil)
	if err != nil {
		return nil, err
	}

	if err := checkCollisions(out.types); err != nil {
		return nil, err
	}

	return &Result{
		Types:    out.types,
		Warnings: out.warnings,
	}, nil
}

func (s *synthesizer) record(name string, node *model.Node, chain ref.Chain) (emission, error) {
	var out emission

	t := &model.Type{
		Kind: model.TypeRecord,
		Name: name,
		Path: node.Path,
	}

	for _, p := range node.Properties {
		f, sub, err := s.field(name, p.Name, p.Node, chain)
		if err != nil {
			return emission{}, err
		}

		out.add(sub)
		t.Fields = append(t.Fields, f)
	}

	out.types = append(out.types, t)
	return out, nil
}

func (s *synthesizer) field(parent string, name string, node *model.Node, chain ref.Chain) (model.Field, emission, error) {
	f := model.Field{Name: name}
	var out emission

	switch node.Kind {
	case model.KindRef:
		resolved, next, err := s.resolver.Resolve(node, chain)
		if err != nil {
			return f, out, fmt.Errorf(`in %s.%s: %w`, parent, name, err)
		}
		return s.field(parent, name, resolved, next)

	case model.KindPrimitive:
		target, ok := s.mapper.Map(node.Primitive)
		if !ok {
			return s.unsupported(parent, name, node, `type "%s" has no target mapping`, node.Primitive)
		}

		f.Type = model.TypeRef{Kind: model.RefPrimitive, Name: target, Primitive: node.Primitive}
		if node.Default != nil {
			if matchesPrimitive(node.Default, node.Primitive) {
				f.Default = node.Default
			} else {
				out.warn(parent, name, node.Path, `default of kind %s does not match type "%s" and is ignored`, node.Default.Kind, node.Primitive)
			}
		}
		return f, out, nil

	case model.KindEnum:
		t := enumType(naming.TypeName(parent, name, naming.EnumSuffix), node)
		f.Type = model.TypeRef{Kind: model.RefEnum, Name: t.Name}
		if node.Default != nil {
			if _, ok := t.Tag(node.Default.String); ok && node.Default.Kind == doc.KindString {
				f.Default = node.Default
			} else {
				out.warn(parent, name, node.Path, "default is not one of the declared enum values and is ignored")
			}
		}
		out.types = append(out.types, t)
		return f, out, nil

	case model.KindObject:
		recordName := naming.TypeName(parent, name, "")
		sub, err := s.record(recordName, node, chain)
		if err != nil {
			return f, out, err
		}
		if node.Default != nil {
			sub.warn(parent, name, node.Path, "object defaults are not supported and are ignored")
		}
		f.Type = model.TypeRef{Kind: model.RefRecord, Name: recordName}
		return f, sub, nil

	case model.KindArray:
		return s.array(parent, name, node, chain)

	case model.KindUnsupported:
		return s.unsupported(parent, name, node, "%s", node.Reason)
	}

	panic(fmt.Sprintf("unhandled node kind %v at %s", node.Kind, node.Path))
}

func (s *synthesizer) array(parent string, name string, node *model.Node, chain ref.Chain) (model.Field, emission, error) {
	f := model.Field{Name: name}
	var out emission

	items := node.Items
	if items == nil {
		return s.unsupported(parent, name, node, `array without "items"`)
	}

	items, chain, err := s.resolver.Resolve(items, chain)
	if err != nil {
		return f, out, fmt.Errorf(`in %s.%s: %w`, parent, name, err)
	}

	switch items.Kind {
	case model.KindObject:
		recordName := naming.TypeName(parent, name, naming.ItemSuffix)
		sub, err := s.record(recordName, items, chain)
		if err != nil {
			return f, out, err
		}
		out.add(sub)
		f.Type = model.TypeRef{Kind: model.RefRecord, Name: recordName, Sequence: true}

	case model.KindPrimitive:
		target, ok := s.mapper.Map(items.Primitive)
		if !ok {
			return s.unsupported(parent, name, node, `array items type "%s" has no target mapping`, items.Primitive)
		}
		f.Type = model.TypeRef{Kind: model.RefPrimitive, Name: target, Primitive: items.Primitive, Sequence: true}

	default:
		return s.unsupported(parent, name, node, "array items of kind %s are not supported", items.Kind)
	}

	if node.Default != nil {
		if f.Type.Kind == model.RefPrimitive && matchesPrimitiveList(node.Default, f.Type.Primitive) {
			f.Default = node.Default
		} else {
			out.warn(parent, name, node.Path, "array default does not match the item type and is ignored")
		}
	}

	return f, out, nil
}

func (s *synthesizer) unsupported(parent string, name string, node *model.Node, format string, args ...any) (model.Field, emission, error) {
	var out emission
	reason := fmt.Sprintf(format, args...)
	out.warn(parent, name, node.Path, "unsupported construct: %s", reason)

	return model.Field{Name: name, Placeholder: reason}, out, nil
}

func enumType(name string, node *model.Node) *model.Type {
	t := &model.Type{
		Kind: model.TypeEnum,
		Name: name,
		Path: node.Path,
	}

	for _, v := range node.EnumValues {
		t.Tags = append(t.Tags, model.Tag{
			Ident:   naming.Identifier(v),
			Literal: v,
		})
	}

	return t
}

func matchesPrimitive(v *doc.Value, primitive string) bool {
	switch primitive {
	case model.TypeString:
		return v.Kind == doc.KindString
	case model.TypeBoolean:
		return v.Kind == doc.KindBool
	case model.TypeInteger:
		return v.IsInteger()
	case model.TypeNumber:
		return v.Kind == doc.KindNumber
	}

	return false
}

func matchesPrimitiveList(v *doc.Value, primitive string) bool {
	if v.Kind != doc.KindArray {
		return false
	}

	for _, item := range v.Items {
		if !matchesPrimitive(item, primitive) {
			return false
		}
	}

	return true
}

// checkCollisions fails when two types share a name, or when two tags of one
// enumeration share an identifier.
func checkCollisions(types model.Types) error {
	paths := make(map[string][]string)
	for _, t := range types {
		paths[t.Name] = append(paths[t.Name], t.Path)

		idents := make(map[string][]string)
		for _, tag := range t.Tags {
			idents[tag.Ident] = append(idents[tag.Ident], tag.Literal)
		}
		for ident, literals := range idents {
			if len(literals) > 1 {
				return &CollisionError{Name: t.Name + "::" + ident, Paths: literals}
			}
		}
	}

	names := make([]string, 0, len(paths))
	for name, p := range paths {
		if len(p) > 1 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}

	sort.Strings(names)
	return &CollisionError{Name: names[0], Paths: paths[names[0]]}
}
