// Package golang emits Go source: one struct or string-backed enumeration per
// synthesized type, with constructors applying schema defaults and JSON codecs
// that reject missing fields and undeclared enum values.
package golang

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/koskimas/schemagen/internal/gen"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/naming"
	"github.com/koskimas/schemagen/internal/typemap"
)

const (
	DefaultPackage = "schema"

	idParamValue = "v"
	idParamData  = "data"
	idVarRaw     = "raw"
	idVarString  = "s"
	idVarPlain   = "p"
	idTypePlain  = "plain"

	idFieldType  = "Type"
	idFieldField = "Field"
	idFieldValue = "Value"

	idMethodUnmarshal = "UnmarshalJSON"
	idMethodMarshal   = "MarshalJSON"
	idMethodString    = "String"

	codecErrorSuffix  = "CodecError"
	instanceSuffix    = "Instance"
	constructorPrefix = "New"
)

var initialisms = map[string]bool{
	"api":  true,
	"html": true,
	"http": true,
	"id":   true,
	"ip":   true,
	"json": true,
	"sql":  true,
	"tcp":  true,
	"udp":  true,
	"uri":  true,
	"url":  true,
	"uuid": true,
	"xml":  true,
}

var keywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true, "default": true,
	"defer": true, "else": true, "fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

type Options struct {
	// Package is the name of the generated package. Defaults to the name of
	// the output directory.
	Package string
	Types   map[string]string
}

type Target struct {
	opts   Options
	mapper typemap.Mapper
}

var _ gen.Target = (*Target)(nil)

func New(opts Options) (*Target, error) {
	if opts.Package != "" && ident(opts.Package) != opts.Package {
		return nil, fmt.Errorf(`invalid package name "%s"`, opts.Package)
	}

	mapper, err := typemap.For(typemap.TargetGo)
	if err != nil {
		return nil, err
	}

	return &Target{
		opts:   opts,
		mapper: mapper.With(opts.Types),
	}, nil
}

func (t *Target) Name() typemap.Target {
	return typemap.TargetGo
}

func (t *Target) Mapper() typemap.Mapper {
	return t.mapper
}

func (t *Target) Emit(unit *gen.Unit) ([]byte, error) {
	root := unit.Types.Root()
	if root == nil {
		return nil, fmt.Errorf("nothing to generate")
	}

	e := &emitter{
		types:      unit.Types,
		codecError: ident(root.Name) + codecErrorSuffix,
	}

	if err := e.checkNames(unit); err != nil {
		return nil, err
	}

	f := jen.NewFile(t.packageName(unit))
	f.HeaderComment(fmt.Sprintf("Code generated by schemagen from %s. DO NOT EDIT.", sourceName(unit)))

	e.genCodecError(f)

	for _, typ := range unit.Types {
		switch typ.Kind {
		case model.TypeEnum:
			e.genEnum(f, typ)
		case model.TypeRecord:
			if err := e.genRecord(f, typ); err != nil {
				return nil, err
			}
		}
	}

	if unit.Instance != nil {
		if err := e.genInstance(f, root, unit.Instance); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return nil, fmt.Errorf("failed to render Go source: %w", err)
	}

	return buf.Bytes(), nil
}

func (t *Target) packageName(unit *gen.Unit) string {
	if t.opts.Package != "" {
		return t.opts.Package
	}

	if unit.OutputPath != "" {
		dir := filepath.Base(filepath.Dir(unit.OutputPath))
		if name := strings.ToLower(ident(dir)); name != "." && name != "_" && !strings.HasPrefix(name, "_") {
			return name
		}
	}

	return DefaultPackage
}

type emitter struct {
	types      model.Types
	codecError string
}

func (e *emitter) genCodecError(f *jen.File) {
	f.Comment(fmt.Sprintf("%s is returned when JSON data does not fit a generated type.", e.codecError))
	f.Type().Id(e.codecError).Struct(
		jen.Id(idFieldType).String(),
		jen.Id(idFieldField).String(),
		jen.Id(idFieldValue).String(),
	)
	f.Line()

	f.Func().Params(
		jen.Id("e").Op("*").Id(e.codecError),
	).Id("Error").Params().String().Block(
		jen.If(jen.Id("e").Dot(idFieldField).Op("!=").Lit("")).Block(
			jen.Return(jen.Qual("fmt", "Sprintf").Call(
				jen.Lit("%s: missing field %q"),
				jen.Id("e").Dot(idFieldType),
				jen.Id("e").Dot(idFieldField),
			)),
		),
		jen.Return(jen.Qual("fmt", "Sprintf").Call(
			jen.Lit("%s: undeclared value %q"),
			jen.Id("e").Dot(idFieldType),
			jen.Id("e").Dot(idFieldValue),
		)),
	)
	f.Line()
}

func (e *emitter) genEnum(f *jen.File, typ *model.Type) {
	name := ident(typ.Name)

	f.Type().Id(name).Int()
	f.Line()

	if len(typ.Tags) > 0 {
		f.Const().DefsFunc(func(g *jen.Group) {
			for i, tag := range typ.Tags {
				if i == 0 {
					g.Id(constName(typ, tag)).Id(name).Op("=").Iota()
					continue
				}
				g.Id(constName(typ, tag))
			}
		})
		f.Line()
	}

	recv := jen.Id(idParamValue).Id(name)

	f.Func().Params(recv.Clone()).Id(idMethodString).Params().String().Block(
		jen.Switch(jen.Id(idParamValue)).BlockFunc(func(g *jen.Group) {
			for _, tag := range typ.Tags {
				g.Case(jen.Id(constName(typ, tag))).Block(jen.Return(jen.Lit(tag.Literal)))
			}
		}),
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit(name+"(%d)"), jen.Int().Call(jen.Id(idParamValue)))),
	)
	f.Line()

	f.Func().Params(recv.Clone()).Id(idMethodMarshal).Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Switch(jen.Id(idParamValue)).BlockFunc(func(g *jen.Group) {
			for _, tag := range typ.Tags {
				g.Case(jen.Id(constName(typ, tag))).Block(
					jen.Return(jen.Qual("encoding/json", "Marshal").Call(jen.Lit(tag.Literal))),
				)
			}
		}),
		jen.Return(jen.Nil(), jen.Op("&").Id(e.codecError).Values(jen.Dict{
			jen.Id(idFieldType):  jen.Lit(typ.Name),
			jen.Id(idFieldValue): jen.Qual("strconv", "Itoa").Call(jen.Int().Call(jen.Id(idParamValue))),
		})),
	)
	f.Line()

	f.Func().Params(
		jen.Id(idParamValue).Op("*").Id(name),
	).Id(idMethodUnmarshal).Params(
		jen.Id(idParamData).Index().Byte(),
	).Error().BlockFunc(func(g *jen.Group) {
		g.Var().Id(idVarString).String()
		g.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id(idParamData), jen.Op("&").Id(idVarString)),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))
		g.Empty()

		for _, tag := range typ.Tags {
			g.If(jen.Id(idVarString).Op("==").Lit(tag.Literal)).Block(
				jen.Op("*").Id(idParamValue).Op("=").Id(constName(typ, tag)),
				jen.Return(jen.Nil()),
			)
		}

		g.Return(jen.Op("&").Id(e.codecError).Values(jen.Dict{
			jen.Id(idFieldType):  jen.Lit(typ.Name),
			jen.Id(idFieldValue): jen.Id(idVarString),
		}))
	})
	f.Line()
}

func (e *emitter) genRecord(f *jen.File, typ *model.Type) error {
	name := ident(typ.Name)

	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, field := range typ.Fields {
			if field.IsPlaceholder() {
				g.Comment(fmt.Sprintf("unsupported: %s (field %q)", commentText(field.Placeholder), field.Name))
				continue
			}
			g.Id(fieldName(field.Name)).Add(e.typeCode(field.Type)).Tag(map[string]string{"json": jsonTag(field.Name)})
		}
	})
	f.Line()

	if err := e.genConstructor(f, typ); err != nil {
		return err
	}
	e.genMarshal(f, typ)
	e.genUnmarshal(f, typ)

	return nil
}

func (e *emitter) genConstructor(f *jen.File, typ *model.Type) error {
	name := ident(typ.Name)

	var values []jen.Code
	for _, field := range typ.Members() {
		var value jen.Code

		switch {
		case field.Default != nil:
			lit, err := e.value(field.Type, field.Default)
			if err != nil {
				return fmt.Errorf(`default of %s.%s: %w`, typ.Name, field.Name, err)
			}
			value = lit
		case field.Type.Kind == model.RefRecord && !field.Type.Sequence:
			value = jen.Id(constructorPrefix + ident(field.Type.Name)).Call()
		default:
			continue
		}

		values = append(values, jen.Id(fieldName(field.Name)).Op(":").Add(value))
	}

	f.Comment(fmt.Sprintf("%s%s returns a %s with the schema defaults applied.", constructorPrefix, name, name))
	f.Func().Id(constructorPrefix + name).Params().Id(name).Block(
		jen.Return(jen.Id(name).Values(values...)),
	)
	f.Line()

	return nil
}

// genMarshal encodes through a method-less copy of the record. Nil slices
// are written as empty arrays.
func (e *emitter) genMarshal(f *jen.File, typ *model.Type) {
	name := ident(typ.Name)

	f.Func().Params(
		jen.Id(idParamValue).Id(name),
	).Id(idMethodMarshal).Params().Params(jen.Index().Byte(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.Type().Id(idTypePlain).Id(name)
		g.Id(idVarPlain).Op(":=").Id(idTypePlain).Call(jen.Id(idParamValue))

		for _, field := range typ.Members() {
			if !field.Type.Sequence {
				continue
			}
			member := jen.Id(idVarPlain).Dot(fieldName(field.Name))
			g.If(member.Clone().Op("==").Nil()).Block(
				member.Clone().Op("=").Add(e.typeCode(field.Type)).Values(),
			)
		}

		g.Return(jen.Qual("encoding/json", "Marshal").Call(jen.Id(idVarPlain)))
	})
	f.Line()
}

func (e *emitter) genUnmarshal(f *jen.File, typ *model.Type) {
	name := ident(typ.Name)
	members := typ.Members()

	f.Func().Params(
		jen.Id(idParamValue).Op("*").Id(name),
	).Id(idMethodUnmarshal).Params(
		jen.Id(idParamData).Index().Byte(),
	).Error().BlockFunc(func(g *jen.Group) {
		g.Var().Id(idVarRaw).Map(jen.String()).Qual("encoding/json", "RawMessage")

		if len(members) == 0 {
			g.Return(jen.Qual("encoding/json", "Unmarshal").Call(jen.Id(idParamData), jen.Op("&").Id(idVarRaw)))
			return
		}

		g.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id(idParamData), jen.Op("&").Id(idVarRaw)),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err()))

		for _, field := range members {
			g.Empty()
			g.If(
				jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id(idVarRaw).Index(jen.Lit(field.Name)),
				jen.Op("!").Id("ok"),
			).Block(
				jen.Return(jen.Op("&").Id(e.codecError).Values(jen.Dict{
					jen.Id(idFieldType):  jen.Lit(typ.Name),
					jen.Id(idFieldField): jen.Lit(field.Name),
				})),
			)
			g.If(
				jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(
					jen.Id(idVarRaw).Index(jen.Lit(field.Name)),
					jen.Op("&").Id(idParamValue).Dot(fieldName(field.Name)),
				),
				jen.Err().Op("!=").Nil(),
			).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("%s: %w"), jen.Lit(typ.Name+"."+field.Name), jen.Err())),
			)
		}

		g.Empty()
		g.Return(jen.Nil())
	})
	f.Line()
}

func (e *emitter) typeCode(ref model.TypeRef) *jen.Statement {
	elem := jen.Id(ref.Name)
	if ref.Kind != model.RefPrimitive {
		elem = jen.Id(ident(ref.Name))
	}

	if ref.Sequence {
		return jen.Index().Add(elem)
	}
	return elem
}

func sourceName(unit *gen.Unit) string {
	if unit.Schema.Source != "" {
		return filepath.Base(unit.Schema.Source)
	}
	return unit.Schema.Title
}

func ident(name string) string {
	id := naming.Identifier(name)
	if keywords[id] {
		id += "_"
	}
	return id
}

func fieldName(property string) string {
	return naming.Exported(property, initialisms)
}

func commentText(s string) string {
	if strings.ContainsFunc(s, unicode.IsControl) {
		return strconv.Quote(s)
	}
	return s
}

// jsonTag is the struct tag value naming property. A bare "-" would make
// encoding/json skip the field.
func jsonTag(property string) string {
	if property == "-" {
		return "-,"
	}
	return property
}

func constName(typ *model.Type, tag model.Tag) string {
	return ident(typ.Name) + naming.Exported(tag.Literal, initialisms)
}

// checkNames fails when distinct schema names map to the same Go identifier,
// either among package level declarations or among the fields of a record.
func (e *emitter) checkNames(unit *gen.Unit) error {
	declared := make(map[string]string)
	declare := func(id string, origin string) error {
		if other, ok := declared[id]; ok {
			return fmt.Errorf(`%s and %s both map to identifier "%s"`, other, origin, id)
		}
		declared[id] = origin
		return nil
	}

	if err := declare(e.codecError, "the codec error type"); err != nil {
		return err
	}
	if unit.Instance != nil {
		if err := declare(instanceName(unit.Types.Root(), unit.Instance), "the base configuration"); err != nil {
			return err
		}
	}

	for _, typ := range unit.Types {
		if err := declare(ident(typ.Name), "type "+typ.Name); err != nil {
			return err
		}

		switch typ.Kind {
		case model.TypeEnum:
			for _, tag := range typ.Tags {
				if err := declare(constName(typ, tag), strconv.Quote(tag.Literal)+" of "+typ.Name); err != nil {
					return err
				}
			}

		case model.TypeRecord:
			if err := declare(constructorPrefix+ident(typ.Name), "the constructor of "+typ.Name); err != nil {
				return err
			}

			fields := map[string]string{
				idMethodMarshal:   "method " + idMethodMarshal,
				idMethodUnmarshal: "method " + idMethodUnmarshal,
			}
			for _, field := range typ.Members() {
				if strings.ContainsAny(field.Name, ",\"`") {
					return fmt.Errorf(`%s: property "%s" cannot be written as a struct tag`, typ.Name, field.Name)
				}
				id := fieldName(field.Name)
				if other, ok := fields[id]; ok {
					return fmt.Errorf(`%s: %s and property "%s" both map to field "%s"`, typ.Name, other, field.Name, id)
				}
				fields[id] = fmt.Sprintf(`property "%s"`, field.Name)
			}
		}
	}

	return nil
}
