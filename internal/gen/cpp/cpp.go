// Package cpp emits C++ headers: one struct or enum class per synthesized type,
// each followed by nlohmann::json to_json/from_json overloads.
package cpp

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/koskimas/schemagen/internal/gen"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/typemap"
)

const (
	DefaultNamespace    = "SimuCore"
	DefaultJSONHeader   = "SimuCore/json.hpp"
	DefaultInstanceName = "config_instance"

	idCodecError = "CodecError"
	idJSON       = "nlohmann::json"
)

var standardHeaders = []string{
	"cstdint",
	"stdexcept",
	"string",
	"vector",
}

type Options struct {
	Namespace  string
	JSONHeader string
	// Types overrides entries of the default primitive table.
	Types map[string]string
}

type Target struct {
	opts   Options
	mapper typemap.Mapper
}

var _ gen.Target = (*Target)(nil)

func New(opts Options) (*Target, error) {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.JSONHeader == "" {
		opts.JSONHeader = DefaultJSONHeader
	}

	for _, part := range strings.Split(opts.Namespace, "::") {
		if part == "" || ident(part) != part {
			return nil, fmt.Errorf(`invalid namespace "%s"`, opts.Namespace)
		}
	}

	mapper, err := typemap.For(typemap.TargetCpp)
	if err != nil {
		return nil, err
	}

	return &Target{
		opts:   opts,
		mapper: mapper.With(opts.Types),
	}, nil
}

func (t *Target) Name() typemap.Target {
	return typemap.TargetCpp
}

func (t *Target) Mapper() typemap.Mapper {
	return t.mapper
}

func (t *Target) Emit(unit *gen.Unit) ([]byte, error) {
	s := &stringBuilder{}
	guard := guardName(t.opts.Namespace, unit)

	t.genPreamble(s, unit, guard)

	s.Line("namespace %s {", t.opts.Namespace)
	s.WriteNewLine()

	t.genCodecError(s)

	for _, typ := range unit.Types {
		var err error
		switch typ.Kind {
		case model.TypeEnum:
			genEnum(s, typ)
			genEnumCodec(s, typ)
		case model.TypeRecord:
			err = genRecord(s, typ, unit.Types)
			if err == nil {
				genRecordCodec(s, typ)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if unit.Instance != nil {
		if err := genInstance(s, unit); err != nil {
			return nil, err
		}
	}

	s.Line("} // namespace %s", t.opts.Namespace)
	s.WriteNewLine()
	s.Line("#endif // %s", guard)

	return []byte(s.String()), nil
}

func (t *Target) genPreamble(s *stringBuilder, unit *gen.Unit, guard string) {
	s.Line("// Code generated by schemagen from %s. DO NOT EDIT.", sourceName(unit))
	s.WriteNewLine()
	s.Line("#ifndef %s", guard)
	s.Line("#define %s", guard)
	s.WriteNewLine()

	for _, h := range standardHeaders {
		s.Line("#include <%s>", h)
	}
	s.WriteNewLine()
	s.Line("#include <%s>", t.opts.JSONHeader)
	s.WriteNewLine()
}

// genCodecError declares the exception thrown by the decoders. Several
// generated headers in one namespace share a single declaration.
func (t *Target) genCodecError(s *stringBuilder) {
	codecGuard := macroName(t.opts.Namespace + "_SCHEMAGEN_CODEC_ERROR")
	s.Line("#ifndef %s", codecGuard)
	s.Line("#define %s", codecGuard)
	s.Open("struct %s : public std::runtime_error {", idCodecError)
	s.Line("using std::runtime_error::runtime_error;")
	s.Close("};")
	s.Line("#endif // %s", codecGuard)
	s.WriteNewLine()
}

func genEnum(s *stringBuilder, typ *model.Type) {
	s.Open("enum class %s {", ident(typ.Name))
	for i, tag := range typ.Tags {
		sep := ","
		if i == len(typ.Tags)-1 {
			sep = ""
		}
		s.Line("%s%s", ident(tag.Ident), sep)
	}
	s.Close("};")
	s.WriteNewLine()
}

func genRecord(s *stringBuilder, typ *model.Type, types model.Types) error {
	if err := checkMemberNames(typ); err != nil {
		return err
	}

	s.Open("struct %s {", ident(typ.Name))

	for _, f := range typ.Fields {
		if f.IsPlaceholder() {
			s.Line("// unsupported: %s (field %s)", commentText(f.Placeholder), quote(f.Name))
			continue
		}

		decl := fmt.Sprintf("%s %s", typeName(f.Type), ident(f.Name))
		if f.Default == nil {
			s.Line("%s{};", decl)
			continue
		}

		init, err := defaultLiteral(f, types)
		if err != nil {
			return fmt.Errorf(`default of %s.%s: %w`, typ.Name, f.Name, err)
		}
		s.Line("%s = %s;", decl, init)
	}

	s.Close("};")
	s.WriteNewLine()
	return nil
}

func defaultLiteral(f model.Field, types model.Types) (string, error) {
	switch f.Type.Kind {
	case model.RefEnum:
		return enumLiteral(f.Type.Name, f.Default.String, types)
	case model.RefPrimitive:
		if !f.Type.Sequence {
			return primitiveLiteral(f.Default, f.Type.Primitive)
		}
		items := make([]string, 0, len(f.Default.Items))
		for _, item := range f.Default.Items {
			lit, err := primitiveLiteral(item, f.Type.Primitive)
			if err != nil {
				return "", err
			}
			items = append(items, lit)
		}
		return listLiteral(items), nil
	}

	return "", fmt.Errorf("defaults are not supported for %s", typeName(f.Type))
}

func enumLiteral(enumName string, literal string, types model.Types) (string, error) {
	enum := types.Find(enumName)
	if enum == nil {
		return "", fmt.Errorf(`unknown enumeration "%s"`, enumName)
	}

	tag, ok := enum.Tag(literal)
	if !ok {
		return "", fmt.Errorf(`"%s" is not a value of %s`, literal, enumName)
	}

	return fmt.Sprintf("%s::%s", ident(enum.Name), ident(tag.Ident)), nil
}

func typeName(ref model.TypeRef) string {
	name := ref.Name
	if ref.Kind != model.RefPrimitive {
		name = ident(name)
	}

	if ref.Sequence {
		return fmt.Sprintf("std::vector<%s>", name)
	}
	return name
}

// checkMemberNames fails when two properties map to the same C++ identifier.
func checkMemberNames(typ *model.Type) error {
	seen := make(map[string]string)
	for _, f := range typ.Members() {
		id := ident(f.Name)
		if other, ok := seen[id]; ok {
			return fmt.Errorf(`%s: properties "%s" and "%s" both map to member "%s"`, typ.Name, other, f.Name, id)
		}
		seen[id] = f.Name
	}
	return nil
}

func guardName(namespace string, unit *gen.Unit) string {
	base := unit.Schema.Title + ".hpp"
	if unit.OutputPath != "" {
		base = filepath.Base(unit.OutputPath)
	}
	return macroName(namespace + "_" + base)
}

func macroName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

func sourceName(unit *gen.Unit) string {
	if unit.Schema.Source != "" {
		return filepath.Base(unit.Schema.Source)
	}
	return unit.Schema.Title
}
