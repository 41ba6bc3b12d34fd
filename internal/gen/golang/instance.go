package golang

import (
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"
	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/gen"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/naming"
)

func instanceName(root *model.Type, instance *gen.Instance) string {
	if instance.Name != "" {
		return naming.Exported(instance.Name, initialisms)
	}
	return ident(root.Name) + instanceSuffix
}

// genInstance writes the base configuration as a package level variable of
// the root record. Absent members keep their zero value.
func (e *emitter) genInstance(f *jen.File, root *model.Type, instance *gen.Instance) error {
	if root.Kind != model.TypeRecord {
		return fmt.Errorf("no root record to instantiate")
	}

	values, err := e.recordValues(root, instance.Data)
	if err != nil {
		return err
	}

	name := instanceName(root, instance)
	f.Comment(fmt.Sprintf("%s is the base configuration the code was generated with.", name))
	f.Var().Id(name).Op("=").Id(ident(root.Name)).Add(values)
	f.Line()

	return nil
}

func (e *emitter) recordValues(typ *model.Type, data *doc.Value) (*jen.Statement, error) {
	if data.Kind != doc.KindObject {
		return nil, fmt.Errorf("expected an object for %s, got %s", typ.Name, data.Kind)
	}

	var values []jen.Code
	for _, field := range typ.Members() {
		child, ok := data.Get(field.Name)
		if !ok || child.Kind == doc.KindNull {
			continue
		}

		value, err := e.value(field.Type, child)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typ.Name, field.Name, err)
		}
		values = append(values, jen.Id(fieldName(field.Name)).Op(":").Add(value))
	}

	return jen.Values(values...), nil
}

// value renders data as a Go expression of the given field type.
func (e *emitter) value(ref model.TypeRef, data *doc.Value) (*jen.Statement, error) {
	if ref.Sequence {
		if data.Kind != doc.KindArray {
			return nil, fmt.Errorf("expected an array, got %s", data.Kind)
		}

		elem := ref
		elem.Sequence = false

		items := make([]jen.Code, 0, len(data.Items))
		for i, item := range data.Items {
			var (
				lit *jen.Statement
				err error
			)
			if elem.Kind == model.RefRecord {
				lit, err = e.recordValuesByName(elem.Name, item)
			} else {
				lit, err = e.value(elem, item)
			}
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, lit)
		}

		return e.typeCode(ref).Values(items...), nil
	}

	switch ref.Kind {
	case model.RefPrimitive:
		return primitiveLiteral(data, ref.Primitive)

	case model.RefEnum:
		enum := e.types.Find(ref.Name)
		if enum == nil {
			return nil, fmt.Errorf(`unknown enumeration "%s"`, ref.Name)
		}
		tag, ok := enum.Tag(data.String)
		if data.Kind != doc.KindString || !ok {
			return nil, fmt.Errorf("value is not one of the values of %s", ref.Name)
		}
		return jen.Id(constName(enum, tag)), nil

	case model.RefRecord:
		values, err := e.recordValuesByName(ref.Name, data)
		if err != nil {
			return nil, err
		}
		return jen.Id(ident(ref.Name)).Add(values), nil
	}

	return nil, fmt.Errorf("cannot render a value of type %s", ref.Name)
}

func (e *emitter) recordValuesByName(name string, data *doc.Value) (*jen.Statement, error) {
	typ := e.types.Find(name)
	if typ == nil {
		return nil, fmt.Errorf(`unknown record "%s"`, name)
	}
	return e.recordValues(typ, data)
}

func primitiveLiteral(v *doc.Value, primitive string) (*jen.Statement, error) {
	switch primitive {
	case model.TypeString:
		if v.Kind == doc.KindString {
			return jen.Lit(v.String), nil
		}
	case model.TypeBoolean:
		if v.Kind == doc.KindBool {
			return jen.Lit(v.Bool), nil
		}
	case model.TypeInteger:
		if v.IsInteger() {
			n, err := strconv.ParseInt(v.Number, 10, 64)
			if err != nil {
				f, _ := strconv.ParseFloat(v.Number, 64)
				n = int64(f)
			}
			return jen.Lit(int(n)), nil
		}
	case model.TypeNumber:
		if v.Kind == doc.KindNumber {
			f, err := strconv.ParseFloat(v.Number, 64)
			if err != nil {
				return nil, fmt.Errorf(`invalid number "%s"`, v.Number)
			}
			return jen.Lit(f), nil
		}
	}

	return nil, fmt.Errorf(`cannot render %s as "%s"`, v.Kind, primitive)
}
