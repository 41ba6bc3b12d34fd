package cpp

import (
	"fmt"
	"strings"

	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/gen"
	"github.com/koskimas/schemagen/internal/model"
)

// genInstance writes the base configuration as an aggregate-initialized
// constant of the root record. Members appear in declaration order and
// absent ones are value-initialized with {}.
func genInstance(s *stringBuilder, unit *gen.Unit) error {
	root := unit.Types.Root()
	if root == nil || root.Kind != model.TypeRecord {
		return fmt.Errorf("no root record to instantiate")
	}

	name := unit.Instance.Name
	if name == "" {
		name = DefaultInstanceName
	}

	r := initializer{types: unit.Types}
	members := root.Members()

	s.Open("inline const %s %s = {", ident(root.Name), ident(name))
	for i, f := range members {
		data, _ := unit.Instance.Data.Get(f.Name)

		lit, err := r.value(f.Type, data)
		if err != nil {
			return fmt.Errorf(`instance member %s.%s: %w`, root.Name, f.Name, err)
		}

		sep := ","
		if i == len(members)-1 {
			sep = ""
		}
		s.Line("%s%s // %s", lit, sep, commentText(f.Name))
	}
	s.Close("};")
	s.WriteNewLine()

	return nil
}

type initializer struct {
	types model.Types
}

func (r initializer) value(ref model.TypeRef, data *doc.Value) (string, error) {
	if data == nil || data.Kind == doc.KindNull {
		return "{}", nil
	}

	if ref.Sequence {
		if data.Kind != doc.KindArray {
			return "", fmt.Errorf("expected an array, got %s", data.Kind)
		}

		elem := ref
		elem.Sequence = false

		items := make([]string, 0, len(data.Items))
		for i, item := range data.Items {
			lit, err := r.value(elem, item)
			if err != nil {
				return "", fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, lit)
		}
		return listLiteral(items), nil
	}

	switch ref.Kind {
	case model.RefPrimitive:
		return primitiveLiteral(data, ref.Primitive)
	case model.RefEnum:
		if data.Kind != doc.KindString {
			return "", fmt.Errorf("expected a string, got %s", data.Kind)
		}
		return enumLiteral(ref.Name, data.String, r.types)
	case model.RefRecord:
		return r.record(ref.Name, data)
	}

	return "", fmt.Errorf("cannot instantiate %s", typeName(ref))
}

func (r initializer) record(name string, data *doc.Value) (string, error) {
	typ := r.types.Find(name)
	if typ == nil {
		return "", fmt.Errorf(`unknown record "%s"`, name)
	}
	if data.Kind != doc.KindObject {
		return "", fmt.Errorf("expected an object for %s, got %s", name, data.Kind)
	}

	members := typ.Members()
	parts := make([]string, 0, len(members))
	for _, f := range members {
		child, _ := data.Get(f.Name)

		lit, err := r.value(f.Type, child)
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", name, f.Name, err)
		}
		parts = append(parts, lit)
	}

	if len(parts) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}
