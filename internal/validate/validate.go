// Package validate checks a concrete configuration document against a schema
// before it is used to generate code.
package validate

import (
	"fmt"
	"strconv"

	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/ref"
	"go.uber.org/multierr"
)

type Issue struct {
	Path    string
	Message string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError lists every issue found in the data document.
type ValidationError struct {
	Issues []Issue
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("data does not match schema (%d issues): %s", len(e.Issues), e.err)
}

func (e *ValidationError) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Report lists every data path the validator examined, in schema order.
type Report struct {
	Examined []string
	Issues   []Issue
}

type validator struct {
	resolver *ref.Resolver
	report   Report
	err      error
}

// Data validates data against schema. The walk never stops at the first issue;
// all issues are returned in one ValidationError. Reference errors in the
// schema itself abort the walk.
func Data(schema *model.Schema, data *doc.Value) (*Report, error) {
	v := &validator{resolver: ref.New(schema.Document)}

	if err := v.walk(schema.Root, data, "#", nil); err != nil {
		return nil, err
	}

	if v.err != nil {
		return &v.report, &ValidationError{Issues: v.report.Issues, err: v.err}
	}

	return &v.report, nil
}

func (v *validator) issuef(path string, format string, args ...any) {
	issue := Issue{Path: path, Message: fmt.Sprintf(format, args...)}
	v.report.Issues = append(v.report.Issues, issue)
	v.err = multierr.Append(v.err, issue)
}

func (v *validator) walk(node *model.Node, data *doc.Value, path string, chain ref.Chain) error {
	v.report.Examined = append(v.report.Examined, path)

	switch node.Kind {
	case model.KindRef:
		resolved, next, err := v.resolver.Resolve(node, chain)
		if err != nil {
			return err
		}
		// The path was already recorded for the reference node.
		v.report.Examined = v.report.Examined[:len(v.report.Examined)-1]
		return v.walk(resolved, data, path, next)

	case model.KindUnsupported:
		return nil

	case model.KindPrimitive:
		v.primitive(node.Primitive, data, path)
		return nil

	case model.KindEnum:
		if data.Kind != doc.KindString {
			v.issuef(path, "expected one of %s, got %s", quoteAll(node.EnumValues), data.Kind)
			return nil
		}
		for _, e := range node.EnumValues {
			if e == data.String {
				return nil
			}
		}
		v.issuef(path, `value "%s" is not one of %s`, data.String, quoteAll(node.EnumValues))
		return nil

	case model.KindObject:
		if data.Kind != doc.KindObject {
			v.issuef(path, "expected object, got %s", data.Kind)
			return nil
		}
		for _, p := range node.Properties {
			child := doc.JoinPointer(path, p.Name)
			value, ok := data.Get(p.Name)
			if !ok {
				v.report.Examined = append(v.report.Examined, child)
				if node.IsRequired(p.Name) {
					v.issuef(child, "missing required property")
				}
				continue
			}
			if err := v.walk(p.Node, value, child, chain); err != nil {
				return err
			}
		}
		return nil

	case model.KindArray:
		if data.Kind != doc.KindArray {
			v.issuef(path, "expected array, got %s", data.Kind)
			return nil
		}
		if node.Items == nil {
			return nil
		}
		for i, item := range data.Items {
			if err := v.walk(node.Items, item, doc.JoinPointer(path, strconv.Itoa(i)), chain); err != nil {
				return err
			}
		}
		return nil
	}

	panic(fmt.Sprintf("unhandled node kind %v at %s", node.Kind, node.Path))
}

func (v *validator) primitive(tag string, data *doc.Value, path string) {
	switch tag {
	case model.TypeString:
		if data.Kind != doc.KindString {
			v.issuef(path, "expected string, got %s", data.Kind)
		}
	case model.TypeBoolean:
		if data.Kind != doc.KindBool {
			v.issuef(path, "expected boolean, got %s", data.Kind)
		}
	case model.TypeNumber:
		if data.Kind != doc.KindNumber {
			v.issuef(path, "expected number, got %s", data.Kind)
		}
	case model.TypeInteger:
		if !data.IsInteger() {
			v.issuef(path, "expected integer, got %s", describe(data))
		}
	case "null":
		if data.Kind != doc.KindNull {
			v.issuef(path, "expected null, got %s", data.Kind)
		}
	}
}

func describe(data *doc.Value) string {
	if data.Kind == doc.KindNumber {
		return data.Number
	}
	return data.Kind.String()
}

func quoteAll(values []string) string {
	out := "["
	for i, s := range values {
		if i > 0 {
			out += ", "
		}
		out += strconv.Quote(s)
	}
	return out + "]"
}
