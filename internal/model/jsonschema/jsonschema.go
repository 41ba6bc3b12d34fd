package jsonschema

import (
	"errors"
	"fmt"

	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/model"
)

const (
	keyRef        = "$ref"
	keyTitle      = "title"
	keyType       = "type"
	keyProperties = "properties"
	keyRequired   = "required"
	keyItems      = "items"
	keyEnum       = "enum"
	keyDefault    = "default"
)

type LoadError struct {
	Source  string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Source != "" {
		msg = fmt.Sprintf(`schema "%s": %s`, e.Source, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErrorf(path string, format string, args ...any) *LoadError {
	return &LoadError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

func LoadFile(path string) (*model.Schema, error) {
	d, err := doc.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "unreadable schema", Err: err}
	}

	s, err := Load(d)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}

	s.Source = path
	return s, nil
}

// Load builds the node tree of a schema document. The root must be an object
// with a string title and a properties object.
func Load(d *doc.Value) (*model.Schema, error) {
	const root = "#"

	if d == nil || d.Kind != doc.KindObject {
		return nil, loadErrorf(root, "schema document must be an object")
	}

	title, ok := d.Get(keyTitle)
	if !ok {
		return nil, loadErrorf(root, `missing "%s"`, keyTitle)
	}
	if title.Kind != doc.KindString || title.String == "" {
		return nil, loadErrorf(root, `"%s" must be a non-empty string`, keyTitle)
	}

	props, ok := d.Get(keyProperties)
	if !ok {
		return nil, loadErrorf(root, `missing "%s"`, keyProperties)
	}
	if props.Kind != doc.KindObject {
		return nil, loadErrorf(root, `"%s" must be an object`, keyProperties)
	}

	node, err := ParseNode(d, root)
	if err != nil {
		return nil, err
	}

	// A root carrying other keywords (e.g. a $ref) is still read as a record.
	if node.Kind != model.KindObject {
		node, err = parseObject(d, root)
		if err != nil {
			return nil, err
		}
	}

	return &model.Schema{
		Title:    title.String,
		Root:     node,
		Document: d,
	}, nil
}

// ParseNode classifies one schema value into exactly one node kind. Values that
// cannot be classified become KindUnsupported nodes rather than errors, so a
// single exotic property doesn't prevent generating the rest of the document.
func ParseNode(v *doc.Value, path string) (*model.Node, error) {
	if v.Kind != doc.KindObject {
		return unsupported(path, "schema must be an object, got %s", v.Kind), nil
	}

	def, _ := v.Get(keyDefault)

	if r, ok := v.Get(keyRef); ok {
		if r.Kind != doc.KindString {
			return unsupported(path, `"%s" must be a string`, keyRef), nil
		}
		return &model.Node{
			Kind:    model.KindRef,
			Path:    path,
			Ref:     r.String,
			Default: def,
		}, nil
	}

	if e, ok := v.Get(keyEnum); ok {
		return parseEnum(e, def, path)
	}

	t, ok := v.Get(keyType)
	if !ok {
		if _, hasProps := v.Get(keyProperties); hasProps {
			return parseObject(v, path)
		}
		return unsupported(path, `missing "%s"`, keyType), nil
	}
	if t.Kind != doc.KindString {
		return unsupported(path, `only a single string "%s" is supported`, keyType), nil
	}

	switch t.String {
	case model.TypeObject:
		return parseObject(v, path)
	case model.TypeArray:
		return parseArray(v, path)
	}

	return &model.Node{
		Kind:      model.KindPrimitive,
		Path:      path,
		Primitive: t.String,
		Default:   def,
	}, nil
}

func parseObject(v *doc.Value, path string) (*model.Node, error) {
	m := &model.Node{
		Kind: model.KindObject,
		Path: path,
	}
	m.Default, _ = v.Get(keyDefault)

	if props, ok := v.Get(keyProperties); ok {
		if props.Kind != doc.KindObject {
			return unsupported(path, `"%s" must be an object`, keyProperties), nil
		}

		for _, p := range props.Members {
			pm, err := ParseNode(p.Value, doc.JoinPointer(path, keyProperties, p.Key))
			if err != nil {
				return nil, err
			}
			m.Properties = append(m.Properties, model.Property{Name: p.Key, Node: pm})
		}
	}

	if req, ok := v.Get(keyRequired); ok && req.Kind == doc.KindArray {
		for _, r := range req.Items {
			if r.Kind == doc.KindString {
				m.Required = append(m.Required, r.String)
			}
		}
	}

	return m, nil
}

func parseArray(v *doc.Value, path string) (*model.Node, error) {
	m := &model.Node{
		Kind: model.KindArray,
		Path: path,
	}
	m.Default, _ = v.Get(keyDefault)

	if items, ok := v.Get(keyItems); ok {
		im, err := ParseNode(items, doc.JoinPointer(path, keyItems))
		if err != nil {
			return nil, err
		}
		m.Items = im
	}

	return m, nil
}

func parseEnum(e *doc.Value, def *doc.Value, path string) (*model.Node, error) {
	if e.Kind != doc.KindArray {
		return unsupported(path, `"%s" must be an array`, keyEnum), nil
	}
	if len(e.Items) == 0 {
		return unsupported(path, `"%s" has no values`, keyEnum), nil
	}

	m := &model.Node{
		Kind:    model.KindEnum,
		Path:    path,
		Default: def,
	}
	seen := make(map[string]bool, len(e.Items))

	for _, item := range e.Items {
		if item.Kind != doc.KindString {
			return unsupported(path, `only string "%s" values are supported, got %s`, keyEnum, item.Kind), nil
		}
		if seen[item.String] {
			return nil, loadErrorf(path, `duplicate enum value "%s"`, item.String)
		}
		seen[item.String] = true
		m.EnumValues = append(m.EnumValues, item.String)
	}

	return m, nil
}

func unsupported(path string, format string, args ...any) *model.Node {
	return &model.Node{
		Kind:   model.KindUnsupported,
		Path:   path,
		Reason: fmt.Sprintf(format, args...),
	}
}
