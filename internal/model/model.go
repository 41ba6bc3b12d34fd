package model

import (
	"fmt"

	"github.com/koskimas/schemagen/internal/doc"
)

// Kind is the closed set of schema node variants. References are resolved
// before synthesis dispatches on the kind.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPrimitive
	KindObject
	KindArray
	KindEnum
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindEnum:
		return "enum"
	case KindRef:
		return "reference"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Primitive schema type tags.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
)

type Property struct {
	Name string
	Node *Node
}

type Node struct {
	Kind Kind
	// Path is the JSON pointer of the node inside its document.
	Path string

	Primitive  string
	Properties []Property
	Required   []string
	Items      *Node
	EnumValues []string
	Default    *doc.Value
	Ref        string

	// Reason explains why a node is KindUnsupported.
	Reason string
}

func (n *Node) Property(name string) (*Node, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Node, true
		}
	}
	return nil, false
}

func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

type Schema struct {
	Title    string
	Root     *Node
	Document *doc.Value
	// Source is the file the schema was loaded from, if any.
	Source string
}

type TypeKind int

const (
	TypeRecord TypeKind = iota
	TypeEnum
)

func (k TypeKind) String() string {
	if k == TypeEnum {
		return "enum"
	}
	return "record"
}

// Type is a record or enumeration synthesized from a schema node.
type Type struct {
	Kind   TypeKind
	Name   string
	Path   string
	Fields []Field
	Tags   []Tag
}

type Tag struct {
	Ident   string
	Literal string
}

func (t *Type) Tag(literal string) (Tag, bool) {
	for _, tag := range t.Tags {
		if tag.Literal == literal {
			return tag, true
		}
	}
	return Tag{}, false
}

// Members returns the fields that exist in the generated record, skipping
// placeholders left for unsupported constructs.
func (t *Type) Members() []Field {
	out := make([]Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.IsPlaceholder() {
			out = append(out, f)
		}
	}
	return out
}

type RefKind int

const (
	RefPrimitive RefKind = iota
	RefRecord
	RefEnum
)

// TypeRef is the type of a field: a mapped primitive or a generated type,
// optionally wrapped in a sequence.
type TypeRef struct {
	Kind RefKind
	// Name is the target primitive name or the generated type name.
	Name string
	// Primitive is the schema type tag for RefPrimitive.
	Primitive string
	Sequence  bool
}

type Field struct {
	Name    string
	Type    TypeRef
	Default *doc.Value
	// Placeholder is set for unsupported constructs and holds the reason.
	Placeholder string
}

func (f Field) IsPlaceholder() bool {
	return f.Placeholder != ""
}

// Types is an ordered list of generated types. A type always comes after
// every type it references.
type Types []*Type

func (ts Types) Find(name string) *Type {
	for _, t := range ts {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Root returns the last synthesized type, which is the schema's root record.
func (ts Types) Root() *Type {
	if len(ts) == 0 {
		return nil
	}
	return ts[len(ts)-1]
}
