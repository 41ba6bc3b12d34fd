// Package doc holds an order-preserving value tree for JSON and YAML documents.
// Schema properties are emitted in the order they are declared, so the generic
// map based decoders of encoding/json and yaml.v3 cannot be used directly.
package doc

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

type Member struct {
	Key   string
	Value *Value
}

// Value is a single node of a parsed document. Numbers keep their source text.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  string
	String  string
	Items   []*Value
	Members []Member
}

func Null() *Value {
	return &Value{Kind: KindNull}
}

func Bool(b bool) *Value {
	return &Value{Kind: KindBool, Bool: b}
}

func Number(n string) *Value {
	return &Value{Kind: KindNumber, Number: n}
}

func String(s string) *Value {
	return &Value{Kind: KindString, String: s}
}

func Array(items ...*Value) *Value {
	return &Value{Kind: KindArray, Items: items}
}

func Object(members ...Member) *Value {
	return &Value{Kind: KindObject, Members: members}
}

// Get returns the member value stored under key. Only objects have members.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != KindObject {
		return nil, false
	}

	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}

	return nil, false
}

// Lookup resolves one JSON pointer segment: a member key for objects or an
// index for arrays.
func (v *Value) Lookup(segment string) (*Value, bool) {
	if v == nil {
		return nil, false
	}

	switch v.Kind {
	case KindObject:
		return v.Get(segment)
	case KindArray:
		i, err := strconv.Atoi(segment)
		if err != nil || i < 0 || i >= len(v.Items) {
			return nil, false
		}
		return v.Items[i], true
	}

	return nil, false
}

// IsInteger reports whether the value is a number without a fractional part
// that fits in an int64.
func (v *Value) IsInteger() bool {
	if v == nil || v.Kind != KindNumber {
		return false
	}

	if _, err := strconv.ParseInt(v.Number, 10, 64); err == nil {
		return true
	}

	f, err := strconv.ParseFloat(v.Number, 64)
	if err != nil {
		return false
	}

	// 2^63 is exactly representable; every float64 below it converts safely.
	return f == math.Trunc(f) && f >= math.MinInt64 && f < -math.MinInt64
}

// Parse parses data according to the extension of name. Files ending in .yaml
// or .yml are parsed as YAML, everything else as JSON.
func Parse(name string, data []byte) (*Value, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	}

	return ParseJSON(data)
}

func ReadFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(`failed to read file "%s": %w`, path, err)
	}

	v, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf(`failed to parse file "%s": %w`, path, err)
	}

	return v, nil
}
