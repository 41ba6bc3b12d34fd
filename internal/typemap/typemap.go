package typemap

import (
	"fmt"
	"maps"
	"sort"

	"github.com/koskimas/schemagen/internal/model"
)

type Target string

const (
	TargetCpp Target = "cpp"
	TargetGo  Target = "go"
)

var defaults = map[Target]map[string]string{
	TargetCpp: {
		model.TypeString:  "std::string",
		model.TypeInteger: "int64_t",
		model.TypeNumber:  "double",
		model.TypeBoolean: "bool",
	},
	TargetGo: {
		model.TypeString:  "string",
		model.TypeInteger: "int64",
		model.TypeNumber:  "float64",
		model.TypeBoolean: "bool",
	},
}

func Targets() []Target {
	out := make([]Target, 0, len(defaults))
	for t := range defaults {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func ParseTarget(s string) (Target, error) {
	t := Target(s)
	if _, ok := defaults[t]; !ok {
		return "", fmt.Errorf(`unknown target "%s" (expected one of %v)`, s, Targets())
	}
	return t, nil
}

// Mapper maps schema primitive type tags to target type names.
type Mapper struct {
	table map[string]string
}

func New(table map[string]string) Mapper {
	return Mapper{table: maps.Clone(table)}
}

func For(target Target) (Mapper, error) {
	table, ok := defaults[target]
	if !ok {
		return Mapper{}, fmt.Errorf(`unknown target "%s"`, target)
	}
	return New(table), nil
}

// With returns a copy of the mapper with the given entries replaced or added.
func (m Mapper) With(overrides map[string]string) Mapper {
	table := maps.Clone(m.table)
	if table == nil {
		table = make(map[string]string, len(overrides))
	}
	for k, v := range overrides {
		table[k] = v
	}
	return Mapper{table: table}
}

// Map returns false for tags without an entry. Callers treat that as an
// unsupported construct.
func (m Mapper) Map(tag string) (string, bool) {
	t, ok := m.table[tag]
	return t, ok
}
