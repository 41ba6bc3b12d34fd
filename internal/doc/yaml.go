package doc

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document through yaml.Node, which keeps mapping
// keys in document order.
func ParseYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("empty document")
	}

	return fromYAML(root.Content[0])
}

func fromYAML(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromYAML(n.Alias)

	case yaml.MappingNode:
		obj := Object()
		seen := make(map[string]bool)

		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			if seen[k.Value] {
				return nil, fmt.Errorf(`line %d: duplicate key "%s"`, k.Line, k.Value)
			}
			seen[k.Value] = true

			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			obj.Members = append(obj.Members, Member{Key: k.Value, Value: val})
		}

		return obj, nil

	case yaml.SequenceNode:
		arr := Array()
		for _, c := range n.Content {
			val, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, val)
		}
		return arr, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}

	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		return yamlInteger(n)
	case "!!float":
		return yamlFloat(n)
	case "!!str":
		return String(n.Value), nil
	}

	return nil, fmt.Errorf(`line %d: unsupported scalar tag "%s"`, n.Line, n.ShortTag())
}

// yamlInteger stores integers in decimal so that forms like 0x10 or 0o17 read
// the same as their JSON spelling.
func yamlInteger(n *yaml.Node) (*Value, error) {
	var i int64
	if err := n.Decode(&i); err == nil {
		return Number(strconv.FormatInt(i, 10)), nil
	}

	var u uint64
	if err := n.Decode(&u); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return Number(strconv.FormatUint(u, 10)), nil
}

func yamlFloat(n *yaml.Node) (*Value, error) {
	var f float64
	if err := n.Decode(&f); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf(`line %d: number "%s" has no JSON representation`, n.Line, n.Value)
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}
