package ref

import (
	"errors"
	"testing"

	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/model"
	assert "github.com/stretchr/testify/require"
)

const document = `{
  "title": "Root",
  "properties": {},
  "$defs": {
    "Item": {"type": "object", "properties": {"id": {"type": "integer"}}},
    "Alias": {"$ref": "#/$defs/Item"},
    "Mode": {"enum": ["A", "B"], "default": "A"},
    "Loop": {"$ref": "#/$defs/Loop2"},
    "Loop2": {"$ref": "#/$defs/Loop"},
    "a/b": {"type": "string"}
  }
}`

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	v, err := doc.ParseJSON([]byte(document))
	assert.NoError(t, err)
	return New(v)
}

func refNode(target string) *model.Node {
	return &model.Node{Kind: model.KindRef, Ref: target}
}

func TestResolve(t *testing.T) {
	r := newResolver(t)

	n, chain, err := r.Resolve(refNode("#/$defs/Item"), nil)
	assert.NoError(t, err)
	assert.Equal(t, model.KindObject, n.Kind)
	assert.Equal(t, "#/$defs/Item", n.Path)
	assert.Equal(t, Chain{"#/$defs/Item"}, chain)

	id, ok := n.Property("id")
	assert.True(t, ok)
	assert.Equal(t, "#/$defs/Item/properties/id", id.Path)
}

func TestResolveFollowsChains(t *testing.T) {
	r := newResolver(t)

	n, chain, err := r.Resolve(refNode("#/$defs/Alias"), nil)
	assert.NoError(t, err)
	assert.Equal(t, model.KindObject, n.Kind)
	assert.Equal(t, Chain{"#/$defs/Alias", "#/$defs/Item"}, chain)
}

func TestResolveNonRefIsNoop(t *testing.T) {
	r := newResolver(t)
	in := &model.Node{Kind: model.KindPrimitive, Primitive: "string"}

	n, chain, err := r.Resolve(in, Chain{"#/x"})
	assert.NoError(t, err)
	assert.Same(t, in, n)
	assert.Equal(t, Chain{"#/x"}, chain)
}

func TestResolveEscapedSegments(t *testing.T) {
	r := newResolver(t)

	n, _, err := r.Resolve(refNode("#/$defs/a~1b"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "string", n.Primitive)
}

func TestResolveDefaultOverride(t *testing.T) {
	r := newResolver(t)

	n, _, err := r.Resolve(refNode("#/$defs/Mode"), nil)
	assert.NoError(t, err)
	assert.Equal(t, doc.String("A"), n.Default)

	withDefault := refNode("#/$defs/Mode")
	withDefault.Default = doc.String("B")
	n, _, err = r.Resolve(withDefault, nil)
	assert.NoError(t, err)
	assert.Equal(t, doc.String("B"), n.Default)
}

func TestResolveMissingTarget(t *testing.T) {
	r := newResolver(t)

	_, _, err := r.Resolve(refNode("#/$defs/Missing"), nil)
	var ue *UnresolvedError
	assert.True(t, errors.As(err, &ue))
	assert.Equal(t, "#/$defs/Missing", ue.Ref)
	assert.Equal(t, "Missing", ue.Segment)
	assert.Contains(t, err.Error(), "#/$defs/Missing")

	_, _, err = r.Resolve(refNode("other.json#/a"), nil)
	assert.True(t, errors.As(err, &ue))
}

func TestResolveCycle(t *testing.T) {
	r := newResolver(t)

	_, _, err := r.Resolve(refNode("#/$defs/Loop"), nil)
	var ce *CycleError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, Chain{"#/$defs/Loop", "#/$defs/Loop2", "#/$defs/Loop"}, ce.Chain)
}

func TestChainWithDoesNotAlias(t *testing.T) {
	base := make(Chain, 1, 4)
	base[0] = "#/a"

	left, err := base.With("#/b")
	assert.NoError(t, err)
	right, err := base.With("#/c")
	assert.NoError(t, err)

	assert.Equal(t, Chain{"#/a", "#/b"}, left)
	assert.Equal(t, Chain{"#/a", "#/c"}, right)
}
