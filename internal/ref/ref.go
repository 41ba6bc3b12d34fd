package ref

import (
	"fmt"
	"strings"

	"github.com/koskimas/schemagen/internal/doc"
	"github.com/koskimas/schemagen/internal/model"
	"github.com/koskimas/schemagen/internal/model/jsonschema"
)

type UnresolvedError struct {
	Ref     string
	Segment string
	Message string
}

func (e *UnresolvedError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf(`unresolved reference "%s": segment "%s" not found`, e.Ref, e.Segment)
	}
	return fmt.Sprintf(`unresolved reference "%s": %s`, e.Ref, e.Message)
}

type CycleError struct {
	Chain Chain
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic reference: %s", strings.Join(e.Chain, " -> "))
}

// Chain is the list of references being expanded on the current path through
// the schema, outermost first.
type Chain []string

// With returns a copy of the chain extended with ref, or a CycleError if ref is
// already being expanded.
func (c Chain) With(ref string) (Chain, error) {
	for _, r := range c {
		if r == ref {
			cycle := append(Chain{}, c...)
			return nil, &CycleError{Chain: append(cycle, ref)}
		}
	}

	next := make(Chain, len(c), len(c)+1)
	copy(next, c)
	return append(next, ref), nil
}

// Resolver looks references up by path in the document they were loaded from.
type Resolver struct {
	root *doc.Value
}

func New(root *doc.Value) *Resolver {
	return &Resolver{root: root}
}

// Resolve returns the node a reference points to, following references to
// references. Nodes of other kinds are returned as they are. A default declared
// next to the $ref takes precedence over the target's default.
func (r *Resolver) Resolve(node *model.Node, chain Chain) (*model.Node, Chain, error) {
	def := node.Default

	for node.Kind == model.KindRef {
		next, err := chain.With(node.Ref)
		if err != nil {
			return nil, nil, err
		}
		chain = next

		v, err := r.Lookup(node.Ref)
		if err != nil {
			return nil, nil, err
		}

		if node, err = jsonschema.ParseNode(v, node.Ref); err != nil {
			return nil, nil, err
		}
	}

	if def != nil && node.Default != def {
		resolved := *node
		resolved.Default = def
		node = &resolved
	}

	return node, chain, nil
}

// Lookup walks the segments of a "#/..." reference through the document.
func (r *Resolver) Lookup(ref string) (*doc.Value, error) {
	segments, err := doc.SplitPointer(ref)
	if err != nil {
		return nil, &UnresolvedError{Ref: ref, Message: err.Error()}
	}

	v := r.root
	for _, s := range segments {
		next, ok := v.Lookup(s)
		if !ok {
			return nil, &UnresolvedError{Ref: ref, Segment: s}
		}
		v = next
	}

	return v, nil
}
