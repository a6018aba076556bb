package nametree

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
)

// graph is a minimal in-memory Resolver keyed by object number.
type graph map[int]types.Object

func (g graph) deref(o types.Object) (types.Object, error) {
	ref, ok := o.(types.IndirectRef)
	if !ok {
		return o, nil
	}
	obj, ok := g[ref.ObjectNumber.Value()]
	if !ok {
		return nil, nil
	}
	return obj, nil
}

func (g graph) DereferenceDict(o types.Object) (types.Dict, error) {
	obj, err := g.deref(o)
	if err != nil || obj == nil {
		return nil, err
	}
	d, ok := obj.(types.Dict)
	if !ok {
		return nil, fmt.Errorf("not a dict: %T", obj)
	}
	return d, nil
}

func (g graph) DereferenceArray(o types.Object) (types.Array, error) {
	obj, err := g.deref(o)
	if err != nil || obj == nil {
		return nil, err
	}
	a, ok := obj.(types.Array)
	if !ok {
		return nil, fmt.Errorf("not an array: %T", obj)
	}
	return a, nil
}

func ref(n int) types.IndirectRef {
	return *types.NewIndirectRef(n, 0)
}

type pair struct {
	Key   string
	Value string
}

func collect(seq func(func(types.Object, types.Object) bool)) []pair {
	var out []pair
	for k, v := range seq {
		out = append(out, pair{Key: k.String(), Value: v.String()})
	}
	return out
}

func TestAll_TwoKidsInOrder(t *testing.T) {
	g := graph{
		10: types.Dict{"Names": types.Array{types.StringLiteral("alpha"), ref(20)}},
		11: types.Dict{"Names": types.Array{types.StringLiteral("beta"), ref(21)}},
	}
	root := types.Dict{"Kids": types.Array{ref(10), ref(11)}}

	got := collect(NameEntries(g, root))

	want := []pair{
		{Key: types.StringLiteral("alpha").String(), Value: ref(20).String()},
		{Key: types.StringLiteral("beta").String(), Value: ref(21).String()},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestAll_EmptyNode(t *testing.T) {
	got := collect(NameEntries(graph{}, types.Dict{"Limits": types.Array{}}))
	assert.Empty(t, got)

	assert.Empty(t, collect(NameEntries(graph{}, nil)))
}

func TestAll_NestedKidsAndDirectLeaf(t *testing.T) {
	g := graph{
		2: types.Dict{"Kids": types.Array{ref(3), types.Dict{"Names": types.Array{types.StringLiteral("c"), types.Integer(3)}}}},
		3: types.Dict{"Names": types.Array{
			types.StringLiteral("a"), types.Integer(1),
			types.StringLiteral("b"), types.Integer(2),
		}},
		4: types.Dict{"Names": types.Array{types.StringLiteral("d"), types.Integer(4)}},
	}
	root := types.Dict{"Kids": types.Array{ref(2), ref(4)}}

	var keys []string
	for k := range NameEntries(g, root) {
		keys = append(keys, k.(types.StringLiteral).Value())
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
}

func TestAll_UnresolvableKidIsSkipped(t *testing.T) {
	g := graph{
		5: types.Array{types.Integer(1)},
		6: types.Dict{"Names": types.Array{types.StringLiteral("only"), types.Integer(1)}},
	}
	root := types.Dict{"Kids": types.Array{ref(99), ref(5), types.Integer(7), ref(6)}}

	got := collect(NameEntries(g, root))
	assert.Len(t, got, 1)
}

func TestAll_OddTrailingKeyDropped(t *testing.T) {
	root := types.Dict{"Names": types.Array{
		types.StringLiteral("a"), types.Integer(1), types.StringLiteral("dangling"),
	}}
	assert.Len(t, collect(NameEntries(graph{}, root)), 1)
}

func TestAll_NumberTree(t *testing.T) {
	g := graph{
		7: types.Dict{"Nums": types.Array{types.Integer(0), types.Name("first"), types.Integer(5), types.Name("second")}},
	}
	root := types.Dict{"Kids": types.Array{ref(7)}}

	var keys []int
	for k := range NumberEntries(g, root) {
		keys = append(keys, k.(types.Integer).Value())
	}
	assert.Equal(t, []int{0, 5}, keys)

	// a number tree walk must not pick up Names arrays
	assert.Empty(t, collect(NumberEntries(g, types.Dict{"Names": types.Array{types.Integer(1), types.Integer(2)}})))
}

func TestAll_CycleTerminates(t *testing.T) {
	g := graph{
		8: types.Dict{"Kids": types.Array{ref(9)}},
		9: types.Dict{"Kids": types.Array{ref(8)}, "Names": types.Array{types.StringLiteral("x"), types.Integer(1)}},
	}
	root := types.Dict{"Kids": types.Array{ref(8)}}

	assert.Empty(t, collect(NameEntries(g, root)))
}

func TestAll_Restartable(t *testing.T) {
	leaf := types.Dict{"Names": types.Array{types.StringLiteral("a"), types.Integer(1)}}
	g := graph{1: leaf}
	seq := NameEntries(g, types.Dict{"Kids": types.Array{ref(1)}})

	assert.Len(t, collect(seq), 1)

	// mutate the graph; the next walk must see the change
	leaf["Names"] = append(leaf["Names"].(types.Array), types.StringLiteral("b"), types.Integer(2))
	assert.Len(t, collect(seq), 2)
}

func TestAll_EarlyBreak(t *testing.T) {
	root := types.Dict{"Names": types.Array{
		types.StringLiteral("a"), types.Integer(1),
		types.StringLiteral("b"), types.Integer(2),
	}}

	count := 0
	for range NameEntries(graph{}, root) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
