package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-links/internal/pdf/pdftest"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/textstring"
)

// memGraph resolves references against an in-memory object table.
type memGraph map[int]types.Object

func (g memGraph) Dereference(o types.Object) (types.Object, error) {
	ref, ok := o.(types.IndirectRef)
	if !ok {
		return o, nil
	}
	return g[ref.ObjectNumber.Value()], nil
}

func (g memGraph) DereferenceDict(o types.Object) (types.Dict, error) {
	obj, err := g.Dereference(o)
	if err != nil || obj == nil {
		return nil, err
	}
	d, ok := obj.(types.Dict)
	if !ok {
		return nil, fmt.Errorf("dict expected, got %T", obj)
	}
	return d, nil
}

func (g memGraph) DereferenceArray(o types.Object) (types.Array, error) {
	obj, err := g.Dereference(o)
	if err != nil || obj == nil {
		return nil, err
	}
	a, ok := obj.(types.Array)
	if !ok {
		return nil, fmt.Errorf("array expected, got %T", obj)
	}
	return a, nil
}

func ref(n int) types.IndirectRef {
	return *types.NewIndirectRef(n, 0)
}

// withDests stores a one-leaf destination name tree in the catalog. Each
// entry is a raw "key value" pair in PDF syntax.
func withDests(f *pdftest.Fixture, entries ...string) {
	tree := f.Addf("<< /Names [%s] >>", strings.Join(entries, " "))
	f.SetCatalogExtra(fmt.Sprintf("/Names << /Dests %s >>", pdftest.Ref(tree)))
}

func parse(t *testing.T, f *pdftest.Fixture) *Document {
	t.Helper()
	ctx, err := f.Parse()
	require.NoError(t, err)

	doc, err := New(ctx)
	require.NoError(t, err)
	return doc
}

func dictAt(t *testing.T, doc *Document, n int) types.Dict {
	t.Helper()
	d, err := doc.ctx.DereferenceDict(ref(n))
	require.NoError(t, err)
	require.NotNil(t, d, "object %d", n)
	return d
}

func uriOf(t *testing.T, doc *Document, annot int) string {
	t.Helper()
	action, err := doc.ctx.DereferenceDict(dictAt(t, doc, annot)["A"])
	require.NoError(t, err)
	require.NotNil(t, action)
	_, ok := action["URI"].(types.StringLiteral)
	require.True(t, ok, "URI is %T", action["URI"])
	uri, err := textstring.DecodeObject(action["URI"])
	require.NoError(t, err)
	return uri
}
