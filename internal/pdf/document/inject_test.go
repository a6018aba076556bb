package document

import (
	"fmt"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/pdftest"
)

func citeLink(dest NamedDestination) string {
	return fmt.Sprintf("akl://cite-document/?dest=%s&page=%d", dest.Name, dest.PageNumber)
}

func floats(t *testing.T, o types.Object) []float64 {
	t.Helper()
	arr, ok := o.(types.Array)
	require.True(t, ok, "array expected, got %T", o)
	out := make([]float64, len(arr))
	for i, v := range arr {
		out[i] = numberOr(v, -1)
	}
	return out
}

func TestAddDestinationLinks_CreatesAnnots(t *testing.T) {
	f := pdftest.Simple(1, nil, "")
	withDests(f, fmt.Sprintf("(intro) [%s /XYZ 100 200 0]", pdftest.Ref(f.Kids[0])))
	doc := parse(t, f)

	require.NoError(t, doc.AddDestinationLinks(citeLink))

	page := dictAt(t, doc, f.Kids[0])
	annots, ok := page["Annots"].(types.Array)
	require.True(t, ok, "Annots must be a direct array, got %T", page["Annots"])
	require.Len(t, annots, 2)

	link, err := doc.ctx.DereferenceDict(annots[0])
	require.NoError(t, err)
	assert.Equal(t, types.Name("Link"), link["Subtype"])
	assert.Equal(t, types.Name("Annot"), link["Type"])
	assert.Equal(t, []float64{90, 190, 95, 195}, floats(t, link["Rect"]))
	assert.Equal(t, []float64{0, 0, 0}, floats(t, link["Border"]))

	action := link["A"].(types.Dict)
	assert.Equal(t, types.Name("URI"), action["S"])
	assert.Equal(t, types.Name("Action"), action["Type"])
	assert.Equal(t, types.StringLiteral("akl://cite-document/?dest=intro&page=1"), action["URI"])

	square, err := doc.ctx.DereferenceDict(annots[1])
	require.NoError(t, err)
	assert.Equal(t, types.Name("Square"), square["Subtype"])
	assert.Equal(t, []float64{90, 190, 95, 195}, floats(t, square["Rect"]))
	assert.InDeltaSlice(t, []float64{0x8F / 255.0, 0xBC / 255.0, 0xBB / 255.0}, floats(t, square["IC"]), 1e-9)

	assert.Len(t, doc.Annotations(), 2)
}

func TestAddDestinationLinks_AppendsToIndirectAnnots(t *testing.T) {
	f := pdftest.Simple(1, nil, "")
	existing := f.Add("<< /Type /Annot /Subtype /Text /Rect [0 0 1 1] >>")
	arr := f.Addf("[%s]", pdftest.Ref(existing))
	f.SetPageExtra(0, fmt.Sprintf("/Annots %s", pdftest.Ref(arr)))
	withDests(f,
		fmt.Sprintf("(a) [%s /Fit]", pdftest.Ref(f.Kids[0])),
		fmt.Sprintf("(b) [%s /XYZ 50 60 0]", pdftest.Ref(f.Kids[0])))
	doc := parse(t, f)

	require.NoError(t, doc.AddDestinationLinks(citeLink))

	page := dictAt(t, doc, f.Kids[0])
	assert.Equal(t, ref(arr), page["Annots"], "Annots stays indirect")

	annots, err := doc.ctx.DereferenceArray(ref(arr))
	require.NoError(t, err)
	require.Len(t, annots, 5)
	assert.Equal(t, ref(existing), annots[0])

	first, err := doc.ctx.DereferenceDict(annots[1])
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 5, 5}, floats(t, first["Rect"]))

	assert.Len(t, doc.Annotations(), 5)
	assert.Equal(t, ObjectID{Number: existing}, doc.Annotations()[0])
}

func TestAddDestinationLinks_AppendsToDirectAnnots(t *testing.T) {
	f := pdftest.Simple(1, nil, "")
	existing := f.Add("<< /Type /Annot /Subtype /Text /Rect [0 0 1 1] >>")
	f.SetPageExtra(0, fmt.Sprintf("/Annots [%s]", pdftest.Ref(existing)))
	withDests(f, fmt.Sprintf("(a) [%s /Fit]", pdftest.Ref(f.Kids[0])))
	doc := parse(t, f)

	require.NoError(t, doc.AddDestinationLinks(citeLink))

	annots, ok := dictAt(t, doc, f.Kids[0])["Annots"].(types.Array)
	require.True(t, ok)
	require.Len(t, annots, 3)
	assert.Equal(t, ref(existing), annots[0])
}

func TestAddDestinationLinks_ScalarAnnotsFails(t *testing.T) {
	f := pdftest.Simple(2, nil, "")
	f.SetPageExtra(1, "/Annots 5")
	withDests(f,
		fmt.Sprintf("(first) [%s /Fit]", pdftest.Ref(f.Kids[0])),
		fmt.Sprintf("(second) [%s /Fit]", pdftest.Ref(f.Kids[1])))
	doc := parse(t, f)
	size := *doc.Context().XRefTable.Size
	before := checksum(t, doc)

	err := doc.AddDestinationLinks(citeLink)
	require.ErrorIs(t, err, pdferrors.ErrInvalidAnnotation)

	var pdfErr *pdferrors.PDFError
	require.ErrorAs(t, err, &pdfErr)
	assert.Equal(t, f.Kids[1], pdfErr.ObjectNum)

	// nothing is added, not even to the page ahead of the bad one
	_, found := dictAt(t, doc, f.Kids[0]).Find("Annots")
	assert.False(t, found)
	assert.Equal(t, types.Integer(5), dictAt(t, doc, f.Kids[1])["Annots"])
	assert.Equal(t, size, *doc.Context().XRefTable.Size)
	assert.Empty(t, doc.Annotations())
	assert.Equal(t, before, checksum(t, doc))
}

func TestAddDestinationLinks_SharedIndirectAnnots(t *testing.T) {
	f := pdftest.Simple(2, nil, "")
	shared := f.Add("[]")
	f.SetPageExtra(0, fmt.Sprintf("/Annots %s", pdftest.Ref(shared)))
	f.SetPageExtra(1, fmt.Sprintf("/Annots %s", pdftest.Ref(shared)))
	withDests(f,
		fmt.Sprintf("(first) [%s /Fit]", pdftest.Ref(f.Kids[0])),
		fmt.Sprintf("(second) [%s /Fit]", pdftest.Ref(f.Kids[1])))
	doc := parse(t, f)

	require.NoError(t, doc.AddDestinationLinks(citeLink))

	o, err := doc.ctx.Dereference(ref(shared))
	require.NoError(t, err)
	arr, ok := o.(types.Array)
	require.True(t, ok, "Annots is %T", o)
	assert.Len(t, arr, 4)
}

func TestAddDestinationLinks_IndirectNonArrayFails(t *testing.T) {
	f := pdftest.Simple(1, nil, "")
	notArray := f.Add("<< /Foo 1 >>")
	f.SetPageExtra(0, fmt.Sprintf("/Annots %s", pdftest.Ref(notArray)))
	withDests(f, fmt.Sprintf("(a) [%s /Fit]", pdftest.Ref(f.Kids[0])))
	doc := parse(t, f)

	assert.ErrorIs(t, doc.AddDestinationLinks(citeLink), pdferrors.ErrInvalidAnnotation)
}

func TestAddDestinationLinks_NewLinksAreRewritable(t *testing.T) {
	f := pdftest.Simple(1, nil, "")
	withDests(f, fmt.Sprintf("(a) [%s /Fit]", pdftest.Ref(f.Kids[0])))
	doc := parse(t, f)

	require.NoError(t, doc.AddDestinationLinks(citeLink))

	report, err := doc.RewriteLinks(func(s string) string { return s + "&from=x" })
	require.NoError(t, err)
	assert.Equal(t, 2, report.Visited)
	assert.Equal(t, 1, report.Rewritten)
	assert.Empty(t, report.Skipped)
}

func TestAddDestinationLinks_NoDestinations(t *testing.T) {
	doc := parse(t, pdftest.Simple(1, nil, ""))
	before, err := doc.Checksum()
	require.NoError(t, err)

	require.NoError(t, doc.AddDestinationLinks(citeLink))

	after, err := doc.Checksum()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
