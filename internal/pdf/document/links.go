package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/textstring"
)

// RewriteLinks replaces the URI of every link annotation with fn(uri).
//
// Annotations that cannot be rewritten are skipped and listed in the
// report; they never stop the walk. Annotations without a URI action are
// left alone and are not reported.
func (d *Document) RewriteLinks(fn func(string) string) (*RewriteReport, error) {
	report := &RewriteReport{}
	for _, id := range d.annotations {
		report.Visited++
		rewritten, err := d.rewriteLink(id, fn)
		if err != nil {
			report.Skipped = append(report.Skipped, err.WithObject(id.Number, id.Generation))
			continue
		}
		if rewritten {
			report.Rewritten++
		}
	}
	return report, nil
}

func (d *Document) rewriteLink(id ObjectID, fn func(string) string) (bool, *pdferrors.PDFError) {
	const op = "rewrite link"

	annot, err := d.ctx.DereferenceDict(id.Ref())
	if err != nil {
		return false, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err)
	}
	if annot == nil {
		return false, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, op, "annotation not found")
	}

	actionObj, found := annot.Find("A")
	if !found {
		return false, nil
	}
	action, err := d.ctx.DereferenceDict(actionObj)
	if err != nil {
		return false, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err)
	}
	if action == nil {
		return false, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, op, "action not found")
	}

	uriObj, found := action.Find("URI")
	if !found {
		return false, nil
	}
	switch uriObj.(type) {
	case types.StringLiteral, types.HexLiteral:
	default:
		return false, pdferrors.NewPDFError(pdferrors.ErrorTypeMalformedObject, op,
			fmt.Sprintf("URI is %T, not a string", uriObj))
	}

	raw, err := textstring.Bytes(uriObj)
	if err != nil {
		return false, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err)
	}
	uri, err := textstring.Decode(raw)
	if err != nil {
		return false, pdferrors.WrapError(pdferrors.ErrorTypeInvalidEncoding, op, err)
	}

	// keep the source encoding so an undone rewrite restores the same bytes
	lit, err := textstring.LiteralBytes(textstring.Encode(fn(uri), textstring.Detect(raw)))
	if err != nil {
		return false, pdferrors.WrapError(pdferrors.ErrorTypeInvalidEncoding, op, err)
	}
	action["URI"] = lit
	return true, nil
}
