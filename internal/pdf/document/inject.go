package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/textstring"
)

// AddDestinationLinks places a marker at every named destination: an
// invisible Link annotation whose URI action targets fn(dest), and a filled
// Square annotation over the same rectangle so the marker can be seen.
//
// Every target page's Annots entry is checked, and every annotation built,
// before anything is added: an unsupported shape on any page fails the call
// with the document left as it was.
func (d *Document) AddDestinationLinks(fn func(NamedDestination) string) error {
	var order []ObjectID
	byPage := map[ObjectID][]NamedDestination{}
	for _, dest := range d.destinations {
		if _, ok := byPage[dest.Page]; !ok {
			order = append(order, dest.Page)
		}
		byPage[dest.Page] = append(byPage[dest.Page], dest)
	}

	type pending struct {
		slot   annotsSlot
		annots []types.Dict
	}
	plan := make([]pending, 0, len(order))
	for _, page := range order {
		slot, err := d.annotsSlot(page)
		if err != nil {
			return err
		}
		dests := byPage[page]
		annots := make([]types.Dict, 0, 2*len(dests))
		for _, dest := range dests {
			link, err := linkAnnotation(dest, fn(dest))
			if err != nil {
				return err
			}
			annots = append(annots, link, squareAnnotation(dest))
		}
		plan = append(plan, pending{slot: slot, annots: annots})
	}

	for _, p := range plan {
		refs := make([]types.Object, 0, len(p.annots))
		ids := make([]ObjectID, 0, len(p.annots))
		for _, annot := range p.annots {
			ref, err := d.ctx.IndRefForNewObject(annot)
			if err != nil {
				return pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, "add annotation", err)
			}
			refs = append(refs, *ref)
			ids = append(ids, idOf(*ref))
		}
		p.slot.append(refs)
		d.annotations = append(d.annotations, ids...)
	}

	return nil
}

type slotKind int

const (
	slotMissing slotKind = iota
	slotDirect
	slotIndirect
)

// annotsSlot is where a page keeps its annotation array.
type annotsSlot struct {
	kind  slotKind
	page  types.Dict
	arr   types.Array
	entry *model.XRefTableEntry
}

func (s annotsSlot) append(refs []types.Object) {
	switch s.kind {
	case slotMissing:
		s.page["Annots"] = types.Array(refs)
	case slotDirect:
		s.page["Annots"] = append(s.arr, refs...)
	case slotIndirect:
		// pages may share one Annots array; append to what is there now
		arr, _ := s.entry.Object.(types.Array)
		s.entry.Object = append(arr, refs...)
	}
}

func (d *Document) annotsSlot(page ObjectID) (annotsSlot, error) {
	const op = "attach annotations"

	dict, err := d.ctx.DereferenceDict(page.Ref())
	if err != nil {
		return annotsSlot{}, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err).WithObject(page.Number, page.Generation)
	}
	if dict == nil {
		return annotsSlot{}, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, op, "page not found").
			WithObject(page.Number, page.Generation)
	}

	annots, found := dict.Find("Annots")
	if !found {
		return annotsSlot{kind: slotMissing, page: dict}, nil
	}

	switch v := annots.(type) {
	case types.Array:
		return annotsSlot{kind: slotDirect, page: dict, arr: v}, nil
	case types.IndirectRef:
		entry, ok := d.ctx.FindTableEntryForIndRef(&v)
		if !ok || entry == nil || entry.Free || entry.Object == nil {
			return annotsSlot{}, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, op, "Annots array not found").
				WithObject(v.ObjectNumber.Value(), v.GenerationNumber.Value())
		}
		arr, ok := entry.Object.(types.Array)
		if !ok {
			return annotsSlot{}, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidAnnotation, op,
				fmt.Sprintf("Annots references a %T", entry.Object)).WithObject(v.ObjectNumber.Value(), v.GenerationNumber.Value())
		}
		return annotsSlot{kind: slotIndirect, arr: arr, entry: entry}, nil
	default:
		return annotsSlot{}, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidAnnotation, op,
			fmt.Sprintf("Annots is a %T", annots)).WithObject(page.Number, page.Generation)
	}
}

func overlayRect(dest NamedDestination) types.Array {
	return types.Array{
		types.Float(dest.Left - overlayNear),
		types.Float(dest.Top - overlayNear),
		types.Float(dest.Left - overlayFar),
		types.Float(dest.Top - overlayFar),
	}
}

func noBorder() types.Array {
	return types.Array{types.Integer(0), types.Integer(0), types.Integer(0)}
}

func linkAnnotation(dest NamedDestination, uri string) (types.Dict, error) {
	lit, err := textstring.Literal(uri)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidEncoding, "add annotation", err)
	}
	return types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Link"),
		"Rect":    overlayRect(dest),
		"Border":  noBorder(),
		"A": types.Dict{
			"S":    types.Name("URI"),
			"Type": types.Name("Action"),
			"URI":  lit,
		},
	}, nil
}

func squareAnnotation(dest NamedDestination) types.Dict {
	return types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Square"),
		"Rect":    overlayRect(dest),
		"Border":  noBorder(),
		"IC": types.Array{
			types.Float(DefaultFillColour[0]),
			types.Float(DefaultFillColour[1]),
			types.Float(DefaultFillColour[2]),
		},
	}
}
