package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
)

// PageIndex maps page object identities to 1-based page numbers.
// It is built once and never modified.
type PageIndex struct {
	order   []ObjectID
	numbers map[ObjectID]int
}

func newPageIndex(order []ObjectID) *PageIndex {
	idx := &PageIndex{
		order:   order,
		numbers: make(map[ObjectID]int, len(order)),
	}
	for i, id := range order {
		idx.numbers[id] = i + 1
	}
	return idx
}

// Number returns the page number of the page object id.
func (p *PageIndex) Number(id ObjectID) (int, bool) {
	n, ok := p.numbers[id]
	return n, ok
}

// Len returns the number of pages.
func (p *PageIndex) Len() int {
	return len(p.order)
}

// Pages returns the page identities in page order.
func (p *PageIndex) Pages() []ObjectID {
	return append([]ObjectID(nil), p.order...)
}

type pageNode struct {
	id   ObjectID
	dict types.Dict
}

// buildPageIndex walks the page tree below root depth first, left to right.
func buildPageIndex(r Resolver, root types.IndirectRef) (*PageIndex, error) {
	const op = "index pages"

	rootDict, err := r.DereferenceDict(root)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err).WithObject(idOf(root).Number, idOf(root).Generation)
	}
	if rootDict == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op, "page tree root not found").
			WithObject(idOf(root).Number, idOf(root).Generation)
	}

	var order []ObjectID
	seen := map[ObjectID]bool{idOf(root): true}
	stack := []pageNode{{id: idOf(root), dict: rootDict}}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kidsObj, hasKids := node.dict.Find("Kids")
		if !hasKids {
			order = append(order, node.id)
			continue
		}

		kids, err := r.DereferenceArray(kidsObj)
		if err != nil {
			return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err).WithObject(node.id.Number, node.id.Generation)
		}

		children := make([]pageNode, 0, len(kids))
		for _, kid := range kids {
			ref, ok := kid.(types.IndirectRef)
			if !ok {
				return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op,
					fmt.Sprintf("page tree kid is %T, not a reference", kid)).WithObject(node.id.Number, node.id.Generation)
			}
			id := idOf(ref)
			if seen[id] {
				return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op,
					"page tree node visited twice").WithObject(id.Number, id.Generation)
			}
			seen[id] = true

			dict, err := r.DereferenceDict(ref)
			if err != nil {
				return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err).WithObject(id.Number, id.Generation)
			}
			if dict == nil {
				return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, op, "page tree node not found").
					WithObject(id.Number, id.Generation)
			}
			children = append(children, pageNode{id: id, dict: dict})
		}

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	return newPageIndex(order), nil
}
