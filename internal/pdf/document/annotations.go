package document

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// locateAnnotations lists the indirect entries of every page's Annots array
// in page order. Inline annotation dictionaries are not listed.
func locateAnnotations(r Resolver, pages *PageIndex) []ObjectID {
	var ids []ObjectID
	for _, page := range pages.order {
		dict, err := r.DereferenceDict(page.Ref())
		if err != nil || dict == nil {
			continue
		}
		annots, found := dict.Find("Annots")
		if !found {
			continue
		}
		arr, err := r.DereferenceArray(annots)
		if err != nil || arr == nil {
			continue
		}
		for _, entry := range arr {
			if ref, ok := entry.(types.IndirectRef); ok {
				ids = append(ids, idOf(ref))
			}
		}
	}
	return ids
}
