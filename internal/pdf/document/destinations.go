package document

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/nametree"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/textstring"
)

// ResolveDestination turns one destination table entry into a
// NamedDestination. key is the entry's name or string key; value is the
// destination, either an explicit array or a dictionary holding it under D.
func ResolveDestination(r Resolver, pages *PageIndex, key, value types.Object) (NamedDestination, error) {
	const op = "resolve destination"

	name, err := textstring.DecodeObject(key)
	if err != nil {
		return NamedDestination{}, pdferrors.WrapError(pdferrors.ErrorTypeInvalidEncoding, op, err)
	}

	arr, err := destinationArray(r, value)
	if err != nil {
		return NamedDestination{}, fmt.Errorf("destination %q: %w", name, err)
	}

	if len(arr) < 2 {
		return NamedDestination{}, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidPageID, op,
			fmt.Sprintf("destination %q has %d element(s), no page", name, len(arr)))
	}

	pageRef, ok := arr[0].(types.IndirectRef)
	if !ok {
		return NamedDestination{}, pdferrors.NewPDFError(pdferrors.ErrorTypeMalformedObject, op,
			fmt.Sprintf("destination %q: page is %T, not a reference", name, arr[0]))
	}
	kind, ok := arr[1].(types.Name)
	if !ok {
		return NamedDestination{}, pdferrors.NewPDFError(pdferrors.ErrorTypeMalformedObject, op,
			fmt.Sprintf("destination %q: type is %T, not a name", name, arr[1]))
	}

	page := idOf(pageRef)
	number, ok := pages.Number(page)
	if !ok {
		return NamedDestination{}, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidPageID, op,
			fmt.Sprintf("destination %q targets an unknown page", name)).WithObject(page.Number, page.Generation)
	}

	left, top := DefaultLeft, DefaultTop
	if kind == "XYZ" && len(arr) > 3 {
		left = numberOr(arr[2], DefaultLeft)
		top = numberOr(arr[3], DefaultTop)
	}

	return NamedDestination{
		Name:       name,
		Page:       page,
		PageNumber: number,
		Left:       left,
		Top:        top,
	}, nil
}

func destinationArray(r Resolver, value types.Object) (types.Array, error) {
	const op = "resolve destination"

	obj, err := r.Dereference(value)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err)
	}

	switch v := obj.(type) {
	case types.Array:
		return v, nil
	case types.Dict:
		d, found := v.Find("D")
		if !found {
			return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMalformedObject, op, "destination dictionary has no D entry")
		}
		arr, err := r.DereferenceArray(d)
		if err != nil {
			return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, op, err)
		}
		if arr == nil {
			return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, op, "destination array not found")
		}
		return arr, nil
	case nil:
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingObject, op, "destination not found")
	default:
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMalformedObject, op,
			fmt.Sprintf("destination is %T", obj))
	}
}

func numberOr(o types.Object, fallback float64) float64 {
	switch v := o.(type) {
	case types.Float:
		return v.Value()
	case types.Integer:
		return float64(v.Value())
	default:
		return fallback
	}
}

// collectDestinations reads the destination table from the catalog. The
// name tree under /Names /Dests wins; the legacy /Dests dictionary is only
// read when the name tree is absent.
func collectDestinations(r Resolver, catalog types.Dict, pages *PageIndex) ([]NamedDestination, error) {
	if root, ok := destsNameTree(r, catalog); ok {
		var dests []NamedDestination
		for key, value := range nametree.NameEntries(r, root) {
			dest, err := ResolveDestination(r, pages, key, value)
			if err != nil {
				return nil, err
			}
			dests = append(dests, dest)
		}
		return dests, nil
	}

	legacy, found := catalog.Find("Dests")
	if !found {
		return nil, nil
	}
	dict, err := r.DereferenceDict(legacy)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeMalformedObject, "read destinations", err)
	}

	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dests := make([]NamedDestination, 0, len(keys))
	for _, k := range keys {
		dest, err := ResolveDestination(r, pages, types.Name(k), dict[k])
		if err != nil {
			return nil, err
		}
		dests = append(dests, dest)
	}
	return dests, nil
}

func destsNameTree(r Resolver, catalog types.Dict) (types.Dict, bool) {
	names, found := catalog.Find("Names")
	if !found {
		return nil, false
	}
	namesDict, err := r.DereferenceDict(names)
	if err != nil || namesDict == nil {
		return nil, false
	}
	dests, found := namesDict.Find("Dests")
	if !found {
		return nil, false
	}
	root, err := r.DereferenceDict(dests)
	if err != nil || root == nil {
		return nil, false
	}
	return root, true
}
