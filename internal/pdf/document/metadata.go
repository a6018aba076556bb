package document

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/textstring"
)

// Metadata reads title, authors and year from the information dictionary.
// Author strings are split on commas. The year comes from CreationDate.
// Context and Identifiers are left empty; they are filled by callers that
// know more about the document.
func (d *Document) Metadata() (*Metadata, error) {
	const op = "read metadata"

	if d.ctx.Info == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op, "document has no information dictionary")
	}
	info, err := d.ctx.DereferenceDict(*d.ctx.Info)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidMetadata, op, err)
	}
	if info == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op, "information dictionary not found")
	}

	meta := &Metadata{
		Authors:     []string{},
		Context:     []string{},
		Identifiers: []string{},
	}

	title, ok, err := infoText(info, "Title")
	if err != nil {
		return nil, err
	}
	if ok {
		meta.Title = &title
	}

	author, ok, err := infoText(info, "Author")
	if err != nil {
		return nil, err
	}
	if ok {
		for _, a := range strings.Split(author, ",") {
			if a = strings.TrimSpace(a); a != "" {
				meta.Authors = append(meta.Authors, a)
			}
		}
	}

	created, ok, err := infoText(info, "CreationDate")
	if err != nil {
		return nil, err
	}
	if ok {
		if t, valid := types.DateTime(created, true); valid {
			year := t.Year()
			meta.Year = &year
		}
	}

	return meta, nil
}

// infoText decodes a string entry. Entries holding something other than a
// string are treated as absent.
func infoText(info types.Dict, key string) (string, bool, error) {
	o, found := info.Find(key)
	if !found {
		return "", false, nil
	}
	switch o.(type) {
	case types.StringLiteral, types.HexLiteral:
	default:
		return "", false, nil
	}
	s, err := textstring.DecodeObject(o)
	if err != nil {
		return "", false, pdferrors.WrapError(pdferrors.ErrorTypeInvalidEncoding, "read metadata "+key, err)
	}
	return s, true, nil
}
