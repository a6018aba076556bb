// Package document is a semantic layer over a parsed PDF object graph.
//
// A Document indexes the pages, resolves the named destinations and lists
// the indirect annotations of a pdfcpu context when it is created. It can
// then rewrite the targets of existing URI links, inject marker annotations
// at every named destination, fingerprint the graph and save it.
//
// A Document is not safe for concurrent use. Callers that process several
// files in parallel use one Document per goroutine.
package document

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
)

func init() {
	// no pdfcpu config directory; documents are opened from many goroutines
	api.DisableConfigDir()
}

// Document owns one parsed object graph.
type Document struct {
	ctx          *model.Context
	pages        *PageIndex
	destinations []NamedDestination
	annotations  []ObjectID
}

// New indexes ctx. It fails when the catalog or the page tree cannot be
// found, or when any named destination does not resolve.
func New(ctx *model.Context) (*Document, error) {
	const op = "open document"

	if ctx == nil || ctx.XRefTable == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op, "no object graph")
	}

	catalog, err := ctx.Catalog()
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, op, err)
	}
	if catalog == nil {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op, "catalog not found")
	}

	pagesObj, found := catalog.Find("Pages")
	if !found {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op, "catalog has no Pages entry")
	}
	pagesRef, ok := pagesObj.(types.IndirectRef)
	if !ok {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidStructure, op,
			fmt.Sprintf("Pages entry is %T, not a reference", pagesObj))
	}

	pages, err := buildPageIndex(ctx, pagesRef)
	if err != nil {
		return nil, err
	}

	dests, err := collectDestinations(ctx, catalog, pages)
	if err != nil {
		return nil, err
	}

	return &Document{
		ctx:          ctx,
		pages:        pages,
		destinations: dests,
		annotations:  locateAnnotations(ctx, pages),
	}, nil
}

// Read parses a PDF from rs and indexes it.
func Read(rs io.ReadSeeker) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	return New(ctx)
}

// Open parses the PDF file at path and indexes it.
func Open(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Context exposes the underlying pdfcpu context.
func (d *Document) Context() *model.Context {
	return d.ctx
}

// PageIndex returns the page index built at construction.
func (d *Document) PageIndex() *PageIndex {
	return d.pages
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pages.Len()
}

// Destinations returns a copy of the resolved named destinations.
func (d *Document) Destinations() []NamedDestination {
	return append([]NamedDestination(nil), d.destinations...)
}

// Annotations returns a copy of the annotation identity set.
func (d *Document) Annotations() []ObjectID {
	return append([]ObjectID(nil), d.annotations...)
}
