package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
)

// Fallback anchor used when a destination carries no XYZ position.
// The value is cosmetic: it only places the overlay marker.
const (
	DefaultLeft = 10.0
	DefaultTop  = 10.0
)

// Overlay geometry relative to a destination anchor.
const (
	overlayNear = 10.0
	overlayFar  = 5.0
)

// DefaultFillColour is #8FBCBB on the 0-1 RGB scale.
var DefaultFillColour = [3]float64{0x8F / 255.0, 0xBC / 255.0, 0xBB / 255.0}

// ObjectID identifies an indirect object.
type ObjectID struct {
	Number     int `json:"number"`
	Generation int `json:"generation"`
}

func (id ObjectID) String() string {
	return fmt.Sprintf("%d %d R", id.Number, id.Generation)
}

// Ref returns the indirect reference addressing id.
func (id ObjectID) Ref() types.IndirectRef {
	return *types.NewIndirectRef(id.Number, id.Generation)
}

func idOf(ref types.IndirectRef) ObjectID {
	return ObjectID{Number: ref.ObjectNumber.Value(), Generation: ref.GenerationNumber.Value()}
}

// NamedDestination is a resolved entry of the document's destination table.
type NamedDestination struct {
	Name       string   `json:"name"`
	Page       ObjectID `json:"page"`
	PageNumber int      `json:"page_number"`
	Left       float64  `json:"left"`
	Top        float64  `json:"top"`
}

// Metadata is descriptive information read from the information dictionary.
type Metadata struct {
	Title       *string  `json:"title,omitempty"`
	Authors     []string `json:"authors"`
	Year        *int     `json:"year,omitempty"`
	Context     []string `json:"context"`
	Identifiers []string `json:"identifiers"`
}

// RewriteReport summarizes a RewriteLinks pass.
type RewriteReport struct {
	Visited   int                   `json:"visited"`
	Rewritten int                   `json:"rewritten"`
	Skipped   []*pdferrors.PDFError `json:"skipped,omitempty"`
}

// Resolver follows one level of indirection. *model.Context satisfies it.
type Resolver interface {
	Dereference(o types.Object) (types.Object, error)
	DereferenceDict(o types.Object) (types.Dict, error)
	DereferenceArray(o types.Object) (types.Array, error)
}
