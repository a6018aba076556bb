// Package pdftest builds small, valid PDF files in memory for tests.
//
// Object bodies are written in PDF syntax by the caller. The builder numbers
// the objects, computes byte offsets and emits a classic cross-reference
// table, so the output parses with pdfcpu without repair.
package pdftest

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	api.DisableConfigDir()
}

// Builder accumulates numbered objects. Object numbers start at 1.
type Builder struct {
	bodies []string
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Reserve allocates an object number whose body is supplied later with Set.
func (b *Builder) Reserve() int {
	b.bodies = append(b.bodies, "null")
	return len(b.bodies)
}

// Add appends an object and returns its number.
func (b *Builder) Add(body string) int {
	n := b.Reserve()
	b.bodies[n-1] = body
	return n
}

// Set replaces the body of object n.
func (b *Builder) Set(n int, body string) {
	b.bodies[n-1] = body
}

// Addf is Add with fmt.Sprintf formatting.
func (b *Builder) Addf(format string, args ...any) int {
	return b.Add(fmt.Sprintf(format, args...))
}

// Setf is Set with fmt.Sprintf formatting.
func (b *Builder) Setf(n int, format string, args ...any) {
	b.Set(n, fmt.Sprintf(format, args...))
}

// Ref formats an indirect reference to object n.
func Ref(n int) string {
	return fmt.Sprintf("%d 0 R", n)
}

// Stream formats a stream object body with an exact /Length.
func Stream(dict, data string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

// Bytes serializes the file. info may be 0 to omit the /Info entry.
func (b *Builder) Bytes(root, info int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, len(b.bodies))
	for i, body := range b.bodies {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.bodies)+1)
	// each entry is exactly 20 bytes including the two-byte line ending
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %s", len(b.bodies)+1, Ref(root))
	if info > 0 {
		fmt.Fprintf(&buf, " /Info %s", Ref(info))
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}

// Context parses the serialized file with pdfcpu.
func (b *Builder) Context(root, info int) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.ReadContext(bytes.NewReader(b.Bytes(root, info)), conf)
}

// Fixture is a ready-made document skeleton: a catalog, a flat page tree
// and an information dictionary.
type Fixture struct {
	*Builder
	Catalog int
	Pages   int
	Info    int
	Kids    []int
}

// Simple creates a document with n pages. Each page body receives extra
// dictionary entries from pageExtra (indexed from 0) when non-nil.
// catalogExtra is appended verbatim to the catalog dictionary.
func Simple(n int, pageExtra func(i int) string, catalogExtra string) *Fixture {
	f := &Fixture{Builder: New()}
	f.Catalog = f.Reserve()
	f.Pages = f.Reserve()

	for i := 0; i < n; i++ {
		extra := ""
		if pageExtra != nil {
			extra = pageExtra(i)
		}
		f.Kids = append(f.Kids, f.Addf("<< /Type /Page /Parent %s /MediaBox [0 0 612 792] %s >>", Ref(f.Pages), extra))
	}

	kids := ""
	for _, k := range f.Kids {
		kids += Ref(k) + " "
	}
	f.Setf(f.Pages, "<< /Type /Pages /Kids [%s] /Count %d >>", kids, n)
	f.Setf(f.Catalog, "<< /Type /Catalog /Pages %s %s >>", Ref(f.Pages), catalogExtra)
	f.Info = f.Add("<< /Title (Sample) /Author (Ada Lovelace, Charles Babbage) /CreationDate (D:20190612101500Z) >>")
	return f
}

// SetCatalogExtra rewrites the catalog with additional entries.
func (f *Fixture) SetCatalogExtra(extra string) {
	f.Setf(f.Catalog, "<< /Type /Catalog /Pages %s %s >>", Ref(f.Pages), extra)
}

// SetPageExtra rewrites page i (0-based) with additional entries.
func (f *Fixture) SetPageExtra(i int, extra string) {
	f.Setf(f.Kids[i], "<< /Type /Page /Parent %s /MediaBox [0 0 612 792] %s >>", Ref(f.Pages), extra)
}

// File serializes the fixture.
func (f *Fixture) File() []byte {
	return f.Bytes(f.Catalog, f.Info)
}

// Parse parses the fixture with pdfcpu.
func (f *Fixture) Parse() (*model.Context, error) {
	return f.Context(f.Catalog, f.Info)
}
