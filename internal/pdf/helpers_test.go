package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-links/internal/pdf/document"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/pdftest"
)

// paper builds a two page document titled title with one outbound link on
// the first page and a destination named intro on the second.
func paper(title string) []byte {
	f := pdftest.Simple(2, nil, "")
	f.Setf(f.Info, "<< /Title (%s) /Author (Ada Lovelace, Charles Babbage) /CreationDate (D:20190612101500Z) >>", title)

	link := f.Add("<< /Type /Annot /Subtype /Link /Rect [0 0 10 10] /A << /S /URI /URI (https://doi.org/10.1000/182?page=4) >> >>")
	f.SetPageExtra(0, "/Annots ["+pdftest.Ref(link)+"]")

	tree := f.Addf("<< /Names [(intro) [%s /XYZ 100 200 0]] >>", pdftest.Ref(f.Kids[1]))
	f.SetCatalogExtra(fmt.Sprintf("/Names << /Dests %s >>", pdftest.Ref(tree)))
	return f.File()
}

// realTempDir returns a symlink-free temporary directory, so paths compare
// equal to the resolved paths the service reports.
func realTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// testService returns a service rooted at a fresh directory with an output
// directory below it. Identifier scanning is off.
func testService(t *testing.T, opts ...Option) (*Service, string, string) {
	t.Helper()
	dir := realTempDir(t)
	out := filepath.Join(dir, "out")

	svc, err := NewService(10*1024*1024, dir,
		append([]Option{WithOutputDirectory(out), WithIdentifierPages(0)}, opts...)...)
	require.NoError(t, err)
	return svc, dir, out
}

// linkURIs returns the URIs of every link annotation in the file at path.
func linkURIs(t *testing.T, path string) []string {
	t.Helper()
	doc, err := document.Open(path)
	require.NoError(t, err)

	var uris []string
	_, err = doc.RewriteLinks(func(uri string) string {
		uris = append(uris, uri)
		return uri
	})
	require.NoError(t, err)
	return uris
}
