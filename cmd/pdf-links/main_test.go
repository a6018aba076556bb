package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-links/internal/pdf/pdftest"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func fixture(t *testing.T) (string, string) {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	f := pdftest.Simple(1, nil, "")
	link := f.Add("<< /Type /Annot /Subtype /Link /Rect [0 0 10 10] /A << /S /URI /URI (https://example.org/x.pdf) >> >>")
	f.SetPageExtra(0, "/Annots ["+pdftest.Ref(link)+"]")

	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, f.File(), 0o644))
	return dir, path
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "pdf-links inspect")

	code, _, stderr = runCLI(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, stderr = runCLI(t, "inspect")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: pdf-links inspect")

	code, _, _ = runCLI(t, "inspect", "--help")
	assert.Equal(t, 0, code)
}

func TestRun_Inspect(t *testing.T) {
	_, path := fixture(t)

	code, stdout, stderr := runCLI(t, "inspect", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "pages:        1")
	assert.Contains(t, stdout, "links:        1")

	code, stdout, stderr = runCLI(t, "inspect", "--format", "json", path)
	require.Equal(t, 0, code, stderr)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, float64(1), decoded["pages"])

	code, _, _ = runCLI(t, "inspect", "--format", "yaml", path)
	assert.Equal(t, 2, code)
}

func TestRun_Links(t *testing.T) {
	dir, path := fixture(t)
	output := filepath.Join(dir, "links", "out.pdf")

	code, stdout, stderr := runCLI(t, "links", "--output", output, "--from", "doi:10.1/x", path)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "1/1 links rewritten, 0 skipped\n", stdout)
	assert.FileExists(t, output)

	code, _, stderr = runCLI(t, "links", path)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: pdf-links links")
}

func TestRun_Convert(t *testing.T) {
	dir, path := fixture(t)

	code, stdout, stderr := runCLI(t, "convert", "--identifier", "doi:10.1000/182", path)
	require.Equal(t, 0, code, stderr)
	out := strings.TrimSpace(stdout)
	assert.Equal(t, dir, filepath.Dir(out))
	assert.FileExists(t, out)
}

func TestRun_ConvertDir(t *testing.T) {
	dir, _ := fixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("nope"), 0o644))
	out := filepath.Join(dir, "converted")

	code, stdout, _ := runCLI(t, "convert-dir", "--output", out, "--workers", "1", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "ok   "+out)
	assert.Contains(t, stdout, "fail "+filepath.Join(dir, "broken.pdf"))
}

func TestRun_Cite(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"cite", "--page", "2", "doi:10.1/x"}, "akl://cite-document/?uri=doi%3A10.1%2Fx&page=2\n"},
		{[]string{"cite", "--command", "view-document", "--dest", "sec.1", "doi:10.1/x"}, "akl://view-document/?uri=doi%3A10.1%2Fx&dest=sec.1\n"},
		{[]string{"cite", "--citation", "--page", "3", "doi:10.1/x"}, "doi:10.1/x?page=3\n"},
	}
	for _, tt := range tests {
		code, stdout, stderr := runCLI(t, tt.args...)
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, tt.want, stdout)
	}

	code, _, stderr := runCLI(t, "cite", "--command", "import-document", "doi:10.1/x")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ImportQuery")
}

func TestRun_Resolve(t *testing.T) {
	code, stdout, stderr := runCLI(t, "resolve", "https://arxiv.org/abs/2101.00001v2")
	require.Equal(t, 0, code, stderr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "arxiv", decoded["kind"])
	assert.Equal(t, "arxiv:2101.00001v2", decoded["identifier"])
	assert.Equal(t, "https://arxiv.org/pdf/2101.00001v2.pdf", decoded["download_url"])

	code, _, _ = runCLI(t, "resolve", "gopher://nowhere")
	assert.Equal(t, 1, code)
}
