package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/pdftest"
)

func TestMetadata(t *testing.T) {
	doc := parse(t, pdftest.Simple(1, nil, ""))

	meta, err := doc.Metadata()
	require.NoError(t, err)

	require.NotNil(t, meta.Title)
	assert.Equal(t, "Sample", *meta.Title)
	assert.Equal(t, []string{"Ada Lovelace", "Charles Babbage"}, meta.Authors)
	require.NotNil(t, meta.Year)
	assert.Equal(t, 2019, *meta.Year)
	assert.Empty(t, meta.Context)
	assert.Empty(t, meta.Identifiers)
}

func TestMetadata_Variants(t *testing.T) {
	tests := []struct {
		name    string
		info    string
		title   *string
		authors []string
		year    *int
	}{
		{
			name:    "utf16 title",
			info:    "<< /Title <FEFF00C9007400750064006500730020> >>",
			title:   ptr("Études "),
			authors: []string{},
		},
		{
			name:    "empty author parts dropped",
			info:    "<< /Author (Grace Hopper, , Alan Turing,) >>",
			authors: []string{"Grace Hopper", "Alan Turing"},
		},
		{
			name:    "unparseable date",
			info:    "<< /CreationDate (yesterday) >>",
			authors: []string{},
		},
		{
			name:    "date with offset",
			info:    "<< /CreationDate (D:20011231235959+01'00') >>",
			authors: []string{},
			year:    ptr(2001),
		},
		{
			name:    "non string title ignored",
			info:    "<< /Title 12 >>",
			authors: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pdftest.Simple(1, nil, "")
			f.Set(f.Info, tt.info)
			doc := parse(t, f)

			meta, err := doc.Metadata()
			require.NoError(t, err)
			assert.Equal(t, tt.title, meta.Title)
			assert.Equal(t, tt.authors, meta.Authors)
			assert.Equal(t, tt.year, meta.Year)
		})
	}
}

func TestMetadata_NoInfo(t *testing.T) {
	f := pdftest.Simple(1, nil, "")
	ctx, err := f.Context(f.Catalog, 0)
	require.NoError(t, err)
	doc, err := New(ctx)
	require.NoError(t, err)

	_, err = doc.Metadata()
	assert.ErrorIs(t, err, pdferrors.ErrInvalidStructure)
}

func TestMetadata_BadEncoding(t *testing.T) {
	f := pdftest.Simple(1, nil, "")
	f.Set(f.Info, "<< /Title <FEFFDC00> >>")
	doc := parse(t, f)

	_, err := doc.Metadata()
	var encErr *pdferrors.EncodingError
	assert.ErrorAs(t, err, &encErr)
}

func ptr[T any](v T) *T {
	return &v
}
