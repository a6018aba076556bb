package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PDFError
		want string
	}{
		{
			name: "message only",
			err:  NewPDFError(ErrorTypeInvalidPageID, "", "page not found"),
			want: "[INVALID_PAGE_ID] page not found",
		},
		{
			name: "with operation and object",
			err:  NewPDFError(ErrorTypeInvalidAnnotation, "attach annotations", "unsupported Annots").WithObject(12, 0),
			want: "attach annotations: [INVALID_ANNOTATION] unsupported Annots (object 12 0 R)",
		},
		{
			name: "wrapped cause",
			err:  WrapError(ErrorTypeMissingObject, "dereference", fmt.Errorf("boom")),
			want: "dereference: [MISSING_OBJECT] object not found: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPDFError_Is(t *testing.T) {
	err := fmt.Errorf("resolving destination: %w",
		NewPDFError(ErrorTypeInvalidPageID, "resolve destination", "no such page").WithObject(4, 0))

	assert.True(t, stderrors.Is(err, ErrInvalidPageID))
	assert.False(t, stderrors.Is(err, ErrInvalidAnnotation))

	var pdfErr *PDFError
	if assert.True(t, stderrors.As(err, &pdfErr)) {
		assert.Equal(t, 4, pdfErr.ObjectNum)
	}
}

func TestPDFError_UnwrapReachesCause(t *testing.T) {
	cause := &EncodingError{Encoding: UTF16}
	err := WrapError(ErrorTypeInvalidEncoding, "decode name", cause)

	var encErr *EncodingError
	assert.True(t, stderrors.As(err, &encErr))
	assert.Equal(t, UTF16, encErr.Encoding)
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "INVALID_STRUCTURE", ErrorTypeInvalidStructure.String())
	assert.Equal(t, "UNKNOWN", ErrorType(99).String())
}

func TestEncodingError(t *testing.T) {
	assert.Equal(t, "invalid UTF-8 byte sequence in text string", (&EncodingError{Encoding: UTF8}).Error())
	assert.Contains(t, (&EncodingError{Encoding: UTF16, Err: fmt.Errorf("unpaired surrogate")}).Error(),
		"UTF-16")
	assert.True(t, utf8.ValidString(UTF16.String()))
}

func TestCollection(t *testing.T) {
	var c Collection
	assert.Equal(t, "No errors", c.Summary())

	c.Add(NewPDFError(ErrorTypeMalformedObject, "rewrite link", "URI is not a string"))
	c.Add(NewPDFError(ErrorTypeMissingObject, "rewrite link", "annotation missing"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "Skipped 2 object(s)", c.Summary())
}

func TestPDFError_JSONKeepsCause(t *testing.T) {
	err := WrapError(ErrorTypeInvalidEncoding, "rewrite link", &EncodingError{Encoding: UTF16}).WithObject(9, 0)

	raw, mErr := json.Marshal(err)
	require.NoError(t, mErr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "rewrite link", decoded["operation"])
	assert.Equal(t, float64(9), decoded["object_num"])
	assert.Equal(t, "invalid UTF-16 byte sequence in text string", decoded["cause"])

	raw, mErr = json.Marshal(NewPDFError(ErrorTypeMissingObject, "", "gone"))
	require.NoError(t, mErr)
	assert.NotContains(t, string(raw), "cause")
}
