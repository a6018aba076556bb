package descriptions

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetToolDescription(t *testing.T) {
	assert.Equal(t, PDFConvertDescription, GetToolDescription("pdf_convert"))
	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_read_file"))
}

func TestGetAllToolNames(t *testing.T) {
	names := GetAllToolNames()

	assert.Len(t, names, len(ToolDescriptions))
	assert.True(t, sort.StringsAreSorted(names))
	for _, name := range names {
		assert.NotEmpty(t, ToolDescriptions[name], name)
	}
}
