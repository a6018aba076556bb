package pdf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-pdf-links/internal/descriptions"
)

func TestServerInfo(t *testing.T) {
	svc, dir, out := testService(t)
	writeFile(t, dir, "paper.pdf", paper("Sample"))

	result, err := svc.ServerInfo(PDFServerInfoRequest{}, "test-server", "1.0.0-test")
	require.NoError(t, err)

	assert.Equal(t, "test-server", result.ServerName)
	assert.Equal(t, "1.0.0-test", result.Version)
	assert.Equal(t, dir, result.DefaultDirectory)
	assert.Equal(t, out, result.OutputDirectory)
	assert.Equal(t, int64(10*1024*1024), result.MaxFileSize)
	assert.False(t, result.Truncated)
	require.Len(t, result.DirectoryContents, 1)
	assert.Equal(t, "paper.pdf", result.DirectoryContents[0].Name)
	assert.Contains(t, result.UsageGuidance, "10MB")
}

func TestServerInfo_ToolsAreDescribed(t *testing.T) {
	tools := availableTools()

	assert.Len(t, tools, len(descriptions.ToolDescriptions))
	seen := map[string]bool{}
	for _, tool := range tools {
		assert.False(t, seen[tool.Name], "duplicate tool %s", tool.Name)
		seen[tool.Name] = true
		assert.Equal(t, descriptions.GetToolDescription(tool.Name), tool.Description)
		assert.NotEmpty(t, tool.Usage)
		assert.NotEmpty(t, tool.Parameters)
	}
}

func TestServerInfo_Truncated(t *testing.T) {
	svc, dir, _ := testService(t)
	for i := 0; i <= directoryListingLimit; i++ {
		writeFile(t, dir, fmt.Sprintf("p%03d.pdf", i), []byte("%PDF-1.7"))
	}

	result, err := svc.ServerInfo(PDFServerInfoRequest{}, "s", "v")
	require.NoError(t, err)
	assert.Len(t, result.DirectoryContents, directoryListingLimit)
	assert.True(t, result.Truncated)
}
