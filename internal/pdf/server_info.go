package pdf

import (
	"fmt"

	"github.com/a3tai/mcp-pdf-links/internal/descriptions"
)

// directoryListingLimit caps the files listed by ServerInfo.
const directoryListingLimit = 100

// toolUsage holds the short usage line and parameter summary of each tool.
var toolUsage = []struct {
	name, usage, parameters string
}{
	{
		"pdf_server_info",
		"Call first to learn the configured directories and tools.",
		"No parameters required",
	},
	{
		"pdf_search_directory",
		"Find PDF files by words of their names.",
		"directory (optional), query (optional), recursive (optional)",
	},
	{
		"pdf_validate_file",
		"Check that a file is a readable PDF before processing it.",
		"path (required)",
	},
	{
		"pdf_inspect",
		"Read page count, checksum, metadata, identifiers and destinations.",
		"path (required), identifier_pages (optional)",
	},
	{
		"pdf_destinations",
		"List named destinations with page numbers and anchors.",
		"path (required)",
	},
	{
		"pdf_checksum",
		"Compute the content checksum of a document.",
		"path (required)",
	},
	{
		"pdf_rewrite_links",
		"Route outbound links through akl://open-document/.",
		"path (required), output (required), from (optional)",
	},
	{
		"pdf_add_destination_links",
		"Place cite markers on every named destination.",
		"path (required), output (required), identifier (required)",
	},
	{
		"pdf_convert",
		"Run the full import pipeline on one file.",
		"path (required), output (optional), identifier (optional), raw (optional)",
	},
	{
		"pdf_convert_directory",
		"Run the import pipeline on every PDF of a directory.",
		"directory (optional), output (optional), workers (optional), recursive (optional), raw (optional)",
	},
	{
		"pdf_citation",
		"Build akl command URIs or citation text.",
		"uri (required), command (optional), page (optional), dest (optional), from (optional), format (optional)",
	},
	{
		"pdf_resolve_uri",
		"Classify a URI, identifier or path.",
		"uri (required)",
	},
}

// ServerInfo returns the server identity, the configured directories, the
// first PDF files of the default directory and the available tools
func (s *Service) ServerInfo(_ PDFServerInfoRequest, serverName, version string) (*PDFServerInfoResult, error) {
	dir := s.pathValidator.GetConfiguredDirectory()

	files, truncated, err := s.search.FindPDFsInDirectoryLimited(dir, directoryListingLimit)
	if err != nil {
		files = []FileInfo{}
	}

	return &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		OutputDirectory:   s.outputDirectory,
		MaxFileSize:       s.maxFileSize,
		AvailableTools:    availableTools(),
		DirectoryContents: files,
		Truncated:         truncated,
		UsageGuidance:     s.usageGuidance(),
	}, nil
}

func availableTools() []ToolInfo {
	tools := make([]ToolInfo, 0, len(toolUsage))
	for _, t := range toolUsage {
		tools = append(tools, ToolInfo{
			Name:        t.name,
			Description: descriptions.GetToolDescription(t.name),
			Usage:       t.usage,
			Parameters:  t.parameters,
		})
	}
	return tools
}

func (s *Service) usageGuidance() string {
	return fmt.Sprintf(`PDF Links Server Usage Guide:

1. DISCOVER:
   - Use 'pdf_search_directory' to find papers
   - Use 'pdf_validate_file' on files from unknown sources

2. INSPECT:
   - Use 'pdf_inspect' to see metadata, identifiers and the catalog name
   - Use 'pdf_destinations' to list link targets inside a paper

3. CONVERT:
   - Use 'pdf_convert' to import one paper under its catalog name
   - Use 'pdf_convert_directory' to import a whole folder
   - Use 'pdf_rewrite_links' or 'pdf_add_destination_links' for a single step

4. CITE:
   - Use 'pdf_citation' to build akl:// links and citation text
   - Use 'pdf_resolve_uri' to see what a link points to

IMPORTANT NOTES:
- Relative paths are resolved against the default directory
- Paths outside the default and output directories are rejected
- The server can handle files up to %dMB
- Saving a document changes its checksum`, s.maxFileSize/(1024*1024))
}
