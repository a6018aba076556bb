package pdf

import (
	"github.com/a3tai/mcp-pdf-links/internal/catalog"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/document"
	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
)

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path" validate:"required"`
}

// PDFInspectRequest represents a request to describe a PDF file
type PDFInspectRequest struct {
	Path string `json:"path" validate:"required"`
	// IdentifierPages overrides how many leading pages are scanned for
	// identifiers. Zero uses the service default.
	IdentifierPages int `json:"identifier_pages,omitempty" validate:"min=0"`
}

// PDFDestinationsRequest represents a request to list named destinations
type PDFDestinationsRequest struct {
	Path string `json:"path" validate:"required"`
}

// PDFChecksumRequest represents a request to compute a document checksum
type PDFChecksumRequest struct {
	Path string `json:"path" validate:"required"`
}

// PDFRewriteLinksRequest represents a request to route outbound links
// through the open command
type PDFRewriteLinksRequest struct {
	Path   string `json:"path" validate:"required"`
	Output string `json:"output" validate:"required"`
	From   string `json:"from,omitempty"`
}

// PDFAddDestinationLinksRequest represents a request to place cite markers
// on every named destination
type PDFAddDestinationLinksRequest struct {
	Path       string `json:"path" validate:"required"`
	Output     string `json:"output" validate:"required"`
	Identifier string `json:"identifier" validate:"required"`
}

// PDFConvertRequest represents a request to run the full import pipeline on
// one file
type PDFConvertRequest struct {
	Path string `json:"path" validate:"required"`
	// Output defaults to the catalog name inside the output directory.
	Output string `json:"output,omitempty"`
	// Identifier is the document's catalog identifier. It defaults to the
	// first identifier found, then to the input path.
	Identifier string `json:"identifier,omitempty"`
	// Raw saves an unmodified copy under raw/ next to the output.
	Raw bool `json:"raw,omitempty"`
}

// PDFConvertDirectoryRequest represents a request to convert every PDF of a
// directory
type PDFConvertDirectoryRequest struct {
	Directory string `json:"directory"`
	Output    string `json:"output,omitempty"`
	Workers   int    `json:"workers,omitempty" validate:"min=0"`
	Recursive bool   `json:"recursive,omitempty"`
	Raw       bool   `json:"raw,omitempty"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
	Recursive bool   `json:"recursive,omitempty"`
}

// PDFServerInfoRequest represents a request to get server information and capabilities
type PDFServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// PDFInspectResult describes a document without modifying it
type PDFInspectResult struct {
	Path            string                      `json:"path"`
	Size            int64                       `json:"size"`
	Pages           int                         `json:"pages"`
	Checksum        string                      `json:"checksum"`
	Metadata        *document.Metadata          `json:"metadata,omitempty"`
	MetadataError   string                      `json:"metadata_error,omitempty"`
	Destinations    []document.NamedDestination `json:"destinations"`
	AnnotationCount int                         `json:"annotation_count"`
	SuggestedName   string                      `json:"suggested_name"`
}

// PDFDestinationsResult lists the named destinations of a document
type PDFDestinationsResult struct {
	Path         string                      `json:"path"`
	Destinations []document.NamedDestination `json:"destinations"`
}

// PDFChecksumResult carries a document checksum
type PDFChecksumResult struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}

// PDFRewriteLinksResult reports a link rewriting pass
type PDFRewriteLinksResult struct {
	Path      string                `json:"path"`
	Output    string                `json:"output"`
	Visited   int                   `json:"visited"`
	Rewritten int                   `json:"rewritten"`
	Skipped   []*pdferrors.PDFError `json:"skipped,omitempty"`
}

// PDFAddDestinationLinksResult reports the markers added to a document
type PDFAddDestinationLinksResult struct {
	Path  string `json:"path"`
	Added int    `json:"added"`
	// Output is where the marked document was written.
	Output string `json:"output"`
}

// PDFConvertResult reports one run of the import pipeline
type PDFConvertResult struct {
	Path             string                `json:"path"`
	Output           string                `json:"output"`
	RawOutput        string                `json:"raw_output,omitempty"`
	Identifier       string                `json:"identifier"`
	ChecksumBefore   string                `json:"checksum_before"`
	ChecksumAfter    string                `json:"checksum_after"`
	Entry            catalog.Entry         `json:"entry"`
	LinksVisited     int                   `json:"links_visited"`
	LinksRewritten   int                   `json:"links_rewritten"`
	DestinationLinks int                   `json:"destination_links"`
	Skipped          []*pdferrors.PDFError `json:"skipped,omitempty"`
}

// ConvertFailure is a file a batch could not convert
type ConvertFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// PDFConvertDirectoryResult reports a batch conversion
type PDFConvertDirectoryResult struct {
	Directory string             `json:"directory"`
	Converted []PDFConvertResult `json:"converted"`
	Failed    []ConvertFailure   `json:"failed"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	OutputDirectory   string     `json:"output_directory,omitempty"`
	MaxFileSize       int64      `json:"max_file_size"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	Truncated         bool       `json:"truncated,omitempty"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
