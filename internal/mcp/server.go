package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-pdf-links/internal/citation"
	"github.com/a3tai/mcp-pdf-links/internal/config"
	"github.com/a3tai/mcp-pdf-links/internal/descriptions"
	"github.com/a3tai/mcp-pdf-links/internal/logger"
	"github.com/a3tai/mcp-pdf-links/internal/pdf"
	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
)

// shutdownTimeout bounds the graceful shutdown of the SSE listener.
const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer

	stdin  io.Reader
	stdout io.Writer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
	}
	s.registerTools()

	return s, nil
}

func pathParam(desc string) mcp.ToolOption {
	return mcp.WithString("path", mcp.Required(), mcp.Description(desc))
}

func (s *Server) registerTools() {
	tool := func(name string, opts ...mcp.ToolOption) mcp.Tool {
		return mcp.NewTool(name, append([]mcp.ToolOption{
			mcp.WithDescription(descriptions.GetToolDescription(name)),
		}, opts...)...)
	}

	s.mcpServer.AddTool(tool("pdf_server_info"), s.handlePDFServerInfo)

	s.mcpServer.AddTool(tool("pdf_search_directory",
		mcp.WithString("directory", mcp.Description("Directory path to search (uses default if empty)")),
		mcp.WithString("query", mcp.Description("Words that must all appear in the file name")),
		mcp.WithBoolean("recursive", mcp.Description("Descend into subdirectories")),
	), s.handlePDFSearchDirectory)

	s.mcpServer.AddTool(tool("pdf_validate_file",
		pathParam("Full path to the PDF file"),
	), s.handlePDFValidateFile)

	s.mcpServer.AddTool(tool("pdf_inspect",
		pathParam("Full path to the PDF file"),
		mcp.WithNumber("identifier_pages", mcp.Description("Leading pages scanned for DOI and arXiv identifiers")),
	), s.handlePDFInspect)

	s.mcpServer.AddTool(tool("pdf_destinations",
		pathParam("Full path to the PDF file"),
	), s.handlePDFDestinations)

	s.mcpServer.AddTool(tool("pdf_checksum",
		pathParam("Full path to the PDF file"),
	), s.handlePDFChecksum)

	s.mcpServer.AddTool(tool("pdf_rewrite_links",
		pathParam("Full path to the PDF file"),
		mcp.WithString("output", mcp.Required(), mcp.Description("Where the rewritten document is written")),
		mcp.WithString("from", mcp.Description("Identifier of the document holding the links")),
	), s.handlePDFRewriteLinks)

	s.mcpServer.AddTool(tool("pdf_add_destination_links",
		pathParam("Full path to the PDF file"),
		mcp.WithString("output", mcp.Required(), mcp.Description("Where the marked document is written")),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Catalog identifier cited by the markers")),
	), s.handlePDFAddDestinationLinks)

	s.mcpServer.AddTool(tool("pdf_convert",
		pathParam("Full path to the PDF file"),
		mcp.WithString("output", mcp.Description("Output path (defaults to the catalog name in the output directory)")),
		mcp.WithString("identifier", mcp.Description("Catalog identifier (defaults to the first one found)")),
		mcp.WithBoolean("raw", mcp.Description("Keep an unmodified copy under raw/")),
	), s.handlePDFConvert)

	s.mcpServer.AddTool(tool("pdf_convert_directory",
		mcp.WithString("directory", mcp.Description("Directory to convert (uses default if empty)")),
		mcp.WithString("output", mcp.Description("Directory receiving the converted files")),
		mcp.WithNumber("workers", mcp.Description("Concurrent conversions")),
		mcp.WithBoolean("recursive", mcp.Description("Descend into subdirectories")),
		mcp.WithBoolean("raw", mcp.Description("Keep unmodified copies under raw/")),
	), s.handlePDFConvertDirectory)

	commands := make([]string, 0, len(citation.Commands))
	for _, c := range citation.Commands {
		if c != citation.Import {
			commands = append(commands, string(c))
		}
	}
	s.mcpServer.AddTool(tool("pdf_citation",
		mcp.WithString("uri", mcp.Required(), mcp.Description("Document URI or identifier")),
		mcp.WithString("command", mcp.Enum(commands...), mcp.Description("Command to encode (default cite-document)")),
		mcp.WithNumber("page", mcp.Description("One-based page number")),
		mcp.WithString("dest", mcp.Description("Named destination")),
		mcp.WithString("from", mcp.Description("Identifier of the citing document")),
		mcp.WithString("output", mcp.Description("Output path for convert-document")),
		mcp.WithString("format", mcp.Enum("uri", "citation"), mcp.Description("uri (default) or citation text")),
	), s.handlePDFCitation)

	s.mcpServer.AddTool(tool("pdf_resolve_uri",
		mcp.WithString("uri", mcp.Required(), mcp.Description("URI, identifier or file path")),
	), s.handlePDFResolveURI)
}

func (s *Server) handlePDFServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(pdf.PDFServerInfoRequest{}, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatServerInfo(result)), nil
}

func (s *Server) handlePDFSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := pdf.PDFSearchDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
		Recursive: request.GetBool("recursive", false),
	}
	result, err := s.pdfService.PDFSearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSearchDirectory(result)), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable", result.Path)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)), nil
}

func (s *Server) handlePDFInspect(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.Inspect(pdf.PDFInspectRequest{
		Path:            path,
		IdentifierPages: request.GetInt("identifier_pages", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatInspect(result)), nil
}

func (s *Server) handlePDFDestinations(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.Destinations(pdf.PDFDestinationsRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) handlePDFChecksum(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.Checksum(pdf.PDFChecksumRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Checksum of %s: %s", result.Path, result.Checksum)), nil
}

func (s *Server) handlePDFRewriteLinks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.RewriteLinks(pdf.PDFRewriteLinksRequest{
		Path:   path,
		Output: output,
		From:   request.GetString("from", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Rewrote %d of %d link(s) in %s\n", result.Rewritten, result.Visited, result.Path)
	text += fmt.Sprintf("Output: %s\n", result.Output)
	text += formatSkipped(result.Skipped)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePDFAddDestinationLinks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	identifier, err := request.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.AddDestinationLinks(pdf.PDFAddDestinationLinksRequest{
		Path:       path,
		Output:     output,
		Identifier: identifier,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Added %d destination marker(s) to %s\n", result.Added, result.Path)
	text += fmt.Sprintf("Output: %s\n", result.Output)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePDFConvert(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.Convert(pdf.PDFConvertRequest{
		Path:       path,
		Output:     request.GetString("output", ""),
		Identifier: request.GetString("identifier", ""),
		Raw:        request.GetBool("raw", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatConvert(result)), nil
}

func (s *Server) handlePDFConvertDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ConvertDirectory(ctx, pdf.PDFConvertDirectoryRequest{
		Directory: request.GetString("directory", ""),
		Output:    request.GetString("output", ""),
		Workers:   request.GetInt("workers", 0),
		Recursive: request.GetBool("recursive", false),
		Raw:       request.GetBool("raw", false),
	})
	if err != nil {
		if result == nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(err.Error() + "\n\n" + formatConvertDirectory(result)), nil
	}
	return mcp.NewToolResultText(formatConvertDirectory(result)), nil
}

func (s *Server) handlePDFCitation(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := request.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := citation.Args{URI: uri, Output: request.GetString("output", "")}
	if page := request.GetInt("page", 0); page != 0 {
		args.Page = &page
	}
	args.Dest = optionalString(request, "dest")
	args.From = optionalString(request, "from")

	switch format := request.GetString("format", "uri"); format {
	case "citation":
		return mcp.NewToolResultText(citation.Citation(args)), nil
	case "uri":
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (expected uri or citation)", format)), nil
	}

	cmd := citation.Command(request.GetString("command", string(citation.Cite)))
	query, err := citation.Query(cmd, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(query), nil
}

func (s *Server) handlePDFResolveURI(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, err := request.RequireString("uri")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target, err := citation.Dispatch(uri)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTarget(target)), nil
}

// optionalString returns nil when key is absent so that an explicit empty
// string still reaches the encoder.
func optionalString(request mcp.CallToolRequest, key string) *string {
	v, ok := request.GetArguments()[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func formatSearchDirectory(result *pdf.PDFSearchDirectoryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		fmt.Fprintf(&b, "Search query: %s\n", result.SearchQuery)
	}
	b.WriteString("\nFiles:\n")
	for i, file := range result.Files {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&b, "   Modified: %s\n", file.ModifiedTime)
	}
	return b.String()
}

func formatInspect(result *pdf.PDFInspectResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", result.Path)
	fmt.Fprintf(&b, "Size: %d bytes\n", result.Size)
	fmt.Fprintf(&b, "Pages: %d\n", result.Pages)
	fmt.Fprintf(&b, "Checksum: %s\n", result.Checksum)

	if meta := result.Metadata; meta != nil {
		if meta.Title != nil {
			fmt.Fprintf(&b, "Title: %s\n", *meta.Title)
		}
		if len(meta.Authors) > 0 {
			fmt.Fprintf(&b, "Authors: %s\n", strings.Join(meta.Authors, "; "))
		}
		if meta.Year != nil {
			fmt.Fprintf(&b, "Year: %d\n", *meta.Year)
		}
		if len(meta.Context) > 0 {
			fmt.Fprintf(&b, "Context: %s\n", strings.Join(meta.Context, "; "))
		}
		if len(meta.Identifiers) > 0 {
			fmt.Fprintf(&b, "Identifiers: %s\n", strings.Join(meta.Identifiers, ", "))
		}
	}
	if result.MetadataError != "" {
		fmt.Fprintf(&b, "Metadata unavailable: %s\n", result.MetadataError)
	}

	fmt.Fprintf(&b, "Link annotations: %d\n", result.AnnotationCount)
	fmt.Fprintf(&b, "Suggested name: %s\n", result.SuggestedName)

	fmt.Fprintf(&b, "\nNamed destinations (%d):\n", len(result.Destinations))
	for _, d := range result.Destinations {
		fmt.Fprintf(&b, "  %s -> page %d (%g, %g)\n", d.Name, d.PageNumber, d.Left, d.Top)
	}
	return b.String()
}

func formatConvert(result *pdf.PDFConvertResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Converted %s\n", result.Path)
	fmt.Fprintf(&b, "Output: %s\n", result.Output)
	if result.RawOutput != "" {
		fmt.Fprintf(&b, "Raw copy: %s\n", result.RawOutput)
	}
	fmt.Fprintf(&b, "Identifier: %s\n", result.Identifier)
	fmt.Fprintf(&b, "Checksum: %s -> %s\n", result.ChecksumBefore, result.ChecksumAfter)
	fmt.Fprintf(&b, "Links: %d rewritten of %d\n", result.LinksRewritten, result.LinksVisited)
	fmt.Fprintf(&b, "Destination markers: %d\n", result.DestinationLinks)
	b.WriteString(formatSkipped(result.Skipped))
	return b.String()
}

func formatConvertDirectory(result *pdf.PDFConvertDirectoryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Directory: %s\n", result.Directory)
	fmt.Fprintf(&b, "Converted: %d, failed: %d\n", len(result.Converted), len(result.Failed))
	for _, c := range result.Converted {
		fmt.Fprintf(&b, "  ok   %s -> %s\n", c.Path, c.Output)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(&b, "  fail %s: %s\n", f.Path, f.Error)
	}
	return b.String()
}

func formatSkipped(skipped []*pdferrors.PDFError) string {
	if len(skipped) == 0 {
		return ""
	}
	var c pdferrors.Collection
	for _, err := range skipped {
		c.Add(err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Skipped annotations (%d): %s\n", c.Len(), c.Summary())
	for _, err := range c.Errors {
		fmt.Fprintf(&b, "  %s\n", err.Error())
	}
	return b.String()
}

func formatTarget(t citation.Target) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Kind: %s\n", t.Kind)
	if id := t.Identifier(); id != "" {
		fmt.Fprintf(&b, "Identifier: %s\n", id)
	}
	if u := t.DownloadURL(); u != "" {
		fmt.Fprintf(&b, "Download: %s\n", u)
	}
	if r := t.Request; r != nil {
		fmt.Fprintf(&b, "Command: %s\n", r.Command)
		if r.Import != nil {
			fmt.Fprintf(&b, "Import: %s\n", r.Import.URI)
		} else {
			fmt.Fprintf(&b, "URI: %s\n", r.Args.URI)
			if r.Args.Page != nil {
				fmt.Fprintf(&b, "Page: %d\n", *r.Args.Page)
			}
			if r.Args.Dest != nil {
				fmt.Fprintf(&b, "Dest: %s\n", *r.Args.Dest)
			}
			if r.Args.From != nil {
				fmt.Fprintf(&b, "From: %s\n", *r.Args.From)
			}
		}
	}
	return b.String()
}

func formatServerInfo(result *pdf.PDFServerInfoResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n", result.ServerName, result.Version)
	fmt.Fprintf(&b, "Default directory: %s\n", result.DefaultDirectory)
	if result.OutputDirectory != "" {
		fmt.Fprintf(&b, "Output directory: %s\n", result.OutputDirectory)
	}
	fmt.Fprintf(&b, "Max file size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	if len(result.DirectoryContents) > 0 {
		fmt.Fprintf(&b, "Directory contents (%d PDF files", len(result.DirectoryContents))
		if result.Truncated {
			b.WriteString(", truncated")
		}
		b.WriteString("):\n")
		for i, file := range result.DirectoryContents {
			if i >= 10 {
				fmt.Fprintf(&b, "   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			fmt.Fprintf(&b, "   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Directory contents: no PDF files found in default directory\n\n")
	}

	b.WriteString("Available tools:\n")
	for _, tool := range result.AvailableTools {
		fmt.Fprintf(&b, "\n- %s\n", tool.Name)
		fmt.Fprintf(&b, "  Usage: %s\n", tool.Usage)
		fmt.Fprintf(&b, "  Parameters: %s\n", tool.Parameters)
	}

	b.WriteString("\n" + result.UsageGuidance)
	return b.String()
}

// Run starts the MCP server in the configured mode and blocks until ctx is
// cancelled or the transport ends.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

func (s *Server) runStdioMode(ctx context.Context) error {
	logger.Debug("starting stdio transport", "directory", s.config.PDFDirectory)

	stdio := server.NewStdioServer(s.mcpServer)
	err := stdio.Listen(ctx, s.stdin, s.stdout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()
	logger.Info("listening", "address", addr, "directory", s.config.PDFDirectory)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("server stopped", "address", addr)
	return nil
}
