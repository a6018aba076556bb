package pdf

import (
	"fmt"
	"path/filepath"

	"github.com/a3tai/mcp-pdf-links/internal/catalog"
	"github.com/a3tai/mcp-pdf-links/internal/citation"
	"github.com/a3tai/mcp-pdf-links/internal/logger"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/document"
)

// RewriteLinks routes every outbound link of a document through the open
// command and writes the result to the requested output
func (s *Service) RewriteLinks(req PDFRewriteLinksRequest) (*PDFRewriteLinksResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, _, err := s.checkInput(req.Path)
	if err != nil {
		return nil, err
	}
	output, err := s.resolveOutput(req.Output, "", path, "")
	if err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	report, err := doc.RewriteLinks(citation.OpenLinkMapper(req.From))
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite links: %w", err)
	}
	logSkipped(path, report)

	if err := doc.Save(output); err != nil {
		return nil, err
	}
	logger.Info("rewrote links", "path", path, "output", output, "rewritten", report.Rewritten)

	return &PDFRewriteLinksResult{
		Path:      path,
		Output:    output,
		Visited:   report.Visited,
		Rewritten: report.Rewritten,
		Skipped:   report.Skipped,
	}, nil
}

// AddDestinationLinks places a cite marker on every named destination of a
// document and writes the result to the requested output
func (s *Service) AddDestinationLinks(req PDFAddDestinationLinksRequest) (*PDFAddDestinationLinksResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, _, err := s.checkInput(req.Path)
	if err != nil {
		return nil, err
	}
	output, err := s.resolveOutput(req.Output, "", path, "")
	if err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	if err := doc.AddDestinationLinks(citation.CiteDestinationMapper(req.Identifier)); err != nil {
		return nil, fmt.Errorf("failed to add destination links: %w", err)
	}
	if err := doc.Save(output); err != nil {
		return nil, err
	}

	added := len(doc.Destinations())
	logger.Info("added destination links", "path", path, "output", output, "added", added)
	return &PDFAddDestinationLinksResult{Path: path, Output: output, Added: added}, nil
}

// Convert imports one document: it optionally keeps an unmodified copy,
// rewrites outbound links, marks every named destination with a cite link
// and saves the result under its catalog name unless an output is given.
func (s *Service) Convert(req PDFConvertRequest) (*PDFConvertResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return s.convert(req, "")
}

// convert runs the pipeline. outDir, when set, replaces the default output
// directory for catalog-named outputs.
func (s *Service) convert(req PDFConvertRequest, outDir string) (*PDFConvertResult, error) {
	path, _, err := s.checkInput(req.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("converting document", "path", path)

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	before, err := doc.Checksum()
	if err != nil {
		return nil, fmt.Errorf("failed to compute checksum: %w", err)
	}

	meta, err := doc.Metadata()
	if err != nil {
		logger.Warn("metadata unavailable", "path", path, "error", err)
		meta = nil
	}
	entry := catalog.FromMetadata(meta, before, append(s.scanIdentifiers(path, s.identifierPages), req.Identifier)...)

	id := req.Identifier
	if id == "" && len(entry.Identifiers) > 0 {
		id = entry.Identifiers[0]
	}
	if id == "" {
		id = path
		entry.Identifiers = catalog.Identifiers(append(entry.Identifiers, path))
	}
	entry.FileName = catalog.Name(entry)

	output, err := s.resolveOutput(req.Output, outDir, path, entry.FileName)
	if err != nil {
		return nil, err
	}
	entry.FileName = filepath.Base(output)

	result := &PDFConvertResult{
		Path:           path,
		Output:         output,
		Identifier:     id,
		ChecksumBefore: before,
	}

	if req.Raw {
		raw, err := s.resolveOutput(filepath.Join(filepath.Dir(output), rawDirName, entry.FileName), "", path, "")
		if err != nil {
			return nil, err
		}
		if err := doc.Save(raw); err != nil {
			return nil, fmt.Errorf("failed to save raw copy: %w", err)
		}
		result.RawOutput = raw
	}

	report, err := doc.RewriteLinks(citation.OpenLinkMapper(id))
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite links: %w", err)
	}
	logSkipped(path, report)

	if err := doc.AddDestinationLinks(citation.CiteDestinationMapper(id)); err != nil {
		return nil, fmt.Errorf("failed to add destination links: %w", err)
	}
	if err := doc.Save(output); err != nil {
		return nil, err
	}

	after, err := doc.Checksum()
	if err != nil {
		return nil, fmt.Errorf("failed to compute checksum: %w", err)
	}

	result.ChecksumAfter = after
	result.Entry = entry
	result.LinksVisited = report.Visited
	result.LinksRewritten = report.Rewritten
	result.DestinationLinks = len(doc.Destinations())
	result.Skipped = report.Skipped

	logger.Info("converted document", "path", path, "output", output,
		"links", report.Rewritten, "destinations", result.DestinationLinks)
	return result, nil
}

func logSkipped(path string, report *document.RewriteReport) {
	for _, skipped := range report.Skipped {
		logger.Error("skipped annotation", "path", path, "error", skipped)
	}
}
