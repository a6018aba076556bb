package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/a3tai/mcp-pdf-links/internal/catalog"
	"github.com/a3tai/mcp-pdf-links/internal/identify"
	"github.com/a3tai/mcp-pdf-links/internal/logger"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/document"
	"github.com/a3tai/mcp-pdf-links/internal/pdf/security"
)

const (
	defaultWorkers = 4
	outputDirPerm  = 0o750
	rawDirName     = "raw"
)

var validate = validator.New()

// Service handles PDF file operations by orchestrating the document layer,
// the citation scheme and the catalog
type Service struct {
	maxFileSize     int64
	validator       *Validator
	search          *Search
	pathValidator   *security.PathValidator
	outputDirectory string
	identifierPages int
	workers         int
}

// Option configures a Service
type Option func(*Service)

// WithOutputDirectory sets where converted files go by default. Paths below
// it are accepted as outputs.
func WithOutputDirectory(dir string) Option {
	return func(s *Service) { s.outputDirectory = dir }
}

// WithIdentifierPages sets how many leading pages are scanned for
// identifiers. Zero disables scanning.
func WithIdentifierPages(n int) Option {
	return func(s *Service) { s.identifierPages = n }
}

// WithWorkers sets the default concurrency of directory conversions.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewService creates a new PDF service confined to configuredDirectory and
// the output directory, if any
func NewService(maxFileSize int64, configuredDirectory string, opts ...Option) (*Service, error) {
	s := &Service{
		maxFileSize:     maxFileSize,
		validator:       NewValidator(maxFileSize),
		search:          NewSearch(maxFileSize),
		identifierPages: identify.DefaultPages,
		workers:         defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}

	pathValidator, err := security.NewPathValidator(configuredDirectory, s.outputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	s.pathValidator = pathValidator

	return s, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// ConfiguredDirectory returns the directory relative paths are resolved against
func (s *Service) ConfiguredDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// PDFValidateFile reports whether a file is a readable PDF
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(PDFValidateFileRequest{Path: path})
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}
	dir, err := s.resolveDirectory(req.Directory)
	if err != nil {
		return nil, err
	}
	req.Directory = dir
	return s.search.SearchDirectory(req)
}

// Inspect describes a document without modifying it
func (s *Service) Inspect(req PDFInspectRequest) (*PDFInspectResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, info, err := s.checkInput(req.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("inspecting document", "path", path)

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	sum, err := doc.Checksum()
	if err != nil {
		return nil, fmt.Errorf("failed to compute checksum: %w", err)
	}

	result := &PDFInspectResult{
		Path:            path,
		Size:            info.Size(),
		Pages:           doc.PageCount(),
		Checksum:        sum,
		Destinations:    nonNil(doc.Destinations()),
		AnnotationCount: len(doc.Annotations()),
	}

	pages := req.IdentifierPages
	if pages == 0 {
		pages = s.identifierPages
	}
	meta, err := doc.Metadata()
	if err != nil {
		result.MetadataError = err.Error()
	} else {
		meta.Identifiers = catalog.Identifiers(append(meta.Identifiers, s.scanIdentifiers(path, pages)...))
		result.Metadata = meta
	}
	result.SuggestedName = catalog.Name(catalog.FromMetadata(meta, sum))

	return result, nil
}

// Destinations lists the named destinations of a document
func (s *Service) Destinations(req PDFDestinationsRequest) (*PDFDestinationsResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, _, err := s.checkInput(req.Path)
	if err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	return &PDFDestinationsResult{Path: path, Destinations: nonNil(doc.Destinations())}, nil
}

// Checksum computes the content checksum of a document
func (s *Service) Checksum(req PDFChecksumRequest) (*PDFChecksumResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	path, _, err := s.checkInput(req.Path)
	if err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	sum, err := doc.Checksum()
	if err != nil {
		return nil, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return &PDFChecksumResult{Path: path, Checksum: sum}, nil
}

// checkInput resolves path inside the configured roots and checks that it
// is an acceptable PDF file.
func (s *Service) checkInput(path string) (string, os.FileInfo, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", nil, fmt.Errorf("security validation failed: %w", err)
	}
	info, err := s.validator.CheckFile(resolved)
	if err != nil {
		return "", nil, err
	}
	return resolved, info, nil
}

// resolveOutput picks the file a converted document is written to. An
// explicit output wins; otherwise name is placed in dir, the output
// directory, or next to the input, in that order. The parent directory is
// created when missing.
func (s *Service) resolveOutput(output, dir, input, name string) (string, error) {
	if output == "" {
		switch {
		case dir != "":
		case s.outputDirectory != "":
			dir = s.outputDirectory
		default:
			dir = filepath.Dir(input)
		}
		output = filepath.Join(dir, name)
	}

	resolved, err := s.pathValidator.Resolve(output)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	if !isPDFName(resolved) {
		return "", fmt.Errorf("output is not a PDF file name: %s", output)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), outputDirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return resolved, nil
}

func (s *Service) resolveDirectory(dir string) (string, error) {
	resolved, err := s.pathValidator.Resolve(dir)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.pathValidator.ValidateDirectory(resolved); err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// scanIdentifiers reads DOI and arXiv identifiers off the first pages.
// Failures are logged and yield no identifiers.
func (s *Service) scanIdentifiers(path string, pages int) []string {
	if pages <= 0 {
		return nil
	}
	ids, err := identify.ScanFile(path, pages)
	if err != nil {
		logger.Warn("identifier scan failed", "path", path, "error", err)
		return nil
	}
	return ids
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
