package pdf

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/a3tai/mcp-pdf-links/internal/logger"
)

// ConvertDirectory converts every PDF of a directory. Files are converted
// concurrently, each with its own document. A file that fails is reported
// in the result and does not stop the others; only cancellation of ctx
// ends the batch early.
func (s *Service) ConvertDirectory(ctx context.Context, req PDFConvertDirectoryRequest) (*PDFConvertDirectoryResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}
	dir, err := s.resolveDirectory(req.Directory)
	if err != nil {
		return nil, err
	}

	outDir := ""
	if req.Output != "" {
		if outDir, err = s.resolveDirectory(req.Output); err != nil {
			return nil, err
		}
	}

	files, _, err := s.search.find(dir, searchOptions{recursive: req.Recursive})
	if err != nil {
		return nil, err
	}

	workers := req.Workers
	if workers <= 0 {
		workers = s.workers
	}
	logger.Info("converting directory", "directory", dir, "files", len(files), "workers", workers)

	converted := make([]*PDFConvertResult, len(files))
	failed := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := s.convert(PDFConvertRequest{Path: file.Path, Raw: req.Raw}, outDir)
			if err != nil {
				logger.Error("conversion failed", "path", file.Path, "error", err)
				failed[i] = err
				return nil
			}
			converted[i] = result
			return nil
		})
	}
	waitErr := g.Wait()

	result := &PDFConvertDirectoryResult{
		Directory: dir,
		Converted: []PDFConvertResult{},
		Failed:    []ConvertFailure{},
	}
	for i, file := range files {
		switch {
		case converted[i] != nil:
			result.Converted = append(result.Converted, *converted[i])
		case failed[i] != nil:
			result.Failed = append(result.Failed, ConvertFailure{Path: file.Path, Error: failed[i].Error()})
		}
	}

	if waitErr != nil {
		return result, fmt.Errorf("directory conversion interrupted: %w", waitErr)
	}
	return result, nil
}
