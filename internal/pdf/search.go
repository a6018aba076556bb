package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const modTimeLayout = "2006-01-02 15:04:05"

// Search discovers PDF files below a directory
type Search struct {
	validator *Validator
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// searchOptions narrows a directory walk.
type searchOptions struct {
	query     string
	recursive bool
	limit     int // zero means unlimited
}

// SearchDirectory lists the PDF files of a directory whose names match the
// query. Hidden entries and symlinks are skipped.
func (s *Search) SearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	files, _, err := s.find(req.Directory, searchOptions{
		query:     req.Query,
		recursive: req.Recursive,
	})
	if err != nil {
		return nil, err
	}

	return &PDFSearchDirectoryResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   req.Directory,
		SearchQuery: req.Query,
	}, nil
}

// FindPDFsInDirectoryLimited returns at most limit PDF files of directory
// and whether more were present.
func (s *Search) FindPDFsInDirectoryLimited(directory string, limit int) ([]FileInfo, bool, error) {
	return s.find(directory, searchOptions{limit: limit})
}

func (s *Search) find(directory string, opts searchOptions) ([]FileInfo, bool, error) {
	if directory == "" {
		return nil, false, fmt.Errorf("directory cannot be empty")
	}
	info, err := os.Stat(directory)
	if os.IsNotExist(err) {
		return nil, false, fmt.Errorf("directory does not exist: %s", directory)
	}
	if err != nil {
		return nil, false, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, false, fmt.Errorf("path is not a directory: %s", directory)
	}

	query := queryWords(opts.query)
	files := []FileInfo{}
	truncated := false

	err = filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if path == directory {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !opts.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !isPDFName(d.Name()) || !matchesQuery(d.Name(), query) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // vanished while walking
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr // invalid files are not listed
		}

		if opts.limit > 0 && len(files) >= opts.limit {
			truncated = true
			return filepath.SkipAll
		}
		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format(modTimeLayout),
		})
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("error walking directory: %w", err)
	}

	return files, truncated, nil
}

// queryWords splits a search query the same way file names are split.
func queryWords(query string) []string {
	return splitIntoWords(strings.ToLower(strings.TrimSpace(query)))
}

// matchesQuery reports whether every query word occurs in a word of the
// file name. An empty query matches everything.
func matchesQuery(filename string, query []string) bool {
	name := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
	words := splitIntoWords(name)

	for _, q := range query {
		found := false
		for _, w := range words {
			if strings.Contains(w, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
