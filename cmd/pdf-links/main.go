// Command pdf-links converts PDF files for the library from the command line.
//
// Usage:
//
//	pdf-links inspect [--format text|json] FILE
//	pdf-links convert [--output PATH] [--identifier ID] [--raw] FILE
//	pdf-links convert-dir [--output DIR] [--workers N] [--recursive] [--raw] DIR
//	pdf-links links --output PATH [--from ID] FILE
//	pdf-links cite [--command NAME] [--page N] [--dest NAME] [--from ID] [--citation] URI
//	pdf-links resolve URI
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-pdf-links/internal/citation"
	"github.com/a3tai/mcp-pdf-links/internal/config"
	"github.com/a3tai/mcp-pdf-links/internal/logger"
	"github.com/a3tai/mcp-pdf-links/internal/pdf"
)

var errUsage = errors.New("usage")

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string, stdout io.Writer) error
}

var commands = []command{
	{"inspect", "inspect [--format text|json] FILE", runInspect},
	{"convert", "convert [--output PATH] [--identifier ID] [--raw] FILE", runConvert},
	{"convert-dir", "convert-dir [--output DIR] [--workers N] [--recursive] [--raw] DIR", runConvertDir},
	{"links", "links --output PATH [--from ID] FILE", runLinks},
	{"cite", "cite [--command NAME] [--page N] [--dest NAME] [--from ID] [--citation] URI", runCite},
	{"resolve", "resolve URI", runResolve},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	level := logger.WarnLevel
	if os.Getenv("PDF_LINKS_DEBUG") != "" {
		level = logger.DebugLevel
	}
	logger.Configure(stderr, level)

	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		err := c.run(ctx, args[1:], stdout)
		switch {
		case err == nil:
			return 0
		case errors.Is(err, pflag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			fmt.Fprintf(stderr, "usage: pdf-links %s\n", c.usage)
			return 2
		default:
			fmt.Fprintf(stderr, "pdf-links %s: %v\n", c.name, err)
			return 1
		}
	}
	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	printUsage(stderr)
	return 2
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	for _, c := range commands {
		fmt.Fprintf(w, "  pdf-links %s\n", c.usage)
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args and returns the single positional argument.
func parse(fs *pflag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return "", errUsage
	}
	return fs.Arg(0), nil
}

// absPaths makes every non-empty path absolute in place. The service
// resolves relative paths against its root, not the working directory.
func absPaths(paths ...*string) error {
	for _, p := range paths {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}
	return nil
}

// serviceFor returns a service confined to root and, when set, outDir.
// Both must be absolute.
func serviceFor(root, outDir string) (*pdf.Service, error) {
	var opts []pdf.Option
	if outDir != "" {
		opts = append(opts, pdf.WithOutputDirectory(outDir))
	}
	return pdf.NewService(config.DefaultMaxFileSize, root, opts...)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runInspect(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("inspect")
	format := fs.String("format", "text", "Output format: text, json")
	pages := fs.Int("identifier-pages", config.DefaultIdentifierPages, "Leading pages scanned for identifiers")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := absPaths(&path); err != nil {
		return err
	}

	svc, err := serviceFor(filepath.Dir(path), "")
	if err != nil {
		return err
	}
	result, err := svc.Inspect(pdf.PDFInspectRequest{Path: path, IdentifierPages: *pages})
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		return printJSON(stdout, result)
	case "text":
		fmt.Fprintf(stdout, "%s\n", result.Path)
		fmt.Fprintf(stdout, "  pages:        %d\n", result.Pages)
		fmt.Fprintf(stdout, "  checksum:     %s\n", result.Checksum)
		fmt.Fprintf(stdout, "  links:        %d\n", result.AnnotationCount)
		fmt.Fprintf(stdout, "  destinations: %d\n", len(result.Destinations))
		if result.Metadata != nil && len(result.Metadata.Identifiers) > 0 {
			fmt.Fprintf(stdout, "  identifiers:  %v\n", result.Metadata.Identifiers)
		}
		fmt.Fprintf(stdout, "  name:         %s\n", result.SuggestedName)
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
}

func runConvert(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("convert")
	output := fs.String("output", "", "Output file (defaults to the catalog name next to the input)")
	identifier := fs.String("identifier", "", "Catalog identifier of the document")
	raw := fs.Bool("raw", false, "Keep an unmodified copy under raw/")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := absPaths(&path, output); err != nil {
		return err
	}

	outDir := ""
	if *output != "" {
		outDir = filepath.Dir(*output)
	}
	svc, err := serviceFor(filepath.Dir(path), outDir)
	if err != nil {
		return err
	}
	result, err := svc.Convert(pdf.PDFConvertRequest{Path: path, Output: *output, Identifier: *identifier, Raw: *raw})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, result.Output)
	return nil
}

func runConvertDir(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("convert-dir")
	output := fs.String("output", "", "Directory receiving converted files")
	workers := fs.Int("workers", config.DefaultWorkers, "Concurrent conversions")
	recursive := fs.Bool("recursive", false, "Descend into subdirectories")
	raw := fs.Bool("raw", false, "Keep unmodified copies under raw/")
	dir, err := parse(fs, args)
	if err != nil {
		return err
	}
	if err := absPaths(&dir, output); err != nil {
		return err
	}

	svc, err := serviceFor(dir, *output)
	if err != nil {
		return err
	}
	result, err := svc.ConvertDirectory(ctx, pdf.PDFConvertDirectoryRequest{
		Directory: dir,
		Output:    *output,
		Workers:   *workers,
		Recursive: *recursive,
		Raw:       *raw,
	})
	if result != nil {
		for _, c := range result.Converted {
			fmt.Fprintf(stdout, "ok   %s\n", c.Output)
		}
		for _, f := range result.Failed {
			fmt.Fprintf(stdout, "fail %s: %s\n", f.Path, f.Error)
		}
	}
	if err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d file(s) failed", len(result.Failed))
	}
	return nil
}

func runLinks(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("links")
	output := fs.String("output", "", "Output file")
	from := fs.String("from", "", "Identifier of the document holding the links")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	if *output == "" {
		return fmt.Errorf("%w: --output is required", errUsage)
	}
	if err := absPaths(&path, output); err != nil {
		return err
	}

	svc, err := serviceFor(filepath.Dir(path), filepath.Dir(*output))
	if err != nil {
		return err
	}
	result, err := svc.RewriteLinks(pdf.PDFRewriteLinksRequest{Path: path, Output: *output, From: *from})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d/%d links rewritten, %d skipped\n", result.Rewritten, result.Visited, len(result.Skipped))
	return nil
}

func runCite(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("cite")
	cmd := fs.String("command", string(citation.Cite), "Command to encode")
	page := fs.Int("page", 0, "One-based page number")
	dest := fs.String("dest", "", "Named destination")
	from := fs.String("from", "", "Identifier of the citing document")
	output := fs.String("output", "", "Output path for convert-document")
	text := fs.Bool("citation", false, "Print citation text instead of a URI")
	uri, err := parse(fs, args)
	if err != nil {
		return err
	}

	citeArgs := citation.Args{URI: uri, Output: *output}
	if fs.Changed("page") {
		citeArgs.Page = page
	}
	if fs.Changed("dest") {
		citeArgs.Dest = dest
	}
	if fs.Changed("from") {
		citeArgs.From = from
	}

	if *text {
		fmt.Fprintln(stdout, citation.Citation(citeArgs))
		return nil
	}
	query, err := citation.Query(citation.Command(*cmd), citeArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, query)
	return nil
}

func runResolve(_ context.Context, args []string, stdout io.Writer) error {
	uri, err := parse(newFlagSet("resolve"), args)
	if err != nil {
		return err
	}
	target, err := citation.Dispatch(uri)
	if err != nil {
		return err
	}
	return printJSON(stdout, struct {
		citation.Target
		Identifier  string `json:"identifier,omitempty"`
		DownloadURL string `json:"download_url,omitempty"`
	}{target, target.Identifier(), target.DownloadURL()})
}
