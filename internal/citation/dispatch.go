package citation

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Kind classifies a URI handed to the library.
type Kind string

const (
	KindHTTP    Kind = "http"
	KindDOI     Kind = "doi"
	KindArxiv   Kind = "arxiv"
	KindCommand Kind = "command"
	KindFile    Kind = "file"
)

// Target is a classified URI.
type Target struct {
	Kind         Kind     `json:"kind"`
	URL          string   `json:"url,omitempty"`
	DOI          string   `json:"doi,omitempty"`
	ArxivID      string   `json:"arxiv_id,omitempty"`
	ArxivVersion string   `json:"arxiv_version,omitempty"`
	Request      *Request `json:"request,omitempty"`
	Path         string   `json:"path,omitempty"`
}

// Identifier returns the catalog identifier of DOI and arXiv targets,
// such as "doi:10.1000/182" or "arxiv:2101.00001v2".
func (t Target) Identifier() string {
	switch t.Kind {
	case KindDOI:
		return "doi:" + t.DOI
	case KindArxiv:
		return fmt.Sprintf("arxiv:%sv%s", t.ArxivID, t.ArxivVersion)
	case KindHTTP:
		return t.URL
	case KindFile:
		return t.Path
	default:
		return ""
	}
}

// DownloadURL returns where the PDF of a DOI or arXiv target can be fetched.
func (t Target) DownloadURL() string {
	switch t.Kind {
	case KindArxiv:
		return fmt.Sprintf("https://arxiv.org/pdf/%sv%s.pdf", t.ArxivID, t.ArxivVersion)
	case KindDOI:
		return "https://doi.org/" + t.DOI
	case KindHTTP:
		return t.URL
	default:
		return ""
	}
}

// Dispatch classifies uri. http(s) links to arxiv.org and doi.org are
// recognized as arXiv and DOI identifiers; the doi: and arxiv: schemes are
// accepted directly; akl: URIs are decoded as commands. Anything else is
// accepted only when it names an existing file.
func Dispatch(uri string) (Target, error) {
	target, err := dispatchURI(uri)
	if err == nil {
		return target, nil
	}
	if _, statErr := os.Stat(uri); statErr == nil {
		return Target{Kind: KindFile, Path: uri}, nil
	}
	return Target{}, fmt.Errorf("%q is neither a supported uri nor an existing file: %w", uri, err)
}

func dispatchURI(uri string) (Target, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Target{}, fmt.Errorf("parsing uri: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		switch u.Hostname() {
		case "arxiv.org", "www.arxiv.org":
			return parseArxiv(u.Path), nil
		case "doi.org", "dx.doi.org":
			return parseDOI(u.Path), nil
		default:
			return Target{Kind: KindHTTP, URL: uri}, nil
		}
	case "arxiv":
		return parseArxiv(opaquePath(u)), nil
	case "doi":
		return parseDOI(opaquePath(u)), nil
	case Scheme:
		req, err := parseCommand(u.Host, u.RawQuery)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: KindCommand, Request: req}, nil
	case "":
		return Target{}, fmt.Errorf("no scheme")
	default:
		return Target{}, fmt.Errorf("no provider attached to scheme %q", u.Scheme)
	}
}

// opaquePath returns the part after "scheme:" for both doi:x and doi://x.
func opaquePath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	return u.Host + u.Path
}

func parseDOI(path string) Target {
	return Target{Kind: KindDOI, DOI: strings.TrimPrefix(path, "/")}
}

// parseArxiv splits "/abs/<id>v<version>", "/pdf/<id>" or a bare id.
// A missing version defaults to 1.
func parseArxiv(path string) Target {
	for _, prefix := range []string{"/abs/", "/pdf/"} {
		if strings.HasPrefix(path, prefix) {
			path = path[len(prefix):]
			break
		}
	}
	path = strings.TrimSuffix(path, ".pdf")

	id, version := path, "1"
	if i := strings.LastIndex(path, "v"); i >= 0 && i+1 < len(path) && isDigits(path[i+1:]) {
		id, version = path[:i], path[i+1:]
	}
	return Target{Kind: KindArxiv, ArxivID: id, ArxivVersion: version}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
