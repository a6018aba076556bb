// Package catalog describes library entries and derives their file names.
package catalog

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/a3tai/mcp-pdf-links/internal/pdf/document"
)

// Entry is one document of the library.
type Entry struct {
	// Checksum of the document as imported, before conversion.
	Checksum    string   `json:"checksum"`
	FileName    string   `json:"filename"`
	Identifiers []string `json:"identifiers"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Year        int      `json:"year,omitempty"`
	Context     []string `json:"context,omitempty"`
	// Destinations maps a destination name to the places citing it.
	Destinations map[string][]string `json:"destinations,omitempty"`
}

// stopWords never appear in generated file names.
var stopWords = map[string]bool{
	"the": true, "all": true, "any": true, "one": true, "on": true,
	"of": true, "in": true, "where": true, "when": true, "why": true,
	"what": true, "this": true, "some": true, "other": true, "every": true,
}

// FromMetadata builds an entry from document metadata. Identifiers from
// the metadata and from ids are merged, deduplicated and sorted.
func FromMetadata(meta *document.Metadata, checksum string, ids ...string) Entry {
	e := Entry{
		Checksum: checksum,
		Authors:  []string{},
	}
	if meta == nil {
		e.Identifiers = Identifiers(ids)
		return e
	}

	if meta.Title != nil {
		e.Title = *meta.Title
	}
	if meta.Year != nil {
		e.Year = *meta.Year
	}
	e.Authors = append(e.Authors, meta.Authors...)
	e.Context = append(e.Context, meta.Context...)
	e.Identifiers = Identifiers(append(append([]string{}, meta.Identifiers...), ids...))
	return e
}

// Identifiers returns ids without blanks or duplicates, sorted.
func Identifiers(ids []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Name returns the library file name of e:
//
//	<authors> <year> <title> <checksum>.pdf
//
// Words are lowercased, stripped of accents and punctuation, and joined
// with dashes. Common stop words are dropped from the title. Empty parts
// are omitted.
func Name(e Entry) string {
	var authors []string
	for _, a := range e.Authors {
		if w := words(a, false); len(w) > 0 {
			authors = append(authors, strings.Join(w, "-"))
		}
	}

	var parts []string
	if len(authors) > 0 {
		parts = append(parts, strings.Join(authors, "-"))
	}
	if e.Year > 0 {
		parts = append(parts, strconv.Itoa(e.Year))
	}
	if title := words(e.Title, true); len(title) > 0 {
		parts = append(parts, strings.Join(title, "-"))
	}
	if e.Checksum != "" {
		parts = append(parts, e.Checksum)
	}

	return strings.Join(parts, " ") + ".pdf"
}

// words folds s to lowercase ASCII-friendly words.
func words(s string, dropStopWords bool) []string {
	folded := cases.Lower(language.Und).String(fold(s))

	var out []string
	for _, w := range strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		w = strings.Trim(w, "-")
		if w == "" || (dropStopWords && stopWords[w]) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// fold removes combining marks, so "Gödel" becomes "Godel".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
