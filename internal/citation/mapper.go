package citation

import (
	"github.com/a3tai/mcp-pdf-links/internal/pdf/document"
)

// OpenLinkMapper returns a link rewriting function that routes every
// outbound link through the open command. The page and dest parameters of
// the original link are carried over. from, when not empty, records the
// document the link was found in. A link that cannot be encoded is kept.
func OpenLinkMapper(from string) func(string) string {
	return func(uri string) string {
		args := Args{URI: uri}
		if from != "" {
			args.From = &from
		}
		if page, dest, err := PageArgsFromLink(uri); err == nil {
			args.Page, args.Dest = page, dest
		}

		rewritten, err := Query(Open, args)
		if err != nil {
			return uri
		}
		return rewritten
	}
}

// CiteDestinationMapper returns the URI of the marker placed at a named
// destination: a cite command for document id at that destination.
func CiteDestinationMapper(id string) func(document.NamedDestination) string {
	return func(dest document.NamedDestination) string {
		name := dest.Name
		page := dest.PageNumber
		uri, err := Query(Cite, Args{URI: id, Dest: &name, Page: &page})
		if err != nil {
			return ""
		}
		return uri
	}
}
