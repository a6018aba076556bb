package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Discovery Tools
	PDFValidateFileDescription = `Verify that a file is a readable PDF before processing it.

**When to use:** Before converting or rewriting a file that came from an unknown source.

**Why it's useful:** Catches missing, empty, oversized and corrupted files early, so a batch does not stop halfway.

**Examples:**
• Download check: "Validate downloaded/1706.03762.pdf before importing it"
• Quality control: "Check that every file in /papers/incoming is readable"

**Best practices:** Validation problems are reported in the result, not as tool errors.`

	PDFSearchDirectoryDescription = `Find PDF files in a directory, optionally filtered by words of the file name.

**When to use:** Locate papers in the library before inspecting or converting them.

**Why it's useful:** Converted files carry catalog names ("authors year title checksum.pdf"), so a search for an author or a year finds them directly.

**Examples:**
• Find by author: "Search the library for lovelace"
• Find by year: "List the 1931 papers"

**Best practices:** Leave the directory empty to search the configured directory; set recursive to include subdirectories.`

	// Document Tools
	PDFInspectDescription = `Describe a PDF document without modifying it.

**When to use:** Before converting a paper, to see what the pipeline will work with.

**Why it's useful:** Reports the page count, content checksum, title, authors and year from the information dictionary, DOI and arXiv identifiers printed on the first pages, every named destination with its page and anchor, the number of annotations, and the catalog file name a conversion would use.

**Examples:**
• Preview an import: "Inspect attention.pdf and tell me what it would be named"
• Check identifiers: "Which DOI does paper.pdf print on its first page?"

**Common workflows:**
1. Import: pdf_inspect → confirm metadata → pdf_convert
2. Audit: pdf_inspect → compare checksum with the catalog entry

**Best practices:** A document without an information dictionary still inspects; the metadata error is reported alongside the rest.`

	PDFDestinationsDescription = `List the named destinations of a PDF document.

**When to use:** Find the sections, theorems or figures a paper exposes as link targets.

**Why it's useful:** Each destination is resolved to a one-based page number and the anchor position used for cite markers.

**Examples:**
• "List the destinations of thesis.pdf"
• "Which page does theorem.3 point to in paper.pdf?"

**Best practices:** Destinations come from the /Names tree when present, otherwise from the legacy /Dests dictionary in sorted order.`

	PDFChecksumDescription = `Compute the content checksum of a PDF document.

**When to use:** Decide whether two files hold the same document, or whether a file changed.

**Why it's useful:** The checksum is a SHA-256 over the object graph, independent of byte layout, so a rewrite that is reverted restores it.

**Examples:**
• "Is paper-v2.pdf the same document as paper.pdf?"

**Best practices:** Saving a document updates its modification date, so a saved copy has a new checksum.`

	// Mutation Tools
	PDFRewriteLinksDescription = `Route every outbound link of a PDF through the akl open command.

**When to use:** Make links in a paper open through the library, so cited papers that are already imported open locally.

**Why it's useful:** Each link URI becomes akl://open-document/?uri=...&page=...&dest=...&from=..., carrying over page and dest parameters of the original link and recording the citing document.

**Examples:**
• "Rewrite the links of paper.pdf into out/paper.pdf, from doi:10.1145/3290368"

**Best practices:** Annotations that cannot be rewritten are skipped and listed in the result; the rest of the document is still written.`

	PDFAddDestinationLinksDescription = `Place a cite marker on every named destination of a PDF.

**When to use:** Make each section or theorem of a paper citable by clicking on it.

**Why it's useful:** Every destination gets a small coloured square and a link to akl://cite-document/ naming the document, page and destination.

**Examples:**
• "Add cite markers to thesis.pdf for arxiv:2101.00001v1, writing out/thesis.pdf"

**Best practices:** The identifier should be the document's catalog identifier so citations resolve back to it.`

	PDFConvertDescription = `Import one PDF into the library: rewrite its links, mark its destinations and save it under its catalog name.

**When to use:** Add a downloaded paper to the library in one step.

**Why it's useful:** Combines identifier scanning, link rewriting, destination markers, optional raw copy and catalog naming, and reports the checksum before and after.

**Examples:**
• "Convert downloads/1706.03762.pdf into the library"
• "Convert paper.pdf with identifier doi:10.1000/182 and keep a raw copy"

**Common workflows:**
1. pdf_inspect → pdf_convert → pdf_search_directory to find the result
2. pdf_resolve_uri on a citation → fetch → pdf_convert

**Best practices:** Without an explicit identifier the first DOI or arXiv identifier found is used, then the file path.`

	PDFConvertDirectoryDescription = `Convert every PDF of a directory concurrently.

**When to use:** Import a folder of downloaded papers at once.

**Why it's useful:** Runs the pdf_convert pipeline on each file with a bounded number of workers; a broken file is reported and the others still convert.

**Examples:**
• "Convert everything in /papers/incoming into /papers/library with 8 workers"

**Best practices:** Check the failed list of the result; rerun single files with pdf_convert to see full errors.`

	// Citation Tools
	PDFCitationDescription = `Build akl command URIs and citation strings.

**When to use:** Produce the link that opens, views or cites a document at a page or destination.

**Why it's useful:** Encodes arguments exactly as the link rewriting and cite markers do, so generated links round-trip.

**Examples:**
• "Give me the cite link for doi:10.1000/182 page 4 destination thm.2"
• "Make a citation string for arxiv:1706.03762v1 section.3"

**Best practices:** command is one of cite-document, open-document, view-document, resolve-document, convert-document, find-document; format "citation" returns uri?page=..&dest=.. text instead.`

	PDFResolveURIDescription = `Classify a URI, identifier or path the way the link handler does.

**When to use:** Work out what a link inside a converted paper points to.

**Why it's useful:** Recognises DOIs, arXiv identifiers and URLs (including doi.org and arxiv.org/abs|pdf links), akl command URIs with their arguments, and local files, and reports the catalog identifier and download URL.

**Examples:**
• "What does akl://open-document/?uri=doi%3A10.1000%2F182&page=3 open?"
• "Resolve https://arxiv.org/abs/1706.03762v5"`

	// Server Tools
	PDFServerInfoDescription = `Get server information, the configured directories and the available tools.

**When to use:** First call in a session, to learn where the library lives and what the server can do.

**Examples:**
• "What can the PDF links server do?"
• "Which PDFs are in the library directory?"`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_validate_file":         PDFValidateFileDescription,
	"pdf_search_directory":      PDFSearchDirectoryDescription,
	"pdf_inspect":               PDFInspectDescription,
	"pdf_destinations":          PDFDestinationsDescription,
	"pdf_checksum":              PDFChecksumDescription,
	"pdf_rewrite_links":         PDFRewriteLinksDescription,
	"pdf_add_destination_links": PDFAddDestinationLinksDescription,
	"pdf_convert":               PDFConvertDescription,
	"pdf_convert_directory":     PDFConvertDirectoryDescription,
	"pdf_citation":              PDFCitationDescription,
	"pdf_resolve_uri":           PDFResolveURIDescription,
	"pdf_server_info":           PDFServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all described tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
