// Package citation encodes library commands as akl:// URIs and classifies
// the URIs found in documents.
//
// A command URI has the form akl://<command>/?<form-encoded arguments>.
// Links rewritten inside converted documents and the markers injected at
// named destinations both point at such URIs.
package citation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Scheme is the URI scheme of library commands.
const Scheme = "akl"

// Command names a library command.
type Command string

const (
	Cite    Command = "cite-document"
	Open    Command = "open-document"
	View    Command = "view-document"
	Resolve Command = "resolve-document"
	Convert Command = "convert-document"
	Import  Command = "import-document"
	Find    Command = "find-document"
)

// Commands lists every known command.
var Commands = []Command{Cite, Open, View, Resolve, Convert, Import, Find}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	for _, known := range Commands {
		if c == known {
			return true
		}
	}
	return false
}

// Args are the arguments of the cite, open, view, resolve and convert
// commands. Resolve only uses URI; convert uses URI and Output.
type Args struct {
	URI    string  `json:"uri" validate:"required"`
	Page   *int    `json:"page,omitempty" validate:"omitempty,min=1"`
	Dest   *string `json:"dest,omitempty"`
	From   *string `json:"from,omitempty"`
	Output string  `json:"output,omitempty"`
}

// ImportArgs are the arguments of the import command. They travel as a
// JSON payload inside the query.
type ImportArgs struct {
	URI         string   `json:"uri" validate:"required"`
	Title       *string  `json:"title,omitempty"`
	Authors     []string `json:"authors"`
	Context     []string `json:"context"`
	Identifiers []string `json:"identifiers"`
	Year        *int     `json:"year,omitempty"`
	View        bool     `json:"view"`
	Force       bool     `json:"force"`
}

// Request is a decoded command URI.
type Request struct {
	Command Command     `json:"command"`
	Args    Args        `json:"args"`
	Import  *ImportArgs `json:"import,omitempty"`
}

var validate = validator.New()

// Validate checks the fields required by cmd.
func (a Args) Validate(cmd Command) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid %s arguments: %w", cmd, err)
	}
	if cmd == Convert && a.Output == "" {
		return fmt.Errorf("invalid %s arguments: output is required", cmd)
	}
	return nil
}

// Query encodes cmd and args as a command URI. Find takes no arguments;
// Import must be encoded with ImportQuery.
func Query(cmd Command, args Args) (string, error) {
	switch cmd {
	case Find:
		return fmt.Sprintf("%s://%s/", Scheme, cmd), nil
	case Import:
		return "", fmt.Errorf("%s carries a payload, use ImportQuery", cmd)
	}
	if !cmd.Valid() {
		return "", fmt.Errorf("unknown command %q", cmd)
	}
	if err := args.Validate(cmd); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s://%s/?%s", Scheme, cmd, encodeArgs(cmd, args)), nil
}

// ImportQuery encodes an import command.
func ImportQuery(args ImportArgs) (string, error) {
	if err := validate.Struct(args); err != nil {
		return "", fmt.Errorf("invalid %s arguments: %w", Import, err)
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encoding %s payload: %w", Import, err)
	}
	return fmt.Sprintf("%s://%s/?payload=%s", Scheme, Import, url.QueryEscape(string(payload))), nil
}

// encodeArgs writes the set fields in declaration order.
func encodeArgs(cmd Command, args Args) string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}

	add("uri", args.URI)
	if cmd == Resolve {
		return strings.Join(parts, "&")
	}
	if cmd == Convert {
		add("output", args.Output)
		return strings.Join(parts, "&")
	}
	if args.Page != nil {
		add("page", strconv.Itoa(*args.Page))
	}
	if args.Dest != nil {
		add("dest", *args.Dest)
	}
	if args.From != nil {
		add("from", *args.From)
	}
	return strings.Join(parts, "&")
}

// ParseQuery decodes a command URI.
func ParseQuery(uri string) (*Request, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing command uri: %w", err)
	}
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("not a command uri: scheme %q", u.Scheme)
	}
	return parseCommand(u.Host, u.RawQuery)
}

func parseCommand(name, rawQuery string) (*Request, error) {
	cmd := Command(name)
	if !cmd.Valid() {
		return nil, fmt.Errorf("invalid command name %q", name)
	}

	req := &Request{Command: cmd}
	if cmd == Find {
		return req, nil
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("decoding %s query: %w", cmd, err)
	}

	if cmd == Import {
		payload := values.Get("payload")
		if payload == "" {
			return nil, fmt.Errorf("%s query has no payload", cmd)
		}
		var args ImportArgs
		if err := json.Unmarshal([]byte(payload), &args); err != nil {
			return nil, fmt.Errorf("parsing %s payload: %w", cmd, err)
		}
		if err := validate.Struct(args); err != nil {
			return nil, fmt.Errorf("invalid %s arguments: %w", cmd, err)
		}
		req.Import = &args
		return req, nil
	}

	args, err := argsFromValues(values)
	if err != nil {
		return nil, fmt.Errorf("decoding %s query: %w", cmd, err)
	}
	if err := args.Validate(cmd); err != nil {
		return nil, err
	}
	req.Args = args
	return req, nil
}

func argsFromValues(values url.Values) (Args, error) {
	args := Args{
		URI:    values.Get("uri"),
		Output: values.Get("output"),
	}
	page, dest, err := pageArgs(values)
	if err != nil {
		return Args{}, err
	}
	args.Page, args.Dest = page, dest
	if values.Has("from") {
		from := values.Get("from")
		args.From = &from
	}
	return args, nil
}

func pageArgs(values url.Values) (*int, *string, error) {
	var page *int
	var dest *string
	if values.Has("page") {
		n, err := strconv.Atoi(values.Get("page"))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid page %q: %w", values.Get("page"), err)
		}
		page = &n
	}
	if values.Has("dest") {
		d := values.Get("dest")
		dest = &d
	}
	return page, dest, nil
}

// PageArgsFromLink reads the page and dest query parameters of a link.
func PageArgsFromLink(uri string) (page *int, dest *string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing link: %w", err)
	}
	if u.RawQuery == "" {
		return nil, nil, fmt.Errorf("link %q has no query", uri)
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing link query: %w", err)
	}
	return pageArgs(values)
}

// Citation formats the text placed on the clipboard by the cite command:
// the document URI followed by its page and destination.
func Citation(args Args) string {
	var parts []string
	if args.Page != nil {
		parts = append(parts, "page="+strconv.Itoa(*args.Page))
	}
	if args.Dest != nil {
		parts = append(parts, "dest="+url.QueryEscape(*args.Dest))
	}
	return args.URI + "?" + strings.Join(parts, "&")
}
