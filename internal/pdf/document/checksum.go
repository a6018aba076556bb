package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-pdf-links/internal/pdf/textstring"
)

// Checksum returns the lowercase hex SHA-256 of the current object graph.
//
// Every in-use object is hashed in object number order together with the
// trailer's Root and Info references. Dictionary keys are hashed sorted, and
// streams contribute their raw bytes. Object and cross-reference streams are
// left out: their content is a storage detail that changes on every write.
func (d *Document) Checksum() (string, error) {
	h := sha256.New()

	numbers := make([]int, 0, len(d.ctx.Table))
	for n, entry := range d.ctx.Table {
		if n == 0 || entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		switch entry.Object.(type) {
		case types.ObjectStreamDict, types.XRefStreamDict:
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		entry := d.ctx.Table[n]
		gen := 0
		if entry.Generation != nil {
			gen = *entry.Generation
		}
		fmt.Fprintf(h, "obj %d %d\n", n, gen)
		if err := encodeObject(h, entry.Object); err != nil {
			return "", fmt.Errorf("hashing object %d %d R: %w", n, gen, err)
		}
		io.WriteString(h, "\n")
	}

	if d.ctx.Root != nil {
		fmt.Fprintf(h, "root %s\n", idOf(*d.ctx.Root))
	}
	if d.ctx.Info != nil {
		fmt.Fprintf(h, "info %s\n", idOf(*d.ctx.Info))
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// encodeObject writes an unambiguous, length-prefixed form of o.
func encodeObject(w io.Writer, o types.Object) error {
	var err error
	switch v := o.(type) {
	case nil:
		_, err = io.WriteString(w, "null")
	case types.Boolean:
		_, err = fmt.Fprintf(w, "b%t", v.Value())
	case types.Integer:
		_, err = fmt.Fprintf(w, "i%d", v.Value())
	case types.Float:
		_, err = io.WriteString(w, "f"+strconv.FormatFloat(v.Value(), 'g', -1, 64))
	case types.Name:
		_, err = fmt.Fprintf(w, "/%d:%s", len(v), string(v))
	case types.StringLiteral, types.HexLiteral:
		// literal and hex spellings of the same bytes hash alike
		b, decErr := textstring.Bytes(v)
		if decErr != nil {
			_, err = fmt.Fprintf(w, "?%d:%s", len(v.PDFString()), v.PDFString())
			break
		}
		if _, err = fmt.Fprintf(w, "s%d:", len(b)); err != nil {
			return err
		}
		_, err = w.Write(b)
	case types.IndirectRef:
		_, err = fmt.Fprintf(w, "R%s", idOf(v))
	case types.Array:
		if _, err = fmt.Fprintf(w, "[%d", len(v)); err != nil {
			return err
		}
		for _, item := range v {
			if _, err = io.WriteString(w, " "); err != nil {
				return err
			}
			if err = encodeObject(w, item); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "]")
	case types.Dict:
		err = encodeDict(w, v)
	case types.StreamDict:
		if err = encodeDict(w, v.Dict); err != nil {
			return err
		}
		if _, err = fmt.Fprintf(w, "stream%d:", len(v.Raw)); err != nil {
			return err
		}
		_, err = w.Write(v.Raw)
	default:
		_, err = fmt.Fprintf(w, "%T:%s", o, o.PDFString())
	}
	return err
}

func encodeDict(w io.Writer, d types.Dict) error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintf(w, "<<%d", len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, " /%d:%s ", len(k), k); err != nil {
			return err
		}
		if err := encodeObject(w, d[k]); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">>")
	return err
}
