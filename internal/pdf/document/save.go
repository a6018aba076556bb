package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo serializes the current graph to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	// each write needs fresh writer state; offsets from an earlier write
	// would otherwise leak into the new cross-reference table
	d.ctx.Write = model.NewWriteContext(d.ctx.Configuration.Eol)

	cw := &countingWriter{w: w}
	if err := api.WriteContext(d.ctx, cw); err != nil {
		return cw.n, fmt.Errorf("failed to write PDF: %w", err)
	}
	return cw.n, nil
}

// Save writes the document to path. The file is written under a temporary
// name in the same directory and renamed into place, so a failed save never
// leaves a partial file at path.
func (d *Document) Save(path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = d.WriteTo(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
