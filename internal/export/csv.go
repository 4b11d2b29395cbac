package export

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVWriter streams rows to the output table. Every append is flushed so the
// row outlives a crash while later documents are still processing.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

// NewCSVWriter truncates path and writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output table %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flush header: %w", err)
	}
	return &CSVWriter{f: f, w: w}, nil
}

// Append writes one row and flushes it.
func (c *CSVWriter) Append(row Row) error {
	if err := c.w.Write(row.Values()); err != nil {
		return fmt.Errorf("write row %s: %w", row.Filename, err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flush row %s: %w", row.Filename, err)
	}
	return nil
}

func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}
