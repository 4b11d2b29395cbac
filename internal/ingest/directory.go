package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/constants"
)

// Document is one PDF queued for extraction.
type Document struct {
	Path string // path handed to the uploader
	Name string // base name, used as the row key in the output table
}

// ListDocuments returns the PDFs directly under dir (non-recursive) in
// lexical order. Extensions match case-insensitively and hidden files are
// skipped. A missing or empty directory yields an empty slice, not an
// error; the caller decides whether that deserves a warning.
func ListDocuments(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() || IsHidden(e.Name()) {
			continue
		}
		if constants.NormalizeExt(filepath.Ext(e.Name())) != constants.PDFExtension {
			continue
		}
		docs = append(docs, Document{
			Path: filepath.Join(dir, e.Name()),
			Name: e.Name(),
		})
	}
	return docs, nil
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
