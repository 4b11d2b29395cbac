package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders rows as an XLSX workbook for spreadsheet-first readers.
// The CSV table stays the primary output; this is an optional second artifact.
func WriteXLSX(rows []Row, logger *slog.Logger) ([]byte, error) {
	start := time.Now()
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Filename",
		"Title",
		"Author",
		"Date",
		"Keywords",
		"Summary",
		"Page Count",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Filename)
		write(2, r.Fields.Title)
		write(3, r.Fields.Author)
		write(4, r.Fields.Date)
		write(5, formatKeywords(r.Fields.Keywords))
		write(6, truncate(r.Fields.Summary, 300))
		if r.Fields.PageCount != nil {
			write(7, *r.Fields.PageCount)
		} else {
			write(7, "")
		}
		write(8, r.Error)

		rowIdx++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 28) // filename
	_ = f.SetColWidth(sheet, "B", "B", 32) // title
	_ = f.SetColWidth(sheet, "C", "C", 22) // author
	_ = f.SetColWidth(sheet, "D", "D", 12) // date
	_ = f.SetColWidth(sheet, "E", "E", 28) // keywords
	_ = f.SetColWidth(sheet, "F", "F", 60) // summary
	_ = f.SetColWidth(sheet, "H", "H", 40) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
