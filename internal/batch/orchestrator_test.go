package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/export"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm"
	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm/openai"
)

type fakeAdmin struct {
	createCalls int
	createErr   error
	gotReq      openai.AssistantRequest
	deleteCalls []string
	deleteErr   error
}

func (f *fakeAdmin) CreateAssistant(_ context.Context, req openai.AssistantRequest) (openai.Assistant, error) {
	f.createCalls++
	f.gotReq = req
	if f.createErr != nil {
		return openai.Assistant{}, f.createErr
	}
	return openai.Assistant{ID: "asst-1", Name: req.Name, Model: req.Model}, nil
}

func (f *fakeAdmin) DeleteAssistant(_ context.Context, assistantID string) error {
	f.deleteCalls = append(f.deleteCalls, assistantID)
	return f.deleteErr
}

type fakeExtractor struct {
	failures     map[string]int // failed attempts before success, per base name
	calls        map[string]int
	fields       llm.DocumentFields
	assistantIDs []string
}

func (f *fakeExtractor) ExtractFields(_ context.Context, path string, assistantID string) (llm.DocumentFields, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	name := filepath.Base(path)
	f.calls[name]++
	f.assistantIDs = append(f.assistantIDs, assistantID)
	if f.calls[name] <= f.failures[name] {
		return llm.DocumentFields{}, fmt.Errorf("attempt %d failed", f.calls[name])
	}
	return f.fields, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePDFs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("%PDF"), 0o644))
	}
	return dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func sampleFields() llm.DocumentFields {
	pages := 12
	return llm.DocumentFields{
		Title:     "Annual Report",
		Author:    "J. Doe",
		Date:      "2023-01-01",
		Keywords:  []string{"finance", "growth"},
		Summary:   "Yearly results.",
		PageCount: &pages,
	}
}

func noSleep(time.Duration) {}

func TestRunWritesOneRowPerDocumentInOrder(t *testing.T) {
	dir := writePDFs(t, "b-report.pdf", "a-invoice.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644))
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	admin := &fakeAdmin{}
	ext := &fakeExtractor{fields: sampleFields()}
	o := NewOrchestrator(admin, ext, testLogger(), Options{Model: "gpt-4-turbo", Sleep: noSleep})

	summary, err := o.Run(context.Background(), dir, csvPath)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	records := readCSV(t, csvPath)
	require.Len(t, records, 3)
	assert.Equal(t, export.Header, records[0])
	assert.Equal(t, "a-invoice.pdf", records[1][0], "rows follow discovery order")
	assert.Equal(t, "b-report.pdf", records[2][0])
	assert.Equal(t, "Annual Report", records[1][1])
	assert.Equal(t, "[finance, growth]", records[1][4])
	assert.Equal(t, "12", records[1][6])
	assert.Empty(t, records[1][7])

	// One shared assistant for the whole batch, declared with both tools.
	assert.Equal(t, 1, admin.createCalls)
	assert.Equal(t, []string{"asst-1"}, admin.deleteCalls)
	assert.Equal(t, "PDF Data Extractor", admin.gotReq.Name)
	assert.Equal(t, "gpt-4-turbo", admin.gotReq.Model)
	require.Len(t, admin.gotReq.Tools, 2)
	assert.Equal(t, openai.ToolTypeRetrieval, admin.gotReq.Tools[0].Type)
	assert.Equal(t, "extract_data", admin.gotReq.Tools[1].Function["name"])
	assert.Equal(t, []string{"asst-1", "asst-1"}, ext.assistantIDs)
}

func TestRunRetriesWithBackoffThenSucceeds(t *testing.T) {
	dir := writePDFs(t, "flaky.pdf")
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	var slept []time.Duration
	admin := &fakeAdmin{}
	ext := &fakeExtractor{
		fields:   sampleFields(),
		failures: map[string]int{"flaky.pdf": 2},
	}
	o := NewOrchestrator(admin, ext, testLogger(), Options{
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	})

	summary, err := o.Run(context.Background(), dir, csvPath)
	require.NoError(t, err)

	assert.Equal(t, 3, ext.calls["flaky.pdf"])
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
	assert.Equal(t, 1, summary.Succeeded)

	records := readCSV(t, csvPath)
	require.Len(t, records, 2)
	assert.Equal(t, "Annual Report", records[1][1], "third attempt's fields land in the row")
	assert.Empty(t, records[1][7])
}

func TestRunRecordsFinalErrorAfterExhaustion(t *testing.T) {
	dir := writePDFs(t, "doomed.pdf")
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	var slept []time.Duration
	admin := &fakeAdmin{}
	ext := &fakeExtractor{failures: map[string]int{"doomed.pdf": 99}}
	o := NewOrchestrator(admin, ext, testLogger(), Options{
		Sleep: func(d time.Duration) { slept = append(slept, d) },
	})

	summary, err := o.Run(context.Background(), dir, csvPath)
	require.NoError(t, err, "document failures never abort the batch")

	assert.Equal(t, 3, ext.calls["doomed.pdf"], "three attempts total")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept, "no sleep after the last attempt")
	assert.Equal(t, 1, summary.Failed)

	records := readCSV(t, csvPath)
	require.Len(t, records, 2)
	row := records[1]
	assert.Equal(t, "doomed.pdf", row[0])
	for i := 1; i < 7; i++ {
		assert.Empty(t, row[i])
	}
	assert.Equal(t, "attempt 3 failed", row[7], "row carries the final attempt's error")

	assert.Equal(t, []string{"asst-1"}, admin.deleteCalls)
}

func TestRunEmptyDirectoryWritesHeaderOnly(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	admin := &fakeAdmin{}
	ext := &fakeExtractor{}
	o := NewOrchestrator(admin, ext, testLogger(), Options{Sleep: noSleep})

	summary, err := o.Run(context.Background(), t.TempDir(), csvPath)
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	records := readCSV(t, csvPath)
	require.Len(t, records, 1)
	assert.Equal(t, export.Header, records[0])

	assert.Equal(t, 1, admin.createCalls)
	assert.Equal(t, []string{"asst-1"}, admin.deleteCalls)
}

func TestRunAssistantCreateFailureIsFatal(t *testing.T) {
	dir := writePDFs(t, "report.pdf")
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	admin := &fakeAdmin{createErr: errors.New("quota exceeded")}
	o := NewOrchestrator(admin, &fakeExtractor{}, testLogger(), Options{Sleep: noSleep})

	_, err := o.Run(context.Background(), dir, csvPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create assistant")

	assert.Empty(t, admin.deleteCalls, "nothing to tear down")
	assert.NoFileExists(t, csvPath, "output table is never opened")
}

func TestRunOutputOpenFailureStillDeletesAssistant(t *testing.T) {
	dir := writePDFs(t, "report.pdf")
	csvPath := filepath.Join(t.TempDir(), "missing", "out.csv")

	admin := &fakeAdmin{}
	o := NewOrchestrator(admin, &fakeExtractor{}, testLogger(), Options{Sleep: noSleep})

	_, err := o.Run(context.Background(), dir, csvPath)
	require.Error(t, err)
	assert.Equal(t, []string{"asst-1"}, admin.deleteCalls)
}

func TestRunTeardownErrorSurfaces(t *testing.T) {
	dir := writePDFs(t, "report.pdf")
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	admin := &fakeAdmin{deleteErr: errors.New("already gone")}
	ext := &fakeExtractor{fields: sampleFields()}
	o := NewOrchestrator(admin, ext, testLogger(), Options{Sleep: noSleep})

	summary, err := o.Run(context.Background(), dir, csvPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete assistant")

	// The table is still complete for every processed document.
	assert.Equal(t, 1, summary.Total)
	records := readCSV(t, csvPath)
	require.Len(t, records, 2)
	assert.Equal(t, "report.pdf", records[1][0])
}

func TestRunInvokesOnResult(t *testing.T) {
	dir := writePDFs(t, "a.pdf", "b.pdf")
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	var seen []string
	o := NewOrchestrator(&fakeAdmin{}, &fakeExtractor{fields: sampleFields()}, testLogger(), Options{Sleep: noSleep})
	o.OnResult = func(r export.Row) { seen = append(seen, r.Filename) }

	summary, err := o.Run(context.Background(), dir, csvPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf", "b.pdf"}, seen)
	require.Len(t, summary.Rows, 2)
	assert.Equal(t, "a.pdf", summary.Rows[0].Filename)
}
