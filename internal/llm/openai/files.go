package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/constants"
)

// UploadFile sends a local file to the files API with the assistants purpose.
func (c *Client) UploadFile(ctx context.Context, path string) (File, error) {
	rid := requestID(ctx)
	start := time.Now()

	raw, err := c.do(ctx, http.MethodPost, "/files", func() (io.Reader, string, error) {
		return multipartUpload(path)
	})
	if err != nil {
		return File{}, fmt.Errorf("upload file: %w", err)
	}

	var out File
	if err := decodeJSON(raw, &out); err != nil {
		return File{}, err
	}
	c.log.Info("openai.file.upload.ok",
		"req_id", rid,
		"file_id", out.ID,
		"filename", out.Filename,
		"bytes", out.Bytes,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// DeleteFile removes an uploaded file. Callers treat failures here as
// cleanup noise, not processing errors.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	rid := requestID(ctx)
	if err := c.deleteResource(ctx, "/files/"+fileID); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	c.log.Info("openai.file.delete.ok", "req_id", rid, "file_id", fileID)
	return nil
}

// multipartUpload builds the upload body fresh for each attempt.
func multipartUpload(path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("purpose", constants.FilePurposeAssistants); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
