package constants

import "strings"

// FilePurposeAssistants is the upload purpose the remote service expects for
// documents that will be attached to a conversation thread.
const FilePurposeAssistants = "assistants"

// PDFExtension is the only document type this batch processes.
const PDFExtension = "pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
