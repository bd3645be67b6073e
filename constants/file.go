package constants

import "strings"

// PDFMediaType is the only media type the assistant ingests. Client-side
// advisory only, not a security boundary.
const PDFMediaType = "application/pdf"

// LargeFileWarnBytes is the soft size threshold (25 MB). Files above it are
// still processed but the user gets a warning that extraction may be slow.
const LargeFileWarnBytes = 25 * 1024 * 1024

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether a normalized extension names a PDF document.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
