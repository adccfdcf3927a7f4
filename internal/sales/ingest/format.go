package ingest

import (
	"io"
	"strings"
)

// CSVMimeType is the canonical CSV media type.
const CSVMimeType = "text/csv"

// File is an uploaded file handle.
type File struct {
	Name    string
	Type    string
	Content io.Reader
}

// CheckFormat accepts the declared CSV media type or a name ending in ".csv".
// The suffix match is case-sensitive. Content is never read.
func CheckFormat(file *File) error {
	if file == nil {
		return newNoFileSelected()
	}

	if file.Type != CSVMimeType && !strings.HasSuffix(file.Name, ".csv") {
		return newInvalidFileType()
	}

	return nil
}
