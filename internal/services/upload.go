package services

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// DefaultMaxUploadBytes bounds an import file when no limit is configured.
const DefaultMaxUploadBytes int64 = 2 << 20

// AllowedUploadTypes are the media types browsers and spreadsheet tools send for CSV files.
var AllowedUploadTypes = []string{"text/csv", "application/vnd.ms-excel", "application/csv", "text/x-csv"}

// CheckUpload rejects an import file by name, declared media type and size before it is read.
// Media type parameters such as charset are ignored.
func CheckUpload(filename, contentType string, size, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !allowedType(mediaType) {
		return &FileError{Reason: fmt.Sprintf("unsupported file type %q, expected a CSV file", contentType)}
	}
	if size > maxBytes {
		return &FileError{Reason: fmt.Sprintf("file is %d bytes, the limit is %d", size, maxBytes)}
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return &FileError{Reason: fmt.Sprintf("file name %q must end in .csv", filename)}
	}
	return nil
}

func allowedType(mediaType string) bool {
	for _, t := range AllowedUploadTypes {
		if strings.EqualFold(mediaType, t) {
			return true
		}
	}
	return false
}
