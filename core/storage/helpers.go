package storage

import (
	"mime"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename strips path separators and unsafe characters from a
// user-supplied filename, keeping the extension intact.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)

	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	ext = unsafeFilenameChars.ReplaceAllString(ext, "")

	name = strings.Trim(name, "_")
	if name == "" {
		name = "file"
	}

	return name + ext
}

// GetExtension returns the lowercase file extension (including the leading
// dot) of the uploaded file, derived from its filename.
func GetExtension(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return strings.ToLower(filepath.Ext(fh.Filename))
}

// GetMIMEType resolves the MIME type of an uploaded file, preferring the
// Content-Type header the client sent and falling back to a lookup by
// extension.
func GetMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct, nil
	}

	if ext := GetExtension(fh); ext != "" {
		if mimeType := mime.TypeByExtension(ext); mimeType != "" {
			return mimeType, nil
		}
	}

	return "application/octet-stream", nil
}
