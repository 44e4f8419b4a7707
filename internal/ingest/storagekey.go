package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/momentumlabs/docflow/pkg/slug"
)

// storageKey derives the object key uploaded bytes are stored under:
// "{year}/{uuid}-{slug}{ext}", e.g. "2026/3b1f1a2e-...-roadmap.pdf".
// The slug comes from title when present, else the filename stem.
func storageKey(title, filename string, now time.Time) string {
	stem := title
	if stem == "" {
		base := filepath.Base(filename)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}

	s := slug.Make(stem, slug.MaxLength(60))
	if s == "" {
		s = "document"
	}

	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%d/%s-%s%s", now.Year(), uuid.New(), s, ext)
}
