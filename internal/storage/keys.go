package storage

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const datasetPrefix = "datasets"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewObjectKey derives a request scoped key from a client supplied filename.
// Every call returns a distinct key, so uploads sharing a filename never
// overwrite each other.
func NewObjectKey(filename string) string {
	return path.Join(datasetPrefix, uuid.New().String(), SanitizeFilename(filename))
}

func SanitizeFilename(filename string) string {
	// Clients on windows send backslash separated paths.
	name := filename[strings.LastIndexAny(filename, `/\`)+1:]
	name = unsafeKeyChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ".")
	if name == "" || strings.Trim(name, "_") == "" {
		return "dataset"
	}
	return name
}
