package tableau

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ErrInvalidExtension is returned for image names that are not jpg or png.
var ErrInvalidExtension = errors.New("tableau: invalid file extension")

var whitespaceRun = regexp.MustCompile(`\s+`)

var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// FormatFilename lowercases s and replaces each run of whitespace with "_".
func FormatFilename(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(s), "_")
}

// ValidateImageName formats name and checks it ends in .jpg, .jpeg or .png.
// It returns the formatted identifier.
func ValidateImageName(name string) (string, error) {
	id := FormatFilename(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(id, ext) && len(id) > len(ext) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidExtension, name)
}

// uniqueIdentifier returns id, or id with a numeric suffix before the
// extension when taken reports it is already in use.
func uniqueIdentifier(id string, taken func(string) bool) string {
	if !taken(id) {
		return id
	}
	ext := path.Ext(id)
	stem := strings.TrimSuffix(id, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !taken(candidate) {
			return candidate
		}
	}
}

// FormatSceneName formats a scene name for use as a file name. Path
// separators become underscores, so the archive and manifest names never
// leave the directory they are written to.
func FormatSceneName(name string) string {
	name = FormatFilename(strings.TrimSpace(name))
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}

// ArchiveName returns the file name an exported scene is written under.
func ArchiveName(s *Scene) string {
	return s.name + ".zip"
}
