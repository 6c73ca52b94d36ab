package vault

import (
	"strings"
	"unicode"
)

const (
	fileExt  = ".json"
	idSep    = "__"
	slugMax  = 64
	slugNone = "untitled"
)

// slugify reduces a human-readable title or description to a string
// safe for use in a filename. Case is preserved so filenames stay
// recognizable in a file manager.
func slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
		if b.Len() >= slugMax {
			break
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return slugNone
	}
	return slug
}

// fileNameFor derives the on-disk filename for a document. The id is
// always part of the name, so two documents sharing a title never
// collide; the slug part changes when the title changes.
func fileNameFor(slugSource, id string) string {
	return slugify(slugSource) + idSep + id + fileExt
}

// idFromFileName extracts the document id from a vault filename.
// Returns false for names that do not follow the slug__id.json shape.
func idFromFileName(name string) (string, bool) {
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	base := strings.TrimSuffix(name, fileExt)
	i := strings.LastIndex(base, idSep)
	if i < 0 || i+len(idSep) >= len(base) {
		return "", false
	}
	return base[i+len(idSep):], true
}
