package standardise

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a column name to snake_case. Word boundaries are
// taken from separators (space, dash, dot, slash), lower-to-upper
// transitions, and acronym endings ("HTTPServer" -> "http_server").
// Separator runs collapse to a single underscore.
func ToSnakeCase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	lastUnderscore := true // suppress a leading underscore
	writeSep := func() {
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) {
				prevLower := i > 0 && unicode.IsLower(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
				if prevLower || (prevUpper && nextLower) {
					writeSep()
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		default:
			writeSep()
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}

// RenameSnakeCase renames every column of the dataset to snake_case.
// A collision or empty result fails the whole rename, leaving the dataset
// unchanged.
func RenameSnakeCase(ds Renamer) error {
	return ds.Rename(ToSnakeCase)
}

// Renamer is the part of the dataset the rename stage needs.
type Renamer interface {
	Rename(fn func(string) string) error
}
