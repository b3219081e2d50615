// Package standardise implements the cleansing transformations applied to
// a dataset: column renaming, null unification, timestamp coercion, string
// normalisation, deduplication and metadata tagging. The stages are pure
// dataset-to-dataset functions; Pipeline sequences them.
package standardise

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dataplane-io/scour/pkg/logger"
)

// macronExceptions are the characters that survive non-Latin filtering
// verbatim. They are shielded from decomposition as well, otherwise the
// mark-removal step would strip the macron and defeat the exemption.
const macronExceptions = "āēīōūĀĒĪŌŪ"

// normalizer decomposes with NFKD, drops the resulting combining marks,
// then drops anything in a control category.
// https://go.dev/blog/normalization#performing-magic
var normalizer = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.In(unicode.C)),
)

// NormalizeString maps a string to its canonical normalised form:
// characters outside the Latin-1 range are deleted (macrons excepted),
// precomposed accents are decomposed and their combining marks removed,
// and control characters are dropped. Callers trim and upper-case first.
//
// The function never fails: if a transform errors on some input, the
// error is logged and the input is returned unmodified.
func NormalizeString(text string) string {
	out, err := normalize(text)
	if err != nil {
		logger.Error("unicode normalisation failed, keeping original value",
			zap.String("value", text),
			zap.Error(err))
		return text
	}
	return out
}

// NormalizeOptional is the null-preserving form of NormalizeString.
func NormalizeOptional(text *string) *string {
	if text == nil {
		return nil
	}
	out := NormalizeString(*text)
	return &out
}

func normalize(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	// Segments between exempted macrons run through the transform chain;
	// the macrons themselves are copied through untouched.
	var seg strings.Builder
	flush := func() error {
		if seg.Len() == 0 {
			return nil
		}
		out, _, err := transform.String(normalizer, seg.String())
		if err != nil {
			return err
		}
		b.WriteString(out)
		seg.Reset()
		return nil
	}

	for _, r := range text {
		if r > 0xFF {
			if strings.ContainsRune(macronExceptions, r) {
				if err := flush(); err != nil {
					return "", err
				}
				b.WriteRune(r)
			}
			// Every other non-Latin-1 rune is deleted.
			continue
		}
		seg.WriteRune(r)
	}
	if err := flush(); err != nil {
		return "", err
	}

	return b.String(), nil
}
