package standardise

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStringStripsDiacritics(t *testing.T) {
	// caller-side trim+upper happens before NormalizeString
	assert.Equal(t, "CAFE", NormalizeString(strings.ToUpper(strings.TrimSpace("  café  "))))
	assert.Equal(t, "CAFE", NormalizeString("CAFÉ"))
	assert.Equal(t, "UBER", NormalizeString("ÜBER"))
}

func TestNormalizeStringMacronsPreserved(t *testing.T) {
	// The macron exception set bypasses decomposition entirely, so the
	// precomposed characters survive mark removal.
	assert.Equal(t, "MāORI", NormalizeString("MāORI"))
	assert.Equal(t, "MĀORI", NormalizeString("MĀORI"))
	assert.Equal(t, "āēīōūĀĒĪŌŪ", NormalizeString("āēīōūĀĒĪŌŪ"))
}

func TestNormalizeStringDeletesNonLatin(t *testing.T) {
	assert.Equal(t, "", NormalizeString("日本語"))
	assert.Equal(t, "AB", NormalizeString("A日B"))
	// supplementary-plane code points
	assert.Equal(t, "OK", NormalizeString("O😀K"))
}

func TestNormalizeStringRemovesControls(t *testing.T) {
	assert.Equal(t, "AB", NormalizeString("A\x00B"))
	assert.Equal(t, "", NormalizeString("\x00\x01\x7f"))
	assert.Equal(t, "AB", NormalizeString("A\tB"))
}

func TestNormalizeStringEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizeString(""))
}

func TestNormalizeStringIdempotentOnLatin(t *testing.T) {
	inputs := []string{"HELLO WORLD", "A-B_C 123", "PLAIN", "ÀÉÎÕÜ"}
	for _, in := range inputs {
		once := NormalizeString(in)
		assert.Equal(t, once, NormalizeString(once), "not idempotent for %q", in)
	}
}

func TestNormalizeStringMixedScript(t *testing.T) {
	// malformed/mixed input must never panic
	assert.NotPanics(t, func() {
		NormalizeString("CAFÉ 日本 \x00 Ā 😀 \xff\xfe")
	})
}

func TestNormalizeOptional(t *testing.T) {
	assert.Nil(t, NormalizeOptional(nil))

	in := "CAFÉ"
	out := NormalizeOptional(&in)
	assert.NotNil(t, out)
	assert.Equal(t, "CAFE", *out)
}
