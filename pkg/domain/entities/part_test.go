package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseForm(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"numeric gets site tag", "1234", "TW1234"},
		{"suffix stripped", "TW1234-A", "TW1234"},
		{"numeric with suffix", "1234-B", "TW1234"},
		{"whitespace trimmed", "  5678  ", "TW5678"},
		{"alpha untouched", "ABC-01", "ABC"},
		{"lower case kept", "tw1234", "tw1234"},
		{"empty", "", ""},
		{"only separator", "-X", ""},
		{"multiple separators", "AB-CD-EF", "AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseForm(tt.raw))
		})
	}
}

func TestNormalizedForm(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"numeric", "1234", "1234"},
		{"site tag removed", "TW1234", "1234"},
		{"lower case site tag", "tw 1234", "1234"},
		{"suffix dropped", "1234-A", "1234"},
		{"internal spaces", "AB 12 C", "AB12C"},
		{"tag anywhere", "ABTW12", "AB12"},
		{"nested tag", "TTWW9", "9"},
		{"empty", "", ""},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizedForm(tt.raw))
		})
	}
}

func TestNormalizedForm_EquivalentSpellings(t *testing.T) {
	want := NormalizedForm("1234-A")
	for _, raw := range []string{"TW1234-B", "tw 1234", " 1234 ", "TW1234"} {
		assert.Equal(t, want, NormalizedForm(raw), "raw %q", raw)
	}
}

func TestNormalizedForm_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "1234", "1234-A", "TW1234-B", "tw 1234", "TTWW", "T W1",
		"abc-def", "0TW-1", "TWTW", "ä 12-x", "W1", "TW", "-", "9-TW",
	}
	for _, raw := range inputs {
		once := NormalizedForm(raw)
		assert.Equal(t, once, NormalizedForm(once), "raw %q", raw)
	}
}

func TestNormalizer_CustomRules(t *testing.T) {
	n := Normalizer{SiteTag: "CN", Separator: "/"}

	assert.Equal(t, "CN42", n.BaseForm("42/rev2"))
	assert.Equal(t, "42", n.NormalizedForm("cn 42/rev2"))
	assert.Equal(t, "TW42", n.NormalizedForm("TW42"), "default tag is not special for a custom normalizer")
}

func TestNormalizer_ZeroValueUsesDefaults(t *testing.T) {
	var n Normalizer
	assert.Equal(t, DefaultNormalizer.BaseForm("1234-A"), n.BaseForm("1234-A"))
	assert.Equal(t, DefaultNormalizer.NormalizedForm("TW1234-A"), n.NormalizedForm("TW1234-A"))
}

func TestPartNumber_Forms(t *testing.T) {
	p := PartNumber("1234-A")
	assert.Equal(t, "TW1234", p.Base())
	assert.Equal(t, "1234", p.Normalized())
}
