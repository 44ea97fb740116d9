package entities

import (
	"strings"
	"unicode"
)

// PartNumber represents a raw part identifier as written by a data source
type PartNumber string

const (
	// DefaultSiteTag is prefixed to bare numeric part numbers
	DefaultSiteTag = "TW"
	// DefaultSeparator introduces a variant suffix
	DefaultSeparator = "-"
)

// Normalizer canonicalizes part numbers written in inconsistent formats.
// The zero value behaves like DefaultNormalizer.
type Normalizer struct {
	SiteTag   string
	Separator string
}

// DefaultNormalizer uses the TW site tag and "-" separator
var DefaultNormalizer = Normalizer{SiteTag: DefaultSiteTag, Separator: DefaultSeparator}

func (n Normalizer) tag() string {
	if n.SiteTag == "" {
		return DefaultSiteTag
	}
	return n.SiteTag
}

func (n Normalizer) sep() string {
	if n.Separator == "" {
		return DefaultSeparator
	}
	return n.Separator
}

// BaseForm returns the identifier used for stock matching: trimmed, site tag
// prefixed when it starts with a digit, truncated at the first separator.
func (n Normalizer) BaseForm(raw string) string {
	s := strings.TrimSpace(raw)
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = n.tag() + s
	}
	if i := strings.Index(s, n.sep()); i >= 0 {
		return s[:i]
	}
	return s
}

// NormalizedForm returns the cross-source matching key: the base form
// upper-cased with whitespace, separators and the site tag removed.
func (n Normalizer) NormalizedForm(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	s := strings.ToUpper(n.BaseForm(raw))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, strings.ToUpper(n.sep()), "")

	// Removing one tag can expose another ("TTWW"), so strip to a fixpoint.
	tag := strings.ToUpper(n.tag())
	for strings.Contains(s, tag) {
		s = strings.ReplaceAll(s, tag, "")
	}
	return s
}

// BaseForm applies DefaultNormalizer.BaseForm
func BaseForm(raw string) string {
	return DefaultNormalizer.BaseForm(raw)
}

// NormalizedForm applies DefaultNormalizer.NormalizedForm
func NormalizedForm(raw string) string {
	return DefaultNormalizer.NormalizedForm(raw)
}

// Base returns the base form of the part number
func (p PartNumber) Base() string {
	return BaseForm(string(p))
}

// Normalized returns the normalized form of the part number
func (p PartNumber) Normalized() string {
	return NormalizedForm(string(p))
}
