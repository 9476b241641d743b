package content

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported UI and content locale.
type Language string

const (
	MK Language = "MK" // Macedonian, the default
	SQ Language = "SQ" // Albanian
	TR Language = "TR" // Turkish
	EN Language = "EN" // English
)

// DefaultLanguage is used when no preference is known.
const DefaultLanguage = MK

// Languages returns all supported languages in display order.
func Languages() []Language {
	return []Language{MK, SQ, TR, EN}
}

var (
	languageTags = []language.Tag{language.Macedonian, language.Albanian, language.Turkish, language.English}
	matcher      = language.NewMatcher(languageTags)
)

// ParseLanguage accepts a two-letter code in any case or a BCP 47 tag
// ("sq-AL", "en-US"). Unknown input yields DefaultLanguage.
func ParseLanguage(s string) Language {
	s = strings.TrimSpace(s)
	up := Language(strings.ToUpper(s))
	for _, l := range Languages() {
		if l == up {
			return l
		}
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage
	}
	return Languages()[idx]
}

// Tag returns the BCP 47 tag for l.
func (l Language) Tag() language.Tag {
	for i, c := range Languages() {
		if c == l {
			return languageTags[i]
		}
	}
	return language.Macedonian
}

// Name returns the language's own name for itself.
func (l Language) Name() string {
	switch l {
	case MK:
		return "Македонски"
	case SQ:
		return "Shqip"
	case TR:
		return "Türkçe"
	case EN:
		return "English"
	}
	return string(l)
}

// Text is a string localized per language.
type Text map[Language]string

// Get returns the text for l, falling back to English, then Macedonian,
// then any available translation.
func (t Text) Get(l Language) string {
	if s := t[l]; s != "" {
		return s
	}
	if s := t[EN]; s != "" {
		return s
	}
	if s := t[MK]; s != "" {
		return s
	}
	for _, c := range Languages() {
		if s := t[c]; s != "" {
			return s
		}
	}
	return ""
}

// Complete reports whether every supported language has a non-empty entry.
func (t Text) Complete() bool {
	for _, l := range Languages() {
		if strings.TrimSpace(t[l]) == "" {
			return false
		}
	}
	return true
}

// Same builds a Text with s for every language.
func Same(s string) Text {
	t := make(Text, 4)
	for _, l := range Languages() {
		t[l] = s
	}
	return t
}
