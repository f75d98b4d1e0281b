// Package locale holds the display languages, the label catalog and the
// fixed currency table used when presenting ledger figures.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type Language string

const (
	Polish  Language = "pl"
	English Language = "en"
)

// DefaultLanguage is the language the app ships with.
const DefaultLanguage = Polish

var (
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrInvalidCurrency = errors.New("unsupported currency")
)

var (
	supportedTags = []language.Tag{language.Polish, language.English}
	tagLanguages  = []Language{Polish, English}
	matcher       = language.NewMatcher(supportedTags)
)

// Languages returns the supported languages in display order.
func Languages() []Language {
	return append([]Language(nil), tagLanguages...)
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	return l == Polish || l == English
}

func (l Language) String() string {
	return string(l)
}

// ParseLanguage resolves a BCP 47 tag such as "pl", "pl-PL" or "en-GB" to
// a supported language.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty tag", ErrInvalidLanguage)
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
	}
	return tagLanguages[idx], nil
}
