package core

import (
	"fmt"
	"strings"

	"bukmacher/internal/locale"
)

// Settings are the process-wide display preferences.
type Settings struct {
	Language    locale.Language
	Currency    locale.Currency
	DisplayName string
}

// DefaultSettings: Polish labels, amounts in the base currency, no name yet.
func DefaultSettings() Settings {
	return Settings{
		Language: locale.DefaultLanguage,
		Currency: locale.BaseCurrency,
	}
}

// NeedsOnboarding reports whether the one-time display name is missing.
func (s Settings) NeedsOnboarding() bool {
	return strings.TrimSpace(s.DisplayName) == ""
}

func (s Settings) Validate() error {
	if !s.Language.IsValid() {
		return fmt.Errorf("%w: %q", locale.ErrInvalidLanguage, s.Language)
	}
	if !s.Currency.IsValid() {
		return fmt.Errorf("%w: %q", locale.ErrInvalidCurrency, s.Currency)
	}
	return nil
}

// ValidateDisplayName trims name and rejects blank values.
func ValidateDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyDisplayName
	}
	return name, nil
}

// T translates key in the configured language.
func (s Settings) T(key locale.Key) string {
	return locale.Translate(key, s.Language)
}
