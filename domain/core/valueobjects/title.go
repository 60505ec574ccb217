package valueobjects

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"mappamentis/domain/config"
	pkgerrors "mappamentis/pkg/errors"
)

// Title is a validated, trimmed mind map title
type Title struct {
	value string
}

// NewTitle creates a title using the default domain configuration
func NewTitle(value string) (Title, error) {
	return NewTitleWithConfig(value, config.DefaultDomainConfig())
}

// NewTitleWithConfig creates a title bounded by the given configuration
func NewTitleWithConfig(value string, cfg *config.DomainConfig) (Title, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return Title{}, pkgerrors.NewInvalidArgumentError("title cannot be empty")
	}

	length := utf8.RuneCountInString(value)
	if length < cfg.MinTitleLength || length > cfg.MaxTitleLength {
		return Title{}, pkgerrors.NewInvalidArgumentError(
			fmt.Sprintf("title must be between %d and %d characters", cfg.MinTitleLength, cfg.MaxTitleLength))
	}

	for _, r := range value {
		if !unicode.IsPrint(r) {
			return Title{}, pkgerrors.NewInvalidArgumentError("title contains non-printable characters")
		}
	}

	return Title{value: value}, nil
}

// String returns the title text
func (t Title) String() string {
	return t.value
}

// Equals checks if two titles are equal
func (t Title) Equals(other Title) bool {
	return t.value == other.value
}

// IsZero reports whether the title was never constructed
func (t Title) IsZero() bool {
	return t.value == ""
}
