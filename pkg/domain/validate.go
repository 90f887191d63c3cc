package domain

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Character classes for user-supplied names. Song names allow letters and
// digits in any script, spaces, and a restricted punctuation set. Tags allow
// letters/digits in any script, underscore, hyphen, apostrophe, space, and
// pictographic symbols (So covers emoji and musical symbols).
var (
	songNamePattern = regexp.MustCompile(`^[\p{L}\p{N} '\-,.()!?&:]+$`)
	tagTextPattern  = regexp.MustCompile(`^[\p{L}\p{N}\p{So}_' \-]+$`)
)

const (
	maxSongNameRunes = 120
	maxTagTextRunes  = 30
)

// ValidateSongName checks a song name against the song-name character class.
func ValidateSongName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Reason: "song name must not be empty"}
	}
	if utf8.RuneCountInString(name) > maxSongNameRunes {
		return ValidationError{Field: "name", Reason: "song name exceeds 120 characters"}
	}
	if !songNamePattern.MatchString(name) {
		return ValidationError{Field: "name", Reason: "song name contains disallowed characters"}
	}
	return nil
}

// ValidateTagText checks tag text length and character class.
func ValidateTagText(text string) error {
	n := utf8.RuneCountInString(text)
	if n < 1 || n > maxTagTextRunes {
		return ValidationError{Field: "tag", Reason: "tag must be between 1 and 30 characters"}
	}
	if !tagTextPattern.MatchString(text) {
		return ValidationError{Field: "tag", Reason: "tag contains disallowed characters"}
	}
	return nil
}

// ValidateResourceInput checks resource title and URL syntax. Only absolute
// http(s) URLs are accepted.
func ValidateResourceInput(title, rawURL string) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Reason: "resource title must not be empty"}
	}
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ValidationError{Field: "url", Reason: "resource url must be an absolute URL"}
	}
	switch u.Scheme {
	case "http", "https":
		return nil
	}
	return ValidationError{Field: "url", Reason: "resource url scheme must be http or https"}
}

// ValidateSectionTypeName checks a section type label.
func ValidateSectionTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Reason: "section type name must not be empty"}
	}
	return nil
}
