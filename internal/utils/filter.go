package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsSeparator checks if a rune may appear inside a checkable word
func IsSeparator(r rune) bool {
	return r == '-' || r == '\'' || r == '’' || r == '.'
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains characters that are
// neither letters, digits, marks nor in-word separators
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks if a string is one character repeated 3+ times
func IsRepetitive(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	return strings.Trim(s[size:], string(first)) == ""
}

// ShouldCheck reports whether a token is worth spell checking. Numbers,
// tokens with symbols, repeated characters and tokens longer than maxRunes
// (when maxRunes > 0) are skipped.
func ShouldCheck(s string, maxRunes int) bool {
	if len(s) == 0 {
		return false
	}
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		return false
	}
	if IsOnlyNumbers(s) || ContainsSpecialChars(s) || IsRepetitive(s) {
		return false
	}
	return true
}
