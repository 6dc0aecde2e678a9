package speller

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type caseMode int

const (
	caseLower caseMode = iota
	caseFirstUpper
	caseAllUpper
	caseMixed
)

// detectCase classifies the capitalization pattern of word.
func detectCase(word string) caseMode {
	var letters, upper int
	firstUpper := false
	for i, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			upper++
			if letters == 1 && i == 0 {
				firstUpper = true
			}
		}
	}
	switch {
	case upper == 0:
		return caseLower
	case upper == letters && letters > 1:
		return caseAllUpper
	case firstUpper && upper == 1:
		return caseFirstUpper
	default:
		return caseMixed
	}
}

// caseVariants lists the forms searched for word, the word itself first.
func caseVariants(word string, mode caseMode) []string {
	var variants []string
	switch mode {
	case caseFirstUpper:
		variants = []string{word, lowerFirst(word)}
	case caseAllUpper:
		lower := strings.ToLower(word)
		variants = []string{word, lower, upperFirst(lower)}
	case caseMixed:
		variants = []string{word, strings.ToLower(word)}
	default:
		return []string{word}
	}

	out := variants[:0]
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// recase applies the input's capitalization pattern to a suggestion.
func recase(value string, mode caseMode) string {
	switch mode {
	case caseAllUpper:
		return strings.ToUpper(value)
	case caseFirstUpper:
		return upperFirst(value)
	default:
		return value
	}
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
