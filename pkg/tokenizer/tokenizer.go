// Package tokenizer splits running text into words using Unicode word
// boundaries (UAX #29).
package tokenizer

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Token is a word and its byte offset in the source text.
type Token struct {
	Offset int    `json:"offset" msgpack:"o"`
	Word   string `json:"word" msgpack:"w"`
}

// WordIndices returns the words of text with their byte offsets. Segments
// without a letter or digit (spaces, punctuation, symbols) are skipped.
func WordIndices(text string) []Token {
	var tokens []Token
	state := -1
	offset := 0
	rest := text
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if isWord(word) {
			tokens = append(tokens, Token{Offset: offset, Word: word})
		}
		offset += len(word)
	}
	return tokens
}

// Words returns the words of text without offsets.
func Words(text string) []string {
	tokens := WordIndices(text)
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Word
	}
	return words
}

func isWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
