package domain

import (
	"regexp"
	"strconv"
)

var placeholderPattern = regexp.MustCompile(`%(\d+)`)

// TokenKind distinguishes literal text from %N placeholders in a label template.
type TokenKind int

const (
	TokenLiteral TokenKind = iota
	TokenPlaceholder
)

// Token is one segment of a tokenized label template.
type Token struct {
	Kind TokenKind
	// Text is the raw text of the segment ("%2" for placeholders).
	Text string
	// Index is the 1-based input position of a placeholder, or -1 when it overflows.
	Index int
}

// Tokenize splits a label template into alternating literal and placeholder tokens, in order.
// Empty literals between adjacent placeholders are not emitted.
func Tokenize(template string) []Token {
	var tokens []Token
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(template, -1) {
		if m[0] > last {
			tokens = append(tokens, Token{Kind: TokenLiteral, Text: template[last:m[0]]})
		}
		idx, err := strconv.Atoi(template[m[2]:m[3]])
		if err != nil {
			idx = -1
		}
		tokens = append(tokens, Token{Kind: TokenPlaceholder, Text: template[m[0]:m[1]], Index: idx})
		last = m[1]
	}
	if last < len(template) {
		tokens = append(tokens, Token{Kind: TokenLiteral, Text: template[last:]})
	}
	return tokens
}

// HasPlaceholder reports whether the template references the exact 1-based position.
// "%10" does not count as a reference to position 1.
func HasPlaceholder(template string, index int) bool {
	for _, t := range Tokenize(template) {
		if t.Kind == TokenPlaceholder && t.Index == index {
			return true
		}
	}
	return false
}

// Placeholder returns the template token referencing the 1-based position.
func Placeholder(index int) string {
	return "%" + strconv.Itoa(index)
}
