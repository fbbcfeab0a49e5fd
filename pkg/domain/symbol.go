package domain

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Symbol is a single token of the input alphabet.
// Symbols are usually one character long, but nothing in the model relies on it.
type Symbol string

// Tokenize splits s into one symbol per rune.
func Tokenize(s string) []Symbol {
	symbols := make([]Symbol, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		symbols = append(symbols, Symbol(r))
	}
	return symbols
}

// TokenizeWith splits s using the longest alphabet symbol that matches at each position.
// Text that matches no symbol is emitted one rune at a time, so the engine reports it as unknown.
func TokenizeWith(s string, alphabet []Symbol) []Symbol {
	candidates := slices.Clone(alphabet)
	slices.SortStableFunc(candidates, func(a, b Symbol) int {
		return cmp.Compare(len(b), len(a))
	})

	var symbols []Symbol
	for len(s) > 0 {
		matched := false
		for _, sym := range candidates {
			if sym != "" && strings.HasPrefix(s, string(sym)) {
				symbols = append(symbols, sym)
				s = s[len(sym):]
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(s)
			symbols = append(symbols, Symbol(s[:size]))
			s = s[size:]
		}
	}
	return symbols
}

// JoinSymbols concatenates symbols back into their textual form.
func JoinSymbols(symbols []Symbol) string {
	var sb strings.Builder
	for _, s := range symbols {
		sb.WriteString(string(s))
	}
	return sb.String()
}
