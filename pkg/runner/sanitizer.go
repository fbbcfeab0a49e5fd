package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/no-hao/DFA/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "DFA_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput applies SanitizeInputLimit with the limit from the environment.
func SanitizeInput(input string) (string, error) {
	return SanitizeInputLimit(input, getMaxInputSize())
}

// SanitizeInputLimit cleans user input by enforcing a size limit in bytes,
// validating UTF-8, and stripping control characters other than tab.
// Input lines are single strings, so newlines are stripped too.
func SanitizeInputLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(input) > limit {
		// Reject rather than truncate: a truncated string would get a different verdict.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && r != '\t' {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// SanitizeSymbols applies SanitizeSymbolsLimit with the limit from the environment.
func SanitizeSymbols(symbols []string) ([]domain.Symbol, error) {
	return SanitizeSymbolsLimit(symbols, getMaxInputSize())
}

// SanitizeSymbolsLimit validates a pre-tokenized input. Both the symbol count and
// the total size in bytes are bounded by limit, and every symbol must be valid UTF-8.
// Symbols are not rewritten: one outside the alphabet simply rejects the run.
func SanitizeSymbolsLimit(symbols []string, limit int) ([]domain.Symbol, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(symbols) > limit {
		return nil, fmt.Errorf("%w: symbols=%d limit=%d", ErrInputTooLarge, len(symbols), limit)
	}

	out := make([]domain.Symbol, len(symbols))
	size := 0
	for i, sym := range symbols {
		size += len(sym)
		if size > limit {
			return nil, fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, size, limit)
		}
		if !utf8.ValidString(sym) {
			return nil, ErrInvalidUTF8
		}
		out[i] = domain.Symbol(sym)
	}
	return out, nil
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
