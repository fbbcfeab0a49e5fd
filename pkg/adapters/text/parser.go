// Package text reads and writes the line-oriented DFA definition format.
//
//	2        <- number of states
//	1        <- accepting state ids (may be blank)
//	a b      <- alphabet
//	1 0      <- transition row of state 0, one target per symbol
//	1 1      <- transition row of state 1
//
// Fields are whitespace separated. Lines after the last transition row are ignored.
package text

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/no-hao/DFA/pkg/domain"
)

const headerLines = 3

// Parse decodes a definition from r.
// It checks syntax only (line count, integers); domain.Build checks the invariants.
func Parse(r io.Reader) (*domain.Definition, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}

	if len(lines) < headerLines {
		return nil, domain.Malformed("header",
			fmt.Sprintf("expected at least %d lines (states, accepting, alphabet)", headerLines), len(lines))
	}

	fields := strings.Fields(lines[0])
	if len(fields) != 1 {
		return nil, domain.Malformed("line 1", "expected a single state count", lines[0])
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, domain.Malformed("line 1", "state count is not an integer", fields[0])
	}

	accepting, err := parseInts(lines[1], 2)
	if err != nil {
		return nil, err
	}

	alphabet := make([]domain.Symbol, 0)
	for _, f := range strings.Fields(lines[2]) {
		alphabet = append(alphabet, domain.Symbol(f))
	}

	if n > 0 && len(lines) < headerLines+n {
		return nil, domain.Malformed(fmt.Sprintf("line %d", len(lines)+1),
			fmt.Sprintf("missing transition row for state %d", len(lines)-headerLines), nil)
	}

	rows := make([][]int, 0, max(n, 0))
	for i := 0; i < n; i++ {
		row, err := parseInts(lines[headerLines+i], headerLines+i+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return &domain.Definition{
		NumStates:   n,
		Accepting:   accepting,
		Alphabet:    alphabet,
		Transitions: rows,
	}, nil
}

func parseInts(line string, lineNo int) ([]int, error) {
	fields := strings.Fields(line)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, domain.Malformed(fmt.Sprintf("line %d", lineNo), "expected integers", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode writes def in the line-oriented format.
func Encode(w io.Writer, def domain.Definition) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, def.NumStates)
	fmt.Fprintln(bw, joinInts(def.Accepting))

	symbols := make([]string, len(def.Alphabet))
	for i, s := range def.Alphabet {
		if s == "" || strings.ContainsFunc(string(s), isSpace) {
			return fmt.Errorf("symbol %q cannot be written in the text format", string(s))
		}
		symbols[i] = string(s)
	}
	fmt.Fprintln(bw, strings.Join(symbols, " "))

	for _, row := range def.Transitions {
		fmt.Fprintln(bw, joinInts(row))
	}
	return bw.Flush()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
