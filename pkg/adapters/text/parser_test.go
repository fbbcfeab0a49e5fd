package text

import (
	"bytes"
	"strings"
	"testing"

	"github.com/no-hao/DFA/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reference = `2
1
a b
1 0
1 1
`

func TestParse_Reference(t *testing.T) {
	def, err := Parse(strings.NewReader(reference))
	require.NoError(t, err)

	assert.Equal(t, 2, def.NumStates)
	assert.Equal(t, []int{1}, def.Accepting)
	assert.Equal(t, []domain.Symbol{"a", "b"}, def.Alphabet)
	assert.Equal(t, [][]int{{1, 0}, {1, 1}}, def.Transitions)
}

func TestParse_Variants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, def *domain.Definition)
	}{
		{
			name:  "Blank Accepting Line",
			input: "1\n\nx\n0\n",
			check: func(t *testing.T, def *domain.Definition) {
				assert.Empty(t, def.Accepting)
			},
		},
		{
			name:  "CRLF Line Endings",
			input: "1\r\n0\r\nx y\r\n0 0\r\n",
			check: func(t *testing.T, def *domain.Definition) {
				assert.Equal(t, []domain.Symbol{"x", "y"}, def.Alphabet)
				assert.Equal(t, [][]int{{0, 0}}, def.Transitions)
			},
		},
		{
			name:  "Multi Character Symbols",
			input: "1\n0\nif else\n0 0\n",
			check: func(t *testing.T, def *domain.Definition) {
				assert.Equal(t, []domain.Symbol{"if", "else"}, def.Alphabet)
			},
		},
		{
			name:  "Trailing Lines Ignored",
			input: "1\n0\nx\n0\n\nnotes\n",
			check: func(t *testing.T, def *domain.Definition) {
				assert.Len(t, def.Transitions, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			tt.check(t, def)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"Too Few Lines", "2\n1\n", "header"},
		{"Non Numeric Count", "two\n1\na b\n", "line 1"},
		{"Two Counts", "2 3\n1\na b\n", "line 1"},
		{"Non Numeric Accepting", "1\nzero\na\n0\n", "line 2"},
		{"Missing Row", "2\n1\na b\n1 0\n", "line 5"},
		{"Non Numeric Target", "1\n0\na\nx\n", "line 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, def)
			assert.ErrorIs(t, err, domain.ErrMalformedDefinition)

			var de *domain.DefinitionError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	def, err := Parse(strings.NewReader(reference))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, *def))
	assert.Equal(t, reference, buf.String())
}

func TestEncode_RejectsWhitespaceSymbols(t *testing.T) {
	def := domain.Definition{NumStates: 1, Alphabet: []domain.Symbol{"a b"}, Transitions: [][]int{{0}}}
	err := Encode(&bytes.Buffer{}, def)
	assert.Error(t, err)
}
