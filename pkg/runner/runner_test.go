package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/no-hao/DFA"
	"github.com/no-hao/DFA/pkg/adapters/memory"
	"github.com/no-hao/DFA/pkg/domain"
	"github.com/no-hao/DFA/pkg/runner"
	"github.com/no-hao/DFA/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulator(t *testing.T) *dfa.Simulator {
	t.Helper()
	loader, err := memory.NewLoader(domain.Definition{
		Name:        "contains-a",
		NumStates:   2,
		Accepting:   []int{1},
		Alphabet:    []domain.Symbol{"a", "b"},
		Transitions: [][]int{{1, 0}, {1, 1}},
	})
	require.NoError(t, err)
	sim, err := dfa.New("", dfa.WithLoader(loader))
	require.NoError(t, err)
	return sim
}

func TestRunner_TextTranscript(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("ab\nac\nQUIT\nbb\n")

	r := runner.NewRunner(newSimulator(t),
		runner.WithInputHandler(runner.NewTextHandler(in, &out)),
	)
	require.NoError(t, r.Run(context.Background()))

	want := runner.Prompt + ">>>Computation…\n" +
		"0,ab -> 1,b\n" +
		"1,b -> 1,{e}\n" +
		"ACCEPTED\n\n" +
		runner.Prompt + ">>>Computation…\n" +
		"0,ac -> 1,c\n" +
		"1,c -> INVALID INPUT\n" +
		"REJECTED\n\n" +
		runner.Prompt + ">>>Goodbye!\n"
	assert.Equal(t, want, out.String(), "input after quit must not be evaluated")
}

func TestRunner_EOFEndsCleanly(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(newSimulator(t),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("ba"), &out)),
	)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "0,ba -> 0,a\n0,a -> 1,{e}\nACCEPTED\n")
	assert.NotContains(t, out.String(), "Goodbye")
}

func TestRunner_EmptyLine(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(newSimulator(t),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("\nquit\n"), &out)),
	)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), ">>>Computation…\nREJECTED\n\n")
}

func TestRunner_OversizedInputIsRetried(t *testing.T) {
	var out bytes.Buffer
	handler := runner.NewTextHandler(strings.NewReader("aaaaaa\nab\nquit\n"), &out,
		runner.WithTextHandlerMaxInputSize(4),
	)
	r := runner.NewRunner(newSimulator(t), runner.WithInputHandler(handler))

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), ">>>Error: input exceeds maximum allowed size")
	assert.Equal(t, 1, strings.Count(out.String(), "ACCEPTED"))
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(newSimulator(t),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("ab\n"), &bytes.Buffer{})),
	)
	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_RecordsSessions(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	r := runner.NewRunner(newSimulator(t),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("a\nb\n"), &bytes.Buffer{})),
		runner.WithSessions(manager, "shell-1"),
	)
	require.NoError(t, r.Run(context.Background()))

	transcript, err := manager.Load(context.Background(), "shell-1")
	require.NoError(t, err)
	require.Len(t, transcript.Runs, 2)
	assert.Equal(t, domain.VerdictAccepted, transcript.Runs[0].Verdict)
	assert.Equal(t, domain.VerdictRejected, transcript.Runs[1].Verdict)
}

func TestRunner_JSONMode(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("\"ab\"\nba\nquit\n")

	r := runner.NewRunner(newSimulator(t),
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
	)
	require.NoError(t, r.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2, "quit is silent in JSON mode")

	var first domain.Result
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, []domain.Symbol{"a", "b"}, first.Input)
	assert.Equal(t, domain.VerdictAccepted, first.Verdict)
	assert.Len(t, first.Trace, 3)
	assert.Equal(t, domain.EntryExhausted, first.Trace[2].Kind)
}

func TestJSONHandler_RejectsInvalidInput(t *testing.T) {
	var out bytes.Buffer
	h := runner.NewJSONHandler(strings.NewReader("\"\\u001b\"\n\xff\nab\n"), &out)

	line, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", line, "control characters are stripped")

	line, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
	assert.Contains(t, out.String(), `"error":"input contains invalid UTF-8 sequences"`)
}

func TestIsQuit(t *testing.T) {
	for _, s := range []string{"quit", "Quit", "QUIT", " quit "} {
		assert.True(t, runner.IsQuit(s), s)
	}
	for _, s := range []string{"", "quitter", "q"} {
		assert.False(t, runner.IsQuit(s), s)
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, runner.IsTerminal(&bytes.Buffer{}))
	assert.False(t, runner.Interactive(strings.NewReader(""), &bytes.Buffer{}))
}
