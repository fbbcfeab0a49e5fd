package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"github.com/no-hao/DFA/internal/presentation/trace"
	"github.com/no-hao/DFA/pkg/domain"
)

const (
	// Prompt is printed before every read.
	Prompt = ">>>Please enter a string to evaluate (or 'Quit' to exit): "
	// SystemPrefix marks meta-messages in the text transcript.
	SystemPrefix = ">>>"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader       *bufio.Reader
	Writer       io.Writer
	Printer      *trace.Printer
	MaxInputSize int // 0 reads DFA_MAX_INPUT_SIZE or uses DefaultMaxInputSize

	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerPrinter configures how traces and verdicts are printed.
func WithTextHandlerPrinter(p *trace.Printer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Printer = p
	}
}

// WithTextHandlerMaxInputSize overrides the input size limit in bytes.
func WithTextHandlerMaxInputSize(limit int) TextHandlerOption {
	return func(h *TextHandler) {
		h.MaxInputSize = limit
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Printer: trace.NewPrinter(termenv.Ascii),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		if h.done == nil {
			h.done = make(chan struct{})
		}
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation.
// It exits at the end of input or, after Close, once its pending read returns.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')

		// A final line without newline is still a line.
		if text != "" && !h.send(inputResult{text: text}) {
			return
		}
		if err != nil {
			if err != io.EOF {
				h.send(inputResult{err: err})
			}
			return
		}
	}
}

func (h *TextHandler) send(res inputResult) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.inputChan <- res:
		return true
	case <-h.done:
		return false
	}
}

// Close stops the background reader. Input returns io.EOF afterwards.
// A read already blocked on the underlying reader finishes before the reader exits.
func (h *TextHandler) Close() error {
	h.closeOnce.Do(func() {
		if h.done == nil {
			h.done = make(chan struct{})
		}
		close(h.done)
	})
	return nil
}

// Input prints the prompt and reads one line.
// Only the line terminator is removed: blanks are symbols like any other.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-h.done:
			return "", io.EOF
		default:
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, Prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-h.done:
			return "", io.EOF
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			text := strings.TrimRight(res.text, "\r\n")

			clean, err := SanitizeInputLimit(text, h.limit())
			if err != nil {
				fmt.Fprintf(h.Writer, "%sError: %v. Please try again.\n", SystemPrefix, err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) limit() int {
	if h.MaxInputSize > 0 {
		return h.MaxInputSize
	}
	return getMaxInputSize()
}

// Output prints the computation transcript followed by the verdict.
func (h *TextHandler) Output(ctx context.Context, result *domain.Result) error {
	if _, err := fmt.Fprintf(h.Writer, "%sComputation…\n", SystemPrefix); err != nil {
		return err
	}
	return h.Printer.Print(h.Writer, result)
}

// SystemOutput prints a prefixed meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "%s%s\n", SystemPrefix, msg)
	return err
}
