package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/no-hao/DFA/pkg/domain"
)

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Each input line is either a JSON string ("ab") or raw text; each run is
// emitted as one JSON object.
type JSONHandler struct {
	Reader       *bufio.Reader
	Writer       io.Writer
	Encoder      *json.Encoder
	MaxInputSize int
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// jsonError is emitted instead of a result when a line is rejected.
type jsonError struct {
	Error string `json:"error"`
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := h.Reader.ReadString('\n')
		if text == "" && err != nil {
			return "", err
		}
		text = strings.TrimRight(text, "\r\n")

		// Try to unquote if it's a JSON string
		var val string
		if jsonErr := json.Unmarshal([]byte(text), &val); jsonErr == nil {
			text = val
		}

		limit := h.MaxInputSize
		if limit <= 0 {
			limit = getMaxInputSize()
		}
		clean, sanitizeErr := SanitizeInputLimit(text, limit)
		if sanitizeErr != nil {
			if encErr := h.Encoder.Encode(jsonError{Error: sanitizeErr.Error()}); encErr != nil {
				return "", encErr
			}
			if err != nil {
				return "", err
			}
			continue
		}
		return clean, nil
	}
}

// Output emits the result as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, result *domain.Result) error {
	return h.Encoder.Encode(result)
}

// SystemOutput is silent so the stream stays one result per line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return nil
}
