package runner

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether r or w is attached to an interactive terminal.
// Used to decide on banners and colors.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether both ends of the session are terminals.
func Interactive(r io.Reader, w io.Writer) bool {
	return IsTerminal(r) && IsTerminal(w)
}
