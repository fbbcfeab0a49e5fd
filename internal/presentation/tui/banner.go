package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner shown when the interactive shell starts.
func PrintBanner(w io.Writer, profile termenv.Profile) {
	// Gradient from indigo to rose, one color per line
	lines := []struct{ text, color string }{
		{"  ____  _____  _    ", "#818cf8"},
		{" |  _ \\|  ___|/ \\   ", "#a78bfa"},
		{" | | | | |_  / _ \\  ", "#c084fc"},
		{" | |_| |  _|/ ___ \\ ", "#e879f9"},
		{" |____/|_| /_/   \\_\\", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, profile.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w)
}
