package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Surveyor ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___ _  _ _ ____ _____ _   _ ___  ___ ", "#34d399"},
		{" / __| || | '_\\ \\ / / -_) || / _ \\| '_|", "#2dd4bf"},
		{" \\__ \\ || | |  \\ V /\\___|\\_, \\___/|_|  ", "#22d3ee"},
		{" |___/\\_,_|_|   \\_/      |__/          ", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// StatusLine colors a status line by outcome: green when done, yellow while paths remain.
func StatusLine(status string, done bool) string {
	p := termenv.ColorProfile()
	color := "#facc15"
	if done {
		color = "#4ade80"
	}
	return termenv.String(status).Foreground(p.Color(color)).String()
}
