package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the kanban banner, coloured for the terminal's profile.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _  __                 _", "#818cf8"},
		{"| |/ /__ _ _ __   __ _| |__   __ _ _ __", "#a78bfa"},
		{"| ' // _` | '_ \\ / _` | '_ \\ / _` | '_ \\", "#c084fc"},
		{"| . \\ (_| | | | | (_| | |_) | (_| | | | |", "#e879f9"},
		{"|_|\\_\\__,_|_| |_|\\__,_|_.__/ \\__,_|_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
