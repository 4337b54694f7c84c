package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the editor banner to w, coloured for the detected terminal profile.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, colour string
	}{
		{"  ___ _         _    ___         _", "#4C97FF"},
		{" | _ ) |___  __| |__| __|_ _ __| |_ ___ _ _ _  _", "#5CB1D6"},
		{" | _ \\ / _ \\/ _| / /| _/ _` / _|  _/ _ \\ '_| || |", "#59C059"},
		{" |___/_\\___/\\__|_\\_\\|_|\\__,_\\__|\\__\\___/_|  \\_, |", "#FFAB19"},
		{"                                            |__/", "#FF8C1A"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.colour)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
