package tui

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// PrintBanner outputs the castlet ASCII banner when stdout is a
// terminal; piped output stays clean.
func PrintBanner() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	p := termenv.ColorProfile()
	// Teal-to-blue gradient.
	s1 := termenv.String("                _   _      _   ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String("  ___ __ _ ___| |_| | ___| |_ ").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" / __/ _` / __| __| |/ _ \\ __|").Foreground(p.Color("#38bdf8"))
	s4 := termenv.String("| (_| (_| \\__ \\ |_| |  __/ |_ ").Foreground(p.Color("#60a5fa"))
	s5 := termenv.String(" \\___\\__,_|___/\\__|_|\\___|\\__|").Foreground(p.Color("#818cf8"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
