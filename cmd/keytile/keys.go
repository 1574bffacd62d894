package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/keytile/internal/config"
	"github.com/1broseidon/keytile/internal/grid"
)

// runKeys prints the grid key layout for the configured grid so users
// can learn which key lands in which cell without opening a session.
func runKeys(args []string) int {
	fs := flag.NewFlagSet("keys", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: keytile keys")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the key-to-cell layout for the configured grid.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "keys takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	g := cfg.GridSettings()

	fmt.Printf("Grid: %d columns x %d rows\n", g.Columns, g.Rows)
	fmt.Println("Press two keys to pick a span; one corner, then the opposite corner.")
	fmt.Println()
	printKeyGrid(os.Stdout, g)
	return 0
}

// printKeyGrid draws the key layout as a boxed grid, sized to the
// terminal width when stdout is a terminal.
func printKeyGrid(w *os.File, g grid.Config) {
	cellWidth := 7
	if term.IsTerminal(int(w.Fd())) {
		if cols, _, err := term.GetSize(int(w.Fd())); err == nil {
			avail := (cols - 1) / g.Columns
			if avail-1 < cellWidth {
				cellWidth = avail - 1
			}
		}
	}
	if cellWidth < 3 {
		cellWidth = 3
	}

	border := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", g.Columns)
	for row := 0; row < g.Rows; row++ {
		fmt.Fprintln(w, border)
		var b strings.Builder
		b.WriteString("|")
		for col := 0; col < g.Columns; col++ {
			key := grid.KeyForCell(grid.Cell{Row: row, Col: col}, g.Rows, g.Columns)
			label := strings.ToUpper(string(key))
			left := (cellWidth - len(label)) / 2
			right := cellWidth - len(label) - left
			b.WriteString(strings.Repeat(" ", left))
			b.WriteString(label)
			b.WriteString(strings.Repeat(" ", right))
			b.WriteString("|")
		}
		fmt.Fprintln(w, b.String())
	}
	fmt.Fprintln(w, border)
}
