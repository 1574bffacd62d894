package grid

import "unicode"

// Key layout for up to 4 rows x 8 columns.
//
// For 1-3 rows the letter rows are used top-down:
//
//	Row 0: Q W E R T Y U I
//	Row 1: A S D F G H J K
//	Row 2: Z X C V B N M ,
//
// For 4 rows a number row is prepended and the letter rows shift down:
//
//	Row 0: 1 2 3 4 5 6 7 8
//	Row 1: Q W E R T Y U I
//	Row 2: A S D F G H J K
//	Row 3: Z X C V B N M ,
var (
	letterRows = [3][8]rune{
		{'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I'},
		{'A', 'S', 'D', 'F', 'G', 'H', 'J', 'K'},
		{'Z', 'X', 'C', 'V', 'B', 'N', 'M', ','},
	}
	numberRow = [8]rune{'1', '2', '3', '4', '5', '6', '7', '8'}
)

// MaxRows and MaxColumns bound the key layout table.
const (
	MaxRows    = 4
	MaxColumns = 8
)

// CellForKey maps a pressed key to its grid cell for the given dimensions.
// Keys outside the active rows x columns subgrid return ok=false and are
// ignored by callers. Assumes a validated Config (rows 1-4, columns 1-8).
func CellForKey(key rune, rows, columns int) (Cell, bool) {
	key = unicode.ToUpper(key)

	keyboardRow, col, found := lookupKey(key)
	if !found {
		return Cell{}, false
	}

	// With fewer than 4 rows the number row is unused and the letter
	// rows map directly to grid rows 0-2.
	var row int
	if rows == MaxRows {
		row = keyboardRow
	} else {
		if keyboardRow == 0 {
			return Cell{}, false
		}
		row = keyboardRow - 1
	}

	if row >= rows || col >= columns {
		return Cell{}, false
	}
	return Cell{Row: row, Col: col}, true
}

// KeyForCell returns the key assigned to a cell, or 0 if the cell lies
// outside the active grid.
func KeyForCell(cell Cell, rows, columns int) rune {
	if cell.Row < 0 || cell.Row >= rows || cell.Col < 0 || cell.Col >= columns {
		return 0
	}
	if rows == MaxRows {
		if cell.Row == 0 {
			return numberRow[cell.Col]
		}
		return letterRows[cell.Row-1][cell.Col]
	}
	return letterRows[cell.Row][cell.Col]
}

func lookupKey(key rune) (keyboardRow, col int, found bool) {
	for c, k := range numberRow {
		if k == key {
			return 0, c, true
		}
	}
	for r := range letterRows {
		for c, k := range letterRows[r] {
			if k == key {
				return r + 1, c, true
			}
		}
	}
	return 0, 0, false
}
