// Package gridio parses and renders the crossword grid's flat text
// format, and extracts its maximal letter runs as words. Grounded on
// original_source/ui.hpp: ExtractWords ports extract_words_line's
// regex scan (maximal runs of 2-or-more letters, split on a black tile
// or line boundary), while parsing and rendering supply the file-based
// counterpart to ui.hpp's interactive ncurses editor, which is itself
// out of scope.
package gridio

import (
	"bufio"
	"fmt"
	"io"

	"motscroises/internal/automaton"
	"motscroises/internal/constraint"
)

// BlackTile is the external text representation of a black tile cell.
const BlackTile = '#'

// Unknown is the external representation of a cell that is neither
// pinned in the input nor resolved in the output.
const Unknown = '?'

// CellNamer maps a grid coordinate to the Space variable name backing
// that cell; gridmodel.WordVariableModel.CellName and
// gridmodel.LetterOnlyModel.CellName both satisfy it.
type CellNamer func(x, y int) string

// ParseGrid reads exactly height rows of at least width characters:
// 'a'-'z' pins that letter, '#' pins a black tile, and any other
// character (typically '.' or '?') leaves the cell free. The returned
// map is keyed by flattened index x+y*width and is ready to pass to
// gridmodel.NewWordVariableModel.
func ParseGrid(r io.Reader, width, height int) (map[int]int, error) {
	pinned := make(map[int]int)
	scanner := bufio.NewScanner(r)
	y := 0
	for y < height && scanner.Scan() {
		runes := []rune(scanner.Text())
		if len(runes) < width {
			return nil, fmt.Errorf("gridio: row %d has %d cells, want %d", y, len(runes), width)
		}
		for x := 0; x < width; x++ {
			c := runes[x]
			switch {
			case c >= 'a' && c <= 'z':
				pinned[x+y*width] = int(c)
			case c == BlackTile:
				pinned[x+y*width] = automaton.MaxSymbol
			}
		}
		y++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("gridio: read failed: %w", err)
	}
	if y < height {
		return nil, fmt.Errorf("gridio: expected %d rows, got %d", height, y)
	}
	return pinned, nil
}

// RenderGrid writes height rows of width cells each: an assigned letter prints as
// itself, an assigned black tile prints as '#', and an unassigned cell
// prints as '?'.
func RenderGrid(w io.Writer, sp *constraint.Space, width, height int, cellName CellNamer) error {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val, ok := sp.Var(cellName(x, y)).Value()
			var c rune
			switch {
			case !ok:
				c = Unknown
			case val == automaton.MaxSymbol:
				c = BlackTile
			default:
				c = rune(val)
			}
			if _, err := fmt.Fprint(w, string(c)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// ExtractWords scans every row then every column of a solved space for
// maximal runs of two or more letter cells, a run ending at a black
// tile, an unassigned cell, or the line boundary. Mirrors
// extract_words_line's regex-driven scan, applied once per full row
// and once per full column exactly as extract_words does.
func ExtractWords(sp *constraint.Space, width, height int, cellName CellNamer) []string {
	var words []string

	scanLine := func(n int, at func(i int) (int, bool)) {
		run := make([]rune, 0, n)
		flush := func() {
			if len(run) >= 2 {
				words = append(words, string(run))
			}
			run = run[:0]
		}
		for i := 0; i < n; i++ {
			val, ok := at(i)
			if ok && val >= automaton.MinSymbol && val < automaton.MaxSymbol {
				run = append(run, rune(val))
			} else {
				flush()
			}
		}
		flush()
	}

	for y := 0; y < height; y++ {
		row := y
		scanLine(width, func(x int) (int, bool) { return sp.Var(cellName(x, row)).Value() })
	}
	for x := 0; x < width; x++ {
		col := x
		scanLine(height, func(y int) (int, bool) { return sp.Var(cellName(col, y)).Value() })
	}

	return words
}
