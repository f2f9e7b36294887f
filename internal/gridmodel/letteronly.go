package gridmodel

import (
	"fmt"

	"motscroises/internal/automaton"
	"motscroises/internal/constraint"
	"motscroises/internal/dictionary"
)

// Placement pins one mandatory word onto a specific line at a specific
// offset, mirroring main.cpp's WordConstraint: every cell the word
// covers gets its domain collapsed to that single letter before
// propagation begins, and the cells directly before and after the word
// on its line (where the line has them) are pinned to black tiles, so
// the word stands as a whole run.
type Placement struct {
	Word       string
	Line       int // row index if Horizontal, column index otherwise
	Horizontal bool
	StartPos   int // offset of the word's first letter within the line
}

// LetterOnlyModel is the letter-only formulation: one variable per
// cell, no id/position bookkeeping at all. Word validity is enforced
// purely by requiring every full row and column to be accepted by the
// NoIndex DFA, which in turn accepts a line iff every maximal run of
// 2-or-more letters is a dictionary word. Grounded on main.cpp's
// Crosswords class; used whenever mandatory words are pinned, since
// an id-variable formulation cannot express "this literal word,
// somewhere on this line" without first committing to a position.
type LetterOnlyModel struct {
	Width, Height int
	Space         *constraint.Space
}

// NewLetterOnlyModel builds the cell grid and its row/column
// constraints, pinning every cell covered by a placement to its
// required letter first so that extensional propagation starts from
// the narrowed domains, matching the reference order (pin, then post
// extensional constraints).
func NewLetterOnlyModel(dict *dictionary.Index, width, height, blackTileCap int, placements []Placement) (*LetterOnlyModel, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("gridmodel: grid dimensions must be positive, got %dx%d", width, height)
	}

	pinned := make(map[int]int)
	for _, p := range placements {
		runes := []rune(p.Word)
		for i, c := range runes {
			pos := p.StartPos + i
			var x, y int
			if p.Horizontal {
				if pos >= width {
					return nil, fmt.Errorf("gridmodel: placement %q overruns row width %d", p.Word, width)
				}
				x, y = pos, p.Line
			} else {
				if pos >= height {
					return nil, fmt.Errorf("gridmodel: placement %q overruns column height %d", p.Word, height)
				}
				x, y = p.Line, pos
			}
			cell := x + y*width
			if existing, ok := pinned[cell]; ok && existing != int(c) {
				return nil, fmt.Errorf("gridmodel: conflicting placements at cell (%d,%d)", x, y)
			}
			pinned[cell] = int(c)
		}
		lineLen, end := width, p.StartPos+len(runes)
		if !p.Horizontal {
			lineLen = height
		}
		for _, pos := range []int{p.StartPos - 1, end} {
			if pos < 0 || pos >= lineLen {
				continue
			}
			cell := pos + p.Line*width
			if !p.Horizontal {
				cell = p.Line + pos*width
			}
			if existing, ok := pinned[cell]; ok && existing != automaton.MaxSymbol {
				return nil, fmt.Errorf("gridmodel: placement %q borders a letter of another placement", p.Word)
			}
			pinned[cell] = automaton.MaxSymbol
		}
	}

	sp := constraint.NewSpace()
	m := &LetterOnlyModel{Width: width, Height: height, Space: sp}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			name := cellName(x, y)
			if code, ok := pinned[x+y*width]; ok {
				sp.AddVar(constraint.NewVar(name, code))
			} else {
				sp.AddVar(constraint.NewVarRange(name, automaton.MinSymbol, automaton.MaxSymbol))
			}
		}
	}

	longest := width
	if height > longest {
		longest = height
	}
	noIndex := automaton.MakeNoIndex(dict, longest).Compile()

	blackNames := make([]string, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			blackNames = append(blackNames, cellName(x, y))
		}
	}
	sp.Post(&constraint.CountAtMost{Names: blackNames, Value: automaton.MaxSymbol, Cap: blackTileCap})

	for y := 0; y < height; y++ {
		sp.Post(&constraint.Extensional{Names: sliceNames(cellName, 0, y, 1, 0, width), DFA: noIndex})
	}
	for x := 0; x < width; x++ {
		sp.Post(&constraint.Extensional{Names: sliceNames(cellName, x, 0, 0, 1, height), DFA: noIndex})
	}

	return m, nil
}

// BranchGroups returns a single phase over every cell, natural order
// with a random value, mirroring main.cpp's branch(*this, letters,
// INT_VAR_RND(seed), INT_VAL_RND(seed)). The variable-order randomness
// itself is the search driver's concern; this model only commits to
// "all cells, one flat phase".
func (m *LetterOnlyModel) BranchGroups() []BranchGroup {
	names := make([]string, 0, m.Width*m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			names = append(names, cellName(x, y))
		}
	}
	return []BranchGroup{{Names: names, VarOrder: HeuristicNatural, ValueKind: ValueRandom}}
}

// CellName returns the Space variable name for grid cell (x, y).
func (m *LetterOnlyModel) CellName(x, y int) string { return cellName(x, y) }
