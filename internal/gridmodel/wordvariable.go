// Package gridmodel wires a dictionary and a family of DFAs into a
// concrete constraint.Space for one W*H crossword grid. Two
// formulations are offered, mirroring the two Gecode scripts in
// original_source: WordVariableModel posts one id variable per word
// slot (grounded on crosswords.hpp) and prunes far more aggressively,
// while LetterOnlyModel posts one variable per cell and validates
// words after the fact via the NoIndex DFA (grounded on main.cpp's
// Crosswords class). The word-variable model is used whenever no
// mandatory words are pinned; the letter-only model is used whenever
// mandatory words must be placed, since id variables cannot express
// "this exact word, at an unknown position" as cheaply as a letter-run
// scan can.
package gridmodel

import (
	"fmt"

	"motscroises/internal/automaton"
	"motscroises/internal/constraint"
	"motscroises/internal/dictionary"
)

// ValueStrategy selects how a branch picks a value from the chosen
// variable's domain.
type ValueStrategy int

const (
	// ValueRandom mirrors Gecode's INT_VAL_RND: pick uniformly among
	// the remaining domain values.
	ValueRandom ValueStrategy = iota
	// ValueMin mirrors INT_VAL_MIN: pick the smallest remaining value.
	ValueMin
)

// VarHeuristic selects which unassigned variable a branch commits to
// next.
type VarHeuristic int

const (
	// HeuristicSizeMin mirrors Gecode's INT_VAR_SIZE_MIN: the
	// unassigned variable with the smallest domain goes first.
	HeuristicSizeMin VarHeuristic = iota
	// HeuristicNatural mirrors INT_VAR_NONE: variables are tried in
	// declaration order.
	HeuristicNatural
)

// BranchGroup is one phase of a branching schedule: a set of variable
// names to exhaust, in what order, with what value choice, before the
// next group is even considered.
type BranchGroup struct {
	Names     []string
	VarOrder  VarHeuristic
	ValueKind ValueStrategy
}

func cellName(x, y int) string { return fmt.Sprintf("l%d_%d", x, y) }

func idxNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return names
}

func sliceNames(letters func(x, y int) string, startX, startY, stepX, stepY, count int) []string {
	names := make([]string, count)
	x, y := startX, startY
	for i := 0; i < count; i++ {
		names[i] = letters(x, y)
		x += stepX
		y += stepY
	}
	return names
}

// firstIDAtLeast finds the lowest id among words of length in
// [minLen, maxLen], skipping lengths with an empty bucket. Relies on
// dictionary.Index's contiguous cross-length numbering, so a gap at
// one length does not break the search.
func firstIDAtLeast(dict *dictionary.Index, minLen, maxLen int) (int, error) {
	for l := minLen; l <= maxLen; l++ {
		if id, err := dict.FirstID(l); err == nil {
			return id, nil
		}
	}
	return 0, fmt.Errorf("gridmodel: no words of length %d..%d", minLen, maxLen)
}

// lastIDAtMost finds the highest id among words of length in
// [minLen, maxLen], scanning from maxLen downward.
func lastIDAtMost(dict *dictionary.Index, maxLen, minLen int) (int, error) {
	for l := maxLen; l >= minLen; l-- {
		if id, err := dict.LastID(l); err == nil {
			return id, nil
		}
	}
	return 0, fmt.Errorf("gridmodel: no words of length %d..%d", minLen, maxLen)
}

// lastIDOrSentinel is used for the "second word, possibly absent"
// index domains: if no word is short enough to be a second word at
// all, the domain collapses to just the absence sentinel.
func lastIDOrSentinel(dict *dictionary.Index, maxLen, minLen int) int {
	id, err := lastIDAtMost(dict, maxLen, minLen)
	if err != nil {
		return dictionary.MinIndex
	}
	return id
}

// WordVariableModel is the id-based formulation: one letter variable
// per cell, plus per-line id/position/length variables that an
// extensional constraint ties back to the letters. Grounded on
// crosswords.hpp's Crosswords class, field for field.
type WordVariableModel struct {
	Width, Height int
	Space         *constraint.Space

	indBH, indBV           []string
	ind1H, ind2H           []string
	ind1V, ind2V           []string
	wordPos1H, wordPos2H   []string
	wordPos1V, wordPos2V   []string
	wordLen1H, wordLen1V   []string
}

// BlackTileSymbol is the alphabet code for a black tile, matching
// automaton.MaxSymbol ('z'+1).
const BlackTileSymbol = automaton.MaxSymbol

// NewWordVariableModel builds the full variable and constraint set for
// a width*height grid over dict. pinned maps a flattened cell index
// (x + y*width) to either a lowercase letter rune or BlackTileSymbol,
// for cells whose content is fixed in advance; pass nil for a blank
// grid. blackTileCap bounds how many cells may be black tiles.
func NewWordVariableModel(dict *dictionary.Index, width, height, blackTileCap int, pinned map[int]int) (*WordVariableModel, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("gridmodel: grid must be at least 3x3, got %dx%d", width, height)
	}

	sp := constraint.NewSpace()
	m := &WordVariableModel{Width: width, Height: height, Space: sp}

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

	// With no word of the border length the border domains are left
	// empty, so propagation fails and the search reports no solution.
	borderFirst, err := dict.FirstID(width)
	borderLast, _ := dict.LastID(width)
	if err != nil {
		borderFirst, borderLast = 1, 0
	}
	m.indBH = idxNames("indBH", 2)
	for _, n := range m.indBH {
		sp.AddVar(constraint.NewVarRange(n, borderFirst, borderLast))
	}

	borderVFirst, err := dict.FirstID(height)
	borderVLast, _ := dict.LastID(height)
	if err != nil {
		borderVFirst, borderVLast = 1, 0
	}
	m.indBV = idxNames("indBV", 2)
	for _, n := range m.indBV {
		sp.AddVar(constraint.NewVarRange(n, borderVFirst, borderVLast))
	}

	nRowsInterior := height - 2
	nColsInterior := width - 2

	longestLine := width
	if height > longestLine {
		longestLine = height
	}
	first2, err := firstIDAtLeast(dict, dictionary.MinLength, longestLine)
	if err != nil {
		return nil, fmt.Errorf("gridmodel: %w", err)
	}
	ind1HLast, err := lastIDAtMost(dict, width, dictionary.MinLength)
	if err != nil {
		return nil, fmt.Errorf("gridmodel: first word horizontal: %w", err)
	}
	m.ind1H = idxNames("ind1H", nRowsInterior)
	for _, n := range m.ind1H {
		sp.AddVar(constraint.NewVarRange(n, first2, ind1HLast))
	}

	ind1VLast, err := lastIDAtMost(dict, height, dictionary.MinLength)
	if err != nil {
		return nil, fmt.Errorf("gridmodel: first word vertical: %w", err)
	}
	m.ind1V = idxNames("ind1V", nColsInterior)
	for _, n := range m.ind1V {
		sp.AddVar(constraint.NewVarRange(n, first2, ind1VLast))
	}

	ind2HLast := lastIDOrSentinel(dict, width-3, dictionary.MinLength)
	m.ind2H = idxNames("ind2H", nRowsInterior)
	for _, n := range m.ind2H {
		sp.AddVar(constraint.NewVarRange(n, dictionary.MinIndex, ind2HLast))
	}

	ind2VLast := lastIDOrSentinel(dict, height-3, dictionary.MinLength)
	m.ind2V = idxNames("ind2V", nColsInterior)
	for _, n := range m.ind2V {
		sp.AddVar(constraint.NewVarRange(n, dictionary.MinIndex, ind2VLast))
	}

	m.wordPos1H = idxNames("wordPos1H", nRowsInterior)
	m.wordPos2H = idxNames("wordPos2H", nRowsInterior)
	for _, n := range m.wordPos1H {
		sp.AddVar(constraint.NewVar(n, 0, 2))
	}
	for _, n := range m.wordPos2H {
		sp.AddVar(constraint.NewVarRange(n, 3, width+1))
	}

	m.wordPos1V = idxNames("wordPos1V", nColsInterior)
	m.wordPos2V = idxNames("wordPos2V", nColsInterior)
	for _, n := range m.wordPos1V {
		sp.AddVar(constraint.NewVar(n, 0, 2))
	}
	for _, n := range m.wordPos2V {
		sp.AddVar(constraint.NewVarRange(n, 3, height+1))
	}

	m.wordLen1H = idxNames("wordLen1H", nRowsInterior)
	for _, n := range m.wordLen1H {
		sp.AddVar(constraint.NewVarRange(n, 2, width))
	}
	m.wordLen1V = idxNames("wordLen1V", nColsInterior)
	for _, n := range m.wordLen1V {
		sp.AddVar(constraint.NewVarRange(n, 2, height))
	}

	dfas := automaton.Build(dict, width, height)

	blackNames := make([]string, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			blackNames = append(blackNames, cellName(x, y))
		}
	}
	sp.Post(&constraint.CountAtMost{Names: blackNames, Value: automaton.MaxSymbol, Cap: blackTileCap})

	allIndices := append(append(append(append(append(append([]string{},
		m.indBH...), m.indBV...), m.ind1H...), m.ind2H...), m.ind1V...), m.ind2V...)
	sp.Post(&constraint.DistinctExcept{Names: allIndices, Except: dictionary.MinIndex})

	letters := func(x, y int) string { return cellName(x, y) }

	topRow := sliceNames(letters, 0, 0, 1, 0, width)
	sp.Post(&constraint.Extensional{Names: append(topRow, m.indBH[0]), DFA: dfas.BorderH})
	botRow := sliceNames(letters, 0, height-1, 1, 0, width)
	sp.Post(&constraint.Extensional{Names: append(botRow, m.indBH[1]), DFA: dfas.BorderH})

	leftCol := sliceNames(letters, 0, 0, 0, 1, height)
	sp.Post(&constraint.Extensional{Names: append(leftCol, m.indBV[0]), DFA: dfas.BorderV})
	rightCol := sliceNames(letters, width-1, 0, 0, 1, height)
	sp.Post(&constraint.Extensional{Names: append(rightCol, m.indBV[1]), DFA: dfas.BorderV})

	for y := 1; y < height-1; y++ {
		i := y - 1
		row := sliceNames(letters, 0, y, 1, 0, width)
		seq := []string{m.wordPos1H[i]}
		seq = append(seq, row...)
		seq = append(seq, m.ind1H[i], m.wordLen1H[i])
		sp.Post(&constraint.Extensional{Names: seq, DFA: dfas.FirstH})

		reduced := sliceNames(letters, 3, y, 1, 0, width-3)
		seq2 := []string{m.wordPos2H[i]}
		seq2 = append(seq2, reduced...)
		seq2 = append(seq2, m.ind2H[i])
		sp.Post(&constraint.Extensional{Names: seq2, DFA: dfas.SecondH})

		sp.Post(&constraint.LinearEq{Result: m.wordPos2H[i], A: m.wordPos1H[i], B: m.wordLen1H[i], Offset: 1})
	}

	for x := 1; x < width-1; x++ {
		i := x - 1
		col := sliceNames(letters, x, 0, 0, 1, height)
		seq := []string{m.wordPos1V[i]}
		seq = append(seq, col...)
		seq = append(seq, m.ind1V[i], m.wordLen1V[i])
		sp.Post(&constraint.Extensional{Names: seq, DFA: dfas.FirstV})

		reduced := sliceNames(letters, x, 3, 0, 1, height-3)
		seq2 := []string{m.wordPos2V[i]}
		seq2 = append(seq2, reduced...)
		seq2 = append(seq2, m.ind2V[i])
		sp.Post(&constraint.Extensional{Names: seq2, DFA: dfas.SecondV})

		sp.Post(&constraint.LinearEq{Result: m.wordPos2V[i], A: m.wordPos1V[i], B: m.wordLen1V[i], Offset: 1})
	}

	return m, nil
}

// BranchGroups returns the three-phase branching schedule in the exact
// order crosswords.hpp posts it: border and first-word ids by
// smallest-domain-first with a random value, then second-word ids in
// declared order with a random value, then first-word start positions
// in declared order taking the minimum value.
func (m *WordVariableModel) BranchGroups() []BranchGroup {
	phase1 := append(append(append(append([]string{}, m.indBH...), m.indBV...), m.ind1H...), m.ind1V...)
	phase2 := append(append([]string{}, m.ind2H...), m.ind2V...)
	phase3 := append(append([]string{}, m.wordPos1H...), m.wordPos1V...)

	return []BranchGroup{
		{Names: phase1, VarOrder: HeuristicSizeMin, ValueKind: ValueRandom},
		{Names: phase2, VarOrder: HeuristicNatural, ValueKind: ValueRandom},
		{Names: phase3, VarOrder: HeuristicNatural, ValueKind: ValueMin},
	}
}

// CellName returns the Space variable name for grid cell (x, y).
func (m *WordVariableModel) CellName(x, y int) string { return cellName(x, y) }
