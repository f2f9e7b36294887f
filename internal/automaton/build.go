package automaton

import "motscroises/internal/dictionary"

// MakeBorder builds the DFA accepting <letters of a dictionary word of
// the given length> <that word's id>, for every word of exactly that
// length. It is a literal port of Graph::MakeBorder in
// original_source/dfa.hpp: for each word, walk its letter chain from the
// initial state, then append a transition on the word's id to a fresh
// final state — coupling spelling and id in a single regular language.
func MakeBorder(dict *dictionary.Index, length int) *Graph {
	g := NewGraph()

	words := dict.Bucket(length)
	baseIndex, err := dict.FirstID(length)
	if err != nil {
		return g
	}

	for i, word := range words {
		state := g.AddWord(word, 0)
		wordIndex := baseIndex + i
		finalState := g.StepOrCreate(state, wordIndex)
		g.MarkFinal(finalState)
	}

	return g
}

// MakeFirst builds the DFA accepting <pos> <dim letters> <id> <len> for
// the first word on an interior line, where pos in {0,2}. Ported from
// Graph::MakeFirst: the position prefix phase wires state 0's two
// position transitions together (pos=2 consumes one don't-care letter
// before reconverging with pos=0's state on a black tile), then the word
// phase chains each dictionary word from that convergence state, with a
// self-looping "swallow" pad for words shorter than maxlength.
func MakeFirst(dict *dictionary.Index, maxlength int) *Graph {
	g := NewGraph()

	pos0state := g.StepOrCreate(0, 0)
	pos2state := g.StepOrCreate(0, 2)

	pos1state := g.StepOrCreate(pos2state, MinSymbol)
	for c := MinSymbol + 1; c < MaxSymbol; c++ {
		g.insert(pos2state, c, pos1state)
	}
	g.insert(pos1state, MaxSymbol, pos0state)

	for length := 2; length <= maxlength; length++ {
		words := dict.Bucket(length)
		baseIndex, err := dict.FirstID(length)
		if err != nil {
			continue
		}

		for i, word := range words {
			state := g.AddWord(word, pos0state)
			wordIndex := baseIndex + i

			indexState := g.StepOrCreate(state, wordIndex)
			g.MarkFinal(g.StepOrCreate(indexState, length))

			if length < maxlength {
				padState := g.StepOrCreate(state, MaxSymbol)
				for c := MinSymbol; c <= MaxSymbol; c++ {
					g.insert(padState, c, padState)
				}
				g.insert(padState, wordIndex, indexState)
			}
		}
	}

	return g
}

// MakeSecond builds the DFA accepting <pos> <letters> <id> for the
// second word on an interior line, where pos in [3, maxlength-2], plus
// the "absent" encoding via the sentinel positions maxlength-1 and
// maxlength+1. Ported from Graph::MakeSecond, including its reuse of
// freshly-created state numbers as literal transition endpoints: the
// position-prefix loop creates states 1, 2, 3, ... in lockstep with pos
// = 3, 4, 5, ..., so a later line can refer to "the state for position
// pos" simply as the integer (pos-2) without keeping it around. This is
// preserved exactly rather than smoothed into named variables, since the
// numeric coincidence IS the algorithm in the reference source.
func MakeSecond(dict *dictionary.Index, maxlength int) *Graph {
	g := NewGraph()

	for pos := 3; pos <= maxlength-2; pos++ {
		g.StepOrCreate(0, pos)
		if pos > 4 {
			for c := MinSymbol; c <= MaxSymbol; c++ {
				g.insert(pos-2, c, pos-3)
			}
		}
	}

	g.insert(2, MaxSymbol, 1)

	// Bypass branch: no second word present.
	bypass := g.StepOrCreate(0, maxlength)
	g.insert(0, maxlength-1, bypass)
	g.insert(0, maxlength+1, bypass)
	for c := MinSymbol; c <= MaxSymbol; c++ {
		g.insert(bypass, c, bypass)
	}
	g.MarkFinal(g.StepOrCreate(bypass, dictionary.MinIndex))

	startState := 1

	for length := 2; length <= maxlength-3; length++ {
		words := dict.Bucket(length)
		baseIndex, err := dict.FirstID(length)
		if err != nil {
			continue
		}

		for i, word := range words {
			state := g.AddWord(word, startState)
			wordIndex := baseIndex + i

			finalState := g.StepOrCreate(state, wordIndex)
			g.MarkFinal(finalState)

			padState := g.StepOrCreate(state, MaxSymbol)
			lastLetter := g.newState()
			for c := MinSymbol; c < MaxSymbol; c++ {
				g.insert(padState, c, lastLetter)
			}
			g.insert(lastLetter, wordIndex, finalState)
		}
	}

	return g
}

// MakeNoIndex builds the letter-only validator used by the
// LetterOnlyModel: it accepts a full row or column of cell symbols (no
// id appended) iff every maximal run of 2-or-more letters is a
// dictionary word. Grounded on spec.md's qualitative description (the
// reference source's dfa_noindex is constructed by equivalent logic, not
// captured verbatim in original_source/dfa.hpp): each word's letter
// chain from state 0 is marked final, and a black tile from any final
// state re-enters a shared "bridge" state from which any word may start
// again, so the run-decomposition repeats until the line ends.
func MakeNoIndex(dict *dictionary.Index, maxlength int) *Graph {
	g := NewGraph()

	bridge := g.newState()
	g.MarkFinal(bridge)
	g.insert(0, MaxSymbol, bridge)
	g.insert(bridge, MaxSymbol, bridge)

	for length := 2; length <= maxlength; length++ {
		for _, word := range dict.Bucket(length) {
			state := g.AddWord(word, 0)
			g.MarkFinal(state)
			g.insert(state, MaxSymbol, bridge)

			fromBridge := g.AddWord(word, bridge)
			g.MarkFinal(fromBridge)
			g.insert(fromBridge, MaxSymbol, bridge)
		}
	}

	// A single letter is a run of length 1, which needs no word.
	for _, from := range []int{0, bridge} {
		for c := MinSymbol; c < MaxSymbol; c++ {
			single := g.StepOrCreate(from, c)
			g.MarkFinal(single)
			g.insert(single, MaxSymbol, bridge)
		}
	}

	return g
}

// MakeMandatoryAnywhere builds the "don't-care prefix, required word,
// don't-care suffix" DFA used to pin a single mandatory word somewhere
// on a line, per spec.md's single-word mandatory-anywhere construction:
// the initial loop state accepts any cell symbol until the word's first
// letter is seen, at which point the run must match the rest of the
// word exactly (on mismatch, returns to the loop); after the word, a
// black tile (or end of line) is accepted into a final swallow state
// that loops on any further symbol. The end of the word must be
// followed by a black tile or the end of the line, but its start is not
// checked: letters directly before the word are accepted, so the word
// may be the tail of a longer run.
func MakeMandatoryAnywhere(word string) *Graph {
	g := NewGraph()

	dontCare := 0

	runes := []rune(word)
	state := dontCare
	for i, c := range runes {
		next := g.newState()
		g.insert(state, int(c), next)
		// A mismatch on the first letter simply stays in dontCare (self
		// loop already covers it); a mismatch mid-word falls back to
		// dontCare too.
		if i > 0 {
			for s := MinSymbol; s <= MaxSymbol; s++ {
				if s != int(runes[i]) {
					g.insert(state, s, dontCare)
				}
			}
		}
		state = next
	}
	wordEnd := state
	for s := MinSymbol; s <= MaxSymbol; s++ {
		if s != int(MaxSymbol) {
			g.insert(wordEnd, s, dontCare)
		}
	}

	swallow := g.newState()
	g.insert(wordEnd, MaxSymbol, swallow)
	g.MarkFinal(swallow)
	g.MarkFinal(wordEnd) // word may end the line with no trailing black tile
	for c := MinSymbol; c <= MaxSymbol; c++ {
		g.insert(swallow, c, swallow)
	}

	// Inserted last so the word's first-letter transition wins.
	for c := MinSymbol; c <= MaxSymbol; c++ {
		g.insert(dontCare, c, dontCare)
	}

	return g
}

// Set is the complete family of DFAs needed to model one W*H grid:
// border and first/second-word automata for both line orientations.
type Set struct {
	BorderH, BorderV *DFA
	FirstH, FirstV   *DFA
	SecondH, SecondV *DFA
	NoIndex          *DFA
}

// Build compiles the full Set for a dictionary and grid dimensions,
// mirroring DictionaryDFA's constructor in original_source/dfa.hpp.
func Build(dict *dictionary.Index, width, height int) *Set {
	return &Set{
		BorderH: MakeBorder(dict, width).Compile(),
		BorderV: MakeBorder(dict, height).Compile(),
		FirstH:  MakeFirst(dict, width).Compile(),
		FirstV:  MakeFirst(dict, height).Compile(),
		SecondH: MakeSecond(dict, width).Compile(),
		SecondV: MakeSecond(dict, height).Compile(),
		NoIndex: MakeNoIndex(dict, max(width, height)).Compile(),
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
