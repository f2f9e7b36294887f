package automaton

import (
	"testing"

	"motscroises/internal/dictionary"
)

func spell(word string) []int {
	out := make([]int, len(word))
	for i, c := range word {
		out[i] = int(c)
	}
	return out
}

func TestBorderAcceptsExactWordsOfLength(t *testing.T) {
	dict := dictionary.Build([]string{"cat", "car", "cab", "dog"}, 5)
	dfa := MakeBorder(dict, 3).Compile()

	for _, w := range []string{"cat", "car", "cab", "dog"} {
		id, _ := dict.IndexOfWord(w)
		seq := append(spell(w), id)
		if !dfa.Accepts(seq) {
			t.Errorf("BorderH should accept %q ++ id, rejected", w)
		}
	}

	// A word of the wrong length must not be accepted even with a valid id.
	id, _ := dict.IndexOfWord("cat")
	if dfa.Accepts(append(spell("ca"), id)) {
		t.Error("BorderH accepted a short word")
	}
}

func TestFirstAcceptsFullLine(t *testing.T) {
	dict := dictionary.Build([]string{"cat", "car"}, 5)
	dfa := MakeFirst(dict, 3).Compile()

	id, _ := dict.IndexOfWord("cat")
	seq := []int{0}
	seq = append(seq, spell("cat")...)
	seq = append(seq, id, 3)
	if !dfa.Accepts(seq) {
		t.Error("FirstH should accept [0] ++ spell(cat) ++ [id] ++ [3]")
	}
}

func TestFirstAcceptsShortWordWithPadding(t *testing.T) {
	dict := dictionary.Build([]string{"at"}, 5)
	dfa := MakeFirst(dict, 5).Compile()

	id, _ := dict.IndexOfWord("at")
	seq := []int{0}
	seq = append(seq, spell("at")...)
	seq = append(seq, MaxSymbol, 'x', 'x') // black tile then two pad cells
	seq = append(seq, id, 2)
	if !dfa.Accepts(seq) {
		t.Error("FirstH should accept a short word padded to line length")
	}
}

func TestFirstOffsetLine(t *testing.T) {
	dict := dictionary.Build([]string{"cat"}, 5)
	dfa := MakeFirst(dict, 5).Compile()

	id, _ := dict.IndexOfWord("cat")
	seq := []int{2, 'x', MaxSymbol}
	seq = append(seq, spell("cat")...)
	seq = append(seq, id, 3)
	if !dfa.Accepts(seq) {
		t.Error("FirstH should accept [2] [any_letter] [black] spell(cat) [id] [3]")
	}
}

func TestSecondAbsence(t *testing.T) {
	dict := dictionary.Build([]string{"a"}, 5)
	maxlength := 9
	dfa := MakeSecond(dict, maxlength).Compile()

	seq := []int{maxlength - 1}
	for i := 0; i < maxlength-3; i++ {
		seq = append(seq, 'x')
	}
	seq = append(seq, dictionary.MinIndex)
	if !dfa.Accepts(seq) {
		t.Error("SecondH should accept the absent-word bypass sequence")
	}
}

func TestSecondAcceptsWord(t *testing.T) {
	dict := dictionary.Build([]string{"cat"}, 9)
	maxlength := 9
	dfa := MakeSecond(dict, maxlength).Compile()

	id, _ := dict.IndexOfWord("cat")
	seq := []int{3}
	seq = append(seq, spell("cat")...)
	seq = append(seq, id)
	if !dfa.Accepts(seq) {
		t.Error("SecondH should accept [3] spell(cat) [id]")
	}
}

func TestNoIndexValidatesLetterRuns(t *testing.T) {
	dict := dictionary.Build([]string{"cat", "car"}, 5)
	dfa := MakeNoIndex(dict, 7).Compile()

	seq := append(spell("cat"), MaxSymbol)
	seq = append(seq, spell("car")...)
	if !dfa.Accepts(seq) {
		t.Error("NoIndex should accept cat#car")
	}

	bad := append(spell("cat"), MaxSymbol)
	bad = append(bad, spell("xyz")...)
	if dfa.Accepts(bad) {
		t.Error("NoIndex accepted a non-dictionary run")
	}
}

func TestSerializeContract(t *testing.T) {
	dict := dictionary.Build([]string{"cat"}, 3)
	g := MakeBorder(dict, 3)
	transitions, finals := g.Serialize()

	if len(transitions) == 0 {
		t.Fatal("expected at least one transition")
	}
	last := transitions[len(transitions)-1]
	if last.From != -1 || last.Symbol != 0 || last.To != 0 {
		t.Errorf("transition list must end with sentinel (-1,0,0), got %+v", last)
	}
	if finals[len(finals)-1] != -1 {
		t.Errorf("final state list must end with -1, got %d", finals[len(finals)-1])
	}
}

func TestMandatoryAnywhere(t *testing.T) {
	dfa := MakeMandatoryAnywhere("hello").Compile()

	seq := append([]int{'x', 'x'}, spell("hello")...)
	seq = append(seq, MaxSymbol, 'y')
	if !dfa.Accepts(seq) {
		t.Error("mandatory-anywhere DFA should accept a line containing the word followed by a black tile")
	}

	noWord := spell("xxxxx")
	if dfa.Accepts(noWord) {
		t.Error("mandatory-anywhere DFA accepted a line without the word")
	}
}
