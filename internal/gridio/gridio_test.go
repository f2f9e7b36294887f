package gridio

import (
	"strings"
	"testing"

	"motscroises/internal/constraint"
)

func TestParseGridPinsLettersAndBlackTiles(t *testing.T) {
	input := "ca#\n.at\n#.n\n"
	pinned, err := ParseGrid(strings.NewReader(input), 3, 3)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	if pinned[0] != 'c' || pinned[1] != 'a' {
		t.Errorf("row 0 letters not pinned correctly: %v", pinned)
	}
	if pinned[2] != 'z'+1 {
		t.Errorf("expected cell 2 pinned as black tile, got %v", pinned[2])
	}
	if _, ok := pinned[3]; ok {
		t.Error("'.' cell should not be pinned")
	}
}

func TestParseGridRejectsShortInput(t *testing.T) {
	if _, err := ParseGrid(strings.NewReader("ab\n"), 3, 1); err == nil {
		t.Error("expected an error for a row shorter than width")
	}
	if _, err := ParseGrid(strings.NewReader("abc\n"), 3, 2); err == nil {
		t.Error("expected an error for fewer rows than height")
	}
}

func testCellName(x, y int) string {
	return string(rune('A'+x)) + string(rune('a'+y))
}

func buildSpace(rows []string) (*constraint.Space, CellNamer, int, int) {
	height := len(rows)
	width := len([]rune(rows[0]))
	sp := constraint.NewSpace()
	namer := CellNamer(testCellName)
	for y, row := range rows {
		for x, c := range []rune(row) {
			name := namer(x, y)
			if c == '?' {
				sp.AddVar(constraint.NewVarRange(name, 'a', 'z'+1))
			} else if c == '#' {
				sp.AddVar(constraint.NewVar(name, 'z'+1))
			} else {
				sp.AddVar(constraint.NewVar(name, int(c)))
			}
		}
	}
	return sp, namer, width, height
}

func TestRenderGridRoundTrip(t *testing.T) {
	sp, namer, width, height := buildSpace([]string{"cat", "a#o", "ton"})
	var b strings.Builder
	if err := RenderGrid(&b, sp, width, height, namer); err != nil {
		t.Fatalf("RenderGrid: %v", err)
	}
	want := "cat\na#o\nton\n"
	if b.String() != want {
		t.Errorf("RenderGrid = %q, want %q", b.String(), want)
	}
}

func TestExtractWordsFindsRowsAndColumns(t *testing.T) {
	sp, namer, width, height := buildSpace([]string{
		"cat",
		"a#o",
		"ton",
	})
	words := ExtractWords(sp, width, height, namer)

	found := make(map[string]bool)
	for _, w := range words {
		found[w] = true
	}
	for _, w := range []string{"cat", "ton"} {
		if !found[w] {
			t.Errorf("expected to find word %q among %v", w, words)
		}
	}
}

func TestExtractWordsSkipsSingleLetterRuns(t *testing.T) {
	sp, namer, width, height := buildSpace([]string{
		"a#a",
		"###",
		"a#a",
	})
	words := ExtractWords(sp, width, height, namer)
	if len(words) != 0 {
		t.Errorf("single-letter runs should not be extracted, got %v", words)
	}
}
