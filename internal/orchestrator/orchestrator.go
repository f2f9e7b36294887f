// Package orchestrator enumerates legal ways to pin a set of mandatory
// words onto a grid's border/interior lines before handing the
// resulting placements to gridmodel.LetterOnlyModel. Grounded line for
// line on original_source/main.cpp's local2actual, combination_valid,
// run_single_mandatory, run_concurrently, and main()'s shuffle/dispatch
// loop, renamed into idiomatic Go.
package orchestrator

import (
	"log/slog"
	"math/rand"

	"github.com/dustin/go-humanize"

	"motscroises/internal/gridmodel"
)

// CombinationBase is the radix each mandatory word's placement is
// encoded in: one base-4*(width+height) digit per word, where the
// digit's quotient by 4 selects a row or column and the remainder
// selects one of the four legal local offsets. Mirrors main.cpp's
// COMBINATION_BASE.
func CombinationBase(width, height int) int {
	return 4 * (width + height)
}

// CombinationCount returns CombinationBase(width,height) raised to the
// number of mandatory words: the total number of combinations to
// search, computed by repeated integer multiplication rather than
// main.cpp's pow(...) + size_t cast, to avoid float rounding at large
// word counts.
func CombinationCount(width, height, numMandatory int) int {
	base := CombinationBase(width, height)
	count := 1
	for i := 0; i < numMandatory; i++ {
		count *= base
	}
	return count
}

// localToActual maps one word's local placement code (0-3) to its
// actual starting offset within a line of the given length, ported
// from local2actual: 0 and 1 both anchor near the line's start (flush,
// then offset by two cells), 2 and 3 anchor near its end. A result is
// only valid once the caller confirms word fits within the actual line
// length; this function alone can return negative values for a word
// longer than the line, which ValidateCombination checks for.
func localToActual(localpos, lineLength, wordLength int) int {
	switch localpos {
	case 1:
		return 2
	case 2:
		return lineLength - wordLength
	case 3:
		return lineLength - 2 - wordLength
	default:
		return 0
	}
}

// ValidateCombination decodes combination into one placement per
// mandatory word and checks that every word fits within its line and
// that no two words claim the same cell, mirroring combination_valid's
// pre-flight scan. It returns the placements and true on success, or
// (nil, false) the moment any word overruns its line or collides with
// an earlier one.
func ValidateCombination(width, height int, combination int, mandatory []string) ([]gridmodel.Placement, bool) {
	base := CombinationBase(width, height)
	available := make([]bool, width*height)
	for i := range available {
		available[i] = true
	}

	placements := make([]gridmodel.Placement, 0, len(mandatory))
	for _, word := range mandatory {
		encoded := combination % base
		rowcol := encoded / 4
		localpos := encoded % 4
		horizontal := rowcol < height

		lineLength := height
		limit := height
		index := rowcol - height
		step := width
		line := rowcol - height
		if horizontal {
			lineLength = width
			limit = width
			index = rowcol * width
			step = 1
			line = rowcol
		}

		actualpos := localToActual(localpos, lineLength, len(word))
		if actualpos < 0 {
			return nil, false
		}
		index += actualpos * step

		for j := 0; j < len(word); j++ {
			if actualpos+j >= limit || !available[index] {
				return nil, false
			}
			available[index] = false
			index += step
		}

		placements = append(placements, gridmodel.Placement{
			Word:       word,
			Line:       line,
			Horizontal: horizontal,
			StartPos:   actualpos,
		})

		combination /= base
	}

	return placements, true
}

// Shuffle returns a random permutation of [0, n), using rand.Shuffle's
// Fisher-Yates implementation, mirroring main()'s
// std::shuffle(combinations.begin(), combinations.end(), g) over a
// std::mt19937 seeded from std::random_device.
func Shuffle(n int, rng *rand.Rand) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// LogPlan writes a human-readable summary of the search space about
// to be explored, mirroring main()'s "N combinations at most" console
// line, via the teacher's preferred humanize.Comma formatting for
// large counts.
func LogPlan(log *slog.Logger, width, height, numMandatory, nthreads int) int {
	count := CombinationCount(width, height, numMandatory)
	log.Info("mandatory placement combinations enumerated",
		"count", humanize.Comma(int64(count)),
		"width", width,
		"height", height,
		"mandatory_words", numMandatory,
		"threads", nthreads,
	)
	return count
}
