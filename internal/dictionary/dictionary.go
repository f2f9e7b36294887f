// Package dictionary indexes crossword words into a dense, length-bucketed
// integer id space so the automaton and constraint packages can treat a
// word purely as a number flowing through a DFA.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"motscroises/internal/domain"
)

// MinIndex is the sentinel base: word ids start at MinIndex+1. MinIndex
// itself denotes "no word" in the second-word slot of a line.
const MinIndex = 256

// MinLength is the shortest admissible word length. There is no fixed
// upper bound here: the dictionary never emits ids for words shorter
// than MinLength, and longer words are only dropped if they exceed the
// caller-provided max (the larger of W and H), which Index.MaxLength
// reports.
const MinLength = 2

// ErrUnknownWord is returned when an id has no corresponding word.
var ErrUnknownWord = errors.New("dictionary: unknown word id")

// ErrUnknownLength is returned when a length bucket does not exist.
var ErrUnknownLength = errors.New("dictionary: no words of that length")

// Index is an immutable, length-bucketed dictionary with a contiguous
// integer id space. Construct one with Build or Load, then share it
// read-only across every search goroutine — nothing here mutates after
// construction.
type Index struct {
	maxLen  int
	byLen   map[int][]string // sorted, lexicographic, within each bucket
	firstID map[int]int
	lastID  map[int]int
	idOf    map[string]int
	wordOf  map[int]string
}

// Fold strips diacritics and lowercases a word for indexing, so that a
// dictionary file mixing accented and bare spellings still collapses onto
// a single a..z entry. Shares domain.StripDiacritics's NFD-then-strip-
// combining-marks pass with domain.NormalizeFR, but folds to lowercase
// rather than uppercase since words in this package are represented as
// lowercase cell-alphabet runes.
func Fold(s string) string {
	return strings.ToLower(domain.StripDiacritics(s))
}

// Build constructs an Index from an arbitrary word list. Words shorter
// than MinLength or longer than maxLen are silently dropped, as
// spec.md's dictionary contract requires. Duplicate words collapse to a
// single bucket entry. Id assignment is stable for a given multiset of
// words: build the same words twice (in any order) and every word gets
// the same id, since buckets are sorted before ids are assigned.
func Build(words []string, maxLen int) *Index {
	seen := make(map[string]struct{}, len(words))
	byLen := make(map[int][]string)

	for _, w := range words {
		folded := Fold(w)
		l := len(folded)
		if l < MinLength || l > maxLen {
			continue
		}
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		byLen[l] = append(byLen[l], folded)
	}

	for l := range byLen {
		sort.Strings(byLen[l])
	}

	idx := &Index{
		maxLen:  maxLen,
		byLen:   byLen,
		firstID: make(map[int]int),
		lastID:  make(map[int]int),
		idOf:    make(map[string]int),
		wordOf:  make(map[int]string),
	}

	next := MinIndex + 1
	for l := MinLength; l <= maxLen; l++ {
		bucket := byLen[l]
		if len(bucket) == 0 {
			continue
		}
		idx.firstID[l] = next
		for _, w := range bucket {
			idx.idOf[w] = next
			idx.wordOf[next] = w
			next++
		}
		idx.lastID[l] = next - 1
	}

	return idx
}

// Load reads one word per line from r and builds an Index, dropping
// comment lines (leading '#') and blank lines, mirroring the teacher's
// fill.LoadLexicon scanning convention.
func Load(r io.Reader, maxLen int) (*Index, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: read failed: %w", err)
	}
	return Build(words, maxLen), nil
}

// MaxLength returns the longest word length this index was built for.
func (idx *Index) MaxLength() int {
	return idx.maxLen
}

// FirstID returns first_id(L): the lowest id assigned to a word of
// length L, or an error if no word of that length exists.
func (idx *Index) FirstID(length int) (int, error) {
	id, ok := idx.firstID[length]
	if !ok {
		return 0, fmt.Errorf("%w: length %d", ErrUnknownLength, length)
	}
	return id, nil
}

// LastID returns last_id(L): the highest id assigned to a word of
// length L, or an error if no word of that length exists.
func (idx *Index) LastID(length int) (int, error) {
	id, ok := idx.lastID[length]
	if !ok {
		return 0, fmt.Errorf("%w: length %d", ErrUnknownLength, length)
	}
	return id, nil
}

// IndexOfWord returns the id of word, and true if it is present.
func (idx *Index) IndexOfWord(word string) (int, bool) {
	id, ok := idx.idOf[Fold(word)]
	return id, ok
}

// WordOfIndex returns the word for id. Passing MinIndex is a caller
// error: MinIndex never names a word, only its absence.
func (idx *Index) WordOfIndex(id int) (string, error) {
	w, ok := idx.wordOf[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnknownWord, id)
	}
	return w, nil
}

// LengthOfIndex infers a word's length purely from its id, without a
// lookup, using the contiguous bucket layout.
func (idx *Index) LengthOfIndex(id int) (int, error) {
	for l := MinLength; l <= idx.maxLen; l++ {
		first, ok := idx.firstID[l]
		if !ok {
			continue
		}
		last := idx.lastID[l]
		if id >= first && id <= last {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: id %d", ErrUnknownWord, id)
}

// Contains reports whether word (after folding) is in the dictionary.
func (idx *Index) Contains(word string) bool {
	_, ok := idx.idOf[Fold(word)]
	return ok
}

// Bucket returns the sorted words of the given length (read-only; do not
// mutate the returned slice).
func (idx *Index) Bucket(length int) []string {
	return idx.byLen[length]
}

// Size returns the total number of distinct words indexed.
func (idx *Index) Size() int {
	return len(idx.idOf)
}

// MatchingIndices returns the ids of every word matching pattern, where
// '.' is a single-character wildcard, mirroring dictionary.hpp's
// NonMatchingIndices regex query and the teacher's
// fill.MemoryLexicon.Match dot-wildcard convention. Pattern length fixes
// the bucket searched.
func (idx *Index) MatchingIndices(pattern string) []int {
	parts := strings.Split(pattern, ".")
	for i, p := range parts {
		parts[i] = Fold(p)
	}
	pattern = strings.Join(parts, ".")
	length := len([]rune(pattern))
	bucket := idx.byLen[length]
	if len(bucket) == 0 {
		return nil
	}

	var out []int
	for _, w := range bucket {
		if matchesPattern(w, pattern) {
			out = append(out, idx.idOf[w])
		}
	}
	return out
}

func matchesPattern(word, pattern string) bool {
	if len(word) != len(pattern) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '.' && pattern[i] != word[i] {
			return false
		}
	}
	return true
}

// AddMandatory merges mandatory words into the dictionary, re-deriving
// the full id space. Mandatory words that are already present are a
// no-op for the bucket but still guaranteed queryable afterward. Callers
// should treat the returned Index as a fresh immutable snapshot — ids may
// shift for words whose bucket gained new entries sorting earlier.
func (idx *Index) AddMandatory(mandatory []string) *Index {
	all := make([]string, 0, len(idx.idOf)+len(mandatory))
	for w := range idx.idOf {
		all = append(all, w)
	}
	all = append(all, mandatory...)
	return Build(all, idx.maxLen)
}
