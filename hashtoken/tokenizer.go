package hashtoken

import (
	"unicode"

	"github.com/pixlabs/pix/ixerrors"
)

// RuneTokenizer splits text on rune-class boundaries: letters (and,
// optionally, digits) are token runes, everything else is a separator.
// It is a small hand-rolled scanner in the tradition of the example
// corpus's own tokenizers — there is no shared tokenization library
// among them to reuse instead.
type RuneTokenizer struct {
	// MinLength is the shortest token length kept; shorter runs are
	// dropped. Must be >= 1.
	MinLength int
	// IncludeDigits treats digit runes as token runes rather than
	// separators.
	IncludeDigits bool
	// hash computes the same token hash a candidate run would get at
	// index time, so stop words are matched post-hash: stopHashes holds
	// hashed stop words, never the words themselves.
	hash       HashGenerator
	stopHashes map[uint64]struct{}
}

// NewRuneTokenizer constructs a RuneTokenizer, defaulting MinLength to 3
// when minLength is 0 and rejecting a negative MinLength outright.
// stopWords is hashed once here via hash (defaulting to
// NewXXHashGenerator when nil), so Tokenize never does a string
// compare to filter a stop word — it hashes the candidate run and
// checks the hashed set.
func NewRuneTokenizer(minLength int, includeDigits bool, stopWords []string, hash HashGenerator) (RuneTokenizer, error) {
	if minLength < 0 {
		return RuneTokenizer{}, ixerrors.ErrInvalidConfiguration
	}
	if minLength == 0 {
		minLength = 3
	}
	if hash == nil {
		hash = NewXXHashGenerator()
	}
	t := RuneTokenizer{MinLength: minLength, IncludeDigits: includeDigits, hash: hash}
	if len(stopWords) > 0 {
		t.stopHashes = make(map[uint64]struct{}, len(stopWords))
		for _, w := range stopWords {
			t.stopHashes[hash.Hash([]rune(w))] = struct{}{}
		}
	}
	return t, nil
}

func (t RuneTokenizer) isTokenRune(r rune) bool {
	if unicode.IsLetter(r) {
		return true
	}
	if t.IncludeDigits && unicode.IsDigit(r) {
		return true
	}
	return false
}

// Tokenize scans text left to right, returning each maximal run of
// token runes that meets MinLength and is not a stop word.
func (t RuneTokenizer) Tokenize(text []rune) []Slice {
	var out []Slice
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		length := end - start
		if length >= t.MinLength && !t.isStopWord(text[start:end]) {
			out = append(out, Slice{Offset: start, Length: length})
		}
		start = -1
	}
	for i, r := range text {
		if t.isTokenRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return out
}

func (t RuneTokenizer) isStopWord(run []rune) bool {
	if len(t.stopHashes) == 0 {
		return false
	}
	_, found := t.stopHashes[t.hash.Hash(run)]
	return found
}
