package hashtoken

import (
	"unicode"

	"github.com/cespare/xxhash"
)

// XXHashGenerator hashes the lowercased UTF-8 encoding of a token with
// xxhash, the same algorithm the teacher uses to key its own hash
// indexes. It returns 0 for whitespace-only (including empty) input,
// reserving 0 as the "no previous token" sentinel.
type XXHashGenerator struct {
	Normalizer Normalizer
}

// NewXXHashGenerator returns the default hash generator: case folding
// only, no diacritic stripping.
func NewXXHashGenerator() XXHashGenerator {
	return XXHashGenerator{}
}

func (g XXHashGenerator) Hash(text []rune) uint64 {
	buf := make([]rune, 0, len(text))
	for _, r := range text {
		lower := unicode.ToLower(r)
		if g.Normalizer != nil {
			buf = append(buf, g.Normalizer.Normalize(lower)...)
			continue
		}
		buf = append(buf, lower)
	}
	if isBlank(buf) {
		return 0
	}
	return xxhash.Sum64(encodeRunes(buf))
}

func isBlank(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func encodeRunes(runes []rune) []byte {
	return []byte(string(runes))
}

// DiacriticNormalizer strips combining marks from decomposed runes; it
// expects input already passed through unicode/norm.NFD by the caller's
// tokenizer, so it only has to discard marks, never recompose.
type DiacriticNormalizer struct{}

func (DiacriticNormalizer) Normalize(r rune) []rune {
	if unicode.Is(unicode.Mn, r) {
		return nil
	}
	return []rune{r}
}
