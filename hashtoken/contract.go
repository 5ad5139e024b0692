// Package hashtoken defines the pluggable hashing, normalization, and
// tokenization contracts the positional index is built on, plus a
// default implementation of each.
package hashtoken

// Slice marks a token's extent within a []rune buffer.
type Slice struct {
	Offset int
	Length int
}

// HashGenerator maps a rune sequence to a deterministic, case-insensitive
// u64 token. A whitespace-only input must hash to 0 (the "no previous
// token" sentinel).
type HashGenerator interface {
	Hash(text []rune) uint64
}

// Normalizer maps each rune to zero-or-more replacement runes before
// hashing, e.g. to strip diacritics. A nil Normalizer performs no
// transformation.
type Normalizer interface {
	Normalize(r rune) []rune
}

// NormalizerFunc adapts a plain function to a Normalizer.
type NormalizerFunc func(r rune) []rune

func (f NormalizerFunc) Normalize(r rune) []rune { return f(r) }

// Tokenizer produces a finite, single-pass sequence of token Slices over
// a rune buffer. Implementations are not required to support concurrent
// or repeated iteration of the same instance.
type Tokenizer interface {
	// Tokenize returns the slices of text that qualify as tokens,
	// in order of appearance.
	Tokenize(text []rune) []Slice
}
