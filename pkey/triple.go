package pkey

// Value bytes carried by every positional/reverse triple entry. A triple
// is never physically removed from the store; ForceDelete overwrites it
// with TombstoneByte, and the logical view (every read path) treats a
// tombstoned entry as absent.
const (
	LiveByte      byte = 0
	TombstoneByte byte = 1
)

// Triples encodes and decodes the primary index key
// (token, record, previous_token) for a fixed pair of codecs. T is used
// for both the token and previous_token components since they share a
// type by construction (spec: "Token T").
type Triples[T, R any] struct {
	Token  Codec[T]
	Record Codec[R]
}

// Key builds the fixed-layout primary key bytes for one triple.
func (t Triples[T, R]) Key(token T, record R, prev T) []byte {
	out := make([]byte, 0, t.Token.Size*2+t.Record.Size)
	out = append(out, t.Token.Encode(token)...)
	out = append(out, t.Record.Encode(record)...)
	out = append(out, t.Token.Encode(prev)...)
	return out
}

// TokenPrefix builds the key prefix that selects every triple for a
// given token, regardless of record/prev — used to seek/enumerate a
// token's postings list.
func (t Triples[T, R]) TokenPrefix(token T) []byte {
	return t.Token.Encode(token)
}

// RecordSeekKey builds the key prefix (token, record, *) used to verify
// whether a specific record carries a specific token, independent of
// the previous-token component.
func (t Triples[T, R]) RecordSeekKey(token T, record R) []byte {
	out := make([]byte, 0, t.Token.Size+t.Record.Size)
	out = append(out, t.Token.Encode(token)...)
	out = append(out, t.Record.Encode(record)...)
	return out
}

// Decode splits a full-length primary key back into its three components.
func (t Triples[T, R]) Decode(key []byte) (token T, record R, prev T) {
	tokSz, recSz := t.Token.Size, t.Record.Size
	token = t.Token.Decode(key[:tokSz])
	record = t.Record.Decode(key[tokSz : tokSz+recSz])
	prev = t.Token.Decode(key[tokSz+recSz:])
	return
}

// HasPrefix reports whether key starts with prefix — a small helper so
// callers enumerating a seek range do not need to import bytes directly
// at every call site.
func HasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}

// PrefixUpperBound returns the smallest key that sorts strictly after
// every key with the given prefix, for use as an iterator's exclusive
// upper bound. It returns nil (unbounded) if prefix is all 0xFF bytes.
func PrefixUpperBound(prefix []byte) []byte {
	out := make([]byte, len(prefix))
	copy(out, prefix)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}

// Reverses encodes and decodes the secondary mirror key (record, token),
// used to accelerate whole-record deletion.
type Reverses[R, T any] struct {
	Record Codec[R]
	Token  Codec[T]
}

// Key builds the fixed-layout reverse key for one (record, token) pair.
func (r Reverses[R, T]) Key(record R, token T) []byte {
	out := make([]byte, 0, r.Record.Size+r.Token.Size)
	out = append(out, r.Record.Encode(record)...)
	out = append(out, r.Token.Encode(token)...)
	return out
}

// RecordPrefix builds the key prefix that selects every reverse entry
// for a given record.
func (r Reverses[R, T]) RecordPrefix(record R) []byte {
	return r.Record.Encode(record)
}

// Decode splits a full-length reverse key back into its two components.
func (r Reverses[R, T]) Decode(key []byte) (record R, token T) {
	recSz := r.Record.Size
	record = r.Record.Decode(key[:recSz])
	token = r.Token.Decode(key[recSz:])
	return
}
