// Package pix is the engine facade: it glues the tokenizer/hasher,
// the positional index, the query language, and the two search
// executors into the single public surface described for the core.
package pix

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/pixlabs/pix/hashtoken"
	"github.com/pixlabs/pix/ixerrors"
	"github.com/pixlabs/pix/lang"
	"github.com/pixlabs/pix/lower"
	"github.com/pixlabs/pix/pixlog"
	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/posindex"
	"github.com/pixlabs/pix/query"
	"github.com/pixlabs/pix/store"
)

// Options configures an Engine at construction time. The signature
// mirrors the core's public construction contract: data path, the
// record/token comparators, whether to maintain the reverse mirror,
// pebble-tuning escape hatches for each store, and the block-cache
// lifetime shared by both.
type Options[R comparable] struct {
	DataPath string

	RecordCodec      pkey.Codec[R]
	RecordComparator pkey.Comparator[R]
	TokenComparator  pkey.Comparator[uint64]

	Tokenizer hashtoken.Tokenizer
	Hash      hashtoken.HashGenerator

	UseSecondaryIndex bool

	ConfigurePrimary     func(*pebble.Options)
	ConfigureSecondary   func(*pebble.Options)
	BlockCacheLifetimeMS int64

	Log pixlog.Logger
}

// RecordComparator and TokenComparator are accepted for parity with the
// construction signature the core specifies, but are not consulted
// internally: R and the token type are both constrained to comparable,
// so every equality check the index needs uses Go's native comparison
// rather than an injected order. They exist for callers who want to
// assert or document their record/token ordering choice.
func (o *Options[R]) setDefaults() error {
	if o.Log == nil {
		o.Log = pixlog.Noop()
	}
	if o.Hash == nil {
		o.Hash = hashtoken.NewXXHashGenerator()
	}
	if o.Tokenizer == nil {
		tok, err := hashtoken.NewRuneTokenizer(0, false, nil, o.Hash)
		if err != nil {
			return err
		}
		o.Tokenizer = tok
	}
	if o.TokenComparator == nil {
		o.TokenComparator = pkey.Uint64Comparator
	}
	if o.RecordCodec.Encode == nil || o.RecordCodec.Decode == nil {
		return ixerrors.ErrInvalidConfiguration
	}
	return nil
}

// Engine is the search engine facade over one positional index: token
// type is fixed to uint64 (the hash generator's native output), record
// type R is caller-supplied.
type Engine[R comparable] struct {
	id   uuid.UUID
	tok  hashtoken.Tokenizer
	hash hashtoken.HashGenerator
	idx  *posindex.Index[uint64, R]
	log  pixlog.Logger
}

// Open creates or reopens an Engine's on-disk state. Each call gets a
// fresh instance id, attached to every log line this Engine emits, so
// log lines from concurrently open Engines over the same data path (a
// read replica alongside a writer, say) can be told apart.
func Open[R comparable](opts Options[R]) (*Engine[R], error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}

	keys := pkey.Triples[uint64, R]{Token: pkey.Uint64Codec, Record: opts.RecordCodec}
	reverse := pkey.Reverses[R, uint64]{Record: opts.RecordCodec, Token: pkey.Uint64Codec}

	primaryOpts := store.Options{BlockCacheLifetimeMS: opts.BlockCacheLifetimeMS, Configure: opts.ConfigurePrimary}
	secondaryOpts := store.Options{BlockCacheLifetimeMS: opts.BlockCacheLifetimeMS, Configure: opts.ConfigureSecondary}

	id := uuid.New()
	log := pixlog.WithFields(opts.Log, "engine_id", id.String())

	idx, err := posindex.Open[uint64, R](
		opts.DataPath, keys, reverse, opts.UseSecondaryIndex,
		primaryOpts, secondaryOpts, log,
	)
	if err != nil {
		return nil, err
	}

	return &Engine[R]{id: id, tok: opts.Tokenizer, hash: opts.Hash, idx: idx, log: log}, nil
}

// ID returns the engine instance's identifier, stable for the lifetime
// of this Open call.
func (e *Engine[R]) ID() uuid.UUID {
	return e.id
}

// tokenize runs text through the engine's tokenizer/hasher, producing
// the ordered hashed-token sequence a document's text contributes.
func (e *Engine[R]) tokenize(text string) []uint64 {
	runes := []rune(text)
	slices := e.tok.Tokenize(runes)
	tokens := make([]uint64, len(slices))
	for i, sl := range slices {
		tokens[i] = e.hash.Hash(runes[sl.Offset : sl.Offset+sl.Length])
	}
	return tokens
}

// chainPairs turns an ordered token sequence into the (token, prev)
// pairs the positional index stores, with the start sentinel 0 as the
// first token's predecessor.
func chainPairs(tokens []uint64) []posindex.TokenPrev[uint64] {
	pairs := make([]posindex.TokenPrev[uint64], len(tokens))
	var prev uint64
	for i, tk := range tokens {
		pairs[i] = posindex.TokenPrev[uint64]{Token: tk, Prev: prev}
		prev = tk
	}
	return pairs
}

func (e *Engine[R]) facetToken(name, value string) uint64 {
	return e.hash.Hash([]rune(name + ":" + value))
}

// AddRecord tokenizes text and writes its positional triples for record.
func (e *Engine[R]) AddRecord(record R, text string) error {
	e.log.Debug("add record", "text_len", len(text))
	for _, p := range chainPairs(e.tokenize(text)) {
		if err := e.idx.Upsert(p.Token, record, p.Prev); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRecord rewrites record's triples from oldText to newText,
// performing at most |symmetric_difference(tokens(oldText), tokens(newText))|
// store writes rather than a full delete-then-add.
func (e *Engine[R]) UpdateRecord(record R, oldText, newText string) error {
	oldPairs := chainPairs(e.tokenize(oldText))
	newPairs := chainPairs(e.tokenize(newText))

	oldSet := make(map[posindex.TokenPrev[uint64]]struct{}, len(oldPairs))
	for _, p := range oldPairs {
		oldSet[p] = struct{}{}
	}
	newSet := make(map[posindex.TokenPrev[uint64]]struct{}, len(newPairs))
	for _, p := range newPairs {
		newSet[p] = struct{}{}
	}

	var toDelete []posindex.TokenPrev[uint64]
	for p := range oldSet {
		if _, ok := newSet[p]; !ok {
			toDelete = append(toDelete, p)
		}
	}
	if len(toDelete) > 0 {
		if _, err := e.idx.DeleteTokens(record, toDelete); err != nil {
			return err
		}
	}

	for p := range newSet {
		if _, ok := oldSet[p]; ok {
			continue
		}
		if err := e.idx.Upsert(p.Token, record, p.Prev); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTokens removes exactly the triples derivable from text for
// record, returning how many were live.
func (e *Engine[R]) DeleteTokens(record R, text string) (int, error) {
	return e.idx.DeleteTokens(record, chainPairs(e.tokenize(text)))
}

// DeleteRecord removes every triple for record, regardless of whether
// the secondary mirror is enabled.
func (e *Engine[R]) DeleteRecord(record R) (int, error) {
	return e.idx.DeleteRecord(record)
}

// AddFacet writes the self-referential facet triple for (name, value).
func (e *Engine[R]) AddFacet(record R, name, value string) error {
	return e.idx.AddFacet(record, e.facetToken(name, value))
}

// DeleteFacet tombstones the self-referential facet triple for (name, value).
func (e *Engine[R]) DeleteFacet(record R, name, value string) error {
	return e.idx.DeleteFacet(record, e.facetToken(name, value))
}

// SimpleSearch runs the fixed-conjunction-plus-facet-OR executor over
// searchText, a set of "name:value" facet strings, and pagination.
// Blank search text with no facets is a graceful empty, not an error.
func (e *Engine[R]) SimpleSearch(
	ctx context.Context,
	searchText string,
	facets []Facet,
	respectOrder bool,
	skip, limit int,
) ([]R, error) {
	tokens := e.tokenize(searchText)
	facetTokens := make([]uint64, len(facets))
	for i, f := range facets {
		facetTokens[i] = e.facetToken(f.Name, f.Value)
	}
	return e.idx.SimpleSearch(ctx, tokens, nil, respectOrder, facetTokens, skip, limit)
}

// Facet names a single "name:value" facet pair for SimpleSearch.
type Facet struct {
	Name  string
	Value string
}

// Search parses searchText through the query grammar, lowers it to
// hashed tokens, and runs the arbitrary-Boolean-tree executor.
func (e *Engine[R]) Search(ctx context.Context, searchText string, skip, limit int) ([]R, error) {
	ast, err := lang.Parse(searchText)
	if err != nil {
		return nil, err
	}
	return e.SearchAST(ctx, ast, skip, limit)
}

// SearchAST runs the advanced executor over an already-parsed string
// query tree, lowering it first.
func (e *Engine[R]) SearchAST(ctx context.Context, ast *query.QueryNode[string], skip, limit int) ([]R, error) {
	root := lower.Lower(ast, e.tok, e.hash)
	return e.idx.Search(ctx, root, skip, limit)
}

// EvictToDisk flushes the underlying index's in-memory state.
func (e *Engine[R]) EvictToDisk(ctx context.Context) error {
	return e.idx.EvictToDisk(ctx)
}

// TryCancelBackgroundThreads asks the index's maintenance threads to stop.
func (e *Engine[R]) TryCancelBackgroundThreads() error {
	return e.idx.TryCancelBackgroundThreads()
}

// WaitForBackgroundThreads blocks until the index's maintenance threads
// quiesce or ctx ends.
func (e *Engine[R]) WaitForBackgroundThreads(ctx context.Context) error {
	return e.idx.WaitForBackgroundThreads(ctx)
}

// Drop is the terminal one-way latch: every later Engine operation
// fails with ErrIndexDropped.
func (e *Engine[R]) Drop() error {
	return e.idx.Drop()
}

// Dispose releases the index's resources without removing its on-disk
// trees.
func (e *Engine[R]) Dispose() error {
	return e.idx.Dispose()
}

// IsReadOnly reports whether the engine currently rejects mutations.
func (e *Engine[R]) IsReadOnly() bool {
	return e.idx.IsReadOnly()
}

// IsIndexDropped reports whether Drop has already run.
func (e *Engine[R]) IsIndexDropped() bool {
	return e.idx.IsIndexDropped()
}

// SetReadOnly flips the read-only flag.
func (e *Engine[R]) SetReadOnly(readOnly bool) error {
	return e.idx.SetReadOnly(readOnly)
}
