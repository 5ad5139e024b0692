package exec

import (
	"context"
	"time"

	"github.com/pixlabs/pix/pixlog"
	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/store"
)

// Simple is the conjunctive-token-plus-optional-facet-OR executor:
// fixed AND group, optional token order, optional disjunctive facet
// filter, with skip/limit pagination.
type Simple[T, R comparable] struct {
	base[T, R]
	Log pixlog.Logger
}

// NewSimple constructs a Simple executor over a primary index.
func NewSimple[T, R comparable](primary store.Store, keys pkey.Triples[T, R], log pixlog.Logger) *Simple[T, R] {
	if log == nil {
		log = pixlog.Noop()
	}
	return &Simple[T, R]{base: base[T, R]{Primary: primary, Keys: keys}, Log: log}
}

// Search runs the probe-and-verify algorithm described for the simple
// executor. A nil firstLookAt means "use the default probe choice": the
// first token when tokens is non-empty, otherwise the first facet.
func (s *Simple[T, R]) Search(
	ctx context.Context,
	tokens []T,
	firstLookAt *T,
	respectOrder bool,
	facets []T,
	skip, limit int,
) ([]R, error) {
	start := time.Now()
	defer func() { SearchDuration.WithLabelValues("simple").Observe(time.Since(start).Seconds()) }()

	if len(tokens) == 0 && len(facets) == 0 {
		return nil, nil
	}
	facetOnly := len(tokens) == 0

	var probe T
	switch {
	case firstLookAt != nil:
		probe = *firstLookAt
	case !facetOnly:
		probe = tokens[0]
	default:
		probe = facets[0]
	}
	ProbeFanout.WithLabelValues("simple").Inc()

	prefix := s.Keys.TokenPrefix(probe)
	enum, err := s.Primary.Forward(prefix, pkey.PrefixUpperBound(prefix))
	if err != nil {
		return nil, err
	}
	defer enum.Close()

	verify, err := s.Primary.Forward(nil, nil)
	if err != nil {
		return nil, err
	}
	defer verify.Close()

	var result []R
	var lastRecord R
	haveLast := false
	off := 0

	for ok := enum.SeekGE(prefix); ok; ok = enum.Next() {
		select {
		case <-ctx.Done():
			Cancellations.WithLabelValues("simple").Inc()
			return result, nil
		default:
		}

		key := enum.Key()
		if !pkey.HasPrefix(key, prefix) {
			break
		}
		tok, record, prevTok := s.Keys.Decode(key)
		if tok != probe {
			break
		}
		if isTombstoned(enum.Value()) {
			continue
		}
		if haveLast && record == lastRecord {
			continue
		}
		haveLast, lastRecord = true, record

		if facetOnly {
			if prevTok != probe {
				continue
			}
		} else {
			if !s.containsAll(verify, tokens, record, respectOrder) {
				continue
			}
			if len(facets) > 0 && !s.containsAny(verify, facets, record, true) {
				continue
			}
		}

		if off >= skip {
			result = append(result, record)
		}
		off++
		if limit > 0 && off == skip+limit {
			break
		}
	}

	return result, nil
}
