package exec

import (
	"context"
	"time"

	"github.com/pixlabs/pix/pixlog"
	"github.com/pixlabs/pix/pkey"
	"github.com/pixlabs/pix/query"
	"github.com/pixlabs/pix/store"
)

// Advanced evaluates an arbitrary Boolean/facet query tree: it chooses
// one or more cheap probe tokens, enumerates their postings, and
// verifies each candidate record against the whole tree.
type Advanced[T, R comparable] struct {
	base[T, R]
	Log pixlog.Logger
}

// NewAdvanced constructs an Advanced executor over a primary index.
func NewAdvanced[T, R comparable](primary store.Store, keys pkey.Triples[T, R], log pixlog.Logger) *Advanced[T, R] {
	if log == nil {
		log = pixlog.Noop()
	}
	return &Advanced[T, R]{base: base[T, R]{Primary: primary, Keys: keys}, Log: log}
}

// ProbeToken is a candidate seek point chosen by FindProbeTokens.
type ProbeToken[T any] struct {
	Token   T
	IsFacet bool
}

// FindProbeTokens computes the set of cheap probe tokens for node by
// the structural recursion described for the advanced executor: And
// leaves probe their first_look_at (or first token); And-with-children
// take the rarest child's probe list; Or leaves probe every token; Or
// with children probes the union of its children's probe lists. Or
// with a Not child (or with a child that has no probe of its own), and
// any Not node, admit no cheap probe at all.
func FindProbeTokens[T comparable](n *query.QueryNode[T]) []ProbeToken[T] {
	if n.IsEmpty() {
		return nil
	}
	switch n.Kind {
	case query.Not:
		return nil

	case query.Or:
		if n.IsLeaf() {
			out := make([]ProbeToken[T], len(n.Tokens))
			for i, tk := range n.Tokens {
				out[i] = ProbeToken[T]{Token: tk, IsFacet: n.IsFacet}
			}
			return out
		}
		for _, c := range n.Children {
			if c.Kind == query.Not {
				return nil
			}
		}
		var out []ProbeToken[T]
		for _, c := range n.Children {
			p := FindProbeTokens(c)
			if len(p) == 0 {
				return nil
			}
			out = append(out, p...)
		}
		return out

	default: // And
		if n.IsLeaf() {
			tk := n.Tokens[0]
			if n.HasFirstLookAt {
				tk = n.FirstLookAt
			}
			return []ProbeToken[T]{{Token: tk, IsFacet: n.IsFacet}}
		}
		return minProbeList(n.Children)
	}
}

func minProbeList[T comparable](children []*query.QueryNode[T]) []ProbeToken[T] {
	var best []ProbeToken[T]
	for _, c := range children {
		p := FindProbeTokens(c)
		if len(p) == 0 {
			continue
		}
		if best == nil || len(p) < len(best) {
			best = p
		}
	}
	return best
}

// Matches reports whether record satisfies node, recursively.
func (a *Advanced[T, R]) Matches(verify store.Iterator, n *query.QueryNode[T], record R) bool {
	if n.IsEmpty() {
		return false
	}
	switch n.Kind {
	case query.And:
		if n.IsLeaf() {
			if n.IsFacet {
				return a.containsAllFacets(verify, n.Tokens, record)
			}
			return a.containsAll(verify, n.Tokens, record, n.RespectTokenOrder)
		}
		for _, c := range n.Children {
			if !a.Matches(verify, c, record) {
				return false
			}
		}
		return true

	case query.Or:
		if n.IsLeaf() {
			return a.containsAny(verify, n.Tokens, record, n.IsFacet)
		}
		for _, c := range n.Children {
			if a.Matches(verify, c, record) {
				return true
			}
		}
		return false

	case query.Not:
		if n.IsLeaf() {
			switch {
			case n.IsFacet:
				return !a.containsAny(verify, n.Tokens, record, true)
			case n.RespectTokenOrder:
				return !a.containsAll(verify, n.Tokens, record, true)
			default:
				return !a.containsAny(verify, n.Tokens, record, false)
			}
		}
		for _, c := range n.Children {
			if a.Matches(verify, c, record) {
				return false
			}
		}
		return true
	}
	return false
}

// Search dispatches a query tree: a full-scan fallback when the tree
// carries no positive criteria, otherwise one seek per probe token with
// de-duplication and tree verification of each candidate.
func (a *Advanced[T, R]) Search(ctx context.Context, root *query.QueryNode[T], skip, limit int) ([]R, error) {
	start := time.Now()
	defer func() { SearchDuration.WithLabelValues("advanced").Observe(time.Since(start).Seconds()) }()

	if root.IsEmpty() {
		return nil, nil
	}

	verify, err := a.Primary.Forward(nil, nil)
	if err != nil {
		return nil, err
	}
	defer verify.Close()

	if !query.HasAnyPositiveCriteria(root) {
		return a.fullScan(ctx, verify, root, skip, limit)
	}

	probes := FindProbeTokens(root)
	if len(probes) == 0 {
		return nil, nil
	}
	ProbeFanout.WithLabelValues("advanced").Add(float64(len(probes)))

	var result []R
	seen := make(map[R]struct{})
	off := 0

probeLoop:
	for _, p := range probes {
		prefix := a.Keys.TokenPrefix(p.Token)
		enum, err := a.Primary.Forward(prefix, pkey.PrefixUpperBound(prefix))
		if err != nil {
			return nil, err
		}

		for ok := enum.SeekGE(prefix); ok; ok = enum.Next() {
			select {
			case <-ctx.Done():
				Cancellations.WithLabelValues("advanced").Inc()
				enum.Close()
				break probeLoop
			default:
			}

			key := enum.Key()
			if !pkey.HasPrefix(key, prefix) {
				break
			}
			tok, record, prevTok := a.Keys.Decode(key)
			if tok != p.Token {
				break
			}
			if isTombstoned(enum.Value()) {
				continue
			}
			if p.IsFacet && prevTok != p.Token {
				continue
			}
			if _, dup := seen[record]; dup {
				continue
			}
			seen[record] = struct{}{}

			if !a.Matches(verify, root, record) {
				continue
			}
			if off >= skip {
				result = append(result, record)
			}
			off++
			if limit > 0 && off == skip+limit {
				enum.Close()
				break probeLoop
			}
		}
		enum.Close()
	}

	return result, nil
}

func (a *Advanced[T, R]) fullScan(ctx context.Context, verify store.Iterator, root *query.QueryNode[T], skip, limit int) ([]R, error) {
	scan, err := a.Primary.Forward(nil, nil)
	if err != nil {
		return nil, err
	}
	defer scan.Close()

	var result []R
	seen := make(map[R]struct{})
	off := 0

	for ok := scan.SeekGE(nil); ok; ok = scan.Next() {
		select {
		case <-ctx.Done():
			Cancellations.WithLabelValues("advanced").Inc()
			return result, nil
		default:
		}

		if isTombstoned(scan.Value()) {
			continue
		}
		_, record, _ := a.Keys.Decode(scan.Key())
		if _, dup := seen[record]; dup {
			continue
		}
		seen[record] = struct{}{}

		if !a.Matches(verify, root, record) {
			continue
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
