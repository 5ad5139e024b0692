// Package lower rewrites a string-leaved query tree into the hashed-
// token tree the executors operate on.
package lower

import (
	"github.com/pixlabs/pix/hashtoken"
	"github.com/pixlabs/pix/query"
)

// Lower applies tok/hash to every string leaf of n and reshapes the
// tree so that a source string spanning more than one word becomes its
// own ordered sub-leaf, rather than being silently merged with its
// siblings' tokens.
func Lower(n *query.QueryNode[string], tok hashtoken.Tokenizer, hash hashtoken.HashGenerator) *query.QueryNode[uint64] {
	if n == nil {
		return nil
	}
	if n.IsEmpty() {
		return &query.QueryNode[uint64]{Kind: n.Kind}
	}
	if n.IsLeaf() {
		return lowerLeaf(n, tok, hash)
	}

	children := make([]*query.QueryNode[uint64], len(n.Children))
	for i, c := range n.Children {
		children[i] = Lower(c, tok, hash)
	}
	return &query.QueryNode[uint64]{
		Kind:              n.Kind,
		Children:          children,
		RespectTokenOrder: n.RespectTokenOrder,
		IsFacet:           n.IsFacet,
	}
}

func lowerLeaf(n *query.QueryNode[string], tok hashtoken.Tokenizer, hash hashtoken.HashGenerator) *query.QueryNode[uint64] {
	perString := make([][]uint64, len(n.Tokens))
	anyMulti := false
	for i, s := range n.Tokens {
		if n.IsFacet {
			perString[i] = []uint64{hash.Hash([]rune(s))}
			continue
		}
		runes := []rune(s)
		slices := tok.Tokenize(runes)
		toks := make([]uint64, len(slices))
		for j, sl := range slices {
			toks[j] = hash.Hash(runes[sl.Offset : sl.Offset+sl.Length])
		}
		perString[i] = toks
		if len(toks) > 1 {
			anyMulti = true
		}
	}

	flatten := func() []uint64 {
		var tokens []uint64
		for _, ts := range perString {
			tokens = append(tokens, ts...)
		}
		return tokens
	}

	if n.Kind == query.Or {
		if !anyMulti {
			return &query.QueryNode[uint64]{Kind: query.Or, Tokens: flatten(), IsFacet: n.IsFacet}
		}
		children := make([]*query.QueryNode[uint64], 0, len(perString))
		for _, ts := range perString {
			children = append(children, &query.QueryNode[uint64]{Kind: query.And, Tokens: ts, RespectTokenOrder: true})
		}
		if len(children) == 1 {
			return children[0]
		}
		return &query.QueryNode[uint64]{Kind: query.Or, Children: children}
	}

	// And or Not leaf.
	if !anyMulti || n.RespectTokenOrder || n.IsFacet {
		return &query.QueryNode[uint64]{
			Kind:              n.Kind,
			Tokens:            flatten(),
			RespectTokenOrder: n.RespectTokenOrder,
			IsFacet:           n.IsFacet,
		}
	}

	children := make([]*query.QueryNode[uint64], 0, len(perString))
	for _, ts := range perString {
		children = append(children, &query.QueryNode[uint64]{Kind: query.And, Tokens: ts, RespectTokenOrder: true})
	}
	if len(children) == 1 {
		child := children[0]
		child.Kind = n.Kind
		return child
	}
	return &query.QueryNode[uint64]{Kind: n.Kind, Children: children}
}
