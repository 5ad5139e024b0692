package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixlabs/pix/hashtoken"
	"github.com/pixlabs/pix/query"
)

func newTestTokenizer(t *testing.T) hashtoken.RuneTokenizer {
	tok, err := hashtoken.NewRuneTokenizer(1, false, nil, nil)
	require.NoError(t, err)
	return tok
}

func TestLowerSingleWordLeaf(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.And, Tokens: []string{"cat"}}
	lowered := Lower(n, tok, hash)
	assert.Equal(t, query.And, lowered.Kind)
	require.Len(t, lowered.Tokens, 1)
	assert.Equal(t, hash.Hash([]rune("cat")), lowered.Tokens[0])
}

func TestLowerAdjacentWordsFlattenNoMulti(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.And, Tokens: []string{"cat", "cow"}, RespectTokenOrder: false}
	lowered := Lower(n, tok, hash)
	assert.Equal(t, query.And, lowered.Kind)
	assert.False(t, lowered.RespectTokenOrder)
	require.Len(t, lowered.Tokens, 2)
	assert.Equal(t, hash.Hash([]rune("cat")), lowered.Tokens[0])
	assert.Equal(t, hash.Hash([]rune("cow")), lowered.Tokens[1])
}

func TestLowerQuotedPhraseBecomesOrderedChild(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.And, Tokens: []string{"cat cow"}, RespectTokenOrder: false}
	lowered := Lower(n, tok, hash)
	// a single multi-token string collapses to one ordered leaf, kind preserved.
	assert.Equal(t, query.And, lowered.Kind)
	assert.True(t, lowered.RespectTokenOrder)
	require.Len(t, lowered.Tokens, 2)
	assert.Equal(t, hash.Hash([]rune("cat")), lowered.Tokens[0])
	assert.Equal(t, hash.Hash([]rune("cow")), lowered.Tokens[1])
}

func TestLowerMultiTokenStringsSpawnPerStringChildren(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.And, Tokens: []string{"cat cow", "fox"}, RespectTokenOrder: false}
	lowered := Lower(n, tok, hash)
	assert.Equal(t, query.And, lowered.Kind)
	require.Len(t, lowered.Children, 2)
	assert.True(t, lowered.Children[0].RespectTokenOrder)
	assert.Equal(t, 2, len(lowered.Children[0].Tokens))
	assert.Equal(t, 1, len(lowered.Children[1].Tokens))
}

func TestLowerFacetKeepsStringAtomic(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.And, Tokens: []string{"category:red"}, IsFacet: true}
	lowered := Lower(n, tok, hash)
	require.Len(t, lowered.Tokens, 1)
	assert.Equal(t, hash.Hash([]rune("category:red")), lowered.Tokens[0])
}

func TestLowerOrLeafFlattensWithoutMulti(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.Or, Tokens: []string{"cat", "dog"}}
	lowered := Lower(n, tok, hash)
	assert.Equal(t, query.Or, lowered.Kind)
	require.Len(t, lowered.Tokens, 2)
}

func TestLowerRecursesIntoChildren(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.And, Children: []*query.QueryNode[string]{
		{Kind: query.Or, Tokens: []string{"cat", "cow"}},
		{Kind: query.Not, Tokens: []string{"category:red"}, IsFacet: true},
	}}
	lowered := Lower(n, tok, hash)
	require.Len(t, lowered.Children, 2)
	assert.Equal(t, query.Or, lowered.Children[0].Kind)
	assert.Equal(t, query.Not, lowered.Children[1].Kind)
}

func TestLowerIsDeterministic(t *testing.T) {
	tok := newTestTokenizer(t)
	hash := hashtoken.NewXXHashGenerator()
	n := &query.QueryNode[string]{Kind: query.And, Children: []*query.QueryNode[string]{
		{Kind: query.And, Tokens: []string{"cat cow", "fox"}},
		{Kind: query.Or, Tokens: []string{"dog"}},
	}}
	a := Lower(n, tok, hash)
	b := Lower(n, tok, hash)
	assert.Equal(t, a, b)
}
