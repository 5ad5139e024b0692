package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func leaf(kind Kind, tokens ...string) *QueryNode[string] {
	return &QueryNode[string]{Kind: kind, Tokens: tokens}
}

func TestHasAnyPositiveCriteriaEmptyNode(t *testing.T) {
	assert.False(t, HasAnyPositiveCriteria(&QueryNode[string]{}))
}

func TestHasAnyPositiveCriteriaPlainAnd(t *testing.T) {
	assert.True(t, HasAnyPositiveCriteria(leaf(And, "cat")))
}

func TestHasAnyPositiveCriteriaBareNot(t *testing.T) {
	assert.False(t, HasAnyPositiveCriteria(leaf(Not, "cat")))
}

func TestHasAnyPositiveCriteriaOrOfNots(t *testing.T) {
	n := &QueryNode[string]{Kind: Or, Children: []*QueryNode[string]{leaf(Not, "cat"), leaf(Not, "dog")}}
	assert.False(t, HasAnyPositiveCriteria(n))
}

func TestHasAnyPositiveCriteriaAndWithOnePositiveChild(t *testing.T) {
	n := &QueryNode[string]{Kind: And, Children: []*QueryNode[string]{
		{Kind: Or, Children: []*QueryNode[string]{leaf(Not, "cat"), leaf(Not, "dog")}},
		leaf(And, "fox"),
	}}
	assert.True(t, HasAnyPositiveCriteria(n))
}

func TestQueryNodeIsEmptyAndIsLeaf(t *testing.T) {
	var n *QueryNode[string]
	assert.True(t, n.IsEmpty())

	empty := &QueryNode[string]{Kind: And}
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsLeaf())

	l := leaf(And, "cat")
	assert.False(t, l.IsEmpty())
	assert.True(t, l.IsLeaf())
}
