// Package lang implements the query language: a lexer (lexer.go) and a
// Pratt-precedence recursive-descent parser producing a
// query.QueryNode[string] tree.
package lang

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/pixlabs/pix/ixerrors"
	"github.com/pixlabs/pix/query"
)

const (
	precOr  = 1
	precAnd = 2
)

// Parser consumes a token stream and builds the query tree. It holds a
// one-token lookahead buffer, the conventional shape for a recursive-
// descent parser.
type Parser struct {
	lex     *Lexer
	lookPos int
	look    Token
	primed  bool
}

// NewParser constructs a Parser over query text.
func NewParser(text string) *Parser {
	return &Parser{lex: NewLexer(text)}
}

// Parse parses an entire query string into a tree. An entirely empty
// query yields an empty node (no tokens, no children) with a nil error.
func Parse(text string) (*query.QueryNode[string], error) {
	p := NewParser(text)
	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) peek() Token {
	if !p.primed {
		p.look = p.lex.Next()
		p.primed = true
	}
	return p.look
}

func (p *Parser) advance() Token {
	tok := p.peek()
	p.primed = false
	return tok
}

func unexpected(tok Token) error {
	return errors.Wrapf(ixerrors.ErrUnexpectedToken, "at position %d: unexpected %s %q", tok.Pos, tok.Kind, tok.Text)
}

// isTerminator reports whether tok legitimately ends a term/factor
// without being an error — the set of cases the error-tolerance policy
// covers (trailing operator, end of input, a closing delimiter that
// belongs to an enclosing production).
func isTerminator(tok Token) bool {
	switch tok.Kind {
	case TokEOF, TokRParen, TokRBracket, TokComma:
		return true
	}
	return false
}

func emptyNode() *query.QueryNode[string] {
	return &query.QueryNode[string]{Kind: query.And}
}

// parseExpression implements precedence-climbing over the two binary
// operators (AND=2 binds tighter than OR=1), left-associative.
func (p *Parser) parseExpression(minPrec int) (*query.QueryNode[string], error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		var prec int
		var kind query.Kind
		switch tok.Kind {
		case TokAnd:
			prec, kind = precAnd, query.And
		case TokOr:
			prec, kind = precOr, query.Or
		default:
			return left, nil
		}
		if prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		if right.IsEmpty() {
			// trailing operator: graceful termination, drop it.
			continue
		}
		left = combine(kind, left, right)
	}
}

// combine merges left and right under a binary operator. Two leaves
// that read as one leaf of that operator (for AND: And leaves; for OR:
// Or leaves or single-token And leaves; facet-ness equal) are merged
// into a single leaf; otherwise a chain of the same operator is
// flattened into one node's Children rather than nesting binary pairs.
func combine(kind query.Kind, left, right *query.QueryNode[string]) *query.QueryNode[string] {
	if left.IsEmpty() {
		return right
	}
	joins := func(n *query.QueryNode[string]) bool {
		if !n.IsLeaf() || n.IsFacet != left.IsFacet {
			return false
		}
		if kind == query.And {
			return n.Kind == query.And
		}
		return n.Kind == query.Or || (n.Kind == query.And && len(n.Tokens) == 1)
	}
	if joins(left) && joins(right) {
		tokens := append(append([]string{}, left.Tokens...), right.Tokens...)
		return &query.QueryNode[string]{Kind: kind, Tokens: tokens, IsFacet: left.IsFacet}
	}
	if left.Kind == kind && !left.IsLeaf() {
		left.Children = append(left.Children, right)
		return left
	}
	return &query.QueryNode[string]{Kind: kind, Children: []*query.QueryNode[string]{left, right}}
}

// parseTerm handles IN/NOT at the term level, falling through to factor.
func (p *Parser) parseTerm() (*query.QueryNode[string], error) {
	tok := p.peek()
	switch tok.Kind {
	case TokIn:
		p.advance()
		items, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return &query.QueryNode[string]{Kind: query.Or, Tokens: items}, nil
	case TokNot:
		p.advance()
		if p.peek().Kind == TokIn {
			p.advance()
			items, err := p.parseList()
			if err != nil {
				return nil, err
			}
			or := &query.QueryNode[string]{Kind: query.Or, Tokens: items}
			return &query.QueryNode[string]{Kind: query.Not, Children: []*query.QueryNode[string]{or}, RespectTokenOrder: false}, nil
		}
		factor, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if factor.IsEmpty() {
			return emptyNode(), nil
		}
		return &query.QueryNode[string]{Kind: query.Not, Children: []*query.QueryNode[string]{factor}}, nil
	default:
		return p.parseFactor()
	}
}

// parseFactor handles parenthesized expressions, bracket lists, and the
// word/phrase-led productions: facet_expr, facet_in, facet_not_in, and
// the implicit-AND run of adjacent words/phrases.
func (p *Parser) parseFactor() (*query.QueryNode[string], error) {
	tok := p.peek()

	if isTerminator(tok) {
		return emptyNode(), nil
	}

	switch tok.Kind {
	case TokLParen:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if p.peek().Kind == TokRParen {
			p.advance()
		}
		// an unclosed paren is tolerated: fall through without consuming.
		if inner.IsEmpty() {
			return emptyNode(), nil
		}
		return inner, nil

	case TokLBracket:
		items, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return &query.QueryNode[string]{Kind: query.Or, Tokens: items}, nil

	case TokWord, TokPhrase:
		return p.parseWordLed()

	default:
		return nil, unexpected(tok)
	}
}

func (p *Parser) parseWordLed() (*query.QueryNode[string], error) {
	first := p.advance()

	switch p.peek().Kind {
	case TokColon:
		p.advance()
		value := p.peek()
		if value.Kind != TokWord && value.Kind != TokPhrase {
			if isTerminator(value) {
				return &query.QueryNode[string]{Kind: query.And, Tokens: []string{first.Text}}, nil
			}
			return nil, unexpected(value)
		}
		p.advance()
		return &query.QueryNode[string]{
			Kind:    query.And,
			Tokens:  []string{facetToken(first.Text, value.Text)},
			IsFacet: true,
		}, nil

	case TokIn:
		p.advance()
		items, err := p.parseList()
		if err != nil {
			return nil, err
		}
		return &query.QueryNode[string]{Kind: query.Or, Tokens: facetTokens(first.Text, items), IsFacet: true}, nil

	case TokNot:
		// only "NOT IN" is meaningful here; any other NOT usage belongs
		// to the next term, so only consume it on that specific lookahead.
		save, savedPrimed := p.look, p.primed
		p.advance()
		if p.peek().Kind == TokIn {
			p.advance()
			items, err := p.parseList()
			if err != nil {
				return nil, err
			}
			or := &query.QueryNode[string]{Kind: query.Or, Tokens: facetTokens(first.Text, items), IsFacet: true}
			return &query.QueryNode[string]{Kind: query.Not, Children: []*query.QueryNode[string]{or}, RespectTokenOrder: false}, nil
		}
		// not actually "NOT IN": push the NOT back for the caller's term loop.
		p.look, p.primed = save, savedPrimed
		return &query.QueryNode[string]{Kind: query.And, Tokens: []string{first.Text}}, nil

	default:
		tokens := []string{first.Text}
		for p.peek().Kind == TokWord || p.peek().Kind == TokPhrase {
			tokens = append(tokens, p.advance().Text)
		}
		return &query.QueryNode[string]{Kind: query.And, Tokens: tokens, RespectTokenOrder: false}, nil
	}
}

func facetToken(name, value string) string {
	return fmt.Sprintf("%s:%s", name, value)
}

func facetTokens(name string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = facetToken(name, v)
	}
	return out
}

// parseList parses "[" (word|phrase) ("," (word|phrase))* "]", tolerating
// a missing closing bracket by stopping at end of input.
func (p *Parser) parseList() ([]string, error) {
	if p.peek().Kind == TokLBracket {
		p.advance()
	}
	var items []string
	if p.peek().Kind == TokRBracket {
		p.advance()
		return items, nil
	}
	for {
		tok := p.peek()
		if tok.Kind == TokEOF {
			return items, nil
		}
		if tok.Kind != TokWord && tok.Kind != TokPhrase {
			return nil, unexpected(tok)
		}
		p.advance()
		items = append(items, tok.Text)

		switch p.peek().Kind {
		case TokComma:
			p.advance()
			continue
		case TokRBracket:
			p.advance()
			return items, nil
		case TokEOF:
			return items, nil
		default:
			return items, nil
		}
	}
}
