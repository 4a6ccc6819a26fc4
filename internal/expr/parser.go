// Package expr parses the outer expression language: a call tree of
// function invocations over quoted string literals, e.g.
//
//	first(from_json('{"a":[1,2]}', '$.a[*]'))
//
// Function names are resolved by the evaluator, not here.
package expr

// Node is an expression tree node: either a StringNode or a CallNode.
type Node interface{}

// StringNode is a quoted string literal.
type StringNode struct {
	Text string
}

// CallNode is a function invocation with zero or more argument expressions.
type CallNode struct {
	Name string
	Args []Node
}

type parserState struct {
	tokens []token
	pos    int
}

// Parse compiles expression text into its tree. Errors wrap
// ErrInvalidExpression.
func Parse(input string) (Node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}

	state := parserState{tokens: tokens}
	if state.current().typ == tokenEOF {
		return nil, expressionError("expression is empty")
	}

	root, err := state.parseExpr()
	if err != nil {
		return nil, err
	}

	if token := state.current(); token.typ != tokenEOF {
		return nil, expressionError("unexpected token at position %d", token.pos)
	}

	return root, nil
}

// Validate reports whether the expression text is well-formed without
// evaluating it.
func Validate(input string) error {
	_, err := Parse(input)
	return err
}

func (p *parserState) parseExpr() (Node, error) {
	switch tok := p.current(); tok.typ {
	case tokenString:
		p.advance()
		return StringNode{Text: tok.literal}, nil
	case tokenIdentifier:
		return p.parseCall()
	default:
		return nil, expressionError("expected function call or string at position %d", tok.pos)
	}
}

func (p *parserState) parseCall() (Node, error) {
	name := p.advance().literal

	if tok := p.current(); tok.typ != tokenLParen {
		return nil, expressionError("expected '(' after %q at position %d", name, tok.pos)
	}
	p.advance()

	var args []Node
	if p.current().typ != tokenRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.current().typ != tokenComma {
				break
			}
			p.advance()
		}
	}

	if tok := p.current(); tok.typ != tokenRParen {
		return nil, expressionError("expected ')' at position %d", tok.pos)
	}
	p.advance()

	return CallNode{Name: name, Args: args}, nil
}

func (p *parserState) current() token {
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}
