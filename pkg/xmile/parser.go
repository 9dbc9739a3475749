package xmile

import (
	"strings"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

// parser is a recursive-descent parser over a token stream, one method per
// precedence level, in the style of go-corset's sexp.Parser and
// pkg/corset/parser.go (rune-array plus index cursor rewritten here as a
// token-array plus index cursor, since equations need real operator
// precedence that an S-expression reader does not).
type parser struct {
	toks     []token
	pos      int
	maxDepth int
	depth    int
}

// ParseEquation parses the text of one <eqn> element into an Expr, enforcing
// cfg.MaxEquationDepth (spec §4.2 "nesting deeper than max_equation_depth is
// ExpressionDepthExceed").
func ParseEquation(text string, cfg Config) (Expr, error) {
	toks, err := newLexer(text).tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, maxDepth: cfg.MaxEquationDepth}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.cur().kind != tokEOF {
		return nil, &source.Diagnostic{
			Kind:     string(KindExpressionSyntax),
			Message:  "unexpected trailing input after equation",
			Primary:  p.cur().span,
			Severity: source.SeverityError,
		}
	}

	return expr, nil
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, p.syntaxErrorf("expected "+what, p.cur().span)
	}

	return p.advance(), nil
}

func (p *parser) syntaxErrorf(msg string, span source.Span) error {
	return &source.Diagnostic{
		Kind:     string(KindExpressionSyntax),
		Message:  msg,
		Primary:  span,
		Severity: source.SeverityError,
	}
}

func (p *parser) enter(span source.Span) error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return &source.Diagnostic{
			Kind:     string(KindExpressionDepthExceed),
			Message:  "equation nesting exceeds max_equation_depth",
			Primary:  span,
			Severity: source.SeverityError,
		}
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

// spanFrom returns the span running from start (a token captured before
// parsing began) through the last token this parser has consumed, used to
// stamp every constructed node with the source range it was parsed from
// (spec §3 "every AST node carries an optional source span").
func (p *parser) spanFrom(start token) source.Span {
	end := p.toks[p.pos-1]
	return source.NewSpan(start.span.Start(), end.span.End())
}

// parseExpr is the entry production: `IF cond THEN a ELSE b` or the OR-chain
// below it.
func (p *parser) parseExpr() (Expr, error) {
	start := p.cur()

	if err := p.enter(start.span); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.cur().kind == tokIf {
		p.advance()

		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokThen, "THEN"); err != nil {
			return nil, err
		}

		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokElse, "ELSE"); err != nil {
			return nil, err
		}

		els, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &Conditional{baseNode: baseNode{span: p.spanFrom(start)}, Cond: cond, Then: then, Else: els}, nil
	}

	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	start := p.cur()

	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokOr {
		p.advance()

		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		lhs = &Binary{baseNode: baseNode{span: p.spanFrom(start)}, Op: OpOr, L: lhs, R: rhs}
	}

	return lhs, nil
}

func (p *parser) parseAnd() (Expr, error) {
	start := p.cur()

	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokAnd {
		p.advance()

		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		lhs = &Binary{baseNode: baseNode{span: p.spanFrom(start)}, Op: OpAnd, L: lhs, R: rhs}
	}

	return lhs, nil
}

func (p *parser) parseNot() (Expr, error) {
	start := p.cur()

	if p.cur().kind == tokNot {
		p.advance()

		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		return &Unary{baseNode: baseNode{span: p.spanFrom(start)}, Op: UnaryNot, X: x}, nil
	}

	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	start := p.cur()

	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	op, ok := comparisonOp(p.cur().kind)
	if !ok {
		return lhs, nil
	}

	p.advance()

	rhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	return &Binary{baseNode: baseNode{span: p.spanFrom(start)}, Op: op, L: lhs, R: rhs}, nil
}

func comparisonOp(k tokenKind) (BinaryOp, bool) {
	switch k {
	case tokEq:
		return OpEq, true
	case tokNeq:
		return OpNeq, true
	case tokLt:
		return OpLt, true
	case tokLe:
		return OpLe, true
	case tokGt:
		return OpGt, true
	case tokGe:
		return OpGe, true
	default:
		return 0, false
	}
}

func (p *parser) parseAdditive() (Expr, error) {
	start := p.cur()

	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokPlus || p.cur().kind == tokMinus {
		op := OpAdd
		if p.cur().kind == tokMinus {
			op = OpSub
		}

		p.advance()

		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		lhs = &Binary{baseNode: baseNode{span: p.spanFrom(start)}, Op: op, L: lhs, R: rhs}
	}

	return lhs, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	start := p.cur()

	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur().kind == tokStar || p.cur().kind == tokSlash {
		op := OpMul
		if p.cur().kind == tokSlash {
			op = OpDiv
		}

		p.advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		lhs = &Binary{baseNode: baseNode{span: p.spanFrom(start)}, Op: op, L: lhs, R: rhs}
	}

	return lhs, nil
}

func (p *parser) parseUnary() (Expr, error) {
	start := p.cur()

	switch p.cur().kind {
	case tokPlus:
		p.advance()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{baseNode: baseNode{span: p.spanFrom(start)}, Op: UnaryPlus, X: x}, nil
	case tokMinus:
		p.advance()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{baseNode: baseNode{span: p.spanFrom(start)}, Op: UnaryMinus, X: x}, nil
	default:
		return p.parsePower()
	}
}

// parsePower handles right-associative `^`, e.g. `2^3^2 == 2^(3^2)`.
func (p *parser) parsePower() (Expr, error) {
	start := p.cur()

	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.cur().kind == tokCaret {
		p.advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Binary{baseNode: baseNode{span: p.spanFrom(start)}, Op: OpPow, L: lhs, R: rhs}, nil
	}

	return lhs, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	start := p.cur()

	if err := p.enter(start.span); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.cur()

	switch t.kind {
	case tokNumber:
		p.advance()
		return &NumberLit{baseNode: baseNode{span: t.span}, Value: t.num}, nil
	case tokString:
		p.advance()
		return &StringLit{baseNode: baseNode{span: t.span}, Value: t.text}, nil
	case tokLParen:
		p.advance()

		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}

		return e, nil
	case tokLBrace:
		return p.parseArrayLit()
	case tokIdent:
		return p.parseIdentOrCall()
	default:
		return nil, p.syntaxErrorf("expected an expression", t.span)
	}
}

func (p *parser) parseArrayLit() (Expr, error) {
	start := p.cur()
	p.advance() // consume '{'

	var elems []Expr

	if p.cur().kind != tokRBrace {
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			elems = append(elems, e)

			if p.cur().kind != tokComma {
				break
			}

			p.advance()
		}
	}

	if _, err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}

	return &ArrayLit{baseNode: baseNode{span: p.spanFrom(start)}, Elements: elems}, nil
}

func (p *parser) parseIdentOrCall() (Expr, error) {
	nameTok := p.advance()
	ns, name := splitNamespace(nameTok.text)

	if p.cur().kind == tokLParen {
		p.advance()

		var args []Expr

		if p.cur().kind != tokRParen {
			for {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}

				args = append(args, a)

				if p.cur().kind != tokComma {
					break
				}

				p.advance()
			}
		}

		if _, err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}

		return &Call{baseNode: baseNode{span: p.spanFrom(nameTok)}, Namespace: ns, Name: strings.ToUpper(name), Args: args}, nil
	}

	var subs []Subscript

	if p.cur().kind == tokLBracket {
		p.advance()

		for {
			s, err := p.parseSubscript()
			if err != nil {
				return nil, err
			}

			subs = append(subs, s)

			if p.cur().kind != tokComma {
				break
			}

			p.advance()
		}

		if _, err := p.expect(tokRBracket, "]"); err != nil {
			return nil, err
		}
	}

	return &Ident{baseNode: baseNode{span: p.spanFrom(nameTok)}, Namespace: ns, Name: name, Subscripts: subs}, nil
}

func (p *parser) parseSubscript() (Subscript, error) {
	t := p.cur()

	switch t.kind {
	case tokStar:
		p.advance()
		return Subscript{Name: "*", IsWildcard: true}, nil
	case tokNumber:
		p.advance()
		return Subscript{Index: t.num, IsIndex: true}, nil
	case tokIdent:
		p.advance()
		return Subscript{Name: t.text}, nil
	default:
		return Subscript{}, p.syntaxErrorf("expected a subscript", t.span)
	}
}
