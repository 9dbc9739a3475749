// Package units implements the unit-expression sublanguage of spec §4.3:
// algebraic products, quotients and integer powers of primitive unit names
// (e.g. "kg*m/s^2"), canonicalized to a map from unit name to signed
// exponent so that equivalence is a plain map comparison (spec §8, invariant
// 4).
package units

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xmile-tools/go-xmile/pkg/ident"
	"github.com/xmile-tools/go-xmile/pkg/source"
)

// Expr is a parsed, canonicalized unit expression: a map from canonical unit
// name to its signed integer exponent. The dimensionless unit "1" is the
// empty map.
type Expr map[string]int

// Equal implements spec §8 invariant 4: two unit expressions are equivalent
// iff their exponent maps are equal.
func (e Expr) Equal(other Expr) bool {
	if len(e) != len(other) {
		return false
	}

	for name, exp := range e {
		if other[name] != exp {
			return false
		}
	}

	return true
}

// IsDimensionless reports whether this is the unity expression.
func (e Expr) IsDimensionless() bool {
	return len(e) == 0
}

// String renders a canonical textual form, useful for diagnostics: unit
// names sorted, positive exponents in the numerator, negative in the
// denominator.
func (e Expr) String() string {
	if len(e) == 0 {
		return "1"
	}

	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}

	sort.Strings(names)

	var num, den []string

	for _, name := range names {
		exp := e[name]

		switch {
		case exp == 1:
			num = append(num, name)
		case exp > 1:
			num = append(num, fmt.Sprintf("%s^%d", name, exp))
		case exp == -1:
			den = append(den, name)
		case exp < -1:
			den = append(den, fmt.Sprintf("%s^%d", name, -exp))
		}
	}

	out := strings.Join(num, "*")
	if out == "" {
		out = "1"
	}

	if len(den) > 0 {
		out += "/" + strings.Join(den, "/")
	}

	return out
}

// ParseError reports a failure to parse a unit expression (spec §7 kind
// UnitParseError).
type ParseError struct {
	Message string
	Span    source.Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}

// Parse parses a unit-expression string per the grammar in spec §4.3:
//
//	units := factor (('*'|'/') factor)*
//	factor := name ('^' int)? | '(' units ')' | '1'
//
// identifier canonicalization (spec §4.1) is applied to every unit name so
// that "Kg" and "kg" denote the same primitive unit.
func Parse(text string, opts ident.Options) (Expr, error) {
	p := &parser{text: []rune(text), opts: opts}

	p.skipSpace()

	expr, err := p.parseUnits()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.pos != len(p.text) {
		return nil, &ParseError{"unexpected trailing input", source.NewSpan(p.pos, len(p.text))}
	}

	return expr, nil
}

type parser struct {
	text []rune
	pos  int
	opts ident.Options
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) && (p.text[p.pos] == ' ' || p.text[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.text) {
		return 0, false
	}

	return p.text[p.pos], true
}

// parseUnits handles the '*'/'/' product-of-factors level, multiplying or
// dividing exponent maps as it goes.
func (p *parser) parseUnits() (Expr, error) {
	result, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		c, ok := p.peek()
		if !ok || (c != '*' && c != '/') {
			break
		}

		p.pos++
		p.skipSpace()

		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		if c == '*' {
			result = multiply(result, rhs, 1)
		} else {
			result = multiply(result, rhs, -1)
		}
	}

	return result, nil
}

// parseFactor handles a single primitive unit (optionally raised to an
// integer power), a parenthesized sub-expression, or the literal "1".
func (p *parser) parseFactor() (Expr, error) {
	p.skipSpace()

	c, ok := p.peek()
	if !ok {
		return nil, &ParseError{"unexpected end of unit expression", source.NewSpan(p.pos, p.pos)}
	}

	if c == '(' {
		p.pos++

		inner, err := p.parseUnits()
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if c, ok := p.peek(); !ok || c != ')' {
			return nil, &ParseError{"expected closing ')'", source.NewSpan(p.pos, p.pos)}
		}

		p.pos++

		return p.parsePower(inner)
	}

	start := p.pos

	for p.pos < len(p.text) && isUnitNameRune(p.text[p.pos]) {
		p.pos++
	}

	if p.pos == start {
		return nil, &ParseError{fmt.Sprintf("unexpected character %q in unit expression", c), source.NewSpan(p.pos, p.pos+1)}
	}

	name := string(p.text[start:p.pos])
	if name == "1" {
		return p.parsePower(Expr{})
	}

	id, err := ident.Canonicalize(name, p.opts)
	if err != nil {
		return nil, &ParseError{err.Error(), source.NewSpan(start, p.pos)}
	}

	return p.parsePower(Expr{id.Canonical: 1})
}

// parsePower applies an optional '^' integer exponent to base.
func (p *parser) parsePower(base Expr) (Expr, error) {
	p.skipSpace()

	c, ok := p.peek()
	if !ok || c != '^' {
		return base, nil
	}

	p.pos++
	p.skipSpace()

	start := p.pos
	if c, ok := p.peek(); ok && (c == '+' || c == '-') {
		p.pos++
	}

	for p.pos < len(p.text) && p.text[p.pos] >= '0' && p.text[p.pos] <= '9' {
		p.pos++
	}

	if p.pos == start {
		return nil, &ParseError{"expected integer exponent after '^'", source.NewSpan(p.pos, p.pos)}
	}

	exp, err := strconv.Atoi(string(p.text[start:p.pos]))
	if err != nil {
		return nil, &ParseError{"malformed exponent", source.NewSpan(start, p.pos)}
	}

	return scale(base, exp), nil
}

func isUnitNameRune(r rune) bool {
	switch r {
	case '*', '/', '^', '(', ')', ' ', '\t':
		return false
	default:
		return true
	}
}

// multiply combines lhs and rhs, adding rhs's exponents (scaled by sign)
// into a fresh copy of lhs.
func multiply(lhs, rhs Expr, sign int) Expr {
	out := make(Expr, len(lhs)+len(rhs))

	for k, v := range lhs {
		out[k] = v
	}

	for k, v := range rhs {
		out[k] += sign * v
		if out[k] == 0 {
			delete(out, k)
		}
	}

	return out
}

// scale multiplies every exponent in e by n, dropping entries that become
// zero.
func scale(e Expr, n int) Expr {
	out := make(Expr, len(e))

	for k, v := range e {
		if nv := v * n; nv != 0 {
			out[k] = nv
		}
	}

	return out
}
