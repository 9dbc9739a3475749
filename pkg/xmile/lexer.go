package xmile

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

// tokenKind enumerates the lexical categories of spec §4.2's equation
// grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokEq
	tokNeq
	tokLt
	tokLe
	tokGt
	tokGe
	tokAnd
	tokOr
	tokNot
	tokIf
	tokThen
	tokElse
	tokColon
)

type token struct {
	kind tokenKind
	text string
	num  float64
	span source.Span
}

// lexer tokenizes the text of a single <eqn> element. Runs eagerly over the
// whole equation (equations are always short) rather than incrementally,
// mirroring go-corset's sexp.Parser reading its whole input into a []rune up
// front (pkg/sexp/parser.go).
type lexer struct {
	text []rune
	pos  int
}

func newLexer(text string) *lexer {
	return &lexer{text: []rune(text)}
}

func (l *lexer) tokenize() ([]token, error) {
	var toks []token

	for {
		l.skipSpace()
		if l.pos >= len(l.text) {
			toks = append(toks, token{kind: tokEOF, span: source.NewSpan(l.pos, l.pos)})
			return toks, nil
		}

		start := l.pos
		r := l.text[l.pos]

		switch {
		case r == '(':
			l.pos++
			toks = append(toks, token{kind: tokLParen, span: source.NewSpan(start, l.pos)})
		case r == ')':
			l.pos++
			toks = append(toks, token{kind: tokRParen, span: source.NewSpan(start, l.pos)})
		case r == '[':
			l.pos++
			toks = append(toks, token{kind: tokLBracket, span: source.NewSpan(start, l.pos)})
		case r == ']':
			l.pos++
			toks = append(toks, token{kind: tokRBracket, span: source.NewSpan(start, l.pos)})
		case r == '{':
			l.pos++
			toks = append(toks, token{kind: tokLBrace, span: source.NewSpan(start, l.pos)})
		case r == '}':
			l.pos++
			toks = append(toks, token{kind: tokRBrace, span: source.NewSpan(start, l.pos)})
		case r == ',':
			l.pos++
			toks = append(toks, token{kind: tokComma, span: source.NewSpan(start, l.pos)})
		case r == '+':
			l.pos++
			toks = append(toks, token{kind: tokPlus, span: source.NewSpan(start, l.pos)})
		case r == '-':
			l.pos++
			toks = append(toks, token{kind: tokMinus, span: source.NewSpan(start, l.pos)})
		case r == '*':
			l.pos++
			toks = append(toks, token{kind: tokStar, span: source.NewSpan(start, l.pos)})
		case r == '/':
			l.pos++
			toks = append(toks, token{kind: tokSlash, span: source.NewSpan(start, l.pos)})
		case r == '^':
			l.pos++
			toks = append(toks, token{kind: tokCaret, span: source.NewSpan(start, l.pos)})
		case r == ':':
			l.pos++
			toks = append(toks, token{kind: tokColon, span: source.NewSpan(start, l.pos)})
		case r == '=':
			l.pos++
			toks = append(toks, token{kind: tokEq, span: source.NewSpan(start, l.pos)})
		case r == '<':
			l.pos++
			if l.pos < len(l.text) && l.text[l.pos] == '>' {
				l.pos++
				toks = append(toks, token{kind: tokNeq, span: source.NewSpan(start, l.pos)})
			} else if l.pos < len(l.text) && l.text[l.pos] == '=' {
				l.pos++
				toks = append(toks, token{kind: tokLe, span: source.NewSpan(start, l.pos)})
			} else {
				toks = append(toks, token{kind: tokLt, span: source.NewSpan(start, l.pos)})
			}
		case r == '>':
			l.pos++
			if l.pos < len(l.text) && l.text[l.pos] == '=' {
				l.pos++
				toks = append(toks, token{kind: tokGe, span: source.NewSpan(start, l.pos)})
			} else {
				toks = append(toks, token{kind: tokGt, span: source.NewSpan(start, l.pos)})
			}
		case r == '"':
			// spec §4.2's identifier "quoted form": a display-name reference
			// to a multi-word variable, lexically an identifier and not a
			// string literal (which uses '...' below).
			s, err := l.lexDelimited('"', "unterminated quoted identifier")
			if err != nil {
				return nil, err
			}

			toks = append(toks, token{kind: tokIdent, text: s, span: source.NewSpan(start, l.pos)})
		case r == '\'':
			s, err := l.lexDelimited('\'', "unterminated string literal")
			if err != nil {
				return nil, err
			}

			toks = append(toks, token{kind: tokString, text: s, span: source.NewSpan(start, l.pos)})
		case unicode.IsDigit(r) || r == '.':
			n, err := l.lexNumber()
			if err != nil {
				return nil, err
			}

			toks = append(toks, token{kind: tokNumber, num: n, span: source.NewSpan(start, l.pos)})
		case isIdentStart(r):
			text := l.lexIdent()
			toks = append(toks, keywordOrIdent(text, source.NewSpan(start, l.pos)))
		default:
			return nil, &source.Diagnostic{
				Kind:     string(KindExpressionSyntax),
				Message:  "unexpected character '" + string(r) + "' in equation",
				Primary:  source.NewSpan(start, start+1),
				Severity: source.SeverityError,
			}
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.text) && unicode.IsSpace(l.text[l.pos]) {
		l.pos++
	}
}

// lexDelimited scans a run of text bounded by a matching pair of delim,
// shared by both the double-quoted identifier form and the single-quoted
// string literal form of spec §4.2 — the two differ only in what token kind
// the caller wraps the result in.
func (l *lexer) lexDelimited(delim rune, unterminatedMsg string) (string, error) {
	start := l.pos
	l.pos++ // consume opening delimiter

	var sb strings.Builder

	for {
		if l.pos >= len(l.text) {
			return "", &source.Diagnostic{
				Kind:     string(KindExpressionSyntax),
				Message:  unterminatedMsg,
				Primary:  source.NewSpan(start, l.pos),
				Severity: source.SeverityError,
			}
		}

		r := l.text[l.pos]
		if r == delim {
			l.pos++
			return sb.String(), nil
		}

		sb.WriteRune(r)
		l.pos++
	}
}

func (l *lexer) lexNumber() (float64, error) {
	start := l.pos
	for l.pos < len(l.text) && (unicode.IsDigit(l.text[l.pos]) || l.text[l.pos] == '.') {
		l.pos++
	}

	if l.pos < len(l.text) && (l.text[l.pos] == 'e' || l.text[l.pos] == 'E') {
		save := l.pos
		l.pos++

		if l.pos < len(l.text) && (l.text[l.pos] == '+' || l.text[l.pos] == '-') {
			l.pos++
		}

		if l.pos < len(l.text) && unicode.IsDigit(l.text[l.pos]) {
			for l.pos < len(l.text) && unicode.IsDigit(l.text[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}

	text := string(l.text[start:l.pos])

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &source.Diagnostic{
			Kind:     string(KindExpressionSyntax),
			Message:  "malformed numeric literal \"" + text + "\"",
			Primary:  source.NewSpan(start, l.pos),
			Severity: source.SeverityError,
		}
	}

	return n, nil
}

// lexIdent consumes an identifier and, per spec §4.2's dotted form A.B (XMILE
// §3.2.2.3 namespace qualification, e.g. "vensim.SMOOTH"), any further
// ".segment" runs whose segment starts like an identifier rather than a
// number — so "Foo.Bar" lexes as one token but "3.14" is left to lexNumber.
func (l *lexer) lexIdent() string {
	start := l.pos
	for l.pos < len(l.text) && isIdentCont(l.text[l.pos]) {
		l.pos++
	}

	for l.pos+1 < len(l.text) && l.text[l.pos] == '.' && isIdentSegStart(l.text[l.pos+1]) {
		l.pos++ // consume '.'
		for l.pos < len(l.text) && isIdentCont(l.text[l.pos]) {
			l.pos++
		}
	}

	return string(l.text[start:l.pos])
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isIdentSegStart reports whether r can begin a dotted identifier's
// continuation segment: a letter or '_', the same set as isIdentStart.
func isIdentSegStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' || r == '\''
}

func keywordOrIdent(text string, span source.Span) token {
	switch strings.ToUpper(text) {
	case "IF":
		return token{kind: tokIf, text: text, span: span}
	case "THEN":
		return token{kind: tokThen, text: text, span: span}
	case "ELSE":
		return token{kind: tokElse, text: text, span: span}
	case "AND":
		return token{kind: tokAnd, text: text, span: span}
	case "OR":
		return token{kind: tokOr, text: text, span: span}
	case "NOT":
		return token{kind: tokNot, text: text, span: span}
	default:
		return token{kind: tokIdent, text: text, span: span}
	}
}
