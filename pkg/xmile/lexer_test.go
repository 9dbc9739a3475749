package xmile

import "testing"

func TestLexSimpleArithmetic(t *testing.T) {
	toks, err := newLexer("a + b * 2").tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []tokenKind{tokIdent, tokPlus, tokIdent, tokStar, tokNumber, tokEOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}

	for i, k := range want {
		if toks[i].kind != k {
			t.Fatalf("token %d: expected kind %d, got %d", i, k, toks[i].kind)
		}
	}
}

func TestLexComparisonOperators(t *testing.T) {
	toks, err := newLexer("a <> b AND c <= d").tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []tokenKind{tokIdent, tokNeq, tokIdent, tokAnd, tokIdent, tokLe, tokIdent, tokEOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
}

func TestLexKeywordsCaseInsensitive(t *testing.T) {
	toks, err := newLexer("if x then 1 else 2").tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if toks[0].kind != tokIf || toks[2].kind != tokThen || toks[4].kind != tokElse {
		t.Fatalf("expected IF/THEN/ELSE keywords recognized case-insensitively")
	}
}

func TestLexStringLiteral(t *testing.T) {
	toks, err := newLexer(`STEP(10, 'some label')`).tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false

	for _, tok := range toks {
		if tok.kind == tokString && tok.text == "some label" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected string literal token \"some label\"")
	}
}

func TestLexUnterminatedStringErrors(t *testing.T) {
	if _, err := newLexer(`'unterminated`).tokenize(); err == nil {
		t.Fatalf("expected error for unterminated string literal")
	}
}

// TestLexQuotedIdentifierIsAnIdentNotAString checks spec §4.2's identifier
// "quoted form" lexes as tokIdent, distinct from the single-quoted string
// literal form.
func TestLexQuotedIdentifierIsAnIdentNotAString(t *testing.T) {
	toks, err := newLexer(`"Heat Loss to Room" / 2`).tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if toks[0].kind != tokIdent || toks[0].text != "Heat Loss to Room" {
		t.Fatalf("expected a quoted identifier token, got %#v", toks[0])
	}
}

func TestLexUnterminatedQuotedIdentifierErrors(t *testing.T) {
	if _, err := newLexer(`"unterminated`).tokenize(); err == nil {
		t.Fatalf("expected error for unterminated quoted identifier")
	}
}
