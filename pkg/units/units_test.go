package units

import (
	"testing"

	"github.com/xmile-tools/go-xmile/pkg/ident"
)

func mustParse(t *testing.T, s string) Expr {
	t.Helper()

	e, err := Parse(s, ident.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}

	return e
}

func TestParseSimpleUnit(t *testing.T) {
	e := mustParse(t, "kg")
	if e["kg"] != 1 || len(e) != 1 {
		t.Fatalf("unexpected exponent map: %v", e)
	}
}

func TestParseDimensionless(t *testing.T) {
	e := mustParse(t, "1")
	if !e.IsDimensionless() {
		t.Fatalf("expected dimensionless, got %v", e)
	}
}

func TestParseCompoundUnit(t *testing.T) {
	e := mustParse(t, "kg*m/s^2")
	want := Expr{"kg": 1, "m": 1, "s": -2}

	if !e.Equal(want) {
		t.Fatalf("got %v, want %v", e, want)
	}
}

func TestParseParenthesized(t *testing.T) {
	a := mustParse(t, "kg*m/s^2")
	b := mustParse(t, "kg*(m/s^2)")

	if !a.Equal(b) {
		t.Fatalf("expected equivalent expressions, got %v vs %v", a, b)
	}
}

func TestUnitEquivalenceByExponentMap(t *testing.T) {
	a := mustParse(t, "m/s/s")
	b := mustParse(t, "m/s^2")

	if !a.Equal(b) {
		t.Fatalf("expected m/s/s to equal m/s^2, got %v vs %v", a, b)
	}
}

func TestUnitCaseFolding(t *testing.T) {
	a := mustParse(t, "Kg")
	b := mustParse(t, "kg")

	if !a.Equal(b) {
		t.Fatalf("expected case-insensitive unit names to be equal, got %v vs %v", a, b)
	}
}

func TestParseUnmatchedParen(t *testing.T) {
	if _, err := Parse("kg*(m/s", ident.DefaultOptions()); err == nil {
		t.Fatalf("expected error for unmatched parenthesis")
	}
}
