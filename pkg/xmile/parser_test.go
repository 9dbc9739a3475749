package xmile

import "testing"

func mustParseEqn(t *testing.T, eqn string) Expr {
	t.Helper()

	e, err := ParseEquation(eqn, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error parsing %q: %v", eqn, err)
	}

	return e
}

func TestParseArithmeticPrecedence(t *testing.T) {
	e := mustParseEqn(t, "1 + 2 * 3")

	bin, ok := e.(*Binary)
	if !ok || bin.Op != OpAdd {
		t.Fatalf("expected top-level Add, got %#v", e)
	}

	rhs, ok := bin.R.(*Binary)
	if !ok || rhs.Op != OpMul {
		t.Fatalf("expected right-hand Mul, got %#v", bin.R)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	e := mustParseEqn(t, "2^3^2")

	top, ok := e.(*Binary)
	if !ok || top.Op != OpPow {
		t.Fatalf("expected top-level Pow, got %#v", e)
	}

	if _, ok := top.R.(*Binary); !ok {
		t.Fatalf("expected right-associative nesting, got %#v", top.R)
	}
}

func TestParseConditional(t *testing.T) {
	e := mustParseEqn(t, "IF Temperature > 100 THEN 1 ELSE 0")

	cond, ok := e.(*Conditional)
	if !ok {
		t.Fatalf("expected Conditional, got %#v", e)
	}

	if _, ok := cond.Cond.(*Binary); !ok {
		t.Fatalf("expected comparison in condition, got %#v", cond.Cond)
	}
}

func TestParseSubscriptedIdent(t *testing.T) {
	e := mustParseEqn(t, "Population[Region, *]")

	id, ok := e.(*Ident)
	if !ok {
		t.Fatalf("expected Ident, got %#v", e)
	}

	if len(id.Subscripts) != 2 || !id.Subscripts[1].IsWildcard {
		t.Fatalf("expected two subscripts with a trailing wildcard, got %#v", id.Subscripts)
	}
}

func TestParseCallWithArgs(t *testing.T) {
	e := mustParseEqn(t, "MIN(a, b, c)")

	call, ok := e.(*Call)
	if !ok {
		t.Fatalf("expected Call, got %#v", e)
	}

	if call.Name != "MIN" || len(call.Args) != 3 {
		t.Fatalf("expected MIN with 3 args, got %#v", call)
	}
}

func TestParseArrayLiteral(t *testing.T) {
	e := mustParseEqn(t, "{1, 2, 3}")

	arr, ok := e.(*ArrayLit)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("expected 3-element array literal, got %#v", e)
	}
}

func TestParseUnmatchedParenErrors(t *testing.T) {
	if _, err := ParseEquation("(1 + 2", DefaultConfig()); err == nil {
		t.Fatalf("expected error for unmatched paren")
	}
}

func TestParseMaxEquationDepthExceeded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEquationDepth = 3

	// Deeply nested parentheses blow the depth budget quickly.
	if _, err := ParseEquation("(((((1)))))", cfg); err == nil {
		t.Fatalf("expected ExpressionDepthExceeded error")
	}
}

func TestParseTrailingGarbageErrors(t *testing.T) {
	if _, err := ParseEquation("1 + 2 3", DefaultConfig()); err == nil {
		t.Fatalf("expected error for unexpected trailing input")
	}
}
