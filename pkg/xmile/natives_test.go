package xmile

import "testing"

func TestLookupBuiltinKnownAndUnknown(t *testing.T) {
	if bi := LookupBuiltin("ABS"); bi == nil || bi.MinArity != 1 || bi.MaxArity != 1 {
		t.Fatalf("expected ABS to be a unary builtin, got %#v", bi)
	}

	if bi := LookupBuiltin("NOT_A_BUILTIN"); bi != nil {
		t.Fatalf("expected nil for an unknown name, got %#v", bi)
	}
}

func TestBuiltinDefHasArityVariadic(t *testing.T) {
	minArg := LookupBuiltin("MIN")
	if minArg == nil {
		t.Fatalf("expected MIN to be registered")
	}

	if !minArg.HasArity(2) || !minArg.HasArity(10) {
		t.Fatalf("expected MIN to accept 2 and 10 arguments")
	}

	if minArg.HasArity(1) {
		t.Fatalf("did not expect MIN to accept a single argument")
	}
}

func TestBuiltinDefKindAtDefaultsToNumeric(t *testing.T) {
	step := LookupBuiltin("STEP")
	if step == nil {
		t.Fatalf("expected STEP to be registered")
	}

	if step.KindAt(0) != ArgNumeric || step.KindAt(5) != ArgNumeric {
		t.Fatalf("expected unconstrained positions to default to ArgNumeric")
	}
}
