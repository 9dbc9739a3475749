package ident

import "testing"

func TestCanonicalizeWhitespaceUnderscoreEquivalence(t *testing.T) {
	a, err := Canonicalize("A B", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := Canonicalize("A_B", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Canonical != b.Canonical {
		t.Fatalf("expected %q and %q to canonicalize equal, got %q vs %q", "A B", "A_B", a.Canonical, b.Canonical)
	}
}

func TestCanonicalizeCaseFolding(t *testing.T) {
	a, err := Canonicalize("Foo Bar", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := Canonicalize("foo_bar", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Canonical != b.Canonical {
		t.Fatalf("expected case-insensitive match, got %q vs %q", a.Canonical, b.Canonical)
	}
}

func TestCanonicalizeCaseSensitiveOption(t *testing.T) {
	opts := Options{CaseSensitive: true}

	a, err := Canonicalize("Foo", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := Canonicalize("foo", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Canonical == b.Canonical {
		t.Fatalf("expected case-sensitive mismatch, got equal canonical forms %q", a.Canonical)
	}
}

func TestCanonicalizeLeadingDigitFails(t *testing.T) {
	if _, err := Canonicalize("1abc", DefaultOptions()); err == nil {
		t.Fatalf("expected error for identifier starting with a digit")
	}
}

func TestCanonicalizeEmptyAfterTrimFails(t *testing.T) {
	if _, err := Canonicalize("___", DefaultOptions()); err == nil {
		t.Fatalf("expected error for identifier that is empty after trimming")
	}
}

func TestCanonicalizeQuotedIdentifier(t *testing.T) {
	got, err := Canonicalize(`"Heat Loss to Room"`, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, err := Canonicalize("Heat Loss to Room", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Canonical != want.Canonical {
		t.Fatalf("quoted form should canonicalize the same as unquoted: %q vs %q", got.Canonical, want.Canonical)
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{"A B", "Foo_Bar", `"Quoted Name"`, "already_canonical"}

	for _, in := range inputs {
		once, err := Canonicalize(in, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error canonicalizing %q: %v", in, err)
		}

		twice, err := Canonicalize(once.Canonical, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error re-canonicalizing %q: %v", once.Canonical, err)
		}

		if once.Canonical != twice.Canonical {
			t.Fatalf("canonicalization not idempotent for %q: %q vs %q", in, once.Canonical, twice.Canonical)
		}
	}
}

func TestCanonicalizeDisplayFormPreserved(t *testing.T) {
	id, err := Canonicalize("Room Temperature", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id.Display != "Room Temperature" {
		t.Fatalf("expected display form preserved, got %q", id.Display)
	}
}
