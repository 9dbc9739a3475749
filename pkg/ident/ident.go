// Package ident implements XMILE's canonical-identifier normalization
// (spec §4.1): quote stripping, Unicode NFKC normalization, full case
// folding, whitespace/underscore collapsing, and the resulting validity
// check. Two identifiers name the same referent iff their canonical forms
// are byte-equal.
package ident

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Identifier pairs an original (display) spelling with its canonical form.
// Display forms are what every diagnostic and every echoed variable name
// uses (spec §6); canonical forms are only ever used as map keys.
type Identifier struct {
	// Display is the original spelling as it appeared in the source
	// document, quotes and all whitespace variance intact.
	Display string
	// Canonical is the normalized comparison key.
	Canonical string
}

// Options controls the one configurable aspect of canonicalization exposed
// by spec §6.
type Options struct {
	// CaseSensitive disables case folding (step 3) when true.
	CaseSensitive bool
}

// DefaultOptions returns the spec-mandated defaults (case folding enabled).
func DefaultOptions() Options {
	return Options{CaseSensitive: false}
}

var fold = cases.Fold()

// Canonicalize applies the six-step algorithm of spec §4.1 to s, returning
// the resulting Identifier or an InvalidIdentifier error.
func Canonicalize(s string, opts Options) (Identifier, error) {
	display := s
	unquoted, err := stripQuotes(s)

	if err != nil {
		return Identifier{}, err
	}

	// Step 2: Unicode NFKC normalization.
	normalized := norm.NFKC.String(unquoted)

	// Step 3: full case folding, unless disabled.
	folded := normalized
	if !opts.CaseSensitive {
		folded = fold.String(normalized)
	}

	// Step 4: collapse runs of {space, tab, \n, \r, _} to a single '_'.
	collapsed := collapseSeparators(folded)

	// Step 5: trim leading/trailing '_'.
	trimmed := strings.Trim(collapsed, "_")

	// Step 6: non-empty, must not start with an ASCII digit.
	if trimmed == "" {
		return Identifier{}, &InvalidIdentifierError{display, "identifier is empty after normalization"}
	}

	if r := []rune(trimmed)[0]; r >= '0' && r <= '9' {
		return Identifier{}, &InvalidIdentifierError{display, "identifier starts with a digit"}
	}

	return Identifier{Display: display, Canonical: trimmed}, nil
}

// stripQuotes removes a matching pair of enclosing double quotes and
// un-escapes \" and \\, per step 1. Strings that are not double-quoted pass
// through unchanged.
func stripQuotes(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s, nil
	}

	inner := s[1 : len(s)-1]

	var b strings.Builder

	escaped := false

	for _, r := range inner {
		if escaped {
			switch r {
			case '"', '\\':
				b.WriteRune(r)
			default:
				return "", &InvalidIdentifierError{s, fmt.Sprintf("invalid escape sequence \\%c", r)}
			}

			escaped = false

			continue
		}

		if r == '\\' {
			escaped = true
			continue
		}

		b.WriteRune(r)
	}

	if escaped {
		return "", &InvalidIdentifierError{s, "unterminated escape sequence"}
	}

	return b.String(), nil
}

// collapseSeparators replaces every maximal run of characters drawn from
// {space, tab, \n, \r, '_'} with a single '_'.
func collapseSeparators(s string) string {
	var b strings.Builder

	inRun := false

	for _, r := range s {
		if isSeparator(r) {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}

			continue
		}

		inRun = false

		b.WriteRune(r)
	}

	return b.String()
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '_':
		return true
	default:
		return false
	}
}

// InvalidIdentifierError reports why a candidate identifier failed
// canonicalization (spec §7 kind InvalidIdentifier).
type InvalidIdentifierError struct {
	Display string
	Reason  string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Display, e.Reason)
}

// Equal reports whether two display strings canonicalize to the same
// referent under the given options. Errors from either side are treated as
// non-equal.
func Equal(a, b string, opts Options) bool {
	ai, aerr := Canonicalize(a, opts)
	bi, berr := Canonicalize(b, opts)

	return aerr == nil && berr == nil && ai.Canonical == bi.Canonical
}
