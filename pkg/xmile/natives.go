package xmile

import "math"

// ArgKind constrains what an argument to a builtin may be, checked by the
// resolver (L6, spec §4.5 "argument-kind constraints").
type ArgKind int

const (
	// ArgNumeric accepts any numeric-valued expression.
	ArgNumeric ArgKind = iota
	// ArgString accepts only a string literal.
	ArgString
	// ArgIdent accepts only a bare identifier reference (used by DELAY-family
	// builtins whose first argument names the delayed quantity's storage).
	ArgIdent
)

// BuiltinDef describes one builtin function: its arity range and, where the
// arity range alone is not enough, per-position argument-kind constraints.
// Mirrors go-corset's NativeDefinition (pkg/corset/natives.go) — a flat table
// of name/min-arity/max-arity entries consulted by the resolver rather than
// one hand-written type-checking function per builtin.
type BuiltinDef struct {
	Name string
	// MinArity and MaxArity bound the accepted argument count; MaxArity may
	// be math.MaxInt for variadic builtins.
	MinArity int
	MaxArity int
	// ArgKinds gives a kind constraint per positional argument. When shorter
	// than the actual argument count, trailing arguments default to
	// ArgNumeric (used for the variadic tail of MIN/MAX).
	ArgKinds []ArgKind
}

// HasArity reports whether n arguments is an acceptable call to this
// builtin.
func (b *BuiltinDef) HasArity(n int) bool {
	return n >= b.MinArity && n <= b.MaxArity
}

// KindAt returns the argument-kind constraint for positional argument i.
func (b *BuiltinDef) KindAt(i int) ArgKind {
	if i < len(b.ArgKinds) {
		return b.ArgKinds[i]
	}

	return ArgNumeric
}

// Builtins is the fixed table of XMILE built-in functions (spec §4.5). The
// resolver (L6) installs one BuiltinBinding per entry into the root scope;
// user models cannot redefine or extend this table. A model variable may
// reuse a builtin's name only when Config.AllowBuiltinShadowing is set, and
// a call is still looked up in this table first.
var Builtins = []BuiltinDef{
	// Math functions.
	{Name: "ABS", MinArity: 1, MaxArity: 1},
	{Name: "MIN", MinArity: 2, MaxArity: math.MaxInt},
	{Name: "MAX", MinArity: 2, MaxArity: math.MaxInt},
	{Name: "EXP", MinArity: 1, MaxArity: 1},
	{Name: "LN", MinArity: 1, MaxArity: 1},
	{Name: "LOG10", MinArity: 1, MaxArity: 1},
	{Name: "SQRT", MinArity: 1, MaxArity: 1},
	{Name: "SIN", MinArity: 1, MaxArity: 1},
	{Name: "COS", MinArity: 1, MaxArity: 1},
	{Name: "TAN", MinArity: 1, MaxArity: 1},
	{Name: "ARCSIN", MinArity: 1, MaxArity: 1},
	{Name: "ARCCOS", MinArity: 1, MaxArity: 1},
	{Name: "ARCTAN", MinArity: 1, MaxArity: 1},
	{Name: "INT", MinArity: 1, MaxArity: 1},
	{Name: "MOD", MinArity: 2, MaxArity: 2},

	// Simulation-clock nullary builtins.
	{Name: "PI", MinArity: 0, MaxArity: 0},
	{Name: "TIME", MinArity: 0, MaxArity: 0},
	{Name: "DT", MinArity: 0, MaxArity: 0},
	{Name: "STARTTIME", MinArity: 0, MaxArity: 0},
	{Name: "STOPTIME", MinArity: 0, MaxArity: 0},

	// Stateful/time-history builtins. Each DELAY and SMTH entry keeps its own
	// hidden delay/smooth state keyed by call site, so its first argument
	// must name the variable being delayed or smoothed rather than an
	// arbitrary expression (spec §4.6); INIT takes any expression.
	{Name: "INIT", MinArity: 1, MaxArity: 1},
	{Name: "DELAY", MinArity: 2, MaxArity: 3, ArgKinds: []ArgKind{ArgIdent}},
	{Name: "DELAY1", MinArity: 2, MaxArity: 3, ArgKinds: []ArgKind{ArgIdent}},
	{Name: "DELAY3", MinArity: 2, MaxArity: 3, ArgKinds: []ArgKind{ArgIdent}},
	{Name: "SMTH1", MinArity: 2, MaxArity: 3, ArgKinds: []ArgKind{ArgIdent}},
	{Name: "SMTH3", MinArity: 2, MaxArity: 3, ArgKinds: []ArgKind{ArgIdent}},

	// Test-input generators.
	{Name: "STEP", MinArity: 2, MaxArity: 2},
	{Name: "RAMP", MinArity: 2, MaxArity: 3},
	{Name: "PULSE", MinArity: 2, MaxArity: 3},

	// Control flow and randomness.
	{Name: "IF_THEN_ELSE", MinArity: 3, MaxArity: 3},
	{Name: "NORMAL", MinArity: 2, MaxArity: 4},
	{Name: "UNIFORM", MinArity: 2, MaxArity: 3},
	{Name: "RANDOM", MinArity: 2, MaxArity: 2},
}

// builtinIndex maps a canonical builtin name to its definition, built once
// from Builtins.
var builtinIndex = func() map[string]*BuiltinDef {
	m := make(map[string]*BuiltinDef, len(Builtins))
	for i := range Builtins {
		m[Builtins[i].Name] = &Builtins[i]
	}

	return m
}()

// LookupBuiltin returns the builtin definition for a canonical (upper-case)
// name, or nil if name is not a builtin.
func LookupBuiltin(name string) *BuiltinDef {
	return builtinIndex[name]
}
