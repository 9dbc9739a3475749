package xmile

import "github.com/xmile-tools/go-xmile/pkg/ident"

// Config carries the four configuration options spec §6 names, handed to
// the pipeline as a read-only value rather than sourced from process-wide
// state (spec §9 "Global state").
type Config struct {
	// CaseSensitive disables case folding in the canonicalizer.
	CaseSensitive bool
	// StrictUnknownElements is carried here but not read by the binder:
	// unknown elements are dropped during decoding without a diagnostic
	// whether it is set or not.
	StrictUnknownElements bool
	// AllowBuiltinShadowing permits user variables to shadow builtins.
	AllowBuiltinShadowing bool
	// MaxEquationDepth bounds parser recursion.
	MaxEquationDepth int
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		CaseSensitive:         false,
		StrictUnknownElements: false,
		AllowBuiltinShadowing: false,
		MaxEquationDepth:      256,
	}
}

// identOptions projects the identifier-relevant subset of Config.
func (c Config) identOptions() ident.Options {
	return ident.Options{CaseSensitive: c.CaseSensitive}
}
