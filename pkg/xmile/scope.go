package xmile

import "github.com/xmile-tools/go-xmile/pkg/ident"

// Scope resolves an identifier's display-form text to a Binding within some
// region of a Document. Mirrors go-corset's Scope interface
// (pkg/corset/scope.go): a chain of enclosing scopes, each consulted in
// turn, terminating at a root scope that owns builtins and never permits
// redeclaration.
type Scope interface {
	// Bind looks up name (already canonicalized) and returns its binding,
	// or ok=false if nothing in this scope or any enclosing scope declares
	// it.
	Bind(canonical string) (Binding, bool)
}

// RootScope is the outermost scope: builtins plus global dimensions and
// top-level macros. Unit names and models are not declared in it. Nothing
// may shadow a
// builtin here (spec §4.5), enforced by DeclareGlobal's early builtin check.
type RootScope struct {
	globals map[string]Binding
}

// NewRootScope constructs a RootScope pre-populated with every entry of the
// Builtins table, keyed under opts the same way every other identifier is
// canonicalized — otherwise a bareword builtin reference (PI, TIME, DT used
// without parens) would canonicalize to a different form than the table's
// literal uppercase Name and never resolve.
func NewRootScope(opts ident.Options) *RootScope {
	s := &RootScope{globals: make(map[string]Binding)}

	for i := range Builtins {
		canonical, err := canonicalOf(Builtins[i].Name, opts)
		if err != nil {
			continue
		}

		s.globals[canonical] = &BuiltinBinding{Builtin: &Builtins[i]}
	}

	return s
}

// Bind implements Scope.
func (s *RootScope) Bind(canonical string) (Binding, bool) {
	b, ok := s.globals[canonical]
	return b, ok
}

// DeclareGlobal registers a dimension or macro under its canonical name. Returns false (declaring nothing) if the name collides
// with a builtin or an already-declared global — the resolver reports this
// as DuplicateDefinition using the returned existing binding.
func (s *RootScope) DeclareGlobal(canonical string, b Binding) (Binding, bool) {
	if existing, ok := s.globals[canonical]; ok {
		return existing, false
	}

	s.globals[canonical] = b

	return b, true
}

// ModelScope is the scope of one Model: its own variables and graphical
// functions plus its local dimensions, falling back to the enclosing
// RootScope for anything not declared locally. A local dimension shadows a
// document-level one of the same canonical name within that model only;
// local unit overrides are not declared here.
type ModelScope struct {
	enclosing Scope
	locals    map[string]Binding
}

// NewModelScope constructs a ModelScope chained to the given root/enclosing
// scope.
func NewModelScope(enclosing Scope) *ModelScope {
	return &ModelScope{enclosing: enclosing, locals: make(map[string]Binding)}
}

// Bind implements Scope.
func (s *ModelScope) Bind(canonical string) (Binding, bool) {
	if b, ok := s.locals[canonical]; ok {
		return b, true
	}

	return s.enclosing.Bind(canonical)
}

// DeclareLocal registers a variable, graphical function, or local dimension
// under its canonical name, shadowing (rather than conflicting with) any
// enclosing binding of the same name. Returns false without declaring
// anything if canonical already has a *local* binding.
func (s *ModelScope) DeclareLocal(canonical string, b Binding) (Binding, bool) {
	if existing, ok := s.locals[canonical]; ok {
		return existing, false
	}

	s.locals[canonical] = b

	return b, true
}

// MacroScope is the scope inside a Macro body: its formal parameters,
// falling back to the enclosing RootScope. Macro bodies cannot reference
// model variables (spec §4.6 "macro bodies resolve only against their own
// parameters and the global builtin/macro table").
type MacroScope struct {
	enclosing Scope
	params    map[string]struct{}
}

// NewMacroScope constructs a MacroScope for a macro with the given
// canonicalized parameter names.
func NewMacroScope(enclosing Scope, canonicalParams []string) *MacroScope {
	params := make(map[string]struct{}, len(canonicalParams))
	for _, p := range canonicalParams {
		params[p] = struct{}{}
	}

	return &MacroScope{enclosing: enclosing, params: params}
}

// Bind implements Scope. A parameter reference resolves to a
// VariableBinding wrapping nil-Variable is deliberately avoided: parameters
// are untyped substitution targets, not declared Variables, so MacroScope
// reports them via ok=true with a nil Binding, and callers (the resolver)
// special-case a MacroScope hit by checking IsParam instead of consulting
// the returned Binding.
func (s *MacroScope) Bind(canonical string) (Binding, bool) {
	if _, ok := s.params[canonical]; ok {
		return nil, true
	}

	return s.enclosing.Bind(canonical)
}

// IsParam reports whether canonical names one of this scope's own formal
// parameters, as opposed to something resolved from an enclosing scope.
func (s *MacroScope) IsParam(canonical string) bool {
	_, ok := s.params[canonical]
	return ok
}

// canonicalOf is a small helper used throughout the resolver to canonicalize
// a display-form name under a Config's identifier options, discarding the
// full ident.Identifier since only the canonical form is needed for scope
// lookups.
func canonicalOf(display string, opts ident.Options) (string, error) {
	id, err := ident.Canonicalize(display, opts)
	if err != nil {
		return "", err
	}

	return id.Canonical, nil
}
