package xmile

import "github.com/xmile-tools/go-xmile/pkg/ident"

// Name wraps a declared reference to some other symbol — an inflow/outflow
// name on a stock, a dimension name on a variable's shape list, a module
// port pairing — that starts life as raw text from the schema binder (L4)
// and is only associated with its Binding once the resolver (L6) processes
// it. Mirrors go-corset's generic `Name[T Binding]` (pkg/corset/symbol.go),
// which the same pattern (a declaration-site symbol resolved lazily by
// generic binding type) grounds directly.
type Name[T Binding] struct {
	// Display is the identifier exactly as written.
	Display string
	// Canonical is filled in eagerly (canonicalization cannot fail
	// without also failing schema binding), Binding lazily by resolution.
	Canonical string
	binding   T
	resolved  bool
}

// NewName constructs a Name from its display-form text, canonicalizing
// immediately.
func NewName[T Binding](display string, opts ident.Options) (*Name[T], error) {
	id, err := ident.Canonicalize(display, opts)
	if err != nil {
		return nil, err
	}

	return &Name[T]{Display: display, Canonical: id.Canonical}, nil
}

// IsResolved reports whether Resolve has been called successfully.
func (n *Name[T]) IsResolved() bool {
	return n.resolved
}

// Binding returns the resolved binding, panicking if unresolved — callers
// must always check IsResolved first, exactly as go-corset's Name.Binding()
// panics on the same precondition.
func (n *Name[T]) Binding() T {
	if !n.resolved {
		panic("name not yet resolved: " + n.Display)
	}

	return n.binding
}

// Resolve associates this name with a binding, returning false (and leaving
// the name unresolved) if the binding is not assignable to T — e.g. an
// inflow Name[*VariableBinding] handed a DimensionBinding.
func (n *Name[T]) Resolve(b Binding) bool {
	if n.resolved {
		panic("name already resolved: " + n.Display)
	}

	typed, ok := b.(T)
	n.binding = typed
	n.resolved = ok

	return ok
}
