package xmile

import (
	"testing"

	"github.com/xmile-tools/go-xmile/pkg/ident"
	"github.com/xmile-tools/go-xmile/pkg/source"
)

func varBinding(v Variable) Binding {
	return &VariableBinding{Variable: v}
}

func TestDetectCyclesTwoVariableCycle(t *testing.T) {
	a := &Aux{Name: ident.Identifier{Display: "A", Canonical: "a"}}
	b := &Aux{Name: ident.Identifier{Display: "B", Canonical: "b"}}

	a.Eqn = &Ident{Name: "B"}
	b.Eqn = &Ident{Name: "A"}

	a.Eqn.(*Ident).Binding = varBinding(b)
	b.Eqn.(*Ident).Binding = varBinding(a)

	model := &Model{Name: ident.Identifier{Display: "M", Canonical: "m"}, Variables: []Variable{a, b}}

	diags := source.NewCollector()
	detectCycles(model, diags, "cycle.xmile")

	if !hasKind(diags.Diagnostics(), KindCyclicDependency) {
		t.Fatalf("expected a reported cycle, got %#v", diags.Diagnostics())
	}
}

func TestDetectCyclesAuxSelfReferenceIsACycle(t *testing.T) {
	a := &Aux{Name: ident.Identifier{Display: "A", Canonical: "a"}}
	a.Eqn = &Ident{Name: "A"}
	a.Eqn.(*Ident).Binding = varBinding(a)

	model := &Model{Name: ident.Identifier{Display: "M", Canonical: "m"}, Variables: []Variable{a}}

	diags := source.NewCollector()
	detectCycles(model, diags, "self-loop.xmile")

	if !hasKind(diags.Diagnostics(), KindCyclicDependency) {
		t.Fatalf("expected a self-referencing aux to be reported as a cycle, got %#v", diags.Diagnostics())
	}
}

func TestDetectCyclesStockSelfReferenceIsNotACycle(t *testing.T) {
	s := &Stock{Name: ident.Identifier{Display: "S", Canonical: "s"}}
	s.Eqn = &Ident{Name: "S"}
	s.Eqn.(*Ident).Binding = varBinding(s)

	model := &Model{Name: ident.Identifier{Display: "M", Canonical: "m"}, Variables: []Variable{s}}

	diags := source.NewCollector()
	detectCycles(model, diags, "stock-self.xmile")

	if hasKind(diags.Diagnostics(), KindCyclicDependency) {
		t.Fatalf("did not expect a stock's own initial-value self-reference to be a cycle, got %#v", diags.Diagnostics())
	}
}

func TestDetectCyclesAcyclicGraphReportsNothing(t *testing.T) {
	a := &Aux{Name: ident.Identifier{Display: "A", Canonical: "a"}}
	b := &Aux{Name: ident.Identifier{Display: "B", Canonical: "b"}, Eqn: &Ident{Name: "A"}}

	b.Eqn.(*Ident).Binding = varBinding(a)

	model := &Model{Name: ident.Identifier{Display: "M", Canonical: "m"}, Variables: []Variable{a, b}}

	diags := source.NewCollector()
	detectCycles(model, diags, "acyclic.xmile")

	if hasKind(diags.Diagnostics(), KindCyclicDependency) {
		t.Fatalf("did not expect a cycle, got %#v", diags.Diagnostics())
	}
}
