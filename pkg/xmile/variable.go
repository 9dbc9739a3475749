package xmile

import (
	"github.com/xmile-tools/go-xmile/pkg/ident"
	"github.com/xmile-tools/go-xmile/pkg/units"
	"github.com/xmile-tools/go-xmile/pkg/util"
)

// VariableKind distinguishes the five tagged-sum variants of spec §3.
type VariableKind string

const (
	KindStock  VariableKind = "stock"
	KindFlow   VariableKind = "flow"
	KindAux    VariableKind = "aux"
	KindGf     VariableKind = "gf"
	KindModule VariableKind = "module"
)

// Variable is the common interface over the five variable kinds spec §3
// defines. Declared this way (one interface, kind-specific structs) rather
// than a single struct with a discriminant field, following the "one
// expression-walking visitor... variable kind is consulted only where
// semantics actually differ" guidance of spec §9.
type Variable interface {
	Node
	// VarName returns this variable's declared name.
	VarName() ident.Identifier
	// Kind returns which of the five tagged variants this is.
	Kind() VariableKind
	// Shape returns the declared dimension list (the variable's shape),
	// empty for a scalar.
	Shape() []*Name[*DimensionBinding]
}

// Stock is spec §3's Stock variant: an accumulator integrated over
// simulation time, whose <eqn> gives its *initial* value (spec §4.6 "Stock
// initialization").
type Stock struct {
	baseNode
	Name        ident.Identifier
	Eqn         Expr
	Inflows     []*Name[*VariableBinding]
	Outflows    []*Name[*VariableBinding]
	NonNegative bool
	UnitsExpr   *units.Expr
	Dims        []*Name[*DimensionBinding]
}

func (*Stock) isNode() {}

// VarName implements Variable.
func (s *Stock) VarName() ident.Identifier { return s.Name }

// Kind implements Variable.
func (s *Stock) Kind() VariableKind { return KindStock }

// Shape implements Variable.
func (s *Stock) Shape() []*Name[*DimensionBinding] { return s.Dims }

// Flow is spec §3's Flow variant: a signed rate connecting stocks.
type Flow struct {
	baseNode
	Name        ident.Identifier
	Eqn         Expr
	NonNegative bool
	UnitsExpr   *units.Expr
	Dims        []*Name[*DimensionBinding]
}

func (*Flow) isNode() {}

// VarName implements Variable.
func (f *Flow) VarName() ident.Identifier { return f.Name }

// Kind implements Variable.
func (f *Flow) Kind() VariableKind { return KindFlow }

// Shape implements Variable.
func (f *Flow) Shape() []*Name[*DimensionBinding] { return f.Dims }

// Aux is spec §3's Auxiliary variant: a derived algebraic variable.
type Aux struct {
	baseNode
	Name      ident.Identifier
	Eqn       Expr
	UnitsExpr *units.Expr
	Dims      []*Name[*DimensionBinding]
}

func (*Aux) isNode() {}

// VarName implements Variable.
func (a *Aux) VarName() ident.Identifier { return a.Name }

// Kind implements Variable.
func (a *Aux) Kind() VariableKind { return KindAux }

// Shape implements Variable.
func (a *Aux) Shape() []*Name[*DimensionBinding] { return a.Dims }

// InterpKind enumerates a GraphicalFunction's interpolation behaviour (spec
// §3).
type InterpKind string

const (
	InterpContinuous  InterpKind = "continuous"
	InterpExtrapolate InterpKind = "extrapolate"
	InterpDiscrete    InterpKind = "discrete"
)

// GraphicalFunction is spec §3's GF variant: a piecewise-interpolated
// lookup function of one input, either declared top-level (referenced by
// call syntax elsewhere) or inline inside another variable's equation, in
// which case Inline is true and Name is synthesized from the enclosing
// variable (SPEC_FULL.md's Open Question (b) decision: a name collision
// between an inline GF and a top-level one is DuplicateDefinition, which
// requires inline GFs to occupy the scope's symbol table too).
type GraphicalFunction struct {
	baseNode
	Name   ident.Identifier
	Interp InterpKind
	// XMin and XMax carry <xscale min="..." max="..."/>, absent when the
	// element itself is absent (a GF with only <ypts>, evenly spaced over
	// its point count). util.Option, not a pointer, mirrors the teacher's
	// own preference for an explicit optional wrapper over nil-checking
	// (pkg/util/option.go).
	XMin   util.Option[float64]
	XMax   util.Option[float64]
	XPts   []float64
	YPts   []float64
	Inline bool
}

func (*GraphicalFunction) isNode() {}

// VarName implements Variable.
func (g *GraphicalFunction) VarName() ident.Identifier { return g.Name }

// Kind implements Variable.
func (g *GraphicalFunction) Kind() VariableKind { return KindGf }

// Shape implements Variable. Graphical functions are always scalar-valued.
func (g *GraphicalFunction) Shape() []*Name[*DimensionBinding] { return nil }

// ModulePortPair binds one local variable to one interface port of the
// referenced submodel (spec §3 "input/output identifier pairs").
type ModulePortPair struct {
	Local    *Name[*VariableBinding]
	Remote   *Name[*ModulePortBinding]
	IsOutput bool
}

// ModuleInstance is spec §3's ModuleInstance variant: an instantiation of a
// named submodel with input/output port wiring.
type ModuleInstance struct {
	baseNode
	Name     ident.Identifier
	Submodel *Name[*SubmodelBinding]
	Ports    []ModulePortPair
}

// QualifiedPath returns the path identifying one port pair through this
// module instance (e.g. "/Furnace/Heat_In"), used in diagnostics and
// tooling that must name a port beyond the enclosing model's own namespace.
func (m *ModuleInstance) QualifiedPath(pair ModulePortPair) util.Path {
	return util.NewRelativePath(m.Name.Display, pair.Remote.Display)
}

func (*ModuleInstance) isNode() {}

// VarName implements Variable.
func (m *ModuleInstance) VarName() ident.Identifier { return m.Name }

// Kind implements Variable.
func (m *ModuleInstance) Kind() VariableKind { return KindModule }

// Shape implements Variable. Module instances have no equation shape of
// their own.
func (m *ModuleInstance) Shape() []*Name[*DimensionBinding] { return nil }
