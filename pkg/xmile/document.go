package xmile

import (
	"github.com/xmile-tools/go-xmile/pkg/ident"
	"github.com/xmile-tools/go-xmile/pkg/units"
)

// Document is the root entity of spec §3: header metadata, sim specs, the
// global dimension list and unit table, zero or more models (one of them
// top-level), zero or more macros, and zero or more opaque views.
type Document struct {
	Header      Header
	SimSpecs    SimSpecs
	Dimensions  []*Dimension
	UnitTable   map[string]units.Expr
	Models      []*Model
	TopModel    *Model
	Macros      []*Macro
	Views       []Opaque
	Style       []Opaque
	Data        []Opaque
	// Behavior is the document-wide <behavior> block, applied outward-in
	// beneath any per-model block (SUPPLEMENTED FEATURES: behavior cascade).
	Behavior *Behavior
}

// Header carries the small bag of free-text metadata XMILE's <header>
// element allows. None of it participates in resolution or validation.
type Header struct {
	Name    string
	Vendor  string
	Product string
	Version string
}

// SimSpecs binds <sim_specs> (SPEC_FULL.md SUPPLEMENTED FEATURES: sim_specs
// binding). Carried through as opaque validated data: the simulator that
// would interpret these values is explicitly out of scope (spec §1).
type SimSpecs struct {
	Start    float64
	Stop     float64
	DT       float64
	SaveStep float64
	Method   IntegrationMethod
}

// IntegrationMethod enumerates <sim_specs method="...">.
type IntegrationMethod string

const (
	MethodEuler IntegrationMethod = "euler"
	MethodRK4   IntegrationMethod = "rk4"
)

// Opaque is a deliberately-uninterpreted XML fragment preserved verbatim,
// used for <style>, <data>, and <views> content. Other unrecognized
// elements are not kept: encoding/xml drops them during decode.
type Opaque struct {
	XMLName string
	Raw     string
}

// Model is a named scope containing declared variables and, optionally,
// local dimension/unit overrides (spec §3).
type Model struct {
	baseNode
	Name            ident.Identifier
	Variables       []Variable
	LocalDimensions []*Dimension
	LocalUnits      map[string]units.Expr
	// Inputs and Outputs are this model's declared interface when used as
	// a submodel (SUPPLEMENTED FEATURES: module port binding).
	Inputs  []*Port
	Outputs []*Port
	// Behavior is this model's own <behavior> block, which overrides the
	// enclosing document's for every entity declared in this model.
	Behavior *Behavior
}

func (*Model) isNode() {}

// ModelName returns the model's display name.
func (m *Model) ModelName() string {
	return m.Name.Display
}

// Port is one named input or output of a Model used as a submodel.
type Port struct {
	Name *Name[*VariableBinding]
}

// Macro is a named, parameterized equation fragment (spec §3 "Document...
// zero or more macros").
type Macro struct {
	baseNode
	Name      string
	Canonical string
	Params    []MacroParameter
	Body      Expr
}

func (*Macro) isNode() {}

// MacroParameter is one formal parameter of a Macro, in calling order:
// its local name and an optional default-value expression (grounded on
// _examples/original_source/src/macro/mod.rs's MacroParameter, XMILE's
// <parm default="...">Name</parm>). A parameter with no default is
// mandatory at the call site; once one parameter has a default, every
// parameter after it must too (enforced by the resolver, see
// checkMacroParamOrder in resolver.go).
type MacroParameter struct {
	Name    string
	Default Expr
}

// Dimension is a named ordered set of subscript elements (spec §3).
type Dimension struct {
	baseNode
	Name     *Name[*DimensionBinding]
	Elements []*SubscriptElement
	// Size is set instead of Elements for an integer-indexed dimension
	// (spec §3 "either integer-indexed with a size, or a named element
	// list"); when Size > 0, Elements is left empty.
	Size int
}

func (*Dimension) isNode() {}

// SubscriptElement is one named element of a Dimension.
type SubscriptElement struct {
	Name *Name[*ElementBinding]
}
