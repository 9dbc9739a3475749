package xmile

import "github.com/xmile-tools/go-xmile/pkg/source"

// Node is the common marker for every AST node produced by the equation
// parser (spec §4.2) and the schema binder (spec §4.4). Nodes are immutable
// after construction except where resolution rewrites an Ident/Call in
// place (spec §3 "Lifecycle"). Expression nodes carry the span of the
// <eqn> text they were parsed from, set by the parser at construction time
// from the lexer's per-token spans (rune offsets within that text). The
// declaration nodes the schema binder builds (models, variables,
// dimensions, macros) carry a zero span.
type Node interface {
	isNode()
	// Span returns the source range this node was parsed from: rune offsets
	// within its <eqn> text for an expression node, zero for a declaration
	// node built by the schema binder.
	Span() source.Span
}

// Expr is the subset of Node that can appear as (or within) an equation's
// value. Kept as a distinct interface from Node, mirroring corset's
// Expr/Node split, so functions that only care about evaluable expressions
// don't have to type-switch out declaration-only nodes.
type Expr interface {
	Node
	isExpr()
}

type baseNode struct {
	span source.Span
}

func (*baseNode) isNode() {}

// Span implements Node.
func (b *baseNode) Span() source.Span { return b.span }

// NumberLit is a numeric literal (spec §3 "numeric literal (IEEE-754
// double)").
type NumberLit struct {
	baseNode
	Value float64
}

func (*NumberLit) isExpr() {}

// StringLit is a string literal, used only as an argument to a handful of
// builtins (spec §3).
type StringLit struct {
	baseNode
	Value string
}

func (*StringLit) isExpr() {}

// Subscript is one element of an identifier reference's subscript list: a
// concrete element name, a bare dimension name (implicit loop), a wildcard,
// or (rare in practice, but grammatically legal per spec §4.2 `sub`) a
// numeric literal index.
type Subscript struct {
	// Name is set for a named subscript (element, dimension, or "*").
	Name string
	// IsWildcard is true when Name == "*".
	IsWildcard bool
	// Index is set when the subscript grammar production was a bare
	// number rather than a name.
	Index    float64
	IsIndex  bool
}

// Ident is an identifier reference, before or after resolution (spec §3):
// pre-resolution it carries only the parsed name and subscripts; L6 (see
// resolver.go) fills in Binding without replacing the node, so a Node
// pointer captured before resolution remains valid (and resolved) after.
type Ident struct {
	baseNode
	// Name is the identifier exactly as written (display form), with any
	// leading "namespace." prefix already split off into Namespace.
	Name string
	// Namespace is the XMILE §3.2.2.3 dotted-form qualifier this identifier
	// carried, or NamespaceNone if it was written unqualified.
	Namespace Namespace
	// Subscripts is the optional bracketed subscript list.
	Subscripts []Subscript
	// Binding is filled in by the resolver (L6). Nil before resolution.
	Binding Binding
}

func (*Ident) isExpr() {}

// UnaryOp enumerates the unary operators of spec §3.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

// Unary is a unary operator applied to a sub-expression.
type Unary struct {
	baseNode
	Op UnaryOp
	X  Expr
}

func (*Unary) isExpr() {}

// BinaryOp enumerates the binary operators of spec §3.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// Binary is a binary operator applied to two sub-expressions.
type Binary struct {
	baseNode
	Op   BinaryOp
	L, R Expr
}

func (*Binary) isExpr() {}

// Conditional is `IF cond THEN a ELSE b` (spec §3).
type Conditional struct {
	baseNode
	Cond, Then, Else Expr
}

func (*Conditional) isExpr() {}

// Call is a builtin or graphical-function invocation, before resolution
// distinguishes which. L6 leaves it a Call in both cases and sets Binding:
// a BuiltinBinding for a builtin callee, a GfBinding when the callee
// resolves to a graphical function. It is not rewritten into a GfApp.
type Call struct {
	baseNode
	Name string
	// Namespace is the XMILE §3.2.2.3 dotted-form qualifier this call's
	// callee carried (e.g. "vensim" in "vensim.SMOOTH(x)"), or NamespaceNone.
	Namespace Namespace
	Args      []Expr
	Binding   Binding
}

func (*Call) isExpr() {}

// GfApp is a graphical-function application: the resolved GF binding applied
// to a single input expression (spec §3). Neither the parser nor L6
// constructs one: a call to a graphical function stays a Call bound to a
// GfBinding.
type GfApp struct {
	baseNode
	Gf    *GfBinding
	Input Expr
}

func (*GfApp) isExpr() {}

// ArrayLit is an inline array literal `{a, b, c}` (spec §4.2 `array_lit`).
type ArrayLit struct {
	baseNode
	Elements []Expr
}

func (*ArrayLit) isExpr() {}
