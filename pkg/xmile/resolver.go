package xmile

import (
	"math"
	"strconv"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

// resolveContext carries the state threaded through L5 (symbol table
// construction) and L6 (identifier resolution), one per compilation. Mirrors
// go-corset's pattern of a single struct threaded through resolveXxx methods
// rather than package-level state (pkg/corset/resolver.go).
type resolveContext struct {
	cfg          Config
	diags        *source.Collector
	file         string
	root         *RootScope
	modelsByName map[string]*Model
}

// Resolve runs L5 (symbol table) and L6 (identifier resolution, including
// builtin arity/kind checking and binding calls to graphical functions,
// which stay Call nodes) over doc,
// appending every diagnostic it raises to diags. Resolution never halts on
// the first error (spec §2 "non-fatal, structured diagnostics"): binding
// failures leave the offending Name unresolved and processing continues.
func Resolve(doc *Document, cfg Config, diags *source.Collector) {
	rc := &resolveContext{
		cfg:          cfg,
		diags:        diags,
		root:         NewRootScope(cfg.identOptions()),
		modelsByName: make(map[string]*Model),
	}

	for _, m := range doc.Macros {
		if existing, ok := rc.root.DeclareGlobal(m.Canonical, &MacroBinding{Macro: m}); !ok {
			rc.duplicateOf(existing, "macro \""+m.Name+"\"")
		}
	}

	for _, d := range doc.Dimensions {
		if existing, ok := rc.root.DeclareGlobal(d.Name.Canonical, &DimensionBinding{Dimension: d}); !ok {
			rc.duplicateOf(existing, "dimension \""+d.Name.Display+"\"")
		} else {
			d.Name.Resolve(&DimensionBinding{Dimension: d})
		}

		for _, e := range d.Elements {
			binding := &ElementBinding{Dimension: d, Element: e}
			e.Name.Resolve(binding)
		}
	}

	for _, m := range doc.Models {
		if m.Name.Canonical != "" {
			rc.modelsByName[m.Name.Canonical] = m
		}
	}

	for _, macro := range doc.Macros {
		params := make([]string, 0, len(macro.Params))

		for _, p := range macro.Params {
			c, err := canonicalOf(p.Name, cfg.identOptions())
			if err == nil {
				params = append(params, c)
			}
		}

		scope := NewMacroScope(rc.root, params)
		rc.resolveExprIn(scope, macro.Body)
		rc.checkMacroParamOrder(macro)

		for _, p := range macro.Params {
			if p.Default != nil {
				rc.resolveExprIn(scope, p.Default)
			}
		}
	}

	for _, m := range doc.Models {
		rc.resolveModel(m)
	}
}

// checkMacroParamOrder enforces src/macro/mod.rs's Validate rule: once one
// parameter carries a default value, every parameter after it must too
// (spec §4.2's macro grammar leaves this ordering rule to the caller).
func (rc *resolveContext) checkMacroParamOrder(m *Macro) {
	foundDefault := false

	for _, p := range m.Params {
		if p.Default != nil {
			foundDefault = true
			continue
		}

		if foundDefault {
			rc.diags.Add(newDiagnostic(KindMacroParamOrder, rc.file, source.Span{},
				"macro \""+m.Name+"\" parameter \""+p.Name+"\" must have a default value because a previous parameter has one"))
		}
	}
}

func (rc *resolveContext) duplicateOf(existing Binding, newDesc string) {
	rc.diags.Add(newDiagnostic(KindDuplicateDefinition, rc.file, source.Span{},
		newDesc+" collides with an already-declared "+existing.Describe()))
}

func (rc *resolveContext) resolveModel(m *Model) {
	scope := NewModelScope(rc.root)

	for _, d := range m.LocalDimensions {
		if existing, ok := scope.DeclareLocal(d.Name.Canonical, &DimensionBinding{Dimension: d}); !ok {
			rc.duplicateOf(existing, "dimension \""+d.Name.Display+"\" in model")
		} else {
			d.Name.Resolve(&DimensionBinding{Dimension: d})
		}

		for _, e := range d.Elements {
			e.Name.Resolve(&ElementBinding{Dimension: d, Element: e})
		}
	}

	for _, v := range m.Variables {
		canonical, err := canonicalOf(v.VarName().Display, rc.cfg.identOptions())
		if err != nil {
			continue
		}

		if b, ok := rc.root.Bind(canonical); ok {
			if bi, isBuiltin := b.(*BuiltinBinding); isBuiltin && !rc.cfg.AllowBuiltinShadowing {
				rc.diags.Add(newDiagnostic(KindDuplicateDefinition, rc.file, v.Span(),
					"variable \""+v.VarName().Display+"\" shadows builtin "+bi.Builtin.Name))
				continue
			}
		}

		var binding Binding
		if gf, ok := v.(*GraphicalFunction); ok {
			binding = &GfBinding{Gf: gf}
		} else {
			binding = &VariableBinding{Variable: v}
		}

		if existing, ok := scope.DeclareLocal(canonical, binding); !ok {
			rc.duplicateOf(existing, describeVariable(v))
		}
	}

	for _, v := range m.Variables {
		rc.resolveVariable(scope, v)
	}

	rc.resolvePorts(m)
	detectCycles(m, rc.diags, rc.file)
}

// describeVariable gives a short label for a Variable, used only in diagnostics.
func describeVariable(v Variable) string {
	return string(v.Kind()) + " \"" + v.VarName().Display + "\""
}

func (rc *resolveContext) resolveVariable(scope Scope, v Variable) {
	switch t := v.(type) {
	case *Stock:
		rc.resolveExprIn(scope, t.Eqn)
		rc.resolveNames(scope, t.Inflows, t.Span())
		rc.resolveNames(scope, t.Outflows, t.Span())
		rc.resolveDims(scope, t.Dims, t.Span())
	case *Flow:
		rc.resolveExprIn(scope, t.Eqn)
		rc.resolveDims(scope, t.Dims, t.Span())
	case *Aux:
		rc.resolveExprIn(scope, t.Eqn)
		rc.resolveDims(scope, t.Dims, t.Span())
	case *GraphicalFunction:
		// No sub-expressions; a GF's points are already numeric.
	case *ModuleInstance:
		if existing, ok := rc.modelsByName[t.Submodel.Canonical]; ok {
			t.Submodel.Resolve(&SubmodelBinding{Model: existing})
		} else {
			rc.diags.Add(newDiagnostic(KindUnresolvedIdentifier, rc.file, t.Span(),
				"module \""+t.Name.Display+"\" references unknown model \""+t.Submodel.Display+"\""))
		}
	}
}

// resolveNames resolves a declaration-level list of variable-name references
// (a stock's inflows/outflows). These names carry no span of their own — a
// bare <inflow>Text</inflow> element isn't parsed by the expression lexer —
// so diagnostics anchor to the owning variable's span instead.
func (rc *resolveContext) resolveNames(scope Scope, names []*Name[*VariableBinding], owner source.Span) {
	for _, name := range names {
		b, ok := scope.Bind(name.Canonical)
		if !ok {
			rc.diags.Add(newDiagnostic(KindUnresolvedIdentifier, rc.file, owner,
				"unresolved identifier \""+name.Display+"\""))

			continue
		}

		if !name.Resolve(b) {
			rc.diags.Add(newDiagnostic(KindUnresolvedIdentifier, rc.file, owner,
				"\""+name.Display+"\" does not refer to a variable"))
		}
	}
}

func (rc *resolveContext) resolveDims(scope Scope, dims []*Name[*DimensionBinding], owner source.Span) {
	for _, name := range dims {
		b, ok := scope.Bind(name.Canonical)
		if !ok {
			rc.diags.Add(newDiagnostic(KindUnresolvedIdentifier, rc.file, owner,
				"unresolved dimension \""+name.Display+"\""))

			continue
		}

		if !name.Resolve(b) {
			rc.diags.Add(newDiagnostic(KindUnresolvedIdentifier, rc.file, owner,
				"\""+name.Display+"\" does not refer to a dimension"))
		}
	}
}

func (rc *resolveContext) resolvePorts(m *Model) {
	for _, p := range m.Inputs {
		rc.resolvePort(m, p)
	}

	for _, p := range m.Outputs {
		rc.resolvePort(m, p)
	}
}

func (rc *resolveContext) resolvePort(m *Model, p *Port) {
	found := false

	for _, v := range m.Variables {
		if v.VarName().Canonical == p.Name.Canonical {
			p.Name.Resolve(&VariableBinding{Variable: v})
			found = true

			break
		}
	}

	if !found {
		rc.diags.Add(newDiagnostic(KindDanglingFlowRef, rc.file, source.Span{},
			"port \""+p.Name.Display+"\" of model \""+m.Name.Display+"\" does not name a declared variable"))
	}
}

// resolveExprIn walks e, resolving every Ident and Call it contains against
// scope. Nil e (an empty <eqn>, spec §4.2 edge case) is a no-op.
func (rc *resolveContext) resolveExprIn(scope Scope, e Expr) {
	if e == nil {
		return
	}

	switch t := e.(type) {
	case *NumberLit, *StringLit:
		// leaves
	case *Ident:
		rc.resolveIdentExpr(scope, t)
	case *Unary:
		rc.resolveExprIn(scope, t.X)
	case *Binary:
		rc.resolveExprIn(scope, t.L)
		rc.resolveExprIn(scope, t.R)
	case *Conditional:
		rc.resolveExprIn(scope, t.Cond)
		rc.resolveExprIn(scope, t.Then)
		rc.resolveExprIn(scope, t.Else)
	case *Call:
		rc.resolveCall(scope, t)
	case *GfApp:
		rc.resolveExprIn(scope, t.Input)
	case *ArrayLit:
		for _, el := range t.Elements {
			rc.resolveExprIn(scope, el)
		}
	}
}

func (rc *resolveContext) resolveIdentExpr(scope Scope, id *Ident) {
	if id.Namespace.IsVendor() {
		rc.diags.Add(newDiagnostic(KindUnsupportedNamespace, rc.file, id.Span(),
			"identifier \""+id.Name+"\" qualified with vendor namespace \""+string(id.Namespace)+"\" cannot be resolved in this document"))

		return
	}

	canonical, err := canonicalOf(id.Name, rc.cfg.identOptions())
	if err != nil {
		rc.diags.Add(newDiagnostic(KindInvalidIdentifier, rc.file, id.Span(), err.Error()))
		return
	}

	if ms, ok := scope.(*MacroScope); ok && ms.IsParam(canonical) {
		// A macro parameter reference: legal, but there is nothing further
		// to bind — it is a substitution target, not a Variable.
		return
	}

	b, ok := scope.Bind(canonical)
	if !ok {
		rc.diags.Add(newDiagnostic(KindUnresolvedIdentifier, rc.file, id.Span(),
			"unresolved identifier \""+id.Name+"\""))

		return
	}

	id.Binding = b
}

func (rc *resolveContext) resolveCall(scope Scope, call *Call) {
	for _, a := range call.Args {
		rc.resolveExprIn(scope, a)
	}

	if call.Namespace.IsVendor() {
		rc.diags.Add(newDiagnostic(KindUnsupportedNamespace, rc.file, call.Span(),
			"call to \""+call.Name+"\" qualified with vendor namespace \""+string(call.Namespace)+"\" cannot be resolved in this document"))

		return
	}

	if bi := LookupBuiltin(call.Name); bi != nil {
		call.Binding = &BuiltinBinding{Builtin: bi}
		rc.checkArity(bi, call)

		return
	}

	canonical, err := canonicalOf(call.Name, rc.cfg.identOptions())
	if err != nil {
		rc.diags.Add(newDiagnostic(KindInvalidIdentifier, rc.file, call.Span(), err.Error()))
		return
	}

	b, ok := scope.Bind(canonical)
	if !ok {
		rc.diags.Add(newDiagnostic(KindUnresolvedIdentifier, rc.file, call.Span(),
			"unresolved function or graphical function \""+call.Name+"\""))

		return
	}

	call.Binding = b
}

func (rc *resolveContext) checkArity(bi *BuiltinDef, call *Call) {
	if !bi.HasArity(len(call.Args)) {
		rc.diags.Add(newDiagnostic(KindBuiltinArityMismatch, rc.file, call.Span(),
			bi.Name+" expects between "+itoa(bi.MinArity)+" and "+itoa(bi.MaxArity)+" arguments, got "+itoa(len(call.Args))))

		return
	}

	for i, arg := range call.Args {
		switch bi.KindAt(i) {
		case ArgString:
			if _, ok := arg.(*StringLit); !ok {
				rc.diags.Add(newDiagnostic(KindBuiltinArgumentKind, rc.file, arg.Span(),
					bi.Name+" argument "+itoa(i+1)+" must be a string literal"))
			}
		case ArgIdent:
			if _, ok := arg.(*Ident); !ok {
				rc.diags.Add(newDiagnostic(KindBuiltinArgumentKind, rc.file, arg.Span(),
					bi.Name+" argument "+itoa(i+1)+" must be an identifier"))
			}
		}
	}
}

func itoa(n int) string {
	if n == math.MaxInt {
		return "unbounded"
	}

	return strconv.Itoa(n)
}
