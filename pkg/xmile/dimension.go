package xmile

import "github.com/xmile-tools/go-xmile/pkg/source"

// elementSet indexes every canonical subscript-element and dimension name
// visible to one model, used by CheckShapes to validate bracketed
// subscripts without re-walking the scope chain (L7 runs after L6, so every
// legal reference is already resolved; this pass exists purely to check the
// bracket list itself, not to resolve anything new).
type elementSet struct {
	dimensions map[string]*Dimension
	elements   map[string]*Dimension
}

func newElementSet(dims []*Dimension) *elementSet {
	es := &elementSet{dimensions: make(map[string]*Dimension), elements: make(map[string]*Dimension)}
	for _, d := range dims {
		es.dimensions[d.Name.Canonical] = d

		for _, e := range d.Elements {
			es.elements[e.Name.Canonical] = d
		}
	}

	return es
}

// CheckShapes implements L7 (spec §4.7): for every subscripted identifier
// reference it checks that the subscript count and names line up with the
// referenced variable's declared dimensionality, then walks each
// equation-bearing variable's whole expression tree inferring the shape it
// produces and checks that shape is assignable into the variable's own
// declared shape.
func CheckShapes(doc *Document, cfg Config, diags *source.Collector, file string) {
	for _, m := range doc.Models {
		es := newElementSet(append(append([]*Dimension{}, doc.Dimensions...), m.LocalDimensions...))

		for _, v := range m.Variables {
			eqn := equationOf(v)
			if eqn == nil {
				continue
			}

			walkExpr(eqn, func(e Expr) {
				id, ok := e.(*Ident)
				if !ok || len(id.Subscripts) == 0 {
					return
				}

				checkSubscripts(id, es, cfg, diags, file, m.Name.Display)
			})

			sc := &shapeChecker{es: es, cfg: cfg, diags: diags, file: file, model: m.Name.Display}
			inferred := sc.infer(eqn)

			if !shapeAssignable(inferred, v.Shape()) {
				diags.Add(newDiagnostic(KindShapeMismatch, file, eqn.Span(),
					"equation for \""+v.VarName().Display+"\" in model \""+m.Name.Display+"\" produces shape "+describeShape(inferred)+
						" which is not assignable into its declared shape "+describeShape(v.Shape())))
			}
		}
	}
}

func equationOf(v Variable) Expr {
	switch t := v.(type) {
	case *Stock:
		return t.Eqn
	case *Flow:
		return t.Eqn
	case *Aux:
		return t.Eqn
	default:
		return nil
	}
}

func checkSubscripts(id *Ident, es *elementSet, cfg Config, diags *source.Collector, file, modelName string) {
	vb, ok := id.Binding.(*VariableBinding)
	if !ok {
		return
	}

	shape := vb.Variable.Shape()
	if len(shape) != 0 && len(shape) != len(id.Subscripts) {
		diags.Add(newDiagnostic(KindShapeMismatch, file, id.Span(),
			"\""+id.Name+"\" is subscripted with "+itoa(len(id.Subscripts))+" indices but declared with "+itoa(len(shape))+" dimensions in model \""+modelName+"\""))
	}

	for _, s := range id.Subscripts {
		if s.IsWildcard || s.IsIndex {
			continue
		}

		canonical, err := canonicalOf(s.Name, cfg.identOptions())
		if err != nil {
			diags.Add(newDiagnostic(KindInvalidIdentifier, file, id.Span(), err.Error()))
			continue
		}

		if _, ok := es.dimensions[canonical]; ok {
			continue
		}

		if _, ok := es.elements[canonical]; ok {
			continue
		}

		diags.Add(newDiagnostic(KindUnknownSubscript, file, id.Span(),
			"\""+s.Name+"\" is not a known dimension or subscript element in \""+id.Name+"\""))
	}
}

// shapeChecker walks one equation's expression tree inferring the shape
// (list of dimensions, empty for scalar) each subexpression produces,
// reporting ShapeMismatch wherever two operands combine incompatibly (spec
// §4.7: scalar literal ⇒ [], identifier shape minus fixed subscript slots,
// arithmetic/comparison/logical require broadcast-compatible operands,
// IF/THEN/ELSE requires its branches to agree).
type shapeChecker struct {
	es    *elementSet
	cfg   Config
	diags *source.Collector
	file  string
	model string
}

// infer returns the shape e evaluates to. A nil/empty result always means
// "scalar" — either genuinely scalar, or shape-mismatched (in which case a
// diagnostic has already been raised at the point of failure and further
// callers treat the subexpression as scalar rather than cascading errors).
func (sc *shapeChecker) infer(e Expr) []*Name[*DimensionBinding] {
	if e == nil {
		return nil
	}

	switch t := e.(type) {
	case *NumberLit, *StringLit:
		return nil
	case *Ident:
		return sc.inferIdent(t)
	case *Unary:
		return sc.infer(t.X)
	case *Binary:
		return sc.inferBinary(t)
	case *Conditional:
		sc.infer(t.Cond)

		shape, ok := combineBroadcast(sc.infer(t.Then), sc.infer(t.Else))
		if !ok {
			sc.diags.Add(newDiagnostic(KindShapeMismatch, sc.file, t.Span(),
				"IF/THEN/ELSE branches have incompatible shapes in model \""+sc.model+"\""))

			return nil
		}

		return shape
	case *Call:
		var shape []*Name[*DimensionBinding]

		for _, a := range t.Args {
			if combined, ok := combineBroadcast(shape, sc.infer(a)); ok {
				shape = combined
			}
		}

		return shape
	case *GfApp:
		sc.infer(t.Input)
		return nil
	case *ArrayLit:
		for _, el := range t.Elements {
			sc.infer(el)
		}

		return nil
	default:
		return nil
	}
}

func (sc *shapeChecker) inferBinary(b *Binary) []*Name[*DimensionBinding] {
	l := sc.infer(b.L)
	r := sc.infer(b.R)

	shape, ok := combineBroadcast(l, r)
	if !ok {
		sc.diags.Add(newDiagnostic(KindShapeMismatch, sc.file, b.Span(),
			"incompatible operand shapes "+describeShape(l)+" and "+describeShape(r)+" in an arithmetic expression in model \""+sc.model+"\""))

		return nil
	}

	return shape
}

// inferIdent returns id's shape: its target's whole declared shape when
// unsubscripted, or that shape with every position pinned to a single
// element (an index, or a named subscript element rather than a dimension
// or wildcard) dropped.
func (sc *shapeChecker) inferIdent(id *Ident) []*Name[*DimensionBinding] {
	vb, ok := id.Binding.(*VariableBinding)
	if !ok {
		return nil
	}

	shape := vb.Variable.Shape()
	if len(id.Subscripts) == 0 {
		return shape
	}

	if len(id.Subscripts) != len(shape) {
		// Already reported by checkSubscripts; don't cascade a second error.
		return nil
	}

	var result []*Name[*DimensionBinding]

	for i, s := range id.Subscripts {
		if s.IsIndex {
			continue
		}

		if s.IsWildcard {
			result = append(result, shape[i])
			continue
		}

		canonical, err := canonicalOf(s.Name, sc.cfg.identOptions())
		if err != nil {
			continue
		}

		if _, ok := sc.es.elements[canonical]; ok {
			continue
		}

		result = append(result, shape[i])
	}

	return result
}

// combineBroadcast combines two operand shapes the way spec §4.7's
// arithmetic broadcast rule does: a scalar operand (empty shape) broadcasts
// against anything, and two array shapes combine only when they are
// identical.
func combineBroadcast(a, b []*Name[*DimensionBinding]) ([]*Name[*DimensionBinding], bool) {
	if len(a) == 0 {
		return b, true
	}

	if len(b) == 0 {
		return a, true
	}

	if !sameShape(a, b) {
		return nil, false
	}

	return a, true
}

func sameShape(a, b []*Name[*DimensionBinding]) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].Canonical != b[i].Canonical {
			return false
		}
	}

	return true
}

// shapeAssignable reports whether inferred (an equation's whole-tree shape)
// may be assigned into declared (a variable's own declared shape): a scalar
// result always broadcasts into any declared shape (including scalar), an
// array result must match exactly.
func shapeAssignable(inferred, declared []*Name[*DimensionBinding]) bool {
	if len(inferred) == 0 {
		return true
	}

	return sameShape(inferred, declared)
}

func describeShape(shape []*Name[*DimensionBinding]) string {
	if len(shape) == 0 {
		return "[]"
	}

	s := "["
	for i, d := range shape {
		if i > 0 {
			s += ", "
		}

		s += d.Display
	}

	return s + "]"
}
