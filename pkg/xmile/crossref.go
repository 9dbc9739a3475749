package xmile

import "github.com/xmile-tools/go-xmile/pkg/source"

// CrossReference implements L8: stock/flow ownership checks, graphical
// function call-site validation, and module port wiring, all of which need
// the whole document's L6 bindings settled first (spec §4.8).
func CrossReference(doc *Document, cfg Config, diags *source.Collector, file string) {
	for _, m := range doc.Models {
		checkFlowOwnership(m, diags, file)
		checkGfCallSites(m, diags, file)
		checkModulePorts(m, diags, file)
	}
}

func checkFlowOwnership(m *Model, diags *source.Collector, file string) {
	inflowCount := make(map[string]int)
	outflowCount := make(map[string]int)

	for _, v := range m.Variables {
		stock, ok := v.(*Stock)
		if !ok {
			continue
		}

		for _, in := range stock.Inflows {
			checkDanglingFlow(m, stock, in, diags, file)

			if in.IsResolved() {
				inflowCount[in.Canonical]++
			}
		}

		for _, out := range stock.Outflows {
			checkDanglingFlow(m, stock, out, diags, file)

			if out.IsResolved() {
				outflowCount[out.Canonical]++
			}

			for _, in := range stock.Inflows {
				if in.Canonical == out.Canonical {
					diags.Add(newDiagnostic(KindFlowOwnedTwice, file, stock.Span(),
						"flow \""+out.Display+"\" is both an inflow and an outflow of stock \""+stock.Name.Display+"\" in model \""+m.Name.Display+"\""))
				}
			}
		}
	}

	for canonical, n := range inflowCount {
		if n > 1 {
			reportOwnedTwice(m, canonical, "inflow", diags, file)
		}
	}

	for canonical, n := range outflowCount {
		if n > 1 {
			reportOwnedTwice(m, canonical, "outflow", diags, file)
		}
	}
}

func checkDanglingFlow(m *Model, stock *Stock, n *Name[*VariableBinding], diags *source.Collector, file string) {
	if !n.IsResolved() {
		return
	}

	if n.Binding().Variable.Kind() != KindFlow {
		diags.Add(newDiagnostic(KindDanglingFlowRef, file, stock.Span(),
			"stock \""+stock.Name.Display+"\" in model \""+m.Name.Display+"\" names \""+n.Display+"\" as a flow, but it is a "+string(n.Binding().Variable.Kind())))
	}
}

func reportOwnedTwice(m *Model, canonical, direction string, diags *source.Collector, file string) {
	diags.Add(newDiagnostic(KindFlowOwnedTwice, file, m.Span(),
		"flow \""+canonical+"\" is claimed as an "+direction+" by more than one stock in model \""+m.Name.Display+"\""))
}

// checkGfCallSites finds every Call whose callee resolved (in L6) to a
// GfBinding and checks that it has exactly one argument (GfDomainError
// otherwise) and that the argument holds no wildcard subscript
// (GfArrayArgument). An array-shaped argument without a wildcard, such as a
// bare reference to an arrayed variable, is not detected.
func checkGfCallSites(m *Model, diags *source.Collector, file string) {
	for _, v := range m.Variables {
		eqn := equationOf(v)
		if eqn == nil {
			continue
		}

		walkExpr(eqn, func(e Expr) {
			call, ok := e.(*Call)
			if !ok {
				return
			}

			gfb, ok := call.Binding.(*GfBinding)
			if !ok {
				return
			}

			if len(call.Args) != 1 {
				diags.Add(newDiagnostic(KindGfDomainError, file, call.Span(),
					"graphical function \""+gfb.Gf.VarName().Display+"\" takes exactly one argument"))

				return
			}

			if exprHasWildcard(call.Args[0]) {
				diags.Add(newDiagnostic(KindGfArrayArgument, file, call.Args[0].Span(),
					"graphical function \""+gfb.Gf.VarName().Display+"\" cannot be applied to an array-shaped ("+"wildcard-subscripted) argument"))
			}
		})
	}
}

func exprHasWildcard(e Expr) bool {
	found := false
	walkExpr(e, func(x Expr) {
		id, ok := x.(*Ident)
		if !ok {
			return
		}

		for _, s := range id.Subscripts {
			if s.IsWildcard {
				found = true
			}
		}
	})

	return found
}

// checkModulePorts resolves each ModuleInstance's local/remote port
// bindings and reports any pairing that does not line up with the
// referenced submodel's declared interface.
func checkModulePorts(m *Model, diags *source.Collector, file string) {
	for _, v := range m.Variables {
		inst, ok := v.(*ModuleInstance)
		if !ok {
			continue
		}

		if !inst.Submodel.IsResolved() {
			continue
		}

		submodel := inst.Submodel.Binding().Model

		for i := range inst.Ports {
			resolveModulePortPair(m, inst, &inst.Ports[i], submodel, diags, file)
		}
	}
}

func resolveModulePortPair(m *Model, inst *ModuleInstance, pair *ModulePortPair, submodel *Model, diags *source.Collector, file string) {
	localFound := false

	for _, cand := range m.Variables {
		if cand.VarName().Canonical == pair.Local.Canonical {
			pair.Local.Resolve(&VariableBinding{Variable: cand})
			localFound = true

			break
		}
	}

	if !localFound {
		diags.Add(newDiagnostic(KindDanglingFlowRef, file, inst.Span(),
			"module \""+inst.Name.Display+"\" wires undeclared local variable \""+pair.Local.Display+"\""))
	}

	ports := append(append([]*Port{}, submodel.Inputs...), submodel.Outputs...)

	for i, p := range ports {
		if p.Name.Canonical == pair.Remote.Canonical {
			isOutput := i >= len(submodel.Inputs)
			pair.Remote.Resolve(&ModulePortBinding{Module: submodel, Port: p})
			pair.IsOutput = isOutput

			return
		}
	}

	path := inst.QualifiedPath(*pair)

	diags.Add(newDiagnostic(KindDanglingFlowRef, file, inst.Span(),
		"port \""+path.String()+"\" not declared on model \""+submodel.Name.Display+"\""))
}
