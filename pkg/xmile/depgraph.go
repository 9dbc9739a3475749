package xmile

import (
	"slices"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

// detectCycles builds the variable dependency graph for one model and
// reports every cycle it finds via KindCyclicDependency. Uses Kahn's
// algorithm (repeatedly peel vertices with no remaining incoming edges),
// grounded on mgmt's pgraph.TopologicalSort (pgraph/pgraph.go). The
// vertices left with a nonzero remaining in-degree once the peeling stalls
// are those on a cycle plus those a cycle depends on; findCycleFrom walks
// back from each of them to the cycle itself. Each report names the
// vertices of one such cycle; where a strongly connected component holds
// several cycles, members outside the one found are not listed.
//
// Every variable gets an edge to each variable its equation references, a
// stock's initial-value equation included. A stock's inflow/outflow lists
// add no edges, and a stock naming itself in its own equation is not
// counted as a dependency.
func detectCycles(m *Model, diags *source.Collector, file string) {
	index := make(map[string]int, len(m.Variables))
	for i, v := range m.Variables {
		index[v.VarName().Canonical] = i
	}

	adjacency := make([][]int, len(m.Variables))

	for i, v := range m.Variables {
		_, isStock := v.(*Stock)

		for _, dep := range dependenciesOf(v) {
			j, ok := index[dep]
			if !ok {
				continue
			}

			// A stock referencing itself is integration, not a dependency
			// (spec §4.6): its own inflow/outflow edges are already excluded
			// by dependenciesOf not reading Inflows/Outflows. A flow or aux
			// naming itself, though, is a genuine self-loop and must be
			// reported as KindCyclicDependency.
			if j == i && isStock {
				continue
			}

			adjacency[i] = append(adjacency[i], j)
		}
	}

	inDegree := make([]int, len(m.Variables))
	for _, edges := range adjacency {
		for _, j := range edges {
			inDegree[j]++
		}
	}

	var queue []int

	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	visited := 0
	remaining := append([]int(nil), inDegree...)

	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		visited++

		for _, j := range adjacency[v] {
			remaining[j]--
			if remaining[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	if visited == len(m.Variables) {
		return
	}

	seen := make(map[int]bool)

	for i, r := range remaining {
		if r > 0 && !seen[i] {
			cyc := findCycleFrom(i, adjacency, remaining)
			if seen[cyc[0]] {
				continue
			}

			for _, c := range cyc {
				seen[c] = true
			}

			reportCycle(m, cyc, diags, file)
		}
	}
}

// dependenciesOf returns the canonical names an equation-bearing variable
// reads from, by walking its Ident/Call references. Unresolved identifiers
// contribute nothing (L6 has already reported them separately).
func dependenciesOf(v Variable) []string {
	var eqn Expr

	switch t := v.(type) {
	case *Stock:
		eqn = t.Eqn
	case *Flow:
		eqn = t.Eqn
	case *Aux:
		eqn = t.Eqn
	default:
		return nil
	}

	var deps []string
	walkExpr(eqn, func(e Expr) {
		if id, ok := e.(*Ident); ok {
			if vb, ok := id.Binding.(*VariableBinding); ok {
				deps = append(deps, vb.Variable.VarName().Canonical)
			}
		}

		if call, ok := e.(*Call); ok {
			if vb, ok := call.Binding.(*VariableBinding); ok {
				deps = append(deps, vb.Variable.VarName().Canonical)
			}

			if gf, ok := call.Binding.(*GfBinding); ok {
				deps = append(deps, gf.Gf.VarName().Canonical)
			}
		}
	})

	return deps
}

func walkExpr(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}

	visit(e)

	switch t := e.(type) {
	case *Unary:
		walkExpr(t.X, visit)
	case *Binary:
		walkExpr(t.L, visit)
		walkExpr(t.R, visit)
	case *Conditional:
		walkExpr(t.Cond, visit)
		walkExpr(t.Then, visit)
		walkExpr(t.Else, visit)
	case *Call:
		for _, a := range t.Args {
			walkExpr(a, visit)
		}
	case *GfApp:
		walkExpr(t.Input, visit)
	case *ArrayLit:
		for _, el := range t.Elements {
			walkExpr(el, visit)
		}
	}
}

// findCycleFrom walks back from start, always to a still-unresolved
// (remaining > 0) vertex that depends on the current one, until it revisits
// one, and returns that cycle ordered so each vertex depends on the next.
func findCycleFrom(start int, adjacency [][]int, remaining []int) []int {
	path := []int{start}
	onPath := map[int]int{start: 0}
	cur := start

	for {
		next := -1

		for i, edges := range adjacency {
			if remaining[i] > 0 && slices.Contains(edges, cur) {
				next = i
				break
			}
		}

		if next == -1 {
			return path
		}

		if idx, ok := onPath[next]; ok {
			cyc := path[idx:]
			slices.Reverse(cyc)

			return cyc
		}

		onPath[next] = len(path)
		path = append(path, next)
		cur = next
	}
}

func reportCycle(m *Model, cyc []int, diags *source.Collector, file string) {
	if len(cyc) == 0 {
		return
	}

	names := make([]string, 0, len(cyc))
	for _, i := range cyc {
		names = append(names, m.Variables[i].VarName().Display)
	}

	msg := "cyclic dependency in model \"" + m.Name.Display + "\": "

	for i, n := range names {
		if i > 0 {
			msg += " -> "
		}

		msg += n
	}

	diags.Add(newDiagnostic(KindCyclicDependency, file, m.Variables[cyc[0]].Span(), msg))
}
