package xmile

import (
	"encoding/xml"
	"sort"
	"strconv"
	"strings"

	"github.com/xmile-tools/go-xmile/pkg/units"
)

// Marshal reverses bindDocument (L4): it walks a resolved or merely-bound
// Document back into the xmlXxx shadow tree and hands that to
// encoding/xml.Marshal, which uses the very same struct tags bindDocument's
// Decode call relied on. This is the round-trip serialization
// _examples/original_source/src/xml/serialize.rs implements (backed by
// tests/round_trip.rs) that the distilled spec's Non-goals never excluded —
// only "serializing to non-XMILE formats" is out of scope, not serializing
// back to XMILE.
//
// Marshal is lossy in one respect the original tolerates too: equations are
// regenerated from the parsed Expr tree rather than the original source
// text, so whitespace and redundant parentheses are not preserved
// byte-for-byte, only semantically. <style>, <data>, and <views> content is
// reproduced verbatim via Opaque.Raw, since it was never parsed to begin
// with.
func Marshal(doc *Document) ([]byte, error) {
	raw := unbindDocument(doc)

	body, err := xml.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')

	return out, nil
}

func unbindDocument(doc *Document) *xmlDocument {
	raw := &xmlDocument{
		XMLName: xml.Name{Local: "xmile"},
		Header: xmlHeader{
			Name:    doc.Header.Name,
			Vendor:  doc.Header.Vendor,
			Product: doc.Header.Product,
			Version: doc.Header.Version,
		},
		SimSpecs: unbindSimSpecs(doc.SimSpecs),
		Units:    unbindUnitTable(doc.UnitTable),
		Behavior: unbindBehavior(doc.Behavior),
	}

	for _, d := range doc.Dimensions {
		raw.Dims = append(raw.Dims, unbindDimension(d))
	}

	for _, m := range doc.Macros {
		raw.Macros = append(raw.Macros, unbindMacro(m))
	}

	for _, m := range doc.Models {
		raw.Models = append(raw.Models, unbindModel(m))
	}

	raw.Style = unbindOpaques(doc.Style)
	raw.Data = unbindOpaques(doc.Data)
	raw.Views = unbindOpaques(doc.Views)

	return raw
}

func unbindOpaques(opaques []Opaque) []xmlOpaque {
	if len(opaques) == 0 {
		return nil
	}

	out := make([]xmlOpaque, len(opaques))
	for i, o := range opaques {
		out[i] = xmlOpaque{XMLName: xml.Name{Local: o.XMLName}, Inner: o.Raw}
	}

	return out
}

func unbindSimSpecs(s SimSpecs) xmlSimSpecs {
	return xmlSimSpecs{
		Start:    formatFloat(s.Start),
		Stop:     formatFloat(s.Stop),
		DT:       formatFloat(s.DT),
		SaveStep: formatFloat(s.SaveStep),
		Method:   string(s.Method),
	}
}

func unbindUnitTable(table map[string]units.Expr) []xmlUnit {
	if len(table) == 0 {
		return nil
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}

	sort.Strings(names)

	out := make([]xmlUnit, len(names))
	for i, name := range names {
		out[i] = xmlUnit{Name: name, Eqn: table[name].String()}
	}

	return out
}

func unbindDimension(d *Dimension) xmlDim {
	raw := xmlDim{Name: d.Name.Display}

	if d.Size > 0 {
		raw.Size = strconv.Itoa(d.Size)
		return raw
	}

	for _, e := range d.Elements {
		raw.Elem = append(raw.Elem, xmlElem{Name: e.Name.Display})
	}

	return raw
}

func unbindMacro(m *Macro) xmlMacro {
	raw := xmlMacro{Name: m.Name, Eqn: exprString(m.Body)}

	for _, p := range m.Params {
		mp := xmlMacroParam{Name: p.Name}
		if p.Default != nil {
			mp.Default = exprString(p.Default)
		}

		raw.Params = append(raw.Params, mp)
	}

	return raw
}

func unbindBehavior(b *Behavior) *xmlBehavior {
	if b == nil {
		return nil
	}

	raw := &xmlBehavior{}

	for _, e := range b.Entries {
		for _, p := range e.Properties {
			if p != BehaviorNonNegative {
				continue
			}

			switch e.Entity {
			case "":
				raw.NonNegative = &struct{}{}
			case "stock":
				raw.Stock.NonNegative = &struct{}{}
			case "flow":
				raw.Flow.NonNegative = &struct{}{}
			}
		}
	}

	return raw
}

func unbindModel(m *Model) xmlModel {
	raw := xmlModel{
		Name:     m.Name.Display,
		Units:    unbindUnitTable(m.LocalUnits),
		Behavior: unbindBehavior(m.Behavior),
	}

	for _, d := range m.LocalDimensions {
		raw.Dims = append(raw.Dims, unbindDimension(d))
	}

	for _, p := range m.Inputs {
		raw.Interface.Inputs = append(raw.Interface.Inputs, p.Name.Display)
	}

	for _, p := range m.Outputs {
		raw.Interface.Outputs = append(raw.Interface.Outputs, p.Name.Display)
	}

	for _, v := range m.Variables {
		switch t := v.(type) {
		case *Stock:
			raw.Stocks = append(raw.Stocks, unbindStock(t))
		case *Flow:
			raw.Flows = append(raw.Flows, unbindFlow(t, m.Variables))
		case *Aux:
			raw.Auxs = append(raw.Auxs, unbindAux(t, m.Variables))
		case *GraphicalFunction:
			if !t.Inline {
				raw.Gfs = append(raw.Gfs, xmlGfTop{Name: t.VarName().Display, xmlGf: unbindGf(t)})
			}
		case *ModuleInstance:
			raw.Modules = append(raw.Modules, unbindModuleInstance(t))
		}
	}

	return raw
}

func unbindStock(s *Stock) xmlStock {
	raw := xmlStock{
		Name: s.Name.Display,
		Eqn:  exprString(s.Eqn),
		Dims: unbindDimRefs(s.Dims),
	}

	if s.NonNegative {
		raw.NonNegative = &struct{}{}
	}

	if s.UnitsExpr != nil {
		raw.Units = s.UnitsExpr.String()
	}

	for _, in := range s.Inflows {
		raw.Inflow = append(raw.Inflow, in.Display)
	}

	for _, out := range s.Outflows {
		raw.Outflow = append(raw.Outflow, out.Display)
	}

	return raw
}

func unbindFlow(f *Flow, siblings []Variable) xmlFlow {
	raw := xmlFlow{
		Name: f.Name.Display,
		Eqn:  exprString(f.Eqn),
		Dims: unbindDimRefs(f.Dims),
	}

	if f.NonNegative {
		raw.NonNegative = &struct{}{}
	}

	if f.UnitsExpr != nil {
		raw.Units = f.UnitsExpr.String()
	}

	if gf := findInlineGf(siblings, f.Name.Display); gf != nil {
		unbound := unbindGf(gf)
		raw.Gf = &unbound
	}

	return raw
}

func unbindAux(a *Aux, siblings []Variable) xmlAux {
	raw := xmlAux{
		Name: a.Name.Display,
		Eqn:  exprString(a.Eqn),
		Dims: unbindDimRefs(a.Dims),
	}

	if a.UnitsExpr != nil {
		raw.Units = a.UnitsExpr.String()
	}

	if gf := findInlineGf(siblings, a.Name.Display); gf != nil {
		unbound := unbindGf(gf)
		raw.Gf = &unbound
	}

	return raw
}

// findInlineGf recovers the GraphicalFunction bindGf/bindInlineGf synthesized
// for one stock/flow/aux's inline <gf>, by the same "owner name + \" gf\""
// convention bindInlineGf used to name it (schema.go). Inline GFs are stored
// as independent Variable entries in the model (so they occupy the scope's
// symbol table, per SPEC_FULL.md's Open Question (b) decision) rather than
// nested inside their owner, so recovering the link back requires this
// lookup instead of a direct field.
func findInlineGf(siblings []Variable, ownerDisplay string) *GraphicalFunction {
	want := ownerDisplay + " gf"

	for _, v := range siblings {
		gf, ok := v.(*GraphicalFunction)
		if ok && gf.Inline && gf.Name.Display == want {
			return gf
		}
	}

	return nil
}

func unbindGf(gf *GraphicalFunction) xmlGf {
	raw := xmlGf{}

	switch gf.Interp {
	case InterpExtrapolate:
		raw.Type = "extrapolate"
	case InterpDiscrete:
		raw.Type = "discrete"
	default:
		raw.Type = "continuous"
	}

	if gf.XMin.HasValue() {
		raw.XScale.Min = formatFloat(gf.XMin.Unwrap())
	}

	if gf.XMax.HasValue() {
		raw.XScale.Max = formatFloat(gf.XMax.Unwrap())
	}

	if len(gf.XPts) > 0 {
		raw.XPts = formatFloatList(gf.XPts)
	}

	raw.YPts = formatFloatList(gf.YPts)

	return raw
}

func unbindModuleInstance(inst *ModuleInstance) xmlModuleInst {
	raw := xmlModuleInst{
		Name:  inst.Name.Display,
		Model: inst.Submodel.Display,
	}

	for _, p := range inst.Ports {
		raw.Connect = append(raw.Connect, xmlConnection{From: p.Remote.Display, To: p.Local.Display})
	}

	return raw
}

func unbindDimRefs(refs []*Name[*DimensionBinding]) []xmlDimRef {
	if len(refs) == 0 {
		return nil
	}

	out := make([]xmlDimRef, len(refs))
	for i, r := range refs {
		out[i] = xmlDimRef{Name: r.Display}
	}

	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatFloatList(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}

	return strings.Join(parts, ",")
}

// exprString regenerates XMILE equation text from a parsed Expr, the
// reverse of ParseEquation. Sub-expressions of Binary/Unary/Conditional
// nodes are always fully parenthesized rather than reproducing the
// original's minimal-parens style, trading exact source fidelity for a
// guarantee that re-parsing the output yields an equivalent AST.
func exprString(e Expr) string {
	switch t := e.(type) {
	case nil:
		return ""
	case *NumberLit:
		return formatFloat(t.Value)
	case *StringLit:
		return "'" + t.Value + "'"
	case *Ident:
		return identString(t)
	case *Unary:
		return unaryOpString(t.Op) + "(" + exprString(t.X) + ")"
	case *Binary:
		return "(" + exprString(t.L) + " " + binaryOpString(t.Op) + " " + exprString(t.R) + ")"
	case *Conditional:
		return "(IF " + exprString(t.Cond) + " THEN " + exprString(t.Then) + " ELSE " + exprString(t.Else) + ")"
	case *Call:
		return callString(t.Namespace, t.Name, t.Args)
	case *GfApp:
		name := ""
		if t.Gf != nil && t.Gf.Gf != nil {
			name = t.Gf.Gf.VarName().Display
		}

		return name + "(" + exprString(t.Input) + ")"
	case *ArrayLit:
		parts := make([]string, len(t.Elements))
		for i, el := range t.Elements {
			parts[i] = exprString(el)
		}

		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

func identString(id *Ident) string {
	name := id.Name
	if id.Namespace != NamespaceNone {
		name = string(id.Namespace) + "." + name
	}

	name = quoteIfNeeded(name)

	if len(id.Subscripts) == 0 {
		return name
	}

	parts := make([]string, len(id.Subscripts))
	for i, s := range id.Subscripts {
		parts[i] = subscriptString(s)
	}

	return name + "[" + strings.Join(parts, ",") + "]"
}

func subscriptString(s Subscript) string {
	switch {
	case s.IsWildcard:
		return "*"
	case s.IsIndex:
		return formatFloat(s.Index)
	default:
		return s.Name
	}
}

func callString(ns Namespace, name string, args []Expr) string {
	prefix := ""
	if ns != NamespaceNone {
		prefix = string(ns) + "."
	}

	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = exprString(a)
	}

	return quoteIfNeeded(prefix+name) + "(" + strings.Join(parts, ", ") + ")"
}

// quoteIfNeeded wraps name in double quotes when the lexer would not read it
// back as a single bare identifier token (e.g. a name containing spaces).
func quoteIfNeeded(name string) string {
	if name == "" || isIdentStart([]rune(name)[0]) &&
		strings.IndexFunc(name, func(r rune) bool { return !isIdentCont(r) && r != '.' }) < 0 {
		return name
	}

	return "\"" + name + "\""
}

func unaryOpString(op UnaryOp) string {
	switch op {
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "NOT "
	default:
		return "+"
	}
}

func binaryOpString(op BinaryOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return "+"
	}
}
