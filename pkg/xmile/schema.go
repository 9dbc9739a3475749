package xmile

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/xmile-tools/go-xmile/pkg/ident"
	"github.com/xmile-tools/go-xmile/pkg/source"
	"github.com/xmile-tools/go-xmile/pkg/units"
	"github.com/xmile-tools/go-xmile/pkg/util"
)

// The xmlXxx types below mirror the wire shape of an XMILE document closely
// enough for encoding/xml's struct-tag decoder to bind it directly (spec §1:
// "callers are expected to feed this package a standard streaming XML
// reader"; spec §6 gives the exact element/attribute names). None of these
// types leaves this file — bindDocument (L4) walks them once into the
// public, resolution-ready xmile.Document/Model/Variable tree.

type xmlDocument struct {
	XMLName  xml.Name     `xml:"xmile"`
	Header   xmlHeader    `xml:"header"`
	SimSpecs xmlSimSpecs  `xml:"sim_specs"`
	Units    []xmlUnit    `xml:"model_units>unit"`
	Dims     []xmlDim     `xml:"dimensions>dim"`
	Behavior *xmlBehavior `xml:"behavior"`
	Macros   []xmlMacro   `xml:"macro"`
	Models   []xmlModel   `xml:"model"`
	Style    []xmlOpaque  `xml:"style"`
	Data     []xmlOpaque  `xml:"data"`
	Views    []xmlOpaque  `xml:"views"`
}

// xmlBehavior binds a <behavior> block (spec's SUPPLEMENTED FEATURES:
// behavior cascade). It appears both at document level and, separately,
// nested in <model>; xmlBehaviorEntity captures the per-entity-kind
// override tags nested beneath it.
type xmlBehavior struct {
	NonNegative *struct{}        `xml:"non_negative"`
	Stock       xmlBehaviorEntity `xml:"stock"`
	Flow        xmlBehaviorEntity `xml:"flow"`
}

type xmlBehaviorEntity struct {
	NonNegative *struct{} `xml:"non_negative"`
}

type xmlHeader struct {
	Name    string `xml:"name"`
	Vendor  string `xml:"vendor"`
	Product string `xml:"product"`
	Version string `xml:"version"`
}

type xmlSimSpecs struct {
	Start    string `xml:"start"`
	Stop     string `xml:"stop"`
	DT       string `xml:"dt"`
	SaveStep string `xml:"savestep"`
	Method   string `xml:"method,attr"`
}

type xmlUnit struct {
	Name string `xml:"name,attr"`
	Eqn  string `xml:"eqn"`
}

type xmlDim struct {
	Name string    `xml:"name,attr"`
	Size string    `xml:"size,attr"`
	Elem []xmlElem `xml:"elem"`
}

type xmlElem struct {
	Name string `xml:"name,attr"`
}

type xmlMacro struct {
	Name   string          `xml:"name,attr"`
	Params []xmlMacroParam `xml:"parm"`
	Eqn    string          `xml:"eqn"`
}

// xmlMacroParam binds one <parm default="...">Name</parm> (spec §3
// "Macros... zero or more macros"; the exact shape is grounded on
// _examples/original_source/src/macro/mod.rs's MacroParameter, which
// deserializes the parameter's name from the tag's text content and its
// default, if any, from the "default" attribute).
type xmlMacroParam struct {
	Name    string `xml:",chardata"`
	Default string `xml:"default,attr"`
}

type xmlModel struct {
	Name      string          `xml:"name,attr"`
	Units     []xmlUnit       `xml:"model_units>unit"`
	Dims      []xmlDim        `xml:"dimensions>dim"`
	Behavior  *xmlBehavior    `xml:"behavior"`
	Interface xmlModelIface   `xml:"interface"`
	Stocks    []xmlStock      `xml:"variables>stock"`
	Flows     []xmlFlow       `xml:"variables>flow"`
	Auxs      []xmlAux        `xml:"variables>aux"`
	Gfs       []xmlGfTop      `xml:"variables>gf"`
	Modules   []xmlModuleInst `xml:"variables>module"`
}

type xmlModelIface struct {
	Inputs  []string `xml:"input>name"`
	Outputs []string `xml:"output>name"`
}

// xmlDimRef binds one <dim name="..."/> child of a variable's <dimensions>
// element; encoding/xml cannot collect an attribute of repeated child
// elements straight into a []string, so it needs this intermediate shape.
type xmlDimRef struct {
	Name string `xml:"name,attr"`
}

type xmlStock struct {
	Name        string      `xml:"name,attr"`
	Eqn         string      `xml:"eqn"`
	NonNegative *struct{}   `xml:"non_negative"`
	Units       string      `xml:"units"`
	Dims        []xmlDimRef `xml:"dimensions>dim"`
	Inflow      []string    `xml:"inflow"`
	Outflow     []string    `xml:"outflow"`
}

type xmlFlow struct {
	Name        string      `xml:"name,attr"`
	Eqn         string      `xml:"eqn"`
	NonNegative *struct{}   `xml:"non_negative"`
	Units       string      `xml:"units"`
	Dims        []xmlDimRef `xml:"dimensions>dim"`
	Gf          *xmlGf      `xml:"gf"`
}

type xmlAux struct {
	Name  string      `xml:"name,attr"`
	Eqn   string      `xml:"eqn"`
	Units string      `xml:"units"`
	Dims  []xmlDimRef `xml:"dimensions>dim"`
	Gf    *xmlGf      `xml:"gf"`
}

type xmlGfTop struct {
	Name string `xml:"name,attr"`
	xmlGf
}

type xmlGf struct {
	Type   string    `xml:"type,attr"`
	XScale xmlScale  `xml:"xscale"`
	XPts   string    `xml:"xpts"`
	YPts   string    `xml:"ypts"`
	Points []xmlGfPt `xml:"pt"`
}

type xmlScale struct {
	Min string `xml:"min,attr"`
	Max string `xml:"max,attr"`
}

type xmlGfPt struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
}

type xmlModuleInst struct {
	Name    string          `xml:"name,attr"`
	Model   string          `xml:"model,attr"`
	Connect []xmlConnection `xml:"connect"`
}

type xmlConnection struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
}

type xmlOpaque struct {
	XMLName xml.Name
	Inner   string `xml:",innerxml"`
}

// bindDocument implements L4: it decodes raw XML into the xmlXxx shadow
// tree, then walks that tree into a resolution-ready Document, canonicalizing
// every declared name (but not yet resolving any reference — that is L5/L6,
// see resolver.go) and parsing every <eqn> into an Expr via ParseEquation.
// Unknown elements are not represented in the xmlXxx structs at all;
// encoding/xml silently drops them during decode, without a diagnostic. Only
// the three containers style/data/views are kept, captured whole as raw
// Opaque blocks.
func bindDocument(r io.Reader, cfg Config, diags *source.Collector, file string) (*Document, error) {
	dec := xml.NewDecoder(r)

	var raw xmlDocument
	if err := dec.Decode(&raw); err != nil {
		diags.Add(source.Diagnostic{
			Kind:     string(KindXMLMalformed),
			Message:  err.Error(),
			File:     file,
			Severity: source.SeverityError,
		})

		return nil, err
	}

	doc := &Document{
		Header: Header{
			Name:    raw.Header.Name,
			Vendor:  raw.Header.Vendor,
			Product: raw.Header.Product,
			Version: raw.Header.Version,
		},
		UnitTable: make(map[string]units.Expr),
	}

	doc.SimSpecs = bindSimSpecs(raw.SimSpecs, diags, file)

	for _, u := range raw.Units {
		expr, err := units.Parse(u.Eqn, cfg.identOptions())
		if err != nil {
			diags.Add(source.Diagnostic{
				Kind:     string(KindUnitParseError),
				Message:  "malformed unit expression for \"" + u.Name + "\": " + err.Error(),
				File:     file,
				Severity: source.SeverityError,
			})

			continue
		}

		doc.UnitTable[u.Name] = expr
	}

	for _, d := range raw.Dims {
		dim, err := bindDimension(d, cfg, diags, file)
		if err == nil {
			doc.Dimensions = append(doc.Dimensions, dim)
		}
	}

	doc.Behavior = bindBehavior(raw.Behavior)

	for _, m := range raw.Macros {
		macro, err := bindMacro(m, cfg, diags, file)
		if err == nil {
			doc.Macros = append(doc.Macros, macro)
		}
	}

	for i, m := range raw.Models {
		model, err := bindModel(m, doc.Behavior, cfg, diags, file)
		if err != nil {
			continue
		}

		doc.Models = append(doc.Models, model)

		if i == 0 {
			doc.TopModel = model
		}
	}

	for _, s := range raw.Style {
		doc.Style = append(doc.Style, Opaque{XMLName: s.XMLName.Local, Raw: s.Inner})
	}

	for _, d := range raw.Data {
		doc.Data = append(doc.Data, Opaque{XMLName: d.XMLName.Local, Raw: d.Inner})
	}

	for _, v := range raw.Views {
		doc.Views = append(doc.Views, Opaque{XMLName: v.XMLName.Local, Raw: v.Inner})
	}

	return doc, nil
}

func bindSimSpecs(raw xmlSimSpecs, diags *source.Collector, file string) SimSpecs {
	parse := func(field, s string) float64 {
		if s == "" {
			return 0
		}

		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			diags.Add(source.Diagnostic{
				Kind:     string(KindSchemaViolation),
				Message:  "sim_specs " + field + " is not numeric: \"" + s + "\"",
				File:     file,
				Severity: source.SeverityError,
			})

			return 0
		}

		return v
	}

	method := IntegrationMethod(strings.ToLower(raw.Method))
	if method == "" {
		method = MethodEuler
	}

	return SimSpecs{
		Start:    parse("start", raw.Start),
		Stop:     parse("stop", raw.Stop),
		DT:       parse("dt", raw.DT),
		SaveStep: parse("savestep", raw.SaveStep),
		Method:   method,
	}
}

func bindDimension(raw xmlDim, cfg Config, diags *source.Collector, file string) (*Dimension, error) {
	name, err := NewName[*DimensionBinding](raw.Name, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, raw.Name)
		return nil, err
	}

	dim := &Dimension{Name: name}

	if raw.Size != "" {
		n, err := strconv.Atoi(raw.Size)
		if err != nil {
			diags.Add(source.Diagnostic{
				Kind:     string(KindSchemaViolation),
				Message:  "dimension \"" + raw.Name + "\" has non-integer size",
				File:     file,
				Severity: source.SeverityError,
			})
		} else {
			dim.Size = n
		}

		return dim, nil
	}

	for _, e := range raw.Elem {
		elemName, err := NewName[*ElementBinding](e.Name, cfg.identOptions())
		if err != nil {
			addIdentDiag(diags, file, err, e.Name)
			continue
		}

		dim.Elements = append(dim.Elements, &SubscriptElement{Name: elemName})
	}

	return dim, nil
}

func bindMacro(raw xmlMacro, cfg Config, diags *source.Collector, file string) (*Macro, error) {
	id, err := ident.Canonicalize(raw.Name, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, raw.Name)
		return nil, err
	}

	body, err := ParseEquation(raw.Eqn, cfg)
	if err != nil {
		addExprDiag(diags, file, err)
		return nil, err
	}

	params := make([]MacroParameter, 0, len(raw.Params))

	for _, p := range raw.Params {
		mp := MacroParameter{Name: strings.TrimSpace(p.Name)}

		if p.Default != "" {
			def, err := ParseEquation(p.Default, cfg)
			if err != nil {
				addExprDiag(diags, file, err)
			} else {
				mp.Default = def
			}
		}

		params = append(params, mp)
	}

	return &Macro{Name: raw.Name, Canonical: id.Canonical, Params: params, Body: body}, nil
}

// bindBehavior converts a raw <behavior> block into the domain Behavior type
// (SUPPLEMENTED FEATURES: behavior cascade). Returns nil when raw is nil, so
// callers can pass the result straight to behaviorCascade without a nil
// check at every use.
func bindBehavior(raw *xmlBehavior) *Behavior {
	if raw == nil {
		return nil
	}

	b := &Behavior{}

	if raw.NonNegative != nil {
		b.Entries = append(b.Entries, BehaviorEntry{Properties: []BehaviorProperty{BehaviorNonNegative}})
	}

	if raw.Stock.NonNegative != nil {
		b.Entries = append(b.Entries, BehaviorEntry{Entity: "stock", Properties: []BehaviorProperty{BehaviorNonNegative}})
	}

	if raw.Flow.NonNegative != nil {
		b.Entries = append(b.Entries, BehaviorEntry{Entity: "flow", Properties: []BehaviorProperty{BehaviorNonNegative}})
	}

	return b
}

func bindModel(raw xmlModel, docBehavior *Behavior, cfg Config, diags *source.Collector, file string) (*Model, error) {
	id, err := ident.Canonicalize(raw.Name, cfg.identOptions())
	if err != nil {
		if raw.Name != "" {
			addIdentDiag(diags, file, err, raw.Name)
			return nil, err
		}
		// The top-level model is conventionally unnamed; treat as "".
		id = ident.Identifier{Display: "", Canonical: ""}
	}

	model := &Model{Name: id, LocalUnits: make(map[string]units.Expr)}
	model.Behavior = bindBehavior(raw.Behavior)

	cascade := behaviorCascade{doc: docBehavior, model: model.Behavior}

	for _, u := range raw.Units {
		expr, err := units.Parse(u.Eqn, cfg.identOptions())
		if err != nil {
			diags.Add(source.Diagnostic{
				Kind:     string(KindUnitParseError),
				Message:  "malformed unit expression for \"" + u.Name + "\": " + err.Error(),
				File:     file,
				Severity: source.SeverityError,
			})

			continue
		}

		model.LocalUnits[u.Name] = expr
	}

	for _, d := range raw.Dims {
		dim, err := bindDimension(d, cfg, diags, file)
		if err == nil {
			model.LocalDimensions = append(model.LocalDimensions, dim)
		}
	}

	for _, in := range raw.Interface.Inputs {
		n, err := NewName[*VariableBinding](in, cfg.identOptions())
		if err == nil {
			model.Inputs = append(model.Inputs, &Port{Name: n})
		}
	}

	for _, out := range raw.Interface.Outputs {
		n, err := NewName[*VariableBinding](out, cfg.identOptions())
		if err == nil {
			model.Outputs = append(model.Outputs, &Port{Name: n})
		}
	}

	for _, s := range raw.Stocks {
		v, err := bindStock(s, cascade, cfg, diags, file)
		if err == nil {
			model.Variables = append(model.Variables, v)
		}
	}

	for _, f := range raw.Flows {
		v, gf, err := bindFlow(f, cascade, cfg, diags, file)
		if err == nil {
			model.Variables = append(model.Variables, v)
			if gf != nil {
				model.Variables = append(model.Variables, gf)
			}
		}
	}

	for _, a := range raw.Auxs {
		v, gf, err := bindAux(a, cfg, diags, file)
		if err == nil {
			model.Variables = append(model.Variables, v)
			if gf != nil {
				model.Variables = append(model.Variables, gf)
			}
		}
	}

	for _, g := range raw.Gfs {
		v, err := bindTopGf(g, cfg, diags, file)
		if err == nil {
			model.Variables = append(model.Variables, v)
		}
	}

	for _, m := range raw.Modules {
		v, err := bindModuleInstance(m, cfg, diags, file)
		if err == nil {
			model.Variables = append(model.Variables, v)
		}
	}

	return model, nil
}

func bindStock(raw xmlStock, cascade behaviorCascade, cfg Config, diags *source.Collector, file string) (*Stock, error) {
	id, err := ident.Canonicalize(raw.Name, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, raw.Name)
		return nil, err
	}

	eqn, err := parseOptionalEqn(raw.Eqn, cfg, diags, file)
	if err != nil {
		return nil, err
	}

	stock := &Stock{
		Name:        id,
		Eqn:         eqn,
		NonNegative: cascade.nonNegative("stock", raw.NonNegative != nil),
		Dims:        bindDimRefs(raw.Dims, cfg),
	}

	if raw.Units != "" {
		u, err := units.Parse(raw.Units, cfg.identOptions())
		if err == nil {
			stock.UnitsExpr = &u
		}
	}

	for _, in := range raw.Inflow {
		n, err := NewName[*VariableBinding](in, cfg.identOptions())
		if err == nil {
			stock.Inflows = append(stock.Inflows, n)
		}
	}

	for _, out := range raw.Outflow {
		n, err := NewName[*VariableBinding](out, cfg.identOptions())
		if err == nil {
			stock.Outflows = append(stock.Outflows, n)
		}
	}

	return stock, nil
}

func bindFlow(raw xmlFlow, cascade behaviorCascade, cfg Config, diags *source.Collector, file string) (*Flow, *GraphicalFunction, error) {
	id, err := ident.Canonicalize(raw.Name, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, raw.Name)
		return nil, nil, err
	}

	eqn, err := parseOptionalEqn(raw.Eqn, cfg, diags, file)
	if err != nil {
		return nil, nil, err
	}

	flow := &Flow{
		Name:        id,
		Eqn:         eqn,
		NonNegative: cascade.nonNegative("flow", raw.NonNegative != nil),
		Dims:        bindDimRefs(raw.Dims, cfg),
	}

	if raw.Units != "" {
		u, err := units.Parse(raw.Units, cfg.identOptions())
		if err == nil {
			flow.UnitsExpr = &u
		}
	}

	var gf *GraphicalFunction

	if raw.Gf != nil {
		gf, err = bindInlineGf(*raw.Gf, id.Display, cfg, diags, file)
		if err != nil {
			return flow, nil, nil
		}
	}

	return flow, gf, nil
}

func bindAux(raw xmlAux, cfg Config, diags *source.Collector, file string) (*Aux, *GraphicalFunction, error) {
	id, err := ident.Canonicalize(raw.Name, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, raw.Name)
		return nil, nil, err
	}

	eqn, err := parseOptionalEqn(raw.Eqn, cfg, diags, file)
	if err != nil {
		return nil, nil, err
	}

	aux := &Aux{Name: id, Eqn: eqn, Dims: bindDimRefs(raw.Dims, cfg)}

	if raw.Units != "" {
		u, err := units.Parse(raw.Units, cfg.identOptions())
		if err == nil {
			aux.UnitsExpr = &u
		}
	}

	var gf *GraphicalFunction

	if raw.Gf != nil {
		gf, err = bindInlineGf(*raw.Gf, id.Display, cfg, diags, file)
		if err != nil {
			return aux, nil, nil
		}
	}

	return aux, gf, nil
}

func bindTopGf(raw xmlGfTop, cfg Config, diags *source.Collector, file string) (*GraphicalFunction, error) {
	return bindGf(raw.xmlGf, raw.Name, false, cfg, diags, file)
}

func bindInlineGf(raw xmlGf, ownerName string, cfg Config, diags *source.Collector, file string) (*GraphicalFunction, error) {
	return bindGf(raw, ownerName+" gf", true, cfg, diags, file)
}

func bindGf(raw xmlGf, displayName string, inline bool, cfg Config, diags *source.Collector, file string) (*GraphicalFunction, error) {
	id, err := ident.Canonicalize(displayName, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, displayName)
		return nil, err
	}

	interp := InterpContinuous

	switch strings.ToLower(raw.Type) {
	case "extrapolate":
		interp = InterpExtrapolate
	case "discrete":
		interp = InterpDiscrete
	}

	gf := &GraphicalFunction{Name: id, Interp: interp, Inline: inline}

	if raw.XScale.Min != "" {
		if v, err := strconv.ParseFloat(raw.XScale.Min, 64); err == nil {
			gf.XMin = util.Some(v)
		}
	}

	if raw.XScale.Max != "" {
		if v, err := strconv.ParseFloat(raw.XScale.Max, 64); err == nil {
			gf.XMax = util.Some(v)
		}
	}

	if len(raw.Points) > 0 {
		for _, pt := range raw.Points {
			x, xerr := strconv.ParseFloat(pt.X, 64)
			y, yerr := strconv.ParseFloat(pt.Y, 64)

			if xerr == nil && yerr == nil {
				gf.XPts = append(gf.XPts, x)
				gf.YPts = append(gf.YPts, y)
			}
		}
	} else {
		gf.YPts = parseFloatList(raw.YPts)
		if raw.XPts != "" {
			gf.XPts = parseFloatList(raw.XPts)
		}
	}

	if len(gf.XPts) > 0 && len(gf.XPts) != len(gf.YPts) {
		diags.Add(newDiagnostic(KindGfDomainError, file, source.Span{},
			"graphical function \""+displayName+"\" has "+itoa(len(gf.XPts))+" xpts but "+itoa(len(gf.YPts))+" ypts"))
	} else if len(gf.XPts) > 1 && !isStrictlyMonotonic(gf.XPts) {
		diags.Add(newDiagnostic(KindGfDomainError, file, source.Span{},
			"graphical function \""+displayName+"\" xpts must be strictly increasing"))
	}

	return gf, nil
}

// isStrictlyMonotonic reports whether xs is strictly increasing, the shape
// spec §4.5 requires of a graphical function's x domain regardless of
// whether it was given as explicit <pt> pairs or parallel xpts/ypts lists.
func isStrictlyMonotonic(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}

	return true
}

func parseFloatList(s string) []float64 {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))

	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err == nil {
			out = append(out, v)
		}
	}

	return out
}

func bindModuleInstance(raw xmlModuleInst, cfg Config, diags *source.Collector, file string) (*ModuleInstance, error) {
	id, err := ident.Canonicalize(raw.Name, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, raw.Name)
		return nil, err
	}

	submodel, err := NewName[*SubmodelBinding](raw.Model, cfg.identOptions())
	if err != nil {
		addIdentDiag(diags, file, err, raw.Model)
		return nil, err
	}

	inst := &ModuleInstance{Name: id, Submodel: submodel}

	for _, c := range raw.Connect {
		local, err := NewName[*VariableBinding](c.To, cfg.identOptions())
		if err != nil {
			continue
		}

		remote, err := NewName[*ModulePortBinding](c.From, cfg.identOptions())
		if err != nil {
			continue
		}

		inst.Ports = append(inst.Ports, ModulePortPair{Local: local, Remote: remote})
	}

	return inst, nil
}

func bindDimRefs(refs []xmlDimRef, cfg Config) []*Name[*DimensionBinding] {
	var out []*Name[*DimensionBinding]

	for _, r := range refs {
		ref, err := NewName[*DimensionBinding](r.Name, cfg.identOptions())
		if err == nil {
			out = append(out, ref)
		}
	}

	return out
}

func parseOptionalEqn(eqn string, cfg Config, diags *source.Collector, file string) (Expr, error) {
	if strings.TrimSpace(eqn) == "" {
		diags.Add(source.Diagnostic{
			Kind:     string(KindExpressionSyntax),
			Message:  "empty equation",
			File:     file,
			Severity: source.SeverityError,
		})

		return nil, nil
	}

	expr, err := ParseEquation(eqn, cfg)
	if err != nil {
		addExprDiag(diags, file, err)
		return nil, err
	}

	return expr, nil
}

func addIdentDiag(diags *source.Collector, file string, err error, display string) {
	diags.Add(source.Diagnostic{
		Kind:     string(KindInvalidIdentifier),
		Message:  "invalid identifier \"" + display + "\": " + err.Error(),
		File:     file,
		Severity: source.SeverityError,
	})
}

func addExprDiag(diags *source.Collector, file string, err error) {
	if d, ok := err.(*source.Diagnostic); ok {
		d.File = file
		diags.Add(*d)
		return
	}

	diags.Add(source.Diagnostic{
		Kind:     string(KindExpressionSyntax),
		Message:  err.Error(),
		File:     file,
		Severity: source.SeverityError,
	})
}
