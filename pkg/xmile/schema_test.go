package xmile

import (
	"strings"
	"testing"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

const teacupXML = `<?xml version="1.0" encoding="utf-8"?>
<xmile version="1.0" xmlns="http://docs.oasis-open.org/xmile/ns/XMILE/v1.0">
  <header>
    <name>Teacup</name>
    <vendor>Acme Modeling</vendor>
    <product>go-xmile test fixture</product>
    <version>1.0</version>
  </header>
  <sim_specs method="euler">
    <start>0</start>
    <stop>30</stop>
    <dt>0.125</dt>
  </sim_specs>
  <model_units>
    <unit name="Degrees">
      <eqn>1</eqn>
    </unit>
  </model_units>
  <model>
    <variables>
      <stock name="Teacup Temperature">
        <eqn>70</eqn>
        <units>Degrees</units>
        <inflow>Heat Loss to Room</inflow>
      </stock>
      <flow name="Heat Loss to Room">
        <eqn>(Teacup_Temperature - Room_Temperature) / Characteristic_Time</eqn>
      </flow>
      <aux name="Room Temperature">
        <eqn>70</eqn>
      </aux>
      <aux name="Characteristic Time">
        <eqn>10</eqn>
      </aux>
    </variables>
  </model>
</xmile>`

func TestBindDocumentTeacup(t *testing.T) {
	diags := source.NewCollector()

	doc, err := bindDocument(strings.NewReader(teacupXML), DefaultConfig(), diags, "teacup.xmile")
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	if doc.Header.Name != "Teacup" {
		t.Fatalf("expected header name Teacup, got %q", doc.Header.Name)
	}

	if doc.SimSpecs.Stop != 30 {
		t.Fatalf("expected stop=30, got %v", doc.SimSpecs.Stop)
	}

	if len(doc.Models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(doc.Models))
	}

	model := doc.Models[0]
	if len(model.Variables) != 4 {
		t.Fatalf("expected 4 variables, got %d", len(model.Variables))
	}

	stock, ok := model.Variables[0].(*Stock)
	if !ok {
		t.Fatalf("expected first variable to be a Stock, got %#v", model.Variables[0])
	}

	if len(stock.Inflows) != 1 || stock.Inflows[0].Display != "Heat Loss to Room" {
		t.Fatalf("expected one inflow \"Heat Loss to Room\", got %#v", stock.Inflows)
	}

	if stock.UnitsExpr == nil {
		t.Fatalf("expected stock units to be bound")
	}
}

func TestBindDimensionsAndSubscriptedStock(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Regions</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <dimensions>
    <dim name="Region">
      <elem name="East"/>
      <elem name="West"/>
    </dim>
  </dimensions>
  <model>
    <variables>
      <stock name="Population">
        <eqn>100</eqn>
        <dimensions>
          <dim name="Region"/>
        </dimensions>
      </stock>
    </variables>
  </model>
</xmile>`

	diags := source.NewCollector()

	d, err := bindDocument(strings.NewReader(doc), DefaultConfig(), diags, "regions.xmile")
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	if len(d.Dimensions) != 1 || len(d.Dimensions[0].Elements) != 2 {
		t.Fatalf("expected one dimension with two elements, got %#v", d.Dimensions)
	}

	stock := d.Models[0].Variables[0].(*Stock)
	if len(stock.Dims) != 1 || stock.Dims[0].Display != "Region" {
		t.Fatalf("expected stock dimensioned by Region, got %#v", stock.Dims)
	}
}

func TestBindEmptyEquationIsNil(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Empty</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <aux name="Placeholder">
        <eqn></eqn>
      </aux>
    </variables>
  </model>
</xmile>`

	diags := source.NewCollector()

	d, err := bindDocument(strings.NewReader(doc), DefaultConfig(), diags, "empty.xmile")
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	aux := d.Models[0].Variables[0].(*Aux)
	if aux.Eqn != nil {
		t.Fatalf("expected nil equation for empty <eqn>, got %#v", aux.Eqn)
	}
}

func TestBindMalformedXMLReportsDiagnostic(t *testing.T) {
	diags := source.NewCollector()

	_, err := bindDocument(strings.NewReader("<xmile><unterminated"), DefaultConfig(), diags, "bad.xmile")
	if err == nil {
		t.Fatalf("expected an error binding malformed XML")
	}

	found := false

	for _, d := range diags.Diagnostics() {
		if d.Kind == string(KindXMLMalformed) {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected an XmlMalformed diagnostic, got %#v", diags.Diagnostics())
	}
}

func TestBindTopLevelGraphicalFunction(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Gf</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <gf name="Lookup">
        <xscale min="0" max="10"/>
        <ypts>0,1,4,9,16</ypts>
      </gf>
    </variables>
  </model>
</xmile>`

	diags := source.NewCollector()

	d, err := bindDocument(strings.NewReader(doc), DefaultConfig(), diags, "gf.xmile")
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	gf := d.Models[0].Variables[0].(*GraphicalFunction)
	if !gf.XMin.HasValue() || gf.XMin.Unwrap() != 0 || !gf.XMax.HasValue() || gf.XMax.Unwrap() != 10 {
		t.Fatalf("expected xscale 0..10, got %#v/%#v", gf.XMin, gf.XMax)
	}

	if len(gf.YPts) != 5 {
		t.Fatalf("expected 5 y points, got %d", len(gf.YPts))
	}
}

func TestBindGraphicalFunctionMismatchedPointCountIsGfDomainError(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Gf</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <gf name="Lookup">
        <xpts>0,1,2</xpts>
        <ypts>0,1,4,9</ypts>
      </gf>
    </variables>
  </model>
</xmile>`

	diags := source.NewCollector()

	if _, err := bindDocument(strings.NewReader(doc), DefaultConfig(), diags, "gf.xmile"); err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	if !hasKind(diags.Diagnostics(), KindGfDomainError) {
		t.Fatalf("expected GfDomainError for mismatched xpts/ypts length, got %#v", diags.Diagnostics())
	}
}

func TestBindGraphicalFunctionNonMonotonicXptsIsGfDomainError(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Gf</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <gf name="Lookup">
        <xpts>0,2,1,3</xpts>
        <ypts>0,1,4,9</ypts>
      </gf>
    </variables>
  </model>
</xmile>`

	diags := source.NewCollector()

	if _, err := bindDocument(strings.NewReader(doc), DefaultConfig(), diags, "gf.xmile"); err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	if !hasKind(diags.Diagnostics(), KindGfDomainError) {
		t.Fatalf("expected GfDomainError for non-monotonic xpts, got %#v", diags.Diagnostics())
	}
}
