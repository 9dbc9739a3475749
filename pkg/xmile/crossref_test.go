package xmile

import (
	"strings"
	"testing"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

func compileFull(t *testing.T, xmlDoc string, cfg Config) []source.Diagnostic {
	t.Helper()

	diags := source.NewCollector()

	doc, err := bindDocument(strings.NewReader(xmlDoc), cfg, diags, "cross.xmile")
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	Resolve(doc, cfg, diags)
	CheckShapes(doc, cfg, diags, "cross.xmile")
	CrossReference(doc, cfg, diags, "cross.xmile")

	return diags.Diagnostics()
}

func TestCrossReferenceDanglingFlowRef(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Dangling</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <stock name="Water">
        <eqn>0</eqn>
        <inflow>Room Temperature</inflow>
      </stock>
      <aux name="Room Temperature"><eqn>70</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileFull(t, doc, DefaultConfig())

	if !hasKind(diags, KindDanglingFlowRef) {
		t.Fatalf("expected DanglingFlowRef when an inflow names a non-flow variable, got %#v", diags)
	}
}

func TestCrossReferenceFlowOwnedTwice(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Owned</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <stock name="Tank A">
        <eqn>0</eqn>
        <inflow>Shared Fill</inflow>
      </stock>
      <stock name="Tank B">
        <eqn>0</eqn>
        <inflow>Shared Fill</inflow>
      </stock>
      <flow name="Shared Fill"><eqn>1</eqn></flow>
    </variables>
  </model>
</xmile>`

	diags := compileFull(t, doc, DefaultConfig())

	if !hasKind(diags, KindFlowOwnedTwice) {
		t.Fatalf("expected FlowOwnedTwice, got %#v", diags)
	}
}

func TestCrossReferenceGfArrayArgument(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>GfArg</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <dimensions>
    <dim name="Region"><elem name="East"/><elem name="West"/></dim>
  </dimensions>
  <model>
    <variables>
      <aux name="Input">
        <eqn>0</eqn>
        <dimensions><dim name="Region"/></dimensions>
      </aux>
      <gf name="Curve">
        <xscale min="0" max="1"/>
        <ypts>0,1</ypts>
      </gf>
      <aux name="Output"><eqn>Curve(Input[*])</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileFull(t, doc, DefaultConfig())

	if !hasKind(diags, KindGfArrayArgument) {
		t.Fatalf("expected GfArrayArgument, got %#v", diags)
	}
}

func TestCrossReferenceGfDomainErrorOnExtraArgs(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>GfDomain</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <gf name="Curve">
        <xscale min="0" max="1"/>
        <ypts>0,1</ypts>
      </gf>
      <aux name="Output"><eqn>Curve(1, 2)</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileFull(t, doc, DefaultConfig())

	if !hasKind(diags, KindGfDomainError) {
		t.Fatalf("expected GfDomainError, got %#v", diags)
	}
}

func TestCrossReferenceModulePortPairing(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Modules</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <aux name="Feed"><eqn>1</eqn></aux>
      <module name="Sub1" model="Reservoir">
        <connect from="Level" to="Feed"/>
        <connect from="Nonexistent Port" to="Feed"/>
      </module>
    </variables>
  </model>
  <model name="Reservoir">
    <interface>
      <input><name>Level</name></input>
    </interface>
    <variables>
      <aux name="Level"><eqn>0</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileFull(t, doc, DefaultConfig())

	if !hasKind(diags, KindDanglingFlowRef) {
		t.Fatalf("expected DanglingFlowRef for the undeclared remote port, got %#v", diags)
	}

	found := false

	for _, d := range diags {
		if d.Kind == string(KindDanglingFlowRef) && strings.Contains(d.Message, "/Sub1/Nonexistent Port") {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected diagnostic to name the qualified port path \"/Sub1/Nonexistent Port\", got %#v", diags)
	}
}
