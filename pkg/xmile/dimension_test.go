package xmile

import (
	"strings"
	"testing"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

func compileNoOwnershipChecks(t *testing.T, xmlDoc string, cfg Config) []source.Diagnostic {
	t.Helper()

	diags := source.NewCollector()

	doc, err := bindDocument(strings.NewReader(xmlDoc), cfg, diags, "shapes.xmile")
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	Resolve(doc, cfg, diags)
	CheckShapes(doc, cfg, diags, "shapes.xmile")

	return diags.Diagnostics()
}

func TestCheckShapesMismatchedSubscriptCount(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Shapes</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <dimensions>
    <dim name="Region"><elem name="East"/><elem name="West"/></dim>
  </dimensions>
  <model>
    <variables>
      <aux name="Population">
        <eqn>0</eqn>
        <dimensions><dim name="Region"/></dimensions>
      </aux>
      <aux name="Total"><eqn>Population[East, West]</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileNoOwnershipChecks(t, doc, DefaultConfig())

	if !hasKind(diags, KindShapeMismatch) {
		t.Fatalf("expected ShapeMismatch, got %#v", diags)
	}
}

func TestCheckShapesUnknownSubscript(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Shapes</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <dimensions>
    <dim name="Region"><elem name="East"/><elem name="West"/></dim>
  </dimensions>
  <model>
    <variables>
      <aux name="Population">
        <eqn>0</eqn>
        <dimensions><dim name="Region"/></dimensions>
      </aux>
      <aux name="Total"><eqn>Population[North]</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileNoOwnershipChecks(t, doc, DefaultConfig())

	if !hasKind(diags, KindUnknownSubscript) {
		t.Fatalf("expected UnknownSubscript, got %#v", diags)
	}
}

func TestCheckShapesWildcardAndCorrectDimensionAreClean(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Shapes</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <dimensions>
    <dim name="Region"><elem name="East"/><elem name="West"/></dim>
  </dimensions>
  <model>
    <variables>
      <aux name="Population">
        <eqn>0</eqn>
        <dimensions><dim name="Region"/></dimensions>
      </aux>
      <aux name="Total">
        <eqn>Population[*]</eqn>
        <dimensions><dim name="Region"/></dimensions>
      </aux>
      <aux name="EastOnly"><eqn>Population[East]</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileNoOwnershipChecks(t, doc, DefaultConfig())

	if hasKind(diags, KindShapeMismatch) || hasKind(diags, KindUnknownSubscript) {
		t.Fatalf("did not expect shape diagnostics, got %#v", diags)
	}
}

// TestCheckShapesIncompatibleArithmeticBroadcast exercises spec §4.7's
// arithmetic broadcast rule across a whole equation, not just a single
// subscripted reference: two variables declared over different dimensions
// combined with '+' can never broadcast against each other.
func TestCheckShapesIncompatibleArithmeticBroadcast(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Shapes</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <dimensions>
    <dim name="Region"><elem name="East"/><elem name="West"/></dim>
    <dim name="Season"><elem name="Summer"/><elem name="Winter"/></dim>
  </dimensions>
  <model>
    <variables>
      <aux name="ByRegion">
        <eqn>0</eqn>
        <dimensions><dim name="Region"/></dimensions>
      </aux>
      <aux name="BySeason">
        <eqn>0</eqn>
        <dimensions><dim name="Season"/></dimensions>
      </aux>
      <aux name="Combined"><eqn>ByRegion + BySeason</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileNoOwnershipChecks(t, doc, DefaultConfig())

	if !hasKind(diags, KindShapeMismatch) {
		t.Fatalf("expected ShapeMismatch from combining two incompatible array shapes, got %#v", diags)
	}
}

// TestCheckShapesScalarVariableFedArrayEquationMismatches exercises the
// declared-vs-inferred "Equation/variable compatibility" check: a
// scalar-declared variable whose equation evaluates to an array must be
// flagged, even though no single subscripted reference is malformed.
func TestCheckShapesScalarVariableFedArrayEquationMismatches(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Shapes</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <dimensions>
    <dim name="Region"><elem name="East"/><elem name="West"/></dim>
  </dimensions>
  <model>
    <variables>
      <aux name="Population">
        <eqn>0</eqn>
        <dimensions><dim name="Region"/></dimensions>
      </aux>
      <aux name="NotArrayed"><eqn>Population</eqn></aux>
    </variables>
  </model>
</xmile>`

	diags := compileNoOwnershipChecks(t, doc, DefaultConfig())

	if !hasKind(diags, KindShapeMismatch) {
		t.Fatalf("expected ShapeMismatch for a scalar variable fed an array-shaped equation, got %#v", diags)
	}
}
