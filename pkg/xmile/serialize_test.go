package xmile

import (
	"strings"
	"testing"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

// TestMarshalTeacupRoundTrips is the round-trip check
// _examples/original_source/tests/round_trip.rs performs on the Rust
// original's own serializer: parse, marshal back to XML, re-parse the
// output, and confirm the second document is semantically identical to the
// first.
func TestMarshalTeacupRoundTrips(t *testing.T) {
	first, diags := Compile(strings.NewReader(teacupXML), "teacup.xmile", DefaultConfig())
	if hasErrors(diags) {
		t.Fatalf("unexpected diagnostics compiling the fixture: %#v", diags)
	}

	out, err := Marshal(first)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	second, diags := Compile(strings.NewReader(string(out)), "teacup-roundtrip.xmile", DefaultConfig())
	if hasErrors(diags) {
		t.Fatalf("re-parsing the marshaled document produced diagnostics: %#v\n%s", diags, out)
	}

	if second.Header.Name != first.Header.Name {
		t.Fatalf("header name did not round-trip: got %q, want %q", second.Header.Name, first.Header.Name)
	}

	if second.SimSpecs != first.SimSpecs {
		t.Fatalf("sim_specs did not round-trip: got %#v, want %#v", second.SimSpecs, first.SimSpecs)
	}

	if len(second.Models) != len(first.Models) {
		t.Fatalf("model count did not round-trip: got %d, want %d", len(second.Models), len(first.Models))
	}

	firstModel, secondModel := first.Models[0], second.Models[0]
	if len(secondModel.Variables) != len(firstModel.Variables) {
		t.Fatalf("variable count did not round-trip: got %d, want %d", len(secondModel.Variables), len(firstModel.Variables))
	}

	stock, ok := secondModel.Variables[0].(*Stock)
	if !ok {
		t.Fatalf("expected first variable to remain a Stock, got %#v", secondModel.Variables[0])
	}

	if stock.Name.Display != "Teacup Temperature" {
		t.Fatalf("stock name did not round-trip: got %q", stock.Name.Display)
	}

	if len(stock.Inflows) != 1 || stock.Inflows[0].Display != "Heat Loss to Room" {
		t.Fatalf("stock inflow did not round-trip: got %#v", stock.Inflows)
	}

	if stock.UnitsExpr == nil {
		t.Fatalf("stock units did not round-trip")
	}
}

// TestMarshalPreservesBehaviorCascade checks that a document-level
// <behavior><non_negative/></behavior> block round-trips: it must still
// apply to every stock in the re-parsed document even though nothing on the
// stock itself set non_negative.
func TestMarshalPreservesBehaviorCascade(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Cascade</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <behavior><non_negative/></behavior>
  <model>
    <variables>
      <stock name="Level"><eqn>0</eqn></stock>
    </variables>
  </model>
</xmile>`

	first, diags := Compile(strings.NewReader(doc), "cascade.xmile", DefaultConfig())
	if hasErrors(diags) {
		t.Fatalf("unexpected diagnostics: %#v", diags)
	}

	out, err := Marshal(first)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	second, diags := Compile(strings.NewReader(string(out)), "cascade-roundtrip.xmile", DefaultConfig())
	if hasErrors(diags) {
		t.Fatalf("re-parsing produced diagnostics: %#v\n%s", diags, out)
	}

	stock := second.Models[0].Variables[0].(*Stock)
	if !stock.NonNegative {
		t.Fatalf("expected the document-level non_negative cascade to survive round-tripping")
	}
}

// TestMarshalPreservesNamespaceQualifiedCall checks that a dotted builtin
// call keeps its namespace qualifier across a round trip.
func TestMarshalPreservesNamespaceQualifiedCall(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Namespaced</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <aux name="A"><eqn>std.abs(-1)</eqn></aux>
    </variables>
  </model>
</xmile>`

	first, diags := Compile(strings.NewReader(doc), "ns.xmile", DefaultConfig())
	if hasErrors(diags) {
		t.Fatalf("unexpected diagnostics: %#v", diags)
	}

	out, err := Marshal(first)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	if !strings.Contains(string(out), "std.ABS") && !strings.Contains(string(out), "std.abs") {
		t.Fatalf("expected the namespace qualifier to survive marshaling, got:\n%s", out)
	}
}

func hasErrors(diags []source.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == source.SeverityError {
			return true
		}
	}

	return false
}
