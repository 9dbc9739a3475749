package xmile

import (
	"strings"
	"testing"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

func TestCompileTeacupHasNoErrors(t *testing.T) {
	_, diags := Compile(strings.NewReader(teacupXML), "teacup.xmile", DefaultConfig())

	for _, d := range diags {
		if d.Severity == source.SeverityError {
			t.Fatalf("expected the teacup model to compile cleanly, got %#v", d)
		}
	}
}

func TestCompileDigitLeadingIdentifierFails(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>BadName</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <aux name="1st Place"><eqn>1</eqn></aux>
    </variables>
  </model>
</xmile>`

	_, diags := Compile(strings.NewReader(doc), "bad-name.xmile", DefaultConfig())

	if !hasKind(diags, KindInvalidIdentifier) {
		t.Fatalf("expected InvalidIdentifier for a digit-leading name, got %#v", diags)
	}
}

func TestCompileMaxEquationDepthExceededAtDocumentLevel(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>DeepNest</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <aux name="Deep"><eqn>(((((1)))))</eqn></aux>
    </variables>
  </model>
</xmile>`

	cfg := DefaultConfig()
	cfg.MaxEquationDepth = 3

	_, diags := Compile(strings.NewReader(doc), "deep.xmile", cfg)

	if !hasKind(diags, KindExpressionDepthExceed) {
		t.Fatalf("expected ExpressionDepthExceeded, got %#v", diags)
	}
}

func TestParseDocumentSkipsSemanticValidation(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<xmile version="1.0">
  <header><name>Loose</name></header>
  <sim_specs><start>0</start><stop>1</stop><dt>1</dt></sim_specs>
  <model>
    <variables>
      <aux name="Orphan"><eqn>Nowhere_To_Be_Found</eqn></aux>
    </variables>
  </model>
</xmile>`

	d, diags := ParseDocument(strings.NewReader(doc), "loose.xmile", DefaultConfig())

	if d == nil {
		t.Fatalf("expected a bound document even with an unresolved reference")
	}

	if hasKind(diags, KindUnresolvedIdentifier) {
		t.Fatalf("ParseDocument should not run resolution, got %#v", diags)
	}
}
