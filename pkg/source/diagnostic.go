package source

import "fmt"

// Severity classifies how a Diagnostic should affect the caller's decision
// to proceed with a resolved document.
type Severity uint8

const (
	// SeverityError marks a diagnostic that makes the document invalid.
	SeverityError Severity = iota
	// SeverityWarning marks an advisory diagnostic that does not, by
	// itself, invalidate the document (e.g. UnitInconsistency).
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}

	return "error"
}

// Related is a secondary span attached to a Diagnostic, e.g. the other
// declaration site of a DuplicateDefinition.
type Related struct {
	Span    Span
	Message string
}

// Diagnostic is a single structured finding produced by any pipeline stage
// from L4 onward. Diagnostics never halt the pipeline (spec §4.9); they
// accumulate in a Collector and are reported once, in document order.
type Diagnostic struct {
	// Kind is a stage-defined tag (e.g. "DuplicateDefinition"). Kept as a
	// string here so pkg/source has no dependency on pkg/xmile's kind
	// enumeration; pkg/xmile wraps this with a typed Kind constant.
	Kind string
	// Message is the human-readable, already-formatted diagnostic text.
	Message string
	// Primary is the main span this diagnostic is anchored to.
	Primary Span
	// File names the source file the primary span belongs to, empty if
	// the diagnostic originates from equation text without an enclosing
	// file (e.g. unit tests exercising the expression parser directly).
	File string
	// Related lists zero or more secondary spans that aid diagnosis.
	Related []Related
	// Severity distinguishes hard errors from advisory warnings.
	Severity Severity
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped anywhere Go code expects one.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.File, d.Primary, d.Kind, d.Message)
}

// Collector accumulates diagnostics across all pipeline stages from L4
// onward. Unlike a fatal error, nothing here stops later stages from
// running; the pipeline itself decides, at the very end, whether zero
// diagnostics of SeverityError means the document is valid.
type Collector struct {
	diagnostics []Diagnostic
}

// NewCollector constructs an empty diagnostic collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a diagnostic to the collector.
func (c *Collector) Add(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns all diagnostics collected so far, sorted by primary
// span so that reporting order is deterministic regardless of the order in
// which pipeline stages happened to visit declarations (spec §5: "must
// present deterministic diagnostic order").
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	stableSortBySpan(out)

	return out
}

// HasErrors reports whether any collected diagnostic is of SeverityError.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

func stableSortBySpan(ds []Diagnostic) {
	// Insertion sort: diagnostic volumes are small (tens to low hundreds
	// per document) and stability matters more than asymptotic
	// complexity here.
	for i := 1; i < len(ds); i++ {
		j := i
		for j > 0 && ds[j-1].Primary.Start() > ds[j].Primary.Start() {
			ds[j-1], ds[j] = ds[j], ds[j-1]
			j--
		}
	}
}
