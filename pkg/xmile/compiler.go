package xmile

import (
	"io"

	"github.com/xmile-tools/go-xmile/pkg/source"
)

// Compile runs the full L1-L9 pipeline over an XMILE document read from r:
// schema binding (L4, which folds in the L2 equation parser and L3 unit
// parser as it walks the XML), symbol-table construction and identifier
// resolution (L5/L6), dimension shape checking (L7), and cross-reference
// validation (L8). Every stage after binding runs even if an earlier stage
// reported diagnostics, so a single malformed variable never suppresses
// unrelated findings elsewhere in the document (spec §2). L9's error
// aggregation is source.Collector's span-sorted Diagnostics(), applied here
// once at the end.
//
// Grounded on go-corset's top-level Compile entry point
// (pkg/cmd/compile.go), which likewise threads one *source.Collector-style
// error sink through a fixed sequence of compiler passes and returns
// accumulated diagnostics rather than aborting on the first one.
func Compile(r io.Reader, filename string, cfg Config) (*Document, []source.Diagnostic) {
	diags := source.NewCollector()

	doc, err := bindDocument(r, cfg, diags, filename)
	if err != nil {
		return nil, diags.Diagnostics()
	}

	Resolve(doc, cfg, diags)
	CheckShapes(doc, cfg, diags, filename)
	CrossReference(doc, cfg, diags, filename)

	return doc, diags.Diagnostics()
}

// ParseDocument runs only L4 (schema binding, including the L2/L3 equation
// and unit parsers it invokes as it walks the XML) without symbol
// resolution or validation. Used by tooling that wants a structural view of
// a document — e.g. an editor's outline view — without paying for or
// reporting semantic diagnostics.
func ParseDocument(r io.Reader, filename string, cfg Config) (*Document, []source.Diagnostic) {
	diags := source.NewCollector()

	doc, _ := bindDocument(r, cfg, diags, filename)

	return doc, diags.Diagnostics()
}
