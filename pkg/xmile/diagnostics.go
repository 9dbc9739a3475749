package xmile

import "github.com/xmile-tools/go-xmile/pkg/source"

// Kind enumerates the diagnostic taxonomy of spec §7. Kept as a distinct
// string type (rather than an int) so that diagnostic kinds remain
// self-describing in logs and test failures without a String() switch.
type Kind string

// The full taxonomy from spec §7.
const (
	KindXMLMalformed           Kind = "XmlMalformed"
	KindSchemaViolation        Kind = "SchemaViolation"
	KindInvalidIdentifier      Kind = "InvalidIdentifier"
	KindDuplicateDefinition    Kind = "DuplicateDefinition"
	KindUnresolvedIdentifier   Kind = "UnresolvedIdentifier"
	KindCyclicDependency       Kind = "CyclicDependency"
	KindBuiltinArityMismatch   Kind = "BuiltinArityMismatch"
	KindBuiltinArgumentKind    Kind = "BuiltinArgumentKind"
	KindShapeMismatch          Kind = "ShapeMismatch"
	KindUnknownSubscript       Kind = "UnknownSubscript"
	KindDanglingFlowRef        Kind = "DanglingFlowRef"
	KindFlowOwnedTwice         Kind = "FlowOwnedTwice"
	KindUnitParseError         Kind = "UnitParseError"
	KindUnitInconsistency      Kind = "UnitInconsistency"
	KindExpressionSyntax       Kind = "ExpressionSyntax"
	KindExpressionDepthExceed  Kind = "ExpressionDepthExceeded"
	KindGfDomainError          Kind = "GfDomainError"
	KindGfArrayArgument        Kind = "GfArrayArgument"
	KindUnsupportedNamespace   Kind = "UnsupportedNamespace"
	KindMacroParamOrder        Kind = "MacroParamOrder"
)

// newDiagnostic constructs a source.Diagnostic for the given kind, defaulting
// to SeverityError. UnitInconsistency is the one kind spec §7 names as a
// warning; newDiagnostic downgrades it automatically so call sites never
// need to remember the exception.
func newDiagnostic(kind Kind, file string, primary source.Span, message string, related ...source.Related) source.Diagnostic {
	severity := source.SeverityError
	if kind == KindUnitInconsistency {
		severity = source.SeverityWarning
	}

	return source.Diagnostic{
		Kind:     string(kind),
		Message:  message,
		Primary:  primary,
		File:     file,
		Related:  related,
		Severity: severity,
	}
}
