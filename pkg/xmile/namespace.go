package xmile

import "strings"

// Namespace is the qualifier on a dotted identifier or call name (spec §4.2
// "dotted form A.B"), grounded on
// _examples/original_source/src/namespace.rs's Namespace enum (XMILE
// §3.2.2.3). The Rust original models this as an enum with a catch-all
// Other(String) variant; a defined string type serves the same purpose in Go
// without needing a type switch at every call site.
type Namespace string

const (
	// NamespaceNone marks an identifier or call with no dot-qualification.
	NamespaceNone Namespace = ""
	// NamespaceStd holds all XMILE statement and function identifiers.
	NamespaceStd Namespace = "std"
	// NamespaceUser holds user-defined function and macro names.
	NamespaceUser Namespace = "user"

	NamespaceAnylogic     Namespace = "anylogic"
	NamespaceForio        Namespace = "forio"
	NamespaceInsightmaker Namespace = "insightmaker"
	NamespaceIsee         Namespace = "isee"
	NamespacePowersim     Namespace = "powersim"
	NamespaceSimanticssd  Namespace = "simanticssd"
	NamespaceSimile       Namespace = "simile"
	NamespaceSysdea       Namespace = "sysdea"
	NamespaceVensim       Namespace = "vensim"
)

// vendorNamespaces is every namespace XMILE §3.2.2.3 reserves for one
// specific System Dynamics tool, as opposed to std or user.
var vendorNamespaces = map[Namespace]bool{
	NamespaceAnylogic:     true,
	NamespaceForio:        true,
	NamespaceInsightmaker: true,
	NamespaceIsee:         true,
	NamespacePowersim:     true,
	NamespaceSimanticssd:  true,
	NamespaceSimile:       true,
	NamespaceSysdea:       true,
	NamespaceVensim:       true,
}

// ParseNamespace normalizes s to lower-case (namespace.rs's Namespace::from_part
// matches "std", "STD", "Std", etc. identically). A value outside the eleven
// predefined namespaces still round-trips through IsPredefined/IsVendor as
// false, standing in for the Rust original's Other(String) variant.
func ParseNamespace(s string) Namespace {
	return Namespace(strings.ToLower(s))
}

// IsPredefined reports whether ns is one of the eleven namespaces XMILE
// itself defines, as opposed to an unrecognized vendor/user sub-namespace.
func (ns Namespace) IsPredefined() bool {
	return ns == NamespaceStd || ns == NamespaceUser || vendorNamespaces[ns]
}

// IsVendor reports whether ns is reserved for a specific System Dynamics
// tool rather than std or user (namespace.rs's Namespace::is_vendor).
func (ns Namespace) IsVendor() bool {
	return vendorNamespaces[ns]
}

// splitNamespace splits a raw, pre-canonicalization dotted name of the form
// "ns.rest" into its namespace and unqualified remainder. A name with no dot
// carries no namespace at all.
func splitNamespace(raw string) (Namespace, string) {
	i := strings.IndexByte(raw, '.')
	if i < 0 {
		return NamespaceNone, raw
	}

	return ParseNamespace(raw[:i]), raw[i+1:]
}
