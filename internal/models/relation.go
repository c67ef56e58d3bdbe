// Package models defines the domain types for adrgraph.
package models

// ID identifies one decision record. It is the digit group of a
// "<marker>-<digits>" reference and is compared as an exact string.
type ID string

// RelationKind is a typed, directed reference from one record to another.
type RelationKind string

const (
	DependsOn    RelationKind = "depends_on"
	DependedBy   RelationKind = "depended_by"
	Supersedes   RelationKind = "supersedes"
	SupersededBy RelationKind = "superseded_by"
	Related      RelationKind = "related"
	Inherits     RelationKind = "inherits"
	InheritedBy  RelationKind = "inherited_by"
)

// Kinds lists every relation kind in canonical order. Reports and
// renderers iterate in this order.
var Kinds = []RelationKind{
	DependsOn,
	DependedBy,
	Supersedes,
	SupersededBy,
	Related,
	Inherits,
	InheritedBy,
}

type kindInfo struct {
	inverse RelationKind
	title   string
	verb    string
	expect  string // what the target has to declare back
}

var kindTable = map[RelationKind]kindInfo{
	DependsOn:    {inverse: DependedBy, title: "Depends On", verb: "depends on", expect: "being depended on by"},
	DependedBy:   {inverse: DependsOn, title: "Depended By", verb: "is depended on by", expect: "depending on"},
	Supersedes:   {inverse: SupersededBy, title: "Supersedes", verb: "supersedes", expect: "being superseded by"},
	SupersededBy: {inverse: Supersedes, title: "Superseded By", verb: "is superseded by", expect: "superseding"},
	Related:      {title: "Related", verb: "is related to"},
	Inherits:     {inverse: InheritedBy, title: "Inherits", verb: "inherits", expect: "being inherited by"},
	InheritedBy:  {inverse: Inherits, title: "Inherited By", verb: "is inherited by", expect: "inheriting"},
}

// IsValid reports whether k is one of the known kinds.
func (k RelationKind) IsValid() bool {
	_, ok := kindTable[k]
	return ok
}

// String returns the string representation of the kind.
func (k RelationKind) String() string {
	return string(k)
}

// Title returns the English display label, e.g. "Depends On".
func (k RelationKind) Title() string {
	return kindTable[k].title
}

// Verb returns the phrase used between two identifiers in messages.
func (k RelationKind) Verb() string {
	return kindTable[k].verb
}

// Inverse returns the paired kind and true, or "" and false for kinds
// without an inverse (Related).
func (k RelationKind) Inverse() (RelationKind, bool) {
	inv := kindTable[k].inverse
	return inv, inv != ""
}

// Expectation returns the phrase describing the declaration a target is
// missing, e.g. "being depended on by".
func (k RelationKind) Expectation() string {
	return kindTable[k].expect
}

// InversePair is an ordered (kind, inverse) pair that must be mirrored
// across two records.
type InversePair struct {
	Kind     RelationKind
	Inverse  RelationKind
	Severity Severity
}

// InversePairs lists every enforced ordered pair. Depends-on and supersedes
// drive dependency ordering and are errors; inherits is informational.
var InversePairs = []InversePair{
	{Kind: DependsOn, Inverse: DependedBy, Severity: SeverityError},
	{Kind: DependedBy, Inverse: DependsOn, Severity: SeverityError},
	{Kind: Supersedes, Inverse: SupersededBy, Severity: SeverityError},
	{Kind: SupersededBy, Inverse: Supersedes, Severity: SeverityError},
	{Kind: Inherits, Inverse: InheritedBy, Severity: SeverityWarning},
	{Kind: InheritedBy, Inverse: Inherits, Severity: SeverityWarning},
}
