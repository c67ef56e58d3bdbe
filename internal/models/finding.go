package models

// Severity tags a finding. Only errors affect the verdict.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check names the component that produced a finding.
type Check string

const (
	CheckScan        Check = "scan"
	CheckConsistency Check = "consistency"
	CheckCycles      Check = "cycles"
	CheckOrphans     Check = "orphans"
)

// Finding is one reported inconsistency.
type Finding struct {
	Severity Severity       `json:"severity"`
	Check    Check          `json:"check"`
	Source   ID             `json:"source,omitempty"`
	Kind     RelationKind   `json:"kind,omitempty"`
	Kinds    []RelationKind `json:"kinds,omitempty"`
	Target   ID             `json:"target,omitempty"`
	Path     []ID           `json:"path,omitempty"`
	File     string         `json:"file,omitempty"`
	Message  string         `json:"message"`
}

// DocumentMeta describes one candidate file found under the corpus root.
type DocumentMeta struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}
