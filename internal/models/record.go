package models

import "sort"

// Record holds the relationships one document declares, keyed by kind.
// Targets may name identifiers that do not exist in the corpus, and may
// name the owning record itself.
type Record struct {
	ID   ID
	Path string

	targets map[RelationKind]map[ID]struct{}
}

// NewRecord returns an empty record for id.
func NewRecord(id ID, path string) *Record {
	return &Record{
		ID:      id,
		Path:    path,
		targets: make(map[RelationKind]map[ID]struct{}),
	}
}

// Add records target under kind. Duplicates collapse.
func (r *Record) Add(kind RelationKind, target ID) {
	set, ok := r.targets[kind]
	if !ok {
		set = make(map[ID]struct{})
		r.targets[kind] = set
	}
	set[target] = struct{}{}
}

// Has reports whether target is declared under kind.
func (r *Record) Has(kind RelationKind, target ID) bool {
	_, ok := r.targets[kind][target]
	return ok
}

// Targets returns the targets declared under kind in ascending order.
func (r *Record) Targets(kind RelationKind) []ID {
	set := r.targets[kind]
	out := make([]ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the number of distinct targets declared under kind.
func (r *Record) Count(kind RelationKind) int {
	return len(r.targets[kind])
}

// Empty reports whether the record declares no relationship of any kind.
func (r *Record) Empty() bool {
	for _, set := range r.targets {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// SelfReferences returns the kinds under which the record names itself.
// Self references are not reported as findings.
func (r *Record) SelfReferences() []RelationKind {
	var out []RelationKind
	for _, k := range Kinds {
		if r.Has(k, r.ID) {
			out = append(out, k)
		}
	}
	return out
}
