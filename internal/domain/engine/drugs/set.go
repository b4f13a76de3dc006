package drugs

import "github.com/neuroped/cds/internal/domain/patient"

// Set is the resolved, de-duplicated list of administered agents. Input
// order is kept so rule output stays deterministic.
type Set struct {
	profiles []Profile
	names    map[string]bool
}

// NewSet resolves every drug through the catalogue.
func NewSet(list []patient.Drug) Set {
	s := Set{names: make(map[string]bool, len(list))}
	for _, d := range list {
		p := Lookup(d)
		if s.names[p.Name] {
			continue
		}
		s.names[p.Name] = true
		s.profiles = append(s.profiles, p)
	}
	return s
}

// Len is the number of distinct agents.
func (s Set) Len() int { return len(s.profiles) }

// Has reports whether the canonical name is present.
func (s Set) Has(name string) bool { return s.names[Normalize(name)] }

// HasAny reports whether any of the names is present.
func (s Set) HasAny(names ...string) bool {
	for _, n := range names {
		if s.Has(n) {
			return true
		}
	}
	return false
}

// HasClass reports whether any agent belongs to class c.
func (s Set) HasClass(c Class) bool {
	return s.Count(func(p Profile) bool { return p.Class == c }) > 0
}

// Count returns how many agents satisfy pred.
func (s Set) Count(pred func(Profile) bool) int {
	n := 0
	for _, p := range s.profiles {
		if pred(p) {
			n++
		}
	}
	return n
}

// LineGiven reports whether an agent of the given therapeutic line is present.
func (s Set) LineGiven(line int) bool {
	return s.Count(func(p Profile) bool { return p.Line == line }) > 0
}

// Names returns the canonical names in input order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Name)
	}
	return out
}
