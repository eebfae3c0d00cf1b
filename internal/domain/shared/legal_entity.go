package shared

import "strings"

// DefaultLegalEntities are the legal entities that own farm assets and debt
var DefaultLegalEntities = []string{"M77 AG", "McConnell Enterprises", "Kyle & Brandi McConnell"}

// LegalEntities is the fixed list of entity tags that records may carry.
// Tags are matched exactly after trimming surrounding space.
type LegalEntities struct {
	names []string
}

// NewLegalEntities creates the registry, falling back to DefaultLegalEntities when empty
func NewLegalEntities(names ...string) LegalEntities {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultLegalEntities...)
	}
	return LegalEntities{names: cleaned}
}

// Names returns the entity names in configured order
func (l LegalEntities) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Contains reports whether name is a known entity
func (l LegalEntities) Contains(name string) bool {
	name = strings.TrimSpace(name)
	for _, n := range l.names {
		if n == name {
			return true
		}
	}
	return false
}

// Validate returns a validation error for an unknown entity tag
func (l LegalEntities) Validate(name string) error {
	if l.Contains(name) {
		return nil
	}
	return NewValidationError("unknown entity %q, expected one of %s", name, strings.Join(l.names, ", "))
}
