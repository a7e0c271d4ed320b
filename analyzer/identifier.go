package analyzer

import "fmt"

// Registration ties an emitted record's mutable ID slot to the (kind, name,
// scopePath) triple it was built from, so CollisionResolver can find and
// rewrite it after the fact (spec §4.3).
type Registration struct {
	Slot      *string
	Kind      string
	Name      string
	ScopePath string
}

// IDGenerator produces stable identifiers of the form
// "KIND#name#scopePath[#discriminator]" (the semantic form) whenever a
// ScopeTracker is active, falling back to the legacy
// "KIND#name#file#line:col:counter" form only when no scope context exists
// (spec §4.3, §6.5). Per the REDESIGN FLAGS in spec §9, the semantic path
// is always preferred in this core; legacy stays only for the literal
// strings quoted in the GLOSSARY/spec and for records built before a scope
// exists (e.g. nothing should ever hit it in practice here, but it remains
// available for completeness).
type IDGenerator struct {
	regs []*Registration
}

// NewIDGenerator returns an empty generator for one module's traversal.
func NewIDGenerator() *IDGenerator { return &IDGenerator{} }

// Semantic builds the preferred ID form and registers it so a later
// collision pass can disambiguate it. slot is the record field that holds
// the ID; it is rewritten in place if a collision is found.
func (g *IDGenerator) Semantic(slot *string, kind, name, scopePath string) string {
	id := fmt.Sprintf("%s#%s#%s", kind, name, scopePath)
	*slot = id
	g.regs = append(g.regs, &Registration{Slot: slot, Kind: kind, Name: name, ScopePath: scopePath})
	return id
}

// Legacy builds the fallback ID form used when no scope context is
// available. It is not registered for collision resolution: legacy ids
// already carry a file-position counter that makes them unique by
// construction.
func (g *IDGenerator) Legacy(file, kind, name string, line, column, counter int) string {
	return fmt.Sprintf("%s#%s#%s#%d:%d:%d", kind, name, file, line, column, counter)
}

// Expression builds the coordinate-based EXPRESSION id form (spec §6.5).
func Expression(file, astKind string, line, column int) string {
	return fmt.Sprintf("%s:EXPRESSION:%s:%d:%d", file, astKind, line, column)
}

// ConstructorCall builds the coordinate-based CONSTRUCTOR_CALL id form
// (spec §6.5).
func ConstructorCall(file, className string, line, column int) string {
	return fmt.Sprintf("%s:CONSTRUCTOR_CALL:%s:%d:%d", file, className, line, column)
}

// CollisionResolver disambiguates identical semantic IDs produced during
// one module's traversal by appending a stable per-scope discriminator to
// all but the first registrant (spec §4.3, invariant 1 in spec §3).
type CollisionResolver struct{}

// Resolve walks regs in emission order, grouping by their current ID value,
// and rewrites every slot after the first in each group by appending
// "#<n>". It is idempotent: running it again over already-resolved (now
// distinct) IDs is a no-op, since no two slots collide anymore (spec §8's
// "Collision resolution is idempotent" round-trip law).
func (CollisionResolver) Resolve(regs []*Registration) {
	seen := map[string]int{}
	for _, r := range regs {
		base := *r.Slot
		seen[base]++
		if n := seen[base]; n > 1 {
			*r.Slot = fmt.Sprintf("%s#%d", base, n)
		}
	}
}
