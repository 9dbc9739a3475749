package xmile

// Behavior models one <behavior> block (spec's SUPPLEMENTED FEATURES:
// behavior cascade), grounded on
// _examples/original_source/src/behavior/mod.rs. That original left the
// type as a bare skeleton with a `TODO: This is too vague for me to
// understand how to implement properly right now` — the cascade rule itself
// is spelled out in the XMILE prose the original kept as a doc comment
// above it ("cascades across four levels from the entity outwards..."),
// which this repo implements: a document-wide block, overridden by a
// per-model block, overridden by an explicit per-entity setting.
type Behavior struct {
	Entries []BehaviorEntry
}

// BehaviorEntry sets one or more BehaviorProperty defaults for either every
// entity in the enclosing block's scope (Entity == "") or one entity kind
// ("stock", "flow").
type BehaviorEntry struct {
	Entity     string
	Properties []BehaviorProperty
}

// BehaviorProperty enumerates the behavior defaults this repo interprets.
// The XMILE behavior section allows arbitrary vendor-defined properties
// beneath <behavior>; only non_negative is given semantics here, since it is
// the only one spec.md's data model (Stock.NonNegative, Flow.NonNegative)
// has a field to carry.
type BehaviorProperty int

const (
	BehaviorNonNegative BehaviorProperty = iota
)

// hasNonNegative reports whether b sets the non_negative default for the
// given entity kind, either directly (Entity == entity) or globally
// (Entity == "").
func (b *Behavior) hasNonNegative(entity string) bool {
	if b == nil {
		return false
	}

	for _, e := range b.Entries {
		if e.Entity != "" && e.Entity != entity {
			continue
		}

		for _, p := range e.Properties {
			if p == BehaviorNonNegative {
				return true
			}
		}
	}

	return false
}

// behaviorCascade resolves one entity's non_negative default across the
// four levels spec's behavior cascade names: an explicit per-entity setting
// wins outright; otherwise the nearest enclosing block (model, then
// document) that sets it wins; absent all three, the XMILE default is
// false.
type behaviorCascade struct {
	doc   *Behavior
	model *Behavior
}

func (c behaviorCascade) nonNegative(entity string, explicit bool) bool {
	if explicit {
		return true
	}

	return c.model.hasNonNegative(entity) || c.doc.hasNonNegative(entity)
}
