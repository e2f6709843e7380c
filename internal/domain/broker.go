package domain

// BrokerCategory classifies a broker code by the kind of flow it carries.
type BrokerCategory string

const (
	CategoryRetail        BrokerCategory = "RETAIL"
	CategoryInstitutional BrokerCategory = "INSTITUTIONAL"
	CategoryForeign       BrokerCategory = "FOREIGN"
	CategoryMixed         BrokerCategory = "MIXED"
	CategoryUnknown       BrokerCategory = "UNKNOWN"
)

// CategorySet is the set of categories attached to one broker code.
// A nil or empty set behaves as {UNKNOWN}.
type CategorySet []BrokerCategory

// Has reports whether the set contains c. The empty set contains
// only CategoryUnknown.
func (s CategorySet) Has(c BrokerCategory) bool {
	if len(s) == 0 {
		return c == CategoryUnknown
	}
	for _, have := range s {
		if have == c {
			return true
		}
	}
	return false
}

// RetailLike reports whether the set intersects {RETAIL, MIXED}, the
// categories eligible for imposter attribution.
func (s CategorySet) RetailLike() bool {
	return s.Has(CategoryRetail) || s.Has(CategoryMixed)
}

// BrokerClassifier maps a broker code to its category set. Implementations
// must return {UNKNOWN} rather than failing for unrecognized codes.
type BrokerClassifier interface {
	Classify(code string) CategorySet
}

// StaticBrokerClassifier is an immutable, map-backed BrokerClassifier.
// Unlisted codes classify as {UNKNOWN}.
type StaticBrokerClassifier map[string]CategorySet

// Classify returns the category set for code, or {UNKNOWN} if unlisted.
func (c StaticBrokerClassifier) Classify(code string) CategorySet {
	if cats, ok := c[code]; ok && len(cats) > 0 {
		return cats
	}
	return CategorySet{CategoryUnknown}
}

// Compile-time interface check.
var _ BrokerClassifier = (StaticBrokerClassifier)(nil)
