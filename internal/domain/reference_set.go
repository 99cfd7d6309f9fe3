package domain

// ReferenceSet is an insertion-ordered set of references keyed by (URL, category).
type ReferenceSet struct {
	order []AssetKey
	refs  map[AssetKey]AssetReference
}

// NewReferenceSet builds an empty set.
func NewReferenceSet() *ReferenceSet {
	return &ReferenceSet{refs: map[AssetKey]AssetReference{}}
}

// Add inserts ref unless its key is already present. It reports whether ref was added.
func (s *ReferenceSet) Add(ref AssetReference) bool {
	if s.refs == nil {
		s.refs = map[AssetKey]AssetReference{}
	}
	key := ref.Key()
	if _, ok := s.refs[key]; ok {
		return false
	}
	s.refs[key] = ref
	s.order = append(s.order, key)
	return true
}

// Merge adds every reference of other, keeping existing entries.
func (s *ReferenceSet) Merge(other *ReferenceSet) {
	if other == nil {
		return
	}
	for _, ref := range other.Slice() {
		s.Add(ref)
	}
}

// Contains reports whether key is present.
func (s *ReferenceSet) Contains(key AssetKey) bool {
	if s == nil {
		return false
	}
	_, ok := s.refs[key]
	return ok
}

// Len returns the number of distinct references.
func (s *ReferenceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Slice returns the references in insertion order.
func (s *ReferenceSet) Slice() []AssetReference {
	if s == nil {
		return nil
	}
	out := make([]AssetReference, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.refs[key])
	}
	return out
}
