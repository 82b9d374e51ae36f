package variant

// pair is one (name, value) entry in an Arguments sequence.
type pair struct {
	name  string
	value Variant
}

// Arguments is an ordered sequence of (name, Variant) pairs that allows
// duplicate names. Insertion order is always preserved; a missing name
// resolves to the null Variant rather than an error, which the CLI
// engine's value lookups depend on.
type Arguments struct {
	pairs []pair
}

// New returns an empty Arguments sequence.
func New() *Arguments {
	return &Arguments{}
}

// Append adds a (name, value) pair, regardless of whether name already
// exists.
func (a *Arguments) Append(name string, value Variant) {
	a.pairs = append(a.pairs, pair{name: name, value: value})
}

// SetFirst overwrites the first pair named name, or appends one if none
// exists.
func (a *Arguments) SetFirst(name string, value Variant) {
	for i := range a.pairs {
		if a.pairs[i].name == name {
			a.pairs[i].value = value
			return
		}
	}
	a.Append(name, value)
}

// GetFirst returns the first value bound to name, or the null Variant if
// name is absent.
func (a *Arguments) GetFirst(name string) Variant {
	for _, p := range a.pairs {
		if p.name == name {
			return p.value
		}
	}
	return Null()
}

// Has reports whether any pair is bound to name.
func (a *Arguments) Has(name string) bool {
	for _, p := range a.pairs {
		if p.name == name {
			return true
		}
	}
	return false
}

// FindArgument returns the k-th (0-based) pair whose name equals name, in
// insertion order, and whether it was found.
func (a *Arguments) FindArgument(name string, k int) (Variant, bool) {
	count := 0
	for _, p := range a.pairs {
		if p.name == name {
			if count == k {
				return p.value, true
			}
			count++
		}
	}
	return Null(), false
}

// GetAll returns every value bound to name, in insertion order.
func (a *Arguments) GetAll(name string) []Variant {
	var out []Variant
	for _, p := range a.pairs {
		if p.name == name {
			out = append(out, p.value)
		}
	}
	return out
}

// Names returns every distinct name in first-seen order.
func (a *Arguments) Names() []string {
	seen := make(map[string]bool, len(a.pairs))
	out := make([]string, 0, len(a.pairs))
	for _, p := range a.pairs {
		if !seen[p.name] {
			seen[p.name] = true
			out = append(out, p.name)
		}
	}
	return out
}

// Len returns the total number of pairs, counting duplicates.
func (a *Arguments) Len() int { return len(a.pairs) }

// Each visits every (name, value) pair in insertion order.
func (a *Arguments) Each(fn func(name string, value Variant)) {
	for _, p := range a.pairs {
		fn(p.name, p.value)
	}
}

// RemoveByName deletes every pair bound to name and reports how many were
// removed.
func (a *Arguments) RemoveByName(name string) int {
	kept := a.pairs[:0]
	removed := 0
	for _, p := range a.pairs {
		if p.name == name {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	a.pairs = kept
	return removed
}

// Merge appends every pair of other onto a, preserving other's internal
// order.
func (a *Arguments) Merge(other *Arguments) {
	if other == nil {
		return
	}
	a.pairs = append(a.pairs, other.pairs...)
}

// Clone returns a deep copy (the pairs slice is copied; Variant values are
// themselves immutable value types).
func (a *Arguments) Clone() *Arguments {
	out := &Arguments{pairs: make([]pair, len(a.pairs))}
	copy(out.pairs, a.pairs)
	return out
}
