package selection

// Set is a selection of address strings. It is a value: every operation
// returns a new Set and leaves the receiver unchanged, so a failed command
// can never leave a half-applied selection behind. Members keep the order in
// which they were first selected.
type Set struct {
	order   []string
	members map[string]struct{}
}

// New builds a set from addresses, ignoring repeats
func New(addresses ...string) Set {
	var s Set
	for _, a := range addresses {
		s = s.with(a)
	}
	return s
}

// Len returns the number of selected addresses
func (s Set) Len() int {
	return len(s.order)
}

// IsEmpty reports whether nothing is selected
func (s Set) IsEmpty() bool {
	return len(s.order) == 0
}

// Contains reports whether address is selected
func (s Set) Contains(address string) bool {
	_, ok := s.members[address]
	return ok
}

// Members returns the selected addresses in selection order
func (s Set) Members() []string {
	return append([]string(nil), s.order...)
}

// Equal reports whether both sets hold the same addresses, ignoring order
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, a := range s.order {
		if !o.Contains(a) {
			return false
		}
	}
	return true
}

// clone copies the set so the result can be extended without aliasing s
func (s Set) clone() Set {
	c := Set{
		order:   make([]string, len(s.order), len(s.order)+1),
		members: make(map[string]struct{}, len(s.order)+1),
	}
	copy(c.order, s.order)
	for _, a := range s.order {
		c.members[a] = struct{}{}
	}
	return c
}

// with appends address in place; only used on sets this package owns
func (s Set) with(address string) Set {
	if s.Contains(address) {
		return s
	}
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	s.members[address] = struct{}{}
	s.order = append(s.order, address)
	return s
}

func (s Set) without(drop map[string]struct{}) Set {
	var out Set
	for _, a := range s.order {
		if _, gone := drop[a]; gone {
			continue
		}
		out = out.with(a)
	}
	return out
}

// Toggle sets the membership of one address. changed is false when the
// address already had the desired membership.
func (s Set) Toggle(address string, selected bool) (next Set, changed bool) {
	if s.Contains(address) == selected {
		return s, false
	}
	if selected {
		return s.clone().with(address), true
	}
	return s.without(map[string]struct{}{address: {}}), true
}

// SelectAll adds every visible address that is not yet selected
func (s Set) SelectAll(visible []string) Set {
	next := s.clone()
	for _, a := range visible {
		next = next.with(a)
	}
	return next
}

// DeselectAll removes every visible address; others are untouched
func (s Set) DeselectAll(visible []string) Set {
	return s.without(toLookup(visible))
}

// Invert flips the membership of every visible address. Selected addresses
// outside visible survive in their original order, followed by the visible
// addresses that were not selected, in visible order.
func (s Set) Invert(visible []string) Set {
	vis := toLookup(visible)
	next := s.without(vis)
	for _, a := range visible {
		if !s.Contains(a) {
			next = next.with(a)
		}
	}
	return next
}

// Clear returns the empty selection
func (s Set) Clear() Set {
	return Set{}
}

func toLookup(addresses []string) map[string]struct{} {
	m := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		m[a] = struct{}{}
	}
	return m
}
