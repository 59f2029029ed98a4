package body

// Group is a collision group number. Group 0 is the default for every body.
type Group uint32

type groupPair struct{ a, b Group }

func orderedPair(a, b Group) groupPair {
	if a > b {
		a, b = b, a
	}
	return groupPair{a, b}
}

// GroupFilter lists pairs of groups that never collide. The zero value
// lets everything collide.
type GroupFilter struct {
	disabled map[groupPair]struct{}
}

// Disable stops bodies of groups a and b from colliding. a may equal b.
func (f *GroupFilter) Disable(a, b Group) {
	if f.disabled == nil {
		f.disabled = make(map[groupPair]struct{})
	}
	f.disabled[orderedPair(a, b)] = struct{}{}
}

// Enable undoes Disable.
func (f *GroupFilter) Enable(a, b Group) {
	delete(f.disabled, orderedPair(a, b))
}

// Allows reports whether bodies in groups a and b may collide.
func (f *GroupFilter) Allows(a, b Group) bool {
	if f == nil || len(f.disabled) == 0 {
		return true
	}
	_, off := f.disabled[orderedPair(a, b)]
	return !off
}

// AllowsBodies is Allows for two bodies.
func (f *GroupFilter) AllowsBodies(a, b *Body) bool {
	return f.Allows(a.group, b.group)
}
