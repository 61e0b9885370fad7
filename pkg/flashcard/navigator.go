package flashcard

// Navigator is the flashcard cursor over a quiz list of Count items.
// It is a value type: transitions return the next state.
type Navigator struct {
	Index int `json:"index"`
	Count int `json:"count"`
}

// New returns a navigator positioned on the first card, or the empty state when count <= 0.
func New(count int) Navigator {
	if count < 0 {
		count = 0
	}
	return Navigator{Index: 0, Count: count}
}

// Reset moves back to the first card over a (possibly new) list size.
func (n Navigator) Reset(count int) Navigator {
	return New(count)
}

func (n Navigator) Empty() bool {
	return n.Count <= 0
}

func (n Navigator) CanNext() bool {
	return !n.Empty() && n.Index < n.Count-1
}

func (n Navigator) CanPrevious() bool {
	return !n.Empty() && n.Index > 0
}

// Next advances one card. At the last card, or when empty, it is a no-op.
func (n Navigator) Next() Navigator {
	if !n.CanNext() {
		return n.normalize()
	}
	return Navigator{Index: n.Index + 1, Count: n.Count}
}

// Previous goes back one card. At the first card, or when empty, it is a no-op.
func (n Navigator) Previous() Navigator {
	if !n.CanPrevious() {
		return n.normalize()
	}
	return Navigator{Index: n.Index - 1, Count: n.Count}
}

// Position is the 1-based card number for display, 0 when empty.
func (n Navigator) Position() int {
	if n.Empty() {
		return 0
	}
	return n.normalize().Index + 1
}

// normalize clamps states that were decoded from storage into the valid range.
func (n Navigator) normalize() Navigator {
	if n.Empty() {
		return Navigator{}
	}
	if n.Index < 0 {
		n.Index = 0
	}
	if n.Index > n.Count-1 {
		n.Index = n.Count - 1
	}
	return n
}
