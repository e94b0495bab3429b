package ast

// Axis describes one PLURAL/GENDER selector index shared by one or more
// sites in a message.
type Axis struct {
	Index uint
	Kind  VariableKind
	// Sites are the PluralNode/GenderNode values that select on this axis,
	// in the order they were discovered by Collect.
	Sites []Node
}

// Collect walks the message and returns the set of axes it references (one
// entry per distinct placeholder index used as a PLURAL/GENDER selector),
// in order of first appearance. It returns an error if two sites disagree on
// the kind (PLURAL vs GENDER) of the same axis.
func Collect(m Message) ([]*Axis, error) {
	var order []*Axis
	byIndex := make(map[uint]*Axis)

	var walk func(Message) error
	walk = func(msg Message) error {
		for _, node := range msg {
			switch n := node.(type) {
			case *PluralNode:
				if err := bind(byIndex, &order, n.Selector, KindPlural, n); err != nil {
					return err
				}
				for _, form := range n.Forms {
					if err := walk(form); err != nil {
						return err
					}
				}
			case *GenderNode:
				if err := bind(byIndex, &order, n.Selector, KindGender, n); err != nil {
					return err
				}
				for _, form := range n.Forms {
					if err := walk(form); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
	if err := walk(m); err != nil {
		return nil, err
	}
	return order, nil
}

func bind(byIndex map[uint]*Axis, order *[]*Axis, sel Selector, kind VariableKind, site Node) error {
	idx, ok := sel.AxisIndex()
	if !ok {
		return nil // literal selector: no axis bound
	}
	a, exists := byIndex[idx]
	if !exists {
		a = &Axis{Index: idx, Kind: kind}
		byIndex[idx] = a
		*order = append(*order, a)
	} else if a.Kind != kind {
		return &KindMismatchError{Index: idx, First: a.Kind, Second: kind}
	}
	a.Sites = append(a.Sites, site)
	return nil
}

// KindMismatchError is returned by Collect when two PLURAL/GENDER sites
// share a selector index but disagree about which magic word it belongs to.
type KindMismatchError struct {
	Index  uint
	First  VariableKind
	Second VariableKind
}

func (e *KindMismatchError) Error() string {
	return "placeholder $" + itoa(e.Index) + " is used as both " + e.First.String() + " and " + e.Second.String() + " selector"
}

func itoa(u uint) string {
	if u == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
	}
	return string(buf[i:])
}

// OutputPlaceholderIndices returns every placeholder index that appears as
// a literal PlaceholderNode somewhere in m — i.e. one that will actually be
// rendered into a variant's source text and therefore needs an anchor. A
// placeholder used only as a PLURAL/GENDER selector (never echoed in any
// form body) is a "control" placeholder and is excluded, since expansion
// consumes it entirely and no variant ever needs to protect it with an
// anchor. Order is first-appearance, duplicates removed.
func OutputPlaceholderIndices(m Message) []uint {
	var order []uint
	seen := make(map[uint]bool)
	var walk func(Message)
	walk = func(msg Message) {
		for _, node := range msg {
			switch n := node.(type) {
			case *PlaceholderNode:
				if !seen[n.Index] {
					seen[n.Index] = true
					order = append(order, n.Index)
				}
			case *PluralNode:
				for _, f := range n.Forms {
					walk(f)
				}
			case *GenderNode:
				for _, f := range n.Forms {
					walk(f)
				}
			}
		}
	}
	walk(m)
	return order
}
