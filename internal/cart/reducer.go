package cart

// Kind names a cart mutation.
type Kind int

const (
	KindAddItem Kind = iota + 1
	KindRemoveItem
	KindUpdateQuantity
	KindRemoveLine
	KindUpdateLineQuantity
	KindClear
	KindReset
)

func (k Kind) String() string {
	switch k {
	case KindAddItem:
		return "add_item"
	case KindRemoveItem:
		return "remove_item"
	case KindUpdateQuantity:
		return "update_quantity"
	case KindRemoveLine:
		return "remove_line"
	case KindUpdateLineQuantity:
		return "update_line_quantity"
	case KindClear:
		return "clear"
	case KindReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Action is one mutation applied by Apply.
type Action struct {
	Kind     Kind
	Item     LineItem
	ID       string
	Key      string
	Quantity int
}

func AddItem(item LineItem) Action { return Action{Kind: KindAddItem, Item: item} }

func RemoveItem(id string) Action { return Action{Kind: KindRemoveItem, ID: id} }

func UpdateQuantity(id string, quantity int) Action {
	return Action{Kind: KindUpdateQuantity, ID: id, Quantity: quantity}
}

func RemoveLine(key string) Action { return Action{Kind: KindRemoveLine, Key: key} }

func UpdateLineQuantity(key string, quantity int) Action {
	return Action{Kind: KindUpdateLineQuantity, Key: key, Quantity: quantity}
}

func Clear() Action { return Action{Kind: KindClear} }

// Reset is Clear triggered by the end of the owning session.
func Reset() Action { return Action{Kind: KindReset} }

// Apply returns the state that results from applying a to s. It never
// modifies s. Actions that match nothing return s unchanged.
//
// Input is not validated: callers must not pass negative prices or a
// non-positive quantity to AddItem, and must bound quantities and prices
// so that totals stay inside int64.
func Apply(s State, a Action) State {
	switch a.Kind {
	case KindAddItem:
		return addItem(s, a.Item)
	case KindRemoveItem:
		return removeAt(s, s.indexOfID(a.ID))
	case KindUpdateQuantity:
		return setQuantityAt(s, s.indexOfID(a.ID), a.Quantity)
	case KindRemoveLine:
		return removeAt(s, s.indexOfKey(a.Key))
	case KindUpdateLineQuantity:
		return setQuantityAt(s, s.indexOfKey(a.Key), a.Quantity)
	case KindClear, KindReset:
		out := Empty()
		out.Version = s.Version + 1
		return out
	default:
		return s
	}
}

func addItem(s State, candidate LineItem) State {
	out := s.Clone()
	out.Version++
	if i := s.indexOfMatch(candidate); i >= 0 {
		// The matched line's own unit total keeps the totals equal to the
		// sum over lines even if the candidate carries a newer unit price.
		out.Items[i].Quantity += candidate.Quantity
		out.TotalItems += candidate.Quantity
		out.TotalPriceCents += int64(candidate.Quantity) * s.Items[i].UnitTotalCents()
		return out
	}
	out.Items = append(out.Items, candidate.clone())
	out.TotalItems += candidate.Quantity
	out.TotalPriceCents += candidate.SubtotalCents()
	return out
}

func removeAt(s State, i int) State {
	if i < 0 {
		return s
	}
	removed := s.Items[i]
	out := s.Clone()
	out.Version++
	out.Items = append(out.Items[:i], out.Items[i+1:]...)
	out.TotalItems -= removed.Quantity
	out.TotalPriceCents -= removed.SubtotalCents()
	return out
}

func setQuantityAt(s State, i, quantity int) State {
	if i < 0 {
		return s
	}
	if quantity <= 0 {
		return removeAt(s, i)
	}
	item := s.Items[i]
	delta := quantity - item.Quantity
	if delta == 0 {
		return s
	}
	out := s.Clone()
	out.Version++
	out.Items[i].Quantity = quantity
	out.TotalItems += delta
	out.TotalPriceCents += int64(delta) * item.UnitTotalCents()
	return out
}
