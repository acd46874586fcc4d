// Package cart implements the shopping-cart aggregation engine: line items
// with optional add-ons, and running totals kept equal to the sum over the
// lines under every mutation.
package cart

import (
	"sort"
	"strconv"
	"strings"
)

// AddOn is a priced extra attached to a line item.
type AddOn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// LineItem is one product plus a specific add-on selection and a quantity.
// ID is the product id and is not unique across the cart.
type LineItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Image          string  `json:"image,omitempty"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	Quantity       int     `json:"quantity"`
	AddOns         []AddOn `json:"addons,omitempty"`
	RestaurantID   string  `json:"restaurantId,omitempty"`
}

// AddOnsCents is the sum of the selected add-on prices.
func (l LineItem) AddOnsCents() int64 {
	var sum int64
	for _, a := range l.AddOns {
		sum += a.PriceCents
	}
	return sum
}

// UnitTotalCents is the price of one unit including add-ons.
func (l LineItem) UnitTotalCents() int64 {
	return l.UnitPriceCents + l.AddOnsCents()
}

// SubtotalCents is the line's contribution to the cart total.
func (l LineItem) SubtotalCents() int64 {
	return int64(l.Quantity) * l.UnitTotalCents()
}

// Key identifies a line by product id and add-on selection. Two lines with
// equal keys are merged by AddItem. The add-on part is order-insensitive.
func (l LineItem) Key() string {
	return l.ID + "|" + addOnSignature(l.AddOns)
}

func addOnSignature(addOns []AddOn) string {
	if len(addOns) == 0 {
		return ""
	}
	parts := make([]string, 0, len(addOns))
	for _, a := range addOns {
		parts = append(parts, a.ID+":"+strconv.FormatInt(a.PriceCents, 10))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// SameAddOns reports whether a and b hold the same add-ons, compared by id
// and price regardless of order.
func SameAddOns(a, b []AddOn) bool {
	if len(a) != len(b) {
		return false
	}
	return addOnSignature(a) == addOnSignature(b)
}

func (l LineItem) clone() LineItem {
	out := l
	if l.AddOns != nil {
		out.AddOns = append([]AddOn(nil), l.AddOns...)
	}
	return out
}

// State is the cart plus its derived totals. Version increases with every
// mutation that changes the state.
type State struct {
	Items           []LineItem `json:"items"`
	TotalItems      int        `json:"totalItems"`
	TotalPriceCents int64      `json:"totalPriceCents"`
	Version         uint64     `json:"version"`
}

// Empty returns the initial cart.
func Empty() State {
	return State{Items: []LineItem{}}
}

// Clone returns a deep copy sharing no slices with s.
func (s State) Clone() State {
	out := s
	out.Items = make([]LineItem, len(s.Items))
	for i, item := range s.Items {
		out.Items[i] = item.clone()
	}
	return out
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Line returns the line with the given key.
func (s State) Line(key string) (LineItem, bool) {
	if i := s.indexOfKey(key); i >= 0 {
		return s.Items[i].clone(), true
	}
	return LineItem{}, false
}

// Match returns the line that AddItem would merge candidate into.
func (s State) Match(candidate LineItem) (LineItem, bool) {
	if i := s.indexOfMatch(candidate); i >= 0 {
		return s.Items[i].clone(), true
	}
	return LineItem{}, false
}

func (s State) indexOfID(id string) int {
	for i, item := range s.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s State) indexOfKey(key string) int {
	for i, item := range s.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (s State) indexOfMatch(candidate LineItem) int {
	for i, item := range s.Items {
		if item.ID == candidate.ID && SameAddOns(item.AddOns, candidate.AddOns) {
			return i
		}
	}
	return -1
}

// FromItems rebuilds a cart by adding each item in order, so the totals are
// derived rather than trusted from the caller.
func FromItems(items []LineItem) State {
	s := Empty()
	for _, item := range items {
		s = Apply(s, AddItem(item))
	}
	return s
}
