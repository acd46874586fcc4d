package cart

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func item(id string, unit int64, qty int, addOns ...AddOn) LineItem {
	return LineItem{ID: id, Name: "Item " + id, UnitPriceCents: unit, Quantity: qty, AddOns: addOns}
}

func addOn(id string, price int64) AddOn {
	return AddOn{ID: id, Name: "Add-on " + id, PriceCents: price}
}

func assertTotals(t *testing.T, s State) {
	t.Helper()
	if err := checkTotals(s); err != nil {
		t.Fatal(err)
	}
}

func checkTotals(s State) error {
	var qty int
	var price int64
	for _, it := range s.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("line %q has non-positive quantity %d", it.Key(), it.Quantity)
		}
		qty += it.Quantity
		price += int64(it.Quantity) * (it.UnitPriceCents + it.AddOnsCents())
	}
	if s.TotalItems != qty {
		return fmt.Errorf("totalItems drifted: got %d want %d (%+v)", s.TotalItems, qty, s)
	}
	if s.TotalPriceCents != price {
		return fmt.Errorf("totalPrice drifted: got %d want %d (%+v)", s.TotalPriceCents, price, s)
	}
	return nil
}

func TestApply_Scenario(t *testing.T) {
	s := Empty()

	s = Apply(s, AddItem(item("p1", 100, 1)))
	if len(s.Items) != 1 || s.Items[0].Quantity != 1 || s.TotalItems != 1 || s.TotalPriceCents != 100 {
		t.Fatalf("after first add: %+v", s)
	}

	s = Apply(s, AddItem(item("p1", 100, 2)))
	if len(s.Items) != 1 || s.Items[0].Quantity != 3 || s.TotalItems != 3 || s.TotalPriceCents != 300 {
		t.Fatalf("after merge: %+v", s)
	}

	s = Apply(s, UpdateQuantity("p1", 1))
	if s.TotalItems != 1 || s.TotalPriceCents != 100 {
		t.Fatalf("after update: %+v", s)
	}

	s = Apply(s, RemoveItem("p1"))
	if !s.IsEmpty() || s.TotalItems != 0 || s.TotalPriceCents != 0 {
		t.Fatalf("after remove: %+v", s)
	}
}

func TestApply_ScenarioWithAddOns(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p2", 50, 1, addOn("a1", 10))))
	s = Apply(s, AddItem(item("p2", 50, 1)))

	if len(s.Items) != 2 {
		t.Fatalf("expected two distinct lines, got %+v", s.Items)
	}
	if s.TotalItems != 2 || s.TotalPriceCents != 110 {
		t.Fatalf("unexpected totals %d/%d", s.TotalItems, s.TotalPriceCents)
	}
	assertTotals(t, s)
}

func TestApply_MergeIgnoresAddOnOrder(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p1", 200, 1, addOn("a1", 40), addOn("a2", 60))))
	s = Apply(s, AddItem(item("p1", 200, 2, addOn("a2", 60), addOn("a1", 40))))

	if len(s.Items) != 1 {
		t.Fatalf("expected merge regardless of add-on order, got %d lines", len(s.Items))
	}
	if s.Items[0].Quantity != 3 || s.TotalPriceCents != 3*300 {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestApply_AddOnPriceDiscriminates(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p1", 100, 1, addOn("a1", 10))))
	s = Apply(s, AddItem(item("p1", 100, 1, addOn("a1", 20))))
	if len(s.Items) != 2 {
		t.Fatalf("expected distinct lines for different add-on prices, got %+v", s.Items)
	}
	assertTotals(t, s)
}

func TestApply_DuplicateAddOnsAreNotCollapsed(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p1", 100, 1, addOn("a1", 10), addOn("a1", 10), addOn("a2", 5))))
	s = Apply(s, AddItem(item("p1", 100, 1, addOn("a1", 10), addOn("a2", 5), addOn("a2", 5))))
	if len(s.Items) != 2 {
		t.Fatalf("expected multiset comparison to keep lines apart, got %+v", s.Items)
	}
	assertTotals(t, s)
}

func TestApply_MergeUsesExistingUnitPrice(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p1", 100, 1)))
	s = Apply(s, AddItem(item("p1", 150, 1)))
	if len(s.Items) != 1 || s.Items[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", s.Items)
	}
	assertTotals(t, s)
}

func TestApply_RemoveItemFirstMatchOnly(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p2", 50, 1, addOn("a1", 10))))
	s = Apply(s, AddItem(item("p2", 50, 2)))

	s = Apply(s, RemoveItem("p2"))
	if len(s.Items) != 1 {
		t.Fatalf("expected one line left, got %+v", s.Items)
	}
	if len(s.Items[0].AddOns) != 0 || s.TotalItems != 2 || s.TotalPriceCents != 100 {
		t.Fatalf("wrong line removed: %+v", s)
	}
}

func TestApply_UpdateQuantityFirstMatchOnly(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p2", 50, 1, addOn("a1", 10))))
	s = Apply(s, AddItem(item("p2", 50, 1)))

	s = Apply(s, UpdateQuantity("p2", 4))
	if s.Items[0].Quantity != 4 || s.Items[1].Quantity != 1 {
		t.Fatalf("unexpected quantities %+v", s.Items)
	}
	if s.TotalItems != 5 || s.TotalPriceCents != 4*60+50 {
		t.Fatalf("unexpected totals %+v", s)
	}
}

func TestApply_LineKeyOperations(t *testing.T) {
	s := Empty()
	withAddOn := item("p2", 50, 1, addOn("a1", 10))
	plain := item("p2", 50, 1)
	s = Apply(s, AddItem(withAddOn))
	s = Apply(s, AddItem(plain))

	s = Apply(s, UpdateLineQuantity(plain.Key(), 3))
	if s.Items[0].Quantity != 1 || s.Items[1].Quantity != 3 {
		t.Fatalf("line update hit the wrong line: %+v", s.Items)
	}
	assertTotals(t, s)

	s = Apply(s, RemoveLine(withAddOn.Key()))
	if len(s.Items) != 1 || s.Items[0].Key() != plain.Key() {
		t.Fatalf("line removal hit the wrong line: %+v", s.Items)
	}
	assertTotals(t, s)

	s = Apply(s, UpdateLineQuantity(plain.Key(), 0))
	if !s.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", s)
	}
}

func TestApply_MissingIDIsNoOp(t *testing.T) {
	s := Apply(Empty(), AddItem(item("p1", 100, 1)))
	for _, a := range []Action{RemoveItem("nope"), UpdateQuantity("nope", 5), RemoveLine("nope|"), UpdateLineQuantity("nope|", 2)} {
		got := Apply(s, a)
		if !reflect.DeepEqual(got, s) {
			t.Fatalf("%s on missing id changed state: %+v", a.Kind, got)
		}
	}
}

func TestApply_QuantityZeroEqualsRemove(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p1", 100, 2, addOn("a1", 10))))
	s = Apply(s, AddItem(item("p3", 70, 1)))

	for _, q := range []int{0, -1} {
		viaUpdate := Apply(s, UpdateQuantity("p1", q))
		viaRemove := Apply(s, RemoveItem("p1"))
		if !reflect.DeepEqual(viaUpdate, viaRemove) {
			t.Fatalf("quantity %d: update %+v != remove %+v", q, viaUpdate, viaRemove)
		}
	}
}

func TestApply_ClearAndReset(t *testing.T) {
	s := Empty()
	s = Apply(s, AddItem(item("p1", 100, 2, addOn("a1", 10))))
	s = Apply(s, AddItem(item("p3", 70, 1)))

	for _, a := range []Action{Clear(), Reset()} {
		got := Apply(s, a)
		if len(got.Items) != 0 || got.Items == nil || got.TotalItems != 0 || got.TotalPriceCents != 0 {
			t.Fatalf("%s did not reset: %+v", a.Kind, got)
		}
		if got.Version <= s.Version {
			t.Fatalf("%s must advance the version", a.Kind)
		}
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	s := Apply(Empty(), AddItem(item("p1", 100, 1, addOn("a1", 10))))
	before := s.Clone()

	_ = Apply(s, AddItem(item("p1", 100, 1, addOn("a1", 10))))
	_ = Apply(s, UpdateQuantity("p1", 7))
	_ = Apply(s, RemoveItem("p1"))

	if !reflect.DeepEqual(s, before) {
		t.Fatalf("input state mutated: %+v vs %+v", s, before)
	}
}

func TestApply_VersionAdvancesOnlyOnChange(t *testing.T) {
	s := Apply(Empty(), AddItem(item("p1", 100, 1)))
	if s.Version != 1 {
		t.Fatalf("expected version 1, got %d", s.Version)
	}
	if got := Apply(s, UpdateQuantity("p1", 1)); got.Version != s.Version {
		t.Fatalf("unchanged quantity should not bump version")
	}
	if got := Apply(s, RemoveItem("missing")); got.Version != s.Version {
		t.Fatalf("no-op should not bump version")
	}
}

func TestFromItems_DerivesTotals(t *testing.T) {
	s := FromItems([]LineItem{
		item("p1", 100, 1, addOn("a1", 10)),
		item("p1", 100, 2, addOn("a1", 10)),
		item("p2", 250, 1),
	})
	if len(s.Items) != 2 || s.TotalItems != 4 || s.TotalPriceCents != 3*110+250 {
		t.Fatalf("unexpected rebuilt state %+v", s)
	}
}

func TestApply_RandomSequencesKeepTotals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"p1", "p2", "p3"}
	menu := []AddOn{addOn("1", 20), addOn("2", 30), addOn("3", 40)}

	for run := 0; run < 200; run++ {
		s := Empty()
		for step := 0; step < 50; step++ {
			id := ids[rng.Intn(len(ids))]
			var a Action
			switch rng.Intn(6) {
			case 0, 1:
				var selected []AddOn
				for _, ad := range menu {
					if rng.Intn(2) == 0 {
						selected = append(selected, ad)
					}
				}
				rng.Shuffle(len(selected), func(i, j int) { selected[i], selected[j] = selected[j], selected[i] })
				a = AddItem(item(id, int64(50+rng.Intn(3)*25), 1+rng.Intn(3), selected...))
			case 2:
				a = RemoveItem(id)
			case 3:
				a = UpdateQuantity(id, rng.Intn(5)-1)
			case 4:
				if len(s.Items) > 0 {
					a = UpdateLineQuantity(s.Items[rng.Intn(len(s.Items))].Key(), rng.Intn(4))
				} else {
					a = Clear()
				}
			default:
				if rng.Intn(10) == 0 {
					a = Clear()
				} else if len(s.Items) > 0 {
					a = RemoveLine(s.Items[rng.Intn(len(s.Items))].Key())
				} else {
					a = RemoveItem(id)
				}
			}
			s = Apply(s, a)
			assertTotals(t, s)
		}
	}
}
