// Package menu holds the add-on menus offered per food category.
package menu

import (
	"strings"

	"foodorder/internal/cart"
)

func rupees(r int64) int64 { return r * 100 }

var (
	biryaniAddOns = []cart.AddOn{
		{ID: "1", Name: "Extra Raita", PriceCents: rupees(20)},
		{ID: "2", Name: "Double Masala", PriceCents: rupees(30)},
		{ID: "3", Name: "Thums Up (250ml)", PriceCents: rupees(40)},
		{ID: "4", Name: "Boiled Egg", PriceCents: rupees(15)},
	}
	pizzaAddOns = []cart.AddOn{
		{ID: "1", Name: "Extra Cheese", PriceCents: rupees(40)},
		{ID: "2", Name: "Cheese Burst", PriceCents: rupees(60)},
		{ID: "3", Name: "Coke (250ml)", PriceCents: rupees(40)},
		{ID: "4", Name: "Choco Lava Cake", PriceCents: rupees(90)},
	}
	burgerAddOns = []cart.AddOn{
		{ID: "1", Name: "Extra Cheese Slice", PriceCents: rupees(20)},
		{ID: "2", Name: "Peri Peri Fries", PriceCents: rupees(80)},
		{ID: "3", Name: "Coke (250ml)", PriceCents: rupees(40)},
		{ID: "4", Name: "Chicken Nuggets (4pc)", PriceCents: rupees(120)},
	}
	dessertAddOns = []cart.AddOn{
		{ID: "1", Name: "Extra Chocolate Sauce", PriceCents: rupees(30)},
		{ID: "2", Name: "Nut Toppings", PriceCents: rupees(40)},
		{ID: "3", Name: "Vanilla Scoop", PriceCents: rupees(50)},
	}
	defaultAddOns = []cart.AddOn{
		{ID: "1", Name: "Extra Cheese", PriceCents: rupees(20)},
		{ID: "2", Name: "Cold Drink", PriceCents: rupees(30)},
		{ID: "3", Name: "Fries", PriceCents: rupees(40)},
		{ID: "4", Name: "Sauce Pack", PriceCents: rupees(15)},
	}
)

// AddOnsFor returns the add-on menu for a food item, chosen by a coarse
// match on its category and name. The first matching group wins.
func AddOnsFor(category, name string) []cart.AddOn {
	c := strings.ToLower(category)
	n := strings.ToLower(name)

	var src []cart.AddOn
	switch {
	case strings.Contains(c, "biryani") || strings.Contains(c, "rice") || strings.Contains(n, "biryani"):
		src = biryaniAddOns
	case strings.Contains(c, "pizza") || strings.Contains(n, "pizza"):
		src = pizzaAddOns
	case strings.Contains(c, "burger") || strings.Contains(c, "sandwich") || strings.Contains(n, "burger"):
		src = burgerAddOns
	case strings.Contains(c, "dessert") || strings.Contains(c, "ice cream") || strings.Contains(c, "cake"):
		src = dessertAddOns
	default:
		src = defaultAddOns
	}
	return append([]cart.AddOn(nil), src...)
}
