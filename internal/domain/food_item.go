package domain

import "time"

// FoodItem is a menu entry of a restaurant. PriceCents is in paise.
type FoodItem struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	PriceCents   int64     `json:"priceCents"`
	Category     string    `json:"category,omitempty"`
	Image        string    `json:"image,omitempty"`
	Rating       float64   `json:"rating"`
	IsTrending   bool      `json:"isTrending"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Category is a food category derived from the menu.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}
