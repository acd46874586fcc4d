package domain

import "time"

const (
	OrderTypeDelivery = "delivery"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDineIn   = "dine-in"
)

const (
	OrderStatusPending        = "Pending"
	OrderStatusConfirmed      = "Confirmed"
	OrderStatusPreparing      = "Preparing"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
)

// MaxLineQuantity is the largest quantity one cart or order line may hold.
const MaxLineQuantity = 999

var orderStatuses = map[string]struct{}{
	OrderStatusPending:        {},
	OrderStatusConfirmed:      {},
	OrderStatusPreparing:      {},
	OrderStatusOutForDelivery: {},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

// ValidOrderType reports whether t is delivery, takeaway or dine-in.
func ValidOrderType(t string) bool {
	switch t {
	case OrderTypeDelivery, OrderTypeTakeaway, OrderTypeDineIn:
		return true
	}
	return false
}

type OrderDetails struct {
	Address      string `json:"address,omitempty"`
	TableNumber  string `json:"tableNumber,omitempty"`
	People       int    `json:"people,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type OrderLine struct {
	ProductID      string       `json:"id"`
	Name           string       `json:"name"`
	Image          string       `json:"image,omitempty"`
	UnitPriceCents int64        `json:"unitPriceCents"`
	Quantity       int          `json:"quantity"`
	AddOns         []OrderAddOn `json:"addons,omitempty"`
	RestaurantID   string       `json:"restaurantId,omitempty"`
}

type OrderAddOn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

type Order struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId,omitempty"`
	UserName   string       `json:"userName,omitempty"`
	Type       string       `json:"type"`
	Items      []OrderLine  `json:"items"`
	TotalCents int64        `json:"totalCents"`
	TotalItems int          `json:"totalItems"`
	Details    OrderDetails `json:"details"`
	Status     string       `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalOrders       int64 `json:"totalOrders"`
	TotalUsers        int64 `json:"totalUsers"`
	TotalRestaurants  int64 `json:"totalRestaurants"`
	TotalRevenueCents int64 `json:"totalRevenueCents"`
}
