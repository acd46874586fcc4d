package httpserver

import (
	"time"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
	ordersvc "foodorder/internal/service/order"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices go out as JSON numbers, e.g. 12.99.
	decimal.MarshalJSONWithoutQuotes = true
}

func money(cents int64) decimal.Decimal {
	return domain.DecimalFromCents(cents)
}

type userResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	SignupDate string    `json:"signupDate,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

func toUser(u domain.User) userResponse {
	signup := u.SignupDate
	if signup == "" && !u.CreatedAt.IsZero() {
		signup = u.CreatedAt.Format("2006-01-02")
	}
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		SignupDate: signup,
		CreatedAt:  u.CreatedAt,
	}
}

func toUsers(in []domain.User) []userResponse {
	out := make([]userResponse, 0, len(in))
	for _, u := range in {
		out = append(out, toUser(u))
	}
	return out
}

type foodItemResponse struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category,omitempty"`
	Image        string          `json:"image,omitempty"`
	Rating       float64         `json:"rating"`
	IsTrending   bool            `json:"isTrending"`
}

func toFoodItem(it domain.FoodItem) foodItemResponse {
	return foodItemResponse{
		ID:           it.ID,
		RestaurantID: it.RestaurantID,
		Name:         it.Name,
		Description:  it.Description,
		Price:        money(it.PriceCents),
		Category:     it.Category,
		Image:        it.Image,
		Rating:       it.Rating,
		IsTrending:   it.IsTrending,
	}
}

func toFoodItems(in []domain.FoodItem) []foodItemResponse {
	out := make([]foodItemResponse, 0, len(in))
	for _, it := range in {
		out = append(out, toFoodItem(it))
	}
	return out
}

type addOnJSON struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func toAddOns(in []cart.AddOn) []addOnJSON {
	out := make([]addOnJSON, 0, len(in))
	for _, a := range in {
		out = append(out, addOnJSON{ID: a.ID, Name: a.Name, Price: money(a.PriceCents)})
	}
	return out
}

type cartLineResponse struct {
	Key          string          `json:"key"`
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	AddOns       []addOnJSON     `json:"addons"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	RestaurantID string          `json:"restaurantId,omitempty"`
}

type cartResponse struct {
	Items      []cartLineResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	Currency   string             `json:"currency"`
	Version    uint64             `json:"version"`
}

func toCart(s cart.State) cartResponse {
	lines := make([]cartLineResponse, 0, len(s.Items))
	for _, l := range s.Items {
		lines = append(lines, cartLineResponse{
			Key:          l.Key(),
			ID:           l.ID,
			Name:         l.Name,
			Image:        l.Image,
			Price:        money(l.UnitPriceCents),
			Quantity:     l.Quantity,
			AddOns:       toAddOns(l.AddOns),
			Subtotal:     money(l.SubtotalCents()),
			RestaurantID: l.RestaurantID,
		})
	}
	return cartResponse{
		Items:      lines,
		TotalItems: s.TotalItems,
		TotalPrice: money(s.TotalPriceCents),
		Currency:   domain.CurrencyCode,
		Version:    s.Version,
	}
}

type orderLineJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	AddOns       []addOnJSON     `json:"addons,omitempty"`
	RestaurantID string          `json:"restaurantId,omitempty"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"userId,omitempty"`
	UserName   string              `json:"userName,omitempty"`
	Type       string              `json:"type"`
	Items      []orderLineJSON     `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	TotalItems int                 `json:"totalItems"`
	Details    domain.OrderDetails `json:"details"`
	Status     string              `json:"status"`
	Timestamp  time.Time           `json:"timestamp"`
}

func toOrder(o domain.Order) orderResponse {
	items := make([]orderLineJSON, 0, len(o.Items))
	for _, l := range o.Items {
		addOns := make([]addOnJSON, 0, len(l.AddOns))
		for _, a := range l.AddOns {
			addOns = append(addOns, addOnJSON{ID: a.ID, Name: a.Name, Price: money(a.PriceCents)})
		}
		items = append(items, orderLineJSON{
			ID:           l.ProductID,
			Name:         l.Name,
			Image:        l.Image,
			Price:        money(l.UnitPriceCents),
			Quantity:     l.Quantity,
			AddOns:       addOns,
			RestaurantID: l.RestaurantID,
		})
	}
	return orderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		UserName:   o.UserName,
		Type:       o.Type,
		Items:      items,
		Total:      money(o.TotalCents),
		TotalItems: o.TotalItems,
		Details:    o.Details,
		Status:     o.Status,
		Timestamp:  o.CreatedAt,
	}
}

func toOrders(in []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(in))
	for _, o := range in {
		out = append(out, toOrder(o))
	}
	return out
}

// orderRequest is an order assembled by the client from its cart.
type orderRequest struct {
	UserID   string              `json:"userId"`
	UserName string              `json:"userName"`
	Type     string              `json:"type"`
	Items    []orderLineJSON     `json:"items"`
	Details  domain.OrderDetails `json:"details"`
}

func (r orderRequest) toSubmit() (ordersvc.SubmitInput, error) {
	in := ordersvc.SubmitInput{
		UserID:   r.UserID,
		UserName: r.UserName,
		Type:     r.Type,
		Details:  r.Details,
		Items:    make([]domain.OrderLine, 0, len(r.Items)),
	}
	for _, l := range r.Items {
		price, err := domain.CentsFromDecimal("price", l.Price)
		if err != nil {
			return in, err
		}
		line := domain.OrderLine{
			ProductID:      l.ID,
			Name:           l.Name,
			Image:          l.Image,
			UnitPriceCents: price,
			Quantity:       l.Quantity,
			RestaurantID:   l.RestaurantID,
		}
		for _, a := range l.AddOns {
			cents, err := domain.CentsFromDecimal("addons.price", a.Price)
			if err != nil {
				return in, err
			}
			line.AddOns = append(line.AddOns, domain.OrderAddOn{ID: a.ID, Name: a.Name, PriceCents: cents})
		}
		in.Items = append(in.Items, line)
	}
	return in, nil
}

type statsResponse struct {
	TotalOrders      int64           `json:"totalOrders"`
	TotalUsers       int64           `json:"totalUsers"`
	TotalRestaurants int64           `json:"totalRestaurants"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
}

func toStats(s domain.Stats) statsResponse {
	return statsResponse{
		TotalOrders:      s.TotalOrders,
		TotalUsers:       s.TotalUsers,
		TotalRestaurants: s.TotalRestaurants,
		TotalRevenue:     money(s.TotalRevenueCents),
	}
}
