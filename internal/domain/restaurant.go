package domain

import "time"

type Restaurant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Rating       float64   `json:"rating"`
	DeliveryTime string    `json:"deliveryTime,omitempty"`
	Image        string    `json:"image,omitempty"`
	Cuisine      []string  `json:"cuisine"`
	Distance     string    `json:"distance,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
