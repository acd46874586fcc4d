package httpserver

import (
	"context"
	"net/http"

	"foodorder/internal/domain"
	"github.com/gin-gonic/gin"
)

func (h *handlers) restaurants(c *gin.Context) {
	list, err := h.deps.CatalogSvc.Restaurants(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) menu(c *gin.Context) {
	m, err := h.deps.CatalogSvc.Menu(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toFoodItems(m.Items), "categories": m.Categories})
}

func (h *handlers) categories(c *gin.Context) {
	list, err := h.deps.CatalogSvc.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) trending(c *gin.Context) {
	h.foodItems(c, h.deps.CatalogSvc.Trending)
}

func (h *handlers) bestReviewed(c *gin.Context) {
	h.foodItems(c, h.deps.CatalogSvc.BestReviewed)
}

func (h *handlers) popular(c *gin.Context) {
	h.foodItems(c, h.deps.CatalogSvc.Popular)
}

func (h *handlers) foodItems(c *gin.Context, list func(context.Context) ([]domain.FoodItem, error)) {
	items, err := list(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toFoodItems(items))
}

func (h *handlers) addOns(c *gin.Context) {
	list, err := h.deps.CatalogSvc.AddOns(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toAddOns(list))
}
