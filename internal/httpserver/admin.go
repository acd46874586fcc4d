package httpserver

import (
	"net/http"
	"strings"

	"foodorder/internal/domain"
	adminsvc "foodorder/internal/service/admin"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *handlers) adminListUsers(c *gin.Context) {
	list, err := h.deps.AdminSvc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUsers(list))
}

func (h *handlers) adminCreateUser(c *gin.Context) {
	var req adminsvc.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.deps.AdminSvc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toUser(*u))
}

func (h *handlers) adminUpdateUser(c *gin.Context) {
	var req adminsvc.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.deps.AdminSvc.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUser(*u))
}

func (h *handlers) adminDeleteUser(c *gin.Context) {
	if err := h.deps.AdminSvc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListRestaurants(c *gin.Context) {
	list, err := h.deps.AdminSvc.ListRestaurants(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) adminCreateRestaurant(c *gin.Context) {
	var req adminsvc.RestaurantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	r, err := h.deps.AdminSvc.CreateRestaurant(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *handlers) adminUpdateRestaurant(c *gin.Context) {
	var req adminsvc.RestaurantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	r, err := h.deps.AdminSvc.UpdateRestaurant(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handlers) adminDeleteRestaurant(c *gin.Context) {
	if err := h.deps.AdminSvc.DeleteRestaurant(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// foodItemRequest carries the price in rupees; every field is optional on update.
type foodItemRequest struct {
	RestaurantID *string          `json:"restaurantId"`
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Category     *string          `json:"category"`
	Image        *string          `json:"image"`
	Rating       *float64         `json:"rating"`
	IsTrending   *bool            `json:"isTrending"`
}

func (r foodItemRequest) toInput() (adminsvc.FoodItemInput, error) {
	in := adminsvc.FoodItemInput{
		RestaurantID: r.RestaurantID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Image:        r.Image,
		Rating:       r.Rating,
		IsTrending:   r.IsTrending,
	}
	if r.Price != nil {
		cents, err := domain.CentsFromDecimal("price", *r.Price)
		if err != nil {
			return in, err
		}
		in.PriceCents = &cents
	}
	return in, nil
}

func (h *handlers) bindFoodItem(c *gin.Context) (adminsvc.FoodItemInput, bool) {
	var req foodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return adminsvc.FoodItemInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return in, false
	}
	return in, true
}

func (h *handlers) adminListFoodItems(c *gin.Context) {
	list, err := h.deps.AdminSvc.ListFoodItems(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toFoodItems(list))
}

func (h *handlers) adminCreateFoodItem(c *gin.Context) {
	in, ok := h.bindFoodItem(c)
	if !ok {
		return
	}
	it, err := h.deps.AdminSvc.CreateFoodItem(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toFoodItem(*it))
}

func (h *handlers) adminUpdateFoodItem(c *gin.Context) {
	in, ok := h.bindFoodItem(c)
	if !ok {
		return
	}
	it, err := h.deps.AdminSvc.UpdateFoodItem(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toFoodItem(*it))
}

func (h *handlers) adminDeleteFoodItem(c *gin.Context) {
	if err := h.deps.AdminSvc.DeleteFoodItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminCategories(c *gin.Context) {
	list, err := h.deps.AdminSvc.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) adminStats(c *gin.Context) {
	st, err := h.deps.AdminSvc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toStats(st))
}

func (h *handlers) adminOrders(c *gin.Context) {
	list, err := h.deps.OrderSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(list))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.deps.OrderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "image file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	path, err := h.deps.AdminSvc.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.baseURL(c) + path})
}

func (h *handlers) baseURL(c *gin.Context) string {
	if h.deps.PublicBaseURL != "" {
		return strings.TrimRight(h.deps.PublicBaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	} else if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}
