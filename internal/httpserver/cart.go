package httpserver

import (
	"net/http"

	"foodorder/internal/cart"
	cartsvc "foodorder/internal/service/cart"
	ordersvc "foodorder/internal/service/order"
	"github.com/gin-gonic/gin"
)

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	p, _ := principal(c)
	h.respondCart(c, http.StatusOK)(h.deps.CartSvc.Get(c.Request.Context(), p.UserID))
}

func (h *handlers) addCartItem(c *gin.Context) {
	p, _ := principal(c)
	var req cartsvc.AddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	h.respondCart(c, http.StatusOK)(h.deps.CartSvc.AddItem(c.Request.Context(), p.UserID, req))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	p, _ := principal(c)
	q, ok := bindQuantity(c)
	if !ok {
		return
	}
	h.respondCart(c, http.StatusOK)(h.deps.CartSvc.UpdateQuantity(c.Request.Context(), p.UserID, c.Param("productId"), q))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	p, _ := principal(c)
	h.respondCart(c, http.StatusOK)(h.deps.CartSvc.RemoveItem(c.Request.Context(), p.UserID, c.Param("productId")))
}

func (h *handlers) updateCartLine(c *gin.Context) {
	p, _ := principal(c)
	q, ok := bindQuantity(c)
	if !ok {
		return
	}
	h.respondCart(c, http.StatusOK)(h.deps.CartSvc.UpdateLine(c.Request.Context(), p.UserID, c.Param("key"), q))
}

func (h *handlers) removeCartLine(c *gin.Context) {
	p, _ := principal(c)
	h.respondCart(c, http.StatusOK)(h.deps.CartSvc.RemoveLine(c.Request.Context(), p.UserID, c.Param("key")))
}

func (h *handlers) clearCart(c *gin.Context) {
	p, _ := principal(c)
	h.respondCart(c, http.StatusOK)(h.deps.CartSvc.Clear(c.Request.Context(), p.UserID))
}

func (h *handlers) checkout(c *gin.Context) {
	p, _ := principal(c)
	var req ordersvc.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	o, err := h.deps.OrderSvc.Checkout(c.Request.Context(), p.UserID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "orderId": o.ID, "order": toOrder(*o)})
}

func (h *handlers) respondCart(c *gin.Context, status int) func(cart.State, error) {
	return func(s cart.State, err error) {
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(status, toCart(s))
	}
}

func bindQuantity(c *gin.Context) (int, bool) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "quantity is required")
		return 0, false
	}
	return *req.Quantity, true
}
