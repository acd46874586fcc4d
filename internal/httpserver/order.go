package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// submitOrder stores an order built by the client. Non-admin callers can
// only order for themselves.
func (h *handlers) submitOrder(c *gin.Context) {
	p, _ := principal(c)
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	in, err := req.toSubmit()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !p.IsAdmin() || in.UserID == "" {
		in.UserID = p.UserID
	}
	o, err := h.deps.OrderSvc.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "orderId": o.ID})
}

func (h *handlers) userOrders(c *gin.Context) {
	p, _ := principal(c)
	userID := c.Param("userId")
	if !p.IsAdmin() && p.UserID != userID {
		writeError(c, http.StatusForbidden, "forbidden")
		return
	}
	list, err := h.deps.OrderSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(list))
}
