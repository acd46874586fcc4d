package httpserver

import (
	"errors"
	"net/http"

	"foodorder/internal/domain"
	adminsvc "foodorder/internal/service/admin"
	authsvc "foodorder/internal/service/auth"
	ordersvc "foodorder/internal/service/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Message: msg})
}

// respondError maps service errors to HTTP statuses. Unknown errors are
// logged and reported as 500 without detail.
func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ordersvc.ErrEmptyCart):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, authsvc.ErrInvalidCredentials), errors.Is(err, authsvc.ErrInvalidToken):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(c, http.StatusConflict, "already exists")
	case errors.Is(err, adminsvc.ErrUploadsDisabled):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Errorw("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func badRequest(c *gin.Context, msg string) {
	writeError(c, http.StatusBadRequest, msg)
}
