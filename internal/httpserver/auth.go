package httpserver

import (
	"errors"
	"net/http"
	"strings"

	authsvc "foodorder/internal/service/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// authMiddleware resolves the bearer token into a principal or answers 401.
func authMiddleware(svc authService, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		p, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.Set(principalKey, *p)
		c.Next()
	}
}

// requireRole answers 403 unless the principal has exactly role.
func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok || p.Role != role {
			writeError(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) (authsvc.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return authsvc.Principal{}, false
	}
	p, ok := v.(authsvc.Principal)
	return p, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	User      userResponse `json:"user"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	res, err := h.deps.AuthSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if isAuthError(err) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Token:     res.Token,
		ExpiresIn: h.deps.AuthSvc.SessionTTLSeconds(),
		User:      toUser(res.User),
	})
}

func (h *handlers) signup(c *gin.Context) {
	var req authsvc.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.deps.AuthSvc.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toUser(*u))
}

func (h *handlers) logout(c *gin.Context) {
	p, _ := principal(c)
	if err := h.deps.AuthSvc.Logout(c.Request.Context(), p.Token); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) me(c *gin.Context) {
	p, _ := principal(c)
	u, err := h.deps.AuthSvc.Me(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toUser(*u))
}

func isAuthError(err error) bool {
	return errors.Is(err, authsvc.ErrInvalidCredentials) || errors.Is(err, authsvc.ErrInvalidToken)
}
