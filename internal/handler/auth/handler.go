package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicalos/clinic-api/internal/handler"
	"github.com/clinicalos/clinic-api/internal/middleware"
	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/service/auth"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup, throttle gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", throttle, h.Login)
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", h.Me)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Me(c *gin.Context) {
	p := middleware.Principal(c)

	user, err := h.svc.CurrentUser(c.Request.Context(), p)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}
