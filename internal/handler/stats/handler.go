package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicalos/clinic-api/internal/handler"
	"github.com/clinicalos/clinic-api/internal/middleware"
	"github.com/clinicalos/clinic-api/internal/service/stats"
)

type Handler struct {
	svc *stats.Service
}

func NewHandler(svc *stats.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/overview", h.Overview)
		stats.GET("/growth", h.Growth)
	}
}

func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(overview))
}

func (h *Handler) Growth(c *gin.Context) {
	growth, err := h.svc.Growth(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(growth))
}
