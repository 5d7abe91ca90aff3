package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/handler"
	"github.com/clinicalos/clinic-api/internal/middleware"
	"github.com/clinicalos/clinic-api/internal/model"
	"github.com/clinicalos/clinic-api/internal/service/billing"
)

type Handler struct {
	svc *billing.Service
}

func NewHandler(svc *billing.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("/:id/prescription", h.CreatePrescription)
		appointments.POST("/:id/invoice", h.CreateInvoice)
	}

	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.GET("/:id", h.GetPrescriptionDetails)
	}

	invoices := r.Group("/invoices")
	{
		invoices.GET("", h.ListInvoices)
	}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	prescription, err := h.svc.CreatePrescription(c.Request.Context(), middleware.Principal(c), appointmentID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(prescription))
}

func (h *Handler) GetPrescriptionDetails(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid prescription ID"))
		return
	}

	details, err := h.svc.GetPrescriptionDetails(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(details))
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	invoice, err := h.svc.CreateInvoice(c.Request.Context(), middleware.Principal(c), appointmentID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(invoice))
}

func (h *Handler) ListInvoices(c *gin.Context) {
	invoices, err := h.svc.ListInvoices(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(invoices))
}
