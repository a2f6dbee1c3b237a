package alert

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/handler"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/alert"
)

type Handler struct {
	service *alert.Service
	*handler.BaseHandler
}

func NewHandler(service *alert.Service, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		BaseHandler: &handler.BaseHandler{Outbox: outboxRepo},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/mothers/:id/alerts", h.Create)
	r.GET("/mothers/:id/alerts", h.ListByMother)

	alerts := r.Group("/alerts")
	{
		alerts.GET("/:id", h.Get)
		alerts.POST("/:id/resolve", h.Resolve)
	}
}

func (h *Handler) Create(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	a, err := h.service.CreateAlert(c.Request.Context(), motherID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "ALERT_CREATED", a)

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(a))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid alert ID"))
		return
	}

	a, err := h.service.GetAlert(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(a))
}

func (h *Handler) ListByMother(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	alerts, err := h.service.ListAlertsByMother(c.Request.Context(), motherID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(alerts))
}

func (h *Handler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid alert ID"))
		return
	}

	a, err := h.service.ResolveAlert(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "ALERT_RESOLVED", a)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(a))
}
