package mother

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/handler"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/mother"
)

type Handler struct {
	service *mother.Service
	*handler.BaseHandler
}

func NewHandler(service *mother.Service, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		BaseHandler: &handler.BaseHandler{Outbox: outboxRepo},
	}
}

// RegisterPublicRoutes exposes registration only. It has to work
// before any account exists, so it cannot sit behind authentication.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/mothers", h.Register)
}

// RegisterProtectedRoutes exposes the care record itself. These routes
// carry PII and require a bearer token.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	mothers := r.Group("/mothers")
	{
		mothers.GET("", h.List)
		mothers.GET("/:id", h.Get)
		mothers.PUT("/:id/caregivers", h.AssignCaregivers)
		mothers.PUT("/:id/risk-status", h.UpdateRiskStatus)
		mothers.DELETE("/:id", h.Archive)
	}
}

// Register creates the account and the care record together. The body
// the client gets back is the registration contract, not the full
// record.
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterMotherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.RegisterMother(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "MOTHER_REGISTERED", m)

	c.JSON(http.StatusCreated, model.RegisterMotherResponse{
		MotherID: m.ID,
		Status:   string(m.Status),
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	m, err := h.service.GetMother(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) List(c *gin.Context) {
	var filters model.MotherFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mothers, err := h.service.ListMothers(c.Request.Context(), &filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(mothers))
}

func (h *Handler) AssignCaregivers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.AssignCaregiversRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.AssignCaregivers(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "MOTHER_CAREGIVERS_ASSIGNED", m)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) UpdateRiskStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.UpdateRiskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	m, err := h.service.UpdateRiskStatus(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "MOTHER_RISK_UPDATED", m)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}

func (h *Handler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	m, err := h.service.ArchiveMother(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "MOTHER_ARCHIVED", m)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(m))
}
