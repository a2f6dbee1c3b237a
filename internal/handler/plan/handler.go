package plan

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/handler"
	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/plan"
)

type Handler struct {
	service *plan.Service
	*handler.BaseHandler
}

func NewHandler(service *plan.Service, outboxRepo repository.OutboxRepository) *Handler {
	return &Handler{
		service:     service,
		BaseHandler: &handler.BaseHandler{Outbox: outboxRepo},
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/mothers/:id/plans", h.Create)
	r.GET("/mothers/:id/plans", h.ListByMother)

	plans := r.Group("/plans")
	{
		plans.GET("/:id", h.Get)
		plans.POST("/:id/archive", h.Archive)
	}
}

func (h *Handler) Create(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	var req model.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	p, err := h.service.CreatePlan(c.Request.Context(), motherID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "PLAN_CREATED", p)

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid plan ID"))
		return
	}

	p, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) ListByMother(c *gin.Context) {
	motherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid mother ID"))
		return
	}

	plans, err := h.service.ListPlansByMother(c.Request.Context(), motherID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(plans))
}

func (h *Handler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid plan ID"))
		return
	}

	p, err := h.service.ArchivePlan(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.Emit(c, "PLAN_ARCHIVED", p)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}
