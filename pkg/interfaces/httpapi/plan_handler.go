package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/vsinha/slitter/pkg/application/dto"
	appservices "github.com/vsinha/slitter/pkg/application/services"
	"github.com/vsinha/slitter/pkg/domain/entities"
)

// PlanHandler serves plan creation, editing and stateless derivation
type PlanHandler struct {
	svc *appservices.PlanService
}

// NewPlanHandler creates a plan handler
func NewPlanHandler(svc *appservices.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// Create stores a new plan
func (h *PlanHandler) Create(c *gin.Context) {
	var input dto.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		failure(c, err)
		return
	}
	created(c, result)
}

// Derive recomputes a plan without storing it
func (h *PlanHandler) Derive(c *gin.Context) {
	var input dto.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Derive(input)
	if err != nil {
		failure(c, err)
		return
	}
	success(c, result)
}

// Get returns one plan
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failure(c, err)
		return
	}
	success(c, plan)
}

// List returns plans, filtered by ?status= when given
func (h *PlanHandler) List(c *gin.Context) {
	var status *entities.PlanStatus
	if raw := c.Query("status"); raw != "" {
		var s entities.PlanStatus
		if err := s.UnmarshalText([]byte(raw)); err != nil {
			badRequest(c, err.Error())
			return
		}
		status = &s
	}

	plans, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		failure(c, err)
		return
	}
	success(c, plans)
}

// Edit changes a plan and reports which dispatch entries followed
func (h *PlanHandler) Edit(c *gin.Context) {
	var edit dto.PlanEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Edit(c.Request.Context(), c.Param("id"), edit)
	if err != nil {
		failure(c, err)
		return
	}
	success(c, result)
}
