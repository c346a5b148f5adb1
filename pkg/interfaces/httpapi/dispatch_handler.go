package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/vsinha/slitter/pkg/application/dto"
	appservices "github.com/vsinha/slitter/pkg/application/services"
	"github.com/vsinha/slitter/pkg/domain/entities"
)

// DispatchHandler serves dispatch entries
type DispatchHandler struct {
	svc *appservices.DispatchService
}

// NewDispatchHandler creates a dispatch handler
func NewDispatchHandler(svc *appservices.DispatchService) *DispatchHandler {
	return &DispatchHandler{svc: svc}
}

// CreateFromPlan dispatches a plan directly
func (h *DispatchHandler) CreateFromPlan(c *gin.Context) {
	var input dto.DispatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	entry, err := h.svc.CreateFromPlan(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		failure(c, err)
		return
	}
	created(c, entry)
}

// Get returns one dispatch entry
func (h *DispatchHandler) Get(c *gin.Context) {
	entry, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failure(c, err)
		return
	}
	success(c, entry)
}

// List returns dispatch entries, filtered by ?status= when given
func (h *DispatchHandler) List(c *gin.Context) {
	var status *entities.DispatchStatus
	if raw := c.Query("status"); raw != "" {
		s, err := entities.ParseDispatchStatus(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		status = &s
	}

	entries, err := h.svc.List(c.Request.Context(), status)
	if err != nil {
		failure(c, err)
		return
	}
	success(c, entries)
}

// UpdateCounts edits operator quantities on a plan-linked line item
func (h *DispatchHandler) UpdateCounts(c *gin.Context) {
	var input dto.CountsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	entry, err := h.svc.UpdateCounts(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		failure(c, err)
		return
	}
	success(c, entry)
}
