package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/vsinha/slitter/pkg/application/dto"
	appservices "github.com/vsinha/slitter/pkg/application/services"
)

// JobHandler serves job cards and their production ledger
type JobHandler struct {
	svc *appservices.LedgerService
}

// NewJobHandler creates a job handler
func NewJobHandler(svc *appservices.LedgerService) *JobHandler {
	return &JobHandler{svc: svc}
}

// Get returns one job card
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.GetJobCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		failure(c, err)
		return
	}
	success(c, job)
}

// RecordRow appends a weighing
func (h *JobHandler) RecordRow(c *gin.Context) {
	var input dto.LedgerRowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.RecordRow(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		failure(c, err)
		return
	}
	created(c, result)
}

// DeleteRow removes a weighing
func (h *JobHandler) DeleteRow(c *gin.Context) {
	result, err := h.svc.DeleteRow(c.Request.Context(), c.Param("id"), c.Param("rowId"))
	if err != nil {
		failure(c, err)
		return
	}
	success(c, result)
}

// Complete closes the job's ledger
func (h *JobHandler) Complete(c *gin.Context) {
	result, err := h.svc.CompleteJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		failure(c, err)
		return
	}
	success(c, result)
}

// Resync rebuilds the job's dispatch entry from its ledger
func (h *JobHandler) Resync(c *gin.Context) {
	entry, err := h.svc.Resync(c.Request.Context(), c.Param("id"))
	if err != nil {
		failure(c, err)
		return
	}
	success(c, entry)
}
