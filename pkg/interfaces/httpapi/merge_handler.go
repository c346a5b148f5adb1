package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/vsinha/slitter/pkg/application/dto"
	appservices "github.com/vsinha/slitter/pkg/application/services"
)

// MergeHandler serves merge previews and commits
type MergeHandler struct {
	svc *appservices.MergeService
}

// NewMergeHandler creates a merge handler
func NewMergeHandler(svc *appservices.MergeService) *MergeHandler {
	return &MergeHandler{svc: svc}
}

// Preview returns the allocation without creating a job card
func (h *MergeHandler) Preview(c *gin.Context) {
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	preview, err := h.svc.Preview(c.Request.Context(), req)
	if err != nil {
		failure(c, err)
		return
	}
	success(c, preview)
}

// Commit creates the job card
func (h *MergeHandler) Commit(c *gin.Context) {
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Commit(c.Request.Context(), req)
	if err != nil {
		failure(c, err)
		return
	}
	created(c, result)
}
