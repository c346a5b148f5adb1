package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appservices "github.com/vsinha/slitter/pkg/application/services"
	"github.com/vsinha/slitter/pkg/domain/entities"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: message})
}

// StatusFor maps a service error onto an HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, appservices.ErrValidation),
		errors.Is(err, entities.ErrInsufficientInput),
		errors.Is(err, entities.ErrNotDriver),
		errors.Is(err, entities.ErrInvalidQuantity),
		errors.Is(err, entities.ErrOverWidth):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrMicronMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrNotFound),
		errors.Is(err, entities.ErrCoilNotFound),
		errors.Is(err, entities.ErrLedgerRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrJobCompleted),
		errors.Is(err, entities.ErrInvalidTransition),
		errors.Is(err, entities.ErrLedgerOwned):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func failure(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, Response{
		Code:    status,
		Message: err.Error(),
		Fields:  appservices.ValidationFields(err),
	})
}
