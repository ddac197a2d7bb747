package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mzotov/astrobooking/internal/domain"
)

const (
	codeInvalidInput = "INVALID_INPUT"
	codeInvalidQuery = "INVALID_QUERY"
	codeInvalidID    = "INVALID_ID"
	codeInvalidJSON  = "INVALID_JSON"
	codeConflict     = "CONFLICT"
	codeNotFound     = "NOT_FOUND"
	codeServerError  = "SERVER_ERROR"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// writeError maps domain errors onto HTTP statuses: validation failures are
// 400, conflicts 409, anything else 500. validationCode picks the 400 code
// for the context (body input, query parameter or path id).
func writeError(c *gin.Context, err error, validationCode string) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error: validation.Message,
			Code:  validationCode,
			Field: validation.Field,
		})
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, errorResponse{Error: conflict.Message, Code: codeConflict})
		return
	}

	c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error(), Code: codeServerError})
}

func writeNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, errorResponse{Error: message, Code: codeNotFound})
}

func writeInvalidJSON(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: codeInvalidJSON})
}
