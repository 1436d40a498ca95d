// Package handlers implements the gin handlers of the map API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/regionmap/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Detail  string           `json:"detail,omitempty"`
}

// ListResponse wraps collections so fields can be added without breaking
// clients.
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// writeAppError maps err to its HTTP status.  Server-side failures are
// masked; their detail stays in the request log through c.Error.
func writeAppError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ae *errors.AppError
	if !errors.As(err, &ae) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	status := errors.HTTPStatusForCode(ae.Code)
	resp := ErrorResponse{Code: ae.Code, Message: ae.Message, Detail: ae.Detail}
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusServiceUnavailable {
		resp = ErrorResponse{Code: ae.Code, Message: errors.DefaultMessageForCode(ae.Code)}
	}
	c.AbortWithStatusJSON(status, resp)
}

// parseID reads a positive int64 path parameter.
func parseID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidParam(name + " must be a positive integer").WithDetail(raw)
	}
	return id, nil
}

// parseFloat reads a required float query parameter.
func parseFloat(c *gin.Context, name string) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, errors.New(errors.CodeInvalidCoordinate, name+" is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.CodeInvalidCoordinate, name+" is not a number").WithDetail(raw)
	}
	return v, nil
}

//Personal.AI order the ending
