// Package handlers contains the HTTP endpoint implementations.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error onto its HTTP status.  Internal
// errors are masked so stack details never leak to clients.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		c.JSON(status, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "internal server error",
		})
		return
	}
	c.JSON(status, ErrorResponse{Code: string(code), Message: err.Error()})
}
