package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/domain"
)

// Error kinds carried in API error responses.
const (
	errKindValidation        = "validation_error"
	errKindNotFound          = "not_found"
	errKindInsufficientStock = "insufficient_stock"
	errKindInternal          = "internal_error"
)

// ErrorResponse represents an error payload returned by the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// renderError translates a failure into an HTTP status. Validation failures
// and insufficient stock map to 400, a missing product to 404. Anything else
// is logged and answered with a generic 500, keeping internals out of the
// response body.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindInsufficientStock, Message: err.Error()})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindValidation, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: errKindNotFound, Message: err.Error()})
	default:
		slog.Error("Request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("err", err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: errKindInternal, Message: "internal server error"})
	}
}

// renderCommandError is renderError for command endpoints, where referencing
// a missing product is the caller's mistake: domain.ErrNotFound maps to 400
// instead of 404.
func renderCommandError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindNotFound, Message: err.Error()})
		return
	}
	renderError(c, err)
}

// productID parses the :id path parameter. On failure it writes a 400 and
// reports false.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errKindValidation, Message: "product id must be a positive integer"})
		return 0, false
	}
	return id, true
}
