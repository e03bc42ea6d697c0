package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller handles general HTTP requests.
type Controller struct{}

// New creates a new Controller.
func New() *Controller {
	return &Controller{}
}

// Health handles the HTTP GET request for the health check endpoint.
func (con *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
