package handlers

import (
	"net/http"

	"attendance/capture"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Name string `json:"name" binding:"required"`
}

// RegisterStart answers POST /api/register. The response only confirms that
// sample collection started; the outcome arrives on the event stream once
// enough samples were collected (or the flow failed).
func RegisterStart(c *gin.Context) {
	request := RegisterRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, Response{Error: "Student name is required"})
		return
	}
	id, err := capture.Default.StartRegistration(request.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration started for " + request.Name, "session_id": id})
}
