package response

import (
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type successBody struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, successBody{Success: true, Data: data})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, errorBody{Success: false, Error: message})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Success: false, Error: message})
}
