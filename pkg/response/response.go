package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Results is the paginated result envelope: the matching rows for the
// requested page plus the total match count across all pages.
type Results struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
}

// ErrorBody carries a single error message.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK sends a 200 result envelope.
func OK(c *gin.Context, data interface{}, total int64) {
	c.JSON(http.StatusOK, Results{
		Data:  data,
		Total: total,
	})
}

// Error sends an error response with the given status code.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Error: message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
