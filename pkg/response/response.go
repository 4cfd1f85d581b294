package response

import (
	"log"
	"net/http"

	"anoa.com/chirp/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// GetHandle retrieves the authenticated user's handle from the context
func GetHandle(c *gin.Context) (string, error) {
	handle, exists := c.Get("handle")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	handleStr, ok := handle.(string)
	if !ok || handleStr == "" {
		return "", apperror.ErrUnauthorized
	}

	return handleStr, nil
}

// GetUserImage retrieves the authenticated user's profile image URL, set by
// the auth middleware alongside the handle.
func GetUserImage(c *gin.Context) string {
	img, _ := c.Get("imgUrl")
	imgStr, _ := img.(string)
	return imgStr
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
