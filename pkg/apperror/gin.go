package apperror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond writes err as {"error": ...}. Server-side failures carry the
// underlying cause in "details" under the given summary message.
func Respond(c *gin.Context, err error, summary string) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": summary, "details": err.Error()})
		return
	}
	c.JSON(status, gin.H{"error": publicMessage(err)})
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoCredential):
		return "Google account not connected. Please connect your Google account and try again."
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrSyncInProgress):
		return "A sync is already running for this account"
	default:
		return capitalize(err.Error())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
