package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opendoorspartners/odp-backend/internal/platform/apierr"
)

// Envelope is the success wrapper on every endpoint.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorEnvelope is the failure wrapper.
type ErrorEnvelope struct {
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Status: "success", Data: data})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Status:    "error",
		ErrorCode: code,
		Message:   msg,
	})
}

// RespondAppError unwraps an apierr.Error into its own status and code,
// defaulting to 500 INTERNAL_SERVER_ERROR for anything else.
func RespondAppError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := apiErr.Code
		if code == "" {
			code = apierr.CodeInternal
		}
		RespondError(c, status, code, apiErr.Err)
		return
	}
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, err)
}
