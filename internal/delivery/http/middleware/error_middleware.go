package middleware

import (
	"errors"
	"net/http"
	"portfolio-contact-api/internal/delivery/http/response"
	"portfolio-contact-api/pkg/apperror"
	"portfolio-contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error pushed with c.Error. Classified errors
// keep their status and message; anything else becomes a 500 carrying the
// error text.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log := logger.FromContext(c.Request.Context())

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				log.Error("Request failed", zap.Int("status", appErr.Code), zap.Error(err), zap.NamedError("cause", appErr.Err))
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		log.Error("Unclassified error", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error: "+err.Error(), nil)
	}
}
