package handlers

import (
	"errors"
	"net/http"

	"gclient/services/invoice"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger set by middleware.RequestLogger,
// or the global logger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// respondInvoiceError writes a workflow error with the status its kind maps to.
func respondInvoiceError(c *gin.Context, err error) {
	kind := invoice.KindOf(err)
	msg := "Internal server error"
	var e *invoice.Error
	if errors.As(err, &e) {
		msg = e.Message
	}

	status := kind.StatusCode()
	logger := getLogger(c)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.String("kind", kind.String()), zap.Error(err))
	} else {
		logger.Warn(msg, zap.String("kind", kind.String()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, utils.ErrorResponse{Success: false, Message: msg})
}
