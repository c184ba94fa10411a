package utils

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
)

// WriteError renders any service error as the uniform envelope
// {statusCode, error, message, timestamp, path}. Internal causes are logged
// server-side and never reach the client.
func WriteError(ctx *gin.Context, err error) {
	var appErr *apperrors.Error

	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}

	if errors.Is(appErr, apperrors.ErrInternal) {
		log.Printf("internal error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, appErr.Unwrap())
	}

	body := gin.H{
		"statusCode": appErr.Status(),
		"error":      appErr.Name(),
		"message":    appErr.Message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       ctx.Request.URL.Path,
	}

	if appErr.Details != nil {
		body["details"] = appErr.Details
	}

	ctx.JSON(appErr.Status(), body)
}
