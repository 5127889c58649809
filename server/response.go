package server

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/transcriber/errors"
)

// RespondWithError classifies err and writes its status and JSON body.
// Untagged errors become a 500 of kind "unknown".
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Classify(err)
	if appErr == nil {
		appErr = apperrors.Unknown(nil)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
