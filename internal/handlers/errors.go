package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/albaranes-api/internal/constants"
	apierrors "github.com/yukikurage/albaranes-api/internal/errors"
	"github.com/yukikurage/albaranes-api/internal/services"
)

func init() {
	// Report validation failures by JSON field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondDomainError maps service error kinds to HTTP responses.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		apierrors.UnprocessableEntity(c, services.PublicMessage(err))
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, services.PublicMessage(err))
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, services.PublicMessage(err))
	case errors.Is(err, services.ErrDuplicate):
		apierrors.BadRequest(c, services.PublicMessage(err))
	case errors.Is(err, services.ErrConflict):
		apierrors.StateConflict(c, services.PublicMessage(err))
	case errors.Is(err, services.ErrStorage):
		logFailure(c, err)
		apierrors.StorageFailure(c, "Storage operation failed")
	default:
		logFailure(c, err)
		apierrors.InternalError(c, "Internal server error")
	}
}

// respondBindError reports malformed or invalid request bodies.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		apierrors.UnprocessableEntityWithDetails(c, "Validation failed", details)
		return
	}
	apierrors.UnprocessableEntity(c, "Invalid request body")
}

func logFailure(c *gin.Context, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString(constants.ContextKeyRequestID),
		"path":       c.Request.URL.Path,
	}).Error("request failed")
}
