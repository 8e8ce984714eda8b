package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/albaranes-api/internal/auth"
	apierrors "github.com/yukikurage/albaranes-api/internal/errors"
	"github.com/yukikurage/albaranes-api/internal/middleware"
)

func requirePrincipal(c *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return auth.Principal{}, false
	}
	return p, true
}

// idParam parses the :id path parameter. Malformed ids answer 404 with the given message.
func idParam(c *gin.Context, notFound string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.NotFound(c, notFound)
		return 0, false
	}
	return id, true
}
