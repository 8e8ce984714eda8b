package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/albaranes-api/internal/auth"
	"github.com/yukikurage/albaranes-api/internal/middleware"
)

// Routes bundles the handlers and collaborators mounted by Register.
type Routes struct {
	Auth      *AuthHandler
	Clients   *ClientHandler
	Projects  *ProjectHandler
	Albaranes *AlbaranHandler

	Tokens *auth.TokenManager
	Users  middleware.UserLookup
}

// Register mounts every route on r. Session middleware must already be installed.
func (rt Routes) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Albaranes API is running",
		})
	})

	authenticated := []gin.HandlerFunc{middleware.RequireAuth(rt.Tokens), middleware.ResolvePrincipal(rt.Users)}

	r.GET("/albaranes/:file", append(authenticated, rt.Albaranes.GetArtifact)...)

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", rt.Auth.Register)
		users.POST("/login", rt.Auth.Login)
		users.POST("/logout", rt.Auth.Logout)
		users.GET("/me", middleware.RequireAuth(rt.Tokens), rt.Auth.GetCurrentUser)
	}

	protected := api.Group("")
	protected.Use(authenticated...)

	clients := protected.Group("/client")
	{
		clients.POST("", rt.Clients.CreateClient)
		clients.GET("", rt.Clients.ListClients)
		clients.GET("/archivados", rt.Clients.ListArchivedClients)
		clients.GET("/:id", rt.Clients.GetClient)
		clients.PUT("/:id", rt.Clients.UpdateClient)
		clients.PATCH("/:id/archivar", rt.Clients.ArchiveClient)
		clients.PATCH("/:id/recuperar", rt.Clients.RecoverClient)
		clients.DELETE("/:id", rt.Clients.DeleteClient)
	}

	projects := protected.Group("/project")
	{
		projects.POST("", rt.Projects.CreateProject)
		projects.GET("", rt.Projects.ListProjects)
		projects.GET("/archivados", rt.Projects.ListArchivedProjects)
		projects.GET("/:id", rt.Projects.GetProject)
		projects.PUT("/:id", rt.Projects.UpdateProject)
		projects.PATCH("/:id/archivar", rt.Projects.ArchiveProject)
		projects.PATCH("/:id/recuperar", rt.Projects.RecoverProject)
		projects.DELETE("/:id", rt.Projects.DeleteProject)
	}

	albaranes := protected.Group("/albaran")
	{
		albaranes.POST("", rt.Albaranes.CreateAlbaran)
		albaranes.GET("", rt.Albaranes.ListAlbaranes)
		albaranes.GET("/pdf/:id", rt.Albaranes.GetAlbaranPDF)
		albaranes.POST("/sign/:id", middleware.SignatureUpload(), rt.Albaranes.SignAlbaran)
		albaranes.GET("/:id", rt.Albaranes.GetAlbaran)
		albaranes.DELETE("/:id", rt.Albaranes.DeleteAlbaran)
	}
}
