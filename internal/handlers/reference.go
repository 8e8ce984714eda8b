package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/albaranes-api/internal/dto"
	"github.com/yukikurage/albaranes-api/internal/services"
	"github.com/yukikurage/albaranes-api/internal/utils"
)

const (
	clientNotFound  = "client not found"
	projectNotFound = "project not found"
)

// ClientHandler serves the client endpoints.
type ClientHandler struct {
	clients *services.ClientService
}

func NewClientHandler(clients *services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	type CreateClientRequest struct {
		Name         string `json:"name" binding:"required,max=255"`
		ContactEmail string `json:"contactEmail" binding:"omitempty,email"`
		Phone        string `json:"phone" binding:"omitempty,max=50"`
		CIF          string `json:"cif" binding:"omitempty,max=50"`
		Address      string `json:"address" binding:"omitempty,max=255"`
	}

	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	client, err := h.clients.Create(p, services.CreateClientInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		CIF:          req.CIF,
		Address:      req.Address,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToClientDTO(*client))
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	clients, total, err := h.clients.List(p, params)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClientListResponse{
		Clients:    dto.ToClientDTOs(clients),
		Pagination: utils.PaginationResponse{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// ListArchivedClients returns every archived client visible to the caller
func (h *ClientHandler) ListArchivedClients(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}

	clients, err := h.clients.ListArchived(p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": dto.ToClientDTOs(clients)})
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, clientNotFound)
	if !ok {
		return
	}

	client, err := h.clients.Get(id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClientDTO(*client))
}

// UpdateClient changes the fields present in the body
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	type UpdateClientRequest struct {
		Name         *string `json:"name" binding:"omitempty,max=255"`
		ContactEmail *string `json:"contactEmail" binding:"omitempty,email"`
		Phone        *string `json:"phone" binding:"omitempty,max=50"`
		CIF          *string `json:"cif" binding:"omitempty,max=50"`
		Address      *string `json:"address" binding:"omitempty,max=255"`
	}

	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, clientNotFound)
	if !ok {
		return
	}
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	client, err := h.clients.Update(id, p, services.UpdateClientInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
		CIF:          req.CIF,
		Address:      req.Address,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClientDTO(*client))
}

func (h *ClientHandler) ArchiveClient(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, clientNotFound)
	if !ok {
		return
	}

	client, err := h.clients.Archive(id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Client archived successfully",
		"client":  dto.ToClientDTO(*client),
	})
}

func (h *ClientHandler) RecoverClient(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, clientNotFound)
	if !ok {
		return
	}

	client, err := h.clients.Recover(id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Client recovered successfully",
		"client":  dto.ToClientDTO(*client),
	})
}

// DeleteClient removes a client permanently
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, clientNotFound)
	if !ok {
		return
	}

	if err := h.clients.Delete(id, p); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted permanently"})
}

// ProjectHandler serves the project endpoints.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		ClientID    uint64 `json:"clientId" binding:"required"`
		Name        string `json:"name" binding:"required,max=255"`
		Code        string `json:"code" binding:"omitempty,max=100"`
		ProjectCode string `json:"projectCode" binding:"omitempty,max=100"`
		Description string `json:"description"`
	}

	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projects.Create(p, services.CreateProjectInput{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Code:        req.Code,
		ProjectCode: req.ProjectCode,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	projects, total, err := h.projects.List(p, params)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects:   dto.ToProjectDTOs(projects),
		Pagination: utils.PaginationResponse{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

func (h *ProjectHandler) ListArchivedProjects(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}

	projects, err := h.projects.ListArchived(p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects)})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, projectNotFound)
	if !ok {
		return
	}

	project, err := h.projects.Get(id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Code        *string `json:"code" binding:"omitempty,max=100"`
		ProjectCode *string `json:"projectCode" binding:"omitempty,max=100"`
		Description *string `json:"description"`
	}

	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, projectNotFound)
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projects.Update(id, p, services.UpdateProjectInput{
		Name:        req.Name,
		Code:        req.Code,
		ProjectCode: req.ProjectCode,
		Description: req.Description,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) ArchiveProject(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, projectNotFound)
	if !ok {
		return
	}

	project, err := h.projects.Archive(id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Project archived successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

func (h *ProjectHandler) RecoverProject(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, projectNotFound)
	if !ok {
		return
	}

	project, err := h.projects.Recover(id, p)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Project recovered successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

// DeleteProject removes a project permanently
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	p, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, projectNotFound)
	if !ok {
		return
	}

	if err := h.projects.Delete(id, p); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted permanently"})
}
