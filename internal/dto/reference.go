package dto

import (
	"time"

	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/utils"
)

// ClientDTO represents a client in API responses
type ClientDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contactEmail"`
	Phone        string    `json:"phone"`
	CIF          string    `json:"cif"`
	Address      string    `json:"address"`
	UserID       uint64    `json:"userId"`
	Company      *string   `json:"company"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	ProjectCode string    `json:"projectCode"`
	Description string    `json:"description"`
	ClientID    uint64    `json:"clientId"`
	UserID      uint64    `json:"userId"`
	Company     *string   `json:"company"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClientListResponse represents a paginated list of clients
type ClientListResponse struct {
	Clients    []ClientDTO              `json:"clients"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToClientDTO converts a Client model to ClientDTO
func ToClientDTO(client models.Client) ClientDTO {
	return ClientDTO{
		ID:           client.ID,
		Name:         client.Name,
		ContactEmail: client.ContactEmail,
		Phone:        client.Phone,
		CIF:          client.CIF,
		Address:      client.Address,
		UserID:       client.UserID,
		Company:      client.Company,
		Deleted:      client.Deleted,
		CreatedAt:    client.CreatedAt,
	}
}

// ToClientDTOs converts a slice of clients, never returning nil
func ToClientDTOs(clients []models.Client) []ClientDTO {
	items := make([]ClientDTO, 0, len(clients))
	for _, client := range clients {
		items = append(items, ToClientDTO(client))
	}
	return items
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Code:        project.Code,
		ProjectCode: project.ProjectCode,
		Description: project.Description,
		ClientID:    project.ClientID,
		UserID:      project.UserID,
		Company:     project.Company,
		Deleted:     project.Deleted,
		CreatedAt:   project.CreatedAt,
	}
}

// ToProjectDTOs converts a slice of projects, never returning nil
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	items := make([]ProjectDTO, 0, len(projects))
	for _, project := range projects {
		items = append(items, ToProjectDTO(project))
	}
	return items
}
