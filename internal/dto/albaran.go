package dto

import (
	"time"

	"github.com/yukikurage/albaranes-api/internal/document"
	"github.com/yukikurage/albaranes-api/internal/models"
)

const dateLayout = "2006-01-02"

// AlbaranDTO represents a delivery note as stored
type AlbaranDTO struct {
	ID          uint64               `json:"id"`
	UserID      uint64               `json:"userId"`
	ClientID    uint64               `json:"clientId"`
	ProjectID   uint64               `json:"projectId"`
	Format      models.AlbaranFormat `json:"format"`
	Hours       *float64             `json:"hours,omitempty"`
	Material    *string              `json:"material,omitempty"`
	Description string               `json:"description"`
	Workdate    string               `json:"workdate"`
	Sign        *string              `json:"sign"`
	PDF         *string              `json:"pdf"`
	Pending     bool                 `json:"pending"`
	Deleted     bool                 `json:"deleted"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ClientSummaryDTO is the client projection embedded in delivery notes
type ClientSummaryDTO struct {
	ID      uint64 `json:"id,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
	CIF     string `json:"cif"`
}

// ProjectSummaryDTO is the project projection embedded in delivery note lists
type ProjectSummaryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// AlbaranListItemDTO represents a delivery note with its related records
type AlbaranListItemDTO struct {
	AlbaranDTO
	Client  ClientSummaryDTO  `json:"client"`
	Project ProjectSummaryDTO `json:"project"`
	User    UserSummaryDTO    `json:"user"`
}

// ConceptDTO is one billed concept of a delivery note
type ConceptDTO struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// AlbaranDetailDTO is the shape returned when fetching a single delivery note
type AlbaranDetailDTO struct {
	Company  *string              `json:"company"`
	Name     string               `json:"name"`
	Date     string               `json:"date"`
	Client   ClientSummaryDTO     `json:"client"`
	Project  string               `json:"project"`
	Format   models.AlbaranFormat `json:"format"`
	Concepts []ConceptDTO         `json:"concepts"`
	Photo    *string              `json:"photo"`
}

// SignResultDTO holds the references recorded by signing
type SignResultDTO struct {
	Sign string `json:"sign"`
	PDF  string `json:"pdf"`
}

// ToAlbaranDTO converts an Albaran model to AlbaranDTO
func ToAlbaranDTO(a models.Albaran) AlbaranDTO {
	return AlbaranDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		ClientID:    a.ClientID,
		ProjectID:   a.ProjectID,
		Format:      a.Format,
		Hours:       a.Hours,
		Material:    a.Material,
		Description: a.Description,
		Workdate:    a.Workdate.Format(dateLayout),
		Sign:        a.Sign,
		PDF:         a.PDF,
		Pending:     a.Pending,
		Deleted:     a.Deleted,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToAlbaranListItemDTO expects Client, Project and User to be loaded
func ToAlbaranListItemDTO(a models.Albaran) AlbaranListItemDTO {
	return AlbaranListItemDTO{
		AlbaranDTO: ToAlbaranDTO(a),
		Client: ClientSummaryDTO{
			ID:      a.Client.ID,
			Name:    a.Client.Name,
			Address: a.Client.Address,
			CIF:     a.Client.CIF,
		},
		Project: ProjectSummaryDTO{
			ID:   a.Project.ID,
			Name: a.Project.DisplayName(),
			Code: a.Project.Code,
		},
		User: ToUserSummaryDTO(a.User),
	}
}

// ToAlbaranDetailDTO expects Client, Project and User to be loaded
func ToAlbaranDetailDTO(a models.Albaran) AlbaranDetailDTO {
	concept := document.Concept(a, a.User)
	return AlbaranDetailDTO{
		Company: a.User.CompanyName,
		Name:    a.User.Name,
		Date:    a.Workdate.Format(dateLayout),
		Client: ClientSummaryDTO{
			Name:    a.Client.Name,
			Address: a.Client.Address,
			CIF:     a.Client.CIF,
		},
		Project: a.Project.DisplayName(),
		Format:  a.Format,
		Concepts: []ConceptDTO{
			{Description: a.Description, Value: concept.String()},
		},
		Photo: a.Sign,
	}
}
