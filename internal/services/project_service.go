package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/albaranes-api/internal/auth"
	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/repository"
	"github.com/yukikurage/albaranes-api/internal/utils"
	"gorm.io/gorm"
)

// ProjectService manages the client projects work is delivered against.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	clients     *ClientService
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, clients *ClientService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		clients:     clients,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	ClientID    uint64
	Name        string
	Code        string
	ProjectCode string
	Description string
}

// UpdateProjectInput represents a partial project update. Nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Code        *string
	ProjectCode *string
	Description *string
}

// Create stores a project under a client visible to the principal.
func (s *ProjectService) Create(p auth.Principal, input CreateProjectInput) (*models.Project, error) {
	if input.ClientID == 0 {
		return nil, ErrClientRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.clients.Get(input.ClientID, p); err != nil {
		return nil, err
	}
	if err := s.checkName(p, name, 0); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Code:        strings.TrimSpace(input.Code),
		ProjectCode: strings.TrimSpace(input.ProjectCode),
		Description: input.Description,
		ClientID:    input.ClientID,
		UserID:      p.UserID,
		Company:     p.Company,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// List returns a page of the projects visible to the principal.
func (s *ProjectService) List(p auth.Principal, page utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.ListVisible(p.UserID, p.Company, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// ListArchived returns the archived projects visible to the principal.
func (s *ProjectService) ListArchived(p auth.Principal) ([]models.Project, error) {
	projects, err := s.projectRepo.ListArchived(p.UserID, p.Company)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived projects: %w", err)
	}
	return projects, nil
}

// Get returns a project visible to the principal.
func (s *ProjectService) Get(id uint64, p auth.Principal) (*models.Project, error) {
	project, err := s.projectRepo.FindVisible(id, p.UserID, p.Company)
	if err != nil {
		return nil, projectLookupError(err, "find")
	}
	return project, nil
}

// Update changes the given fields of a visible, active project.
func (s *ProjectService) Update(id uint64, p auth.Principal, input UpdateProjectInput) (*models.Project, error) {
	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		if err := s.checkName(p, name, id); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	setTrimmed(fields, "code", input.Code)
	setTrimmed(fields, "project_code", input.ProjectCode)
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	if len(fields) == 0 {
		return s.Get(id, p)
	}
	project, err := s.projectRepo.UpdateVisible(id, p.UserID, p.Company, fields)
	if err != nil {
		return nil, projectLookupError(err, "update")
	}
	return project, nil
}

// Archive hides a project.
func (s *ProjectService) Archive(id uint64, p auth.Principal) (*models.Project, error) {
	project, err := s.Get(id, p)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.SoftDelete(id); err != nil {
		return nil, projectLookupError(err, "archive")
	}
	project.Deleted = true
	return project, nil
}

// Recover brings an archived project back.
func (s *ProjectService) Recover(id uint64, p auth.Principal) (*models.Project, error) {
	if err := s.projectRepo.Restore(id, p.UserID, p.Company); err != nil {
		return nil, projectLookupError(err, "recover")
	}
	return s.Get(id, p)
}

// Delete removes a project permanently unless delivery notes reference it.
func (s *ProjectService) Delete(id uint64, p auth.Principal) error {
	if err := s.projectRepo.Delete(id, p.UserID, p.Company); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return ErrProjectInUse
		}
		return projectLookupError(err, "delete")
	}
	return nil
}

// checkName rejects a name the principal already uses for another project.
func (s *ProjectService) checkName(p auth.Principal, name string, excludeID uint64) error {
	taken, err := s.projectRepo.NameTaken(name, p.UserID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	if taken {
		return ErrProjectNameTaken
	}
	return nil
}

func projectLookupError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	return fmt.Errorf("failed to %s project: %w", op, err)
}
