package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/albaranes-api/internal/auth"
	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/repository"
	"gorm.io/gorm"
)

const workdateLayout = "2006-01-02"

// AlbaranService handles the delivery note lifecycle apart from signing.
type AlbaranService struct {
	albaranRepo repository.AlbaranRepository
	clients     *ClientService
	projects    *ProjectService
}

// NewAlbaranService creates a new AlbaranService
func NewAlbaranService(albaranRepo repository.AlbaranRepository, clients *ClientService, projects *ProjectService) *AlbaranService {
	return &AlbaranService{
		albaranRepo: albaranRepo,
		clients:     clients,
		projects:    projects,
	}
}

// CreateAlbaranInput represents input for creating a delivery note
type CreateAlbaranInput struct {
	ClientID    uint64
	ProjectID   uint64
	Format      models.AlbaranFormat
	Hours       *float64
	Material    *string
	Description string
	Workdate    string
}

// Create validates and stores a new unsigned note owned by the principal.
// Client and project must be visible to the principal and the project must belong to the client.
func (s *AlbaranService) Create(p auth.Principal, input CreateAlbaranInput) (*models.Albaran, error) {
	albaran, err := buildAlbaran(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.clients.Get(input.ClientID, p); err != nil {
		return nil, err
	}
	project, err := s.projects.Get(input.ProjectID, p)
	if err != nil {
		return nil, err
	}
	if project.ClientID != input.ClientID {
		return nil, ErrProjectClient
	}

	albaran.UserID = p.UserID
	if err := s.albaranRepo.Create(albaran); err != nil {
		return nil, fmt.Errorf("failed to create albaran: %w", err)
	}
	return albaran, nil
}

func buildAlbaran(input CreateAlbaranInput) (*models.Albaran, error) {
	if !input.Format.Valid() {
		return nil, ErrFormatInvalid
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	workdate, err := parseWorkdate(input.Workdate)
	if err != nil {
		return nil, err
	}
	if input.ClientID == 0 {
		return nil, ErrClientRequired
	}
	if input.ProjectID == 0 {
		return nil, ErrProjectRequired
	}

	albaran := &models.Albaran{
		ClientID:    input.ClientID,
		ProjectID:   input.ProjectID,
		Format:      input.Format,
		Description: description,
		Workdate:    workdate,
		Pending:     true,
	}

	// Only the field selected by the format is stored.
	switch input.Format {
	case models.FormatHours:
		if input.Hours == nil || *input.Hours <= 0 {
			return nil, ErrHoursRequired
		}
		hours := *input.Hours
		albaran.Hours = &hours
	case models.FormatMaterial:
		if input.Material == nil || strings.TrimSpace(*input.Material) == "" {
			return nil, ErrMaterialRequired
		}
		material := strings.TrimSpace(*input.Material)
		albaran.Material = &material
	}
	return albaran, nil
}

func parseWorkdate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrWorkdateRequired
	}
	if t, err := time.Parse(workdateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ErrWorkdateInvalid
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// List returns the principal's own non-deleted notes with client, project and owner loaded.
func (s *AlbaranService) List(p auth.Principal) ([]models.Albaran, error) {
	albaranes, err := s.albaranRepo.ListByOwner(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albaranes: %w", err)
	}
	return albaranes, nil
}

// Get returns one note with client, project and owner loaded. Only the creator may read it.
func (s *AlbaranService) Get(id uint64, p auth.Principal) (*models.Albaran, error) {
	return s.findOwned(id, p, "Client", "Project", "User")
}

// Delete removes an unsigned note permanently.
func (s *AlbaranService) Delete(id uint64, p auth.Principal) error {
	return s.remove(id, p, s.albaranRepo.Delete)
}

// SoftDelete hides an unsigned note. It is gated exactly like Delete.
func (s *AlbaranService) SoftDelete(id uint64, p auth.Principal) error {
	return s.remove(id, p, s.albaranRepo.SoftDelete)
}

func (s *AlbaranService) remove(id uint64, p auth.Principal, op func(uint64) error) error {
	albaran, err := s.findOwned(id, p)
	if err != nil {
		return err
	}
	if albaran.IsSigned() {
		return ErrAlbaranSigned
	}
	if albaran.SigningActive(time.Now().UTC()) {
		return ErrSignInProgress
	}

	if err := op(id); err != nil {
		if errors.Is(err, repository.ErrStaleAlbaran) {
			return ErrAlbaranChanged
		}
		return fmt.Errorf("failed to delete albaran: %w", err)
	}
	return nil
}

// findOwned loads a note and checks that p created it.
func (s *AlbaranService) findOwned(id uint64, p auth.Principal, preload ...string) (*models.Albaran, error) {
	albaran, err := s.albaranRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbaranNotFound
		}
		return nil, fmt.Errorf("failed to find albaran: %w", err)
	}
	if albaran.UserID != p.UserID {
		return nil, ErrNotAlbaranOwner
	}
	return albaran, nil
}
