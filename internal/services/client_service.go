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

// ClientService manages the clients delivery notes are issued to.
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClientInput represents input for creating a client
type CreateClientInput struct {
	Name         string
	ContactEmail string
	Phone        string
	CIF          string
	Address      string
}

// UpdateClientInput represents a partial client update. Nil fields are left unchanged.
type UpdateClientInput struct {
	Name         *string
	ContactEmail *string
	Phone        *string
	CIF          *string
	Address      *string
}

// Create stores a client owned by the principal and tagged with its company.
func (s *ClientService) Create(p auth.Principal, input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(input.ContactEmail)
	if err := s.checkEmail(p, email, 0); err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:         name,
		ContactEmail: email,
		Phone:        strings.TrimSpace(input.Phone),
		CIF:          strings.TrimSpace(input.CIF),
		Address:      strings.TrimSpace(input.Address),
		UserID:       p.UserID,
		Company:      p.Company,
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// List returns a page of the clients visible to the principal.
func (s *ClientService) List(p auth.Principal, page utils.PaginationParams) ([]models.Client, int64, error) {
	clients, total, err := s.clientRepo.ListVisible(p.UserID, p.Company, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, total, nil
}

// ListArchived returns the archived clients visible to the principal.
func (s *ClientService) ListArchived(p auth.Principal) ([]models.Client, error) {
	clients, err := s.clientRepo.ListArchived(p.UserID, p.Company)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived clients: %w", err)
	}
	return clients, nil
}

// Get returns a client visible to the principal.
func (s *ClientService) Get(id uint64, p auth.Principal) (*models.Client, error) {
	client, err := s.clientRepo.FindVisible(id, p.UserID, p.Company)
	if err != nil {
		return nil, clientLookupError(err, "find")
	}
	return client, nil
}

// Update changes the given fields of a visible, active client.
func (s *ClientService) Update(id uint64, p auth.Principal, input UpdateClientInput) (*models.Client, error) {
	fields := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		fields["name"] = name
	}
	if input.ContactEmail != nil {
		email := strings.TrimSpace(*input.ContactEmail)
		if err := s.checkEmail(p, email, id); err != nil {
			return nil, err
		}
		fields["contact_email"] = email
	}
	setTrimmed(fields, "phone", input.Phone)
	setTrimmed(fields, "cif", input.CIF)
	setTrimmed(fields, "address", input.Address)

	if len(fields) == 0 {
		return s.Get(id, p)
	}
	client, err := s.clientRepo.UpdateVisible(id, p.UserID, p.Company, fields)
	if err != nil {
		return nil, clientLookupError(err, "update")
	}
	return client, nil
}

// Archive hides a client. Existing delivery notes keep their reference.
func (s *ClientService) Archive(id uint64, p auth.Principal) (*models.Client, error) {
	client, err := s.Get(id, p)
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.SoftDelete(id); err != nil {
		return nil, clientLookupError(err, "archive")
	}
	client.Deleted = true
	return client, nil
}

// Recover brings an archived client back.
func (s *ClientService) Recover(id uint64, p auth.Principal) (*models.Client, error) {
	if err := s.clientRepo.Restore(id, p.UserID, p.Company); err != nil {
		return nil, clientLookupError(err, "recover")
	}
	return s.Get(id, p)
}

// Delete removes a client permanently. Clients with projects or delivery notes are kept.
func (s *ClientService) Delete(id uint64, p auth.Principal) error {
	if err := s.clientRepo.Delete(id, p.UserID, p.Company); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return ErrClientInUse
		}
		return clientLookupError(err, "delete")
	}
	return nil
}

// checkEmail rejects a contact email already used by another client visible to p.
func (s *ClientService) checkEmail(p auth.Principal, email string, excludeID uint64) error {
	if email == "" {
		return nil
	}
	taken, err := s.clientRepo.EmailTaken(email, p.UserID, p.Company, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check client email: %w", err)
	}
	if taken {
		return ErrClientEmailTaken
	}
	return nil
}

func clientLookupError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrClientNotFound
	}
	return fmt.Errorf("failed to %s client: %w", op, err)
}

func setTrimmed(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = strings.TrimSpace(*value)
	}
}
