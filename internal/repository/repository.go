package repository

import (
	"errors"

	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/utils"
)

var (
	// ErrStaleAlbaran is returned when a guarded update matched no row because the note
	// was signed, claimed for signing or removed in the meantime.
	ErrStaleAlbaran = errors.New("albaran repository: note changed concurrently")

	// ErrInUse is returned when a hard delete is refused because other rows still reference the record.
	ErrInUse = errors.New("repository: record is still referenced")
)

// AlbaranRepository defines the interface for delivery note data access
type AlbaranRepository interface {
	// Create creates a new delivery note
	Create(albaran *models.Albaran) error

	// FindByID finds a non-deleted delivery note by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Albaran, error)

	// ListByOwner lists the non-deleted notes created by userID with client, project and owner loaded
	ListByOwner(userID uint64) ([]models.Albaran, error)

	// Delete removes an unsigned note permanently
	Delete(id uint64) error

	// SoftDelete flags an unsigned note as deleted
	SoftDelete(id uint64) error

	// ClaimSigning marks an unsigned note as being signed. Claims older than
	// constants.SigningClaimTTL are taken over. It returns ErrStaleAlbaran when another
	// request holds a live claim or the note is already signed.
	ClaimSigning(id, userID uint64) error

	// ReleaseSigning drops a claim taken by ClaimSigning
	ReleaseSigning(id uint64) error

	// CompleteSigning stores the signature and document references and clears the claim in one update
	CompleteSigning(id uint64, sign, pdf string) error
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	// Create creates a new client
	Create(client *models.Client) error

	// FindVisible finds a non-deleted client owned by userID or tagged with company
	FindVisible(id, userID uint64, company *string) (*models.Client, error)

	// ListVisible lists non-deleted clients visible to the principal
	ListVisible(userID uint64, company *string, page utils.PaginationParams) ([]models.Client, int64, error)

	// ListArchived lists the soft-deleted clients visible to the principal
	ListArchived(userID uint64, company *string) ([]models.Client, error)

	// UpdateVisible applies fields to a non-deleted visible client and returns the stored row
	UpdateVisible(id, userID uint64, company *string, fields map[string]interface{}) (*models.Client, error)

	// SoftDelete flags a non-deleted client as deleted
	SoftDelete(id uint64) error

	// Restore clears the deleted flag of an archived client visible to the principal
	Restore(id, userID uint64, company *string) error

	// Delete removes a visible client permanently. Referenced clients fail with ErrInUse.
	Delete(id, userID uint64, company *string) error

	// EmailTaken reports whether a visible client other than excludeID uses email
	EmailTaken(email string, userID uint64, company *string, excludeID uint64) (bool, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindVisible finds a non-deleted project owned by userID or tagged with company
	FindVisible(id, userID uint64, company *string) (*models.Project, error)

	// ListVisible lists non-deleted projects visible to the principal
	ListVisible(userID uint64, company *string, page utils.PaginationParams) ([]models.Project, int64, error)

	// ListArchived lists the soft-deleted projects visible to the principal
	ListArchived(userID uint64, company *string) ([]models.Project, error)

	// UpdateVisible applies fields to a non-deleted visible project and returns the stored row
	UpdateVisible(id, userID uint64, company *string, fields map[string]interface{}) (*models.Project, error)

	// SoftDelete flags a non-deleted project as deleted
	SoftDelete(id uint64) error

	// Restore clears the deleted flag of an archived project visible to the principal
	Restore(id, userID uint64, company *string) error

	// Delete removes a visible project permanently. Referenced projects fail with ErrInUse.
	Delete(id, userID uint64, company *string) error

	// NameTaken reports whether userID owns a project other than excludeID called name
	NameTaken(name string, userID, excludeID uint64) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
