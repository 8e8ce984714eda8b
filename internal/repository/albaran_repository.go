package repository

import (
	"time"

	"github.com/yukikurage/albaranes-api/internal/constants"
	"github.com/yukikurage/albaranes-api/internal/database"
	"github.com/yukikurage/albaranes-api/internal/models"
	"gorm.io/gorm"
)

// GormAlbaranRepository is a GORM implementation of AlbaranRepository
type GormAlbaranRepository struct {
	db *gorm.DB
}

// NewAlbaranRepository creates a new AlbaranRepository
func NewAlbaranRepository(db *gorm.DB) AlbaranRepository {
	return &GormAlbaranRepository{db: db}
}

// Create creates a new delivery note
func (r *GormAlbaranRepository) Create(albaran *models.Albaran) error {
	return r.db.Create(albaran).Error
}

// FindByID finds a non-deleted delivery note by ID with optional preloading
func (r *GormAlbaranRepository) FindByID(id uint64, preload ...string) (*models.Albaran, error) {
	var albaran models.Albaran
	query := r.db.Scopes(database.NotDeleted())

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&albaran, id).Error; err != nil {
		return nil, err
	}

	return &albaran, nil
}

// ListByOwner lists the non-deleted notes created by userID
func (r *GormAlbaranRepository) ListByOwner(userID uint64) ([]models.Albaran, error) {
	var albaranes []models.Albaran
	err := r.db.
		Scopes(database.OwnedByUser(userID), database.NotDeleted()).
		Preload("Client").
		Preload("Project").
		Preload("User").
		Order("id ASC").
		Find(&albaranes).Error
	if err != nil {
		return nil, err
	}
	return albaranes, nil
}

// unclaimed matches notes with no sign claim or with one that expired before cutoff.
const unclaimed = "(signing = ? OR signing_at IS NULL OR signing_at < ?)"

func claimCutoff() time.Time {
	return time.Now().UTC().Add(-constants.SigningClaimTTL)
}

// Delete removes an unsigned note permanently
func (r *GormAlbaranRepository) Delete(id uint64) error {
	result := r.db.
		Where("id = ? AND sign IS NULL AND "+unclaimed, id, false, claimCutoff()).
		Delete(&models.Albaran{})
	return checkGuarded(result)
}

// SoftDelete flags an unsigned note as deleted
func (r *GormAlbaranRepository) SoftDelete(id uint64) error {
	result := r.db.Model(&models.Albaran{}).
		Where("id = ? AND sign IS NULL AND deleted = ? AND "+unclaimed, id, false, false, claimCutoff()).
		Update("deleted", true)
	return checkGuarded(result)
}

// ClaimSigning marks an unsigned note as being signed. An expired claim is taken over.
func (r *GormAlbaranRepository) ClaimSigning(id, userID uint64) error {
	now := time.Now().UTC()
	result := r.db.Model(&models.Albaran{}).
		Where("id = ? AND user_id = ? AND sign IS NULL AND deleted = ? AND "+unclaimed,
			id, userID, false, false, now.Add(-constants.SigningClaimTTL)).
		Updates(map[string]interface{}{
			"signing":    true,
			"signing_at": now,
		})
	return checkGuarded(result)
}

// ReleaseSigning drops a claim taken by ClaimSigning
func (r *GormAlbaranRepository) ReleaseSigning(id uint64) error {
	return r.db.Model(&models.Albaran{}).
		Where("id = ? AND signing = ?", id, true).
		Updates(map[string]interface{}{
			"signing":    false,
			"signing_at": nil,
		}).Error
}

// CompleteSigning stores both references and clears the claim in a single update
func (r *GormAlbaranRepository) CompleteSigning(id uint64, sign, pdf string) error {
	result := r.db.Model(&models.Albaran{}).
		Where("id = ? AND signing = ? AND sign IS NULL", id, true).
		Updates(map[string]interface{}{
			"sign":       sign,
			"pdf":        pdf,
			"pending":    false,
			"signing":    false,
			"signing_at": nil,
		})
	return checkGuarded(result)
}

func checkGuarded(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleAlbaran
	}
	return nil
}
