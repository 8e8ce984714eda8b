package repository

import (
	"github.com/yukikurage/albaranes-api/internal/database"
	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/utils"
	"gorm.io/gorm"
)

// GormClientRepository is a GORM implementation of ClientRepository
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

func (r *GormClientRepository) FindVisible(id, userID uint64, company *string) (*models.Client, error) {
	var client models.Client
	err := r.db.
		Scopes(database.OwnedBy(userID, company), database.NotDeleted()).
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *GormClientRepository) ListVisible(userID uint64, company *string, page utils.PaginationParams) ([]models.Client, int64, error) {
	query := r.db.Model(&models.Client{}).
		Scopes(database.OwnedBy(userID, company), database.NotDeleted()).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []models.Client
	if err := query.Order("id ASC").Scopes(database.Paginate(page)).Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *GormClientRepository) ListArchived(userID uint64, company *string) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.
		Scopes(database.OwnedBy(userID, company), database.Archived()).
		Order("id ASC").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *GormClientRepository) UpdateVisible(id, userID uint64, company *string, fields map[string]interface{}) (*models.Client, error) {
	result := r.db.Model(&models.Client{}).
		Scopes(database.OwnedBy(userID, company), database.NotDeleted()).
		Where("id = ?", id).
		Updates(fields)
	if err := checkFound(result); err != nil {
		return nil, err
	}
	return r.FindVisible(id, userID, company)
}

func (r *GormClientRepository) SoftDelete(id uint64) error {
	result := r.db.Model(&models.Client{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	return checkFound(result)
}

func (r *GormClientRepository) Restore(id, userID uint64, company *string) error {
	result := r.db.Model(&models.Client{}).
		Scopes(database.OwnedBy(userID, company), database.Archived()).
		Where("id = ?", id).
		Update("deleted", false)
	return checkFound(result)
}

func (r *GormClientRepository) Delete(id, userID uint64, company *string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.Scopes(database.OwnedBy(userID, company)).First(&client, id).Error; err != nil {
			return err
		}

		result := tx.
			Where("id = ?", id).
			Where("NOT EXISTS (?)", tx.Model(&models.Project{}).Select("1").Where("client_id = ?", id)).
			Where("NOT EXISTS (?)", tx.Model(&models.Albaran{}).Select("1").Where("client_id = ?", id)).
			Delete(&models.Client{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInUse
		}
		return nil
	})
}

func (r *GormClientRepository) EmailTaken(email string, userID uint64, company *string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Client{}).
		Scopes(database.OwnedBy(userID, company)).
		Where("contact_email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// checkFound turns an update that matched no row into gorm.ErrRecordNotFound.
func checkFound(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
