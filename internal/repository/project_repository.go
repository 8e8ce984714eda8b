package repository

import (
	"github.com/yukikurage/albaranes-api/internal/database"
	"github.com/yukikurage/albaranes-api/internal/models"
	"github.com/yukikurage/albaranes-api/internal/utils"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *GormProjectRepository) FindVisible(id, userID uint64, company *string) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Scopes(database.OwnedBy(userID, company), database.NotDeleted()).
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) ListVisible(userID uint64, company *string, page utils.PaginationParams) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{}).
		Scopes(database.OwnedBy(userID, company), database.NotDeleted()).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.Order("id ASC").Scopes(database.Paginate(page)).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *GormProjectRepository) ListArchived(userID uint64, company *string) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Scopes(database.OwnedBy(userID, company), database.Archived()).
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) UpdateVisible(id, userID uint64, company *string, fields map[string]interface{}) (*models.Project, error) {
	result := r.db.Model(&models.Project{}).
		Scopes(database.OwnedBy(userID, company), database.NotDeleted()).
		Where("id = ?", id).
		Updates(fields)
	if err := checkFound(result); err != nil {
		return nil, err
	}
	return r.FindVisible(id, userID, company)
}

func (r *GormProjectRepository) SoftDelete(id uint64) error {
	result := r.db.Model(&models.Project{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	return checkFound(result)
}

func (r *GormProjectRepository) Restore(id, userID uint64, company *string) error {
	result := r.db.Model(&models.Project{}).
		Scopes(database.OwnedBy(userID, company), database.Archived()).
		Where("id = ?", id).
		Update("deleted", false)
	return checkFound(result)
}

func (r *GormProjectRepository) Delete(id, userID uint64, company *string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Scopes(database.OwnedBy(userID, company)).First(&project, id).Error; err != nil {
			return err
		}

		result := tx.
			Where("id = ?", id).
			Where("NOT EXISTS (?)", tx.Model(&models.Albaran{}).Select("1").Where("project_id = ?", id)).
			Delete(&models.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInUse
		}
		return nil
	})
}

func (r *GormProjectRepository) NameTaken(name string, userID, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Project{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
