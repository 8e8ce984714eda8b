package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Code        string    `gorm:"type:varchar(100)" json:"code"`
	ProjectCode string    `gorm:"type:varchar(100)" json:"projectCode"`
	Description string    `gorm:"type:text" json:"description"`
	ClientID    uint64    `gorm:"not null;index" json:"clientId"`
	UserID      uint64    `gorm:"not null;index" json:"userId"`
	Company     *string   `gorm:"type:varchar(255);index" json:"company"`
	Deleted     bool      `gorm:"not null;default:false" json:"deleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Client Client `gorm:"foreignKey:ClientID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// DisplayName returns the first non-empty identifier of the project.
func (p Project) DisplayName() string {
	for _, s := range []string{p.Name, p.Code, p.ProjectCode} {
		if s != "" {
			return s
		}
	}
	return ""
}
