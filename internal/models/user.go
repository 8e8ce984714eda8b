package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CompanyName  *string   `gorm:"type:varchar(255)" json:"companyName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Clients  []Client  `gorm:"foreignKey:UserID" json:"-"`
	Projects []Project `gorm:"foreignKey:UserID" json:"-"`
	Albarans []Albaran `gorm:"foreignKey:UserID" json:"-"`
}
