package models

import "time"

type Client struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contactEmail"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	CIF          string    `gorm:"type:varchar(50)" json:"cif"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	UserID       uint64    `gorm:"not null;index" json:"userId"`
	Company      *string   `gorm:"type:varchar(255);index" json:"company"`
	Deleted      bool      `gorm:"not null;default:false" json:"deleted"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
