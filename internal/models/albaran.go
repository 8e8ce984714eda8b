package models

import (
	"time"

	"github.com/yukikurage/albaranes-api/internal/constants"
)

type AlbaranFormat string

const (
	FormatHours    AlbaranFormat = "hours"
	FormatMaterial AlbaranFormat = "material"
)

// Valid reports whether f is a known format.
func (f AlbaranFormat) Valid() bool {
	return f == FormatHours || f == FormatMaterial
}

// Albaran is a delivery note recording hours or material delivered to a client project.
// Sign and PDF are written together by the signing flow. Signing marks a sign in progress
// started at SigningAt.
type Albaran struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	UserID      uint64        `gorm:"not null;index" json:"userId"`
	ClientID    uint64        `gorm:"not null;index" json:"clientId"`
	ProjectID   uint64        `gorm:"not null;index" json:"projectId"`
	Format      AlbaranFormat `gorm:"type:varchar(20);not null" json:"format"`
	Hours       *float64      `json:"hours,omitempty"`
	Material    *string       `gorm:"type:varchar(255)" json:"material,omitempty"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Workdate    time.Time     `gorm:"not null" json:"workdate"`
	Sign        *string       `gorm:"type:varchar(512)" json:"sign"`
	PDF         *string       `gorm:"column:pdf;type:varchar(512)" json:"pdf"`
	Pending     bool          `gorm:"not null;default:true" json:"pending"`
	Signing     bool          `gorm:"not null;default:false" json:"-"`
	SigningAt   *time.Time    `json:"-"`
	Deleted     bool          `gorm:"not null;default:false" json:"deleted"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Client  Client  `gorm:"foreignKey:ClientID" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// IsSigned reports whether the note carries a signature reference.
func (a Albaran) IsSigned() bool {
	return a.Sign != nil
}

// SigningActive reports whether a sign claim is held and has not expired at now.
func (a Albaran) SigningActive(now time.Time) bool {
	if !a.Signing || a.SigningAt == nil {
		return false
	}
	return now.Sub(*a.SigningAt) < constants.SigningClaimTTL
}

func (Albaran) TableName() string {
	return "albaranes"
}
