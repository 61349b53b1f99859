package praesidium

import (
	"time"
)

// Zone groups praesidia geographically under the council.
type Zone struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Nom       string    `json:"nom" gorm:"not null;uniqueIndex"`
	Actif     bool      `json:"actif" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Zone) TableName() string {
	return "zones"
}

// Praesidium is a local unit attached to a zone. Members and praesidium
// officers belong to exactly one praesidium.
type Praesidium struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Nom          string    `json:"nom" gorm:"not null"`
	ZoneID       int64     `json:"zone_id" gorm:"column:zone_id;not null;index"`
	LieuReunion  string    `json:"lieu_reunion,omitempty" gorm:"column:lieu_reunion"`
	JourReunion  string    `json:"jour_reunion,omitempty" gorm:"column:jour_reunion"`
	DateCreation time.Time `json:"date_creation" gorm:"column:date_creation;type:date"`
	Actif        bool      `json:"actif" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Praesidium) TableName() string {
	return "praesidia"
}
