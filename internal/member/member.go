package member

import (
	"time"
)

const (
	StatutProbationnaire = "probationnaire"
	StatutActif          = "actif"
	StatutInactif        = "inactif"
)

// Member is a rank-and-file member of a praesidium. Probationary members
// become active through promotion; nobody is hard-deleted.
type Member struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Nom          string     `json:"nom" gorm:"not null"`
	Email        string     `json:"email,omitempty"`
	Telephone    string     `json:"telephone,omitempty"`
	PraesidiumID int64      `json:"praesidium_id" gorm:"column:praesidium_id;not null;index"`
	Statut       string     `json:"statut" gorm:"default:probationnaire"`
	DateAdhesion time.Time  `json:"date_adhesion" gorm:"column:date_adhesion;type:date"`
	Actif        bool       `json:"actif" gorm:"default:true"`
	PromotedAt   *time.Time `json:"promoted_at,omitempty" gorm:"column:promoted_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) IsProbationary() bool {
	return m.Statut == StatutProbationnaire && m.Actif
}

// Officer holds an elected post for a bounded term (mandate).
type Officer struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Nom             string    `json:"nom" gorm:"not null"`
	Poste           string    `json:"poste" gorm:"not null"`
	PraesidiumID    *int64    `json:"praesidium_id,omitempty" gorm:"column:praesidium_id"`
	DateDebutMandat time.Time `json:"date_debut_mandat" gorm:"column:date_debut_mandat;type:date"`
	DateFinMandat   time.Time `json:"date_fin_mandat" gorm:"column:date_fin_mandat;type:date"`
	Actif           bool      `json:"actif" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Officer) TableName() string {
	return "officers"
}
