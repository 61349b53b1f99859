package praesidium

import (
	"errors"
	"time"
)

// CreateZoneDTO represents the request payload for creating a zone.
type CreateZoneDTO struct {
	Nom string `json:"nom"`
}

// Validate validates the CreateZoneDTO
func (dto CreateZoneDTO) Validate() error {
	if dto.Nom == "" {
		return errors.New("nom is required")
	}
	return nil
}

// CreatePraesidiumDTO represents the request payload for creating a praesidium.
type CreatePraesidiumDTO struct {
	Nom          string    `json:"nom"`
	ZoneID       int64     `json:"zone_id"`
	LieuReunion  string    `json:"lieu_reunion,omitempty"`
	JourReunion  string    `json:"jour_reunion,omitempty"`
	DateCreation time.Time `json:"date_creation"`
}

// Validate validates the CreatePraesidiumDTO
func (dto CreatePraesidiumDTO) Validate() error {
	if dto.Nom == "" {
		return errors.New("nom is required")
	}
	if dto.ZoneID <= 0 {
		return errors.New("zone_id is required")
	}
	return nil
}

// UpdatePraesidiumDTO carries the mutable praesidium fields.
type UpdatePraesidiumDTO struct {
	Nom         *string `json:"nom,omitempty"`
	LieuReunion *string `json:"lieu_reunion,omitempty"`
	JourReunion *string `json:"jour_reunion,omitempty"`
}

// Validate validates the UpdatePraesidiumDTO
func (dto UpdatePraesidiumDTO) Validate() error {
	if dto.Nom != nil && *dto.Nom == "" {
		return errors.New("nom cannot be empty")
	}
	if dto.Nom == nil && dto.LieuReunion == nil && dto.JourReunion == nil {
		return errors.New("no fields to update")
	}
	return nil
}
