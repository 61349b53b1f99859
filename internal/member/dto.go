package member

import (
	"errors"
	"time"
)

// CreateMemberDTO represents the request payload for registering a member.
type CreateMemberDTO struct {
	Nom          string    `json:"nom"`
	Email        string    `json:"email,omitempty"`
	Telephone    string    `json:"telephone,omitempty"`
	PraesidiumID int64     `json:"praesidium_id"`
	DateAdhesion time.Time `json:"date_adhesion"`
}

// Validate validates the CreateMemberDTO
func (dto CreateMemberDTO) Validate() error {
	if dto.Nom == "" {
		return errors.New("nom is required")
	}
	if dto.PraesidiumID <= 0 {
		return errors.New("praesidium_id is required")
	}
	if dto.DateAdhesion.IsZero() {
		return errors.New("date_adhesion is required")
	}
	if dto.DateAdhesion.After(time.Now()) {
		return errors.New("date_adhesion cannot be in the future")
	}
	return nil
}

// CreateOfficerDTO represents the request payload for recording an officer.
type CreateOfficerDTO struct {
	Nom             string    `json:"nom"`
	Poste           string    `json:"poste"`
	PraesidiumID    *int64    `json:"praesidium_id,omitempty"`
	DateDebutMandat time.Time `json:"date_debut_mandat"`
	DateFinMandat   time.Time `json:"date_fin_mandat"`
}

// Validate validates the CreateOfficerDTO
func (dto CreateOfficerDTO) Validate() error {
	if dto.Nom == "" {
		return errors.New("nom is required")
	}
	if dto.Poste == "" {
		return errors.New("poste is required")
	}
	if dto.DateDebutMandat.IsZero() || dto.DateFinMandat.IsZero() {
		return errors.New("mandate start and end dates are required")
	}
	if !dto.DateFinMandat.After(dto.DateDebutMandat) {
		return errors.New("date_fin_mandat must be after date_debut_mandat")
	}
	return nil
}

// RenewMandateDTO extends an officer's term.
type RenewMandateDTO struct {
	DateFinMandat time.Time `json:"date_fin_mandat"`
}

// Validate validates the RenewMandateDTO
func (dto RenewMandateDTO) Validate() error {
	if dto.DateFinMandat.IsZero() {
		return errors.New("date_fin_mandat is required")
	}
	return nil
}
