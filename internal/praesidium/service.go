package praesidium

import (
	"log/slog"
	"time"

	"github.com/dramaxav/curia-management/internal"
)

// Repository defines data access for zones and praesidia.
type Repository interface {
	CreateZone(zone *Zone) error
	ListZones() ([]*Zone, error)
	GetZoneByID(id int64) (*Zone, error)

	CreatePraesidium(p *Praesidium) error
	GetPraesidiumByID(id int64) (*Praesidium, error)
	ListPraesidia(zoneID *int64) ([]*Praesidium, error)
	UpdatePraesidium(id int64, updates map[string]interface{}) error
	DeactivatePraesidium(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateZone(dto CreateZoneDTO) (*Zone, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	zone := &Zone{
		Nom:       dto.Nom,
		Actif:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateZone(zone); err != nil {
		s.logger.Error("failed to create zone", "error", err)
		return nil, err
	}

	s.logger.Info("zone created", "zone_id", zone.ID, "nom", zone.Nom)
	return zone, nil
}

func (s *Service) ListZones() ([]*Zone, error) {
	zones, err := s.repo.ListZones()
	if err != nil {
		s.logger.Error("failed to list zones", "error", err)
		return nil, err
	}
	return zones, nil
}

func (s *Service) CreatePraesidium(dto CreatePraesidiumDTO) (*Praesidium, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	// attaching to a missing zone is a client error, not a DB constraint surprise
	if _, err := s.repo.GetZoneByID(dto.ZoneID); err != nil {
		return nil, internal.NewValidationError("zone does not exist", internal.ErrCodeValidationFailed)
	}

	dateCreation := dto.DateCreation
	if dateCreation.IsZero() {
		dateCreation = time.Now()
	}

	now := time.Now()
	p := &Praesidium{
		Nom:          dto.Nom,
		ZoneID:       dto.ZoneID,
		LieuReunion:  dto.LieuReunion,
		JourReunion:  dto.JourReunion,
		DateCreation: dateCreation,
		Actif:        true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreatePraesidium(p); err != nil {
		s.logger.Error("failed to create praesidium", "error", err)
		return nil, err
	}

	s.logger.Info("praesidium created", "praesidium_id", p.ID, "zone_id", p.ZoneID)
	return p, nil
}

func (s *Service) GetPraesidium(id int64) (*Praesidium, error) {
	p, err := s.repo.GetPraesidiumByID(id)
	if err != nil {
		return nil, internal.ErrPraesidiumNotFound
	}
	return p, nil
}

func (s *Service) ListPraesidia(zoneID *int64) ([]*Praesidium, error) {
	praesidia, err := s.repo.ListPraesidia(zoneID)
	if err != nil {
		s.logger.Error("failed to list praesidia", "error", err)
		return nil, err
	}
	return praesidia, nil
}

func (s *Service) UpdatePraesidium(id int64, dto UpdatePraesidiumDTO) (*Praesidium, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPraesidiumByID(id); err != nil {
		return nil, internal.ErrPraesidiumNotFound
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if dto.Nom != nil {
		updates["nom"] = *dto.Nom
	}
	if dto.LieuReunion != nil {
		updates["lieu_reunion"] = *dto.LieuReunion
	}
	if dto.JourReunion != nil {
		updates["jour_reunion"] = *dto.JourReunion
	}

	if err := s.repo.UpdatePraesidium(id, updates); err != nil {
		s.logger.Error("failed to update praesidium", "error", err, "praesidium_id", id)
		return nil, err
	}

	return s.repo.GetPraesidiumByID(id)
}

func (s *Service) DeactivatePraesidium(id int64) error {
	if _, err := s.repo.GetPraesidiumByID(id); err != nil {
		return internal.ErrPraesidiumNotFound
	}

	if err := s.repo.DeactivatePraesidium(id); err != nil {
		s.logger.Error("failed to deactivate praesidium", "error", err, "praesidium_id", id)
		return err
	}

	s.logger.Info("praesidium deactivated", "praesidium_id", id)
	return nil
}
