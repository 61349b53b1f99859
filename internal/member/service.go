package member

import (
	"context"
	"log/slog"
	"time"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/auth"
	"github.com/dramaxav/curia-management/internal/core/events"
)

// Repository defines the data access methods for members and officers.
type Repository interface {
	CreateMember(member *Member) error
	GetMemberByID(id int64) (*Member, error)
	ListMembers(praesidiumID *int64, limit, offset int) ([]*Member, error)
	ListProbationary() ([]*Member, error)
	UpdateMemberStatut(id int64, statut string, promotedAt *time.Time) error
	DeactivateMember(id int64) error

	CreateOfficer(officer *Officer) error
	GetOfficerByID(id int64) (*Officer, error)
	ListActiveOfficers() ([]*Officer, error)
	UpdateMandate(id int64, end time.Time) error
}

// Service handles member and officer business logic.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// CreateMember registers a new member in probationary status.
func (s *Service) CreateMember(dto CreateMemberDTO) (*Member, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("member validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	member := &Member{
		Nom:          dto.Nom,
		Email:        dto.Email,
		Telephone:    dto.Telephone,
		PraesidiumID: dto.PraesidiumID,
		Statut:       StatutProbationnaire,
		DateAdhesion: dto.DateAdhesion,
		Actif:        true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateMember(member); err != nil {
		s.logger.Error("failed to create member", "error", err)
		return nil, err
	}

	s.logger.Info("member created",
		"member_id", member.ID,
		"praesidium_id", member.PraesidiumID)

	return member, nil
}

// GetMember returns a member, enforcing the caller's praesidium scope.
func (s *Service) GetMember(id int64, actor *auth.User) (*Member, error) {
	member, err := s.repo.GetMemberByID(id)
	if err != nil {
		return nil, internal.ErrMemberNotFound
	}

	if !auth.Allowed(actor, auth.PermissionManageMembers, &member.PraesidiumID) {
		s.logger.Warn("member access denied",
			"member_id", id,
			"actor_id", actor.ID,
			"praesidium_id", member.PraesidiumID)
		return nil, internal.ErrForbiddenScope
	}

	return member, nil
}

// ListMembers lists members. Praesidium officers only ever see their own
// praesidium regardless of the filter they ask for.
func (s *Service) ListMembers(praesidiumID *int64, actor *auth.User, limit, offset int) ([]*Member, error) {
	if actor != nil && !actor.IsCouncilOfficer() {
		praesidiumID = actor.PraesidiumID
	}

	members, err := s.repo.ListMembers(praesidiumID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list members", "error", err)
		return nil, err
	}
	return members, nil
}

// PromoteMember moves a probationary member to active status.
func (s *Service) PromoteMember(id int64, actor *auth.User) (*Member, error) {
	member, err := s.repo.GetMemberByID(id)
	if err != nil {
		return nil, internal.ErrMemberNotFound
	}

	if !auth.Allowed(actor, auth.PermissionManageMembers, &member.PraesidiumID) {
		return nil, internal.ErrForbiddenScope
	}

	if !member.IsProbationary() {
		return nil, internal.NewValidationError("member is not probationary", internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	if err := s.repo.UpdateMemberStatut(id, StatutActif, &now); err != nil {
		s.logger.Error("failed to promote member", "error", err, "member_id", id)
		return nil, err
	}

	member.Statut = StatutActif
	member.PromotedAt = &now

	s.logger.Info("member promoted", "member_id", id, "actor_id", actor.ID)

	if s.bus != nil {
		_ = s.bus.Publish(context.Background(),
			events.NewMemberPromotedEvent(member.ID, member.PraesidiumID, actor.ID))
	}

	return member, nil
}

// DeactivateMember soft-deletes: the row stays, actif flips off.
func (s *Service) DeactivateMember(id int64, actor *auth.User) error {
	member, err := s.repo.GetMemberByID(id)
	if err != nil {
		return internal.ErrMemberNotFound
	}

	if !auth.Allowed(actor, auth.PermissionManageMembers, &member.PraesidiumID) {
		return internal.ErrForbiddenScope
	}

	if err := s.repo.DeactivateMember(id); err != nil {
		s.logger.Error("failed to deactivate member", "error", err, "member_id", id)
		return err
	}

	s.logger.Info("member deactivated", "member_id", id, "actor_id", actor.ID)
	return nil
}

// CreateOfficer records a new officer with their mandate.
func (s *Service) CreateOfficer(dto CreateOfficerDTO) (*Officer, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("officer validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	officer := &Officer{
		Nom:             dto.Nom,
		Poste:           dto.Poste,
		PraesidiumID:    dto.PraesidiumID,
		DateDebutMandat: dto.DateDebutMandat,
		DateFinMandat:   dto.DateFinMandat,
		Actif:           true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateOfficer(officer); err != nil {
		s.logger.Error("failed to create officer", "error", err)
		return nil, err
	}

	s.logger.Info("officer created", "officer_id", officer.ID, "poste", officer.Poste)
	return officer, nil
}

func (s *Service) ListActiveOfficers() ([]*Officer, error) {
	officers, err := s.repo.ListActiveOfficers()
	if err != nil {
		s.logger.Error("failed to list officers", "error", err)
		return nil, err
	}
	return officers, nil
}

// RenewMandate extends an officer's term of office.
func (s *Service) RenewMandate(id int64, dto RenewMandateDTO) (*Officer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	officer, err := s.repo.GetOfficerByID(id)
	if err != nil {
		return nil, internal.ErrOfficerNotFound
	}

	if !dto.DateFinMandat.After(officer.DateDebutMandat) {
		return nil, internal.NewValidationError("new mandate end must fall after the mandate start", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.UpdateMandate(id, dto.DateFinMandat); err != nil {
		s.logger.Error("failed to renew mandate", "error", err, "officer_id", id)
		return nil, err
	}

	officer.DateFinMandat = dto.DateFinMandat

	s.logger.Info("mandate renewed", "officer_id", id, "date_fin_mandat", dto.DateFinMandat)
	return officer, nil
}
