package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/member"
)

// Repository defines persistence for probation alerts. Mandate alerts are
// derived on read and never stored.
type Repository interface {
	ListProbation(praesidiumID *int64, status string) ([]*ProbationAlert, error)
	GetProbationByID(id int64) (*ProbationAlert, error)
	// ReplaceActive swaps the active alert set for a fresh derivation in
	// one transaction. Resolved and ignored rows are left alone.
	ReplaceActive(alerts []*ProbationAlert) error
	ListSettledMemberIDs() (map[int64]bool, error)
	UpdateStatus(id int64, status string, actorID int64, at time.Time) (bool, error)
}

// MemberSource is the slice of the member package the deriver needs.
type MemberSource interface {
	ListProbationary() ([]*member.Member, error)
	ListActiveOfficers() ([]*member.Officer, error)
}

type Config struct {
	ProbationThresholdMonths int
	MandateWarningDays       int
	MandateCriticalDays      int
	DeriveInterval           time.Duration
}

type Service struct {
	repo    Repository
	members MemberSource
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, members MemberSource, cfg Config, logger *slog.Logger) *Service {
	if cfg.ProbationThresholdMonths <= 0 {
		cfg.ProbationThresholdMonths = 3
	}
	if cfg.MandateWarningDays <= 0 {
		cfg.MandateWarningDays = 60
	}
	if cfg.MandateCriticalDays <= 0 {
		cfg.MandateCriticalDays = 30
	}
	return &Service{
		repo:    repo,
		members: members,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// DeriveProbation recomputes the active probation alert set from member
// join dates. Members whose alert was resolved or ignored stay out of
// the new set until that alert is cleared.
func (s *Service) DeriveProbation() (int, error) {
	probationary, err := s.members.ListProbationary()
	if err != nil {
		s.logger.Error("failed to load probationary members", "error", err)
		return 0, err
	}

	settled, err := s.repo.ListSettledMemberIDs()
	if err != nil {
		s.logger.Error("failed to load settled alerts", "error", err)
		return 0, err
	}

	now := s.now()
	var alerts []*ProbationAlert
	for _, m := range probationary {
		if settled[m.ID] {
			continue
		}
		months := ProbationMonths(m.DateAdhesion, now)
		if months < s.cfg.ProbationThresholdMonths {
			continue
		}
		alerts = append(alerts, &ProbationAlert{
			MemberID:      m.ID,
			PraesidiumID:  m.PraesidiumID,
			ElapsedMonths: months,
			Status:        StatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.repo.ReplaceActive(alerts); err != nil {
		s.logger.Error("failed to replace probation alerts", "error", err)
		return 0, err
	}

	s.logger.Info("probation alerts derived",
		"candidates", len(probationary),
		"alerts", len(alerts))
	return len(alerts), nil
}

// DeriveMandates classifies every active officer's remaining term. The
// result is computed fresh each call.
func (s *Service) DeriveMandates() ([]*MandateAlert, error) {
	officers, err := s.members.ListActiveOfficers()
	if err != nil {
		s.logger.Error("failed to load officers", "error", err)
		return nil, err
	}

	now := s.now()
	var alerts []*MandateAlert
	for _, o := range officers {
		days := DaysRemaining(o.DateFinMandat, now)
		severity := ClassifySeverity(days, s.cfg.MandateWarningDays, s.cfg.MandateCriticalDays)
		if severity == "" {
			continue
		}
		alerts = append(alerts, &MandateAlert{
			OfficerID:     o.ID,
			OfficerNom:    o.Nom,
			Poste:         o.Poste,
			PraesidiumID:  o.PraesidiumID,
			DateFinMandat: o.DateFinMandat,
			DaysRemaining: days,
			Severity:      severity,
		})
	}

	return alerts, nil
}

func (s *Service) ListProbation(praesidiumID *int64, status string) ([]*ProbationAlert, error) {
	if status == "" {
		status = StatusActive
	}
	alerts, err := s.repo.ListProbation(praesidiumID, status)
	if err != nil {
		s.logger.Error("failed to list probation alerts", "error", err)
		return nil, err
	}
	return alerts, nil
}

// Resolve marks an alert handled. Only active alerts transition.
func (s *Service) Resolve(id int64, actorID int64) error {
	return s.settle(id, StatusResolved, actorID)
}

// Ignore dismisses an alert without action.
func (s *Service) Ignore(id int64, actorID int64) error {
	return s.settle(id, StatusIgnored, actorID)
}

func (s *Service) settle(id int64, status string, actorID int64) error {
	transitioned, err := s.repo.UpdateStatus(id, status, actorID, s.now())
	if err != nil {
		return err
	}
	if !transitioned {
		if _, err := s.repo.GetProbationByID(id); err != nil {
			return internal.ErrAlertNotFound
		}
		return internal.NewValidationError("alert is not active", internal.ErrCodeValidationFailed)
	}

	s.logger.Info("probation alert settled",
		"alert_id", id,
		"status", status,
		"actor_id", actorID)
	return nil
}

// Run re-derives probation alerts on a fixed interval until the context
// is cancelled. Intended for the worker process.
func (s *Service) Run(ctx context.Context) {
	interval := s.cfg.DeriveInterval
	if interval <= 0 {
		interval = time.Hour
	}

	if _, err := s.DeriveProbation(); err != nil {
		s.logger.Error("initial probation derivation failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("alert deriver stopping")
			return
		case <-ticker.C:
			if _, err := s.DeriveProbation(); err != nil {
				s.logger.Error("probation derivation failed", "error", err)
			}
		}
	}
}
