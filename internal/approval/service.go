package approval

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/auth"
	"github.com/dramaxav/curia-management/internal/core/events"
)

// Repository defines the data access methods for approval requests.
type Repository interface {
	Create(request *Request) error
	GetByID(id int64) (*Request, error)
	ListPending(kind string, limit, offset int) ([]*Request, error)
	ListBySubmitter(submitterID int64, limit, offset int) ([]*Request, error)
	// DecideIfPending applies the decision only when the stored status is
	// still pending and reports whether a row was transitioned.
	DecideIfPending(id int64, status string, decidedBy int64, comment string, decidedAt time.Time) (bool, error)
}

// Service manages the pending→decided transition for all request kinds.
// Authorization is the caller's concern: routes are gated on the matching
// approve_* permission before a decision ever reaches here.
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

// Submit records a new pending request.
func (s *Service) Submit(submitterID int64, dto SubmitDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("approval submission validation failed", "error", err, "submitter_id", submitterID)
		return nil, err
	}

	now := time.Now()
	request := &Request{
		Kind:        dto.Kind,
		SubjectID:   dto.SubjectID,
		SubmitterID: submitterID,
		Status:      StatusPending,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(request); err != nil {
		s.logger.Error("failed to create approval request", "error", err, "submitter_id", submitterID)
		return nil, err
	}

	s.logger.Info("approval request submitted",
		"request_id", request.ID,
		"kind", request.Kind,
		"subject_id", request.SubjectID,
		"submitter_id", submitterID)

	if s.bus != nil {
		_ = s.bus.Publish(context.Background(),
			events.NewApprovalSubmittedEvent(request.ID, request.Kind, request.SubjectID, submitterID))
	}

	return request, nil
}

func (s *Service) GetByID(id int64) (*Request, error) {
	request, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get approval request", "error", err, "request_id", id)
		return nil, internal.ErrApprovalNotFound
	}
	return request, nil
}

func (s *Service) ListPending(kind string, limit, offset int) ([]*Request, error) {
	if kind != "" && !ValidKind(kind) {
		return nil, internal.NewValidationError("unknown approval kind", internal.ErrCodeUnknownKind)
	}
	requests, err := s.repo.ListPending(kind, limit, offset)
	if err != nil {
		s.logger.Error("failed to list pending approvals", "error", err, "kind", kind)
		return nil, err
	}
	return requests, nil
}

func (s *Service) ListBySubmitter(submitterID int64, limit, offset int) ([]*Request, error) {
	requests, err := s.repo.ListBySubmitter(submitterID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list approvals by submitter", "error", err, "submitter_id", submitterID)
		return nil, err
	}
	return requests, nil
}

// Decide transitions the request out of pending exactly once. The
// transition is conditioned on the stored status at decision time, so two
// actors racing on the same request cannot both win: the loser observes
// AlreadyDecided. Rejection without a comment is refused. No side effects
// reach the underlying subject; that is the caller's follow-up.
func (s *Service) Decide(requestID int64, decision string, actor *auth.User, comment string) (*Request, error) {
	var status string
	switch decision {
	case DecisionApprove:
		status = StatusApproved
	case DecisionReject:
		status = StatusRejected
	default:
		return nil, internal.NewValidationError("decision must be approve or reject", internal.ErrCodeValidationFailed)
	}

	if decision == DecisionReject && strings.TrimSpace(comment) == "" {
		s.logger.Warn("rejection without comment refused", "request_id", requestID, "actor_id", actor.ID)
		return nil, internal.ErrCommentRequired
	}

	decidedAt := time.Now()
	transitioned, err := s.repo.DecideIfPending(requestID, status, actor.ID, comment, decidedAt)
	if err != nil {
		s.logger.Error("failed to apply decision", "error", err, "request_id", requestID)
		return nil, err
	}

	if !transitioned {
		// Nothing moved: either the request is gone or someone decided first.
		if _, err := s.repo.GetByID(requestID); err != nil {
			return nil, internal.ErrApprovalNotFound
		}
		s.logger.Warn("decision lost the race or target already decided",
			"request_id", requestID,
			"actor_id", actor.ID)
		return nil, internal.ErrAlreadyDecided
	}

	request, err := s.repo.GetByID(requestID)
	if err != nil {
		return nil, internal.ErrApprovalNotFound
	}

	s.logger.Info("approval request decided",
		"request_id", requestID,
		"kind", request.Kind,
		"decision", decision,
		"actor_id", actor.ID)

	if s.bus != nil {
		_ = s.bus.Publish(context.Background(),
			events.NewApprovalDecidedEvent(request.ID, request.Kind, request.SubjectID, status, actor.ID, comment))
	}

	return request, nil
}
