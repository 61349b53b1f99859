package approval

import (
	"time"

	"github.com/dramaxav/curia-management/internal/auth"
)

// Request kinds. The three variants share one shape and one lifecycle.
const (
	KindAccount  = "account"
	KindPresence = "presence"
	KindFinance  = "finance"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Request is a pending decision item. Requests are never deleted; decided
// rows stay behind as the audit trail.
type Request struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Kind        string     `json:"kind" gorm:"not null;index"`
	SubjectID   int64      `json:"subject_id" gorm:"column:subject_id;not null"`
	SubmitterID int64      `json:"submitter_id" gorm:"column:submitter_id;not null"`
	Status      string     `json:"status" gorm:"default:pending;index"`
	SubmittedAt time.Time  `json:"submitted_at" gorm:"column:submitted_at;default:now()"`
	DecidedBy   *int64     `json:"decided_by,omitempty" gorm:"column:decided_by"`
	DecidedAt   *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	Comment     string     `json:"comment,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Request) TableName() string {
	return "approval_requests"
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// RequiredPermission maps a request kind to the permission that gates its
// decision routes. The engine itself never re-checks it; the guard does.
func RequiredPermission(kind string) (auth.Permission, bool) {
	switch kind {
	case KindAccount:
		return auth.PermissionApproveAccounts, true
	case KindPresence:
		return auth.PermissionApprovePresences, true
	case KindFinance:
		return auth.PermissionApproveFinances, true
	default:
		return "", false
	}
}

func ValidKind(kind string) bool {
	_, ok := RequiredPermission(kind)
	return ok
}
