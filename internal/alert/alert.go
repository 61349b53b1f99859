package alert

import (
	"math"
	"time"
)

const (
	StatusActive   = "active"
	StatusResolved = "resolved"
	StatusIgnored  = "ignored"
)

const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
	SeverityExpired  = "expired"
)

// ProbationAlert flags a probationary member whose trial period has run
// past the configured threshold. Alerts are regenerated by the deriver;
// resolved and ignored alerts survive regeneration.
type ProbationAlert struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	MemberID      int64      `json:"member_id" gorm:"column:member_id;not null;index"`
	PraesidiumID  int64      `json:"praesidium_id" gorm:"column:praesidium_id;not null;index"`
	ElapsedMonths int        `json:"elapsed_months" gorm:"column:elapsed_months"`
	Status        string     `json:"status" gorm:"default:active;index"`
	ResolvedBy    *int64     `json:"resolved_by,omitempty" gorm:"column:resolved_by"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (ProbationAlert) TableName() string {
	return "probation_alerts"
}

func (a *ProbationAlert) IsActive() bool {
	return a.Status == StatusActive
}

// MandateAlert is derived on demand from officer mandates and never
// persisted: the underlying dates are the source of truth.
type MandateAlert struct {
	OfficerID     int64     `json:"officer_id"`
	OfficerNom    string    `json:"officer_nom"`
	Poste         string    `json:"poste"`
	PraesidiumID  *int64    `json:"praesidium_id,omitempty"`
	DateFinMandat time.Time `json:"date_fin_mandat"`
	DaysRemaining int       `json:"days_remaining"`
	Severity      string    `json:"severity"`
}

// ProbationMonths counts whole 30-day periods elapsed since the join
// date. A member 89 days in is at 2 months, 90 days in at 3.
func ProbationMonths(joined, now time.Time) int {
	if now.Before(joined) {
		return 0
	}
	return int(now.Sub(joined).Hours() / 24 / 30)
}

// DaysRemaining rounds up, so a mandate ending later today still counts
// as one day left and an end date in the past goes negative.
func DaysRemaining(end, now time.Time) int {
	d := end.Sub(now).Hours() / 24
	return int(math.Ceil(d))
}

// ClassifySeverity maps remaining days to a severity band, or "" when
// the mandate is not close enough to matter.
func ClassifySeverity(daysRemaining, warningDays, criticalDays int) string {
	switch {
	case daysRemaining < 0:
		return SeverityExpired
	case daysRemaining <= criticalDays:
		return SeverityCritical
	case daysRemaining <= warningDays:
		return SeverityWarning
	default:
		return ""
	}
}
