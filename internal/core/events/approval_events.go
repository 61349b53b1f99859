package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeApprovalSubmitted = "approval.submitted"
	EventTypeApprovalDecided   = "approval.decided"
	EventTypeMemberPromoted    = "member.promoted"
)

type ApprovalSubmittedEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	Kind        string `json:"kind"`
	SubjectID   int64  `json:"subject_id"`
	SubmitterID int64  `json:"submitter_id"`
}

func NewApprovalSubmittedEvent(requestID int64, kind string, subjectID, submitterID int64) *ApprovalSubmittedEvent {
	return &ApprovalSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApprovalSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"kind":         kind,
				"subject_id":   subjectID,
				"submitter_id": submitterID,
			},
		},
		RequestID:   requestID,
		Kind:        kind,
		SubjectID:   subjectID,
		SubmitterID: submitterID,
	}
}

type ApprovalDecidedEvent struct {
	BaseEvent
	RequestID int64  `json:"request_id"`
	Kind      string `json:"kind"`
	SubjectID int64  `json:"subject_id"`
	Decision  string `json:"decision"`
	DecidedBy int64  `json:"decided_by"`
	Comment   string `json:"comment,omitempty"`
}

func NewApprovalDecidedEvent(requestID int64, kind string, subjectID int64, decision string, decidedBy int64, comment string) *ApprovalDecidedEvent {
	return &ApprovalDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApprovalDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id": requestID,
				"kind":       kind,
				"subject_id": subjectID,
				"decision":   decision,
				"decided_by": decidedBy,
				"comment":    comment,
			},
		},
		RequestID: requestID,
		Kind:      kind,
		SubjectID: subjectID,
		Decision:  decision,
		DecidedBy: decidedBy,
		Comment:   comment,
	}
}

type MemberPromotedEvent struct {
	BaseEvent
	MemberID     int64 `json:"member_id"`
	PraesidiumID int64 `json:"praesidium_id"`
	PromotedBy   int64 `json:"promoted_by"`
}

func NewMemberPromotedEvent(memberID, praesidiumID, promotedBy int64) *MemberPromotedEvent {
	return &MemberPromotedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMemberPromoted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"member_id":     memberID,
				"praesidium_id": praesidiumID,
				"promoted_by":   promotedBy,
			},
		},
		MemberID:     memberID,
		PraesidiumID: praesidiumID,
		PromotedBy:   promotedBy,
	}
}
