package approval

import "errors"

// SubmitDTO represents the request payload for submitting an approval request.
type SubmitDTO struct {
	Kind      string `json:"kind"`
	SubjectID int64  `json:"subject_id"`
}

// Validate validates the SubmitDTO
func (dto SubmitDTO) Validate() error {
	if dto.Kind == "" {
		return errors.New("kind is required")
	}
	if !ValidKind(dto.Kind) {
		return errors.New("kind must be one of: account, presence, finance")
	}
	if dto.SubjectID <= 0 {
		return errors.New("subject_id is required")
	}
	return nil
}

// DecideDTO carries the optional comment attached to a decision.
type DecideDTO struct {
	Comment string `json:"comment,omitempty"`
}

// RejectDTO represents the request payload for rejecting; the comment is
// the rejection justification and cannot be empty.
type RejectDTO struct {
	Comment string `json:"comment"`
}

// Validate validates the RejectDTO
func (dto RejectDTO) Validate() error {
	if dto.Comment == "" {
		return errors.New("comment is required when rejecting")
	}
	return nil
}
