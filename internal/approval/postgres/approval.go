package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/approval"
)

// ApprovalRepository implements the approval.Repository interface using GORM
type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) approval.Repository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) Create(request *approval.Request) error {
	return r.db.Create(request).Error
}

func (r *ApprovalRepository) GetByID(id int64) (*approval.Request, error) {
	var request approval.Request
	err := r.db.Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrApprovalNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *ApprovalRepository) ListPending(kind string, limit, offset int) ([]*approval.Request, error) {
	var requests []*approval.Request
	q := r.db.Where("status = ?", approval.StatusPending)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	// FIFO for approvals
	err := q.Order("submitted_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}

func (r *ApprovalRepository) ListBySubmitter(submitterID int64, limit, offset int) ([]*approval.Request, error) {
	var requests []*approval.Request
	err := r.db.Where("submitter_id = ?", submitterID).
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, err
}

// DecideIfPending performs the conditional transition: the update only
// matches rows still in pending status, so a concurrent decision on the
// same request leaves RowsAffected at zero for the loser.
func (r *ApprovalRepository) DecideIfPending(id int64, status string, decidedBy int64, comment string, decidedAt time.Time) (bool, error) {
	res := r.db.Model(&approval.Request{}).
		Where("id = ? AND status = ?", id, approval.StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
			"comment":    comment,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
