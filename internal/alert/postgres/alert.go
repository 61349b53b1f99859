package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/alert"
)

// AlertRepository implements the alert.Repository interface using GORM
type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) alert.Repository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) ListProbation(praesidiumID *int64, status string) ([]*alert.ProbationAlert, error) {
	var alerts []*alert.ProbationAlert
	q := r.db.Where("status = ?", status)
	if praesidiumID != nil {
		q = q.Where("praesidium_id = ?", *praesidiumID)
	}
	err := q.Order("elapsed_months DESC").Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepository) GetProbationByID(id int64) (*alert.ProbationAlert, error) {
	var a alert.ProbationAlert
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAlertNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ReplaceActive deletes the current active set and inserts the fresh
// derivation atomically. Settled rows keep their history.
func (r *AlertRepository) ReplaceActive(alerts []*alert.ProbationAlert) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status = ?", alert.StatusActive).
			Delete(&alert.ProbationAlert{}).Error; err != nil {
			return err
		}
		if len(alerts) == 0 {
			return nil
		}
		return tx.Create(&alerts).Error
	})
}

func (r *AlertRepository) ListSettledMemberIDs() (map[int64]bool, error) {
	var ids []int64
	err := r.db.Model(&alert.ProbationAlert{}).
		Where("status IN ?", []string{alert.StatusResolved, alert.StatusIgnored}).
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, err
	}
	settled := make(map[int64]bool, len(ids))
	for _, id := range ids {
		settled[id] = true
	}
	return settled, nil
}

// UpdateStatus transitions an alert out of active status. The condition
// keeps a second resolve from clobbering the first.
func (r *AlertRepository) UpdateStatus(id int64, status string, actorID int64, at time.Time) (bool, error) {
	res := r.db.Model(&alert.ProbationAlert{}).
		Where("id = ? AND status = ?", id, alert.StatusActive).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": actorID,
			"resolved_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
