package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/member"
)

// MemberRepository implements the member.Repository interface using GORM
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) member.Repository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) CreateMember(m *member.Member) error {
	return r.db.Create(m).Error
}

func (r *MemberRepository) GetMemberByID(id int64) (*member.Member, error) {
	var m member.Member
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) ListMembers(praesidiumID *int64, limit, offset int) ([]*member.Member, error) {
	var members []*member.Member
	q := r.db.Where("actif = ?", true)
	if praesidiumID != nil {
		q = q.Where("praesidium_id = ?", *praesidiumID)
	}
	err := q.Order("nom ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error
	return members, err
}

func (r *MemberRepository) ListProbationary() ([]*member.Member, error) {
	var members []*member.Member
	err := r.db.Where("statut = ? AND actif = ?", member.StatutProbationnaire, true).
		Order("date_adhesion ASC").
		Find(&members).Error
	return members, err
}

func (r *MemberRepository) UpdateMemberStatut(id int64, statut string, promotedAt *time.Time) error {
	updates := map[string]interface{}{
		"statut":     statut,
		"updated_at": time.Now(),
	}
	if promotedAt != nil {
		updates["promoted_at"] = *promotedAt
	}
	res := r.db.Model(&member.Member{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) DeactivateMember(id int64) error {
	res := r.db.Model(&member.Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"actif":      false,
			"statut":     member.StatutInactif,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) CreateOfficer(o *member.Officer) error {
	return r.db.Create(o).Error
}

func (r *MemberRepository) GetOfficerByID(id int64) (*member.Officer, error) {
	var o member.Officer
	err := r.db.Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrOfficerNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *MemberRepository) ListActiveOfficers() ([]*member.Officer, error) {
	var officers []*member.Officer
	err := r.db.Where("actif = ?", true).
		Order("date_fin_mandat ASC").
		Find(&officers).Error
	return officers, err
}

func (r *MemberRepository) UpdateMandate(id int64, end time.Time) error {
	res := r.db.Model(&member.Officer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"date_fin_mandat": end,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrOfficerNotFound
	}
	return nil
}
