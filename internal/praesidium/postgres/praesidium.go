package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/praesidium"
)

// PraesidiumRepository implements the praesidium.Repository interface using GORM
type PraesidiumRepository struct {
	db *gorm.DB
}

func NewPraesidiumRepository(db *gorm.DB) praesidium.Repository {
	return &PraesidiumRepository{db: db}
}

func (r *PraesidiumRepository) CreateZone(zone *praesidium.Zone) error {
	return r.db.Create(zone).Error
}

func (r *PraesidiumRepository) ListZones() ([]*praesidium.Zone, error) {
	var zones []*praesidium.Zone
	err := r.db.Where("actif = ?", true).Order("nom ASC").Find(&zones).Error
	return zones, err
}

func (r *PraesidiumRepository) GetZoneByID(id int64) (*praesidium.Zone, error) {
	var zone praesidium.Zone
	err := r.db.Where("id = ?", id).First(&zone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPraesidiumNotFound
		}
		return nil, err
	}
	return &zone, nil
}

func (r *PraesidiumRepository) CreatePraesidium(p *praesidium.Praesidium) error {
	return r.db.Create(p).Error
}

func (r *PraesidiumRepository) GetPraesidiumByID(id int64) (*praesidium.Praesidium, error) {
	var p praesidium.Praesidium
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPraesidiumNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PraesidiumRepository) ListPraesidia(zoneID *int64) ([]*praesidium.Praesidium, error) {
	var praesidia []*praesidium.Praesidium
	q := r.db.Where("actif = ?", true)
	if zoneID != nil {
		q = q.Where("zone_id = ?", *zoneID)
	}
	err := q.Order("nom ASC").Find(&praesidia).Error
	return praesidia, err
}

func (r *PraesidiumRepository) UpdatePraesidium(id int64, updates map[string]interface{}) error {
	res := r.db.Model(&praesidium.Praesidium{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrPraesidiumNotFound
	}
	return nil
}

func (r *PraesidiumRepository) DeactivatePraesidium(id int64) error {
	res := r.db.Model(&praesidium.Praesidium{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"actif":      false,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrPraesidiumNotFound
	}
	return nil
}
