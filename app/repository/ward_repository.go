package repository

import (
	"github.com/WeOneApp/wardsponsor/app/models"
	"gorm.io/gorm"
)

// wardRepository implements the WardRepository interface
type wardRepository struct {
	db *gorm.DB
}

// NewWardRepository creates a new ward repository instance
func NewWardRepository(db *gorm.DB) WardRepository {
	return &wardRepository{db: db}
}

// CreateBatch inserts wards in chunks, used by the catalog import.
func (r *wardRepository) CreateBatch(wards []models.Ward) error {
	if len(wards) == 0 {
		return nil
	}
	return r.db.CreateInBatches(wards, 500).Error
}

// GetByID retrieves a ward by its ID
func (r *wardRepository) GetByID(id uint) (*models.Ward, error) {
	var ward models.Ward
	err := r.db.First(&ward, id).Error
	if err != nil {
		return nil, err
	}
	return &ward, nil
}

// GetByNameAndLocalBody retrieves a ward by its name within a local body.
// The pair is the ward's natural identity across the catalog.
func (r *wardRepository) GetByNameAndLocalBody(wardName, localBodyName string) (*models.Ward, error) {
	var ward models.Ward
	err := r.db.Where("ward_name = ? AND local_body_name = ?", wardName, localBodyName).First(&ward).Error
	if err != nil {
		return nil, err
	}
	return &ward, nil
}

func (r *wardRepository) scoped(query WardQuery) *gorm.DB {
	tx := r.db.Model(&models.Ward{})
	if query.Zone != "" {
		tx = tx.Where("zone = ?", query.Zone)
	}
	if query.District != "" {
		tx = tx.Where("district = ?", query.District)
	}
	if query.Subdistrict != "" {
		tx = tx.Where("subdistrict = ?", query.Subdistrict)
	}
	if query.LocalBodyType != "" {
		tx = tx.Where("local_body_type = ?", query.LocalBodyType)
	}
	if query.LocalBodyName != "" {
		tx = tx.Where("local_body_name = ?", query.LocalBodyName)
	}
	return tx
}

// Find returns every ward under the hierarchy node described by the query.
func (r *wardRepository) Find(query WardQuery) ([]models.Ward, error) {
	var wards []models.Ward
	err := r.scoped(query).Order("local_body_name, ward_name").Find(&wards).Error
	return wards, err
}

// Zones returns the distinct zone names in the catalog
func (r *wardRepository) Zones() ([]string, error) {
	var zones []string
	err := r.db.Model(&models.Ward{}).Distinct("zone").Order("zone").Pluck("zone", &zones).Error
	return zones, err
}

// Districts returns the distinct district names within a zone
func (r *wardRepository) Districts(zone string) ([]string, error) {
	var districts []string
	err := r.db.Model(&models.Ward{}).Where("zone = ?", zone).
		Distinct("district").Order("district").Pluck("district", &districts).Error
	return districts, err
}

// Subdistricts returns the distinct subdistrict names within a district
func (r *wardRepository) Subdistricts(district string) ([]string, error) {
	var subdistricts []string
	err := r.db.Model(&models.Ward{}).Where("district = ?", district).
		Distinct("subdistrict").Order("subdistrict").Pluck("subdistrict", &subdistricts).Error
	return subdistricts, err
}

// LocalBodies returns the distinct local body names of one type within a subdistrict
func (r *wardRepository) LocalBodies(subdistrict, typeCode string) ([]string, error) {
	var names []string
	err := r.db.Model(&models.Ward{}).
		Where("subdistrict = ? AND local_body_type = ?", subdistrict, typeCode).
		Distinct("local_body_name").Order("local_body_name").Pluck("local_body_name", &names).Error
	return names, err
}
