package postgres

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cirruslabs-it/asset-inventory/internal"
	"github.com/cirruslabs-it/asset-inventory/internal/equipment"
)

// EquipmentRepository implements equipment.Repository using GORM. Every
// default read filters out soft-deleted rows.
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.Repository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) active() *gorm.DB {
	return r.db.Where("is_deleted = ?", false)
}

func (r *EquipmentRepository) GetByID(id int64) (*equipment.Equipment, error) {
	var e equipment.Equipment
	err := r.active().Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) List() ([]*equipment.Equipment, error) {
	var items []*equipment.Equipment
	err := r.active().Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) Create(e *equipment.Equipment) error {
	if err := r.db.Create(e).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

func (r *EquipmentRepository) Update(id int64, fields map[string]interface{}) (*equipment.Equipment, error) {
	fields["updated_at"] = time.Now()

	result := r.db.Model(&equipment.Equipment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields)
	if result.Error != nil {
		return nil, translateDuplicate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrEquipmentNotFound
	}

	return r.GetByID(id)
}

func (r *EquipmentRepository) SoftDelete(id int64) error {
	result := r.db.Model(&equipment.Equipment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) CountAll() (int64, error) {
	var count int64
	err := r.active().Model(&equipment.Equipment{}).Count(&count).Error
	return count, err
}

func (r *EquipmentRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.active().Model(&equipment.Equipment{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountRemovedOrDeleted backs the dashboard's removed figure, which
// counts E-Waste records together with everything soft-deleted.
func (r *EquipmentRepository) CountRemovedOrDeleted() (int64, error) {
	var count int64
	err := r.db.Model(&equipment.Equipment{}).
		Where("status = ? OR is_deleted = ?", equipment.StatusEWaste, true).
		Count(&count).Error
	return count, err
}

func (r *EquipmentRepository) CountByCategory(category string) (int64, error) {
	var count int64
	err := r.active().Model(&equipment.Equipment{}).
		Where("category = ?", category).
		Count(&count).Error
	return count, err
}

func (r *EquipmentRepository) TotalPurchaseValue() (float64, error) {
	var total float64
	err := r.active().Model(&equipment.Equipment{}).
		Select("COALESCE(SUM(purchase_price), 0)").
		Scan(&total).Error
	return total, err
}

// ExpiringWarranty excludes statuses for which a warranty alert is
// pointless.
func (r *EquipmentRepository) ExpiringWarranty(from, to time.Time) ([]*equipment.Equipment, error) {
	var items []*equipment.Equipment
	err := r.active().
		Where("warranty_expiry IS NOT NULL AND warranty_expiry BETWEEN ? AND ?", from, to).
		Where("status NOT IN ?", []string{equipment.StatusEWaste, equipment.StatusDamaged, equipment.StatusRemoved}).
		Order("warranty_expiry ASC").
		Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) ListInUse() ([]*equipment.Equipment, error) {
	var items []*equipment.Equipment
	err := r.active().
		Where("status = ? AND employee_email <> ''", equipment.StatusInUse).
		Order("employee_email ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) ListRemoved() ([]*equipment.Equipment, error) {
	var items []*equipment.Equipment
	err := r.active().
		Where("status = ?", equipment.StatusRemoved).
		Order("updated_at DESC").
		Find(&items).Error
	return items, err
}

// SerialDuplicates finds serial numbers shared by more than one record,
// including soft-deleted ones, with ids ordered oldest first.
func (r *EquipmentRepository) SerialDuplicates() ([]equipment.SerialDuplicate, error) {
	var rows []struct {
		ID           int64
		SerialNumber string
	}
	err := r.db.Model(&equipment.Equipment{}).
		Select("id, serial_number").
		Where("serial_number IS NOT NULL AND serial_number <> ''").
		Order("serial_number ASC, created_at ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]int64)
	var order []string
	for _, row := range rows {
		if _, seen := grouped[row.SerialNumber]; !seen {
			order = append(order, row.SerialNumber)
		}
		grouped[row.SerialNumber] = append(grouped[row.SerialNumber], row.ID)
	}

	var dups []equipment.SerialDuplicate
	for _, serial := range order {
		if ids := grouped[serial]; len(ids) > 1 {
			dups = append(dups, equipment.SerialDuplicate{SerialNumber: serial, IDs: ids})
		}
	}
	return dups, nil
}

func (r *EquipmentRepository) UpdateSerialNumber(id int64, serial string) error {
	result := r.db.Model(&equipment.Equipment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"serial_number": serial,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return translateDuplicate(result.Error)
	}
	if result.RowsAffected == 0 {
		return internal.ErrEquipmentNotFound
	}
	return nil
}

// translateDuplicate maps unique constraint violations to the
// field-specific duplicate error so handlers can return the message the
// frontend matches on.
func translateDuplicate(err error) error {
	msg := err.Error()
	isDup := errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
	if !isDup {
		return err
	}
	if strings.Contains(msg, "serial_number") {
		return internal.ErrDuplicateSerial
	}
	return internal.ErrDuplicateAssetID
}
