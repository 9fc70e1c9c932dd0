package repository

import (
	"medisched/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *DefaultAvailabilityRepository {
	return &DefaultAvailabilityRepository{db: db}
}

// ReplaceForDoctor swaps out the doctor's entire slot set. Delete and insert
// run in one transaction so concurrent readers never observe a half-empty
// schedule. Other doctors' slots are untouched; past slots for this doctor
// are removed along with everything else.
func (r *DefaultAvailabilityRepository) ReplaceForDoctor(doctorID int, slots []*entity.AvailabilitySlot) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("doctor_id = ?", doctorID).Delete(&entity.AvailabilitySlot{}).Error
		if err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(slots).Error
	})
}

// FindFromDate lists a doctor's slots on or after fromDate, ascending.
func (r *DefaultAvailabilityRepository) FindFromDate(doctorID int, fromDate string) ([]*entity.AvailabilitySlot, error) {
	var slots []*entity.AvailabilitySlot
	err := r.db.Where("doctor_id = ?", doctorID).
		Where("available_date >= ?", fromDate).
		Order("available_date asc").
		Find(&slots).Error
	return slots, err
}
