package repository

import (
	"errors"

	"medisched/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultTreatmentRepository struct {
	db *gorm.DB
}

func NewTreatmentRepository(db *gorm.DB) *DefaultTreatmentRepository {
	return &DefaultTreatmentRepository{db: db}
}

func (t *DefaultTreatmentRepository) FindByAppointmentID(appointmentID int) (*entity.Treatment, error) {
	var treatment entity.Treatment
	err := t.db.Where("appointment_id = ?", appointmentID).First(&treatment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &treatment, err
}

func (t *DefaultTreatmentRepository) Save(treatment *entity.Treatment) error {
	return t.db.Save(treatment).Error
}
