package repository

import (
	"errors"

	"medisched/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

// ErrSlotTaken is returned when a Scheduled appointment already occupies the
// requested (doctor, date, time).
var ErrSlotTaken = errors.New("appointment slot already taken")

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.Preload("Patient").Preload("Doctor").First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

func (a *DefaultAppointmentRepository) FindAll() ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Preload("Patient").Preload("Doctor").
		Order("appointment_date asc, appointment_time asc").
		Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByDoctorID(id int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Preload("Patient").Preload("Doctor").
		Where("doctor_id = ?", id).
		Order("appointment_date asc, appointment_time asc").
		Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) FindByPatientID(id int) ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Preload("Patient").Preload("Doctor").
		Where("patient_id = ?", id).
		Order("appointment_date asc, appointment_time asc").
		Find(&appts).Error
	return appts, err
}

// CreateScheduled books an appointment, failing with ErrSlotTaken when a
// Scheduled appointment already holds the same (doctor, date, time). The
// collision check and the insert run in one transaction, and the partial
// unique index backstops any booker that slips past the check.
func (a *DefaultAppointmentRepository) CreateScheduled(appt *entity.Appointment) error {
	err := a.db.Transaction(func(tx *gorm.DB) error {
		taken, err := slotTaken(tx, appt.DoctorID, appt.AppointmentDate, appt.AppointmentTime, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return tx.Create(appt).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	return err
}

// UpdateSlot moves an appointment to a new (date, time) in place. The
// appointment's own row is excluded from the collision set, so rescheduling
// onto its current slot succeeds.
func (a *DefaultAppointmentRepository) UpdateSlot(appt *entity.Appointment, date, tm string, updatedAt int64) error {
	err := a.db.Transaction(func(tx *gorm.DB) error {
		taken, err := slotTaken(tx, appt.DoctorID, date, tm, appt.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		appt.AppointmentDate = date
		appt.AppointmentTime = tm
		appt.UpdatedAt = updatedAt
		return tx.Save(appt).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlotTaken
	}
	return err
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}

func slotTaken(tx *gorm.DB, doctorID int, date, tm string, excludeID int) (bool, error) {
	var count int64
	q := tx.Model(&entity.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Where("appointment_date = ?", date).
		Where("appointment_time = ?", tm).
		Where("status = ?", entity.StatusScheduled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
