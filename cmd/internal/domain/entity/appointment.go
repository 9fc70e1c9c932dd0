package entity

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// ValidStatus reports whether s names one of the appointment lifecycle states.
func ValidStatus(s string) bool {
	switch AppointmentStatus(s) {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is the unit of scheduling truth. The partial unique index keeps
// two concurrent bookers from committing the same (doctor, date, time) while
// still letting a Cancelled or Completed slot be booked again.
type Appointment struct {
	ID        int `gorm:"primaryKey"`
	PatientID int `gorm:"not null"` // References: users(id)
	DoctorID  int `gorm:"not null;index:uniq_scheduled_slot,unique,where:status = 'Scheduled'"`

	AppointmentDate string            `gorm:"not null;index:uniq_scheduled_slot,unique"` // YYYY-MM-DD
	AppointmentTime string            `gorm:"not null;index:uniq_scheduled_slot,unique"` // 09:00 or 16:00
	Status          AppointmentStatus `gorm:"not null;default:'Pending'"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`

	// Relations
	Patient   User       `gorm:"foreignKey:PatientID;references:ID"`
	Doctor    User       `gorm:"foreignKey:DoctorID;references:ID"`
	Treatment *Treatment `gorm:"foreignKey:AppointmentID;references:ID"`
}
