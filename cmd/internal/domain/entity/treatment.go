package entity

// Treatment is the 1:1 medical record attached to an appointment. The unique
// index on AppointmentID is what enforces the single-record invariant.
type Treatment struct {
	ID            int    `gorm:"primaryKey"`
	AppointmentID int    `gorm:"uniqueIndex;not null"` // References: appointments(id)
	Diagnosis     string `gorm:"not null"`
	Prescription  string `gorm:"not null"`
	DoctorNotes   string
	DateRecorded  int64 `gorm:"not null"`
}
