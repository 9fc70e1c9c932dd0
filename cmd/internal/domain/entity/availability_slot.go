package entity

type SlotType string

const (
	SlotMorning SlotType = "Morning"
	SlotEvening SlotType = "Evening"
)

// AvailabilitySlot is one doctor-declared open window. A doctor's whole slot
// set is replaced each time they resubmit availability; no slot survives the
// replace on its own.
type AvailabilitySlot struct {
	ID            int      `gorm:"primaryKey"`
	DoctorID      int      `gorm:"not null;index"` // References: users(id)
	AvailableDate string   `gorm:"not null"`       // YYYY-MM-DD
	SlotType      SlotType `gorm:"not null"`

	// Relations
	Doctor User `gorm:"foreignKey:DoctorID;references:ID"`
}
