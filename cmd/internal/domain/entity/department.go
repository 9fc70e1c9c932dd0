package entity

type Department struct {
	ID          int    `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string

	// Relations
	Doctors []User `gorm:"foreignKey:DepartmentID;references:ID"`
}
