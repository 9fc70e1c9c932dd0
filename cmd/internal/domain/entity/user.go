package entity

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ValidRole reports whether s names one of the three account roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

type User struct {
	ID           int    `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null"`
	PhoneNumber  *string
	IsActiveUser bool `gorm:"not null;default:true"`
	CreatedAt    int64
	UpdatedAt    int64

	// Set for doctors only; admins and patients carry no department.
	DepartmentID *int

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID;references:ID"`
}

func (u *User) IsDoctor() bool  { return u.Role == RoleDoctor }
func (u *User) IsPatient() bool { return u.Role == RolePatient }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
