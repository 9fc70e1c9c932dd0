package service

import (
	"testing"
	"time"

	"medisched/cmd/internal/access"
	"medisched/cmd/internal/domain/entity"
	"medisched/cmd/internal/domain/sqlite"
	"medisched/cmd/internal/domain/sqlite/repository"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Init(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func newTestValidate() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	_ = validate.RegisterValidation("isodate", validators.IsISODate)
	_ = validate.RegisterValidation("slotlabel", validators.IsSlotLabel)
	return validate
}

type testEnv struct {
	db          *gorm.DB
	users       *DefaultUserService
	appts       *DefaultAppointmentService
	avail       *DefaultAvailabilityService
	treatments  *DefaultTreatmentService
	departments *DefaultDepartmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	validate := newTestValidate()

	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	availRepo := repository.NewAvailabilityRepository(db)
	treatmentRepo := repository.NewTreatmentRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)

	return &testEnv{
		db:          db,
		users:       NewUserService(userRepo, deptRepo, validate, []byte(testSecret), time.Hour),
		appts:       NewAppointmentService(apptRepo, userRepo, validate),
		avail:       NewAvailabilityService(availRepo, userRepo, validate),
		treatments:  NewTreatmentService(treatmentRepo, apptRepo, validate),
		departments: NewDepartmentService(deptRepo, validate),
	}
}

func (e *testEnv) seedUser(t *testing.T, username string, role entity.Role) *entity.User {
	t.Helper()

	now := utils.NowUTC()
	user := &entity.User{
		Username:     username,
		Email:        username + "@clinic.test",
		PasswordHash: "x",
		Role:         role,
		IsActiveUser: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func asRequester(user *entity.User) access.Requester {
	return access.Requester{UserID: user.ID, Role: user.Role}
}
