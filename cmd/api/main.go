package main

import (
	"os"
	"time"

	"medisched/cmd/internal/domain/sqlite"
	"medisched/cmd/internal/domain/sqlite/repository"
	"medisched/cmd/internal/routes"
	"medisched/cmd/internal/service"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	err := godotenv.Load()
	if err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET must be set")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./medisched.db"
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		tokenTTL, err = time.ParseDuration(raw)
		if err != nil {
			log.Fatal("invalid TOKEN_TTL", err)
		}
	}

	// Init SQLite
	db, err := sqlite.Init(dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	availRepo := repository.NewAvailabilityRepository(db)
	treatmentRepo := repository.NewTreatmentRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, deptRepo, validate, secret, tokenTTL)
	apptService := service.NewAppointmentService(apptRepo, userRepo, validate)
	availService := service.NewAvailabilityService(availRepo, userRepo, validate)
	treatmentService := service.NewTreatmentService(treatmentRepo, apptRepo, validate)
	deptService := service.NewDepartmentService(deptRepo, validate)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	apptRoutes := routes.NewAppointmentDefault(apptService)
	availRoutes := routes.NewAvailabilityDefault(availService)
	treatmentRoutes := routes.NewTreatmentDefault(treatmentService)
	deptRoutes := routes.NewDepartmentDefault(deptService)

	e := echo.New()
	e.Use(middleware.CORS())

	// Open endpoints
	e.POST("/api/users", userRoutes.Register)
	e.POST("/api/users/login", userRoutes.Login)

	// Everything else requires a valid token
	api := e.Group("/api", utils.JWTMiddleware(secret))

	// Users (admin screens + self view)
	api.GET("/users", userRoutes.GetUsers)
	api.GET("/users/:id", userRoutes.GetUser)
	api.POST("/doctors", userRoutes.CreateDoctor)
	api.PUT("/users/:id", userRoutes.UpdateUser)
	api.DELETE("/users/:id", userRoutes.DeleteUser)
	api.POST("/users/:id/toggle-status", userRoutes.ToggleStatus)
	api.GET("/patients/:id/history", apptRoutes.GetPatientHistory)

	// Departments
	api.GET("/departments", deptRoutes.GetDepartments)
	api.POST("/departments", deptRoutes.CreateDepartment)
	api.PUT("/departments/:id", deptRoutes.UpdateDepartment)
	api.DELETE("/departments/:id", deptRoutes.DeleteDepartment)

	// Appointments
	api.GET("/appointments", apptRoutes.GetAppointments)
	api.POST("/appointments", apptRoutes.BookAppointment)
	api.GET("/appointments/:id", apptRoutes.GetAppointment)
	api.PUT("/appointments/:id", apptRoutes.UpdateAppointment)
	api.DELETE("/appointments/:id", apptRoutes.DeleteAppointment)
	api.POST("/appointments/:id/reschedule", apptRoutes.RescheduleAppointment)
	api.POST("/appointments/:id/cancel", apptRoutes.CancelAppointment)
	api.POST("/appointments/:id/complete", apptRoutes.CompleteAppointment)
	api.POST("/appointments/:id/treatment", treatmentRoutes.UpsertTreatment)
	api.GET("/appointments/:id/treatment", treatmentRoutes.GetTreatment)

	// Availability
	api.GET("/availability/:doctorId", availRoutes.GetAvailability)
	api.PUT("/availability", availRoutes.SetAvailability)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":6060"
	}

	err = e.Start(addr)
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
	_ = validate.RegisterValidation("isodate", validators.IsISODate)
	_ = validate.RegisterValidation("slotlabel", validators.IsSlotLabel)
}
