package service

import (
	"medisched/cmd/internal/access"
	"medisched/cmd/internal/domain/entity"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type TreatmentRepository interface {
	FindByAppointmentID(appointmentID int) (*entity.Treatment, error)
	Save(treatment *entity.Treatment) error
}

type UpsertTreatmentRequest struct {
	Diagnosis    string `json:"diagnosis" validate:"required,max=2000"`
	Prescription string `json:"prescription" validate:"required,max=2000"`
	TestsDone    string `json:"tests_done" validate:"max=2000"`
}

type TreatmentResponse struct {
	ID            int    `json:"id"`
	AppointmentID int    `json:"appointment_id"`
	Diagnosis     string `json:"diagnosis"`
	Prescription  string `json:"prescription"`
	DoctorNotes   string `json:"doctor_notes"`
	DateRecorded  string `json:"date_recorded"`
}

type DefaultTreatmentService struct {
	TreatmentRepo   TreatmentRepository
	AppointmentRepo AppointmentRepository
	Validate        *validator.Validate
}

func NewTreatmentService(treatmentRepo TreatmentRepository, apptRepo AppointmentRepository, validate *validator.Validate) *DefaultTreatmentService {
	return &DefaultTreatmentService{TreatmentRepo: treatmentRepo, AppointmentRepo: apptRepo, Validate: validate}
}

// UpsertTreatment creates the appointment's treatment record on first write
// and updates it in place afterwards. An appointment never carries more than
// one record. Only the assigned doctor may write.
func (t *DefaultTreatmentService) UpsertTreatment(appointmentID int, req *UpsertTreatmentRequest, requester access.Requester) (*TreatmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := t.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	appt, err := t.AppointmentRepo.FindByID(appointmentID)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", appointmentID, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	if !access.CanRecordTreatment(requester, appt) {
		return nil, apierror.AccessDeniedError
	}

	treatment, err := t.TreatmentRepo.FindByAppointmentID(appointmentID)
	if err != nil {
		log.Errorf("failed to fetch treatment for appointment %d: %v", appointmentID, err)
		return nil, apierror.InternalServerError
	}
	if treatment == nil {
		treatment = &entity.Treatment{AppointmentID: appointmentID}
	}

	treatment.Diagnosis = req.Diagnosis
	treatment.Prescription = req.Prescription
	treatment.DoctorNotes = doctorNotes(req.TestsDone)
	treatment.DateRecorded = utils.NowUTC()

	if err := t.TreatmentRepo.Save(treatment); err != nil {
		log.Errorf("failed to save treatment for appointment %d: %v", appointmentID, err)
		return nil, apierror.InternalServerError
	}
	return toTreatmentResponse(treatment), nil
}

func (t *DefaultTreatmentService) GetTreatment(appointmentID int, requester access.Requester) (*TreatmentResponse, apierror.ErrorResponse) {
	appt, err := t.AppointmentRepo.FindByID(appointmentID)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", appointmentID, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	if !access.CanViewAppointment(requester, appt) {
		return nil, apierror.AccessDeniedError
	}

	treatment, err := t.TreatmentRepo.FindByAppointmentID(appointmentID)
	if err != nil {
		log.Errorf("failed to fetch treatment for appointment %d: %v", appointmentID, err)
		return nil, apierror.InternalServerError
	}
	if treatment == nil {
		return nil, apierror.NotFoundError
	}
	return toTreatmentResponse(treatment), nil
}

// doctorNotes is not free text: it is derived from the tests-done field.
func doctorNotes(testsDone string) string {
	if testsDone == "" {
		return ""
	}
	return "Tests: " + testsDone
}

func toTreatmentResponse(treatment *entity.Treatment) *TreatmentResponse {
	return &TreatmentResponse{
		ID:            treatment.ID,
		AppointmentID: treatment.AppointmentID,
		Diagnosis:     treatment.Diagnosis,
		Prescription:  treatment.Prescription,
		DoctorNotes:   treatment.DoctorNotes,
		DateRecorded:  utils.FormatEpoch(treatment.DateRecorded),
	}
}
