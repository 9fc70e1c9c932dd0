package service

import (
	"errors"

	"medisched/cmd/internal/access"
	"medisched/cmd/internal/domain/entity"
	"medisched/cmd/internal/domain/sqlite/repository"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	FindByID(id int) (*entity.Appointment, error)
	FindAll() ([]*entity.Appointment, error)
	FindByDoctorID(id int) ([]*entity.Appointment, error)
	FindByPatientID(id int) ([]*entity.Appointment, error)
	CreateScheduled(appt *entity.Appointment) error
	UpdateSlot(appt *entity.Appointment, date, tm string, updatedAt int64) error
	Save(appointment *entity.Appointment) error
	Delete(appointment *entity.Appointment) error
}

type BookAppointmentRequest struct {
	DoctorID  int    `json:"doctor_id" validate:"required"`
	PatientID int    `json:"patient_id"`
	Date      string `json:"date" validate:"required,isodate"`
	Slot      string `json:"slot" validate:"required,slotlabel"`
}

type RescheduleRequest struct {
	Date string `json:"date" validate:"required,isodate"`
	Slot string `json:"slot" validate:"required,slotlabel"`
}

type UpdateAppointmentRequest struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	Slot   string `json:"slot"`
}

type AppointmentResponse struct {
	ID          int    `json:"id"`
	DoctorID    int    `json:"doctor_id"`
	PatientID   int    `json:"patient_id"`
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
}

func NewAppointmentService(apptRepo AppointmentRepository, userRepo UserRepository, validate *validator.Validate) *DefaultAppointmentService {
	return &DefaultAppointmentService{AppointmentRepo: apptRepo, UserRepo: userRepo, Validate: validate}
}

// GetAppointments lists what the requester is entitled to see: admins the
// whole ledger, doctors and patients only their own appointments.
func (a *DefaultAppointmentService) GetAppointments(requester access.Requester) ([]*AppointmentResponse, apierror.ErrorResponse) {
	var (
		appts []*entity.Appointment
		err   error
	)

	switch requester.Role {
	case entity.RoleAdmin:
		appts, err = a.AppointmentRepo.FindAll()
	case entity.RoleDoctor:
		appts, err = a.AppointmentRepo.FindByDoctorID(requester.UserID)
	default:
		appts, err = a.AppointmentRepo.FindByPatientID(requester.UserID)
	}

	if err != nil {
		log.Errorf("failed to find appointments for user %d: %v", requester.UserID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) GetAppointment(id int, requester access.Requester) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}
	if !access.CanViewAppointment(requester, appt) {
		return nil, apierror.AccessDeniedError
	}
	return toAppointmentResponse(appt), nil
}

// BookAppointment books a Scheduled appointment at the slot's fixed time.
// Patients book for themselves; admins may book on a patient's behalf.
func (a *DefaultAppointmentService) BookAppointment(req *BookAppointmentRequest, requester access.Requester) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	patientID := req.PatientID
	switch requester.Role {
	case entity.RolePatient:
		patientID = requester.UserID
	case entity.RoleAdmin:
		if patientID == 0 {
			return nil, apierror.NewMissingParamError("patient_id")
		}
	default:
		return nil, apierror.AccessDeniedError
	}

	date, slot, apierr := parseSlotInput(req.Date, req.Slot)
	if apierr != nil {
		return nil, apierr
	}

	doctor, err := a.UserRepo.FindByID(req.DoctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %d: %v", req.DoctorID, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, apierror.NotFoundError
	}

	now := utils.NowUTC()
	appt := &entity.Appointment{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		AppointmentTime: utils.SlotTime(slot),
		Status:          entity.StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = a.AppointmentRepo.CreateScheduled(appt)
	if errors.Is(err, repository.ErrSlotTaken) {
		return nil, apierror.SlotTakenError
	}
	if err != nil {
		log.Errorf("failed to book appointment for patient %d with doctor %d: %v", patientID, req.DoctorID, err)
		return nil, apierror.InternalServerError
	}
	return a.reload(appt)
}

// RescheduleAppointment moves an appointment in place. Only the owning
// patient may reschedule; the appointment's own slot never collides with
// itself.
func (a *DefaultAppointmentService) RescheduleAppointment(id int, req *RescheduleRequest, requester access.Requester) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	appt, apierr := a.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}
	if !access.CanReschedule(requester, appt) {
		return nil, apierror.AccessDeniedError
	}

	date, slot, apierr := parseSlotInput(req.Date, req.Slot)
	if apierr != nil {
		return nil, apierr
	}

	err := a.AppointmentRepo.UpdateSlot(appt, date, utils.SlotTime(slot), utils.NowUTC())
	if errors.Is(err, repository.ErrSlotTaken) {
		return nil, apierror.SlotTakenError
	}
	if err != nil {
		log.Errorf("failed to reschedule appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return a.reload(appt)
}

// CancelAppointment marks the appointment Cancelled. A requester who is
// neither the owning patient nor the assigned doctor gets the appointment
// back unchanged: the browser flow treats that as a silent redirect rather
// than an error. Cancelling twice is a no-op.
func (a *DefaultAppointmentService) CancelAppointment(id int, requester access.Requester) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}

	if !access.CanCancel(requester, appt) || appt.Status == entity.StatusCancelled {
		return toAppointmentResponse(appt), nil
	}

	appt.Status = entity.StatusCancelled
	appt.UpdatedAt = utils.NowUTC()
	if err := a.AppointmentRepo.Save(appt); err != nil {
		log.Errorf("failed to cancel appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// CompleteAppointment marks the appointment Completed. There is no check
// that the appointment date has passed.
func (a *DefaultAppointmentService) CompleteAppointment(id int, requester access.Requester) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, apierr := a.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}
	if !access.CanComplete(requester, appt) {
		return nil, apierror.AccessDeniedError
	}

	appt.Status = entity.StatusCompleted
	appt.UpdatedAt = utils.NowUTC()
	if err := a.AppointmentRepo.Save(appt); err != nil {
		log.Errorf("failed to complete appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(appt), nil
}

// UpdateAppointment is the API PUT: any of status, date and slot may be set.
// Date and slot travel together since the time is derived from the slot.
func (a *DefaultAppointmentService) UpdateAppointment(id int, req *UpdateAppointmentRequest, requester access.Requester) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)

	appt, apierr := a.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}
	if !access.CanViewAppointment(requester, appt) {
		return nil, apierror.AccessDeniedError
	}

	if req.Date != "" || req.Slot != "" {
		if req.Date == "" {
			return nil, apierror.NewMissingParamError("date")
		}
		if req.Slot == "" {
			return nil, apierror.NewMissingParamError("slot")
		}

		date, slot, apierr := parseSlotInput(req.Date, req.Slot)
		if apierr != nil {
			return nil, apierr
		}

		err := a.AppointmentRepo.UpdateSlot(appt, date, utils.SlotTime(slot), utils.NowUTC())
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apierror.SlotTakenError
		}
		if err != nil {
			log.Errorf("failed to move appointment %d: %v", id, err)
			return nil, apierror.InternalServerError
		}
	}

	if req.Status != "" {
		if !entity.ValidStatus(req.Status) {
			return nil, apierror.InvalidStatusError
		}
		appt.Status = entity.AppointmentStatus(req.Status)
		appt.UpdatedAt = utils.NowUTC()
		if err := a.AppointmentRepo.Save(appt); err != nil {
			log.Errorf("failed to update appointment %d status: %v", id, err)
			return nil, apierror.InternalServerError
		}
	}

	return a.reload(appt)
}

// DeleteAppointment removes the row outright (the API DELETE). Requesters
// with no claim on the appointment get the same 404 as a missing id.
func (a *DefaultAppointmentService) DeleteAppointment(id int, requester access.Requester) apierror.ErrorResponse {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return apierror.InternalServerError
	}
	if appt == nil || !access.CanViewAppointment(requester, appt) {
		return apierror.NotFoundError
	}

	if err := a.AppointmentRepo.Delete(appt); err != nil {
		log.Errorf("failed to delete appointment %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// GetPatientHistory lists every appointment a patient has had, past and
// present. Admin and doctor only.
func (a *DefaultAppointmentService) GetPatientHistory(patientID int, requester access.Requester) ([]*AppointmentResponse, apierror.ErrorResponse) {
	if !access.CanViewPatientHistory(requester) {
		return nil, apierror.AccessDeniedError
	}

	appts, err := a.AppointmentRepo.FindByPatientID(patientID)
	if err != nil {
		log.Errorf("failed to fetch history for patient %d: %v", patientID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) fetchByID(id int) (*entity.Appointment, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	return appt, nil
}

// reload re-reads an appointment so the response carries the doctor and
// patient names.
func (a *DefaultAppointmentService) reload(appt *entity.Appointment) (*AppointmentResponse, apierror.ErrorResponse) {
	fresh, err := a.AppointmentRepo.FindByID(appt.ID)
	if err != nil || fresh == nil {
		log.Errorf("failed to reload appointment %d: %v", appt.ID, err)
		return nil, apierror.InternalServerError
	}
	return toAppointmentResponse(fresh), nil
}

func parseSlotInput(rawDate, rawSlot string) (string, entity.SlotType, apierror.ErrorResponse) {
	date, err := utils.ParseDate(rawDate)
	if err != nil {
		return "", "", apierror.InvalidDateError
	}

	slot, err := utils.ParseSlotLabel(rawSlot)
	if err != nil {
		return "", "", apierror.InvalidSlotError
	}
	return date, slot, nil
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          appt.ID,
		DoctorID:    appt.DoctorID,
		PatientID:   appt.PatientID,
		DoctorName:  appt.Doctor.Username,
		PatientName: appt.Patient.Username,
		Date:        appt.AppointmentDate,
		Time:        appt.AppointmentTime,
		Status:      string(appt.Status),
		CreatedAt:   utils.FormatEpoch(appt.CreatedAt),
	}
}
