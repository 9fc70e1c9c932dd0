package service

import (
	"medisched/cmd/internal/access"
	"medisched/cmd/internal/domain/entity"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AvailabilityRepository interface {
	ReplaceForDoctor(doctorID int, slots []*entity.AvailabilitySlot) error
	FindFromDate(doctorID int, fromDate string) ([]*entity.AvailabilitySlot, error)
}

// SetAvailabilityRequest carries the raw slot tokens from the availability
// form, each of the compound form "<ISO-date>_<SlotLabel>".
type SetAvailabilityRequest struct {
	Slots []string `json:"slots"`
}

type SlotResponse struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
}

type DefaultAvailabilityService struct {
	AvailabilityRepo AvailabilityRepository
	UserRepo         UserRepository
	Validate         *validator.Validate
}

func NewAvailabilityService(availRepo AvailabilityRepository, userRepo UserRepository, validate *validator.Validate) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{AvailabilityRepo: availRepo, UserRepo: userRepo, Validate: validate}
}

// SetAvailability replaces the requesting doctor's entire slot set with the
// submitted one. All previous slots go, past ones included; nothing belonging
// to another doctor is touched.
func (s *DefaultAvailabilityService) SetAvailability(req *SetAvailabilityRequest, requester access.Requester) ([]*SlotResponse, apierror.ErrorResponse) {
	if !access.CanManageAvailability(requester, requester.UserID) {
		return nil, apierror.AccessDeniedError
	}

	utils.Sanitize(req)

	slots := make([]*entity.AvailabilitySlot, 0, len(req.Slots))
	for _, token := range req.Slots {
		date, slotType, err := utils.ParseSlotToken(token)
		if err != nil {
			return nil, apierror.NewSimple(400, "Bad slot token "+token+": expected <YYYY-MM-DD>_<Morning|Evening>")
		}
		slots = append(slots, &entity.AvailabilitySlot{
			DoctorID:      requester.UserID,
			AvailableDate: date,
			SlotType:      slotType,
		})
	}

	if err := s.AvailabilityRepo.ReplaceForDoctor(requester.UserID, slots); err != nil {
		log.Errorf("failed to replace availability for doctor %d: %v", requester.UserID, err)
		return nil, apierror.InternalServerError
	}
	return toSlotResponses(slots), nil
}

// GetAvailability lists a doctor's open slots from fromDate onward,
// ascending by date. An empty fromDate means today.
func (s *DefaultAvailabilityService) GetAvailability(doctorID int, fromDate string) ([]*SlotResponse, apierror.ErrorResponse) {
	if fromDate == "" {
		fromDate = utils.TodayDate()
	} else {
		parsed, err := utils.ParseDate(fromDate)
		if err != nil {
			return nil, apierror.InvalidDateError
		}
		fromDate = parsed
	}

	doctor, err := s.UserRepo.FindByID(doctorID)
	if err != nil {
		log.Errorf("failed to fetch doctor %d: %v", doctorID, err)
		return nil, apierror.InternalServerError
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, apierror.NotFoundError
	}

	slots, err := s.AvailabilityRepo.FindFromDate(doctorID, fromDate)
	if err != nil {
		log.Errorf("failed to fetch availability for doctor %d: %v", doctorID, err)
		return nil, apierror.InternalServerError
	}
	return toSlotResponses(slots), nil
}

func toSlotResponses(slots []*entity.AvailabilitySlot) []*SlotResponse {
	resp := make([]*SlotResponse, len(slots))
	for i, slot := range slots {
		resp[i] = &SlotResponse{Date: slot.AvailableDate, Slot: string(slot.SlotType)}
	}
	return resp
}
