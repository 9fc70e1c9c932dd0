package routes

import (
	"net/http"

	"medisched/cmd/internal/access"
	"medisched/cmd/internal/service"
	"medisched/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AvailabilityService interface {
	SetAvailability(req *service.SetAvailabilityRequest, requester access.Requester) ([]*service.SlotResponse, apierror.ErrorResponse)
	GetAvailability(doctorID int, fromDate string) ([]*service.SlotResponse, apierror.ErrorResponse)
}

type DefaultAvailabilityRoute struct {
	AvailabilityService AvailabilityService
}

func NewAvailabilityDefault(availService AvailabilityService) *DefaultAvailabilityRoute {
	return &DefaultAvailabilityRoute{AvailabilityService: availService}
}

// SetAvailability replaces the calling doctor's whole slot set.
func (a *DefaultAvailabilityRoute) SetAvailability(c echo.Context) error {
	var req service.SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	requester, err := requesterFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	slots, apierr := a.AvailabilityService.SetAvailability(&req, requester)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"slots": slots}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAvailabilityRoute) GetAvailability(c echo.Context) error {
	doctorID, apierr := intParam(c, "doctorId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	slots, apierr := a.AvailabilityService.GetAvailability(doctorID, c.QueryParam("from"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"slots": slots}
	return c.JSON(http.StatusOK, &resp)
}
