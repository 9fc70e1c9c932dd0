package routes

import (
	"net/http"

	"medisched/cmd/internal/access"
	"medisched/cmd/internal/service"
	"medisched/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type TreatmentService interface {
	UpsertTreatment(appointmentID int, req *service.UpsertTreatmentRequest, requester access.Requester) (*service.TreatmentResponse, apierror.ErrorResponse)
	GetTreatment(appointmentID int, requester access.Requester) (*service.TreatmentResponse, apierror.ErrorResponse)
}

type DefaultTreatmentRoute struct {
	TreatmentService TreatmentService
}

func NewTreatmentDefault(treatmentService TreatmentService) *DefaultTreatmentRoute {
	return &DefaultTreatmentRoute{TreatmentService: treatmentService}
}

func (t *DefaultTreatmentRoute) UpsertTreatment(c echo.Context) error {
	id, apierr := intParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.UpsertTreatmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	requester, err := requesterFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	treatment, apierr := t.TreatmentService.UpsertTreatment(id, &req, requester)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, treatment)
}

func (t *DefaultTreatmentRoute) GetTreatment(c echo.Context) error {
	id, apierr := intParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	requester, err := requesterFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	treatment, apierr := t.TreatmentService.GetTreatment(id, requester)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, treatment)
}
