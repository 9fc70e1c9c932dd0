package routes

import (
	"net/http"

	"medisched/cmd/internal/access"
	"medisched/cmd/internal/service"
	"medisched/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type DepartmentService interface {
	GetDepartments() ([]*service.DepartmentResponse, apierror.ErrorResponse)
	CreateDepartment(req *service.DepartmentRequest, requester access.Requester) (*service.DepartmentResponse, apierror.ErrorResponse)
	UpdateDepartment(id int, req *service.DepartmentRequest, requester access.Requester) (*service.DepartmentResponse, apierror.ErrorResponse)
	DeleteDepartment(id int, requester access.Requester) apierror.ErrorResponse
}

type DefaultDepartmentRoute struct {
	DepartmentService DepartmentService
}

func NewDepartmentDefault(deptService DepartmentService) *DefaultDepartmentRoute {
	return &DefaultDepartmentRoute{DepartmentService: deptService}
}

func (d *DefaultDepartmentRoute) GetDepartments(c echo.Context) error {
	depts, apierr := d.DepartmentService.GetDepartments()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"departments": depts}
	return c.JSON(http.StatusOK, &resp)
}

func (d *DefaultDepartmentRoute) CreateDepartment(c echo.Context) error {
	var req service.DepartmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	requester, err := requesterFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	dept, apierr := d.DepartmentService.CreateDepartment(&req, requester)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, dept)
}

func (d *DefaultDepartmentRoute) UpdateDepartment(c echo.Context) error {
	id, apierr := intParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.DepartmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	requester, err := requesterFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	dept, apierr := d.DepartmentService.UpdateDepartment(id, &req, requester)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, dept)
}

func (d *DefaultDepartmentRoute) DeleteDepartment(c echo.Context) error {
	id, apierr := intParam(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	requester, err := requesterFrom(c)
	if err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	if apierr := d.DepartmentService.DeleteDepartment(id, requester); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
