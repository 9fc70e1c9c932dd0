package service

import (
	"medisched/cmd/internal/access"
	"medisched/cmd/internal/domain/entity"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type DepartmentRepository interface {
	FindByID(id int) (*entity.Department, error)
	FindAll() ([]*entity.Department, error)
	ExistsByName(name string) (bool, error)
	Save(dept *entity.Department) error
	Delete(dept *entity.Department) error
}

type DepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type DepartmentResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DefaultDepartmentService struct {
	DepartmentRepo DepartmentRepository
	Validate       *validator.Validate
}

func NewDepartmentService(deptRepo DepartmentRepository, validate *validator.Validate) *DefaultDepartmentService {
	return &DefaultDepartmentService{DepartmentRepo: deptRepo, Validate: validate}
}

func (d *DefaultDepartmentService) GetDepartments() ([]*DepartmentResponse, apierror.ErrorResponse) {
	depts, err := d.DepartmentRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch departments: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*DepartmentResponse, len(depts))
	for i, dept := range depts {
		resp[i] = toDepartmentResponse(dept)
	}
	return resp, nil
}

func (d *DefaultDepartmentService) CreateDepartment(req *DepartmentRequest, requester access.Requester) (*DepartmentResponse, apierror.ErrorResponse) {
	if !access.CanManageUsers(requester) {
		return nil, apierror.AccessDeniedError
	}

	utils.Sanitize(req)
	if err := d.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := d.DepartmentRepo.ExistsByName(req.Name)
	if err != nil {
		log.Errorf("failed to check department name %q: %v", req.Name, err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.DepartmentExistsError
	}

	dept := &entity.Department{Name: req.Name, Description: req.Description}
	if err := d.DepartmentRepo.Save(dept); err != nil {
		log.Errorf("failed to save department %q: %v", req.Name, err)
		return nil, apierror.InternalServerError
	}
	return toDepartmentResponse(dept), nil
}

func (d *DefaultDepartmentService) UpdateDepartment(id int, req *DepartmentRequest, requester access.Requester) (*DepartmentResponse, apierror.ErrorResponse) {
	if !access.CanManageUsers(requester) {
		return nil, apierror.AccessDeniedError
	}

	utils.Sanitize(req)
	if err := d.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	dept, apierr := d.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}

	dept.Name = req.Name
	dept.Description = req.Description
	if err := d.DepartmentRepo.Save(dept); err != nil {
		log.Errorf("failed to update department %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toDepartmentResponse(dept), nil
}

func (d *DefaultDepartmentService) DeleteDepartment(id int, requester access.Requester) apierror.ErrorResponse {
	if !access.CanManageUsers(requester) {
		return apierror.AccessDeniedError
	}

	dept, apierr := d.fetchByID(id)
	if apierr != nil {
		return apierr
	}

	if err := d.DepartmentRepo.Delete(dept); err != nil {
		log.Errorf("failed to delete department %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (d *DefaultDepartmentService) fetchByID(id int) (*entity.Department, apierror.ErrorResponse) {
	dept, err := d.DepartmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch department %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if dept == nil {
		return nil, apierror.NotFoundError
	}
	return dept, nil
}

func toDepartmentResponse(dept *entity.Department) *DepartmentResponse {
	return &DepartmentResponse{ID: dept.ID, Name: dept.Name, Description: dept.Description}
}
