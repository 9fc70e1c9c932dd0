package service

import (
	"time"

	"medisched/cmd/internal/access"
	"medisched/cmd/internal/domain/entity"
	"medisched/cmd/internal/utils"
	"medisched/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	FindByRole(role entity.Role, search string) ([]*entity.User, error)
	FindAll() ([]*entity.User, error)
	Save(user *entity.User) error
	Delete(user *entity.User) error
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=80"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower,nospaces"`
	PhoneNumber string `json:"phone_number" validate:"max=15"`
}

type CreateDoctorRequest struct {
	Username     string `json:"username" validate:"required,min=2,max=80"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower,nospaces"`
	DepartmentID int    `json:"department_id" validate:"required"`
}

type UpdateUserRequest struct {
	Username     string `json:"username" validate:"required,min=2,max=80"`
	Email        string `json:"email" validate:"required,email"`
	DepartmentID int    `json:"department_id"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsActiveUser bool   `json:"is_active_user"`
	DepartmentID *int   `json:"department_id,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type UserLoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

type DefaultUserService struct {
	UserRepo       UserRepository
	DepartmentRepo DepartmentRepository
	Validate       *validator.Validate
	JWTSecret      []byte
	TokenTTL       time.Duration
}

func NewUserService(userRepo UserRepository, deptRepo DepartmentRepository, validate *validator.Validate, secret []byte, ttl time.Duration) *DefaultUserService {
	return &DefaultUserService{
		UserRepo:       userRepo,
		DepartmentRepo: deptRepo,
		Validate:       validate,
		JWTSecret:      secret,
		TokenTTL:       ttl,
	}
}

// Register creates a patient account. Doctors and admins are never created
// through the open signup endpoint; an admin adds doctors via CreateDoctor.
func (u *DefaultUserService) Register(req *RegisterRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if apierr := u.checkIdentityFree(req.Email, req.Username); apierr != nil {
		return nil, apierr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password for %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         entity.RolePatient,
		IsActiveUser: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to save user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

// Login checks credentials and issues a token. A deactivated account is
// rejected before the password is even compared.
func (u *DefaultUserService) Login(req *UserLoginRequest) (*UserLoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.CredentialsError
	}

	if !user.IsActiveUser {
		return nil, apierror.AccountDeactivatedError
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.CredentialsError
	}

	token, err := utils.GenerateToken(u.JWTSecret, user, u.TokenTTL)
	if err != nil {
		log.Errorf("failed to sign token for user %d: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}

	return &UserLoginResponse{AccessToken: token, User: toUserResponse(user)}, nil
}

// GetUsers lists accounts for the admin screens, optionally filtered by role
// and a username/email search term.
func (u *DefaultUserService) GetUsers(role, search string, requester access.Requester) ([]*UserResponse, apierror.ErrorResponse) {
	if !access.CanManageUsers(requester) {
		return nil, apierror.AccessDeniedError
	}

	var (
		users []*entity.User
		err   error
	)
	if role != "" {
		if !entity.ValidRole(role) {
			return nil, apierror.NewInvalidParamTypeError("role", "admin|doctor|patient")
		}
		users, err = u.UserRepo.FindByRole(entity.Role(role), search)
	} else {
		users, err = u.UserRepo.FindAll()
	}
	if err != nil {
		log.Errorf("failed to fetch users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

func (u *DefaultUserService) GetUser(id int, requester access.Requester) (*UserResponse, apierror.ErrorResponse) {
	if !access.CanViewUser(requester, id) {
		return nil, apierror.AccessDeniedError
	}

	user, apierr := u.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(user), nil
}

// CreateDoctor adds a doctor account under a department. Admin only.
func (u *DefaultUserService) CreateDoctor(req *CreateDoctorRequest, requester access.Requester) (*UserResponse, apierror.ErrorResponse) {
	if !access.CanManageUsers(requester) {
		return nil, apierror.AccessDeniedError
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if apierr := u.checkIdentityFree(req.Email, req.Username); apierr != nil {
		return nil, apierr
	}

	dept, err := u.DepartmentRepo.FindByID(req.DepartmentID)
	if err != nil {
		log.Errorf("failed to fetch department %d: %v", req.DepartmentID, err)
		return nil, apierror.InternalServerError
	}
	if dept == nil {
		return nil, apierror.NotFoundError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password for %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	doctor := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleDoctor,
		IsActiveUser: true,
		DepartmentID: &req.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.UserRepo.Save(doctor); err != nil {
		log.Errorf("failed to save doctor %s: %v", req.Email, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(doctor), nil
}

// UpdateUser edits username/email and, for doctors, the department. Admin only.
func (u *DefaultUserService) UpdateUser(id int, req *UpdateUserRequest, requester access.Requester) (*UserResponse, apierror.ErrorResponse) {
	if !access.CanManageUsers(requester) {
		return nil, apierror.AccessDeniedError
	}

	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, apierr := u.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}

	user.Username = req.Username
	user.Email = req.Email
	if user.IsDoctor() && req.DepartmentID != 0 {
		dept, err := u.DepartmentRepo.FindByID(req.DepartmentID)
		if err != nil {
			log.Errorf("failed to fetch department %d: %v", req.DepartmentID, err)
			return nil, apierror.InternalServerError
		}
		if dept == nil {
			return nil, apierror.NotFoundError
		}
		user.DepartmentID = &req.DepartmentID
	}
	user.UpdatedAt = utils.NowUTC()

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to update user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) DeleteUser(id int, requester access.Requester) apierror.ErrorResponse {
	if !access.CanManageUsers(requester) {
		return apierror.AccessDeniedError
	}

	user, apierr := u.fetchByID(id)
	if apierr != nil {
		return apierr
	}

	if err := u.UserRepo.Delete(user); err != nil {
		log.Errorf("failed to delete user %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// ToggleStatus flips the blacklist flag. A blacklisted user can no longer
// log in; outstanding tokens simply expire.
func (u *DefaultUserService) ToggleStatus(id int, requester access.Requester) (*UserResponse, apierror.ErrorResponse) {
	if !access.CanManageUsers(requester) {
		return nil, apierror.AccessDeniedError
	}

	user, apierr := u.fetchByID(id)
	if apierr != nil {
		return nil, apierr
	}

	user.IsActiveUser = !user.IsActiveUser
	user.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to toggle status for user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) fetchByID(id int) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}
	return user, nil
}

func (u *DefaultUserService) checkIdentityFree(email, username string) apierror.ErrorResponse {
	found, err := u.UserRepo.ExistsByEmail(email)
	if err != nil {
		log.Errorf("failed to check if email %s exists: %v", email, err)
		return apierror.InternalServerError
	}
	if found {
		return apierror.UserAlreadyExistsError
	}

	found, err = u.UserRepo.ExistsByUsername(username)
	if err != nil {
		log.Errorf("failed to check if username %s exists: %v", username, err)
		return apierror.InternalServerError
	}
	if found {
		return apierror.UsernameTakenError
	}
	return nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         string(user.Role),
		IsActiveUser: user.IsActiveUser,
		DepartmentID: user.DepartmentID,
		CreatedAt:    utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(user.UpdatedAt),
	}
}
