package service

import (
	"net/http"
	"testing"

	"medisched/cmd/internal/domain/entity"
)

const goodPassword = "Sup3r$ecret"

func registerPatient(t *testing.T, env *testEnv, username string) *UserResponse {
	t.Helper()
	user, apierr := env.users.Register(&RegisterRequest{
		Username: username,
		Email:    username + "@clinic.test",
		Password: goodPassword,
	})
	if apierr != nil {
		t.Fatalf("registration should succeed: %+v", apierr)
	}
	return user
}

func TestRegister_CreatesPatient(t *testing.T) {
	env := newTestEnv(t)

	user := registerPatient(t, env, "alice")
	if user.Role != string(entity.RolePatient) {
		t.Errorf("open signup must create patients, got role %s", user.Role)
	}
	if !user.IsActiveUser {
		t.Error("new accounts should be active")
	}
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	env := newTestEnv(t)
	registerPatient(t, env, "alice")

	_, apierr := env.users.Register(&RegisterRequest{
		Username: "alice2",
		Email:    "alice@clinic.test",
		Password: goodPassword,
	})
	if apierr == nil || apierr.Code() != http.StatusConflict {
		t.Errorf("expected 409 for a duplicate email, got %+v", apierr)
	}
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	env := newTestEnv(t)

	_, apierr := env.users.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@clinic.test",
		Password: "password",
	})
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400 for a weak password, got %+v", apierr)
	}
}

func TestLogin_IssuesToken(t *testing.T) {
	env := newTestEnv(t)
	registerPatient(t, env, "alice")

	resp, apierr := env.users.Login(&UserLoginRequest{Email: "alice@clinic.test", Password: goodPassword})
	if apierr != nil {
		t.Fatalf("login should succeed: %+v", apierr)
	}
	if resp.AccessToken == "" {
		t.Error("expected a signed access token")
	}
	if resp.User.Username != "alice" {
		t.Errorf("expected the logged-in user back, got %s", resp.User.Username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	registerPatient(t, env, "alice")

	_, apierr := env.users.Login(&UserLoginRequest{Email: "alice@clinic.test", Password: "Wr0ng$secret"})
	if apierr == nil || apierr.Code() != http.StatusUnauthorized {
		t.Errorf("expected 401 for a wrong password, got %+v", apierr)
	}
}

func TestLogin_DeactivatedAccountDenied(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "root", entity.RoleAdmin)
	user := registerPatient(t, env, "alice")

	if _, apierr := env.users.ToggleStatus(user.ID, asRequester(admin)); apierr != nil {
		t.Fatalf("toggle should succeed: %+v", apierr)
	}

	// Correct credentials, blacklisted account.
	_, apierr := env.users.Login(&UserLoginRequest{Email: "alice@clinic.test", Password: goodPassword})
	if apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Errorf("expected 403 for a deactivated account, got %+v", apierr)
	}

	// Reactivation restores access.
	if _, apierr := env.users.ToggleStatus(user.ID, asRequester(admin)); apierr != nil {
		t.Fatalf("toggle should succeed: %+v", apierr)
	}
	if _, apierr := env.users.Login(&UserLoginRequest{Email: "alice@clinic.test", Password: goodPassword}); apierr != nil {
		t.Errorf("reactivated account should log in: %+v", apierr)
	}
}

func TestCreateDoctor_AdminOnlyAndNeedsDepartment(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "root", entity.RoleAdmin)
	patient := env.seedUser(t, "alice", entity.RolePatient)

	dept, apierr := env.departments.CreateDepartment(&DepartmentRequest{Name: "Cardiology"}, asRequester(admin))
	if apierr != nil {
		t.Fatalf("department create should succeed: %+v", apierr)
	}

	req := &CreateDoctorRequest{Username: "dr-house", Email: "house@clinic.test", Password: goodPassword, DepartmentID: dept.ID}
	if _, apierr := env.users.CreateDoctor(req, asRequester(patient)); apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Fatalf("expected 403 for a patient, got %+v", apierr)
	}

	doctor, apierr := env.users.CreateDoctor(req, asRequester(admin))
	if apierr != nil {
		t.Fatalf("admin create should succeed: %+v", apierr)
	}
	if doctor.Role != string(entity.RoleDoctor) {
		t.Errorf("expected doctor role, got %s", doctor.Role)
	}
	if doctor.DepartmentID == nil || *doctor.DepartmentID != dept.ID {
		t.Errorf("expected department %d, got %v", dept.ID, doctor.DepartmentID)
	}

	bad := &CreateDoctorRequest{Username: "dr-wilson", Email: "wilson@clinic.test", Password: goodPassword, DepartmentID: 999}
	if _, apierr := env.users.CreateDoctor(bad, asRequester(admin)); apierr == nil || apierr.Code() != http.StatusNotFound {
		t.Errorf("expected 404 for a missing department, got %+v", apierr)
	}
}

func TestGetUsers_RoleFilterAndSearch(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "root", entity.RoleAdmin)
	env.seedUser(t, "dr-house", entity.RoleDoctor)
	env.seedUser(t, "dr-wilson", entity.RoleDoctor)
	env.seedUser(t, "alice", entity.RolePatient)

	doctors, apierr := env.users.GetUsers("doctor", "", asRequester(admin))
	if apierr != nil {
		t.Fatalf("listing should succeed: %+v", apierr)
	}
	if len(doctors) != 2 {
		t.Errorf("expected 2 doctors, got %d", len(doctors))
	}

	// Search is case-insensitive over username and email.
	found, apierr := env.users.GetUsers("doctor", "HOUSE", asRequester(admin))
	if apierr != nil {
		t.Fatalf("search should succeed: %+v", apierr)
	}
	if len(found) != 1 || found[0].Username != "dr-house" {
		t.Errorf("expected dr-house only, got %+v", found)
	}
}

func TestGetUsers_NonAdminDenied(t *testing.T) {
	env := newTestEnv(t)
	patient := env.seedUser(t, "alice", entity.RolePatient)

	if _, apierr := env.users.GetUsers("", "", asRequester(patient)); apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Errorf("expected 403 for a patient, got %+v", apierr)
	}
}

func TestUpdateUser_DoctorDepartmentMove(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "root", entity.RoleAdmin)

	cardio, _ := env.departments.CreateDepartment(&DepartmentRequest{Name: "Cardiology"}, asRequester(admin))
	neuro, _ := env.departments.CreateDepartment(&DepartmentRequest{Name: "Neurology"}, asRequester(admin))

	doctor, apierr := env.users.CreateDoctor(&CreateDoctorRequest{Username: "dr-house", Email: "house@clinic.test", Password: goodPassword, DepartmentID: cardio.ID}, asRequester(admin))
	if apierr != nil {
		t.Fatalf("doctor create should succeed: %+v", apierr)
	}

	updated, apierr := env.users.UpdateUser(doctor.ID, &UpdateUserRequest{Username: "dr-house", Email: "house@clinic.test", DepartmentID: neuro.ID}, asRequester(admin))
	if apierr != nil {
		t.Fatalf("update should succeed: %+v", apierr)
	}
	if updated.DepartmentID == nil || *updated.DepartmentID != neuro.ID {
		t.Errorf("expected department %d, got %v", neuro.ID, updated.DepartmentID)
	}
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "root", entity.RoleAdmin)
	alice := env.seedUser(t, "alice", entity.RolePatient)
	bob := env.seedUser(t, "bob", entity.RolePatient)

	if apierr := env.users.DeleteUser(alice.ID, asRequester(bob)); apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Fatalf("expected 403 for a patient delete, got %+v", apierr)
	}
	if apierr := env.users.DeleteUser(alice.ID, asRequester(admin)); apierr != nil {
		t.Fatalf("admin delete should succeed: %+v", apierr)
	}
	if _, apierr := env.users.GetUser(alice.ID, asRequester(admin)); apierr == nil || apierr.Code() != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %+v", apierr)
	}
}
