// Package access holds the role-based authorization predicates consulted
// before every scheduling mutation. All checks are stateless functions over
// the requester's identity and the target resource.
package access

import (
	"medisched/cmd/internal/domain/entity"
)

// Requester is the authenticated identity making a request.
type Requester struct {
	UserID int
	Role   entity.Role
}

func (r Requester) isAdmin() bool { return r.Role == entity.RoleAdmin }

// CanViewAppointment allows admins, the assigned doctor and the owning patient.
func CanViewAppointment(r Requester, appt *entity.Appointment) bool {
	if r.isAdmin() {
		return true
	}
	switch r.Role {
	case entity.RoleDoctor:
		return appt.DoctorID == r.UserID
	case entity.RolePatient:
		return appt.PatientID == r.UserID
	}
	return false
}

// CanReschedule allows only the patient who owns the appointment.
func CanReschedule(r Requester, appt *entity.Appointment) bool {
	return r.Role == entity.RolePatient && appt.PatientID == r.UserID
}

// CanCancel allows the owning patient or the assigned doctor.
func CanCancel(r Requester, appt *entity.Appointment) bool {
	switch r.Role {
	case entity.RoleDoctor:
		return appt.DoctorID == r.UserID
	case entity.RolePatient:
		return appt.PatientID == r.UserID
	}
	return false
}

// CanComplete allows only the assigned doctor.
func CanComplete(r Requester, appt *entity.Appointment) bool {
	return r.Role == entity.RoleDoctor && appt.DoctorID == r.UserID
}

// CanRecordTreatment allows only the assigned doctor.
func CanRecordTreatment(r Requester, appt *entity.Appointment) bool {
	return r.Role == entity.RoleDoctor && appt.DoctorID == r.UserID
}

// CanManageAvailability allows a doctor to manage their own slot set.
func CanManageAvailability(r Requester, doctorID int) bool {
	return r.Role == entity.RoleDoctor && doctorID == r.UserID
}

// CanManageUsers gates the admin user/department CRUD screens.
func CanManageUsers(r Requester) bool {
	return r.isAdmin()
}

// CanViewPatientHistory allows admins and doctors to read a patient's record.
func CanViewPatientHistory(r Requester) bool {
	return r.isAdmin() || r.Role == entity.RoleDoctor
}

// CanViewUser allows admins and the account owner.
func CanViewUser(r Requester, userID int) bool {
	return r.isAdmin() || r.UserID == userID
}
