package service

import (
	"net/http"
	"testing"

	"medisched/cmd/internal/domain/entity"
)

func TestSetAvailability_ReplacesEntireSet(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.seedUser(t, "dr-house", entity.RoleDoctor)

	first := &SetAvailabilityRequest{Slots: []string{"2099-01-10_Morning", "2099-01-11_Evening"}}
	if _, apierr := env.avail.SetAvailability(first, asRequester(doctor)); apierr != nil {
		t.Fatalf("first submit should succeed: %+v", apierr)
	}

	second := &SetAvailabilityRequest{Slots: []string{"2099-02-01_evening"}}
	if _, apierr := env.avail.SetAvailability(second, asRequester(doctor)); apierr != nil {
		t.Fatalf("second submit should succeed: %+v", apierr)
	}

	slots, apierr := env.avail.GetAvailability(doctor.ID, "2099-01-01")
	if apierr != nil {
		t.Fatalf("listing should succeed: %+v", apierr)
	}
	if len(slots) != 1 {
		t.Fatalf("replace-all must leave exactly the new set, got %d slots", len(slots))
	}
	if slots[0].Date != "2099-02-01" || slots[0].Slot != "Evening" {
		t.Errorf("expected the lowercase label stored capitalized, got %+v", slots[0])
	}
}

func TestSetAvailability_DoesNotTouchOtherDoctors(t *testing.T) {
	env := newTestEnv(t)
	house := env.seedUser(t, "dr-house", entity.RoleDoctor)
	wilson := env.seedUser(t, "dr-wilson", entity.RoleDoctor)

	if _, apierr := env.avail.SetAvailability(&SetAvailabilityRequest{Slots: []string{"2099-01-10_Morning"}}, asRequester(house)); apierr != nil {
		t.Fatalf("submit should succeed: %+v", apierr)
	}
	if _, apierr := env.avail.SetAvailability(&SetAvailabilityRequest{Slots: []string{"2099-01-12_Evening"}}, asRequester(wilson)); apierr != nil {
		t.Fatalf("submit should succeed: %+v", apierr)
	}

	// Wilson resubmits; House's slots must survive.
	if _, apierr := env.avail.SetAvailability(&SetAvailabilityRequest{Slots: []string{"2099-03-01_Morning"}}, asRequester(wilson)); apierr != nil {
		t.Fatalf("resubmit should succeed: %+v", apierr)
	}

	slots, apierr := env.avail.GetAvailability(house.ID, "2099-01-01")
	if apierr != nil {
		t.Fatalf("listing should succeed: %+v", apierr)
	}
	if len(slots) != 1 || slots[0].Date != "2099-01-10" {
		t.Errorf("another doctor's replace wiped this doctor's slots: %+v", slots)
	}
}

func TestSetAvailability_EmptySetClears(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.seedUser(t, "dr-house", entity.RoleDoctor)

	if _, apierr := env.avail.SetAvailability(&SetAvailabilityRequest{Slots: []string{"2099-01-10_Morning"}}, asRequester(doctor)); apierr != nil {
		t.Fatalf("submit should succeed: %+v", apierr)
	}
	if _, apierr := env.avail.SetAvailability(&SetAvailabilityRequest{Slots: []string{}}, asRequester(doctor)); apierr != nil {
		t.Fatalf("clearing submit should succeed: %+v", apierr)
	}

	slots, apierr := env.avail.GetAvailability(doctor.ID, "2099-01-01")
	if apierr != nil {
		t.Fatalf("listing should succeed: %+v", apierr)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots after clearing, got %d", len(slots))
	}
}

func TestSetAvailability_RejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.seedUser(t, "dr-house", entity.RoleDoctor)

	for _, token := range []string{"2099-01-10", "2099-01-10_Noon", "soon_Morning"} {
		req := &SetAvailabilityRequest{Slots: []string{token}}
		if _, apierr := env.avail.SetAvailability(req, asRequester(doctor)); apierr == nil || apierr.Code() != http.StatusBadRequest {
			t.Errorf("token %q: expected 400, got %+v", token, apierr)
		}
	}
}

func TestSetAvailability_PatientsMayNot(t *testing.T) {
	env := newTestEnv(t)
	patient := env.seedUser(t, "alice", entity.RolePatient)

	req := &SetAvailabilityRequest{Slots: []string{"2099-01-10_Morning"}}
	if _, apierr := env.avail.SetAvailability(req, asRequester(patient)); apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Errorf("expected 403 for a patient, got %+v", apierr)
	}
}

func TestGetAvailability_FromDateFilterAndOrder(t *testing.T) {
	env := newTestEnv(t)
	doctor := env.seedUser(t, "dr-house", entity.RoleDoctor)

	req := &SetAvailabilityRequest{Slots: []string{
		"2099-01-20_Evening",
		"2099-01-10_Morning",
		"2099-01-15_Morning",
	}}
	if _, apierr := env.avail.SetAvailability(req, asRequester(doctor)); apierr != nil {
		t.Fatalf("submit should succeed: %+v", apierr)
	}

	slots, apierr := env.avail.GetAvailability(doctor.ID, "2099-01-12")
	if apierr != nil {
		t.Fatalf("listing should succeed: %+v", apierr)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots on or after 2099-01-12, got %d", len(slots))
	}
	if slots[0].Date != "2099-01-15" || slots[1].Date != "2099-01-20" {
		t.Errorf("expected ascending date order, got %+v", slots)
	}
}

func TestGetAvailability_UnknownDoctor(t *testing.T) {
	env := newTestEnv(t)
	if _, apierr := env.avail.GetAvailability(42, "2099-01-01"); apierr == nil || apierr.Code() != http.StatusNotFound {
		t.Errorf("expected 404 for unknown doctor, got %+v", apierr)
	}
}
