package models

import (
	"strings"
	"time"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// Patient is read-only to the engine. Only the patient's own profile edits
// change it.
type Patient struct {
	ID               id.PatientID `json:"id"`
	UserRef          string       `json:"user_ref,omitempty"`
	Name             string       `json:"name"`
	BloodGroup       BloodGroup   `json:"blood_group"`
	Location         string       `json:"location"`
	EmergencyContact string       `json:"emergency_contact"`
	MedicalHistory   string       `json:"medical_history,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func validatePatientProfile(name string, group BloodGroup) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "patient name cannot be empty")
	}
	if !group.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid blood group")
	}
	return nil
}

func NewPatient(patientID id.PatientID, userRef, name string, group BloodGroup, location, emergencyContact, medicalHistory string, now time.Time) (*Patient, error) {
	name = strings.TrimSpace(name)
	if err := validatePatientProfile(name, group); err != nil {
		return nil, err
	}
	return &Patient{
		ID:               patientID,
		UserRef:          strings.TrimSpace(userRef),
		Name:             name,
		BloodGroup:       group,
		Location:         strings.TrimSpace(location),
		EmergencyContact: strings.TrimSpace(emergencyContact),
		MedicalHistory:   medicalHistory,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// UpdateProfile replaces the editable patient fields. Requests already made
// keep the blood group they were made for.
func (p *Patient) UpdateProfile(name string, group BloodGroup, location, emergencyContact, medicalHistory string, now time.Time) error {
	name = strings.TrimSpace(name)
	if err := validatePatientProfile(name, group); err != nil {
		return err
	}
	p.Name = name
	p.BloodGroup = group
	p.Location = strings.TrimSpace(location)
	p.EmergencyContact = strings.TrimSpace(emergencyContact)
	p.MedicalHistory = medicalHistory
	p.UpdatedAt = now
	return nil
}

// Hospital receives requests and holds inventory. Only active hospitals
// accept new requests.
type Hospital struct {
	ID        id.HospitalID `json:"id"`
	Name      string        `json:"name"`
	Location  string        `json:"location"`
	Contact   string        `json:"contact"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
}

func NewHospital(hospitalID id.HospitalID, name, location, contact string, now time.Time) (*Hospital, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "hospital name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "hospital name must be 128 characters or less")
	}
	return &Hospital{
		ID:        hospitalID,
		Name:      name,
		Location:  strings.TrimSpace(location),
		Contact:   strings.TrimSpace(contact),
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

// HospitalStaff schedules and completes donations on behalf of a hospital.
type HospitalStaff struct {
	ID         id.StaffID    `json:"id"`
	HospitalID id.HospitalID `json:"hospital_id"`
	Name       string        `json:"name"`
	Role       string        `json:"role"`
	CreatedAt  time.Time     `json:"created_at"`
}

func NewHospitalStaff(staffID id.StaffID, hospitalID id.HospitalID, name, role string, now time.Time) (*HospitalStaff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "staff name cannot be empty")
	}
	if hospitalID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "staff must belong to a hospital")
	}
	return &HospitalStaff{
		ID:         staffID,
		HospitalID: hospitalID,
		Name:       name,
		Role:       strings.TrimSpace(role),
		CreatedAt:  now,
	}, nil
}
