package handler

import (
	"strings"
	"time"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

const (
	maxNameLength  = 128
	maxNotesLength = 1000
)

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, field+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

func requireName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	if len(value) > maxNameLength {
		return "", dErrors.New(dErrors.CodeValidation, field+" must be at most 128 characters")
	}
	return value, nil
}

// RegisterDonorRequest is the body of POST /donors.
type RegisterDonorRequest struct {
	UserRef    string  `json:"user_ref"`
	Name       string  `json:"name"`
	BloodGroup string  `json:"blood_group"`
	Location   string  `json:"location"`
	WeightKg   float64 `json:"weight_kg"`

	bloodGroup models.BloodGroup
}

func (r *RegisterDonorRequest) Validate() error {
	name, err := requireName("name", r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	group, err := models.ParseBloodGroup(r.BloodGroup)
	if err != nil {
		return err
	}
	r.bloodGroup = group
	if r.WeightKg <= 0 {
		return dErrors.New(dErrors.CodeValidation, "weight_kg is required")
	}
	return nil
}

// UpdateDonorProfileRequest is the body of PUT /donors/{id}.
type UpdateDonorProfileRequest struct {
	Name       string  `json:"name"`
	BloodGroup string  `json:"blood_group"`
	Location   string  `json:"location"`
	WeightKg   float64 `json:"weight_kg"`

	bloodGroup models.BloodGroup
}

func (r *UpdateDonorProfileRequest) Validate() error {
	name, err := requireName("name", r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	group, err := models.ParseBloodGroup(r.BloodGroup)
	if err != nil {
		return err
	}
	r.bloodGroup = group
	if r.WeightKg <= 0 {
		return dErrors.New(dErrors.CodeValidation, "weight_kg is required")
	}
	return nil
}

// SetAvailabilityRequest is the body of PUT /donors/{id}/availability.
type SetAvailabilityRequest struct {
	Available *bool `json:"available"`
}

func (r *SetAvailabilityRequest) Validate() error {
	if r.Available == nil {
		return dErrors.New(dErrors.CodeValidation, "available is required")
	}
	return nil
}

// RegisterPatientRequest is the body of POST /patients.
type RegisterPatientRequest struct {
	UserRef          string `json:"user_ref"`
	Name             string `json:"name"`
	BloodGroup       string `json:"blood_group"`
	Location         string `json:"location"`
	EmergencyContact string `json:"emergency_contact"`
	MedicalHistory   string `json:"medical_history"`

	bloodGroup models.BloodGroup
}

func (r *RegisterPatientRequest) Validate() error {
	name, err := requireName("name", r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	group, err := models.ParseBloodGroup(r.BloodGroup)
	if err != nil {
		return err
	}
	r.bloodGroup = group
	return nil
}

// UpdatePatientRequest is the body of PUT /patients/{id}.
type UpdatePatientRequest struct {
	Name             string `json:"name"`
	BloodGroup       string `json:"blood_group"`
	Location         string `json:"location"`
	EmergencyContact string `json:"emergency_contact"`
	MedicalHistory   string `json:"medical_history"`

	bloodGroup models.BloodGroup
}

func (r *UpdatePatientRequest) Validate() error {
	name, err := requireName("name", r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	group, err := models.ParseBloodGroup(r.BloodGroup)
	if err != nil {
		return err
	}
	r.bloodGroup = group
	return nil
}

// RegisterHospitalRequest is the body of POST /hospitals.
type RegisterHospitalRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
}

func (r *RegisterHospitalRequest) Validate() error {
	name, err := requireName("name", r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	return nil
}

// RegisterStaffRequest is the body of POST /hospitals/{id}/staff.
type RegisterStaffRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

func (r *RegisterStaffRequest) Validate() error {
	name, err := requireName("name", r.Name)
	if err != nil {
		return err
	}
	r.Name = name
	r.Role = strings.TrimSpace(r.Role)
	return nil
}

// CreateBloodRequestRequest is the body of POST /requests.
type CreateBloodRequestRequest struct {
	PatientID     string `json:"patient_id"`
	HospitalID    string `json:"hospital_id"`
	BloodGroup    string `json:"blood_group"`
	Urgency       string `json:"urgency"`
	UnitsNeeded   int    `json:"units_needed"`
	MedicalReason string `json:"medical_reason"`
	RequiredBy    string `json:"required_by"`

	patientID  id.PatientID
	hospitalID id.HospitalID
	bloodGroup models.BloodGroup
	urgency    models.Urgency
	requiredBy time.Time
}

func (r *CreateBloodRequestRequest) Validate() error {
	var err error
	if r.patientID, err = id.ParsePatientID(r.PatientID); err != nil {
		return err
	}
	if r.hospitalID, err = id.ParseHospitalID(r.HospitalID); err != nil {
		return err
	}
	if r.bloodGroup, err = models.ParseBloodGroup(r.BloodGroup); err != nil {
		return err
	}
	if r.urgency, err = models.ParseUrgency(r.Urgency); err != nil {
		return err
	}
	if !models.ValidUnits(r.UnitsNeeded) {
		return dErrors.New(dErrors.CodeValidation, "units_needed must be between 1 and 100")
	}
	if len(r.MedicalReason) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "medical_reason must be at most 1000 characters")
	}
	if r.requiredBy, err = parseDate("required_by", r.RequiredBy); err != nil {
		return err
	}
	return nil
}

// MatchNotesRequest is the optional body of match confirm and reject.
type MatchNotesRequest struct {
	Notes string `json:"notes"`
}

func (r *MatchNotesRequest) Validate() error {
	r.Notes = strings.TrimSpace(r.Notes)
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes must be at most 1000 characters")
	}
	return nil
}

// ScheduleDonationRequest is the body of POST /donations.
type ScheduleDonationRequest struct {
	MatchID string `json:"match_id"`
	Date    string `json:"date"`
	Units   int    `json:"units"`
	StaffID string `json:"staff_id"`

	matchID id.MatchID
	date    time.Time
	staffID id.StaffID
}

func (r *ScheduleDonationRequest) Validate() error {
	var err error
	if r.matchID, err = id.ParseMatchID(r.MatchID); err != nil {
		return err
	}
	if r.staffID, err = id.ParseStaffID(r.StaffID); err != nil {
		return err
	}
	if !models.ValidUnits(r.Units) {
		return dErrors.New(dErrors.CodeValidation, "units must be between 1 and 100")
	}
	if r.date, err = parseDate("date", r.Date); err != nil {
		return err
	}
	return nil
}
