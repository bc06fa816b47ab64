package models

import (
	"strings"
	"time"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// RequestStatus is the lifecycle state of a BloodRequest.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusFulfilled, RequestStatusCancelled:
		return true
	}
	return false
}

func (s RequestStatus) String() string { return string(s) }

// ParseRequestStatus parses a status filter from external input.
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid request status: "+s)
	}
	return st, nil
}

// BloodRequest is a hospital-bound request for units of one blood group.
//
// Invariants:
//   - 0 < UnitsNeeded <= MaxUnits
//   - RequiredBy is a calendar date not before the creation date
//   - Status moves pending -> fulfilled | cancelled and never back
type BloodRequest struct {
	ID            id.RequestID  `json:"id"`
	PatientID     id.PatientID  `json:"patient_id"`
	HospitalID    id.HospitalID `json:"hospital_id"`
	BloodGroup    BloodGroup    `json:"blood_group"`
	Urgency       Urgency       `json:"urgency"`
	UnitsNeeded   int           `json:"units_needed"`
	MedicalReason string        `json:"medical_reason,omitempty"`
	RequiredBy    time.Time     `json:"required_by"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func NewBloodRequest(
	requestID id.RequestID,
	patientID id.PatientID,
	hospitalID id.HospitalID,
	group BloodGroup,
	urgency Urgency,
	units int,
	reason string,
	requiredBy time.Time,
	now time.Time,
) (*BloodRequest, error) {
	if !group.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid blood group")
	}
	if !urgency.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid urgency")
	}
	if !ValidUnits(units) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "units needed must be between 1 and 100")
	}
	if DateOf(requiredBy).Before(DateOf(now)) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "required-by date cannot be in the past")
	}
	return &BloodRequest{
		ID:            requestID,
		PatientID:     patientID,
		HospitalID:    hospitalID,
		BloodGroup:    group,
		Urgency:       urgency,
		UnitsNeeded:   units,
		MedicalReason: strings.TrimSpace(reason),
		RequiredBy:    DateOf(requiredBy),
		Status:        RequestStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (r *BloodRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// Cancel closes a pending request at the owner's request.
func (r *BloodRequest) Cancel(now time.Time) error {
	if !r.IsPending() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "only pending requests can be cancelled")
	}
	r.Status = RequestStatusCancelled
	r.UpdatedAt = now
	return nil
}

// Fulfil closes a pending request after its donation completed.
func (r *BloodRequest) Fulfil(now time.Time) error {
	if !r.IsPending() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "request is no longer pending")
	}
	r.Status = RequestStatusFulfilled
	r.UpdatedAt = now
	return nil
}

func (r *BloodRequest) Clone() *BloodRequest {
	c := *r
	return &c
}
