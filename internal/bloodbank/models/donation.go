package models

import (
	"strings"
	"time"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

type DonationStatus string

const (
	DonationStatusScheduled DonationStatus = "scheduled"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"
)

func (s DonationStatus) IsValid() bool {
	switch s {
	case DonationStatusScheduled, DonationStatusCompleted, DonationStatusCancelled:
		return true
	}
	return false
}

func (s DonationStatus) String() string { return string(s) }

// ParseDonationStatus parses a donation queue filter.
func ParseDonationStatus(s string) (DonationStatus, error) {
	st := DonationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid donation status: "+s)
	}
	return st, nil
}

// DonationRecord is a physical donation scheduled from a confirmed match.
// BloodGroup is copied from the request so completion can credit inventory
// without another lookup.
type DonationRecord struct {
	ID          id.DonationID  `json:"id"`
	MatchID     id.MatchID     `json:"match_id"`
	RequestID   id.RequestID   `json:"request_id"`
	DonorID     id.DonorID     `json:"donor_id"`
	HospitalID  id.HospitalID  `json:"hospital_id"`
	BloodGroup  BloodGroup     `json:"blood_group"`
	Date        time.Time      `json:"donation_date"`
	Units       int            `json:"units"`
	Status      DonationStatus `json:"status"`
	ScheduledBy id.StaffID     `json:"scheduled_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewDonationRecord schedules a donation for match m of request r.
func NewDonationRecord(donationID id.DonationID, m *DonorMatch, r *BloodRequest, date time.Time, units int, staffID id.StaffID, now time.Time) (*DonationRecord, error) {
	if m.Status != MatchStatusConfirmed {
		return nil, dErrors.New(dErrors.CodeInvalidStateTransition, "only confirmed matches can be scheduled")
	}
	if !r.IsPending() {
		return nil, dErrors.New(dErrors.CodeInvalidStateTransition, "request is no longer pending")
	}
	if !ValidUnits(units) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "units must be between 1 and 100")
	}
	if DateOf(date).Before(DateOf(now)) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "donation date cannot be in the past")
	}
	return &DonationRecord{
		ID:          donationID,
		MatchID:     m.ID,
		RequestID:   r.ID,
		DonorID:     m.DonorID,
		HospitalID:  r.HospitalID,
		BloodGroup:  r.BloodGroup,
		Date:        DateOf(date),
		Units:       units,
		Status:      DonationStatusScheduled,
		ScheduledBy: staffID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (d *DonationRecord) IsScheduled() bool {
	return d.Status == DonationStatusScheduled
}

func (d *DonationRecord) Complete(now time.Time) error {
	if !d.IsScheduled() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "only scheduled donations can be completed")
	}
	d.Status = DonationStatusCompleted
	d.UpdatedAt = now
	return nil
}

func (d *DonationRecord) Cancel(now time.Time) error {
	if !d.IsScheduled() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "only scheduled donations can be cancelled")
	}
	d.Status = DonationStatusCancelled
	d.UpdatedAt = now
	return nil
}

func (d *DonationRecord) Clone() *DonationRecord {
	c := *d
	return &c
}
