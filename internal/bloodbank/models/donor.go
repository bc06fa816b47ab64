package models

import (
	"strings"
	"time"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// MinDonorWeightKg is the lowest body weight accepted at profile creation.
const MinDonorWeightKg = 45.0

// Donor is a registered blood donor.
//
// Invariants:
//   - BloodGroup is one of the eight ABO/Rh types
//   - WeightKg >= MinDonorWeightKg at creation
//   - DonationCount only grows, and only when a donation completes
//
// Availability is donor-controlled, except that the engine sets it to false
// while the donor holds a pending match and back to true when that match is
// rejected or its request cancelled.
type Donor struct {
	ID               id.DonorID `json:"id"`
	UserRef          string     `json:"user_ref,omitempty"`
	Name             string     `json:"name"`
	BloodGroup       BloodGroup `json:"blood_group"`
	Location         string     `json:"location"`
	WeightKg         float64    `json:"weight_kg"`
	IsAvailable      bool       `json:"is_available"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	DonationCount    int        `json:"donation_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func validateDonorProfile(name string, group BloodGroup, weightKg float64) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "donor name cannot be empty")
	}
	if !group.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid blood group")
	}
	if weightKg < MinDonorWeightKg {
		return dErrors.New(dErrors.CodeInvariantViolation, "donor weight must be at least 45 kg")
	}
	return nil
}

// NewDonor validates a new donor profile. New donors start available.
func NewDonor(donorID id.DonorID, userRef, name string, group BloodGroup, location string, weightKg float64, now time.Time) (*Donor, error) {
	name = strings.TrimSpace(name)
	if err := validateDonorProfile(name, group, weightKg); err != nil {
		return nil, err
	}
	return &Donor{
		ID:          donorID,
		UserRef:     strings.TrimSpace(userRef),
		Name:        name,
		BloodGroup:  group,
		Location:    strings.TrimSpace(location),
		WeightKg:    weightKg,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateProfile applies a donor's own profile edit with the same checks as
// registration. The blood group is fixed while the donor holds an active
// match, since that match was made for it.
func (d *Donor) UpdateProfile(name string, group BloodGroup, location string, weightKg float64, holdsActiveMatch bool, now time.Time) error {
	name = strings.TrimSpace(name)
	if err := validateDonorProfile(name, group, weightKg); err != nil {
		return err
	}
	if group != d.BloodGroup && holdsActiveMatch {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "blood group cannot change while the donor holds an active match")
	}
	d.Name = name
	d.BloodGroup = group
	d.Location = strings.TrimSpace(location)
	d.WeightKg = weightKg
	d.UpdatedAt = now
	return nil
}

// Reserve marks the donor unavailable because a match was assigned.
func (d *Donor) Reserve(now time.Time) {
	d.IsAvailable = false
	d.UpdatedAt = now
}

// Release returns the donor to the pool after a rejection or cancellation.
func (d *Donor) Release(now time.Time) {
	d.IsAvailable = true
	d.UpdatedAt = now
}

// SetAvailability applies a donor-initiated availability change. A donor
// holding a pending match cannot make themselves available again; the engine
// owns the flag until that match resolves.
func (d *Donor) SetAvailability(available, holdsActiveMatch bool, now time.Time) error {
	if available && holdsActiveMatch {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "donor holds an active match")
	}
	d.IsAvailable = available
	d.UpdatedAt = now
	return nil
}

// RecordDonation stamps a completed donation on the donor.
func (d *Donor) RecordDonation(donationDate, now time.Time) {
	date := DateOf(donationDate)
	d.LastDonationDate = &date
	d.DonationCount++
	d.UpdatedAt = now
}

// Clone returns a deep copy.
func (d *Donor) Clone() *Donor {
	c := *d
	if d.LastDonationDate != nil {
		last := *d.LastDonationDate
		c.LastDonationDate = &last
	}
	return &c
}
