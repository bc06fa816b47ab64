// Package events carries lifecycle events from committed engine transitions
// to in-process subscribers and, optionally, to an external stream.
package events

import (
	"time"

	"github.com/google/uuid"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
)

type Type string

const (
	RequestCreated    Type = "request.created"
	RequestCancelled  Type = "request.cancelled"
	MatchCreated      Type = "match.created"
	MatchContacted    Type = "match.contacted"
	MatchConfirmed    Type = "match.confirmed"
	MatchRejected     Type = "match.rejected"
	DonationScheduled Type = "donation.scheduled"
	DonationCompleted Type = "donation.completed"
	DonationCancelled Type = "donation.cancelled"
)

// Event describes one committed transition. Only the ids relevant to the
// event type are set.
type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	RequestID  id.RequestID   `json:"request_id"`
	MatchID    *id.MatchID    `json:"match_id,omitempty"`
	DonationID *id.DonationID `json:"donation_id,omitempty"`
	DonorID    *id.DonorID    `json:"donor_id,omitempty"`
	HospitalID *id.HospitalID `json:"hospital_id,omitempty"`
	BloodGroup string         `json:"blood_group,omitempty"`
	Units      int            `json:"units,omitempty"`
	Status     string         `json:"status,omitempty"`
	// TraceID correlates the event with the HTTP request that caused it.
	TraceID string `json:"trace_id,omitempty"`
}

// New stamps a fresh event id.
func New(t Type, requestID id.RequestID, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: at,
		RequestID:  requestID,
	}
}

func (e Event) WithMatch(matchID id.MatchID, donorID id.DonorID) Event {
	e.MatchID = &matchID
	e.DonorID = &donorID
	return e
}

func (e Event) WithDonation(donationID id.DonationID, hospitalID id.HospitalID, group string, units int) Event {
	e.DonationID = &donationID
	e.HospitalID = &hospitalID
	e.BloodGroup = group
	e.Units = units
	return e
}

func (e Event) WithStatus(status string) Event {
	e.Status = status
	return e
}
