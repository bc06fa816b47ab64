package models

import (
	"strings"
	"time"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// MatchStatus is the state of a donor/request pairing.
type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusContacted MatchStatus = "contacted"
	MatchStatusConfirmed MatchStatus = "confirmed"
	MatchStatusRejected  MatchStatus = "rejected"
)

// ActiveMatchStatuses are the states that hold a request and its donor.
var ActiveMatchStatuses = []MatchStatus{MatchStatusMatched, MatchStatusContacted, MatchStatusConfirmed}

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusMatched, MatchStatusContacted, MatchStatusConfirmed, MatchStatusRejected:
		return true
	}
	return false
}

// IsActive reports whether the match still occupies its request.
func (s MatchStatus) IsActive() bool {
	return s == MatchStatusMatched || s == MatchStatusContacted || s == MatchStatusConfirmed
}

// CanTransitionTo encodes the match state machine:
//
//	matched   -> contacted | confirmed | rejected
//	contacted -> confirmed | rejected
//	confirmed, rejected: terminal
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchStatusMatched:
		return next == MatchStatusContacted || next == MatchStatusConfirmed || next == MatchStatusRejected
	case MatchStatusContacted:
		return next == MatchStatusConfirmed || next == MatchStatusRejected
	}
	return false
}

func (s MatchStatus) String() string { return string(s) }

// DonorMatch pairs one donor with one request. Matches are never deleted;
// rejected ones stay as history and exclude the donor from later offers for
// the same request.
type DonorMatch struct {
	ID        id.MatchID   `json:"id"`
	RequestID id.RequestID `json:"request_id"`
	DonorID   id.DonorID   `json:"donor_id"`
	Status    MatchStatus  `json:"status"`
	Notes     string       `json:"notes,omitempty"`
	MatchedAt time.Time    `json:"matched_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewDonorMatch(matchID id.MatchID, requestID id.RequestID, donorID id.DonorID, now time.Time) *DonorMatch {
	return &DonorMatch{
		ID:        matchID,
		RequestID: requestID,
		DonorID:   donorID,
		Status:    MatchStatusMatched,
		MatchedAt: now,
		UpdatedAt: now,
	}
}

func (m *DonorMatch) IsActive() bool {
	return m.Status.IsActive()
}

func (m *DonorMatch) Contact(now time.Time) error {
	return m.transition(MatchStatusContacted, "", now)
}

func (m *DonorMatch) Confirm(notes string, now time.Time) error {
	return m.transition(MatchStatusConfirmed, notes, now)
}

func (m *DonorMatch) Reject(notes string, now time.Time) error {
	return m.transition(MatchStatusRejected, notes, now)
}

// Release rejects a match on behalf of the engine, regardless of whether the
// donor already confirmed. Used when the owning request is cancelled.
func (m *DonorMatch) Release(notes string, now time.Time) error {
	if !m.IsActive() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "match is not active")
	}
	m.Status = MatchStatusRejected
	m.setNotes(notes)
	m.UpdatedAt = now
	return nil
}

func (m *DonorMatch) transition(next MatchStatus, notes string, now time.Time) error {
	if !m.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvalidStateTransition,
			"cannot move match from "+m.Status.String()+" to "+next.String())
	}
	m.Status = next
	m.setNotes(notes)
	m.UpdatedAt = now
	return nil
}

func (m *DonorMatch) setNotes(notes string) {
	if n := strings.TrimSpace(notes); n != "" {
		m.Notes = n
	}
}

func (m *DonorMatch) Clone() *DonorMatch {
	c := *m
	return &c
}
