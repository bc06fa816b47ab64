package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/events"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

// lockMatch locks the match's request and then the match itself.
func lockMatch(ctx context.Context, tx store.Tx, matchID id.MatchID) (*models.BloodRequest, *models.DonorMatch, error) {
	peek, err := tx.GetMatch(ctx, matchID)
	if err != nil {
		return nil, nil, notFound(err, "match")
	}
	req, err := tx.LockRequest(ctx, peek.RequestID)
	if err != nil {
		return nil, nil, notFound(err, "request")
	}
	m, err := tx.LockMatch(ctx, matchID)
	if err != nil {
		return nil, nil, notFound(err, "match")
	}
	return req, m, nil
}

func requirePending(req *models.BloodRequest) error {
	if !req.IsPending() {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "request is no longer pending")
	}
	return nil
}

// ContactMatch records that the donor has been reached. Legal only from
// matched.
func (s *Service) ContactMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error) {
	return s.transitionMatch(ctx, "contact_match", matchID, func(m *models.DonorMatch, now time.Time) error {
		return m.Contact(now)
	}, events.MatchContacted)
}

// ConfirmMatch records the donor's acceptance. Inventory and cool-down are
// untouched until the donation completes.
func (s *Service) ConfirmMatch(ctx context.Context, matchID id.MatchID, notes string) (*models.DonorMatch, error) {
	return s.transitionMatch(ctx, "confirm_match", matchID, func(m *models.DonorMatch, now time.Time) error {
		return m.Confirm(notes, now)
	}, events.MatchConfirmed)
}

func (s *Service) transitionMatch(ctx context.Context, op string, matchID id.MatchID, apply func(*models.DonorMatch, time.Time) error, evType events.Type) (m *models.DonorMatch, err error) {
	ctx, done := s.span(ctx, op, attribute.String("match.id", matchID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	err = s.runTx(ctx, op, func(tx store.Tx, out *outbox) error {
		var req *models.BloodRequest
		req, m, err = lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if err := requirePending(req); err != nil {
			return err
		}
		if err := apply(m, now); err != nil {
			return err
		}
		if err := tx.UpdateMatch(ctx, m); err != nil {
			return err
		}
		out.emit(events.New(evType, m.RequestID, now).
			WithMatch(m.ID, m.DonorID).
			WithStatus(m.Status.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementMatchTransition(m.Status)
	s.logger.InfoContext(ctx, "match "+m.Status.String(),
		"match_id", m.ID,
		"blood_request_id", m.RequestID,
		"donor_id", m.DonorID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return m, nil
}

// RejectMatch records the donor declining. The donor returns to the pool and
// the matcher is re-run for the request through the match.rejected event.
func (s *Service) RejectMatch(ctx context.Context, matchID id.MatchID, notes string) (m *models.DonorMatch, err error) {
	ctx, done := s.span(ctx, "reject_match", attribute.String("match.id", matchID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	err = s.runTx(ctx, "reject_match", func(tx store.Tx, out *outbox) error {
		var req *models.BloodRequest
		req, m, err = lockMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if err := requirePending(req); err != nil {
			return err
		}
		if err := m.Reject(notes, now); err != nil {
			return err
		}
		donor, err := tx.LockDonor(ctx, m.DonorID)
		if err != nil {
			return notFound(err, "donor")
		}
		donor.Release(now)
		if err := tx.UpdateMatch(ctx, m); err != nil {
			return err
		}
		if err := tx.UpdateDonor(ctx, donor); err != nil {
			return err
		}
		out.emit(events.New(events.MatchRejected, m.RequestID, now).
			WithMatch(m.ID, m.DonorID).
			WithStatus(m.Status.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementMatchTransition(m.Status)
	s.logger.InfoContext(ctx, "match rejected",
		"match_id", m.ID,
		"blood_request_id", m.RequestID,
		"donor_id", m.DonorID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return m, nil
}

// ListMatchesForDonor returns the donor's active matches on pending requests.
func (s *Service) ListMatchesForDonor(ctx context.Context, donorID id.DonorID) ([]models.MatchView, error) {
	if _, err := s.store.GetDonor(ctx, donorID); err != nil {
		return nil, translate(notFound(err, "donor"))
	}
	views, err := s.store.ListMatchViews(ctx, store.MatchQuery{
		DonorID:     donorID,
		Statuses:    models.ActiveMatchStatuses,
		PendingOnly: true,
	})
	if err != nil {
		return nil, translate(err)
	}
	return views, nil
}

// ListConfirmedMatchesForHospital is the hospital's queue of confirmed
// donors still awaiting a donation, most urgent first.
func (s *Service) ListConfirmedMatchesForHospital(ctx context.Context, hospitalID id.HospitalID) ([]models.MatchView, error) {
	if _, err := s.store.GetHospital(ctx, hospitalID); err != nil {
		return nil, translate(notFound(err, "hospital"))
	}
	views, err := s.store.ListMatchViews(ctx, store.MatchQuery{
		HospitalID:  hospitalID,
		Statuses:    []models.MatchStatus{models.MatchStatusConfirmed},
		PendingOnly: true,
	})
	if err != nil {
		return nil, translate(err)
	}
	slices.SortStableFunc(views, func(a, b models.MatchView) int {
		if c := cmp.Compare(b.Urgency.Rank(), a.Urgency.Rank()); c != 0 {
			return c
		}
		return a.MatchedAt.Compare(b.MatchedAt)
	})
	return views, nil
}
