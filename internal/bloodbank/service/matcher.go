package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/eligibility"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/events"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/sentinel"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

// findAndAssign offers req to the first eligible donor, lowest id first.
// The caller holds the request row. A nil match with a nil error means no
// donor is eligible; the request stays pending.
func (s *Service) findAndAssign(ctx context.Context, tx store.Tx, req *models.BloodRequest, asOf, now time.Time) (*models.DonorMatch, error) {
	if !req.IsPending() {
		return nil, nil
	}
	if _, err := tx.ActiveMatchForRequest(ctx, req.ID); err == nil {
		return nil, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	declined, err := tx.RejectedDonors(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	candidates, err := tx.ListCandidates(ctx, req.BloodGroup, declined)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if !eligibility.IsEligible(candidate, req.BloodGroup, asOf) {
			continue
		}
		donor, err := tx.LockDonor(ctx, candidate.ID)
		if err != nil {
			return nil, err
		}
		// A concurrent assignment may have committed between listing and locking.
		if !eligibility.IsEligible(donor, req.BloodGroup, asOf) {
			continue
		}
		held, err := tx.DonorHoldsActiveMatch(ctx, donor.ID)
		if err != nil {
			return nil, err
		}
		if held {
			continue
		}

		donor.Reserve(now)
		if err := tx.UpdateDonor(ctx, donor); err != nil {
			return nil, err
		}
		m := models.NewDonorMatch(id.MatchID(uuid.New()), req.ID, donor.ID, now)
		if err := tx.CreateMatch(ctx, m); err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, nil
}

// Rematch looks for a new donor for a pending request that has no active
// match, skipping donors who already declined it.
func (s *Service) Rematch(ctx context.Context, requestID id.RequestID) (match *models.DonorMatch, err error) {
	ctx, done := s.span(ctx, "rematch", attribute.String("blood_request.id", requestID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	var pending bool
	err = s.runTx(ctx, "rematch", func(tx store.Tx, out *outbox) error {
		match, pending = nil, false
		req, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return notFound(err, "request")
		}
		if !req.IsPending() {
			return nil
		}
		if _, err := tx.ActiveMatchForRequest(ctx, req.ID); err == nil {
			return nil
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		pending = true
		match, err = s.findAndAssign(ctx, tx, req, now, now)
		if err != nil {
			return err
		}
		if match != nil {
			out.emit(events.New(events.MatchCreated, req.ID, now).
				WithMatch(match.ID, match.DonorID).
				WithStatus(match.Status.String()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !pending {
		return nil, nil
	}

	s.recordMatchOutcome(match)
	if match == nil {
		s.logger.InfoContext(ctx, "no eligible donor on re-match",
			"blood_request_id", requestID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, nil
	}
	s.logger.InfoContext(ctx, "donor matched",
		"blood_request_id", requestID,
		"match_id", match.ID,
		"donor_id", match.DonorID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return match, nil
}

func (s *Service) onMatchRejected(ctx context.Context, e events.Event) error {
	_, err := s.Rematch(ctx, e.RequestID)
	return err
}
