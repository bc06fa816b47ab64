package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/events"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/sentinel"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

// CreateRequestCommand carries the fields of a new blood request.
type CreateRequestCommand struct {
	PatientID     id.PatientID
	HospitalID    id.HospitalID
	BloodGroup    models.BloodGroup
	Urgency       models.Urgency
	UnitsNeeded   int
	MedicalReason string
	RequiredBy    time.Time
}

// CreateRequest records a pending request and runs the matcher against it
// in the same transaction. A nil match is the no-eligible-donor outcome.
func (s *Service) CreateRequest(ctx context.Context, cmd CreateRequestCommand) (req *models.BloodRequest, match *models.DonorMatch, err error) {
	ctx, done := s.span(ctx, "create_request",
		attribute.String("hospital.id", cmd.HospitalID.String()),
		attribute.String("blood_group", cmd.BloodGroup.String()),
	)
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	requestID := id.RequestID(uuid.New())
	err = s.runTx(ctx, "create_request", func(tx store.Tx, out *outbox) error {
		if _, err := tx.GetPatient(ctx, cmd.PatientID); err != nil {
			return notFound(err, "patient")
		}
		hospital, err := tx.GetHospital(ctx, cmd.HospitalID)
		if err != nil {
			return notFound(err, "hospital")
		}
		if !hospital.IsActive {
			return dErrors.New(dErrors.CodeValidation, "hospital is not accepting requests")
		}

		req, err = models.NewBloodRequest(requestID, cmd.PatientID, cmd.HospitalID, cmd.BloodGroup,
			cmd.Urgency, cmd.UnitsNeeded, cmd.MedicalReason, cmd.RequiredBy, now)
		if err != nil {
			return err
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		out.emit(events.New(events.RequestCreated, req.ID, now).WithStatus(req.Status.String()))

		match, err = s.findAndAssign(ctx, tx, req, req.CreatedAt, now)
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
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRequestsCreated()
	}
	s.recordMatchOutcome(match)
	attrs := []any{
		"blood_request_id", req.ID,
		"hospital_id", req.HospitalID,
		"blood_group", req.BloodGroup,
		"urgency", req.Urgency,
		"request_id", requestcontext.RequestID(ctx),
	}
	if match != nil {
		attrs = append(attrs, "match_id", match.ID, "donor_id", match.DonorID)
	}
	s.logger.InfoContext(ctx, "blood request created", attrs...)
	return req, match, nil
}

// GetRequest returns the request with hospital, patient and active match.
func (s *Service) GetRequest(ctx context.Context, requestID id.RequestID) (*models.RequestView, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, translate(notFound(err, "request"))
	}
	view, err := s.requestView(ctx, req, map[id.HospitalID]string{}, map[id.PatientID]string{})
	if err != nil {
		return nil, translate(err)
	}
	return &view, nil
}

// ListRequests returns requests passing filter, newest first.
func (s *Service) ListRequests(ctx context.Context, filter models.RequestFilter) ([]models.RequestView, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid request status")
	}
	if filter.BloodGroup != "" && !filter.BloodGroup.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid blood group")
	}
	if filter.Urgency != "" && !filter.Urgency.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid urgency")
	}
	reqs, err := s.store.ListRequests(ctx, filter)
	if err != nil {
		return nil, translate(err)
	}
	hospitals := map[id.HospitalID]string{}
	patients := map[id.PatientID]string{}
	views := make([]models.RequestView, 0, len(reqs))
	for _, req := range reqs {
		view, err := s.requestView(ctx, req, hospitals, patients)
		if err != nil {
			return nil, translate(err)
		}
		views = append(views, view)
	}
	return views, nil
}

// ListPendingRequests returns pending requests, most urgent first and
// oldest first within an urgency.
func (s *Service) ListPendingRequests(ctx context.Context) ([]models.RequestView, error) {
	views, err := s.ListRequests(ctx, models.RequestFilter{Status: models.RequestStatusPending})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(views, func(a, b models.RequestView) int {
		if c := cmp.Compare(b.Urgency.Rank(), a.Urgency.Rank()); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return views, nil
}

func (s *Service) requestView(ctx context.Context, req *models.BloodRequest, hospitals map[id.HospitalID]string, patients map[id.PatientID]string) (models.RequestView, error) {
	view := models.RequestView{BloodRequest: *req}

	name, ok := hospitals[req.HospitalID]
	if !ok {
		h, err := s.store.GetHospital(ctx, req.HospitalID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return view, err
		}
		if h != nil {
			name = h.Name
		}
		hospitals[req.HospitalID] = name
	}
	view.HospitalName = name

	name, ok = patients[req.PatientID]
	if !ok {
		p, err := s.store.GetPatient(ctx, req.PatientID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return view, err
		}
		if p != nil {
			name = p.Name
		}
		patients[req.PatientID] = name
	}
	view.PatientName = name

	m, err := s.store.ActiveMatchForRequest(ctx, req.ID)
	switch {
	case err == nil:
		view.ActiveMatch = m
	case !errors.Is(err, sentinel.ErrNotFound):
		return view, err
	}
	return view, nil
}

// CancelRequest withdraws a pending request. Its active match is released
// back to the donor and any scheduled donation is cancelled. No new donor is
// sought.
func (s *Service) CancelRequest(ctx context.Context, requestID id.RequestID) (req *models.BloodRequest, err error) {
	ctx, done := s.span(ctx, "cancel_request", attribute.String("blood_request.id", requestID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	var released *models.DonorMatch
	var cancelled []*models.DonationRecord
	err = s.runTx(ctx, "cancel_request", func(tx store.Tx, out *outbox) error {
		released, cancelled = nil, nil
		req, err = tx.LockRequest(ctx, requestID)
		if err != nil {
			return notFound(err, "request")
		}
		active, err := tx.ActiveMatchForRequest(ctx, req.ID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		if err := req.Cancel(now); err != nil {
			return err
		}
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}
		out.emit(events.New(events.RequestCancelled, req.ID, now).WithStatus(req.Status.String()))

		if active == nil {
			return nil
		}
		m, err := tx.LockMatch(ctx, active.ID)
		if err != nil {
			return err
		}
		donations, err := tx.DonationsForMatch(ctx, m.ID)
		if err != nil {
			return err
		}
		for _, d := range donations {
			if !d.IsScheduled() {
				continue
			}
			locked, err := tx.LockDonation(ctx, d.ID)
			if err != nil {
				return err
			}
			if err := locked.Cancel(now); err != nil {
				return err
			}
			if err := tx.UpdateDonation(ctx, locked); err != nil {
				return err
			}
			cancelled = append(cancelled, locked)
			out.emit(events.New(events.DonationCancelled, req.ID, now).
				WithDonation(locked.ID, locked.HospitalID, locked.BloodGroup.String(), locked.Units).
				WithStatus(locked.Status.String()))
		}

		donor, err := tx.LockDonor(ctx, m.DonorID)
		if err != nil {
			return err
		}
		if err := m.Release("request cancelled", now); err != nil {
			return err
		}
		if err := tx.UpdateMatch(ctx, m); err != nil {
			return err
		}
		donor.Release(now)
		if err := tx.UpdateDonor(ctx, donor); err != nil {
			return err
		}
		released = m
		out.emit(events.New(events.MatchRejected, req.ID, now).
			WithMatch(m.ID, m.DonorID).
			WithStatus(m.Status.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if released != nil {
		s.incrementMatchTransition(released.Status)
	}
	for _, d := range cancelled {
		s.incrementDonation(d.Status)
	}
	s.logger.InfoContext(ctx, "blood request cancelled",
		"blood_request_id", req.ID,
		"released_match", released != nil,
		"cancelled_donations", len(cancelled),
		"request_id", requestcontext.RequestID(ctx),
	)
	return req, nil
}

// ListMatchesForRequest returns every match the request has had, including
// rejected history, in match order.
func (s *Service) ListMatchesForRequest(ctx context.Context, requestID id.RequestID) ([]models.MatchView, error) {
	if _, err := s.store.GetRequest(ctx, requestID); err != nil {
		return nil, translate(notFound(err, "request"))
	}
	views, err := s.store.ListMatchViews(ctx, store.MatchQuery{RequestID: requestID})
	if err != nil {
		return nil, translate(err)
	}
	return views, nil
}
