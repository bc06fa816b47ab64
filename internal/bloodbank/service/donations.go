package service

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/eligibility"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/events"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

const completedDonationsLimit = 50

// ScheduleDonationCommand books a donation for a confirmed match.
type ScheduleDonationCommand struct {
	MatchID id.MatchID
	Date    time.Time
	Units   int
	StaffID id.StaffID
}

// ScheduleDonation books the donation of a confirmed match on a pending
// request. A match carries at most one live donation; it may be booked again
// after a cancellation.
func (s *Service) ScheduleDonation(ctx context.Context, cmd ScheduleDonationCommand) (d *models.DonationRecord, err error) {
	ctx, done := s.span(ctx, "schedule_donation", attribute.String("match.id", cmd.MatchID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	donationID := id.DonationID(uuid.New())
	err = s.runTx(ctx, "schedule_donation", func(tx store.Tx, out *outbox) error {
		req, m, err := lockMatch(ctx, tx, cmd.MatchID)
		if err != nil {
			return err
		}
		staff, err := tx.GetStaff(ctx, cmd.StaffID)
		if err != nil {
			return notFound(err, "staff member")
		}
		if staff.HospitalID != req.HospitalID {
			return dErrors.New(dErrors.CodeValidation, "staff member does not belong to the request's hospital")
		}
		existing, err := tx.DonationsForMatch(ctx, m.ID)
		if err != nil {
			return err
		}
		if slices.ContainsFunc(existing, func(e *models.DonationRecord) bool {
			return e.Status != models.DonationStatusCancelled
		}) {
			return dErrors.New(dErrors.CodeInvalidStateTransition, "match already has a donation")
		}

		d, err = models.NewDonationRecord(donationID, m, req, cmd.Date, cmd.Units, cmd.StaffID, now)
		if err != nil {
			return err
		}
		if err := tx.CreateDonation(ctx, d); err != nil {
			return err
		}
		out.emit(events.New(events.DonationScheduled, d.RequestID, now).
			WithMatch(d.MatchID, d.DonorID).
			WithDonation(d.ID, d.HospitalID, d.BloodGroup.String(), d.Units).
			WithStatus(d.Status.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementDonation(d.Status)
	s.logger.InfoContext(ctx, "donation scheduled",
		"donation_id", d.ID,
		"match_id", d.MatchID,
		"blood_request_id", d.RequestID,
		"date", d.Date.Format(time.DateOnly),
		"units", d.Units,
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}

// lockDonation locks request, match and donation in that order.
func lockDonation(ctx context.Context, tx store.Tx, donationID id.DonationID) (*models.BloodRequest, *models.DonorMatch, *models.DonationRecord, error) {
	peek, err := tx.GetDonation(ctx, donationID)
	if err != nil {
		return nil, nil, nil, notFound(err, "donation")
	}
	req, m, err := lockMatch(ctx, tx, peek.MatchID)
	if err != nil {
		return nil, nil, nil, err
	}
	d, err := tx.LockDonation(ctx, donationID)
	if err != nil {
		return nil, nil, nil, notFound(err, "donation")
	}
	return req, m, d, nil
}

// CompleteDonation closes the donation, the request and the donor's
// cool-down together, and credits the hospital's inventory. Nothing is
// applied unless all of it is.
func (s *Service) CompleteDonation(ctx context.Context, donationID id.DonationID) (d *models.DonationRecord, err error) {
	ctx, done := s.span(ctx, "complete_donation", attribute.String("donation.id", donationID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	var inv *models.BloodInventory
	err = s.runTx(ctx, "complete_donation", func(tx store.Tx, out *outbox) error {
		var req *models.BloodRequest
		req, _, d, err = lockDonation(ctx, tx, donationID)
		if err != nil {
			return err
		}
		if err := d.Complete(now); err != nil {
			return err
		}
		if err := req.Fulfil(now); err != nil {
			return err
		}
		donor, err := tx.LockDonor(ctx, d.DonorID)
		if err != nil {
			return notFound(err, "donor")
		}
		donor.RecordDonation(d.Date, now)

		inv, err = s.creditInventory(ctx, tx, d, now)
		if err != nil {
			return err
		}

		if err := tx.UpdateDonation(ctx, d); err != nil {
			return err
		}
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}
		if err := tx.UpdateDonor(ctx, donor); err != nil {
			return err
		}
		out.emit(events.New(events.DonationCompleted, d.RequestID, now).
			WithMatch(d.MatchID, d.DonorID).
			WithDonation(d.ID, d.HospitalID, d.BloodGroup.String(), d.Units).
			WithStatus(d.Status.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateInventory(ctx, d.HospitalID)
	s.incrementDonation(d.Status)
	if s.metrics != nil {
		s.metrics.AddUnitsCredited(d.BloodGroup.String(), d.Units)
	}
	s.logger.InfoContext(ctx, "donation completed",
		"donation_id", d.ID,
		"blood_request_id", d.RequestID,
		"donor_id", d.DonorID,
		"hospital_id", d.HospitalID,
		"blood_group", d.BloodGroup,
		"units", d.Units,
		"units_available", inv.UnitsAvailable,
		"stock_status", inv.StockStatus(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}

// CancelDonation calls off a scheduled donation. The request stays pending
// with its confirmed match so staff can book again.
func (s *Service) CancelDonation(ctx context.Context, donationID id.DonationID) (d *models.DonationRecord, err error) {
	ctx, done := s.span(ctx, "cancel_donation", attribute.String("donation.id", donationID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	err = s.runTx(ctx, "cancel_donation", func(tx store.Tx, out *outbox) error {
		_, _, d, err = lockDonation(ctx, tx, donationID)
		if err != nil {
			return err
		}
		if err := d.Cancel(now); err != nil {
			return err
		}
		if err := tx.UpdateDonation(ctx, d); err != nil {
			return err
		}
		out.emit(events.New(events.DonationCancelled, d.RequestID, now).
			WithMatch(d.MatchID, d.DonorID).
			WithDonation(d.ID, d.HospitalID, d.BloodGroup.String(), d.Units).
			WithStatus(d.Status.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrementDonation(d.Status)
	s.logger.InfoContext(ctx, "donation cancelled",
		"donation_id", d.ID,
		"blood_request_id", d.RequestID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}

// DonorHistory lists the donor's donations, newest first. Completed ones
// carry the date the donor may give again.
func (s *Service) DonorHistory(ctx context.Context, donorID id.DonorID) ([]models.DonationView, error) {
	if _, err := s.store.GetDonor(ctx, donorID); err != nil {
		return nil, translate(notFound(err, "donor"))
	}
	views, err := s.store.ListDonationViews(ctx, store.DonationQuery{DonorID: donorID})
	if err != nil {
		return nil, translate(err)
	}
	slices.Reverse(views)
	for i := range views {
		if views[i].Status == models.DonationStatusCompleted {
			next := eligibility.NextEligibleDate(views[i].Date)
			views[i].NextEligibleDate = &next
		}
	}
	return views, nil
}

// ListScheduledDonations is the hospital's upcoming donations, soonest first.
func (s *Service) ListScheduledDonations(ctx context.Context, hospitalID id.HospitalID) ([]models.DonationView, error) {
	return s.hospitalDonations(ctx, hospitalID, models.DonationStatusScheduled)
}

// ListCompletedDonations returns the hospital's most recent completed
// donations, newest first.
func (s *Service) ListCompletedDonations(ctx context.Context, hospitalID id.HospitalID) ([]models.DonationView, error) {
	views, err := s.hospitalDonations(ctx, hospitalID, models.DonationStatusCompleted)
	if err != nil {
		return nil, err
	}
	slices.Reverse(views)
	if len(views) > completedDonationsLimit {
		views = views[:completedDonationsLimit]
	}
	return views, nil
}

func (s *Service) hospitalDonations(ctx context.Context, hospitalID id.HospitalID, status models.DonationStatus) ([]models.DonationView, error) {
	if _, err := s.store.GetHospital(ctx, hospitalID); err != nil {
		return nil, translate(notFound(err, "hospital"))
	}
	views, err := s.store.ListDonationViews(ctx, store.DonationQuery{HospitalID: hospitalID, Status: status})
	if err != nil {
		return nil, translate(err)
	}
	return views, nil
}
