package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/events"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

// =============================================================================
// Match Lifecycle Tests
// =============================================================================

func (s *ServiceSuite) TestRejectReleasesDonorAndLeavesRequestPending() {
	x := s.seedDonor(1, models.BloodGroupOPos)
	req, match := s.createRequest(models.BloodGroupOPos)
	s.Require().NotNil(match)

	rejected, err := s.service.RejectMatch(s.ctx, match.ID, "travelling")
	s.Require().NoError(err)

	s.Equal(models.MatchStatusRejected, rejected.Status)
	s.True(s.donor(x.ID).IsAvailable)
	view := s.request(req.ID)
	s.Equal(models.RequestStatusPending, view.Status)
	s.Nil(view.ActiveMatch, "declining donor is not offered the same request again")

	inbox, err := s.service.ListMatchesForDonor(s.ctx, x.ID)
	s.Require().NoError(err)
	s.Empty(inbox)
}

func (s *ServiceSuite) TestRejectRematchesNextDonor() {
	s.seedDonor(1, models.BloodGroupOPos)
	s.seedDonor(2, models.BloodGroupOPos)
	req, first := s.createRequest(models.BloodGroupOPos)
	s.Require().Equal(donorID(1), first.DonorID)

	_, err := s.service.RejectMatch(s.ctx, first.ID, "")
	s.Require().NoError(err)

	view := s.request(req.ID)
	s.Require().NotNil(view.ActiveMatch)
	s.Equal(donorID(2), view.ActiveMatch.DonorID)
	s.False(s.donor(donorID(2)).IsAvailable)

	chain, err := s.service.ListMatchesForRequest(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Require().Len(chain, 2)
	s.Equal(models.MatchStatusRejected, chain[0].Status)
	s.Equal(models.MatchStatusMatched, chain[1].Status)

	// The re-match runs inside the match.rejected dispatch, so its event can
	// reach catch-all subscribers first.
	s.ElementsMatch([]events.Type{
		events.RequestCreated, events.MatchCreated,
		events.MatchRejected, events.MatchCreated,
	}, s.seen.all())
}

func (s *ServiceSuite) TestRejectNeverReoffersToDecliners() {
	s.seedDonor(1, models.BloodGroupOPos)
	s.seedDonor(2, models.BloodGroupOPos)
	req, first := s.createRequest(models.BloodGroupOPos)

	_, err := s.service.RejectMatch(s.ctx, first.ID, "")
	s.Require().NoError(err)
	second := s.request(req.ID).ActiveMatch
	s.Require().NotNil(second)
	_, err = s.service.RejectMatch(s.ctx, second.ID, "")
	s.Require().NoError(err)

	view := s.request(req.ID)
	s.Nil(view.ActiveMatch)
	s.Equal(models.RequestStatusPending, view.Status)
}

func (s *ServiceSuite) TestRejectSurvivesFailingSubscriber() {
	s.seedDonor(1, models.BloodGroupOPos)
	_, match := s.createRequest(models.BloodGroupOPos)
	s.bus.Subscribe(events.MatchRejected, func(context.Context, events.Event) error {
		return errors.New("downstream unavailable")
	})

	rejected, err := s.service.RejectMatch(s.ctx, match.ID, "")
	s.Require().NoError(err)
	s.Equal(models.MatchStatusRejected, rejected.Status)
}

func (s *ServiceSuite) TestConfirmMatch() {
	s.Run("second confirmation is an invalid transition", func() {
		s.seedDonor(1, models.BloodGroupOPos)
		_, match := s.createRequest(models.BloodGroupOPos)

		confirmed, err := s.service.ConfirmMatch(s.ctx, match.ID, "on my way")
		s.Require().NoError(err)
		s.Equal(models.MatchStatusConfirmed, confirmed.Status)
		s.Equal("on my way", confirmed.Notes)

		_, err = s.service.ConfirmMatch(s.ctx, match.ID, "again")
		s.requireCode(err, dErrors.CodeInvalidStateTransition)

		views, err := s.service.ListMatchesForDonor(s.ctx, match.DonorID)
		s.Require().NoError(err)
		s.Require().Len(views, 1)
		s.Equal(models.MatchStatusConfirmed, views[0].Status)
		s.Equal("on my way", views[0].Notes)
	})
	s.Run("confirmation leaves cool-down and inventory alone", func() {
		d := s.seedDonor(2, models.BloodGroupBPos)
		_, match := s.createRequest(models.BloodGroupBPos)
		_, err := s.service.ConfirmMatch(s.ctx, match.ID, "")
		s.Require().NoError(err)

		s.Nil(s.donor(d.ID).LastDonationDate)
		rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
		s.Require().NoError(err)
		s.Empty(rows)
	})
	s.Run("rejected match cannot be confirmed", func() {
		s.seedDonor(3, models.BloodGroupAPos)
		_, match := s.createRequest(models.BloodGroupAPos)
		_, err := s.service.RejectMatch(s.ctx, match.ID, "")
		s.Require().NoError(err)

		_, err = s.service.ConfirmMatch(s.ctx, match.ID, "")
		s.requireCode(err, dErrors.CodeInvalidStateTransition)
	})
	s.Run("unknown match", func() {
		_, err := s.service.ConfirmMatch(s.ctx, id.MatchID(uuid.New()), "")
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestContactMatch() {
	s.seedDonor(1, models.BloodGroupOPos)
	_, match := s.createRequest(models.BloodGroupOPos)

	contacted, err := s.service.ContactMatch(s.ctx, match.ID)
	s.Require().NoError(err)
	s.Equal(models.MatchStatusContacted, contacted.Status)

	_, err = s.service.ContactMatch(s.ctx, match.ID)
	s.requireCode(err, dErrors.CodeInvalidStateTransition)

	confirmed, err := s.service.ConfirmMatch(s.ctx, match.ID, "")
	s.Require().NoError(err)
	s.Equal(models.MatchStatusConfirmed, confirmed.Status)

	_, err = s.service.RejectMatch(s.ctx, match.ID, "")
	s.requireCode(err, dErrors.CodeInvalidStateTransition)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.MatchTransitions.WithLabelValues("contacted")))
}

func (s *ServiceSuite) TestListConfirmedMatchesForHospital() {
	at := func(minutes int) context.Context {
		return withClock(s.now.Add(time.Duration(minutes) * time.Minute))
	}
	create := func(ctx context.Context, n byte, urgency models.Urgency) *models.DonorMatch {
		s.seedDonor(n, models.BloodGroupOPos)
		_, match, err := s.service.CreateRequest(ctx, s.createCommand(models.BloodGroupOPos, urgency, 1))
		s.Require().NoError(err)
		s.Require().NotNil(match)
		_, err = s.service.ConfirmMatch(ctx, match.ID, "")
		s.Require().NoError(err)
		return match
	}
	low := create(at(0), 1, models.UrgencyLow)
	critEarly := create(at(1), 2, models.UrgencyCritical)
	critLate := create(at(2), 3, models.UrgencyCritical)
	s.seedDonor(4, models.BloodGroupOPos)
	_, unconfirmed, err := s.service.CreateRequest(at(3), s.createCommand(models.BloodGroupOPos, models.UrgencyCritical, 1))
	s.Require().NoError(err)
	s.Require().NotNil(unconfirmed)

	views, err := s.service.ListConfirmedMatchesForHospital(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Require().Len(views, 3)
	s.Equal(critEarly.ID, views[0].ID)
	s.Equal(critLate.ID, views[1].ID)
	s.Equal(low.ID, views[2].ID)

	_, err = s.service.ListConfirmedMatchesForHospital(s.ctx, id.HospitalID(uuid.New()))
	s.requireCode(err, dErrors.CodeNotFound)
}

// =============================================================================
// Donation Lifecycle Tests
// =============================================================================

func (s *ServiceSuite) TestCompleteDonationRoundTrip() {
	req, match := s.confirmedMatch(1)
	donation := s.schedule(match.ID, 2)

	completed, err := s.service.CompleteDonation(s.ctx, donation.ID)
	s.Require().NoError(err)
	s.Equal(models.DonationStatusCompleted, completed.Status)

	rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(models.BloodGroupOPos, rows[0].BloodGroup)
	s.Equal(2, rows[0].UnitsAvailable)
	s.Equal(models.StockStatusLow, rows[0].StockStatus)
	s.Equal("City General", rows[0].HospitalName)

	donor := s.donor(match.DonorID)
	s.Require().NotNil(donor.LastDonationDate)
	s.True(donor.LastDonationDate.Equal(models.DateOf(s.now.AddDate(0, 0, 1))))
	s.Equal(1, donor.DonationCount)
	s.False(donor.IsAvailable)

	s.Equal(models.RequestStatusFulfilled, s.request(req.ID).Status)
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.UnitsCredited.WithLabelValues("O+")))

	_, err = s.service.CompleteDonation(s.ctx, donation.ID)
	s.requireCode(err, dErrors.CodeInvalidStateTransition)
}

func (s *ServiceSuite) TestCompleteDonationAccumulatesStock() {
	_, m1 := s.confirmedMatch(1)
	_, err := s.service.CompleteDonation(s.ctx, s.schedule(m1.ID, 3).ID)
	s.Require().NoError(err)
	_, m2 := s.confirmedMatch(2)
	_, err = s.service.CompleteDonation(s.ctx, s.schedule(m2.ID, 3).ID)
	s.Require().NoError(err)

	rows, err := s.service.GetInventory(s.ctx, id.HospitalID{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(6, rows[0].UnitsAvailable)
	s.Equal(models.StockStatusSufficient, rows[0].StockStatus)
}

func (s *ServiceSuite) TestCompleteDonationIsAllOrNothing() {
	req, match := s.confirmedMatch(1)
	donation := s.schedule(match.ID, 2)
	s.store.wrap = func(tx store.Tx) store.Tx { return failingDonorWrites{Tx: tx} }

	_, err := s.service.CompleteDonation(s.ctx, donation.ID)
	s.requireCode(err, dErrors.CodeInternal)
	s.store.wrap = nil

	scheduled, err := s.service.ListScheduledDonations(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Require().Len(scheduled, 1)
	s.Equal(donation.ID, scheduled[0].ID)
	rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Empty(rows)
	s.Equal(models.RequestStatusPending, s.request(req.ID).Status)
	s.Nil(s.donor(match.DonorID).LastDonationDate)
}

func (s *ServiceSuite) TestScheduleDonation() {
	s.Run("requires a confirmed match", func() {
		s.seedDonor(1, models.BloodGroupOPos)
		_, match := s.createRequest(models.BloodGroupOPos)
		_, err := s.service.ScheduleDonation(s.ctx, ScheduleDonationCommand{
			MatchID: match.ID, Date: s.now, Units: 1, StaffID: s.staff.ID,
		})
		s.requireCode(err, dErrors.CodeInvalidStateTransition)
	})

	_, match := s.confirmedMatch(2)
	valid := ScheduleDonationCommand{MatchID: match.ID, Date: s.now, Units: 2, StaffID: s.staff.ID}

	s.Run("rejects a past date", func() {
		cmd := valid
		cmd.Date = s.now.AddDate(0, 0, -1)
		_, err := s.service.ScheduleDonation(s.ctx, cmd)
		s.requireCode(err, dErrors.CodeValidation)
	})
	s.Run("rejects non-positive units", func() {
		cmd := valid
		cmd.Units = 0
		_, err := s.service.ScheduleDonation(s.ctx, cmd)
		s.requireCode(err, dErrors.CodeValidation)
	})
	s.Run("rejects units that could overflow the stock", func() {
		cmd := valid
		cmd.Units = math.MaxInt
		_, err := s.service.ScheduleDonation(s.ctx, cmd)
		s.requireCode(err, dErrors.CodeValidation)
	})
	s.Run("rejects staff from another hospital", func() {
		other, err := s.service.RegisterHospital(s.ctx, RegisterHospitalCommand{Name: "St Mary"})
		s.Require().NoError(err)
		stranger, err := s.service.RegisterStaff(s.ctx, RegisterStaffCommand{HospitalID: other.ID, Name: "Dr Lee"})
		s.Require().NoError(err)
		cmd := valid
		cmd.StaffID = stranger.ID
		_, err = s.service.ScheduleDonation(s.ctx, cmd)
		s.requireCode(err, dErrors.CodeValidation)
	})
	s.Run("today is allowed and a second booking is not", func() {
		d, err := s.service.ScheduleDonation(s.ctx, valid)
		s.Require().NoError(err)
		s.Equal(models.DonationStatusScheduled, d.Status)
		s.Equal(s.hospital.ID, d.HospitalID)
		s.Equal(models.BloodGroupOPos, d.BloodGroup)

		_, err = s.service.ScheduleDonation(s.ctx, valid)
		s.requireCode(err, dErrors.CodeInvalidStateTransition)
	})
}

func (s *ServiceSuite) TestCancelDonation() {
	req, match := s.confirmedMatch(1)
	donation := s.schedule(match.ID, 2)

	cancelled, err := s.service.CancelDonation(s.ctx, donation.ID)
	s.Require().NoError(err)
	s.Equal(models.DonationStatusCancelled, cancelled.Status)

	view := s.request(req.ID)
	s.Equal(models.RequestStatusPending, view.Status)
	s.Require().NotNil(view.ActiveMatch)
	s.Equal(models.MatchStatusConfirmed, view.ActiveMatch.Status)
	rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Empty(rows)

	_, err = s.service.CancelDonation(s.ctx, donation.ID)
	s.requireCode(err, dErrors.CodeInvalidStateTransition)
	_, err = s.service.CompleteDonation(s.ctx, donation.ID)
	s.requireCode(err, dErrors.CodeInvalidStateTransition)

	rebooked := s.schedule(match.ID, 1)
	s.Equal(models.DonationStatusScheduled, rebooked.Status)
}

func (s *ServiceSuite) TestDonationQueues() {
	_, m1 := s.confirmedMatch(1)
	_, m2 := s.confirmedMatch(2)
	first := s.schedule(m1.ID, 1)
	second := s.schedule(m2.ID, 1)

	scheduled, err := s.service.ListScheduledDonations(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Len(scheduled, 2)

	later := withClock(s.now.AddDate(0, 0, 1))
	_, err = s.service.CompleteDonation(later, first.ID)
	s.Require().NoError(err)
	_, err = s.service.CompleteDonation(later, second.ID)
	s.Require().NoError(err)

	completed, err := s.service.ListCompletedDonations(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Len(completed, 2)
	scheduled, err = s.service.ListScheduledDonations(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Empty(scheduled)

	history, err := s.service.DonorHistory(s.ctx, m1.DonorID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Require().NotNil(history[0].NextEligibleDate)
	s.Equal("2026-06-09", history[0].NextEligibleDate.Format(time.DateOnly))
	s.Equal("City General", history[0].HospitalName)
}

// =============================================================================
// Donor Registry Tests
// =============================================================================

func (s *ServiceSuite) TestRegisterDonor() {
	s.Run("valid donor starts available", func() {
		d, err := s.service.RegisterDonor(s.ctx, RegisterDonorCommand{
			Name: "Xavier", BloodGroup: models.BloodGroupOPos, Location: "North", WeightKg: 45,
		})
		s.Require().NoError(err)
		s.True(d.IsAvailable)
		s.Nil(d.LastDonationDate)
	})
	s.Run("underweight donor is a validation error", func() {
		_, err := s.service.RegisterDonor(s.ctx, RegisterDonorCommand{
			Name: "Light", BloodGroup: models.BloodGroupOPos, WeightKg: 44.9,
		})
		s.requireCode(err, dErrors.CodeValidation)
	})
	s.Run("staff for unknown hospital", func() {
		_, err := s.service.RegisterStaff(s.ctx, RegisterStaffCommand{HospitalID: id.HospitalID(uuid.New()), Name: "Ghost"})
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestSetDonorAvailability() {
	s.seedDonor(1, models.BloodGroupOPos)
	_, match := s.createRequest(models.BloodGroupOPos)

	_, err := s.service.SetDonorAvailability(s.ctx, match.DonorID, true)
	s.requireCode(err, dErrors.CodeInvalidStateTransition)

	_, err = s.service.ConfirmMatch(s.ctx, match.ID, "")
	s.Require().NoError(err)
	_, err = s.service.CompleteDonation(s.ctx, s.schedule(match.ID, 1).ID)
	s.Require().NoError(err)

	d, err := s.service.SetDonorAvailability(s.ctx, match.DonorID, true)
	s.Require().NoError(err)
	s.True(d.IsAvailable)

	d, err = s.service.SetDonorAvailability(s.ctx, match.DonorID, false)
	s.Require().NoError(err)
	s.False(d.IsAvailable)

	_, err = s.service.SetDonorAvailability(s.ctx, id.DonorID(uuid.New()), false)
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *ServiceSuite) TestUpdateDonorProfile() {
	s.seedDonor(1, models.BloodGroupOPos)
	_, match := s.createRequest(models.BloodGroupOPos)
	s.Require().NotNil(match)

	s.Run("group change while matched", func() {
		_, err := s.service.UpdateDonorProfile(s.ctx, match.DonorID, UpdateDonorProfileCommand{
			Name: "Donor", BloodGroup: models.BloodGroupANeg, Location: "North", WeightKg: 70,
		})
		s.requireCode(err, dErrors.CodeInvalidStateTransition)
		s.Equal(models.BloodGroupOPos, s.donor(match.DonorID).BloodGroup)
	})

	s.Run("other fields can change while matched", func() {
		d, err := s.service.UpdateDonorProfile(s.ctx, match.DonorID, UpdateDonorProfileCommand{
			Name: "Donor One", BloodGroup: models.BloodGroupOPos, Location: "South", WeightKg: 72,
		})
		s.Require().NoError(err)
		s.Equal("South", d.Location)
		s.False(d.IsAvailable, "profile edits never touch availability")
		s.Equal("South", s.donor(match.DonorID).Location)
	})

	s.Run("underweight is a validation error", func() {
		_, err := s.service.UpdateDonorProfile(s.ctx, match.DonorID, UpdateDonorProfileCommand{
			Name: "Donor", BloodGroup: models.BloodGroupOPos, WeightKg: 40,
		})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("group change once the match is released", func() {
		_, err := s.service.RejectMatch(s.ctx, match.ID, "travelling")
		s.Require().NoError(err)
		d, err := s.service.UpdateDonorProfile(s.ctx, match.DonorID, UpdateDonorProfileCommand{
			Name: "Donor", BloodGroup: models.BloodGroupANeg, WeightKg: 70,
		})
		s.Require().NoError(err)
		s.Equal(models.BloodGroupANeg, d.BloodGroup)
	})

	s.Run("unknown donor", func() {
		_, err := s.service.UpdateDonorProfile(s.ctx, id.DonorID(uuid.New()), UpdateDonorProfileCommand{
			Name: "Ghost", BloodGroup: models.BloodGroupOPos, WeightKg: 70,
		})
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestPatientRecords() {
	got, err := s.service.GetPatient(s.ctx, s.patient.ID)
	s.Require().NoError(err)
	s.Equal("Yusuf", got.Name)

	later := s.now.Add(2 * time.Hour)
	updated, err := s.service.UpdatePatient(requestcontext.WithTime(s.ctx, later), s.patient.ID, UpdatePatientCommand{
		Name: "Yusuf A", BloodGroup: models.BloodGroupONeg, EmergencyContact: "555-0111",
	})
	s.Require().NoError(err)
	s.Equal(later, updated.UpdatedAt)

	got, err = s.service.GetPatient(s.ctx, s.patient.ID)
	s.Require().NoError(err)
	s.Equal(models.BloodGroupONeg, got.BloodGroup)
	s.Equal("555-0111", got.EmergencyContact)

	_, err = s.service.UpdatePatient(s.ctx, s.patient.ID, UpdatePatientCommand{Name: " ", BloodGroup: models.BloodGroupONeg})
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.service.GetPatient(s.ctx, id.PatientID(uuid.New()))
	s.requireCode(err, dErrors.CodeNotFound)
	_, err = s.service.UpdatePatient(s.ctx, id.PatientID(uuid.New()), UpdatePatientCommand{Name: "X", BloodGroup: models.BloodGroupONeg})
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *ServiceSuite) TestListHospitals() {
	_, err := s.service.RegisterHospital(s.ctx, RegisterHospitalCommand{Name: "Apollo"})
	s.Require().NoError(err)
	closed, err := models.NewHospital(id.HospitalID(uuid.New()), "Bethany", "", "", s.now)
	s.Require().NoError(err)
	closed.IsActive = false
	s.Require().NoError(s.store.MemoryStore.RunInTx(s.ctx, func(tx store.Tx) error {
		return tx.CreateHospital(s.ctx, closed)
	}))

	active, err := s.service.ListHospitals(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	s.Equal("Apollo", active[0].Name)
	s.Equal("City General", active[1].Name)

	all, err := s.service.ListHospitals(s.ctx, true)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Bethany", all[1].Name)
}

func (s *ServiceSuite) TestListAvailableDonors() {
	s.seedDonor(1, models.BloodGroupOPos)
	s.seedDonor(2, models.BloodGroupOPos, lastDonated(s.now.AddDate(0, 0, -10)))
	s.seedDonor(3, models.BloodGroupOPos, func(d *models.Donor) { d.IsAvailable = false })
	s.seedDonor(4, models.BloodGroupONeg)
	s.seedDonor(5, models.BloodGroupOPos, lastDonated(s.now.AddDate(-1, 0, 0)))

	views, err := s.service.ListAvailableDonors(s.ctx, models.BloodGroupOPos)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal(donorID(1), views[0].ID)
	s.Equal(donorID(5), views[1].ID)

	_, err = s.service.ListAvailableDonors(s.ctx, models.BloodGroup("Z"))
	s.requireCode(err, dErrors.CodeValidation)
}
