package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/sync/errgroup"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// =============================================================================
// Transaction Retry Tests
// =============================================================================

func (s *ServiceSuite) TestConflictsAreRetried() {
	s.seedDonor(1, models.BloodGroupOPos)
	s.store.conflicts = 2

	_, match, err := s.service.CreateRequest(s.ctx, s.createCommand(models.BloodGroupOPos, models.UrgencyHigh, 1))
	s.Require().NoError(err)
	s.NotNil(match)
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.TxRetries.WithLabelValues("create_request")))
}

func (s *ServiceSuite) TestExhaustedRetriesSurfaceConflict() {
	svc := New(s.store, WithTxRetries(1))
	s.store.conflicts = 5

	_, _, err := svc.CreateRequest(s.ctx, s.createCommand(models.BloodGroupOPos, models.UrgencyHigh, 1))
	s.requireCode(err, dErrors.CodeConcurrencyConflict)
	s.Equal(3, s.store.conflicts, "one attempt plus one retry")
}

func (s *ServiceSuite) TestCancelledContextTimesOut() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, _, err := s.service.CreateRequest(ctx, s.createCommand(models.BloodGroupOPos, models.UrgencyHigh, 1))
	s.requireCode(err, dErrors.CodeTimeout)
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func (s *ServiceSuite) TestConcurrentRequestsNeverShareADonor() {
	const donors, requests = 5, 20
	for n := range donors {
		s.seedDonor(byte(n+1), models.BloodGroupOPos)
	}

	var mu sync.Mutex
	assigned := map[id.DonorID]int{}
	var matched atomic.Int32
	g, ctx := errgroup.WithContext(s.ctx)
	for range requests {
		g.Go(func() error {
			_, match, err := s.service.CreateRequest(ctx, s.createCommand(models.BloodGroupOPos, models.UrgencyCritical, 1))
			if err != nil {
				return err
			}
			if match != nil {
				matched.Add(1)
				mu.Lock()
				assigned[match.DonorID]++
				mu.Unlock()
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(donors), matched.Load())
	for donor, count := range assigned {
		s.Equal(1, count, "donor %s matched more than once", donor)
	}
}

func (s *ServiceSuite) TestConcurrentRejectionsKeepOneActiveMatch() {
	const donors = 6
	for n := range donors {
		s.seedDonor(byte(n+1), models.BloodGroupOPos)
	}
	req, match := s.createRequest(models.BloodGroupOPos)
	s.Require().NotNil(match)

	// Every caller races to reject whatever match is active; the losers see
	// an invalid transition.
	g, ctx := errgroup.WithContext(s.ctx)
	for range donors * 2 {
		g.Go(func() error {
			view, err := s.service.GetRequest(ctx, req.ID)
			if err != nil {
				return err
			}
			if view.ActiveMatch == nil {
				return nil
			}
			_, err = s.service.RejectMatch(ctx, view.ActiveMatch.ID, "")
			if err != nil && !dErrors.HasCode(err, dErrors.CodeInvalidStateTransition) {
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	chain, err := s.service.ListMatchesForRequest(s.ctx, req.ID)
	s.Require().NoError(err)
	active := 0
	seen := map[id.DonorID]bool{}
	for _, m := range chain {
		if m.Status.IsActive() {
			active++
		}
		s.False(seen[m.DonorID], "donor %s offered the request twice", m.DonorID)
		seen[m.DonorID] = true
	}
	s.LessOrEqual(active, 1)
}

func (s *ServiceSuite) TestConcurrentCompletionsCreditEveryUnit() {
	const donations = 8
	ids := make([]id.DonationID, 0, donations)
	for n := range donations {
		_, match := s.confirmedMatch(byte(n + 1))
		ids = append(ids, s.schedule(match.ID, 1).ID)
	}

	g, ctx := errgroup.WithContext(s.ctx)
	for _, donationID := range ids {
		g.Go(func() error {
			_, err := s.service.CompleteDonation(ctx, donationID)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(donations, rows[0].UnitsAvailable)
}
