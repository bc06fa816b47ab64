package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

type fakeCache struct {
	mu          sync.Mutex
	rows        map[id.HospitalID][]models.InventoryRow
	sets        int
	invalidated []id.HospitalID
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{rows: map[id.HospitalID][]models.InventoryRow{}}
}

func (c *fakeCache) Get(_ context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	rows, ok := c.rows[hospitalID]
	return rows, ok, nil
}

func (c *fakeCache) Set(_ context.Context, hospitalID id.HospitalID, rows []models.InventoryRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[hospitalID] = rows
	c.sets++
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, hospitalID id.HospitalID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, hospitalID)
	delete(c.rows, id.HospitalID{})
	c.invalidated = append(c.invalidated, hospitalID)
	return nil
}

// =============================================================================
// Inventory Ledger Tests
// =============================================================================

func (s *ServiceSuite) TestGetInventoryReadsThroughCache() {
	cache := newFakeCache()
	s.service = New(s.store, WithBus(s.bus), WithMetrics(s.metrics), WithCache(cache))

	_, match := s.confirmedMatch(1)
	donation := s.schedule(match.ID, 2)

	rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Empty(rows)
	s.Equal(1, cache.sets)

	_, err = s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Equal(1, cache.sets, "second read is served from cache")

	_, err = s.service.CompleteDonation(s.ctx, donation.ID)
	s.Require().NoError(err)
	s.Equal([]id.HospitalID{s.hospital.ID}, cache.invalidated)

	rows, err = s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(2, rows[0].UnitsAvailable)

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.CacheLookups.WithLabelValues("hit")))
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.CacheLookups.WithLabelValues("miss")))
}

func (s *ServiceSuite) TestGetInventoryFallsBackWhenCacheFails() {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	s.service = New(s.store, WithBus(s.bus), WithMetrics(s.metrics), WithCache(cache))

	_, match := s.confirmedMatch(1)
	_, err := s.service.CompleteDonation(s.ctx, s.schedule(match.ID, 4).ID)
	s.Require().NoError(err)

	rows, err := s.service.GetInventory(s.ctx, id.HospitalID{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(4, rows[0].UnitsAvailable)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.CacheLookups.WithLabelValues("error")))
}

func (s *ServiceSuite) TestGetInventoryUnknownHospital() {
	_, err := s.service.GetInventory(s.ctx, id.HospitalID{1})
	s.requireCode(err, dErrors.CodeNotFound)
}

// stalledInventoryStore holds the first armed ListInventory call after it
// has read its rows, until released.
type stalledInventoryStore struct {
	Store
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func newStalledInventoryStore(inner Store) *stalledInventoryStore {
	st := &stalledInventoryStore{Store: inner, read: make(chan struct{}), release: make(chan struct{})}
	st.armed.Store(true)
	return st
}

func (st *stalledInventoryStore) ListInventory(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, error) {
	rows, err := st.Store.ListInventory(ctx, hospitalID)
	if st.armed.CompareAndSwap(true, false) {
		close(st.read)
		<-st.release
	}
	return rows, err
}

type inventoryResult struct {
	rows []models.InventoryRow
	err  error
}

func (s *ServiceSuite) readInventoryAsync() <-chan inventoryResult {
	out := make(chan inventoryResult, 1)
	go func() {
		rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
		out <- inventoryResult{rows: rows, err: err}
	}()
	return out
}

func (s *ServiceSuite) TestGetInventoryAfterCompletionNeverJoinsAnOlderRead() {
	stalled := newStalledInventoryStore(s.store)
	s.service = New(stalled, WithBus(s.bus), WithMetrics(s.metrics))

	_, match := s.confirmedMatch(1)
	donation := s.schedule(match.ID, 2)

	older := s.readInventoryAsync()
	<-stalled.read

	_, err := s.service.CompleteDonation(s.ctx, donation.ID)
	s.Require().NoError(err)

	select {
	case res := <-s.readInventoryAsync():
		s.Require().NoError(res.err)
		s.Require().Len(res.rows, 1)
		s.Equal(2, res.rows[0].UnitsAvailable)
	case <-time.After(2 * time.Second):
		s.Fail("read issued after completion waited on a read started before it")
	}

	close(stalled.release)
	res := <-older
	s.Require().NoError(res.err)
	s.Empty(res.rows)
}

func (s *ServiceSuite) TestGetInventoryDoesNotCacheRowsReadBeforeACredit() {
	cache := newFakeCache()
	stalled := newStalledInventoryStore(s.store)
	s.service = New(stalled, WithBus(s.bus), WithMetrics(s.metrics), WithCache(cache))

	_, match := s.confirmedMatch(1)
	donation := s.schedule(match.ID, 2)

	older := s.readInventoryAsync()
	<-stalled.read

	_, err := s.service.CompleteDonation(s.ctx, donation.ID)
	s.Require().NoError(err)

	close(stalled.release)
	res := <-older
	s.Require().NoError(res.err)
	s.Empty(res.rows)
	s.Zero(cache.sets, "rows read before the credit stay out of the cache")

	rows, err := s.service.GetInventory(s.ctx, s.hospital.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(2, rows[0].UnitsAvailable)
}
