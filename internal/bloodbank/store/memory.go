package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/sentinel"
)

// MemoryStore keeps all aggregates in process. Writers are serialized by a
// single lock and work on a copy of the maps, which replaces the committed
// state only when the transaction function succeeds. Stored values are never
// mutated in place, so the copy can be shallow.
type MemoryStore struct {
	mu    sync.RWMutex
	state *state
}

func NewMemory() *MemoryStore {
	return &MemoryStore{state: newState()}
}

// RunInTx runs fn against a private copy of the store and commits it if fn
// returns nil. Transactions do not nest.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	work := s.state.clone()
	if err := fn(&memoryTx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *MemoryStore) GetDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetDonor(ctx, donorID)
}

func (s *MemoryStore) GetPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetPatient(ctx, patientID)
}

func (s *MemoryStore) GetHospital(ctx context.Context, hospitalID id.HospitalID) (*models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetHospital(ctx, hospitalID)
}

func (s *MemoryStore) GetStaff(ctx context.Context, staffID id.StaffID) (*models.HospitalStaff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetStaff(ctx, staffID)
}

func (s *MemoryStore) GetRequest(ctx context.Context, requestID id.RequestID) (*models.BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetRequest(ctx, requestID)
}

func (s *MemoryStore) GetMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetMatch(ctx, matchID)
}

func (s *MemoryStore) GetDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetDonation(ctx, donationID)
}

func (s *MemoryStore) ListHospitals(ctx context.Context, activeOnly bool) ([]*models.Hospital, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListHospitals(ctx, activeOnly)
}

func (s *MemoryStore) ListRequests(ctx context.Context, filter models.RequestFilter) ([]*models.BloodRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListRequests(ctx, filter)
}

func (s *MemoryStore) ActiveMatchForRequest(ctx context.Context, requestID id.RequestID) (*models.DonorMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ActiveMatchForRequest(ctx, requestID)
}

func (s *MemoryStore) ListMatchViews(ctx context.Context, q MatchQuery) ([]models.MatchView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListMatchViews(ctx, q)
}

func (s *MemoryStore) ListDonorsByGroup(ctx context.Context, group models.BloodGroup) ([]*models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListDonorsByGroup(ctx, group)
}

func (s *MemoryStore) DonorHoldsActiveMatch(ctx context.Context, donorID id.DonorID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DonorHoldsActiveMatch(ctx, donorID)
}

func (s *MemoryStore) ListDonationViews(ctx context.Context, q DonationQuery) ([]models.DonationView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListDonationViews(ctx, q)
}

func (s *MemoryStore) ListInventory(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ListInventory(ctx, hospitalID)
}

type inventoryKey struct {
	hospitalID id.HospitalID
	group      models.BloodGroup
}

type state struct {
	donors    map[id.DonorID]*models.Donor
	patients  map[id.PatientID]*models.Patient
	hospitals map[id.HospitalID]*models.Hospital
	staff     map[id.StaffID]*models.HospitalStaff
	requests  map[id.RequestID]*models.BloodRequest
	matches   map[id.MatchID]*models.DonorMatch
	donations map[id.DonationID]*models.DonationRecord
	inventory map[inventoryKey]*models.BloodInventory
}

func newState() *state {
	return &state{
		donors:    make(map[id.DonorID]*models.Donor),
		patients:  make(map[id.PatientID]*models.Patient),
		hospitals: make(map[id.HospitalID]*models.Hospital),
		staff:     make(map[id.StaffID]*models.HospitalStaff),
		requests:  make(map[id.RequestID]*models.BloodRequest),
		matches:   make(map[id.MatchID]*models.DonorMatch),
		donations: make(map[id.DonationID]*models.DonationRecord),
		inventory: make(map[inventoryKey]*models.BloodInventory),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (st *state) clone() *state {
	return &state{
		donors:    copyMap(st.donors),
		patients:  copyMap(st.patients),
		hospitals: copyMap(st.hospitals),
		staff:     copyMap(st.staff),
		requests:  copyMap(st.requests),
		matches:   copyMap(st.matches),
		donations: copyMap(st.donations),
		inventory: copyMap(st.inventory),
	}
}

func (st *state) GetDonor(_ context.Context, donorID id.DonorID) (*models.Donor, error) {
	d, ok := st.donors[donorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return d.Clone(), nil
}

func (st *state) GetPatient(_ context.Context, patientID id.PatientID) (*models.Patient, error) {
	p, ok := st.patients[patientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (st *state) GetHospital(_ context.Context, hospitalID id.HospitalID) (*models.Hospital, error) {
	h, ok := st.hospitals[hospitalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *h
	return &c, nil
}

func (st *state) ListHospitals(_ context.Context, activeOnly bool) ([]*models.Hospital, error) {
	out := make([]*models.Hospital, 0, len(st.hospitals))
	for _, h := range st.hospitals {
		if activeOnly && !h.IsActive {
			continue
		}
		c := *h
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *models.Hospital) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (st *state) GetStaff(_ context.Context, staffID id.StaffID) (*models.HospitalStaff, error) {
	m, ok := st.staff[staffID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (st *state) GetRequest(_ context.Context, requestID id.RequestID) (*models.BloodRequest, error) {
	r, ok := st.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r.Clone(), nil
}

func (st *state) GetMatch(_ context.Context, matchID id.MatchID) (*models.DonorMatch, error) {
	m, ok := st.matches[matchID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return m.Clone(), nil
}

func (st *state) GetDonation(_ context.Context, donationID id.DonationID) (*models.DonationRecord, error) {
	d, ok := st.donations[donationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return d.Clone(), nil
}

func (st *state) ListRequests(_ context.Context, filter models.RequestFilter) ([]*models.BloodRequest, error) {
	out := make([]*models.BloodRequest, 0)
	for _, r := range st.requests {
		if filter.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.BloodRequest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (st *state) ActiveMatchForRequest(_ context.Context, requestID id.RequestID) (*models.DonorMatch, error) {
	for _, m := range st.matches {
		if m.RequestID == requestID && m.IsActive() {
			return m.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (st *state) ListMatchViews(_ context.Context, q MatchQuery) ([]models.MatchView, error) {
	out := make([]models.MatchView, 0)
	for _, m := range st.matches {
		if !q.RequestID.IsNil() && m.RequestID != q.RequestID {
			continue
		}
		if !q.DonorID.IsNil() && m.DonorID != q.DonorID {
			continue
		}
		if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, m.Status) {
			continue
		}
		r, ok := st.requests[m.RequestID]
		if !ok {
			continue
		}
		if q.PendingOnly && !r.IsPending() {
			continue
		}
		if !q.HospitalID.IsNil() && r.HospitalID != q.HospitalID {
			continue
		}
		view := models.MatchView{
			DonorMatch:  *m,
			HospitalID:  r.HospitalID,
			BloodGroup:  r.BloodGroup,
			Urgency:     r.Urgency,
			UnitsNeeded: r.UnitsNeeded,
			RequiredBy:  r.RequiredBy,
		}
		if d, ok := st.donors[m.DonorID]; ok {
			view.DonorName = d.Name
		}
		if h, ok := st.hospitals[r.HospitalID]; ok {
			view.HospitalName = h.Name
		}
		out = append(out, view)
	}
	slices.SortFunc(out, func(a, b models.MatchView) int {
		if c := a.MatchedAt.Compare(b.MatchedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (st *state) ListDonorsByGroup(_ context.Context, group models.BloodGroup) ([]*models.Donor, error) {
	out := make([]*models.Donor, 0)
	for _, d := range st.donors {
		if d.BloodGroup == group {
			out = append(out, d.Clone())
		}
	}
	sortDonors(out)
	return out, nil
}

func (st *state) DonorHoldsActiveMatch(_ context.Context, donorID id.DonorID) (bool, error) {
	return st.holdsActiveMatch(donorID), nil
}

func (st *state) holdsActiveMatch(donorID id.DonorID) bool {
	for _, m := range st.matches {
		if m.DonorID != donorID || !m.IsActive() {
			continue
		}
		if r, ok := st.requests[m.RequestID]; ok && r.IsPending() {
			return true
		}
	}
	return false
}

func (st *state) ListDonationViews(_ context.Context, q DonationQuery) ([]models.DonationView, error) {
	out := make([]models.DonationView, 0)
	for _, d := range st.donations {
		if !q.HospitalID.IsNil() && d.HospitalID != q.HospitalID {
			continue
		}
		if !q.DonorID.IsNil() && d.DonorID != q.DonorID {
			continue
		}
		if q.Status != "" && d.Status != q.Status {
			continue
		}
		view := models.DonationView{DonationRecord: *d}
		if donor, ok := st.donors[d.DonorID]; ok {
			view.DonorName = donor.Name
		}
		if h, ok := st.hospitals[d.HospitalID]; ok {
			view.HospitalName = h.Name
		}
		out = append(out, view)
	}
	slices.SortFunc(out, func(a, b models.DonationView) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (st *state) ListInventory(_ context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, error) {
	out := make([]models.InventoryRow, 0)
	for key, inv := range st.inventory {
		if !hospitalID.IsNil() && key.hospitalID != hospitalID {
			continue
		}
		name := ""
		if h, ok := st.hospitals[key.hospitalID]; ok {
			name = h.Name
		}
		out = append(out, models.NewInventoryRow(inv, name))
	}
	slices.SortFunc(out, func(a, b models.InventoryRow) int {
		if c := cmp.Compare(a.HospitalName, b.HospitalName); c != 0 {
			return c
		}
		if c := cmp.Compare(a.HospitalID.String(), b.HospitalID.String()); c != 0 {
			return c
		}
		return cmp.Compare(a.BloodGroup, b.BloodGroup)
	})
	return out, nil
}

func sortDonors(donors []*models.Donor) {
	slices.SortFunc(donors, func(a, b *models.Donor) int {
		switch {
		case a.ID.Less(b.ID):
			return -1
		case b.ID.Less(a.ID):
			return 1
		}
		return 0
	})
}

// memoryTx writes straight into the working copy. Locks are implicit: the
// whole store is held by RunInTx.
type memoryTx struct {
	*state
}

func (tx *memoryTx) LockRequest(ctx context.Context, requestID id.RequestID) (*models.BloodRequest, error) {
	return tx.GetRequest(ctx, requestID)
}

func (tx *memoryTx) LockMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error) {
	return tx.GetMatch(ctx, matchID)
}

func (tx *memoryTx) LockDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error) {
	return tx.GetDonation(ctx, donationID)
}

func (tx *memoryTx) LockDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error) {
	return tx.GetDonor(ctx, donorID)
}

func (tx *memoryTx) LockPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	return tx.GetPatient(ctx, patientID)
}

func (tx *memoryTx) LockOrCreateInventory(_ context.Context, hospitalID id.HospitalID, group models.BloodGroup, threshold int, now time.Time) (*models.BloodInventory, error) {
	key := inventoryKey{hospitalID: hospitalID, group: group}
	if inv, ok := tx.inventory[key]; ok {
		return inv.Clone(), nil
	}
	inv := models.NewBloodInventory(id.InventoryID(uuid.New()), hospitalID, group, threshold, now)
	tx.inventory[key] = inv
	return inv.Clone(), nil
}

func (tx *memoryTx) ListCandidates(_ context.Context, group models.BloodGroup, exclude []id.DonorID) ([]*models.Donor, error) {
	out := make([]*models.Donor, 0)
	for _, d := range tx.donors {
		if d.BloodGroup != group || slices.Contains(exclude, d.ID) {
			continue
		}
		if tx.holdsActiveMatch(d.ID) {
			continue
		}
		out = append(out, d.Clone())
	}
	sortDonors(out)
	return out, nil
}

func (tx *memoryTx) RejectedDonors(_ context.Context, requestID id.RequestID) ([]id.DonorID, error) {
	out := make([]id.DonorID, 0)
	for _, m := range tx.matches {
		if m.RequestID == requestID && m.Status == models.MatchStatusRejected && !slices.Contains(out, m.DonorID) {
			out = append(out, m.DonorID)
		}
	}
	return out, nil
}

func (tx *memoryTx) DonationsForMatch(_ context.Context, matchID id.MatchID) ([]*models.DonationRecord, error) {
	out := make([]*models.DonationRecord, 0)
	for _, d := range tx.donations {
		if d.MatchID == matchID {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (tx *memoryTx) CreateDonor(_ context.Context, d *models.Donor) error {
	if _, exists := tx.donors[d.ID]; exists {
		return sentinel.ErrConflict
	}
	tx.donors[d.ID] = d.Clone()
	return nil
}

func (tx *memoryTx) UpdateDonor(_ context.Context, d *models.Donor) error {
	if _, exists := tx.donors[d.ID]; !exists {
		return sentinel.ErrNotFound
	}
	tx.donors[d.ID] = d.Clone()
	return nil
}

func (tx *memoryTx) CreatePatient(_ context.Context, p *models.Patient) error {
	if _, exists := tx.patients[p.ID]; exists {
		return sentinel.ErrConflict
	}
	c := *p
	tx.patients[p.ID] = &c
	return nil
}

func (tx *memoryTx) UpdatePatient(_ context.Context, p *models.Patient) error {
	if _, exists := tx.patients[p.ID]; !exists {
		return sentinel.ErrNotFound
	}
	c := *p
	tx.patients[p.ID] = &c
	return nil
}

func (tx *memoryTx) CreateHospital(_ context.Context, h *models.Hospital) error {
	if _, exists := tx.hospitals[h.ID]; exists {
		return sentinel.ErrConflict
	}
	c := *h
	tx.hospitals[h.ID] = &c
	return nil
}

func (tx *memoryTx) CreateStaff(_ context.Context, m *models.HospitalStaff) error {
	if _, exists := tx.staff[m.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, ok := tx.hospitals[m.HospitalID]; !ok {
		return sentinel.ErrNotFound
	}
	c := *m
	tx.staff[m.ID] = &c
	return nil
}

func (tx *memoryTx) CreateRequest(_ context.Context, r *models.BloodRequest) error {
	if _, exists := tx.requests[r.ID]; exists {
		return sentinel.ErrConflict
	}
	tx.requests[r.ID] = r.Clone()
	return nil
}

func (tx *memoryTx) UpdateRequest(_ context.Context, r *models.BloodRequest) error {
	if _, exists := tx.requests[r.ID]; !exists {
		return sentinel.ErrNotFound
	}
	tx.requests[r.ID] = r.Clone()
	return nil
}

func (tx *memoryTx) CreateMatch(_ context.Context, m *models.DonorMatch) error {
	if _, exists := tx.matches[m.ID]; exists {
		return sentinel.ErrConflict
	}
	if m.IsActive() {
		for _, other := range tx.matches {
			if other.RequestID == m.RequestID && other.IsActive() {
				return sentinel.ErrConflict
			}
		}
	}
	tx.matches[m.ID] = m.Clone()
	return nil
}

func (tx *memoryTx) UpdateMatch(_ context.Context, m *models.DonorMatch) error {
	if _, exists := tx.matches[m.ID]; !exists {
		return sentinel.ErrNotFound
	}
	tx.matches[m.ID] = m.Clone()
	return nil
}

func (tx *memoryTx) CreateDonation(_ context.Context, d *models.DonationRecord) error {
	if _, exists := tx.donations[d.ID]; exists {
		return sentinel.ErrConflict
	}
	tx.donations[d.ID] = d.Clone()
	return nil
}

func (tx *memoryTx) UpdateDonation(_ context.Context, d *models.DonationRecord) error {
	if _, exists := tx.donations[d.ID]; !exists {
		return sentinel.ErrNotFound
	}
	tx.donations[d.ID] = d.Clone()
	return nil
}

func (tx *memoryTx) UpdateInventory(_ context.Context, inv *models.BloodInventory) error {
	key := inventoryKey{hospitalID: inv.HospitalID, group: inv.BloodGroup}
	if _, exists := tx.inventory[key]; !exists {
		return sentinel.ErrNotFound
	}
	tx.inventory[key] = inv.Clone()
	return nil
}
