// Package store persists the blood bank aggregates.
//
// Stores are pure I/O. Domain rules live on the models and orchestration in
// the service; a store only guarantees that everything done through one Tx
// commits together or not at all.
package store

import (
	"context"
	"time"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
)

// MatchQuery selects matches joined with request, donor and hospital. Zero
// fields mean "any". PendingOnly restricts to matches whose request is still
// pending.
type MatchQuery struct {
	RequestID   id.RequestID
	DonorID     id.DonorID
	HospitalID  id.HospitalID
	Statuses    []models.MatchStatus
	PendingOnly bool
}

// DonationQuery selects donations joined with donor and hospital names.
type DonationQuery struct {
	HospitalID id.HospitalID
	DonorID    id.DonorID
	Status     models.DonationStatus
}

// Reader is the read surface shared by the store and its transactions.
// Lookups by id return sentinel.ErrNotFound when the row does not exist.
type Reader interface {
	GetDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error)
	GetPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	GetHospital(ctx context.Context, hospitalID id.HospitalID) (*models.Hospital, error)
	GetStaff(ctx context.Context, staffID id.StaffID) (*models.HospitalStaff, error)
	GetRequest(ctx context.Context, requestID id.RequestID) (*models.BloodRequest, error)
	GetMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error)
	GetDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error)

	// ListHospitals returns hospitals ordered by name, only active ones when
	// activeOnly is set.
	ListHospitals(ctx context.Context, activeOnly bool) ([]*models.Hospital, error)

	// ListRequests returns requests passing filter, newest first.
	ListRequests(ctx context.Context, filter models.RequestFilter) ([]*models.BloodRequest, error)
	// ActiveMatchForRequest returns the request's match in an active status,
	// or sentinel.ErrNotFound.
	ActiveMatchForRequest(ctx context.Context, requestID id.RequestID) (*models.DonorMatch, error)
	// ListMatchViews returns matches in match-time order.
	ListMatchViews(ctx context.Context, q MatchQuery) ([]models.MatchView, error)
	// ListDonorsByGroup returns every donor of the group ordered by id.
	ListDonorsByGroup(ctx context.Context, group models.BloodGroup) ([]*models.Donor, error)
	// DonorHoldsActiveMatch reports whether the donor has an active match on
	// a pending request.
	DonorHoldsActiveMatch(ctx context.Context, donorID id.DonorID) (bool, error)
	// ListDonationViews returns donations by date ascending.
	ListDonationViews(ctx context.Context, q DonationQuery) ([]models.DonationView, error)
	// ListInventory returns inventory rows for one hospital, or for all when
	// hospitalID is nil, ordered by hospital name then blood group.
	ListInventory(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, error)
}

// Tx is a unit of work. Lock* methods take a row lock held until the
// transaction ends; callers acquire them in the order
// request, match, donation, donor, inventory.
type Tx interface {
	Reader

	LockRequest(ctx context.Context, requestID id.RequestID) (*models.BloodRequest, error)
	LockMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error)
	LockDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error)
	LockDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error)
	// LockPatient is taken on its own; no other lock is held with it.
	LockPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	// LockOrCreateInventory returns the locked row for hospital/group,
	// creating an empty one with the given threshold first if needed.
	LockOrCreateInventory(ctx context.Context, hospitalID id.HospitalID, group models.BloodGroup, threshold int, now time.Time) (*models.BloodInventory, error)

	// ListCandidates returns donors of the group that hold no active match on
	// a pending request and are not in exclude, ordered by id. Rows are not
	// locked.
	ListCandidates(ctx context.Context, group models.BloodGroup, exclude []id.DonorID) ([]*models.Donor, error)
	// RejectedDonors lists donors with a rejected match for the request.
	RejectedDonors(ctx context.Context, requestID id.RequestID) ([]id.DonorID, error)
	// DonationsForMatch returns every donation scheduled from the match.
	DonationsForMatch(ctx context.Context, matchID id.MatchID) ([]*models.DonationRecord, error)

	CreateDonor(ctx context.Context, d *models.Donor) error
	UpdateDonor(ctx context.Context, d *models.Donor) error
	CreatePatient(ctx context.Context, p *models.Patient) error
	UpdatePatient(ctx context.Context, p *models.Patient) error
	CreateHospital(ctx context.Context, h *models.Hospital) error
	CreateStaff(ctx context.Context, st *models.HospitalStaff) error
	CreateRequest(ctx context.Context, r *models.BloodRequest) error
	UpdateRequest(ctx context.Context, r *models.BloodRequest) error
	// CreateMatch returns sentinel.ErrConflict when the request already has
	// an active match.
	CreateMatch(ctx context.Context, m *models.DonorMatch) error
	UpdateMatch(ctx context.Context, m *models.DonorMatch) error
	CreateDonation(ctx context.Context, d *models.DonationRecord) error
	UpdateDonation(ctx context.Context, d *models.DonationRecord) error
	UpdateInventory(ctx context.Context, inv *models.BloodInventory) error
}
