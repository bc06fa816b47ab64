package models

import (
	"time"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
)

// RequestFilter narrows ListRequests. Zero values mean "any".
type RequestFilter struct {
	Status     RequestStatus
	HospitalID id.HospitalID
	BloodGroup BloodGroup
	Urgency    Urgency
}

// Matches reports whether r passes the filter.
func (f RequestFilter) Matches(r *BloodRequest) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if !f.HospitalID.IsNil() && r.HospitalID != f.HospitalID {
		return false
	}
	if f.BloodGroup != "" && r.BloodGroup != f.BloodGroup {
		return false
	}
	if f.Urgency != "" && r.Urgency != f.Urgency {
		return false
	}
	return true
}

// RequestView is a request joined with its hospital, patient and current
// active match, if any.
type RequestView struct {
	BloodRequest
	HospitalName string      `json:"hospital_name"`
	PatientName  string      `json:"patient_name"`
	ActiveMatch  *DonorMatch `json:"active_match,omitempty"`
}

// MatchView is a match joined with the request and donor details needed by
// donor inboxes and hospital queues.
type MatchView struct {
	DonorMatch
	DonorName    string        `json:"donor_name"`
	HospitalID   id.HospitalID `json:"hospital_id"`
	HospitalName string        `json:"hospital_name"`
	BloodGroup   BloodGroup    `json:"blood_group"`
	Urgency      Urgency       `json:"urgency"`
	UnitsNeeded  int           `json:"units_needed"`
	RequiredBy   time.Time     `json:"required_by"`
}

// DonorView is the public search projection of a donor.
type DonorView struct {
	ID               id.DonorID `json:"id"`
	Name             string     `json:"name"`
	BloodGroup       BloodGroup `json:"blood_group"`
	Location         string     `json:"location"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	DonationCount    int        `json:"donation_count"`
}

func NewDonorView(d *Donor) DonorView {
	return DonorView{
		ID:               d.ID,
		Name:             d.Name,
		BloodGroup:       d.BloodGroup,
		Location:         d.Location,
		LastDonationDate: d.LastDonationDate,
		DonationCount:    d.DonationCount,
	}
}

// InventoryRow carries the derived stock status alongside the stored row.
type InventoryRow struct {
	BloodInventory
	HospitalName string      `json:"hospital_name"`
	StockStatus  StockStatus `json:"stock_status"`
}

func NewInventoryRow(inv *BloodInventory, hospitalName string) InventoryRow {
	return InventoryRow{
		BloodInventory: *inv,
		HospitalName:   hospitalName,
		StockStatus:    inv.StockStatus(),
	}
}

// DonationView is a donation joined with donor and hospital names. For
// completed donations NextEligibleDate is the donor's earliest next donation.
type DonationView struct {
	DonationRecord
	DonorName        string     `json:"donor_name"`
	HospitalName     string     `json:"hospital_name"`
	NextEligibleDate *time.Time `json:"next_eligible_date,omitempty"`
}
