package models

import (
	"math"
	"time"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// StockStatus is derived from units available and the row's threshold.
type StockStatus string

const (
	StockStatusLow        StockStatus = "LOW STOCK"
	StockStatusSufficient StockStatus = "SUFFICIENT"
)

// MaxUnits bounds the units of a single request or donation.
const MaxUnits = 100

// MaxStockUnits is the most a single inventory row can hold. It matches the
// INTEGER columns of the postgres schema.
const MaxStockUnits = math.MaxInt32

// ValidUnits reports whether units is a positive amount within MaxUnits.
func ValidUnits(units int) bool {
	return units > 0 && units <= MaxUnits
}

// BloodInventory is the stock of one blood group at one hospital.
type BloodInventory struct {
	ID                id.InventoryID `json:"id"`
	HospitalID        id.HospitalID  `json:"hospital_id"`
	BloodGroup        BloodGroup     `json:"blood_group"`
	UnitsAvailable    int            `json:"units_available"`
	UnitsReserved     int            `json:"units_reserved"`
	LowStockThreshold int            `json:"low_stock_threshold"`
	UpdatedAt         time.Time      `json:"updated_at"`
	UpdatedBy         string         `json:"updated_by,omitempty"`
}

// NewBloodInventory opens an empty row for a hospital and blood group.
func NewBloodInventory(inventoryID id.InventoryID, hospitalID id.HospitalID, group BloodGroup, threshold int, now time.Time) *BloodInventory {
	return &BloodInventory{
		ID:                inventoryID,
		HospitalID:        hospitalID,
		BloodGroup:        group,
		LowStockThreshold: threshold,
		UpdatedAt:         now,
	}
}

// StockStatusFor applies the threshold rule: LOW STOCK when available <= threshold.
func StockStatusFor(available, threshold int) StockStatus {
	if available <= threshold {
		return StockStatusLow
	}
	return StockStatusSufficient
}

func (inv *BloodInventory) StockStatus() StockStatus {
	return StockStatusFor(inv.UnitsAvailable, inv.LowStockThreshold)
}

// Credit adds donated units to the row.
func (inv *BloodInventory) Credit(units int, actor string, now time.Time) error {
	if units <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "credited units must be positive")
	}
	if inv.UnitsAvailable > MaxStockUnits-units {
		return dErrors.New(dErrors.CodeInvariantViolation, "credit would exceed the stock capacity of the row")
	}
	inv.UnitsAvailable += units
	inv.UpdatedAt = now
	inv.UpdatedBy = actor
	return nil
}

func (inv *BloodInventory) Clone() *BloodInventory {
	c := *inv
	return &c
}
