// Package eligibility decides whether a donor can serve a request.
//
// Every function here is pure: no I/O, no clock, no shared state. Callers
// pass the as-of date explicitly so the Matcher can evaluate against the
// request's creation date and donor search can evaluate against today.
package eligibility

import (
	"time"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
)

// CooldownDays is the minimum gap between two donations by the same donor.
const CooldownDays = 90

// IsCompatible applies exact ABO/Rh matching. No cross-group substitution.
func IsCompatible(donorGroup, requiredGroup models.BloodGroup) bool {
	return donorGroup.IsValid() && donorGroup == requiredGroup
}

// CooledDown reports whether at least CooldownDays calendar days separate
// the last donation from asOf. Donors who never donated are cooled down.
func CooledDown(lastDonation *time.Time, asOf time.Time) bool {
	if lastDonation == nil {
		return true
	}
	return models.DaysBetween(*lastDonation, asOf) >= CooldownDays
}

// NextEligibleDate is the first calendar day a donor may give again.
func NextEligibleDate(lastDonation time.Time) time.Time {
	return models.DateOf(lastDonation).AddDate(0, 0, CooldownDays)
}

// IsEligible combines compatibility, the availability flag and cool-down.
func IsEligible(d *models.Donor, requiredGroup models.BloodGroup, asOf time.Time) bool {
	if d == nil {
		return false
	}
	return IsCompatible(d.BloodGroup, requiredGroup) &&
		d.IsAvailable &&
		CooledDown(d.LastDonationDate, asOf)
}
