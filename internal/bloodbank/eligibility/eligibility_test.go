package eligibility_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/eligibility"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
)

var asOf = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func donor(t *testing.T, group models.BloodGroup) *models.Donor {
	t.Helper()
	d, err := models.NewDonor(id.DonorID(uuid.New()), "", "donor", group, "LOC", 70, asOf.AddDate(-1, 0, 0))
	require.NoError(t, err)
	return d
}

func TestIsEligible_GroupMismatchAlwaysFails(t *testing.T) {
	for _, dg := range models.AllBloodGroups {
		for _, rg := range models.AllBloodGroups {
			d := donor(t, dg)
			got := eligibility.IsEligible(d, rg, asOf)
			assert.Equal(t, dg == rg, got, "donor %s for request %s", dg, rg)
		}
	}
}

func TestIsEligible_UniversalDonorIsNotSubstituted(t *testing.T) {
	d := donor(t, models.BloodGroupONeg)
	assert.False(t, eligibility.IsEligible(d, models.BloodGroupABPos, asOf))
}

func TestIsEligible_RequiresAvailability(t *testing.T) {
	d := donor(t, models.BloodGroupAPos)
	d.Reserve(asOf)
	assert.False(t, eligibility.IsEligible(d, models.BloodGroupAPos, asOf))
}

func TestIsEligible_NilDonor(t *testing.T) {
	assert.False(t, eligibility.IsEligible(nil, models.BloodGroupAPos, asOf))
}

func TestCooldownWindow(t *testing.T) {
	last := time.Date(2026, 1, 15, 18, 45, 0, 0, time.UTC)
	d := donor(t, models.BloodGroupBNeg)
	d.RecordDonation(last, last)

	tests := []struct {
		name string
		days int
		want bool
	}{
		{"same day", 0, false},
		{"day after", 1, false},
		{"day 89", 89, false},
		{"day 90", 90, true},
		{"day 91", 91, true},
		{"a year later", 365, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			on := models.DateOf(last).AddDate(0, 0, tt.days).Add(30 * time.Minute)
			assert.Equal(t, tt.want, eligibility.IsEligible(d, models.BloodGroupBNeg, on))
		})
	}
}

func TestCooledDown_NeverDonated(t *testing.T) {
	assert.True(t, eligibility.CooledDown(nil, asOf))
}

func TestNextEligibleDate(t *testing.T) {
	last := time.Date(2026, 1, 15, 18, 45, 0, 0, time.UTC)
	next := eligibility.NextEligibleDate(last)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), next)
	assert.True(t, eligibility.CooledDown(&last, next))
	assert.False(t, eligibility.CooledDown(&last, next.AddDate(0, 0, -1)))
}
