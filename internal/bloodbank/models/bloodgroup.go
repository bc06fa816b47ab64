package models

import (
	"strings"

	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// BloodGroup is one of the eight ABO/Rh types.
type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

// AllBloodGroups lists the groups in display order.
var AllBloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg,
	BloodGroupBPos, BloodGroupBNeg,
	BloodGroupABPos, BloodGroupABNeg,
	BloodGroupOPos, BloodGroupONeg,
}

var validBloodGroups = map[BloodGroup]bool{
	BloodGroupAPos: true, BloodGroupANeg: true,
	BloodGroupBPos: true, BloodGroupBNeg: true,
	BloodGroupABPos: true, BloodGroupABNeg: true,
	BloodGroupOPos: true, BloodGroupONeg: true,
}

// ParseBloodGroup constructs a BloodGroup from external input. Letters are
// case-insensitive and surrounding whitespace is ignored.
func ParseBloodGroup(s string) (BloodGroup, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "blood group is required")
	}
	g := BloodGroup(s)
	if !g.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid blood group: "+s)
	}
	return g, nil
}

func (g BloodGroup) IsValid() bool {
	return validBloodGroups[g]
}

func (g BloodGroup) String() string {
	return string(g)
}
