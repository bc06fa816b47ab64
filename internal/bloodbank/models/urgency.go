package models

import (
	"strings"

	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// Urgency is the ordinal priority of a blood request.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

var urgencyRank = map[Urgency]int{
	UrgencyLow:      1,
	UrgencyMedium:   2,
	UrgencyHigh:     3,
	UrgencyCritical: 4,
}

func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(strings.ToLower(strings.TrimSpace(s)))
	if u == "" {
		return "", dErrors.New(dErrors.CodeValidation, "urgency is required")
	}
	if !u.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid urgency: "+string(u))
	}
	return u, nil
}

func (u Urgency) IsValid() bool {
	_, ok := urgencyRank[u]
	return ok
}

// Rank orders urgencies low < medium < high < critical. Unknown values rank 0.
func (u Urgency) Rank() int {
	return urgencyRank[u]
}

func (u Urgency) String() string {
	return string(u)
}
