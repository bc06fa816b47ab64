package domain

import (
	"bytes"
	"strings"

	"github.com/google/uuid"

	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

// Typed identifiers. Each wraps a UUID so a DonorID can never be passed where
// a RequestID is expected.
type (
	DonorID     uuid.UUID
	PatientID   uuid.UUID
	HospitalID  uuid.UUID
	StaffID     uuid.UUID
	RequestID   uuid.UUID
	MatchID     uuid.UUID
	DonationID  uuid.UUID
	InventoryID uuid.UUID
)

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return u, nil
}

// ParseDonorID parses external input at a trust boundary.
func ParseDonorID(s string) (DonorID, error) {
	u, err := parseUUID("donor id", s)
	return DonorID(u), err
}

func ParsePatientID(s string) (PatientID, error) {
	u, err := parseUUID("patient id", s)
	return PatientID(u), err
}

func ParseHospitalID(s string) (HospitalID, error) {
	u, err := parseUUID("hospital id", s)
	return HospitalID(u), err
}

func ParseStaffID(s string) (StaffID, error) {
	u, err := parseUUID("staff id", s)
	return StaffID(u), err
}

func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID("request id", s)
	return RequestID(u), err
}

func ParseMatchID(s string) (MatchID, error) {
	u, err := parseUUID("match id", s)
	return MatchID(u), err
}

func ParseDonationID(s string) (DonationID, error) {
	u, err := parseUUID("donation id", s)
	return DonationID(u), err
}

func (id DonorID) String() string     { return uuid.UUID(id).String() }
func (id PatientID) String() string   { return uuid.UUID(id).String() }
func (id HospitalID) String() string  { return uuid.UUID(id).String() }
func (id StaffID) String() string     { return uuid.UUID(id).String() }
func (id RequestID) String() string   { return uuid.UUID(id).String() }
func (id MatchID) String() string     { return uuid.UUID(id).String() }
func (id DonationID) String() string  { return uuid.UUID(id).String() }
func (id InventoryID) String() string { return uuid.UUID(id).String() }

func (id DonorID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id PatientID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id HospitalID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id StaffID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id MatchID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DonationID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id InventoryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Less orders donors by their byte representation, which is also the order
// PostgreSQL uses for the uuid type.
func (id DonorID) Less(other DonorID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// MarshalText lets typed IDs appear as plain UUID strings in JSON.
func (id DonorID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id PatientID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id HospitalID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id StaffID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id RequestID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id MatchID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id DonationID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id InventoryID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *DonorID) UnmarshalText(b []byte) error {
	v, err := ParseDonorID(string(b))
	*id = v
	return err
}

func (id *PatientID) UnmarshalText(b []byte) error {
	v, err := ParsePatientID(string(b))
	*id = v
	return err
}

func (id *HospitalID) UnmarshalText(b []byte) error {
	v, err := ParseHospitalID(string(b))
	*id = v
	return err
}

func (id *StaffID) UnmarshalText(b []byte) error {
	v, err := ParseStaffID(string(b))
	*id = v
	return err
}

func (id *RequestID) UnmarshalText(b []byte) error {
	v, err := ParseRequestID(string(b))
	*id = v
	return err
}

func (id *MatchID) UnmarshalText(b []byte) error {
	v, err := ParseMatchID(string(b))
	*id = v
	return err
}

func (id *DonationID) UnmarshalText(b []byte) error {
	v, err := ParseDonationID(string(b))
	*id = v
	return err
}
