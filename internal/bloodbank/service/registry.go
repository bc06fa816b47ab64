package service

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/eligibility"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

type RegisterDonorCommand struct {
	UserRef    string
	Name       string
	BloodGroup models.BloodGroup
	Location   string
	WeightKg   float64
}

// UpdateDonorProfile replaces the donor's editable profile. Availability
// and donation history are not part of it.
type UpdateDonorProfileCommand struct {
	Name       string
	BloodGroup models.BloodGroup
	Location   string
	WeightKg   float64
}

type RegisterPatientCommand struct {
	UserRef          string
	Name             string
	BloodGroup       models.BloodGroup
	Location         string
	EmergencyContact string
	MedicalHistory   string
}

type UpdatePatientCommand struct {
	Name             string
	BloodGroup       models.BloodGroup
	Location         string
	EmergencyContact string
	MedicalHistory   string
}

type RegisterHospitalCommand struct {
	Name     string
	Location string
	Contact  string
}

type RegisterStaffCommand struct {
	HospitalID id.HospitalID
	Name       string
	Role       string
}

func (s *Service) RegisterDonor(ctx context.Context, cmd RegisterDonorCommand) (d *models.Donor, err error) {
	ctx, done := s.span(ctx, "register_donor", attribute.String("blood_group", cmd.BloodGroup.String()))
	defer func() { done(err) }()

	d, err = models.NewDonor(id.DonorID(uuid.New()), cmd.UserRef, cmd.Name, cmd.BloodGroup, cmd.Location, cmd.WeightKg, requestcontext.Now(ctx))
	if err != nil {
		return nil, translate(err)
	}
	err = s.runTx(ctx, "register_donor", func(tx store.Tx, _ *outbox) error {
		return tx.CreateDonor(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "donor registered",
		"donor_id", d.ID,
		"blood_group", d.BloodGroup,
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}

func (s *Service) GetDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error) {
	d, err := s.store.GetDonor(ctx, donorID)
	if err != nil {
		return nil, translate(notFound(err, "donor"))
	}
	return d, nil
}

// UpdateDonorProfile edits a donor. The blood group is frozen while the
// donor holds an active match so the pending match stays compatible.
func (s *Service) UpdateDonorProfile(ctx context.Context, donorID id.DonorID, cmd UpdateDonorProfileCommand) (d *models.Donor, err error) {
	ctx, done := s.span(ctx, "update_donor_profile", attribute.String("donor.id", donorID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	err = s.runTx(ctx, "update_donor_profile", func(tx store.Tx, _ *outbox) error {
		d, err = tx.LockDonor(ctx, donorID)
		if err != nil {
			return notFound(err, "donor")
		}
		held, err := tx.DonorHoldsActiveMatch(ctx, donorID)
		if err != nil {
			return err
		}
		if err := d.UpdateProfile(cmd.Name, cmd.BloodGroup, cmd.Location, cmd.WeightKg, held, now); err != nil {
			return err
		}
		return tx.UpdateDonor(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "donor profile updated",
		"donor_id", d.ID,
		"blood_group", d.BloodGroup,
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}

// SetDonorAvailability applies the donor's own availability toggle. While a
// donor holds an active match the engine owns the flag and enabling fails.
func (s *Service) SetDonorAvailability(ctx context.Context, donorID id.DonorID, available bool) (d *models.Donor, err error) {
	ctx, done := s.span(ctx, "set_donor_availability", attribute.String("donor.id", donorID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	err = s.runTx(ctx, "set_donor_availability", func(tx store.Tx, _ *outbox) error {
		d, err = tx.LockDonor(ctx, donorID)
		if err != nil {
			return notFound(err, "donor")
		}
		held, err := tx.DonorHoldsActiveMatch(ctx, donorID)
		if err != nil {
			return err
		}
		if err := d.SetAvailability(available, held, now); err != nil {
			return err
		}
		return tx.UpdateDonor(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "donor availability changed",
		"donor_id", d.ID,
		"available", d.IsAvailable,
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}

// ListAvailableDonors is an informational search: donors of the group who
// are available and past their cool-down today. Nothing is reserved.
func (s *Service) ListAvailableDonors(ctx context.Context, group models.BloodGroup) ([]models.DonorView, error) {
	if !group.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid blood group")
	}
	donors, err := s.store.ListDonorsByGroup(ctx, group)
	if err != nil {
		return nil, translate(err)
	}
	today := models.DateOf(requestcontext.Now(ctx))
	views := make([]models.DonorView, 0, len(donors))
	for _, d := range donors {
		if eligibility.IsEligible(d, group, today) {
			views = append(views, models.NewDonorView(d))
		}
	}
	return views, nil
}

func (s *Service) RegisterPatient(ctx context.Context, cmd RegisterPatientCommand) (p *models.Patient, err error) {
	ctx, done := s.span(ctx, "register_patient")
	defer func() { done(err) }()

	p, err = models.NewPatient(id.PatientID(uuid.New()), cmd.UserRef, cmd.Name, cmd.BloodGroup,
		cmd.Location, cmd.EmergencyContact, cmd.MedicalHistory, requestcontext.Now(ctx))
	if err != nil {
		return nil, translate(err)
	}
	err = s.runTx(ctx, "register_patient", func(tx store.Tx, _ *outbox) error {
		return tx.CreatePatient(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "patient registered",
		"patient_id", p.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	p, err := s.store.GetPatient(ctx, patientID)
	if err != nil {
		return nil, translate(notFound(err, "patient"))
	}
	return p, nil
}

// UpdatePatient edits a patient record. Requests already raised keep the
// blood group they were created with.
func (s *Service) UpdatePatient(ctx context.Context, patientID id.PatientID, cmd UpdatePatientCommand) (p *models.Patient, err error) {
	ctx, done := s.span(ctx, "update_patient", attribute.String("patient.id", patientID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	err = s.runTx(ctx, "update_patient", func(tx store.Tx, _ *outbox) error {
		p, err = tx.LockPatient(ctx, patientID)
		if err != nil {
			return notFound(err, "patient")
		}
		if err := p.UpdateProfile(cmd.Name, cmd.BloodGroup, cmd.Location, cmd.EmergencyContact, cmd.MedicalHistory, now); err != nil {
			return err
		}
		return tx.UpdatePatient(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "patient updated",
		"patient_id", p.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p, nil
}

func (s *Service) RegisterHospital(ctx context.Context, cmd RegisterHospitalCommand) (h *models.Hospital, err error) {
	ctx, done := s.span(ctx, "register_hospital")
	defer func() { done(err) }()

	h, err = models.NewHospital(id.HospitalID(uuid.New()), cmd.Name, cmd.Location, cmd.Contact, requestcontext.Now(ctx))
	if err != nil {
		return nil, translate(err)
	}
	err = s.runTx(ctx, "register_hospital", func(tx store.Tx, _ *outbox) error {
		return tx.CreateHospital(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "hospital registered",
		"hospital_id", h.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return h, nil
}

// ListHospitals returns hospitals by name. Inactive ones are included only
// when asked for.
func (s *Service) ListHospitals(ctx context.Context, includeInactive bool) ([]*models.Hospital, error) {
	hospitals, err := s.store.ListHospitals(ctx, !includeInactive)
	if err != nil {
		return nil, translate(err)
	}
	return hospitals, nil
}

func (s *Service) RegisterStaff(ctx context.Context, cmd RegisterStaffCommand) (st *models.HospitalStaff, err error) {
	ctx, done := s.span(ctx, "register_staff", attribute.String("hospital.id", cmd.HospitalID.String()))
	defer func() { done(err) }()

	st, err = models.NewHospitalStaff(id.StaffID(uuid.New()), cmd.HospitalID, cmd.Name, cmd.Role, requestcontext.Now(ctx))
	if err != nil {
		return nil, translate(err)
	}
	err = s.runTx(ctx, "register_staff", func(tx store.Tx, _ *outbox) error {
		if _, err := tx.GetHospital(ctx, cmd.HospitalID); err != nil {
			return notFound(err, "hospital")
		}
		return tx.CreateStaff(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "hospital staff registered",
		"staff_id", st.ID,
		"hospital_id", st.HospitalID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return st, nil
}
