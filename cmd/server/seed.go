package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/service"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/logger"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/postgres"
)

type seedDonor struct {
	name     string
	group    models.BloodGroup
	location string
	weight   float64
}

var seedDonors = []seedDonor{
	{"Asha Kulkarni", models.BloodGroupOPos, "Pune", 58},
	{"Ravi Menon", models.BloodGroupONeg, "Pune", 72},
	{"Farah Siddiqui", models.BloodGroupAPos, "Mumbai", 61},
	{"Karan Gill", models.BloodGroupBPos, "Mumbai", 80},
	{"Meera Iyer", models.BloodGroupABNeg, "Chennai", 55},
	{"Tomas Reyes", models.BloodGroupBNeg, "Chennai", 68},
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample hospitals, staff, donors and a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB) error {
				svc := service.New(store.NewPostgres(db), service.WithLogger(logger.New("text", "warn")))
				return seed(ctx, cmd, svc)
			})
		},
	}
}

func seed(ctx context.Context, cmd *cobra.Command, svc *service.Service) error {
	hospital, err := svc.RegisterHospital(ctx, service.RegisterHospitalCommand{
		Name:     "City General Hospital",
		Location: "Pune",
		Contact:  "+91 20 5555 0100",
	})
	if err != nil {
		return fmt.Errorf("seed hospital: %w", err)
	}
	staff, err := svc.RegisterStaff(ctx, service.RegisterStaffCommand{
		HospitalID: hospital.ID,
		Name:       "Dr. Nisha Rao",
		Role:       "blood bank officer",
	})
	if err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}
	cmd.Printf("hospital %s\nstaff    %s\n", hospital.ID, staff.ID)

	for _, d := range seedDonors {
		donor, err := svc.RegisterDonor(ctx, service.RegisterDonorCommand{
			Name:       d.name,
			BloodGroup: d.group,
			Location:   d.location,
			WeightKg:   d.weight,
		})
		if err != nil {
			return fmt.Errorf("seed donor %s: %w", d.name, err)
		}
		cmd.Printf("donor    %s %-3s %s\n", donor.ID, donor.BloodGroup, donor.Name)
	}

	patient, err := svc.RegisterPatient(ctx, service.RegisterPatientCommand{
		Name:             "Sanjay Patil",
		BloodGroup:       models.BloodGroupOPos,
		Location:         "Pune",
		EmergencyContact: "+91 98 0000 0000",
	})
	if err != nil {
		return fmt.Errorf("seed patient: %w", err)
	}
	cmd.Printf("patient  %s\n", patient.ID)
	return nil
}

// withDB opens the configured database for a one-shot command.
func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return errors.New("DATABASE_URL is required")
	}
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db)
}
