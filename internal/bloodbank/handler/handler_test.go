package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/handler/mocks"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/service"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service

type HandlerSuite struct {
	suite.Suite
	now time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
}

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func (s *HandlerSuite) do(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	return testutil.DoRequest(router, testutil.NewJSONRequest(s.T(), method, path, body))
}

func (s *HandlerSuite) decodeError(rr *httptest.ResponseRecorder) map[string]string {
	return testutil.UnmarshalErrorResponse(s.T(), rr)
}

func newID[T ~[16]byte]() T { return T(uuid.New()) }

// =============================================================================
// Donors
// =============================================================================

func (s *HandlerSuite) TestRegisterDonor() {
	s.Run("valid body creates donor", func() {
		router, svc := newTestRouter(s.T())
		donor, err := models.NewDonor(newID[id.DonorID](), "u-1", "Asha", models.BloodGroupOPos, "Pune", 62, s.now)
		s.Require().NoError(err)
		svc.EXPECT().RegisterDonor(gomock.Any(), service.RegisterDonorCommand{
			UserRef:    "u-1",
			Name:       "Asha",
			BloodGroup: models.BloodGroupOPos,
			Location:   "Pune",
			WeightKg:   62,
		}).Return(donor, nil)

		rr := s.do(router, http.MethodPost, "/donors", map[string]any{
			"user_ref": "u-1", "name": " Asha ", "blood_group": "O+", "location": "Pune", "weight_kg": 62,
		})

		s.Equal(http.StatusCreated, rr.Code)
		var got map[string]any
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Equal(donor.ID.String(), got["id"])
		s.Equal("O+", got["blood_group"])
		s.Equal(true, got["is_available"])
	})

	s.Run("invalid blood group is rejected before the service", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodPost, "/donors", map[string]any{
			"name": "Asha", "blood_group": "Z+", "weight_kg": 62,
		})
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal(string(dErrors.CodeValidation), s.decodeError(rr)["error"])
	})

	s.Run("unknown fields are rejected", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodPost, "/donors", `{"name":"Asha","blood_group":"O+","weight_kg":62,"role":"admin"}`)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *HandlerSuite) TestGetDonor() {
	s.Run("malformed id", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodGet, "/donors/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal(string(dErrors.CodeInvalidInput), s.decodeError(rr)["error"])
	})

	s.Run("unknown donor maps to 404", func() {
		router, svc := newTestRouter(s.T())
		donorID := newID[id.DonorID]()
		svc.EXPECT().GetDonor(gomock.Any(), donorID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "donor not found"))

		rr := s.do(router, http.MethodGet, "/donors/"+donorID.String(), nil)
		s.Equal(http.StatusNotFound, rr.Code)
		body := s.decodeError(rr)
		s.Equal("not_found", body["error"])
		s.Equal("donor not found", body["error_description"])
	})
}

func (s *HandlerSuite) TestSetAvailability() {
	s.Run("missing flag", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodPut, "/donors/"+uuid.NewString()+"/availability", map[string]any{})
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("false is forwarded", func() {
		router, svc := newTestRouter(s.T())
		donorID := newID[id.DonorID]()
		svc.EXPECT().SetDonorAvailability(gomock.Any(), donorID, false).Return(&models.Donor{ID: donorID}, nil)

		rr := s.do(router, http.MethodPut, "/donors/"+donorID.String()+"/availability", map[string]any{"available": false})
		s.Equal(http.StatusOK, rr.Code)
	})
}

func (s *HandlerSuite) TestUpdateDonorProfile() {
	s.Run("profile is forwarded", func() {
		router, svc := newTestRouter(s.T())
		donorID := newID[id.DonorID]()
		svc.EXPECT().UpdateDonorProfile(gomock.Any(), donorID, service.UpdateDonorProfileCommand{
			Name:       "Asha R",
			BloodGroup: models.BloodGroupANeg,
			Location:   "Mumbai",
			WeightKg:   58,
		}).Return(&models.Donor{ID: donorID, BloodGroup: models.BloodGroupANeg}, nil)

		rr := s.do(router, http.MethodPut, "/donors/"+donorID.String(), map[string]any{
			"name": "Asha R", "blood_group": "A-", "location": "Mumbai", "weight_kg": 58,
		})
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("group change during an active match maps to 409", func() {
		router, svc := newTestRouter(s.T())
		donorID := newID[id.DonorID]()
		svc.EXPECT().UpdateDonorProfile(gomock.Any(), donorID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidStateTransition, "blood group cannot change while the donor holds an active match"))

		rr := s.do(router, http.MethodPut, "/donors/"+donorID.String(), map[string]any{
			"name": "Asha", "blood_group": "B+", "weight_kg": 62,
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeInvalidStateTransition))
	})

	s.Run("missing weight never reaches the service", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodPut, "/donors/"+uuid.NewString(), map[string]any{
			"name": "Asha", "blood_group": "O+",
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *HandlerSuite) TestListAvailableDonors() {
	s.Run("unescaped plus in query", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ListAvailableDonors(gomock.Any(), models.BloodGroupABPos).
			Return([]models.DonorView{{ID: newID[id.DonorID](), Name: "Ravi", BloodGroup: models.BloodGroupABPos}}, nil)

		rr := s.do(router, http.MethodGet, "/donors?blood_group=AB+", nil)
		s.Equal(http.StatusOK, rr.Code)
		var got ListResponse[models.DonorView]
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Equal(1, got.Count)
	})

	s.Run("blood group is required", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodGet, "/donors", nil)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestDonorHistoryEmptyList() {
	router, svc := newTestRouter(s.T())
	donorID := newID[id.DonorID]()
	svc.EXPECT().DonorHistory(gomock.Any(), donorID).Return(nil, nil)

	rr := s.do(router, http.MethodGet, "/donors/"+donorID.String()+"/donations", nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"items":[],"count":0}`, rr.Body.String())
}

// =============================================================================
// Patients and hospitals
// =============================================================================

func (s *HandlerSuite) TestGetPatient() {
	s.Run("found", func() {
		router, svc := newTestRouter(s.T())
		patient, err := models.NewPatient(newID[id.PatientID](), "u-9", "Meera", models.BloodGroupBNeg, "Nagpur", "98200", "", s.now)
		s.Require().NoError(err)
		svc.EXPECT().GetPatient(gomock.Any(), patient.ID).Return(patient, nil)

		rr := s.do(router, http.MethodGet, "/patients/"+patient.ID.String(), nil)
		s.Equal(http.StatusOK, rr.Code)
		var got map[string]any
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Equal("B-", got["blood_group"])
	})

	s.Run("unknown patient maps to 404", func() {
		router, svc := newTestRouter(s.T())
		patientID := newID[id.PatientID]()
		svc.EXPECT().GetPatient(gomock.Any(), patientID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "patient not found"))

		rr := s.do(router, http.MethodGet, "/patients/"+patientID.String(), nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

func (s *HandlerSuite) TestUpdatePatient() {
	s.Run("record is forwarded", func() {
		router, svc := newTestRouter(s.T())
		patientID := newID[id.PatientID]()
		svc.EXPECT().UpdatePatient(gomock.Any(), patientID, service.UpdatePatientCommand{
			Name:             "Meera K",
			BloodGroup:       models.BloodGroupBNeg,
			Location:         "Nagpur",
			EmergencyContact: "98201",
			MedicalHistory:   "thalassemia",
		}).Return(&models.Patient{ID: patientID}, nil)

		rr := s.do(router, http.MethodPut, "/patients/"+patientID.String(), map[string]any{
			"name": "Meera K", "blood_group": "B-", "location": "Nagpur",
			"emergency_contact": "98201", "medical_history": "thalassemia",
		})
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("blank name is rejected", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodPut, "/patients/"+uuid.NewString(), map[string]any{
			"name": "  ", "blood_group": "B-",
		})
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *HandlerSuite) TestListHospitals() {
	s.Run("active only by default", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ListHospitals(gomock.Any(), false).
			Return([]*models.Hospital{{ID: newID[id.HospitalID](), Name: "City General", IsActive: true}}, nil)

		rr := s.do(router, http.MethodGet, "/hospitals", nil)
		s.Equal(http.StatusOK, rr.Code)
		var got ListResponse[models.Hospital]
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Equal(1, got.Count)
		s.Equal("City General", got.Items[0].Name)
	})

	s.Run("include inactive", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ListHospitals(gomock.Any(), true).Return(nil, nil)

		rr := s.do(router, http.MethodGet, "/hospitals?include_inactive=true", nil)
		s.Equal(http.StatusOK, rr.Code)
		s.JSONEq(`{"items":[],"count":0}`, rr.Body.String())
	})

	s.Run("malformed flag", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodGet, "/hospitals?include_inactive=maybe", nil)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *HandlerSuite) TestRegisterStaff() {
	router, svc := newTestRouter(s.T())
	hospitalID := newID[id.HospitalID]()
	svc.EXPECT().RegisterStaff(gomock.Any(), service.RegisterStaffCommand{
		HospitalID: hospitalID,
		Name:       "Dr. Mehta",
		Role:       "phlebotomist",
	}).Return(&models.HospitalStaff{ID: newID[id.StaffID](), HospitalID: hospitalID}, nil)

	rr := s.do(router, http.MethodPost, "/hospitals/"+hospitalID.String()+"/staff", map[string]any{
		"name": "Dr. Mehta", "role": "phlebotomist",
	})
	s.Equal(http.StatusCreated, rr.Code)
}

func (s *HandlerSuite) TestHospitalDonations() {
	hospitalID := newID[id.HospitalID]()
	path := "/hospitals/" + hospitalID.String() + "/donations"

	s.Run("defaults to scheduled", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ListScheduledDonations(gomock.Any(), hospitalID).Return(nil, nil)
		rr := s.do(router, http.MethodGet, path, nil)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("completed", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ListCompletedDonations(gomock.Any(), hospitalID).Return(nil, nil)
		rr := s.do(router, http.MethodGet, path+"?status=completed", nil)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("cancelled is not a queue", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodGet, path+"?status=cancelled", nil)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestGetInventory() {
	s.Run("all hospitals", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().GetInventory(gomock.Any(), id.HospitalID{}).
			Return([]models.InventoryRow{{
				BloodInventory: models.BloodInventory{BloodGroup: models.BloodGroupONeg, UnitsAvailable: 3},
				StockStatus:    models.StockStatusLow,
			}}, nil)
		rr := s.do(router, http.MethodGet, "/inventory", nil)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("bad hospital id", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodGet, "/inventory?hospital_id=nope", nil)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

// =============================================================================
// Blood requests
// =============================================================================

func (s *HandlerSuite) TestCreateRequest() {
	patientID := newID[id.PatientID]()
	hospitalID := newID[id.HospitalID]()
	body := map[string]any{
		"patient_id":     patientID.String(),
		"hospital_id":    hospitalID.String(),
		"blood_group":    "B-",
		"urgency":        "critical",
		"units_needed":   2,
		"medical_reason": "surgery",
		"required_by":    "2026-03-12",
	}

	s.Run("matched request returns both", func() {
		router, svc := newTestRouter(s.T())
		req := &models.BloodRequest{ID: newID[id.RequestID](), Status: models.RequestStatusPending}
		match := models.NewDonorMatch(newID[id.MatchID](), req.ID, newID[id.DonorID](), s.now)
		svc.EXPECT().CreateRequest(gomock.Any(), service.CreateRequestCommand{
			PatientID:     patientID,
			HospitalID:    hospitalID,
			BloodGroup:    models.BloodGroupBNeg,
			Urgency:       models.UrgencyCritical,
			UnitsNeeded:   2,
			MedicalReason: "surgery",
			RequiredBy:    time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		}).Return(req, match, nil)

		rr := s.do(router, http.MethodPost, "/requests", body)
		s.Equal(http.StatusCreated, rr.Code)
		var got map[string]map[string]any
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Equal(req.ID.String(), got["request"]["id"])
		s.Equal("matched", got["match"]["status"])
	})

	s.Run("unmatched request has null match", func() {
		router, svc := newTestRouter(s.T())
		req := &models.BloodRequest{ID: newID[id.RequestID](), Status: models.RequestStatusPending}
		svc.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(req, nil, nil)

		rr := s.do(router, http.MethodPost, "/requests", body)
		s.Equal(http.StatusCreated, rr.Code)
		var got map[string]any
		s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
		s.Nil(got["match"])
	})

	s.Run("zero units", func() {
		router, _ := newTestRouter(s.T())
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["units_needed"] = 0
		rr := s.do(router, http.MethodPost, "/requests", bad)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal("validation_error", s.decodeError(rr)["error"])
	})

	s.Run("units above the cap", func() {
		router, _ := newTestRouter(s.T())
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["units_needed"] = int64(math.MaxInt64)
		rr := s.do(router, http.MethodPost, "/requests", bad)
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal("validation_error", s.decodeError(rr)["error"])
	})

	s.Run("bad date", func() {
		router, _ := newTestRouter(s.T())
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["required_by"] = "12/03/2026"
		rr := s.do(router, http.MethodPost, "/requests", bad)
		s.Equal(http.StatusBadRequest, rr.Code)
	})

	s.Run("internal errors hide details", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).
			Return(nil, nil, dErrors.New(dErrors.CodeInternal, "pq: connection refused"))

		rr := s.do(router, http.MethodPost, "/requests", body)
		s.Equal(http.StatusInternalServerError, rr.Code)
		got := s.decodeError(rr)
		s.Equal("internal_error", got["error"])
		s.NotContains(got, "error_description")
	})
}

func (s *HandlerSuite) TestListRequestsFilter() {
	s.Run("all filters parsed", func() {
		router, svc := newTestRouter(s.T())
		hospitalID := newID[id.HospitalID]()
		svc.EXPECT().ListRequests(gomock.Any(), models.RequestFilter{
			Status:     models.RequestStatusPending,
			HospitalID: hospitalID,
			BloodGroup: models.BloodGroupAPos,
			Urgency:    models.UrgencyHigh,
		}).Return(nil, nil)

		rr := s.do(router, http.MethodGet,
			"/requests?status=pending&urgency=high&blood_group=A%2B&hospital_id="+hospitalID.String(), nil)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("unknown status", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodGet, "/requests?status=lost", nil)
		s.Equal(http.StatusBadRequest, rr.Code)
	})
}

func (s *HandlerSuite) TestPendingRouteIsNotAnID() {
	router, svc := newTestRouter(s.T())
	svc.EXPECT().ListPendingRequests(gomock.Any()).Return(nil, nil)

	rr := s.do(router, http.MethodGet, "/requests/pending", nil)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *HandlerSuite) TestCancelRequestConflict() {
	router, svc := newTestRouter(s.T())
	requestID := newID[id.RequestID]()
	svc.EXPECT().CancelRequest(gomock.Any(), requestID).
		Return(nil, dErrors.New(dErrors.CodeInvalidStateTransition, "request is fulfilled"))

	rr := s.do(router, http.MethodPost, "/requests/"+requestID.String()+"/cancel", nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invalid_state_transition")
}

// =============================================================================
// Matches and donations
// =============================================================================

func (s *HandlerSuite) TestMatchDecisions() {
	matchID := newID[id.MatchID]()

	s.Run("confirm without body", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ConfirmMatch(gomock.Any(), matchID, "").
			Return(&models.DonorMatch{ID: matchID, Status: models.MatchStatusConfirmed}, nil)
		rr := s.do(router, http.MethodPost, "/matches/"+matchID.String()+"/confirm", nil)
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("reject with notes", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().RejectMatch(gomock.Any(), matchID, "travelling").
			Return(&models.DonorMatch{ID: matchID, Status: models.MatchStatusRejected}, nil)
		rr := s.do(router, http.MethodPost, "/matches/"+matchID.String()+"/reject", map[string]any{"notes": " travelling "})
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("contact after rejection", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ContactMatch(gomock.Any(), matchID).
			Return(nil, dErrors.New(dErrors.CodeInvalidStateTransition, "match is rejected"))
		rr := s.do(router, http.MethodPost, "/matches/"+matchID.String()+"/contact", nil)
		s.Equal(http.StatusConflict, rr.Code)
	})
}

func (s *HandlerSuite) TestScheduleDonation() {
	matchID := newID[id.MatchID]()
	staffID := newID[id.StaffID]()

	s.Run("created", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ScheduleDonation(gomock.Any(), service.ScheduleDonationCommand{
			MatchID: matchID,
			Date:    time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			Units:   1,
			StaffID: staffID,
		}).Return(&models.DonationRecord{ID: newID[id.DonationID](), Status: models.DonationStatusScheduled}, nil)

		rr := s.do(router, http.MethodPost, "/donations", map[string]any{
			"match_id": matchID.String(), "date": "2026-03-11", "units": 1, "staff_id": staffID.String(),
		})
		s.Equal(http.StatusCreated, rr.Code)
	})

	s.Run("units above the cap never reach the service", func() {
		router, _ := newTestRouter(s.T())
		rr := s.do(router, http.MethodPost, "/donations", map[string]any{
			"match_id": matchID.String(), "date": "2026-03-11", "units": 101, "staff_id": staffID.String(),
		})
		s.Equal(http.StatusBadRequest, rr.Code)
		s.Equal("validation_error", s.decodeError(rr)["error"])
	})

	s.Run("retries exhausted surface as 503", func() {
		router, svc := newTestRouter(s.T())
		svc.EXPECT().ScheduleDonation(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConcurrencyConflict, "too much contention, retry"))

		rr := s.do(router, http.MethodPost, "/donations", map[string]any{
			"match_id": matchID.String(), "date": "2026-03-11", "units": 1, "staff_id": staffID.String(),
		})
		s.Equal(http.StatusServiceUnavailable, rr.Code)
	})
}

func (s *HandlerSuite) TestCompleteDonation() {
	router, svc := newTestRouter(s.T())
	donationID := newID[id.DonationID]()
	svc.EXPECT().CompleteDonation(gomock.Any(), donationID).
		Return(&models.DonationRecord{ID: donationID, Status: models.DonationStatusCompleted}, nil)

	rr := s.do(router, http.MethodPost, "/donations/"+donationID.String()+"/complete", nil)
	s.Equal(http.StatusOK, rr.Code)
	var got map[string]any
	s.Require().NoError(json.NewDecoder(rr.Body).Decode(&got))
	s.Equal("completed", got["status"])
}
