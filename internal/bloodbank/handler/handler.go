// Package handler exposes the blood bank engine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/service"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/httputil"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

// Service is the engine surface the handlers call.
type Service interface {
	RegisterDonor(ctx context.Context, cmd service.RegisterDonorCommand) (*models.Donor, error)
	GetDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error)
	UpdateDonorProfile(ctx context.Context, donorID id.DonorID, cmd service.UpdateDonorProfileCommand) (*models.Donor, error)
	SetDonorAvailability(ctx context.Context, donorID id.DonorID, available bool) (*models.Donor, error)
	ListMatchesForDonor(ctx context.Context, donorID id.DonorID) ([]models.MatchView, error)
	DonorHistory(ctx context.Context, donorID id.DonorID) ([]models.DonationView, error)
	ListAvailableDonors(ctx context.Context, group models.BloodGroup) ([]models.DonorView, error)

	RegisterPatient(ctx context.Context, cmd service.RegisterPatientCommand) (*models.Patient, error)
	GetPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error)
	UpdatePatient(ctx context.Context, patientID id.PatientID, cmd service.UpdatePatientCommand) (*models.Patient, error)
	RegisterHospital(ctx context.Context, cmd service.RegisterHospitalCommand) (*models.Hospital, error)
	ListHospitals(ctx context.Context, includeInactive bool) ([]*models.Hospital, error)
	RegisterStaff(ctx context.Context, cmd service.RegisterStaffCommand) (*models.HospitalStaff, error)
	ListConfirmedMatchesForHospital(ctx context.Context, hospitalID id.HospitalID) ([]models.MatchView, error)
	ListScheduledDonations(ctx context.Context, hospitalID id.HospitalID) ([]models.DonationView, error)
	ListCompletedDonations(ctx context.Context, hospitalID id.HospitalID) ([]models.DonationView, error)
	GetInventory(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, error)

	CreateRequest(ctx context.Context, cmd service.CreateRequestCommand) (*models.BloodRequest, *models.DonorMatch, error)
	ListRequests(ctx context.Context, filter models.RequestFilter) ([]models.RequestView, error)
	ListPendingRequests(ctx context.Context) ([]models.RequestView, error)
	GetRequest(ctx context.Context, requestID id.RequestID) (*models.RequestView, error)
	ListMatchesForRequest(ctx context.Context, requestID id.RequestID) ([]models.MatchView, error)
	CancelRequest(ctx context.Context, requestID id.RequestID) (*models.BloodRequest, error)

	ContactMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error)
	ConfirmMatch(ctx context.Context, matchID id.MatchID, notes string) (*models.DonorMatch, error)
	RejectMatch(ctx context.Context, matchID id.MatchID, notes string) (*models.DonorMatch, error)

	ScheduleDonation(ctx context.Context, cmd service.ScheduleDonationCommand) (*models.DonationRecord, error)
	CompleteDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error)
	CancelDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error)
}

// Handler wires blood bank endpoints to the engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/donors", func(r chi.Router) {
		r.Post("/", h.HandleRegisterDonor)
		r.Get("/", h.HandleListAvailableDonors)
		r.Get("/{id}", h.HandleGetDonor)
		r.Put("/{id}", h.HandleUpdateDonorProfile)
		r.Put("/{id}/availability", h.HandleSetAvailability)
		r.Get("/{id}/matches", h.HandleListDonorMatches)
		r.Get("/{id}/donations", h.HandleDonorHistory)
	})
	r.Route("/patients", func(r chi.Router) {
		r.Post("/", h.HandleRegisterPatient)
		r.Get("/{id}", h.HandleGetPatient)
		r.Put("/{id}", h.HandleUpdatePatient)
	})
	r.Route("/hospitals", func(r chi.Router) {
		r.Post("/", h.HandleRegisterHospital)
		r.Get("/", h.HandleListHospitals)
		r.Post("/{id}/staff", h.HandleRegisterStaff)
		r.Get("/{id}/matches/confirmed", h.HandleListConfirmedMatches)
		r.Get("/{id}/donations", h.HandleListHospitalDonations)
	})
	r.Get("/inventory", h.HandleGetInventory)
	r.Route("/requests", func(r chi.Router) {
		r.Post("/", h.HandleCreateRequest)
		r.Get("/", h.HandleListRequests)
		r.Get("/pending", h.HandleListPendingRequests)
		r.Get("/{id}", h.HandleGetRequest)
		r.Get("/{id}/matches", h.HandleListRequestMatches)
		r.Post("/{id}/cancel", h.HandleCancelRequest)
	})
	r.Route("/matches/{id}", func(r chi.Router) {
		r.Post("/contact", h.HandleContactMatch)
		r.Post("/confirm", h.HandleConfirmMatch)
		r.Post("/reject", h.HandleRejectMatch)
	})
	r.Route("/donations", func(r chi.Router) {
		r.Post("/", h.HandleScheduleDonation)
		r.Post("/{id}/complete", h.HandleCompleteDonation)
		r.Post("/{id}/cancel", h.HandleCancelDonation)
	})
}

// fail logs and writes err. Caller mistakes log at warn, everything else at
// error.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	if dErrors.ToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func pathParam[T any](r *http.Request, parse func(string) (T, error)) (T, error) {
	return parse(chi.URLParam(r, "id"))
}

// queryBloodGroup reads a blood group from the query string. An unescaped
// "+" arrives as a space.
func queryBloodGroup(r *http.Request) string {
	return strings.TrimSpace(strings.ReplaceAll(r.URL.Query().Get("blood_group"), " ", "+"))
}

// =============================================================================
// Donors
// =============================================================================

func (h *Handler) HandleRegisterDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterDonorRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	donor, err := h.service.RegisterDonor(ctx, service.RegisterDonorCommand{
		UserRef:    req.UserRef,
		Name:       req.Name,
		BloodGroup: req.bloodGroup,
		Location:   req.Location,
		WeightKg:   req.WeightKg,
	})
	if err != nil {
		h.fail(ctx, w, "failed to register donor", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, donor)
}

func (h *Handler) HandleGetDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID, err := pathParam(r, id.ParseDonorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	donor, err := h.service.GetDonor(ctx, donorID)
	if err != nil {
		h.fail(ctx, w, "failed to get donor", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donor)
}

func (h *Handler) HandleUpdateDonorProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID, err := pathParam(r, id.ParseDonorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateDonorProfileRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	donor, err := h.service.UpdateDonorProfile(ctx, donorID, service.UpdateDonorProfileCommand{
		Name:       req.Name,
		BloodGroup: req.bloodGroup,
		Location:   req.Location,
		WeightKg:   req.WeightKg,
	})
	if err != nil {
		h.fail(ctx, w, "failed to update donor profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donor)
}

func (h *Handler) HandleSetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID, err := pathParam(r, id.ParseDonorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetAvailabilityRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	donor, err := h.service.SetDonorAvailability(ctx, donorID, *req.Available)
	if err != nil {
		h.fail(ctx, w, "failed to set donor availability", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donor)
}

func (h *Handler) HandleListDonorMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID, err := pathParam(r, id.ParseDonorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.ListMatchesForDonor(ctx, donorID)
	if err != nil {
		h.fail(ctx, w, "failed to list donor matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

func (h *Handler) HandleDonorHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID, err := pathParam(r, id.ParseDonorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.DonorHistory(ctx, donorID)
	if err != nil {
		h.fail(ctx, w, "failed to load donor history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

func (h *Handler) HandleListAvailableDonors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	group, err := models.ParseBloodGroup(queryBloodGroup(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.ListAvailableDonors(ctx, group)
	if err != nil {
		h.fail(ctx, w, "failed to search donors", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

// =============================================================================
// Patients and hospitals
// =============================================================================

func (h *Handler) HandleRegisterPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterPatientRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	patient, err := h.service.RegisterPatient(ctx, service.RegisterPatientCommand{
		UserRef:          req.UserRef,
		Name:             req.Name,
		BloodGroup:       req.bloodGroup,
		Location:         req.Location,
		EmergencyContact: req.EmergencyContact,
		MedicalHistory:   req.MedicalHistory,
	})
	if err != nil {
		h.fail(ctx, w, "failed to register patient", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, patient)
}

func (h *Handler) HandleGetPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientID, err := pathParam(r, id.ParsePatientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patient, err := h.service.GetPatient(ctx, patientID)
	if err != nil {
		h.fail(ctx, w, "failed to get patient", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}

func (h *Handler) HandleUpdatePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientID, err := pathParam(r, id.ParsePatientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdatePatientRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	patient, err := h.service.UpdatePatient(ctx, patientID, service.UpdatePatientCommand{
		Name:             req.Name,
		BloodGroup:       req.bloodGroup,
		Location:         req.Location,
		EmergencyContact: req.EmergencyContact,
		MedicalHistory:   req.MedicalHistory,
	})
	if err != nil {
		h.fail(ctx, w, "failed to update patient", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}

// HandleListHospitals lists active hospitals unless include_inactive=true.
func (h *Handler) HandleListHospitals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	includeInactive := false
	if raw := r.URL.Query().Get("include_inactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "include_inactive must be true or false"))
			return
		}
		includeInactive = v
	}
	hospitals, err := h.service.ListHospitals(ctx, includeInactive)
	if err != nil {
		h.fail(ctx, w, "failed to list hospitals", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(hospitals))
}

func (h *Handler) HandleRegisterHospital(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[RegisterHospitalRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	hospital, err := h.service.RegisterHospital(ctx, service.RegisterHospitalCommand{
		Name:     req.Name,
		Location: req.Location,
		Contact:  req.Contact,
	})
	if err != nil {
		h.fail(ctx, w, "failed to register hospital", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, hospital)
}

func (h *Handler) HandleRegisterStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hospitalID, err := pathParam(r, id.ParseHospitalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RegisterStaffRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	staff, err := h.service.RegisterStaff(ctx, service.RegisterStaffCommand{
		HospitalID: hospitalID,
		Name:       req.Name,
		Role:       req.Role,
	})
	if err != nil {
		h.fail(ctx, w, "failed to register staff", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, staff)
}

func (h *Handler) HandleListConfirmedMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hospitalID, err := pathParam(r, id.ParseHospitalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.ListConfirmedMatchesForHospital(ctx, hospitalID)
	if err != nil {
		h.fail(ctx, w, "failed to list confirmed matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

func (h *Handler) HandleListHospitalDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hospitalID, err := pathParam(r, id.ParseHospitalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status := models.DonationStatusScheduled
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status, err = models.ParseDonationStatus(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	var views []models.DonationView
	switch status {
	case models.DonationStatusScheduled:
		views, err = h.service.ListScheduledDonations(ctx, hospitalID)
	case models.DonationStatusCompleted:
		views, err = h.service.ListCompletedDonations(ctx, hospitalID)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "status must be scheduled or completed"))
		return
	}
	if err != nil {
		h.fail(ctx, w, "failed to list hospital donations", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

func (h *Handler) HandleGetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var hospitalID id.HospitalID
	if raw := r.URL.Query().Get("hospital_id"); raw != "" {
		parsed, err := id.ParseHospitalID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		hospitalID = parsed
	}
	rows, err := h.service.GetInventory(ctx, hospitalID)
	if err != nil {
		h.fail(ctx, w, "failed to load inventory", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(rows))
}

// =============================================================================
// Blood requests
// =============================================================================

func (h *Handler) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	req, ok := httputil.DecodeAndPrepare[CreateBloodRequestRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	created, match, err := h.service.CreateRequest(ctx, service.CreateRequestCommand{
		PatientID:     req.patientID,
		HospitalID:    req.hospitalID,
		BloodGroup:    req.bloodGroup,
		Urgency:       req.urgency,
		UnitsNeeded:   req.UnitsNeeded,
		MedicalReason: req.MedicalReason,
		RequiredBy:    req.requiredBy,
	})
	if err != nil {
		h.fail(ctx, w, "failed to create blood request", err)
		return
	}
	h.logger.InfoContext(ctx, "blood request accepted",
		"request_id", requestcontext.RequestID(ctx),
		"blood_request_id", created.ID,
		"matched", match != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, CreateRequestResponse{Request: created, Match: match})
}

func (h *Handler) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseRequestFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.ListRequests(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "failed to list requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

func parseRequestFilter(r *http.Request) (models.RequestFilter, error) {
	q := r.URL.Query()
	var filter models.RequestFilter
	var err error
	if raw := q.Get("status"); raw != "" {
		if filter.Status, err = models.ParseRequestStatus(raw); err != nil {
			return filter, err
		}
	}
	if raw := q.Get("hospital_id"); raw != "" {
		if filter.HospitalID, err = id.ParseHospitalID(raw); err != nil {
			return filter, err
		}
	}
	if raw := queryBloodGroup(r); raw != "" {
		if filter.BloodGroup, err = models.ParseBloodGroup(raw); err != nil {
			return filter, err
		}
	}
	if raw := q.Get("urgency"); raw != "" {
		if filter.Urgency, err = models.ParseUrgency(raw); err != nil {
			return filter, err
		}
	}
	return filter, nil
}

func (h *Handler) HandleListPendingRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	views, err := h.service.ListPendingRequests(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list pending requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

func (h *Handler) HandleGetRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, err := pathParam(r, id.ParseRequestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.GetRequest(ctx, requestID)
	if err != nil {
		h.fail(ctx, w, "failed to get request", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) HandleListRequestMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, err := pathParam(r, id.ParseRequestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.ListMatchesForRequest(ctx, requestID)
	if err != nil {
		h.fail(ctx, w, "failed to list request matches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listOf(views))
}

func (h *Handler) HandleCancelRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, err := pathParam(r, id.ParseRequestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := h.service.CancelRequest(ctx, requestID)
	if err != nil {
		h.fail(ctx, w, "failed to cancel request", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, req)
}

// =============================================================================
// Matches
// =============================================================================

func (h *Handler) HandleContactMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	matchID, err := pathParam(r, id.ParseMatchID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.ContactMatch(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "failed to contact match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) HandleConfirmMatch(w http.ResponseWriter, r *http.Request) {
	h.handleMatchDecision(w, r, "failed to confirm match", h.service.ConfirmMatch)
}

func (h *Handler) HandleRejectMatch(w http.ResponseWriter, r *http.Request) {
	h.handleMatchDecision(w, r, "failed to reject match", h.service.RejectMatch)
}

func (h *Handler) handleMatchDecision(w http.ResponseWriter, r *http.Request, failMsg string, decide func(context.Context, id.MatchID, string) (*models.DonorMatch, error)) {
	ctx := r.Context()
	matchID, err := pathParam(r, id.ParseMatchID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	notes := ""
	if r.ContentLength != 0 {
		req, ok := httputil.DecodeAndPrepare[MatchNotesRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		notes = req.Notes
	}
	m, err := decide(ctx, matchID, notes)
	if err != nil {
		h.fail(ctx, w, failMsg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

// =============================================================================
// Donations
// =============================================================================

func (h *Handler) HandleScheduleDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ScheduleDonationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	d, err := h.service.ScheduleDonation(ctx, service.ScheduleDonationCommand{
		MatchID: req.matchID,
		Date:    req.date,
		Units:   req.Units,
		StaffID: req.staffID,
	})
	if err != nil {
		h.fail(ctx, w, "failed to schedule donation", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) HandleCompleteDonation(w http.ResponseWriter, r *http.Request) {
	h.handleDonationAction(w, r, "failed to complete donation", h.service.CompleteDonation)
}

func (h *Handler) HandleCancelDonation(w http.ResponseWriter, r *http.Request) {
	h.handleDonationAction(w, r, "failed to cancel donation", h.service.CancelDonation)
}

func (h *Handler) handleDonationAction(w http.ResponseWriter, r *http.Request, failMsg string, act func(context.Context, id.DonationID) (*models.DonationRecord, error)) {
	ctx := r.Context()
	donationID, err := pathParam(r, id.ParseDonationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := act(ctx, donationID)
	if err != nil {
		h.fail(ctx, w, failMsg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}
