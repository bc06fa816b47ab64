package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/sentinel"
)

// PostgreSQL error codes the store translates into sentinel.ErrConflict.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// PostgresStore persists aggregates in PostgreSQL. Transactions run at READ
// COMMITTED and take row locks with SELECT ... FOR UPDATE.
type PostgresStore struct {
	db *sql.DB
	queries
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, queries: queries{db: db}}
}

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", mapError(err))
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(&postgresTx{queries: queries{db: sqlTx}}); err != nil {
		return mapError(err)
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

// mapError folds driver errors into the sentinel vocabulary. Errors from
// both pgx and lib/pq are recognized so the store works with either driver.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	code := ""
	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr):
		code = pgErr.Code
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	}
	switch code {
	case pgSerializationFailure, pgDeadlockDetected, pgUniqueViolation:
		return fmt.Errorf("%w: %w", sentinel.ErrConflict, err)
	}
	return err
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements Reader over either the pool or an open transaction.
type queries struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

const donorColumns = `d.id, d.user_ref, d.name, d.blood_group, d.location, d.weight_kg,
	d.is_available, d.last_donation_date, d.donation_count, d.created_at, d.updated_at`

func scanDonor(row rowScanner) (*models.Donor, error) {
	var d models.Donor
	var donorID uuid.UUID
	var last sql.NullTime
	if err := row.Scan(&donorID, &d.UserRef, &d.Name, &d.BloodGroup, &d.Location, &d.WeightKg,
		&d.IsAvailable, &last, &d.DonationCount, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ID = id.DonorID(donorID)
	if last.Valid {
		date := models.DateOf(last.Time)
		d.LastDonationDate = &date
	}
	return &d, nil
}

const requestColumns = `r.id, r.patient_id, r.hospital_id, r.blood_group, r.urgency, r.units_needed,
	r.medical_reason, r.required_by, r.status, r.created_at, r.updated_at`

func scanRequest(row rowScanner) (*models.BloodRequest, error) {
	var r models.BloodRequest
	var requestID, patientID, hospitalID uuid.UUID
	if err := row.Scan(&requestID, &patientID, &hospitalID, &r.BloodGroup, &r.Urgency, &r.UnitsNeeded,
		&r.MedicalReason, &r.RequiredBy, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ID = id.RequestID(requestID)
	r.PatientID = id.PatientID(patientID)
	r.HospitalID = id.HospitalID(hospitalID)
	r.RequiredBy = models.DateOf(r.RequiredBy)
	return &r, nil
}

const matchColumns = `m.id, m.request_id, m.donor_id, m.status, m.notes, m.matched_at, m.updated_at`

func scanMatch(row rowScanner, extra ...any) (*models.DonorMatch, error) {
	var m models.DonorMatch
	var matchID, requestID, donorID uuid.UUID
	dest := append([]any{&matchID, &requestID, &donorID, &m.Status, &m.Notes, &m.MatchedAt, &m.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	m.ID = id.MatchID(matchID)
	m.RequestID = id.RequestID(requestID)
	m.DonorID = id.DonorID(donorID)
	return &m, nil
}

const donationColumns = `dr.id, dr.match_id, dr.request_id, dr.donor_id, dr.hospital_id, dr.blood_group,
	dr.donation_date, dr.units, dr.status, dr.scheduled_by, dr.created_at, dr.updated_at`

func scanDonation(row rowScanner, extra ...any) (*models.DonationRecord, error) {
	var d models.DonationRecord
	var donationID, matchID, requestID, donorID, hospitalID, staffID uuid.UUID
	dest := append([]any{&donationID, &matchID, &requestID, &donorID, &hospitalID, &d.BloodGroup,
		&d.Date, &d.Units, &d.Status, &staffID, &d.CreatedAt, &d.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	d.ID = id.DonationID(donationID)
	d.MatchID = id.MatchID(matchID)
	d.RequestID = id.RequestID(requestID)
	d.DonorID = id.DonorID(donorID)
	d.HospitalID = id.HospitalID(hospitalID)
	d.ScheduledBy = id.StaffID(staffID)
	d.Date = models.DateOf(d.Date)
	return &d, nil
}

const inventoryColumns = `i.id, i.hospital_id, i.blood_group, i.units_available, i.units_reserved,
	i.low_stock_threshold, i.updated_at, i.updated_by`

func scanInventory(row rowScanner, extra ...any) (*models.BloodInventory, error) {
	var inv models.BloodInventory
	var inventoryID, hospitalID uuid.UUID
	dest := append([]any{&inventoryID, &hospitalID, &inv.BloodGroup, &inv.UnitsAvailable, &inv.UnitsReserved,
		&inv.LowStockThreshold, &inv.UpdatedAt, &inv.UpdatedBy}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	inv.ID = id.InventoryID(inventoryID)
	inv.HospitalID = id.HospitalID(hospitalID)
	return &inv, nil
}

func (q queries) GetDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error) {
	d, err := scanDonor(q.db.QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors d WHERE d.id = $1`, uuid.UUID(donorID)))
	if err != nil {
		return nil, fmt.Errorf("get donor: %w", mapError(err))
	}
	return d, nil
}

const patientColumns = `p.id, p.user_ref, p.name, p.blood_group, p.location, p.emergency_contact,
	p.medical_history, p.created_at, p.updated_at`

func scanPatient(row rowScanner) (*models.Patient, error) {
	var p models.Patient
	var pid uuid.UUID
	if err := row.Scan(&pid, &p.UserRef, &p.Name, &p.BloodGroup, &p.Location, &p.EmergencyContact,
		&p.MedicalHistory, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = id.PatientID(pid)
	return &p, nil
}

func (q queries) GetPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	p, err := scanPatient(q.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients p WHERE p.id = $1`, uuid.UUID(patientID)))
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", mapError(err))
	}
	return p, nil
}

func (q queries) GetHospital(ctx context.Context, hospitalID id.HospitalID) (*models.Hospital, error) {
	var h models.Hospital
	var hid uuid.UUID
	err := q.db.QueryRowContext(ctx, `
		SELECT id, name, location, contact, is_active, created_at
		FROM hospitals WHERE id = $1`, uuid.UUID(hospitalID)).
		Scan(&hid, &h.Name, &h.Location, &h.Contact, &h.IsActive, &h.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get hospital: %w", mapError(err))
	}
	h.ID = id.HospitalID(hid)
	return &h, nil
}

func (q queries) ListHospitals(ctx context.Context, activeOnly bool) ([]*models.Hospital, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, location, contact, is_active, created_at
		FROM hospitals WHERE is_active OR NOT $1
		ORDER BY name, id`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list hospitals: %w", mapError(err))
	}
	defer rows.Close()

	out := make([]*models.Hospital, 0)
	for rows.Next() {
		var h models.Hospital
		var hid uuid.UUID
		if err := rows.Scan(&hid, &h.Name, &h.Location, &h.Contact, &h.IsActive, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hospital: %w", err)
		}
		h.ID = id.HospitalID(hid)
		out = append(out, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hospitals: %w", mapError(err))
	}
	return out, nil
}

func (q queries) GetStaff(ctx context.Context, staffID id.StaffID) (*models.HospitalStaff, error) {
	var st models.HospitalStaff
	var sid, hid uuid.UUID
	err := q.db.QueryRowContext(ctx, `
		SELECT id, hospital_id, name, role, created_at
		FROM hospital_staff WHERE id = $1`, uuid.UUID(staffID)).
		Scan(&sid, &hid, &st.Name, &st.Role, &st.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", mapError(err))
	}
	st.ID = id.StaffID(sid)
	st.HospitalID = id.HospitalID(hid)
	return &st, nil
}

func (q queries) GetRequest(ctx context.Context, requestID id.RequestID) (*models.BloodRequest, error) {
	r, err := scanRequest(q.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM blood_requests r WHERE r.id = $1`, uuid.UUID(requestID)))
	if err != nil {
		return nil, fmt.Errorf("get request: %w", mapError(err))
	}
	return r, nil
}

func (q queries) GetMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error) {
	m, err := scanMatch(q.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM donor_matches m WHERE m.id = $1`, uuid.UUID(matchID)))
	if err != nil {
		return nil, fmt.Errorf("get match: %w", mapError(err))
	}
	return m, nil
}

func (q queries) GetDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error) {
	d, err := scanDonation(q.db.QueryRowContext(ctx,
		`SELECT `+donationColumns+` FROM donation_records dr WHERE dr.id = $1`, uuid.UUID(donationID)))
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", mapError(err))
	}
	return d, nil
}

// where accumulates positional predicates.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (q queries) ListRequests(ctx context.Context, filter models.RequestFilter) ([]*models.BloodRequest, error) {
	var w where
	if filter.Status != "" {
		w.add("r.status = ?", string(filter.Status))
	}
	if !filter.HospitalID.IsNil() {
		w.add("r.hospital_id = ?", uuid.UUID(filter.HospitalID))
	}
	if filter.BloodGroup != "" {
		w.add("r.blood_group = ?", string(filter.BloodGroup))
	}
	if filter.Urgency != "" {
		w.add("r.urgency = ?", string(filter.Urgency))
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM blood_requests r`+w.sql()+` ORDER BY r.created_at DESC, r.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", mapError(err))
	}
	defer rows.Close()

	out := make([]*models.BloodRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: %w", mapError(err))
	}
	return out, nil
}

func (q queries) ActiveMatchForRequest(ctx context.Context, requestID id.RequestID) (*models.DonorMatch, error) {
	m, err := scanMatch(q.db.QueryRowContext(ctx, `
		SELECT `+matchColumns+` FROM donor_matches m
		WHERE m.request_id = $1 AND m.status IN ('matched', 'contacted', 'confirmed')`,
		uuid.UUID(requestID)))
	if err != nil {
		return nil, fmt.Errorf("active match for request: %w", mapError(err))
	}
	return m, nil
}

func statusStrings(statuses []models.MatchStatus) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}

func (q queries) ListMatchViews(ctx context.Context, mq MatchQuery) ([]models.MatchView, error) {
	var w where
	if !mq.RequestID.IsNil() {
		w.add("m.request_id = ?", uuid.UUID(mq.RequestID))
	}
	if !mq.DonorID.IsNil() {
		w.add("m.donor_id = ?", uuid.UUID(mq.DonorID))
	}
	if !mq.HospitalID.IsNil() {
		w.add("r.hospital_id = ?", uuid.UUID(mq.HospitalID))
	}
	if len(mq.Statuses) > 0 {
		w.add("m.status = ANY(?)", pq.Array(statusStrings(mq.Statuses)))
	}
	if mq.PendingOnly {
		w.add("r.status = ?", string(models.RequestStatusPending))
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+matchColumns+`, d.name, r.hospital_id, h.name, r.blood_group, r.urgency, r.units_needed, r.required_by
		FROM donor_matches m
		JOIN blood_requests r ON r.id = m.request_id
		JOIN donors d ON d.id = m.donor_id
		JOIN hospitals h ON h.id = r.hospital_id`+w.sql()+`
		ORDER BY m.matched_at, m.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", mapError(err))
	}
	defer rows.Close()

	out := make([]models.MatchView, 0)
	for rows.Next() {
		var v models.MatchView
		var hospitalID uuid.UUID
		m, err := scanMatch(rows, &v.DonorName, &hospitalID, &v.HospitalName, &v.BloodGroup, &v.Urgency, &v.UnitsNeeded, &v.RequiredBy)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		v.DonorMatch = *m
		v.HospitalID = id.HospitalID(hospitalID)
		v.RequiredBy = models.DateOf(v.RequiredBy)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", mapError(err))
	}
	return out, nil
}

func (q queries) queryDonors(ctx context.Context, op, query string, args ...any) ([]*models.Donor, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer rows.Close()

	out := make([]*models.Donor, 0)
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donor: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return out, nil
}

func (q queries) ListDonorsByGroup(ctx context.Context, group models.BloodGroup) ([]*models.Donor, error) {
	return q.queryDonors(ctx, "list donors by group",
		`SELECT `+donorColumns+` FROM donors d WHERE d.blood_group = $1 ORDER BY d.id`, string(group))
}

const holdsActiveMatch = `EXISTS (
	SELECT 1 FROM donor_matches am
	JOIN blood_requests ar ON ar.id = am.request_id
	WHERE am.donor_id = d.id
	  AND am.status IN ('matched', 'contacted', 'confirmed')
	  AND ar.status = 'pending')`

func (q queries) DonorHoldsActiveMatch(ctx context.Context, donorID id.DonorID) (bool, error) {
	var held bool
	err := q.db.QueryRowContext(ctx,
		`SELECT `+holdsActiveMatch+` FROM donors d WHERE d.id = $1`, uuid.UUID(donorID)).Scan(&held)
	if err != nil {
		return false, fmt.Errorf("donor holds active match: %w", mapError(err))
	}
	return held, nil
}

func (q queries) ListDonationViews(ctx context.Context, dq DonationQuery) ([]models.DonationView, error) {
	var w where
	if !dq.HospitalID.IsNil() {
		w.add("dr.hospital_id = ?", uuid.UUID(dq.HospitalID))
	}
	if !dq.DonorID.IsNil() {
		w.add("dr.donor_id = ?", uuid.UUID(dq.DonorID))
	}
	if dq.Status != "" {
		w.add("dr.status = ?", string(dq.Status))
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+donationColumns+`, d.name, h.name
		FROM donation_records dr
		JOIN donors d ON d.id = dr.donor_id
		JOIN hospitals h ON h.id = dr.hospital_id`+w.sql()+`
		ORDER BY dr.donation_date, dr.created_at, dr.id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", mapError(err))
	}
	defer rows.Close()

	out := make([]models.DonationView, 0)
	for rows.Next() {
		var v models.DonationView
		d, err := scanDonation(rows, &v.DonorName, &v.HospitalName)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		v.DonationRecord = *d
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list donations: %w", mapError(err))
	}
	return out, nil
}

func (q queries) ListInventory(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, error) {
	var w where
	if !hospitalID.IsNil() {
		w.add("i.hospital_id = ?", uuid.UUID(hospitalID))
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+inventoryColumns+`, h.name
		FROM blood_inventory i
		JOIN hospitals h ON h.id = i.hospital_id`+w.sql()+`
		ORDER BY h.name, i.hospital_id, i.blood_group`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", mapError(err))
	}
	defer rows.Close()

	out := make([]models.InventoryRow, 0)
	for rows.Next() {
		var name string
		inv, err := scanInventory(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, models.NewInventoryRow(inv, name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", mapError(err))
	}
	return out, nil
}

// postgresTx adds locking reads and writes to queries bound to a *sql.Tx.
type postgresTx struct {
	queries
}

func (tx *postgresTx) LockRequest(ctx context.Context, requestID id.RequestID) (*models.BloodRequest, error) {
	r, err := scanRequest(tx.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM blood_requests r WHERE r.id = $1 FOR UPDATE`, uuid.UUID(requestID)))
	if err != nil {
		return nil, fmt.Errorf("lock request: %w", mapError(err))
	}
	return r, nil
}

func (tx *postgresTx) LockMatch(ctx context.Context, matchID id.MatchID) (*models.DonorMatch, error) {
	m, err := scanMatch(tx.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM donor_matches m WHERE m.id = $1 FOR UPDATE`, uuid.UUID(matchID)))
	if err != nil {
		return nil, fmt.Errorf("lock match: %w", mapError(err))
	}
	return m, nil
}

func (tx *postgresTx) LockDonation(ctx context.Context, donationID id.DonationID) (*models.DonationRecord, error) {
	d, err := scanDonation(tx.db.QueryRowContext(ctx,
		`SELECT `+donationColumns+` FROM donation_records dr WHERE dr.id = $1 FOR UPDATE`, uuid.UUID(donationID)))
	if err != nil {
		return nil, fmt.Errorf("lock donation: %w", mapError(err))
	}
	return d, nil
}

func (tx *postgresTx) LockDonor(ctx context.Context, donorID id.DonorID) (*models.Donor, error) {
	d, err := scanDonor(tx.db.QueryRowContext(ctx,
		`SELECT `+donorColumns+` FROM donors d WHERE d.id = $1 FOR UPDATE`, uuid.UUID(donorID)))
	if err != nil {
		return nil, fmt.Errorf("lock donor: %w", mapError(err))
	}
	return d, nil
}

func (tx *postgresTx) LockPatient(ctx context.Context, patientID id.PatientID) (*models.Patient, error) {
	p, err := scanPatient(tx.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients p WHERE p.id = $1 FOR UPDATE`, uuid.UUID(patientID)))
	if err != nil {
		return nil, fmt.Errorf("lock patient: %w", mapError(err))
	}
	return p, nil
}

func (tx *postgresTx) LockOrCreateInventory(ctx context.Context, hospitalID id.HospitalID, group models.BloodGroup, threshold int, now time.Time) (*models.BloodInventory, error) {
	_, err := tx.db.ExecContext(ctx, `
		INSERT INTO blood_inventory (id, hospital_id, blood_group, units_available, units_reserved, low_stock_threshold, updated_at, updated_by)
		VALUES ($1, $2, $3, 0, 0, $4, $5, '')
		ON CONFLICT (hospital_id, blood_group) DO NOTHING`,
		uuid.New(), uuid.UUID(hospitalID), string(group), threshold, now)
	if err != nil {
		return nil, fmt.Errorf("create inventory: %w", mapError(err))
	}
	inv, err := scanInventory(tx.db.QueryRowContext(ctx, `
		SELECT `+inventoryColumns+` FROM blood_inventory i
		WHERE i.hospital_id = $1 AND i.blood_group = $2 FOR UPDATE`,
		uuid.UUID(hospitalID), string(group)))
	if err != nil {
		return nil, fmt.Errorf("lock inventory: %w", mapError(err))
	}
	return inv, nil
}

func donorIDStrings(ids []id.DonorID) []string {
	out := make([]string, len(ids))
	for i, d := range ids {
		out[i] = d.String()
	}
	return out
}

func (tx *postgresTx) ListCandidates(ctx context.Context, group models.BloodGroup, exclude []id.DonorID) ([]*models.Donor, error) {
	return tx.queryDonors(ctx, "list candidates", `
		SELECT `+donorColumns+` FROM donors d
		WHERE d.blood_group = $1
		  AND NOT (d.id = ANY($2::uuid[]))
		  AND NOT `+holdsActiveMatch+`
		ORDER BY d.id`,
		string(group), pq.Array(donorIDStrings(exclude)))
}

func (tx *postgresTx) RejectedDonors(ctx context.Context, requestID id.RequestID) ([]id.DonorID, error) {
	rows, err := tx.db.QueryContext(ctx, `
		SELECT DISTINCT donor_id FROM donor_matches
		WHERE request_id = $1 AND status = 'rejected'`, uuid.UUID(requestID))
	if err != nil {
		return nil, fmt.Errorf("rejected donors: %w", mapError(err))
	}
	defer rows.Close()

	out := make([]id.DonorID, 0)
	for rows.Next() {
		var donorID uuid.UUID
		if err := rows.Scan(&donorID); err != nil {
			return nil, fmt.Errorf("scan rejected donor: %w", err)
		}
		out = append(out, id.DonorID(donorID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rejected donors: %w", mapError(err))
	}
	return out, nil
}

func (tx *postgresTx) DonationsForMatch(ctx context.Context, matchID id.MatchID) ([]*models.DonationRecord, error) {
	rows, err := tx.db.QueryContext(ctx,
		`SELECT `+donationColumns+` FROM donation_records dr WHERE dr.match_id = $1 FOR UPDATE`, uuid.UUID(matchID))
	if err != nil {
		return nil, fmt.Errorf("donations for match: %w", mapError(err))
	}
	defer rows.Close()

	out := make([]*models.DonationRecord, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("donations for match: %w", mapError(err))
	}
	return out, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// exec runs a write and reports sentinel.ErrNotFound when no row changed.
func (tx *postgresTx) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := tx.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	return nil
}

func (tx *postgresTx) CreateDonor(ctx context.Context, d *models.Donor) error {
	return tx.exec(ctx, "create donor", `
		INSERT INTO donors (id, user_ref, name, blood_group, location, weight_kg, is_available,
			last_donation_date, donation_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.UUID(d.ID), d.UserRef, d.Name, string(d.BloodGroup), d.Location, d.WeightKg, d.IsAvailable,
		nullDate(d.LastDonationDate), d.DonationCount, d.CreatedAt, d.UpdatedAt)
}

func (tx *postgresTx) UpdateDonor(ctx context.Context, d *models.Donor) error {
	return tx.exec(ctx, "update donor", `
		UPDATE donors SET name = $2, blood_group = $3, location = $4, weight_kg = $5, is_available = $6,
			last_donation_date = $7, donation_count = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(d.ID), d.Name, string(d.BloodGroup), d.Location, d.WeightKg, d.IsAvailable,
		nullDate(d.LastDonationDate), d.DonationCount, d.UpdatedAt)
}

func (tx *postgresTx) CreatePatient(ctx context.Context, p *models.Patient) error {
	return tx.exec(ctx, "create patient", `
		INSERT INTO patients (id, user_ref, name, blood_group, location, emergency_contact, medical_history,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(p.ID), p.UserRef, p.Name, string(p.BloodGroup), p.Location, p.EmergencyContact, p.MedicalHistory,
		p.CreatedAt, p.UpdatedAt)
}

func (tx *postgresTx) UpdatePatient(ctx context.Context, p *models.Patient) error {
	return tx.exec(ctx, "update patient", `
		UPDATE patients SET name = $2, blood_group = $3, location = $4, emergency_contact = $5,
			medical_history = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(p.ID), p.Name, string(p.BloodGroup), p.Location, p.EmergencyContact, p.MedicalHistory, p.UpdatedAt)
}

func (tx *postgresTx) CreateHospital(ctx context.Context, h *models.Hospital) error {
	return tx.exec(ctx, "create hospital", `
		INSERT INTO hospitals (id, name, location, contact, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(h.ID), h.Name, h.Location, h.Contact, h.IsActive, h.CreatedAt)
}

func (tx *postgresTx) CreateStaff(ctx context.Context, st *models.HospitalStaff) error {
	return tx.exec(ctx, "create staff", `
		INSERT INTO hospital_staff (id, hospital_id, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(st.ID), uuid.UUID(st.HospitalID), st.Name, st.Role, st.CreatedAt)
}

func (tx *postgresTx) CreateRequest(ctx context.Context, r *models.BloodRequest) error {
	return tx.exec(ctx, "create request", `
		INSERT INTO blood_requests (id, patient_id, hospital_id, blood_group, urgency, units_needed,
			medical_reason, required_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.UUID(r.ID), uuid.UUID(r.PatientID), uuid.UUID(r.HospitalID), string(r.BloodGroup), string(r.Urgency),
		r.UnitsNeeded, r.MedicalReason, r.RequiredBy, string(r.Status), r.CreatedAt, r.UpdatedAt)
}

func (tx *postgresTx) UpdateRequest(ctx context.Context, r *models.BloodRequest) error {
	return tx.exec(ctx, "update request",
		`UPDATE blood_requests SET status = $2, updated_at = $3 WHERE id = $1`,
		uuid.UUID(r.ID), string(r.Status), r.UpdatedAt)
}

func (tx *postgresTx) CreateMatch(ctx context.Context, m *models.DonorMatch) error {
	return tx.exec(ctx, "create match", `
		INSERT INTO donor_matches (id, request_id, donor_id, status, notes, matched_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(m.ID), uuid.UUID(m.RequestID), uuid.UUID(m.DonorID), string(m.Status), m.Notes, m.MatchedAt, m.UpdatedAt)
}

func (tx *postgresTx) UpdateMatch(ctx context.Context, m *models.DonorMatch) error {
	return tx.exec(ctx, "update match",
		`UPDATE donor_matches SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		uuid.UUID(m.ID), string(m.Status), m.Notes, m.UpdatedAt)
}

func (tx *postgresTx) CreateDonation(ctx context.Context, d *models.DonationRecord) error {
	return tx.exec(ctx, "create donation", `
		INSERT INTO donation_records (id, match_id, request_id, donor_id, hospital_id, blood_group,
			donation_date, units, status, scheduled_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(d.ID), uuid.UUID(d.MatchID), uuid.UUID(d.RequestID), uuid.UUID(d.DonorID), uuid.UUID(d.HospitalID),
		string(d.BloodGroup), d.Date, d.Units, string(d.Status), uuid.UUID(d.ScheduledBy), d.CreatedAt, d.UpdatedAt)
}

func (tx *postgresTx) UpdateDonation(ctx context.Context, d *models.DonationRecord) error {
	return tx.exec(ctx, "update donation",
		`UPDATE donation_records SET status = $2, updated_at = $3 WHERE id = $1`,
		uuid.UUID(d.ID), string(d.Status), d.UpdatedAt)
}

func (tx *postgresTx) UpdateInventory(ctx context.Context, inv *models.BloodInventory) error {
	return tx.exec(ctx, "update inventory", `
		UPDATE blood_inventory SET units_available = $2, units_reserved = $3, updated_at = $4, updated_by = $5
		WHERE id = $1`,
		uuid.UUID(inv.ID), inv.UnitsAvailable, inv.UnitsReserved, inv.UpdatedAt, inv.UpdatedBy)
}
