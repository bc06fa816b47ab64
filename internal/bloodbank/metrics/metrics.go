package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for the matching and donation engine.
type Metrics struct {
	RequestsCreated   prometheus.Counter
	MatchesCreated    prometheus.Counter
	NoEligibleDonor   prometheus.Counter
	MatchTransitions  *prometheus.CounterVec
	DonationsByStatus *prometheus.CounterVec
	UnitsCredited     *prometheus.CounterVec
	TxRetries         *prometheus.CounterVec
	EventsDropped     *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers the engine metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_requests_created_total",
			Help: "Total number of blood requests created",
		}),
		MatchesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_matches_created_total",
			Help: "Total number of donor matches assigned",
		}),
		NoEligibleDonor: f.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_no_eligible_donor_total",
			Help: "Matching attempts that found no eligible donor",
		}),
		MatchTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_match_transitions_total",
			Help: "Match status transitions by resulting status",
		}, []string{"status"}),
		DonationsByStatus: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_donations_total",
			Help: "Donation transitions by resulting status",
		}, []string{"status"}),
		UnitsCredited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_inventory_units_credited_total",
			Help: "Blood units credited to hospital inventory by blood group",
		}, []string{"blood_group"}),
		TxRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_tx_retries_total",
			Help: "Transactions retried after a concurrency conflict",
		}, []string{"operation"}),
		EventsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_events_dropped_total",
			Help: "Lifecycle events dropped because the forwarder inbox was full",
		}, []string{"type"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_inventory_cache_lookups_total",
			Help: "Inventory cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloodlink_operation_duration_seconds",
			Help:    "Duration of engine operations",
			Buckets: durationBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementRequestsCreated() {
	m.RequestsCreated.Inc()
}

func (m *Metrics) IncrementMatchesCreated() {
	m.MatchesCreated.Inc()
}

func (m *Metrics) IncrementNoEligibleDonor() {
	m.NoEligibleDonor.Inc()
}

func (m *Metrics) IncrementMatchTransition(status string) {
	m.MatchTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementDonation(status string) {
	m.DonationsByStatus.WithLabelValues(status).Inc()
}

func (m *Metrics) AddUnitsCredited(bloodGroup string, units int) {
	m.UnitsCredited.WithLabelValues(bloodGroup).Add(float64(units))
}

func (m *Metrics) IncrementTxRetry(operation string) {
	m.TxRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncrementEventsDropped(eventType string) {
	m.EventsDropped.WithLabelValues(eventType).Inc()
}

// IncrementCacheLookup records a cache result: "hit", "miss" or "error".
func (m *Metrics) IncrementCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveOperation records the duration of an engine operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
