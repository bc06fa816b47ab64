// Package service is the blood bank engine: the matcher, the match and
// donation lifecycles and the inventory ledger, each transition running as
// one store transaction.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/events"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/metrics"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/store"
	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/platform/sentinel"
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/requestcontext"
)

const (
	defaultTxRetries         = 3
	defaultTxTimeout         = 5 * time.Second
	defaultLowStockThreshold = 5
	tracerName               = "github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/service"
)

// Store is the persistence the engine needs: reads outside a transaction and
// a unit of work for every state change.
type Store interface {
	store.Reader
	RunInTx(ctx context.Context, fn func(tx store.Tx) error) error
}

// InventoryCache fronts inventory reads. A nil hospital id is the
// all-hospitals listing.
type InventoryCache interface {
	Get(ctx context.Context, hospitalID id.HospitalID) ([]models.InventoryRow, bool, error)
	Set(ctx context.Context, hospitalID id.HospitalID, rows []models.InventoryRow) error
	Invalidate(ctx context.Context, hospitalID id.HospitalID) error
}

// Service orchestrates the engine operations.
type Service struct {
	store     Store
	bus       *events.Bus
	cache     InventoryCache
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	retries   int
	txTimeout time.Duration
	threshold int

	inventory    singleflight.Group
	inventoryGen atomic.Uint64
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBus shares an event bus with other subscribers such as the stream
// worker. Without it the service keeps a private bus for re-matching.
func WithBus(bus *events.Bus) Option {
	return func(s *Service) {
		s.bus = bus
	}
}

func WithCache(cache InventoryCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithTxRetries sets how many times a conflicting transaction is retried
// before the caller sees a concurrency conflict.
func WithTxRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.retries = n
		}
	}
}

func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.txTimeout = d
		}
	}
}

// WithLowStockThreshold sets the threshold given to inventory rows created
// on first credit.
func WithLowStockThreshold(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.threshold = n
		}
	}
}

// New constructs a Service and subscribes its matcher to match rejections.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store:     st,
		logger:    slog.Default(),
		retries:   defaultTxRetries,
		txTimeout: defaultTxTimeout,
		threshold: defaultLowStockThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	s.bus.Subscribe(events.MatchRejected, s.onMatchRejected)
	return s
}

// outbox collects the events of one transaction attempt.
type outbox struct {
	events []events.Event
}

func (o *outbox) emit(e events.Event) {
	o.events = append(o.events, e)
}

// runTx runs fn as one transaction, retrying store conflicts, and publishes
// the events fn emitted once the transaction has committed.
func (s *Service) runTx(ctx context.Context, op string, fn func(tx store.Tx, out *outbox) error) error {
	var out *outbox
	for attempt := 0; ; attempt++ {
		out = &outbox{}
		err := s.attempt(ctx, fn, out)
		if err == nil {
			break
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return translate(err)
		}
		if attempt >= s.retries {
			s.logger.WarnContext(ctx, "transaction conflict retries exhausted",
				"operation", op,
				"attempts", attempt+1,
				"request_id", requestcontext.RequestID(ctx),
			)
			return dErrors.Wrap(err, dErrors.CodeConcurrencyConflict, "operation conflicted with a concurrent change, retry")
		}
		s.incrementTxRetry(op)
	}
	s.publish(ctx, out.events)
	return nil
}

func (s *Service) attempt(ctx context.Context, fn func(tx store.Tx, out *outbox) error, out *outbox) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()
	return s.store.RunInTx(txCtx, func(tx store.Tx) error {
		return fn(tx, out)
	})
}

func (s *Service) publish(ctx context.Context, evs []events.Event) {
	if len(evs) == 0 {
		return
	}
	traceID := requestcontext.RequestID(ctx)
	for i := range evs {
		evs[i].TraceID = traceID
	}
	if err := s.bus.Publish(ctx, evs...); err != nil {
		s.logger.ErrorContext(ctx, "event handler failed",
			"error", err,
			"request_id", traceID,
		)
	}
}

// translate turns store and model errors into domain errors for callers.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		if de.Code == dErrors.CodeInvariantViolation {
			return dErrors.New(dErrors.CodeValidation, de.Message)
		}
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "resource not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "store operation failed")
	}
}

// notFound names the missing entity when err is a store miss.
func notFound(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	}
	return err
}

// span starts a trace span for an engine operation. The returned func ends
// it, recording err and the operation duration.
func (s *Service) span(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, sp := s.tracer.Start(ctx, "bloodbank."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			sp.RecordError(err)
			sp.SetStatus(codes.Error, err.Error())
		}
		sp.End()
		if s.metrics != nil {
			s.metrics.ObserveOperation(op, start)
		}
	}
}

func (s *Service) incrementTxRetry(op string) {
	if s.metrics != nil {
		s.metrics.IncrementTxRetry(op)
	}
}

func (s *Service) incrementMatchTransition(status models.MatchStatus) {
	if s.metrics != nil {
		s.metrics.IncrementMatchTransition(status.String())
	}
}

func (s *Service) incrementDonation(status models.DonationStatus) {
	if s.metrics != nil {
		s.metrics.IncrementDonation(status.String())
	}
}

func (s *Service) recordMatchOutcome(m *models.DonorMatch) {
	if s.metrics == nil {
		return
	}
	if m == nil {
		s.metrics.IncrementNoEligibleDonor()
		return
	}
	s.metrics.IncrementMatchesCreated()
}

func (s *Service) incrementCacheLookup(result string) {
	if s.metrics != nil {
		s.metrics.IncrementCacheLookup(result)
	}
}
