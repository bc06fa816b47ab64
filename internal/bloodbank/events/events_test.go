package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain"
)

func newEvent(t Type) Event {
	return New(t, id.RequestID(uuid.New()), time.Now())
}

func TestBus_DeliversByTypeThenCatchAll(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(MatchRejected, func(_ context.Context, e Event) error {
		got = append(got, "typed:"+string(e.Type))
		return nil
	})
	bus.SubscribeAll(func(_ context.Context, e Event) error {
		got = append(got, "all:"+string(e.Type))
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), newEvent(MatchRejected), newEvent(MatchConfirmed)))
	assert.Equal(t, []string{
		"typed:match.rejected",
		"all:match.rejected",
		"all:match.confirmed",
	}, got)
}

func TestBus_RunsEveryHandlerAndJoinsErrors(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")
	called := 0
	bus.Subscribe(RequestCreated, func(context.Context, Event) error { return boom })
	bus.SubscribeAll(func(context.Context, Event) error { called++; return nil })

	err := bus.Publish(context.Background(), newEvent(RequestCreated))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, called)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Write(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type dropCounter struct{ dropped []string }

func (d *dropCounter) IncrementEventsDropped(t string) { d.dropped = append(d.dropped, t) }

func TestWorker_ForwardsAndDrainsOnShutdown(t *testing.T) {
	sink := &recordingSink{}
	w := NewWorker(sink, 8, nil, nil)
	bus := NewBus()
	w.Attach(bus)

	require.NoError(t, bus.Publish(context.Background(), newEvent(DonationScheduled), newEvent(DonationCompleted)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWorker_DropsWhenFull(t *testing.T) {
	drops := &dropCounter{}
	w := NewWorker(&recordingSink{}, 1, nil, drops)

	require.NoError(t, w.Enqueue(context.Background(), newEvent(MatchCreated)))
	require.NoError(t, w.Enqueue(context.Background(), newEvent(MatchContacted)))
	assert.Equal(t, []string{"match.contacted"}, drops.dropped)
}

func TestWorker_SinkErrorsDoNotStopDelivery(t *testing.T) {
	sink := &recordingSink{err: errors.New("unavailable")}
	w := NewWorker(sink, 4, nil, nil)
	require.NoError(t, w.Enqueue(context.Background(), newEvent(MatchCreated)))
	require.NoError(t, w.Enqueue(context.Background(), newEvent(MatchConfirmed)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	assert.Eventually(t, func() bool { return sink.count() == 2 }, time.Second, 5*time.Millisecond)
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	out := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		p.records = append(p.records, r)
		out = append(out, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return out
}

func TestKafkaSink_WritesKeyedJSON(t *testing.T) {
	producer := &fakeProducer{}
	sink := NewKafkaSink(producer, "bloodlink.lifecycle", nil)

	e := newEvent(DonationCompleted).
		WithDonation(id.DonationID(uuid.New()), id.HospitalID(uuid.New()), "O+", 2).
		WithStatus("completed")
	require.NoError(t, sink.Write(context.Background(), e))

	require.Len(t, producer.records, 1)
	rec := producer.records[0]
	assert.Equal(t, "bloodlink.lifecycle", rec.Topic)
	assert.Equal(t, e.RequestID.String(), string(rec.Key))
	assert.Equal(t, "event_type", rec.Headers[0].Key)

	var decoded Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, DonationCompleted, decoded.Type)
	assert.Equal(t, 2, decoded.Units)
	require.NotNil(t, decoded.DonationID)
	assert.Equal(t, *e.DonationID, *decoded.DonationID)
}

func TestKafkaSink_BreakerOpensAfterFailures(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	sink := NewKafkaSink(producer, "t", nil)

	for range 3 {
		assert.Error(t, sink.Write(context.Background(), newEvent(MatchCreated)))
	}
	assert.False(t, sink.Healthy())

	producer.err = nil
	require.NoError(t, sink.Write(context.Background(), newEvent(MatchCreated)))
	assert.True(t, sink.Healthy())
}
