package service

import (
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	dErrors "github.com/Chandhu-cpp/Emergency-Blood-Finder/pkg/domain-errors"
)

func (s *ServiceSuite) endedSpans(recorder *tracetest.SpanRecorder, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, sp := range recorder.Ended() {
		if sp.Name() == name {
			out = append(out, sp)
		}
	}
	return out
}

func (s *ServiceSuite) TestOperationsAreTraced() {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	s.service = New(s.store, WithBus(s.bus), WithMetrics(s.metrics), WithTracer(tp.Tracer("bloodbank-test")))

	_, match := s.confirmedMatch(1)
	donation := s.schedule(match.ID, 2)

	_, err := s.service.CompleteDonation(s.ctx, donation.ID)
	s.Require().NoError(err)
	_, err = s.service.CompleteDonation(s.ctx, donation.ID)
	s.requireCode(err, dErrors.CodeInvalidStateTransition)

	s.NotEmpty(s.endedSpans(recorder, "bloodbank.create_request"))
	s.NotEmpty(s.endedSpans(recorder, "bloodbank.confirm_match"))
	s.NotEmpty(s.endedSpans(recorder, "bloodbank.schedule_donation"))

	spans := s.endedSpans(recorder, "bloodbank.complete_donation")
	s.Require().Len(spans, 2)
	s.Equal(codes.Unset, spans[0].Status().Code)
	s.Empty(spans[0].Events())

	failed := spans[1]
	s.Equal(codes.Error, failed.Status().Code)
	s.Require().NotEmpty(failed.Events())
	s.Equal("exception", failed.Events()[0].Name)

	var donationAttr bool
	for _, kv := range failed.Attributes() {
		if string(kv.Key) == "donation.id" {
			donationAttr = kv.Value.AsString() == donation.ID.String()
		}
	}
	s.True(donationAttr, "span carries the donation id")
}
