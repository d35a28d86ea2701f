package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/baggage"
)

func TestBaggageAttachSetsMembers(t *testing.T) {
	corr := NewBaggage(Config{
		Enabled:      true,
		ExperimentID: "ecommerce-agent-v2",
		Topic:        "business-ecommerce",
	})

	ctx, token := corr.Attach(context.Background(), "session-123")
	if token == nil {
		t.Fatal("expected non-nil token when enabled")
	}

	bag := baggage.FromContext(ctx)
	if got := bag.Member("session.id").Value(); got != "session-123" {
		t.Errorf("expected session.id=session-123, got %q", got)
	}
	if got := bag.Member("experiment.id").Value(); got != "ecommerce-agent-v2" {
		t.Errorf("expected experiment.id, got %q", got)
	}
	if got := bag.Member("conversation.topic").Value(); got != "business-ecommerce" {
		t.Errorf("expected conversation.topic, got %q", got)
	}

	corr.Detach(token, "session-123")
}

func TestBaggageAttachDisabled(t *testing.T) {
	corr := NewBaggage(Config{Enabled: false})

	ctx, token := corr.Attach(context.Background(), "session-123")
	if token != nil {
		t.Error("expected nil token when disabled")
	}

	bag := baggage.FromContext(ctx)
	if bag.Len() != 0 {
		t.Error("expected no baggage when disabled")
	}

	// Detach with nil token must not panic.
	corr.Detach(token, "session-123")
}

func TestBaggageAttachInvalidMember(t *testing.T) {
	// Invalid baggage values degrade to "unavailable" rather than failing.
	corr := NewBaggage(Config{
		Enabled:      true,
		ExperimentID: "bad value\x00",
		Topic:        "topic",
	})

	ctx, token := corr.Attach(context.Background(), "session-123")
	if token != nil {
		t.Error("expected nil token on invalid member")
	}
	if baggage.FromContext(ctx).Len() != 0 {
		t.Error("expected untouched context on failure")
	}
}

func TestNopCorrelator(t *testing.T) {
	var corr Correlator = Nop{}

	ctx, token := corr.Attach(context.Background(), "s")
	if token != nil {
		t.Error("expected nil token from Nop")
	}
	if baggage.FromContext(ctx).Len() != 0 {
		t.Error("expected no baggage from Nop")
	}
	corr.Detach(nil, "s")
}
