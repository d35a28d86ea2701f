// Package telemetry correlates analysis runs with an observability backend
// via OpenTelemetry baggage. Correlation is strictly best-effort: every
// failure is logged and swallowed so a run never depends on telemetry.
package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/baggage"
)

// Token represents an attached correlation context. It is consumed exactly
// once by Detach. A nil token is the valid "telemetry unavailable" state.
type Token struct {
	sessionID string
	prev      context.Context
}

// Correlator attaches and detaches session correlation state around a run.
// Attach and Detach must be paired; Detach with a nil token is a no-op.
type Correlator interface {
	// Enabled reports whether the correlation mechanism is available at all.
	Enabled() bool
	// Attach tags the context with session correlation baggage. It returns
	// the tagged context and a token for Detach, or the original context and
	// a nil token when correlation is unavailable.
	Attach(ctx context.Context, sessionID string) (context.Context, *Token)
	// Detach releases an attached correlation context. Safe with nil tokens.
	Detach(token *Token, sessionID string)
}

// Config contains the fixed correlation tags applied to every run.
type Config struct {
	// Enabled turns correlation on. When false Attach degrades to a no-op.
	Enabled bool
	// ExperimentID is set as the experiment.id baggage member.
	ExperimentID string
	// Topic is set as the conversation.topic baggage member.
	Topic string
}

// Baggage is the default Correlator. It stores session tags as OpenTelemetry
// baggage on the run context, where any configured trace exporter picks
// them up.
type Baggage struct {
	cfg Config
}

// NewBaggage creates a baggage-backed correlator.
func NewBaggage(cfg Config) *Baggage {
	return &Baggage{cfg: cfg}
}

// Enabled reports whether correlation is configured on.
func (b *Baggage) Enabled() bool {
	return b.cfg.Enabled
}

// Attach sets session.id, experiment.id, and conversation.topic baggage
// members on the context. Any failure is logged and treated as "telemetry
// unavailable": the original context and a nil token are returned and the
// run proceeds without correlation.
func (b *Baggage) Attach(ctx context.Context, sessionID string) (context.Context, *Token) {
	if !b.cfg.Enabled {
		log.Printf("[telemetry] disabled, session %q logged only", sessionID)
		return ctx, nil
	}

	members := make([]baggage.Member, 0, 3)
	for _, kv := range [][2]string{
		{"session.id", sessionID},
		{"experiment.id", b.cfg.ExperimentID},
		{"conversation.topic", b.cfg.Topic},
	} {
		m, err := baggage.NewMember(kv[0], kv[1])
		if err != nil {
			log.Printf("[telemetry] failed to build baggage member %s: %v. Continuing without telemetry.", kv[0], err)
			return ctx, nil
		}
		members = append(members, m)
	}

	bag, err := baggage.New(members...)
	if err != nil {
		log.Printf("[telemetry] failed to build baggage: %v. Continuing without telemetry.", err)
		return ctx, nil
	}

	log.Printf("[telemetry] session %q attached to correlation context", sessionID)
	return baggage.ContextWithBaggage(ctx, bag), &Token{sessionID: sessionID, prev: ctx}
}

// Detach releases the correlation context. With context-scoped baggage the
// tagged context simply goes out of scope; Detach records the pairing for
// the log surface and is a no-op for nil tokens.
func (b *Baggage) Detach(token *Token, sessionID string) {
	if token == nil {
		log.Printf("[telemetry] session %q - no correlation context to detach", sessionID)
		return
	}
	log.Printf("[telemetry] session %q correlation context detached", sessionID)
}

// Nop is a Correlator that never attaches. It stands in when telemetry is
// disabled wholesale (e.g. --no-telemetry).
type Nop struct{}

// Enabled always reports false.
func (Nop) Enabled() bool { return false }

// Attach returns the context unchanged and a nil token.
func (Nop) Attach(ctx context.Context, sessionID string) (context.Context, *Token) {
	return ctx, nil
}

// Detach is a no-op.
func (Nop) Detach(token *Token, sessionID string) {}
