package scan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/identity"
	"github.com/nccmultimedia/attendance-server/internal/metrics"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/clock"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

// Report kinds.
const (
	KindTransition  = "transition"
	KindSuppressed  = "suppressed"
	KindIgnored     = "ignored"
	KindUnresolved  = "unresolved"
	KindError       = "error"
	KindSourceError = "source_error"
)

// Report describes what happened to one token. Transition, unresolved and
// error reports are published to the live feed.
type Report struct {
	At       time.Time `json:"at"`
	Kind     string    `json:"kind"`
	Token    string    `json:"token,omitempty"`
	MemberID uint32    `json:"memberId,omitempty"`
	Outcome  string    `json:"outcome,omitempty"`
	Message  string    `json:"message"`
}

type Resolver interface {
	ResolveScanned(ctx context.Context, token string) (uint32, error)
}

type Engine interface {
	AutoToggle(ctx context.Context, memberID uint32, day string, event model.Event) (attendance.Outcome, error)
}

// Publisher receives reports for the live feed.
type Publisher interface {
	Publish(v any)
}

type LoopConfig struct {
	Event         model.Event
	EvictInterval time.Duration
	// RegisterURL is suggested to holders of unknown badges.
	RegisterURL string
}

// Loop drives Deduplicator, Resolver and Engine from a Source. One Loop may
// be Run repeatedly, but not concurrently.
type Loop struct {
	source    Source
	dedup     *Deduplicator
	resolver  Resolver
	engine    Engine
	clock     clock.Clock
	publisher Publisher
	metrics   *metrics.Registry
	cfg       LoopConfig
}

func NewLoop(
	source Source,
	dedup *Deduplicator,
	resolver Resolver,
	engine Engine,
	clk clock.Clock,
	publisher Publisher,
	m *metrics.Registry,
	cfg LoopConfig,
) *Loop {
	if cfg.EvictInterval <= 0 {
		cfg.EvictInterval = time.Minute
	}
	return &Loop{
		source:    source,
		dedup:     dedup,
		resolver:  resolver,
		engine:    engine,
		clock:     clk,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// Run holds the source until ctx is cancelled, the input ends or the source
// fails. The source is released on every path. A source failure is reported
// once and returned; it never affects anything but this loop.
func (l *Loop) Run(ctx context.Context) error {
	ctx = logger.With(ctx, "component", "scanner")
	log := logger.FromContext(ctx)

	stream, err := l.source.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("Scanner stopped before the source was acquired")
			return nil
		}
		l.sourceFailed(log, err)
		return fmt.Errorf("open scan source: %w", err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			log.Warn("Failed to release scan source", "error", err)
		}
		l.metrics.ScannerRunning(false)
		log.Info("Scanner stopped")
	}()

	l.metrics.ScannerRunning(true)
	log.Info("Scanner started", "dedup_entries", l.dedup.Len())

	ticker := time.NewTicker(l.cfg.EvictInterval)
	defer ticker.Stop()

	tokens := stream.Tokens()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if n := l.dedup.Evict(l.clock.Now()); n > 0 {
				log.Debug("Evicted expired scan tokens", "count", n)
			}

		case token, ok := <-tokens:
			if !ok {
				if err := stream.Err(); err != nil {
					l.sourceFailed(log, err)
					return fmt.Errorf("read scan source: %w", err)
				}
				return nil
			}
			if ctx.Err() != nil {
				// taken together with the stop signal; finish it
				l.Submit(context.WithoutCancel(ctx), token)
				return nil
			}
			l.Submit(ctx, token)
		}
	}
}

func (l *Loop) sourceFailed(log *slog.Logger, err error) {
	log.Error("Scan source failed", "error", err)
	l.metrics.Scan(KindSourceError)
	l.publish(Report{
		At:      l.clock.Now(),
		Kind:    KindSourceError,
		Message: "Scanner unavailable: " + err.Error(),
	})
}

// Submit runs one decoded token through the pipeline. It is also the entry
// point for decoders that post tokens over HTTP.
func (l *Loop) Submit(ctx context.Context, raw string) Report {
	log := logger.FromContext(ctx)

	token := strings.TrimSpace(raw)
	now := l.clock.Now()
	report := Report{At: now, Token: token}

	if token == "" {
		report.Kind = KindIgnored
		return report
	}

	if l.dedup.Observe(token, now) == Suppress {
		l.metrics.Scan(KindSuppressed)
		report.Kind = KindSuppressed
		return report
	}

	memberID, err := l.resolver.ResolveScanned(ctx, token)
	if err != nil {
		if u, ok := identity.AsUnresolvable(err); ok {
			return l.unresolved(log, report, u)
		}
		log.Error("Failed to resolve scanned token", "error", err)
		report.Kind = KindError
		report.Message = "Could not look up the scanned badge."
		l.metrics.Scan(KindError)
		l.publish(report)
		return report
	}

	report.MemberID = memberID
	outcome, err := l.engine.AutoToggle(ctx, memberID, "", l.cfg.Event)
	if err != nil {
		log.Error("Failed to toggle attendance", "member_id", memberID, "error", err)
		report.Kind = KindError
		report.Message = "Could not record attendance."
		l.metrics.Scan(KindError)
		l.publish(report)
		return report
	}

	report.Kind = KindTransition
	report.Outcome = outcome.String()
	report.Message = outcome.Message()
	l.metrics.Scan(KindTransition)
	l.publish(report)
	return report
}

func (l *Loop) unresolved(log *slog.Logger, report Report, u *identity.Unresolvable) Report {
	switch u.Reason {
	case identity.DecoyLink:
		l.metrics.Scan(KindIgnored)
		report.Kind = KindIgnored
		return report
	case identity.UnknownMember:
		report.Message = "Unknown member."
		if l.cfg.RegisterURL != "" {
			report.Message += " Register at " + l.cfg.RegisterURL
		}
	default:
		report.Message = "Not an attendance badge."
	}

	log.Info("Unresolved scan", "reason", u.Reason.String())
	report.Kind = KindUnresolved
	l.metrics.Scan(KindUnresolved)
	l.publish(report)
	return report
}

func (l *Loop) publish(r Report) {
	if l.publisher != nil {
		l.publisher.Publish(r)
	}
}
