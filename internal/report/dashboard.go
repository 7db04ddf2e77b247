package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/attendance"
	"github.com/nccmultimedia/attendance-server/internal/model"
	"github.com/nccmultimedia/attendance-server/internal/shared/clock"
	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

// Summaries is the read side the dashboard is built from.
type Summaries interface {
	Counts(ctx context.Context) ([]model.AttendanceCount, error)
	AbsentForWeeks(ctx context.Context, weeks int) ([]model.Member, error)
	Today(ctx context.Context, role model.Role) ([]model.AttendanceRow, error)
}

// Snapshot is the dashboard as of GeneratedAt. It may lag the latest write.
type Snapshot struct {
	GeneratedAt  time.Time                 `json:"generatedAt"`
	PresentToday int                       `json:"presentToday"`
	Top          []model.AttendanceCount   `json:"top"`
	AbsentWeeks  int                       `json:"absentWeeks"`
	Absent       []attendance.AbsentMember `json:"absent"`
}

type DashboardConfig struct {
	Interval    time.Duration
	TopN        int
	AbsentWeeks int
}

// Refresher rebuilds the Snapshot on a ticker.
type Refresher struct {
	source Summaries
	clock  clock.Clock
	cfg    DashboardConfig

	mu     sync.RWMutex
	snap   Snapshot
	ready  bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefresher(source Summaries, clk clock.Clock, cfg DashboardConfig) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	if cfg.AbsentWeeks <= 0 {
		cfg.AbsentWeeks = 3
	}
	return &Refresher{source: source, clock: clk, cfg: cfg}
}

// Refresh rebuilds the snapshot now. On error the previous snapshot stays.
func (r *Refresher) Refresh(ctx context.Context) error {
	counts, err := r.source.Counts(ctx)
	if err != nil {
		return fmt.Errorf("dashboard counts: %w", err)
	}
	absent, err := r.source.AbsentForWeeks(ctx, r.cfg.AbsentWeeks)
	if err != nil {
		return fmt.Errorf("dashboard absent: %w", err)
	}
	today, err := r.source.Today(ctx, "")
	if err != nil {
		return fmt.Errorf("dashboard today: %w", err)
	}

	present := 0
	for _, row := range today {
		if row.LoginAt != nil {
			present++
		}
	}

	top := make([]model.AttendanceCount, 0, r.cfg.TopN)
	for _, c := range counts {
		if len(top) == r.cfg.TopN {
			break
		}
		top = append(top, c)
	}

	snap := Snapshot{
		GeneratedAt:  r.clock.Now(),
		PresentToday: present,
		Top:          top,
		AbsentWeeks:  r.cfg.AbsentWeeks,
		Absent:       attendance.NewAbsentMembers(absent),
	}

	r.mu.Lock()
	r.snap, r.ready = snap, true
	r.mu.Unlock()
	return nil
}

// Snapshot returns the latest snapshot and whether one has been built.
func (r *Refresher) Snapshot() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap, r.ready
}

// Start refreshes once and then every interval until Stop or ctx ends.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	ctx = logger.With(ctx, "component", "dashboard")

	go func() {
		defer close(done)
		r.tick(ctx)

		ticker := time.NewTicker(r.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.tick(ctx)
			}
		}
	}()
}

// Stop ends the refresh loop and waits for it.
func (r *Refresher) Stop() {
	r.mu.RLock()
	cancel, done := r.cancel, r.done
	r.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
		logger.FromContext(ctx).Warn("Dashboard refresh failed", "error", err)
	}
}
