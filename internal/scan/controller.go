package scan

import (
	"context"
	"sync"
	"time"

	"github.com/nccmultimedia/attendance-server/internal/shared/logger"
)

// Status is a snapshot of the controller.
type Status struct {
	Running   bool       `json:"running"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

// Controller starts and stops a Loop on behalf of the operator. Runs are
// bound to the parent context given to NewController, not to the request
// that started them.
type Controller struct {
	parent context.Context
	loop   *Loop

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	startedAt time.Time
	lastErr   error
}

func NewController(parent context.Context, loop *Loop) *Controller {
	return &Controller{parent: parent, loop: loop}
}

func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		return ErrScannerRunning
	}

	ctx, cancel := context.WithCancel(c.parent)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.startedAt = c.loop.clock.Now()
	c.lastErr = nil

	go func() {
		defer close(done)
		err := c.loop.Run(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.lastErr = err
			logger.FromContext(ctx).Error("Scanner exited", "error", err)
		}
		if c.done == done {
			c.cancel()
			c.cancel, c.done = nil, nil
		}
	}()
	return nil
}

// Stop cancels the running loop and waits for it to release its source.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if done == nil {
		return ErrScannerNotRunning
	}

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{Running: c.done != nil}
	if s.Running {
		t := c.startedAt
		s.StartedAt = &t
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

// Submit forwards a token decoded elsewhere, e.g. by a browser camera.
func (c *Controller) Submit(ctx context.Context, token string) Report {
	return c.loop.Submit(ctx, token)
}
