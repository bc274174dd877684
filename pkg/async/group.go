package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/authcore/pkg/logger"
)

const defaultTaskTimeout = 30 * time.Second

// Group runs detached background tasks.
type Group struct {
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *slog.Logger
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithTimeout bounds each task. Zero or negative values are ignored.
func WithTimeout(d time.Duration) GroupOption {
	return func(g *Group) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger used to report failed tasks.
func WithLogger(l *slog.Logger) GroupOption {
	return func(g *Group) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGroup creates a Group with a 30 second task timeout.
func NewGroup(opts ...GroupOption) *Group {
	g := &Group{
		timeout: defaultTaskTimeout,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Go runs fn in the background. The task keeps the values of ctx but not its
// cancellation, so it outlives the request that started it.
func (g *Group) Go(ctx context.Context, name string, fn func(context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()

		if err := g.run(taskCtx, fn); err != nil {
			g.logger.ErrorContext(taskCtx, "background task failed",
				logger.Component("async"),
				logger.Event(name),
				logger.Error(err),
			)
		}
	}()
}

// Wait blocks until every task started so far has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

func (g *Group) run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	return fn(ctx)
}
