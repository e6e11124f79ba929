// Package timeline advances a composition run through its scene list,
// holding each rendered frame on screen for the scene's declared duration.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/scene"
)

// ErrAlreadyPlayed is returned when Play is called twice on one Coordinator.
var ErrAlreadyPlayed = errors.New("timeline: coordinator is single use")

// RenderFunc paints the scene at the given list position onto the surface.
type RenderFunc func(index int, sc scene.Scene) error

// Event signals that a scene's frame has been committed to the surface
// and its hold has begun.
type Event struct {
	Index   int
	SceneID string
	At      time.Time
}

// Coordinator is a strictly sequential scene scheduler. It renders scene
// n+1 only after the full hold of scene n has elapsed. One Coordinator
// drives at most one playback.
type Coordinator struct {
	clock  ports.Clock
	settle time.Duration
	logger ports.Logger

	mu     sync.Mutex
	played bool
}

// New creates a coordinator. The settle duration is the extra hold after
// each render that guarantees the capture stream samples at least one
// full frame; callers keep it at or above the capture frame interval.
func New(clock ports.Clock, settle time.Duration, logger ports.Logger) *Coordinator {
	return &Coordinator{
		clock:  clock,
		settle: settle,
		logger: logger.WithComponent("timeline"),
	}
}

// Play walks the scene list in order: render, commit, hold. It returns a
// channel of commit events and a channel carrying the single final
// result. The events channel closes when playback stops; the error
// channel then yields nil on success, the context error on cancellation,
// or the render error that stopped playback.
func (c *Coordinator) Play(ctx context.Context, scenes []scene.Scene, render RenderFunc) (<-chan Event, <-chan error) {
	events := make(chan Event)
	errc := make(chan error, 1)

	c.mu.Lock()
	if c.played {
		c.mu.Unlock()
		close(events)
		errc <- ErrAlreadyPlayed
		close(errc)
		return events, errc
	}
	c.played = true
	c.mu.Unlock()

	go func() {
		err := c.run(ctx, scenes, render, events)
		close(events)
		errc <- err
		close(errc)
	}()
	return events, errc
}

func (c *Coordinator) run(ctx context.Context, scenes []scene.Scene, render RenderFunc, events chan<- Event) error {
	for i, sc := range scenes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := render(i, sc); err != nil {
			return fmt.Errorf("timeline: render scene %d (%s): %w", i, sc.Label(), err)
		}

		ev := Event{Index: i, SceneID: sc.ID, At: c.clock.Now()}
		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.logger.Debug("Committed scene %d/%d (%s), holding %.1fs", i+1, len(scenes), sc.Label(), sc.DurationSeconds)

		if err := c.clock.Sleep(ctx, c.settle); err != nil {
			return err
		}
		if err := c.clock.Sleep(ctx, sc.Duration()); err != nil {
			return err
		}
	}
	c.logger.Debug("Timeline complete: %d scenes", len(scenes))
	return nil
}
