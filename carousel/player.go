package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Timer is a cancellable one-shot callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. SystemClock is backed by time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// ErrPlayerStarted is returned by Start on a player that is already running.
var ErrPlayerStarted = errors.New("carousel player already started")

// Player drives a Controller from a recurring tick timer and a one-shot reset
// timer. Both timers are cancelled by Stop or by cancelling the context passed
// to Start; callbacks that were already in flight see a newer generation and
// leave the controller untouched.
type Player struct {
	mu         sync.Mutex
	controller *Controller
	clock      Clock
	onFrame    func(Frame)
	tickTimer  Timer
	resetTimer Timer
	generation uint64
	running    bool
	done       chan struct{}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock Clock) func(*Player) error {
	return func(p *Player) error {
		if clock == nil {
			return errors.New("clock is nil")
		}
		p.clock = clock
		return nil
	}
}

// WithFrameHandler registers a callback receiving every frame after a change.
// The callback runs with the player lock held and must not call back into it.
func WithFrameHandler(handler func(Frame)) func(*Player) error {
	return func(p *Player) error {
		if p.onFrame != nil {
			return errors.New("player already has a frame handler defined")
		}
		p.onFrame = handler
		return nil
	}
}

// NewPlayer validates the controller config and applies the options.
func NewPlayer(controller *Controller, options ...func(*Player) error) (*Player, error) {
	if controller == nil {
		return nil, errors.New("controller is nil")
	}
	if err := controller.Config().Validate(); err != nil {
		return nil, fmt.Errorf("validating carousel config: %w", err)
	}

	p := &Player{
		controller: controller,
		clock:      SystemClock,
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, fmt.Errorf("applying option on player: %w", err)
		}
	}
	return p, nil
}

// Start arms the tick timer. The player stops when ctx is cancelled.
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrPlayerStarted
	}
	p.running = true
	p.generation++
	p.done = make(chan struct{})
	done := p.done
	p.armTick(p.generation)
	p.emit()
	p.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			p.Stop()
		case <-done:
		}
	}()
	return nil
}

// Stop cancels both timers. It is safe to call more than once.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	p.generation++
	if p.tickTimer != nil {
		p.tickTimer.Stop()
		p.tickTimer = nil
	}
	if p.resetTimer != nil {
		p.resetTimer.Stop()
		p.resetTimer = nil
	}
	close(p.done)
}

// Running reports whether the timers are armed.
func (p *Player) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Frame returns the current render state.
func (p *Player) Frame() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.controller.Frame()
}

// JumpToPage handles an indicator click.
func (p *Player) JumpToPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelReset()
	p.controller.JumpToPage(page)
	p.emit()
}

// Settle applies a pending reset now instead of waiting for its timer.
func (p *Player) Settle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelReset()
	if p.controller.Settle() {
		p.emit()
	}
}

// DragEnd handles the end of a manual drag.
func (p *Player) DragEnd(offsetDelta, itemWidth float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelReset()
	p.controller.DragEnd(offsetDelta, itemWidth)
	p.emit()
}

// SetItemsPerPage handles a resize of the visible window.
func (p *Player) SetItemsPerPage(perPage int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controller.SetItemsPerPage(perPage)
	p.emit()
}

// armTick must be called with the lock held.
func (p *Player) armTick(gen uint64) {
	p.tickTimer = p.clock.AfterFunc(p.controller.Config().Interval, func() {
		p.onTick(gen)
	})
}

func (p *Player) onTick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || gen != p.generation {
		return
	}

	if p.controller.Tick() {
		p.cancelReset()
		p.resetTimer = p.clock.AfterFunc(p.controller.Config().TransitionDuration, func() {
			p.onReset(gen)
		})
	}
	p.emit()
	p.armTick(gen)
}

func (p *Player) onReset(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || gen != p.generation {
		return
	}
	p.resetTimer = nil
	if p.controller.Settle() {
		p.emit()
	}
}

func (p *Player) cancelReset() {
	if p.resetTimer != nil {
		p.resetTimer.Stop()
		p.resetTimer = nil
	}
}

func (p *Player) emit() {
	if p.onFrame != nil {
		p.onFrame(p.controller.Frame())
	}
}
