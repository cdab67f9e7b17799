package services

import (
	"context"
	"errors"
	"fmt"
	"garage-spot-service/internal/domain"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrCommitInProgress = errors.New("commit already in progress")
	ErrControllerClosed = errors.New("controller closed")
	ErrNoSaveHandler    = errors.New("no save handler configured")
)

// Callbacks are the hooks the hosting screen provides.
type Callbacks struct {
	// OnSaveChanges persists a batch of moves. Primary commit path.
	OnSaveChanges func(ctx context.Context, changes []domain.SpotChange) error
	// OnTruckMove persists a single move. Used for commits when OnSaveChanges is nil.
	OnTruckMove func(ctx context.Context, truckID, newSpot string) error
	// OnRefresh reloads the base truck list.
	OnRefresh func(ctx context.Context) ([]*domain.Truck, error)
}

// Controller serialises every mutation of a Board onto one goroutine.
//
// Public methods enqueue a command and wait for it to run. The edge-dwell timer
// fires on its own goroutine and only ever enqueues a command, so nothing
// outside the loop touches the board. The save call of a commit runs outside
// the loop; drags keep being accepted while it is outstanding.
type Controller struct {
	board     *Board
	settings  DragSettings
	callbacks Callbacks
	logger    *zap.Logger

	cmds chan func()
	quit chan struct{}
	done chan struct{}
	once sync.Once

	// loop-owned
	timer      *dwellTimer
	committing bool
}

type ControllerOption func(*Controller)

// WithAfterFunc replaces the clock used for the edge-dwell timer.
func WithAfterFunc(f AfterFunc) ControllerOption {
	return func(c *Controller) { c.timer = newDwellTimer(f) }
}

func WithLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController starts the loop for board. Close must be called to stop it.
func NewController(board *Board, callbacks Callbacks, opts ...ControllerOption) *Controller {
	c := &Controller{
		board:     board,
		settings:  board.settings,
		callbacks: callbacks,
		logger:    zap.NewNop(),
		cmds:      make(chan func()),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		timer:     newDwellTimer(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.done)
	for {
		select {
		case cmd := <-c.cmds:
			cmd()
		case <-c.quit:
			c.timer.Cancel()
			c.board.CancelDrag()
			return
		}
	}
}

// do runs fn on the loop and waits for it.
func (c *Controller) do(ctx context.Context, fn func()) error {
	ran := make(chan struct{})
	cmd := func() {
		defer close(ran)
		fn()
	}

	select {
	case c.cmds <- cmd:
	case <-c.quit:
		return ErrControllerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ran:
		return nil
	case <-c.done:
		select {
		case <-ran:
			return nil
		default:
			return ErrControllerClosed
		}
	}
}

// Close stops the loop and cancels any pending edge timer. Idempotent.
func (c *Controller) Close() {
	c.once.Do(func() { close(c.quit) })
	<-c.done
}

// Layout returns the merged render layout and the visible garage.
func (c *Controller) Layout(ctx context.Context) (layout domain.Layout, garage string, err error) {
	err = c.do(ctx, func() {
		layout = c.board.Layout()
		garage = c.board.Garage().Area
	})
	return layout, garage, err
}

// Pending returns a copy of the overlay.
func (c *Controller) Pending(ctx context.Context) (p domain.PendingChanges, err error) {
	err = c.do(ctx, func() { p = c.board.Pending() })
	return p, err
}

// Restore loads a saved overlay.
func (c *Controller) Restore(ctx context.Context, changes []domain.PendingChange) error {
	return c.do(ctx, func() { c.board.RestorePending(changes) })
}

func (c *Controller) SetGarage(ctx context.Context, area string) error {
	var err error
	if e := c.do(ctx, func() { err = c.board.SetGarage(area) }); e != nil {
		return e
	}
	return err
}

func (c *Controller) SetTrucks(ctx context.Context, trucks []*domain.Truck) error {
	return c.do(ctx, func() { c.board.SetTrucks(trucks) })
}

func (c *Controller) DragStart(ctx context.Context, truckID string, pointer Point) error {
	var err error
	if e := c.do(ctx, func() {
		c.timer.Cancel()
		err = c.board.DragStart(truckID, pointer)
	}); e != nil {
		return e
	}
	return err
}

// DragMove updates the gesture and arms or cancels the edge-dwell timer.
func (c *Controller) DragMove(ctx context.Context, pointer Point) (MoveResult, error) {
	var (
		res MoveResult
		err error
	)
	if e := c.do(ctx, func() {
		res, err = c.board.DragMove(pointer)
		if err != nil {
			return
		}
		if res.Edge == 0 {
			c.timer.Cancel()
			return
		}
		if key, armed := c.timer.Armed(); !armed || key != res.Edge {
			c.timer.Start(c.settings.EdgeDwell, res.Edge, c.fireEdge)
		}
	}); e != nil {
		return MoveResult{}, e
	}
	return res, err
}

// fireEdge runs on the timer goroutine.
func (c *Controller) fireEdge(gen uint64) {
	cmd := func() {
		dir, ok := c.timer.Claim(gen)
		if !ok {
			return
		}
		if c.board.Navigate(dir) {
			c.logger.Debug("cross-garage navigation",
				zap.Int("dir", dir),
				zap.String("garage", c.board.Garage().Area),
			)
		}
	}
	select {
	case c.cmds <- cmd:
	case <-c.quit:
	}
}

func (c *Controller) DragEnd(ctx context.Context, pointer Point, overYard bool) (DropResult, error) {
	var (
		res DropResult
		err error
	)
	if e := c.do(ctx, func() {
		c.timer.Cancel()
		res, err = c.board.DragEnd(pointer, overYard)
	}); e != nil {
		return DropResult{}, e
	}
	if err == nil {
		c.logger.Debug("drop resolved",
			zap.String("kind", string(res.Kind)),
			zap.String("truck_id", res.TruckID),
			zap.String("spot", res.Spot),
		)
	}
	return res, err
}

// CancelDrag abandons the gesture in flight.
func (c *Controller) CancelDrag(ctx context.Context) error {
	return c.do(ctx, func() {
		c.timer.Cancel()
		c.board.CancelDrag()
	})
}

func (c *Controller) Preview(ctx context.Context, truckID string) ([]LanePreview, error) {
	var (
		out []LanePreview
		err error
	)
	if e := c.do(ctx, func() { out, err = c.board.Preview(truckID) }); e != nil {
		return nil, e
	}
	return out, err
}

// Discard reverts every speculative move.
func (c *Controller) Discard(ctx context.Context) error {
	return c.do(ctx, func() { c.board.Discard() })
}

// Commit saves the overlay. On success the saved entries leave the overlay and
// become the new base spots; on failure the overlay is left as it was. A second
// Commit while one is outstanding fails with ErrCommitInProgress.
func (c *Controller) Commit(ctx context.Context) ([]domain.SpotChange, error) {
	var (
		changes []domain.SpotChange
		err     error
	)
	if e := c.do(ctx, func() {
		if c.committing {
			err = ErrCommitInProgress
			return
		}
		changes = c.board.Pending().Changes()
		if len(changes) > 0 {
			c.committing = true
		}
	}); e != nil {
		return nil, e
	}
	if err != nil || len(changes) == 0 {
		return changes, err
	}

	saveErr := c.save(ctx, changes)

	// The loop must learn the outcome even if ctx is already cancelled.
	if e := c.do(context.WithoutCancel(ctx), func() {
		c.committing = false
		if saveErr == nil {
			c.board.ApplyCommitted(changes)
		}
	}); e != nil {
		return nil, e
	}
	if saveErr != nil {
		c.logger.Warn("commit failed", zap.Int("changes", len(changes)), zap.Error(saveErr))
		return nil, fmt.Errorf("commit: %w", saveErr)
	}
	return changes, nil
}

func (c *Controller) save(ctx context.Context, changes []domain.SpotChange) error {
	if c.callbacks.OnSaveChanges != nil {
		return c.callbacks.OnSaveChanges(ctx, changes)
	}
	if c.callbacks.OnTruckMove == nil {
		return ErrNoSaveHandler
	}
	for _, ch := range changes {
		if err := c.callbacks.OnTruckMove(ctx, ch.TruckID, ch.NewSpot); err != nil {
			return fmt.Errorf("move truck %s: %w", ch.TruckID, err)
		}
	}
	return nil
}

// Refresh reloads the base trucks through OnRefresh. The overlay survives.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.callbacks.OnRefresh == nil {
		return nil
	}
	trucks, err := c.callbacks.OnRefresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return c.SetTrucks(ctx, trucks)
}
