package universe

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var _ Universe = (*Loop)(nil)

//Loop drives the World at an adjustable cadence and publishes the state to the viewers
//implements Universe interface
//all commands are executed one by one by the main loop goroutine, between the ticks,
//so an edit never overlaps a tick and a stop is effective before the next tick begins
type Loop struct {
	world     *World
	options   Options
	views     []Viewer
	stateCh   chan Status
	controlCh chan func()
	closeCh   chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
	mode      atomic.Int32
	delay     atomic.Int64
	//owned by the main loop goroutine
	timer *time.Timer
	armed bool
}

//New creates the World described by the options and the Loop driving it
func New(o *Options, stateCh chan Status) (*Loop, error) {
	if o == nil {
		o = &DefaultOptions
	}
	w, err := NewWorld(o)
	if err != nil {
		return nil, err
	}
	return NewLoop(w, o, stateCh), nil
}

//NewLoop creates the stopped Loop for w and starts its main loop goroutine
//stateCh is optional, when set it receives the Status on every mode change and every tick
//and must be drained by the caller
func NewLoop(w *World, o *Options, stateCh chan Status) *Loop {
	if o == nil {
		o = &DefaultOptions
	}
	l := Loop{
		world:     w,
		options:   *o,
		stateCh:   stateCh,
		controlCh: make(chan func()),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
		timer:     time.NewTimer(time.Hour),
	}
	l.timer.Stop()
	l.delay.Store(int64(ClampDelay(o.Delay)))
	go l.mainLoop()
	return &l
}

//World returns the engine driven by the loop
func (l *Loop) World() *World {
	return l.world
}

//Options returns the loop configuration, Delay is the current one
func (l *Loop) Options() Options {
	o := l.options
	o.Size = l.world.Size()
	o.Rules = l.world.Rules()
	o.Delay = l.Delay()
	return o
}

//RunningMode returns the current running state
func (l *Loop) RunningMode() RunningState {
	return RunningState(l.mode.Load())
}

//Delay returns the pause between the ticks
func (l *Loop) Delay() time.Duration {
	return time.Duration(l.delay.Load())
}

//Status returns current status represented by Status struct
func (l *Loop) Status() Status {
	st := l.world.Status()
	st.RunningMode = l.RunningMode()
	st.Delay = l.Delay()
	return st
}

//Snapshot returns the copy of the current grid
func (l *Loop) Snapshot() Grid {
	return l.world.Snapshot()
}

//CellState returns the state of the cell at x, y
func (l *Loop) CellState(x int, y int) (Cell, error) {
	return l.world.CellState(x, y)
}

//RegisterViewer registers the viewer - the loop will call the viewer when the state is changed
func (l *Loop) RegisterViewer(v Viewer) error {
	return l.do(func() error {
		l.views = append(l.views, v)
		v.Register(l)
		v.Refresh(l.frame())
		return nil
	})
}

//Start starts the simulation, the first tick is done immediately
//a world which was never ticked is committed as the reset target first
func (l *Loop) Start() error {
	return l.do(func() error {
		if l.RunningMode() == RunningStateRun {
			return nil
		}
		if l.world.TickCount() == 0 {
			l.world.SyncInitialState()
		}
		l.mode.Store(int32(RunningStateRun))
		l.arm(0)
		l.publish()
		return nil
	})
}

//Stop stops the simulation, the world is kept as is
func (l *Loop) Stop() error {
	return l.do(func() error {
		if l.RunningMode() != RunningStateRun {
			return nil
		}
		l.halt()
		l.publish()
		return nil
	})
}

//Step does one tick when the simulation is not running
func (l *Loop) Step() error {
	return l.do(func() error {
		if l.RunningMode() == RunningStateRun {
			return nil
		}
		if l.world.TickCount() == 0 {
			l.world.SyncInitialState()
		}
		l.mode.Store(int32(RunningStateStopped))
		if l.limitReached() {
			l.mode.Store(int32(RunningStateFinished))
		} else {
			l.world.Tick()
		}
		l.publish()
		return nil
	})
}

//SetDelay changes the pause between the ticks, d is clamped to [0, MaxDelay]
//the new value is used from the next cycle
func (l *Loop) SetDelay(d time.Duration) error {
	return l.do(func() error {
		l.delay.Store(int64(ClampDelay(d)))
		l.publish()
		return nil
	})
}

//Reset stops the simulation and restores the initial grid
func (l *Loop) Reset() error {
	return l.do(func() error {
		l.halt()
		l.world.Reset()
		l.publish()
		return nil
	})
}

//Clear stops the simulation and kills all cells
func (l *Loop) Clear() error {
	return l.do(func() error {
		l.halt()
		l.world.Clear()
		l.publish()
		return nil
	})
}

//Resize stops the simulation and replaces the world with the empty one of the given size
//an invalid size leaves the simulation untouched
func (l *Loop) Resize(size int) error {
	return l.do(func() error {
		if err := l.world.Resize(size); err != nil {
			return err
		}
		l.halt()
		l.publish()
		return nil
	})
}

//LoadWorld stops the simulation and loads rows into the world
//a malformed grid leaves the simulation untouched
func (l *Loop) LoadWorld(rows [][]Cell) error {
	return l.do(func() error {
		if err := l.world.LoadWorld(rows); err != nil {
			return err
		}
		l.halt()
		l.publish()
		return nil
	})
}

//SetCellState sets the cell at x, y between the ticks
func (l *Loop) SetCellState(x int, y int, c Cell) error {
	return l.do(func() error {
		if err := l.world.SetCellState(x, y, c); err != nil {
			return err
		}
		l.publish()
		return nil
	})
}

//InvertCellState inverses the cell state at point x, y
func (l *Loop) InvertCellState(x int, y int) error {
	return l.do(func() error {
		if err := l.world.InvertCellState(x, y); err != nil {
			return err
		}
		l.publish()
		return nil
	})
}

//SyncInitialState commits the current grid as the reset target
func (l *Loop) SyncInitialState() error {
	return l.do(func() error {
		l.world.SyncInitialState()
		return nil
	})
}

//SettleTemplate populates the world with the named template
func (l *Loop) SettleTemplate(name string) error {
	return l.do(func() error {
		if err := l.world.SettleTemplate(name); err != nil {
			return err
		}
		l.publish()
		return nil
	})
}

//Randomize stops the simulation, clears the world and fills it with random data
func (l *Loop) Randomize(seed int64, density float64) error {
	if density < 0 || density > 1 {
		return fmt.Errorf("density %v outside [0, 1]", density)
	}
	return l.do(func() error {
		l.halt()
		l.world.Clear()
		l.world.Randomize(seed, density)
		l.publish()
		return nil
	})
}

//Close stops the main loop and waits for it to exit
//must not be called from a Viewer
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.closeCh)
	})
	<-l.doneCh
}

//do executes cmd in the main loop goroutine and returns its result
func (l *Loop) do(cmd func() error) error {
	errCh := make(chan error, 1)
	select {
	case l.controlCh <- func() { errCh <- cmd() }:
		return <-errCh
	case <-l.doneCh:
		return ErrClosed
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for a command or for the next tick, blocks while stopped
func (l *Loop) mainLoop() {
	defer close(l.doneCh)
	for {
		var tickCh <-chan time.Time
		if l.armed {
			tickCh = l.timer.C
		}
		select {
		case cmd := <-l.controlCh:
			cmd()
		case <-tickCh:
			l.armed = false
			l.cycle()
		case <-l.closeCh:
			l.disarm()
			return
		}
	}
}

//cycle does one tick, publishes it and schedules the next one
func (l *Loop) cycle() {
	if l.RunningMode() != RunningStateRun {
		return
	}
	if l.limitReached() {
		l.mode.Store(int32(RunningStateFinished))
		l.publish()
		return
	}
	l.world.Tick()
	st := l.world.Status()
	if l.limitReached() || (l.options.StopWhenStill && (st.Population == 0 || !st.Changed)) {
		l.mode.Store(int32(RunningStateFinished))
		l.publish()
		return
	}
	l.publish()
	l.arm(l.Delay())
}

func (l *Loop) limitReached() bool {
	return l.options.MaxTicks > 0 && l.world.TickCount() >= l.options.MaxTicks
}

//halt cancels the scheduled tick and switches to the stopped state
func (l *Loop) halt() {
	l.disarm()
	l.mode.Store(int32(RunningStateStopped))
}

func (l *Loop) arm(d time.Duration) {
	l.disarm()
	l.timer.Reset(d)
	l.armed = true
}

func (l *Loop) disarm() {
	if !l.armed {
		return
	}
	if !l.timer.Stop() {
		select {
		case <-l.timer.C:
		default:
		}
	}
	l.armed = false
}

func (l *Loop) frame() Frame {
	f := l.world.frame()
	f.RunningMode = l.RunningMode()
	f.Delay = l.Delay()
	return f
}

//publish sends the current frame to all registered views and the status to the stateCh
func (l *Loop) publish() {
	f := l.frame()
	for _, v := range l.views {
		v.Refresh(f)
	}
	if l.stateCh != nil {
		l.stateCh <- f.Status
	}
}
