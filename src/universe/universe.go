package universe

import (
	"runtime"
	"time"
)

//Universe is the interface the display and control layer consumes
//it's implemented by Loop
type Universe interface {
	Status() Status
	Options() Options
	Snapshot() Grid
	CellState(x int, y int) (Cell, error)
	SetCellState(x int, y int, c Cell) error
	InvertCellState(x int, y int) error
	LoadWorld(rows [][]Cell) error
	Resize(size int) error
	Reset() error
	Clear() error
	SyncInitialState() error
	SettleTemplate(name string) error
	Randomize(seed int64, density float64) error
	RegisterViewer(v Viewer) error
	Start() error
	Stop() error
	Step() error
	SetDelay(d time.Duration) error
	Close()
}

//Viewer is the interface to any display sink
//Refresh is called from the loop goroutine after every published change
//and must not call the Universe commands synchronously
type Viewer interface {
	Register(u Universe)
	Refresh(f Frame)
}

//Options represents the configurable options of the world and the loop
type Options struct {
	Size          int
	Rules         RuleSet
	Engine        string
	Workers       int
	Delay         time.Duration
	MaxTicks      int64
	StopWhenStill bool
}

//Status represents the status of the simulation at concrete moment
type Status struct {
	TickCount   int64
	Population  int
	Size        int
	RunningMode RunningState
	Delay       time.Duration
	Changed     bool          //the last tick changed at least one cell
	TickTime    time.Duration //evaluation time of the last tick
}

//Frame is what the loop publishes to viewers: the status and a copy of the grid
type Frame struct {
	Status
	Grid Grid
}

//The loop running status at the concrete moment
type RunningState int32

const (
	RunningStateStopped RunningState = iota
	RunningStateRun
	RunningStateFinished
)

func (s RunningState) String() string {
	switch s {
	case RunningStateStopped:
		return "stopped"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//default options
const (
	DefSize     = 10
	MaxSize     = 4096
	DefDelay    = time.Millisecond * 100
	MaxDelay    = time.Second
	DefMaxTicks = 1000
	DefEngine   = "base"
)

var DefaultOptions = Options{
	Size:     DefSize,
	Rules:    ClassicRules,
	Engine:   DefEngine,
	Workers:  runtime.GOMAXPROCS(0),
	Delay:    DefDelay,
	MaxTicks: DefMaxTicks,
}

//ClampDelay limits d to [0, MaxDelay]
func ClampDelay(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > MaxDelay {
		return MaxDelay
	}
	return d
}
