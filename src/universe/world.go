package universe

import (
	"fmt"
	"sync"
	"time"
)

//World is the simulation engine
//it owns the current grid, the initial grid used by Reset, the rule set and the counters
//every method is safe for concurrent use, readers always see a whole generation
type World struct {
	mu                sync.RWMutex
	world             Grid
	initialWorld      Grid
	rules             RuleSet
	tickCount         int64
	population        int
	initialPopulation int
	changed           bool
	tickTime          time.Duration
	templates         map[string]Template
	nextGeneration    generator
}

//NewWorld creates the blank world described by the options
func NewWorld(o *Options) (*World, error) {
	if o == nil {
		o = &DefaultOptions
	}
	if o.Size <= 0 || o.Size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, o.Size)
	}
	if err := o.Rules.Validate(); err != nil {
		return nil, err
	}
	gen, err := newGenerator(o)
	if err != nil {
		return nil, err
	}
	w := World{
		world:          NewGrid(o.Size),
		initialWorld:   NewGrid(o.Size),
		rules:          o.Rules,
		templates:      map[string]Template{},
		nextGeneration: gen,
	}
	for _, t := range DefaultTemplates {
		w.templates[t.Name] = t
	}
	return &w, nil
}

//Size returns the current grid dimension
func (w *World) Size() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.world.Size
}

//Population returns the count of live cells
func (w *World) Population() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.population
}

//TickCount returns the generations elapsed since the last reset or clear
func (w *World) TickCount() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tickCount
}

//InitialPopulation returns the count of live cells of the grid Reset restores
func (w *World) InitialPopulation() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.initialPopulation
}

//Rules returns the current rule set
func (w *World) Rules() RuleSet {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rules
}

//SetRules replaces the rule set, the grid is not touched
func (w *World) SetRules(r RuleSet) error {
	if err := r.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	w.rules = r
	w.mu.Unlock()
	return nil
}

//Status returns the engine part of the status
func (w *World) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Status{
		TickCount:  w.tickCount,
		Population: w.population,
		Size:       w.world.Size,
		Changed:    w.changed,
		TickTime:   w.tickTime,
	}
}

//Snapshot returns the deep copy of the current grid
func (w *World) Snapshot() Grid {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.world.Clone()
}

//InitialSnapshot returns the deep copy of the grid Reset restores
func (w *World) InitialSnapshot() Grid {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.initialWorld.Clone()
}

//frame returns the status and the grid copy taken under one lock
func (w *World) frame() Frame {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Frame{
		Status: Status{
			TickCount:  w.tickCount,
			Population: w.population,
			Size:       w.world.Size,
			Changed:    w.changed,
			TickTime:   w.tickTime,
		},
		Grid: w.world.Clone(),
	}
}

//CellState returns the state of the cell at x, y
func (w *World) CellState(x int, y int) (Cell, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.world.Get(x, y)
}

//SetCellState sets the cell at x, y to c
//the population changes only when the previous state differs
func (w *World) SetCellState(x int, y int, c Cell) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d, expected 0 or 1", ErrInvalidState, c)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.setCell(x, y, c)
}

//InvertCellState flips the cell at x, y
func (w *World) InvertCellState(x int, y int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, err := w.world.Get(x, y)
	if err != nil {
		return err
	}
	return w.setCell(x, y, Alive-prev)
}

//setCell keeps the population counter in step with the grid, the lock must be held
func (w *World) setCell(x int, y int, c Cell) error {
	prev, err := w.world.Get(x, y)
	if err != nil {
		return err
	}
	if prev == c {
		return nil
	}
	w.world.Cells[y][x] = c
	if c == Alive {
		w.population++
	} else {
		w.population--
	}
	return nil
}

//Tick computes the next generation and swaps it in
//population is recounted from the new grid rather than taken from the incremental counter
func (w *World) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()
	start := time.Now()
	next, live, changed := w.nextGeneration(w.world, w.rules)
	w.world = next
	w.population = live
	w.changed = changed
	w.tickCount++
	w.tickTime = time.Since(start)
}

//LoadWorld replaces the current and the initial grid with copies of rows
//rows are validated before anything is replaced, the rule set is kept
func (w *World) LoadWorld(rows [][]Cell) error {
	g, err := GridFromRows(rows)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.world = g
	w.initialWorld = g.Clone()
	w.population = g.LiveCells()
	w.initialPopulation = w.population
	w.tickCount = 0
	w.changed = false
	return nil
}

//Reset restores the grid committed by LoadWorld, Clear or SyncInitialState
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.world = w.initialWorld.Clone()
	w.population = w.world.LiveCells()
	w.tickCount = 0
	w.changed = false
}

//Clear kills all cells of both grids and resets the counters
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clear(w.world.Size)
}

func (w *World) clear(size int) {
	w.world = NewGrid(size)
	w.initialWorld = NewGrid(size)
	w.population = 0
	w.initialPopulation = 0
	w.tickCount = 0
	w.changed = false
}

//Resize changes the grid dimension, the cells are always discarded
func (w *World) Resize(size int) error {
	if size <= 0 || size > MaxSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clear(size)
	return nil
}

//SyncInitialState commits the current grid as the one Reset restores
func (w *World) SyncInitialState() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.initialWorld = w.world.Clone()
	w.initialPopulation = w.population
}
