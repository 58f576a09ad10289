package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"cellworld/src/universe"
)

//ConsoleOut is the headless viewer, prints the progress and the final summary
type ConsoleOut struct {
	u         universe.Universe
	out       io.Writer
	every     int64
	startTime time.Time
	finished  bool
}

func NewConsoleOut() *ConsoleOut {
	return NewConsoleOutTo(os.Stdout, 10)
}

//NewConsoleOutTo creates ConsoleOut writing to out and reporting every n ticks
func NewConsoleOutTo(out io.Writer, every int64) *ConsoleOut {
	if every < 1 {
		every = 1
	}
	return &ConsoleOut{out: out, every: every}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := u.Options()
	fmt.Fprintln(c.out, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Dimension":      fmt.Sprintf("%v x %v", o.Size, o.Size),
		"Interval":       o.Delay,
		"Max iterations": o.MaxTicks,
		"Rules":          o.Rules,
		"Engine":         o.Engine,
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.out, "\nSimulation started...")
}

func (c *ConsoleOut) Refresh(f universe.Frame) {
	switch f.RunningMode {
	case universe.RunningStateFinished:
		if c.finished {
			return
		}
		c.finished = true
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		fmt.Fprintln(c.out, "\nFinished:")
		c.printHashData(map[string]interface{}{
			"Last iteration": f.TickCount,
			"Total time":     totalTime,
			"Live cells":     f.Population,
		})
	case universe.RunningStateRun:
		c.finished = false
		if f.TickCount > 0 && f.TickCount%c.every == 0 {
			fmt.Fprintf(c.out, "  Iterations done: %v, live cells: %v\n", f.TickCount, f.Population)
		}
	}
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.out, "  %s: %v\n", propName, d[propName])
	}
}
