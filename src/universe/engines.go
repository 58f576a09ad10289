package universe

import (
	"fmt"
	"sort"
)

//generator computes the generation following cur
//it must not modify cur, the returned grid is owned by the world afterwards
type generator func(cur Grid, rules RuleSet) (next Grid, live int, changed bool)

var engines = map[string]func(o *Options) generator{
	"base": func(*Options) generator {
		return nextGeneration
	},
	"buffered": func(*Options) generator {
		return newBufferedGenerator().next
	},
	"parallel": func(o *Options) generator {
		return newParallelGenerator(o.Workers).next
	},
}

//EngineNames returns the sorted names of the available engines
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for k := range engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func newGenerator(o *Options) (generator, error) {
	name := o.Engine
	if name == "" {
		name = DefEngine
	}
	f, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return f(o), nil
}

//nextGeneration is the simplest generator: creates the new grid with full size on each call
//All cells state is calculated to the new grid which then replaces the old one
func nextGeneration(cur Grid, rules RuleSet) (next Grid, live int, changed bool) {
	next = NewGrid(cur.Size)
	live, changed = calcRows(cur, next, rules, 0, cur.Size)
	return
}

//calcRows calculates the rows [y1, y2) of next from cur
func calcRows(cur Grid, next Grid, rules RuleSet, y1 int, y2 int) (live int, changed bool) {
	for y := y1; y < y2; y++ {
		row := cur.Cells[y]
		for x, c := range row {
			n := rules.Next(c, cur.neighbours(x, y))
			if n == Alive {
				live++
			}
			changed = changed || n != c
			next.Cells[y][x] = n
		}
	}
	return
}
