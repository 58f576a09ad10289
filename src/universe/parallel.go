package universe

import (
	"golang.org/x/sync/errgroup"
)

/*
	Generator with multithreaded computation algorithm
	the field is splitted into the row bands each of which is computed by individual goroutine
*/

const (
	DefMinRowsPerWorker = 3 //minimum rows for one worker
)

type parallelGenerator struct {
	workers int
}

//band describes the rows [y1, y2) computed by one worker
type band struct {
	y1        int
	y2        int
	liveCells int
	changed   bool
}

func newParallelGenerator(workers int) *parallelGenerator {
	if workers < 1 {
		workers = 1
	}
	return &parallelGenerator{workers: workers}
}

//bands splits size rows into roughly equal bands, one per worker
func (p *parallelGenerator) bands(size int) []band {
	rowsPerWorker := size / p.workers
	if rowsPerWorker < DefMinRowsPerWorker {
		rowsPerWorker = DefMinRowsPerWorker
	} else if rowsPerWorker*p.workers < size {
		rowsPerWorker++
	}
	bands := make([]band, 0, p.workers)
	for y1 := 0; y1 < size; y1 += rowsPerWorker {
		y2 := y1 + rowsPerWorker
		if y2 > size {
			y2 = size
		}
		bands = append(bands, band{y1: y1, y2: y2})
	}
	return bands
}

//next starts goroutines, waits for them and merges the band metrics
func (p *parallelGenerator) next(cur Grid, rules RuleSet) (next Grid, live int, changed bool) {
	next = NewGrid(cur.Size)
	bands := p.bands(cur.Size)
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := range bands {
		b := &bands[i]
		g.Go(func() error {
			b.liveCells, b.changed = calcRows(cur, next, rules, b.y1, b.y2)
			return nil
		})
	}
	//workers never fail
	_ = g.Wait()
	for _, b := range bands {
		live += b.liveCells
		changed = changed || b.changed
	}
	return
}
