package universe

import (
	"fmt"
	"math/rand"
	"sort"
)

//Template represent the seeding template which can used to settle the world with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

var DefaultTemplates = []Template{
	{"blinker", "period 2 oscillator", [][]int{{1, 2}, {2, 2}, {3, 2}}},
	{"block", "still life", [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}},
	{"glider", "moves one cell diagonally every 4 ticks", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	{"toad", "period 2 oscillator", [][]int{{2, 2}, {3, 2}, {4, 2}, {1, 3}, {2, 3}, {3, 3}}},
	{"beacon", "period 2 oscillator", [][]int{{1, 1}, {2, 1}, {1, 2}, {4, 3}, {3, 4}, {4, 4}}},
	{"testSample", "3 stable patterns", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}

//AddTemplate adds the seeding template to the internal storage
//the world can be populated with this template by call SettleTemplate
func (w *World) AddTemplate(tmpl Template) {
	w.mu.Lock()
	w.templates[tmpl.Name] = tmpl
	w.mu.Unlock()
}

//TemplateNames returns the sorted names of the known templates
func (w *World) TemplateNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.templates))
	for k := range w.templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//SettleTemplate populates the world with the seeding template
func (w *World) SettleTemplate(name string) error {
	w.mu.RLock()
	tmpl, ok := w.templates[name]
	w.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	w.Settle(tmpl.Coordinates)
	return nil
}

//Settle makes the cells alive at the given coordinates
//vc - array of x,y coordinates, the ones outside the grid are skipped
func (w *World) Settle(vc [][]int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, v := range vc {
		if len(v) < 2 || !w.world.InRange(v[0], v[1]) {
			continue
		}
		_ = w.setCell(v[0], v[1], Alive)
	}
}

//Randomize replaces the grid with random data
//density is the probability of a cell to be alive
func (w *World) Randomize(seed int64, density float64) {
	rng := rand.New(rand.NewSource(seed))
	w.mu.Lock()
	defer w.mu.Unlock()
	for y := range w.world.Cells {
		for x := range w.world.Cells[y] {
			c := Dead
			if rng.Float64() < density {
				c = Alive
			}
			_ = w.setCell(x, y, c)
		}
	}
}
