package universe

import "fmt"

//Cell is the state of one cell of the world
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//Valid reports whether c is one of Dead or Alive
func (c Cell) Valid() bool {
	return c == Dead || c == Alive
}

func (c Cell) String() string {
	switch c {
	case Dead:
		return "dead"
	case Alive:
		return "alive"
	}
	return fmt.Sprintf("Cell(%d)", uint8(c))
}

//Grid is a square field of cells
//Cells is indexed as Cells[y][x], each row is one line of the world file
type Grid struct {
	Size  int
	Cells [][]Cell
}

//NewGrid allocates the all-dead grid with the given size
//all rows share one backing array
func NewGrid(size int) Grid {
	g := Grid{Size: size, Cells: make([][]Cell, size)}
	b := make([]Cell, size*size)
	for i := range g.Cells {
		start := size * i
		g.Cells[i] = b[start : start+size : start+size]
	}
	return g
}

//GridFromRows validates rows and returns a deep copy of them as a Grid
//rows must be non-empty, square and contain only Dead or Alive values
func GridFromRows(rows [][]Cell) (Grid, error) {
	size := len(rows)
	if size == 0 {
		return Grid{}, fmt.Errorf("%w: empty grid", ErrMalformedGrid)
	}
	g := NewGrid(size)
	for y, row := range rows {
		if len(row) != size {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrMalformedGrid, y, len(row), size)
		}
		for x, c := range row {
			if !c.Valid() {
				return Grid{}, fmt.Errorf("%w: cell (%d,%d) has value %d", ErrMalformedGrid, x, y, c)
			}
		}
		copy(g.Cells[y], row)
	}
	return g, nil
}

//Clone returns the deep copy of the grid
func (g Grid) Clone() Grid {
	c := NewGrid(g.Size)
	for y := range g.Cells {
		copy(c.Cells[y], g.Cells[y])
	}
	return c
}

//InRange reports whether x, y addresses a cell of the grid
func (g Grid) InRange(x int, y int) bool {
	return x >= 0 && y >= 0 && x < g.Size && y < g.Size
}

//Get returns the cell state at x, y
func (g Grid) Get(x int, y int) (Cell, error) {
	if !g.InRange(x, y) {
		return Dead, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfRange, x, y, g.Size, g.Size)
	}
	return g.Cells[y][x], nil
}

//LiveCells counts the live cells
func (g Grid) LiveCells() int {
	live := 0
	for y := range g.Cells {
		for _, c := range g.Cells[y] {
			if c == Alive {
				live++
			}
		}
	}
	return live
}

//Equal reports whether both grids have the same size and cells
func (g Grid) Equal(o Grid) bool {
	if g.Size != o.Size {
		return false
	}
	for y := range g.Cells {
		for x := range g.Cells[y] {
			if g.Cells[y][x] != o.Cells[y][x] {
				return false
			}
		}
	}
	return true
}

//neighbours counts live cells of the Moore neighbourhood of x, y
//cells outside the grid don't count, there is no wrapping
func (g Grid) neighbours(x int, y int) int {
	n := 0
	for j := y - 1; j <= y+1; j++ {
		if j < 0 || j >= g.Size {
			continue
		}
		row := g.Cells[j]
		for i := x - 1; i <= x+1; i++ {
			if i < 0 || i >= g.Size || (i == x && j == y) {
				continue
			}
			if row[i] == Alive {
				n++
			}
		}
	}
	return n
}
