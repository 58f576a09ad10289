/*
Package worldfile reads and writes world configuration files.

The format is plain text. The first line is the world size N, followed by N rows
of N space separated integers, 1 for an alive cell and 0 for a dead one:

	3
	0 1 1
	0 1 0
	1 0 0
*/
package worldfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cellworld/src/universe"
)

//Ext is the extension Save appends to file names
const Ext = ".txt"

//ErrIO is returned when a world file can't be opened, read or written
var ErrIO = errors.New("world file i/o")

//Decode parses a world configuration
//everything is validated before the rows are returned
func Decode(r io.Reader) ([][]universe.Cell, error) {
	sc := bufio.NewScanner(r)
	line := 0
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil, fmt.Errorf("%w: missing size line", universe.ErrMalformedGrid)
	}
	line++
	size, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("%w: line 1: size %q is not a positive integer", universe.ErrMalformedGrid, strings.TrimSpace(sc.Text()))
	}
	if size > universe.MaxSize {
		return nil, fmt.Errorf("%w: line 1: size %d exceeds %d", universe.ErrMalformedGrid, size, universe.MaxSize)
	}

	var rows [][]universe.Cell
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(rows) == size {
			//only blank lines may follow the last row
			if len(fields) != 0 {
				return nil, fmt.Errorf("%w: line %d: more than %d rows", universe.ErrMalformedGrid, line, size)
			}
			continue
		}
		if len(fields) != size {
			return nil, fmt.Errorf("%w: line %d: %d values, expected %d", universe.ErrMalformedGrid, line, len(fields), size)
		}
		row := make([]universe.Cell, size)
		for x, f := range fields {
			switch f {
			case "0":
				row[x] = universe.Dead
			case "1":
				row[x] = universe.Alive
			default:
				return nil, fmt.Errorf("%w: line %d: value %q is neither 0 nor 1", universe.ErrMalformedGrid, line, f)
			}
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if len(rows) < size {
		return nil, fmt.Errorf("%w: %d rows, expected %d", universe.ErrMalformedGrid, len(rows), size)
	}
	return rows, nil
}

//Encode writes the grid in the world configuration format, always N+1 lines
func Encode(w io.Writer, g universe.Grid) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(strconv.Itoa(g.Size))
	_ = bw.WriteByte('\n')
	for _, row := range g.Cells {
		for x, c := range row {
			if x != 0 {
				_ = bw.WriteByte(' ')
			}
			if c == universe.Alive {
				_ = bw.WriteByte('1')
			} else {
				_ = bw.WriteByte('0')
			}
		}
		_ = bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

//Load reads the world configuration file at path
func Load(path string) ([][]universe.Cell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	rows, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

//Save writes the grid to FormatFileName(path), creating or overwriting it
//and returns the name actually written
func Save(path string, g universe.Grid) (string, error) {
	name := FormatFileName(path)
	f, err := os.Create(name)
	if err != nil {
		return name, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = Encode(f, g); err != nil {
		_ = f.Close()
		return name, fmt.Errorf("%s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		return name, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return name, nil
}

//FormatFileName appends the .txt extension unless the name already has it
func FormatFileName(path string) string {
	if strings.HasSuffix(strings.ToLower(path), Ext) {
		return path
	}
	return path + Ext
}
