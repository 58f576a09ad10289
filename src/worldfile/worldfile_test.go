package worldfile

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellworld/src/universe"
)

func TestDecodeExample(t *testing.T) {
	rows, err := Decode(strings.NewReader("3\n0 1 1\n0 1 0\n1 0 0\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]universe.Cell{
		{0, 1, 1},
		{0, 1, 0},
		{1, 0, 0},
	}, rows)
}

func TestDecodeTolerance(t *testing.T) {
	for name, in := range map[string]string{
		"no final newline":  "2\n1 0\n0 1",
		"trailing spaces":   "2 \n1 0 \n0 1 \n",
		"crlf":              "2\r\n1 0\r\n0 1\r\n",
		"trailing blank":    "2\n1 0\n0 1\n\n\n",
		"double separators": "2\n1  0\n0\t1\n",
	} {
		t.Run(name, func(t *testing.T) {
			rows, err := Decode(strings.NewReader(in))
			require.NoError(t, err)
			assert.Equal(t, [][]universe.Cell{{1, 0}, {0, 1}}, rows)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	for name, in := range map[string]string{
		"empty":          "",
		"size not int":   "three\n",
		"size zero":      "0\n",
		"size negative":  "-2\n1 0\n0 1\n",
		"huge size":      "9223372036854775807\n0 1\n",
		"size overflow":  "99999999999999999999\n0 1\n",
		"size too large": "4097\n0 1\n",
		"short row":      "3\n0 1\n0 1 0\n1 0 0",
		"long row":       "2\n1 0 1\n0 1\n",
		"bad token":      "2\n1 2\n0 1\n",
		"word token":     "2\n1 x\n0 1\n",
		"missing rows":   "3\n0 1 1\n0 1 0\n",
		"extra rows":     "2\n1 0\n0 1\n1 1\n",
		"blank mid rows": "2\n1 0\n\n0 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			assert.ErrorIs(t, err, universe.ErrMalformedGrid)
		})
	}
}

func TestEncode(t *testing.T) {
	g, err := universe.GridFromRows([][]universe.Cell{
		{0, 1, 1},
		{0, 1, 0},
		{1, 0, 0},
	})
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, Encode(&b, g))
	assert.Equal(t, "3\n0 1 1\n0 1 0\n1 0 0\n", b.String())
	assert.Equal(t, 4, strings.Count(b.String(), "\n"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(5))
	for _, size := range []int{1, 2, 7, 50, 100} {
		g := universe.NewGrid(size)
		for y := range g.Cells {
			for x := range g.Cells[y] {
				if rng.Intn(3) == 0 {
					g.Cells[y][x] = universe.Alive
				}
			}
		}
		name, err := Save(filepath.Join(dir, "world"), g)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "world.txt"), name)

		rows, err := Load(name)
		require.NoError(t, err)
		loaded, err := universe.GridFromRows(rows)
		require.NoError(t, err)
		assert.True(t, g.Equal(loaded), "size %d", size)
	}
}

func TestSaveOverwrites(t *testing.T) {
	name := filepath.Join(t.TempDir(), "w.txt")
	require.NoError(t, os.WriteFile(name, []byte("garbage that is longer than the world\n"), 0o644))
	_, err := Save(name, universe.NewGrid(1))
	require.NoError(t, err)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "1\n0\n", string(data))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Save(filepath.Join(t.TempDir(), "no", "such", "dir", "w"), universe.NewGrid(2))
	assert.ErrorIs(t, err, ErrIO)
}

func TestMalformedFileKeepsWorld(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(name, []byte("3\n0 1\n0 1 0\n1 0 0"), 0o644))

	w, err := universe.NewWorld(nil)
	require.NoError(t, err)
	require.NoError(t, w.SettleTemplate("glider"))
	before := w.Snapshot()

	//a world is loaded only from a file which decodes
	reload := func(path string) error {
		rows, err := Load(path)
		if err != nil {
			return err
		}
		return w.LoadWorld(rows)
	}

	assert.ErrorIs(t, reload(name), universe.ErrMalformedGrid)
	assert.True(t, before.Equal(w.Snapshot()))
	assert.Equal(t, 5, w.Population())

	good := filepath.Join(t.TempDir(), "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("3\n0 1 1\n0 1 0\n1 0 0\n"), 0o644))
	require.NoError(t, reload(good))
	assert.Equal(t, 3, w.Size())
	assert.Equal(t, 4, w.Population())
	after := w.Snapshot()

	assert.ErrorIs(t, reload(filepath.Join(t.TempDir(), "missing.txt")), ErrIO)
	assert.True(t, after.Equal(w.Snapshot()))
	assert.Equal(t, 4, w.Population())
}

func TestFormatFileName(t *testing.T) {
	assert.Equal(t, "a.txt", FormatFileName("a"))
	assert.Equal(t, "a.txt", FormatFileName("a.txt"))
	assert.Equal(t, "a.TXT", FormatFileName("a.TXT"))
	assert.Equal(t, "a.dat.txt", FormatFileName("a.dat"))
}
