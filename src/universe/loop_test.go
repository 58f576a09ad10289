package universe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

//recorder is a viewer keeping all published frames
type recorder struct {
	u      Universe
	frames chan Frame
}

func newRecorder() *recorder {
	return &recorder{frames: make(chan Frame, 4096)}
}

func (r *recorder) Register(u Universe) {
	r.u = u
}

func (r *recorder) Refresh(f Frame) {
	select {
	case r.frames <- f:
	default:
	}
}

func (r *recorder) drain() []Frame {
	var fs []Frame
	for {
		select {
		case f := <-r.frames:
			fs = append(fs, f)
		default:
			return fs
		}
	}
}

func newTestLoop(t *testing.T, mutate func(o *Options)) *Loop {
	o := DefaultOptions
	o.Size = 5
	o.Delay = 0
	o.MaxTicks = 0
	if mutate != nil {
		mutate(&o)
	}
	l, err := New(&o, nil)
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func TestLoopStartStop(t *testing.T) {
	l := newTestLoop(t, nil)
	require.NoError(t, l.SettleTemplate("blinker"))
	assert.Equal(t, RunningStateStopped, l.RunningMode())

	require.NoError(t, l.Start())
	assert.Equal(t, RunningStateRun, l.RunningMode())
	require.Eventually(t, func() bool { return l.Status().TickCount >= 5 }, waitFor, time.Millisecond)

	require.NoError(t, l.Stop())
	assert.Equal(t, RunningStateStopped, l.RunningMode())
	ticks := l.Status().TickCount
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, ticks, l.Status().TickCount, "no ticks after stop")
	//blinker keeps 3 cells whatever the phase
	assert.Equal(t, 3, l.Status().Population)

	//start again continues from the current generation
	require.NoError(t, l.Start())
	require.Eventually(t, func() bool { return l.Status().TickCount >= ticks+3 }, waitFor, time.Millisecond)
	require.NoError(t, l.Stop())
}

func TestLoopFirstRunCommitsDrawing(t *testing.T) {
	l := newTestLoop(t, nil)
	require.NoError(t, l.SetCellState(0, 2, Alive))
	require.NoError(t, l.SetCellState(1, 2, Alive))
	require.NoError(t, l.SetCellState(2, 2, Alive))
	drawn := l.Snapshot()

	require.NoError(t, l.Start())
	require.Eventually(t, func() bool { return l.Status().TickCount >= 3 }, waitFor, time.Millisecond)

	require.NoError(t, l.Reset())
	st := l.Status()
	assert.Equal(t, RunningStateStopped, st.RunningMode)
	assert.Zero(t, st.TickCount)
	assert.Equal(t, 3, st.Population)
	assert.True(t, drawn.Equal(l.Snapshot()))
}

func TestLoopRestartDoesntRecommit(t *testing.T) {
	l := newTestLoop(t, nil)
	require.NoError(t, l.SettleTemplate("blinker"))
	initial := l.Snapshot()
	require.NoError(t, l.Step())
	//the world was ticked, so starting must keep the blinker as the reset target
	require.NoError(t, l.Start())
	require.Eventually(t, func() bool { return l.Status().TickCount >= 4 }, waitFor, time.Millisecond)
	require.NoError(t, l.Reset())
	assert.True(t, initial.Equal(l.Snapshot()))
}

func TestLoopStep(t *testing.T) {
	l := newTestLoop(t, nil)
	r := newRecorder()
	require.NoError(t, l.RegisterViewer(r))
	assert.Equal(t, l, r.u)
	require.NoError(t, l.SettleTemplate("blinker"))
	r.drain()

	require.NoError(t, l.Step())
	c, err := l.CellState(2, 1)
	require.NoError(t, err)
	assert.Equal(t, Alive, c)
	c, _ = l.CellState(1, 2)
	assert.Equal(t, Dead, c)

	fs := r.drain()
	require.Len(t, fs, 1)
	assert.Equal(t, int64(1), fs[0].TickCount)
	assert.Equal(t, 3, fs[0].Population)
	assert.True(t, fs[0].Grid.Equal(l.Snapshot()))
}

func TestLoopPublishesEveryTick(t *testing.T) {
	l := newTestLoop(t, func(o *Options) { o.MaxTicks = 20 })
	r := newRecorder()
	require.NoError(t, l.RegisterViewer(r))
	require.NoError(t, l.SettleTemplate("glider"))
	r.drain()

	require.NoError(t, l.Start())
	require.Eventually(t, func() bool { return l.RunningMode() == RunningStateFinished }, waitFor, time.Millisecond)

	ticks := map[int64]bool{}
	for _, f := range r.drain() {
		ticks[f.TickCount] = true
		assert.Equal(t, f.Population, f.Grid.LiveCells())
		assert.Equal(t, 5, f.Grid.Size)
	}
	for i := int64(1); i <= 20; i++ {
		assert.True(t, ticks[i], "tick %d was not published", i)
	}
	assert.Equal(t, int64(20), l.Status().TickCount)
}

func TestLoopStateChannel(t *testing.T) {
	o := DefaultOptions
	o.Size = 6
	o.Delay = 0
	o.MaxTicks = 10
	stateCh := make(chan Status, 64)
	l, err := New(&o, stateCh)
	require.NoError(t, err)
	defer l.Close()
	require.NoError(t, l.SettleTemplate("toad"))
	<-stateCh

	require.NoError(t, l.Start())
	for {
		st := <-stateCh
		if st.RunningMode == RunningStateFinished {
			assert.Equal(t, int64(10), st.TickCount)
			break
		}
	}
}

func TestLoopStopWhenStill(t *testing.T) {
	l := newTestLoop(t, func(o *Options) { o.StopWhenStill = true })
	require.NoError(t, l.SettleTemplate("block"))
	require.NoError(t, l.Start())
	require.Eventually(t, func() bool { return l.RunningMode() == RunningStateFinished }, waitFor, time.Millisecond)
	assert.Equal(t, int64(1), l.Status().TickCount)
	assert.False(t, l.Status().Changed)

	//an empty world dies out on the first tick as well
	require.NoError(t, l.Clear())
	require.NoError(t, l.Start())
	require.Eventually(t, func() bool { return l.RunningMode() == RunningStateFinished }, waitFor, time.Millisecond)
	assert.Equal(t, int64(1), l.Status().TickCount)
}

func TestLoopSetDelay(t *testing.T) {
	l := newTestLoop(t, nil)
	for _, c := range []struct {
		in   time.Duration
		want time.Duration
	}{
		{250 * time.Millisecond, 250 * time.Millisecond},
		{5 * time.Second, MaxDelay},
		{-time.Millisecond, 0},
		{0, 0},
		{MaxDelay, MaxDelay},
	} {
		require.NoError(t, l.SetDelay(c.in))
		assert.Equal(t, c.want, l.Delay())
		assert.Equal(t, c.want, l.Status().Delay)
	}
}

func TestLoopSlowDelayIsCancellable(t *testing.T) {
	l := newTestLoop(t, func(o *Options) { o.Delay = MaxDelay })
	require.NoError(t, l.Start())
	require.Eventually(t, func() bool { return l.Status().TickCount == 1 }, waitFor, time.Millisecond)
	start := time.Now()
	require.NoError(t, l.Stop())
	assert.Less(t, time.Since(start), MaxDelay/2, "stop waits for the pause")
	assert.Equal(t, int64(1), l.Status().TickCount)
}

func TestLoopClearAndResizeStop(t *testing.T) {
	l := newTestLoop(t, nil)
	require.NoError(t, l.SettleTemplate("blinker"))
	require.NoError(t, l.Start())
	require.NoError(t, l.Clear())
	assert.Equal(t, RunningStateStopped, l.RunningMode())
	assert.Zero(t, l.Status().TickCount)
	assert.Zero(t, l.Status().Population)

	require.NoError(t, l.Start())
	require.NoError(t, l.Resize(12))
	st := l.Status()
	assert.Equal(t, RunningStateStopped, st.RunningMode)
	assert.Equal(t, 12, st.Size)
	assert.Zero(t, st.TickCount)
	assert.Equal(t, 12, l.Options().Size)

	assert.ErrorIs(t, l.Resize(0), ErrInvalidSize)
	assert.Equal(t, 12, l.Status().Size)
}

func TestLoopLoadWorld(t *testing.T) {
	l := newTestLoop(t, nil)
	require.NoError(t, l.LoadWorld(rowsOf("011", "010", "100")))
	assert.Equal(t, 3, l.Status().Size)
	assert.Equal(t, 4, l.Status().Population)

	err := l.LoadWorld(rowsOf("011", "01", "100"))
	assert.ErrorIs(t, err, ErrMalformedGrid)
	assert.Equal(t, 3, l.Status().Size)
	assert.Equal(t, 4, l.Status().Population)
}

func TestLoopCellEditsValidate(t *testing.T) {
	l := newTestLoop(t, nil)
	assert.ErrorIs(t, l.SetCellState(5, 0, Alive), ErrOutOfRange)
	assert.ErrorIs(t, l.SetCellState(0, 0, Cell(7)), ErrInvalidState)
	assert.ErrorIs(t, l.InvertCellState(0, -1), ErrOutOfRange)
	assert.ErrorIs(t, l.SettleTemplate("unknown"), ErrUnknownTemplate)
	require.NoError(t, l.InvertCellState(4, 4))
	assert.Equal(t, 1, l.Status().Population)
}

func TestLoopRandomize(t *testing.T) {
	l := newTestLoop(t, func(o *Options) { o.Size = 20 })
	require.NoError(t, l.Randomize(3, 0.5))
	pop := l.Status().Population
	assert.Greater(t, pop, 0)
	assert.Less(t, pop, 400)
	assert.Equal(t, pop, l.Snapshot().LiveCells())
	assert.Error(t, l.Randomize(3, 1.5))
}

func TestLoopClose(t *testing.T) {
	l, err := New(nil, nil)
	require.NoError(t, err)
	require.NoError(t, l.Start())
	l.Close()
	l.Close()
	assert.ErrorIs(t, l.Start(), ErrClosed)
	assert.ErrorIs(t, l.Stop(), ErrClosed)
	assert.ErrorIs(t, l.SetDelay(0), ErrClosed)
	//queries keep working
	assert.Equal(t, DefSize, l.Status().Size)
}

func TestLoopEditsWhileRunning(t *testing.T) {
	l := newTestLoop(t, func(o *Options) { o.Size = 30 })
	require.NoError(t, l.Randomize(11, 0.3))
	require.NoError(t, l.Start())
	for i := 0; i < 200; i++ {
		require.NoError(t, l.InvertCellState(i%30, (i*7)%30))
		assert.Equal(t, 30, l.Status().Size)
	}
	require.NoError(t, l.Stop())
	w := l.World()
	assert.Equal(t, w.Snapshot().LiveCells(), w.Population())
}
