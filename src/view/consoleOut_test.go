package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellworld/src/universe"
)

func TestConsoleOutHeadlessRun(t *testing.T) {
	o := universe.DefaultOptions
	o.Size = 8
	o.Delay = 0
	o.MaxTicks = 25
	stateCh := make(chan universe.Status, 64)
	l, err := universe.New(&o, stateCh)
	require.NoError(t, err)
	defer l.Close()

	var out bytes.Buffer
	c := NewConsoleOutTo(&out, 10)
	require.NoError(t, l.RegisterViewer(c))
	require.NoError(t, l.SettleTemplate("glider"))
	c.Start()
	require.NoError(t, l.Start())

	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case st := <-stateCh:
			done = st.RunningMode == universe.RunningStateFinished
		case <-timeout:
			t.Fatal("the loop didn't finish")
		}
	}

	text := out.String()
	assert.Contains(t, text, "Running configuration:")
	assert.Contains(t, text, "Dimension: 8 x 8")
	assert.Contains(t, text, "Engine: base")
	assert.Contains(t, text, "Iterations done: 10")
	assert.Contains(t, text, "Iterations done: 20")
	assert.Contains(t, text, "Last iteration: 25")
	assert.Equal(t, 1, strings.Count(text, "Finished:"))
}

func TestConsoleOutIgnoresStoppedFrames(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleOutTo(&out, 0)
	c.Refresh(universe.Frame{Status: universe.Status{TickCount: 3, RunningMode: universe.RunningStateStopped}})
	assert.Empty(t, out.String())
	c.Refresh(universe.Frame{Status: universe.Status{TickCount: 3, RunningMode: universe.RunningStateRun}})
	assert.Contains(t, out.String(), "Iterations done: 3")
}
