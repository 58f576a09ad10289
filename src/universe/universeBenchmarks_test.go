package universe

import (
	"testing"
)

const (
	benchSize = 200
)

func newBenchOptions(engine string) *Options {
	o := DefaultOptions
	o.Delay = 0
	o.Size = benchSize
	o.Engine = engine
	o.MaxTicks = 100
	return &o
}

func Benchmark_Tick(b *testing.B) {
	for _, e := range EngineNames() {
		b.Run(e, func(b *testing.B) {
			w, err := NewWorld(newBenchOptions(e))
			if err != nil {
				b.Fatal(err)
			}
			w.Randomize(1, 0.3)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w.Tick()
			}
		})
	}
}

func Benchmark_Loop(b *testing.B) {
	for _, e := range EngineNames() {
		b.Run(e, func(b *testing.B) {
			stateCh := make(chan Status, 10)
			l, err := New(newBenchOptions(e), stateCh)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				_ = l.Clear()
				<-stateCh //wait for finish
				_ = l.SettleTemplate("testSample")
				<-stateCh
				b.StartTimer()
				_ = l.Start()
				for {
					st := <-stateCh
					if st.RunningMode == RunningStateFinished {
						break
					}
				}
			}
			l.Close()
			close(stateCh)
		})
	}
}
