package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/integrii/flaggy"

	"cellworld/src/config"
	"cellworld/src/universe"
	"cellworld/src/view"
	"cellworld/src/worldfile"
)

func main() {
	c := initConfig()

	o, err := c.Options()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var stateCh chan universe.Status
	if !c.Interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the simulation status
	}

	u, err := universe.New(&o, stateCh)
	if err != nil {
		log.Fatalf("can't create the world: %v", err)
	}

	if err = settle(u, c); err != nil {
		log.Fatal(err)
	}

	if c.Interactive {
		v := view.NewViewTerminal(view.UIOptions{
			WorldFile: c.WorldFile,
			Output:    c.Output,
			Seed:      c.Seed,
			Density:   c.Density,
		})
		if err = u.RegisterViewer(v); err != nil {
			log.Fatal(err)
		}
		v.Start()
		u.Close()
		return
	}

	if o.MaxTicks == 0 && !o.StopWhenStill {
		log.Fatal("headless mode needs --maxTicks or --still to finish")
	}
	v := view.NewConsoleOut()
	if err = u.RegisterViewer(v); err != nil {
		log.Fatal(err)
	}
	v.Start()
	if err = u.Start(); err != nil {
		log.Fatal(err)
	}
	for st := range stateCh {
		if st.RunningMode == universe.RunningStateFinished {
			break
		}
	}
	//the loop is finished, nothing writes the stateCh any more
	u.Close()
	close(stateCh)

	if c.Output != "" {
		name, err := worldfile.Save(c.Output, u.Snapshot())
		if err != nil {
			log.Fatalf("can't save the world: %v", err)
		}
		fmt.Printf("The world is saved to %s\n", name)
	}
}

//settle populates the world from the file, the random data or the template
func settle(u *universe.Loop, c config.Config) error {
	switch {
	case c.WorldFile != "":
		rows, err := worldfile.Load(c.WorldFile)
		if err != nil {
			return err
		}
		return u.LoadWorld(rows)
	case c.Random:
		return u.Randomize(c.Seed, c.Density)
	case c.Template != "":
		return u.SettleTemplate(c.Template)
	}
	return nil
}

//initConfig loads the config file if given and applies the command line flags on top of it
func initConfig() config.Config {
	var (
		configFile string
		worldFile  string
		c          config.Config
	)
	flaggy.SetName("cellworld")
	flaggy.SetDescription("\"The Life\" family cellular automaton on a finite square world")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&configFile, "c", "config", "TOML configuration file, flags override its values")
	flaggy.AddPositionalValue(&worldFile, "world", 1, false, "World configuration file to start from")

	flagValues := config.Default()
	flaggy.Int(&flagValues.Size, "s", "size", "Size of the square world")
	flaggy.Duration(&flagValues.Delay, "i", "interval", "Pause between the ticks in format the number with 'ms' suffix, for example 150ms, 0..1s")
	flaggy.Int64(&flagValues.MaxTicks, "m", "maxTicks", "Limit the simulation to maxTicks, 0 is unlimited")
	flaggy.Bool(&flagValues.StopWhenStill, "", "still", "Finish when the world dies out or stops changing")
	flaggy.Bool(&flagValues.Interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&flagValues.Random, "r", "random", "Settle with random data")
	flaggy.Float64(&flagValues.Density, "d", "density", "Density of the random data, 0..1")
	flaggy.Int64(&flagValues.Seed, "", "seed", "Seed of the random data")
	flaggy.String(&flagValues.Template, "t", "template", "Settle with the template [blinker|block|glider|toad|beacon|testSample]")
	flaggy.String(&flagValues.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	flaggy.Int(&flagValues.Workers, "w", "workers", "Goroutines of the parallel engine")
	flaggy.String(&flagValues.Output, "o", "output", "File to save the world to")
	flaggy.Int(&flagValues.Rules.BornMin, "", "bornMin", "Minimum live neighbours for a dead cell to be born")
	flaggy.Int(&flagValues.Rules.BornMax, "", "bornMax", "Maximum live neighbours for a dead cell to be born")
	flaggy.Int(&flagValues.Rules.SurviveMin, "", "surviveMin", "Minimum live neighbours for a live cell to survive")
	flaggy.Int(&flagValues.Rules.SurviveMax, "", "surviveMax", "Maximum live neighbours for a live cell to survive")

	flaggy.Parse()

	if configFile != "" {
		fc, err := config.Load(configFile)
		if err != nil {
			log.Fatal(err)
		}
		c = config.Override(fc, flagValues)
	} else {
		c = flagValues
	}
	if worldFile != "" {
		c.WorldFile = worldFile
	}
	return c
}
