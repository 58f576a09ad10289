package config

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"cellworld/src/universe"
)

//Rules is the [rules] table of the configuration file
type Rules struct {
	BornMin    int `toml:"born_min"`
	BornMax    int `toml:"born_max"`
	SurviveMin int `toml:"survive_min"`
	SurviveMax int `toml:"survive_max"`
}

//Config represents the application configuration
//it's loaded from a TOML file and overridden by the command line flags
type Config struct {
	Size          int           `toml:"size"`
	Delay         time.Duration `toml:"delay"`
	MaxTicks      int64         `toml:"max_ticks"`
	StopWhenStill bool          `toml:"stop_when_still"`
	Engine        string        `toml:"engine"`
	Workers       int           `toml:"workers"`
	Rules         Rules         `toml:"rules"`

	Interactive bool    `toml:"interactive"`
	Random      bool    `toml:"random"`
	Density     float64 `toml:"density"`
	Seed        int64   `toml:"seed"`
	Template    string  `toml:"template"`
	WorldFile   string  `toml:"world_file"`
	Output      string  `toml:"output"`
}

//Default returns the configuration with the default values
func Default() Config {
	r := universe.ClassicRules
	return Config{
		Size:     universe.DefSize,
		Delay:    universe.DefDelay,
		MaxTicks: universe.DefMaxTicks,
		Engine:   universe.DefEngine,
		Workers:  runtime.GOMAXPROCS(0),
		Rules: Rules{
			BornMin:    r.BornMin,
			BornMax:    r.BornMax,
			SurviveMin: r.SurviveMin,
			SurviveMax: r.SurviveMax,
		},
		Density: 0.3,
		Seed:    1,
	}
}

//Load reads the TOML file at path on top of the default configuration
//unknown keys are reported as an error
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return c, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return c, nil
}

//RuleSet converts the [rules] table
func (c Config) RuleSet() universe.RuleSet {
	return universe.RuleSet{
		BornMin:    c.Rules.BornMin,
		BornMax:    c.Rules.BornMax,
		SurviveMin: c.Rules.SurviveMin,
		SurviveMax: c.Rules.SurviveMax,
	}
}

//Options validates the configuration and converts it to the universe options
func (c Config) Options() (universe.Options, error) {
	o := universe.Options{
		Size:          c.Size,
		Rules:         c.RuleSet(),
		Engine:        c.Engine,
		Workers:       c.Workers,
		Delay:         universe.ClampDelay(c.Delay),
		MaxTicks:      c.MaxTicks,
		StopWhenStill: c.StopWhenStill,
	}
	if o.Size <= 0 || o.Size > universe.MaxSize {
		return o, fmt.Errorf("%w: %d, expected 1..%d", universe.ErrInvalidSize, o.Size, universe.MaxSize)
	}
	if err := o.Rules.Validate(); err != nil {
		return o, err
	}
	if !contains(universe.EngineNames(), o.Engine) {
		return o, fmt.Errorf("%w: %q, expected one of %s", universe.ErrUnknownEngine, o.Engine, strings.Join(universe.EngineNames(), "|"))
	}
	if o.MaxTicks < 0 {
		return o, fmt.Errorf("max ticks %d is negative", o.MaxTicks)
	}
	if c.Density < 0 || c.Density > 1 {
		return o, fmt.Errorf("density %v outside [0, 1]", c.Density)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

//Override returns base with every field of flags which differs from its default value
//a flag explicitly set to its default value doesn't override the file
func Override(base Config, flags Config) Config {
	d := Default()
	c := base
	if flags.Size != d.Size {
		c.Size = flags.Size
	}
	if flags.Delay != d.Delay {
		c.Delay = flags.Delay
	}
	if flags.MaxTicks != d.MaxTicks {
		c.MaxTicks = flags.MaxTicks
	}
	if flags.StopWhenStill != d.StopWhenStill {
		c.StopWhenStill = flags.StopWhenStill
	}
	if flags.Engine != d.Engine {
		c.Engine = flags.Engine
	}
	if flags.Workers != d.Workers {
		c.Workers = flags.Workers
	}
	if flags.Rules != d.Rules {
		c.Rules = flags.Rules
	}
	if flags.Interactive != d.Interactive {
		c.Interactive = flags.Interactive
	}
	if flags.Random != d.Random {
		c.Random = flags.Random
	}
	if flags.Density != d.Density {
		c.Density = flags.Density
	}
	if flags.Seed != d.Seed {
		c.Seed = flags.Seed
	}
	if flags.Template != d.Template {
		c.Template = flags.Template
	}
	if flags.WorldFile != d.WorldFile {
		c.WorldFile = flags.WorldFile
	}
	if flags.Output != d.Output {
		c.Output = flags.Output
	}
	return c
}
