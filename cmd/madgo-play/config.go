package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config holds every option the host accepts, whether supplied on the
// command line or loaded from a YAML file. CLI flags always win over
// config file values when both are set.
type config struct {
	In        string `yaml:"in"`
	Out       string `yaml:"out"`
	Play      bool   `yaml:"play"`
	IgnoreCRC bool   `yaml:"ignoreCRC"`
}

func loadConfig(path string) (config, error) {
	var c config
	if path == "" {
		return c, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "could not read config file")
	}
	if err := yaml.Unmarshal(buf, &c); err != nil {
		return c, errors.Wrap(err, "could not parse config file")
	}
	return c, nil
}

// merge overlays the fields whose flags were set on the command line
// onto the config loaded from file, so an unset flag never clobbers a
// configured value.
func (c config) merge(flags config, setIn, setOut, setPlay, setIgnoreCRC bool) config {
	if setIn {
		c.In = flags.In
	}
	if setOut {
		c.Out = flags.Out
	}
	if setPlay {
		c.Play = flags.Play
	}
	if setIgnoreCRC {
		c.IgnoreCRC = flags.IgnoreCRC
	}
	return c
}
