package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jcorbin/kforth/internal/device"
)

// config is the optional TOML configuration of the kforth command.
type config struct {
	Memory  memoryConfig   `toml:"memory"`
	REPL    replConfig     `toml:"repl"`
	Devices []deviceConfig `toml:"device"`
}

type memoryConfig struct {
	CodeCells   int `toml:"code_cells"`
	DataCells   int `toml:"data_cells"`
	DataStack   int `toml:"data_stack"`
	ReturnStack int `toml:"return_stack"`
	Dictionary  int `toml:"dictionary"`
}

type replConfig struct {
	// Prompt is one of "auto", "on", or "off"; empty means auto.
	Prompt  string `toml:"prompt"`
	Prelude *bool  `toml:"prelude"`
	// History names a file keeping line editing history across sessions.
	History string `toml:"history"`
}

// deviceConfig binds an extra device handle.
type deviceConfig struct {
	Handle int32  `toml:"handle"`
	Kind   string `toml:"kind"`
	Limit  int    `toml:"limit"`
}

func parseConfig(data string) (cfg config, err error) {
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, key := range keys {
			names[i] = key.String()
		}
		return cfg, fmt.Errorf("unknown config keys: %v", strings.Join(names, ", "))
	}
	return cfg, cfg.validate()
}

func loadConfig(name string) (config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return config{}, fmt.Errorf("cannot read config: %w", err)
	}
	cfg, err := parseConfig(string(data))
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", name, err)
	}
	return cfg, nil
}

func (cfg config) validate() error {
	switch cfg.REPL.Prompt {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("invalid repl.prompt %q, must be auto, on, or off", cfg.REPL.Prompt)
	}
	for _, dc := range cfg.Devices {
		if dc.Handle == 0 {
			return fmt.Errorf("device handle 0 is reserved for the console")
		}
		if _, err := dc.port(); err != nil {
			return err
		}
	}
	return nil
}

func (dc deviceConfig) port() (device.Port, error) {
	switch dc.Kind {
	case "loopback":
		return &device.Loopback{Limit: dc.Limit}, nil
	case "null":
		return device.Null{}, nil
	}
	return nil, fmt.Errorf("invalid device kind %q for handle %v", dc.Kind, dc.Handle)
}

func (cfg config) sizes() Sizes {
	return Sizes{
		CodeCells:   cfg.Memory.CodeCells,
		DataCells:   cfg.Memory.DataCells,
		DataStack:   cfg.Memory.DataStack,
		ReturnStack: cfg.Memory.ReturnStack,
		Dictionary:  cfg.Memory.Dictionary,
	}
}

// options returns VM options for everything configured besides prompting
// and the prelude, which depend on the command line as well.
func (cfg config) options() []VMOption {
	opts := []VMOption{WithSizes(cfg.sizes())}
	for _, dc := range cfg.Devices {
		port, _ := dc.port()
		opts = append(opts, WithDevice(dc.Handle, port))
	}
	return opts
}
