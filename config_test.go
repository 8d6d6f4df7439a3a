package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[memory]
data_cells = 4096
data_stack = 64

[repl]
prompt = "on"
prelude = false
history = ".kforth_history"

[[device]]
handle = 1
kind = "loopback"
limit = 16

[[device]]
handle = 2
kind = "null"
`

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig(testConfig)
	require.NoError(t, err)
	assert.Equal(t, Sizes{DataCells: 4096, DataStack: 64}, cfg.sizes())
	assert.Equal(t, "on", cfg.REPL.Prompt)
	assert.Equal(t, ".kforth_history", cfg.REPL.History)
	if assert.NotNil(t, cfg.REPL.Prelude) {
		assert.False(t, *cfg.REPL.Prelude)
	}
	assert.Len(t, cfg.Devices, 2)
	assert.Len(t, cfg.options(), 3)

	cfg, err = parseConfig(``)
	require.NoError(t, err)
	assert.Equal(t, Sizes{}, cfg.sizes())
	assert.Nil(t, cfg.REPL.Prelude)

	for _, tc := range []struct {
		name   string
		config string
		err    string
	}{
		{"unknown key", "[memory]\nbogus = 1\n", "unknown config keys: memory.bogus"},
		{"bad prompt", "[repl]\nprompt = \"maybe\"\n", `invalid repl.prompt "maybe", must be auto, on, or off`},
		{"console handle", "[[device]]\nhandle = 0\nkind = \"null\"\n", "device handle 0 is reserved for the console"},
		{"bad kind", "[[device]]\nhandle = 3\nkind = \"disk\"\n", `invalid device kind "disk" for handle 3`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseConfig(tc.config)
			assert.EqualError(t, err, tc.err)
		})
	}

	_, err = parseConfig("[memory\n")
	assert.Error(t, err, "expected a TOML syntax error")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "kforth.toml")
	require.NoError(t, os.WriteFile(name, []byte(testConfig), 0o644))

	cfg, err := loadConfig(name)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.Memory.DataCells)

	_, err = loadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[repl]\nprompt = 1\n"), 0o644))
	_, err = loadConfig(bad)
	if assert.Error(t, err) {
		assert.True(t, strings.HasPrefix(err.Error(), "parse error in "+bad), "got %v", err)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg, err := parseConfig(testConfig)
	require.NoError(t, err)

	var out strings.Builder
	opts := append(cfg.options(),
		WithInput(strings.NewReader(`65 1 IO! DROP 1 IO@ . . 66 2 IO! . 0 1 1 IOCTL . .`)),
		WithOutput(&out))
	require.NoError(t, New(opts...).Run(context.Background()))
	assert.Equal(t, "-1 65 0 -1 0 ", out.String())
}
