package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/jcorbin/kforth/internal/logio"
)

func main() {
	ctx := context.Background()

	var (
		log        logio.Logger
		timeout    time.Duration
		trace      bool
		dump       bool
		noPrelude  bool
		promptMode string
		configFile string
	)
	log.SetOutput(os.Stderr)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump", false, "dump VM state after running")
	flag.BoolVar(&noPrelude, "no-prelude", false, "do not load the prelude vocabulary")
	flag.StringVar(&promptMode, "prompt", "", "prompt mode: auto, on, or off")
	flag.StringVar(&configFile, "config", "", "load configuration from a TOML file")
	flag.Parse()

	var cfg config
	if configFile != "" {
		var err error
		if cfg, err = loadConfig(configFile); err != nil {
			log.Errorf("%v", err)
			os.Exit(log.ExitCode())
		}
	}
	if promptMode != "" {
		cfg.REPL.Prompt = promptMode
		if err := cfg.validate(); err != nil {
			log.Errorf("%v", err)
			os.Exit(log.ExitCode())
		}
	}

	opts := cfg.options()
	if !noPrelude && (cfg.REPL.Prelude == nil || *cfg.REPL.Prelude) {
		opts = append(opts, WithPrelude())
	}

	// inputs run in order, "-" naming stdin; stdin is the only input by default
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	usesStdin := false
	for _, arg := range args {
		usesStdin = usesStdin || arg == "-"
	}

	var (
		stdin  io.Reader = os.Stdin
		stdout io.Writer = os.Stdout
		editor *lineEditor
	)
	prompting := usesStdin && stdinPrompts(cfg.REPL.Prompt)
	if prompting && stdinIsTerminal() {
		var err error
		if editor, err = newLineEditor(os.Stdout, cfg.REPL.History); err != nil {
			log.Errorf("%v", err)
			os.Exit(log.ExitCode())
		}
		stdin, stdout = editor, editor
	}
	opts = append(opts, WithOutput(stdout))

	for _, arg := range args {
		if arg == "-" {
			if prompting {
				opts = append(opts, WithPrompt())
			}
			opts = append(opts, WithInput(stdin))
			continue
		}
		f, err := os.Open(arg)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(log.ExitCode())
		}
		opts = append(opts, WithInput(f))
	}
	if !usesStdin && cfg.REPL.Prompt == "on" {
		opts = append(opts, WithPrompt())
	}

	if trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	vm := New(opts...)
	defer func() {
		log.ErrorIf(vm.Close())
		if editor != nil {
			log.ErrorIf(editor.Close())
		}
		os.Exit(log.ExitCode())
	}()

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	log.ErrorIf(vm.Run(ctx))

	if dump {
		lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
		defer lw.Close()
		vmDumper{vm: vm, out: lw}.dump()
	}
}

// stdinPrompts returns true if standard input should be prompted for: when
// asked to, or when automatic and stdin is a terminal.
func stdinPrompts(mode string) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return stdinIsTerminal()
	}
}

func stdinIsTerminal() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
