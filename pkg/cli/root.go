// Package cli implements the kcc command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"kcc/pkg/compiler"
	"kcc/pkg/config"
)

// errDiagnosed is returned by commands whose failure has already been
// printed as a diagnostic.
var errDiagnosed = errors.New("compilation failed")

type app struct {
	cfgFile  string
	logLevel string
	verbose  bool

	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// syncWriter serialises writes from concurrent compilations.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: &syncWriter{w: stdout}, stderr: &syncWriter{w: stderr}}

	root := &cobra.Command{
		Use:   "kcc",
		Short: "kcc - a C-family compiler front end",
		Long: `kcc lexes and parses a subset of C into an abstract syntax tree.

Commands:
  compile  - compile source files
  tokens   - print the token stream of a file
  ast      - print the syntax tree of a file
  watch    - recompile files whenever they change
  version  - print version information`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./"+config.DefaultFile+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")

	root.AddCommand(a.compileCmd(), a.tokensCmd(), a.astCmd(), a.watchCmd(), a.versionCmd())
	return root
}

// Execute runs kcc with the process arguments.
func Execute() error {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil && !errors.Is(err, errDiagnosed) {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return err
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := a.cfg.General.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.verbose {
		level = "debug"
	}
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if a.cfg.General.LogFormat == "json" {
		h = slog.NewJSONHandler(a.stderr, opts)
	} else {
		h = slog.NewTextHandler(a.stderr, opts)
	}
	a.log = slog.New(h).With("cmd", cmd.Name())
	return nil
}

func (a *app) reporter() *compiler.Reporter {
	return compiler.NewReporter(a.stderr, a.cfg.Diagnostics.Color != "never")
}

func (a *app) options(r *compiler.Reporter) compiler.Options {
	return compiler.Options{Reporter: r, Logger: a.log}
}
