package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leengari/recordstore/internal/config"
	"github.com/leengari/recordstore/internal/engine"
	"github.com/leengari/recordstore/internal/infrastructure/logging"
	storageengine "github.com/leengari/recordstore/internal/storage/engine"
	"github.com/leengari/recordstore/internal/storage/manager"
)

// app carries the state shared by every subcommand
type app struct {
	cfg        *config.Config
	configFile string
	noConfig   bool
	envFiles   []string
	in         io.Reader
	out        io.Writer

	closeLog func()
}

var usage = map[string]string{
	"addr":             "`address` to listen on",
	"storage_root":     "`directory` holding the databases",
	"backend":          "storage backend: file or bbolt",
	"log_level":        "log level: debug, info, warn or error",
	"log_format":       "log format: text or json",
	"seq_url":          "Seq ingestion `url`; empty disables log shipping",
	"static_dir":       "serve the frontend from this `directory` instead of the embedded copy",
	"read_timeout":     "HTTP read timeout",
	"write_timeout":    "HTTP write timeout",
	"shutdown_timeout": "time allowed for in-flight requests on shutdown",
	"max_body_bytes":   "largest accepted request body",
}

// addConfigFlags registers one flag per config variable. Flag values are
// only applied when set on the command line, so defaults shown here never
// override the config file or the environment.
func addConfigFlags(fs *pflag.FlagSet, names ...string) {
	defaults := config.Default()
	for _, name := range names {
		def, _ := defaults.Get(name)
		fs.String(config.FlagName(name), def, usage[name])
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out, closeLog: func() {}}

	rootCmd := &cobra.Command{
		Use:               "recordstore",
		Short:             "A small multi-database record store",
		Long:              "recordstore keeps named databases of typed tables and serves them over HTTP.",
		SilenceUsage:      true,
		PersistentPreRunE: a.preRun,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.closeLog() },
	}
	rootCmd.SetOut(out)

	fs := rootCmd.PersistentFlags()
	fs.StringVar(&a.configFile, "config", "", "`file` to load config from (default "+config.DefaultFile+")")
	fs.BoolVar(&a.noConfig, "no-config", false, "don't load a config file")
	fs.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv `file` to load; multiple allowed (default .env)")
	addConfigFlags(fs, "storage_root", "backend", "log_level", "log_format", "seq_url")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newInspectCmds(a)...)
	return rootCmd
}

// preRun resolves the configuration (defaults, config file, environment,
// flags in that order) and installs the logger
func (a *app) preRun(cmd *cobra.Command, args []string) error {
	a.cfg = config.Default()

	if !a.noConfig {
		path, required := config.DefaultFile, false
		if a.configFile != "" {
			path, required = a.configFile, true
		}
		if err := a.cfg.LoadFile(path, required); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	if err := a.cfg.LoadEnv(a.envFiles...); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var flagErr error
	cmd.Flags().Visit(func(flg *pflag.Flag) {
		if flagErr != nil {
			return
		}
		name := strings.ReplaceAll(flg.Name, "-", "_")
		if _, ok := a.cfg.Get(name); !ok {
			return
		}
		flagErr = a.cfg.Set(name, flg.Value.String())
	})
	if flagErr != nil {
		return fmt.Errorf("config: %w", flagErr)
	}

	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeFn, err := logging.SetupLogger(logging.Options{
		Level:  a.cfg.LogLevel,
		Format: a.cfg.LogFormat,
		SeqURL: a.cfg.SeqURL,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.closeLog = closeFn
	return nil
}

// openEngine opens the configured storage backend. The caller closes the
// returned registry.
func (a *app) openEngine() (*engine.Engine, *manager.Registry, error) {
	se, err := storageengine.New(a.cfg.Backend, a.cfg.StorageRoot)
	if err != nil {
		return nil, nil, err
	}
	registry := manager.NewRegistry(se)
	eng := engine.New(registry)
	eng.AddObserver(engine.NewLoggingObserver())
	return eng, registry, nil
}
