package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/malla/internal/config"
	"github.com/abhisek/malla/internal/logging"
)

// globals holds persistent flag values and the resolved configuration
// shared by every subcommand.
type globals struct {
	configFile string
	curriculum string
	backend    string
	dbPath     string
	redisURL   string
	verbose    bool

	cfg     *config.Config
	logOut  io.Closer
	workDir string
}

// Execute runs the malla CLI.
func Execute() error {
	return newRootCmd(&globals{}).ExecuteContext(context.Background())
}

func newRootCmd(g *globals) *cobra.Command {
	root := &cobra.Command{
		Use:          "malla",
		Short:        "Track progress through a prerequisite-gated curriculum",
		Long:         "Malla shows a curriculum as a map of units. Mark units as passed; units whose prerequisites are not all passed stay locked.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.logOut != nil {
				return g.logOut.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, g)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "Config file (default: ./malla.toml, then $XDG_CONFIG_HOME/malla/malla.toml)")
	pf.StringVar(&g.curriculum, "curriculum", "", "Curriculum declaration file (.html or .yaml); empty uses the built-in sample")
	pf.StringVar(&g.backend, "backend", "", "Progress storage backend: sqlite, redis or memory")
	pf.StringVar(&g.dbPath, "db", "", "Path to SQLite database file (overrides MALLA_DB_PATH)")
	pf.StringVar(&g.redisURL, "redis-url", "", "Redis URL for the redis backend (redis://host:port/db)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newStatusCmd(g))
	root.AddCommand(newToggleCmd(g))
	root.AddCommand(newResetCmd(g))
	root.AddCommand(newExportCmd(g))
	root.AddCommand(newImportCmd(g))
	root.AddCommand(newGraphCmd(g))
	root.AddCommand(newCurriculumCmd(g))
	root.AddCommand(newHistoryCmd(g))
	root.AddCommand(newVersionCmd())

	return root
}

// setup loads configuration, applies flags over it and attaches a logger
// to the command context. The TUI logs to the configured file so the
// terminal stays clean; other commands log to stderr.
func (g *globals) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{File: g.configFile, Dir: g.workDir})
	if err != nil {
		return err
	}
	g.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg

	level := logging.ParseLevel(cfg.Log.Level)
	if g.verbose {
		level = log.DebugLevel
	}

	var out io.Writer = cmd.ErrOrStderr()
	if cmd.Root() == cmd {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		g.logOut = f
		out = f
	}

	logger := logging.New(out, level)
	logger.Debug("config loaded", "backend", cfg.Storage.Backend, "curriculum", cfg.Curriculum)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logger))
	return nil
}

// applyFlags lets explicitly set flags override every other source.
func (g *globals) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("curriculum") {
		cfg.Curriculum = g.curriculum
	}
	if flags.Changed("backend") {
		cfg.Storage.Backend = g.backend
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = g.dbPath
	}
	if flags.Changed("redis-url") {
		cfg.Storage.RedisURL = g.redisURL
		if !flags.Changed("backend") {
			cfg.Storage.Backend = config.BackendRedis
		}
	}
}
