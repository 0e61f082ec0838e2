// Command chopshop searches for item build progressions across gold
// checkpoints.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

var version = "dev"

// app carries per-invocation state shared by the subcommands.
type app struct {
	v        *viper.Viper
	logLevel *slog.LevelVar
	stdout   io.Writer
	stderr   io.Writer

	cfg    *config.Config
	log    *LoggerResult
	logger *slog.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	v := viper.New()
	config.BindEnv(v)
	return &app{
		v:        v,
		logLevel: &slog.LevelVar{},
		stdout:   stdout,
		stderr:   stderr,
		logger:   slog.New(slog.NewJSONHandler(stderr, nil)),
	}
}

// load binds the running command's flags, reads the layered config and sets
// up logging.
func (a *app) load(cmd *cobra.Command, tuiMode bool) error {
	bindFlags(a.v, cmd.Flags())

	if a.v.GetBool(FlagVerbose) {
		a.logLevel.Set(slog.LevelDebug)
	}

	cfg, err := config.LoadConfig(a.v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	res, err := SetupLogger(cfg, a.stderr, a.logLevel, tuiMode)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	a.log = res
	a.logger = res.Logger
	a.logger.Debug("config loaded", "catalog", cfg.Paths.Catalog, "profile", cfg.Scoring.Profile)
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
	}
}

func (a *app) loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.LoadFile(a.cfg.Paths.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.logger.Debug("catalog loaded", "path", a.cfg.Paths.Catalog, "items", cat.Len())
	return cat, nil
}

func (a *app) newWorker() (*worker.Worker, error) {
	cat, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	return worker.New(cat, a.cfg, a.logger)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chopshop",
		Short: "Plan item build progressions across gold checkpoints",
		Long: `chopshop plans how an item build grows as gold accumulates.

Each checkpoint names a gold ceiling and the items that must be owned by
then. The search keeps the best partial progressions at every checkpoint,
favouring builds that reuse what was already bought.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .chopshop/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Log file path")
	rootCmd.PersistentFlags().String(FlagCatalog, "", "Item catalog JSON (default: items.json)")
	rootCmd.PersistentFlags().String(FlagUtility, "", "Utility table YAML")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chopshop %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newCompareCmd(a))
	rootCmd.AddCommand(newItemsCmd(a))
	return rootCmd
}

func main() {
	_ = godotenv.Load()

	a := newApp(os.Stdout, os.Stderr)
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		a.logger.Error("command failed", "error", err)
		a.close()
		os.Exit(1)
	}
}
