package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose = "verbose"
	FlagConfig  = "config"
	FlagLogFile = "log-file"
	FlagCatalog = "catalog"
	FlagUtility = "utility"

	// Search flags
	FlagPlan       = "plan"
	FlagTargets    = "targets"
	FlagThresholds = "thresholds"
	FlagBoots      = "boots"
	FlagComponents = "components"
	FlagProfile    = "profile"
	FlagBeamWidth  = "beam-width"
	FlagLimit      = "limit"
	FlagMinReuse   = "min-reuse"
	FlagMaxItems   = "max-items"
	FlagTimeout    = "timeout"
	FlagTUI        = "tui"

	// Telemetry flags
	FlagTracing     = "tracing"
	FlagMetricsAddr = "metrics-addr"

	// Output format flags
	FlagJSON = "json"

	// Items flags
	FlagUpgraded = "upgraded"
)

// flagKeys maps flags onto config keys. Flags not listed bind under their
// own name.
var flagKeys = map[string]string{
	FlagCatalog:     "paths.catalog",
	FlagLogFile:     "paths.log",
	FlagUtility:     "paths.utility",
	FlagProfile:     "scoring.profile",
	FlagBeamWidth:   "search.beam_width",
	FlagLimit:       "search.result_limit",
	FlagMinReuse:    "search.min_reuse_ratio",
	FlagMaxItems:    "search.max_items",
	FlagTimeout:     "search.timeout",
	FlagTracing:     "telemetry.tracing",
	FlagMetricsAddr: "telemetry.metrics_addr",
}

// bindFlags binds every flag of the running command. Subcommands share flag
// names, so binding happens per invocation rather than at construction.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		_ = v.BindPFlag(key, f)
	})
}

func addSearchFlags(fs *pflag.FlagSet) {
	fs.String(FlagProfile, "", "Scoring profile (balanced, reuse, efficiency, utility)")
	fs.Int(FlagBeamWidth, 0, "Sequences kept per checkpoint")
	fs.Int(FlagLimit, 0, "Sequences returned (0 = all survivors)")
	fs.Float64(FlagMinReuse, 0, "Minimum reuse ratio between checkpoints")
	fs.Int(FlagMaxItems, 0, "Inventory slots per checkpoint")
	fs.Duration(FlagTimeout, 0, "Abort the search after this long (0 = never)")
	fs.String(FlagPlan, "", "YAML plan file with checkpoints")
	fs.StringSlice(FlagTargets, nil, "Items to complete, one per checkpoint")
	fs.IntSlice(FlagThresholds, nil, "Gold ceiling for each target")
	fs.Bool(FlagBoots, true, "Require footwear at every target checkpoint")
	fs.Bool(FlagComponents, true, "Allow component items in loadouts")
}
