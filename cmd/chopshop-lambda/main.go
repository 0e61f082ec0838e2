// Command chopshop-lambda serves progression searches from an AWS Lambda
// function URL. The catalog path comes from CHOPSHOP_CATALOG.
package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/viper"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/catalog"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
	"github.com/FraserHum/dota-chop-shop-sub001/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	v := viper.New()
	config.BindEnv(v)
	cfg, err := config.LoadConfig(v)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if path := os.Getenv("CHOPSHOP_CATALOG"); path != "" {
		cfg.Paths.Catalog = path
	}

	cat, err := catalog.LoadFile(cfg.Paths.Catalog)
	if err != nil {
		logger.Error("load catalog", "path", cfg.Paths.Catalog, "error", err)
		os.Exit(1)
	}
	w, err := worker.New(cat, cfg, logger)
	if err != nil {
		logger.Error("create worker", "error", err)
		os.Exit(1)
	}

	a := &app{worker: w, logger: logger}
	lambda.Start(a.handler)
}
