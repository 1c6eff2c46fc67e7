package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/yurifrl/adinsights/pkg/config"
	"github.com/yurifrl/adinsights/pkg/pipeline"
	"github.com/yurifrl/adinsights/pkg/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "adinsights",
	})

	flags := pflag.NewFlagSet("adinsights-server", pflag.ExitOnError)
	cfgFile := flags.StringP("config", "c", "", "Config file (default is config.yaml)")
	flags.StringP("data-dir", "d", ".", "Directory holding the exports")
	flags.IntP("top-n", "n", pipeline.DefaultTopN, "Default keywords per ranking (5-50)")
	flags.String("format", "csv", "Source file format (csv or xls)")
	flags.String("addr", "0.0.0.0:3000", "Listen address")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Build(*cfgFile, flags)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	srv := server.New(cfg, logger)
	logger.Info("starting server", "addr", cfg.Server.Addr, "data_dir", cfg.DataDir)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
