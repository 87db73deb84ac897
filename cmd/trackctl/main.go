// trackctl 是训练记录的命令行工具：输出历史报表、校验单个字段。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zelrazel/tracktechfit-sub001/internal/config"
	"github.com/zelrazel/tracktechfit-sub001/internal/logging"
	"go.uber.org/zap"
)

type rootOptions struct {
	databasePath string
	catalogPath  string
	timezone     string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "trackctl",
		Short:         "Inspect and validate TrackTechFit workout records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.databasePath, "db", cfg.DatabasePath, "sqlite database path")
	flags.StringVar(&opts.catalogPath, "catalog", cfg.CatalogPath, "exercise catalog YAML (empty uses the built-in catalog)")
	flags.StringVar(&opts.timezone, "tz", cfg.Timezone, "IANA timezone used for week and month buckets")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newReportCmd(opts), newValidateCmd(opts))
	return root
}

func (o *rootOptions) logger() *zap.Logger {
	logger, err := logging.New(o.logLevel)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *rootOptions) appConfig() config.AppConfig {
	return config.AppConfig{
		DatabasePath: o.databasePath,
		CatalogPath:  o.catalogPath,
		Timezone:     o.timezone,
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
