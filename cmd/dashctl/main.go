// Command dashctl inspects the hazard datasets offline: it lists selector
// options, derives dashboard panels for a selection, and validates a data
// directory before deployment.
//
// Usage:
//
//	dashctl options --data-dir data
//	dashctl panels --region NCR --category Hydrometeorological --score Indicators
//	dashctl validate --data-dir data
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/hazard-dashboard/internal/adapter/dataset"
	"github.com/couchcryptid/hazard-dashboard/internal/config"
	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errValidationFailed makes validate exit non-zero after printing its report.
var errValidationFailed = errors.New("validation failed")

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dataDir       string
	countryRegion string
	seriesFilter  bool
	verbose       bool
	files         dataset.Files
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dashctl: %v\n", err)
		os.Exit(2)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{files: dataset.FilesFrom(cfg)}

	root := &cobra.Command{
		Use:           "dashctl",
		Short:         "Inspect and validate hazard dashboard datasets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", cfg.DataDir, "directory holding the dataset files")
	root.PersistentFlags().StringVar(&opts.countryRegion, "country", cfg.CountryRegion, "region name of the whole-country score row")
	root.PersistentFlags().BoolVar(&opts.seriesFilter, "series-filter-category", cfg.SeriesFilterCategory, "restrict the monthly series to the selected hazard category")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log dataset loading")

	root.AddCommand(newOptionsCmd(opts), newPanelsCmd(opts), newValidateCmd(opts))
	return root
}

// logger writes to stderr because stdout carries the command's JSON output,
// and the shared service logger is fixed to stdout.
func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) loadEngine(cmd *cobra.Command) (*engine.Engine, error) {
	ds, err := dataset.Load(o.dataDir, o.files, o.logger(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}
	reg, err := domain.NewRegistry(ds, domain.RegistryOptions{CountryRegion: domain.Region(o.countryRegion)})
	if err != nil {
		return nil, err
	}
	return engine.New(reg, engine.Options{FilterSeriesByCategory: o.seriesFilter}, nil), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
