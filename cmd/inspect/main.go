package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"bookinsight/internal/adapters/observability"
	"bookinsight/internal/app"
	"bookinsight/internal/dataset"
	"bookinsight/internal/shared"
)

// inspect validates and profiles a bookings CSV before it is put in front
// of the dashboard. Exits non-zero when the file cannot back the charts.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	path := cfg.DataPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	snap, err := dataset.Load(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("dataset rejected")
		os.Exit(1)
	}

	q := app.NewDashboardService(dataset.NewStore(snap), nil, 0)
	opts, err := q.FilterOptions(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("profiling failed")
		os.Exit(1)
	}
	summary, err := q.Summary(context.Background(), app.Selection{})
	if err != nil {
		log.Error().Err(err).Msg("profiling failed")
		os.Exit(1)
	}

	log.Info().
		Str("path", path).
		Str("version", snap.Version()).
		Int("rows", snap.Rows()).
		Strs("hotel_types", opts.HotelTypes).
		Ints("years", opts.Years).
		Strs("months", opts.Months).
		Strs("customer_types", opts.CustomerTypes).
		Float64("adr_min", opts.ADRMin).
		Float64("adr_max", opts.ADRMax).
		Float64("mean_adr", summary.AvgADR).
		Float64("total_revenue", summary.TotalRevenue).
		Float64("cancellation_rate_pct", summary.CancellationRate).
		Msg("dataset ok")
}
