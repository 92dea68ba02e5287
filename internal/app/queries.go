package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"bookinsight/internal/adapters/observability"
	"bookinsight/internal/domain"
)

var ErrUnknownChart = errors.New("unknown chart")

// DashboardService evaluates chart queries as pure functions of the
// current dataset snapshot and a filter selection, with an optional
// cache-aside layer. Cache keys carry the dataset version, so a reload
// silently invalidates everything cached before it.
type DashboardService struct {
	data     domain.Dataset
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewDashboardService(d domain.Dataset, c domain.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{data: d, cache: c, cacheTTL: ttl}
}

func (s *DashboardService) Version() string { return s.data.Version() }

// Charts lists the catalog in page order.
func (s *DashboardService) Charts() []domain.ChartInfo {
	out := make([]domain.ChartInfo, 0, len(chartOrder))
	for _, name := range chartOrder {
		spec := charts[name]
		out = append(out, domain.ChartInfo{
			Name: name, Title: spec.Title, Tab: spec.Tab,
			Kind: spec.Kind, Caption: spec.Caption,
		})
	}
	return out
}

// ChartsForTab narrows the catalog to one dashboard tab.
func (s *DashboardService) ChartsForTab(tab string) []domain.ChartInfo {
	var out []domain.ChartInfo
	for _, info := range s.Charts() {
		if info.Tab == tab {
			out = append(out, info)
		}
	}
	return out
}

// Chart filters the dataset by sel and builds the named chart table.
func (s *DashboardService) Chart(ctx context.Context, name string, sel Selection) (domain.Table, error) {
	spec, ok := charts[name]
	if !ok {
		return domain.Table{}, fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}

	key := fmt.Sprintf("chart:%s:%s:%s", name, s.data.Version(), sel.Key())
	var t domain.Table
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &t); ok {
			return t, nil
		}
	}

	start := time.Now()
	df, err := ApplyFilters(s.data.Frame(), sel)
	if err != nil {
		return domain.Table{}, err
	}
	t, err = spec.Build(df)
	if err != nil {
		return domain.Table{}, fmt.Errorf("build %s: %w", name, err)
	}
	t.Chart, t.Title, t.Kind = name, spec.Title, spec.Kind
	observability.ObserveChartBuild(name, time.Since(start))

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, t, int(s.cacheTTL.Seconds()))
	}
	return t, nil
}

// Summary computes the headline KPIs over the filtered subset.
func (s *DashboardService) Summary(ctx context.Context, sel Selection) (domain.KPISummary, error) {
	key := fmt.Sprintf("summary:%s:%s", s.data.Version(), sel.Key())
	var k domain.KPISummary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &k); ok {
			return k, nil
		}
	}

	df, err := ApplyFilters(s.data.Frame(), sel)
	if err != nil {
		return domain.KPISummary{}, err
	}
	k = domain.KPISummary{
		TotalBookings:    df.Nrow(),
		AvgADR:           meanOf(df, domain.ColADR),
		TotalRevenue:     sumOf(df, domain.ColRevenue),
		CancellationRate: meanOf(df, domain.ColIsCanceled) * 100,
		UpgradeRate:      meanOf(df, domain.ColRoomUpgraded) * 100,
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, k, int(s.cacheTTL.Seconds()))
	}
	return k, nil
}

// FilterOptions derives the sidebar choices from the full dataset.
func (s *DashboardService) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	key := fmt.Sprintf("filters:%s", s.data.Version())
	var opts domain.FilterOptions
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &opts); ok {
			return opts, nil
		}
	}

	df := s.data.Frame()
	opts = domain.FilterOptions{
		HotelTypes:    distinct(df.Col(domain.ColHotel).Records()),
		CustomerTypes: distinct(df.Col(domain.ColCustomerType).Records()),
	}
	for _, y := range distinct(df.Col(domain.ColArrivalYear).Records()) {
		if n, err := strconv.Atoi(y); err == nil {
			opts.Years = append(opts.Years, n)
		}
	}
	sort.Ints(opts.Years)
	present := map[string]bool{}
	for _, m := range df.Col(domain.ColArrivalMonth).Records() {
		present[m] = true
	}
	for _, m := range domain.MonthOrder {
		if present[m] {
			opts.Months = append(opts.Months, m)
		}
	}
	if df.Nrow() > 0 {
		lo := df.Col(domain.ColADR).Min()
		hi := df.Col(domain.ColADR).Max()
		if !math.IsNaN(lo) {
			opts.ADRMin = lo
		}
		if !math.IsNaN(hi) {
			opts.ADRMax = hi
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, opts, int(s.cacheTTL.Seconds()))
	}
	return opts, nil
}

// FilteredRecords returns the filtered subset as CSV-shaped records, header
// row first. Used by the export endpoints.
func (s *DashboardService) FilteredRecords(ctx context.Context, sel Selection) ([][]string, error) {
	df, err := ApplyFilters(s.data.Frame(), sel)
	if err != nil {
		return nil, err
	}
	return df.Records(), nil
}

// Warmup precomputes every chart for the empty selection so the first page
// load after boot hits a warm cache. Bounded worker pool; no-op without a
// cache.
func (s *DashboardService) Warmup(ctx context.Context, workers int) {
	if s.cache == nil || workers <= 0 {
		return
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	for _, name := range chartOrder {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(name string) {
			defer sem.Release(1)
			defer wg.Done()
			if _, err := s.Chart(ctx, name, Selection{}); err != nil {
				log.Warn().Err(err).Str("chart", name).Msg("warmup failed")
			}
		}(name)
	}
	wg.Wait()
	if _, err := s.Summary(ctx, Selection{}); err != nil {
		log.Warn().Err(err).Msg("warmup summary failed")
	}
	if _, err := s.FilterOptions(ctx); err != nil {
		log.Warn().Err(err).Msg("warmup filter options failed")
	}
}

func distinct(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
