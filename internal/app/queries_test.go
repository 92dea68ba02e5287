package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"bookinsight/internal/app"
	"bookinsight/internal/domain"
)

// fakeCache marshals through JSON like the redis adapter does. Guarded by
// a mutex because Warmup writes from several goroutines.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	gets  int
	hits  int
	sets  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	c.hits++
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) counts() (gets, hits, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets, c.hits, c.sets
}

func newService(t *testing.T, cache domain.Cache) *app.DashboardService {
	t.Helper()
	return app.NewDashboardService(loadFixture(t), cache, time.Minute)
}

func TestChart_MeanADRForFilteredSubset(t *testing.T) {
	q := newService(t, nil)
	sel := app.Selection{
		HotelTypes:    []string{"Resort Hotel"},
		CustomerTypes: []string{"Transient"},
		ADRMin:        fptr(100),
	}
	table, err := q.Chart(context.Background(), "adr_by_hotel", sel)
	if err != nil {
		t.Fatal(err)
	}
	if table.Chart != "adr_by_hotel" || table.Kind != domain.KindBar {
		t.Fatalf("table = %+v", table)
	}
	if len(table.Labels) != 1 || table.Labels[0] != "Resort Hotel" {
		t.Fatalf("labels = %v", table.Labels)
	}
	// two matching rows with ADR 100 and 150
	if got := table.Series[0].Values[0]; got != 125 {
		t.Fatalf("mean ADR = %v, want 125", got)
	}
}

func TestChart_SameSelectionSameResult(t *testing.T) {
	q := newService(t, nil)
	sel := app.Selection{Years: []int{2016}, Months: []string{"July", "August"}}
	first, err := q.Chart(context.Background(), "revenue_by_segment", sel)
	if err != nil {
		t.Fatal(err)
	}
	second, err := q.Chart(context.Background(), "revenue_by_segment", sel)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestChart_ServesFromCache(t *testing.T) {
	cache := newFakeCache()
	q := newService(t, cache)
	ctx := context.Background()

	if _, err := q.Chart(ctx, "bookings_by_hotel", app.Selection{}); err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 || cache.hits != 0 {
		t.Fatalf("after miss: sets=%d hits=%d", cache.sets, cache.hits)
	}
	if _, err := q.Chart(ctx, "bookings_by_hotel", app.Selection{}); err != nil {
		t.Fatal(err)
	}
	if cache.hits != 1 || cache.sets != 1 {
		t.Fatalf("after hit: sets=%d hits=%d", cache.sets, cache.hits)
	}
}

func TestChart_Unknown(t *testing.T) {
	q := newService(t, nil)
	_, err := q.Chart(context.Background(), "nonesuch", app.Selection{})
	if !errors.Is(err, app.ErrUnknownChart) {
		t.Fatalf("err = %v, want ErrUnknownChart", err)
	}
}

func TestChart_EmptySubsetYieldsEmptyTable(t *testing.T) {
	q := newService(t, nil)
	table, err := q.Chart(context.Background(), "bookings_by_hotel", app.Selection{ADRMin: fptr(1e6)})
	if err != nil {
		t.Fatal(err)
	}
	if !table.Empty() {
		t.Fatalf("table = %+v, want empty", table)
	}
}

func TestSummary_KPIs(t *testing.T) {
	q := newService(t, nil)
	k, err := q.Summary(context.Background(), app.Selection{})
	if err != nil {
		t.Fatal(err)
	}
	if k.TotalBookings != 5 {
		t.Fatalf("bookings = %d, want 5", k.TotalBookings)
	}
	// revenues per row: 300, 750, 80, 120, 120
	if k.TotalRevenue != 1370 {
		t.Fatalf("revenue = %v, want 1370", k.TotalRevenue)
	}
	if k.CancellationRate != 40 { // 2 of 5 canceled
		t.Fatalf("cancellation = %v, want 40", k.CancellationRate)
	}
	if k.UpgradeRate != 20 { // row 2 only
		t.Fatalf("upgrades = %v, want 20", k.UpgradeRate)
	}
}

// Summing revenue over market segments must reproduce the KPI total.
func TestRevenueBySegment_MatchesSummaryTotal(t *testing.T) {
	q := newService(t, nil)
	ctx := context.Background()
	table, err := q.Chart(ctx, "revenue_by_segment", app.Selection{})
	if err != nil {
		t.Fatal(err)
	}
	var parts float64
	for _, v := range table.Series[0].Values {
		parts += v
	}
	k, err := q.Summary(ctx, app.Selection{})
	if err != nil {
		t.Fatal(err)
	}
	if parts != k.TotalRevenue {
		t.Fatalf("segment sum %v != total revenue %v", parts, k.TotalRevenue)
	}
}

func TestFilterOptions(t *testing.T) {
	q := newService(t, nil)
	opts, err := q.FilterOptions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(opts.HotelTypes, []string{"City Hotel", "Resort Hotel"}) {
		t.Fatalf("hotels = %v", opts.HotelTypes)
	}
	if !reflect.DeepEqual(opts.Years, []int{2016, 2017}) {
		t.Fatalf("years = %v", opts.Years)
	}
	if !reflect.DeepEqual(opts.Months, []string{"July", "August"}) {
		t.Fatalf("months = %v, want calendar order", opts.Months)
	}
	if opts.ADRMin != 60 || opts.ADRMax != 150 {
		t.Fatalf("adr range = [%v,%v], want [60,150]", opts.ADRMin, opts.ADRMax)
	}
}

func TestCharts_Catalog(t *testing.T) {
	q := newService(t, nil)
	infos := q.Charts()
	if len(infos) != 24 {
		t.Fatalf("catalog size = %d, want 24", len(infos))
	}
	seen := map[string]bool{}
	for _, info := range infos {
		if info.Name == "" || info.Title == "" || info.Tab == "" || info.Kind == "" {
			t.Fatalf("incomplete entry %+v", info)
		}
		if seen[info.Name] {
			t.Fatalf("duplicate chart %s", info.Name)
		}
		seen[info.Name] = true
	}
	if got := q.ChartsForTab(app.TabOverview); len(got) != 3 {
		t.Fatalf("overview charts = %d, want 3", len(got))
	}
}

// Every catalog entry must build without error against the fixture.
func TestCharts_AllBuild(t *testing.T) {
	q := newService(t, nil)
	ctx := context.Background()
	for _, info := range q.Charts() {
		if _, err := q.Chart(ctx, info.Name, app.Selection{}); err != nil {
			t.Fatalf("%s: %v", info.Name, err)
		}
	}
}

func TestFilteredRecords_HeaderFirst(t *testing.T) {
	q := newService(t, nil)
	recs, err := q.FilteredRecords(context.Background(), app.Selection{HotelTypes: []string{"City Hotel"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 { // header + 2 rows
		t.Fatalf("records = %d, want 3", len(recs))
	}
	if recs[0][0] != domain.ColHotel {
		t.Fatalf("header = %v", recs[0])
	}
}

func TestWarmup_FillsCache(t *testing.T) {
	cache := newFakeCache()
	q := newService(t, cache)
	q.Warmup(context.Background(), 4)
	// 24 charts plus summary plus filter options
	if _, _, sets := cache.counts(); sets != 26 {
		t.Fatalf("sets = %d, want 26", sets)
	}
	_, before, _ := cache.counts()
	if _, err := q.Chart(context.Background(), "adr_monthly", app.Selection{}); err != nil {
		t.Fatal(err)
	}
	if _, after, _ := cache.counts(); after != before+1 {
		t.Fatal("warmed chart must be served from cache")
	}
}
