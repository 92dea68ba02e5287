package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsEndpointExposesCounters(t *testing.T) {
	reg := InitRegistry()

	ObserveHTTP("/v1/charts/{name}", "GET", 200, 3*time.Millisecond)
	ObserveCache("redis", "hit")
	ObserveChartBuild("adr_by_hotel", 2*time.Millisecond)
	ObserveReload(5)

	srv := httptest.NewServer(MetricsHandler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	body := string(b)

	for _, want := range []string{
		"bookinsight_http_requests_total",
		"bookinsight_cache_events_total",
		"bookinsight_chart_build_duration_seconds",
		"bookinsight_dataset_reloads_total",
		"bookinsight_dataset_rows 5",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
