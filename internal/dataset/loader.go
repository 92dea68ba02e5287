package dataset

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"bookinsight/internal/domain"
)

// columnTypes pins the parse type of every column the dashboard touches.
// agent and company stay strings: the raw file mixes numeric codes with NA.
var columnTypes = map[string]series.Type{
	domain.ColHotel:               series.String,
	domain.ColIsCanceled:          series.Int,
	domain.ColLeadTime:            series.Int,
	domain.ColArrivalYear:         series.Int,
	domain.ColArrivalMonth:        series.String,
	domain.ColWeekendNights:       series.Int,
	domain.ColWeekNights:          series.Int,
	domain.ColChildren:            series.Float,
	domain.ColBabies:              series.Int,
	domain.ColCountry:             series.String,
	domain.ColMarketSegment:       series.String,
	domain.ColDistributionChannel: series.String,
	domain.ColIsRepeatedGuest:     series.Int,
	domain.ColReservedRoomType:    series.String,
	domain.ColAssignedRoomType:    series.String,
	domain.ColAgent:               series.String,
	domain.ColCompany:             series.String,
	domain.ColCustomerType:        series.String,
	domain.ColADR:                 series.Float,
	domain.ColParkingSpaces:       series.Int,
	domain.ColSpecialRequests:     series.Int,
	domain.ColReservationStatus:   series.String,
}

// Snapshot is one immutable load of the bookings file. All derived frames
// share its backing arrays; nothing in the pipeline mutates them.
type Snapshot struct {
	frame    dataframe.DataFrame
	version  string
	Path     string
	LoadedAt time.Time
}

func (s *Snapshot) Frame() dataframe.DataFrame { return s.frame }
func (s *Snapshot) Version() string            { return s.version }
func (s *Snapshot) Rows() int                  { return s.frame.Nrow() }

// Load reads and prepares the bookings CSV at path.
func Load(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	snap, err := LoadBytes(b)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	snap.Path = path
	return snap, nil
}

// LoadBytes parses CSV content, validates the schema, applies the cleaning
// rules and appends the derived columns.
func LoadBytes(b []byte) (*Snapshot, error) {
	df := dataframe.ReadCSV(bytes.NewReader(b),
		dataframe.HasHeader(true),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}
	if err := checkSchema(df); err != nil {
		return nil, err
	}

	// Missing-value rules from the source dataset: unknown children count
	// is zero, unknown origin is its own bucket, unset agent/company use
	// the -1 sentinel.
	df = df.Mutate(fillFloat(df.Col(domain.ColChildren), 0))
	df = df.Mutate(fillString(df.Col(domain.ColCountry), "Unknown"))
	df = df.Mutate(fillString(df.Col(domain.ColAgent), "-1"))
	df = df.Mutate(fillString(df.Col(domain.ColCompany), "-1"))
	if df.Err != nil {
		return nil, fmt.Errorf("clean csv: %w", df.Err)
	}

	df = withDerived(df)
	if df.Err != nil {
		return nil, fmt.Errorf("derive columns: %w", df.Err)
	}

	sum := md5.Sum(b)
	return &Snapshot{
		frame:    df,
		version:  hex.EncodeToString(sum[:])[:12],
		LoadedAt: time.Now(),
	}, nil
}

func checkSchema(df dataframe.DataFrame) error {
	have := make(map[string]bool, len(df.Names()))
	for _, n := range df.Names() {
		have[n] = true
	}
	var missing []string
	for _, n := range domain.RequiredColumns {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("csv missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// withDerived appends total_nights, revenue and room_upgraded.
func withDerived(df dataframe.DataFrame) dataframe.DataFrame {
	week := df.Col(domain.ColWeekNights).Float()
	weekend := df.Col(domain.ColWeekendNights).Float()
	adr := df.Col(domain.ColADR).Float()
	reserved := df.Col(domain.ColReservedRoomType).Records()
	assigned := df.Col(domain.ColAssignedRoomType).Records()

	n := df.Nrow()
	nights := make([]int, n)
	revenue := make([]float64, n)
	upgraded := make([]int, n)
	for i := 0; i < n; i++ {
		wk, we, rate := week[i], weekend[i], adr[i]
		if math.IsNaN(wk) {
			wk = 0
		}
		if math.IsNaN(we) {
			we = 0
		}
		if math.IsNaN(rate) {
			rate = 0
		}
		nights[i] = int(wk + we)
		revenue[i] = rate * (wk + we)
		if assigned[i] != reserved[i] {
			upgraded[i] = 1
		}
	}
	df = df.Mutate(series.New(nights, series.Int, domain.ColTotalNights))
	df = df.Mutate(series.New(revenue, series.Float, domain.ColRevenue))
	df = df.Mutate(series.New(upgraded, series.Int, domain.ColRoomUpgraded))
	return df
}

func fillString(s series.Series, def string) series.Series {
	rec := s.Records()
	for i, v := range rec {
		if v == "" || v == "NA" || v == "NaN" {
			rec[i] = def
		}
	}
	return series.New(rec, series.String, s.Name)
}

func fillFloat(s series.Series, def float64) series.Series {
	vals := s.Float()
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = def
		}
	}
	return series.New(vals, series.Float, s.Name)
}
